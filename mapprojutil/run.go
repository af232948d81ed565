/*
Copyright © 2013 the InMAP authors.
This file is part of InMAP.

InMAP is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

InMAP is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with InMAP.  If not, see <http://www.gnu.org/licenses/>.
*/

package mapprojutil

import (
	"math"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/mapproj"
)

// inUnits converts features read in degrees to the angle units of d.
func inUnits(features []*mapproj.GeographicFeature, d mapproj.Descriptor) {
	if d.AngleUnits != mapproj.Radians {
		return
	}
	for _, f := range features {
		for i := range f.Y {
			f.Y[i] *= math.Pi / 180
			f.X[i] *= math.Pi / 180
		}
	}
}

func readInUnits(in string, d mapproj.Descriptor) ([]*mapproj.GeographicFeature, error) {
	features, err := ReadFeatures(in)
	if err != nil {
		return nil, err
	}
	inUnits(features, d)
	Log.WithFields(logrus.Fields{"file": in, "features": len(features)}).Info("mapproj: read features")
	return features, nil
}

// Project projects the features in file in with descriptor d and writes
// them to file out.
func Project(in, out string, d mapproj.Descriptor) error {
	features, err := readInUnits(in, d)
	if err != nil {
		return err
	}
	planar := make([]*mapproj.PlanarFeature, len(features))
	for i, f := range features {
		if planar[i], err = mapproj.Project(d, f); err != nil {
			return errors.Wrapf(err, "mapproj: projecting feature %d", i)
		}
	}
	if err := WriteFeatures(out, planar); err != nil {
		return err
	}
	Log.WithFields(logrus.Fields{"file": out, "features": len(planar)}).Info("mapproj: wrote projected features")
	return nil
}

// Reproject projects the features in file in with descriptor from,
// re-projects them for descriptor to using the given number of workers,
// and writes them to file out. Features that cannot be re-projected are
// written with their original projection and reported in the returned
// error.
func Reproject(in, out string, from, to mapproj.Descriptor, workers int) (*mapproj.Report, error) {
	features, err := readInUnits(in, from)
	if err != nil {
		return nil, err
	}
	disp, err := mapproj.NewDisplay(from, Log)
	if err != nil {
		return nil, err
	}
	disp.Reprojector.Workers = workers
	for i, f := range features {
		if _, _, err := disp.Add(f); err != nil {
			return nil, errors.Wrapf(err, "mapproj: projecting feature %d", i)
		}
	}
	rep, failed, rerr := disp.SetDescriptor(to)
	if rep == nil {
		return nil, rerr
	}
	for h, err := range failed {
		Log.WithField("feature", h.String()).WithError(err).Warn("mapproj: feature kept its original projection")
	}
	if rep.Warning != nil {
		Log.Warn(rep.Warning.Error())
	}
	handles := disp.Handles()
	planar := make([]*mapproj.PlanarFeature, len(handles))
	for i, h := range handles {
		if planar[i], err = disp.Planar(h); err != nil {
			return rep, err
		}
	}
	if err := WriteFeatures(out, planar); err != nil {
		return rep, err
	}
	return rep, rerr
}

// RoundTrip projects the features in file in with descriptor d, recovers
// their geographic coordinates and returns the largest difference, in the
// angle units of d, between an input coordinate and its recovered value.
func RoundTrip(in string, d mapproj.Descriptor) (float64, error) {
	features, err := readInUnits(in, d)
	if err != nil {
		return math.NaN(), err
	}
	var dev float64
	for i, f := range features {
		p, err := mapproj.Project(d, f)
		if err != nil {
			return math.NaN(), errors.Wrapf(err, "mapproj: projecting feature %d", i)
		}
		g, err := mapproj.Unproject(d, p)
		if err != nil {
			return math.NaN(), errors.Wrapf(err, "mapproj: recovering feature %d", i)
		}
		if g.Len() != f.Len() {
			return math.NaN(), errors.Wrapf(mapproj.ErrRecordMismatch,
				"feature %d has %d vertices after recovery, %d before", i, g.Len(), f.Len())
		}
		for j := range f.Y {
			dev = math.Max(dev, deviation(f.Y[j], g.Y[j]))
			dev = math.Max(dev, deviation(f.X[j], g.X[j]))
		}
	}
	Log.WithField("deviation", dev).Debug("mapproj: round trip complete")
	return dev, nil
}

// deviation is the absolute difference between a and b. NaN matches NaN
// and nothing else.
func deviation(a, b float64) float64 {
	switch {
	case math.IsNaN(a) && math.IsNaN(b):
		return 0
	case math.IsNaN(a) || math.IsNaN(b):
		return math.Inf(1)
	default:
		return math.Abs(a - b)
	}
}

// Graticule projects a graticule of gratRows by gratCols vertices spanning
// the raster ref with descriptor d and writes the projected mesh lines to
// file out.
func Graticule(out string, ref *mapproj.RasterRef, gratRows, gratCols int, d mapproj.Descriptor) error {
	g := ref.Graticule(gratRows, gratCols)
	inUnits([]*mapproj.GeographicFeature{g}, d)
	p, err := mapproj.Project(d, g)
	if err != nil {
		return errors.Wrap(err, "mapproj: projecting graticule")
	}
	if err := WriteFeatures(out, []*mapproj.PlanarFeature{p}); err != nil {
		return err
	}
	Log.WithFields(logrus.Fields{"file": out, "rows": p.Rows, "cols": p.Cols}).Info("mapproj: wrote projected graticule")
	return nil
}
