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

package mapproj

import (
	"math"

	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
	"github.com/spatialmodel/mapproj/internal/hash"
	"github.com/spatialmodel/mapproj/projection"
)

// windowSamples is the number of samples per axis used to find the
// planar extent of the frame limits.
const windowSamples = 91

// compiled is a normalized descriptor together with everything derived
// from it that the pipeline needs.
type compiled struct {
	desc   Descriptor
	pr     *projection.Projector
	domain Domain
	window Window

	// toRad converts descriptor angle units to radians.
	toRad float64
}

// cacheSize is the number of compiled descriptors that are kept.
const cacheSize = 64

var compiledCache *lru.Cache

func init() {
	var err error
	compiledCache, err = lru.New(cacheSize)
	if err != nil {
		panic(err)
	}
}

// compile normalizes d and builds its projector, domain and window.
// Results are cached by descriptor fingerprint.
func compile(d Descriptor) (*compiled, error) {
	key := hash.Hash(d)
	if c, ok := compiledCache.Get(key); ok {
		return c.(*compiled), nil
	}
	nd, err := d.Normalize()
	if err != nil {
		return nil, err
	}
	pr, err := projection.New(nd.Projection, nd.params())
	if err != nil {
		return nil, err
	}
	r := nd.AngleUnits.radians()
	c := &compiled{
		desc:  nd,
		pr:    pr,
		toRad: r,
		domain: Domain{
			Lat: [2]float64{nd.TrimLat[0] * r, nd.TrimLat[1] * r},
			Lon: [2]float64{nd.TrimLon[0] * r, nd.TrimLon[1] * r},
			ToFrame: func(y, x float64) (float64, float64) {
				return pr.ToFrame(y*r, x*r)
			},
			Projectable: pr.Projectable,
		},
	}
	if len(nd.XLimit) == 2 {
		c.window = NewWindow([2]float64{nd.XLimit[0], nd.XLimit[1]}, [2]float64{nd.YLimit[0], nd.YLimit[1]})
	} else {
		c.window, err = frameWindow(pr, nd.FLatLimit, nd.FLonLimit, r)
		if err != nil {
			return nil, err
		}
	}
	compiledCache.Add(key, c)
	return c, nil
}

// frameWindow returns the planar extent of the frame limits.
func frameWindow(pr *projection.Projector, flat, flon [2]float64, toRad float64) (Window, error) {
	w := Window{XMin: math.Inf(1), XMax: math.Inf(-1), YMin: math.Inf(1), YMax: math.Inf(-1)}
	for i := 0; i < windowSamples; i++ {
		lat := (flat[0] + (flat[1]-flat[0])*float64(i)/(windowSamples-1)) * toRad
		for j := 0; j < windowSamples; j++ {
			lon := (flon[0] + (flon[1]-flon[0])*float64(j)/(windowSamples-1)) * toRad
			x, y := pr.Forward(lat, lon)
			if math.IsNaN(x) || math.IsNaN(y) {
				continue
			}
			w.XMin, w.XMax = math.Min(w.XMin, x), math.Max(w.XMax, x)
			w.YMin, w.YMax = math.Min(w.YMin, y), math.Max(w.YMax, y)
		}
	}
	if w.XMin > w.XMax || w.YMin > w.YMax {
		return Window{}, errors.Wrapf(ErrInvalidDescriptor, "frame limits %v, %v have no projectable points", flat, flon)
	}
	return w, nil
}

// PlanarWindow returns the planar window that features projected with
// d are trimmed to.
func PlanarWindow(d Descriptor) (Window, error) {
	c, err := compile(d)
	if err != nil {
		return Window{}, err
	}
	return c.window, nil
}

// Project clips, projects and trims f using descriptor d. The
// coordinates of f must be in the angle units of d.
func Project(d Descriptor, f *GeographicFeature) (*PlanarFeature, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	c, err := compile(d)
	if err != nil {
		return nil, err
	}
	return c.project(f), nil
}

func (c *compiled) project(f *GeographicFeature) *PlanarFeature {
	frame, crec := Clip(f.Coords, c.domain, f.Kind)
	planar := Coords{
		Y: make([]float64, frame.Len()),
		X: make([]float64, frame.Len()),
		Z: frame.Z,
	}
	for i := range frame.Y {
		planar.X[i], planar.Y[i] = c.pr.Forward(frame.Y[i], frame.X[i])
	}
	trimmed, trec := Trim(planar, c.window, f.Kind)
	return &PlanarFeature{
		Kind:   f.Kind,
		Coords: trimmed,
		Rows:   f.Rows,
		Cols:   f.Cols,
		Restoration: Restoration{
			Clip: crec,
			Trim: trec,
		},
	}
}

// Unproject recovers the geographic coordinates of a feature that was
// projected with descriptor d, in the angle units of d. Vertices removed
// by clipping are restored exactly; the others are inverse projected.
func Unproject(d Descriptor, p *PlanarFeature) (*GeographicFeature, error) {
	if err := p.Coords.check(); err != nil {
		return nil, err
	}
	c, err := compile(d)
	if err != nil {
		return nil, err
	}
	return c.unproject(p)
}

func (c *compiled) unproject(p *PlanarFeature) (*GeographicFeature, error) {
	planar, err := Restore(p.Coords, p.Restoration.Trim)
	if err != nil {
		return nil, errors.Wrap(err, "undoing trim")
	}
	geo := Coords{
		Y: make([]float64, planar.Len()),
		X: make([]float64, planar.Len()),
		Z: planar.Z,
	}
	for i := range planar.Y {
		lat, lon := c.pr.FromFrame(c.pr.Inverse(planar.X[i], planar.Y[i]))
		geo.Y[i], geo.X[i] = lat/c.toRad, lon/c.toRad
	}
	geo, err = Restore(geo, p.Restoration.Clip)
	if err != nil {
		return nil, errors.Wrap(err, "undoing clip")
	}
	return &GeographicFeature{Kind: p.Kind, Coords: geo, Rows: p.Rows, Cols: p.Cols}, nil
}
