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
	"sort"
	"sync"

	multierror "github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Reprojector moves projected features from one descriptor to another.
type Reprojector struct {
	// Log receives progress and advisory messages.
	// It defaults to logrus.StandardLogger().
	Log logrus.FieldLogger

	// Workers is the number of features processed concurrently.
	// Values below 2 process features one at a time.
	Workers int
}

// Failure is a feature that could not be re-projected.
type Failure struct {
	// Index is the position of the feature in the input.
	Index int
	Err   error
}

// Report summarizes a call to Reproject.
type Report struct {
	// Changed lists the descriptor fields that differ.
	Changed []string

	// Reprojected is the number of features that were replaced.
	Reprojected int

	// Failures are the features that were left unchanged because of
	// an error.
	Failures []Failure

	// Warning is set when the old and new ellipsoids differ substantially.
	Warning *EllipsoidMismatchWarning
}

// Reproject re-projects features, which were projected with descriptor
// old, so that they can be displayed with descriptor next. Each feature is
// replaced in place when, and only when, its re-projection succeeds.
// When the descriptors agree in every field that affects projected
// coordinates, nothing is done.
//
// A failing feature does not stop the others: the failures are listed
// in the report and combined into the returned error.
func (r *Reprojector) Reproject(old, next Descriptor, features []*PlanarFeature) (*Report, error) {
	log := r.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	rep := &Report{Changed: old.Diff(next)}
	if len(rep.Changed) == 0 {
		log.WithField("features", len(features)).Debug("mapproj: descriptor unchanged; skipping re-projection")
		return rep, nil
	}
	oc, err := compile(old)
	if err != nil {
		return rep, failAll(log, rep, features, errors.Wrap(err, "mapproj: old descriptor"))
	}
	nc, err := compile(next)
	if err != nil {
		return rep, failAll(log, rep, features, errors.Wrap(err, "mapproj: next descriptor"))
	}
	log.WithFields(logrus.Fields{
		"changed":  rep.Changed,
		"from":     oc.desc.Projection,
		"to":       nc.desc.Projection,
		"features": len(features),
	}).Info("mapproj: re-projecting features")

	rep.Warning = CheckEllipsoids(
		Ellipsoid{SemimajorAxis: oc.desc.Geoid[0], Eccentricity: oc.desc.Geoid[1]},
		Ellipsoid{SemimajorAxis: nc.desc.Geoid[0], Eccentricity: nc.desc.Geoid[1]},
	)
	if rep.Warning != nil {
		log.WithError(rep.Warning).Warn("mapproj: ellipsoid mismatch")
	}

	scale := oc.toRad / nc.toRad
	var mu sync.Mutex
	done := func(i int, err error) {
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			rep.Failures = append(rep.Failures, Failure{Index: i, Err: err})
			return
		}
		rep.Reprojected++
	}
	process := func(i int) {
		f := features[i]
		if f == nil {
			done(i, errors.New("mapproj: nil feature"))
			return
		}
		g, err := oc.unproject(f)
		if err != nil {
			done(i, err)
			return
		}
		if scale != 1 {
			rescale(g.Coords, scale)
		}
		if err := g.Validate(); err != nil {
			done(i, err)
			return
		}
		*f = *nc.project(g)
		done(i, nil)
	}

	if r.Workers < 2 {
		for i := range features {
			process(i)
		}
	} else {
		idx := make(chan int)
		var wg sync.WaitGroup
		wg.Add(r.Workers)
		for w := 0; w < r.Workers; w++ {
			go func() {
				defer wg.Done()
				for i := range idx {
					process(i)
				}
			}()
		}
		for i := range features {
			idx <- i
		}
		close(idx)
		wg.Wait()
	}
	sort.Slice(rep.Failures, func(i, j int) bool { return rep.Failures[i].Index < rep.Failures[j].Index })
	return rep, combine(log, rep.Failures)
}

// failAll records err as the failure of every feature, which are all
// left unchanged.
func failAll(log logrus.FieldLogger, rep *Report, features []*PlanarFeature, err error) error {
	if len(features) == 0 {
		log.WithError(err).Error("mapproj: re-projection failed")
		return multierror.Append(nil, err)
	}
	for i := range features {
		rep.Failures = append(rep.Failures, Failure{Index: i, Err: err})
	}
	return combine(log, rep.Failures)
}

// combine logs the failures and merges them into one error.
func combine(log logrus.FieldLogger, failures []Failure) error {
	var result error
	for _, f := range failures {
		log.WithFields(logrus.Fields{
			"feature": f.Index,
		}).WithError(f.Err).Error("mapproj: re-projection failed")
		result = multierror.Append(result, errors.Wrapf(f.Err, "feature %d", f.Index))
	}
	return result
}

// rescale multiplies the horizontal coordinates of c by s.
func rescale(c Coords, s float64) {
	for i := range c.Y {
		c.Y[i] *= s
		c.X[i] *= s
	}
}
