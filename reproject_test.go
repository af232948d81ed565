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
	"io/ioutil"
	"math"
	"testing"

	multierror "github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
)

func testReprojector(workers int) *Reprojector {
	log := logrus.New()
	log.Out = ioutil.Discard
	return &Reprojector{Log: log, Workers: workers}
}

func projectLine(t *testing.T, d Descriptor, y, x []float64) *PlanarFeature {
	t.Helper()
	p, err := Project(d, &GeographicFeature{Kind: Polyline, Coords: Coords{Y: y, X: x}})
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestReprojectNoOp(t *testing.T) {
	d := usDescriptor()
	p := projectLine(t, d, []float64{40, 45}, []float64{-100, -90})
	// A broken record would make any re-projection fail.
	p.Restoration.Trim.Y = append(p.Restoration.Trim.Y, Replaced{Index: 99})
	before := p.Copy()

	next := d
	next.Labels.Format = "dms"
	rep, err := testReprojector(1).Reproject(d, next, []*PlanarFeature{p})
	if err != nil {
		t.Fatal(err)
	}
	if rep.Reprojected != 0 || len(rep.Changed) != 0 {
		t.Errorf("report %+v", rep)
	}
	sameCoords(t, "feature", p.Coords, before.Coords)
}

func TestReproject(t *testing.T) {
	d := usDescriptor()
	next := Descriptor{Projection: "mercator"}
	f := &GeographicFeature{
		Kind:   Polyline,
		Coords: Coords{Y: []float64{40, 45, 41}, X: []float64{-100, 50, -90}},
	}
	p, err := Project(d, f)
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Restoration.Clip.Removed) != 1 {
		t.Fatalf("clip record %+v", p.Restoration.Clip)
	}
	rep, err := testReprojector(1).Reproject(d, next, []*PlanarFeature{p})
	if err != nil {
		t.Fatal(err)
	}
	if rep.Reprojected != 1 {
		t.Errorf("reprojected %d", rep.Reprojected)
	}
	// The point that was clipped under the conic projection can be
	// displayed with Mercator.
	if !p.Restoration.Clip.Empty() {
		t.Errorf("clip record %+v", p.Restoration.Clip)
	}
	want, err := Project(next, f)
	if err != nil {
		t.Fatal(err)
	}
	closeCoords(t, "reprojected", p.Coords, want.Coords, 1e-3)
	g, err := Unproject(next, p)
	if err != nil {
		t.Fatal(err)
	}
	closeCoords(t, "geographic", g.Coords, f.Coords, testTolerance)
}

func TestReprojectUnits(t *testing.T) {
	d := Descriptor{Projection: "eqdconic"}
	next := Descriptor{Projection: "eqdconic", AngleUnits: Radians}
	p := projectLine(t, d, []float64{40, 45}, []float64{-100, -90})
	before := p.Copy()
	rep, err := testReprojector(1).Reproject(d, next, []*PlanarFeature{p})
	if err != nil {
		t.Fatal(err)
	}
	if len(rep.Changed) != 1 || rep.Changed[0] != "AngleUnits" {
		t.Errorf("changed %v", rep.Changed)
	}
	closeCoords(t, "planar", p.Coords, before.Coords, 1e-3)
	g, err := Unproject(next, p)
	if err != nil {
		t.Fatal(err)
	}
	closeCoords(t, "radians", g.Coords, Coords{
		Y: []float64{40 * math.Pi / 180, 45 * math.Pi / 180},
		X: []float64{-100 * math.Pi / 180, -90 * math.Pi / 180},
	}, 1e-9)
}

func TestReprojectIsolatesFailures(t *testing.T) {
	d := usDescriptor()
	next := Descriptor{Projection: "mercator"}
	features := []*PlanarFeature{
		projectLine(t, d, []float64{40, 45}, []float64{-100, -90}),
		projectLine(t, d, []float64{30, 35}, []float64{-100, -90}),
		projectLine(t, d, []float64{50, 55}, []float64{-100, -90}),
	}
	features[1].Restoration.Trim.X = append(features[1].Restoration.Trim.X, Replaced{Index: 99})
	bad := features[1].Copy()

	rep, err := testReprojector(1).Reproject(d, next, features)
	if err == nil {
		t.Fatal("expected an error")
	}
	if rep.Reprojected != 2 {
		t.Errorf("reprojected %d, want 2", rep.Reprojected)
	}
	if len(rep.Failures) != 1 || rep.Failures[0].Index != 1 {
		t.Fatalf("failures %+v", rep.Failures)
	}
	if errors.Cause(rep.Failures[0].Err) != ErrRecordMismatch {
		t.Errorf("failure cause %v", rep.Failures[0].Err)
	}
	sameCoords(t, "failed feature", features[1].Coords, bad.Coords)
}

func TestReprojectInvalidDescriptor(t *testing.T) {
	d := usDescriptor()
	badGeoid := d
	badGeoid.Geoid = [2]float64{6378137, 1.5}
	degenerate := d
	degenerate.MapParallels = []float64{30, -30}
	degenerate.Geoid = [2]float64{6378137, 0.9999999}
	tests := []struct {
		name      string
		old, next Descriptor
		cause     error
	}{
		{name: "next", old: d, next: Descriptor{Projection: "robinson"}, cause: ErrUnknownProjection},
		{name: "old", old: badGeoid, next: d, cause: ErrInvalidDescriptor},
		{name: "degenerate", old: d, next: degenerate, cause: ErrDegenerateParameters},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			features := []*PlanarFeature{
				projectLine(t, d, []float64{40, 45}, []float64{-100, -90}),
				projectLine(t, d, []float64{30, 35}, []float64{-100, -90}),
			}
			before := []*PlanarFeature{features[0].Copy(), features[1].Copy()}
			rep, err := testReprojector(2).Reproject(test.old, test.next, features)
			if err == nil {
				t.Fatal("expected an error")
			}
			if merr, ok := err.(*multierror.Error); !ok || len(merr.Errors) != 2 {
				t.Errorf("error %v should combine one failure per feature", err)
			}
			if rep.Reprojected != 0 || len(rep.Failures) != 2 {
				t.Fatalf("report %+v", rep)
			}
			for i, f := range rep.Failures {
				if f.Index != i {
					t.Errorf("failure %d has index %d", i, f.Index)
				}
				if errors.Cause(f.Err) != test.cause {
					t.Errorf("failure %d: have %v, want %v", i, f.Err, test.cause)
				}
				sameCoords(t, "unchanged", features[i].Coords, before[i].Coords)
			}
		})
	}
}

func TestReprojectEllipsoidWarning(t *testing.T) {
	d := usDescriptor()
	next := d
	next.Geoid = Sphere.Geoid()
	p := projectLine(t, d, []float64{40, 45}, []float64{-100, -90})
	rep, err := testReprojector(1).Reproject(d, next, []*PlanarFeature{p})
	if err != nil {
		t.Fatal(err)
	}
	if rep.Warning == nil {
		t.Error("expected an ellipsoid warning")
	}
	if rep.Reprojected != 1 {
		t.Errorf("reprojected %d", rep.Reprojected)
	}
}

func TestReprojectWorkers(t *testing.T) {
	d := usDescriptor()
	next := Descriptor{Projection: "eqdazim", Origin: []float64{40, -95}}
	var seq, par []*PlanarFeature
	for i := 0; i < 20; i++ {
		lat := 25 + float64(i)
		seq = append(seq, projectLine(t, d, []float64{lat, lat + 1}, []float64{-120, -80}))
		par = append(par, seq[i].Copy())
	}
	if _, err := testReprojector(1).Reproject(d, next, seq); err != nil {
		t.Fatal(err)
	}
	rep, err := testReprojector(4).Reproject(d, next, par)
	if err != nil {
		t.Fatal(err)
	}
	if rep.Reprojected != 20 {
		t.Errorf("reprojected %d", rep.Reprojected)
	}
	for i := range seq {
		if !floats.Same(seq[i].X, par[i].X) || !floats.Same(seq[i].Y, par[i].Y) {
			t.Errorf("feature %d differs between sequential and concurrent runs", i)
		}
	}
}
