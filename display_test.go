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
	"testing"

	"github.com/pkg/errors"
)

func TestDisplay(t *testing.T) {
	d, err := NewDisplay(usDescriptor(), testReprojector(1).Log)
	if err != nil {
		t.Fatal(err)
	}
	f := &GeographicFeature{
		Kind:   Polygon,
		Coords: Coords{Y: []float64{30, 40, 45, 30}, X: []float64{-120, -95, 50, -120}},
	}
	h, p, err := d.Add(f)
	if err != nil {
		t.Fatal(err)
	}
	p.X[0] = 0 // The returned copy is not shared.
	stored, err := d.Planar(h)
	if err != nil {
		t.Fatal(err)
	}
	if stored.X[0] == 0 {
		t.Error("planar feature is shared with the caller")
	}
	if hs := d.Handles(); len(hs) != 1 || hs[0] != h {
		t.Errorf("handles %v", hs)
	}
	h2, err := ParseHandle(h.String())
	if err != nil || h2 != h {
		t.Errorf("handle %v does not round trip: %v", h, err)
	}

	rep, failed, err := d.SetDescriptor(Descriptor{Projection: "mercator"})
	if err != nil {
		t.Fatal(err)
	}
	if len(failed) != 0 || rep.Reprojected != 1 {
		t.Errorf("report %+v, failed %v", rep, failed)
	}
	if d.Descriptor().Projection != "mercator" {
		t.Errorf("descriptor %+v", d.Descriptor())
	}
	g, err := d.Geographic(h)
	if err != nil {
		t.Fatal(err)
	}
	sameCoords(t, "polygon", g.Coords, f.Coords)

	if err := d.Remove(h); err != nil {
		t.Fatal(err)
	}
	if _, err := d.Planar(h); errors.Cause(err) != ErrUnknownHandle {
		t.Errorf("have %v, want %v", err, ErrUnknownHandle)
	}
	if err := d.Remove(h); errors.Cause(err) != ErrUnknownHandle {
		t.Errorf("have %v, want %v", err, ErrUnknownHandle)
	}
}

func TestDisplayKeepsFailedFeatures(t *testing.T) {
	d, err := NewDisplay(usDescriptor(), testReprojector(1).Log)
	if err != nil {
		t.Fatal(err)
	}
	line := &GeographicFeature{Kind: Polyline, Coords: Coords{Y: []float64{40, 45}, X: []float64{-100, -90}}}
	good, _, err := d.Add(line)
	if err != nil {
		t.Fatal(err)
	}
	bad, _, err := d.Add(line)
	if err != nil {
		t.Fatal(err)
	}
	e := d.features[bad]
	e.p.Restoration.Trim.X = append(e.p.Restoration.Trim.X, Replaced{Index: 99})

	rep, failed, err := d.SetDescriptor(Descriptor{Projection: "mercator"})
	if err == nil {
		t.Fatal("expected an error")
	}
	if _, ok := failed[bad]; !ok || len(failed) != 1 {
		t.Errorf("failed %v", failed)
	}
	if len(rep.Failures) != 1 || rep.Failures[0].Index != 1 {
		t.Errorf("failures %+v", rep.Failures)
	}
	if d.features[good].desc.Projection != "mercator" || d.features[bad].desc.Projection != "eqdconic" {
		t.Error("features should keep the descriptor they are projected with")
	}
}

func TestNewDisplayInvalid(t *testing.T) {
	if _, err := NewDisplay(Descriptor{Projection: "nope"}, nil); errors.Cause(err) != ErrUnknownProjection {
		t.Errorf("have %v, want %v", err, ErrUnknownProjection)
	}
}
