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
	"reflect"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/kr/pretty"
	"github.com/pkg/errors"
)

func usDescriptor() Descriptor {
	return Descriptor{
		Projection:  "eqdconic",
		MapLatLimit: [2]float64{20, 60},
		MapLonLimit: [2]float64{-130, -60},
	}
}

func TestDiffIgnoresDisplayFields(t *testing.T) {
	a := usDescriptor()
	b := a
	b.Labels.Format = "dms"
	b.Labels.MeridianLabels = true
	b.Grid = true
	b.Frame = true
	if diff := a.Diff(b); len(diff) != 0 {
		t.Errorf("diff %v, want none", diff)
	}
	if a.NeedsReprojection(b) {
		t.Error("label change should not need re-projection")
	}
}

func TestDiffDefaults(t *testing.T) {
	a := usDescriptor()
	b := a
	b.Origin = []float64{0, -95, 0}
	b.AngleUnits = Degrees
	b.Aspect = NormalAspect
	b.Geoid = WGS84.Geoid()
	b.ScaleFactor = 1
	b.MapParallels = []float64{15, 75}
	if diff := a.Diff(b); len(diff) != 0 {
		t.Errorf("explicit defaults: diff %v, want none", diff)
	}

	a = Descriptor{Projection: "mercator"}
	b = Descriptor{Projection: "mercator", Origin: []float64{0, 0, 0}}
	if diff := a.Diff(b); len(diff) != 0 {
		t.Errorf("zero origin: diff %v, want none", diff)
	}

	// Unnormalizable descriptors are compared as given.
	a = Descriptor{Projection: "robinson"}
	b = Descriptor{Projection: "robinson", AngleUnits: Degrees}
	if diff := a.Diff(b); !reflect.DeepEqual(diff, []string{"AngleUnits"}) {
		t.Errorf("invalid descriptors: diff %v", diff)
	}
}

func TestDiff(t *testing.T) {
	a := usDescriptor()
	b := a
	b.MapParallels = []float64{20, 50}
	b.FalseEasting = 500000
	want := []string{"MapParallels", "FalseEasting"}
	if diff := a.Diff(b); !reflect.DeepEqual(diff, want) {
		t.Errorf("have %v, want %v", diff, want)
	}
	b = a
	b.Projection = "EQDCONIC"
	if a.NeedsReprojection(b) {
		t.Error("projection names are case-insensitive")
	}
	a.Origin = []float64{math.NaN(), 0, 0}
	b = a
	b.Origin = []float64{math.NaN(), 0, 0}
	if a.NeedsReprojection(b) {
		t.Error("NaN fields should compare equal")
	}
}

func TestNormalize(t *testing.T) {
	have, err := usDescriptor().Normalize()
	if err != nil {
		t.Fatal(err)
	}
	want := Descriptor{
		Projection:   "eqdconic",
		AngleUnits:   Degrees,
		Aspect:       NormalAspect,
		Geoid:        WGS84.Geoid(),
		MapLatLimit:  [2]float64{20, 60},
		MapLonLimit:  [2]float64{-130, -60},
		FLatLimit:    [2]float64{20, 60},
		FLonLimit:    [2]float64{-35, 35},
		MapParallels: []float64{15, 75},
		Origin:       []float64{0, -95, 0},
		ScaleFactor:  1,
		TrimLat:      [2]float64{-90, 90},
		TrimLon:      [2]float64{-135, 135},
	}
	if diff := pretty.Diff(want, have); len(diff) > 0 {
		t.Errorf("normalized descriptor: %v", diff)
	}
}

func TestNormalizeRadians(t *testing.T) {
	have, err := Descriptor{Projection: "eqdconic", AngleUnits: Radians}.Normalize()
	if err != nil {
		t.Fatal(err)
	}
	if different(have.MapParallels[0], 15*math.Pi/180, 1e-15) || different(have.TrimLon[1], 135*math.Pi/180, 1e-15) {
		t.Errorf("defaults not converted to radians: %v %v", have.MapParallels, have.TrimLon)
	}
	if different(have.MapLonLimit[1], have.FLonLimit[1], 1e-15) {
		t.Errorf("map limits %v from frame limits %v", have.MapLonLimit, have.FLonLimit)
	}
}

func TestNormalizeFrameWithinTrim(t *testing.T) {
	d := Descriptor{Projection: "mercator", FLatLimit: [2]float64{89, -89}, FLonLimit: [2]float64{-180, 180}}
	have, err := d.Normalize()
	if err != nil {
		t.Fatal(err)
	}
	if have.FLatLimit != [2]float64{-86, 86} {
		t.Errorf("frame latitude limits %v", have.FLatLimit)
	}
}

func TestValidate(t *testing.T) {
	for _, test := range []struct {
		name string
		d    Descriptor
		err  error
	}{
		{"unknown", Descriptor{Projection: "robinson"}, ErrUnknownProjection},
		{"units", Descriptor{Projection: "eqdconic", AngleUnits: "grads"}, ErrInvalidDescriptor},
		{"aspect", Descriptor{Projection: "eqdconic", Aspect: "oblique"}, ErrInvalidDescriptor},
		{"parallels", Descriptor{Projection: "eqdconic", MapParallels: []float64{1, 2, 3}}, ErrInvalidDescriptor},
		{"limits", Descriptor{Projection: "eqdconic", XLimit: []float64{0, 1}}, ErrInvalidDescriptor},
		{"geoid", Descriptor{Projection: "eqdconic", Geoid: [2]float64{6378137, 1.5}}, ErrInvalidDescriptor},
		{"ok", usDescriptor(), nil},
	} {
		t.Run(test.name, func(t *testing.T) {
			if err := test.d.Validate(); errors.Cause(err) != test.err {
				t.Errorf("have %v, want %v", err, test.err)
			}
		})
	}
}

func TestDescriptorTOML(t *testing.T) {
	const preset = `
projection = "eqdconic"
angle_units = "degrees"
map_lat_limit = [20.0, 60.0]
map_lon_limit = [-130.0, -60.0]
map_parallels = [29.5, 45.5]
false_easting = 100.0

[labels]
format = "dm"
meridian_labels = true
`
	var d Descriptor
	if _, err := toml.Decode(preset, &d); err != nil {
		t.Fatal(err)
	}
	want := usDescriptor()
	want.AngleUnits = Degrees
	want.MapParallels = []float64{29.5, 45.5}
	want.FalseEasting = 100
	want.Labels = LabelOptions{Format: "dm", MeridianLabels: true}
	if diff := pretty.Diff(want, d); len(diff) > 0 {
		t.Errorf("decoded descriptor: %v", diff)
	}
}
