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
	"strings"

	"github.com/pkg/errors"
	"github.com/spatialmodel/mapproj/projection"
	"gonum.org/v1/gonum/floats"
)

// AngleUnits are the units of the angular fields of a Descriptor and of
// the geographic features displayed with it.
type AngleUnits string

// Supported angle units.
const (
	Degrees AngleUnits = "degrees"
	Radians AngleUnits = "radians"
)

// radians returns the factor that converts u to radians.
func (u AngleUnits) radians() float64 {
	if u == Radians {
		return 1
	}
	return math.Pi / 180
}

// Aspect is the orientation of the map on the page.
type Aspect string

// Supported aspects.
const (
	NormalAspect     Aspect = "normal"
	TransverseAspect Aspect = "transverse"
)

// LabelOptions control how the map grid is labeled. They do not affect
// the projected coordinates.
type LabelOptions struct {
	Format         string `toml:"format"`
	Units          string `toml:"units"`
	MeridianLabels bool   `toml:"meridian_labels"`
	ParallelLabels bool   `toml:"parallel_labels"`
	Rotation       bool   `toml:"rotation"`
}

// Descriptor describes one projection configuration. Angular fields are
// in AngleUnits. Zero-valued fields are filled in by Normalize.
type Descriptor struct {
	// Projection is the projection family, e.g. "eqdconic".
	Projection string `toml:"projection"`
	Zone       string `toml:"zone"`

	AngleUnits AngleUnits `toml:"angle_units"`
	Aspect     Aspect     `toml:"aspect"`

	// Geoid holds the semimajor axis (m) and eccentricity.
	Geoid [2]float64 `toml:"geoid"`

	// MapLatLimit and MapLonLimit are the geographic limits of the map.
	MapLatLimit [2]float64 `toml:"map_lat_limit"`
	MapLonLimit [2]float64 `toml:"map_lon_limit"`

	// FLatLimit and FLonLimit are the limits of the map in the frame,
	// the rotated space in which the origin is at zero longitude.
	FLatLimit [2]float64 `toml:"flat_limit"`
	FLonLimit [2]float64 `toml:"flon_limit"`

	// MapParallels holds one or two standard parallels.
	MapParallels []float64 `toml:"map_parallels"`

	// Origin is the latitude, longitude and orientation of the origin.
	Origin []float64 `toml:"origin"`

	FalseEasting  float64 `toml:"false_easting"`
	FalseNorthing float64 `toml:"false_northing"`
	ScaleFactor   float64 `toml:"scale_factor"`

	// TrimLat and TrimLon bound the frame region that can be projected.
	TrimLat [2]float64 `toml:"trim_lat"`
	TrimLon [2]float64 `toml:"trim_lon"`

	// XLimit and YLimit optionally set the planar window explicitly.
	// Otherwise it is the extent of the projected frame limits.
	XLimit []float64 `toml:"x_limit"`
	YLimit []float64 `toml:"y_limit"`

	Labels LabelOptions `toml:"labels"`
	Grid   bool         `toml:"grid"`
	Frame  bool         `toml:"frame"`
}

// Diff returns the names of the fields that differ between d and o and
// that change projected coordinates. Display-only fields are ignored.
// NaN values compare equal. Both descriptors are compared after
// normalization, so an unset field equals its default; if either one
// cannot be normalized they are compared as given.
func (d Descriptor) Diff(o Descriptor) []string {
	if nd, err := d.Normalize(); err == nil {
		if no, err := o.Normalize(); err == nil {
			d, o = nd.anglesInRadians(), no.anglesInRadians()
		}
	}
	var diff []string
	add := func(name string, same bool) {
		if !same {
			diff = append(diff, name)
		}
	}
	add("Projection", strings.EqualFold(d.Projection, o.Projection))
	add("Zone", d.Zone == o.Zone)
	add("AngleUnits", d.AngleUnits == o.AngleUnits)
	add("Aspect", d.Aspect == o.Aspect)
	add("Geoid", floats.Same(d.Geoid[:], o.Geoid[:]))
	add("MapLatLimit", floats.Same(d.MapLatLimit[:], o.MapLatLimit[:]))
	add("MapLonLimit", floats.Same(d.MapLonLimit[:], o.MapLonLimit[:]))
	add("FLatLimit", floats.Same(d.FLatLimit[:], o.FLatLimit[:]))
	add("FLonLimit", floats.Same(d.FLonLimit[:], o.FLonLimit[:]))
	add("MapParallels", floats.Same(d.MapParallels, o.MapParallels))
	add("Origin", floats.Same(d.Origin, o.Origin))
	add("FalseEasting", same(d.FalseEasting, o.FalseEasting))
	add("FalseNorthing", same(d.FalseNorthing, o.FalseNorthing))
	add("ScaleFactor", same(d.ScaleFactor, o.ScaleFactor))
	add("TrimLat", floats.Same(d.TrimLat[:], o.TrimLat[:]))
	add("TrimLon", floats.Same(d.TrimLon[:], o.TrimLon[:]))
	add("XLimit", floats.Same(d.XLimit, o.XLimit))
	add("YLimit", floats.Same(d.YLimit, o.YLimit))
	return diff
}

func same(a, b float64) bool {
	return a == b || (math.IsNaN(a) && math.IsNaN(b))
}

// NeedsReprojection reports whether features projected with d must be
// re-projected to be displayed with o.
func (d Descriptor) NeedsReprojection(o Descriptor) bool {
	return len(d.Diff(o)) > 0
}

// Validate checks the fields of d that Normalize cannot repair.
func (d Descriptor) Validate() error {
	if _, ok := projection.Lookup(d.Projection); !ok {
		return errors.Wrapf(ErrUnknownProjection, "%q", d.Projection)
	}
	switch d.AngleUnits {
	case "", Degrees, Radians:
	default:
		return errors.Wrapf(ErrInvalidDescriptor, "angle units %q", d.AngleUnits)
	}
	switch d.Aspect {
	case "", NormalAspect, TransverseAspect:
	default:
		return errors.Wrapf(ErrInvalidDescriptor, "aspect %q", d.Aspect)
	}
	if len(d.MapParallels) > 2 {
		return errors.Wrapf(ErrInvalidDescriptor, "%d standard parallels", len(d.MapParallels))
	}
	if len(d.Origin) > 3 {
		return errors.Wrapf(ErrInvalidDescriptor, "origin has %d elements", len(d.Origin))
	}
	if (len(d.XLimit) != 0 && len(d.XLimit) != 2) || (len(d.YLimit) != 0 && len(d.YLimit) != 2) {
		return errors.Wrap(ErrInvalidDescriptor, "x and y limits need two values each")
	}
	if len(d.XLimit) != len(d.YLimit) {
		return errors.Wrap(ErrInvalidDescriptor, "x and y limits must be set together")
	}
	if d.Geoid[0] < 0 || d.Geoid[1] < 0 || d.Geoid[1] >= 1 {
		return errors.Wrapf(ErrInvalidDescriptor, "geoid %v", d.Geoid)
	}
	return nil
}

// anglesInRadians returns a copy of a normalized descriptor with its
// angular fields converted to radians. AngleUnits is left as it is.
func (d Descriptor) anglesInRadians() Descriptor {
	k := d.AngleUnits.radians()
	pair := func(v [2]float64) [2]float64 { return [2]float64{v[0] * k, v[1] * k} }
	slice := func(v []float64) []float64 {
		o := make([]float64, len(v))
		for i, x := range v {
			o[i] = x * k
		}
		return o
	}
	d.MapLatLimit, d.MapLonLimit = pair(d.MapLatLimit), pair(d.MapLonLimit)
	d.FLatLimit, d.FLonLimit = pair(d.FLatLimit), pair(d.FLonLimit)
	d.TrimLat, d.TrimLon = pair(d.TrimLat), pair(d.TrimLon)
	d.MapParallels = slice(d.MapParallels)
	d.Origin = slice(d.Origin)
	return d
}

func isZero(v [2]float64) bool { return v[0] == 0 && v[1] == 0 }

// Normalize returns a copy of d with its unset fields filled in from the
// defaults of its projection family. The geoid defaults to WGS84, the
// scale factor to 1 and the origin longitude to the center of the map
// longitude limits. Frame limits are derived from map limits, or the
// other way around when only frame limits are set.
func (d Descriptor) Normalize() (Descriptor, error) {
	if err := d.Validate(); err != nil {
		return Descriptor{}, err
	}
	def, _ := projection.Lookup(d.Projection)
	o := d
	o.Projection = strings.ToLower(d.Projection)
	if o.AngleUnits == "" {
		o.AngleUnits = Degrees
	}
	if o.Aspect == "" {
		o.Aspect = NormalAspect
	}
	if isZero(o.Geoid) {
		o.Geoid = [2]float64{WGS84.SemimajorAxis, WGS84.Eccentricity}
	}
	if o.ScaleFactor == 0 {
		o.ScaleFactor = 1
	}
	f := math.Pi / 180 / o.AngleUnits.radians() // degrees to units
	conv := func(v [2]float64) [2]float64 { return [2]float64{v[0] * f, v[1] * f} }

	if len(o.MapParallels) == 0 && len(def.Parallels) > 0 {
		o.MapParallels = make([]float64, len(def.Parallels))
		for i, p := range def.Parallels {
			o.MapParallels[i] = p * f
		}
	} else {
		o.MapParallels = append([]float64(nil), o.MapParallels...)
	}

	origin := make([]float64, 3)
	copy(origin, o.Origin)
	if o.Origin == nil && !isZero(o.MapLonLimit) {
		origin[1] = (o.MapLonLimit[0] + o.MapLonLimit[1]) / 2
	}
	o.Origin = origin

	if isZero(o.TrimLat) {
		o.TrimLat = conv(def.TrimLat)
	}
	if isZero(o.TrimLon) {
		o.TrimLon = conv(def.TrimLon)
	}

	azimuthal := def.Class == projection.Azimuthal
	if isZero(o.FLatLimit) && isZero(o.FLonLimit) {
		if !isZero(o.MapLatLimit) && !azimuthal {
			o.FLatLimit = o.MapLatLimit
		} else {
			o.FLatLimit = conv(def.FLatLimit)
		}
		if !isZero(o.MapLonLimit) && !azimuthal {
			o.FLonLimit = [2]float64{o.MapLonLimit[0] - origin[1], o.MapLonLimit[1] - origin[1]}
		} else {
			o.FLonLimit = conv(def.FLonLimit)
		}
	}
	o.FLatLimit = within(o.FLatLimit, o.TrimLat)
	o.FLonLimit = within(o.FLonLimit, o.TrimLon)
	if isZero(o.MapLatLimit) {
		if azimuthal {
			o.MapLatLimit = conv([2]float64{-90, 90})
		} else {
			o.MapLatLimit = o.FLatLimit
		}
	}
	if isZero(o.MapLonLimit) {
		if azimuthal {
			o.MapLonLimit = [2]float64{origin[1] - 180*f, origin[1] + 180*f}
		} else {
			o.MapLonLimit = [2]float64{o.FLonLimit[0] + origin[1], o.FLonLimit[1] + origin[1]}
		}
	}
	return o, nil
}

// within sorts v and clamps it to the range of lim.
func within(v, lim [2]float64) [2]float64 {
	lo, hi := math.Min(lim[0], lim[1]), math.Max(lim[0], lim[1])
	a, b := math.Min(v[0], v[1]), math.Max(v[0], v[1])
	return [2]float64{math.Max(a, lo), math.Min(b, hi)}
}

// params returns the projection parameters of a normalized descriptor.
func (d Descriptor) params() projection.Params {
	r := d.AngleUnits.radians()
	p := projection.Params{
		A:             d.Geoid[0],
		E:             d.Geoid[1],
		FalseEasting:  d.FalseEasting,
		FalseNorthing: d.FalseNorthing,
		ScaleFactor:   d.ScaleFactor,
	}
	for i := 0; i < 3 && i < len(d.Origin); i++ {
		p.Origin[i] = d.Origin[i] * r
	}
	for _, v := range d.MapParallels {
		p.Parallels = append(p.Parallels, v*r)
	}
	if d.Aspect == TransverseAspect {
		p.Aspect = projection.Transverse
	}
	return p
}
