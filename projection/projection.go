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

// Package projection holds the forward and inverse formulas of the
// supported map projection families. All angles are in radians and
// every transformer maps NaN inputs to NaN outputs, so NaN can be used
// to separate the parts of a line or the rings of a polygon.
package projection

import (
	"math"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// ErrDegenerateParameters is returned when the projection constants
// cannot be derived from the parameters, even after the standard
// parallels have been moved off of their singular values.
var ErrDegenerateParameters = errors.New("projection: degenerate projection parameters")

// ErrUnknownProjection is returned when a projection family has not
// been registered.
var ErrUnknownProjection = errors.New("projection: unknown projection family")

// A Transformer maps one coordinate pair to another. Forward transformers
// take (latitude, longitude) and return (x, y); inverse transformers take
// (x, y) and return (latitude, longitude). A non-finite result means the
// input cannot be represented.
type Transformer func(a, b float64) (float64, float64)

// A FamilyFunc creates forward and inverse Transformers for a projection
// family from its parameters. The transformers work in the family's own
// frame: the origin longitude has already been removed from the input.
type FamilyFunc func(p *Params) (forward, inverse Transformer, err error)

// Class is the geometric class of a projection family. It determines how
// geographic coordinates are rotated into the projection frame.
type Class int

const (
	// Conic projections are rotated in longitude only; the origin latitude
	// enters the formulas directly.
	Conic Class = iota
	// Cylindrical projections are rotated like conic ones.
	Cylindrical
	// Azimuthal projections are rotated so that the origin becomes the
	// center of the frame.
	Azimuthal
)

func (c Class) String() string {
	switch c {
	case Conic:
		return "conic"
	case Cylindrical:
		return "cylindrical"
	case Azimuthal:
		return "azimuthal"
	default:
		return "unknown"
	}
}

// Aspect is the orientation of the projected plane.
type Aspect int

const (
	// Normal aspect.
	Normal Aspect = iota
	// Transverse aspect: the planar axes are rotated by 90°.
	Transverse
)

// Params holds the numerical parameters of a projection.
// Angles are in radians.
type Params struct {
	// A is the semimajor axis and E the eccentricity of the ellipsoid.
	A, E float64

	// Origin is the latitude, longitude and orientation of the origin.
	Origin [3]float64

	// Parallels holds one or two standard parallels.
	Parallels []float64

	FalseEasting, FalseNorthing float64

	// ScaleFactor multiplies the projected coordinates. Zero is treated as 1.
	ScaleFactor float64

	Aspect Aspect
}

// Defaults are the default settings of a projection family,
// in degrees.
type Defaults struct {
	Class Class

	// Title is a human-readable name.
	Title string

	// Parallels are the default standard parallels.
	Parallels []float64

	// TrimLat and TrimLon bound the domain (in frame coordinates)
	// beyond which points cannot be projected.
	TrimLat, TrimLon [2]float64

	// FLatLimit and FLonLimit are the default frame limits.
	FLatLimit, FLonLimit [2]float64
}

type family struct {
	f        FamilyFunc
	defaults Defaults
}

var families map[string]family

func register(f FamilyFunc, d Defaults, names ...string) {
	if families == nil {
		families = make(map[string]family)
	}
	for _, n := range names {
		families[strings.ToLower(n)] = family{f: f, defaults: d}
	}
}

// Register adds a projection family under the given names.
// Names are case-insensitive.
func Register(f FamilyFunc, d Defaults, names ...string) {
	register(f, d, names...)
}

// Lookup returns the defaults of the named family.
func Lookup(name string) (Defaults, bool) {
	f, ok := families[strings.ToLower(name)]
	if !ok {
		return Defaults{}, false
	}
	d := f.defaults
	d.Parallels = append([]float64(nil), d.Parallels...)
	return d, true
}

// Names returns the registered family names in sorted order.
func Names() []string {
	o := make([]string, 0, len(families))
	for n := range families {
		o = append(o, n)
	}
	sort.Strings(o)
	return o
}

// A Projector projects frame coordinates of one projection
// configuration to planar coordinates and back.
type Projector struct {
	name    string
	params  Params
	class   Class
	forward Transformer
	inverse Transformer
	aux     *meridian
}

// New creates a Projector for the named family.
func New(name string, p Params) (*Projector, error) {
	f, ok := families[strings.ToLower(name)]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownProjection, "%q", name)
	}
	if p.ScaleFactor == 0 {
		p.ScaleFactor = 1
	}
	if len(p.Parallels) == 0 {
		for _, v := range f.defaults.Parallels {
			p.Parallels = append(p.Parallels, v*deg2rad)
		}
	} else {
		p.Parallels = append([]float64(nil), p.Parallels...)
	}
	pr := &Projector{
		name:   strings.ToLower(name),
		params: p,
		class:  f.defaults.Class,
	}
	if pr.class == Azimuthal {
		m := newMeridian(p.E * p.E)
		pr.aux = &m
	}
	var err error
	pr.forward, pr.inverse, err = f.f(&pr.params)
	if err != nil {
		return nil, errors.Wrapf(err, "projection %s", name)
	}
	return pr, nil
}

// Name returns the family name.
func (pr *Projector) Name() string { return pr.name }

// Class returns the family class.
func (pr *Projector) Class() Class { return pr.class }

// Params returns the parameters the projector was built with.
func (pr *Projector) Params() Params {
	p := pr.params
	p.Parallels = append([]float64(nil), p.Parallels...)
	return p
}

// Forward projects frame coordinates (radians) to planar x and y.
func (pr *Projector) Forward(lat, lon float64) (x, y float64) {
	if math.IsNaN(lat) || math.IsNaN(lon) {
		return math.NaN(), math.NaN()
	}
	x, y = pr.forward(lat, lon)
	if !isFinite(x) || !isFinite(y) {
		return math.NaN(), math.NaN()
	}
	if pr.params.Aspect == Transverse {
		x, y = -y, x
	}
	x = pr.params.ScaleFactor*x + pr.params.FalseEasting
	y = pr.params.ScaleFactor*y + pr.params.FalseNorthing
	return x, y
}

// Inverse converts planar x and y back to frame coordinates (radians).
func (pr *Projector) Inverse(x, y float64) (lat, lon float64) {
	if math.IsNaN(x) || math.IsNaN(y) {
		return math.NaN(), math.NaN()
	}
	x = (x - pr.params.FalseEasting) / pr.params.ScaleFactor
	y = (y - pr.params.FalseNorthing) / pr.params.ScaleFactor
	if pr.params.Aspect == Transverse {
		x, y = y, -x
	}
	return pr.inverse(x, y)
}

// Projectable reports whether the frame coordinates have a finite
// projection.
func (pr *Projector) Projectable(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lon) {
		return true
	}
	x, y := pr.Forward(lat, lon)
	return !math.IsNaN(x) && !math.IsNaN(y)
}

// frameOrigin is the origin used for the frame rotation. Conic and
// cylindrical families only use the origin longitude and orientation.
func (pr *Projector) frameOrigin() [3]float64 {
	o := pr.params.Origin
	switch pr.class {
	case Azimuthal:
		o[0] = pr.aux.rectifying(o[0])
	default:
		o[0] = 0
	}
	return o
}

// ToFrame rotates geographic coordinates (radians) into the projection
// frame.
func (pr *Projector) ToFrame(lat, lon float64) (flat, flon float64) {
	if math.IsNaN(lat) || math.IsNaN(lon) {
		return lat, lon
	}
	if pr.aux != nil {
		lat = pr.aux.rectifying(lat)
	}
	return rotate(lat, lon, pr.frameOrigin())
}

// FromFrame is the inverse of ToFrame.
func (pr *Projector) FromFrame(flat, flon float64) (lat, lon float64) {
	if math.IsNaN(flat) || math.IsNaN(flon) {
		return flat, flon
	}
	lat, lon = unrotate(flat, flon, pr.frameOrigin())
	if pr.aux != nil {
		lat = pr.aux.geodetic(lat)
	}
	return lat, lon
}
