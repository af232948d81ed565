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

// Package mapproj projects geographic features onto a map plane and keeps
// the bookkeeping needed to undo the clipping and trimming applied along
// the way, so that features can be re-projected whenever the projection
// changes without re-deriving their geography from the planar data.
package mapproj

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
)

// Kind is the geometry kind of a feature.
type Kind int

const (
	// Polyline is an ordered sequence of vertices. NaN entries separate parts.
	Polyline Kind = iota
	// Polygon is one or more closed rings separated by NaN entries.
	Polygon
	// Point is a set of independent anchor points, such as text or light
	// positions.
	Point
	// Graticule is a two-dimensional mesh stored in row-major order.
	Graticule
)

func (k Kind) String() string {
	switch k {
	case Polyline:
		return "polyline"
	case Polygon:
		return "polygon"
	case Point:
		return "point"
	case Graticule:
		return "graticule"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind returns the Kind with the given name.
func ParseKind(s string) (Kind, error) {
	for _, k := range []Kind{Polyline, Polygon, Point, Graticule} {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("mapproj: unknown feature kind %q", s)
}

// Coords holds parallel coordinate arrays. Y is latitude (or northing),
// X is longitude (or easting) and Z is an optional elevation that is
// either empty or the same length as Y and X.
type Coords struct {
	Y, X, Z []float64
}

// Len returns the number of vertices.
func (c Coords) Len() int { return len(c.Y) }

// Copy returns a deep copy of c.
func (c Coords) Copy() Coords {
	o := Coords{
		Y: append([]float64(nil), c.Y...),
		X: append([]float64(nil), c.X...),
	}
	if len(c.Z) > 0 {
		o.Z = append([]float64(nil), c.Z...)
	}
	return o
}

func (c Coords) check() error {
	if len(c.Y) != len(c.X) {
		return errors.Wrapf(ErrInconsistentArraySizes, "%d latitudes and %d longitudes", len(c.Y), len(c.X))
	}
	if len(c.Z) != 0 && len(c.Z) != len(c.Y) {
		return errors.Wrapf(ErrInconsistentArraySizes, "%d elevations for %d vertices", len(c.Z), len(c.Y))
	}
	return nil
}

func (c Coords) hasZ() bool { return len(c.Z) > 0 }

// append adds a vertex to c. z is ignored when c has no elevation.
func (c *Coords) append(y, x, z float64, withZ bool) {
	c.Y = append(c.Y, y)
	c.X = append(c.X, x)
	if withZ {
		c.Z = append(c.Z, z)
	}
}

func (c Coords) z(i int) float64 {
	if len(c.Z) == 0 {
		return math.NaN()
	}
	return c.Z[i]
}

// GeographicFeature is a feature in geographic coordinates, in the angle
// units of the descriptor it is displayed with.
type GeographicFeature struct {
	Kind Kind
	Coords

	// Rows and Cols give the mesh shape of a Graticule.
	Rows, Cols int
}

// Validate checks that the coordinate arrays are consistent.
func (f *GeographicFeature) Validate() error {
	if err := f.Coords.check(); err != nil {
		return err
	}
	if f.Kind == Graticule && f.Rows*f.Cols != f.Len() {
		return errors.Wrapf(ErrInconsistentArraySizes, "graticule %dx%d with %d vertices", f.Rows, f.Cols, f.Len())
	}
	if f.Kind < Polyline || f.Kind > Graticule {
		return fmt.Errorf("mapproj: invalid feature kind %v", f.Kind)
	}
	return nil
}

// Copy returns a deep copy of f.
func (f *GeographicFeature) Copy() *GeographicFeature {
	return &GeographicFeature{Kind: f.Kind, Coords: f.Coords.Copy(), Rows: f.Rows, Cols: f.Cols}
}

// Restoration holds the records needed to recover the geographic
// coordinates of a projected feature.
type Restoration struct {
	Clip *ClipRecord
	Trim *TrimRecord
}

// PlanarFeature is a projected feature together with its restoration
// records. It is owned by a single displayed feature and never shared.
type PlanarFeature struct {
	Kind Kind
	Coords

	Rows, Cols int

	Restoration Restoration
}

// Copy returns a deep copy of f, including its records.
func (f *PlanarFeature) Copy() *PlanarFeature {
	o := &PlanarFeature{Kind: f.Kind, Coords: f.Coords.Copy(), Rows: f.Rows, Cols: f.Cols}
	if f.Restoration.Clip != nil {
		o.Restoration.Clip = f.Restoration.Clip.copy()
	}
	if f.Restoration.Trim != nil {
		o.Restoration.Trim = f.Restoration.Trim.copy()
	}
	return o
}
