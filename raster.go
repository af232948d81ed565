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

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// RasterRef georeferences a regular latitude-longitude grid. Rows run
// from north to south when FromNorth is true and from south to north
// otherwise; columns always run from west to east.
type RasterRef struct {
	Rows, Cols         int
	LatLimit, LonLimit [2]float64
	FromNorth          bool
}

// NewRasterRef returns a raster reference for a grid with the given
// dimensions and outer limits.
func NewRasterRef(rows, cols int, latLimit, lonLimit [2]float64, fromNorth bool) (*RasterRef, error) {
	if rows <= 0 || cols <= 0 {
		return nil, errors.Wrapf(ErrInconsistentArraySizes, "raster size %dx%d", rows, cols)
	}
	if !(latLimit[0] < latLimit[1]) || !(lonLimit[0] < lonLimit[1]) {
		return nil, errors.Errorf("mapproj: raster limits %v, %v must be increasing", latLimit, lonLimit)
	}
	return &RasterRef{Rows: rows, Cols: cols, LatLimit: latLimit, LonLimit: lonLimit, FromNorth: fromNorth}, nil
}

// RefFromVector converts a referencing vector [cellsPerDegree,
// northernLatLimit, westernLonLimit] of a grid with square cells whose
// rows start in the north.
func RefFromVector(v [3]float64, rows, cols int) (*RasterRef, error) {
	if !(v[0] > 0) {
		return nil, errors.Errorf("mapproj: referencing vector density %g must be positive", v[0])
	}
	n, w := v[1], v[2]
	return NewRasterRef(rows, cols,
		[2]float64{n - float64(rows)/v[0], n},
		[2]float64{w, w + float64(cols)/v[0]}, true)
}

// RefFromMatrix converts a 3×2 referencing matrix R, for which
// [lon lat] = [row col 1] R with 1-based row and column indices at cell
// centers. Only grids aligned with the meridians and parallels are
// supported; other matrices return ErrRotatedRaster.
func RefFromMatrix(r mat.Matrix, rows, cols int) (*RasterRef, error) {
	if m, n := r.Dims(); m != 3 || n != 2 {
		return nil, errors.Wrapf(ErrInconsistentArraySizes, "referencing matrix is %dx%d, not 3x2", m, n)
	}
	if r.At(0, 0) != 0 || r.At(1, 1) != 0 {
		return nil, ErrRotatedRaster
	}
	dlat, dlon := r.At(0, 1), r.At(1, 0)
	if dlat == 0 || !(dlon > 0) {
		return nil, errors.Errorf("mapproj: referencing matrix has cell size %g×%g", dlat, dlon)
	}
	edge := func(i float64) (lat, lon float64) {
		return i*dlat + r.At(2, 1), i*dlon + r.At(2, 0)
	}
	lat0, lon0 := edge(0.5)
	lat1, _ := edge(float64(rows) + 0.5)
	_, lon1 := edge(float64(cols) + 0.5)
	return NewRasterRef(rows, cols,
		[2]float64{math.Min(lat0, lat1), math.Max(lat0, lat1)},
		[2]float64{lon0, lon1}, dlat < 0)
}

// CellSize returns the height and width of a cell.
func (r *RasterRef) CellSize() (dlat, dlon float64) {
	return (r.LatLimit[1] - r.LatLimit[0]) / float64(r.Rows), (r.LonLimit[1] - r.LonLimit[0]) / float64(r.Cols)
}

// Matrix returns the 3×2 referencing matrix of r.
func (r *RasterRef) Matrix() *mat.Dense {
	dlat, dlon := r.CellSize()
	m := mat.NewDense(3, 2, nil)
	m.Set(1, 0, dlon)
	m.Set(2, 0, r.LonLimit[0]-0.5*dlon)
	if r.FromNorth {
		m.Set(0, 1, -dlat)
		m.Set(2, 1, r.LatLimit[1]+0.5*dlat)
	} else {
		m.Set(0, 1, dlat)
		m.Set(2, 1, r.LatLimit[0]-0.5*dlat)
	}
	return m
}

// Vector returns the referencing vector of r. It fails unless the cells
// are square and the rows start in the north.
func (r *RasterRef) Vector() ([3]float64, error) {
	dlat, dlon := r.CellSize()
	if !r.FromNorth || math.Abs(dlat-dlon) > 1e-12*math.Max(dlat, dlon) {
		return [3]float64{}, errors.New("mapproj: raster cannot be described by a referencing vector")
	}
	return [3]float64{1 / dlat, r.LatLimit[1], r.LonLimit[0]}, nil
}

// Graticule returns a graticule with gratRows×gratCols vertices spanning
// the raster, in row-major order with rows in the raster's row order.
// Values below 2 select one vertex per cell edge.
func (r *RasterRef) Graticule(gratRows, gratCols int) *GeographicFeature {
	if gratRows < 2 {
		gratRows = r.Rows + 1
	}
	if gratCols < 2 {
		gratCols = r.Cols + 1
	}
	g := &GeographicFeature{
		Kind: Graticule,
		Rows: gratRows,
		Cols: gratCols,
		Coords: Coords{
			Y: make([]float64, gratRows*gratCols),
			X: make([]float64, gratRows*gratCols),
		},
	}
	lat0, lat1 := r.LatLimit[0], r.LatLimit[1]
	if r.FromNorth {
		lat0, lat1 = lat1, lat0
	}
	for i := 0; i < gratRows; i++ {
		lat := lat0 + (lat1-lat0)*float64(i)/float64(gratRows-1)
		for j := 0; j < gratCols; j++ {
			k := i*gratCols + j
			g.Y[k] = lat
			g.X[k] = r.LonLimit[0] + (r.LonLimit[1]-r.LonLimit[0])*float64(j)/float64(gratCols-1)
		}
	}
	return g
}
