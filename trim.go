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

import "math"

// Window is a rectangle in planar coordinates.
type Window struct {
	XMin, XMax, YMin, YMax float64
}

// NewWindow returns the window spanned by two x and two y limits given
// in either order.
func NewWindow(xlim, ylim [2]float64) Window {
	return Window{
		XMin: math.Min(xlim[0], xlim[1]),
		XMax: math.Max(xlim[0], xlim[1]),
		YMin: math.Min(ylim[0], ylim[1]),
		YMax: math.Max(ylim[0], ylim[1]),
	}
}

// Contains reports whether (x, y) lies inside w, edges included.
func (w Window) Contains(x, y float64) bool {
	return x >= w.XMin && x <= w.XMax && y >= w.YMin && y <= w.YMax
}

// Trim removes the parts of c that fall outside of w and returns the
// trimmed copy together with the record that undoes it.
//
// Polylines, points and graticules have every coordinate outside of the
// window replaced by NaN, which breaks lines at the window edge. Polygons
// are handled ring by ring: a ring with no vertex inside the window is
// replaced entirely by NaN; the vertices of other rings are clamped onto
// the window, in the order low x, high x, low y, high y.
func Trim(c Coords, w Window, kind Kind) (Coords, *TrimRecord) {
	o := c.Copy()
	rec := &TrimRecord{Kind: kind}
	if kind == Polygon {
		trimPolygon(o, w, rec)
	} else {
		trimLine(o, w, rec)
	}
	return o, rec
}

func trimLine(c Coords, w Window, rec *TrimRecord) {
	for i, y := range c.Y {
		if y < w.YMin || y > w.YMax {
			rec.Y = append(rec.Y, Replaced{Index: i, Value: y})
			c.Y[i] = math.NaN()
		}
	}
	for i, x := range c.X {
		if x < w.XMin || x > w.XMax {
			rec.X = append(rec.X, Replaced{Index: i, Value: x})
			c.X[i] = math.NaN()
		}
	}
}

// rings returns the [start, end) ranges of the NaN-separated rings in c.
func rings(c Coords) [][2]int {
	var o [][2]int
	start := -1
	for i := range c.Y {
		sep := math.IsNaN(c.Y[i]) || math.IsNaN(c.X[i])
		switch {
		case sep && start >= 0:
			o = append(o, [2]int{start, i})
			start = -1
		case !sep && start < 0:
			start = i
		}
	}
	if start >= 0 {
		o = append(o, [2]int{start, len(c.Y)})
	}
	return o
}

func trimPolygon(c Coords, w Window, rec *TrimRecord) {
	for _, r := range rings(c) {
		inside := false
		for i := r[0]; i < r[1]; i++ {
			if w.Contains(c.X[i], c.Y[i]) {
				inside = true
				break
			}
		}
		if !inside {
			for i := r[0]; i < r[1]; i++ {
				rec.Y = append(rec.Y, Replaced{Index: i, Value: c.Y[i]})
				rec.X = append(rec.X, Replaced{Index: i, Value: c.X[i]})
				c.Y[i] = math.NaN()
				c.X[i] = math.NaN()
			}
			continue
		}
		clamp(c.X[r[0]:r[1]], r[0], &rec.X, func(v float64) bool { return v < w.XMin }, w.XMin)
		clamp(c.X[r[0]:r[1]], r[0], &rec.X, func(v float64) bool { return v > w.XMax }, w.XMax)
		clamp(c.Y[r[0]:r[1]], r[0], &rec.Y, func(v float64) bool { return v < w.YMin }, w.YMin)
		clamp(c.Y[r[0]:r[1]], r[0], &rec.Y, func(v float64) bool { return v > w.YMax }, w.YMax)
	}
}

// clamp sets every value of v for which out is true to edge, recording
// the old values. offset is the linear index of v[0].
func clamp(v []float64, offset int, rec *[]Replaced, out func(float64) bool, edge float64) {
	for i, val := range v {
		if out(val) {
			*rec = append(*rec, Replaced{Index: offset + i, Value: val})
			v[i] = edge
		}
	}
}
