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

// Domain is the part of the projection frame in which points can be
// projected. Lat and Lon are limits in frame coordinates (radians).
type Domain struct {
	Lat, Lon [2]float64

	// ToFrame converts input coordinates to frame coordinates (radians).
	// If nil, the input is assumed to already be in the frame.
	ToFrame func(y, x float64) (fy, fx float64)

	// Projectable, if not nil, reports whether a frame coordinate inside
	// of the limits has a finite projection.
	Projectable func(fy, fx float64) bool
}

func (d Domain) frame(y, x float64) (float64, float64) {
	if d.ToFrame == nil || math.IsNaN(y) || math.IsNaN(x) {
		return y, x
	}
	return d.ToFrame(y, x)
}

func (d Domain) lonLimits() (float64, float64) {
	if d.Lon[0] == 0 && d.Lon[1] == 0 {
		return -math.Pi, math.Pi
	}
	return math.Min(d.Lon[0], d.Lon[1]), math.Max(d.Lon[0], d.Lon[1])
}

// contains reports whether frame coordinate (fy, fx) can be projected.
func (d Domain) contains(fy, fx float64) bool {
	if !(d.Lat[0] == 0 && d.Lat[1] == 0) {
		if fy < math.Min(d.Lat[0], d.Lat[1]) || fy > math.Max(d.Lat[0], d.Lat[1]) {
			return false
		}
	}
	lo, hi := d.lonLimits()
	if fx < lo || fx > hi {
		return false
	}
	return d.Projectable == nil || d.Projectable(fy, fx)
}

// Clip removes the vertices of c that cannot be projected and returns
// the remaining vertices in frame coordinates, together with the record
// that undoes the clip. The record keeps the original input values of
// every removed vertex.
//
// Points simply lose their unprojectable entries. Polylines lose them
// too, and a NaN break is inserted wherever the deletion splits a part;
// segments that cross the back of the frame are split at the frame edge.
// Graticules keep their shape: unprojectable entries are masked with NaN.
// Polygons lose unprojectable vertices and any ring left with fewer than
// three of them, and the record archives the complete original.
// A vertex with only one NaN component is a break; it is recorded as
// removed and replaced with a full NaN break.
func Clip(c Coords, d Domain, kind Kind) (Coords, *ClipRecord) {
	switch kind {
	case Polygon:
		return clipPolygon(c, d)
	case Graticule:
		return maskGraticule(c, d)
	default:
		return clipLine(c, d, kind)
	}
}

// partialNaN reports whether exactly one of y and x is NaN.
func partialNaN(y, x float64) bool {
	return math.IsNaN(y) != math.IsNaN(x)
}

func (r *ClipRecord) remove(c Coords, i int) {
	r.Removed = append(r.Removed, i)
	r.RemovedY = append(r.RemovedY, c.Y[i])
	r.RemovedX = append(r.RemovedX, c.X[i])
	if c.hasZ() {
		r.RemovedZ = append(r.RemovedZ, c.Z[i])
	}
}

func clipLine(c Coords, d Domain, kind Kind) (Coords, *ClipRecord) {
	rec := &ClipRecord{Kind: kind}
	withZ := c.hasZ()
	var o Coords
	lastFinite := false
	pendingBreak := false
	var py, px, pz float64
	for i := range c.Y {
		y, x := c.Y[i], c.X[i]
		if partialNaN(y, x) {
			// A break with one finite component cannot survive the
			// projection, so it is kept in the record instead.
			rec.remove(c, i)
			rec.Inserted = append(rec.Inserted, o.Len())
			o.append(math.NaN(), math.NaN(), math.NaN(), withZ)
			lastFinite, pendingBreak = false, false
			continue
		}
		if math.IsNaN(y) || math.IsNaN(x) {
			fy, fx := d.frame(y, x)
			o.append(fy, fx, c.z(i), withZ)
			lastFinite, pendingBreak = false, false
			continue
		}
		fy, fx := d.frame(y, x)
		if !d.contains(fy, fx) {
			rec.remove(c, i)
			if lastFinite && kind == Polyline {
				pendingBreak = true
			}
			continue
		}
		z := c.z(i)
		switch {
		case pendingBreak:
			rec.Inserted = append(rec.Inserted, o.Len())
			o.append(math.NaN(), math.NaN(), math.NaN(), withZ)
			pendingBreak = false
		case kind == Polyline && lastFinite && math.Abs(fx-px) > math.Pi:
			d.splitSeam(&o, rec, py, px, pz, fy, fx, z, withZ)
		}
		o.append(fy, fx, z, withZ)
		py, px, pz = fy, fx, z
		lastFinite = true
	}
	return o, rec
}

// splitSeam inserts the points where the segment from (y1, x1) to
// (y2, x2) leaves and re-enters the frame across its back edge, with a
// NaN break between them.
func (d Domain) splitSeam(o *Coords, rec *ClipRecord, y1, x1, z1, y2, x2, z2 float64, withZ bool) {
	lo, hi := d.lonLimits()
	s := sign(x1)
	x2u := x2 + 2*math.Pi*s
	e1, e2 := lo, hi
	if s > 0 {
		e1, e2 = hi, lo
	}
	e2u := e2 + 2*math.Pi*s
	at := func(e float64) (float64, float64, bool) {
		t := (e - x1) / (x2u - x1)
		t = math.Max(0, math.Min(1, t))
		y := y1 + t*(y2-y1)
		z := z1 + t*(z2-z1)
		return y, z, d.contains(y, e)
	}
	if y, z, ok := at(e1); ok {
		rec.Inserted = append(rec.Inserted, o.Len())
		o.append(y, e1, z, withZ)
	}
	rec.Inserted = append(rec.Inserted, o.Len())
	o.append(math.NaN(), math.NaN(), math.NaN(), withZ)
	if y, z, ok := at(e2u); ok {
		rec.Inserted = append(rec.Inserted, o.Len())
		o.append(y, e2, z, withZ)
	}
}

func sign(x float64) float64 {
	if x < 0 {
		return -1
	}
	return 1
}

func maskGraticule(c Coords, d Domain) (Coords, *ClipRecord) {
	rec := &ClipRecord{Kind: Graticule, Masked: true}
	o := c.Copy()
	for i := range c.Y {
		fy, fx := d.frame(c.Y[i], c.X[i])
		if partialNaN(fy, fx) || !math.IsNaN(fy) && !math.IsNaN(fx) && !d.contains(fy, fx) {
			rec.remove(c, i)
			fy, fx = math.NaN(), math.NaN()
		}
		o.Y[i], o.X[i] = fy, fx
	}
	return o, rec
}

func clipPolygon(c Coords, d Domain) (Coords, *ClipRecord) {
	orig := c.Copy()
	rec := &ClipRecord{Kind: Polygon, Original: &orig}
	withZ := c.hasZ()
	var o Coords
	for _, r := range rings(c) {
		var ring Coords
		for i := r[0]; i < r[1]; i++ {
			fy, fx := d.frame(c.Y[i], c.X[i])
			if !d.contains(fy, fx) {
				rec.remove(c, i)
				continue
			}
			ring.append(fy, fx, c.z(i), withZ)
		}
		n := ring.Len()
		if n < 3 {
			continue
		}
		closed := c.Y[r[0]] == c.Y[r[1]-1] && c.X[r[0]] == c.X[r[1]-1]
		if closed && (ring.Y[0] != ring.Y[n-1] || ring.X[0] != ring.X[n-1]) {
			ring.append(ring.Y[0], ring.X[0], ring.z(0), withZ)
		}
		if o.Len() > 0 {
			o.append(math.NaN(), math.NaN(), math.NaN(), withZ)
		}
		o.Y = append(o.Y, ring.Y...)
		o.X = append(o.X, ring.X...)
		if withZ {
			o.Z = append(o.Z, ring.Z...)
		}
	}
	return o, rec
}
