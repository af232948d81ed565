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
	"github.com/pkg/errors"
)

// Restore undoes the trim or clip described by rec and returns the
// coordinates as they were before it was applied. c is not modified.
//
// Trim records are replayed in recorded order, or in reverse order for
// polygons, whose vertices may have been clamped on two edges in turn.
// Clip records first delete the vertices the Clipper inserted and then
// put the removed vertices back, except for polygons, whose archived
// original coordinates are returned as is.
func Restore(c Coords, rec RestorationRecord) (Coords, error) {
	if err := c.check(); err != nil {
		return Coords{}, err
	}
	switch r := rec.(type) {
	case *TrimRecord:
		return restoreTrim(c, r)
	case *ClipRecord:
		return restoreClip(c, r)
	case nil:
		return c.Copy(), nil
	default:
		return Coords{}, errors.Errorf("mapproj: unsupported restoration record %T", rec)
	}
}

func restoreTrim(c Coords, r *TrimRecord) (Coords, error) {
	o := c.Copy()
	if r == nil {
		return o, nil
	}
	n := o.Len()
	for _, v := range [][]Replaced{r.Y, r.X} {
		for _, p := range v {
			if p.Index < 0 || p.Index >= n {
				return Coords{}, errors.Wrapf(ErrRecordMismatch, "trim index %d for %d vertices", p.Index, n)
			}
		}
	}
	if r.Kind == Polygon {
		for i := len(r.Y) - 1; i >= 0; i-- {
			o.Y[r.Y[i].Index] = r.Y[i].Value
		}
		for i := len(r.X) - 1; i >= 0; i-- {
			o.X[r.X[i].Index] = r.X[i].Value
		}
		return o, nil
	}
	for _, p := range r.Y {
		o.Y[p.Index] = p.Value
	}
	for _, p := range r.X {
		o.X[p.Index] = p.Value
	}
	return o, nil
}

func restoreClip(c Coords, r *ClipRecord) (Coords, error) {
	if r == nil {
		return c.Copy(), nil
	}
	if r.Kind == Polygon {
		if r.Original == nil {
			return Coords{}, errors.Wrap(ErrRecordMismatch, "polygon clip record without original coordinates")
		}
		return r.Original.Copy(), nil
	}
	withZ := c.hasZ()
	if len(r.RemovedY) != len(r.Removed) || len(r.RemovedX) != len(r.Removed) ||
		(withZ && len(r.RemovedZ) != len(r.Removed)) {
		return Coords{}, errors.Wrap(ErrRecordMismatch, "clip record value and index counts differ")
	}
	if r.Masked {
		o := c.Copy()
		for k, i := range r.Removed {
			if i < 0 || i >= o.Len() {
				return Coords{}, errors.Wrapf(ErrRecordMismatch, "masked index %d for %d vertices", i, o.Len())
			}
			o.Y[i], o.X[i] = r.RemovedY[k], r.RemovedX[k]
			if withZ {
				o.Z[i] = r.RemovedZ[k]
			}
		}
		return o, nil
	}

	// Drop the inserted vertices.
	var kept Coords
	j := 0
	for i := 0; i < c.Len(); i++ {
		if j < len(r.Inserted) && r.Inserted[j] == i {
			j++
			continue
		}
		kept.append(c.Y[i], c.X[i], c.z(i), withZ)
	}
	if j != len(r.Inserted) {
		return Coords{}, errors.Wrapf(ErrRecordMismatch, "%d inserted vertices recorded, %d found", len(r.Inserted), j)
	}

	// Put the removed vertices back.
	n := kept.Len() + len(r.Removed)
	var o Coords
	k, src := 0, 0
	for i := 0; i < n; i++ {
		if k < len(r.Removed) && r.Removed[k] == i {
			z := 0.
			if withZ {
				z = r.RemovedZ[k]
			}
			o.append(r.RemovedY[k], r.RemovedX[k], z, withZ)
			k++
			continue
		}
		if src >= kept.Len() {
			return Coords{}, errors.Wrapf(ErrRecordMismatch, "removed indices beyond %d vertices", n)
		}
		o.append(kept.Y[src], kept.X[src], kept.z(src), withZ)
		src++
	}
	if k != len(r.Removed) || src != kept.Len() {
		return Coords{}, errors.Wrap(ErrRecordMismatch, "removed indices are not ascending")
	}
	return o, nil
}
