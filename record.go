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

// RestorationRecord is the bookkeeping that undoes a trim or a clip.
// It is either a *TrimRecord or a *ClipRecord.
type RestorationRecord interface {
	restorationRecord()
	// FeatureKind is the kind of the feature the record was made for.
	FeatureKind() Kind
}

// Replaced is one coordinate overwritten by the Trimmer: its linear
// index and the value it had before.
type Replaced struct {
	Index int
	Value float64
}

// TrimRecord lists, per axis and in the order they happened, the
// coordinates that were replaced by NaN or clamped to the window.
type TrimRecord struct {
	Kind Kind
	Y, X []Replaced
}

func (*TrimRecord) restorationRecord() {}

// FeatureKind implements RestorationRecord.
func (r *TrimRecord) FeatureKind() Kind { return r.Kind }

// Len returns the number of replaced coordinates.
func (r *TrimRecord) Len() int { return len(r.Y) + len(r.X) }

func (r *TrimRecord) copy() *TrimRecord {
	return &TrimRecord{
		Kind: r.Kind,
		Y:    append([]Replaced(nil), r.Y...),
		X:    append([]Replaced(nil), r.X...),
	}
}

// ClipRecord holds what is needed to undo a clip.
//
// Removed lists the indices (in the original index space, ascending) of
// the vertices that could not be projected, and RemovedY, RemovedX and
// RemovedZ their original values. Inserted lists the indices (in the
// clipped index space, ascending) of synthetic vertices the Clipper added
// to break lines. For graticules the removed vertices are masked with NaN
// instead of deleted, which Masked reports. For polygons Original holds
// the complete coordinates before clipping.
type ClipRecord struct {
	Kind Kind

	Removed                      []int
	RemovedY, RemovedX, RemovedZ []float64

	Inserted []int

	Masked bool

	Original *Coords
}

func (*ClipRecord) restorationRecord() {}

// FeatureKind implements RestorationRecord.
func (r *ClipRecord) FeatureKind() Kind { return r.Kind }

// Empty reports whether the clip changed nothing.
func (r *ClipRecord) Empty() bool {
	return len(r.Removed) == 0 && len(r.Inserted) == 0
}

func (r *ClipRecord) copy() *ClipRecord {
	o := &ClipRecord{
		Kind:     r.Kind,
		Removed:  append([]int(nil), r.Removed...),
		RemovedY: append([]float64(nil), r.RemovedY...),
		RemovedX: append([]float64(nil), r.RemovedX...),
		RemovedZ: append([]float64(nil), r.RemovedZ...),
		Inserted: append([]int(nil), r.Inserted...),
		Masked:   r.Masked,
	}
	if r.Original != nil {
		c := r.Original.Copy()
		o.Original = &c
	}
	return o
}
