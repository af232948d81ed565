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
	"github.com/google/uuid"
	multierror "github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/mapproj/internal/hash"
)

// Handle identifies a feature held by a Display.
type Handle uuid.UUID

func (h Handle) String() string { return uuid.UUID(h).String() }

// ParseHandle parses the string form of a Handle.
func ParseHandle(s string) (Handle, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return Handle{}, errors.Wrapf(ErrUnknownHandle, "%q: %v", s, err)
	}
	return Handle(u), nil
}

// Display holds the projected features shown with one descriptor, each
// with its own restoration records. It is not safe for concurrent use.
type Display struct {
	desc     Descriptor
	features map[Handle]*entry
	order    []Handle

	// Reprojector is used when the descriptor changes.
	Reprojector Reprojector
}

// entry is a stored feature and the descriptor it is currently
// projected with, which lags behind the display's descriptor when a
// re-projection failed.
type entry struct {
	p    *PlanarFeature
	desc Descriptor
}

// NewDisplay returns an empty display for descriptor d.
func NewDisplay(d Descriptor, log logrus.FieldLogger) (*Display, error) {
	if _, err := compile(d); err != nil {
		return nil, err
	}
	return &Display{
		desc:        d,
		features:    make(map[Handle]*entry),
		Reprojector: Reprojector{Log: log},
	}, nil
}

// Descriptor returns the current descriptor.
func (d *Display) Descriptor() Descriptor { return d.desc }

// Add projects f and stores the result under a new handle.
func (d *Display) Add(f *GeographicFeature) (Handle, *PlanarFeature, error) {
	p, err := Project(d.desc, f)
	if err != nil {
		return Handle{}, nil, err
	}
	h := Handle(uuid.New())
	d.features[h] = &entry{p: p, desc: d.desc}
	d.order = append(d.order, h)
	return h, p.Copy(), nil
}

func (d *Display) get(h Handle) (*entry, error) {
	e, ok := d.features[h]
	if !ok {
		return nil, errors.Wrap(ErrUnknownHandle, h.String())
	}
	return e, nil
}

// Planar returns a copy of the projected feature stored under h.
func (d *Display) Planar(h Handle) (*PlanarFeature, error) {
	e, err := d.get(h)
	if err != nil {
		return nil, err
	}
	return e.p.Copy(), nil
}

// Geographic returns the geographic coordinates of the feature stored
// under h, in the angle units of the descriptor it is projected with.
func (d *Display) Geographic(h Handle) (*GeographicFeature, error) {
	e, err := d.get(h)
	if err != nil {
		return nil, err
	}
	return Unproject(e.desc, e.p)
}

// Remove deletes the feature stored under h.
func (d *Display) Remove(h Handle) error {
	if _, err := d.get(h); err != nil {
		return err
	}
	delete(d.features, h)
	for i, o := range d.order {
		if o == h {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
	return nil
}

// Handles returns the handles of the stored features in the order they
// were added.
func (d *Display) Handles() []Handle {
	return append([]Handle(nil), d.order...)
}

// SetDescriptor makes n the current descriptor and re-projects every
// stored feature for it. A feature that fails keeps its previous
// projection, is listed in the returned map, and is retried by the next
// call. Failure indices in the report refer to the order of Handles.
func (d *Display) SetDescriptor(n Descriptor) (*Report, map[Handle]error, error) {
	if _, err := compile(n); err != nil {
		return nil, nil, err
	}
	d.desc = n

	// Features are grouped by the descriptor they are projected with.
	type group struct {
		desc    Descriptor
		handles []Handle
	}
	var groups []*group
	byKey := make(map[string]*group)
	for _, h := range d.order {
		e := d.features[h]
		k := hash.Hash(e.desc)
		g, ok := byKey[k]
		if !ok {
			g = &group{desc: e.desc}
			byKey[k] = g
			groups = append(groups, g)
		}
		g.handles = append(g.handles, h)
	}

	pos := make(map[Handle]int, len(d.order))
	for i, h := range d.order {
		pos[h] = i
	}
	rep := new(Report)
	failed := make(map[Handle]error)
	var result error
	for _, g := range groups {
		features := make([]*PlanarFeature, len(g.handles))
		for i, h := range g.handles {
			features[i] = d.features[h].p
		}
		r, err := d.Reprojector.Reproject(g.desc, n, features)
		if err != nil {
			result = multierror.Append(result, err)
		}
		rep.Changed = mergeNames(rep.Changed, r.Changed)
		rep.Reprojected += r.Reprojected
		if r.Warning != nil {
			rep.Warning = r.Warning
		}
		bad := make(map[int]bool, len(r.Failures))
		for _, f := range r.Failures {
			h := g.handles[f.Index]
			failed[h] = f.Err
			bad[f.Index] = true
			rep.Failures = append(rep.Failures, Failure{Index: pos[h], Err: f.Err})
		}
		for i, h := range g.handles {
			if !bad[i] {
				d.features[h].desc = n
			}
		}
	}
	return rep, failed, result
}

func mergeNames(a, b []string) []string {
	for _, n := range b {
		found := false
		for _, m := range a {
			if m == n {
				found = true
				break
			}
		}
		if !found {
			a = append(a, n)
		}
	}
	return a
}
