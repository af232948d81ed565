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
	"github.com/spatialmodel/mapproj/projection"
)

var (
	// ErrInconsistentArraySizes is returned when the latitude, longitude
	// and elevation arrays of a feature do not have matching lengths.
	ErrInconsistentArraySizes = errors.New("mapproj: inconsistent array sizes")

	// ErrDegenerateParameters is returned when the projection constants
	// cannot be derived from a descriptor.
	ErrDegenerateParameters = projection.ErrDegenerateParameters

	// ErrUnknownProjection is returned for a projection family that
	// has not been registered.
	ErrUnknownProjection = projection.ErrUnknownProjection

	// ErrInvalidDescriptor is returned when a descriptor field has an
	// invalid value.
	ErrInvalidDescriptor = errors.New("mapproj: invalid projection descriptor")

	// ErrRecordMismatch is returned when a restoration record does not
	// fit the coordinates it is applied to.
	ErrRecordMismatch = errors.New("mapproj: restoration record does not match coordinates")

	// ErrRotatedRaster is returned for raster referencing matrices that
	// describe rotated or skewed grids.
	ErrRotatedRaster = errors.New("mapproj: raster referencing matrix is rotated or skewed")

	// ErrUnknownHandle is returned by a Display for a handle it does
	// not hold.
	ErrUnknownHandle = errors.New("mapproj: unknown feature handle")
)
