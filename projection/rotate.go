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

package projection

import "math"

// rotate moves the point (lat, lon) into a frame whose (0, 0) point is
// the origin o = (lat0, lon0, orientation). When only the origin longitude
// is set, the rotation reduces to a longitude shift.
func rotate(lat, lon float64, o [3]float64) (float64, float64) {
	if o[0] == 0 && o[2] == 0 {
		return lat, wrapPi(lon - o[1])
	}
	x, y, z := toCartesian(lat, lon)

	// About z by -lon0.
	s, c := math.Sincos(o[1])
	x, y = x*c+y*s, -x*s+y*c

	// About y by lat0, bringing the origin to the equator.
	s, c = math.Sincos(o[0])
	x, z = x*c+z*s, -x*s+z*c

	// About x by the orientation.
	s, c = math.Sincos(o[2])
	y, z = y*c+z*s, -y*s+z*c

	return fromCartesian(x, y, z)
}

// unrotate is the inverse of rotate.
func unrotate(lat, lon float64, o [3]float64) (float64, float64) {
	if o[0] == 0 && o[2] == 0 {
		return lat, wrapPi(lon + o[1])
	}
	x, y, z := toCartesian(lat, lon)

	s, c := math.Sincos(o[2])
	y, z = y*c-z*s, y*s+z*c

	s, c = math.Sincos(o[0])
	x, z = x*c-z*s, x*s+z*c

	s, c = math.Sincos(o[1])
	x, y = x*c-y*s, x*s+y*c

	return fromCartesian(x, y, z)
}

func toCartesian(lat, lon float64) (x, y, z float64) {
	slat, clat := math.Sincos(lat)
	slon, clon := math.Sincos(lon)
	return clat * clon, clat * slon, slat
}

func fromCartesian(x, y, z float64) (lat, lon float64) {
	return math.Atan2(z, math.Hypot(x, y)), math.Atan2(y, x)
}
