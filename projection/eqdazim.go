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

// antipodeTolerance is the angular distance (radians) from the antipode
// of the center inside which the azimuthal equidistant projection is
// undefined.
const antipodeTolerance = 1e-10

// EqdAzim is an Azimuthal Equidistant projection. Latitudes reaching the
// formulas are rectifying latitudes already rotated so that the center is
// at (0, 0); the sphere has the rectifying radius of the ellipsoid.
// The antipode of the center has no projection.
func EqdAzim(this *Params) (forward, inverse Transformer, err error) {
	r := this.A * newMeridian(this.E*this.E).e0

	forward = func(lat, lon float64) (x, y float64) {
		slat, clat := math.Sincos(lat)
		slon, clon := math.Sincos(lon)
		dist := math.Atan2(math.Hypot(slat, clat*slon), clat*clon)
		if math.Pi-dist < antipodeTolerance {
			return math.NaN(), math.NaN()
		}
		k := 1.
		if dist != 0 {
			k = dist / math.Sin(dist)
		}
		return r * k * clat * slon, r * k * slat
	}
	inverse = func(x, y float64) (lat, lon float64) {
		rho := math.Hypot(x, y)
		if rho == 0 {
			return 0, 0
		}
		dist := rho / r
		if dist > math.Pi {
			return math.NaN(), math.NaN()
		}
		s, c := math.Sincos(dist)
		lat = math.Atan2(y*s, math.Hypot(rho*c, x*s))
		lon = math.Atan2(x*s, rho*c)
		return lat, lon
	}
	return forward, inverse, nil
}

func init() {
	register(EqdAzim, Defaults{
		Class:     Azimuthal,
		Title:     "Azimuthal Equidistant",
		TrimLat:   [2]float64{-90, 90},
		TrimLon:   [2]float64{-180, 180},
		FLatLimit: [2]float64{-90, 90},
		FLonLimit: [2]float64{-160, 160},
	}, "eqdazim", "Azimuthal_Equidistant", "aeqd")
}
