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

import (
	"math"

	"github.com/pkg/errors"
)

// EqdCylin is an Equidistant Cylindrical projection on the ellipsoid.
// Meridians are spaced to be true to scale along the standard parallel
// and parallels are spaced by their meridian distance from the origin
// latitude.
func EqdCylin(this *Params) (forward, inverse Transformer, err error) {
	if len(this.Parallels) == 0 {
		return nil, nil, errors.New("projection.EqdCylin: need a standard parallel")
	}
	a := this.A
	m := newMeridian(this.E * this.E)
	s, c := math.Sincos(this.Parallels[0])
	k := msfnz(this.E, s, c)
	if !(k > 0) {
		return nil, nil, errors.Wrapf(ErrDegenerateParameters,
			"equidistant cylindrical with standard parallel %g", this.Parallels[0]*rad2deg)
	}
	ml0 := m.arc(this.Origin[0])

	forward = func(lat, lon float64) (x, y float64) {
		if math.Abs(lat) > halfPi {
			return math.NaN(), math.NaN()
		}
		return a * k * lon, a * (m.arc(lat) - ml0)
	}
	inverse = func(x, y float64) (lat, lon float64) {
		return m.footpoint(y/a + ml0), x / (a * k)
	}
	return forward, inverse, nil
}

func init() {
	register(EqdCylin, Defaults{
		Class:     Cylindrical,
		Title:     "Equidistant Cylindrical",
		Parallels: []float64{30},
		TrimLat:   [2]float64{-90, 90},
		TrimLon:   [2]float64{-180, 180},
		FLatLimit: [2]float64{-90, 90},
		FLonLimit: [2]float64{-180, 180},
	}, "eqdcylin", "Equidistant_Cylindrical", "eqc")
}
