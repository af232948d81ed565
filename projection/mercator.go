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

// Mercator is a Mercator projection on the ellipsoid, true to scale along
// its standard parallel. The origin latitude maps to y = 0.
func Mercator(this *Params) (forward, inverse Transformer, err error) {
	var lat1 float64
	if len(this.Parallels) > 0 {
		lat1 = this.Parallels[0]
	}
	a := this.A
	e := this.E
	s, c := math.Sincos(lat1)
	k := msfnz(e, s, c)
	if !(k > 0) {
		return nil, nil, errors.Wrapf(ErrDegenerateParameters,
			"mercator with standard parallel %g", lat1*rad2deg)
	}
	psi := func(lat float64) float64 {
		return -math.Log(tsfnz(e, lat, math.Sin(lat)))
	}
	psi0 := psi(this.Origin[0])

	forward = func(lat, lon float64) (x, y float64) {
		// singular at the poles
		if math.Abs(math.Abs(lat)-halfPi) <= ParallelEpsilon {
			return math.NaN(), math.NaN()
		}
		return a * k * lon, a * k * (psi(lat) - psi0)
	}
	inverse = func(x, y float64) (lat, lon float64) {
		ts := math.Exp(-(y/(a*k) + psi0))
		return phi2z(e, ts), x / (a * k)
	}
	return forward, inverse, nil
}

func init() {
	register(Mercator, Defaults{
		Class:     Cylindrical,
		Title:     "Mercator",
		Parallels: []float64{0},
		TrimLat:   [2]float64{-86, 86},
		TrimLon:   [2]float64{-180, 180},
		FLatLimit: [2]float64{-86, 86},
		FLonLimit: [2]float64{-180, 180},
	}, "mercator", "merc")
}
