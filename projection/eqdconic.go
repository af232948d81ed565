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

// EqdConic is an Equidistant Conic projection on the ellipsoid.
//
// The cone constant n comes from the scale factors m and meridian
// distances M of the two standard parallels, n = (m1 - m2) / (M2 - M1),
// or sin φ1 when the parallels coincide. G = m1/n + M1 and the polar
// radius of the origin is rho0 = a(G - M(φ0)), so the origin latitude
// does not have to lie on the equator.
func EqdConic(this *Params) (forward, inverse Transformer, err error) {
	if len(this.Parallels) == 0 || len(this.Parallels) > 2 {
		return nil, nil, errors.Errorf("projection.EqdConic: need 1 or 2 standard parallels, got %d", len(this.Parallels))
	}
	p1 := this.Parallels[0]
	p2 := p1
	if len(this.Parallels) == 2 {
		p2 = this.Parallels[1]
	}

	// singular cases
	if math.Abs(p1) < ParallelEpsilon {
		p1 = sign(p1) * ParallelEpsilon
	}
	if math.Abs(p2) < ParallelEpsilon {
		p2 = sign(p2) * ParallelEpsilon
	}
	if math.Abs(p1+p2) < ParallelEpsilon {
		p2 += ParallelEpsilon
	}

	a := this.A
	m := newMeridian(this.E * this.E)

	s1, c1 := math.Sincos(p1)
	s2, c2 := math.Sincos(p2)
	m1 := msfnz(this.E, s1, c1)
	m2 := msfnz(this.E, s2, c2)
	ml1 := m.arc(p1)
	ml2 := m.arc(p2)

	var n float64
	if math.Abs(p1-p2) > ParallelEpsilon {
		n = (m1 - m2) / (ml2 - ml1)
	} else {
		n = s1
	}
	g := m1/n + ml1
	rho0 := a * (g - m.arc(this.Origin[0]))
	if n == 0 || !isFinite(n) || !isFinite(g) || !isFinite(rho0) {
		return nil, nil, errors.Wrapf(ErrDegenerateParameters,
			"equidistant conic with parallels %g and %g", p1*rad2deg, p2*rad2deg)
	}
	sn := sign(n)

	forward = func(lat, lon float64) (x, y float64) {
		rho := a * (g - m.arc(lat))
		theta := n * lon
		s, c := math.Sincos(theta)
		return rho * s, rho0 - rho*c
	}

	inverse = func(x, y float64) (lat, lon float64) {
		dy := rho0 - y
		rho := sn * math.Hypot(x, dy)
		theta := 0.
		if rho != 0 {
			theta = math.Atan2(sn*x, sn*dy)
		}
		lat = m.footpoint(g - rho/a)
		lon = theta / n
		return lat, lon
	}
	return forward, inverse, nil
}

func init() {
	register(EqdConic, Defaults{
		Class:     Conic,
		Title:     "Equidistant Conic",
		Parallels: []float64{15, 75},
		TrimLat:   [2]float64{-90, 90},
		TrimLon:   [2]float64{-135, 135},
		FLatLimit: [2]float64{-90, 90},
		FLonLimit: [2]float64{-135, 135},
	}, "eqdconic", "Equidistant_Conic", "eqdc")
}
