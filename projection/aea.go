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

// qsfnz is the authalic function q(φ) for an ellipsoid with
// eccentricity e, given sin φ.
func qsfnz(eccent, sinphi float64) float64 {
	if eccent < 1e-7 {
		return 2 * sinphi
	}
	con := eccent * sinphi
	return (1 - eccent*eccent) * (sinphi/(1-con*con) - (0.5/eccent)*math.Log((1-con)/(1+con)))
}

// phi1z returns the latitude whose authalic function is q. qp is the
// value of q at the pole.
func phi1z(eccent, q, qp float64) float64 {
	if math.IsNaN(q) {
		return math.NaN()
	}
	if math.Abs(q) >= qp {
		return math.Copysign(halfPi, q)
	}
	if eccent < 1e-7 {
		return math.Asin(q / 2)
	}
	es := eccent * eccent
	phi := math.Asin(math.Max(-1, math.Min(1, q/2)))
	for i := 0; i < maxIter; i++ {
		s, c := math.Sincos(phi)
		con := eccent * s
		com := 1 - con*con
		dphi := 0.5 * com * com / c * (q/(1-es) - s/com + 0.5/eccent*math.Log((1-con)/(1+con)))
		phi += dphi
		if math.Abs(dphi) <= convergence {
			break
		}
	}
	return phi
}

// AlbersConic is the Albers Equal-Area Conic projection on the ellipsoid.
//
// With m the scale factor numerator and q the authalic function of the
// standard parallels, n = (m1² - m2²) / (q2 - q1), or sin φ1 when the
// parallels coincide, and C = m1² + n q1. A point at latitude φ lies at
// polar radius a sqrt(C - n q(φ)) / n.
func AlbersConic(this *Params) (forward, inverse Transformer, err error) {
	if len(this.Parallels) == 0 || len(this.Parallels) > 2 {
		return nil, nil, errors.Errorf("projection.AlbersConic: need 1 or 2 standard parallels, got %d", len(this.Parallels))
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
	e := this.E
	qp := qsfnz(e, 1)

	s1, c1 := math.Sincos(p1)
	s2, c2 := math.Sincos(p2)
	m1 := msfnz(e, s1, c1)
	m2 := msfnz(e, s2, c2)
	q1 := qsfnz(e, s1)
	q2 := qsfnz(e, s2)

	var n float64
	if math.Abs(p1-p2) > ParallelEpsilon {
		n = (m1*m1 - m2*m2) / (q2 - q1)
	} else {
		n = s1
	}
	cc := m1*m1 + n*q1
	radius := func(sinphi float64) float64 {
		return a * math.Sqrt(math.Max(0, cc-n*qsfnz(e, sinphi))) / n
	}
	rho0 := radius(math.Sin(this.Origin[0]))
	if n == 0 || !isFinite(n) || !isFinite(cc) || !isFinite(rho0) {
		return nil, nil, errors.Wrapf(ErrDegenerateParameters,
			"albers conic with parallels %g and %g", p1*rad2deg, p2*rad2deg)
	}
	sn := sign(n)

	forward = func(lat, lon float64) (x, y float64) {
		rho := radius(math.Sin(lat))
		s, c := math.Sincos(n * lon)
		return rho * s, rho0 - rho*c
	}

	inverse = func(x, y float64) (lat, lon float64) {
		dy := rho0 - y
		rho := sn * math.Hypot(x, dy)
		theta := 0.
		if rho != 0 {
			theta = math.Atan2(sn*x, sn*dy)
		}
		r := rho * n / a
		lat = phi1z(e, (cc-r*r)/n, qp)
		lon = theta / n
		return lat, lon
	}
	return forward, inverse, nil
}

func init() {
	register(AlbersConic, Defaults{
		Class:     Conic,
		Title:     "Albers Equal-Area Conic",
		Parallels: []float64{15, 75},
		TrimLat:   [2]float64{-90, 90},
		TrimLon:   [2]float64{-135, 135},
		FLatLimit: [2]float64{-90, 90},
		FLonLimit: [2]float64{-135, 135},
	}, "aea", "Albers_Conic_Equal_Area", "eqaconic")
}
