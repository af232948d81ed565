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

const (
	twoPi   = math.Pi * 2
	halfPi  = math.Pi / 2
	deg2rad = math.Pi / 180
	rad2deg = 180 / math.Pi

	// ParallelEpsilon is the distance (in radians) within which two
	// standard parallels are considered to coincide, and the amount
	// by which a parallel lying on the equator is moved off of it
	// before the cone constants are derived.
	ParallelEpsilon = 1e-10

	// maxIter is the maximum number of iterations used when solving
	// for a latitude.
	maxIter = 30

	// convergence is the tolerance (radians) at which latitude
	// iterations stop.
	convergence = 1e-15
)

func sign(x float64) float64 {
	if x < 0 {
		return -1
	}
	return 1
}

// wrapPi wraps an angle in radians into [-π, π]. Angles already
// inside that range are returned unchanged.
func wrapPi(x float64) float64 {
	if x >= -math.Pi && x <= math.Pi {
		return x
	}
	return math.Remainder(x, twoPi)
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// msfnz is the scale factor numerator m = cos φ / sqrt(1 - e² sin² φ).
func msfnz(eccent, sinphi, cosphi float64) float64 {
	con := eccent * sinphi
	return cosphi / math.Sqrt(1-con*con)
}

// tsfnz is the conformal-latitude function t(φ) used by Mercator.
func tsfnz(eccent, phi, sinphi float64) float64 {
	con := eccent * sinphi
	com := 0.5 * eccent
	con = math.Pow((1-con)/(1+con), com)
	return math.Tan(0.5*(halfPi-phi)) / con
}

// phi2z inverts tsfnz.
func phi2z(eccent, ts float64) float64 {
	eccnth := 0.5 * eccent
	phi := halfPi - 2*math.Atan(ts)
	for i := 0; i < maxIter; i++ {
		con := eccent * math.Sin(phi)
		dphi := halfPi - 2*math.Atan(ts*math.Pow((1-con)/(1+con), eccnth)) - phi
		phi += dphi
		if math.Abs(dphi) <= convergence {
			break
		}
	}
	return phi
}

// meridian holds the series coefficients of the meridian arc length
// for an ellipsoid with squared eccentricity es.
type meridian struct {
	e0, e1, e2, e3 float64
}

func newMeridian(es float64) meridian {
	return meridian{
		e0: 1 - 0.25*es*(1+es/16*(3+1.25*es)),
		e1: 0.375 * es * (1 + 0.25*es*(1+0.46875*es)),
		e2: 0.05859375 * es * es * (1 + 0.75*es),
		e3: es * es * es * (35.0 / 3072.0),
	}
}

// arc returns the meridian distance from the equator to latitude phi
// on an ellipsoid with a unit semimajor axis.
func (m meridian) arc(phi float64) float64 {
	return m.e0*phi - m.e1*math.Sin(2*phi) + m.e2*math.Sin(4*phi) - m.e3*math.Sin(6*phi)
}

func (m meridian) darc(phi float64) float64 {
	return m.e0 - 2*m.e1*math.Cos(2*phi) + 4*m.e2*math.Cos(4*phi) - 6*m.e3*math.Cos(6*phi)
}

// footpoint returns the latitude whose meridian distance (unit semimajor
// axis) is arc, found by Newton iteration on arc.
func (m meridian) footpoint(arc float64) float64 {
	if math.IsNaN(arc) {
		return math.NaN()
	}
	phi := arc / m.e0
	for i := 0; i < maxIter; i++ {
		dphi := (m.arc(phi) - arc) / m.darc(phi)
		phi -= dphi
		if math.Abs(dphi) <= convergence {
			break
		}
	}
	return phi
}

// rectifying converts a geodetic latitude to the rectifying latitude.
func (m meridian) rectifying(phi float64) float64 {
	return m.arc(phi) / m.e0
}

// geodetic converts a rectifying latitude back to geodetic latitude.
func (m meridian) geodetic(mu float64) float64 {
	return m.footpoint(mu * m.e0)
}
