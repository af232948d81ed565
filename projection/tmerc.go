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

// krueger holds the sixth-order series coefficients in the third
// flattening n for the transverse Mercator projection.
type krueger struct {
	alpha, beta [6]float64
	// rectifying radius divided by the semimajor axis
	a float64
}

func newKrueger(e float64) krueger {
	f := 1 - math.Sqrt(1-e*e)
	n := f / (2 - f)
	n2 := n * n
	n3 := n2 * n
	n4 := n3 * n
	n5 := n4 * n
	n6 := n5 * n
	return krueger{
		a: (1 + n2/4 + n4/64 + n6/256) / (1 + n),
		alpha: [6]float64{
			n/2 - 2*n2/3 + 5*n3/16 + 41*n4/180 - 127*n5/288 + 7891*n6/37800,
			13*n2/48 - 3*n3/5 + 557*n4/1440 + 281*n5/630 - 1983433*n6/1935360,
			61*n3/240 - 103*n4/140 + 15061*n5/26880 + 167603*n6/181440,
			49561*n4/161280 - 179*n5/168 + 6601661*n6/7257600,
			34729*n5/80640 - 3418889*n6/1995840,
			212378941 * n6 / 319334400,
		},
		beta: [6]float64{
			n/2 - 2*n2/3 + 37*n3/96 - n4/360 - 81*n5/512 + 96199*n6/604800,
			n2/48 + n3/15 - 437*n4/1440 + 46*n5/105 - 1118711*n6/3870720,
			17*n3/480 - 37*n4/840 - 209*n5/4480 + 5569*n6/90720,
			4397*n4/161280 - 11*n5/504 - 830251*n6/7257600,
			4583*n5/161280 - 108847*n6/3991680,
			20648693 * n6 / 638668800,
		},
	}
}

// conformal returns the tangent of the conformal latitude given the
// tangent of the geodetic latitude.
func conformal(e, tau float64) float64 {
	sigma := math.Sinh(e * math.Atanh(e*tau/math.Hypot(1, tau)))
	return tau*math.Hypot(1, sigma) - sigma*math.Hypot(1, tau)
}

// geodeticTan inverts conformal by Newton iteration.
func geodeticTan(e, taup float64) float64 {
	e2m := 1 - e*e
	tau := taup
	for i := 0; i < maxIter; i++ {
		tp := conformal(e, tau)
		dtau := (taup - tp) / math.Hypot(1, tp) *
			(1 + e2m*tau*tau) / (e2m * math.Hypot(1, tau))
		tau += dtau
		if !(math.Abs(dtau) > convergence*math.Max(1, math.Abs(tau))) {
			break
		}
	}
	return tau
}

// TransverseMercator is the ellipsoidal Transverse Mercator projection
// with unit scale on the central meridian, evaluated with Krüger's
// series to sixth order in the third flattening. It is accurate to a few
// nanometers within 30° of the central meridian.
func TransverseMercator(this *Params) (forward, inverse Transformer, err error) {
	e := this.E
	if e < 0 || e >= 1 {
		return nil, nil, errors.Wrapf(ErrDegenerateParameters, "transverse mercator with eccentricity %g", e)
	}
	k := newKrueger(e)
	ra := this.A * k.a

	// ξ and η of a point on the ellipsoid, in units of the rectifying radius.
	project := func(lat, lon float64) (xi, eta float64) {
		taup := conformal(e, math.Tan(lat))
		s, c := math.Sincos(lon)
		xip := math.Atan2(taup, c)
		etap := math.Asinh(s / math.Hypot(taup, c))
		xi, eta = xip, etap
		for j, a := range k.alpha {
			m := 2 * float64(j+1)
			sx, cx := math.Sincos(m * xip)
			xi += a * sx * math.Cosh(m*etap)
			eta += a * cx * math.Sinh(m*etap)
		}
		return xi, eta
	}

	xi0, _ := project(this.Origin[0], 0)
	y0 := ra * xi0
	if !isFinite(y0) {
		return nil, nil, errors.Wrapf(ErrDegenerateParameters,
			"transverse mercator with origin latitude %g", this.Origin[0]*rad2deg)
	}

	forward = func(lat, lon float64) (x, y float64) {
		xi, eta := project(lat, lon)
		return ra * eta, ra*xi - y0
	}

	inverse = func(x, y float64) (lat, lon float64) {
		xi := (y + y0) / ra
		eta := x / ra
		xip, etap := xi, eta
		for j, b := range k.beta {
			m := 2 * float64(j+1)
			sx, cx := math.Sincos(m * xi)
			xip -= b * sx * math.Cosh(m*eta)
			etap -= b * cx * math.Sinh(m*eta)
		}
		sh := math.Sinh(etap)
		s, c := math.Sincos(xip)
		taup := s / math.Hypot(sh, c)
		lat = math.Atan(geodeticTan(e, taup))
		lon = math.Atan2(sh, c)
		return lat, lon
	}
	return forward, inverse, nil
}

func init() {
	register(TransverseMercator, Defaults{
		Class:     Cylindrical,
		Title:     "Transverse Mercator",
		TrimLat:   [2]float64{-80, 80},
		TrimLon:   [2]float64{-20, 20},
		FLatLimit: [2]float64{-80, 80},
		FLonLimit: [2]float64{-20, 20},
	}, "tmerc", "Transverse_Mercator")
}
