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
	"fmt"
	"math"
	"strings"

	ellipsoid "github.com/StefanSchroeder/Golang-Ellipsoid/ellipsoid"
)

// Ellipsoid is a reference ellipsoid.
type Ellipsoid struct {
	SemimajorAxis float64 // meters
	Eccentricity  float64
}

// Reference ellipsoids.
var (
	WGS84    = mustEllipsoid("WGS84")
	GRS80    = mustEllipsoid("GRS80")
	Clarke66 = mustEllipsoid("CLARKE-1866")
	Sphere   = Ellipsoid{SemimajorAxis: 6371000, Eccentricity: 0}
)

// aliases are short names for survey ellipsoids.
var aliases = map[string]string{
	"CLARKE66":   "CLARKE-1866",
	"BESSEL":     "BESSEL-1841",
	"KRASSOVSKY": "KRASSOVSKY-1938",
}

// survey returns the named ellipsoid from the survey table, which holds
// each ellipsoid as an equatorial radius and an inverse flattening.
func survey(name string) (Ellipsoid, bool) {
	geo := ellipsoid.Init(name, ellipsoid.Radians, ellipsoid.Meter,
		ellipsoid.LongitudeIsSymmetric, ellipsoid.BearingIsSymmetric)
	if geo.Ellipse.Equatorial == 0 || geo.Ellipse.InvFlattening == 0 {
		return Ellipsoid{}, false
	}
	f := 1 / geo.Ellipse.InvFlattening
	return Ellipsoid{
		SemimajorAxis: geo.Ellipse.Equatorial,
		Eccentricity:  math.Sqrt(2*f - f*f),
	}, true
}

func mustEllipsoid(name string) Ellipsoid {
	e, ok := survey(name)
	if !ok {
		panic(fmt.Errorf("mapproj: missing reference ellipsoid %s", name))
	}
	return e
}

// EllipsoidByName returns the named reference ellipsoid. Names are
// case-insensitive survey names such as "WGS84", "GRS80", "CLARKE-1866"
// or "AIRY", the short names "clarke66", "bessel" and "krassovsky", or
// "sphere" for a sphere with the mean Earth radius.
func EllipsoidByName(name string) (Ellipsoid, error) {
	key := strings.ToUpper(strings.TrimSpace(name))
	if key == "SPHERE" {
		return Sphere, nil
	}
	if a, ok := aliases[key]; ok {
		key = a
	}
	e, ok := survey(key)
	if !ok {
		return Ellipsoid{}, fmt.Errorf("mapproj: unknown ellipsoid %q", name)
	}
	return e, nil
}

// SemiminorAxis returns the semiminor axis in meters.
func (e Ellipsoid) SemiminorAxis() float64 {
	return e.SemimajorAxis * math.Sqrt(1-e.Eccentricity*e.Eccentricity)
}

// Geoid returns e in the form used by Descriptor.Geoid.
func (e Ellipsoid) Geoid() [2]float64 {
	return [2]float64{e.SemimajorAxis, e.Eccentricity}
}

// EllipsoidMismatchWarning is an advisory that two ellipsoids that are
// used together differ substantially. It is never fatal.
type EllipsoidMismatchWarning struct {
	A, B Ellipsoid
}

func (w *EllipsoidMismatchWarning) Error() string {
	return fmt.Sprintf("mapproj: ellipsoids differ by more than 1%%: a=%g e=%g vs. a=%g e=%g",
		w.A.SemimajorAxis, w.A.Eccentricity, w.B.SemimajorAxis, w.B.Eccentricity)
}

// CheckEllipsoids returns a warning if the semimajor axes of a and b
// differ by more than 1% or their eccentricities by more than 0.01.
// It returns nil otherwise.
func CheckEllipsoids(a, b Ellipsoid) *EllipsoidMismatchWarning {
	da := math.Abs(a.SemimajorAxis-b.SemimajorAxis) / math.Max(math.Abs(a.SemimajorAxis), math.Abs(b.SemimajorAxis))
	if da > 0.01 || math.Abs(a.Eccentricity-b.Eccentricity) > 0.01 {
		return &EllipsoidMismatchWarning{A: a, B: b}
	}
	return nil
}
