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
	"math"
	"testing"

	"gonum.org/v1/gonum/floats"
)

const testTolerance = 1e-7

func different(a, b, tolerance float64) bool {
	if math.IsNaN(a) || math.IsNaN(b) {
		return math.IsNaN(a) != math.IsNaN(b)
	}
	return math.Abs(a-b) > tolerance
}

// sameCoords checks that a and b are identical, NaNs included.
func sameCoords(t *testing.T, name string, a, b Coords) {
	t.Helper()
	if !floats.Same(a.Y, b.Y) {
		t.Errorf("%s: y: have %v, want %v", name, a.Y, b.Y)
	}
	if !floats.Same(a.X, b.X) {
		t.Errorf("%s: x: have %v, want %v", name, a.X, b.X)
	}
	if !floats.Same(a.Z, b.Z) {
		t.Errorf("%s: z: have %v, want %v", name, a.Z, b.Z)
	}
}

// closeCoords checks that a and b agree within tol.
func closeCoords(t *testing.T, name string, a, b Coords, tol float64) {
	t.Helper()
	if a.Len() != b.Len() {
		t.Fatalf("%s: length %d != %d", name, a.Len(), b.Len())
	}
	for i := range a.Y {
		if different(a.Y[i], b.Y[i], tol) || different(a.X[i], b.X[i], tol) {
			t.Errorf("%s: vertex %d: have (%g, %g), want (%g, %g)", name, i, a.Y[i], a.X[i], b.Y[i], b.X[i])
		}
	}
}

var nan = math.NaN()
