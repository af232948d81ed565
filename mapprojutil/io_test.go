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

package mapprojutil

import (
	"fmt"
	"io/ioutil"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/ctessum/geom"
	"github.com/spatialmodel/mapproj"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var nan = math.NaN()

func tempDir(t *testing.T) (string, func()) {
	dir, err := ioutil.TempDir("", "mapproj")
	require.NoError(t, err)
	return dir, func() { os.RemoveAll(dir) }
}

// sameCoords compares coordinates, treating NaN as equal to NaN.
func sameCoords(t *testing.T, want, have mapproj.Coords) {
	t.Helper()
	require.Equal(t, len(want.Y), len(have.Y), "length")
	for i := range want.Y {
		for _, p := range [][2]float64{{want.Y[i], have.Y[i]}, {want.X[i], have.X[i]}} {
			if math.IsNaN(p[0]) {
				assert.True(t, math.IsNaN(p[1]), "vertex %d: want NaN, have %g", i, p[1])
				continue
			}
			assert.InDelta(t, p[0], p[1], 1e-9, "vertex %d", i)
		}
	}
}

func TestReadGeoJSON(t *testing.T) {
	dir, cleanup := tempDir(t)
	defer cleanup()

	path := filepath.Join(dir, "in.geojson")
	require.NoError(t, ioutil.WriteFile(path, []byte(`{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "properties": {"name": "a"},
     "geometry": {"type": "LineString", "coordinates": [[-100, 40], [-90, 45]]}},
    {"type": "Feature", "properties": {}, "geometry": null},
    {"type": "Feature", "properties": {},
     "geometry": {"type": "MultiPolygon", "coordinates": [
       [[[0, 0], [1, 0], [1, 1], [0, 0]]],
       [[[5, 5], [6, 5], [6, 6], [5, 5]]]]}},
    {"type": "Feature", "properties": {},
     "geometry": {"type": "MultiPoint", "coordinates": [[1, 2], [3, 4]]}}
  ]}`), 0644))

	features, err := ReadFeatures(path)
	require.NoError(t, err)
	require.Len(t, features, 3)

	assert.Equal(t, mapproj.Polyline, features[0].Kind)
	sameCoords(t, mapproj.Coords{Y: []float64{40, 45}, X: []float64{-100, -90}}, features[0].Coords)

	assert.Equal(t, mapproj.Polygon, features[1].Kind)
	sameCoords(t, mapproj.Coords{
		Y: []float64{0, 0, 1, 0, nan, 5, 5, 6, 5},
		X: []float64{0, 1, 1, 0, nan, 5, 6, 6, 5},
	}, features[1].Coords)

	assert.Equal(t, mapproj.Point, features[2].Kind)
	sameCoords(t, mapproj.Coords{Y: []float64{2, 4}, X: []float64{1, 3}}, features[2].Coords)

	t.Run("bare geometry", func(t *testing.T) {
		path := filepath.Join(dir, "point.json")
		require.NoError(t, ioutil.WriteFile(path, []byte(`{"type": "Point", "coordinates": [-95, 38]}`), 0644))
		features, err := ReadFeatures(path)
		require.NoError(t, err)
		require.Len(t, features, 1)
		assert.Equal(t, mapproj.Point, features[0].Kind)
		sameCoords(t, mapproj.Coords{Y: []float64{38}, X: []float64{-95}}, features[0].Coords)
	})
	t.Run("unsupported", func(t *testing.T) {
		path := filepath.Join(dir, "collection.json")
		require.NoError(t, ioutil.WriteFile(path, []byte(`{"type": "GeometryCollection", "geometries": []}`), 0644))
		_, err := ReadFeatures(path)
		assert.Error(t, err)
	})
	t.Run("extension", func(t *testing.T) {
		_, err := ReadFeatures(filepath.Join(dir, "in.kml"))
		assert.Error(t, err)
	})
}

func testPlanarFeatures() []*mapproj.PlanarFeature {
	return []*mapproj.PlanarFeature{
		{
			Kind:   mapproj.Polyline,
			Coords: mapproj.Coords{Y: []float64{0, 1, nan, 3, 4, 5}, X: []float64{10, 11, nan, 13, 14, 15}},
		},
		{
			Kind:   mapproj.Polyline,
			Coords: mapproj.Coords{Y: []float64{nan, nan}, X: []float64{nan, nan}},
		},
		{
			Kind:   mapproj.Polyline,
			Coords: mapproj.Coords{Y: []float64{-1, -2}, X: []float64{-3, -4}},
		},
	}
}

func TestPlanarGeom(t *testing.T) {
	f := testPlanarFeatures()
	assert.Equal(t, geom.MultiLineString{
		{{X: 10, Y: 0}, {X: 11, Y: 1}},
		{{X: 13, Y: 3}, {X: 14, Y: 4}, {X: 15, Y: 5}},
	}, planarGeom(f[0]))
	assert.Nil(t, planarGeom(f[1]))

	poly := &mapproj.PlanarFeature{
		Kind: mapproj.Polygon,
		Coords: mapproj.Coords{
			Y: []float64{0, 0, 1, 0, nan, nan, nan, nan, nan, 5, 5, 5},
			X: []float64{0, 1, 1, 0, nan, nan, nan, nan, nan, 1, 2, 1},
		},
	}
	assert.Equal(t, geom.Polygon{{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 0}}, {{X: 1, Y: 5}, {X: 2, Y: 5}, {X: 1, Y: 5}}}, planarGeom(poly))

	grat := &mapproj.PlanarFeature{
		Kind: mapproj.Graticule,
		Rows: 2,
		Cols: 3,
		Coords: mapproj.Coords{
			Y: []float64{0, 0, 0, 1, 1, 1},
			X: []float64{0, 1, nan, 0, 1, 2},
		},
	}
	assert.Equal(t, geom.MultiLineString{
		{{X: 0, Y: 0}, {X: 1, Y: 0}},
		{{X: 0, Y: 1}, {X: 1, Y: 1}, {X: 2, Y: 1}},
		{{X: 0, Y: 0}, {X: 0, Y: 1}},
		{{X: 1, Y: 0}, {X: 1, Y: 1}},
		{{X: 2, Y: 1}},
	}, planarGeom(grat))
}

func TestWriteFeatures(t *testing.T) {
	dir, cleanup := tempDir(t)
	defer cleanup()

	for _, ext := range []string{".shp", ".geojson"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(dir, "out"+ext)
			require.NoError(t, WriteFeatures(path, testPlanarFeatures()))

			features, err := ReadFeatures(path)
			require.NoError(t, err)
			require.Len(t, features, 2, "the empty feature is skipped on reading")
			sameCoords(t, mapproj.Coords{Y: []float64{0, 1, nan, 3, 4, 5}, X: []float64{10, 11, nan, 13, 14, 15}}, features[0].Coords)
			sameCoords(t, mapproj.Coords{Y: []float64{-1, -2}, X: []float64{-3, -4}}, features[1].Coords)
			for _, f := range features {
				assert.Equal(t, mapproj.Polyline, f.Kind)
			}
		})
	}

	t.Run("points", func(t *testing.T) {
		pts := []*mapproj.PlanarFeature{{
			Kind:   mapproj.Point,
			Coords: mapproj.Coords{Y: []float64{1, nan, 3}, X: []float64{2, nan, 4}},
		}}
		for _, ext := range []string{".shp", ".geojson"} {
			path := filepath.Join(dir, "points"+ext)
			require.NoError(t, WriteFeatures(path, pts))
			features, err := ReadFeatures(path)
			require.NoError(t, err, ext)
			require.Len(t, features, 1, ext)
			assert.Equal(t, mapproj.Point, features[0].Kind, ext)
			sameCoords(t, mapproj.Coords{Y: []float64{1, 3}, X: []float64{2, 4}}, features[0].Coords)
		}
	})

	t.Run("mixed shapes", func(t *testing.T) {
		f := append(testPlanarFeatures(), &mapproj.PlanarFeature{
			Kind:   mapproj.Polygon,
			Coords: mapproj.Coords{Y: []float64{0, 0, 1, 0}, X: []float64{0, 1, 1, 0}},
		})
		assert.Error(t, WriteFeatures(filepath.Join(dir, "mixed.shp"), f))
		assert.NoError(t, WriteFeatures(filepath.Join(dir, "mixed.geojson"), f))
	})

	t.Run("properties", func(t *testing.T) {
		path := filepath.Join(dir, "props.geojson")
		require.NoError(t, WriteFeatures(path, testPlanarFeatures()))
		b, err := ioutil.ReadFile(path)
		require.NoError(t, err)
		for i := range testPlanarFeatures() {
			assert.Contains(t, string(b), fmt.Sprintf(`"feature": %d`, i))
		}
		assert.Contains(t, string(b), `"kind": "polyline"`)
		assert.Contains(t, string(b), `"geometry": null`)
	})
}
