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
	"bytes"
	"io/ioutil"
	"math"
	"path/filepath"
	"testing"

	"github.com/spatialmodel/mapproj"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testInput = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "properties": {},
     "geometry": {"type": "LineString", "coordinates": [[-120, 35], [-110, 40], [-100, 45], [-90, 40]]}},
    {"type": "Feature", "properties": {},
     "geometry": {"type": "LineString", "coordinates": [[-80, 30], [-75, 35]]}}
  ]}`

// setUS configures the command to use an equidistant conic projection of
// the conterminous United States.
func setUS(t *testing.T, dir string) (in string) {
	in = filepath.Join(dir, "in.geojson")
	require.NoError(t, ioutil.WriteFile(in, []byte(testInput), 0644))
	Cfg.Set("Preset", "")
	Cfg.Set("Projection", "eqdconic")
	Cfg.Set("AngleUnits", "degrees")
	Cfg.Set("Ellipsoid", "wgs84")
	Cfg.Set("MapLatLimit", "[20,60]")
	Cfg.Set("MapLonLimit", "[-130,-60]")
	Cfg.Set("LogLevel", "error")
	Cfg.Set("Input", in)
	return in
}

func TestVersion(t *testing.T) {
	buf := new(bytes.Buffer)
	Root.SetOutput(buf)
	defer Root.SetOutput(nil)
	Root.SetArgs([]string{"version"})
	require.NoError(t, Root.Execute())
	assert.Contains(t, buf.String(), "mapproj v"+mapproj.Version)
}

func TestProjectCmd(t *testing.T) {
	dir, cleanup := tempDir(t)
	defer cleanup()
	in := setUS(t, dir)
	out := filepath.Join(dir, "out", "planar.shp")
	Cfg.Set("Output", out)

	Root.SetArgs([]string{"project"})
	require.NoError(t, Root.Execute())

	planar, err := ReadFeatures(out)
	require.NoError(t, err)
	require.Len(t, planar, 2)

	d, err := DescriptorFromConfig(Cfg)
	require.NoError(t, err)
	geo, err := ReadFeatures(in)
	require.NoError(t, err)
	for i, g := range geo {
		want, err := mapproj.Project(d, g)
		require.NoError(t, err)
		sameCoords(t, want.Coords, planar[i].Coords)
	}
}

func TestRoundTripCmd(t *testing.T) {
	dir, cleanup := tempDir(t)
	defer cleanup()
	in := setUS(t, dir)

	buf := new(bytes.Buffer)
	Root.SetOutput(buf)
	defer Root.SetOutput(nil)
	Root.SetArgs([]string{"roundtrip"})
	require.NoError(t, Root.Execute())
	assert.Contains(t, buf.String(), "maximum deviation")

	d, err := DescriptorFromConfig(Cfg)
	require.NoError(t, err)
	dev, err := RoundTrip(in, d)
	require.NoError(t, err)
	assert.True(t, dev < 1e-8, "deviation %g", dev)
}

func TestReprojectCmd(t *testing.T) {
	dir, cleanup := tempDir(t)
	defer cleanup()
	setUS(t, dir)

	to := mapproj.Descriptor{
		Projection:  "mercator",
		MapLatLimit: [2]float64{-80, 80},
		MapLonLimit: [2]float64{-180, 180},
	}
	toPath := filepath.Join(dir, "mercator.toml")
	require.NoError(t, SaveDescriptor(toPath, to))
	out := filepath.Join(dir, "mercator.geojson")
	Cfg.Set("To", toPath)
	Cfg.Set("Output", out)
	Cfg.Set("Workers", 2)

	buf := new(bytes.Buffer)
	Root.SetOutput(buf)
	defer Root.SetOutput(nil)
	Root.SetArgs([]string{"reproject"})
	require.NoError(t, Root.Execute())
	assert.Contains(t, buf.String(), "re-projected 2 features")

	planar, err := ReadFeatures(out)
	require.NoError(t, err)
	require.Len(t, planar, 2)

	// The re-projected features match features projected with the new
	// descriptor from the start.
	geo, err := ReadFeatures(filepath.Join(dir, "in.geojson"))
	require.NoError(t, err)
	for i, g := range geo {
		want, err := mapproj.Project(to, g)
		require.NoError(t, err)
		for j := range want.Y {
			assert.InDelta(t, want.Y[j], planar[i].Y[j], 1e-3)
			assert.InDelta(t, want.X[j], planar[i].X[j], 1e-3)
		}
	}

	t.Run("missing target", func(t *testing.T) {
		Cfg.Set("To", filepath.Join(dir, "missing.toml"))
		defer Cfg.Set("To", toPath)
		Root.SetArgs([]string{"reproject"})
		assert.Error(t, Root.Execute())
	})
}

func TestGraticuleCmd(t *testing.T) {
	dir, cleanup := tempDir(t)
	defer cleanup()
	setUS(t, dir)

	out := filepath.Join(dir, "graticule.geojson")
	Cfg.Set("Output", out)
	Cfg.Set("Raster.Vector", "")
	Cfg.Set("Raster.Matrix", "")
	Cfg.Set("Raster.LatLimit", "[30,50]")
	Cfg.Set("Raster.LonLimit", "[-110,-80]")
	Cfg.Set("Raster.Rows", 2)
	Cfg.Set("Raster.Cols", 3)
	Cfg.Set("Raster.FromNorth", true)
	Cfg.Set("GraticuleSize", "[0,0]")

	Root.SetArgs([]string{"graticule"})
	require.NoError(t, Root.Execute())

	features, err := ReadFeatures(out)
	require.NoError(t, err)
	require.Len(t, features, 1)
	assert.Equal(t, mapproj.Polyline, features[0].Kind)

	// 3 rows of 4 vertices and 4 columns of 3 vertices, in 7 parts.
	var breaks int
	for _, y := range features[0].Y {
		if math.IsNaN(y) {
			breaks++
		}
	}
	assert.Equal(t, 6, breaks)
	assert.Equal(t, 3*4+4*3+6, features[0].Len())
	assert.Contains(t, string(mustRead(t, out)), `"MultiLineString"`)
}

func mustRead(t *testing.T, path string) []byte {
	b, err := ioutil.ReadFile(path)
	require.NoError(t, err)
	return b
}

func TestBadConfig(t *testing.T) {
	dir, cleanup := tempDir(t)
	defer cleanup()
	setUS(t, dir)
	Cfg.Set("Output", filepath.Join(dir, "out.geojson"))

	Cfg.Set("LogLevel", "loud")
	Root.SetArgs([]string{"project"})
	assert.Error(t, Root.Execute())
	Cfg.Set("LogLevel", "error")

	Cfg.Set("Projection", "robinson")
	Root.SetArgs([]string{"project"})
	assert.Error(t, Root.Execute())
	Cfg.Set("Projection", "eqdconic")
}
