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
	"encoding/json"
	"fmt"
	"io/ioutil"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/geojson"
	"github.com/ctessum/geom/encoding/shp"
	"github.com/ctessum/geom/proj"
	goshp "github.com/jonas-p/go-shp"
	"github.com/pkg/errors"
	"github.com/spatialmodel/mapproj"
)

// geographicSR is the spatial reference that shapefile coordinates are
// converted to when they are read.
const geographicSR = "+proj=longlat +datum=WGS84 +no_defs"

// format returns the file format implied by the extension of path.
func format(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".shp":
		return "shp", nil
	case ".geojson", ".json":
		return "geojson", nil
	default:
		return "", fmt.Errorf("mapproj: unsupported file type %q; use .shp, .geojson or .json", filepath.Ext(path))
	}
}

// ReadFeatures reads the geographic features in a shapefile or a GeoJSON
// file. Coordinates are returned in degrees. Shapefiles with a .prj file
// are converted to geographic coordinates; shapefiles without one are
// assumed to already hold longitudes and latitudes.
func ReadFeatures(path string) ([]*mapproj.GeographicFeature, error) {
	f, err := format(path)
	if err != nil {
		return nil, err
	}
	if f == "shp" {
		return readShapefile(path)
	}
	return readGeoJSON(path)
}

func readShapefile(path string) ([]*mapproj.GeographicFeature, error) {
	d, err := shp.NewDecoder(path)
	if err != nil {
		return nil, errors.Wrap(err, "mapproj: opening shapefile")
	}
	defer d.Close()

	var t proj.Transformer
	src, err := d.SR()
	switch {
	case os.IsNotExist(err):
		Log.WithField("file", path).Debug("mapproj: no .prj file; assuming geographic coordinates")
	case err != nil:
		return nil, errors.Wrap(err, "mapproj: reading shapefile spatial reference")
	default:
		dst, err := proj.Parse(geographicSR)
		if err != nil {
			return nil, err
		}
		if t, err = src.NewTransform(dst); err != nil {
			return nil, errors.Wrap(err, "mapproj: shapefile spatial reference")
		}
	}

	var o []*mapproj.GeographicFeature
	for {
		g, _, more := d.DecodeRowFields()
		if !more {
			break
		}
		if g == nil {
			continue
		}
		if t != nil {
			if g, err = g.Transform(t); err != nil {
				return nil, errors.Wrapf(err, "mapproj: transforming shape %d", len(o))
			}
		}
		feat, err := geomToFeature(g)
		if err != nil {
			return nil, err
		}
		o = append(o, feat)
	}
	if err := d.Error(); err != nil {
		return nil, errors.Wrap(err, "mapproj: decoding shapefile")
	}
	return o, nil
}

type geoJSONFeature struct {
	Type       string                 `json:"type"`
	Geometry   json.RawMessage        `json:"geometry"`
	Properties map[string]interface{} `json:"properties"`
}

type geoJSONObject struct {
	Type     string           `json:"type"`
	Features []geoJSONFeature `json:"features"`
	Geometry json.RawMessage  `json:"geometry"`
}

func readGeoJSON(path string) ([]*mapproj.GeographicFeature, error) {
	b, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "mapproj: reading GeoJSON")
	}
	var obj geoJSONObject
	if err := json.Unmarshal(b, &obj); err != nil {
		return nil, errors.Wrap(err, "mapproj: decoding GeoJSON")
	}
	var geoms []json.RawMessage
	switch obj.Type {
	case "FeatureCollection":
		for _, f := range obj.Features {
			geoms = append(geoms, f.Geometry)
		}
	case "Feature":
		geoms = append(geoms, obj.Geometry)
	default:
		geoms = append(geoms, b)
	}
	var o []*mapproj.GeographicFeature
	for i, raw := range geoms {
		if len(raw) == 0 || string(raw) == "null" {
			continue
		}
		g, err := decodeGeometry(raw)
		if err != nil {
			return nil, errors.Wrapf(err, "mapproj: GeoJSON geometry %d", i)
		}
		f, err := geomToFeature(g)
		if err != nil {
			return nil, err
		}
		o = append(o, f)
	}
	return o, nil
}

// decodeGeometry decodes a GeoJSON geometry. Single geometries are
// handled by the geojson package and multi-part geometries here.
func decodeGeometry(raw json.RawMessage) (geom.Geom, error) {
	var head struct {
		Type        string          `json:"type"`
		Coordinates json.RawMessage `json:"coordinates"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return nil, err
	}
	switch head.Type {
	case "MultiPoint":
		var c [][]float64
		if err := json.Unmarshal(head.Coordinates, &c); err != nil {
			return nil, err
		}
		return geom.MultiPoint(points(c)), nil
	case "MultiLineString":
		var c [][][]float64
		if err := json.Unmarshal(head.Coordinates, &c); err != nil {
			return nil, err
		}
		o := make(geom.MultiLineString, len(c))
		for i, l := range c {
			o[i] = geom.LineString(points(l))
		}
		return o, nil
	case "MultiPolygon":
		var c [][][][]float64
		if err := json.Unmarshal(head.Coordinates, &c); err != nil {
			return nil, err
		}
		o := make(geom.MultiPolygon, len(c))
		for i, p := range c {
			o[i] = make(geom.Polygon, len(p))
			for j, r := range p {
				o[i][j] = points(r)
			}
		}
		return o, nil
	default:
		return geojson.Decode(raw)
	}
}

func points(c [][]float64) []geom.Point {
	o := make([]geom.Point, 0, len(c))
	for _, p := range c {
		if len(p) >= 2 {
			o = append(o, geom.Point{X: p[0], Y: p[1]})
		}
	}
	return o
}

// geomToFeature converts a geometry in longitude and latitude to a
// feature. The parts of multi-part geometries are separated by NaN.
func geomToFeature(g geom.Geom) (*mapproj.GeographicFeature, error) {
	f := new(mapproj.GeographicFeature)
	add := func(pts []geom.Point) {
		if f.Len() > 0 {
			f.Y = append(f.Y, math.NaN())
			f.X = append(f.X, math.NaN())
		}
		for _, p := range pts {
			f.Y = append(f.Y, p.Y)
			f.X = append(f.X, p.X)
		}
	}
	switch t := g.(type) {
	case geom.Point:
		f.Kind = mapproj.Point
		f.Y, f.X = []float64{t.Y}, []float64{t.X}
	case geom.MultiPoint:
		f.Kind = mapproj.Point
		for _, p := range t {
			f.Y = append(f.Y, p.Y)
			f.X = append(f.X, p.X)
		}
	case geom.LineString:
		f.Kind = mapproj.Polyline
		add(t)
	case geom.MultiLineString:
		f.Kind = mapproj.Polyline
		for _, l := range t {
			add(l)
		}
	case geom.Polygon:
		f.Kind = mapproj.Polygon
		for _, r := range t {
			add(r)
		}
	case geom.MultiPolygon:
		f.Kind = mapproj.Polygon
		for _, p := range t {
			for _, r := range p {
				add(r)
			}
		}
	default:
		return nil, fmt.Errorf("mapproj: unsupported geometry type %T", g)
	}
	return f, nil
}

// parts splits planar coordinates at NaN entries. Empty parts are
// dropped.
func parts(c mapproj.Coords) [][]geom.Point {
	var o [][]geom.Point
	var cur []geom.Point
	for i := range c.Y {
		if math.IsNaN(c.X[i]) || math.IsNaN(c.Y[i]) {
			if len(cur) > 0 {
				o = append(o, cur)
			}
			cur = nil
			continue
		}
		cur = append(cur, geom.Point{X: c.X[i], Y: c.Y[i]})
	}
	if len(cur) > 0 {
		o = append(o, cur)
	}
	return o
}

// planarGeom converts a projected feature to a geometry. It returns nil
// when nothing of the feature is left on the map.
func planarGeom(f *mapproj.PlanarFeature) geom.Geom {
	switch f.Kind {
	case mapproj.Point:
		var o geom.MultiPoint
		for _, p := range parts(f.Coords) {
			o = append(o, p...)
		}
		if len(o) == 0 {
			return nil
		}
		return o
	case mapproj.Polygon:
		var o geom.Polygon
		for _, r := range parts(f.Coords) {
			if len(r) >= 3 {
				o = append(o, r)
			}
		}
		if len(o) == 0 {
			return nil
		}
		return o
	case mapproj.Graticule:
		var o geom.MultiLineString
		for _, l := range graticuleLines(f) {
			for _, p := range parts(l) {
				o = append(o, p)
			}
		}
		if len(o) == 0 {
			return nil
		}
		return o
	default:
		var o geom.MultiLineString
		for _, p := range parts(f.Coords) {
			o = append(o, p)
		}
		if len(o) == 0 {
			return nil
		}
		return o
	}
}

// graticuleLines returns the rows and then the columns of a projected
// mesh as separate lines.
func graticuleLines(f *mapproj.PlanarFeature) []mapproj.Coords {
	var o []mapproj.Coords
	for r := 0; r < f.Rows; r++ {
		var l mapproj.Coords
		for c := 0; c < f.Cols; c++ {
			l.Y = append(l.Y, f.Y[r*f.Cols+c])
			l.X = append(l.X, f.X[r*f.Cols+c])
		}
		o = append(o, l)
	}
	for c := 0; c < f.Cols; c++ {
		var l mapproj.Coords
		for r := 0; r < f.Rows; r++ {
			l.Y = append(l.Y, f.Y[r*f.Cols+c])
			l.X = append(l.X, f.X[r*f.Cols+c])
		}
		o = append(o, l)
	}
	return o
}

// WriteFeatures writes projected features to a shapefile or GeoJSON file.
// Each record carries the position of the feature in features and its
// kind. A shapefile can only hold features whose kinds share a shape type,
// and features with nothing left on the map are left out of it.
func WriteFeatures(path string, features []*mapproj.PlanarFeature) error {
	f, err := format(path)
	if err != nil {
		return err
	}
	if f == "shp" {
		return writeShapefile(path, features)
	}
	return writeGeoJSON(path, features)
}

func shapeType(k mapproj.Kind) goshp.ShapeType {
	switch k {
	case mapproj.Point:
		return goshp.MULTIPOINT
	case mapproj.Polygon:
		return goshp.POLYGON
	default:
		return goshp.POLYLINE
	}
}

func writeShapefile(path string, features []*mapproj.PlanarFeature) error {
	if len(features) == 0 {
		return fmt.Errorf("mapproj: no features to write to %s", path)
	}
	t := shapeType(features[0].Kind)
	for _, f := range features {
		if shapeType(f.Kind) != t {
			return fmt.Errorf("mapproj: a shapefile cannot hold both %v and %v features", features[0].Kind, f.Kind)
		}
	}
	e, err := shp.NewEncoderFromFields(path, t,
		goshp.NumberField("feature", 10), goshp.StringField("kind", 10))
	if err != nil {
		return errors.Wrap(err, "mapproj: creating shapefile")
	}
	defer e.Close()
	for i, f := range features {
		g := planarGeom(f)
		if g == nil {
			Log.WithField("feature", i).Debug("mapproj: nothing left on the map; feature not written")
			continue
		}
		if err := e.EncodeFields(g, i, f.Kind.String()); err != nil {
			return errors.Wrapf(err, "mapproj: writing feature %d", i)
		}
	}
	return nil
}

type geoJSONOutFeature struct {
	Type       string                 `json:"type"`
	Geometry   *geojson.Geometry      `json:"geometry"`
	Properties map[string]interface{} `json:"properties"`
}

type geoJSONOut struct {
	Type     string              `json:"type"`
	Features []geoJSONOutFeature `json:"features"`
}

// toGeoJSON encodes g. Single geometries are handled by the geojson
// package and multi-part geometries here.
func toGeoJSON(g geom.Geom) (*geojson.Geometry, error) {
	coords := func(pts []geom.Point) [][]float64 {
		o := make([][]float64, len(pts))
		for i, p := range pts {
			o[i] = []float64{p.X, p.Y}
		}
		return o
	}
	switch t := g.(type) {
	case nil:
		return nil, nil
	case geom.MultiPoint:
		if len(t) == 1 {
			return geojson.ToGeoJSON(t[0])
		}
		return &geojson.Geometry{Type: "MultiPoint", Coordinates: coords(t)}, nil
	case geom.MultiLineString:
		if len(t) == 1 {
			return geojson.ToGeoJSON(t[0])
		}
		c := make([][][]float64, len(t))
		for i, l := range t {
			c[i] = coords(l)
		}
		return &geojson.Geometry{Type: "MultiLineString", Coordinates: c}, nil
	default:
		return geojson.ToGeoJSON(g)
	}
}

func writeGeoJSON(path string, features []*mapproj.PlanarFeature) error {
	o := geoJSONOut{Type: "FeatureCollection", Features: make([]geoJSONOutFeature, len(features))}
	for i, f := range features {
		g, err := toGeoJSON(planarGeom(f))
		if err != nil {
			return errors.Wrapf(err, "mapproj: encoding feature %d", i)
		}
		o.Features[i] = geoJSONOutFeature{
			Type:     "Feature",
			Geometry: g,
			Properties: map[string]interface{}{
				"feature": i,
				"kind":    f.Kind.String(),
			},
		}
	}
	b, err := json.MarshalIndent(o, "", "  ")
	if err != nil {
		return errors.Wrap(err, "mapproj: encoding GeoJSON")
	}
	return errors.Wrap(ioutil.WriteFile(path, b, 0644), "mapproj: writing GeoJSON")
}
