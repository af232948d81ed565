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
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/lnashier/viper"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/mapproj"
	"github.com/spf13/cast"
	"gonum.org/v1/gonum/mat"
)

// Log receives the messages of the mapproj command.
var Log = logrus.StandardLogger()

func init() {
	Log.SetFormatter(&logrus.TextFormatter{
		ForceColors:     true,
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339Nano,
		DisableSorting:  true,
	})
}

func setLogLevel(level string) error {
	if level == "" {
		return nil
	}
	l, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("mapproj: LogLevel: %v", err)
	}
	Log.SetLevel(l)
	return nil
}

// LoadDescriptor reads a projection descriptor from the TOML file at path.
// Environment variables in path are expanded.
func LoadDescriptor(path string) (mapproj.Descriptor, error) {
	var d mapproj.Descriptor
	if path == "" {
		return d, fmt.Errorf("mapproj: no projection descriptor file specified")
	}
	f, err := os.Open(os.ExpandEnv(path))
	if err != nil {
		return d, errors.Wrap(err, "mapproj: opening projection descriptor")
	}
	defer f.Close()
	if _, err := toml.DecodeReader(f, &d); err != nil {
		return d, errors.Wrapf(err, "mapproj: decoding projection descriptor %s", path)
	}
	return d, d.Validate()
}

// SaveDescriptor writes d to path in TOML format.
func SaveDescriptor(path string, d mapproj.Descriptor) error {
	f, err := os.Create(os.ExpandEnv(path))
	if err != nil {
		return errors.Wrap(err, "mapproj: creating projection descriptor")
	}
	if err := toml.NewEncoder(f).Encode(d); err != nil {
		f.Close()
		return errors.Wrap(err, "mapproj: encoding projection descriptor")
	}
	return f.Close()
}

// DescriptorFromConfig creates a projection descriptor from cfg. If
// the Preset option is set, the descriptor is read from that file and the
// other projection options are ignored.
func DescriptorFromConfig(cfg *viper.Viper) (mapproj.Descriptor, error) {
	if preset := cfg.GetString("Preset"); preset != "" {
		return LoadDescriptor(preset)
	}
	d := mapproj.Descriptor{
		Projection:    cfg.GetString("Projection"),
		AngleUnits:    mapproj.AngleUnits(strings.ToLower(cfg.GetString("AngleUnits"))),
		Aspect:        mapproj.Aspect(strings.ToLower(cfg.GetString("Aspect"))),
		FalseEasting:  cfg.GetFloat64("FalseEasting"),
		FalseNorthing: cfg.GetFloat64("FalseNorthing"),
		ScaleFactor:   cfg.GetFloat64("ScaleFactor"),
	}
	var err error
	if d.Geoid, err = parseEllipsoid(cfg.GetString("Ellipsoid")); err != nil {
		return d, err
	}
	for _, p := range []struct {
		name string
		v    *[2]float64
	}{
		{"MapLatLimit", &d.MapLatLimit},
		{"MapLonLimit", &d.MapLonLimit},
		{"FLatLimit", &d.FLatLimit},
		{"FLonLimit", &d.FLonLimit},
		{"TrimLat", &d.TrimLat},
		{"TrimLon", &d.TrimLon},
	} {
		if *p.v, err = getPair(cfg, p.name); err != nil {
			return d, err
		}
	}
	for _, s := range []struct {
		name string
		v    *[]float64
	}{
		{"MapParallels", &d.MapParallels},
		{"Origin", &d.Origin},
		{"XLimit", &d.XLimit},
		{"YLimit", &d.YLimit},
	} {
		if *s.v, err = toFloat64SliceE(cfg.Get(s.name)); err != nil {
			return d, fmt.Errorf("mapproj: %s: %v", s.name, err)
		}
	}
	return d, d.Validate()
}

// parseEllipsoid returns the semimajor axis and eccentricity of the named
// ellipsoid or of an "a,e" pair.
func parseEllipsoid(s string) ([2]float64, error) {
	if s == "" {
		return [2]float64{}, nil
	}
	if !strings.Contains(s, ",") {
		e, err := mapproj.EllipsoidByName(s)
		if err != nil {
			return [2]float64{}, err
		}
		return e.Geoid(), nil
	}
	v, err := toFloat64SliceE(s)
	if err != nil {
		return [2]float64{}, fmt.Errorf("mapproj: Ellipsoid: %v", err)
	}
	if len(v) != 2 {
		return [2]float64{}, fmt.Errorf("mapproj: Ellipsoid needs a semimajor axis and an eccentricity, got %d values", len(v))
	}
	return [2]float64{v[0], v[1]}, nil
}

// getPair returns a two-element option. An unset option is zero.
func getPair(cfg *viper.Viper, name string) ([2]float64, error) {
	v, err := toFloat64SliceE(cfg.Get(name))
	if err != nil {
		return [2]float64{}, fmt.Errorf("mapproj: %s: %v", name, err)
	}
	switch len(v) {
	case 0:
		return [2]float64{}, nil
	case 2:
		return [2]float64{v[0], v[1]}, nil
	default:
		return [2]float64{}, fmt.Errorf("mapproj: %s needs 2 values, got %d", name, len(v))
	}
}

// RasterRefFromConfig creates a raster reference from the Raster options
// in cfg. A referencing vector takes precedence over a referencing matrix,
// which takes precedence over the raster limits.
func RasterRefFromConfig(cfg *viper.Viper) (*mapproj.RasterRef, error) {
	rows, cols := cfg.GetInt("Raster.Rows"), cfg.GetInt("Raster.Cols")
	v, err := toFloat64SliceE(cfg.Get("Raster.Vector"))
	if err != nil {
		return nil, fmt.Errorf("mapproj: Raster.Vector: %v", err)
	}
	if len(v) != 0 {
		if len(v) != 3 {
			return nil, fmt.Errorf("mapproj: Raster.Vector needs 3 values, got %d", len(v))
		}
		return mapproj.RefFromVector([3]float64{v[0], v[1], v[2]}, rows, cols)
	}
	m, err := toFloat64SliceE(cfg.Get("Raster.Matrix"))
	if err != nil {
		return nil, fmt.Errorf("mapproj: Raster.Matrix: %v", err)
	}
	if len(m) != 0 {
		if len(m) != 6 {
			return nil, fmt.Errorf("mapproj: Raster.Matrix needs 6 values, got %d", len(m))
		}
		return mapproj.RefFromMatrix(mat.NewDense(3, 2, m), rows, cols)
	}
	lat, err := getPair(cfg, "Raster.LatLimit")
	if err != nil {
		return nil, err
	}
	lon, err := getPair(cfg, "Raster.LonLimit")
	if err != nil {
		return nil, err
	}
	return mapproj.NewRasterRef(rows, cols, lat, lon, cfg.GetBool("Raster.FromNorth"))
}

// toFloat64SliceE converts a configuration value to a float slice. The
// value may come from a configuration file, from a command-line flag or
// from an environment variable, so strings in the forms "[1,2]" and
// "1,2" are accepted along with slices.
func toFloat64SliceE(i interface{}) ([]float64, error) {
	switch v := i.(type) {
	case nil:
		return nil, nil
	case []float64:
		return v, nil
	case []string:
		if len(v) == 0 {
			return nil, nil
		}
		if len(v) == 1 {
			return toFloat64SliceE(v[0])
		}
		return parseFloats(v)
	case []interface{}:
		o := make([]float64, len(v))
		for j, s := range v {
			f, err := cast.ToFloat64E(s)
			if err != nil {
				return nil, err
			}
			o[j] = f
		}
		return o, nil
	case string:
		s := strings.TrimSpace(v)
		s = strings.TrimSuffix(strings.TrimPrefix(s, "["), "]")
		if strings.TrimSpace(s) == "" {
			return nil, nil
		}
		return parseFloats(strings.Split(s, ","))
	default:
		return nil, fmt.Errorf("can't convert %#v of type %T to []float64", i, i)
	}
}

func parseFloats(v []string) ([]float64, error) {
	o := make([]float64, len(v))
	for j, s := range v {
		f, err := cast.ToFloat64E(strings.TrimSpace(s))
		if err != nil {
			return nil, err
		}
		o[j] = f
	}
	return o, nil
}

// toIntSliceE converts a configuration value to an int slice, accounting
// for the fact that it might be a JSON array if it was set from a
// command line argument.
func toIntSliceE(i interface{}) ([]int, error) {
	if s, ok := i.(string); ok {
		var o []int
		if err := json.Unmarshal([]byte(s), &o); err != nil {
			return nil, err
		}
		return o, nil
	}
	return cast.ToIntSliceE(i)
}

// checkFiles expands environment variables in the input and output paths
// and makes sure that the input exists and that the output directory can
// be written to. Empty paths are not checked.
func checkFiles(in, out string) (string, string, error) {
	in, out = os.ExpandEnv(in), os.ExpandEnv(out)
	if in != "" {
		if _, err := os.Stat(in); err != nil {
			return "", "", errors.Wrap(err, "mapproj: input file")
		}
	}
	if out != "" {
		if err := os.MkdirAll(filepath.Dir(out), os.ModePerm); err != nil {
			return "", "", errors.Wrap(err, "mapproj: output directory")
		}
	}
	return in, out, nil
}
