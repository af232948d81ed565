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

	"github.com/lnashier/viper"
	"github.com/spatialmodel/mapproj"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// Options are the configuration options available to mapproj.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "LogLevel",
			usage: `
              LogLevel is the minimum level of log messages that are
              printed: debug, info, warning or error.`,
			defaultVal: "info",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "Preset",
			usage: `
              Preset is the path to a TOML file holding the projection
              descriptor. When it is set, the individual projection
              options below are ignored.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "Projection",
			usage: `
              Projection is the map projection family, for example eqdconic,
              eqdcylin, mercator, eqdazim, lcc, aea or tmerc.`,
			shorthand:  "p",
			defaultVal: "eqdconic",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "AngleUnits",
			usage: `
              AngleUnits are the units of the angular options and of the
              input coordinates: degrees or radians.`,
			defaultVal: "degrees",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "Aspect",
			usage: `
              Aspect is the map aspect: normal or transverse.`,
			defaultVal: "normal",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "Ellipsoid",
			usage: `
              Ellipsoid is the name of the reference ellipsoid (a survey
              name such as wgs84, grs80, clarke-1866, airy or international,
              or sphere) or its semimajor axis in meters and eccentricity
              separated by a comma.`,
			defaultVal: "wgs84",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "MapLatLimit",
			usage: `
              MapLatLimit holds the southern and northern limits of the map.`,
			defaultVal: []string{},
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "MapLonLimit",
			usage: `
              MapLonLimit holds the western and eastern limits of the map.`,
			defaultVal: []string{},
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "FLatLimit",
			usage: `
              FLatLimit holds the latitude limits of the map in the
              projection frame.`,
			defaultVal: []string{},
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "FLonLimit",
			usage: `
              FLonLimit holds the longitude limits of the map in the
              projection frame.`,
			defaultVal: []string{},
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "MapParallels",
			usage: `
              MapParallels holds one or two standard parallels.`,
			defaultVal: []string{},
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "Origin",
			usage: `
              Origin holds the latitude, longitude and orientation of the
              projection origin.`,
			defaultVal: []string{},
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "TrimLat",
			usage: `
              TrimLat holds the frame latitudes beyond which points cannot
              be projected.`,
			defaultVal: []string{},
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "TrimLon",
			usage: `
              TrimLon holds the frame longitudes beyond which points cannot
              be projected.`,
			defaultVal: []string{},
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "XLimit",
			usage: `
              XLimit holds the planar x limits of the map. By default they
              are derived from the frame limits.`,
			defaultVal: []string{},
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "YLimit",
			usage: `
              YLimit holds the planar y limits of the map.`,
			defaultVal: []string{},
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "FalseEasting",
			usage: `
              FalseEasting is added to projected x coordinates.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "FalseNorthing",
			usage: `
              FalseNorthing is added to projected y coordinates.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "ScaleFactor",
			usage: `
              ScaleFactor multiplies projected coordinates.`,
			defaultVal: 1.0,
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "Input",
			usage: `
              Input is the shapefile (.shp) or GeoJSON (.geojson, .json)
              file holding the geographic features.`,
			shorthand:  "i",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{projectCmd.Flags(), reprojectCmd.Flags(), roundtripCmd.Flags()},
		},
		{
			name: "Output",
			usage: `
              Output is the shapefile (.shp) or GeoJSON (.geojson, .json)
              file the projected features are written to.`,
			shorthand:  "o",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{projectCmd.Flags(), reprojectCmd.Flags(), graticuleCmd.Flags()},
		},
		{
			name: "To",
			usage: `
              To is the path to a TOML file holding the projection
              descriptor the features are re-projected to.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{reprojectCmd.Flags()},
		},
		{
			name: "Workers",
			usage: `
              Workers is the number of features re-projected concurrently.`,
			defaultVal: 1,
			flagsets:   []*pflag.FlagSet{reprojectCmd.Flags()},
		},
		{
			name: "Raster.Vector",
			usage: `
              Raster.Vector is the referencing vector of the raster:
              cells per degree, northern latitude limit and western
              longitude limit.`,
			defaultVal: []string{},
			flagsets:   []*pflag.FlagSet{graticuleCmd.Flags()},
		},
		{
			name: "Raster.Matrix",
			usage: `
              Raster.Matrix holds the six elements, row by row, of the 3×2
              referencing matrix of the raster.`,
			defaultVal: []string{},
			flagsets:   []*pflag.FlagSet{graticuleCmd.Flags()},
		},
		{
			name: "Raster.LatLimit",
			usage: `
              Raster.LatLimit holds the southern and northern edges of the
              raster. It is used when neither a referencing vector nor a
              referencing matrix is given.`,
			defaultVal: []string{},
			flagsets:   []*pflag.FlagSet{graticuleCmd.Flags()},
		},
		{
			name: "Raster.LonLimit",
			usage: `
              Raster.LonLimit holds the western and eastern edges of the
              raster.`,
			defaultVal: []string{},
			flagsets:   []*pflag.FlagSet{graticuleCmd.Flags()},
		},
		{
			name: "Raster.FromNorth",
			usage: `
              Raster.FromNorth specifies whether raster rows start in the
              north.`,
			defaultVal: true,
			flagsets:   []*pflag.FlagSet{graticuleCmd.Flags()},
		},
		{
			name: "Raster.Rows",
			usage: `
              Raster.Rows is the number of rows in the raster.`,
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{graticuleCmd.Flags()},
		},
		{
			name: "Raster.Cols",
			usage: `
              Raster.Cols is the number of columns in the raster.`,
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{graticuleCmd.Flags()},
		},
		{
			name: "GraticuleSize",
			usage: `
              GraticuleSize holds the number of graticule rows and columns.
              Zero values give one graticule vertex per cell edge.`,
			defaultVal: []int{0, 0},
			flagsets:   []*pflag.FlagSet{graticuleCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("MAPPROJ")

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case []string:
				if option.shorthand == "" {
					set.StringSlice(option.name, option.defaultVal.([]string), option.usage)
				} else {
					set.StringSliceP(option.name, option.shorthand, option.defaultVal.([]string), option.usage)
				}
			case bool:
				if option.shorthand == "" {
					set.Bool(option.name, option.defaultVal.(bool), option.usage)
				} else {
					set.BoolP(option.name, option.shorthand, option.defaultVal.(bool), option.usage)
				}
			case int:
				if option.shorthand == "" {
					set.Int(option.name, option.defaultVal.(int), option.usage)
				} else {
					set.IntP(option.name, option.shorthand, option.defaultVal.(int), option.usage)
				}
			case []int:
				if option.shorthand == "" {
					set.IntSlice(option.name, option.defaultVal.([]int), option.usage)
				} else {
					set.IntSliceP(option.name, option.shorthand, option.defaultVal.([]int), option.usage)
				}
			case float64:
				if option.shorthand == "" {
					set.Float64(option.name, option.defaultVal.(float64), option.usage)
				} else {
					set.Float64P(option.name, option.shorthand, option.defaultVal.(float64), option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(projectCmd)
	Root.AddCommand(reprojectCmd)
	Root.AddCommand(roundtripCmd)
	Root.AddCommand(graticuleCmd)
}

// setConfig finds and reads in the configuration file, if there is one,
// and sets the log level.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("mapproj: problem reading configuration file: %v", err)
		}
	}
	return setLogLevel(Cfg.GetString("LogLevel"))
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "mapproj",
	Short: "Projects geographic features onto a map plane.",
	Long: `mapproj projects geographic vector features and raster graticules
onto a map plane, clipping what cannot be projected and trimming what falls
outside of the map frame, and re-projects them when the projection changes.

Refer to the subcommand documentation for configuration options and default settings.
Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'MAPPROJ_var' where 'var' is the
name of the variable to be set. The projection can also be read from a
TOML descriptor file given by --Preset.
Refer to https://github.com/spf13/viper for additional configuration information.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of mapproj.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("mapproj v%s\n", mapproj.Version)
	},
	DisableAutoGenTag: true,
}

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Project features",
	Long: `project reads geographic features from the Input file, projects them
with the configured projection and writes the planar features to the Output file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := DescriptorFromConfig(Cfg)
		if err != nil {
			return err
		}
		in, out, err := checkFiles(Cfg.GetString("Input"), Cfg.GetString("Output"))
		if err != nil {
			return err
		}
		return Project(in, out, d)
	},
	DisableAutoGenTag: true,
}

var reprojectCmd = &cobra.Command{
	Use:   "reproject",
	Short: "Re-project features to a different projection",
	Long: `reproject projects the features in the Input file with the configured
projection, re-projects them to the projection described by the To file
and writes the result to the Output file. Features that cannot be re-projected
are reported and written with their original projection.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		from, err := DescriptorFromConfig(Cfg)
		if err != nil {
			return err
		}
		to, err := LoadDescriptor(Cfg.GetString("To"))
		if err != nil {
			return err
		}
		in, out, err := checkFiles(Cfg.GetString("Input"), Cfg.GetString("Output"))
		if err != nil {
			return err
		}
		rep, err := Reproject(in, out, from, to, Cfg.GetInt("Workers"))
		if rep != nil {
			cmd.Printf("re-projected %d features; changed: %v\n", rep.Reprojected, rep.Changed)
		}
		return err
	},
	DisableAutoGenTag: true,
}

var roundtripCmd = &cobra.Command{
	Use:   "roundtrip",
	Short: "Check that projected features can be recovered",
	Long: `roundtrip projects the features in the Input file and recovers their
geographic coordinates, printing the largest difference from the input.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := DescriptorFromConfig(Cfg)
		if err != nil {
			return err
		}
		in, _, err := checkFiles(Cfg.GetString("Input"), "")
		if err != nil {
			return err
		}
		dev, err := RoundTrip(in, d)
		if err != nil {
			return err
		}
		cmd.Printf("maximum deviation: %g %s\n", dev, d.AngleUnits)
		return nil
	},
	DisableAutoGenTag: true,
}

var graticuleCmd = &cobra.Command{
	Use:   "graticule",
	Short: "Project the graticule of a raster",
	Long: `graticule builds the graticule of a regular latitude-longitude raster,
given by a referencing vector, a referencing matrix or its limits,
projects it and writes the projected mesh lines to the Output file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := DescriptorFromConfig(Cfg)
		if err != nil {
			return err
		}
		ref, err := RasterRefFromConfig(Cfg)
		if err != nil {
			return err
		}
		size, err := toIntSliceE(Cfg.Get("GraticuleSize"))
		if err != nil {
			return fmt.Errorf("mapproj: GraticuleSize: %v", err)
		}
		if len(size) != 2 {
			return fmt.Errorf("mapproj: GraticuleSize needs 2 values, got %d", len(size))
		}
		_, out, err := checkFiles("", Cfg.GetString("Output"))
		if err != nil {
			return err
		}
		return Graticule(out, ref, size[0], size[1], d)
	},
	DisableAutoGenTag: true,
}
