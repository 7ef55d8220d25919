/*
Copyright © 2024 the plume authors.
This file is part of plume.

plume is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

plume is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with plume.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package plumeutil provides the command-line and web interfaces to the
// plume model.
package plumeutil

import (
	"fmt"
	"html/template"
	"net/http"

	"github.com/BurntSushi/toml"
	"github.com/ctessum/gobra"
	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/skratchdot/open-golang/open"
	"github.com/spatialmodel/plume"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

type option struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

var options []option

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(runCmd)
	Root.AddCommand(reachCmd)
	Root.AddCommand(configCmd)
	Root.AddCommand(serveCmd)

	// Options are the configuration options available to plume.
	options = []option{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "Q",
			usage: `
              Q is the emission rate of the source in mg/s.`,
			defaultVal: 0.,
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "U",
			usage: `
              U is the wind speed in m/s. It must be greater than zero.`,
			defaultVal: 0.,
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "D",
			usage: `
              D is the spacing of the calculation grid in m. Smaller
              values give more precise results but take longer to
              calculate.`,
			defaultVal: 5.,
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "Z0",
			usage: `
              Z0 is the ground roughness length in m.`,
			defaultVal: 0.,
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "Cs",
			usage: `
              Cs is the threshold concentration in mg/m³. The reach is
              the farthest downwind distance along the plume centerline
              where the concentration is at least Cs. If Cs is outside
              the range of calculated concentrations, the maximum
              concentration is used instead.`,
			defaultVal: 0.,
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "OutputFile",
			usage: `
              OutputFile is the path to the desired output image location.
              It can include environment variables.`,
			defaultVal: "plume.png",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Format",
			usage: `
              Format is the output image format. If it is left blank, the
              format is determined by the extension of OutputFile.
              Acceptable values are png, jpg, jpeg, tif, tiff, svg, pdf, and eps.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "LogFile",
			usage: `
              LogFile is the path to the desired logfile location. It can include
              environment variables. If LogFile is left blank, the logfile will be saved in
              the same location as the OutputFile.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Title",
			usage: `
              Title is the title of the output figure.`,
			defaultVal: "Ground-level plume concentration",
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), serveCmd.Flags()},
		},
		{
			name: "Levels",
			usage: `
              Levels is the number of color bands and iso-lines in the output
              figure. It must be between 2 and 256.`,
			defaultVal: 20,
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), serveCmd.Flags()},
		},
		{
			name: "Width",
			usage: `
              Width is the width of the output figure in inches.`,
			defaultVal: 8.,
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), serveCmd.Flags()},
		},
		{
			name: "Height",
			usage: `
              Height is the height of the output figure in inches.`,
			defaultVal: 5.,
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), serveCmd.Flags()},
		},
		{
			name: "Verbose",
			usage: `
              Verbose specifies whether to log debugging information.`,
			shorthand:  "v",
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "Addr",
			usage: `
              Addr is the network address the HTTP server listens on.`,
			defaultVal: "localhost:7272",
			flagsets:   []*pflag.FlagSet{serveCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("PLUME")
	Cfg.AutomaticEnv()

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch v := option.defaultVal.(type) {
			case string:
				set.StringP(option.name, option.shorthand, v, option.usage)
			case bool:
				set.BoolP(option.name, option.shorthand, v, option.usage)
			case int:
				set.IntP(option.name, option.shorthand, v, option.usage)
			case float64:
				set.Float64P(option.name, option.shorthand, v, option.usage)
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("plume: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "plume",
	Short: "A Gaussian plume dispersion model.",
	Long: `plume calculates ground-level concentrations downwind of a continuous
point source of pollution using a steady-state Gaussian plume model, and
finds the farthest distance along the plume centerline where the
concentration is at least a threshold value.

Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'PLUME_var' where 'var' is the
name of the variable to be set.
Refer to https://github.com/spf13/viper for additional configuration information.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of plume.",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "plume v%s\n", plume.Version)
	},
	DisableAutoGenTag: true,
}

// runCmd is a command that runs a simulation and draws the results.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the model and draw the results.",
	Long: `run calculates the concentration field and the reach of the threshold
concentration and draws them to OutputFile.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := Parameters(Cfg)
		if err != nil {
			return err
		}
		outputFile, err := checkOutputFile(Cfg.GetString("OutputFile"))
		if err != nil {
			return err
		}
		format, err := checkFormat(Cfg.GetString("Format"), outputFile)
		if err != nil {
			return err
		}
		o, err := PlotOptions(Cfg)
		if err != nil {
			return err
		}
		return Run(cmd,
			checkLogFile(Cfg.GetString("LogFile"), outputFile),
			outputFile, format, Cfg.GetBool("Verbose"), p, o)
	},
	DisableAutoGenTag: true,
}

// reachCmd is a command that calculates the reach without drawing.
var reachCmd = &cobra.Command{
	Use:   "reach",
	Short: "Calculate the reach of the threshold concentration.",
	Long: `reach calculates the concentration field and prints the farthest
distance along the plume centerline where the concentration is at
least Cs, without drawing a figure.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := Parameters(Cfg)
		if err != nil {
			return err
		}
		r, err := plume.Simulate(p)
		if err != nil {
			return err
		}
		log := newLogger(cmd.OutOrStderr(), Cfg.GetBool("Verbose"))
		logReach(log, r)
		printReach(cmd, r.Reach)
		return nil
	},
	DisableAutoGenTag: true,
}

// configCmd prints the current configuration.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the configuration.",
	Long: `config prints the configuration that results from combining the
configuration file, environment variables, and command-line arguments,
in TOML format. The output can be used as a configuration file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := make(map[string]interface{})
		for _, option := range options {
			if option.name == "config" {
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				c[option.name] = Cfg.GetString(option.name)
			case bool:
				c[option.name] = Cfg.GetBool(option.name)
			case int:
				c[option.name] = Cfg.GetInt(option.name)
			case float64:
				c[option.name] = Cfg.GetFloat64(option.name)
			}
		}
		return toml.NewEncoder(cmd.OutOrStdout()).Encode(c)
	},
	DisableAutoGenTag: true,
}

// serveCmd starts an HTTP server that draws plumes on request.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start an HTTP server.",
	Long: `serve starts an HTTP server that calculates and draws plumes on request.
Model parameters are given as URL query values, for example
/plume.png?Q=1000&U=2&D=5&Z0=0.1&Cs=1. Any parameters that are not given
in the request take their values from the configuration.
/reach takes the same query values and returns the reach as JSON.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := defaultParameters(Cfg)
		if err != nil {
			return err
		}
		o, err := PlotOptions(Cfg)
		if err != nil {
			return err
		}
		log := newLogger(cmd.OutOrStdout(), Cfg.GetBool("Verbose"))
		s := NewServer(p, o, log)
		addr := Cfg.GetString("Addr")
		log.WithField("address", addr).Info("starting server")
		return http.ListenAndServe(addr, s)
	},
	DisableAutoGenTag: true,
}

// StartWebServer starts a web form for configuring and running the model.
func StartWebServer() {
	log := newLogger(nil, false)
	if err := setConfig(); err != nil {
		log.Warn(err)
	}

	for _, cmd := range []*cobra.Command{Root, versionCmd, runCmd, reachCmd, configCmd, serveCmd} {
		cmd.SilenceUsage = true // We don't want the usage messages in the GUI.
	}

	const address = "localhost:7171"
	const tmpl = `
<!DOCTYPE html>
<html>
<head>
	<meta charset="utf-8">
	<title>plume</title>
	<style>
		html, body {padding: 0; margin: 2% 0; font-family: sans-serif;}
		.container { max-width: 700px; margin: 0 auto; padding: 10px; }
		div[id^="gobra-"] blockquote { border-left: 3px solid #bbb; margin: .3em; color: #333; padding-left: 5px; font-size: 75%; }
		div[id^="gobra-"] code { font-weight: bold; }
		div[id^="gobra-"] input { font-family: monospace; margin-left: .2em; width: 50%; outline:none; }
	</style>
</head>
<body>
<div class="container">
	<h1>Gaussian plume dispersion</h1>
	<p>Enter the source and weather parameters, then run the model.</p>
	<div>
		{{.}}
	</div>
</div>
</body>
</html>`

	output := template.Must(template.New("").Parse(tmpl))
	server := gobra.Server{Root: Root, ServerAddress: address, AllowCORS: false, HTML: output}
	log.Info("server starting")
	if err := open.Run("http://" + address); err != nil {
		log.WithFields(logrus.Fields{"address": address, "error": err}).
			Info("could not open browser; please visit the address manually")
	}
	server.Start()
}
