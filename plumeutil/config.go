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

package plumeutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lnashier/viper"
	"github.com/spatialmodel/plume"
	"github.com/spatialmodel/plume/plumeplot"
	"github.com/spf13/cast"
	"gonum.org/v1/plot/vg"
)

// defaultParameters reads the model parameters from cfg without
// checking them.
func defaultParameters(cfg *viper.Viper) (plume.Parameters, error) {
	var p plume.Parameters
	vars := []*float64{&p.Q, &p.U, &p.D, &p.Z0, &p.Cs}
	names := []string{"Q", "U", "D", "Z0", "Cs"}
	for i, name := range names {
		v, err := cast.ToFloat64E(cfg.Get(name))
		if err != nil {
			return p, fmt.Errorf("plume: parsing configuration variable %s: %v", name, err)
		}
		*vars[i] = v
	}
	return p, nil
}

// Parameters reads the model parameters from cfg and checks that
// they are valid.
func Parameters(cfg *viper.Viper) (plume.Parameters, error) {
	p, err := defaultParameters(cfg)
	if err != nil {
		return p, err
	}
	if err := p.Validate(); err != nil {
		return p, err
	}
	return p, nil
}

// PlotOptions reads the figure options from cfg.
func PlotOptions(cfg *viper.Viper) (plumeplot.Options, error) {
	o := plumeplot.DefaultOptions()
	o.Title = cfg.GetString("Title")

	levels, err := cast.ToIntE(cfg.Get("Levels"))
	if err != nil {
		return o, fmt.Errorf("plume: parsing configuration variable Levels: %v", err)
	}
	if err := plumeplot.CheckLevels(levels); err != nil {
		return o, err
	}
	o.Levels = levels

	vars := []*vg.Length{&o.Width, &o.Height}
	names := []string{"Width", "Height"}
	for i, name := range names {
		v, err := cast.ToFloat64E(cfg.Get(name))
		if err != nil {
			return o, fmt.Errorf("plume: parsing configuration variable %s: %v", name, err)
		}
		if !(v > 0) {
			return o, fmt.Errorf("plume: %s=%g but should be >0", name, v)
		}
		*vars[i] = vg.Length(v) * vg.Inch
	}
	return o, nil
}

// checkOutputFile makes sure that the output file is specified and its
// directory exists, and expand any environment variables.
func checkOutputFile(f string) (string, error) {
	if f == "" {
		return "", fmt.Errorf(`plume: you need to specify an output file configuration variable (for example: OutputFile="plume.png")`)
	}
	f = os.ExpandEnv(f)
	outdir := filepath.Dir(f)
	if _, err := os.Stat(outdir); err != nil {
		return f, fmt.Errorf("plume: the OutputFile directory doesn't exist: %v", err)
	}
	return f, nil
}

// checkFormat returns the output format, which is format if it is
// specified or otherwise is determined from the output file extension.
func checkFormat(format, outputFile string) (string, error) {
	format = strings.ToLower(os.ExpandEnv(format))
	if format == "" {
		format = plumeplot.FormatFromFile(outputFile)
	}
	if err := plumeplot.CheckFormat(format); err != nil {
		return "", err
	}
	return format, nil
}

// checkLogFile fills in a default value for the log file path if one isn't
// specified.
func checkLogFile(logFile, outputFile string) string {
	if logFile == "" {
		return strings.TrimSuffix(outputFile, filepath.Ext(outputFile)) + ".log"
	}
	return os.ExpandEnv(logFile)
}
