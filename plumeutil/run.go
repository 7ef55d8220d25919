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
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/plume"
	"github.com/spatialmodel/plume/plumeplot"
	"github.com/spf13/cobra"
)

// newLogger returns a logger writing to w, or to standard error if
// w is nil.
func newLogger(w io.Writer, verbose bool) *logrus.Logger {
	log := logrus.New()
	if w != nil {
		log.Out = w
	}
	log.Formatter = &logrus.TextFormatter{FullTimestamp: true}
	if verbose {
		log.Level = logrus.DebugLevel
	}
	return log
}

// Run runs the model and draws the results.
//
// CobraCommand is the cobra.Command instance where Run is called from.
// It is needed to print certain outputs to the web interface.
//
// LogFile is the path to the desired logfile location.
//
// OutputFile is the path to the desired output image location, and
// Format is its image format.
//
// If Verbose is true, debugging information is logged.
//
// params holds the model inputs and opts specifies how the
// figure is drawn.
func Run(CobraCommand *cobra.Command, LogFile, OutputFile, Format string, Verbose bool,
	params plume.Parameters, opts plumeplot.Options) error {

	startTime := time.Now()

	logfile, err := os.Create(LogFile)
	if err != nil {
		return fmt.Errorf("plume: problem creating log file: %v", err)
	}
	defer logfile.Close()
	log := newLogger(io.MultiWriter(CobraCommand.OutOrStdout(), logfile), Verbose)

	log.WithFields(logrus.Fields{
		"Q":  params.Q,
		"U":  params.U,
		"D":  params.D,
		"Z0": params.Z0,
		"Cs": params.Cs,
	}).Info("calculating concentrations")

	r, err := plume.Simulate(params)
	if err != nil {
		return err
	}
	nx, ny := r.Field.Dims()
	log.WithFields(logrus.Fields{
		"columns": nx,
		"rows":    ny,
		"min":     r.Field.Min(),
		"max":     r.Field.Max(),
		"time":    time.Since(startTime),
	}).Debug("concentrations calculated")
	logReach(log, r)

	drawTime := time.Now()
	fig, err := plumeplot.New(r, opts)
	if err != nil {
		return err
	}
	f, err := os.Create(OutputFile)
	if err != nil {
		return fmt.Errorf("plume: problem creating output file: %v", err)
	}
	if err := fig.WriteTo(f, Format); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("plume: problem closing output file: %v", err)
	}
	log.WithFields(logrus.Fields{
		"file": OutputFile,
		"time": time.Since(drawTime),
	}).Info("figure saved")

	log.WithField("time", time.Since(startTime)).Info("simulation finished")
	return nil
}

// logReach logs the result of the threshold search.
func logReach(log logrus.FieldLogger, r *plume.Result) {
	if r.Reach.Clamped {
		log.WithFields(logrus.Fields{
			"requested": r.Params.Cs,
			"min":       r.Field.Min(),
			"max":       r.Field.Max(),
		}).Warn(plume.ThresholdWarning)
	}
	fields := logrus.Fields{"Cs": r.Reach.EffectiveCs}
	if r.Reach.Found {
		fields["reach"] = r.Reach.Distance
		log.WithFields(fields).Info("threshold reach calculated")
	} else {
		log.WithFields(fields).Info("no centerline point meets the threshold")
	}
}

// printReach prints the reach in a form suitable for reading by people.
func printReach(cmd *cobra.Command, r plume.Reach) {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Effective Cs: %g mg/m³\n", r.EffectiveCs)
	if r.Found {
		fmt.Fprintf(w, "Reach: %g m\n", r.Distance)
	} else {
		fmt.Fprintln(w, "Reach: none")
	}
	fmt.Fprintf(w, "Clamped: %v\n", r.Clamped)
}
