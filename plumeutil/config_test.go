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
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/kr/pretty"
	"github.com/lnashier/viper"
	"github.com/spatialmodel/plume"
	"github.com/spatialmodel/plume/plumeplot"
	"gonum.org/v1/plot/vg"
)

func TestParameters(t *testing.T) {
	cfg := viper.New()
	cfg.Set("Q", "1000")
	cfg.Set("U", 2.5)
	cfg.Set("D", 5)
	cfg.Set("Z0", "0.1")
	cfg.Set("Cs", 3)
	p, err := Parameters(cfg)
	if err != nil {
		t.Fatal(err)
	}
	want := plume.Parameters{Q: 1000, U: 2.5, D: 5, Z0: 0.1, Cs: 3}
	if diff := pretty.Diff(p, want); len(diff) != 0 {
		t.Errorf("parameters: %v", diff)
	}
}

func TestParametersInvalid(t *testing.T) {
	cfg := viper.New()
	cfg.Set("Q", "1000")
	cfg.Set("U", 0)
	cfg.Set("D", 5)
	cfg.Set("Z0", 0)
	cfg.Set("Cs", 0)
	if _, err := Parameters(cfg); !errors.Is(err, plume.ErrInvalidParameter) {
		t.Errorf("err = %v; want ErrInvalidParameter", err)
	}
	cfg.Set("U", "fast")
	if _, err := Parameters(cfg); err == nil {
		t.Error("expected a parsing error")
	}
}

func TestPlotOptions(t *testing.T) {
	cfg := viper.New()
	cfg.Set("Title", "ammonia")
	cfg.Set("Levels", "10")
	cfg.Set("Width", 6)
	cfg.Set("Height", "4")
	o, err := PlotOptions(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if o.Title != "ammonia" || o.Levels != 10 || o.Width != 6*vg.Inch || o.Height != 4*vg.Inch {
		t.Errorf("options = %+v", o)
	}
	if o.ColorMap == nil {
		t.Error("no color map")
	}
	cfg.Set("Levels", 1)
	if _, err := PlotOptions(cfg); err == nil {
		t.Error("expected an error for Levels=1")
	}
	cfg.Set("Levels", plumeplot.MaxLevels+1)
	if _, err := PlotOptions(cfg); err == nil {
		t.Error("expected an error for too many levels")
	}
	cfg.Set("Levels", 10)
	cfg.Set("Width", 0)
	if _, err := PlotOptions(cfg); err == nil {
		t.Error("expected an error for Width=0")
	}
}

func TestCheckOutputFile(t *testing.T) {
	if _, err := checkOutputFile(""); err == nil {
		t.Error("expected an error for a blank file")
	}
	if _, err := checkOutputFile("/this/directory/does/not/exist/plume.png"); err == nil {
		t.Error("expected an error for a missing directory")
	}
	os.Setenv("PLUME_TEST_DIR", os.TempDir())
	defer os.Unsetenv("PLUME_TEST_DIR")
	f, err := checkOutputFile("${PLUME_TEST_DIR}/plume.png")
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(os.TempDir(), "plume.png"); filepath.Clean(f) != want {
		t.Errorf("%s != %s", f, want)
	}
}

func TestCheckFormat(t *testing.T) {
	for _, test := range []struct {
		format, file, want string
		err                bool
	}{
		{format: "", file: "plume.png", want: "png"},
		{format: "SVG", file: "plume.png", want: "svg"},
		{format: "", file: "plume.gif", err: true},
		{format: "", file: "plume", err: true},
	} {
		f, err := checkFormat(test.format, test.file)
		if (err != nil) != test.err {
			t.Errorf("%+v: err = %v", test, err)
			continue
		}
		if f != test.want {
			t.Errorf("%+v: format = %q", test, f)
		}
	}
}

func TestCheckLogFile(t *testing.T) {
	if l := checkLogFile("", "out/plume.png"); l != "out/plume.log" {
		t.Errorf("log file = %s", l)
	}
	if l := checkLogFile("run.log", "out/plume.png"); l != "run.log" {
		t.Errorf("log file = %s", l)
	}
}
