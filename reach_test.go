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

package plume

import (
	"errors"
	"math"
	"testing"

	"github.com/kr/pretty"
)

// centerlineField returns a single-row field along y=0.
func centerlineField(t *testing.T, x, c []float64) *Field {
	f, err := NewField(&Grid{X: x, Y: []float64{0}}, c)
	if err != nil {
		t.Fatal(err)
	}
	return f
}

func TestComputeReach(t *testing.T) {
	f := centerlineField(t, []float64{50, 55, 60, 65, 70}, []float64{10, 8, 6, 4, 2})
	r := ComputeReach(f, 5)
	want := Reach{EffectiveCs: 5, Distance: 60, Found: true}
	if diff := pretty.Diff(r, want); len(diff) != 0 {
		t.Errorf("reach: %v", diff)
	}
	if r.Warning() != "" {
		t.Errorf("unexpected warning %q", r.Warning())
	}
}

func TestComputeReachFarthest(t *testing.T) {
	// The concentration rises then falls, so the farthest crossing
	// is not the first one.
	f := centerlineField(t, []float64{50, 55, 60, 65, 70, 75}, []float64{1, 3, 9, 7, 5, 2})
	r := ComputeReach(f, 4)
	if !r.Found || r.Distance != 70 {
		t.Errorf("reach = %+v; want 70", r)
	}
}

func TestComputeReachCenterlineRow(t *testing.T) {
	g := &Grid{X: []float64{50, 60, 70}, Y: []float64{-10, 0, 10}}
	f, err := NewField(g, []float64{
		9, 9, 9,
		9, 5, 1,
		9, 9, 9,
	})
	if err != nil {
		t.Fatal(err)
	}
	r := ComputeReach(f, 5)
	if !r.Found || r.Distance != 60 {
		t.Errorf("reach = %+v; want 60", r)
	}
}

func TestComputeReachClampHigh(t *testing.T) {
	f := centerlineField(t, []float64{50, 55, 60}, []float64{3, 7, 5})
	r := ComputeReach(f, 100)
	want := Reach{EffectiveCs: 7, Distance: 55, Found: true, Clamped: true}
	if diff := pretty.Diff(r, want); len(diff) != 0 {
		t.Errorf("reach: %v", diff)
	}
	if r.Warning() != ThresholdWarning {
		t.Errorf("warning = %q", r.Warning())
	}
}

func TestComputeReachClampLow(t *testing.T) {
	f := centerlineField(t, []float64{50, 55, 60}, []float64{3, 7, 5})
	for _, cs := range []float64{1, -1, math.NaN()} {
		r := ComputeReach(f, cs)
		if !r.Clamped || r.EffectiveCs != 7 {
			t.Errorf("cs=%g: reach = %+v; want clamped to 7", cs, r)
		}
	}
}

func TestComputeReachBoundary(t *testing.T) {
	f := centerlineField(t, []float64{50, 55, 60}, []float64{3, 7, 5})
	for _, cs := range []float64{3, 7} {
		r := ComputeReach(f, cs)
		if r.Clamped || r.EffectiveCs != cs {
			t.Errorf("cs=%g: reach = %+v; want unclamped", cs, r)
		}
	}
}

func TestComputeReachNotFound(t *testing.T) {
	// The threshold is within the field range, but only off the
	// centerline.
	g := &Grid{X: []float64{50, 60}, Y: []float64{-5, 0, 5}}
	f, err := NewField(g, []float64{
		8, 8,
		2, 1,
		8, 8,
	})
	if err != nil {
		t.Fatal(err)
	}
	r := ComputeReach(f, 4)
	want := Reach{EffectiveCs: 4}
	if diff := pretty.Diff(r, want); len(diff) != 0 {
		t.Errorf("reach: %v", diff)
	}
}

func TestComputeReachZeroEmissions(t *testing.T) {
	f, err := ComputeField(0, 2, 5, 0)
	if err != nil {
		t.Fatal(err)
	}
	r := ComputeReach(f, 3)
	want := Reach{EffectiveCs: 0, Distance: f.Grid.X[len(f.Grid.X)-1], Found: true, Clamped: true}
	if diff := pretty.Diff(r, want); len(diff) != 0 {
		t.Errorf("reach: %v", diff)
	}
	if want.Distance != 295 {
		t.Errorf("last x = %g", want.Distance)
	}
}

func TestSimulate(t *testing.T) {
	p := Parameters{Q: 1000, U: 2, D: 5, Z0: 0.1, Cs: 1}
	r, err := Simulate(p)
	if err != nil {
		t.Fatal(err)
	}
	if r.Params != p {
		t.Errorf("params = %+v", r.Params)
	}
	if r.Reach.Clamped {
		t.Fatalf("threshold should be within the field range: %v", r.Reach)
	}
	if !r.Reach.Found {
		t.Fatalf("no reach: %v", r.Reach)
	}
	// The centerline concentration at the reach meets the threshold
	// and the next point downwind (if any) does not.
	center := r.Field.Row(r.Field.Grid.CenterlineRow())
	for i, x := range r.Field.Grid.X {
		if x == r.Reach.Distance {
			if center[i] < p.Cs {
				t.Errorf("c(%g) = %g < %g", x, center[i], p.Cs)
			}
			for _, c := range center[i+1:] {
				if c >= p.Cs {
					t.Errorf("a point beyond the reach meets the threshold")
				}
			}
		}
	}
}

func TestSimulateInvalid(t *testing.T) {
	_, err := Simulate(Parameters{Q: 1000, U: 0, D: 5})
	if !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("err = %v; want ErrInvalidParameter", err)
	}
	_, err = Simulate(Parameters{Q: 1000, U: 2, D: 0})
	if !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("err = %v; want ErrInvalidParameter", err)
	}
}

func TestParametersValidate(t *testing.T) {
	if err := (Parameters{Q: 1, U: 1, D: 1, Z0: 0, Cs: -4}).Validate(); err != nil {
		t.Errorf("threshold should not be validated: %v", err)
	}
	if err := (Parameters{Q: 1, U: 1, D: 0}).Validate(); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("err = %v; want ErrInvalidParameter", err)
	}
}
