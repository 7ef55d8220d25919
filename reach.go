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

import "fmt"

// ThresholdWarning is the message given when the requested threshold is
// outside the range of the calculated concentrations.
const ThresholdWarning = "requested threshold outside computed range; using maximum"

// Reach is the result of a threshold search along the plume centerline.
type Reach struct {
	// EffectiveCs is the threshold [mg/m³] that was used for the search.
	EffectiveCs float64

	// Distance is the farthest downwind distance [m] on the centerline
	// where the concentration is at least EffectiveCs. It is only
	// meaningful if Found is true.
	Distance float64

	// Found is false when no centerline point meets the threshold.
	Found bool

	// Clamped is true when the requested threshold was outside the
	// range of the field and was replaced by the field maximum.
	Clamped bool
}

// Warning returns ThresholdWarning if the threshold was clamped and
// an empty string otherwise.
func (r Reach) Warning() string {
	if r.Clamped {
		return ThresholdWarning
	}
	return ""
}

func (r Reach) String() string {
	s := fmt.Sprintf("Cs=%g mg/m³: ", r.EffectiveCs)
	if r.Found {
		s += fmt.Sprintf("reach %g m", r.Distance)
	} else {
		s += "no centerline point meets the threshold"
	}
	if r.Clamped {
		s += " (" + ThresholdWarning + ")"
	}
	return s
}

// ComputeReach finds the farthest downwind point on the plume centerline
// where the concentration in f is at least cs [mg/m³]. The centerline is
// the row of f whose crosswind coordinate is closest to zero.
//
// If cs is below the field minimum, above the field maximum, or NaN,
// the field maximum is used instead and the result is marked as clamped.
//
// The farthest point is returned rather than the first crossing because
// the centerline concentration need not decrease monotonically near the
// source.
func ComputeReach(f *Field, cs float64) Reach {
	var r Reach
	min, max := f.Min(), f.Max()
	r.EffectiveCs = cs
	if !(cs >= min && cs <= max) {
		r.EffectiveCs = max
		r.Clamped = true
	}

	row := f.Grid.CenterlineRow()
	for i, c := range f.Row(row) {
		if c >= r.EffectiveCs {
			r.Distance = f.Grid.X[i]
			r.Found = true
		}
	}
	return r
}
