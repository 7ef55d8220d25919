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

// Package plume calculates steady-state ground-level pollutant concentrations
// downwind of a continuous point source using a Gaussian plume model, and
// finds how far downwind the plume centerline stays above a concentration
// threshold.
package plume

import (
	"fmt"
	"math"
)

// Version gives the version number.
const Version = "1.0.0"

// Parameters holds the inputs for a simulation.
type Parameters struct {
	Q  float64 // Emission rate [mg/s]
	U  float64 // Wind speed [m/s]
	D  float64 // Grid step [m]
	Z0 float64 // Ground roughness length [m]
	Cs float64 // Concentration threshold [mg/m³]
}

// Validate checks that the field model inputs are within their
// physical domains. The threshold Cs is not checked here because
// out-of-range thresholds are handled by clamping in ComputeReach.
func (p Parameters) Validate() error {
	return validate(p.Q, p.U, p.D, p.Z0)
}

func (p Parameters) String() string {
	return fmt.Sprintf("Q=%g mg/s, u=%g m/s, d=%g m, Z0=%g m, Cs=%g mg/m³",
		p.Q, p.U, p.D, p.Z0, p.Cs)
}

func validate(q, u, d, z0 float64) error {
	vals := []float64{q, u, d, z0}
	names := []string{"Q", "u", "d", "Z0"}
	for i, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &InvalidParameterError{Name: names[i], Value: v, Reason: "must be a finite number"}
		}
	}
	switch {
	case !(u > 0):
		return &InvalidParameterError{Name: "u", Value: u, Reason: "wind speed must be > 0"}
	case !(d > 0):
		return &InvalidParameterError{Name: "d", Value: d, Reason: "grid step must be > 0"}
	case q < 0:
		return &InvalidParameterError{Name: "Q", Value: q, Reason: "emission rate must be >= 0"}
	case z0 < 0:
		return &InvalidParameterError{Name: "Z0", Value: z0, Reason: "roughness length must be >= 0"}
	}
	return nil
}

// Result holds the output of a simulation.
type Result struct {
	Params Parameters
	Field  *Field
	Reach  Reach
}

// Simulate calculates the concentration field for p and then the reach
// of the threshold p.Cs along the plume centerline.
func Simulate(p Parameters) (*Result, error) {
	f, err := ComputeField(p.Q, p.U, p.D, p.Z0)
	if err != nil {
		return nil, err
	}
	return &Result{
		Params: p,
		Field:  f,
		Reach:  ComputeReach(f, p.Cs),
	}, nil
}
