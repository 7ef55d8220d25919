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

import "math"

// SigmaY returns the crosswind dispersion coefficient [m] at downwind
// distance x [m] over ground with roughness length z0 [m].
func SigmaY(x, z0 float64) float64 {
	by0 := 0.08 * x * math.Pow(1+0.0001*x, -0.5)
	return by0 * (1 + 0.38*z0)
}

// SigmaZ returns the vertical dispersion coefficient [m] at downwind
// distance x [m] over ground with roughness length z0 [m].
func SigmaZ(x, z0 float64) float64 {
	bz0 := 0.06 * x * math.Pow(1+0.0015*x, -0.5)
	return bz0 * RoughnessFactor(x, z0)
}

// RoughnessFactor is the correction applied to the vertical dispersion
// coefficient to account for ground roughness. x must be > 0.
// For a perfectly smooth surface (z0 == 0) the roughness term is 1.
func RoughnessFactor(x, z0 float64) float64 {
	lx := math.Log(x)
	f := (2.53 - 0.13*lx) / (0.55 + 0.042*lx)
	if z0 == 0 {
		return f
	}
	return f * math.Pow(z0, 0.35-0.03*lx)
}
