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
	"fmt"
	"math"
)

// These constants define the model domain in meters. Ranges are
// inclusive at the start and exclusive at the end.
const (
	XStart = 50.  // Nearest downwind distance
	XEnd   = 300. // Farthest downwind distance
	YStart = -100.
	YEnd   = 101.
)

// MaxGridPoints is the largest number of lattice points a grid may have.
const MaxGridPoints = 10000000

// Grid is a rectangular lattice of points defined by a downwind (X)
// and crosswind (Y) axis. X is the column axis and Y is the row axis.
type Grid struct {
	X, Y []float64
}

// NewGrid returns the model domain grid with spacing d in both
// directions.
func NewGrid(d float64) (*Grid, error) {
	if math.IsNaN(d) || math.IsInf(d, 0) || !(d > 0) {
		return nil, &InvalidParameterError{Name: "d", Value: d, Reason: "grid step must be a finite number > 0"}
	}
	nx := math.Ceil((XEnd - XStart) / d)
	ny := math.Ceil((YEnd - YStart) / d)
	if nx*ny > MaxGridPoints {
		return nil, &InvalidParameterError{Name: "d", Value: d,
			Reason: fmt.Sprintf("grid step is too small: the grid would have %g points but the limit is %d",
				nx*ny, MaxGridPoints)}
	}
	return &Grid{
		X: arange(XStart, int(nx), d),
		Y: arange(YStart, int(ny), d),
	}, nil
}

// arange returns n values starting at start and separated by step.
// Each value is calculated from the start rather than accumulated,
// so that rounding errors do not build up along the axis.
func arange(start float64, n int, step float64) []float64 {
	o := make([]float64, n)
	for i := range o {
		o[i] = start + float64(i)*step
	}
	return o
}

// Dims returns the number of columns (X values) and rows (Y values)
// in the grid.
func (g *Grid) Dims() (c, r int) {
	return len(g.X), len(g.Y)
}

// Len returns the number of points in the grid.
func (g *Grid) Len() int {
	return len(g.X) * len(g.Y)
}

// CenterlineRow returns the index of the row whose Y value is
// closest to zero. When two rows are equally close, the one with the
// lower index is returned. It returns -1 if the grid has no rows.
func (g *Grid) CenterlineRow() int {
	row := -1
	best := math.Inf(1)
	for j, y := range g.Y {
		if a := math.Abs(y); a < best {
			best = a
			row = j
		}
	}
	return row
}
