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

	"gonum.org/v1/gonum/floats"
)

// Field holds ground-level concentrations [mg/m³] at each point of a Grid.
// Values are stored by row, so C[j*len(Grid.X)+i] is the concentration at
// (Grid.X[i], Grid.Y[j]).
//
// Field satisfies the gonum.org/v1/plot/plotter.GridXYZ interface.
type Field struct {
	Grid *Grid
	C    []float64
}

// NewField returns a field holding the given concentrations, which
// must be ordered by row as described for Field.
func NewField(g *Grid, c []float64) (*Field, error) {
	if g == nil {
		return nil, fmt.Errorf("plume: field grid is nil")
	}
	if len(c) != g.Len() {
		return nil, fmt.Errorf("plume: field has %d values but grid has %d points", len(c), g.Len())
	}
	if len(c) == 0 {
		return nil, fmt.Errorf("plume: field is empty")
	}
	return &Field{Grid: g, C: c}, nil
}

// ComputeField calculates ground-level concentrations downwind of a
// continuous point source with emission rate q [mg/s] in wind speed
// u [m/s] over ground with roughness length z0 [m], on the model domain
// grid with spacing d [m].
//
// The plume is assumed to be fully reflected by the ground, so the
// concentration at (x, y) is
//	Q / (π u σy σz) exp(-y² / (2 σy²)).
func ComputeField(q, u, d, z0 float64) (*Field, error) {
	if err := validate(q, u, d, z0); err != nil {
		return nil, err
	}
	g, err := NewGrid(d)
	if err != nil {
		return nil, err
	}
	nx, ny := g.Dims()
	c := make([]float64, nx*ny)
	for i, x := range g.X {
		sy := SigmaY(x, z0)
		sz := SigmaZ(x, z0)
		peak := q / (math.Pi * u * sy * sz)
		twoSy2 := 2 * sy * sy
		for j, y := range g.Y {
			c[j*nx+i] = peak * math.Exp(-y*y/twoSy2)
		}
	}
	return &Field{Grid: g, C: c}, nil
}

// Dims returns the number of columns and rows in the field.
func (f *Field) Dims() (c, r int) { return f.Grid.Dims() }

// Z returns the concentration in column c and row r.
func (f *Field) Z(c, r int) float64 { return f.C[r*len(f.Grid.X)+c] }

// X returns the downwind distance of column c.
func (f *Field) X(c int) float64 { return f.Grid.X[c] }

// Y returns the crosswind distance of row r.
func (f *Field) Y(r int) float64 { return f.Grid.Y[r] }

// Row returns the concentrations in row r, ordered by increasing X.
// The returned slice shares memory with the field.
func (f *Field) Row(r int) []float64 {
	nx := len(f.Grid.X)
	return f.C[r*nx : (r+1)*nx]
}

// Min returns the lowest concentration in the field.
func (f *Field) Min() float64 { return floats.Min(f.C) }

// Max returns the highest concentration in the field.
func (f *Field) Max() float64 { return floats.Max(f.C) }
