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
	"fmt"
)

// ErrInvalidParameter is returned, wrapped in an *InvalidParameterError,
// when an input is outside the domain where the model gives finite results.
var ErrInvalidParameter = errors.New("plume: invalid parameter")

// InvalidParameterError describes which input was rejected and why.
type InvalidParameterError struct {
	Name   string
	Value  float64
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("plume: invalid parameter %s=%g: %s", e.Name, e.Value, e.Reason)
}

// Unwrap returns ErrInvalidParameter.
func (e *InvalidParameterError) Unwrap() error {
	return ErrInvalidParameter
}
