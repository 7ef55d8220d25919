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

// Command plume is a command-line interface for the plume Gaussian
// dispersion model.
package main

import (
	"fmt"
	"os"

	"github.com/spatialmodel/plume/plumeutil"
)

func main() {
	var commands int
	for _, arg := range os.Args { // Count the number of supplied commands.
		if arg != "" && arg[0] != '-' {
			commands++
		}
	}
	if commands == 1 { // If only one command was supplied, start the GUI server.
		plumeutil.StartWebServer()
		return
	}

	// If more than one command was supplied, run in CLI mode.
	if err := plumeutil.Root.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
