// seehuhn.de/go/stitch - reassembly of projected border pieces
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package testcases

var basicCases = []TestCase{
	{
		Name:     "single_cell",
		Grid:     grid(1, 1),
		Patterns: []Pattern{{ID: 0, Rect: box(0.25, 0.25, 0.75, 0.75)}},
		Want:     Want{Pieces: 1, Faces: 1, Vertices: 4, Edges: 4},
	},
	{
		Name:     "two_cells",
		Grid:     grid(2, 1),
		Patterns: []Pattern{{ID: 0, Rect: box(0.5, 0.25, 1.5, 0.75)}},
		Want:     Want{Pieces: 1, Faces: 1, Vertices: 6, Edges: 6},
	},
	{
		// pattern and base vertices coincide, (1, 1) is interior
		Name:     "block",
		Grid:     grid(2, 2),
		Patterns: []Pattern{{ID: 0, Rect: box(0, 0, 2, 2)}},
		Want:     Want{Pieces: 1, Faces: 1, Vertices: 8, Edges: 8},
	},
	{
		Name:     "three_by_three",
		Grid:     grid(3, 3),
		Patterns: []Pattern{{ID: 0, Rect: box(0.5, 0.5, 2.5, 2.5)}},
		Want:     Want{Pieces: 1, Faces: 1, Vertices: 12, Edges: 12},
	},
	{
		Name:     "flipped",
		Grid:     grid(2, 1),
		Patterns: []Pattern{{ID: 0, Rect: box(0.5, 0.25, 1.5, 0.75), Flipped: true}},
		Want:     Want{Pieces: 1, Faces: 1, Vertices: 6, Edges: 6},
	},
	{
		Name:     "attributes",
		Grid:     grid(2, 1),
		Patterns: []Pattern{{ID: 0, Rect: box(0.5, 0.25, 1.5, 0.75)}},
		Attrs:    true,
		Want:     Want{Pieces: 1, Faces: 1, Vertices: 6, Edges: 6},
	},
}
