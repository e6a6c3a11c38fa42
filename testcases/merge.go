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

import (
	"seehuhn.de/go/geom/matrix"

	"seehuhn.de/go/stitch"
)

// tileSplit is one pattern polygon which crosses the boundary between
// tile (0, 0) and tile (1, 0) of a 1×1 grid.
var tileSplit = []Pattern{
	{ID: 0, Rect: box(0.5, 0.25, 1.5, 0.75)},
	{ID: 0, Rect: box(-0.5, 0.25, 0.5, 0.75), Tile: stitch.Tile{U: 1}},
}

var mergeCases = []TestCase{
	{
		Name:     "tile_boundary",
		Grid:     grid(1, 1),
		Patterns: tileSplit,
		Want:     Want{Pieces: 2, Faces: 2, Vertices: 6, Edges: 7, Snapped: 2},
	},
	{
		Name:     "tile_boundary_nosnap",
		Grid:     grid(1, 1),
		Patterns: tileSplit,
		Config: &stitch.Config{
			ReceiveDistance: 1,
			MergeEpsilon:    1e-6,
		},
		Want: Want{Pieces: 2, Faces: 2, Vertices: 8, Edges: 8},
	},
	{
		// two pattern polygons touching along y=0.5, stitched by
		// different jobs
		Name: "two_patterns",
		Grid: grid(2, 1),
		Patterns: []Pattern{
			{ID: 0, Rect: box(0.5, 0.25, 1.5, 0.5)},
			{ID: 1, Rect: box(0.5, 0.5, 1.5, 0.75)},
		},
		Config: &stitch.Config{
			Workers:         2,
			ReceiveDistance: 1,
			MergeEpsilon:    1e-6,
			SnapEpsilon:     1e-7,
		},
		Want: Want{Pieces: 2, Faces: 2, Vertices: 9, Edges: 10, Snapped: 3},
	},
	{
		// one pattern polygon per cell, all corners on base vertices
		Name: "checkerboard",
		Grid: grid(2, 2),
		Patterns: []Pattern{
			{ID: 0, Rect: box(0, 0, 1, 1)},
			{ID: 1, Rect: box(1, 0, 2, 1)},
			{ID: 2, Rect: box(0, 1, 1, 2)},
			{ID: 3, Rect: box(1, 1, 2, 2)},
		},
		Config: &stitch.Config{
			Workers:         4,
			ReceiveDistance: 1,
			MergeEpsilon:    1e-6,
			SnapEpsilon:     1e-7,
		},
		Attrs: true,
		Want:  Want{Pieces: 4, Faces: 4, Vertices: 9, Edges: 12},
	},
	{
		Name:     "transformed",
		Grid:     grid(2, 1),
		Patterns: []Pattern{{ID: 0, Rect: box(0.5, 0.25, 1.5, 0.75)}},
		Config: &stitch.Config{
			ReceiveDistance: 1,
			MergeEpsilon:    1e-6,
			SnapEpsilon:     1e-7,
			UVTransform:     matrix.Scale(0.5, 2).Translate(1, 0),
		},
		Want: Want{Pieces: 1, Faces: 1, Vertices: 6, Edges: 6},
	},
}
