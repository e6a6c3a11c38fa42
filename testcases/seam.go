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

import "seehuhn.de/go/stitch"

// strip is a pattern crossing three cells of a 3×1 grid.
var strip = []Pattern{{ID: 0, Rect: box(0.5, 0.25, 2.5, 0.75)}}

// square is a pattern covering the middle of a 3×3 grid.
var square = []Pattern{{ID: 0, Rect: box(0.5, 0.5, 2.5, 2.5)}}

// stripGrid returns a 3×1 grid where x=2 is a preserve edge with the
// given receive regions at its lower and upper end.
func stripGrid(lower, upper int, dist float64) func() *Grid {
	return func() *Grid {
		g := NewGrid(3, 1)
		e := g.VEdge(2, 0)
		g.SetPreserve(e)
		if lower != stitch.NoRegion {
			g.SetReceive(e, g.Vertex(2, 0), lower, 0.5)
		}
		if upper != stitch.NoRegion {
			g.SetReceive(e, g.Vertex(2, 1), upper, dist)
		}
		return g
	}
}

// crossGrid returns a 3×3 grid with preserve lines along x=1 and, if
// cross is set, y=1.
func crossGrid(cross bool, receive func(g *Grid)) func() *Grid {
	return func() *Grid {
		g := NewGrid(3, 3)
		g.SetPreserve(g.VEdge(1, 0), g.VEdge(1, 1), g.VEdge(1, 2))
		if cross {
			g.SetPreserve(g.HEdge(0, 1), g.HEdge(1, 1), g.HEdge(2, 1))
		}
		if receive != nil {
			receive(g)
		}
		return g
	}
}

// column is a pattern covering the cells (1, 0) and (1, 1) of a 3×2
// grid.  Its outline meets the preserve edge y=1 at base vertices.
var column = []Pattern{{ID: 0, Rect: box(1, 0, 2, 2)}}

// rowGrid returns a 3×2 grid where the middle of the line y=1 is a
// preserve edge.  The receive regions lie beyond its end points, on the
// continuation of the line to the left and to the right.
func rowGrid(left, right int) func() *Grid {
	return func() *Grid {
		g := NewGrid(3, 2)
		g.SetPreserve(g.HEdge(1, 1))
		g.SetReceive(g.HEdge(0, 1), g.Vertex(0, 1), left, 0)
		return g.SetReceive(g.HEdge(2, 1), g.Vertex(3, 1), right, 0)
	}
}

var seamCases = []TestCase{
	{
		Name:     "receive_split",
		Grid:     stripGrid(1, 2, 0.5),
		Patterns: strip,
		Want:     Want{Pieces: 2, Seams: 1, Faces: 2, Vertices: 8, Edges: 9},
	},
	{
		Name:     "same_region",
		Grid:     stripGrid(1, 1, 0.5),
		Patterns: strip,
		Want:     Want{Pieces: 1, Faces: 1, Vertices: 8, Edges: 8},
	},
	{
		Name:     "one_region",
		Grid:     stripGrid(1, stitch.NoRegion, 0),
		Patterns: strip,
		Want:     Want{Pieces: 1, Faces: 1, Vertices: 8, Edges: 8},
	},
	{
		// the upper receive edge is out of reach
		Name:     "far_region",
		Grid:     stripGrid(1, 2, 3),
		Patterns: strip,
		Want:     Want{Pieces: 1, Faces: 1, Vertices: 8, Edges: 8},
	},
	{
		Name:     "far_region_wide",
		Grid:     stripGrid(1, 2, 3),
		Patterns: strip,
		Config: &stitch.Config{
			ReceiveDistance: 5,
			MergeEpsilon:    1e-6,
			SnapEpsilon:     1e-7,
		},
		Want: Want{Pieces: 2, Seams: 1, Faces: 2, Vertices: 8, Edges: 9},
	},
	{
		// preserve edges on the outline of the pattern
		Name: "open_preserve",
		Grid: func() *Grid {
			g := NewGrid(1, 1)
			return g.SetPreserve(g.VEdge(0, 0), g.VEdge(1, 0))
		},
		Patterns: []Pattern{{ID: 0, Rect: box(0, 0.25, 1, 0.75)}},
		Want:     Want{Pieces: 1, Faces: 1, Vertices: 4, Edges: 4},
	},
	{
		Name:     "straight_merge",
		Grid:     crossGrid(false, nil),
		Patterns: square,
		Want:     Want{Pieces: 1, Faces: 1, Vertices: 12, Edges: 12},
	},
	{
		Name: "straight_split",
		Grid: crossGrid(false, func(g *Grid) {
			g.SetReceive(g.VEdge(1, 0), g.Vertex(1, 0), 1, 0)
			g.SetReceive(g.VEdge(1, 2), g.Vertex(1, 3), 2, 0)
		}),
		Patterns: square,
		Want:     Want{Pieces: 2, Seams: 1, Faces: 2, Vertices: 14, Edges: 15},
	},
	{
		Name:     "quad_merge",
		Grid:     crossGrid(true, nil),
		Patterns: square,
		Want:     Want{Pieces: 1, Faces: 1, Vertices: 12, Edges: 12},
	},
	{
		Name: "quad_split",
		Grid: crossGrid(true, func(g *Grid) {
			g.SetReceive(g.VEdge(1, 0), g.Vertex(1, 0), 1, 0)
			g.SetReceive(g.HEdge(0, 1), g.Vertex(0, 1), 2, 0)
		}),
		Patterns: square,
		Want:     Want{Pieces: 4, Seams: 1, Faces: 4, Vertices: 15, Edges: 18},
	},
	{
		Name:     "vertex_split",
		Grid:     rowGrid(1, 2),
		Patterns: column,
		Want:     Want{Pieces: 2, Seams: 1, Faces: 2, Vertices: 6, Edges: 7},
	},
	{
		Name:     "vertex_merge",
		Grid:     rowGrid(1, 1),
		Patterns: column,
		Want:     Want{Pieces: 1, Faces: 1, Vertices: 6, Edges: 6},
	},
	{
		// The left end point (0, 1) lies on the mesh boundary, so the ray
		// leaves the mesh there.  The receive regions on the boundary
		// edges next to it must not be picked up.
		Name: "vertex_boundary",
		Grid: func() *Grid {
			g := NewGrid(2, 2)
			g.SetPreserve(g.HEdge(0, 1))
			g.SetReceive(g.HEdge(1, 1), g.Vertex(2, 1), 1, 0)
			g.SetReceive(g.VEdge(0, 0), g.Vertex(0, 0), 2, 0)
			return g.SetReceive(g.VEdge(0, 1), g.Vertex(0, 2), 2, 0)
		},
		Patterns: []Pattern{{ID: 0, Rect: box(0, 0, 1, 2)}},
		Want:     Want{Pieces: 1, Faces: 1, Vertices: 6, Edges: 6},
	},
	{
		// the preserve edge ends at the interior vertex (1, 1)
		Name: "dead_end",
		Grid: func() *Grid {
			g := NewGrid(3, 3)
			g.SetPreserve(g.VEdge(1, 0))
			return g.SetReceive(g.VEdge(1, 0), g.Vertex(1, 0), 1, 0)
		},
		Patterns: square,
		Want:     Want{Pieces: 1, Faces: 1, Vertices: 12, Edges: 12},
	},
}
