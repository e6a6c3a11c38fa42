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
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/stitch"
)

// handCorner describes one corner of a hand-made fragment.
type handCorner struct {
	x, y float64
	vert int // pattern vertex, or -1 for an interpolated corner
	edge int // pattern edge of an interpolated corner
	side int // base edge the corner lies on, or -1
	seg  int // segment of the outgoing edge, if it lies on side
}

// fragment builds a fragment of pattern polygon 0 in cell (cx, cy).
// No corner may lie on a base vertex.
func (g *Grid) fragment(cx, cy int, corners []handCorner, attrs *stitch.FloatAttributes) stitch.Fragment {
	verts, edges := g.Cell(cx, cy)
	f := stitch.Fragment{
		BasePoly:  cy*g.W + cx,
		BaseVerts: verts,
		BaseEdges: edges,
	}
	for _, s := range corners {
		c := stitch.Corner{
			UV:          vec.Vec2{X: s.x, Y: s.y},
			Pos:         stitch.Vec3{X: s.x, Y: s.y},
			Attr:        stitch.NoAttr,
			PatternVert: -1,
			PatternEdge: -1,
		}
		if s.vert >= 0 {
			c.Flags |= stitch.Pattern
			c.PatternVert = s.vert
		} else {
			c.PatternEdge = s.edge
		}
		if s.side >= 0 {
			c.Flags |= stitch.OnLine
			c.BaseCorner = s.side
			c.Segment = s.seg
		}
		if attrs != nil {
			c.Attr = attrs.Add(s.x, s.y)
		}
		f.Corners = append(f.Corners, c)
	}
	return f
}

// notch returns a C-shaped pattern polygon on a 2×1 grid, with outline
//
//	(0.5,0.2) (1.5,0.2) (1.5,0.8) (0.5,0.8) (0.5,0.6) (1.2,0.6) (1.2,0.4) (0.5,0.4)
//
// The polygon crosses the base edge x=1 twice.  The left cell holds two
// fragments, one per span, and the right cell holds one fragment with two
// spans on its left edge.  The spans are segments 0 and 1 of the base
// edge; lower and upper are the segments the right fragment gives them.
func notch(lower, upper int) Builder {
	return func(g *Grid, attrs *stitch.FloatAttributes) []stitch.Fragment {
		return []stitch.Fragment{
			g.fragment(0, 0, []handCorner{
				{x: 0.5, y: 0.2, vert: 0, side: -1},
				{x: 1, y: 0.2, vert: -1, edge: 0, side: 1, seg: 0},
				{x: 1, y: 0.4, vert: -1, edge: 6, side: 1},
				{x: 0.5, y: 0.4, vert: 7, side: -1},
			}, attrs),
			g.fragment(0, 0, []handCorner{
				{x: 0.5, y: 0.6, vert: 4, side: -1},
				{x: 1, y: 0.6, vert: -1, edge: 4, side: 1, seg: 1},
				{x: 1, y: 0.8, vert: -1, edge: 2, side: 1},
				{x: 0.5, y: 0.8, vert: 3, side: -1},
			}, attrs),
			g.fragment(1, 0, []handCorner{
				{x: 1, y: 0.2, vert: -1, edge: 0, side: 3},
				{x: 1.5, y: 0.2, vert: 1, side: -1},
				{x: 1.5, y: 0.8, vert: 2, side: -1},
				{x: 1, y: 0.8, vert: -1, edge: 2, side: 3, seg: upper},
				{x: 1, y: 0.6, vert: -1, edge: 4, side: 3},
				{x: 1.2, y: 0.6, vert: 5, side: -1},
				{x: 1.2, y: 0.4, vert: 6, side: -1},
				{x: 1, y: 0.4, vert: -1, edge: 6, side: 3, seg: lower},
			}, attrs),
		}
	}
}

var segmentCases = []TestCase{
	{
		Name:  "notch",
		Grid:  grid(2, 1),
		Build: notch(0, 1),
		Attrs: true,
		Want:  Want{Pieces: 1, Faces: 1, Vertices: 12, Edges: 12},
	},
	{
		// the upper spans disagree on the segment and do not connect
		Name:  "notch_mismatch",
		Grid:  grid(2, 1),
		Build: notch(0, 2),
		Want:  Want{Pieces: 2, Faces: 2, Vertices: 12, Edges: 13},
	},
}
