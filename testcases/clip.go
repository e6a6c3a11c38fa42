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
	"math"

	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/stitch"
)

// Pattern is an axis-aligned rectangular pattern polygon.
//
// Vertex i and edge i of pattern polygon ID have the pattern mesh ids
// 4*ID+i.  Vertex 0 is the lower left corner, edge i runs from vertex i
// to vertex i+1.
type Pattern struct {
	ID      int
	Rect    rect.Rect // in the base-local UV space of Tile
	Tile    stitch.Tile
	Flipped bool
}

// Clip cuts p along the grid lines and returns one fragment per cell
// which p overlaps with positive area.  If attrs is not nil, every corner
// gets an attribute slot holding its tile-adjusted UV coordinates.
func (g *Grid) Clip(p Pattern, attrs *stitch.FloatAttributes) []stitch.Fragment {
	r := p.Rect
	x0 := max(int(math.Floor(r.LLx)), 0)
	x1 := min(int(math.Ceil(r.URx)), g.W)
	y0 := max(int(math.Floor(r.LLy)), 0)
	y1 := min(int(math.Ceil(r.URy)), g.H)

	var res []stitch.Fragment
	for cy := y0; cy < y1; cy++ {
		for cx := x0; cx < x1; cx++ {
			if f, ok := g.clipCell(p, cx, cy, attrs); ok {
				res = append(res, f)
			}
		}
	}
	return res
}

func (g *Grid) clipCell(p Pattern, cx, cy int, attrs *stitch.FloatAttributes) (stitch.Fragment, bool) {
	r := p.Rect
	ax := max(r.LLx, float64(cx))
	bx := min(r.URx, float64(cx+1))
	ay := max(r.LLy, float64(cy))
	by := min(r.URy, float64(cy+1))
	if bx <= ax || by <= ay {
		return stitch.Fragment{}, false
	}

	verts, edges := g.Cell(cx, cy)
	f := stitch.Fragment{
		Pattern:   p.ID,
		BasePoly:  cy*g.W + cx,
		Tile:      p.Tile,
		Flipped:   p.Flipped,
		BaseVerts: verts,
		BaseEdges: edges,
	}

	pts := [4]vec.Vec2{{X: ax, Y: ay}, {X: bx, Y: ay}, {X: bx, Y: by}, {X: ax, Y: by}}
	patternPts := [4]vec.Vec2{
		{X: r.LLx, Y: r.LLy}, {X: r.URx, Y: r.LLy},
		{X: r.URx, Y: r.URy}, {X: r.LLx, Y: r.URy},
	}
	for i, pt := range pts {
		c := stitch.Corner{
			UV:          pt,
			Attr:        stitch.NoAttr,
			PatternVert: -1,
			PatternEdge: -1,
		}
		if pt == patternPts[i] {
			c.Flags |= stitch.Pattern
			c.PatternVert = 4*p.ID + i
		} else if e := patternEdge(i, pt, r); e >= 0 {
			c.PatternEdge = 4*p.ID + e
		}

		left, right := pt.X == float64(cx), pt.X == float64(cx+1)
		bottom, top := pt.Y == float64(cy), pt.Y == float64(cy+1)
		switch {
		case (left || right) && (bottom || top):
			c.Flags |= stitch.OnBaseVertex
			switch {
			case left && bottom:
				c.BaseCorner = 0
			case right && bottom:
				c.BaseCorner = 1
			case right && top:
				c.BaseCorner = 2
			default:
				c.BaseCorner = 3
			}
		case bottom:
			c.Flags |= stitch.OnLine
			c.BaseCorner = 0
		case right:
			c.Flags |= stitch.OnLine
			c.BaseCorner = 1
		case top:
			c.Flags |= stitch.OnLine
			c.BaseCorner = 2
		case left:
			c.Flags |= stitch.OnLine
			c.BaseCorner = 3
		}

		global := pt.Add(p.Tile.Offset())
		c.Pos = stitch.Vec3{X: global.X, Y: global.Y}
		if attrs != nil {
			c.Attr = attrs.Add(global.X, global.Y)
		}
		f.Corners = append(f.Corners, c)
	}
	return f, true
}

// patternEdge returns the index of the rectangle side an interpolated
// corner of the clipped rectangle lies on, or -1 if the corner is a base vertex in the
// interior of the pattern.  Corner i of the clipped rectangle can only
// lie on the pattern edges i-1 and i.
func patternEdge(i int, pt vec.Vec2, r rect.Rect) int {
	onSide := [4]bool{pt.Y == r.LLy, pt.X == r.URx, pt.Y == r.URy, pt.X == r.LLx}
	switch {
	case onSide[i]:
		return i
	case onSide[(i+3)%4]:
		return (i + 3) % 4
	}
	return -1
}
