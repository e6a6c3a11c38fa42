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

package stitch

import (
	"fmt"
	"math"

	"seehuhn.de/go/geom/vec"
)

// Tile is an integer UV repetition offset. Two otherwise identical
// coordinates in different tiles are different points.
type Tile struct {
	U, V int32
}

// Offset returns the tile origin in UV space.
func (t Tile) Offset() vec.Vec2 {
	return vec.Vec2{X: float64(t.U), Y: float64(t.V)}
}

// CornerFlags is the classification of a fragment corner, as annotated by
// the clipper.
type CornerFlags uint8

const (
	// Pattern marks a corner that is a vertex of the pattern polygon.
	// Corners without this flag were interpolated by the clipper.
	Pattern CornerFlags = 1 << iota

	// OnLine marks a corner that lies on the boundary of the enclosing
	// base polygon. BaseCorner names the base edge (or the base vertex,
	// if OnBaseVertex is also set).
	OnLine

	// OnBaseVertex marks a corner that coincides with the base polygon
	// vertex BaseCorner.
	OnBaseVertex
)

// IsPattern reports whether the corner is a pattern polygon vertex.
func (f CornerFlags) IsPattern() bool { return f&Pattern != 0 }

// IsInterpolated reports whether the corner was created by the clipper.
func (f CornerFlags) IsInterpolated() bool { return f&Pattern == 0 }

// OnLine reports whether the corner lies on the base polygon boundary.
func (f CornerFlags) OnLine() bool { return f&(OnLine|OnBaseVertex) != 0 }

// OnBaseVertex reports whether the corner lies on a base polygon vertex.
func (f CornerFlags) OnBaseVertex() bool { return f&OnBaseVertex != 0 }

// Vec3 is a point or direction in object space.
type Vec3 struct {
	X, Y, Z float64
}

func (a Vec3) Add(b Vec3) Vec3    { return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z} }
func (a Vec3) Sub(b Vec3) Vec3    { return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z} }
func (a Vec3) Mul(s float64) Vec3 { return Vec3{a.X * s, a.Y * s, a.Z * s} }
func (a Vec3) Dot(b Vec3) float64 { return a.X*b.X + a.Y*b.Y + a.Z*b.Z }
func (a Vec3) Length() float64    { return math.Sqrt(a.Dot(a)) }

// Normalize returns a unit vector in the direction of a, or a itself if
// a is zero.
func (a Vec3) Normalize() Vec3 {
	l := a.Length()
	if l == 0 {
		return a
	}
	return a.Mul(1 / l)
}

// AttrRef is an opaque handle to attribute storage owned by an
// [AttributeBlender]. The stitcher never looks inside.
type AttrRef int

// NoAttr marks a corner without attribute data.
const NoAttr AttrRef = -1

// Corner is one corner of a fragment.
type Corner struct {
	UV    vec.Vec2 // position in the base-local UV space (tile excluded)
	Pos   Vec3     // position in object space
	Attr  AttrRef
	Flags CornerFlags

	// BaseCorner is the index of the base polygon edge (or vertex) the
	// corner lies on. Only meaningful if Flags.OnLine().
	BaseCorner int

	// Segment indexes the sub-span of the base edge covered by the edge
	// leaving this corner, when that edge lies on the base boundary.
	Segment int

	// PatternVert is the pattern vertex id of a Pattern corner.
	PatternVert int

	// PatternEdge is the pattern edge an interpolated corner lies on.
	PatternEdge int
}

// Fragment is the part of one pattern polygon that overlaps one base
// polygon, as produced by the clipper.
//
// Corners follow the orientation of the base polygon: an edge lying on base
// edge k runs from the side of BaseVerts[k] towards BaseVerts[k+1].
type Fragment struct {
	Pattern  int // pattern polygon id
	BasePoly int
	Tile     Tile

	// Flipped is set when the fragment's winding is inverted relative
	// to the output convention.
	Flipped bool

	BaseVerts []int // vertex ids of the base polygon, in order
	BaseEdges []int // BaseEdges[k] joins BaseVerts[k] and BaseVerts[k+1]

	Corners []Corner
}

// next returns the index of the corner following c.
func (f *Fragment) next(c int) int {
	c++
	if c == len(f.Corners) {
		c = 0
	}
	return c
}

// prev returns the index of the corner preceding c.
func (f *Fragment) prev(c int) int {
	if c == 0 {
		return len(f.Corners) - 1
	}
	return c - 1
}

// lineEdge returns the base polygon edge index the edge leaving corner c
// lies on.  The second return value is false if the edge is a pattern edge
// in the interior of the base polygon.
func (f *Fragment) lineEdge(c int) (int, bool) {
	n := len(f.BaseEdges)
	if n == 0 {
		return 0, false
	}
	a := &f.Corners[c]
	b := &f.Corners[f.next(c)]
	if !a.Flags.OnLine() || !b.Flags.OnLine() {
		return 0, false
	}
	k := a.BaseCorner
	switch {
	case b.Flags.OnBaseVertex():
		// b must be the far end of edge k
		if b.BaseCorner == (k+1)%n {
			return k, true
		}
	case b.BaseCorner == k:
		return k, true
	}
	return 0, false
}

// baseVertex returns the base vertex id of an OnBaseVertex corner.
func (f *Fragment) baseVertex(c int) int {
	return f.BaseVerts[f.Corners[c].BaseCorner]
}

// validate checks the fragment annotation for values out of range.
func (f *Fragment) validate() error {
	if len(f.Corners) < 3 {
		return fmt.Errorf("fragment of pattern %d: %d corners: %w",
			f.Pattern, len(f.Corners), ErrTopology)
	}
	if len(f.BaseVerts) != len(f.BaseEdges) {
		return fmt.Errorf("fragment of pattern %d: %d base vertices but %d base edges: %w",
			f.Pattern, len(f.BaseVerts), len(f.BaseEdges), ErrTopology)
	}
	for i := range f.Corners {
		c := &f.Corners[i]
		if c.Flags&^(Pattern|OnLine|OnBaseVertex) != 0 {
			return fmt.Errorf("fragment of pattern %d, corner %d: flags %#x: %w",
				f.Pattern, i, uint8(c.Flags), ErrTopology)
		}
		if c.Flags.OnLine() && (c.BaseCorner < 0 || c.BaseCorner >= len(f.BaseEdges)) {
			return fmt.Errorf("fragment of pattern %d, corner %d: base corner %d out of range: %w",
				f.Pattern, i, c.BaseCorner, ErrTopology)
		}
	}
	return nil
}
