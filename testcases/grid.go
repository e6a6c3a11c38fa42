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

// Grid is a base mesh of W×H unit square cells.  The cell (x, y) covers
// [x, x+1]×[y, y+1] in UV space.
//
// Vertices, horizontal edges and vertical edges are numbered row by row.
type Grid struct {
	W, H int

	preserve []bool
	receive  map[receiveKey]receive
}

type receiveKey struct {
	edge, towards int
}

type receive struct {
	region int
	dist   float64
}

// NewGrid returns a grid without preserve edges.
func NewGrid(w, h int) *Grid {
	return &Grid{
		W:        w,
		H:        h,
		preserve: make([]bool, (h+1)*w+h*(w+1)),
		receive:  make(map[receiveKey]receive),
	}
}

// Vertex returns the id of the vertex at (x, y).
func (g *Grid) Vertex(x, y int) int {
	return y*(g.W+1) + x
}

// HEdge returns the id of the edge from (x, y) to (x+1, y).
func (g *Grid) HEdge(x, y int) int {
	return y*g.W + x
}

// VEdge returns the id of the edge from (x, y) to (x, y+1).
func (g *Grid) VEdge(x, y int) int {
	return (g.H+1)*g.W + y*(g.W+1) + x
}

// NumEdges returns the number of grid edges.
func (g *Grid) NumEdges() int {
	return len(g.preserve)
}

// SetPreserve marks the given edges as preserve edges.
func (g *Grid) SetPreserve(edges ...int) *Grid {
	for _, e := range edges {
		g.preserve[e] = true
	}
	return g
}

// SetReceive records that following edge towards the vertex towards
// reaches the receive region after distance dist.
func (g *Grid) SetReceive(edge, towards, region int, dist float64) *Grid {
	g.receive[receiveKey{edge, towards}] = receive{region: region, dist: dist}
	return g
}

// Cell returns the vertices and edges of cell (x, y), counter-clockwise
// starting at the lower left corner.
func (g *Grid) Cell(x, y int) (verts, edges []int) {
	verts = []int{g.Vertex(x, y), g.Vertex(x+1, y), g.Vertex(x+1, y+1), g.Vertex(x, y+1)}
	edges = []int{g.HEdge(x, y), g.VEdge(x+1, y), g.HEdge(x, y+1), g.VEdge(x, y)}
	return verts, edges
}

// IsPreserve implements [stitch.BaseMesh].
func (g *Grid) IsPreserve(edge int) bool {
	return g.preserve[edge]
}

// ReceiveRegion implements [stitch.BaseMesh].
func (g *Grid) ReceiveRegion(edge, towards int, dist float64) int {
	r, ok := g.receive[receiveKey{edge, towards}]
	if !ok || r.dist > dist {
		return stitch.NoRegion
	}
	return r.region
}

// PreserveValence implements [stitch.BaseMesh].
func (g *Grid) PreserveValence(vert int) int {
	n := 0
	for _, e := range g.VertexEdges(vert) {
		if g.preserve[e] {
			n++
		}
	}
	return min(n, 3)
}

// VertexUV implements [stitch.BaseMesh].
func (g *Grid) VertexUV(vert int) vec.Vec2 {
	return vec.Vec2{X: float64(vert % (g.W + 1)), Y: float64(vert / (g.W + 1))}
}

// VertexEdges implements [stitch.BaseMesh].
func (g *Grid) VertexEdges(vert int) []int {
	x, y := vert%(g.W+1), vert/(g.W+1)
	var res []int
	if x > 0 {
		res = append(res, g.HEdge(x-1, y))
	}
	if x < g.W {
		res = append(res, g.HEdge(x, y))
	}
	if y > 0 {
		res = append(res, g.VEdge(x, y-1))
	}
	if y < g.H {
		res = append(res, g.VEdge(x, y))
	}
	return res
}

// EdgeVerts implements [stitch.BaseMesh].
func (g *Grid) EdgeVerts(edge int) (int, int) {
	nh := (g.H + 1) * g.W
	if edge < nh {
		x, y := edge%g.W, edge/g.W
		return g.Vertex(x, y), g.Vertex(x+1, y)
	}
	edge -= nh
	x, y := edge%(g.W+1), edge/(g.W+1)
	return g.Vertex(x, y), g.Vertex(x, y+1)
}
