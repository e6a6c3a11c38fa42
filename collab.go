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
	"golang.org/x/sync/errgroup"

	"seehuhn.de/go/geom/vec"
)

// NoRegion is returned by [BaseMesh.ReceiveRegion] when no receive region
// is reached.
const NoRegion = -1

// BaseMesh gives read access to the base mesh the pattern was projected
// onto.  Implementations must be safe for concurrent use by the jobs of
// one [Stitch] call.
type BaseMesh interface {
	// IsPreserve reports whether the base edge is a preserve edge.
	IsPreserve(edge int) bool

	// ReceiveRegion returns the index of the receive region reached by
	// following base edge edge towards base vertex towards, or NoRegion
	// if no receive edge lies within dist.
	ReceiveRegion(edge, towards int, dist float64) int

	// PreserveValence returns the number of preserve edges adjacent to a
	// base vertex, saturated at 3.
	PreserveValence(vert int) int

	// VertexUV returns the base-local UV position of a base vertex.
	VertexUV(vert int) vec.Vec2

	// VertexEdges returns the base edges adjacent to a base vertex.
	VertexEdges(vert int) []int

	// EdgeVerts returns the end points of a base edge.
	EdgeVerts(edge int) (int, int)
}

// AttributeBlender owns per-vertex attribute storage.  It is only called
// from the single-threaded merge phase.
type AttributeBlender interface {
	// Alloc returns a fresh, zeroed attribute slot.
	Alloc() AttrRef

	// Blend stores the combination of a and b in dst.
	Blend(dst, a, b AttrRef)

	// DivideByScalar divides all values of attr by count.
	DivideByScalar(attr AttrRef, count int)
}

// Scheduler runs stitching jobs.
type Scheduler interface {
	// Go submits a task.
	Go(task func() error)

	// Wait blocks until all submitted tasks have finished and returns
	// the first error reported by any of them.
	Wait() error
}

// NewScheduler returns a Scheduler which runs at most limit tasks at a
// time.  If limit is not positive, the number of tasks is unbounded.
func NewScheduler(limit int) Scheduler {
	g := &errgroup.Group{}
	if limit > 0 {
		g.SetLimit(limit)
	}
	return g
}

// Vertex is an output vertex.
type Vertex struct {
	Pos  Vec3
	UV   vec.Vec2 // output UV of the first corner merged into the vertex
	Attr AttrRef
}

// FaceCorner is one corner of an output face.
type FaceCorner struct {
	Vertex int
	Edge   int // edge from this corner to the next
	Normal Vec3
	UV     vec.Vec2
	Attr   AttrRef // attributes of the source corner
}

// OutputMesh receives the stitched faces.  It is only called from the
// single-threaded emission phase, and all vertices are added before the
// first edge.  All methods return the id of the new element.
type OutputMesh interface {
	AddVertex(v Vertex) int
	AddEdge(v0, v1 int) int

	// AddFace must not retain the corners slice.
	AddFace(corners []FaceCorner) int
}
