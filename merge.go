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
	"math"
	"math/bits"

	"seehuhn.de/go/geom/vec"
)

// keyKind says what a merge vertex key refers to.
type keyKind uint8

const (
	keyBaseVertex    keyKind = iota // a base mesh vertex
	keyPatternVertex                // a pattern mesh vertex
	keyPatternEdge                  // a crossing point on a pattern edge
)

// vertexKey identifies the physical location of an output vertex.
// Keys of kind keyPatternEdge are only equal if their uv positions are
// within the merge epsilon.
type vertexKey struct {
	kind keyKind
	id   int
	tile Tile
	uv   vec.Vec2 // tile-adjusted UV
}

func (k vertexKey) hash() uint64 {
	return fnv1a(uint64(k.kind)<<56^uint64(k.id), uint64(uint32(k.tile.U))|uint64(uint32(k.tile.V))<<32)
}

// fnv1a hashes the little-endian bytes of vals.
func fnv1a(vals ...uint64) uint64 {
	const (
		offset64 = 14695981039346656037
		prime64  = 1099511628211
	)
	h := uint64(offset64)
	for _, v := range vals {
		for range 8 {
			h ^= v & 0xff
			h *= prime64
			v >>= 8
		}
	}
	return h
}

// contribution is one retained corner offered to the vertex table.
type contribution struct {
	job  int32
	ref  cornerRef
	pos  Vec3
	uv   vec.Vec2 // output UV
	attr AttrRef
}

// mergeVertex coalesces the corners of all jobs which represent the same
// output vertex.
type mergeVertex struct {
	key    vertexKey
	job    int32     // representative corner
	ref    cornerRef //
	posSum Vec3
	uv     vec.Vec2
	attr   AttrRef // accumulation slot, allocated on first use
	refs   int32   // number of lookups which returned this entry
	weight int32   // number of corners summed into posSum

	// attrWeight counts the corners summed into attr.  Corners without
	// attributes add to weight but not to attrWeight.
	attrWeight int32

	snappedTo int32 // redirect found by snap, -1 if none
	out       int   // output vertex id, -1 before emission
	next      int32
}

// mergeEdge coalesces output edges between the same two vertices.
type mergeEdge struct {
	v0, v1 int32 // root vertex entries, v0 < v1
	out    int
	next   int32
}

// mergeTables deduplicate vertices and edges across jobs.  They are used
// only after all jobs have passed the barrier, from a single goroutine.
type mergeTables struct {
	attrs AttributeBlender
	eps   float64

	vertBuckets []int32
	vertMask    uint64
	verts       []mergeVertex

	edgeBuckets []int32
	edgeMask    uint64
	edges       []mergeEdge
}

// newMergeTables sizes the tables for the given number of corners.
func newMergeTables(corners int, attrs AttributeBlender, eps float64) *mergeTables {
	nb := 1
	if corners > 1 {
		nb = 1 << bits.Len(uint(corners-1))
	}
	m := &mergeTables{
		attrs:       attrs,
		eps:         eps,
		vertBuckets: make([]int32, nb),
		vertMask:    uint64(nb - 1),
		verts:       make([]mergeVertex, 0, corners),
		edgeBuckets: make([]int32, nb),
		edgeMask:    uint64(nb - 1),
		edges:       make([]mergeEdge, 0, corners),
	}
	for i := range m.vertBuckets {
		m.vertBuckets[i] = -1
		m.edgeBuckets[i] = -1
	}
	return m
}

func (m *mergeTables) matches(e *mergeVertex, k vertexKey) bool {
	if e.key.kind != k.kind || e.key.id != k.id || e.key.tile != k.tile {
		return false
	}
	if k.kind != keyPatternEdge {
		return true
	}
	return e.key.uv.Sub(k.uv).Length() <= m.eps
}

// findOrCreateVertex returns the entry for key, creating it if needed,
// and records the contribution c.
func (m *mergeTables) findOrCreateVertex(k vertexKey, c contribution) int32 {
	b := k.hash() & m.vertMask
	for i := m.vertBuckets[b]; i >= 0; i = m.verts[i].next {
		e := &m.verts[i]
		if !m.matches(e, k) {
			continue
		}
		e.refs++
		if e.job != c.job || e.ref != c.ref {
			e.posSum = e.posSum.Add(c.pos)
			e.weight++
			m.blend(e, c.attr, 1)
		}
		return i
	}

	e := mergeVertex{
		key:       k,
		job:       c.job,
		ref:       c.ref,
		posSum:    c.pos,
		uv:        c.uv,
		attr:      NoAttr,
		refs:      1,
		weight:    1,
		snappedTo: -1,
		out:       -1,
		next:      m.vertBuckets[b],
	}
	m.blend(&e, c.attr, 1)
	idx := int32(len(m.verts))
	m.verts = append(m.verts, e)
	m.vertBuckets[b] = idx
	return idx
}

// blend adds the attribute sum src, which holds the values of w corners,
// to the accumulation slot of e.
func (m *mergeTables) blend(e *mergeVertex, src AttrRef, w int32) {
	if m.attrs == nil || src == NoAttr || w == 0 {
		return
	}
	if e.attr == NoAttr {
		e.attr = m.attrs.Alloc()
	}
	m.attrs.Blend(e.attr, e.attr, src)
	e.attrWeight += w
}

// root follows snap redirects.
func (m *mergeTables) root(i int32) int32 {
	for m.verts[i].snappedTo >= 0 {
		i = m.verts[i].snappedTo
	}
	return i
}

// snap redirects vertices which lie within eps of an earlier vertex with
// a different key.  It returns the number of redirects.
func (m *mergeTables) snap(eps float64) int {
	if eps <= 0 {
		return 0
	}
	type cell struct{ x, y int64 }
	cellOf := func(p vec.Vec2) cell {
		return cell{int64(math.Floor(p.X / eps)), int64(math.Floor(p.Y / eps))}
	}

	grid := make(map[cell][]int32)
	snapped := 0
	for i := range m.verts {
		e := &m.verts[i]
		c := cellOf(e.key.uv)
		target := int32(-1)
	search:
		for dx := int64(-1); dx <= 1; dx++ {
			for dy := int64(-1); dy <= 1; dy++ {
				for _, j := range grid[cell{c.x + dx, c.y + dy}] {
					if m.verts[j].key.uv.Sub(e.key.uv).Length() <= eps {
						target = j
						break search
					}
				}
			}
		}
		if target < 0 {
			grid[c] = append(grid[c], int32(i))
			continue
		}

		t := &m.verts[target]
		e.snappedTo = target
		t.refs += e.refs
		t.weight += e.weight
		t.posSum = t.posSum.Add(e.posSum)
		m.blend(t, e.attr, e.attrWeight)
		snapped++
	}
	return snapped
}

// emitVertices averages the accumulated values and adds one output vertex
// per root entry, in creation order.
func (m *mergeTables) emitVertices(out OutputMesh) int {
	n := 0
	for i := range m.verts {
		e := &m.verts[i]
		if e.snappedTo >= 0 {
			continue
		}
		if e.attrWeight > 1 {
			m.attrs.DivideByScalar(e.attr, int(e.attrWeight))
		}
		e.out = out.AddVertex(Vertex{
			Pos:  e.posSum.Mul(1 / float64(e.weight)),
			UV:   e.uv,
			Attr: e.attr,
		})
		n++
	}
	return n
}

// vertexID returns the output vertex id of entry i.
func (m *mergeTables) vertexID(i int32) int {
	return m.verts[m.root(i)].out
}

// findOrCreateEdge returns the output edge between two root vertex entries.
// New edges are added to out.
func (m *mergeTables) findOrCreateEdge(a, b int32, out OutputMesh) int {
	if a > b {
		a, b = b, a
	}
	h := fnv1a(uint64(a), uint64(b)) & m.edgeMask
	for i := m.edgeBuckets[h]; i >= 0; i = m.edges[i].next {
		e := &m.edges[i]
		if e.v0 == a && e.v1 == b {
			return e.out
		}
	}
	e := mergeEdge{
		v0:   a,
		v1:   b,
		out:  out.AddEdge(m.verts[a].out, m.verts[b].out),
		next: m.edgeBuckets[h],
	}
	m.edges = append(m.edges, e)
	m.edgeBuckets[h] = int32(len(m.edges) - 1)
	return e.out
}
