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
	"testing"

	"seehuhn.de/go/geom/vec"
)

func TestMergeVertexIdempotent(t *testing.T) {
	m := newMergeTables(8, nil, defaultMergeEpsilon)
	k := vertexKey{kind: keyBaseVertex, id: 7, uv: vec.Vec2{X: 1, Y: 2}}
	c := contribution{ref: cornerRef{0, 1}, pos: Vec3{X: 1, Y: 2}, attr: NoAttr}

	a := m.findOrCreateVertex(k, c)
	b := m.findOrCreateVertex(k, c)
	if a != b {
		t.Fatalf("same key gave entries %d and %d", a, b)
	}
	e := &m.verts[a]
	if e.refs != 2 {
		t.Errorf("refs = %d, want 2", e.refs)
	}
	if e.weight != 1 {
		t.Errorf("weight = %d, want 1 for repeated source corner", e.weight)
	}

	// a different corner at the same place
	c2 := contribution{job: 1, ref: cornerRef{0, 1}, pos: Vec3{X: 1, Y: 2, Z: 2}, attr: NoAttr}
	if got := m.findOrCreateVertex(k, c2); got != a {
		t.Fatalf("second source gave entry %d, want %d", got, a)
	}
	if e.weight != 2 {
		t.Errorf("weight = %d, want 2", e.weight)
	}

	out := &Mesh{}
	if n := m.emitVertices(out); n != 1 {
		t.Fatalf("emitted %d vertices, want 1", n)
	}
	if got := out.Vertices[0].Pos; got != (Vec3{X: 1, Y: 2, Z: 1}) {
		t.Errorf("averaged position %v, want {1 2 1}", got)
	}
}

func TestMergeKeysDistinct(t *testing.T) {
	m := newMergeTables(8, nil, defaultMergeEpsilon)
	uv := vec.Vec2{X: 0.5, Y: 0.5}
	keys := []vertexKey{
		{kind: keyBaseVertex, id: 3, uv: uv},
		{kind: keyPatternVertex, id: 3, uv: uv},
		{kind: keyPatternEdge, id: 3, uv: uv},
		{kind: keyPatternEdge, id: 3, tile: Tile{U: 1}, uv: uv},
		{kind: keyPatternEdge, id: 3, uv: vec.Vec2{X: 0.5, Y: 0.6}},
	}
	seen := map[int32]bool{}
	for i, k := range keys {
		idx := m.findOrCreateVertex(k, contribution{ref: cornerRef{0, int32(i)}, attr: NoAttr})
		if seen[idx] {
			t.Errorf("key %d merged with an earlier key", i)
		}
		seen[idx] = true
	}

	// within the merge epsilon on the same pattern edge
	near := vertexKey{kind: keyPatternEdge, id: 3, uv: vec.Vec2{X: 0.5, Y: 0.5 + 1e-9}}
	if idx := m.findOrCreateVertex(near, contribution{ref: cornerRef{1, 0}, attr: NoAttr}); idx != 2 {
		t.Errorf("nearby pattern edge point gave entry %d, want 2", idx)
	}
}

func TestMergeAttributeAverage(t *testing.T) {
	attrs := NewFloatAttributes(2)
	a := attrs.Add(1, 10)
	b := attrs.Add(3, 30)

	m := newMergeTables(4, attrs, defaultMergeEpsilon)
	k := vertexKey{kind: keyPatternVertex, id: 1}
	m.findOrCreateVertex(k, contribution{ref: cornerRef{0, 0}, attr: a})
	m.findOrCreateVertex(k, contribution{ref: cornerRef{1, 0}, attr: b})

	// nothing is divided before the vertices are emitted
	if got := attrs.Get(m.verts[0].attr); got[0] != 4 || got[1] != 40 {
		t.Errorf("accumulated %v, want [4 40]", got)
	}

	out := &Mesh{}
	m.emitVertices(out)
	got := attrs.Get(out.Vertices[0].Attr)
	if got[0] != 2 || got[1] != 20 {
		t.Errorf("averaged %v, want [2 20]", got)
	}
	// source slots are unchanged
	if got := attrs.Get(a); got[0] != 1 || got[1] != 10 {
		t.Errorf("source slot modified: %v", got)
	}
}

// TestMergeMissingAttributes checks that corners without attributes do
// not dilute the average of those which have them.
func TestMergeMissingAttributes(t *testing.T) {
	type source struct {
		id   int // pattern vertex
		attr bool
	}
	cases := []struct {
		name    string
		sources []source
		snap    bool
	}{
		{"attr_first", []source{{1, true}, {1, false}}, false},
		{"attr_last", []source{{1, false}, {1, true}}, false},
		{"three", []source{{1, false}, {1, true}, {1, false}}, false},
		{"snap_onto_missing", []source{{1, false}, {2, true}}, true},
		{"snap_mixed", []source{{1, true}, {2, false}, {2, true}}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			attrs := NewFloatAttributes(1)
			m := newMergeTables(4, attrs, defaultMergeEpsilon)
			want, n := 0.0, 0
			for i, src := range tc.sources {
				c := contribution{job: int32(i), ref: cornerRef{0, 0}, attr: NoAttr}
				if src.attr {
					v := float64(4 * (i + 1))
					c.attr = attrs.Add(v)
					want += v
					n++
				}
				m.findOrCreateVertex(vertexKey{kind: keyPatternVertex, id: src.id}, c)
			}
			want /= float64(n)

			if tc.snap {
				if got := m.snap(defaultSnapEpsilon); got != 1 {
					t.Fatalf("snapped %d vertices, want 1", got)
				}
			}
			out := &Mesh{}
			if got := m.emitVertices(out); got != 1 {
				t.Fatalf("emitted %d vertices, want 1", got)
			}
			v := out.Vertices[0]
			if v.Attr == NoAttr {
				t.Fatal("attributes were lost")
			}
			if got := attrs.Get(v.Attr)[0]; got != want {
				t.Errorf("averaged attribute %g, want %g", got, want)
			}
		})
	}
}

func TestMergeNoAttributes(t *testing.T) {
	attrs := NewFloatAttributes(1)
	m := newMergeTables(2, attrs, defaultMergeEpsilon)
	k := vertexKey{kind: keyBaseVertex, id: 5}
	m.findOrCreateVertex(k, contribution{ref: cornerRef{0, 0}, attr: NoAttr})
	m.findOrCreateVertex(k, contribution{ref: cornerRef{1, 0}, attr: NoAttr})

	out := &Mesh{}
	m.emitVertices(out)
	if out.Vertices[0].Attr != NoAttr {
		t.Errorf("vertex got attribute slot %d", out.Vertices[0].Attr)
	}
	if len(attrs.Data) != 0 {
		t.Errorf("%d attribute values allocated", len(attrs.Data))
	}
}

func TestSnap(t *testing.T) {
	m := newMergeTables(8, nil, defaultMergeEpsilon)
	add := func(id int, x, y float64) int32 {
		k := vertexKey{kind: keyPatternVertex, id: id, uv: vec.Vec2{X: x, Y: y}}
		return m.findOrCreateVertex(k, contribution{ref: cornerRef{int32(id), 0}, attr: NoAttr})
	}
	a := add(1, 1, 1)
	b := add(2, 1+1e-9, 1)
	c := add(3, 2, 1)
	d := add(4, 1, 1-1e-9)

	if n := m.snap(1e-7); n != 2 {
		t.Errorf("snapped %d vertices, want 2", n)
	}
	if m.root(b) != a || m.root(d) != a {
		t.Errorf("roots %d %d, want %d", m.root(b), m.root(d), a)
	}
	if m.root(c) != c {
		t.Errorf("distant vertex snapped to %d", m.root(c))
	}
	if m.verts[a].refs != 3 {
		t.Errorf("refs = %d, want 3", m.verts[a].refs)
	}

	out := &Mesh{}
	if n := m.emitVertices(out); n != 2 {
		t.Errorf("emitted %d vertices, want 2", n)
	}
	if m.vertexID(b) != m.vertexID(a) {
		t.Error("snapped vertex has its own output id")
	}
}

func TestSnapDisabled(t *testing.T) {
	m := newMergeTables(2, nil, defaultMergeEpsilon)
	for i := range 2 {
		k := vertexKey{kind: keyPatternVertex, id: i}
		m.findOrCreateVertex(k, contribution{ref: cornerRef{int32(i), 0}, attr: NoAttr})
	}
	if n := m.snap(0); n != 0 {
		t.Errorf("snapped %d vertices with epsilon 0", n)
	}
}

func TestMergeEdge(t *testing.T) {
	m := newMergeTables(4, nil, defaultMergeEpsilon)
	var v [3]int32
	for i := range v {
		k := vertexKey{kind: keyPatternVertex, id: i}
		v[i] = m.findOrCreateVertex(k, contribution{ref: cornerRef{0, int32(i)}, attr: NoAttr})
	}
	out := &Mesh{}
	m.emitVertices(out)

	e1 := m.findOrCreateEdge(v[0], v[1], out)
	e2 := m.findOrCreateEdge(v[1], v[0], out)
	e3 := m.findOrCreateEdge(v[1], v[2], out)
	if e1 != e2 {
		t.Errorf("reversed edge got id %d, want %d", e2, e1)
	}
	if e3 == e1 {
		t.Error("different edges share an id")
	}
	if len(out.Edges) != 2 {
		t.Errorf("%d output edges, want 2", len(out.Edges))
	}
}

func TestFNVSpread(t *testing.T) {
	seen := map[uint64]bool{}
	for i := range 1000 {
		h := fnv1a(uint64(i), 0)
		if seen[h] {
			t.Fatalf("hash collision at %d", i)
		}
		seen[h] = true
	}
	if fnv1a() != 14695981039346656037 {
		t.Error("empty hash is not the FNV offset basis")
	}
	if fnv1a(1) == fnv1a(2) {
		t.Error("hash ignores its input")
	}
}
