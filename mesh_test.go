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

package stitch_test

import (
	"math"
	"testing"

	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/stitch"
)

func TestMeshFaces(t *testing.T) {
	m := &stitch.Mesh{}
	uv := []vec.Vec2{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 1}, {X: 0, Y: 1}}
	var cc []stitch.FaceCorner
	for i, p := range uv {
		cc = append(cc, stitch.FaceCorner{Vertex: m.AddVertex(stitch.Vertex{UV: p}), UV: p, Edge: i})
	}
	f0 := m.AddFace(cc)

	// the mesh must not alias the caller's slice
	cc[0].UV = vec.Vec2{X: 100, Y: 100}
	cc = cc[:3]
	cc[2].UV = vec.Vec2{X: -1, Y: -1}
	f1 := m.AddFace(cc)

	if f0 != 0 || f1 != 1 {
		t.Fatalf("face ids %d %d", f0, f1)
	}
	if n := len(m.Face(0)); n != 4 {
		t.Errorf("face 0 has %d corners", n)
	}
	if a := m.Area(0); a != 2 {
		t.Errorf("area = %g, want 2", a)
	}

	b := m.Bounds()
	if b.LLx != -1 || b.LLy != -1 || b.URx != 100 || b.URy != 100 {
		t.Errorf("bounds = %v", b)
	}
	if b := (&stitch.Mesh{}).Bounds(); b.URx != 0 || b.LLx != 0 {
		t.Errorf("empty mesh bounds = %v", b)
	}
}

func TestFloatAttributes(t *testing.T) {
	a := stitch.NewFloatAttributes(3)
	x := a.Add(1, 2, 3)
	y := a.Add(4, 5)
	if x != 0 || y != 1 {
		t.Fatalf("refs %d %d", x, y)
	}
	if got := a.Get(y); got[2] != 0 {
		t.Errorf("missing value = %g, want 0", got[2])
	}

	z := a.Alloc()
	a.Blend(z, x, y)
	a.DivideByScalar(z, 2)
	want := []float64{2.5, 3.5, 1.5}
	for i, v := range a.Get(z) {
		if math.Abs(v-want[i]) > 1e-12 {
			t.Errorf("value %d = %g, want %g", i, v, want[i])
		}
	}

	empty := stitch.NewFloatAttributes(0)
	if r := empty.Add(1); len(empty.Get(r)) != 0 {
		t.Error("zero width store holds values")
	}
}
