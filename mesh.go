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

	"seehuhn.de/go/geom/rect"
)

// Mesh is an in-memory [OutputMesh].
type Mesh struct {
	Vertices []Vertex
	Edges    [][2]int
	Faces    []Face
	Corners  []FaceCorner
}

// Face refers to a run of Mesh.Corners.
type Face struct {
	Start, Count int
}

// AddVertex implements [OutputMesh].
func (m *Mesh) AddVertex(v Vertex) int {
	m.Vertices = append(m.Vertices, v)
	return len(m.Vertices) - 1
}

// AddEdge implements [OutputMesh].
func (m *Mesh) AddEdge(v0, v1 int) int {
	m.Edges = append(m.Edges, [2]int{v0, v1})
	return len(m.Edges) - 1
}

// AddFace implements [OutputMesh].
func (m *Mesh) AddFace(corners []FaceCorner) int {
	m.Faces = append(m.Faces, Face{Start: len(m.Corners), Count: len(corners)})
	m.Corners = append(m.Corners, corners...)
	return len(m.Faces) - 1
}

// Face returns the corners of face i.
func (m *Mesh) Face(i int) []FaceCorner {
	f := m.Faces[i]
	return m.Corners[f.Start : f.Start+f.Count]
}

// Area returns the signed UV area of face i.
// Counter-clockwise faces have positive area.
func (m *Mesh) Area(i int) float64 {
	cc := m.Face(i)
	var a float64
	for k, c := range cc {
		d := cc[(k+1)%len(cc)]
		a += c.UV.X*d.UV.Y - d.UV.X*c.UV.Y
	}
	return a / 2
}

// Bounds returns the bounding box of all face corners in UV space.
func (m *Mesh) Bounds() rect.Rect {
	if len(m.Corners) == 0 {
		return rect.Rect{}
	}
	r := rect.Rect{
		LLx: math.Inf(+1), LLy: math.Inf(+1),
		URx: math.Inf(-1), URy: math.Inf(-1),
	}
	for _, c := range m.Corners {
		r.LLx = min(r.LLx, c.UV.X)
		r.LLy = min(r.LLy, c.UV.Y)
		r.URx = max(r.URx, c.UV.X)
		r.URy = max(r.URy, c.UV.Y)
	}
	return r
}

// FloatAttributes is an [AttributeBlender] for fixed-width float vectors.
// Slot i occupies Data[i*Width : (i+1)*Width].
type FloatAttributes struct {
	Width int
	Data  []float64
}

// NewFloatAttributes returns an empty attribute store with the given
// vector width.
func NewFloatAttributes(width int) *FloatAttributes {
	return &FloatAttributes{Width: width}
}

// Add appends a new slot holding vals and returns its handle.
// Missing values are zero, extra values are ignored.
func (a *FloatAttributes) Add(vals ...float64) AttrRef {
	ref := a.Alloc()
	copy(a.Get(ref), vals)
	return ref
}

// Get returns the values of slot ref.  The result aliases the store.
func (a *FloatAttributes) Get(ref AttrRef) []float64 {
	i := int(ref) * a.Width
	return a.Data[i : i+a.Width : i+a.Width]
}

// Alloc implements [AttributeBlender].
func (a *FloatAttributes) Alloc() AttrRef {
	if a.Width <= 0 {
		return 0
	}
	ref := AttrRef(len(a.Data) / a.Width)
	a.Data = append(a.Data, make([]float64, a.Width)...)
	return ref
}

// Blend implements [AttributeBlender].  It stores the sum of a and b in
// dst.
func (a *FloatAttributes) Blend(dst, x, y AttrRef) {
	d, xs, ys := a.Get(dst), a.Get(x), a.Get(y)
	for i := range d {
		d[i] = xs[i] + ys[i]
	}
}

// DivideByScalar implements [AttributeBlender].
func (a *FloatAttributes) DivideByScalar(ref AttrRef, count int) {
	d := a.Get(ref)
	for i := range d {
		d[i] /= float64(count)
	}
}
