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
	"image"
	"image/color"

	"golang.org/x/image/vector"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

// RenderMesh rasterizes the UV layout of all faces of m into a coverage
// buffer.  The region view of UV space is mapped onto the whole buffer,
// with the UV y axis pointing up.  The buffer is in row-major order with
// one byte per pixel, 0 meaning uncovered and 255 fully covered.  Coverage
// is composited over the existing buffer contents.
func RenderMesh(m *Mesh, buf []byte, width, height, stride int, view rect.Rect) {
	if width <= 0 || height <= 0 || view.URx <= view.LLx || view.URy <= view.LLy {
		return
	}
	sx := float64(width) / (view.URx - view.LLx)
	sy := float64(height) / (view.URy - view.LLy)
	toPixel := matrix.Scale(sx, -sy).Translate(-sx*view.LLx, float64(height)+sy*view.LLy)

	r := vector.NewRasterizer(width, height)
	for i := range m.Faces {
		cc := m.Face(i)
		for k, c := range cc {
			x, y := apply(toPixel, c.UV)
			if k == 0 {
				r.MoveTo(x, y)
			} else {
				r.LineTo(x, y)
			}
		}
		r.ClosePath()
	}

	dst := &image.Alpha{
		Pix:    buf,
		Stride: stride,
		Rect:   image.Rect(0, 0, width, height),
	}
	r.Draw(dst, dst.Bounds(), image.NewUniform(color.Alpha{A: 255}), image.Point{})
}

func apply(m matrix.Matrix, v vec.Vec2) (float32, float32) {
	return float32(m[0]*v.X + m[2]*v.Y + m[4]), float32(m[1]*v.X + m[3]*v.Y + m[5])
}
