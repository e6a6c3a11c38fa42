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
	"fmt"
	"testing"

	"seehuhn.de/go/stitch"
	"seehuhn.de/go/stitch/testcases"
)

// BenchmarkStitchSquare stitches one large pattern polygon, cut by a
// preserve line every four columns.
func BenchmarkStitchSquare(b *testing.B) {
	for _, size := range []int{4, 16, 64} {
		b.Run(fmt.Sprintf("%dx%d", size, size), func(b *testing.B) {
			g := testcases.NewGrid(size, size)
			for x := 4; x < size; x += 4 {
				for y := range size {
					g.SetPreserve(g.VEdge(x, y))
				}
				g.SetReceive(g.VEdge(x, 0), g.Vertex(x, 0), 1, 0)
				g.SetReceive(g.VEdge(x, size-1), g.Vertex(x, size), 2, 0)
			}
			n := float64(size)
			frags := g.Clip(testcases.Pattern{Rect: rectOf(0.5, 0.5, n-0.5, n-0.5)}, nil)
			in := &stitch.Input{Fragments: frags, Base: g}

			b.ResetTimer()
			b.ReportAllocs()

			for b.Loop() {
				if _, err := stitch.Stitch(in, &stitch.Mesh{}, nil); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkStitchPatterns stitches one pattern polygon per 2×2 block of
// cells, spread over several jobs.
func BenchmarkStitchPatterns(b *testing.B) {
	for _, size := range []int{8, 32} {
		b.Run(fmt.Sprintf("%dx%d", size, size), func(b *testing.B) {
			g := testcases.NewGrid(size, size)
			attrs := stitch.NewFloatAttributes(2)
			var frags []stitch.Fragment
			id := 0
			for y := 0; y < size; y += 2 {
				for x := 0; x < size; x += 2 {
					r := rectOf(float64(x)+0.25, float64(y)+0.25, float64(x)+1.75, float64(y)+1.75)
					frags = append(frags, g.Clip(testcases.Pattern{ID: id, Rect: r}, attrs)...)
					id++
				}
			}
			in := &stitch.Input{Fragments: frags, Base: g, Attributes: attrs}

			b.ResetTimer()
			b.ReportAllocs()

			for b.Loop() {
				if _, err := stitch.Stitch(in, &stitch.Mesh{}, nil); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
