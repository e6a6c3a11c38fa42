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
	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/stitch"
)

// TestCase defines a single stitching scenario.
type TestCase struct {
	Name     string         // lowercase a-z, 0-9 and _ only
	Grid     func() *Grid   // builds the base mesh
	Patterns []Pattern      // clipped against the grid in order
	Build    Builder        // hand-made fragments, added after Patterns
	Attrs    bool           // attach UV attributes to every corner
	Config   *stitch.Config // nil means stitch.DefaultConfig()

	Want Want
}

// Builder returns fragments which the rectangle clipper cannot produce.
type Builder func(g *Grid, attrs *stitch.FloatAttributes) []stitch.Fragment

// Want is the expected outcome of a scenario.
type Want struct {
	Pieces   int // after seam-aware linking
	Seams    int // preserve trees split into seams
	Faces    int
	Vertices int
	Edges    int
	Snapped  int
}

// Result holds the input and output of one stitching run.
type Result struct {
	Grid      *Grid
	Fragments []stitch.Fragment
	Attrs     *stitch.FloatAttributes // nil unless TestCase.Attrs is set
	Mesh      *stitch.Mesh
	Report    *stitch.Report
}

// Fragments builds the base mesh and clips all patterns against it.
func (tc *TestCase) Fragments() (*Grid, []stitch.Fragment, *stitch.FloatAttributes) {
	g := tc.Grid()
	var attrs *stitch.FloatAttributes
	if tc.Attrs {
		attrs = stitch.NewFloatAttributes(2)
	}
	var frags []stitch.Fragment
	for _, p := range tc.Patterns {
		frags = append(frags, g.Clip(p, attrs)...)
	}
	if tc.Build != nil {
		frags = append(frags, tc.Build(g, attrs)...)
	}
	return g, frags, attrs
}

// Run stitches the scenario into a new mesh.
func (tc *TestCase) Run() (*Result, error) {
	g, frags, attrs := tc.Fragments()
	res := &Result{
		Grid:      g,
		Fragments: frags,
		Attrs:     attrs,
		Mesh:      &stitch.Mesh{},
	}
	in := &stitch.Input{
		Fragments: frags,
		Base:      g,
	}
	if attrs != nil {
		in.Attributes = attrs
	}
	r, err := stitch.Stitch(in, res.Mesh, tc.Config)
	if err != nil {
		return nil, err
	}
	res.Report = r
	return res, nil
}

// box is a helper to create a rect.Rect from corner coordinates.
func box(x0, y0, x1, y1 float64) rect.Rect {
	return rect.Rect{LLx: x0, LLy: y0, URx: x1, URy: y1}
}

// grid returns a constructor for an empty w×h grid.
func grid(w, h int) func() *Grid {
	return func() *Grid { return NewGrid(w, h) }
}
