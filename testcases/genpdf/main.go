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

// Command genpdf draws every stitching scenario to a PDF file, showing the
// base grid, the preserve edges, the clipped fragments and the stitched
// faces.
//
// A YAML file given with -config replaces the configuration of all
// scenarios.
package main

import (
	"flag"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/document"
	"seehuhn.de/go/pdf/graphics/color"

	"seehuhn.de/go/stitch"
	"seehuhn.de/go/stitch/testcases"
)

const (
	unit   = 120.0 // points per UV unit
	margin = 24.0
)

func main() {
	outDir := flag.String("o", "testdata/sheets", "output directory")
	configFile := flag.String("config", "", "YAML file with stitching parameters")
	flag.Parse()

	var cfg *stitch.Config
	if *configFile != "" {
		var err error
		cfg, err = loadConfig(*configFile)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	if err := os.MkdirAll(*outDir, 0755); err != nil {
		panic(err)
	}

	for _, category := range slices.Sorted(maps.Keys(testcases.All)) {
		for _, tc := range testcases.All[category] {
			name := category + "_" + tc.Name
			if cfg != nil {
				tc.Config = cfg
			}
			if err := generatePDF(tc, filepath.Join(*outDir, name+".pdf")); err != nil {
				panic(fmt.Errorf("%s: %w", name, err))
			}
		}
	}
}

// loadConfig reads stitching parameters from a YAML file.  Fields missing
// from the file keep their default values.
func loadConfig(fname string) (*stitch.Config, error) {
	data, err := os.ReadFile(fname)
	if err != nil {
		return nil, err
	}
	cfg := stitch.DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", fname, err)
	}
	return cfg, nil
}

func generatePDF(tc testcases.TestCase, pdfPath string) error {
	res, err := tc.Run()
	if err != nil {
		return err
	}
	g := res.Grid

	bbox := res.Mesh.Bounds()
	bbox.LLx = min(bbox.LLx, 0)
	bbox.LLy = min(bbox.LLy, 0)
	bbox.URx = max(bbox.URx, float64(g.W))
	bbox.URy = max(bbox.URy, float64(g.H))

	paper := &pdf.Rectangle{
		URx: unit*(bbox.URx-bbox.LLx) + 2*margin,
		URy: unit*(bbox.URy-bbox.LLy) + 2*margin,
	}
	page, err := document.CreateSinglePage(pdfPath, paper, pdf.V1_7, nil)
	if err != nil {
		return err
	}

	// from here on, draw in UV coordinates
	page.Transform(matrix.Scale(unit, unit).Translate(margin-unit*bbox.LLx, margin-unit*bbox.LLy))

	// stitched faces
	page.SetFillColor(color.DeviceGray(0.85))
	for i := range res.Mesh.Faces {
		drawPath(page, facePath(res.Mesh, i))
		page.Fill()
	}

	// base grid, preserve edges on top
	page.SetLineWidth(0.5 / unit)
	page.SetStrokeColor(color.DeviceGray(0.6))
	for e := range g.NumEdges() {
		if !g.IsPreserve(e) {
			drawPath(page, edgePath(g, e))
		}
	}
	page.Stroke()
	page.SetLineWidth(2.5 / unit)
	page.SetStrokeColor(color.DeviceGray(0.2))
	for e := range g.NumEdges() {
		if g.IsPreserve(e) {
			drawPath(page, edgePath(g, e))
		}
	}
	page.Stroke()

	// clipped fragments
	page.SetLineWidth(0.25 / unit)
	page.SetStrokeColor(color.DeviceGray(0.4))
	for _, f := range res.Fragments {
		drawPath(page, fragmentPath(f))
	}
	page.Stroke()

	// outlines of the stitched faces
	page.SetLineWidth(1 / unit)
	page.SetStrokeColor(color.DeviceGray(0))
	for i := range res.Mesh.Faces {
		drawPath(page, facePath(res.Mesh, i))
	}
	page.Stroke()

	return page.Close()
}

type pathPainter interface {
	MoveTo(x, y float64)
	LineTo(x, y float64)
	ClosePath()
}

// drawPath appends the straight line segments of p to the current path.
func drawPath(page pathPainter, p *path.Data) {
	coordIdx := 0
	for _, cmd := range p.Cmds {
		switch cmd {
		case path.CmdMoveTo:
			page.MoveTo(p.Coords[coordIdx].X, p.Coords[coordIdx].Y)
			coordIdx++
		case path.CmdLineTo:
			page.LineTo(p.Coords[coordIdx].X, p.Coords[coordIdx].Y)
			coordIdx++
		case path.CmdClose:
			page.ClosePath()
		}
	}
}

func polygon(pts []vec.Vec2) *path.Data {
	p := &path.Data{}
	for i, pt := range pts {
		if i == 0 {
			p = p.MoveTo(pt)
		} else {
			p = p.LineTo(pt)
		}
	}
	return p.Close()
}

func facePath(m *stitch.Mesh, i int) *path.Data {
	var pts []vec.Vec2
	for _, c := range m.Face(i) {
		pts = append(pts, c.UV)
	}
	return polygon(pts)
}

func fragmentPath(f stitch.Fragment) *path.Data {
	var pts []vec.Vec2
	for _, c := range f.Corners {
		pts = append(pts, c.UV.Add(f.Tile.Offset()))
	}
	return polygon(pts)
}

func edgePath(g *testcases.Grid, e int) *path.Data {
	a, b := g.EdgeVerts(e)
	return (&path.Data{}).
		MoveTo(g.VertexUV(a)).
		LineTo(g.VertexUV(b))
}
