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

// Command export writes all stitching scenarios and their output to
// testdata/testcases.json.
package main

import (
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"slices"

	"seehuhn.de/go/stitch"
	"seehuhn.de/go/stitch/testcases"
)

func main() {
	var out struct {
		TestCases []jsonTestCase `json:"testcases"`
	}

	for _, category := range slices.Sorted(maps.Keys(testcases.All)) {
		for _, tc := range testcases.All[category] {
			jtc, err := toJSON(category, tc)
			if err != nil {
				panic(fmt.Errorf("%s_%s: %w", category, tc.Name, err))
			}
			out.TestCases = append(out.TestCases, jtc)
		}
	}

	if err := os.MkdirAll("testdata", 0755); err != nil {
		panic(err)
	}
	f, err := os.Create("testdata/testcases.json")
	if err != nil {
		panic(err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		panic(err)
	}
}

type jsonTestCase struct {
	Name      string         `json:"name"`
	Fragments []jsonFragment `json:"fragments"`
	Vertices  [][]float64    `json:"vertices"`
	Faces     [][]int        `json:"faces"`
	Report    *stitch.Report `json:"report"`
}

type jsonFragment struct {
	Pattern int         `json:"pattern"`
	Tile    [2]int32    `json:"tile"`
	Flipped bool        `json:"flipped,omitempty"`
	UV      [][]float64 `json:"uv"`
	Flags   []string    `json:"flags"`
}

func toJSON(category string, tc testcases.TestCase) (jsonTestCase, error) {
	res, err := tc.Run()
	if err != nil {
		return jsonTestCase{}, err
	}

	jtc := jsonTestCase{
		Name:   category + "_" + tc.Name,
		Report: res.Report,
	}
	for _, f := range res.Fragments {
		jf := jsonFragment{
			Pattern: f.Pattern,
			Tile:    [2]int32{f.Tile.U, f.Tile.V},
			Flipped: f.Flipped,
		}
		for _, c := range f.Corners {
			uv := c.UV.Add(f.Tile.Offset())
			jf.UV = append(jf.UV, []float64{uv.X, uv.Y})
			jf.Flags = append(jf.Flags, flagString(c.Flags))
		}
		jtc.Fragments = append(jtc.Fragments, jf)
	}
	for _, v := range res.Mesh.Vertices {
		jtc.Vertices = append(jtc.Vertices, []float64{v.UV.X, v.UV.Y})
	}
	for i := range res.Mesh.Faces {
		var face []int
		for _, c := range res.Mesh.Face(i) {
			face = append(face, c.Vertex)
		}
		jtc.Faces = append(jtc.Faces, face)
	}
	return jtc, nil
}

func flagString(f stitch.CornerFlags) string {
	s := ""
	if f.IsPattern() {
		s += "P"
	}
	if f.OnBaseVertex() {
		s += "V"
	} else if f.OnLine() {
		s += "L"
	}
	return s
}
