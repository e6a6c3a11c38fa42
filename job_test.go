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
	"bytes"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"testing"

	"seehuhn.de/go/stitch"
	"seehuhn.de/go/stitch/testcases"
)

// scenario returns the test case with the given category and name.
func scenario(t *testing.T, category, name string) testcases.TestCase {
	t.Helper()
	for _, tc := range testcases.All[category] {
		if tc.Name == name {
			return tc
		}
	}
	t.Fatalf("no test case %s_%s", category, name)
	return testcases.TestCase{}
}

// probe runs a scenario as a single job.
func probe(t *testing.T, category, name string) (*stitch.JobProbe, []stitch.Fragment) {
	t.Helper()
	tc := scenario(t, category, name)
	g, frags, _ := tc.Fragments()
	p := stitch.NewJobProbe(frags, g, tc.Config)
	if err := p.Run(); err != nil {
		t.Fatal(err)
	}
	return p, frags
}

func TestThirdReference(t *testing.T) {
	tc := scenario(t, "basic", "two_cells")
	g, frags, _ := tc.Fragments()
	frags = append(frags, frags[1])

	_, err := stitch.Stitch(&stitch.Input{Fragments: frags, Base: g}, &stitch.Mesh{}, nil)
	if !errors.Is(err, stitch.ErrTopology) {
		t.Fatalf("got %v, want ErrTopology", err)
	}
	var jobErr *stitch.JobError
	if !errors.As(err, &jobErr) {
		t.Errorf("error %v does not name the job", err)
	}
}

func TestWindingMismatch(t *testing.T) {
	tc := scenario(t, "basic", "two_cells")
	g, frags, _ := tc.Fragments()
	frags[1].Flipped = true

	p := stitch.NewJobProbe(frags, g, nil)
	if err := p.Run(); err != nil {
		t.Fatal(err)
	}
	if _, double, _, removed := p.Entries(); double != 1 || removed != 1 {
		t.Errorf("%d shared entries, %d removed, want 1 and 1", double, removed)
	}
	if got := p.Pieces(0); len(got) != 2 {
		t.Errorf("connectivity pass gave pieces %v", got)
	}

	m := &stitch.Mesh{}
	r, err := stitch.Stitch(&stitch.Input{Fragments: frags, Base: g}, m, nil)
	if err != nil {
		t.Fatal(err)
	}
	if r.Faces != 2 {
		t.Errorf("%d faces, want 2", r.Faces)
	}
}

func TestLinkPasses(t *testing.T) {
	p, _ := probe(t, "seam", "receive_split")

	if got, want := p.Pieces(0), [][]int{{0, 1, 2}}; !equalPieces(got, want) {
		t.Errorf("connectivity pass: %v, want %v", got, want)
	}
	if got, want := p.Pieces(1), [][]int{{0, 1}, {2}}; !equalPieces(got, want) {
		t.Errorf("seam-aware pass: %v, want %v", got, want)
	}
	for i := range 2 {
		if !p.HasSeam(i) {
			t.Errorf("piece %d is not marked as bordering a seam", i)
		}
	}
	if p.Trees() != 1 || p.Seams() != 1 {
		t.Errorf("%d trees, %d seams, want 1 and 1", p.Trees(), p.Seams())
	}

	// the seam runs from corner 1 of the middle fragment to corner 3 of
	// the right fragment
	if !p.KeepSeam(1, 1) || !p.KeepSeam(2, 3) {
		t.Error("seam end points are not marked")
	}
	if p.KeepPreserve(1, 1) {
		t.Error("seam end point marked as merged preserve edge")
	}
}

func TestMergedPreserveMarks(t *testing.T) {
	p, _ := probe(t, "seam", "same_region")
	if got := p.Pieces(1); len(got) != 1 {
		t.Fatalf("pieces %v", got)
	}
	if !p.KeepPreserve(1, 1) || !p.KeepPreserve(2, 3) {
		t.Error("end points of the merged preserve edge are not marked")
	}
	if p.Seams() != 0 {
		t.Errorf("%d seams", p.Seams())
	}
}

func TestSeamDecisionOrderIndependent(t *testing.T) {
	for _, name := range []string{"receive_split", "quad_split", "quad_merge", "straight_split"} {
		tc := scenario(t, "seam", name)
		g, frags, _ := tc.Fragments()

		ref, refAreas := stitchAreas(t, g, frags)
		for shift := 1; shift < len(frags); shift++ {
			perm := append(slices.Clone(frags[shift:]), frags[:shift]...)
			if shift%2 == 0 {
				slices.Reverse(perm)
			}
			r, areas := stitchAreas(t, g, perm)
			if r.Pieces != ref.Pieces || r.Seams != ref.Seams ||
				r.Vertices != ref.Vertices || r.Edges != ref.Edges {
				t.Errorf("%s shift %d: %+v, want %+v", name, shift, r, ref)
			}
			if !slices.Equal(areas, refAreas) {
				t.Errorf("%s shift %d: face areas %v, want %v", name, shift, areas, refAreas)
			}
		}
	}
}

func stitchAreas(t *testing.T, g stitch.BaseMesh, frags []stitch.Fragment) (*stitch.Report, []float64) {
	t.Helper()
	m := &stitch.Mesh{}
	r, err := stitch.Stitch(&stitch.Input{Fragments: frags, Base: g}, m, nil)
	if err != nil {
		t.Fatal(err)
	}
	areas := make([]float64, len(m.Faces))
	for i := range areas {
		areas[i] = m.Area(i)
	}
	slices.Sort(areas)
	return r, areas
}

func TestQuadJunction(t *testing.T) {
	straight, _ := probe(t, "seam", "straight_merge")
	quad, _ := probe(t, "seam", "quad_merge")

	if straight.MaxDepth() != 1 {
		t.Errorf("straight line: depth %d, want 1", straight.MaxDepth())
	}
	if quad.MaxDepth() != 2 {
		t.Errorf("crossing lines: depth %d, want 2", quad.MaxDepth())
	}
	if quad.Trees() != 1 {
		t.Errorf("crossing lines form %d trees, want 1", quad.Trees())
	}

	split, _ := probe(t, "seam", "quad_split")
	if got := split.Pieces(1); len(got) != 4 {
		t.Errorf("quad seam gave pieces %v", got)
	}
}

func TestDeadEnd(t *testing.T) {
	p, frags := probe(t, "seam", "dead_end")

	n := 0
	for fi, f := range frags {
		for ci, c := range f.Corners {
			atEnd := c.UV.X == 1 && c.UV.Y == 1
			if atEnd {
				n++
			}
			if p.KeepVertex(fi, ci) != atEnd {
				t.Errorf("fragment %d corner %d at %v: keep-vertex %t", fi, ci, c.UV, !atEnd)
			}
		}
	}
	if n != 4 {
		t.Errorf("%d corners at the dead end, want 4", n)
	}
	if p.Seams() != 0 {
		t.Errorf("%d seams", p.Seams())
	}
}

func TestOpenPreserve(t *testing.T) {
	p, _ := probe(t, "seam", "open_preserve")
	single, double, seam, _ := p.Entries()
	if single != 2 || double != 0 || seam != 2 {
		t.Errorf("entries: %d single, %d double, %d seam", single, double, seam)
	}
	if p.Trees() != 0 {
		t.Errorf("%d trees", p.Trees())
	}
}

func TestSortOrder(t *testing.T) {
	for _, category := range []string{"basic", "seam"} {
		for _, tc := range testcases.All[category] {
			t.Run(category+"_"+tc.Name, func(t *testing.T) {
				p, frags := probe(t, category, tc.Name)

				retained := 0
				for i := range p.NumFaces() {
					face := p.Face(i)
					seen := map[[2]float64]bool{}
					for k, fc := range face {
						if got := p.Order(fc[0], fc[1]); got != k+1 {
							t.Errorf("face %d position %d has order %d", i, k, got)
						}
						uv := frags[fc[0]].Corners[fc[1]].UV
						key := [2]float64{uv.X, uv.Y}
						if seen[key] {
							t.Errorf("face %d visits %v twice", i, uv)
						}
						seen[key] = true
					}
					retained += len(face)
				}

				ordered := 0
				for fi, f := range frags {
					for ci := range f.Corners {
						if p.Order(fi, ci) > 0 {
							ordered++
						}
					}
				}
				if ordered != retained {
					t.Errorf("%d corners have an order, %d are retained", ordered, retained)
				}
			})
		}
	}
}

func TestSortStartsOutside(t *testing.T) {
	p, _ := probe(t, "basic", "single_cell")
	want := [][2]int{{0, 0}, {0, 1}, {0, 2}, {0, 3}}
	if got := p.Face(0); !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestSortFlipped(t *testing.T) {
	plain, _ := probe(t, "basic", "two_cells")
	flipped, _ := probe(t, "basic", "flipped")

	want := slices.Clone(plain.Face(0))
	slices.Reverse(want)
	if got := flipped.Face(0); !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if n := flipped.FaceNormal(0); n.Z >= 0 {
		t.Errorf("flipped face has normal %v", n)
	}
}

func TestStitchErrors(t *testing.T) {
	g := testcases.NewGrid(1, 1)
	if _, err := stitch.Stitch(&stitch.Input{}, &stitch.Mesh{}, nil); err == nil {
		t.Error("missing base mesh accepted")
	}
	if _, err := stitch.Stitch(nil, &stitch.Mesh{}, nil); err == nil {
		t.Error("missing input accepted")
	}
	if _, err := stitch.Stitch(&stitch.Input{Base: g}, nil, nil); err == nil {
		t.Error("missing output mesh accepted")
	}

	bad := []stitch.Fragment{{Corners: make([]stitch.Corner, 2)}}
	m := &stitch.Mesh{}
	_, err := stitch.Stitch(&stitch.Input{Fragments: bad, Base: g}, m, nil)
	if !errors.Is(err, stitch.ErrTopology) {
		t.Errorf("got %v, want ErrTopology", err)
	}
	if len(m.Vertices)+len(m.Faces) != 0 {
		t.Error("output written despite error")
	}

	r, err := stitch.Stitch(&stitch.Input{Base: g}, m, nil)
	if err != nil || r.Faces != 0 || r.Jobs != 0 {
		t.Errorf("empty input: %+v, %v", r, err)
	}
}

// serialScheduler runs each task as soon as it is submitted.
type serialScheduler struct {
	tasks int
	err   error
}

func (s *serialScheduler) Go(task func() error) {
	s.tasks++
	if err := task(); err != nil && s.err == nil {
		s.err = err
	}
}

func (s *serialScheduler) Wait() error { return s.err }

func TestJobs(t *testing.T) {
	for _, c := range []struct {
		name string
		jobs int
	}{
		{"two_patterns", 2},
		{"checkerboard", 4},
	} {
		tc := scenario(t, "merge", c.name)
		g, frags, attrs := tc.Fragments()
		sched := &serialScheduler{}
		in := &stitch.Input{Fragments: frags, Base: g, Scheduler: sched}
		if attrs != nil {
			in.Attributes = attrs
		}
		r, err := stitch.Stitch(in, &stitch.Mesh{}, tc.Config)
		if err != nil {
			t.Fatal(err)
		}
		if r.Jobs != c.jobs || sched.tasks != c.jobs {
			t.Errorf("%s: %d jobs, %d tasks, want %d", c.name, r.Jobs, sched.tasks, c.jobs)
		}
		if r.Vertices != tc.Want.Vertices {
			t.Errorf("%s: %d vertices, want %d", c.name, r.Vertices, tc.Want.Vertices)
		}
	}
}

func TestLogging(t *testing.T) {
	orig := stitch.Logger()
	t.Cleanup(func() { stitch.SetLogger(orig) })

	var buf bytes.Buffer
	stitch.SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	tc := scenario(t, "seam", "receive_split")
	if _, err := tc.Run(); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"stitch finished", "stitch job finished", "state=merge-corners", "seams=1"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output lacks %q", want)
		}
	}

	stitch.SetLogger(nil)
	if stitch.Logger().Enabled(t.Context(), slog.LevelError) {
		t.Error("nil logger is not silent")
	}
}

func TestSegments(t *testing.T) {
	for _, c := range []struct {
		name   string
		pieces [][]int
		double int
		single int
	}{
		{"notch", [][]int{{0, 1, 2}}, 2, 0},
		{"notch_mismatch", [][]int{{0, 2}, {1}}, 1, 2},
	} {
		t.Run(c.name, func(t *testing.T) {
			p, _ := probe(t, "segment", c.name)
			if got := p.Pieces(0); !equalPieces(got, c.pieces) {
				t.Errorf("pieces %v, want %v", got, c.pieces)
			}
			single, double, _, _ := p.Entries()
			if single != c.single || double != c.double {
				t.Errorf("%d single and %d shared entries, want %d and %d",
					single, double, c.single, c.double)
			}
		})
	}
}

func TestReceives(t *testing.T) {
	for _, c := range []struct {
		category, name     string
		receives, bordered int
	}{
		{"seam", "receive_split", 2, 2},
		{"seam", "same_region", 2, 0},
		{"seam", "one_region", 1, 0},
		{"seam", "far_region", 1, 0},
		{"seam", "straight_split", 2, 2},
		{"seam", "vertex_split", 2, 2},
		{"seam", "vertex_merge", 2, 0},
		{"seam", "vertex_boundary", 1, 0},
		{"basic", "two_cells", 0, 0},
	} {
		t.Run(c.name, func(t *testing.T) {
			tc := scenario(t, c.category, c.name)
			res, err := tc.Run()
			if err != nil {
				t.Fatal(err)
			}
			r := res.Report
			if r.Receives != c.receives || r.Bordered != c.bordered {
				t.Errorf("%d receives and %d bordered pieces, want %d and %d",
					r.Receives, r.Bordered, c.receives, c.bordered)
			}
		})
	}
}

func equalPieces(a, b [][]int) bool {
	return slices.EqualFunc(a, b, func(x, y []int) bool { return slices.Equal(x, y) })
}
