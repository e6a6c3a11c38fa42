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

import "slices"

// JobProbe runs the pipeline of a single job and exposes its
// intermediate state to the external tests.
type JobProbe struct {
	j *job
}

func NewJobProbe(frags []Fragment, base BaseMesh, cfg *Config) *JobProbe {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &JobProbe{j: newJob(0, frags, base, cfg)}
}

func (p *JobProbe) Run() error { return p.j.run() }

// Pieces returns the fragment indices of every piece found by the
// connectivity pass (pass 0) or the seam-aware pass (pass 1).
func (p *JobProbe) Pieces(pass int) [][]int {
	l := p.j.links
	if pass == 1 {
		l = p.j.final
	}
	res := make([][]int, len(l.pieces))
	for pi := range l.pieces {
		for _, f := range l.members(pi) {
			res[pi] = append(res[pi], int(f))
		}
		slices.Sort(res[pi])
	}
	return res
}

func (p *JobProbe) HasSeam(piece int) bool { return p.j.final.pieces[piece].hasSeam }

func (p *JobProbe) Trees() int    { return p.j.stats.trees }
func (p *JobProbe) Seams() int    { return p.j.stats.seams }
func (p *JobProbe) MaxDepth() int { return p.j.stats.maxDepth }

// Entries counts the shared edge table entries with the given number of
// references, which are seams or which are removed.
func (p *JobProbe) Entries() (single, double, seam, removed int) {
	for i := range p.j.table.entries {
		e := &p.j.table.entries[i]
		if e.nRefs == 1 {
			single++
		} else {
			double++
		}
		if e.has(entrySeam) {
			seam++
		}
		if e.has(entryRemoved) {
			removed++
		}
	}
	return
}

func (p *JobProbe) KeepPreserve(frag, corner int) bool {
	return p.j.marks[frag][corner]&keepPreserve != 0
}

func (p *JobProbe) KeepSeam(frag, corner int) bool {
	return p.j.marks[frag][corner]&keepSeam != 0
}

func (p *JobProbe) KeepVertex(frag, corner int) bool {
	return p.j.marks[frag][corner]&keepVertex != 0
}

// Order returns the output position (starting at 1) of a retained corner
// within its piece, or 0 if the corner was dropped.
func (p *JobProbe) Order(frag, corner int) int {
	return int(p.j.order[frag][corner])
}

func (p *JobProbe) NumFaces() int { return len(p.j.faces) }

// Face returns the retained corners of face i in output order, as
// (fragment, corner) pairs.
func (p *JobProbe) Face(i int) [][2]int {
	var res [][2]int
	for _, c := range p.j.faces[i].corners {
		res = append(res, [2]int{int(c.ref.frag), int(c.ref.corner)})
	}
	return res
}

// FaceNormal returns the normal assigned to the corners of face i.
func (p *JobProbe) FaceNormal(i int) Vec3 {
	return p.j.faces[i].corners[0].normal
}
