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
	"cmp"
	"fmt"
	"math"
	"slices"

	"seehuhn.de/go/geom/vec"
)

// cornerMarks are the retain decisions attached to a corner by the
// preserve edge validator.
type cornerMarks uint8

const (
	keepPreserve cornerMarks = 1 << iota // end of a merged preserve edge
	keepSeam                             // end of a seam
	keepVertex                           // base vertex ending a preserve branch
)

const rayEpsilon = 1e-12

// walkFrame is one level of the explicit depth-first stack used to
// explore a preserve tree.  The frame sits at corner "at", whose outgoing
// edge is the edge currently being followed.
type walkFrame struct {
	piece         int32
	at            cornerRef
	prev          cornerRef
	edge          int32 // table entry of the active edge
	validBranches int32 // unexplored branches found at the last point

	// quad is set for a frame which explores the crossing line of a
	// four-way junction.  Once the first side is done, the frame resumes
	// with alt.
	quad bool
	alt  cornerRef
}

// preserveTree is a connected set of preserve edges inside one piece.
type preserveTree struct {
	id        int32
	region    int
	seam      bool
	edges     []int32
	endpoints []cornerRef
}

func (tr *preserveTree) addRegion(r int) {
	switch {
	case r == NoRegion:
	case tr.region == NoRegion:
		tr.region = r
	case r != tr.region:
		tr.seam = true
	}
}

// validatorStats summarises one validation run.
type validatorStats struct {
	trees    int
	seams    int
	receives int // tree end points which reached a receive region
	maxDepth int
}

// validator classifies the preserve edges of one job as seam or
// mergeable.
type validator struct {
	j     *job
	stack []walkFrame
	ring  []cornerRef
	trees []*preserveTree
	stats validatorStats
}

func newValidator(j *job) *validator {
	return &validator{j: j}
}

// run validates all pieces of the pass-0 linkage and marks the seam
// entries of the shared edge table.
func (v *validator) run(l *linkage) error {
	t := v.j.table
	for i := range t.entries {
		e := &t.entries[i]
		if e.has(entryPreserve) && e.nRefs == 1 {
			// open preserve edge: nothing to merge with
			e.flags |= entrySeam
		}
	}

	for pi := range l.pieces {
		p := &l.pieces[pi]
		if p.visited {
			continue
		}
		if err := v.validatePiece(l, int32(pi)); err != nil {
			return err
		}
		p.visited = true
	}

	for _, tr := range v.trees {
		mark := keepPreserve
		if tr.seam {
			mark = keepSeam
			v.stats.seams++
			for _, ei := range tr.edges {
				t.entries[ei].flags |= entrySeam
			}
		}
		for _, ref := range tr.endpoints {
			m := &v.j.marks[ref.frag][ref.corner]
			if *m&mark != 0 {
				return fmt.Errorf("corner %d of fragment %d reached twice by preserve walk: %w",
					ref.corner, ref.frag, ErrTopology)
			}
			*m |= mark
		}
	}
	v.stats.trees = len(v.trees)
	for i := range t.entries {
		v.stats.receives += int(t.entries[i].receive)
	}
	return nil
}

// validatePiece walks the outline of one piece and explores every
// preserve tree touching it.
func (v *validator) validatePiece(l *linkage, pi int32) error {
	t := v.j.table
	start, err := v.j.exteriorCorner(l, pi)
	if err != nil {
		return err
	}
	limit := 2 * int(l.pieces[pi].corners)
	x := start
	for steps := 0; ; steps++ {
		if steps > limit {
			return fmt.Errorf("outline of piece %d does not close: %w", pi, ErrTopology)
		}
		next, shared := t.step(x, linkAll)
		if shared {
			ei := t.cornerEntry[x.frag][x.corner]
			if e := &t.entries[ei]; e.has(entryPreserve) && e.valid < 0 {
				if err := v.explore(pi, x, ei); err != nil {
					return err
				}
			}
		} else {
			next = cornerRef{x.frag, int32(v.j.frags[x.frag].next(int(x.corner)))}
		}
		x = next
		if x == start {
			return nil
		}
	}
}

// explore follows the preserve tree whose edge leaves the outline corner x.
func (v *validator) explore(pi int32, x cornerRef, ei int32) error {
	t := v.j.table
	tr := &preserveTree{id: int32(len(v.trees)), region: NoRegion}
	v.trees = append(v.trees, tr)
	v.claim(tr, ei)

	// the start point lies on the outline
	if r := v.outwardRegion(x, true); r != NoRegion {
		tr.addRegion(r)
		t.entries[ei].countReceive()
	}
	tr.endpoints = append(tr.endpoints, x)

	v.stack = append(v.stack[:0], walkFrame{
		piece:         pi,
		at:            x,
		prev:          noCorner,
		edge:          ei,
		validBranches: 1,
	})
	for len(v.stack) > 0 {
		v.stats.maxDepth = max(v.stats.maxDepth, len(v.stack))
		top := len(v.stack) - 1
		fr := v.stack[top]

		// move along the active edge to its far end q
		q := cornerRef{fr.at.frag, int32(v.j.frags[fr.at.frag].next(int(fr.at.corner)))}
		ring, closed, err := v.around(q)
		if err != nil {
			return err
		}

		var branches [4]cornerRef
		nb := 0
		var extra []cornerRef
		for _, y := range ring {
			e := t.entry(y)
			if e == nil || e.nRefs < 2 || e.has(entryRemoved) ||
				!e.has(entryPreserve) || e.valid >= 0 {
				continue
			}
			if nb < len(branches) {
				branches[nb] = y
			} else {
				extra = append(extra, y)
			}
			nb++
		}

		if !closed {
			// q lies on the outline: the tree ends here
			arrival, ok := t.neighbour(fr.at, linkAll)
			if !ok {
				return fmt.Errorf("preserve edge at fragment %d corner %d: %w",
					fr.at.frag, fr.at.corner, ErrMissingNeighbour)
			}
			if r := v.outwardRegion(fr.at, false); r != NoRegion {
				tr.addRegion(r)
				t.entries[fr.edge].countReceive()
			}
			tr.endpoints = append(tr.endpoints, arrival)
		} else if nb == 0 && v.isDeadEnd(q) {
			for _, y := range ring {
				v.j.marks[y.frag][y.corner] |= keepVertex
			}
		}

		switch {
		case nb == 0:
			if fr.quad {
				// second side of a four-way junction
				fr.quad = false
				fr.prev = noCorner
				fr.at = fr.alt
				fr.edge = t.cornerEntry[fr.alt.frag][fr.alt.corner]
				fr.validBranches = 0
				v.stack[top] = fr
				continue
			}
			v.stack = v.stack[:top]

		case closed && nb == 3 && len(ring) == 4 && v.isQuad(q):
			// ring[0..2] are the branches in rotation order, ring[3]
			// is the edge we arrived on: go straight through ring[1]
			// and explore the crossing line as one branch.
			for _, y := range ring[:3] {
				v.claim(tr, t.cornerEntry[y.frag][y.corner])
			}
			v.stack[top] = v.advance(fr, ring[1], 1)
			v.stack = append(v.stack, walkFrame{
				piece: pi,
				at:    ring[0],
				prev:  q,
				edge:  t.cornerEntry[ring[0].frag][ring[0].corner],
				quad:  true,
				alt:   ring[2],
			})

		default:
			all := append(branches[:min(nb, len(branches))], extra...)
			for _, y := range all {
				v.claim(tr, t.cornerEntry[y.frag][y.corner])
			}
			v.stack[top] = v.advance(fr, all[0], int32(nb))
			for _, y := range all[1:] {
				v.stack = append(v.stack, walkFrame{
					piece:         pi,
					at:            y,
					prev:          q,
					edge:          t.cornerEntry[y.frag][y.corner],
					validBranches: int32(nb),
				})
			}
		}
	}
	return nil
}

// advance moves a frame on to the edge leaving y.
func (v *validator) advance(fr walkFrame, y cornerRef, branches int32) walkFrame {
	fr.prev = fr.at
	fr.at = y
	fr.edge = v.j.table.cornerEntry[y.frag][y.corner]
	fr.validBranches = branches
	return fr
}

func (v *validator) claim(tr *preserveTree, ei int32) {
	v.j.table.entries[ei].valid = tr.id
	tr.edges = append(tr.edges, ei)
}

// around lists the corners located at the same point as q, in rotation
// order.  For interior points (closed == true) the list starts at q and
// ends with the corner whose outgoing edge arrives at q's fragment.
func (v *validator) around(q cornerRef) (ring []cornerRef, closed bool, err error) {
	t := v.j.table
	limit := len(t.entries) + 1
	v.ring = v.ring[:0]

	first := q
	for n := 0; ; n++ {
		if n > limit {
			return nil, false, fmt.Errorf("rotation around fragment %d corner %d does not end: %w",
				q.frag, q.corner, ErrTopology)
		}
		p, ok := t.stepBack(first, linkAll)
		if !ok {
			break
		}
		if p == q {
			closed = true
			break
		}
		first = p
	}
	if closed {
		first = q
	}

	x := first
	for n := 0; ; n++ {
		if n > limit {
			return nil, false, fmt.Errorf("rotation around fragment %d corner %d does not end: %w",
				q.frag, q.corner, ErrTopology)
		}
		v.ring = append(v.ring, x)
		nx, ok := t.step(x, linkAll)
		if !ok {
			if closed {
				return nil, false, fmt.Errorf("rotation around fragment %d corner %d: %w",
					q.frag, q.corner, ErrMissingNeighbour)
			}
			break
		}
		if nx == first {
			break
		}
		x = nx
	}
	return v.ring, closed, nil
}

// isQuad reports whether q is a base vertex where two preserve lines cross.
func (v *validator) isQuad(q cornerRef) bool {
	f := &v.j.frags[q.frag]
	if !f.Corners[q.corner].Flags.OnBaseVertex() {
		return false
	}
	return v.j.base.PreserveValence(f.baseVertex(int(q.corner))) >= 3
}

// isDeadEnd reports whether q is a base vertex touched by a single
// preserve edge.
func (v *validator) isDeadEnd(q cornerRef) bool {
	f := &v.j.frags[q.frag]
	if !f.Corners[q.corner].Flags.OnBaseVertex() {
		return false
	}
	return v.j.base.PreserveValence(f.baseVertex(int(q.corner))) == 1
}

// outwardRegion runs the receive test at one end of the preserve edge
// leaving x: at x itself if start is set, otherwise at the far end of the
// edge.  The test looks away from the edge.
func (v *validator) outwardRegion(x cornerRef, start bool) int {
	f := &v.j.frags[x.frag]
	k, _ := f.lineEdge(int(x.corner))
	pt, other := int(x.corner), f.next(int(x.corner))
	towards := f.BaseVerts[k]
	if !start {
		pt, other = other, pt
		towards = f.BaseVerts[(k+1)%len(f.BaseVerts)]
	}

	if !f.Corners[pt].Flags.OnBaseVertex() {
		return v.j.base.ReceiveRegion(f.BaseEdges[k], towards, v.j.cfg.ReceiveDistance)
	}
	dir := f.Corners[pt].UV.Sub(f.Corners[other].UV)
	return v.rayRegion(f.baseVertex(pt), dir)
}

// spoke is a base edge seen from one of its end points.
type spoke struct {
	edge  int
	far   int
	p     vec.Vec2
	angle float64
}

// rayRegion finds the base edge leaving vert in the direction dir, by
// intersecting a ray with the one-ring polygon around vert, and returns
// the receive region reached along that edge.
func (v *validator) rayRegion(vert int, dir vec.Vec2) int {
	base := v.j.base
	o := base.VertexUV(vert)
	edges := base.VertexEdges(vert)
	spokes := make([]spoke, 0, len(edges))
	for _, e := range edges {
		a, b := base.EdgeVerts(e)
		far := a
		if a == vert {
			far = b
		}
		p := base.VertexUV(far)
		d := p.Sub(o)
		spokes = append(spokes, spoke{edge: e, far: far, p: p, angle: math.Atan2(d.Y, d.X)})
	}

	var hit *spoke
	switch len(spokes) {
	case 0:
		return NoRegion
	case 1:
		if spokes[0].p.Sub(o).Dot(dir) > 0 {
			hit = &spokes[0]
		}
	default:
		slices.SortFunc(spokes, func(a, b spoke) int { return cmp.Compare(a.angle, b.angle) })
		bestT := math.Inf(1)
		for i := range spokes {
			a, b := &spokes[i], &spokes[(i+1)%len(spokes)]
			t, u, ok := raySegment(o, dir, a.p, b.p)
			if !ok || t >= bestT {
				continue
			}
			bestT = t
			if u < 0.5 {
				hit = a
			} else {
				hit = b
			}
		}
	}
	if hit == nil {
		return NoRegion
	}
	return base.ReceiveRegion(hit.edge, hit.far, v.j.cfg.ReceiveDistance)
}

// raySegment intersects the ray o+t·d, t>0, with the segment from a to b.
// It returns the ray parameter t and the segment parameter u.
func raySegment(o, d, a, b vec.Vec2) (t, u float64, ok bool) {
	s := b.Sub(a)
	den := cross(d, s)
	if math.Abs(den) < rayEpsilon {
		return 0, 0, false
	}
	w := a.Sub(o)
	t = cross(w, s) / den
	u = cross(w, d) / den
	if t <= rayEpsilon || u < 0 || u > 1 {
		return 0, 0, false
	}
	return t, u, true
}

func cross(a, b vec.Vec2) float64 {
	return a.X*b.Y - a.Y*b.X
}
