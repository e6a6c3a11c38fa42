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

import "fmt"

// sortedPiece is a piece whose retained corners are in output order.
type sortedPiece struct {
	piece   int32
	corners []cornerRef
	flipped bool
}

// exteriorCorner returns a corner of piece pi whose outgoing edge lies on
// the piece outline.  Corners whose incoming edge is on the outline as
// well are preferred, so that the walk does not start in the middle of a
// junction.
func (j *job) exteriorCorner(l *linkage, pi int32) (cornerRef, error) {
	fallback := noCorner
	for f := l.pieces[pi].first; f >= 0; f = l.next[f] {
		for c := range j.frags[f].Corners {
			ref := cornerRef{f, int32(c)}
			if _, ok := j.table.neighbour(ref, l.mode); ok {
				continue
			}
			if _, ok := j.table.stepBack(ref, l.mode); !ok {
				return ref, nil
			}
			if fallback == noCorner {
				fallback = ref
			}
		}
	}
	if fallback == noCorner {
		return noCorner, fmt.Errorf("piece %d has no exterior corner: %w", pi, ErrTopology)
	}
	return fallback, nil
}

// sortPiece walks the outline of piece pi once, decides for each corner
// whether it is retained, and assigns the output order 1..n to the
// retained corners.
func (j *job) sortPiece(l *linkage, pi int32) (sortedPiece, error) {
	start, err := j.exteriorCorner(l, pi)
	if err != nil {
		return sortedPiece{}, err
	}

	stamp := pi + 1
	limit := 2 * int(l.pieces[pi].corners)
	var kept []cornerRef
	junctionKept := false // a corner at the current junction point was kept
	startKept := false

	x := start
	for steps := 0; ; steps++ {
		if steps > limit {
			return sortedPiece{}, fmt.Errorf("sorting piece %d: walk does not close: %w", pi, ErrTopology)
		}
		if j.seen[x.frag][x.corner] == stamp {
			return sortedPiece{}, fmt.Errorf("sorting piece %d: corner %d of fragment %d visited twice: %w",
				pi, x.corner, x.frag, ErrTopology)
		}
		j.seen[x.frag][x.corner] = stamp

		f := &j.frags[x.frag]
		flags := f.Corners[x.corner].Flags
		next, shared := j.table.step(x, l.mode)
		switch {
		case shared:
			m := j.marks[x.frag][x.corner]
			if !junctionKept && m&(keepPreserve|keepSeam|keepVertex) != 0 {
				kept = append(kept, x)
				junctionKept = true
			}
		case flags.IsPattern() && !flags.OnLine():
			kept = append(kept, x)
			junctionKept = false
			startKept = startKept || x == start
			next = cornerRef{x.frag, int32(f.next(int(x.corner)))}
		default:
			if !junctionKept {
				kept = append(kept, x)
				startKept = startKept || x == start
			}
			junctionKept = false
			next = cornerRef{x.frag, int32(f.next(int(x.corner)))}
		}

		x = next
		if x == start {
			break
		}
	}
	if junctionKept && startKept {
		// the walk closed through a junction at the start point
		kept = kept[:len(kept)-1]
	}

	sp := sortedPiece{
		piece:   pi,
		corners: make([]cornerRef, len(kept)),
		flipped: j.frags[l.pieces[pi].first].Flipped,
	}
	n := int32(len(kept))
	for i, ref := range kept {
		order := int32(i + 1)
		if sp.flipped {
			order = n + 1 - order
		}
		j.order[ref.frag][ref.corner] = order
	}
	filled := make([]bool, n)
	for _, ref := range kept {
		order := j.order[ref.frag][ref.corner]
		if order < 1 || order > n || filled[order-1] {
			return sortedPiece{}, fmt.Errorf("sorting piece %d: order %d is not a permutation: %w",
				pi, order, ErrTopology)
		}
		filled[order-1] = true
		sp.corners[order-1] = ref
	}
	return sp, nil
}
