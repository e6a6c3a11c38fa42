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

// piece is a maximal set of fragments connected through shared edges.
// The fragments form a chain through linkage.next.
type piece struct {
	first   int32 // first fragment of the chain
	count   int32 // number of fragments
	corners int32 // total number of fragment corners
	hasSeam bool  // a seam edge runs along the boundary
	visited bool  // preserve edges have been validated
}

// linkage is the result of one linking pass.
type linkage struct {
	mode    linkMode
	pieces  []piece
	next    []int32 // next fragment in the same piece, -1 terminates
	pieceOf []int32
}

// link partitions the fragments into pieces.  Two fragments end up in
// the same piece if and only if they are connected by a chain of shared
// edges which connect under mode.
func link(frags []Fragment, t *sharedEdgeTable, mode linkMode) (*linkage, error) {
	l := &linkage{
		mode:    mode,
		next:    make([]int32, len(frags)),
		pieceOf: make([]int32, len(frags)),
	}
	for i := range frags {
		l.next[i] = -1
		l.pieceOf[i] = -1
	}

	absorbed := 0
	for start := range frags {
		if l.pieceOf[start] >= 0 {
			continue
		}
		pi := int32(len(l.pieces))
		p := piece{first: int32(start), count: 1}
		l.pieceOf[start] = pi
		absorbed++
		tail := int32(start)

		for cur := int32(start); cur >= 0; cur = l.next[cur] {
			f := &frags[cur]
			p.corners += int32(len(f.Corners))
			for c := range f.Corners {
				ref := cornerRef{cur, int32(c)}
				if mode == linkSeamAware {
					if e := t.entry(ref); e != nil && e.nRefs == 2 && e.has(entrySeam) {
						p.hasSeam = true
					}
				}
				n, ok := t.neighbour(ref, mode)
				if !ok {
					continue
				}
				switch owner := l.pieceOf[n.frag]; {
				case owner == pi:
					continue
				case owner >= 0:
					return nil, fmt.Errorf("fragment %d linked to pieces %d and %d: %w",
						n.frag, owner, pi, ErrTopology)
				}
				absorbed++
				if absorbed > len(frags) {
					return nil, fmt.Errorf("piece linking exceeded %d fragments: %w",
						len(frags), ErrTopology)
				}
				l.pieceOf[n.frag] = pi
				l.next[tail] = n.frag
				tail = n.frag
				p.count++
			}
		}
		l.pieces = append(l.pieces, p)
	}
	return l, nil
}

// members returns the fragments of piece pi in chain order.
func (l *linkage) members(pi int) []int32 {
	p := &l.pieces[pi]
	res := make([]int32, 0, p.count)
	for f := p.first; f >= 0; f = l.next[f] {
		res = append(res, f)
	}
	return res
}
