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
	"fmt"
	"math"
	"math/bits"
)

// linkMode selects which shared edges connect fragments.
type linkMode uint8

const (
	// linkAll connects fragments across every shared edge which is not
	// removed, including preserve edges.
	linkAll linkMode = iota

	// linkSeamAware additionally treats edges marked as seam as open.
	linkSeamAware
)

// edgeKey identifies the physical edge shared by two fragments.
type edgeKey struct {
	pattern int
	edge    int // base edge id
	tile    Tile
	segment int
}

func (k edgeKey) hash() uint64 {
	return fnv1a(uint64(k.edge), uint64(k.pattern),
		uint64(uint32(k.tile.U))|uint64(uint32(k.tile.V))<<32,
		uint64(k.segment))
}

type entryFlags uint8

const (
	entrySeam entryFlags = 1 << iota
	entryPreserve
	entryRemoved // winding mismatch, never connects
)

// cornerRef names one corner of one fragment of a job.
type cornerRef struct {
	frag, corner int32
}

var noCorner = cornerRef{-1, -1}

// edgeEntry records the (at most two) fragment corners whose outgoing
// edge lies on one physical edge.
type edgeEntry struct {
	key     edgeKey
	refs    [2]cornerRef
	nRefs   uint8
	flags   entryFlags
	receive uint8 // receive regions found at the ends of this edge
	valid   int32 // preserve tree which visited the edge, -1 if unvisited
	next    int32 // hash chain, -1 terminates
}

func (e *edgeEntry) has(f entryFlags) bool { return e.flags&f != 0 }

func (e *edgeEntry) countReceive() {
	if e.receive < math.MaxUint8 {
		e.receive++
	}
}

// other returns the reference which is not r.
func (e *edgeEntry) other(r cornerRef) cornerRef {
	if e.refs[0] == r {
		return e.refs[1]
	}
	return e.refs[0]
}

// sharedEdgeTable maps physical edges to the fragment corners whose
// outgoing edge lies on them.  Entries are never removed individually;
// the whole table is dropped when the job ends.
type sharedEdgeTable struct {
	frags []Fragment

	buckets []int32
	mask    uint64
	entries []edgeEntry

	// cornerEntry[f][c] is the entry of the edge leaving corner c of
	// fragment f, or -1.
	cornerEntry [][]int32
}

// newSharedEdgeTable builds the table for the fragments of one job.
func newSharedEdgeTable(frags []Fragment, base BaseMesh) (*sharedEdgeTable, error) {
	nCorners := 0
	for i := range frags {
		nCorners += len(frags[i].Corners)
	}
	nBuckets := 1
	if len(frags) > 1 {
		nBuckets = 1 << bits.Len(uint(len(frags)-1))
	}

	t := &sharedEdgeTable{
		frags:       frags,
		buckets:     make([]int32, nBuckets),
		mask:        uint64(nBuckets - 1),
		entries:     make([]edgeEntry, 0, nCorners/2+1),
		cornerEntry: make([][]int32, len(frags)),
	}
	for i := range t.buckets {
		t.buckets[i] = -1
	}

	for fi := range frags {
		f := &frags[fi]
		ce := make([]int32, len(f.Corners))
		t.cornerEntry[fi] = ce
		for c := range f.Corners {
			ce[c] = -1
			k, ok := f.lineEdge(c)
			if !ok {
				continue
			}
			key := edgeKey{
				pattern: f.Pattern,
				edge:    f.BaseEdges[k],
				tile:    f.Tile,
				segment: f.Corners[c].Segment,
			}
			idx, err := t.insert(key, cornerRef{int32(fi), int32(c)}, base)
			if err != nil {
				return nil, err
			}
			ce[c] = idx
		}
	}
	return t, nil
}

// insert records that the edge leaving ref lies on the physical edge key.
func (t *sharedEdgeTable) insert(key edgeKey, ref cornerRef, base BaseMesh) (int32, error) {
	b := key.hash() & t.mask
	for i := t.buckets[b]; i >= 0; i = t.entries[i].next {
		e := &t.entries[i]
		if e.key != key {
			continue
		}
		if e.nRefs >= 2 {
			return -1, fmt.Errorf("base edge %d of pattern %d has a third fragment: %w",
				key.edge, key.pattern, ErrTopology)
		}
		e.refs[1] = ref
		e.nRefs = 2
		if t.frags[e.refs[0].frag].Flipped != t.frags[ref.frag].Flipped {
			e.flags |= entryRemoved
		}
		return i, nil
	}

	e := edgeEntry{
		key:   key,
		refs:  [2]cornerRef{ref, noCorner},
		nRefs: 1,
		valid: -1,
		next:  t.buckets[b],
	}
	if base != nil && base.IsPreserve(key.edge) {
		e.flags |= entryPreserve
	}
	idx := int32(len(t.entries))
	t.entries = append(t.entries, e)
	t.buckets[b] = idx
	return idx, nil
}

// find returns the entry for key, or nil.
func (t *sharedEdgeTable) find(key edgeKey) *edgeEntry {
	for i := t.buckets[key.hash()&t.mask]; i >= 0; i = t.entries[i].next {
		if t.entries[i].key == key {
			return &t.entries[i]
		}
	}
	return nil
}

// entry returns the entry of the edge leaving ref, or nil if that edge
// is not on the base boundary.
func (t *sharedEdgeTable) entry(ref cornerRef) *edgeEntry {
	i := t.cornerEntry[ref.frag][ref.corner]
	if i < 0 {
		return nil
	}
	return &t.entries[i]
}

// neighbour returns the corner of the neighbouring fragment at which the
// edge leaving ref starts in that fragment.  The second return value is
// false if the edge does not connect to another fragment under mode.
func (t *sharedEdgeTable) neighbour(ref cornerRef, mode linkMode) (cornerRef, bool) {
	e := t.entry(ref)
	if e == nil || e.nRefs < 2 || e.has(entryRemoved) {
		return noCorner, false
	}
	if mode == linkSeamAware && e.has(entrySeam) {
		return noCorner, false
	}
	return e.other(ref), true
}

// step returns the corner reached by crossing the shared edge leaving
// ref: the corner of the neighbouring fragment located at the same point
// as ref.
func (t *sharedEdgeTable) step(ref cornerRef, mode linkMode) (cornerRef, bool) {
	n, ok := t.neighbour(ref, mode)
	if !ok {
		return noCorner, false
	}
	n.corner = int32(t.frags[n.frag].next(int(n.corner)))
	return n, true
}

// stepBack is the inverse of step: it crosses the shared edge arriving
// at ref.
func (t *sharedEdgeTable) stepBack(ref cornerRef, mode linkMode) (cornerRef, bool) {
	p := cornerRef{ref.frag, int32(t.frags[ref.frag].prev(int(ref.corner)))}
	return t.neighbour(p, mode)
}
