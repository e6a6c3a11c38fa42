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
	"log/slog"

	"seehuhn.de/go/geom/vec"
)

// jobState is the processing stage of a job.
type jobState uint8

const (
	stateSplitLink jobState = iota
	stateDeferredTransform
	stateBarrier
	stateMergeCorners
	stateEmit
	stateDone
)

func (s jobState) String() string {
	switch s {
	case stateSplitLink:
		return "split&link"
	case stateDeferredTransform:
		return "deferred-transform"
	case stateBarrier:
		return "barrier"
	case stateMergeCorners:
		return "merge-corners"
	case stateEmit:
		return "emit"
	case stateDone:
		return "done"
	default:
		return fmt.Sprintf("jobState(%d)", uint8(s))
	}
}

// outCorner is a retained corner after the deferred transform.
type outCorner struct {
	ref    cornerRef
	uv     vec.Vec2 // output UV
	normal Vec3
}

// outFace is one stitched piece, ready for the merge phase.
type outFace struct {
	corners []outCorner
}

// jobStats summarises one job.
type jobStats struct {
	fragments int
	links     int // pieces after the connectivity pass
	pieces    int // pieces after the seam-aware pass
	bordered  int // pieces with a seam on their boundary
	validatorStats
}

// job stitches a disjoint slice of the compiled fragment list.  Until the
// barrier, a job only touches its own data.
type job struct {
	index int
	frags []Fragment
	base  BaseMesh
	cfg   *Config
	state jobState

	table *sharedEdgeTable
	links *linkage // connectivity pass
	final *linkage // seam-aware pass

	marks [][]cornerMarks
	order [][]int32 // output order of retained corners, 0 if dropped
	seen  [][]int32 // sort walk stamps

	faces []outFace
	stats jobStats
}

func newJob(index int, frags []Fragment, base BaseMesh, cfg *Config) *job {
	j := &job{
		index: index,
		frags: frags,
		base:  base,
		cfg:   cfg,
		marks: make([][]cornerMarks, len(frags)),
		order: make([][]int32, len(frags)),
		seen:  make([][]int32, len(frags)),
	}
	for i := range frags {
		n := len(frags[i].Corners)
		j.marks[i] = make([]cornerMarks, n)
		j.order[i] = make([]int32, n)
		j.seen[i] = make([]int32, n)
	}
	j.stats.fragments = len(frags)
	return j
}

func (j *job) setState(s jobState) {
	j.state = s
	Logger().Debug("stitch job state", slog.Int("job", j.index), slog.String("state", s.String()))
}

// run performs the parallel part of the job: linking, preserve edge
// validation, corner sorting and the deferred transform.
func (j *job) run() error {
	j.setState(stateSplitLink)
	for i := range j.frags {
		if err := j.frags[i].validate(); err != nil {
			return err
		}
	}

	var err error
	j.table, err = newSharedEdgeTable(j.frags, j.base)
	if err != nil {
		return err
	}

	j.links, err = link(j.frags, j.table, linkAll)
	if err != nil {
		return err
	}
	v := newValidator(j)
	if err := v.run(j.links); err != nil {
		return err
	}
	j.stats.validatorStats = v.stats

	j.final, err = link(j.frags, j.table, linkSeamAware)
	if err != nil {
		return err
	}
	j.stats.links = len(j.links.pieces)
	j.stats.pieces = len(j.final.pieces)
	for _, p := range j.final.pieces {
		if p.hasSeam {
			j.stats.bordered++
		}
	}

	sorted := make([]sortedPiece, 0, len(j.final.pieces))
	for pi := range j.final.pieces {
		sp, err := j.sortPiece(j.final, int32(pi))
		if err != nil {
			return err
		}
		sorted = append(sorted, sp)
	}

	j.setState(stateDeferredTransform)
	j.faces = make([]outFace, 0, len(sorted))
	for _, sp := range sorted {
		j.faces = append(j.faces, j.transform(sp))
	}

	j.setState(stateBarrier)
	Logger().Debug("stitch job finished",
		slog.Int("job", j.index),
		slog.Int("fragments", j.stats.fragments),
		slog.Int("links", j.stats.links),
		slog.Int("pieces", j.stats.pieces),
		slog.Int("trees", j.stats.trees),
		slog.Int("seams", j.stats.seams),
		slog.Int("bordered", j.stats.bordered),
		slog.Int("receives", j.stats.receives),
		slog.Int("depth", j.stats.maxDepth))
	return nil
}

// transform computes the output UV and normal of every retained corner of
// a sorted piece.  The normal depends on the final corner order and so can
// only be computed here.
func (j *job) transform(sp sortedPiece) outFace {
	face := outFace{corners: make([]outCorner, len(sp.corners))}

	// Newell's method
	var n Vec3
	for i, ref := range sp.corners {
		a := j.position(ref)
		b := j.position(sp.corners[(i+1)%len(sp.corners)])
		n.X += (a.Y - b.Y) * (a.Z + b.Z)
		n.Y += (a.Z - b.Z) * (a.X + b.X)
		n.Z += (a.X - b.X) * (a.Y + b.Y)
	}
	n = n.Normalize()

	for i, ref := range sp.corners {
		f := &j.frags[ref.frag]
		uv := f.Corners[ref.corner].UV.Add(f.Tile.Offset())
		face.corners[i] = outCorner{
			ref:    ref,
			uv:     j.cfg.transformUV(uv),
			normal: n,
		}
	}
	return face
}

func (j *job) position(ref cornerRef) Vec3 {
	return j.frags[ref.frag].Corners[ref.corner].Pos
}

// vertexKey returns the merge key of a retained corner.
func (j *job) vertexKey(ref cornerRef) vertexKey {
	f := &j.frags[ref.frag]
	c := &f.Corners[ref.corner]
	k := vertexKey{
		tile: f.Tile,
		uv:   c.UV.Add(f.Tile.Offset()),
	}
	switch {
	case c.Flags.OnBaseVertex():
		k.kind = keyBaseVertex
		k.id = f.baseVertex(int(ref.corner))
	case c.Flags.IsPattern():
		k.kind = keyPatternVertex
		k.id = c.PatternVert
	default:
		k.kind = keyPatternEdge
		k.id = c.PatternEdge
	}
	return k
}
