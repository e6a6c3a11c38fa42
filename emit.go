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

import "log/slog"

// emitStats summarises the merge phase.
type emitStats struct {
	vertices int
	edges    int
	faces    int
	snapped  int
	dropped  int // faces with fewer than three distinct vertices
}

// mergeAndEmit coalesces the corners of all jobs and writes vertices,
// edges and faces to out.  It must only be called after all jobs have
// passed the barrier.
func mergeAndEmit(jobs []*job, out OutputMesh, attrs AttributeBlender, cfg *Config) emitStats {
	total := 0
	for _, j := range jobs {
		for _, f := range j.faces {
			total += len(f.corners)
		}
	}
	m := newMergeTables(total, attrs, cfg.MergeEpsilon)

	// entries[j][f][c] is the merge vertex entry of corner c of face f
	entries := make([][][]int32, len(jobs))
	for ji, j := range jobs {
		j.setState(stateMergeCorners)
		entries[ji] = make([][]int32, len(j.faces))
		for fi, face := range j.faces {
			idx := make([]int32, len(face.corners))
			for ci, oc := range face.corners {
				c := &j.frags[oc.ref.frag].Corners[oc.ref.corner]
				idx[ci] = m.findOrCreateVertex(j.vertexKey(oc.ref), contribution{
					job:  int32(j.index),
					ref:  oc.ref,
					pos:  c.Pos,
					uv:   oc.uv,
					attr: c.Attr,
				})
			}
			entries[ji][fi] = idx
		}
	}

	var stats emitStats
	stats.snapped = m.snap(cfg.SnapEpsilon)
	stats.vertices = m.emitVertices(out)

	var corners []FaceCorner
	var roots []int32
	for ji, j := range jobs {
		j.setState(stateEmit)
		for fi, face := range j.faces {
			corners = corners[:0]
			roots = roots[:0]
			for ci, oc := range face.corners {
				r := m.root(entries[ji][fi][ci])
				if len(roots) > 0 && roots[len(roots)-1] == r {
					continue
				}
				roots = append(roots, r)
				corners = append(corners, FaceCorner{
					Vertex: m.verts[r].out,
					Normal: oc.normal,
					UV:     oc.uv,
					Attr:   j.frags[oc.ref.frag].Corners[oc.ref.corner].Attr,
				})
			}
			for len(roots) > 1 && roots[0] == roots[len(roots)-1] {
				roots = roots[:len(roots)-1]
				corners = corners[:len(corners)-1]
			}
			if len(roots) < 3 {
				stats.dropped++
				Logger().Debug("stitch face dropped",
					slog.Int("job", j.index),
					slog.Int("corners", len(face.corners)),
					slog.Int("distinct", len(roots)))
				continue
			}

			for k := range roots {
				corners[k].Edge = m.findOrCreateEdge(roots[k], roots[(k+1)%len(roots)], out)
			}
			out.AddFace(corners)
			stats.faces++
		}
		j.setState(stateDone)
	}
	stats.edges = len(m.edges)
	return stats
}
