// Package stitch reassembles border pieces of a projected pattern mesh.
//
// A pattern mesh which is projected onto a base mesh is clipped against the
// base polygons.  The clipper produces one [Fragment] per (pattern polygon,
// base polygon, tile) triple.  Stitch joins fragments of the same pattern
// polygon across shared base edges, decides which preserve edges of the
// base mesh must survive as seams, and emits one output polygon per
// resulting piece.  Coincident corners of different pieces are merged into
// a single output vertex.
package stitch

//go:generate go run ./testcases/export

import (
	"cmp"
	"errors"
	"log/slog"
	"slices"
)

// Input collects the data and collaborators of a stitching run.
type Input struct {
	// Fragments are the clipped pieces.  Stitch reorders a copy of the
	// slice and does not modify the fragments themselves.
	Fragments []Fragment

	// Base answers questions about the base mesh.
	Base BaseMesh

	// Attributes is used to average the attributes of merged corners.
	// If this is nil, Vertex.Attr of the output is always NoAttr.
	Attributes AttributeBlender

	// Scheduler runs the jobs.  If this is nil, an errgroup based
	// scheduler limited to Config.Workers tasks is used.
	Scheduler Scheduler
}

// Report summarises a successful stitching run.
type Report struct {
	Jobs      int // number of parallel jobs
	Fragments int // number of input fragments
	Pieces    int // pieces before merging
	Trees     int // preserve trees explored
	Seams     int // preserve trees which became seams
	Bordered  int // pieces with a seam on their boundary
	Receives  int // preserve tree end points which reached a receive region
	Vertices  int // output vertices
	Edges     int // output edges
	Faces     int // output faces
	Snapped   int // vertices snapped onto a neighbour
	Dropped   int // degenerate pieces which were not emitted
}

// Stitch joins the fragments of in and writes the result to out.
//
// If cfg is nil, [DefaultConfig] is used.  On error nothing is written to
// out.  Errors from jobs are wrapped in a [*JobError]; consistency
// violations in the input match [ErrTopology].
func Stitch(in *Input, out OutputMesh, cfg *Config) (*Report, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	switch {
	case in == nil:
		return nil, errors.New("stitch: missing input")
	case out == nil:
		return nil, errors.New("stitch: missing output mesh")
	case in.Base == nil:
		return nil, errors.New("stitch: missing base mesh")
	}

	jobs := compile(in, cfg)

	sched := in.Scheduler
	if sched == nil {
		sched = NewScheduler(cfg.workers())
	}
	for _, j := range jobs {
		sched.Go(func() error {
			if err := j.run(); err != nil {
				return &JobError{Job: j.index, Err: err}
			}
			return nil
		})
	}
	if err := sched.Wait(); err != nil {
		return nil, err
	}

	es := mergeAndEmit(jobs, out, in.Attributes, cfg)

	r := &Report{
		Jobs:      len(jobs),
		Fragments: len(in.Fragments),
		Vertices:  es.vertices,
		Edges:     es.edges,
		Faces:     es.faces,
		Snapped:   es.snapped,
		Dropped:   es.dropped,
	}
	for _, j := range jobs {
		r.Pieces += j.stats.pieces
		r.Trees += j.stats.trees
		r.Seams += j.stats.seams
		r.Bordered += j.stats.bordered
		r.Receives += j.stats.receives
	}
	Logger().Info("stitch finished",
		slog.Int("jobs", r.Jobs),
		slog.Int("fragments", r.Fragments),
		slog.Int("pieces", r.Pieces),
		slog.Int("seams", r.Seams),
		slog.Int("faces", r.Faces),
		slog.Int("vertices", r.Vertices))
	return r, nil
}

// compile sorts the fragments by pattern polygon and partitions them into
// at most cfg.workers() jobs.  The fragments of one pattern polygon always
// end up in the same job.
func compile(in *Input, cfg *Config) []*job {
	frags := slices.Clone(in.Fragments)
	slices.SortStableFunc(frags, func(a, b Fragment) int {
		return cmp.Compare(a.Pattern, b.Pattern)
	})

	bounds := partition(frags, cfg.workers())
	jobs := make([]*job, 0, len(bounds))
	start := 0
	for i, end := range bounds {
		jobs = append(jobs, newJob(i, frags[start:end:end], in.Base, cfg))
		start = end
	}
	return jobs
}

// partition returns the end indices of at most n consecutive runs of frags
// with roughly equal length, never splitting a pattern polygon.  The
// fragments must be sorted by pattern.
func partition(frags []Fragment, n int) []int {
	if len(frags) == 0 {
		return nil
	}
	n = max(n, 1)
	target := (len(frags) + n - 1) / n

	var bounds []int
	start := 0
	for i := 1; i <= len(frags); i++ {
		if i < len(frags) && frags[i].Pattern == frags[i-1].Pattern {
			continue
		}
		// i is the end of a pattern group
		if i-start >= target || i == len(frags) {
			bounds = append(bounds, i)
			start = i
		}
	}
	return bounds
}
