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
	"errors"
	"fmt"
)

var (
	// ErrTopology is returned when the fragment data violates a
	// consistency invariant of the stitcher.  This indicates a bug in the
	// upstream clipper and the output would be corrupt if stitching went on.
	ErrTopology = errors.New("stitch: inconsistent topology")

	// ErrMissingNeighbour is returned when a neighbouring fragment or table
	// entry that must exist could not be found.
	ErrMissingNeighbour = errors.New("stitch: missing neighbour")
)

// JobError reports the failure of one stitching job.
type JobError struct {
	Job int
	Err error
}

func (e *JobError) Error() string {
	return fmt.Sprintf("stitch job %d: %v", e.Job, e.Err)
}

func (e *JobError) Unwrap() error {
	return e.Err
}
