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
	"runtime"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"
)

const (
	maxDefaultWorkers = 8

	defaultReceiveDistance = 1.0
	defaultMergeEpsilon    = 1e-6
	defaultSnapEpsilon     = 1e-7
)

// Config holds the parameters of a stitching run.
type Config struct {
	// Workers is the maximal number of jobs run in parallel.
	// Zero selects min(GOMAXPROCS, 8).
	Workers int `yaml:"workers"`

	// ReceiveDistance is passed to [BaseMesh.ReceiveRegion]: receive
	// edges further away than this from a preserve edge endpoint are
	// ignored.
	ReceiveDistance float64 `yaml:"receive_distance"`

	// MergeEpsilon is the UV distance below which two interpolated
	// corners on the same pattern edge are the same output vertex.
	MergeEpsilon float64 `yaml:"merge_epsilon"`

	// SnapEpsilon is the UV distance below which vertices with different
	// keys are snapped together.  Zero disables snapping.
	SnapEpsilon float64 `yaml:"snap_epsilon"`

	// UVTransform maps tile-adjusted UV coordinates to output UV
	// coordinates.  The zero matrix means identity.
	UVTransform matrix.Matrix `yaml:"uv_transform"`
}

// DefaultConfig returns the configuration used when [Stitch] is called
// with a nil config.
func DefaultConfig() *Config {
	return &Config{
		ReceiveDistance: defaultReceiveDistance,
		MergeEpsilon:    defaultMergeEpsilon,
		SnapEpsilon:     defaultSnapEpsilon,
		UVTransform:     matrix.Identity,
	}
}

// workers returns the effective worker count.
func (c *Config) workers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return min(runtime.GOMAXPROCS(0), maxDefaultWorkers)
}

// transformUV applies UVTransform to uv.
func (c *Config) transformUV(uv vec.Vec2) vec.Vec2 {
	m := c.UVTransform
	if m == (matrix.Matrix{}) {
		return uv
	}
	return vec.Vec2{
		X: m[0]*uv.X + m[2]*uv.Y + m[4],
		Y: m[1]*uv.X + m[3]*uv.Y + m[5],
	}
}
