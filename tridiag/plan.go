// Copyright 2025 go-tridiag Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package tridiag

import (
	"fmt"
	"unsafe"

	"github.com/ajroetker/go-highway/hwy"
)

// Plan describes how one batched solve is partitioned into parallel
// groups and how much scratch each group needs. A plan is produced by a
// solver's MakePlan and is only valid for solvers of the same algorithm
// family and element type.
type Plan struct {
	// NumBatch is the number of independent systems in the batch.
	NumBatch int

	// NumRow is the number of unknowns per system.
	NumRow int

	// LaneWidth is the number of batch elements one group processes
	// concurrently: the SIMD lane count for the Thomas family, 1 for PCR
	// (whose group-internal parallelism runs across rows instead).
	LaneWidth int

	// NumGroups is the number of parallel groups the batch splits into.
	NumGroups int

	// ScratchBytes is the transient workspace each group allocates for
	// the lifetime of one solve call.
	ScratchBytes int

	family Algorithm
}

// laneWidth returns the vector lane count for T under the current SIMD
// dispatch level.
func laneWidth[T hwy.Floats]() int {
	if l := hwy.MaxLanes[T](); l > 1 {
		return l
	}
	return 1
}

func elemSize[T hwy.Floats]() int {
	var v T
	return int(unsafe.Sizeof(v))
}

func makePlan[T hwy.Floats](family Algorithm, numBatch, numRow int) (Plan, error) {
	if numBatch < 1 || numRow < 1 {
		return Plan{}, fmt.Errorf("%w: NumBatch=%d, NumRow=%d", ErrBadShape, numBatch, numRow)
	}
	p := Plan{NumBatch: numBatch, NumRow: numRow, family: family}
	switch family {
	case AlgorithmThomas:
		p.LaneWidth = laneWidth[T]()
		p.NumGroups = (numBatch + p.LaneWidth - 1) / p.LaneWidth
		p.ScratchBytes = 4 * numRow * p.LaneWidth * elemSize[T]()
	case AlgorithmPCR:
		p.LaneWidth = 1
		p.NumGroups = numBatch
		// Four live bands plus a same-size staging half that carries each
		// reduction level's values across the commit barrier.
		p.ScratchBytes = 8 * numRow * elemSize[T]()
	default:
		return Plan{}, ErrBadPlan
	}
	return p, nil
}

// check validates that the plan was built by MakePlan for the given
// family and lane width. The zero Plan always fails here.
func (p Plan) check(family Algorithm, lanes int) error {
	if p.family != family || p.NumBatch < 1 || p.NumRow < 1 || p.LaneWidth != lanes {
		return ErrBadPlan
	}
	return nil
}

// scratchLen is the per-group scratch length in elements of T.
func (p Plan) scratchLen() int {
	if p.family == AlgorithmPCR {
		return 8 * p.NumRow
	}
	return 4 * p.NumRow * p.LaneWidth
}
