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
	"math/bits"

	"github.com/ajroetker/go-highway/hwy"
	"github.com/ajroetker/go-highway/hwy/contrib/workerpool"
)

// PCRSolver solves batched tridiagonal systems by parallel cyclic
// reduction: ceil(log2(NumRow)) levels, each halving the coupling
// distance of every row at once, followed by a direct solve of the
// remaining coupled pairs. One group handles one batch element; inside a
// group the per-level work is either iterated inline or spread across
// the pool's workers when the batch alone cannot occupy them.
//
// NumRow does not have to be a power of two: neighbor indices clamp to
// the system boundary and the final pass finishes partnerless rows by
// plain division.
type PCRSolver[T hwy.Floats] struct {
	pool               *workerpool.Pool
	scratch            scratchPool[T]
	rowParallelMinRows int
}

// NewPCR constructs a PCR-family band solver.
func NewPCR[T hwy.Floats](opts ...Option) *PCRSolver[T] {
	cfg := newConfig(opts)
	return &PCRSolver[T]{pool: cfg.pool, rowParallelMinRows: cfg.rowParallelMinRows}
}

// MakePlan assigns one parallel group per batch element.
func (s *PCRSolver[T]) MakePlan(numBatch, numRow int) (Plan, error) {
	return makePlan[T](AlgorithmPCR, numBatch, numRow)
}

// Solve overwrites x with the solution of every system in the batch.
func (s *PCRSolver[T]) Solve(plan Plan, dl, d, du, x *Array2D[T]) error {
	if err := plan.check(AlgorithmPCR, 1); err != nil {
		return err
	}
	if err := checkShapes(plan, x, dl, d, du); err != nil {
		return err
	}

	nr := plan.NumRow
	if rowParallel(plan, poolWorkers(s.pool), s.rowParallelMinRows) {
		// Too few batch elements to occupy the workers: run groups one at
		// a time and spread each reduction phase across the rows instead.
		slab := s.scratch.get(plan.scratchLen())
		defer s.scratch.put(slab)
		sc := splitPCRBands(slab, nr)

		run := func(phase func(k int)) {
			parallelFor(s.pool, nr, func(lo, hi int) {
				for k := lo; k < hi; k++ {
					phase(k)
				}
			})
		}
		for i := 0; i < plan.NumBatch; i++ {
			copy(sc.dl, dl.Row(i))
			copy(sc.d, d.Row(i))
			copy(sc.du, du.Row(i))
			copy(sc.x, x.Row(i))
			pcrKernel(sc, nr, run)
			copy(x.Row(i), sc.x)
		}
		return nil
	}

	parallelFor(s.pool, plan.NumBatch, func(start, end int) {
		slab := s.scratch.get(plan.scratchLen())
		defer s.scratch.put(slab)
		sc := splitPCRBands(slab, nr)

		run := func(phase func(k int)) {
			for k := 0; k < nr; k++ {
				phase(k)
			}
		}
		for i := start; i < end; i++ {
			copy(sc.dl, dl.Row(i))
			copy(sc.d, d.Row(i))
			copy(sc.du, du.Row(i))
			copy(sc.x, x.Row(i))
			pcrKernel(sc, nr, run)
			copy(x.Row(i), sc.x)
		}
	})
	return nil
}

// rowParallel decides between the two parallel axes. Never both at once:
// nesting pool dispatch inside pool workers would have the outer tasks
// blocking the workers the inner phases wait for.
func rowParallel(plan Plan, workers, minRows int) bool {
	return minRows > 0 && plan.NumRow >= minRows && plan.NumBatch < workers
}

// ceilLog2 returns ceil(log2(n)) for n >= 1.
func ceilLog2(n int) int {
	return bits.Len(uint(n - 1))
}

// pcrKernel reduces one system in place. Every level computes each row's
// new band values from its stride-neighbors into the staging bands, then
// commits them back; run must execute a phase over all rows and return
// only when every row is done, which is the barrier that keeps level
// L+1's reads from racing level L's writes.
func pcrKernel[T hwy.Floats](sc pcrScratch[T], nr int, run func(phase func(k int))) {
	if nr == 1 {
		sc.x[0] /= sc.d[0]
		return
	}

	levels := ceilLog2(nr)
	for lev := 1; lev < levels; lev++ {
		half := 1 << (lev - 1)

		run(func(k int) {
			kmh := k - half
			if kmh < 0 {
				kmh = 0
			}
			kph := k + half
			if kph > nr-1 {
				kph = nr - 1
			}

			alpha := -sc.dl[k] / sc.d[kmh]
			gamma := -sc.du[k] / sc.d[kph]

			sc.sd[k] = sc.d[k] + alpha*sc.du[kmh] + gamma*sc.dl[kph]
			sc.sx[k] = sc.x[k] + alpha*sc.x[kmh] + gamma*sc.x[kph]
			sc.sdl[k] = alpha * sc.dl[kmh]
			sc.sdu[k] = gamma * sc.du[kph]
		})
		run(func(k int) {
			sc.d[k] = sc.sd[k]
			sc.x[k] = sc.sx[k]
			sc.dl[k] = sc.sdl[k]
			sc.du[k] = sc.sdu[k]
		})
	}

	// After levels-1 halvings the rows couple only at +-stride. Rows in
	// the lower half solve their 2x2 pair directly (each pair is owned by
	// exactly one row, so the in-place writes don't race); rows with no
	// in-range partner are already decoupled and finish by division.
	stride := 1 << (levels - 1)
	run(func(k int) {
		if k+stride < nr || k-stride >= 0 {
			if k < nr/2 {
				kps := k + stride
				det := sc.d[k]*sc.d[kps] - sc.dl[kps]*sc.du[k]
				xk, xkps := sc.x[k], sc.x[kps]
				sc.x[k] = (sc.d[kps]*xk - sc.du[k]*xkps) / det
				sc.x[kps] = (-sc.dl[kps]*xk + sc.d[k]*xkps) / det
			}
		} else {
			sc.x[k] /= sc.d[k]
		}
	})
}
