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
	"github.com/ajroetker/go-highway/hwy"
	"github.com/ajroetker/go-highway/hwy/contrib/workerpool"
)

// ThomasSolver solves batched tridiagonal systems by forward elimination
// and back substitution. Batch elements are grouped into SIMD lanes: one
// group stages LaneWidth systems into lane-major scratch bands, runs the
// elimination with hwy vector ops across the lanes while iterating rows
// sequentially, and writes the in-range lanes back. Groups execute in
// parallel; no synchronization is needed inside a group.
type ThomasSolver[T hwy.Floats] struct {
	pool    *workerpool.Pool
	scratch scratchPool[T]
}

// NewThomas constructs a Thomas-family band solver.
func NewThomas[T hwy.Floats](opts ...Option) *ThomasSolver[T] {
	cfg := newConfig(opts)
	return &ThomasSolver[T]{pool: cfg.pool}
}

// MakePlan partitions the batch into ceil(numBatch/LaneWidth) groups.
func (s *ThomasSolver[T]) MakePlan(numBatch, numRow int) (Plan, error) {
	return makePlan[T](AlgorithmThomas, numBatch, numRow)
}

// Solve overwrites x with the solution of every system in the batch.
// Singular systems are not detected; their lanes come back as IEEE
// infinities or NaNs.
func (s *ThomasSolver[T]) Solve(plan Plan, dl, d, du, x *Array2D[T]) error {
	if err := plan.check(AlgorithmThomas, laneWidth[T]()); err != nil {
		return err
	}
	if err := checkShapes(plan, x, dl, d, du); err != nil {
		return err
	}

	parallelFor(s.pool, plan.NumGroups, func(start, end int) {
		slab := s.scratch.get(plan.scratchLen())
		defer s.scratch.put(slab)
		sc := splitBands(slab, plan.NumRow*plan.LaneWidth)

		for g := start; g < end; g++ {
			s.solveGroup(plan, g, sc, dl, d, du, x)
		}
	})
	return nil
}

func (s *ThomasSolver[T]) solveGroup(plan Plan, group int, sc bandScratch[T], dl, d, du, x *Array2D[T]) {
	nr, lanes := plan.NumRow, plan.LaneWidth
	first := group * lanes

	// Stage the group's systems lane-major, padding lanes past the batch
	// with the identity system (DL=0, D=1, DU=0, X=0) so uniform-width
	// elimination never divides by zero or reads stale scratch.
	for k := 0; k < nr; k++ {
		base := k * lanes
		for v := 0; v < lanes; v++ {
			if i := first + v; i < plan.NumBatch {
				sc.dl[base+v] = dl.At(i, k)
				sc.d[base+v] = d.At(i, k)
				sc.du[base+v] = du.At(i, k)
				sc.x[base+v] = x.At(i, k)
			} else {
				sc.dl[base+v] = 0
				sc.d[base+v] = 1
				sc.du[base+v] = 0
				sc.x[base+v] = 0
			}
		}
	}

	thomasKernel(sc, nr, lanes)

	// Padded lanes solved the identity system to zero; drop them.
	for v := 0; v < lanes; v++ {
		i := first + v
		if i >= plan.NumBatch {
			break
		}
		row := x.Row(i)
		for k := 0; k < nr; k++ {
			row[k] = sc.x[k*lanes+v]
		}
	}
}

// thomasKernel eliminates [NumRow x lanes] scratch bands in place. Rows
// iterate sequentially; each step operates on all lanes as one vector.
func thomasKernel[T hwy.Floats](sc bandScratch[T], nr, lanes int) {
	for k := 1; k < nr; k++ {
		cur, prev := k*lanes, (k-1)*lanes
		w := hwy.Div(hwy.Load(sc.dl[cur:]), hwy.Load(sc.d[prev:]))
		hwy.Store(hwy.Sub(hwy.Load(sc.d[cur:]), hwy.Mul(w, hwy.Load(sc.du[prev:]))), sc.d[cur:])
		hwy.Store(hwy.Sub(hwy.Load(sc.x[cur:]), hwy.Mul(w, hwy.Load(sc.x[prev:]))), sc.x[cur:])
	}

	last := (nr - 1) * lanes
	hwy.Store(hwy.Div(hwy.Load(sc.x[last:]), hwy.Load(sc.d[last:])), sc.x[last:])

	for k := nr - 2; k >= 0; k-- {
		cur, next := k*lanes, (k+1)*lanes
		num := hwy.Sub(hwy.Load(sc.x[cur:]), hwy.Mul(hwy.Load(sc.du[cur:]), hwy.Load(sc.x[next:])))
		hwy.Store(hwy.Div(num, hwy.Load(sc.d[cur:])), sc.x[cur:])
	}
}
