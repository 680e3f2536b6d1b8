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

// ThomasDiffusionSolver is the diffusion-form variant of ThomasSolver.
// It solves implicit vertical-diffusion systems given as coupling fluxes
// g and diagonal base h, never materializing the explicit bands: the
// elimination instead accumulates the effective resistance alpha of the
// already-eliminated levels above each row.
type ThomasDiffusionSolver[T hwy.Floats] struct {
	pool    *workerpool.Pool
	scratch scratchPool[T]
}

// NewThomasDiffusion constructs a Thomas-family diffusion solver.
func NewThomasDiffusion[T hwy.Floats](opts ...Option) *ThomasDiffusionSolver[T] {
	cfg := newConfig(opts)
	return &ThomasDiffusionSolver[T]{pool: cfg.pool}
}

// MakePlan partitions the batch into ceil(numBatch/LaneWidth) groups.
func (s *ThomasDiffusionSolver[T]) MakePlan(numBatch, numRow int) (Plan, error) {
	return makePlan[T](AlgorithmThomas, numBatch, numRow)
}

// Solve overwrites x with the solution of every system in the batch.
func (s *ThomasDiffusionSolver[T]) Solve(plan Plan, g, h, x *Array2D[T]) error {
	if err := plan.check(AlgorithmThomas, laneWidth[T]()); err != nil {
		return err
	}
	if err := checkShapes(plan, x, g, h); err != nil {
		return err
	}

	parallelFor(s.pool, plan.NumGroups, func(start, end int) {
		slab := s.scratch.get(plan.scratchLen())
		defer s.scratch.put(slab)
		sc := splitDiffBands(slab, plan.NumRow*plan.LaneWidth)

		for grp := start; grp < end; grp++ {
			s.solveGroup(plan, grp, sc, g, h, x)
		}
	})
	return nil
}

func (s *ThomasDiffusionSolver[T]) solveGroup(plan Plan, group int, sc diffScratch[T], g, h, x *Array2D[T]) {
	nr, lanes := plan.NumRow, plan.LaneWidth
	first := group * lanes

	// Identity padding for the diffusion form is G=0, H=1, X=0: zero flux
	// leaves alpha at zero and the diagonal stays 1.
	for k := 0; k < nr; k++ {
		base := k * lanes
		for v := 0; v < lanes; v++ {
			if i := first + v; i < plan.NumBatch {
				sc.g[base+v] = g.At(i, k)
				sc.h[base+v] = h.At(i, k)
				sc.x[base+v] = x.At(i, k)
			} else {
				sc.g[base+v] = 0
				sc.h[base+v] = 1
				sc.x[base+v] = 0
			}
		}
	}

	thomasDiffusionKernel(sc, nr, lanes)

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

// thomasDiffusionKernel eliminates [NumRow x lanes] diffusion bands in
// place. alpha[k] is the effective resistance accumulated from rows above
// k; the diagonal is augmented in place and the RHS forward-corrected
// before the mirrored back substitution.
func thomasDiffusionKernel[T hwy.Floats](sc diffScratch[T], nr, lanes int) {
	hwy.Store(hwy.Zero[T](), sc.alpha[:lanes])
	for k := 1; k < nr; k++ {
		cur, prev := k*lanes, (k-1)*lanes
		gp := hwy.Load(sc.g[prev:])
		hp := hwy.Add(hwy.Load(sc.h[prev:]), hwy.Load(sc.alpha[prev:]))
		hwy.Store(hwy.Div(hwy.Mul(gp, hp), hwy.Add(hp, gp)), sc.alpha[cur:])
	}

	hwy.Store(hwy.Add(hwy.Load(sc.h[:lanes]), hwy.Load(sc.g[:lanes])), sc.h[:lanes])
	for k := 1; k < nr; k++ {
		cur, prev := k*lanes, (k-1)*lanes
		addH := hwy.Add(hwy.Load(sc.alpha[cur:]), hwy.Load(sc.g[cur:]))
		hwy.Store(hwy.Add(hwy.Load(sc.h[cur:]), addH), sc.h[cur:])
		// h[prev] is already augmented: k ascends and row 0 was folded in
		// above, which is what the recurrence requires.
		w := hwy.Div(hwy.Load(sc.g[prev:]), hwy.Load(sc.h[prev:]))
		hwy.Store(hwy.MulAdd(w, hwy.Load(sc.x[prev:]), hwy.Load(sc.x[cur:])), sc.x[cur:])
	}

	last := (nr - 1) * lanes
	hwy.Store(hwy.Div(hwy.Load(sc.x[last:]), hwy.Load(sc.h[last:])), sc.x[last:])

	for k := nr - 2; k >= 0; k-- {
		cur, next := k*lanes, (k+1)*lanes
		num := hwy.MulAdd(hwy.Load(sc.g[cur:]), hwy.Load(sc.x[next:]), hwy.Load(sc.x[cur:]))
		hwy.Store(hwy.Div(num, hwy.Load(sc.h[cur:])), sc.x[cur:])
	}
}
