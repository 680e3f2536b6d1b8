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

// PCRDiffusionSolver is the diffusion-form variant of PCRSolver. The
// reduction has the same shape, but the elimination factors derive from
// the flux band g instead of explicit off-diagonals, which requires each
// row to also fetch the coupling one full stride back (its effective
// sub-diagonal after the previous levels).
type PCRDiffusionSolver[T hwy.Floats] struct {
	pool               *workerpool.Pool
	scratch            scratchPool[T]
	rowParallelMinRows int
}

// NewPCRDiffusion constructs a PCR-family diffusion solver.
func NewPCRDiffusion[T hwy.Floats](opts ...Option) *PCRDiffusionSolver[T] {
	cfg := newConfig(opts)
	return &PCRDiffusionSolver[T]{pool: cfg.pool, rowParallelMinRows: cfg.rowParallelMinRows}
}

// MakePlan assigns one parallel group per batch element.
func (s *PCRDiffusionSolver[T]) MakePlan(numBatch, numRow int) (Plan, error) {
	return makePlan[T](AlgorithmPCR, numBatch, numRow)
}

// Solve overwrites x with the solution of every system in the batch.
func (s *PCRDiffusionSolver[T]) Solve(plan Plan, g, h, x *Array2D[T]) error {
	if err := plan.check(AlgorithmPCR, 1); err != nil {
		return err
	}
	if err := checkShapes(plan, x, g, h); err != nil {
		return err
	}

	nr := plan.NumRow
	if rowParallel(plan, poolWorkers(s.pool), s.rowParallelMinRows) {
		slab := s.scratch.get(plan.scratchLen())
		defer s.scratch.put(slab)
		sc := splitPCRDiffBands(slab, nr)

		run := func(phase func(k int)) {
			parallelFor(s.pool, nr, func(lo, hi int) {
				for k := lo; k < hi; k++ {
					phase(k)
				}
			})
		}
		for i := 0; i < plan.NumBatch; i++ {
			copy(sc.g, g.Row(i))
			copy(sc.h, h.Row(i))
			copy(sc.x, x.Row(i))
			pcrDiffusionKernel(sc, nr, run)
			copy(x.Row(i), sc.x)
		}
		return nil
	}

	parallelFor(s.pool, plan.NumBatch, func(start, end int) {
		slab := s.scratch.get(plan.scratchLen())
		defer s.scratch.put(slab)
		sc := splitPCRDiffBands(slab, nr)

		run := func(phase func(k int)) {
			for k := 0; k < nr; k++ {
				phase(k)
			}
		}
		for i := start; i < end; i++ {
			copy(sc.g, g.Row(i))
			copy(sc.h, h.Row(i))
			copy(sc.x, x.Row(i))
			pcrDiffusionKernel(sc, nr, run)
			copy(x.Row(i), sc.x)
		}
	})
	return nil
}

// pcrDiffusionKernel reduces one diffusion-form system in place, with
// the same two-phase barrier contract as pcrKernel. A row's effective
// diagonal at any level is h[k] + g[k-stride] + g[k] (coupling above
// plus coupling below), with out-of-range fluxes reading as zero.
func pcrDiffusionKernel[T hwy.Floats](sc pcrDiffScratch[T], nr int, run func(phase func(k int))) {
	if nr == 1 {
		sc.x[0] /= sc.h[0] + sc.g[0]
		return
	}

	levels := ceilLog2(nr)
	for lev := 1; lev < levels; lev++ {
		stride := 1 << lev
		half := 1 << (lev - 1)

		run(func(k int) {
			kmh := k - half
			var gkmh T
			if kmh < 0 {
				kmh = 0
			} else {
				gkmh = sc.g[kmh]
			}
			var gkms T
			if kms := k - stride; kms >= 0 {
				gkms = sc.g[kms]
			}
			kph := k + half
			if kph > nr-1 {
				kph = nr - 1
			}

			alpha := gkmh / (sc.h[kmh] + gkms + gkmh)
			beta := sc.g[k] / (sc.h[kph] + sc.g[k] + sc.g[kph])

			sc.sg[k] = sc.g[kph] * beta
			sc.sx[k] = sc.x[k] + alpha*sc.x[kmh] + beta*sc.x[kph]
			sc.sh[k] = sc.h[k] + alpha*sc.h[kmh] + beta*sc.h[kph]
		})
		run(func(k int) {
			sc.h[k] = sc.sh[k]
			sc.g[k] = sc.sg[k]
			sc.x[k] = sc.sx[k]
		})
	}

	// Remaining pairs reconstruct their effective 2x2 tridiagonal block
	// from g and h and solve it by Cramer's rule; partnerless rows
	// normalize by their effective diagonal.
	stride := 1 << (levels - 1)
	run(func(k int) {
		if k+stride < nr || k-stride >= 0 {
			if k < nr/2 {
				var gkms T
				if kms := k - stride; kms >= 0 {
					gkms = sc.g[kms]
				}
				kps := k + stride

				dk := sc.h[k] + gkms + sc.g[k]
				dkps := sc.h[kps] + sc.g[k] + sc.g[kps]
				duk := -sc.g[k]
				dlkps := -sc.g[k]

				det := dk*dkps - dlkps*duk
				xk, xkps := sc.x[k], sc.x[kps]
				sc.x[k] = (dkps*xk - duk*xkps) / det
				sc.x[kps] = (-dlkps*xk + dk*xkps) / det
			}
		} else {
			var gkms T
			if kms := k - stride; kms >= 0 {
				gkms = sc.g[kms]
			}
			sc.x[k] /= sc.h[k] + gkms + sc.g[k]
		}
	})
}
