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
	"math"
	"math/rand"
	"testing"

	"github.com/ajroetker/go-highway/hwy/contrib/workerpool"
)

// randomDiffusionBatch builds per-batch flux and diagonal-base arrays of
// the kind an implicit vertical-mixing step produces: positive fluxes
// g[nr-1] = 0 (no flux through the bottom) and positive h.
func randomDiffusionBatch(rng *rand.Rand, nb, nr int) (g, h, x *Array2D[float64]) {
	g = NewArray2D[float64](nb, nr)
	h = NewArray2D[float64](nb, nr)
	x = NewArray2D[float64](nb, nr)
	for i := 0; i < nb; i++ {
		for k := 0; k < nr; k++ {
			if k < nr-1 {
				g.Set(i, k, rng.Float64()*2)
			}
			h.Set(i, k, 1+rng.Float64())
			x.Set(i, k, rng.Float64()*10-5)
		}
	}
	return g, h, x
}

// diffusionBands expands the (G, H) representation into explicit bands:
// DL[k] = -G[k-1], D[k] = H[k] + G[k-1] + G[k], DU[k] = -G[k].
func diffusionBands(g, h *Array2D[float64]) (dl, d, du *Array2D[float64]) {
	nb, nr := g.Rows(), g.Cols()
	dl = NewArray2D[float64](nb, nr)
	d = NewArray2D[float64](nb, nr)
	du = NewArray2D[float64](nb, nr)
	for i := 0; i < nb; i++ {
		for k := 0; k < nr; k++ {
			diag := h.At(i, k) + g.At(i, k)
			if k > 0 {
				diag += g.At(i, k-1)
				dl.Set(i, k, -g.At(i, k-1))
			}
			if k < nr-1 {
				du.Set(i, k, -g.At(i, k))
			}
			d.Set(i, k, diag)
		}
	}
	return dl, d, du
}

func solveDiffusion(t *testing.T, s DiffusionSolver[float64], g, h, x *Array2D[float64]) *Array2D[float64] {
	t.Helper()
	plan, err := s.MakePlan(x.Rows(), x.Cols())
	if err != nil {
		t.Fatalf("MakePlan: %v", err)
	}
	sol := cloneArray(x)
	if err := s.Solve(plan, cloneArray(g), cloneArray(h), sol); err != nil {
		t.Fatalf("Solve: %v", err)
	}
	return sol
}

// TestThomasDiffusionMatchesBands solves the same systems through the
// diffusion form and through the expanded explicit bands; the two-
// coefficient recurrence must land on the same solutions.
func TestThomasDiffusionMatchesBands(t *testing.T) {
	rng := rand.New(rand.NewSource(10))
	for _, nr := range []int{1, 2, 3, 5, 16, 60} {
		t.Run(fmt.Sprintf("rows=%d", nr), func(t *testing.T) {
			g, h, x := randomDiffusionBatch(rng, 7, nr)
			dl, d, du := diffusionBands(g, h)

			ref := solveBands(t, NewThomas[float64](), dl, d, du, x)
			got := solveDiffusion(t, NewThomasDiffusion[float64](), g, h, x)

			for i := 0; i < x.Rows(); i++ {
				for k := 0; k < nr; k++ {
					r, gv := ref.At(i, k), got.At(i, k)
					if math.Abs(r-gv) > 1e-10*math.Max(1, math.Abs(r)) {
						t.Fatalf("batch %d row %d: bands %g, diffusion %g", i, k, r, gv)
					}
				}
			}
		})
	}
}

func TestPCRDiffusionAgreesWithThomasDiffusion(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for _, nr := range []int{1, 2, 3, 5, 8, 17, 33, 100} {
		t.Run(fmt.Sprintf("rows=%d", nr), func(t *testing.T) {
			g, h, x := randomDiffusionBatch(rng, 5, nr)

			ref := solveDiffusion(t, NewThomasDiffusion[float64](), g, h, x)
			got := solveDiffusion(t, NewPCRDiffusion[float64](), g, h, x)

			for i := 0; i < x.Rows(); i++ {
				for k := 0; k < nr; k++ {
					r, gv := ref.At(i, k), got.At(i, k)
					if math.Abs(r-gv) > 1e-10*math.Max(1, math.Abs(r)) {
						t.Fatalf("batch %d row %d: thomas %g, pcr %g", i, k, r, gv)
					}
				}
			}
		})
	}
}

// TestDiffusionRoundTrip reconstructs the RHS from the solution through
// the equivalent explicit bands.
func TestDiffusionRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(12))
	for _, nr := range []int{1, 5, 42} {
		g, h, x := randomDiffusionBatch(rng, 6, nr)
		dl, d, du := diffusionBands(g, h)

		for name, sol := range map[string]*Array2D[float64]{
			"thomas": solveDiffusion(t, NewThomasDiffusion[float64](), g, h, x),
			"pcr":    solveDiffusion(t, NewPCRDiffusion[float64](), g, h, x),
		} {
			nb := x.Rows()
			for i := 0; i < nb; i++ {
				for k := 0; k < nr; k++ {
					lhs := d.At(i, k) * sol.At(i, k)
					if k > 0 {
						lhs += dl.At(i, k) * sol.At(i, k-1)
					}
					if k < nr-1 {
						lhs += du.At(i, k) * sol.At(i, k+1)
					}
					if math.Abs(lhs-x.At(i, k)) > 1e-9 {
						t.Fatalf("%s: batch %d row %d: residual %g", name, i, k, lhs-x.At(i, k))
					}
				}
			}
		}
	}
}

func TestPCRDiffusionRowParallel(t *testing.T) {
	pool := workerpool.New(4)
	defer pool.Close()

	rng := rand.New(rand.NewSource(13))
	g, h, x := randomDiffusionBatch(rng, 2, 85)

	ref := solveDiffusion(t, NewPCRDiffusion[float64](), g, h, x)
	got := solveDiffusion(t, NewPCRDiffusion[float64](WithPool(pool), WithRowParallelMinRows(1)), g, h, x)

	for i := 0; i < x.Rows(); i++ {
		for k := 0; k < x.Cols(); k++ {
			if ref.At(i, k) != got.At(i, k) {
				t.Fatalf("batch %d row %d: sequential %g, row-parallel %g",
					i, k, ref.At(i, k), got.At(i, k))
			}
		}
	}
}

func TestDiffusionPaddedLanes(t *testing.T) {
	rng := rand.New(rand.NewSource(14))
	lanes := laneWidth[float64]()
	nb := lanes + 1
	const nr = 9

	g, h, x := randomDiffusionBatch(rng, nb, nr)
	batched := solveDiffusion(t, NewThomasDiffusion[float64](), g, h, x)

	for i := 0; i < nb; i++ {
		g1, _ := MakeArray2D(1, nr, g.Row(i))
		h1, _ := MakeArray2D(1, nr, h.Row(i))
		x1, _ := MakeArray2D(1, nr, x.Row(i))
		single := solveDiffusion(t, NewThomasDiffusion[float64](), g1, h1, x1)
		for k := 0; k < nr; k++ {
			if batched.At(i, k) != single.At(0, k) {
				t.Fatalf("batch %d row %d: batched %g != single %g",
					i, k, batched.At(i, k), single.At(0, k))
			}
		}
	}
}
