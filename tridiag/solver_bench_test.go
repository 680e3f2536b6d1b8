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
	"math/rand"
	"testing"
)

func benchmarkBands(b *testing.B, s Solver[float64], nb, nr int) {
	rng := rand.New(rand.NewSource(42))
	dl := NewArray2D[float64](nb, nr)
	d := NewArray2D[float64](nb, nr)
	du := NewArray2D[float64](nb, nr)
	x := NewArray2D[float64](nb, nr)
	for i := 0; i < nb; i++ {
		for k := 0; k < nr; k++ {
			if k > 0 {
				dl.Set(i, k, rng.Float64()*2-1)
			}
			if k < nr-1 {
				du.Set(i, k, rng.Float64()*2-1)
			}
			d.Set(i, k, 4+rng.Float64())
			x.Set(i, k, rng.Float64())
		}
	}

	plan, err := s.MakePlan(nb, nr)
	if err != nil {
		b.Fatal(err)
	}
	rhs := make([]float64, len(x.Data()))
	copy(rhs, x.Data())

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		copy(x.Data(), rhs)
		if err := s.Solve(plan, dl, d, du, x); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkThomas(b *testing.B) {
	for _, size := range []struct{ nb, nr int }{
		{1024, 64}, {8192, 64}, {64, 1024}, {8, 4096},
	} {
		b.Run(fmt.Sprintf("batch=%d_rows=%d", size.nb, size.nr), func(b *testing.B) {
			benchmarkBands(b, NewThomas[float64](), size.nb, size.nr)
		})
	}
}

func BenchmarkPCR(b *testing.B) {
	for _, size := range []struct{ nb, nr int }{
		{1024, 64}, {8192, 64}, {64, 1024}, {8, 4096},
	} {
		b.Run(fmt.Sprintf("batch=%d_rows=%d", size.nb, size.nr), func(b *testing.B) {
			benchmarkBands(b, NewPCR[float64](), size.nb, size.nr)
		})
	}
}

func BenchmarkThomasDiffusion(b *testing.B) {
	rng := rand.New(rand.NewSource(43))
	const nb, nr = 4096, 80
	g := NewArray2D[float64](nb, nr)
	h := NewArray2D[float64](nb, nr)
	x := NewArray2D[float64](nb, nr)
	for i := 0; i < nb; i++ {
		for k := 0; k < nr; k++ {
			if k < nr-1 {
				g.Set(i, k, rng.Float64()*2)
			}
			h.Set(i, k, 1+rng.Float64())
			x.Set(i, k, rng.Float64())
		}
	}

	s := NewThomasDiffusion[float64]()
	plan, err := s.MakePlan(nb, nr)
	if err != nil {
		b.Fatal(err)
	}
	rhs := make([]float64, len(x.Data()))
	copy(rhs, x.Data())

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		copy(x.Data(), rhs)
		if err := s.Solve(plan, g, h, x); err != nil {
			b.Fatal(err)
		}
	}
}
