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

// tridiag-bench compares the Thomas and PCR solver families on randomly
// generated diagonally dominant batches.
//
// Usage:
//
//	tridiag-bench compare --batch 4096 --rows 16,64,256,1024
//	tridiag-bench plot --batch 64 --rows 16,64,256,1024,4096 --out bench.png
package main

import (
	"fmt"
	"math"
	"math/rand"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ajroetker/go-tridiag/tridiag"
)

var (
	flagBatch   int
	flagRows    []int
	flagSamples int
	flagOut     string
)

func main() {
	root := &cobra.Command{
		Use:           "tridiag-bench",
		Short:         "Benchmark batched tridiagonal solver families",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().IntVar(&flagBatch, "batch", 1024, "number of systems per batch")
	root.PersistentFlags().IntSliceVar(&flagRows, "rows", []int{16, 64, 256, 1024}, "row counts to sweep")
	root.PersistentFlags().IntVar(&flagSamples, "samples", 5, "solves per measurement, best taken")

	compare := &cobra.Command{
		Use:   "compare",
		Short: "Print a timing and residual table for both families",
		RunE:  runCompare,
	}

	plotCmd := &cobra.Command{
		Use:   "plot",
		Short: "Render solve time against row count to a PNG",
		RunE:  runPlot,
	}
	plotCmd.Flags().StringVar(&flagOut, "out", "tridiag-bench.png", "output image path")

	root.AddCommand(compare, plotCmd)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// batch holds one generated problem; x keeps the pristine RHS so every
// measured solve starts from the same state.
type batch struct {
	dl, d, du, x *tridiag.Array2D[float64]
	rhs          []float64
}

func makeBatch(rng *rand.Rand, nb, nr int) *batch {
	dl := tridiag.NewArray2D[float64](nb, nr)
	d := tridiag.NewArray2D[float64](nb, nr)
	du := tridiag.NewArray2D[float64](nb, nr)
	x := tridiag.NewArray2D[float64](nb, nr)
	for i := 0; i < nb; i++ {
		for k := 0; k < nr; k++ {
			if k > 0 {
				dl.Set(i, k, rng.Float64()*2-1)
			}
			if k < nr-1 {
				du.Set(i, k, rng.Float64()*2-1)
			}
			d.Set(i, k, 4+rng.Float64())
			x.Set(i, k, rng.Float64()*10-5)
		}
	}
	rhs := make([]float64, len(x.Data()))
	copy(rhs, x.Data())
	return &batch{dl: dl, d: d, du: du, x: x, rhs: rhs}
}

// measure runs the solver repeatedly and returns the best wall time and
// the worst round-trip residual across the batch.
func measure(s tridiag.Solver[float64], pb *batch, samples int) (time.Duration, float64, error) {
	plan, err := s.MakePlan(pb.x.Rows(), pb.x.Cols())
	if err != nil {
		return 0, 0, err
	}

	best := time.Duration(math.MaxInt64)
	for n := 0; n < samples; n++ {
		copy(pb.x.Data(), pb.rhs)
		start := time.Now()
		if err := s.Solve(plan, pb.dl, pb.d, pb.du, pb.x); err != nil {
			return 0, 0, err
		}
		if elapsed := time.Since(start); elapsed < best {
			best = elapsed
		}
	}

	var worst float64
	nb, nr := pb.x.Rows(), pb.x.Cols()
	for i := 0; i < nb; i++ {
		for k := 0; k < nr; k++ {
			lhs := pb.d.At(i, k) * pb.x.At(i, k)
			if k > 0 {
				lhs += pb.dl.At(i, k) * pb.x.At(i, k-1)
			}
			if k < nr-1 {
				lhs += pb.du.At(i, k) * pb.x.At(i, k+1)
			}
			if r := math.Abs(lhs - pb.rhs[i*nr+k]); r > worst {
				worst = r
			}
		}
	}
	return best, worst, nil
}

func runCompare(cmd *cobra.Command, args []string) error {
	rng := rand.New(rand.NewSource(1))
	thomas := tridiag.New[float64](tridiag.AlgorithmThomas)
	pcr := tridiag.New[float64](tridiag.AlgorithmPCR)

	fmt.Printf("%8s %8s %14s %14s %12s %12s\n",
		"batch", "rows", "thomas", "pcr", "res(thomas)", "res(pcr)")
	for _, nr := range flagRows {
		pb := makeBatch(rng, flagBatch, nr)

		tTime, tRes, err := measure(thomas, pb, flagSamples)
		if err != nil {
			return err
		}
		pTime, pRes, err := measure(pcr, pb, flagSamples)
		if err != nil {
			return err
		}
		fmt.Printf("%8d %8d %14s %14s %12.2e %12.2e\n",
			flagBatch, nr, tTime, pTime, tRes, pRes)
	}
	return nil
}
