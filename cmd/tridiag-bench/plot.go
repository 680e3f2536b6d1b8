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

package main

import (
	"fmt"
	"math/rand"

	"github.com/spf13/cobra"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/ajroetker/go-tridiag/tridiag"
)

func runPlot(cmd *cobra.Command, args []string) error {
	rng := rand.New(rand.NewSource(1))
	families := []struct {
		name   string
		solver tridiag.Solver[float64]
	}{
		{"thomas", tridiag.New[float64](tridiag.AlgorithmThomas)},
		{"pcr", tridiag.New[float64](tridiag.AlgorithmPCR)},
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Batched tridiagonal solve, NumBatch=%d", flagBatch)
	p.X.Label.Text = "rows per system"
	p.Y.Label.Text = "solve time (ms)"
	p.X.Scale = plot.LogScale{}
	p.X.Tick.Marker = plot.LogTicks{Prec: -1}
	p.Y.Scale = plot.LogScale{}
	p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	p.Legend.Top = true

	for fi, fam := range families {
		pts := make(plotter.XYs, 0, len(flagRows))
		for _, nr := range flagRows {
			pb := makeBatch(rng, flagBatch, nr)
			elapsed, _, err := measure(fam.solver, pb, flagSamples)
			if err != nil {
				return err
			}
			pts = append(pts, plotter.XY{
				X: float64(nr),
				Y: float64(elapsed.Microseconds()) / 1000.0,
			})
		}

		line, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		line.Color = plotutil.Color(fi)
		p.Add(line)
		p.Legend.Add(fam.name, line)
	}

	if err := p.Save(6*vg.Inch, 4*vg.Inch, flagOut); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", flagOut)
	return nil
}
