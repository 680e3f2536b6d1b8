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

import "github.com/ajroetker/go-highway/hwy"

// Solver solves batched tridiagonal systems given as explicit bands:
//
//	DL[i][k]*x[k-1] + D[i][k]*x[k] + DU[i][k]*x[k+1] = X[i][k]
//
// for every batch element i, with DL[i][0] and DU[i][NumRow-1] unused by
// convention (callers set them to 0). Solve overwrites x with the
// solution in place.
type Solver[T hwy.Floats] interface {
	// MakePlan partitions a [numBatch x numRow] batch into parallel
	// groups and sizes their scratch. It must be called before Solve.
	MakePlan(numBatch, numRow int) (Plan, error)

	// Solve runs the batched solve under the given plan. All four arrays
	// must be shaped [plan.NumBatch x plan.NumRow].
	Solve(plan Plan, dl, d, du, x *Array2D[T]) error
}

// DiffusionSolver solves the same systems expressed in diffusion form: a
// coupling-flux band g and diagonal base h, equivalent to the explicit
// bands DL[k]=-g[k-1], D[k]=h[k]+g[k-1]+g[k], DU[k]=-g[k].
type DiffusionSolver[T hwy.Floats] interface {
	MakePlan(numBatch, numRow int) (Plan, error)

	// Solve overwrites x with the solution. g, h and x must be shaped
	// [plan.NumBatch x plan.NumRow].
	Solve(plan Plan, g, h, x *Array2D[T]) error
}
