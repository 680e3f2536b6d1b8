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

// Package tridiag provides batched tridiagonal linear-system solvers.
//
// A batch is a set of independent systems sharing the same row count,
// stored as [NumBatch x NumRow] coefficient arrays. Two algorithm
// families are provided:
//
//   - Thomas: sequential forward-elimination / back-substitution,
//     vectorized across a lane group of batch elements using go-highway
//     SIMD primitives. O(N) work per system, best when NumBatch is large.
//   - PCR: parallel cyclic reduction, which halves the coupling distance
//     of one system in O(log N) synchronized steps. Best when NumBatch is
//     small and NumRow is large enough to parallelize across rows.
//
// Each family comes in two forms: explicit bands (DL, D, DU) and the
// diffusion form (G, H) produced by implicit vertical-mixing
// discretizations, where G holds the inter-level coupling fluxes and H
// the diagonal base. The forms are algebraically equivalent:
//
//	DL[k] = -G[k-1],  D[k] = H[k] + G[k-1] + G[k],  DU[k] = -G[k]
//
// Basic usage:
//
//	solver := tridiag.New[float64](tridiag.AlgorithmAuto)
//	plan, err := solver.MakePlan(numBatch, numRow)
//	if err != nil { ... }
//	err = solver.Solve(plan, dl, d, du, x) // x overwritten with solution
//
// Solvers do not detect singular systems: a zero pivot produces IEEE
// infinities or NaNs in the solution, which is the caller's
// responsibility to handle.
package tridiag
