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

import "errors"

// Precondition failures are checked once at call entry, before any
// parallel work is scheduled. Numerically singular systems are not a
// detected error; they propagate IEEE special values instead.
var (
	// ErrShapeMismatch reports coefficient arrays whose shapes disagree
	// with each other or with the plan they are solved under.
	ErrShapeMismatch = errors.New("tridiag: coefficient array shape mismatch")

	// ErrBadPlan reports a plan that was not produced by MakePlan, or was
	// produced by a solver of a different algorithm family.
	ErrBadPlan = errors.New("tridiag: invalid execution plan")

	// ErrBadShape reports non-positive batch or row counts.
	ErrBadShape = errors.New("tridiag: batch and row counts must be >= 1")

	// ErrNilArray reports a nil coefficient array.
	ErrNilArray = errors.New("tridiag: nil coefficient array")
)
