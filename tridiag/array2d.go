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

	"github.com/ajroetker/go-highway/hwy"
)

// Array2D is a dense row-major [rows x cols] array of batch coefficients.
// Row i holds the per-row values of batch element i. It is the only data
// structure crossing the solver API boundary: callers own the backing
// storage before and after a solve, and the solve reads or writes it only
// for the duration of the call.
type Array2D[T hwy.Floats] struct {
	rows, cols int
	data       []T
}

// NewArray2D allocates a zeroed [rows x cols] array.
func NewArray2D[T hwy.Floats](rows, cols int) *Array2D[T] {
	if rows < 0 || cols < 0 {
		panic("tridiag: negative Array2D dimensions")
	}
	return &Array2D[T]{rows: rows, cols: cols, data: make([]T, rows*cols)}
}

// MakeArray2D adopts data as the backing storage of a [rows x cols]
// array without copying. len(data) must equal rows*cols.
func MakeArray2D[T hwy.Floats](rows, cols int, data []T) (*Array2D[T], error) {
	if rows < 0 || cols < 0 || len(data) != rows*cols {
		return nil, fmt.Errorf("%w: len(data)=%d, want %d*%d", ErrShapeMismatch, len(data), rows, cols)
	}
	return &Array2D[T]{rows: rows, cols: cols, data: data}, nil
}

// Rows returns the batch count.
func (a *Array2D[T]) Rows() int { return a.rows }

// Cols returns the per-system row count.
func (a *Array2D[T]) Cols() int { return a.cols }

// At returns the element at batch i, row k.
func (a *Array2D[T]) At(i, k int) T { return a.data[i*a.cols+k] }

// Set stores v at batch i, row k.
func (a *Array2D[T]) Set(i, k int, v T) { a.data[i*a.cols+k] = v }

// Row returns the backing slice of batch element i.
func (a *Array2D[T]) Row(i int) []T { return a.data[i*a.cols : (i+1)*a.cols] }

// Data returns the row-major backing slice.
func (a *Array2D[T]) Data() []T { return a.data }

// SameShape reports whether b has identical dimensions.
func (a *Array2D[T]) SameShape(b *Array2D[T]) bool {
	return b != nil && a.rows == b.rows && a.cols == b.cols
}

// checkShapes validates the arrays of one solve call against the plan.
// x carries the solution, so its shape anchors the comparison.
func checkShapes[T hwy.Floats](plan Plan, x *Array2D[T], coeffs ...*Array2D[T]) error {
	if x == nil {
		return ErrNilArray
	}
	if x.rows != plan.NumBatch || x.cols != plan.NumRow {
		return fmt.Errorf("%w: x is [%d x %d], plan is [%d x %d]",
			ErrShapeMismatch, x.rows, x.cols, plan.NumBatch, plan.NumRow)
	}
	for _, c := range coeffs {
		if c == nil {
			return ErrNilArray
		}
		if !x.SameShape(c) {
			return fmt.Errorf("%w: coefficient array is [%d x %d], x is [%d x %d]",
				ErrShapeMismatch, c.rows, c.cols, x.rows, x.cols)
		}
	}
	return nil
}
