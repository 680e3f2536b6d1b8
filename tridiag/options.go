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

import "github.com/ajroetker/go-highway/hwy/contrib/workerpool"

// defaultRowParallelMinRows is the NumRow threshold below which the PCR
// family never bothers with row parallelism: per-level fan-out costs more
// than reducing a short column inline.
const defaultRowParallelMinRows = 512

type config struct {
	pool               *workerpool.Pool
	rowParallelMinRows int
}

func newConfig(opts []Option) config {
	cfg := config{rowParallelMinRows: defaultRowParallelMinRows}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Option configures a solver at construction time.
type Option func(*config)

// WithPool runs the solver's parallel groups on a persistent worker pool
// instead of spawning goroutines per call. The caller owns the pool and
// its lifetime; one pool can be shared by several solvers.
func WithPool(pool *workerpool.Pool) Option {
	return func(c *config) { c.pool = pool }
}

// WithRowParallelMinRows sets the NumRow threshold above which PCR-family
// solvers parallelize across rows within a batch element whenever the
// batch alone is too small to occupy the workers. Thomas-family solvers
// ignore it. n <= 0 disables row parallelism.
func WithRowParallelMinRows(n int) Option {
	return func(c *config) { c.rowParallelMinRows = n }
}
