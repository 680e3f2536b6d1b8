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
	"os"
	"runtime"
	"strconv"
	"sync"

	"github.com/ajroetker/go-highway/hwy/contrib/workerpool"
)

// numWorkersEnv caps the goroutines spawned per call when no worker pool
// is configured. Pools carry their own worker count.
const numWorkersEnv = "TRIDIAG_NUM_WORKERS"

func defaultWorkers() int {
	if v := os.Getenv(numWorkersEnv); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return runtime.GOMAXPROCS(0)
}

// poolWorkers returns how many workers parallelFor will use.
func poolWorkers(pool *workerpool.Pool) int {
	if pool != nil {
		return pool.NumWorkers()
	}
	return defaultWorkers()
}

// parallelFor executes fn over contiguous chunks of [0, n), on the pool
// when one is configured, otherwise on per-call goroutines. It blocks
// until every chunk completes, so two consecutive calls are ordered: all
// writes of the first are visible to every reader in the second.
func parallelFor(pool *workerpool.Pool, n int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	if pool != nil {
		pool.ParallelFor(n, fn)
		return
	}

	workers := min(defaultWorkers(), n)
	if workers <= 1 {
		fn(0, n)
		return
	}

	chunk := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn(start, end)
		}()
	}
	wg.Wait()
}
