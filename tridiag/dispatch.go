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
	"strings"

	"github.com/ajroetker/go-highway/hwy"
)

// Algorithm selects a solver family. The choice is made once at
// construction; both families implement the same Solver contract.
type Algorithm int

const (
	// AlgorithmAuto picks a family at construction time, honoring the
	// TRIDIAG_ALGORITHM environment variable when set.
	AlgorithmAuto Algorithm = iota

	// AlgorithmThomas is sequential forward elimination / back
	// substitution, lane-vectorized across batch elements.
	AlgorithmThomas

	// AlgorithmPCR is parallel cyclic reduction across the rows of each
	// batch element.
	AlgorithmPCR
)

// String returns a human-readable name for the algorithm.
func (a Algorithm) String() string {
	switch a {
	case AlgorithmAuto:
		return "auto"
	case AlgorithmThomas:
		return "thomas"
	case AlgorithmPCR:
		return "pcr"
	default:
		return "unknown"
	}
}

// algorithmEnv overrides algorithm selection regardless of what the
// caller asked for. Useful for comparing families without code changes.
const algorithmEnv = "TRIDIAG_ALGORITHM"

func algorithmFromEnv() (Algorithm, bool) {
	switch strings.ToLower(os.Getenv(algorithmEnv)) {
	case "thomas":
		return AlgorithmThomas, true
	case "pcr":
		return AlgorithmPCR, true
	}
	return AlgorithmAuto, false
}

// resolve maps Auto to a concrete family. Thomas is the default on the
// CPU: it does O(NumRow) work per system and the lane vectorization plus
// group parallelism already uses the whole machine when the batch is
// reasonably sized. PCR trades extra arithmetic for row parallelism,
// which only pays off when requested explicitly or forced via env.
func (a Algorithm) resolve() Algorithm {
	if env, ok := algorithmFromEnv(); ok {
		return env
	}
	if a == AlgorithmAuto {
		return AlgorithmThomas
	}
	return a
}

// New constructs a band solver of the given family. AlgorithmAuto (and
// the TRIDIAG_ALGORITHM override) resolve to a concrete family here, not
// per call.
func New[T hwy.Floats](alg Algorithm, opts ...Option) Solver[T] {
	switch alg.resolve() {
	case AlgorithmPCR:
		return NewPCR[T](opts...)
	default:
		return NewThomas[T](opts...)
	}
}

// NewDiffusion constructs a diffusion-form solver of the given family.
func NewDiffusion[T hwy.Floats](alg Algorithm, opts ...Option) DiffusionSolver[T] {
	switch alg.resolve() {
	case AlgorithmPCR:
		return NewPCRDiffusion[T](opts...)
	default:
		return NewThomasDiffusion[T](opts...)
	}
}
