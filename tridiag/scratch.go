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
	"sync"

	"github.com/ajroetker/go-highway/hwy"
)

// scratchPool recycles per-group scratch slabs across solve calls. A slab
// is owned exclusively by one group between get and put; it never
// outlives a call. Staged values are always written before they are read,
// so recycled slabs need no clearing.
type scratchPool[T hwy.Floats] struct {
	pool sync.Pool
}

func (p *scratchPool[T]) get(n int) []T {
	if v := p.pool.Get(); v != nil {
		if s := v.([]T); cap(s) >= n {
			return s[:n]
		}
	}
	return make([]T, n)
}

func (p *scratchPool[T]) put(s []T) {
	p.pool.Put(s)
}

// bandScratch holds one Thomas-family group's lane-major working bands.
// Each band is [NumRow x LaneWidth]: row k of band b lives at
// b[k*LaneWidth : (k+1)*LaneWidth], one lane per batch element.
type bandScratch[T hwy.Floats] struct {
	dl, d, du, x []T
}

func splitBands[T hwy.Floats](slab []T, bandLen int) bandScratch[T] {
	return bandScratch[T]{
		dl: slab[0*bandLen : 1*bandLen],
		d:  slab[1*bandLen : 2*bandLen],
		du: slab[2*bandLen : 3*bandLen],
		x:  slab[3*bandLen : 4*bandLen],
	}
}

// diffScratch is the diffusion-form analog of bandScratch: flux band g,
// diagonal base h, RHS x, and the accumulated elimination factors alpha.
type diffScratch[T hwy.Floats] struct {
	g, h, x, alpha []T
}

func splitDiffBands[T hwy.Floats](slab []T, bandLen int) diffScratch[T] {
	return diffScratch[T]{
		g:     slab[0*bandLen : 1*bandLen],
		h:     slab[1*bandLen : 2*bandLen],
		x:     slab[2*bandLen : 3*bandLen],
		alpha: slab[3*bandLen : 4*bandLen],
	}
}

// pcrScratch holds one PCR group's bands for a single batch element,
// [NumRow] each, plus a staging half. Reduction levels compute into the
// staging bands and commit after a barrier, preserving the invariant that
// no row reads a neighbor value the current level already overwrote.
type pcrScratch[T hwy.Floats] struct {
	dl, d, du, x     []T
	sdl, sd, sdu, sx []T
}

func splitPCRBands[T hwy.Floats](slab []T, n int) pcrScratch[T] {
	return pcrScratch[T]{
		dl:  slab[0*n : 1*n],
		d:   slab[1*n : 2*n],
		du:  slab[2*n : 3*n],
		x:   slab[3*n : 4*n],
		sdl: slab[4*n : 5*n],
		sd:  slab[5*n : 6*n],
		sdu: slab[6*n : 7*n],
		sx:  slab[7*n : 8*n],
	}
}

// pcrDiffScratch is the diffusion-form analog of pcrScratch.
type pcrDiffScratch[T hwy.Floats] struct {
	g, h, x    []T
	sg, sh, sx []T
}

func splitPCRDiffBands[T hwy.Floats](slab []T, n int) pcrDiffScratch[T] {
	return pcrDiffScratch[T]{
		g:  slab[0*n : 1*n],
		h:  slab[1*n : 2*n],
		x:  slab[2*n : 3*n],
		sg: slab[3*n : 4*n],
		sh: slab[4*n : 5*n],
		sx: slab[5*n : 6*n],
	}
}
