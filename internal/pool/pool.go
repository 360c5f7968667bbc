// Copyright 2024 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pool provides typed slice pools used to keep the per-step
// scratch allocations of the block engines and HashLife's batched
// mutations off the garbage collector's critical path.
package pool

import "sync"

// Slice is a generic sync.Pool wrapper for reusable slices.
type Slice[T any] struct {
	pool   sync.Pool
	maxCap int
}

// NewSlice creates a pool of slices with the given starting capacity.
// Returned slices whose capacity exceeds maxCap are dropped instead of
// pooled, so one abnormally large batch cannot pin memory forever.
func NewSlice[T any](startCap, maxCap int) *Slice[T] {
	return &Slice[T]{
		pool: sync.Pool{
			New: func() any {
				s := make([]T, 0, startCap)
				return &s
			},
		},
		maxCap: maxCap,
	}
}

// Get returns a zero-length slice with at least minCap capacity.
func (p *Slice[T]) Get(minCap int) []T {
	sp := p.pool.Get().(*[]T)
	s := *sp
	if cap(s) < minCap {
		return make([]T, 0, minCap)
	}
	return s[:0]
}

// Put returns s to the pool for reuse.
func (p *Slice[T]) Put(s []T) {
	if cap(s) > p.maxCap {
		return
	}
	s = s[:0]
	p.pool.Put(&s)
}
