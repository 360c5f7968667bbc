// Copyright 2024 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package arenalife

// Index is a generational handle into an Arena. It stays valid across
// insertions and is invalidated (silently, by generation mismatch)
// once the slot it names is freed and reused.
type Index struct {
	slot int32
	gen  uint32
}

type slot[T any] struct {
	value    T
	gen      uint32
	occupied bool
}

// Arena is a generational slab allocator of T.
type Arena[T any] struct {
	slots    []slot[T]
	freeList []int32
}

// NewArena creates an empty arena.
func NewArena[T any]() *Arena[T] {
	return &Arena[T]{}
}

// Insert stores value in a free (or new) slot and returns its handle.
func (a *Arena[T]) Insert(value T) Index {
	if n := len(a.freeList); n > 0 {
		i := a.freeList[n-1]
		a.freeList = a.freeList[:n-1]
		a.slots[i].value = value
		a.slots[i].occupied = true
		return Index{slot: i, gen: a.slots[i].gen}
	}
	a.slots = append(a.slots, slot[T]{value: value, occupied: true})
	return Index{slot: int32(len(a.slots) - 1), gen: 0}
}

// Get returns a pointer to the value named by idx, or nil if idx has
// been freed or never existed.
func (a *Arena[T]) Get(idx Index) *T {
	if idx.slot < 0 || int(idx.slot) >= len(a.slots) {
		return nil
	}
	s := &a.slots[idx.slot]
	if !s.occupied || s.gen != idx.gen {
		return nil
	}
	return &s.value
}

// Remove frees the slot named by idx, bumping its generation so stale
// handles fail Get.
func (a *Arena[T]) Remove(idx Index) {
	if idx.slot < 0 || int(idx.slot) >= len(a.slots) {
		return
	}
	s := &a.slots[idx.slot]
	if !s.occupied || s.gen != idx.gen {
		return
	}
	var zero T
	s.value = zero
	s.occupied = false
	s.gen++
	a.freeList = append(a.freeList, idx.slot)
}

// Clear empties the arena and resets generations.
func (a *Arena[T]) Clear() {
	a.slots = a.slots[:0]
	a.freeList = a.freeList[:0]
}

// Len reports how many occupied slots the arena holds.
func (a *Arena[T]) Len() int {
	return len(a.slots) - len(a.freeList)
}

// Range calls f for every occupied slot. f must not mutate the
// arena's structure (Insert/Remove) while ranging.
func (a *Arena[T]) Range(f func(Index, *T)) {
	for i := range a.slots {
		s := &a.slots[i]
		if s.occupied {
			f(Index{slot: int32(i), gen: s.gen}, &s.value)
		}
	}
}
