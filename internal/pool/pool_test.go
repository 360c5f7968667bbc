// Copyright 2024 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pool

import "testing"

func TestSliceGetReturnsRequestedCapacity(t *testing.T) {
	p := NewSlice[int](16, 1<<10)

	s := p.Get(100)
	if len(s) != 0 {
		t.Fatalf("Get returned len %d, want 0", len(s))
	}
	if cap(s) < 100 {
		t.Fatalf("Get returned cap %d, want >= 100", cap(s))
	}
}

func TestSlicePutGetRoundTrip(t *testing.T) {
	p := NewSlice[int](16, 1<<10)

	s := p.Get(8)
	s = append(s, 1, 2, 3)
	p.Put(s)

	// Whether or not the same backing array comes back, the result
	// must always be zero-length.
	s2 := p.Get(8)
	if len(s2) != 0 {
		t.Fatalf("recycled slice has len %d, want 0", len(s2))
	}
}

func TestSliceOversizedNotPooled(t *testing.T) {
	p := NewSlice[byte](16, 64)

	big := make([]byte, 0, 1<<20)
	p.Put(big) // must be dropped, not pinned

	s := p.Get(8)
	if cap(s) >= 1<<20 {
		t.Fatalf("oversized slice was pooled, cap = %d", cap(s))
	}
}
