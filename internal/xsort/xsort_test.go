// Copyright 2024 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xsort

import (
	"context"
	"sort"
	"testing"
)

func intLess(a, b int) bool { return a < b }

// deterministic pseudo-random fill, no seed dependency between runs.
func fill(n int) []int {
	items := make([]int, n)
	state := uint64(0x9E3779B97F4A7C15)
	for i := range items {
		state ^= state << 13
		state ^= state >> 7
		state ^= state << 17
		items[i] = int(state % 1_000_003)
	}
	return items
}

func checkSorted(t *testing.T, items []int) {
	t.Helper()
	if !sort.SliceIsSorted(items, func(i, j int) bool { return items[i] < items[j] }) {
		t.Fatalf("slice is not sorted")
	}
}

func TestSortSmall(t *testing.T) {
	items := fill(100)
	want := append([]int(nil), items...)
	sort.Ints(want)

	if err := Sort(context.Background(), items, intLess); err != nil {
		t.Fatalf("Sort: %v", err)
	}
	checkSorted(t, items)
	for i := range want {
		if items[i] != want[i] {
			t.Fatalf("items[%d] = %d, want %d", i, items[i], want[i])
		}
	}
}

// TestSortLarge crosses the parallel threshold so the chunked
// merge-sort path runs.
func TestSortLarge(t *testing.T) {
	items := fill(parallelThreshold * 3)
	want := append([]int(nil), items...)
	sort.Ints(want)

	if err := Sort(context.Background(), items, intLess); err != nil {
		t.Fatalf("Sort: %v", err)
	}
	for i := range want {
		if items[i] != want[i] {
			t.Fatalf("items[%d] = %d, want %d", i, items[i], want[i])
		}
	}
}

func TestSortEmptyAndSingle(t *testing.T) {
	if err := Sort(context.Background(), []int{}, intLess); err != nil {
		t.Fatalf("Sort(empty): %v", err)
	}
	one := []int{42}
	if err := Sort(context.Background(), one, intLess); err != nil {
		t.Fatalf("Sort(single): %v", err)
	}
	if one[0] != 42 {
		t.Fatalf("single-element slice changed: %v", one)
	}
}

func TestSortCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	items := fill(parallelThreshold * 2)
	if err := Sort(ctx, items, intLess); err == nil {
		t.Fatalf("Sort with cancelled context returned nil error")
	}
}
