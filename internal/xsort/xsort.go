// Copyright 2024 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package xsort provides a size-adaptive sort: the standard library
// sort for small inputs, a worker-partitioned parallel merge sort for
// large ones. It backs HashLife's batched-set-cell coordinate
// ordering, where a single import can carry hundreds of thousands of
// points.
package xsort

import (
	"context"
	"runtime"
	"sort"
	"sync"
)

const parallelThreshold = 10000

// Sort orders items in place using less, switching to a parallel
// merge sort once len(items) crosses parallelThreshold. ctx is
// checked between merge passes so a caller can abandon an oversized
// batch; on cancellation the slice is left partially sorted.
func Sort[T any](ctx context.Context, items []T, less func(a, b T) bool) error {
	if len(items) <= 1 {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if len(items) < parallelThreshold {
		sort.Slice(items, func(i, j int) bool { return less(items[i], items[j]) })
		return ctx.Err()
	}
	return parallelSort(ctx, items, less)
}

func parallelSort[T any](ctx context.Context, items []T, less func(a, b T) bool) error {
	workers := runtime.NumCPU()
	if workers < 2 {
		workers = 2
	}

	chunkSize := (len(items) + workers - 1) / workers
	if chunkSize < 1000 {
		chunkSize = 1000
	}
	if chunkSize > len(items) {
		chunkSize = len(items)
	}

	type job struct{ start, end int }
	jobs := make(chan job)
	errChan := make(chan error, 1)
	var wg sync.WaitGroup

	worker := func() {
		defer wg.Done()
		for j := range jobs {
			if err := ctx.Err(); err != nil {
				select {
				case errChan <- err:
				default:
				}
				continue
			}
			chunk := items[j.start:j.end]
			sort.Slice(chunk, func(i, k int) bool { return less(chunk[i], chunk[k]) })
		}
	}

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go worker()
	}
	for start := 0; start < len(items); start += chunkSize {
		end := min(start+chunkSize, len(items))
		jobs <- job{start: start, end: end}
	}
	close(jobs)
	wg.Wait()

	select {
	case err := <-errChan:
		return err
	default:
	}

	temp := make([]T, len(items))
	return mergeChunks(ctx, items, temp, chunkSize, less)
}

func mergeChunks[T any](ctx context.Context, items, temp []T, chunkSize int, less func(a, b T) bool) error {
	if chunkSize <= 0 || chunkSize >= len(items) {
		return ctx.Err()
	}
	for currentSize := chunkSize; currentSize < len(items); currentSize *= 2 {
		if err := ctx.Err(); err != nil {
			return err
		}
		for start := 0; start < len(items); start += 2 * currentSize {
			mid := min(start+currentSize, len(items))
			end := min(start+2*currentSize, len(items))
			if mid >= end {
				continue
			}
			mergeRange(items, temp, start, mid, end, less)
			copy(items[start:end], temp[start:end])
		}
	}
	return ctx.Err()
}

func mergeRange[T any](items, temp []T, start, mid, end int, less func(a, b T) bool) {
	i, j, k := start, mid, start
	for i < mid && j < end {
		if !less(items[j], items[i]) {
			temp[k] = items[i]
			i++
		} else {
			temp[k] = items[j]
			j++
		}
		k++
	}
	for i < mid {
		temp[k] = items[i]
		i++
		k++
	}
	for j < end {
		temp[k] = items[j]
		j++
		k++
	}
}
