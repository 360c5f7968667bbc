// Copyright 2024 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package life

import (
	"context"
	"testing"
	"time"
)

func TestStepSchedulerPollsToCompletion(t *testing.T) {
	e, _ := New(ModeSparse)
	e.Import(HexadecagonSeed)

	sched := NewScheduler(e)
	if err := sched.Start(context.Background(), 4); err != nil {
		t.Fatalf("Start: %v", err)
	}

	var stats StepStats
	var done bool
	deadline := time.After(2 * time.Second)
	for !done {
		select {
		case <-deadline:
			t.Fatal("scheduler never completed")
		default:
		}
		stats, done = sched.Poll()
	}
	if stats.GenerationsDone != 4 {
		t.Fatalf("GenerationsDone = %d, want 4", stats.GenerationsDone)
	}
	if e.Generation() != 4 {
		t.Fatalf("engine generation = %d, want 4", e.Generation())
	}
}

func TestStepSchedulerRejectsConcurrentStart(t *testing.T) {
	// The hexadecagon seed stepped for many generations on sparse-life
	// keeps the background task in flight long enough for the
	// immediately following Start call below to observe it still
	// running.
	e, _ := New(ModeSparse)
	e.Import(HexadecagonSeed)

	sched := NewScheduler(e)

	if err := sched.Start(context.Background(), 5000); err != nil {
		t.Fatalf("first Start: %v", err)
	}
	if err := sched.Start(context.Background(), 1); err == nil {
		t.Fatal("second concurrent Start succeeded, want ErrStepInFlight")
	}

	deadline := time.After(10 * time.Second)
	for {
		if _, done := sched.Poll(); done {
			break
		}
		select {
		case <-deadline:
			t.Fatal("scheduler never completed")
		default:
		}
	}
	if err := sched.Start(context.Background(), 1); err != nil {
		t.Fatalf("Start after completion: %v", err)
	}
}
