// Copyright 2024 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package life

import "errors"

// Error wraps a failing operation with the package-qualified name of
// the call that produced it.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return e.Err.Error()
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// Sentinel conditions an engine operation can report. Engine
// operations themselves are total (out-of-range mutations, unfittable
// coordinates and degenerate viewports are silent no-ops), so only
// the scheduler and the factory have anything to say. A provably
// unreachable internal invariant (mismatched HashLife node levels)
// panics instead, which hashlife's cache/evolve code does directly
// rather than routing it through Error.
var (
	// ErrStepInFlight is returned by StepScheduler.Start when a
	// background step task is already running; a second request is
	// never queued, the host is expected to poll.
	ErrStepInFlight = errors.New("life: step already in flight")

	// ErrUnknownEngineMode is returned by New when asked to construct
	// an EngineMode the factory does not recognise.
	ErrUnknownEngineMode = errors.New("life: unknown engine mode")
)
