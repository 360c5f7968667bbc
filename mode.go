// Copyright 2024 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package life

import (
	"github.com/cainydev/life/arenalife"
	"github.com/cainydev/life/hashlife"
	"github.com/cainydev/life/sparselife"
)

// EngineMode selects a concrete Engine implementation.
type EngineMode int

const (
	ModeSparse EngineMode = iota
	ModeArena
	ModeHash
)

// String names the mode, matching the engine's own ID().
func (m EngineMode) String() string {
	switch m {
	case ModeSparse:
		return "sparse-life"
	case ModeArena:
		return "arena-life"
	case ModeHash:
		return "hash-life"
	default:
		return "unknown"
	}
}

// New constructs a fresh, empty Engine for mode.
func New(mode EngineMode) (Engine, error) {
	switch mode {
	case ModeSparse:
		return sparseEngine{sparselife.New()}, nil
	case ModeArena:
		return arenaEngine{arenalife.New()}, nil
	case ModeHash:
		return hashEngine{hashlife.New()}, nil
	default:
		return nil, &Error{Op: "life.New", Err: ErrUnknownEngineMode}
	}
}

// SwitchEngine builds a new Engine of mode, seeded with old's exported
// live-cell set. The generation counter is not preserved across the
// switch: the new engine starts at generation
// 0 regardless of how far old had advanced.
func SwitchEngine(old Engine, mode EngineMode) (Engine, error) {
	cells := old.Export()
	next, err := New(mode)
	if err != nil {
		return nil, err
	}
	next.Import(cells)
	return next, nil
}
