// Copyright 2024 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package life

import (
	"context"

	"github.com/cainydev/life/raster"
)

// Engine is the operational contract every concrete cellular-automaton
// engine implements: seed, step, mutate, query, export/import and
// rasterise. SparseLife, ArenaLife and HashLife are
// interchangeable behind this interface; SwitchEngine moves a live
// pattern from one to another.
type Engine interface {
	// ID returns the engine's stable identifier (e.g. "sparse-life").
	ID() string
	// Name returns a human-readable name, possibly annotated with
	// hardware-acceleration status (bitblock.HasHardwareAcceleration).
	Name() string
	// Generation returns the number of generations advanced so far.
	Generation() uint64
	// Population returns the total number of live cells.
	Population() uint64
	// Step advances the universe by n generations and returns the
	// number actually advanced (n, unless ctx is cancelled mid-step).
	Step(ctx context.Context, n uint64) uint64
	// SetCell sets a single cell's liveness.
	SetCell(pos Pos, alive bool)
	// SetCells sets every cell in coords to alive in one batched call.
	SetCells(coords []Pos, alive bool)
	// GetCell reports whether pos is alive.
	GetCell(pos Pos) bool
	// Clear removes all live cells and resets the generation counter.
	Clear()
	// Import replaces the universe's contents with aliveCells.
	Import(aliveCells []Pos)
	// Export returns every live cell in the universe.
	Export() []Pos
	// DrawToBuffer rasterises the universe's intersection with vp into
	// buf, a row-major width*height byte matrix.
	DrawToBuffer(vp raster.Viewport, buf []byte, width, height int)
	// BoxClone returns a fresh, independent Engine of the same
	// concrete type with identical live cells and generation counter.
	BoxClone() Engine
}
