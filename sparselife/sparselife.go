// Copyright 2024 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sparselife implements the Sparse-Block engine: an unbounded
// grid of 64x64 bit-blocks held in a spatial hash, stepped in
// parallel with a double-buffered generation swap.
package sparselife

import (
	"context"
	"runtime"
	"sync"

	"github.com/cainydev/life/bitblock"
	"github.com/cainydev/life/internal/pool"
)

// Pos is a world-space cell coordinate.
type Pos struct{ X, Y int64 }

// BlockCoord indexes the block tiling of the plane.
type BlockCoord struct{ X, Y int64 }

func add(c BlockCoord, dx, dy int64) BlockCoord {
	return BlockCoord{c.X + dx, c.Y + dy}
}

type evalResult struct {
	pos   BlockCoord
	block bitblock.Block
}

var resultPool = pool.NewSlice[evalResult](1024, 1<<20)

// Engine is the Sparse-Block cellular-automaton engine.
type Engine struct {
	mu sync.RWMutex

	blocks map[BlockCoord]*bitblock.Block
	active map[BlockCoord]struct{}

	generation uint64
	workers    int
}

// New creates an empty Sparse-Block engine.
func New() *Engine {
	return &Engine{
		blocks:  make(map[BlockCoord]*bitblock.Block),
		active:  make(map[BlockCoord]struct{}),
		workers: runtime.NumCPU(),
	}
}

// ID returns the engine's stable identifier.
func (e *Engine) ID() string { return "sparse-life" }

// Name returns a human-readable engine name, annotated with whether
// hardware SIMD acceleration was detected.
func (e *Engine) Name() string {
	if bitblock.HasHardwareAcceleration() {
		return "SparseLife (avx2)"
	}
	return "SparseLife"
}

// Generation returns the number of generations advanced so far.
func (e *Engine) Generation() uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.generation
}

// Population returns the total number of live cells.
func (e *Engine) Population() uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	var n uint64
	for _, b := range e.blocks {
		for _, row := range b.Rows {
			n += uint64(popcount(row))
		}
	}
	return n
}

func popcount(x uint64) int {
	c := 0
	for x != 0 {
		x &= x - 1
		c++
	}
	return c
}

// Clone returns an independent copy of e with the same live cells and
// generation counter. The clone is rebuilt from
// e's exported cells rather than sharing block pointers, so the two
// engines' subsequent steps never alias each other's state.
func (e *Engine) Clone() *Engine {
	cells := e.Export()
	gen := e.Generation()

	clone := New()
	clone.Import(cells)
	clone.generation = gen
	return clone
}

// Clear removes all live cells and resets the generation counter.
func (e *Engine) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.blocks = make(map[BlockCoord]*bitblock.Block)
	e.active = make(map[BlockCoord]struct{})
	e.generation = 0
}

// SetCell sets the single cell at pos.
func (e *Engine) SetCell(pos Pos, alive bool) {
	e.SetCells([]Pos{pos}, alive)
}

// SetCells sets every cell in coords to alive.
func (e *Engine) SetCells(coords []Pos, alive bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, p := range coords {
		bx, by, lx, ly := bitblock.Coords(p.X, p.Y)
		c := BlockCoord{bx, by}
		b, ok := e.blocks[c]
		if !ok {
			b = &bitblock.Block{}
			e.blocks[c] = b
		}
		b.Set(lx, ly, alive)

		for dy := int64(-1); dy <= 1; dy++ {
			for dx := int64(-1); dx <= 1; dx++ {
				e.active[add(c, dx, dy)] = struct{}{}
			}
		}
	}
}

// GetCell reports whether the cell at pos is alive.
func (e *Engine) GetCell(pos Pos) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	bx, by, lx, ly := bitblock.Coords(pos.X, pos.Y)
	b, ok := e.blocks[BlockCoord{bx, by}]
	if !ok {
		return false
	}
	return b.Get(lx, ly)
}

// Export returns every live cell in the universe. Order is
// unspecified.
func (e *Engine) Export() []Pos {
	e.mu.RLock()
	defer e.mu.RUnlock()
	var cells []Pos
	for c, b := range e.blocks {
		baseX, baseY := c.X*bitblock.Size, c.Y*bitblock.Size
		for y, row := range b.Rows {
			if row == 0 {
				continue
			}
			for x := 0; x < bitblock.Size; x++ {
				if (row>>uint(x))&1 != 0 {
					cells = append(cells, Pos{baseX + int64(x), baseY + int64(y)})
				}
			}
		}
	}
	return cells
}

// Import replaces the universe's contents with aliveCells.
func (e *Engine) Import(aliveCells []Pos) {
	e.Clear()
	e.SetCells(aliveCells, true)
}

// VisitBlocks calls f once per populated block, passing its block
// coordinate and packed rows. It is the read path the raster package
// uses for sparse/dense rendering, kept in terms of plain int64s
// rather than BlockCoord so raster need not import this package's
// type.
func (e *Engine) VisitBlocks(f func(blockX, blockY int64, rows [bitblock.Size]uint64)) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	for c, b := range e.blocks {
		f(c.X, c.Y, b.Rows)
	}
}

// BlockAt returns the packed rows of the block at (blockX, blockY),
// if present.
func (e *Engine) BlockAt(blockX, blockY int64) ([bitblock.Size]uint64, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	b, ok := e.blocks[BlockCoord{blockX, blockY}]
	if !ok {
		return [bitblock.Size]uint64{}, false
	}
	return b.Rows, true
}

// Step advances the universe by steps generations and returns the
// number of generations actually advanced: steps, unless ctx is
// cancelled, in which case the count completed before cancellation.
func (e *Engine) Step(ctx context.Context, steps uint64) uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	if ctx == nil {
		ctx = context.Background()
	}
	for i := uint64(0); i < steps; i++ {
		if ctx.Err() != nil {
			return i
		}
		e.stepOnce()
		e.generation++
	}
	return steps
}

func (e *Engine) stepOnce() {
	// The active set is already dilated: SetCells seeds all nine
	// positions around a mutation, and the post-step pass below
	// re-seeds each surviving block plus the neighbours its live
	// borders could reach.
	evalList := make([]BlockCoord, 0, len(e.active))
	for c := range e.active {
		evalList = append(evalList, c)
	}

	results := resultPool.Get(len(evalList))
	var resultsMu sync.Mutex

	workers := e.workers
	if workers < 1 {
		workers = 1
	}
	jobs := make(chan BlockCoord, workers)
	var wg sync.WaitGroup

	worker := func() {
		defer wg.Done()
		for pos := range jobs {
			current := e.blocks[pos]
			if current == nil {
				hasNeighbor := false
				for dy := int64(-1); dy <= 1 && !hasNeighbor; dy++ {
					for dx := int64(-1); dx <= 1; dx++ {
						if dx == 0 && dy == 0 {
							continue
						}
						if _, ok := e.blocks[add(pos, dx, dy)]; ok {
							hasNeighbor = true
							break
						}
					}
				}
				if !hasNeighbor {
					continue
				}
			}

			var empty bitblock.Block
			currRef := current
			if currRef == nil {
				currRef = &empty
			}

			var neighbors [8]*bitblock.Block
			for dir, d := range bitblock.Delta {
				neighbors[dir] = e.blocks[add(pos, d[0], d[1])]
			}

			next, alive := bitblock.StepWithBorders(currRef, neighbors)
			if alive {
				resultsMu.Lock()
				results = append(results, evalResult{pos: pos, block: next})
				resultsMu.Unlock()
			}
		}
	}

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go worker()
	}
	for _, c := range evalList {
		jobs <- c
	}
	close(jobs)
	wg.Wait()

	nextBlocks := make(map[BlockCoord]*bitblock.Block, len(results))
	nextActive := make(map[BlockCoord]struct{}, len(results)*2)
	for _, r := range results {
		block := r.block
		nextBlocks[r.pos] = &block
		nextActive[r.pos] = struct{}{}
		flags := bitblock.BorderFlags(&block)
		for dir, d := range bitblock.Delta {
			if flags&(1<<uint(dir)) != 0 {
				nextActive[add(r.pos, d[0], d[1])] = struct{}{}
			}
		}
	}

	e.blocks = nextBlocks
	e.active = nextActive
	resultPool.Put(results)
}
