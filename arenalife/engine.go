// Copyright 2024 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package arenalife implements the Arena-Block engine: 64x64 bit
// blocks stored in a slotted arena, each caching direct indices to
// its eight neighbours so the step hot path never touches the
// coordinate map.
package arenalife

import (
	"context"
	"runtime"
	"sort"
	"sync"

	"github.com/cainydev/life/bitblock"
)

// Pos is a world-space cell coordinate.
type Pos struct{ X, Y int64 }

// BlockCoord indexes the block tiling of the plane.
type BlockCoord struct{ X, Y int64 }

type block struct {
	rows        [bitblock.Size]uint64
	neighbors   [8]Index
	hasNeighbor uint8
	alive       bool
}

var offsets = [8]struct {
	dx, dy   int64
	dir, opp int
}{
	{0, -1, bitblock.N, bitblock.S},
	{0, 1, bitblock.S, bitblock.N},
	{-1, 0, bitblock.W, bitblock.E},
	{1, 0, bitblock.E, bitblock.W},
	{-1, -1, bitblock.NW, bitblock.SE},
	{1, -1, bitblock.NE, bitblock.SW},
	{-1, 1, bitblock.SW, bitblock.NE},
	{1, 1, bitblock.SE, bitblock.NW},
}

// Engine is the Arena-Block cellular-automaton engine.
type Engine struct {
	mu sync.RWMutex

	arena  *Arena[block]
	lookup map[BlockCoord]Index

	generation uint64
	workers    int
}

// New creates an empty Arena-Block engine.
func New() *Engine {
	return &Engine{
		arena:   NewArena[block](),
		lookup:  make(map[BlockCoord]Index),
		workers: runtime.NumCPU(),
	}
}

// ID returns the engine's stable identifier.
func (e *Engine) ID() string { return "arena-life" }

// Name returns a human-readable engine name.
func (e *Engine) Name() string {
	if bitblock.HasHardwareAcceleration() {
		return "ArenaLife (avx2)"
	}
	return "ArenaLife"
}

// Generation returns the number of generations advanced so far.
func (e *Engine) Generation() uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.generation
}

func popcount(x uint64) int {
	c := 0
	for x != 0 {
		x &= x - 1
		c++
	}
	return c
}

// Population returns the total number of live cells.
func (e *Engine) Population() uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	var n uint64
	e.arena.Range(func(_ Index, b *block) {
		for _, row := range b.rows {
			n += uint64(popcount(row))
		}
	})
	return n
}

// Clone returns an independent copy of e with the same live cells and
// generation counter, grounded on the Engine contract's box_clone
// capability: rather than share the arena, the cloned
// engine is rebuilt from e's exported cells so its arena indices and
// neighbour links are entirely its own.
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
	e.arena.Clear()
	e.lookup = make(map[BlockCoord]Index)
	e.generation = 0
}

func (e *Engine) link(pos BlockCoord, idx Index) {
	b := e.arena.Get(idx)
	for _, o := range offsets {
		neighborPos := BlockCoord{pos.X + o.dx, pos.Y + o.dy}
		if nIdx, ok := e.lookup[neighborPos]; ok {
			b.neighbors[o.dir] = nIdx
			b.hasNeighbor |= 1 << uint(o.dir)
			nb := e.arena.Get(nIdx)
			nb.neighbors[o.opp] = idx
			nb.hasNeighbor |= 1 << uint(o.opp)
		}
	}
}

func (e *Engine) spawnBlock(pos BlockCoord) Index {
	if idx, ok := e.lookup[pos]; ok {
		return idx
	}
	idx := e.arena.Insert(block{})
	e.lookup[pos] = idx
	e.link(pos, idx)
	return idx
}

// unlink clears the reverse pointers held by pos's surviving
// neighbours before its slot is freed.
func (e *Engine) unlink(pos BlockCoord, idx Index) {
	for _, o := range offsets {
		neighborPos := BlockCoord{pos.X + o.dx, pos.Y + o.dy}
		if nIdx, ok := e.lookup[neighborPos]; ok {
			nb := e.arena.Get(nIdx)
			if nb != nil {
				nb.hasNeighbor &^= 1 << uint(o.opp)
			}
		}
	}
	e.arena.Remove(idx)
	delete(e.lookup, pos)
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
		idx := e.spawnBlock(c)
		if alive {
			// A live cell on a border can give birth across it on the
			// very next step, so the adjacent block must exist before
			// that step runs. Spawn first: Insert may grow the arena
			// and would invalidate a held block pointer.
			west, east := lx == 0, lx == bitblock.Size-1
			north, south := ly == 0, ly == bitblock.Size-1
			if north {
				e.spawnBlock(BlockCoord{c.X, c.Y - 1})
			}
			if south {
				e.spawnBlock(BlockCoord{c.X, c.Y + 1})
			}
			if west {
				e.spawnBlock(BlockCoord{c.X - 1, c.Y})
			}
			if east {
				e.spawnBlock(BlockCoord{c.X + 1, c.Y})
			}
			if north && west {
				e.spawnBlock(BlockCoord{c.X - 1, c.Y - 1})
			}
			if north && east {
				e.spawnBlock(BlockCoord{c.X + 1, c.Y - 1})
			}
			if south && west {
				e.spawnBlock(BlockCoord{c.X - 1, c.Y + 1})
			}
			if south && east {
				e.spawnBlock(BlockCoord{c.X + 1, c.Y + 1})
			}
		}
		b := e.arena.Get(idx)
		if alive {
			b.rows[ly] |= 1 << uint(lx)
			b.alive = true
		} else {
			b.rows[ly] &^= 1 << uint(lx)
		}
	}
}

// GetCell reports whether the cell at pos is alive.
func (e *Engine) GetCell(pos Pos) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	bx, by, lx, ly := bitblock.Coords(pos.X, pos.Y)
	idx, ok := e.lookup[BlockCoord{bx, by}]
	if !ok {
		return false
	}
	b := e.arena.Get(idx)
	return (b.rows[ly]>>uint(lx))&1 != 0
}

// Export returns every live cell in the universe.
func (e *Engine) Export() []Pos {
	e.mu.RLock()
	defer e.mu.RUnlock()
	var cells []Pos
	for pos, idx := range e.lookup {
		b := e.arena.Get(idx)
		if b == nil || !b.alive {
			continue
		}
		baseX, baseY := pos.X*bitblock.Size, pos.Y*bitblock.Size
		for y, row := range b.rows {
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

// VisitBlocks calls f once per live block, passing its block
// coordinate and packed rows. It is the read path the raster package
// uses for sparse/dense rendering, kept in terms of plain int64s
// rather than BlockCoord so raster need not import this package's
// type.
func (e *Engine) VisitBlocks(f func(blockX, blockY int64, rows [bitblock.Size]uint64)) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	for pos, idx := range e.lookup {
		b := e.arena.Get(idx)
		if b == nil || !b.alive {
			continue
		}
		f(pos.X, pos.Y, b.rows)
	}
}

// BlockAt returns the packed rows of the block at (blockX, blockY),
// if present and live.
func (e *Engine) BlockAt(blockX, blockY int64) ([bitblock.Size]uint64, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	idx, ok := e.lookup[BlockCoord{blockX, blockY}]
	if !ok {
		return [bitblock.Size]uint64{}, false
	}
	b := e.arena.Get(idx)
	if b == nil || !b.alive {
		return [bitblock.Size]uint64{}, false
	}
	return b.rows, true
}

func getRow(arena *Arena[block], b *block, dir, row int) uint64 {
	if b.hasNeighbor&(1<<uint(dir)) == 0 {
		return 0
	}
	n := arena.Get(b.neighbors[dir])
	if n == nil {
		return 0
	}
	return n.rows[row]
}

func bitW(arena *Arena[block], b *block, dir, row int) uint64 {
	return (getRow(arena, b, dir, row) >> 63) & 1
}

func bitE(arena *Arena[block], b *block, dir, row int) uint64 {
	return (getRow(arena, b, dir, row) & 1) << 63
}

func calcRow(up, center, down, wU, wC, wD, eU, eC, eD uint64) (res uint64, alive bool) {
	lUp := (up << 1) | wU
	rUp := (up >> 1) | eU
	lCurr := (center << 1) | wC
	rCurr := (center >> 1) | eC
	lDown := (down << 1) | wD
	rDown := (down >> 1) | eD

	var s0, s1, s2 uint64
	for _, x := range [8]uint64{lUp, up, rUp, lCurr, rCurr, lDown, down, rDown} {
		c0 := s0 & x
		s0 ^= x
		c1 := s1 & c0
		s1 ^= c0
		s2 |= c1
	}
	res = (s1 &^ s2) & (center | s0)
	return res, res != 0
}

// evolveBlockInternal computes one generation for the block at idx,
// reading its neighbours through cached arena indices, and reports
// which of its eight outward borders will be non-empty next generation
// with no linked neighbour (growth flags). Flags come from the next
// rows, not the current ones: the spawned block must exist before the
// first step that can give birth into it.
func evolveBlockInternal(arena *Arena[block], idx Index) (next [bitblock.Size]uint64, alive bool, growth uint8) {
	cur := arena.Get(idx)

	// Row 0 (north edge).
	{
		up := getRow(arena, cur, bitblock.N, bitblock.Size-1)
		center := cur.rows[0]
		down := cur.rows[1]
		res, rowAlive := calcRow(up, center, down,
			bitW(arena, cur, bitblock.NW, bitblock.Size-1), bitW(arena, cur, bitblock.W, 0), bitW(arena, cur, bitblock.W, 1),
			bitE(arena, cur, bitblock.NE, bitblock.Size-1), bitE(arena, cur, bitblock.E, 0), bitE(arena, cur, bitblock.E, 1))
		next[0] = res
		alive = alive || rowAlive
	}

	// An all-empty row triple can still produce births when a west or
	// east neighbour has live cells in its seam column, so the skip is
	// only sound when neither neighbour is linked.
	canSkip := cur.hasNeighbor&(1<<bitblock.W|1<<bitblock.E) == 0
	for y := 1; y < bitblock.Size-1; y++ {
		up := cur.rows[y-1]
		center := cur.rows[y]
		down := cur.rows[y+1]
		if canSkip && up|center|down == 0 {
			continue
		}
		res, rowAlive := calcRow(up, center, down,
			bitW(arena, cur, bitblock.W, y-1), bitW(arena, cur, bitblock.W, y), bitW(arena, cur, bitblock.W, y+1),
			bitE(arena, cur, bitblock.E, y-1), bitE(arena, cur, bitblock.E, y), bitE(arena, cur, bitblock.E, y+1))
		next[y] = res
		alive = alive || rowAlive
	}

	// Row 63 (south edge).
	{
		up := cur.rows[bitblock.Size-2]
		center := cur.rows[bitblock.Size-1]
		down := getRow(arena, cur, bitblock.S, 0)
		res, rowAlive := calcRow(up, center, down,
			bitW(arena, cur, bitblock.W, bitblock.Size-2), bitW(arena, cur, bitblock.W, bitblock.Size-1), bitW(arena, cur, bitblock.SW, 0),
			bitE(arena, cur, bitblock.E, bitblock.Size-2), bitE(arena, cur, bitblock.E, bitblock.Size-1), bitE(arena, cur, bitblock.SE, 0))
		next[bitblock.Size-1] = res
		alive = alive || rowAlive
	}

	if next[0] != 0 && cur.hasNeighbor&(1<<bitblock.N) == 0 {
		growth |= 1 << bitblock.N
	}
	if next[bitblock.Size-1] != 0 && cur.hasNeighbor&(1<<bitblock.S) == 0 {
		growth |= 1 << bitblock.S
	}
	var allOr uint64
	for _, r := range next {
		allOr |= r
	}
	if allOr&1 != 0 && cur.hasNeighbor&(1<<bitblock.W) == 0 {
		growth |= 1 << bitblock.W
	}
	if (allOr>>63) != 0 && cur.hasNeighbor&(1<<bitblock.E) == 0 {
		growth |= 1 << bitblock.E
	}
	if next[0]&1 == 1 && cur.hasNeighbor&(1<<bitblock.NW) == 0 {
		growth |= 1 << bitblock.NW
	}
	if (next[0]>>63)&1 == 1 && cur.hasNeighbor&(1<<bitblock.NE) == 0 {
		growth |= 1 << bitblock.NE
	}
	if next[bitblock.Size-1]&1 == 1 && cur.hasNeighbor&(1<<bitblock.SW) == 0 {
		growth |= 1 << bitblock.SW
	}
	if (next[bitblock.Size-1]>>63)&1 == 1 && cur.hasNeighbor&(1<<bitblock.SE) == 0 {
		growth |= 1 << bitblock.SE
	}

	return next, alive, growth
}

type evalResult struct {
	idx    Index
	pos    BlockCoord
	rows   [bitblock.Size]uint64
	alive  bool
	growth uint8
}

// Step advances the universe by steps generations.
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
	type indexed struct {
		pos BlockCoord
		idx Index
	}
	active := make([]indexed, 0, len(e.lookup))
	for pos, idx := range e.lookup {
		active = append(active, indexed{pos, idx})
	}

	results := make([]evalResult, len(active))
	workers := e.workers
	if workers < 1 {
		workers = 1
	}
	jobs := make(chan int, workers)
	var wg sync.WaitGroup
	worker := func() {
		defer wg.Done()
		for i := range jobs {
			rows, alive, growth := evolveBlockInternal(e.arena, active[i].idx)
			results[i] = evalResult{idx: active[i].idx, pos: active[i].pos, rows: rows, alive: alive, growth: growth}
		}
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go worker()
	}
	for i := range active {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	var growthRequests []BlockCoord
	for _, r := range results {
		if r.growth == 0 {
			continue
		}
		for dir, o := range offsets {
			if r.growth&(1<<uint(dir)) != 0 {
				growthRequests = append(growthRequests, BlockCoord{r.pos.X + o.dx, r.pos.Y + o.dy})
			}
		}
	}

	for _, r := range results {
		b := e.arena.Get(r.idx)
		b.rows = r.rows
		b.alive = r.alive
	}

	sort.Slice(growthRequests, func(i, j int) bool {
		if growthRequests[i].X != growthRequests[j].X {
			return growthRequests[i].X < growthRequests[j].X
		}
		return growthRequests[i].Y < growthRequests[j].Y
	})
	growthRequests = dedupCoords(growthRequests)
	for _, pos := range growthRequests {
		e.spawnBlock(pos)
	}

	// Reap blocks that are dead and have no live neighbour: nothing can
	// be born into them, so dropping them keeps the per-step scan
	// proportional to the live pattern. Reverse pointers in surviving
	// neighbours are invalidated before the slot is freed.
	var dead []indexed
	for pos, idx := range e.lookup {
		b := e.arena.Get(idx)
		if b == nil {
			continue
		}
		if b.alive {
			continue
		}
		liveNeighbor := false
		for _, o := range offsets {
			if nIdx, ok := e.lookup[BlockCoord{pos.X + o.dx, pos.Y + o.dy}]; ok {
				if nb := e.arena.Get(nIdx); nb != nil && nb.alive {
					liveNeighbor = true
					break
				}
			}
		}
		if !liveNeighbor {
			dead = append(dead, indexed{pos, idx})
		}
	}
	for _, d := range dead {
		e.unlink(d.pos, d.idx)
	}
}

func dedupCoords(cs []BlockCoord) []BlockCoord {
	if len(cs) == 0 {
		return cs
	}
	out := cs[:1]
	for _, c := range cs[1:] {
		if c != out[len(out)-1] {
			out = append(out, c)
		}
	}
	return out
}
