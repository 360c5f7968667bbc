// Copyright 2024 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package life

import (
	"github.com/cainydev/life/arenalife"
	"github.com/cainydev/life/hashlife"
	"github.com/cainydev/life/raster"
	"github.com/cainydev/life/sparselife"
)

// Each concrete engine package declares its own Pos type with the
// identical underlying shape (struct{ X, Y int64 }), so a single value
// converts with a plain T(v) conversion; Go does not extend that to
// slices of two distinct named element types, so batches are copied
// element-by-element below.

func sparsePosSlice(ps []Pos) []sparselife.Pos {
	out := make([]sparselife.Pos, len(ps))
	for i, p := range ps {
		out[i] = sparselife.Pos(p)
	}
	return out
}

func fromSparsePosSlice(ps []sparselife.Pos) []Pos {
	out := make([]Pos, len(ps))
	for i, p := range ps {
		out[i] = Pos(p)
	}
	return out
}

func arenaPosSlice(ps []Pos) []arenalife.Pos {
	out := make([]arenalife.Pos, len(ps))
	for i, p := range ps {
		out[i] = arenalife.Pos(p)
	}
	return out
}

func fromArenaPosSlice(ps []arenalife.Pos) []Pos {
	out := make([]Pos, len(ps))
	for i, p := range ps {
		out[i] = Pos(p)
	}
	return out
}

func hashPosSlice(ps []Pos) []hashlife.Pos {
	out := make([]hashlife.Pos, len(ps))
	for i, p := range ps {
		out[i] = hashlife.Pos(p)
	}
	return out
}

func fromHashPosSlice(ps []hashlife.Pos) []Pos {
	out := make([]Pos, len(ps))
	for i, p := range ps {
		out[i] = Pos(p)
	}
	return out
}

// sparseEngine adapts *sparselife.Engine to the Engine interface.
// Every promoted method (ID, Name, Generation, Population, Clear,
// Step) already matches the contract exactly; only the Pos-typed and
// draw/clone methods need an explicit wrapper.
type sparseEngine struct{ *sparselife.Engine }

func (s sparseEngine) SetCell(pos Pos, alive bool) {
	s.Engine.SetCell(sparselife.Pos(pos), alive)
}

func (s sparseEngine) SetCells(coords []Pos, alive bool) {
	s.Engine.SetCells(sparsePosSlice(coords), alive)
}

func (s sparseEngine) GetCell(pos Pos) bool {
	return s.Engine.GetCell(sparselife.Pos(pos))
}

func (s sparseEngine) Import(aliveCells []Pos) {
	s.Engine.Import(sparsePosSlice(aliveCells))
}

func (s sparseEngine) Export() []Pos {
	return fromSparsePosSlice(s.Engine.Export())
}

func (s sparseEngine) DrawToBuffer(vp raster.Viewport, buf []byte, width, height int) {
	raster.DrawBlocks(s.Engine, vp, buf, width, height)
}

func (s sparseEngine) BoxClone() Engine {
	return sparseEngine{s.Engine.Clone()}
}

// arenaEngine adapts *arenalife.Engine to the Engine interface.
type arenaEngine struct{ *arenalife.Engine }

func (a arenaEngine) SetCell(pos Pos, alive bool) {
	a.Engine.SetCell(arenalife.Pos(pos), alive)
}

func (a arenaEngine) SetCells(coords []Pos, alive bool) {
	a.Engine.SetCells(arenaPosSlice(coords), alive)
}

func (a arenaEngine) GetCell(pos Pos) bool {
	return a.Engine.GetCell(arenalife.Pos(pos))
}

func (a arenaEngine) Import(aliveCells []Pos) {
	a.Engine.Import(arenaPosSlice(aliveCells))
}

func (a arenaEngine) Export() []Pos {
	return fromArenaPosSlice(a.Engine.Export())
}

func (a arenaEngine) DrawToBuffer(vp raster.Viewport, buf []byte, width, height int) {
	raster.DrawBlocks(a.Engine, vp, buf, width, height)
}

func (a arenaEngine) BoxClone() Engine {
	return arenaEngine{a.Engine.Clone()}
}

// hashEngine adapts *hashlife.Universe to the Engine interface.
type hashEngine struct{ *hashlife.Universe }

func (h hashEngine) SetCell(pos Pos, alive bool) {
	h.Universe.SetCell(hashlife.Pos(pos), alive)
}

func (h hashEngine) SetCells(coords []Pos, alive bool) {
	h.Universe.SetCells(hashPosSlice(coords), alive)
}

func (h hashEngine) GetCell(pos Pos) bool {
	return h.Universe.GetCell(hashlife.Pos(pos))
}

func (h hashEngine) Import(aliveCells []Pos) {
	h.Universe.Import(hashPosSlice(aliveCells))
}

func (h hashEngine) Export() []Pos {
	return fromHashPosSlice(h.Universe.Export())
}

func (h hashEngine) DrawToBuffer(vp raster.Viewport, buf []byte, width, height int) {
	raster.DrawHashLife(h.Universe, vp, buf, width, height)
}

func (h hashEngine) BoxClone() Engine {
	return hashEngine{h.Universe.Clone()}
}
