// Copyright 2024 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package life

import (
	"context"
	"sort"
	"testing"

	"github.com/cainydev/life/raster"
)

func allModes() []EngineMode { return []EngineMode{ModeSparse, ModeArena, ModeHash} }

func sortPos(ps []Pos) {
	sort.Slice(ps, func(i, j int) bool {
		if ps[i].Y != ps[j].Y {
			return ps[i].Y < ps[j].Y
		}
		return ps[i].X < ps[j].X
	})
}

func translate(ps []Pos, dx, dy int64) []Pos {
	out := make([]Pos, len(ps))
	for i, p := range ps {
		out[i] = Pos{p.X + dx, p.Y + dy}
	}
	return out
}

func assertSameSet(t *testing.T, got, want []Pos, msg string) {
	t.Helper()
	got = append([]Pos(nil), got...)
	want = append([]Pos(nil), want...)
	sortPos(got)
	sortPos(want)
	if len(got) != len(want) {
		t.Fatalf("%s: got %d cells, want %d (got=%v want=%v)", msg, len(got), len(want), got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("%s: got=%v want=%v", msg, got, want)
		}
	}
}

// TestFactoryRoundTrip checks that clear-import-export returns the
// seed unchanged for every engine mode.
func TestFactoryRoundTrip(t *testing.T) {
	seed := []Pos{{0, 0}, {1, 0}, {0, 1}, {1, 1}, {-70, 40}, {5, -5}}
	for _, mode := range allModes() {
		e, err := New(mode)
		if err != nil {
			t.Fatalf("New(%v): %v", mode, err)
		}
		e.Clear()
		e.Import(seed)
		assertSameSet(t, e.Export(), seed, mode.String()+" import/export")
		if e.Population() != uint64(len(seed)) {
			t.Fatalf("%s: Population() = %d, want %d", mode, e.Population(), len(seed))
		}
	}
}

// TestBlinkerAllEngines checks the blinker's period-2 oscillation on
// every engine.
func TestBlinkerAllEngines(t *testing.T) {
	seed := []Pos{{-1, 0}, {0, 0}, {1, 0}}
	vertical := []Pos{{0, -1}, {0, 0}, {0, 1}}
	for _, mode := range allModes() {
		e, _ := New(mode)
		e.Import(seed)

		if n := e.Step(context.Background(), 1); n != 1 {
			t.Fatalf("%s: Step(1) = %d, want 1", mode, n)
		}
		assertSameSet(t, e.Export(), vertical, mode.String()+" after step 1")
		if e.Population() != 3 {
			t.Fatalf("%s: population after step 1 = %d, want 3", mode, e.Population())
		}

		if n := e.Step(context.Background(), 1); n != 1 {
			t.Fatalf("%s: Step(1) = %d, want 1", mode, n)
		}
		assertSameSet(t, e.Export(), seed, mode.String()+" after step 2")
		if e.Population() != 3 {
			t.Fatalf("%s: population after step 2 = %d, want 3", mode, e.Population())
		}
	}
}

// TestBlockStillLife checks that a 2x2 block never changes.
func TestBlockStillLife(t *testing.T) {
	seed := []Pos{{0, 0}, {1, 0}, {0, 1}, {1, 1}}
	for _, mode := range allModes() {
		e, _ := New(mode)
		e.Import(seed)
		for _, n := range []uint64{1, 10, 100, 1000} {
			e2, _ := New(mode)
			e2.Import(seed)
			e2.Step(context.Background(), n)
			assertSameSet(t, e2.Export(), seed, mode.String())
		}
	}
}

// TestGliderTranslates checks that a glider returns to its own shape
// translated by (k,-k) every 4 generations, in the N=dy-1 orientation
// this repository uses throughout.
func TestGliderTranslates(t *testing.T) {
	seed := []Pos{{0, 0}, {1, 0}, {2, 0}, {2, 1}, {1, 2}}
	for _, mode := range allModes() {
		for _, k := range []int64{1, 10, 75} {
			e, _ := New(mode)
			e.Import(seed)
			e.Step(context.Background(), uint64(4*k))
			want := translate(seed, k, -k)
			assertSameSet(t, e.Export(), want, mode.String())
		}
	}
}

// TestCrossEngineEquivalence checks that any two engines seeded with
// the same pattern agree at each of a fixed set of generations.
func TestCrossEngineEquivalence(t *testing.T) {
	patterns := [][]Pos{
		{{-1, 0}, {0, 0}, {1, 0}},                    // blinker
		{{0, 0}, {1, 0}, {2, 0}, {2, 1}, {1, 2}},      // glider
		{{0, 0}, {1, 0}, {-1, 1}, {0, 1}, {0, 2}},     // r-pentomino
		append([]Pos(nil), HexadecagonSeed...),
	}
	gens := []uint64{0, 1, 2, 10, 37}

	for _, seed := range patterns {
		var reference []Pos
		for _, gen := range gens {
			for i, mode := range allModes() {
				e, _ := New(mode)
				e.Import(seed)
				e.Step(context.Background(), gen)
				got := append([]Pos(nil), e.Export()...)
				sortPos(got)
				if i == 0 {
					reference = got
					continue
				}
				assertSameSet(t, got, reference, mode.String())
			}
		}
	}
}

// TestRPentominoPopulationTrace checks that the r-pentomino's
// population sequence at a fixed set of generations is bit-exact
// across engines.
func TestRPentominoPopulationTrace(t *testing.T) {
	if testing.Short() {
		t.Skip("generation 1103 is expensive under -short")
	}
	seed := []Pos{{0, 0}, {1, 0}, {-1, 1}, {0, 1}, {0, 2}}
	checkpoints := []uint64{1, 2, 10, 100, 1103}

	var want []uint64
	for _, mode := range allModes() {
		e, _ := New(mode)
		e.Import(seed)
		var got []uint64
		var last uint64
		for _, gen := range checkpoints {
			e.Step(context.Background(), gen-last)
			last = gen
			got = append(got, e.Population())
		}
		if want == nil {
			want = got
			continue
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("%s: population at generation %d = %d, want %d", mode, checkpoints[i], got[i], want[i])
			}
		}
	}
}

// TestBatchedSetMatchesIndividual checks that seeding the hexadecagon
// via one SetCells call agrees, after one step, with seeding it via 16
// individual SetCell calls.
func TestBatchedSetMatchesIndividual(t *testing.T) {
	for _, mode := range allModes() {
		batched, _ := New(mode)
		batched.SetCells(HexadecagonSeed, true)
		batched.Step(context.Background(), 1)

		individual, _ := New(mode)
		for _, p := range HexadecagonSeed {
			individual.SetCell(p, true)
		}
		individual.Step(context.Background(), 1)

		assertSameSet(t, batched.Export(), individual.Export(), mode.String())
	}
}

// TestRasterSanity renders a single live cell at (5,5) over the world
// rectangle [0,10)x[0,10): at 10x10 exactly one pixel lights up, at
// 100x100 the cell covers the 10x10 pixel block [50,60)x[50,60).
func TestRasterSanity(t *testing.T) {
	for _, mode := range allModes() {
		e, _ := New(mode)
		e.SetCell(Pos{5, 5}, true)

		buf := make([]byte, 10*10)
		e.DrawToBuffer(raster.Viewport{MinX: 0, MinY: 0, Width: 10, Height: 10}, buf, 10, 10)

		nonZero := 0
		for i, v := range buf {
			if v != 0 {
				nonZero++
				x, y := i%10, i/10
				if x != 5 || y != 5 {
					t.Fatalf("%s: unexpected non-zero pixel at (%d,%d)", mode, x, y)
				}
			}
		}
		if nonZero != 1 {
			t.Fatalf("%s: got %d non-zero pixels, want 1", mode, nonZero)
		}

		buf100 := make([]byte, 100*100)
		e.DrawToBuffer(raster.Viewport{MinX: 0, MinY: 0, Width: 10, Height: 10}, buf100, 100, 100)
		nonZero = 0
		for i, v := range buf100 {
			if v != 0 {
				nonZero++
				x, y := i%100, i/100
				if x < 50 || x >= 60 || y < 50 || y >= 60 {
					t.Fatalf("%s: non-zero pixel (%d,%d) outside expected 10x10 block", mode, x, y)
				}
			}
		}
		if nonZero != 100 {
			t.Fatalf("%s: got %d non-zero pixels, want 100", mode, nonZero)
		}
	}
}

// TestSwitchEngine checks that the new engine's state equals the old
// engine's export, and that the generation counter is not carried
// over.
func TestSwitchEngine(t *testing.T) {
	old, _ := New(ModeSparse)
	old.Import([]Pos{{-1, 0}, {0, 0}, {1, 0}})
	old.Step(context.Background(), 5)

	next, err := SwitchEngine(old, ModeHash)
	if err != nil {
		t.Fatalf("SwitchEngine: %v", err)
	}
	assertSameSet(t, next.Export(), old.Export(), "switch export")
	if next.Generation() != 0 {
		t.Fatalf("Generation() after switch = %d, want 0", next.Generation())
	}
}

// TestBoxClone checks that a clone starts with the same cells and
// generation, and diverges independently afterwards.
func TestBoxClone(t *testing.T) {
	for _, mode := range allModes() {
		e, _ := New(mode)
		e.Import([]Pos{{0, 0}, {1, 0}, {0, 1}, {1, 1}})
		e.Step(context.Background(), 3)

		clone := e.BoxClone()
		assertSameSet(t, clone.Export(), e.Export(), mode.String()+" clone export")
		if clone.Generation() != e.Generation() {
			t.Fatalf("%s: clone generation = %d, want %d", mode, clone.Generation(), e.Generation())
		}

		clone.SetCell(Pos{50, 50}, true)
		if e.GetCell(Pos{50, 50}) {
			t.Fatalf("%s: mutating clone leaked into original", mode)
		}
	}
}

func TestNewUnknownMode(t *testing.T) {
	if _, err := New(EngineMode(99)); err == nil {
		t.Fatal("New(99) = nil error, want ErrUnknownEngineMode")
	}
}
