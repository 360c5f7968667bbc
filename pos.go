// Copyright 2024 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package life is the root of the infinite-plane cellular-automaton
// module: the Engine contract every concrete engine (sparselife,
// arenalife, hashlife) implements, the factory that selects one of
// them, and the background step scheduler a host drives once per
// frame.
package life

// Pos is a world-space cell coordinate, a signed 64-bit 2-vector.
// Every concrete engine package
// declares its own identically-shaped Pos so it has no dependency on
// this root package; adapters.go converts between them one value at a
// time (a single Pos converts directly; Go does not extend that
// conversion to slices of two distinct named element types).
type Pos struct{ X, Y int64 }
