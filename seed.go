// Copyright 2024 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package life

// HexadecagonSeed is a 16-cell symmetric ring centred near the origin,
// a convenient non-trivial default pattern for demo hosts. It also
// exercises batched mutation in tests: seeding it with one SetCells
// call must agree with 16 individual SetCell calls.
var HexadecagonSeed = []Pos{
	{-4, 0}, {-4, -1}, {-3, -2}, {-2, -3}, {-1, -4}, {0, -4}, {1, -3}, {2, -2},
	{3, -1}, {3, 0}, {2, 1}, {1, 2}, {0, 3}, {-1, 3}, {-2, 2}, {-3, 1},
}
