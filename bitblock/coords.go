// Copyright 2024 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bitblock

// Go's / and % truncate toward zero. The block engines need floored
// division and a non-negative remainder so that negative world
// coordinates map onto blocks without a sign discontinuity at the
// origin.

// DivEuclid is the Euclidean (floored) division of a by b, b > 0.
func DivEuclid(a, b int64) int64 {
	q := a / b
	if a%b < 0 {
		q--
	}
	return q
}

// RemEuclid is the Euclidean (always non-negative) remainder of a
// modulo b, b > 0.
func RemEuclid(a, b int64) int64 {
	r := a % b
	if r < 0 {
		r += b
	}
	return r
}

// Coords splits a world coordinate (x, y) into its block coordinate
// and local (within-block) coordinate.
func Coords(x, y int64) (blockX, blockY int64, localX, localY int) {
	blockX = DivEuclid(x, Size)
	blockY = DivEuclid(y, Size)
	localX = int(RemEuclid(x, Size))
	localY = int(RemEuclid(y, Size))
	return
}
