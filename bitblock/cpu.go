// Copyright 2024 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bitblock

// HasHardwareAcceleration reports whether the running CPU exposes
// AVX2. It does not gate correctness of StepWithBorders, only what a
// host chooses to display in an engine's name/stats.
func HasHardwareAcceleration() bool {
	return hasAVX2()
}
