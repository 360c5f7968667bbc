// Copyright 2024 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build amd64

package bitblock

import "golang.org/x/sys/cpu"

// hasAVX2 reports whether the host CPU supports AVX2. The block
// evolution pipeline is pure-Go SWAR on every architecture (the
// 64-bit-word half-adder chain is itself "SIMD within a register");
// the flag is surfaced only so engines can report which code path is
// active.
func hasAVX2() bool {
	return cpu.X86.HasAVX2
}
