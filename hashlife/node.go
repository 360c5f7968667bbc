// Copyright 2024 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package hashlife implements Gosper's HashLife: an immutable,
// hash-consed quadtree with memoised time-evolution, capable of
// exponential speed-ups on self-similar patterns.
package hashlife

import "sync"

// LeafLevel is the level of a Leaf node (an 8x8 grid packed into one
// 64-bit word).
const LeafLevel = 3

// Node is an immutable quadtree node: either a Leaf (8x8 bitmap,
// level 3) or a Branch of four equal-level children (level >= 4).
// Nodes are canonicalised by Cache.GetLeaf/Join/EmptyNode: structural
// sharing means two nodes with the same data are the same *Node, so
// comparing pointers is sound for equality.
type Node struct {
	leaf bool
	bits uint64

	nw, ne, sw, se *Node
	level          uint8

	Population uint64
	Hash       uint64

	warp  onceNode // result of Evolve: 2^(level-2) generations
	step1 onceNode // result of Evolve1: exactly 1 generation
}

// onceNode is a write-once memo cell: concurrent callers racing to
// compute the same result converge on a single stored answer.
type onceNode struct {
	once sync.Once
	node *Node
}

func (o *onceNode) get(compute func() *Node) *Node {
	o.once.Do(func() { o.node = compute() })
	return o.node
}

// Level returns the node's level: 3 for a Leaf, else the Branch's
// stored level.
func (n *Node) Level() uint8 {
	if n.leaf {
		return LeafLevel
	}
	return n.level
}

// IsLeaf reports whether n is a Leaf.
func (n *Node) IsLeaf() bool { return n.leaf }

// Bits returns the packed 8x8 bitmap of a Leaf. Calling it on a
// Branch is a programming error.
func (n *Node) Bits() uint64 {
	if !n.leaf {
		panic("hashlife: Bits called on a Branch node")
	}
	return n.bits
}

// Children returns the four equal-level children of a Branch. Calling
// it on a Leaf is a programming error.
func (n *Node) Children() (nw, ne, sw, se *Node) {
	if n.leaf {
		panic("hashlife: Children called on a Leaf node")
	}
	return n.nw, n.ne, n.sw, n.se
}

// Size returns the node's side length in cells: 2^Level().
func (n *Node) Size() int64 {
	return int64(1) << n.Level()
}
