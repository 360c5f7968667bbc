// Copyright 2024 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hashlife

import (
	"math/bits"
	"sync"
	"sync/atomic"
)

// The hash-cons map is split across 256 independently-locked shards,
// keyed by each node's own hash, so concurrent canonicalisation does
// not serialise on one global mutex.
const numShards = 256

// nodeKey is the hash-cons lookup key. Branch equality compares
// levels and the identity (pointer equality) of the four children:
// children are always already-canonical nodes, so Go struct equality
// over these fields is exactly structural-sharing equality.
type nodeKey struct {
	leaf           bool
	bits           uint64
	nw, ne, sw, se *Node
	level          uint8
}

func hashBytes(v uint64) uint64 {
	// FNV-1a over the 8 bytes of v.
	const offset = 14695981039346656037
	const prime = 1099511628211
	h := uint64(offset)
	for i := 0; i < 8; i++ {
		h ^= (v >> (8 * i)) & 0xFF
		h *= prime
	}
	return h
}

func combineHash(parts ...uint64) uint64 {
	const prime = 1099511628211
	h := uint64(14695981039346656037)
	for _, p := range parts {
		h ^= p
		h *= prime
	}
	return h
}

func (k nodeKey) hash() uint64 {
	if k.leaf {
		return hashBytes(k.bits)
	}
	return combineHash(k.nw.Hash, k.ne.Hash, k.sw.Hash, k.se.Hash, uint64(k.level))
}

type cacheShard struct {
	mu     sync.RWMutex
	nodes  map[nodeKey]*Node
	hits   atomic.Uint64
	misses atomic.Uint64
}

// Cache is the hash-cons cache: it canonicalises node data into
// unique, shared *Node values and holds the per-level vector of
// canonical empty nodes.
type Cache struct {
	shards [numShards]cacheShard

	emptyMu    sync.Mutex
	emptyNodes []*Node
}

// NewCache builds a cache seeded with the canonical empty Leaf.
func NewCache() *Cache {
	c := &Cache{}
	for i := range c.shards {
		c.shards[i].nodes = make(map[nodeKey]*Node)
	}
	base := c.GetLeaf(0)
	c.emptyNodes = []*Node{base}
	return c
}

func (c *Cache) getNode(key nodeKey) *Node {
	h := key.hash()
	shard := &c.shards[h&(numShards-1)]

	shard.mu.RLock()
	if node, ok := shard.nodes[key]; ok {
		shard.mu.RUnlock()
		shard.hits.Add(1)
		return node
	}
	shard.mu.RUnlock()

	shard.mu.Lock()
	defer shard.mu.Unlock()
	if node, ok := shard.nodes[key]; ok {
		shard.hits.Add(1)
		return node
	}

	var population uint64
	if key.leaf {
		population = uint64(bits.OnesCount64(key.bits))
	} else {
		population = key.nw.Population + key.ne.Population + key.sw.Population + key.se.Population
	}

	node := &Node{
		leaf:       key.leaf,
		bits:       key.bits,
		nw:         key.nw,
		ne:         key.ne,
		sw:         key.sw,
		se:         key.se,
		level:      key.level,
		Population: population,
		Hash:       h,
	}
	shard.nodes[key] = node
	shard.misses.Add(1)
	return node
}

// GetLeaf canonicalises an 8x8 bitmap into a Leaf node.
func (c *Cache) GetLeaf(bitsVal uint64) *Node {
	return c.getNode(nodeKey{leaf: true, bits: bitsVal})
}

// Join combines four equal-level children into a canonical Branch one
// level higher. Mismatched levels are a programming error and panic
// rather than silently producing a malformed tree.
func (c *Cache) Join(nw, ne, sw, se *Node) *Node {
	level := nw.Level()
	if ne.Level() != level || sw.Level() != level || se.Level() != level {
		panic("hashlife: join requires four equal-level children")
	}
	return c.getNode(nodeKey{nw: nw, ne: ne, sw: sw, se: se, level: level + 1})
}

// EmptyNode returns the canonical all-dead node at the given level,
// building and caching it on first request.
func (c *Cache) EmptyNode(level uint8) *Node {
	if level <= LeafLevel {
		return c.emptyAt(0)
	}
	idx := int(level) - LeafLevel
	if n := c.emptyAt(idx); n != nil {
		return n
	}
	child := c.EmptyNode(level - 1)
	node := c.Join(child, child, child, child)
	c.setEmptyAt(idx, node)
	return node
}

func (c *Cache) emptyAt(idx int) *Node {
	c.emptyMu.Lock()
	defer c.emptyMu.Unlock()
	if idx < len(c.emptyNodes) {
		return c.emptyNodes[idx]
	}
	return nil
}

func (c *Cache) setEmptyAt(idx int, n *Node) {
	c.emptyMu.Lock()
	defer c.emptyMu.Unlock()
	for len(c.emptyNodes) <= idx {
		c.emptyNodes = append(c.emptyNodes, nil)
	}
	c.emptyNodes[idx] = n
}

// Stats reports aggregate hit/miss/size counters across all shards.
type Stats struct {
	Hits, Misses uint64
	Size         int
}

// Stats returns the cache's current hit/miss/size counters.
func (c *Cache) Stats() Stats {
	var s Stats
	for i := range c.shards {
		sh := &c.shards[i]
		s.Hits += sh.hits.Load()
		s.Misses += sh.misses.Load()
		sh.mu.RLock()
		s.Size += len(sh.nodes)
		sh.mu.RUnlock()
	}
	return s
}
