// Copyright 2024 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hashlife

import (
	"context"

	"github.com/cainydev/life/internal/pool"
	"github.com/cainydev/life/internal/xsort"
)

// Pos is a single absolute integer-grid coordinate.
type Pos struct {
	X, Y int64
}

// relPool recycles the scratch buffers SetCells builds for each batch
// of relative coordinates.
var relPool = pool.NewSlice[[2]uint64](1024, 1<<20)

// Universe is a HashLife simulation: a canonical root Node plus the
// world-space origin of that node's NW corner. Root and origin both
// move as Step expands and evolves the tree.
type Universe struct {
	cache      *Cache
	root       *Node
	generation uint64
	originX    int64
	originY    int64
}

// New returns a Universe seeded with an empty level-4 (16x16) root.
func New() *Universe {
	cache := NewCache()
	return &Universe{
		cache: cache,
		root:  cache.EmptyNode(4),
	}
}

func (u *Universe) ID() string   { return "hash-life" }
func (u *Universe) Name() string { return "HashLife" }

// Generation reports the number of elapsed generations.
func (u *Universe) Generation() uint64 { return u.generation }

// Population returns the live-cell count, read directly from the
// root's cached Population field.
func (u *Universe) Population() uint64 { return u.root.Population }

// Root returns the universe's current root node, for callers (such as
// the raster package) that need to walk the quadtree directly.
func (u *Universe) Root() *Node { return u.root }

// OriginX returns the world-space X coordinate of the root's NW
// corner.
func (u *Universe) OriginX() int64 { return u.originX }

// OriginY returns the world-space Y coordinate of the root's NW
// corner.
func (u *Universe) OriginY() int64 { return u.originY }

// Clone returns an independent Universe sharing the same hash-cons
// cache (nodes are immutable, so sharing it is safe and avoids
// recanonicalising the whole tree) but free to diverge in root,
// origin and generation from u.
func (u *Universe) Clone() *Universe {
	clone := *u
	return &clone
}

// Clear resets the universe to an empty level-4 root at the origin.
func (u *Universe) Clear() {
	u.root = u.cache.EmptyNode(4)
	u.originX = 0
	u.originY = 0
	u.generation = 0
}

// GetCell reports whether pos is alive.
func (u *Universe) GetCell(pos Pos) bool {
	size := u.root.Size()
	relX := pos.X - u.originX
	relY := pos.Y - u.originY
	if relX < 0 || relY < 0 || relX >= size || relY >= size {
		return false
	}
	return recursiveGet(u.root, size, uint64(relX), uint64(relY))
}

func recursiveGet(node *Node, size int64, x, y uint64) bool {
	if node.Population == 0 {
		return false
	}
	if node.IsLeaf() {
		return (node.Bits()>>(y*8+x))&1 == 1
	}
	nw, ne, sw, se := node.Children()
	half := uint64(size / 2)
	switch {
	case x < half && y < half:
		return recursiveGet(nw, size/2, x, y)
	case x >= half && y < half:
		return recursiveGet(ne, size/2, x-half, y)
	case x < half && y >= half:
		return recursiveGet(sw, size/2, x, y-half)
	default:
		return recursiveGet(se, size/2, x-half, y-half)
	}
}

// SetCell sets a single cell's liveness.
func (u *Universe) SetCell(pos Pos, alive bool) {
	u.SetCells([]Pos{pos}, alive)
}

// SetCells applies a batch of liveness changes. Points are sorted and
// the tree is updated with one combined recursive descent per level,
// rather than one descent per point.
func (u *Universe) SetCells(coords []Pos, alive bool) {
	if len(coords) == 0 {
		return
	}
	for _, p := range coords {
		u.expandToFit(p.X, p.Y)
	}

	points := append([]Pos(nil), coords...)
	// Sort row-major; the recursive descent below partitions the points
	// by quadrant, so each touched subtree is rebuilt once.
	xsort.Sort(context.Background(), points, func(a, b Pos) bool {
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.X < b.X
	})

	rel := relPool.Get(len(points))[:len(points)]
	defer relPool.Put(rel)
	for i, p := range points {
		rel[i] = [2]uint64{uint64(p.X - u.originX), uint64(p.Y - u.originY)}
	}

	size := uint64(u.root.Size())
	u.root = u.recursiveSetBatch(u.root, size, 0, 0, rel, alive)
}

func (u *Universe) recursiveSetBatch(node *Node, size, offX, offY uint64, points [][2]uint64, alive bool) *Node {
	if len(points) == 0 {
		return node
	}

	if node.IsLeaf() {
		bits := node.Bits()
		for _, p := range points {
			lx := p[0] - offX
			ly := p[1] - offY
			if lx < 8 && ly < 8 {
				idx := ly*8 + lx
				if alive {
					bits |= 1 << idx
				} else {
					bits &^= 1 << idx
				}
			}
		}
		return u.cache.GetLeaf(bits)
	}

	nw, ne, sw, se := node.Children()
	half := size / 2

	var nwPts, nePts, swPts, sePts [][2]uint64
	for _, p := range points {
		lx := p[0] - offX
		ly := p[1] - offY
		switch {
		case lx < half && ly < half:
			nwPts = append(nwPts, p)
		case lx >= half && ly < half:
			nePts = append(nePts, p)
		case lx < half && ly >= half:
			swPts = append(swPts, p)
		default:
			sePts = append(sePts, p)
		}
	}

	newNW := u.recursiveSetBatch(nw, half, offX, offY, nwPts, alive)
	newNE := u.recursiveSetBatch(ne, half, offX+half, offY, nePts, alive)
	newSW := u.recursiveSetBatch(sw, half, offX, offY+half, swPts, alive)
	newSE := u.recursiveSetBatch(se, half, offX+half, offY+half, sePts, alive)

	return u.cache.Join(newNW, newNE, newSW, newSE)
}

// Export returns every live cell in the universe.
func (u *Universe) Export() []Pos {
	var out []Pos
	recursiveExport(u.root, u.originX, u.originY, u.root.Size(), &out)
	return out
}

func recursiveExport(node *Node, x, y int64, size int64, out *[]Pos) {
	if node.Population == 0 {
		return
	}
	if node.IsLeaf() {
		bits := node.Bits()
		for row := int64(0); row < 8; row++ {
			for col := int64(0); col < 8; col++ {
				if (bits>>uint(row*8+col))&1 == 1 {
					*out = append(*out, Pos{X: x + col, Y: y + row})
				}
			}
		}
		return
	}
	nw, ne, sw, se := node.Children()
	half := size / 2
	recursiveExport(nw, x, y, half, out)
	recursiveExport(ne, x+half, y, half, out)
	recursiveExport(sw, x, y+half, half, out)
	recursiveExport(se, x+half, y+half, half, out)
}

// Import clears the universe and seeds it with the given live cells.
func (u *Universe) Import(aliveCells []Pos) {
	u.Clear()
	u.SetCells(aliveCells, true)
}

// IsPadded reports whether the live population is wholly contained
// within the root's central square of half its side length (the inner
// quadrant of each child). Step requires this, and then expands once
// more, before evolving.
func (u *Universe) IsPadded() bool {
	if u.root.IsLeaf() {
		return false
	}
	nw, ne, sw, se := u.root.Children()

	innerPop := func(n *Node, quadrant int) uint64 {
		if n.IsLeaf() {
			return 0
		}
		cnw, cne, csw, cse := n.Children()
		switch quadrant {
		case 0:
			return cnw.Population
		case 1:
			return cne.Population
		case 2:
			return csw.Population
		default:
			return cse.Population
		}
	}

	inner := innerPop(nw, 3) + innerPop(ne, 2) + innerPop(sw, 1) + innerPop(se, 0)
	return u.root.Population == inner
}

// expandToFit grows the universe until (x, y) lies within the root's
// bounds, bounded to stop runaway growth on pathological coordinates.
func (u *Universe) expandToFit(x, y int64) {
	for i := 0; i < 20; i++ {
		size := u.root.Size()
		relX := x - u.originX
		relY := y - u.originY
		if relX >= 0 && relY >= 0 && relX < size && relY < size {
			return
		}
		u.expand()
	}
}

// expand wraps the root one level higher, centring the old root
// inside a sea of empty space and shifting the origin so the centred
// region stays put in world coordinates.
func (u *Universe) expand() {
	root := u.root

	if root.IsLeaf() {
		empty := u.cache.EmptyNode(root.Level())
		u.root = u.cache.Join(root, empty, empty, empty)
		return
	}

	nw, ne, sw, se := root.Children()
	level := root.Level()
	empty := u.cache.EmptyNode(level - 1)

	newNW := u.cache.Join(empty, empty, empty, nw)
	newNE := u.cache.Join(empty, empty, ne, empty)
	newSW := u.cache.Join(empty, sw, empty, empty)
	newSE := u.cache.Join(se, empty, empty, empty)

	u.root = u.cache.Join(newNW, newNE, newSW, newSE)

	shift := int64(1) << (level - 1)
	u.originX -= shift
	u.originY -= shift
}

// Step advances the universe by exactly steps generations, taking the
// largest 2^k jump available at each iteration. It
// returns the number of generations actually advanced.
func (u *Universe) Step(ctx context.Context, steps uint64) uint64 {
	if steps == 0 {
		return 0
	}
	total := steps

	for steps > 0 {
		if ctx.Err() != nil {
			break
		}

		for i := 0; i < 60; i++ {
			if u.root.Level() < 5 || !u.IsPadded() {
				u.expand()
			} else {
				break
			}
		}
		// Padding alone leaves no margin: a cell born just outside the
		// central square would fall outside the evolved result. One more
		// expansion keeps the pattern inside the central quarter.
		u.expand()

		maxJump := uint64(1) << (u.root.Level() - 2)

		var taken uint64
		if steps >= maxJump {
			u.root = u.cache.Evolve(u.root)
			taken = maxJump
		} else {
			u.root = u.cache.Evolve1(u.root)
			taken = 1
		}
		steps -= taken

		shift := int64(1) << (u.root.Level() - 1)
		u.originX += shift
		u.originY += shift
	}

	done := total - steps
	u.generation += done
	return done
}
