// Copyright 2024 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package raster rasterises a cellular-automaton universe into an
// 8-bit grayscale pixel buffer. Two paths are dispatched on population
// density: a sparse path that walks populated blocks and stamps
// screen-space rectangles, and a dense path that walks pixels and
// samples world-space cells.
package raster

import (
	"math"
	"runtime"
	"sync"

	"github.com/cainydev/life/bitblock"
	"github.com/cainydev/life/hashlife"
)

// Viewport is the world-space rectangle being rendered, with MinX/MinY
// at its upper-left corner (following the engines' Y-down convention).
type Viewport struct {
	MinX, MinY float64
	Width      float64
	Height     float64
}

// BlockGrid is the read-only view a block-tiled engine (sparselife or
// arenalife) exposes for rasterisation.
type BlockGrid interface {
	Population() uint64
	VisitBlocks(f func(blockX, blockY int64, rows [bitblock.Size]uint64))
	BlockAt(blockX, blockY int64) ([bitblock.Size]uint64, bool)
}

// denseThreshold mirrors arena_life's draw_to_buffer dispatch: sparse
// rendering is used whenever the live population is a small fraction
// of the visible pixels, or whenever the view is zoomed in enough
// that dense per-pixel sampling would waste more work than it saves.
const denseThreshold = 10

// DrawBlocks rasterises g into buf (row-major, one byte per pixel: 0
// or 255), choosing the sparse or dense path based on population and
// zoom level.
func DrawBlocks(g BlockGrid, vp Viewport, buf []byte, width, height int) {
	for i := range buf {
		buf[i] = 0
	}
	if vp.Width <= 0 || width <= 0 || height <= 0 {
		return
	}

	scale := float64(width) / vp.Width
	if scale <= 0.0001 || math.IsInf(scale, 0) || math.IsNaN(scale) {
		return
	}

	totalPixels := uint64(width * height)
	isSparse := g.Population() < totalPixels/denseThreshold || scale > 0.5

	if isSparse {
		drawSparse(g, vp, buf, width, height, scale)
	} else {
		drawDense(g, vp, buf, width, height, scale)
	}
}

// drawSparse walks only the populated blocks and stamps each live
// cell as a screen-space rectangle. Cheap when population is low
// relative to the number of pixels.
func drawSparse(g BlockGrid, vp Viewport, buf []byte, width, height int, scale float64) {
	bs := int64(bitblock.Size)
	blockScreenSize := float64(bs) * scale

	g.VisitBlocks(func(blockX, blockY int64, rows [bitblock.Size]uint64) {
		worldX := float64(blockX * bs)
		worldY := float64(blockY * bs)
		screenX := (worldX - vp.MinX) * scale
		screenY := (worldY - vp.MinY) * scale

		if screenX > float64(width) || screenX+blockScreenSize < 0 ||
			screenY > float64(height) || screenY+blockScreenSize < 0 {
			return
		}

		for ly := 0; ly < bitblock.Size; ly++ {
			row := rows[ly]
			if row == 0 {
				continue
			}
			cellWorldY := worldY + float64(ly)
			sy := (cellWorldY - vp.MinY) * scale

			for lx := 0; lx < bitblock.Size; lx++ {
				if (row>>uint(lx))&1 == 0 {
					continue
				}
				cellWorldX := worldX + float64(lx)
				sx := (cellWorldX - vp.MinX) * scale
				fillRectSafe(buf, width, height, sx, sy, scale)
			}
		}
	})
}

// drawDense walks every screen pixel, samples the corresponding world
// cell, and paints it solid or empty. Cheap when the view is zoomed
// far enough out that the live population dominates the pixel count.
// Rows are split across a worker pool; each worker owns whole
// scanlines so no pixel is written by two goroutines.
func drawDense(g BlockGrid, vp Viewport, buf []byte, width, height int, scale float64) {
	invScale := 1.0 / scale
	isZoomedIn := scale >= 1.0
	bs := int64(bitblock.Size)

	workers := runtime.NumCPU()
	if workers < 1 {
		workers = 1
	}
	rows := make(chan int, workers)
	var wg sync.WaitGroup

	renderRow := func(y int) {
		screenY := float64(y)
		centerY := vp.MinY + (screenY+0.5)*invScale
		globalY := int64(math.Floor(centerY))

		currentBX, currentBY := int64(math.MaxInt64), int64(math.MaxInt64)
		var currentRows [bitblock.Size]uint64
		var haveBlock bool

		rowBuf := buf[y*width : y*width+width]
		for x := 0; x < width; x++ {
			screenX := float64(x)
			centerX := vp.MinX + (screenX+0.5)*invScale
			globalX := int64(math.Floor(centerX))

			blockX := bitblock.DivEuclid(globalX, bs)
			blockY := bitblock.DivEuclid(globalY, bs)

			if blockX != currentBX || blockY != currentBY {
				currentBX, currentBY = blockX, blockY
				currentRows, haveBlock = g.BlockAt(blockX, blockY)
			}

			rowBuf[x] = 0
			if !haveBlock {
				continue
			}

			if isZoomedIn {
				localX := bitblock.RemEuclid(globalX, bs)
				localY := bitblock.RemEuclid(globalY, bs)
				if (currentRows[localY]>>uint(localX))&1 == 1 {
					rowBuf[x] = 255
				}
				continue
			}

			baseX := blockX * bs
			baseY := blockY * bs

			worldXStart := centerX - 0.5*invScale
			worldXEnd := centerX + 0.5*invScale
			worldYStart := centerY - 0.5*invScale
			worldYEnd := centerY + 0.5*invScale

			lxStart := clampInt(int64(math.Floor(worldXStart-float64(baseX))), 0, 63)
			lxEnd := clampInt(int64(math.Ceil(worldXEnd-float64(baseX))), 1, 64)
			lyStart := clampInt(int64(math.Floor(worldYStart-float64(baseY))), 0, 63)
			lyEnd := clampInt(int64(math.Ceil(worldYEnd-float64(baseY))), 1, 64)

			rangeW := lxEnd - lxStart
			if rangeW <= 0 || lyEnd <= lyStart {
				continue
			}

			var maskBits uint64
			if rangeW >= 64 {
				maskBits = ^uint64(0)
			} else {
				maskBits = (uint64(1) << uint(rangeW)) - 1
			}
			rowMask := maskBits << uint(lxStart)

			for r := lyStart; r < lyEnd; r++ {
				if currentRows[r]&rowMask != 0 {
					rowBuf[x] = 255
					break
				}
			}
		}
	}

	worker := func() {
		defer wg.Done()
		for y := range rows {
			renderRow(y)
		}
	}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go worker()
	}
	for y := 0; y < height; y++ {
		rows <- y
	}
	close(rows)
	wg.Wait()
}

func clampInt(v, lo, hi int64) int64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// fillRectSafe paints a size x size screen-space square, rounding
// endpoints to avoid "fat" blocks from accumulated floating-point
// drift.
func fillRectSafe(buf []byte, width, height int, x, y, size float64) {
	effective := size
	if effective < 1.0 {
		effective = 1.0
	}

	startX := int(math.Round(x))
	startY := int(math.Round(y))
	endX := int(math.Round(x + effective))
	endY := int(math.Round(y + effective))

	sx := clampRange(startX, 0, width)
	sy := clampRange(startY, 0, height)
	ex := clampRange(endX, 0, width)
	ey := clampRange(endY, 0, height)

	if sx >= ex || sy >= ey {
		return
	}

	for row := sy; row < ey; row++ {
		offset := row * width
		for i := sx; i < ex; i++ {
			buf[offset+i] = 255
		}
	}
}

func clampRange(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// DrawHashLife rasterises a HashLife universe by recursing down the
// quadtree, culling empty or off-screen nodes and falling back to a
// solid fill once a node covers a sub-pixel area.
func DrawHashLife(u *hashlife.Universe, vp Viewport, buf []byte, width, height int) {
	for i := range buf {
		buf[i] = 0
	}
	if vp.Width <= 0 || width <= 0 || height <= 0 {
		return
	}

	scale := float64(width) / vp.Width
	if scale <= 0.0001 || math.IsInf(scale, 0) || math.IsNaN(scale) {
		return
	}

	root := u.Root()
	rootScreenX := (float64(u.OriginX()) - vp.MinX) * scale
	rootScreenY := (float64(u.OriginY()) - vp.MinY) * scale
	rootSizePx := float64(root.Size()) * scale

	recursiveDrawNode(root, rootScreenX, rootScreenY, rootSizePx, buf, width, height)
}

func recursiveDrawNode(node *hashlife.Node, x, y, size float64, buf []byte, width, height int) {
	if node.Population == 0 {
		return
	}
	maxW, maxH := float64(width), float64(height)
	if x >= maxW || y >= maxH || x+size <= 0 || y+size <= 0 {
		return
	}

	if size <= 1.0 {
		fillRectSafe(buf, width, height, x, y, size)
		return
	}

	if node.IsLeaf() {
		bits := node.Bits()
		cellSize := size / 8.0
		for row := 0; row < 8; row++ {
			for col := 0; col < 8; col++ {
				if (bits>>uint(row*8+col))&1 == 1 {
					cx := x + float64(col)*cellSize
					cy := y + float64(row)*cellSize
					fillRectSafe(buf, width, height, cx, cy, cellSize)
				}
			}
		}
		return
	}

	nw, ne, sw, se := node.Children()
	half := size / 2.0
	recursiveDrawNode(nw, x, y, half, buf, width, height)
	recursiveDrawNode(ne, x+half, y, half, buf, width, height)
	recursiveDrawNode(sw, x, y+half, half, buf, width, height)
	recursiveDrawNode(se, x+half, y+half, half, buf, width, height)
}
