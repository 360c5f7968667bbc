// Copyright 2024 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command lifectl is a headless demo host for the life engines: it
// seeds a universe (the hexadecagon seed by default, or a pattern read
// from a file of "x,y" lines), steps it, and writes a PGM snapshot of
// the rasterised result.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cainydev/life"
	"github.com/cainydev/life/raster"
)

func main() {
	mode := flag.String("mode", "sparse", "Engine: sparse, arena, hash")
	steps := flag.Uint64("steps", 0, "Generations to advance before rendering")
	width := flag.Int("width", 200, "Output image width in pixels")
	height := flag.Int("height", 200, "Output image height in pixels")
	zoom := flag.Float64("zoom", 4, "Pixels per world unit")
	seedPath := flag.String("seed", "", "Path to a file of \"x,y\" lines (default: the hexadecagon seed)")
	out := flag.String("out", "life.pgm", "Output PGM file path")
	flag.Parse()

	engineMode, err := parseMode(*mode)
	if err != nil {
		log.Fatal(err)
	}
	engine, err := life.New(engineMode)
	if err != nil {
		log.Fatalf("life.New: %v", err)
	}

	seed, err := loadSeed(*seedPath)
	if err != nil {
		log.Fatalf("loadSeed: %v", err)
	}
	engine.Import(seed)
	fmt.Printf("%s: imported %d cells\n", engine.Name(), engine.Population())

	if *steps > 0 {
		start := time.Now()
		advanced := engine.Step(context.Background(), *steps)
		fmt.Printf("%s: stepped %d generations in %s (population now %d)\n",
			engine.Name(), advanced, time.Since(start), engine.Population())
	}

	vp := raster.Viewport{
		MinX:   -float64(*width) / (2 * *zoom),
		MinY:   -float64(*height) / (2 * *zoom),
		Width:  float64(*width) / *zoom,
		Height: float64(*height) / *zoom,
	}
	buf := make([]byte, *width**height)
	engine.DrawToBuffer(vp, buf, *width, *height)

	if err := writePGM(*out, buf, *width, *height); err != nil {
		log.Fatalf("writePGM: %v", err)
	}
	fmt.Printf("wrote %s (%dx%d)\n", *out, *width, *height)
}

func parseMode(s string) (life.EngineMode, error) {
	switch strings.ToLower(s) {
	case "sparse", "sparse-life":
		return life.ModeSparse, nil
	case "arena", "arena-life":
		return life.ModeArena, nil
	case "hash", "hash-life", "hashlife":
		return life.ModeHash, nil
	default:
		return 0, fmt.Errorf("unknown -mode %q (want sparse, arena, or hash)", s)
	}
}

// loadSeed reads "x,y" lines from path, or returns the hexadecagon
// seed if path is empty.
func loadSeed(path string) ([]life.Pos, error) {
	if path == "" {
		return life.HexadecagonSeed, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cells []life.Pos
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, ",", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("malformed line %q", line)
		}
		x, err := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("malformed line %q: %w", line, err)
		}
		y, err := strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("malformed line %q: %w", line, err)
		}
		cells = append(cells, life.Pos{X: x, Y: y})
	}
	return cells, scanner.Err()
}

// writePGM writes buf (one byte per pixel, 0 or 255) as a binary PGM
// (P5) grayscale image.
func writePGM(path string, buf []byte, width, height int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "P5\n%d %d\n255\n", width, height)
	if _, err := w.Write(buf); err != nil {
		return err
	}
	return w.Flush()
}
