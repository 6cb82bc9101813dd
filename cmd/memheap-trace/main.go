// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// A random-workload driver for memheap, in the style of
// lldb/lab/1/main.go: repeatedly allocate, reallocate and release
// blocks of random size against a MemArena and report the resulting
// arena size, verifying invariants (via Heap.Check) along the way.

package main

import (
	"flag"
	"log"
	"math/rand"
	"time"

	"github.com/cznic/memheap"
)

var (
	maxBlocks = flag.Int("n", 1000, "target number of live blocks")
	maxSize   = flag.Int("max", 1<<16, "maximum block size in bytes")
	seed      = flag.Int64("seed", 42, "PRNG seed")
	debug     = flag.Bool("debug", true, "run Heap.Check after every operation")
)

func run(tag int, rng *rand.Rand, h *memheap.Heap) (addrs []memheap.Addr) {
	check := func(where string) {
		if err := h.Check(tag); err != nil {
			log.Fatalf("%s: %v", where, err)
		}
	}

	for len(addrs) < *maxBlocks {
		for nalloc := len(addrs)/2 + 1; nalloc != 0; nalloc-- {
			p, err := h.Allocate(int64(rng.Intn(*maxSize + 1)))
			if err != nil {
				log.Fatal(err)
			}
			check("after Allocate")
			addrs = append(addrs, p)
		}

		for nrealloc := len(addrs) / 2; nrealloc != 0; nrealloc-- {
			i := rng.Intn(len(addrs))
			p, err := h.Reallocate(addrs[i], int64(rng.Intn(*maxSize+1)))
			if err != nil {
				log.Fatal(err)
			}
			check("after Reallocate")
			addrs[i] = p
		}

		for ndel := len(addrs) / 4; ndel != 0 && len(addrs) > 1; ndel-- {
			i := rng.Intn(len(addrs))
			last := len(addrs) - 1
			addr := addrs[i]
			addrs[i] = addrs[last]
			addrs = addrs[:last]
			if err := h.Release(addr); err != nil {
				log.Fatal(err)
			}
			check("after Release")
		}
	}

	return addrs
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lshortfile)

	arena := memheap.NewMemArena(16)
	h, err := memheap.New(arena)
	if err != nil {
		log.Fatal(err)
	}
	h.Debug = *debug

	t0 := time.Now()
	rng := rand.New(rand.NewSource(*seed))
	addrs := run(1, rng, h)

	for _, p := range addrs {
		if err := h.Release(p); err != nil {
			log.Fatal(err)
		}
	}
	if err := h.Check(2); err != nil {
		log.Fatal(err)
	}

	log.Printf("arena grew to %d bytes, total time %s", arena.TotalSize(), time.Since(t0))
}
