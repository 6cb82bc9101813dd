// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// A memory-only Arena, for driving Heap from tests and from the demo
// driver. Modeled on lldb's MemFiler: a page table keyed by page
// index rather than one big growable slice, so that extending the
// arena never has to copy already-issued pages around, and ReadAt/
// WriteAt walk the page table the same way MemFiler.ReadAt/WriteAt do.

package memheap

import "fmt"

const (
	memArenaPageBits = 16
	memArenaPageSize = 1 << memArenaPageBits
	memArenaPageMask = memArenaPageSize - 1
)

var _ Arena = &MemArena{}

// MemArena is an in-memory Arena backed by a sparse page table. It
// has no upper limit other than available process memory; Extend
// fails only for a negative delta.
type MemArena struct {
	low   Addr
	high  Addr
	pages map[int64]*[memArenaPageSize]byte
}

// NewMemArena returns a new, empty MemArena whose LowBound is low.
// Address 0 is reserved as NullAddr, so a low <= 0 is replaced by 16.
func NewMemArena(low Addr) *MemArena {
	if low <= 0 {
		low = 16
	}
	return &MemArena{low: low, high: low, pages: map[int64]*[memArenaPageSize]byte{}}
}

// Extend implements Arena.
func (a *MemArena) Extend(delta int64) (base Addr, ok bool) {
	if delta < 0 {
		return NullAddr, false
	}
	base = a.high
	a.high += Addr(delta)
	return base, true
}

// LowBound implements Arena.
func (a *MemArena) LowBound() Addr { return a.low }

// HighBound implements Arena.
func (a *MemArena) HighBound() Addr { return a.high }

// TotalSize implements Arena.
func (a *MemArena) TotalSize() int64 { return int64(a.high - a.low) }

func (a *MemArena) checkBounds(addr Addr, n int) {
	if n < 0 || addr < a.low || int64(addr-a.low)+int64(n) > int64(a.high-a.low) {
		panic(fmt.Sprintf("memheap: address range [%d, %d) out of arena bounds [%d, %d)", addr, int64(addr)+int64(n), a.low, a.high))
	}
}

// ReadAt implements Arena.
func (a *MemArena) ReadAt(addr Addr, p []byte) {
	a.checkBounds(addr, len(p))
	off := int64(addr - a.low)
	pgI := off >> memArenaPageBits
	pgO := int(off & memArenaPageMask)
	rem := len(p)
	for rem != 0 {
		pg := a.page(pgI)
		nc := copy(p[len(p)-rem:], pg[pgO:])
		rem -= nc
		pgO = 0
		pgI++
	}
}

// WriteAt implements Arena.
func (a *MemArena) WriteAt(addr Addr, p []byte) {
	a.checkBounds(addr, len(p))
	off := int64(addr - a.low)
	pgI := off >> memArenaPageBits
	pgO := int(off & memArenaPageMask)
	rem := len(p)
	for rem != 0 {
		pg := a.page(pgI)
		nc := copy(pg[pgO:], p[len(p)-rem:])
		rem -= nc
		pgO = 0
		pgI++
	}
}

func (a *MemArena) page(i int64) *[memArenaPageSize]byte {
	pg := a.pages[i]
	if pg == nil {
		pg = &[memArenaPageSize]byte{}
		a.pages[i] = pg
	}
	return pg
}

// pagesInUse reports how many distinct pages currently back the
// arena, for tests asserting growth doesn't touch untouched pages.
func (a *MemArena) pagesInUse() int { return len(a.pages) }
