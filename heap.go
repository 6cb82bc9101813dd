// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The four primitives: spec.md §4.8, §6. Grounded on lldb's
// Allocator.Alloc/Free/Realloc for the allocation-state bookkeeping,
// and on mm.c's malloc/free/realloc/calloc for the primitive names
// and null/zero-size edge cases a driver harness expects.

package memheap

import "github.com/cznic/mathutil"

// Heap gathers the process-wide allocator state — the 14 free-list
// heads — into a single value, per spec.md §9's design note ("Gather
// them into a single allocator instance... expose primitives as
// methods on that instance"). It is not safe for concurrent use.
type Heap struct {
	a     Arena
	heads [numClasses]Addr

	// Debug gates Check: when false, Check is a diagnostic no-op
	// returning nil, matching mm.c's #ifdef DEBUG / dbg_assert gate
	// and lldb.Allocator's single exported behavior-toggle field
	// (Compress).
	Debug bool
}

// New initializes a Heap over a freshly created Arena: it writes the
// alignment pad, prologue and epilogue described by spec.md §6 and
// returns the ready-to-use instance. a must be empty (LowBound() ==
// HighBound()).
func New(a Arena) (*Heap, error) {
	low := a.LowBound()
	if a.HighBound() != low {
		return nil, &ErrPERM{"New: arena is not empty"}
	}

	base, ok := a.Extend(8 + prologueSz + epilogueSz)
	if !ok || base != low {
		return nil, &ErrArenaExhausted{Requested: 8 + prologueSz + epilogueSz}
	}

	h := &Heap{a: a}

	h.writeWord(low, 0) // alignment pad

	prologue := low + 8
	h.setHeader(prologue, prologueSz, true, false)
	h.writeWord(prologue+wordSize, pack(prologueSz, true, false)) // prologue footer

	epilogue := prologue + prologueSz
	// No real block exists yet between prologue and epilogue, so the
	// first real block ever created here must see the same P bit a
	// block would see from a preceding prologue: true.
	h.setHeader(epilogue, 0, true, true)

	return h, nil
}

func requiredBlockSize(size int64) int64 {
	return align(mathutil.MaxInt64(size, 16) + wordSize)
}

// Allocate implements allocate(size): spec.md §4.8.
func (h *Heap) Allocate(size int64) (Addr, error) {
	if size == 0 {
		return NullAddr, nil
	}
	if size < 0 {
		return NullAddr, &ErrINVAL{"Allocate: negative size", size}
	}

	required := requiredBlockSize(size)

	block, class, ok := h.findFit(required)
	if !ok {
		if !h.growHeap(required) {
			return NullAddr, &ErrArenaExhausted{Requested: required}
		}
		if block, class, ok = h.findFit(required); !ok {
			panic("memheap: heap growth did not produce a usable block")
		}
	}

	blockSize := tagSize(h.header(block))
	h.flUnlink(block, class)
	h.splitAndPlace(block, blockSize, required)
	return payloadOf(block), nil
}

// Release implements release(pointer): spec.md §4.8.
func (h *Heap) Release(p Addr) error {
	if p == NullAddr {
		return nil
	}
	if !h.validPointer(p) {
		return &ErrINVAL{"Release: invalid pointer", p}
	}

	block := headerOf(p)
	hdr := h.header(block)
	size := tagSize(hdr)
	prevAllocated := tagP(hdr)

	h.setHeader(block, size, false, prevAllocated)
	h.setFooter(block, size)
	h.clearSuccessorP(nextBlock(block, size))
	h.coalesce(block)
	return nil
}

// Reallocate implements reallocate(pointer, size): spec.md §4.8.
func (h *Heap) Reallocate(p Addr, size int64) (Addr, error) {
	if p == NullAddr {
		return h.Allocate(size)
	}
	if size == 0 {
		return NullAddr, h.Release(p)
	}
	if !h.validPointer(p) {
		return NullAddr, &ErrINVAL{"Reallocate: invalid pointer", p}
	}

	block := headerOf(p)
	oldSize := tagSize(h.header(block))
	newSize := requiredBlockSize(size)

	switch {
	case oldSize == newSize:
		return p, nil
	case oldSize > newSize:
		h.splitAndPlace(block, oldSize, newSize)
		return p, nil
	default:
		newP, err := h.Allocate(size)
		if err != nil {
			return NullAddr, err
		}
		buf := make([]byte, oldSize-wordSize)
		h.a.ReadAt(p, buf)
		h.a.WriteAt(newP, buf)
		if err := h.Release(p); err != nil {
			return NullAddr, err
		}
		return newP, nil
	}
}

// ZeroAllocate implements zero_allocate(count, size): spec.md §4.8,
// composed purely from Allocate the way mm.c's handout calloc is
// composed from malloc + memset (SPEC_FULL.md supplemented feature
// 3), but with the nmemb*size overflow the handout leaves unchecked
// rejected as ErrINVAL instead (supplemented feature 4).
func (h *Heap) ZeroAllocate(count, size int64) (Addr, error) {
	if count < 0 || size < 0 {
		return NullAddr, &ErrINVAL{"ZeroAllocate: negative count or size", [2]int64{count, size}}
	}
	if count == 0 || size == 0 {
		return NullAddr, nil
	}

	total := count * size
	if total/size != count {
		return NullAddr, &ErrINVAL{"ZeroAllocate: count*size overflows", [2]int64{count, size}}
	}

	p, err := h.Allocate(total)
	if err != nil || p == NullAddr {
		return p, err
	}

	block := headerOf(p)
	payloadLen := tagSize(h.header(block)) - wordSize
	zero := make([]byte, payloadLen)
	h.a.WriteAt(p, zero)
	return p, nil
}

// validPointer reports whether p could be a live payload address this
// Heap handed out: aligned and strictly inside (L, H), mirroring
// mm.c's in_heap/aligned debug helpers (SPEC_FULL.md supplemented
// feature 2). It is a sanity check, not a proof of liveness: passing
// a pointer not obtained from Allocate/Reallocate, or already
// released, remains undefined behavior per spec.md §7.
func (h *Heap) validPointer(p Addr) bool {
	return isAligned(p) && p > h.a.LowBound() && p < h.a.HighBound()
}
