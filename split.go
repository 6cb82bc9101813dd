// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Split & Place: spec.md §4.5. block has already been removed from
// its size-class list; blockSize >= allocSize and both are multiples
// of 16. Carves a remainder when it would be >= the 32-byte free-block
// minimum, otherwise hands the whole block to the caller.

package memheap

// splitAndPlace marks block allocated with size allocSize, carving a
// free remainder when blockSize - allocSize >= minFree (spec.md §9's
// resolved threshold). block's own P bit is preserved: it describes
// block's predecessor, which split/place never touches.
//
// The remainder is freed through the same coalesce path Release uses
// rather than a bare flInsert: when splitAndPlace is called from
// Allocate, I4 already guarantees the remainder's successor is
// allocated (block just came out of a free list, and no two free
// blocks are ever adjacent), so coalesce degenerates to a plain
// insert there. But splitAndPlace is also called from Reallocate's
// in-place shrink, where block was allocated and its successor may
// already be a free block — carving a remainder there without
// coalescing would leave two adjacent free blocks, breaking I4.
// Routing both callers through coalesce keeps the invariant in both
// cases.
func (h *Heap) splitAndPlace(block Addr, blockSize, allocSize int64) {
	prevAllocated := tagP(h.header(block))

	if blockSize-allocSize >= minFree {
		h.setHeader(block, allocSize, true, prevAllocated)

		rem := nextBlock(block, allocSize)
		remSize := blockSize - allocSize
		h.setHeader(rem, remSize, false, true)
		h.setFooter(rem, remSize)
		h.clearSuccessorP(nextBlock(rem, remSize))
		h.coalesce(rem)
		return
	}

	h.setHeader(block, blockSize, true, prevAllocated)
	h.setSuccessorP(nextBlock(block, blockSize))
}

// setSuccessorP marks succ's header as having an allocated
// predecessor, preserving succ's own size and A bit.
func (h *Heap) setSuccessorP(succ Addr) {
	w := h.header(succ)
	h.setHeader(succ, tagSize(w), tagA(w), true)
}

// clearSuccessorP marks succ's header as having a free predecessor,
// preserving succ's own size and A bit.
func (h *Heap) clearSuccessorP(succ Addr) {
	w := h.header(succ)
	h.setHeader(succ, tagSize(w), tagA(w), false)
}
