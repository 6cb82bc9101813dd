// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Coalesce: spec.md §4.6. Merges a newly free, not-yet-listed block
// with any free neighbours and inserts the (possibly larger) result
// into its size class. Grounded on lldb's Allocator.free2, which
// switches on the same four (left-free, right-free) combinations,
// except predecessor state here comes solely from the header's P
// bit (spec.md §9) rather than an unconditional predecessor probe.

package memheap

// coalesce merges x, which has just become free but is not yet
// inserted into any size-class list, with its free neighbours (I4)
// and links the resulting block.
func (h *Heap) coalesce(x Addr) {
	hdr := h.header(x)
	size := tagSize(hdr)
	prevAllocated := tagP(hdr)

	next := nextBlock(x, size)
	nextAllocated := tagA(h.header(next))

	switch {
	case prevAllocated && nextAllocated:
		h.flInsert(x, classOf(size))

	case !prevAllocated && nextAllocated:
		y := h.prevBlock(x)
		ySize := tagSize(h.header(y))
		yPrevAllocated := tagP(h.header(y))
		h.flUnlink(y, classOf(ySize))

		combined := ySize + size
		h.setHeader(y, combined, false, yPrevAllocated)
		h.setFooter(y, combined)
		h.flInsert(y, classOf(combined))

	case prevAllocated && !nextAllocated:
		z := next
		zSize := tagSize(h.header(z))
		h.flUnlink(z, classOf(zSize))

		combined := size + zSize
		h.setHeader(x, combined, false, true)
		h.setFooter(x, combined)
		h.flInsert(x, classOf(combined))
		// The block following z already has its P bit clear: z was
		// free, and eager coalescing (I4) guarantees any free
		// block's successor already records P=0. No rewrite needed.

	case !prevAllocated && !nextAllocated:
		y := h.prevBlock(x)
		z := next
		ySize := tagSize(h.header(y))
		zSize := tagSize(h.header(z))
		yPrevAllocated := tagP(h.header(y))
		h.flUnlink(y, classOf(ySize))
		h.flUnlink(z, classOf(zSize))

		combined := ySize + size + zSize
		h.setHeader(y, combined, false, yPrevAllocated)
		h.setFooter(y, combined)
		h.flInsert(y, classOf(combined))
	}
}
