// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Heap Growth: spec.md §4.7. Grounded on lldb's Allocator.alloc "must
// grow" branch, which likewise turns a fresh Extend/Size into a block
// header written right where the old end-of-storage sentinel was.

package memheap

// epilogueAddr returns the current epilogue header's address: always
// HighBound() - 8 (spec.md §6's persisted-state layout).
func (h *Heap) epilogueAddr() Addr { return h.a.HighBound() - epilogueSz }

// growHeap asks the arena for at least required bytes (a multiple of
// 16), builds a new free block where the old epilogue stood, writes a
// fresh epilogue after it, and coalesces the new block with whatever
// free block may already sit at the old heap tail — spec.md's Non-goal
// on returning memory to the arena backend means a tail free block is
// never truncated away, so growth must be prepared to merge with one.
func (h *Heap) growHeap(required int64) bool {
	required = align(required)

	oldEpilogue := h.epilogueAddr()
	base, ok := h.a.Extend(required)
	if !ok {
		return false
	}

	newBlock := base - epilogueSz
	if newBlock != oldEpilogue {
		panic("memheap: arena did not extend immediately after the prior high bound")
	}

	priorPrevAllocated := tagP(h.header(newBlock))
	h.setHeader(newBlock, required, false, priorPrevAllocated)
	h.setFooter(newBlock, required)

	newEpilogue := nextBlock(newBlock, required)
	h.setHeader(newEpilogue, 0, true, false)

	// coalesce both inserts the block into its class list (the "no
	// merge" case) and absorbs a free tail block if one was already
	// there, so spec.md §4.7 steps 5 and 6 collapse into this single
	// call rather than an insert immediately undone by a merge.
	h.coalesce(newBlock)
	return true
}
