// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The segregated free-list index: spec.md §3, §4.3. 14 circular
// doubly linked lists, one per size class, each reachable from
// Heap.heads[class]. Insert and Unlink are the package's only
// mutators of list-node fields, mirroring the discipline lldb's
// Allocator.link/unlink keep around FLT slot heads.

package memheap

// flInsert prepends block (already holding a valid size in its
// header) to the head of class's list. An empty list becomes a
// self-loop, matching spec.md §4.3.
func (h *Heap) flInsert(block Addr, class int) {
	head := h.heads[class]
	if head == NullAddr {
		h.setFlPrev(block, block)
		h.setFlNext(block, block)
		h.heads[class] = block
		return
	}

	tail := h.flPrev(head)
	h.setFlNext(block, head)
	h.setFlPrev(block, tail)
	h.setFlNext(tail, block)
	h.setFlPrev(head, block)
	h.heads[class] = block
}

// flUnlink splices block out of class's list. block must currently be
// a member of that list.
func (h *Heap) flUnlink(block Addr, class int) {
	next := h.flNext(block)
	if next == block {
		// Sole member.
		h.heads[class] = NullAddr
		return
	}

	prev := h.flPrev(block)
	h.setFlNext(prev, next)
	h.setFlPrev(next, prev)
	if h.heads[class] == block {
		h.heads[class] = next
	}
}
