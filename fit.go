// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Fit Search: spec.md §4.4. First-fit across size classes, starting
// at the class the requested size routes to, because the size-class
// partitioning already approximates best-fit. Grounded on lldb's
// Allocator.alloc, which likewise takes the first block the FLT
// hands back rather than scanning for a tighter one.

package memheap

// findFit returns the first free block whose size is >= required,
// searching classOf(required) and upward, or ok == false if no class
// yields one. Each list is walked exactly once: the loop stops after
// visiting the tail (head's prev), so it never wraps around a
// well-formed circular list.
func (h *Heap) findFit(required int64) (block Addr, class int, ok bool) {
	for class = classOf(required); class < numClasses; class++ {
		head := h.heads[class]
		if head == NullAddr {
			continue
		}

		tail := h.flPrev(head)
		for node := head; ; {
			if tagSize(h.header(node)) >= required {
				return node, class, true
			}
			if node == tail {
				break
			}
			node = h.flNext(node)
		}
	}
	return NullAddr, 0, false
}
