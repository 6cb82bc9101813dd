// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The invariant checker: spec.md §4.9, §8. A two-pass walk modeled on
// lldb's Allocator.Verify: first a forward scan of every block
// validating layout and the P/A agreement (I1-I4), then a walk of
// each size class validating free-list membership and link
// consistency (I5-I7). Unlike Verify, Check never needs a bitmap
// scratch pad — it doesn't have to detect blocks that are free but
// lost from every list, only blocks that are definitely wrong.

package memheap

import (
	"errors"
	"fmt"
)

// Check implements check(tag): spec.md §6. When h.Debug is false it
// is a no-op returning nil ("true" in spec.md's boolean sense) exactly
// as mm.c's mm_checkheap compiles away without #define DEBUG. When
// Debug is true it walks the whole heap and returns every invariant
// violation found, tagged with the caller-supplied tag the way
// mm_checkheap(__LINE__) tags failures with a call site.
func (h *Heap) Check(tag int) error {
	if !h.Debug {
		return nil
	}

	var errs []error
	errs = append(errs, h.checkBlocks(tag)...)
	errs = append(errs, h.checkFreeLists(tag)...)
	return errors.Join(errs...)
}

func (h *Heap) checkBlocks(tag int) (errs []error) {
	low := h.a.LowBound()
	first := low + 24
	epilogue := h.epilogueAddr()

	prevAllocated := true // prologue
	prevWasFree := false
	addr := first
	for addr < epilogue {
		if !isAligned(payloadOf(addr)) {
			errs = append(errs, &ErrILSEQ{Type: ErrNodeOutOfBounds, At: addr, Tag: tag, More: "block payload not 16-byte aligned"})
			break
		}

		hdr := h.header(addr)
		size := tagSize(hdr)
		if size <= 0 || size%alignment != 0 {
			errs = append(errs, &ErrILSEQ{Type: ErrBadSize, At: addr, Tag: tag, More: fmt.Sprintf("size %d", size)})
			break
		}

		allocated := tagA(hdr)
		if tagP(hdr) != prevAllocated {
			errs = append(errs, &ErrILSEQ{Type: ErrBadPBit, At: addr, Tag: tag})
		}

		if !allocated {
			if prevWasFree {
				errs = append(errs, &ErrILSEQ{Type: ErrAdjacentFree, At: addr, Tag: tag})
			}
			ftr := h.readWord(footerAddr(addr, size))
			if tagSize(ftr) != size || tagA(ftr) {
				errs = append(errs, &ErrILSEQ{Type: ErrBadFooter, At: addr, Tag: tag})
			}
		}

		prevAllocated = allocated
		prevWasFree = !allocated
		addr = nextBlock(addr, size)
	}

	if addr != epilogue {
		errs = append(errs, &ErrILSEQ{Type: ErrNodeOutOfBounds, At: addr, Tag: tag, More: "block walk did not land exactly on the epilogue"})
		return errs
	}

	epHdr := h.header(epilogue)
	if tagSize(epHdr) != 0 || !tagA(epHdr) {
		errs = append(errs, &ErrILSEQ{Type: ErrEpilogueCorrupt, At: epilogue, Tag: tag})
	}
	if tagP(epHdr) != prevAllocated {
		errs = append(errs, &ErrILSEQ{Type: ErrBadPBit, At: epilogue, Tag: tag, More: "epilogue"})
	}

	return errs
}

func (h *Heap) checkFreeLists(tag int) (errs []error) {
	low, high := h.a.LowBound(), h.a.HighBound()

	for class := 0; class < numClasses; class++ {
		head := h.heads[class]
		if head == NullAddr {
			continue
		}

		node := head
		count := 0
		limit := int64(high-low)/alignment + 1
		for {
			if !isAligned(payloadOf(node)) || node <= low || node >= high {
				errs = append(errs, &ErrILSEQ{Type: ErrNodeOutOfBounds, At: node, Tag: tag})
				return errs
			}

			hdr := h.header(node)
			if tagA(hdr) {
				errs = append(errs, &ErrILSEQ{Type: ErrBadFreeList, At: node, Tag: tag, More: "listed block is allocated"})
			}
			if got := classOf(tagSize(hdr)); got != class {
				errs = append(errs, &ErrILSEQ{Type: ErrMisplacedInClass, At: node, Tag: tag, More: fmt.Sprintf("belongs in class %d, listed in %d", got, class)})
			}

			next := h.flNext(node)
			if h.flPrev(next) != node {
				errs = append(errs, &ErrILSEQ{Type: ErrBadFreeList, At: node, Tag: tag, More: "next.prev != node"})
			}

			node = next
			count++
			if node == head {
				break
			}
			if int64(count) > limit {
				errs = append(errs, &ErrILSEQ{Type: ErrBadFreeList, At: head, Tag: tag, More: "list does not terminate"})
				return errs
			}
		}
	}

	return errs
}
