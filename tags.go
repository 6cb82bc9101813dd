// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Block encoding and address arithmetic: spec.md §3, §4.1. Every
// boundary tag is an 8-byte native-endian word; the low two bits are
// flags, the rest is size. This is the one file in the package that
// knows the bit layout — everything else in the core talks in terms
// of size/allocated/prevAllocated.

package memheap

import "encoding/binary"

const (
	flagA = 1 << 0 // this block is allocated
	flagP = 1 << 1 // the immediately preceding block is allocated
	flagMask = flagA | flagP

	wordSize   = 8  // bytes in a boundary tag
	alignment  = 16 // payload alignment
	minFree    = 32 // header + prev + next + footer, rounded to alignment
	prologueSz = 16
	epilogueSz = 8
)

// align rounds n up to the next multiple of alignment.
func align(n int64) int64 {
	return (n + alignment - 1) &^ (alignment - 1)
}

// pack composes a boundary tag from a block size and its two flags.
func pack(size int64, allocated, prevAllocated bool) uint64 {
	w := uint64(size)
	if allocated {
		w |= flagA
	}
	if prevAllocated {
		w |= flagP
	}
	return w
}

func tagSize(w uint64) int64  { return int64(w &^ uint64(flagMask)) }
func tagA(w uint64) bool      { return w&flagA != 0 }
func tagP(w uint64) bool      { return w&flagP != 0 }

func (h *Heap) readWord(addr Addr) uint64 {
	var b [wordSize]byte
	h.a.ReadAt(addr, b[:])
	return binary.NativeEndian.Uint64(b[:])
}

func (h *Heap) writeWord(addr Addr, w uint64) {
	var b [wordSize]byte
	binary.NativeEndian.PutUint64(b[:], w)
	h.a.WriteAt(addr, b[:])
}

// header returns the boundary tag at a block's header address.
func (h *Heap) header(block Addr) uint64 { return h.readWord(block) }

// setHeader writes a block's header.
func (h *Heap) setHeader(block Addr, size int64, allocated, prevAllocated bool) {
	h.writeWord(block, pack(size, allocated, prevAllocated))
}

// setFooter writes a free block's footer (footer carries only size
// and the A bit, always false for a free block's own footer).
func (h *Heap) setFooter(block Addr, size int64) {
	h.writeWord(footerAddr(block, size), pack(size, false, false))
}

// headerOf returns the header address given a payload address.
func headerOf(payload Addr) Addr { return payload - wordSize }

// payloadOf returns the payload address given a block (header)
// address.
func payloadOf(block Addr) Addr { return block + wordSize }

// footerAddr returns a block's footer address; valid only while the
// block is free.
func footerAddr(block Addr, size int64) Addr { return block + Addr(size) - wordSize }

// nextBlock returns the address of the block immediately following.
func nextBlock(block Addr, size int64) Addr { return block + Addr(size) }

// flPrevAddr and flNextAddr are where a free block's list-node prev
// and next fields live, overlaid on the first 16 bytes of its
// payload (spec.md §3 "Free-list node"). The values stored there are
// the header addresses of the neighbouring free blocks: a constant
// 8-byte offset from the "payload start" the spec's prose uses, which
// preserves every invariant while giving the whole package a single
// canonical address flavour (mirrors lldb's handles, which likewise
// name a block by its first atom rather than by its payload).
func flPrevAddr(block Addr) Addr { return payloadOf(block) }
func flNextAddr(block Addr) Addr { return payloadOf(block) + wordSize }

func (h *Heap) flPrev(block Addr) Addr { return Addr(h.readWord(flPrevAddr(block))) }
func (h *Heap) flNext(block Addr) Addr { return Addr(h.readWord(flNextAddr(block))) }
func (h *Heap) setFlPrev(block, v Addr) { h.writeWord(flPrevAddr(block), uint64(v)) }
func (h *Heap) setFlNext(block, v Addr) { h.writeWord(flNextAddr(block), uint64(v)) }

// prevBlock returns the address of the block immediately preceding
// block. It is only legal to call when header(block)'s P bit is 0,
// i.e. the predecessor is free and therefore carries a footer; per
// spec.md §9 this is the sole source of predecessor-state
// information the allocator ever consults — it never reads a
// footer that might not exist.
func (h *Heap) prevBlock(block Addr) Addr {
	prevSize := tagSize(h.readWord(block - wordSize))
	return block - Addr(prevSize)
}

func isAligned(addr Addr) bool { return int64(addr)%alignment == 0 }
