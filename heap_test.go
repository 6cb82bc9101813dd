// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package memheap

import (
	"bytes"
	"testing"
)

// Scenario 1: init then allocate(1): per the required-size formula in
// the component design (align(max(s,16)+8, 16)), a 1-byte request
// rounds up to a 32-byte block, and Heap Growth asks the arena for
// exactly that many bytes — so the grown block is absorbed whole by
// the allocation with no remainder. The return value is 16-byte
// aligned and every class list is empty.
func TestScenarioInitAllocateOne(t *testing.T) {
	h := newTestHeap(t)

	p, err := h.Allocate(1)
	if err != nil {
		t.Fatal(err)
	}
	if !isAligned(p) {
		t.Fatalf("p = %d is not 16-byte aligned", p)
	}
	size := tagSize(h.header(headerOf(p)))
	if size < 16 || size%alignment != 0 {
		t.Fatalf("block size = %d, want a multiple of 16 that is >= 16", size)
	}

	for class := 0; class < numClasses; class++ {
		if h.heads[class] != NullAddr {
			t.Fatalf("class %d non-empty after an allocation that exactly absorbed the grown block", class)
		}
	}
	if err := h.Check(1); err != nil {
		t.Fatal(err)
	}
}

// Scenario 2: a = allocate(24); b = allocate(24); release(a);
// release(b); after the second release the two blocks (plus any
// adjacent tail free block) coalesce into a single free block present
// in exactly one class list.
func TestScenarioReleaseCoalescesPair(t *testing.T) {
	h := newTestHeap(t)

	a, err := h.Allocate(24)
	if err != nil {
		t.Fatal(err)
	}
	b, err := h.Allocate(24)
	if err != nil {
		t.Fatal(err)
	}
	if err := h.Release(a); err != nil {
		t.Fatal(err)
	}
	if err := h.Release(b); err != nil {
		t.Fatal(err)
	}
	if err := h.Check(2); err != nil {
		t.Fatal(err)
	}

	nodes, class := 0, -1
	for c := 0; c < numClasses; c++ {
		if h.heads[c] == NullAddr {
			continue
		}
		node := h.heads[c]
		for {
			nodes++
			class = c
			node = h.flNext(node)
			if node == h.heads[c] {
				break
			}
		}
	}
	if nodes != 1 {
		t.Fatalf("expected exactly one free block after coalescing, found %d (last class %d)", nodes, class)
	}
}

// Scenario 3: a = allocate(100); b = allocate(100); release(a);
// c = allocate(80); c reuses the block formerly held by a via
// first-fit, with any ≥32-byte remainder relisted.
func TestScenarioFirstFitReusesReleasedBlock(t *testing.T) {
	h := newTestHeap(t)

	a, err := h.Allocate(100)
	if err != nil {
		t.Fatal(err)
	}
	_, err = h.Allocate(100)
	if err != nil {
		t.Fatal(err)
	}
	if err := h.Release(a); err != nil {
		t.Fatal(err)
	}
	c, err := h.Allocate(80)
	if err != nil {
		t.Fatal(err)
	}

	if c != a {
		t.Fatalf("c = %d, want reuse of a's block at %d", c, a)
	}
	if err := h.Check(3); err != nil {
		t.Fatal(err)
	}
}

// Scenario 4: p = allocate(32); q = reallocate(p, 16); q == p, the
// block shrinks, and a remainder free block of size ≥ 32 appears
// after p when carving is possible.
func TestScenarioShrinkInPlace(t *testing.T) {
	h := newTestHeap(t)

	// 64 -> 16 leaves an 80-32=48 byte remainder, comfortably above
	// the 32-byte carving threshold, so this case is guaranteed to
	// split rather than fall into the "otherwise no split occurs"
	// branch the scenario also allows.
	p, err := h.Allocate(64)
	if err != nil {
		t.Fatal(err)
	}
	origSize := tagSize(h.header(headerOf(p)))

	q, err := h.Reallocate(p, 16)
	if err != nil {
		t.Fatal(err)
	}
	if q != p {
		t.Fatalf("q = %d, want %d (shrink must be in place)", q, p)
	}
	newSize := tagSize(h.header(headerOf(p)))
	if newSize >= origSize {
		t.Fatalf("block did not shrink: %d -> %d", origSize, newSize)
	}
	if err := h.Check(4); err != nil {
		t.Fatal(err)
	}
}

// A shrinking reallocate whose carved remainder lands next to an
// already-free block must coalesce with it rather than leaving two
// adjacent free blocks (I4). a/Release(a) first manufactures a free
// tail; b is carved out of that tail, leaving its own free remainder
// immediately after it; shrinking b again carves a second remainder
// directly against the first.
func TestScenarioShrinkInPlaceCoalescesWithFreeSuccessor(t *testing.T) {
	h := newTestHeap(t)

	a, err := h.Allocate(500)
	if err != nil {
		t.Fatal(err)
	}
	if err := h.Release(a); err != nil {
		t.Fatal(err)
	}

	b, err := h.Allocate(200)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := h.Reallocate(b, 100); err != nil {
		t.Fatal(err)
	}
	if err := h.Check(100); err != nil {
		t.Fatalf("I4 violated after shrink-in-place against a free successor: %v", err)
	}

	var freeCount int
	var freeSize int64
	for class := 0; class < numClasses; class++ {
		head := h.heads[class]
		if head == NullAddr {
			continue
		}
		node := head
		for {
			freeCount++
			freeSize += tagSize(h.header(node))
			node = h.flNext(node)
			if node == head {
				break
			}
		}
	}
	if freeCount != 1 {
		t.Fatalf("free block count = %d, want 1 (the two remainders must have merged)", freeCount)
	}
	if want := int64(96 + 304); freeSize != want {
		t.Fatalf("merged free size = %d, want %d", freeSize, want)
	}
}

// Scenario 5: p = allocate(64); write 8 bytes into it; q =
// reallocate(p, 1024); q may differ from p, but the first 8 bytes of
// q equal the bytes written into p.
func TestScenarioGrowMovesAndPreservesData(t *testing.T) {
	h := newTestHeap(t)

	p, err := h.Allocate(64)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte("ABCDEFGH")
	h.a.WriteAt(p, want)

	q, err := h.Reallocate(p, 1024)
	if err != nil {
		t.Fatal(err)
	}
	got := make([]byte, 8)
	h.a.ReadAt(q, got)
	if !bytes.Equal(got, want) {
		t.Fatalf("payload prefix after growing reallocate = %q, want %q", got, want)
	}
	if err := h.Check(5); err != nil {
		t.Fatal(err)
	}
}

// Scenario 6: allocate a large block that forces heap growth, release
// it, allocate the same size again: the second allocation reuses the
// same address.
func TestScenarioReuseAfterGrowth(t *testing.T) {
	h := newTestHeap(t)

	const big = 1 << 20
	p, err := h.Allocate(big)
	if err != nil {
		t.Fatal(err)
	}
	if err := h.Release(p); err != nil {
		t.Fatal(err)
	}
	q, err := h.Allocate(big)
	if err != nil {
		t.Fatal(err)
	}
	if q != p {
		t.Fatalf("q = %d, want reuse of %d", q, p)
	}
}

// Law: release(allocate(n)) restores the free-list state up to
// coalescing. Warm the heap up with one large block and release it
// first, so there is existing free capacity to restore to — starting
// from a bare heap, growth would manufacture a block that was never
// there before and the law would hold only by accident.
func TestLawReleaseAllocateRoundTrip(t *testing.T) {
	h := newTestHeap(t)

	warm, err := h.Allocate(1000)
	if err != nil {
		t.Fatal(err)
	}
	if err := h.Release(warm); err != nil {
		t.Fatal(err)
	}
	before := countFreeBlocks(h)

	p, err := h.Allocate(48)
	if err != nil {
		t.Fatal(err)
	}
	if err := h.Release(p); err != nil {
		t.Fatal(err)
	}

	after := countFreeBlocks(h)
	if before != after {
		t.Fatalf("free block count changed across allocate/release round trip: %d -> %d", before, after)
	}
	if err := h.Check(6); err != nil {
		t.Fatal(err)
	}
}

// Law: router(s) is monotone and total (classOf already has its own
// dedicated tests; this restates the law at the primitive boundary by
// checking every size the allocator will ever compute a class for).
func TestLawRouterMonotoneAndTotal(t *testing.T) {
	prev := -1
	for s := int64(16); s <= 1<<18; s += 16 {
		c := classOf(s)
		if c < 0 || c >= numClasses {
			t.Fatalf("classOf(%d) = %d out of range", s, c)
		}
		if c < prev {
			t.Fatalf("router not monotone at size %d", s)
		}
		prev = c
	}
}

// Law: reallocate(p, size(header(p)) - 8) == p — requesting exactly
// the payload capacity already held in place never moves the block.
func TestLawReallocateSamePayloadIsNoMove(t *testing.T) {
	h := newTestHeap(t)

	p, err := h.Allocate(200)
	if err != nil {
		t.Fatal(err)
	}
	payloadCap := tagSize(h.header(headerOf(p))) - wordSize

	q, err := h.Reallocate(p, payloadCap)
	if err != nil {
		t.Fatal(err)
	}
	if q != p {
		t.Fatalf("reallocate to the block's own payload capacity moved it: %d -> %d", p, q)
	}
}

func TestZeroAllocateZeroesPayload(t *testing.T) {
	h := newTestHeap(t)

	// Poison the arena first so a non-zeroing bug would be visible.
	junk, err := h.Allocate(256)
	if err != nil {
		t.Fatal(err)
	}
	h.a.WriteAt(junk, bytes.Repeat([]byte{0xFF}, 256))
	if err := h.Release(junk); err != nil {
		t.Fatal(err)
	}

	p, err := h.ZeroAllocate(16, 16)
	if err != nil {
		t.Fatal(err)
	}
	got := make([]byte, 256)
	h.a.ReadAt(p, got)
	for i, b := range got {
		if b != 0 {
			t.Fatalf("byte %d = %#x, want 0", i, b)
		}
	}
}

func TestZeroAllocateOverflowRejected(t *testing.T) {
	h := newTestHeap(t)
	if _, err := h.ZeroAllocate(1<<40, 1<<40); err == nil {
		t.Fatal("expected overflow error, got nil")
	}
}

func TestAllocateZeroSizeReturnsNull(t *testing.T) {
	h := newTestHeap(t)
	p, err := h.Allocate(0)
	if err != nil || p != NullAddr {
		t.Fatalf("Allocate(0) = %d, %v, want NullAddr, nil", p, err)
	}
}

func TestReleaseNullIsNoop(t *testing.T) {
	h := newTestHeap(t)
	if err := h.Release(NullAddr); err != nil {
		t.Fatalf("Release(NullAddr) = %v, want nil", err)
	}
}

func countFreeBlocks(h *Heap) int {
	n := 0
	for class := 0; class < numClasses; class++ {
		head := h.heads[class]
		if head == NullAddr {
			continue
		}
		node := head
		for {
			n++
			node = h.flNext(node)
			if node == head {
				break
			}
		}
	}
	return n
}
