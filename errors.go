// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package memheap

import "fmt"

// ErrINVAL reports an InvalidArgument condition: a caller-supplied
// value Heap will not act on (spec.md §7). Name identifies the
// argument or operation; Arg carries the offending value.
type ErrINVAL struct {
	Name string
	Arg  interface{}
}

func (e *ErrINVAL) Error() string { return fmt.Sprintf("invalid argument: %s (%v)", e.Name, e.Arg) }

// ErrPERM reports an operation refused because of the Heap's current
// state rather than a bad argument value — lldb's sense of the name
// (xact.go's "Close inside an open transaction", "EndUpdate outside
// of a transaction"). memheap's only such state is "already
// initialized": New refuses to re-lay prologue/epilogue over an
// Arena that already holds one.
type ErrPERM struct {
	Name string
}

func (e *ErrPERM) Error() string { return fmt.Sprintf("operation not permitted: %s", e.Name) }

// ErrArenaExhausted reports that the Arena refused to grow. No heap
// state is mutated beyond whatever the Arena already did before
// reporting failure (spec.md §7).
type ErrArenaExhausted struct {
	Requested int64
}

func (e *ErrArenaExhausted) Error() string {
	return fmt.Sprintf("arena exhausted requesting %d more bytes", e.Requested)
}

// CheckCode identifies which invariant (spec.md §3, §8) a Check
// failure violates.
type CheckCode int

const (
	_ CheckCode = iota
	ErrBadSize            // I1: size not a positive multiple of 16
	ErrBadPBit            // I2: header.P disagrees with predecessor's A
	ErrBadFooter          // I3: free block footer doesn't match header
	ErrAdjacentFree       // I4: two adjacent free blocks
	ErrMisplacedInClass   // I5: free block in the wrong size-class list
	ErrBadFreeList        // I6: circular doubly linked list broken
	ErrNodeOutOfBounds    // I7: free-list node address out of range or unaligned
	ErrEpilogueCorrupt    // epilogue header missing/malformed
)

// ErrILSEQ reports an InternalInvariantBroken condition found by
// Check: an illegal sequence of bytes in the arena, in lldb's sense of
// the name. It is produced only by Check and never aborts the
// allocator; the heap is simply considered inconsistent for the rest
// of the run (spec.md §7).
type ErrILSEQ struct {
	Type CheckCode
	At   Addr
	Tag  int // the Check call's diagnostic tag, spec.md §6
	More string
}

func (e *ErrILSEQ) Error() string {
	if e.More != "" {
		return fmt.Sprintf("heap check %d: invariant %d broken at %d: %s", e.Tag, e.Type, e.At, e.More)
	}
	return fmt.Sprintf("heap check %d: invariant %d broken at %d", e.Tag, e.Type, e.At)
}
