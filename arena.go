// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package memheap

// Addr is a byte address inside an Arena. It is never a Go pointer:
// it is an integer offset the Arena resolves to storage. The zero
// value, NullAddr, never refers to a real block and is used the way
// lldb uses a zero handle: it means "no block".
type Addr int64

// NullAddr is the address returned by primitives on failure and
// accepted by Release/Reallocate to mean "no block".
const NullAddr Addr = 0

// Arena is the byte-region provider consumed by Heap: the "arena
// backend" of spec.md §1. It is an external collaborator — Heap only
// ever grows it, never shrinks or compacts it, and never assumes
// anything about how it is realized (a plain slice, a page table, an
// mmap'd file, ...).
//
// ReadAt/WriteAt are the data-plane equivalent of what a real process
// heap gives for free by simply being addressable memory; Extend,
// LowBound, HighBound and TotalSize are the control-plane operations
// spec.md §6 names explicitly.
type Arena interface {
	// Extend grows the arena by delta bytes and returns the address
	// of the first new byte. It returns a failure (ok == false) if
	// the region cannot be grown, e.g. the backing store is
	// exhausted.
	Extend(delta int64) (base Addr, ok bool)

	// LowBound returns L, the first address ever handed out. L is
	// fixed once the Arena is created.
	LowBound() Addr

	// HighBound returns H, one past the last byte currently backed
	// by the arena. H only ever increases.
	HighBound() Addr

	// TotalSize returns HighBound() - LowBound().
	TotalSize() int64

	// ReadAt copies len(p) bytes starting at addr into p. The range
	// [addr, addr+len(p)) must lie within [LowBound(), HighBound()).
	ReadAt(addr Addr, p []byte)

	// WriteAt copies p into the arena starting at addr. The range
	// [addr, addr+len(p)) must lie within [LowBound(), HighBound()).
	WriteAt(addr Addr, p []byte)
}
