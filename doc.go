// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package memheap implements a single-threaded, segregated explicit
// free-list allocator over a single, monotonically growable
// contiguous byte region supplied by a host-provided Arena.
//
// The design mirrors a classic boundary-tag allocator: every block
// starts with an 8-byte header packing its size and two flag bits (is
// this block allocated, is the preceding block allocated); free
// blocks additionally carry a footer and a free-list node overlaid on
// their payload. Free blocks are segregated into 14 size classes, each
// a circular doubly linked list, searched first-fit from the
// requested class upward. Newly freed blocks are eagerly coalesced
// with any free neighbours before being relisted.
//
// The package never returns memory to the Arena: the heap only grows.
// It is not safe for concurrent use; callers needing that must add
// their own locking around each Heap method call.
package memheap
