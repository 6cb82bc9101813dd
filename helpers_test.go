// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package memheap

import "testing"

// newTestHeap returns a Heap with debug checking enabled, ready for
// allocation, backed by a fresh MemArena.
func newTestHeap(t *testing.T) *Heap {
	t.Helper()
	h, err := New(NewMemArena(16))
	if err != nil {
		t.Fatal(err)
	}
	h.Debug = true
	return h
}
