// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The size-class router: spec.md §3, §4.2. Maps a block size to one
// of 14 segregated free-list classes, modeled on the canned
// FLTPowersOf2 table lldb's flt.go builds (1, 2, 4, 8, ... atoms) but
// fixed at build time rather than reported through an FLT interface,
// since this allocator has exactly one, hard-coded set of bands.

package memheap

const numClasses = 14

// classUpper[i] is the largest size routed to class i, for i < 13.
// Class 13 ("larger") has no upper bound. Per spec.md §9's resolved
// ambiguity, size 16 lands in class 0, not class 1: classUpper[0] ==
// 16 and the lookup below is a plain "size <= classUpper[i]" scan, so
// 16 (and any smaller size) stops at i == 0.
var classUpper = [numClasses - 1]int64{
	16, 32, 64, 128, 256, 512, 1024, 2048, 4096, 8192, 16384, 32768, 65536,
}

// classOf returns the size class for a free block (or a candidate
// allocation request) of size s. classOf is monotone: s1 <= s2 =>
// classOf(s1) <= classOf(s2).
func classOf(s int64) int {
	for i, upper := range classUpper {
		if s <= upper {
			return i
		}
	}
	return numClasses - 1
}
