// Copyright 2026 The ncia Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package ncia implements non-contiguously indexed arrays: read-only
// arrays whose keys come from a totally ordered domain and occur in runs
// of consecutive keys (segments) separated by gaps.
//
// An Array is described by three slices.  keyStarts holds the first key
// of every segment, storageStarts the index into values where that
// segment's first value lives, and values every value in key order.
// Lookups binary search the segment starts, so they take O(log segments)
// time and never allocate; iteration walks the segments with the key
// domain's successor function.
//
// Segment data is usually produced by a Builder, written out with the
// format package, and compiled into a program or loaded at startup.
// Table stores the same structure in a memory mapped file.  Either way,
// CheckSegments validates segment data before it is trusted.
package ncia
