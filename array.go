// Copyright 2026 The ncia Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package ncia

import (
	"fmt"
	"iter"
	"slices"

	"golang.org/x/exp/constraints"
)

// Array is a read-only mapping from a sparse set of keys to densely packed
// values.  Keys are grouped into segments: maximal runs of consecutive keys
// (according to D.Next) whose values are stored next to each other.  Only the
// first key and the first storage index of each segment are kept, so gaps in
// the key space cost nothing.
//
// An Array borrows the slices it is created from and never modifies them.
// It is safe for concurrent use as long as nobody else writes to those
// slices.  Lookups on data that does not pass Check have unspecified results.
type Array[K, V any, D Domain[K]] struct {
	keyStarts     []K
	storageStarts []int
	values        []V
}

// New returns an Array over the given segment data.  keyStarts holds the
// first key of every segment, storageStarts the index into values where each
// segment begins.
func New[K, V any, D Domain[K]](keyStarts []K, storageStarts []int, values []V) Array[K, V, D] {
	return Array[K, V, D]{
		keyStarts:     keyStarts,
		storageStarts: storageStarts,
		values:        values,
	}
}

// NewInt returns an Array indexed by a fixed-width integer type.
func NewInt[K constraints.Integer, V any](keyStarts []K, storageStarts []int, values []V) Array[K, V, Integers[K]] {
	return New[K, V, Integers[K]](keyStarts, storageStarts, values)
}

// NewKeyed returns an Array indexed by a custom Key type.
func NewKeyed[K Key[K], V any](keyStarts []K, storageStarts []int, values []V) Array[K, V, Methods[K]] {
	return New[K, V, Methods[K]](keyStarts, storageStarts, values)
}

// Len returns the number of entries.
func (a Array[K, V, D]) Len() int {
	return len(a.values)
}

// Values returns the values in storage (and key) order.  The returned slice
// is shared with the Array and must not be modified.
func (a Array[K, V, D]) Values() []V {
	return a.values
}

// Segments returns the per-segment key starts and storage starts.  The
// returned slices are shared with the Array and must not be modified.
func (a Array[K, V, D]) Segments() (keyStarts []K, storageStarts []int) {
	return a.keyStarts, a.storageStarts
}

// Check validates the segment data backing a.  See CheckSegments.
func (a Array[K, V, D]) Check() error {
	return CheckSegments[K, D](a.keyStarts, a.storageStarts, len(a.values))
}

// locate returns the storage index of key, or false if key has no entry.
func (a Array[K, V, D]) locate(key K) (int, bool) {
	var dom D
	// find the last segment starting at or before key
	i, found := slices.BinarySearchFunc(a.keyStarts, key, dom.Compare)
	if !found {
		i--
	}
	if i < 0 {
		return 0, false
	}

	d, ok := dom.Distance(a.keyStarts[i], key)
	if !ok {
		return 0, false
	}

	start := a.storageStarts[i]
	end := len(a.values)
	if i+1 < len(a.storageStarts) {
		end = a.storageStarts[i+1]
	}
	if d >= end-start {
		// key falls into the gap after segment i
		return 0, false
	}
	return start + d, true
}

// Get returns the value stored for key.
func (a Array[K, V, D]) Get(key K) (V, bool) {
	off, ok := a.locate(key)
	if !ok {
		var zero V
		return zero, false
	}
	return a.values[off], true
}

// HasEntry reports whether key has a value.
func (a Array[K, V, D]) HasEntry(key K) bool {
	_, ok := a.locate(key)
	return ok
}

// MustGet is like Get but panics if key has no value.
func (a Array[K, V, D]) MustGet(key K) V {
	v, ok := a.Get(key)
	if !ok {
		panic(fmt.Sprintf("ncia: no entry for key %v", key))
	}
	return v
}

// Indices returns an iterator over all keys in storage order.
func (a Array[K, V, D]) Indices() *IndexIter[K, D] {
	return newIndexIter[K, D](a.keyStarts, a.storageStarts, len(a.values))
}

// Keys returns all keys in storage order.
func (a Array[K, V, D]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		it := a.Indices()
		for k, ok := it.Next(); ok; k, ok = it.Next() {
			if !yield(k) {
				return
			}
		}
	}
}

// Entries returns all key/value pairs in storage order.
func (a Array[K, V, D]) Entries() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		it := a.Indices()
		for _, v := range a.values {
			k, ok := it.Next()
			if !ok || !yield(k, v) {
				return
			}
		}
	}
}
