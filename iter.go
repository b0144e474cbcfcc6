// Copyright 2026 The ncia Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package ncia

// IndexIter yields the keys of an Array in storage order.  It is forward
// only: call Array.Indices again to start over.
type IndexIter[K any, D Domain[K]] struct {
	state iterState
}

// iterState is either emptyIter or *segmentIter[K].
type iterState interface {
	isIterState()
}

type emptyIter struct{}

type segmentIter[K any] struct {
	current                K
	storageIdx             int
	remainingKeyStarts     []K
	remainingStorageStarts []int
	storageEnd             int
}

func (emptyIter) isIterState()       {}
func (*segmentIter[K]) isIterState() {}

func newIndexIter[K any, D Domain[K]](keyStarts []K, storageStarts []int, valueCount int) *IndexIter[K, D] {
	if valueCount == 0 || len(keyStarts) == 0 || len(storageStarts) == 0 {
		return &IndexIter[K, D]{state: emptyIter{}}
	}
	return &IndexIter[K, D]{
		state: &segmentIter[K]{
			current:                keyStarts[0],
			remainingKeyStarts:     keyStarts[1:],
			remainingStorageStarts: storageStarts[1:],
			storageEnd:             valueCount,
		},
	}
}

// Next returns the next key, or false once all keys have been returned.
func (it *IndexIter[K, D]) Next() (K, bool) {
	switch s := it.state.(type) {
	case *segmentIter[K]:
		result := s.current
		next := s.storageIdx + 1
		if next == s.storageEnd {
			it.state = emptyIter{}
			return result, true
		}
		s.storageIdx = next
		if len(s.remainingStorageStarts) > 0 && len(s.remainingKeyStarts) > 0 && next == s.remainingStorageStarts[0] {
			// jump over the gap to the next segment
			s.current = s.remainingKeyStarts[0]
			s.remainingKeyStarts = s.remainingKeyStarts[1:]
			s.remainingStorageStarts = s.remainingStorageStarts[1:]
		} else {
			var dom D
			// on well-formed data Next never fails here; keeping the old key
			// guarantees exactly Len() results either way.
			if k, ok := dom.Next(result); ok {
				s.current = k
			}
		}
		return result, true
	case emptyIter, nil:
		var zero K
		return zero, false
	default:
		panic("unreachable")
	}
}

// Len returns the number of keys Next has yet to return.
func (it *IndexIter[K, D]) Len() int {
	switch s := it.state.(type) {
	case *segmentIter[K]:
		return s.storageEnd - s.storageIdx
	case emptyIter, nil:
		return 0
	default:
		panic("unreachable")
	}
}
