// Copyright 2026 The ncia Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package ncia

import (
	"fmt"

	"golang.org/x/exp/constraints"
)

// Invariant identifies one of the rules segment data has to follow for
// lookups and iteration to be correct.  Invariant implements error so that
// callers can match a validation failure with errors.Is.
type Invariant int

const (
	// EmptyConsistency: key starts, storage starts and values are either
	// all empty or all non-empty.
	EmptyConsistency Invariant = iota + 1
	// ParallelLengths: there is exactly one storage start per key start.
	ParallelLengths
	// ZeroAnchor: the first segment starts at storage index 0.
	ZeroAnchor
	// StorageInBounds: every storage start indexes an existing value.
	StorageInBounds
	// StrictlyMonotonic: key starts and storage starts both strictly
	// increase from segment to segment.
	StrictlyMonotonic
	// SegmentsDisjoint: walking Next through a segment stays strictly
	// increasing and never reaches the start of the following segment.
	SegmentsDisjoint
	// DistanceConsistent: Distance from a segment start agrees with the
	// storage offset of every key in the segment.
	DistanceConsistent
	// SegmentsMinimal: the key after the last key of a segment is not the
	// start of the following segment (otherwise the two should be one).
	SegmentsMinimal
	// SuccessorsGenerable: Next can produce a key for every value of a
	// segment without running out.
	SuccessorsGenerable
)

var invariantNames = [...]string{
	EmptyConsistency:    "empty consistency",
	ParallelLengths:     "parallel lengths",
	ZeroAnchor:          "zero anchor",
	StorageInBounds:     "storage in bounds",
	StrictlyMonotonic:   "strictly monotonic",
	SegmentsDisjoint:    "segments disjoint",
	DistanceConsistent:  "distance consistent",
	SegmentsMinimal:     "segments minimal",
	SuccessorsGenerable: "successors generable",
}

func (inv Invariant) String() string {
	if inv <= 0 || int(inv) >= len(invariantNames) {
		return fmt.Sprintf("Invariant(%d)", int(inv))
	}
	return invariantNames[inv]
}

func (inv Invariant) Error() string {
	return "ncia: invariant violated: " + inv.String()
}

// ViolationError reports the first invariant segment data failed, and the
// segment where that was detected (-1 if the violation isn't tied to a
// single segment).
type ViolationError struct {
	Invariant Invariant
	Segment   int
}

func (e *ViolationError) Error() string {
	if e.Segment < 0 {
		return e.Invariant.Error()
	}
	return fmt.Sprintf("%s (segment %d)", e.Invariant.Error(), e.Segment)
}

func (e *ViolationError) Unwrap() error {
	return e.Invariant
}

func violation(inv Invariant, segment int) error {
	return &ViolationError{Invariant: inv, Segment: segment}
}

// CheckIntSegments is CheckSegments for integer keys.
func CheckIntSegments[K constraints.Integer](keyStarts []K, storageStarts []int, valueCount int) error {
	return CheckSegments[K, Integers[K]](keyStarts, storageStarts, valueCount)
}

// CheckKeyedSegments is CheckSegments for custom Key types.
func CheckKeyedSegments[K Key[K]](keyStarts []K, storageStarts []int, valueCount int) error {
	return CheckSegments[K, Methods[K]](keyStarts, storageStarts, valueCount)
}

// CheckSegments validates segment data before an Array built from it is
// trusted.  It returns nil, or a *ViolationError for the first failed
// Invariant.  Checks run in order: EmptyConsistency, ParallelLengths,
// ZeroAnchor, then for each pair of adjacent segments StorageInBounds,
// StrictlyMonotonic, the walk through the lower segment (SuccessorsGenerable,
// SegmentsDisjoint, DistanceConsistent) and SegmentsMinimal, and finally the
// walk through the last segment.
//
// Only the documented Domain contracts are relied upon: a Domain that breaks
// them produces a violation, not a panic.  The work done is bounded by
// valueCount.
func CheckSegments[K any, D Domain[K]](keyStarts []K, storageStarts []int, valueCount int) error {
	if valueCount < 0 {
		panic("ncia: negative value count")
	}

	empty := len(keyStarts) == 0
	if empty != (len(storageStarts) == 0) || empty != (valueCount == 0) {
		return violation(EmptyConsistency, -1)
	}
	if empty {
		return nil
	}
	if len(keyStarts) != len(storageStarts) {
		return violation(ParallelLengths, -1)
	}
	if storageStarts[0] != 0 {
		return violation(ZeroAnchor, 0)
	}

	var dom D
	last := len(keyStarts) - 1
	for i := 0; i < last; i++ {
		if storageStarts[i+1] >= valueCount {
			return violation(StorageInBounds, i+1)
		}
		if dom.Compare(keyStarts[i], keyStarts[i+1]) >= 0 || storageStarts[i] >= storageStarts[i+1] {
			return violation(StrictlyMonotonic, i+1)
		}

		n := storageStarts[i+1] - storageStarts[i]
		lastKey, inv := walkSegment[K, D](keyStarts[i], n, &keyStarts[i+1])
		if inv != 0 {
			return violation(inv, i)
		}
		end, ok := dom.Next(lastKey)
		if !ok {
			// the segment can't be extended, so there is nothing to merge
			continue
		}
		if dom.Compare(end, lastKey) <= 0 {
			return violation(SegmentsDisjoint, i)
		}
		if c := dom.Compare(end, keyStarts[i+1]); c == 0 {
			return violation(SegmentsMinimal, i)
		} else if c > 0 {
			return violation(SegmentsDisjoint, i)
		}
	}

	if _, inv := walkSegment[K, D](keyStarts[last], valueCount-storageStarts[last], nil); inv != 0 {
		return violation(inv, last)
	}
	return nil
}

// walkSegment steps through the n keys of the segment beginning at start,
// cross-checking each against the Domain, and returns the last one.  Keys
// must stay below limit, if given.  A zero Invariant means no violation.
func walkSegment[K any, D Domain[K]](start K, n int, limit *K) (K, Invariant) {
	var dom D

	k := start
	for off := 0; off < n; off++ {
		if off > 0 {
			next, ok := dom.Next(k)
			if !ok {
				return k, SuccessorsGenerable
			}
			if dom.Compare(next, k) <= 0 || dom.Compare(next, start) <= 0 {
				return k, SegmentsDisjoint
			}
			if limit != nil && dom.Compare(next, *limit) >= 0 {
				return k, SegmentsDisjoint
			}
			k = next
		}
		if d, ok := dom.Distance(start, k); !ok || d != off {
			return k, DistanceConsistent
		}
	}
	return k, 0
}
