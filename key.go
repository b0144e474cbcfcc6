// Copyright 2026 The ncia Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package ncia

import (
	"cmp"
	"math"

	"golang.org/x/exp/constraints"
)

// Domain describes a totally ordered key space that an Array can be indexed
// by.  Implementations are usually zero-sized structs: the domain is bound
// as a type parameter, so calls are resolved at compile time.
type Domain[K any] interface {
	// Compare returns -1, 0 or +1 depending on whether a is less than,
	// equal to or greater than b.
	Compare(a, b K) int

	// Next returns the immediate successor of k, or false if k is the
	// maximal key.  A returned successor must be greater than k, and no
	// other key may lie strictly between the two.
	Next(k K) (K, bool)

	// Distance returns how many times Next has to be applied to from in
	// order to reach to.  It returns false if from > to or the count
	// doesn't fit in an int.
	Distance(from, to K) (int, bool)
}

// Key is implemented by custom key types that carry their own ordering and
// successor semantics.  Use Methods to turn a Key into a Domain.
type Key[K any] interface {
	Compare(other K) int
	Next() (K, bool)
	Distance(to K) (int, bool)
}

// Integers is the Domain of a fixed-width integer type.
type Integers[K constraints.Integer] struct{}

func (Integers[K]) Compare(a, b K) int {
	return cmp.Compare(a, b)
}

func (Integers[K]) Next(k K) (K, bool) {
	n := k + 1
	if n < k {
		// wrapped around: k is the maximum value of K
		return k, false
	}
	return n, true
}

func (Integers[K]) Distance(from, to K) (int, bool) {
	if from > to {
		return 0, false
	}
	// conversion to uint64 sign-extends, so the modular difference is
	// exact for every signed and unsigned type up to 64 bits.
	d := uint64(to) - uint64(from)
	if d > math.MaxInt {
		return 0, false
	}
	return int(d), true
}

// Methods adapts a Key implementation into a Domain.
type Methods[K Key[K]] struct{}

func (Methods[K]) Compare(a, b K) int {
	return a.Compare(b)
}

func (Methods[K]) Next(k K) (K, bool) {
	return k.Next()
}

func (Methods[K]) Distance(from, to K) (int, bool) {
	return from.Distance(to)
}
