// Copyright 2026 The ncia Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package ncia

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"golang.org/x/exp/constraints"
)

// ErrDuplicateKey is returned by Build when the same key was Put more than
// once and the builder uses DuplicatesReject.
var ErrDuplicateKey = errors.New("duplicate keys aren't supported")

// DuplicatePolicy selects what Build does with keys that were Put more than
// once.
type DuplicatePolicy int

const (
	// DuplicatesReject makes Build fail with ErrDuplicateKey.
	DuplicatesReject DuplicatePolicy = iota
	// DuplicatesFirstWins keeps the value of the first Put for a key and
	// drops the rest.
	DuplicatesFirstWins
)

func (p DuplicatePolicy) String() string {
	switch p {
	case DuplicatesReject:
		return "reject"
	case DuplicatesFirstWins:
		return "first-wins"
	default:
		return fmt.Sprintf("DuplicatePolicy(%d)", int(p))
	}
}

// BuilderOption configures the Builder.
type BuilderOption func(*builderOptions)

type builderOptions struct {
	logger     *slog.Logger
	duplicates DuplicatePolicy
}

// WithBuilderLogger sets an optional logger for the builder to use for progress updates.
// If not provided, no logging output will be produced.
func WithBuilderLogger(logger *slog.Logger) BuilderOption {
	return func(opts *builderOptions) {
		opts.logger = logger
	}
}

// WithDuplicates sets how Build treats keys that were Put more than once.
// The default is DuplicatesReject.
func WithDuplicates(policy DuplicatePolicy) BuilderOption {
	return func(opts *builderOptions) {
		opts.duplicates = policy
	}
}

func newBuilderOptions(opts []BuilderOption) builderOptions {
	var options builderOptions
	options.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	for _, opt := range opts {
		opt(&options)
	}
	return options
}

type entry[K, V any] struct {
	key   K
	value V
}

// Builder collects key/value pairs in any order and turns them into the
// minimal segment data for an Array.
type Builder[K, V any, D Domain[K]] struct {
	entries    []entry[K, V]
	logger     *slog.Logger
	duplicates DuplicatePolicy
}

// NewBuilder returns an empty Builder.
func NewBuilder[K, V any, D Domain[K]](opts ...BuilderOption) *Builder[K, V, D] {
	options := newBuilderOptions(opts)
	return &Builder[K, V, D]{
		logger:     options.logger,
		duplicates: options.duplicates,
	}
}

// NewIntBuilder returns an empty Builder for integer keys.
func NewIntBuilder[K constraints.Integer, V any](opts ...BuilderOption) *Builder[K, V, Integers[K]] {
	return NewBuilder[K, V, Integers[K]](opts...)
}

// NewKeyedBuilder returns an empty Builder for a custom Key type.
func NewKeyedBuilder[K Key[K], V any](opts ...BuilderOption) *Builder[K, V, Methods[K]] {
	return NewBuilder[K, V, Methods[K]](opts...)
}

// Put adds a key/value pair.  Duplicate keys are dealt with at Build time.
func (b *Builder[K, V, D]) Put(key K, value V) {
	b.entries = append(b.entries, entry[K, V]{key: key, value: value})
}

// Len returns the number of pairs Put so far, including duplicates.
func (b *Builder[K, V, D]) Len() int {
	return len(b.entries)
}

// Build sorts the collected pairs by key, splits them into segments and
// returns an Array over newly allocated slices.  The Builder can be used
// again afterwards; building twice yields the same result.
func (b *Builder[K, V, D]) Build() (Array[K, V, D], error) {
	var dom D

	// stable, so that for duplicates the first Put comes first
	slices.SortStableFunc(b.entries, func(x, y entry[K, V]) int {
		return dom.Compare(x.key, y.key)
	})

	values := make([]V, 0, len(b.entries))
	var keyStarts []K
	var storageStarts []int
	duplicates := 0
	for i, e := range b.entries {
		if i > 0 {
			prev := b.entries[i-1].key
			if dom.Compare(prev, e.key) == 0 {
				if b.duplicates == DuplicatesReject {
					return Array[K, V, D]{}, fmt.Errorf("key %v: %w", e.key, ErrDuplicateKey)
				}
				duplicates++
				continue
			}
			if d, ok := dom.Distance(prev, e.key); ok && d == 1 {
				values = append(values, e.value)
				continue
			}
		}
		keyStarts = append(keyStarts, e.key)
		storageStarts = append(storageStarts, len(values))
		values = append(values, e.value)
	}

	if err := CheckSegments[K, D](keyStarts, storageStarts, len(values)); err != nil {
		return Array[K, V, D]{}, fmt.Errorf("CheckSegments: %w", err)
	}

	b.logger.Debug("built segment data",
		"segments", len(keyStarts),
		"values", len(values),
		"duplicates", duplicates,
		"duplicatePolicy", b.duplicates,
	)

	return New[K, V, D](keyStarts, storageStarts, values), nil
}
