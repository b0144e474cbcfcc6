// Copyright 2026 The ncia Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package ncia

import (
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/bpowers/ncia/internal/datafile"
	"github.com/bpowers/ncia/internal/unsafestring"
)

var errValueTooBig = errors.New("we only support values < 4 GB in length")

// TableBuilder builds an on-disk Table from int64 keys and byte-slice values.
type TableBuilder struct {
	resultPath string
	b          *Builder[int64, []byte, Integers[int64]]
	logger     *slog.Logger
	finalized  bool
}

// NewTableBuilder creates a TableBuilder that will write its table to
// dataFilePath.  Building should happen once; the file is only created by
// Finalize.
func NewTableBuilder(dataFilePath string, opts ...BuilderOption) (*TableBuilder, error) {
	options := newBuilderOptions(opts)
	dataFilePath, err := filepath.Abs(dataFilePath)
	if err != nil {
		return nil, fmt.Errorf("filepath.Abs: %w", err)
	}
	return &TableBuilder{
		resultPath: dataFilePath,
		b:          NewIntBuilder[int64, []byte](opts...),
		logger:     options.logger,
	}, nil
}

// Put adds a key/value pair to the table.  The value is copied.
func (tb *TableBuilder) Put(key int64, value []byte) error {
	if uint64(len(value)) > datafile.MaxValueLen {
		return errValueTooBig
	}
	tb.b.Put(key, append([]byte(nil), value...))
	return nil
}

// Finalize writes the table to disk.  The file is written under a temporary
// name and atomically renamed into place once complete.
func (tb *TableBuilder) Finalize() error {
	if tb.finalized {
		return errors.New("Finalize already called")
	}
	tb.finalized = true

	arr, err := tb.b.Build()
	if err != nil {
		return fmt.Errorf("Build: %w", err)
	}

	// we want to write to a new file and do an atomic rename when we're done on disk
	dir := filepath.Dir(tb.resultPath)
	f, err := os.CreateTemp(dir, "ncia-builder.*.data")
	if err != nil {
		return fmt.Errorf("CreateTemp failed (may need permissions for dir %q containing dataFile): %w", dir, err)
	}
	if err := writeTable(f, arr); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return err
	}

	if err = f.Sync(); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	// make the file read-only
	if err := os.Chmod(f.Name(), 0444); err != nil {
		return fmt.Errorf("os.Chmod(0444): %w", err)
	}
	if err := os.Rename(f.Name(), tb.resultPath); err != nil {
		return fmt.Errorf("os.Rename: %w", err)
	}

	keyStarts, _ := arr.Segments()
	tb.logger.Info("wrote table",
		"path", tb.resultPath,
		"segments", len(keyStarts),
		"values", arr.Len(),
	)
	return nil
}

func writeTable(f datafile.FileWriter, arr Array[int64, []byte, Integers[int64]]) error {
	w, err := datafile.NewWriter(f)
	if err != nil {
		return fmt.Errorf("datafile.NewWriter: %w", err)
	}
	if err := w.WriteSegments(arr.Segments()); err != nil {
		return fmt.Errorf("WriteSegments: %w", err)
	}
	for _, v := range arr.Values() {
		if err := w.Write(v); err != nil {
			return fmt.Errorf("datafile.Write: %w", err)
		}
	}
	if err := w.Finish(); err != nil {
		return fmt.Errorf("datafile.Finish: %w", err)
	}
	return nil
}

// Table is an immutable, memory mapped mapping from int64 keys to byte
// slices.  It is safe for concurrent use until Close is called.
type Table struct {
	r   *datafile.MmapReader
	arr Array[int64, []byte, Integers[int64]]
}

// OpenTable opens a table written by TableBuilder, verifying checksums and
// segment invariants before returning it.
func OpenTable(dataPath string) (*Table, error) {
	r, err := datafile.NewMMapReaderWithPath(dataPath)
	if err != nil {
		return nil, fmt.Errorf("datafile.NewMMapReaderWithPath(%s): %w", dataPath, err)
	}

	keyStarts, storageStarts := r.Segments()
	arr := NewInt(keyStarts, storageStarts, r.Values())
	if err := arr.Check(); err != nil {
		_ = r.Close()
		return nil, fmt.Errorf("table %s: %w", dataPath, err)
	}

	return &Table{
		r:   r,
		arr: arr,
	}, nil
}

// Get returns the value for key.  The returned slice points into the
// mapped file: it must not be modified, and is invalid after Close.
func (t *Table) Get(key int64) ([]byte, bool) {
	return t.arr.Get(key)
}

// GetString is like Get, but returns the value as a string without copying.
// The string is invalid after Close.
func (t *Table) GetString(key int64) (string, bool) {
	v, ok := t.arr.Get(key)
	if !ok {
		return "", false
	}
	return unsafestring.FromBytes(v), true
}

// HasEntry reports whether key has a value.
func (t *Table) HasEntry(key int64) bool {
	return t.arr.HasEntry(key)
}

// Len returns the number of entries.
func (t *Table) Len() int {
	return t.arr.Len()
}

// Entries returns all key/value pairs in key order.
func (t *Table) Entries() iter.Seq2[int64, []byte] {
	return t.arr.Entries()
}

// Array returns the in-memory view the table answers lookups with.
func (t *Table) Array() Array[int64, []byte, Integers[int64]] {
	return t.arr
}

// Close releases the mapped file.
func (t *Table) Close() error {
	return t.r.Close()
}
