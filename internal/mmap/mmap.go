// Copyright 2026 The ncia Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package mmap provides read-only memory mapped access to files.
package mmap

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"golang.org/x/sys/unix"
)

// ReaderAt is a read-only view of a memory mapped file.
type ReaderAt struct {
	mu   sync.Mutex
	data []byte
}

// Open memory maps the file at path.  The mapping is kept after the file
// descriptor is closed, until Close is called.
func Open(path string) (*ReaderAt, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()

	fi, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("f.Stat: %w", err)
	}

	size := fi.Size()
	if size == 0 {
		return &ReaderAt{}, nil
	}
	if size < 0 || size != int64(int(size)) {
		return nil, fmt.Errorf("mmap: file %q has unsupported size %d", path, size)
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("unix.Mmap: %w", err)
	}
	return &ReaderAt{data: data}, nil
}

// Len returns the length of the mapping in bytes.
func (r *ReaderAt) Len() int {
	return len(r.data)
}

// Data returns the mapped bytes.  They must not be written to, and must not
// be used after Close.
func (r *ReaderAt) Data() []byte {
	return r.data
}

// Advise passes an madvise(2) hint (e.g. unix.MADV_RANDOM) to the kernel.
func (r *ReaderAt) Advise(advice int) error {
	if len(r.data) == 0 {
		return nil
	}
	return unix.Madvise(r.data, advice)
}

// Close unmaps the file.  It is safe to call Close more than once.
func (r *ReaderAt) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.data == nil {
		return nil
	}
	data := r.data
	r.data = nil
	if err := unix.Munmap(data); err != nil {
		return errors.Join(errors.New("mmap: munmap failed"), err)
	}
	return nil
}
