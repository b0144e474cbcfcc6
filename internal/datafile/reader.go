// Copyright 2026 The ncia Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package datafile

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/dgryski/go-farm"
	"golang.org/x/sys/unix"

	"github.com/bpowers/ncia/internal/mmap"
)

// MmapReader gives access to the contents of a datafile mapped into memory.
type MmapReader struct {
	h             fileHeader
	mmap          *mmap.ReaderAt
	keyStarts     []int64
	storageStarts []int
	values        [][]byte
}

// NewMMapReaderWithPath maps the datafile at path and verifies the checksums
// of its segment section and of every value.
func NewMMapReaderWithPath(path string) (*MmapReader, error) {
	m, err := mmap.Open(path)
	if err != nil {
		return nil, fmt.Errorf("mmap.Open(%s): %w", path, err)
	}

	r, err := newMmapReader(m)
	if err != nil {
		_ = m.Close()
		return nil, err
	}
	return r, nil
}

func newMmapReader(m *mmap.ReaderAt) (*MmapReader, error) {
	if m.Len() < fileHeaderSize {
		return nil, fmt.Errorf("data file too short: %d < %d", m.Len(), fileHeaderSize)
	}

	// lookups jump around the value section
	if err := m.Advise(unix.MADV_RANDOM); err != nil {
		return nil, fmt.Errorf("madvise: %w", err)
	}

	data := m.Data()

	var header fileHeader
	if err := header.UnmarshalBytes(data); err != nil {
		return nil, fmt.Errorf("fileHeader.UnmarshalBytes: %w", err)
	}

	r := &MmapReader{
		h:    header,
		mmap: m,
	}
	if err := r.readSegments(data); err != nil {
		return nil, err
	}
	if err := r.readValues(data); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *MmapReader) readSegments(data []byte) error {
	count := r.h.segmentCount
	if count > uint64(len(data)-fileHeaderSize)/segmentSize {
		return fmt.Errorf("segment count %d beyond bounds (%d)", count, len(data))
	}
	end := fileHeaderSize + int(count)*segmentSize
	section := data[fileHeaderSize:end]
	if checksum := farm.Hash64(section); checksum != r.h.segmentsChecksum {
		return fmt.Errorf("segment checksum failed (%d != %d): data file corrupted", r.h.segmentsChecksum, checksum)
	}

	r.keyStarts = make([]int64, count)
	r.storageStarts = make([]int, count)
	for i := range r.keyStarts {
		seg := section[i*segmentSize : (i+1)*segmentSize]
		storageStart := binary.LittleEndian.Uint64(seg[8:16])
		if storageStart > math.MaxInt {
			return fmt.Errorf("segment %d: storage start %d out of range", i, storageStart)
		}
		r.keyStarts[i] = int64(binary.LittleEndian.Uint64(seg[0:8]))
		r.storageStarts[i] = int(storageStart)
	}
	return nil
}

func readRecordHeader(header []byte) (expectedChecksum uint32, valueLen int64) {
	_ = header[recordHeaderSize-1]

	expectedChecksum = binary.LittleEndian.Uint32(header[:4])
	valueLen = int64(binary.LittleEndian.Uint32(header[4:8]))
	return
}

func (r *MmapReader) readValues(data []byte) error {
	count := r.h.valueCount
	off := int64(fileHeaderSize) + int64(len(r.keyStarts))*segmentSize
	mLen := int64(len(data))
	// every value takes at least a record header
	if count > uint64(mLen-off)/recordHeaderSize {
		return fmt.Errorf("value count %d beyond bounds (%d)", count, mLen)
	}

	r.values = make([][]byte, count)
	for i := range r.values {
		if off+recordHeaderSize > mLen {
			return fmt.Errorf("off %d beyond bounds (%d)", off, mLen)
		}
		expectedChecksum, valueLen := readRecordHeader(data[off : off+recordHeaderSize])
		off += recordHeaderSize
		if off+valueLen > mLen {
			return fmt.Errorf("off %d + valueLen %d beyond bounds (%d)", off, valueLen, mLen)
		}
		// full slice expression: callers can't append into the mapping
		value := data[off : off+valueLen : off+valueLen]
		if checksum := uint32(farm.Hash64(value)); checksum != expectedChecksum {
			return fmt.Errorf("off %d checksum failed (%d != %d): data file corrupted", off, expectedChecksum, checksum)
		}
		r.values[i] = value
		off += valueLen
	}
	return nil
}

// Segments returns the first key and first storage index of every segment.
func (r *MmapReader) Segments() (keyStarts []int64, storageStarts []int) {
	return r.keyStarts, r.storageStarts
}

// Values returns every value in storage order.  The slices point into the
// mapping and are only valid until Close.
func (r *MmapReader) Values() [][]byte {
	return r.values
}

// Len returns the number of values.
func (r *MmapReader) Len() int64 {
	return int64(r.h.valueCount)
}

// Close releases the mapping.
func (r *MmapReader) Close() error {
	return r.mmap.Close()
}
