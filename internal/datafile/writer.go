// Copyright 2026 The ncia Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package datafile

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"sync/atomic"

	"github.com/dgryski/go-farm"
)

const (
	defaultBufferSize = 4 * 1024 * 1024
	recordHeaderSize  = 4 + 4 // 32-bit checksum of the value + 32-bit value length

	MaxValueLen = math.MaxUint32
)

var (
	errSegmentsWritten = errors.New("segments already written")
	errNoSegments      = errors.New("segments must be written before values")
)

type nopWriter struct{}

func (nopWriter) Write([]byte) (int, error) {
	return 0, io.EOF
}

// FileWriter is usually an *os.File, but specified as an interface for easier testing.
type FileWriter interface {
	io.Writer
	io.WriterAt
}

// Writer writes a datafile: first the segment section with WriteSegments,
// then every value in storage order with Write, then Finish.
type Writer struct {
	f               FileWriter
	h               *fileHeader
	w               *bufio.Writer
	segmentsWritten bool
	finished        atomic.Bool
}

func NewWriter(f FileWriter) (*Writer, error) {
	w := &Writer{
		f: f,
		h: newFileHeader(),
		w: bufio.NewWriterSize(f, defaultBufferSize),
	}

	if _, err := w.h.WriteTo(w.w); err != nil {
		return nil, fmt.Errorf("fileHeader.WriteTo: %w", err)
	}

	// try to expose errors when writing to the backing file early
	if err := w.w.Flush(); err != nil {
		return nil, fmt.Errorf("flush: %w", err)
	}

	return w, nil
}

// WriteSegments writes the first key and first storage index of every
// segment.  It must be called exactly once, before any Write.
func (w *Writer) WriteSegments(keyStarts []int64, storageStarts []int) error {
	if w.segmentsWritten {
		return errSegmentsWritten
	}
	if len(keyStarts) != len(storageStarts) {
		return fmt.Errorf("%d key starts but %d storage starts", len(keyStarts), len(storageStarts))
	}

	buf := make([]byte, segmentSize*len(keyStarts))
	for i, k := range keyStarts {
		if storageStarts[i] < 0 {
			return fmt.Errorf("negative storage start %d for segment %d", storageStarts[i], i)
		}
		seg := buf[i*segmentSize : (i+1)*segmentSize]
		binary.LittleEndian.PutUint64(seg[0:8], uint64(k))
		binary.LittleEndian.PutUint64(seg[8:16], uint64(storageStarts[i]))
	}
	if _, err := w.w.Write(buf); err != nil {
		return fmt.Errorf("bufio.Write: %w", err)
	}

	w.h.segmentCount = uint64(len(keyStarts))
	w.h.segmentsChecksum = farm.Hash64(buf)
	w.segmentsWritten = true
	return nil
}

func (w *Writer) writeRecordHeader(value []byte) (int, error) {
	if uint64(len(value)) > MaxValueLen {
		return 0, fmt.Errorf("value of %d bytes too long", len(value))
	}

	var header [recordHeaderSize]byte

	checksum := uint32(farm.Hash64(value))
	binary.LittleEndian.PutUint32(header[:4], checksum)
	binary.LittleEndian.PutUint32(header[4:8], uint32(len(value)))

	return w.w.Write(header[:])
}

// Write appends the next value.
func (w *Writer) Write(value []byte) error {
	if !w.segmentsWritten {
		return errNoSegments
	}
	if w.finished.Load() {
		return errors.New("write after Finish")
	}

	if _, err := w.writeRecordHeader(value); err != nil {
		return fmt.Errorf("writeRecordHeader: %w", err)
	}
	if _, err := w.w.Write(value); err != nil {
		return fmt.Errorf("bufio.Write: %w", err)
	}

	w.h.valueCount++
	return nil
}

// Finish flushes buffered data and records the final counts in the header.
func (w *Writer) Finish() error {
	if alreadyFinished := w.finished.Swap(true); alreadyFinished {
		// nothing to do - already cleaned up
		return nil
	}

	defer func() {
		w.w.Reset(&nopWriter{})
		w.w = nil
	}()

	if err := w.w.Flush(); err != nil {
		return fmt.Errorf("bufio.Flush: %w", err)
	}

	return w.h.WriteAt(w.f)
}
