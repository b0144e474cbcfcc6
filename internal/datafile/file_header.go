// Copyright 2026 The ncia Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package datafile

import (
	"encoding/binary"
	"fmt"
	"io"
)

const (
	magicDataHeader   = 0x4e434941 // "NCIA"
	fileFormatVersion = 1
	fileHeaderSize    = 64

	segmentSize = 8 + 8
)

type fileHeader struct {
	magic            uint32
	formatVersion    uint32
	segmentCount     uint64
	valueCount       uint64
	segmentsChecksum uint64
}

func newFileHeader() *fileHeader {
	return &fileHeader{
		magic:         magicDataHeader,
		formatVersion: fileFormatVersion,
	}
}

func (h *fileHeader) MarshalTo(buf []byte) error {
	if len(buf) < fileHeaderSize {
		return fmt.Errorf("buf too short: %d < %d", len(buf), fileHeaderSize)
	}
	buf = buf[:fileHeaderSize]
	clear(buf)

	binary.LittleEndian.PutUint32(buf[0:4], h.magic)
	binary.LittleEndian.PutUint32(buf[4:8], h.formatVersion)
	binary.LittleEndian.PutUint64(buf[8:16], h.segmentCount)
	binary.LittleEndian.PutUint64(buf[16:24], h.valueCount)
	binary.LittleEndian.PutUint64(buf[24:32], h.segmentsChecksum)

	return nil
}

func (h *fileHeader) WriteTo(w io.Writer) (n int64, err error) {
	var headerBuf [fileHeaderSize]byte
	if err = h.MarshalTo(headerBuf[:]); err != nil {
		return 0, err
	}
	if _, err = w.Write(headerBuf[:]); err != nil {
		return 0, fmt.Errorf("write: %w", err)
	}
	return int64(fileHeaderSize), nil
}

// WriteAt overwrites the header at the start of w, once counts are known.
func (h *fileHeader) WriteAt(w io.WriterAt) error {
	var headerBuf [fileHeaderSize]byte
	if err := h.MarshalTo(headerBuf[:]); err != nil {
		return err
	}
	if _, err := w.WriteAt(headerBuf[:], 0); err != nil {
		return fmt.Errorf("f.WriteAt: %w", err)
	}
	return nil
}

func (h *fileHeader) UnmarshalBytes(headerBytes []byte) error {
	if len(headerBytes) < fileHeaderSize {
		return fmt.Errorf("headerBytes too short: %d < %d", len(headerBytes), fileHeaderSize)
	}

	headerBytes = headerBytes[:fileHeaderSize]

	h.magic = binary.LittleEndian.Uint32(headerBytes[0:4])
	if h.magic != magicDataHeader {
		return fmt.Errorf("bad magic number on data file (%x) -- not ncia datafile or corrupted", h.magic)
	}

	h.formatVersion = binary.LittleEndian.Uint32(headerBytes[4:8])
	if h.formatVersion != fileFormatVersion {
		return fmt.Errorf("this version of the ncia library can only read v%d data files; found v%d", fileFormatVersion, h.formatVersion)
	}

	h.segmentCount = binary.LittleEndian.Uint64(headerBytes[8:16])
	h.valueCount = binary.LittleEndian.Uint64(headerBytes[16:24])
	h.segmentsChecksum = binary.LittleEndian.Uint64(headerBytes[24:32])

	return nil
}
