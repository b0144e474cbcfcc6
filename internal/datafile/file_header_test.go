// Copyright 2026 The ncia Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package datafile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileHeader_RoundTrip(t *testing.T) {
	origH := newFileHeader()
	require.Equal(t, uint32(magicDataHeader), origH.magic)
	require.Equal(t, uint32(fileFormatVersion), origH.formatVersion)
	origH.segmentCount = 3
	origH.valueCount = 129
	origH.segmentsChecksum = 0xdeadbeef

	// this should be an error
	err := origH.MarshalTo(nil)
	assert.Error(t, err)

	var newH fileHeader
	headerBytes := make([]byte, fileHeaderSize)
	// this should be an error -- missing magic number
	err = newH.UnmarshalBytes(headerBytes)
	assert.Error(t, err)

	err = origH.MarshalTo(headerBytes)
	require.NoError(t, err)

	// this should be an error
	err = newH.UnmarshalBytes(nil)
	assert.Error(t, err)

	err = newH.UnmarshalBytes(headerBytes)
	require.NoError(t, err)

	assert.Equal(t, origH, &newH)

	// test that deserializing an unknown version is broken
	origH.formatVersion = 666
	err = origH.MarshalTo(headerBytes)
	require.NoError(t, err)
	// this should be an error
	err = newH.UnmarshalBytes(headerBytes)
	assert.Error(t, err)
}

func TestFileHeader_WriteAt(t *testing.T) {
	origH := newFileHeader()

	buf := safeBuffer{
		buf: make([]byte, fileHeaderSize),
	}

	origH.segmentCount = 7
	origH.valueCount = 999
	err := origH.WriteAt(&buf)
	require.NoError(t, err)

	var newH fileHeader
	err = newH.UnmarshalBytes([]byte(buf.String()))
	require.NoError(t, err)
	assert.Equal(t, uint64(7), newH.segmentCount)
	assert.Equal(t, uint64(999), newH.valueCount)

	// a too-short destination should error rather than silently truncate
	short := safeBuffer{
		buf: make([]byte, fileHeaderSize-1),
	}
	err = origH.WriteAt(&short)
	assert.Error(t, err)
}
