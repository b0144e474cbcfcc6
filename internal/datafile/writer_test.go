// Copyright 2026 The ncia Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package datafile

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type safeBuffer struct {
	mu  sync.Mutex
	buf []byte
}

func (s *safeBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return string(s.buf)
}

func (s *safeBuffer) Write(p []byte) (n int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buf = append(s.buf, p...)
	return len(p), nil
}

func (s *safeBuffer) WriteAt(p []byte, off int64) (n int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if int(off)+len(p) > len(s.buf) {
		return 0, errors.New("writeAt out of bounds")
	}

	return copy(s.buf[off:int(off)+len(p)], p), nil
}

var _ FileWriter = &safeBuffer{}

type testWriter struct {
	inner            FileWriter
	writeShouldError bool
}

func (c *testWriter) Write(p []byte) (n int, err error) {
	if c.writeShouldError {
		return 0, errors.New("write failed")
	}
	return c.inner.Write(p)
}

func (c *testWriter) WriteAt(p []byte, off int64) (n int, err error) {
	if c.writeShouldError {
		return 0, errors.New("write failed")
	}
	return c.inner.WriteAt(p, off)
}

var _ FileWriter = &testWriter{}

func writeToFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.data")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o444))
	return path
}

func TestNewWriter_Errors(t *testing.T) {
	var fileBytes safeBuffer
	writer := &testWriter{
		inner:            &fileBytes,
		writeShouldError: true,
	}

	_, err := NewWriter(writer)
	assert.Error(t, err)
}

func TestWriter_OrderErrors(t *testing.T) {
	var fileBytes safeBuffer

	w, err := NewWriter(&fileBytes)
	require.NoError(t, err)

	// values before segments should be an error
	err = w.Write([]byte("v"))
	assert.Error(t, err)

	// mismatched lengths should be an error
	err = w.WriteSegments([]int64{0, 10}, []int{0})
	assert.Error(t, err)

	err = w.WriteSegments([]int64{0}, []int{0})
	require.NoError(t, err)
	// segments can only be written once
	err = w.WriteSegments([]int64{0}, []int{0})
	assert.Error(t, err)

	require.NoError(t, w.Write([]byte("v")))

	err = w.Finish()
	require.NoError(t, err)
	// multiple finishes should be fine
	err = w.Finish()
	require.NoError(t, err)

	var h fileHeader
	err = h.UnmarshalBytes([]byte(fileBytes.String()))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), h.segmentCount)
	assert.Equal(t, uint64(1), h.valueCount)
}

func TestWriter_RoundTrip(t *testing.T) {
	var fileBytes safeBuffer

	w, err := NewWriter(&fileBytes)
	require.NoError(t, err)

	keyStarts := []int64{-500, -2, 499}
	storageStarts := []int{0, 300, 700}
	require.NoError(t, w.WriteSegments(keyStarts, storageStarts))

	for i := 0; i < 1000; i++ {
		require.NoError(t, w.Write([]byte(strconv.Itoa(i))))
	}
	// zero-length values are allowed
	require.NoError(t, w.Write(nil))

	require.NoError(t, w.Finish())

	path := writeToFile(t, fileBytes.String())
	r, err := NewMMapReaderWithPath(path)
	require.NoError(t, err)
	defer func() {
		_ = r.Close()
	}()

	assert.Equal(t, int64(1001), r.Len())

	gotKeyStarts, gotStorageStarts := r.Segments()
	assert.Equal(t, keyStarts, gotKeyStarts)
	assert.Equal(t, storageStarts, gotStorageStarts)

	values := r.Values()
	require.Len(t, values, 1001)
	for i := 0; i < 1000; i++ {
		require.Equal(t, strconv.Itoa(i), string(values[i]))
	}
	require.Empty(t, values[1000])
}

func TestReader_Corruption(t *testing.T) {
	var fileBytes safeBuffer

	w, err := NewWriter(&fileBytes)
	require.NoError(t, err)
	require.NoError(t, w.WriteSegments([]int64{0, 10}, []int{0, 2}))
	for _, v := range []string{"zero", "one", "ten"} {
		require.NoError(t, w.Write([]byte(v)))
	}
	require.NoError(t, w.Finish())

	contents := []byte(fileBytes.String())

	// flip a bit in the segment section
	corruptSegments := append([]byte(nil), contents...)
	corruptSegments[fileHeaderSize] ^= 0x01
	_, err = NewMMapReaderWithPath(writeToFile(t, string(corruptSegments)))
	assert.Error(t, err)

	// flip a bit in the last value
	corruptValue := append([]byte(nil), contents...)
	corruptValue[len(corruptValue)-1] ^= 0x01
	_, err = NewMMapReaderWithPath(writeToFile(t, string(corruptValue)))
	assert.Error(t, err)

	// truncated files are detected
	_, err = NewMMapReaderWithPath(writeToFile(t, string(contents[:len(contents)-2])))
	assert.Error(t, err)

	r, err := NewMMapReaderWithPath(writeToFile(t, string(contents)))
	require.NoError(t, err)
	require.NoError(t, r.Close())
}

func TestReader_Errors(t *testing.T) {
	_, err := NewMMapReaderWithPath("/doesnt/exist")
	assert.Error(t, err)

	_, err = NewMMapReaderWithPath("/dev/null")
	assert.Error(t, err)
}
