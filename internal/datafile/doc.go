// Copyright 2026 The ncia Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package datafile contains the on-disk representation of a
// non-contiguously indexed table with int64 keys and byte-slice values.
//
// A datafile looks like:
//
//	┌───────────────────┐
//	│ file header       │
//	├───────────────────┤
//	│ segment starts    │
//	├───────────────────┤
//	│ repeated values   │
//	│                   │
//	│                   │
//	└───────────────────┘
//
// The 64-byte header holds a magic number, the format version, the segment
// and value counts and a checksum of the segment section.  Each segment is
// 16 bytes: the little-endian int64 first key of the segment followed by the
// uint64 index of its first value.
//
// Values are variable length, and start with a fixed 8-byte header:
//
//	 0    1    2    3    4    5    6    7
//	+----+----+----+----+----+----+----+----+
//	| value checksum    | value length      |
//	+----+----+----+----+----+----+----+----+
//	| value...                              |
//	+----+----+----+----+----+----+----+----+
//
// The checksum is calculated from the bytes of the value, and is used to ensure we
// don't have un-detected on-disk corruption (with high probability).
package datafile
