// Copyright 2026 The ncia Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package format

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bpowers/ncia"
)

type int32Array = ncia.Array[int32, int32, ncia.Integers[int32]]

var negative = ncia.NewInt([]int32{-500, -490, -400}, []int{0, 3, 5}, []int32{-500, -499, -498, -490, -489, -400})

func write(t *testing.T, arr int32Array, cfg Config) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, arr, cfg))
	return buf.String()
}

func TestWrite_GoLiteral(t *testing.T) {
	expected := `(
	[]int32{
		-500,
		-490,
		-400,
	},
	[]int{
		0,
		3,
		5,
	},
	[]int32{
		-500,
		-499,
		-498,
		-490,
		-489,
		-400,
	},
)`
	require.Equal(t, expected, write(t, negative, Config{Format: GoLiteral}))
}

func TestWrite_GoLiteralStrings(t *testing.T) {
	arr := ncia.NewInt([]uint8{7}, []int{0}, []string{"a\"b", "c"})

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, arr, Config{Format: GoLiteral}))
	require.Contains(t, buf.String(), "\t[]string{\n\t\t\"a\\\"b\",\n\t\t\"c\",\n\t},\n")

	buf.Reset()
	require.NoError(t, Write(&buf, arr, Config{Format: GoLiteral, Values: ValueDisplay}))
	require.Contains(t, buf.String(), "\t\ta\"b,\n")
}

func TestWrite_GoLiteralInterfaceValues(t *testing.T) {
	arr := ncia.NewInt([]int{1}, []int{0}, []any{1, "two"})
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, arr, Config{Format: GoLiteral}))
	require.Contains(t, buf.String(), "[]interface {}{\n")
}

func TestWrite_JSON(t *testing.T) {
	require.Equal(t,
		`{"segment_key_start":[-500,-490,-400],"segment_storage_start":[0,3,5],"values":[-500,-499,-498,-490,-489,-400]}`,
		write(t, negative, Config{Format: JSON}))

	require.Equal(t,
		`{"segment_key_start":[-500,-490,-400],"segment_storage_start":[0,3,5],"values":["-500","-499","-498","-490","-489","-400"]}`,
		write(t, negative, Config{Format: JSON, Values: ValueDisplay}))
}

func TestWrite_Empty(t *testing.T) {
	var empty int32Array
	out := write(t, empty, Config{Format: JSON})
	arr, err := Load[int32, int32, ncia.Integers[int32]]([]byte(out), JSON)
	require.NoError(t, err)
	require.Zero(t, arr.Len())
}

func TestRoundTrip(t *testing.T) {
	for _, f := range []Format{JSON, JSONPretty, CBOR, YAML} {
		t.Run(f.String(), func(t *testing.T) {
			out := write(t, negative, Config{Format: f})

			arr, err := Load[int32, int32, ncia.Integers[int32]]([]byte(out), f)
			require.NoError(t, err)

			expectedKeys, expectedStorage := negative.Segments()
			keyStarts, storageStarts := arr.Segments()
			assert.Equal(t, expectedKeys, keyStarts)
			assert.Equal(t, expectedStorage, storageStarts)
			assert.Equal(t, negative.Values(), arr.Values())
		})
	}
}

func TestRoundTrip_StringValues(t *testing.T) {
	b := ncia.NewIntBuilder[int64, string]()
	b.Put(-3, "minus three")
	b.Put(-2, "minus two")
	b.Put(40, "forty")
	src, err := b.Build()
	require.NoError(t, err)

	for _, f := range []Format{JSON, CBOR, YAML} {
		var buf bytes.Buffer
		require.NoError(t, Write(&buf, src, Config{Format: f}))
		arr, err := Load[int64, string, ncia.Integers[int64]](buf.Bytes(), f)
		require.NoError(t, err, "format %v", f)
		v, ok := arr.Get(40)
		require.True(t, ok)
		require.Equal(t, "forty", v)
	}
}

func TestWrite_YAML(t *testing.T) {
	out := write(t, negative, Config{Format: YAML})
	require.Contains(t, out, "segment_key_start:\n")
	require.Contains(t, out, "segment_storage_start:\n")
	require.Contains(t, out, "- -489\n")
}

func TestLoad_Invalid(t *testing.T) {
	// the first segment touches the second
	data := []byte(`{"segment_key_start":[0,2],"segment_storage_start":[0,2],"values":[1,2,3]}`)
	_, err := Load[int32, int32, ncia.Integers[int32]](data, JSON)
	require.ErrorIs(t, err, ncia.SegmentsMinimal)

	var verr *ncia.ViolationError
	require.True(t, errors.As(err, &verr))
	require.Equal(t, 0, verr.Segment)

	_, err = Load[int32, int32, ncia.Integers[int32]]([]byte("{"), JSON)
	require.Error(t, err)

	_, err = Load[int32, int32, ncia.Integers[int32]]([]byte("()"), GoLiteral)
	require.ErrorIs(t, err, errNotLoadable)
}

func TestParseFormat(t *testing.T) {
	for _, f := range []Format{GoLiteral, JSON, JSONPretty, CBOR, YAML} {
		parsed, err := ParseFormat(f.String())
		require.NoError(t, err)
		require.Equal(t, f, parsed)
	}

	f, err := ParseFormat("JSON")
	require.NoError(t, err)
	require.Equal(t, JSON, f)

	_, err = ParseFormat("xml")
	require.Error(t, err)
	require.Equal(t, "Format(9)", Format(9).String())
}

func TestParseValueFormatting(t *testing.T) {
	for _, vf := range []ValueFormatting{ValueNative, ValueDisplay, ValueGoSyntax, ValueVerbose} {
		parsed, err := ParseValueFormatting(vf.String())
		require.NoError(t, err)
		require.Equal(t, vf, parsed)
	}
	_, err := ParseValueFormatting("pretty")
	require.Error(t, err)
}

func TestWrite_VerboseValues(t *testing.T) {
	type point struct{ X, Y int }
	arr := ncia.NewInt([]int{0}, []int{0}, []point{{1, 2}})

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, arr, Config{Format: JSON, Values: ValueVerbose}))
	require.Contains(t, buf.String(), `"values":["{X:1 Y:2}"]`)

	buf.Reset()
	require.NoError(t, Write(&buf, arr, Config{Format: JSON, Values: ValueGoSyntax}))
	require.Contains(t, buf.String(), `format.point{X:1, Y:2}`)
}
