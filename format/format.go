// Copyright 2026 The ncia Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package format writes the segment data of an ncia.Array in one of several
// notations, so that arrays can be generated ahead of time and embedded as
// Go source or shipped as data.
package format

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fxamacker/cbor/v2"
	gojson "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/bpowers/ncia"
)

// Format is an output notation.
type Format int

const (
	// GoLiteral is a Go argument list of three slice literals, meant to
	// follow a constructor such as ncia.NewInt.
	GoLiteral Format = iota
	// JSON is compact JSON.
	JSON
	// JSONPretty is indented JSON.
	JSONPretty
	// CBOR is deterministic (core) CBOR.
	CBOR
	// YAML is a YAML document.
	YAML
)

var formatNames = map[Format]string{
	GoLiteral:  "go",
	JSON:       "json",
	JSONPretty: "json-pretty",
	CBOR:       "cbor",
	YAML:       "yaml",
}

func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// ParseFormat returns the Format with the given name (as returned by
// Format.String).
func ParseFormat(name string) (Format, error) {
	for f, n := range formatNames {
		if strings.EqualFold(n, name) {
			return f, nil
		}
	}
	return 0, fmt.Errorf("unknown format %q", name)
}

// ValueFormatting selects how values are rendered.
type ValueFormatting int

const (
	// ValueNative renders values with the notation's own encoder; Go
	// literals use %#v.
	ValueNative ValueFormatting = iota
	// ValueDisplay renders values with %v.
	ValueDisplay
	// ValueGoSyntax renders values with %#v.
	ValueGoSyntax
	// ValueVerbose renders values with %+v.
	ValueVerbose
)

var valueFormattingNames = map[ValueFormatting]string{
	ValueNative:   "native",
	ValueDisplay:  "display",
	ValueGoSyntax: "go",
	ValueVerbose:  "verbose",
}

func (vf ValueFormatting) String() string {
	if name, ok := valueFormattingNames[vf]; ok {
		return name
	}
	return fmt.Sprintf("ValueFormatting(%d)", int(vf))
}

// ParseValueFormatting returns the ValueFormatting with the given name (as
// returned by ValueFormatting.String).
func ParseValueFormatting(name string) (ValueFormatting, error) {
	for vf, n := range valueFormattingNames {
		if strings.EqualFold(n, name) {
			return vf, nil
		}
	}
	return 0, fmt.Errorf("unknown value formatting %q", name)
}

func (vf ValueFormatting) verb() string {
	switch vf {
	case ValueDisplay:
		return "%v"
	case ValueVerbose:
		return "%+v"
	default:
		return "%#v"
	}
}

// Config controls Write.
type Config struct {
	Format Format
	Values ValueFormatting
}

// Data is the serialized shape of an Array in the data notations.
type Data[K, V any] struct {
	SegmentKeyStart     []K   `json:"segment_key_start" yaml:"segment_key_start" cbor:"segment_key_start"`
	SegmentStorageStart []int `json:"segment_storage_start" yaml:"segment_storage_start" cbor:"segment_storage_start"`
	Values              []V   `json:"values" yaml:"values" cbor:"values"`
}

var errNotLoadable = errors.New("Go literals are compiled, not loaded")

// Write writes the segment data of arr to w.
func Write[K, V any, D ncia.Domain[K]](w io.Writer, arr ncia.Array[K, V, D], cfg Config) error {
	keyStarts, storageStarts := arr.Segments()
	values := arr.Values()

	if cfg.Format == GoLiteral {
		return writeGoLiteral(w, keyStarts, storageStarts, values, cfg.Values)
	}

	if cfg.Values != ValueNative {
		rendered := make([]string, len(values))
		verb := cfg.Values.verb()
		for i, v := range values {
			rendered[i] = fmt.Sprintf(verb, v)
		}
		return writeData(w, Data[K, string]{keyStarts, storageStarts, rendered}, cfg.Format)
	}
	return writeData(w, Data[K, V]{keyStarts, storageStarts, values}, cfg.Format)
}

func writeData[K, V any](w io.Writer, data Data[K, V], f Format) error {
	var out []byte
	var err error
	switch f {
	case JSON:
		out, err = gojson.Marshal(data)
	case JSONPretty:
		out, err = gojson.MarshalIndent(data, "", "\t")
		out = append(out, '\n')
	case CBOR:
		var em cbor.EncMode
		if em, err = cbor.CoreDetEncOptions().EncMode(); err != nil {
			return fmt.Errorf("cbor.EncMode: %w", err)
		}
		out, err = em.Marshal(data)
	case YAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err = enc.Encode(data); err == nil {
			err = enc.Close()
		}
		out = buf.Bytes()
	default:
		return fmt.Errorf("unknown format %v", f)
	}
	if err != nil {
		return fmt.Errorf("%v: %w", f, err)
	}

	if _, err := w.Write(out); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// Load decodes segment data written by Write with ValueNative formatting
// and returns an Array over it, after validating it with ncia.CheckSegments.
func Load[K, V any, D ncia.Domain[K]](data []byte, f Format) (ncia.Array[K, V, D], error) {
	var d Data[K, V]
	var err error
	switch f {
	case JSON, JSONPretty:
		err = gojson.Unmarshal(data, &d)
	case CBOR:
		err = cbor.Unmarshal(data, &d)
	case YAML:
		err = yaml.Unmarshal(data, &d)
	case GoLiteral:
		err = errNotLoadable
	default:
		err = fmt.Errorf("unknown format %v", f)
	}
	if err != nil {
		return ncia.Array[K, V, D]{}, err
	}

	if err := ncia.CheckSegments[K, D](d.SegmentKeyStart, d.SegmentStorageStart, len(d.Values)); err != nil {
		return ncia.Array[K, V, D]{}, fmt.Errorf("CheckSegments: %w", err)
	}
	return ncia.New[K, V, D](d.SegmentKeyStart, d.SegmentStorageStart, d.Values), nil
}
