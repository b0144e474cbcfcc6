// Copyright 2026 The ncia Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// ncia-gen reads "key:value" lines with int64 keys and builds a
// non-contiguously indexed array from them, written either as source or
// data in one of the format notations, or as an on-disk table.
package main

import (
	"bufio"
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/bpowers/ncia"
	"github.com/bpowers/ncia/format"
)

const tableFormat = "table"

var (
	inPath   = flag.String("in", "-", "input file of key:value lines (- for stdin)")
	outPath  = flag.String("out", "-", "output file (- for stdout); required for -format table")
	formatFl = flag.String("format", "go", "output format: go, json, json-pretty, cbor, yaml or table")
	valuesFl = flag.String("values", "native", "value formatting: native, display, go or verbose")
	strict   = flag.Bool("strict", true, "fail on duplicate keys instead of keeping the first value")
	verbose  = flag.Bool("v", false, "log debug output")
)

var errBadLine = errors.New("expected key:value")

// parseLine splits a "key:value" line.  The value may itself contain ':'.
func parseLine(line []byte) (int64, []byte, error) {
	k, v, ok := bytes.Cut(line, []byte{':'})
	if !ok {
		return 0, nil, errBadLine
	}
	key, err := strconv.ParseInt(string(k), 10, 64)
	if err != nil {
		return 0, nil, fmt.Errorf("key: %w", err)
	}
	return key, v, nil
}

// readEntries calls put for every line of r, skipping empty lines.
func readEntries(r io.Reader, put func(key int64, value []byte) error) error {
	s := bufio.NewScanner(bufio.NewReaderSize(r, 16*1024))
	s.Buffer(make([]byte, 64*1024), 1<<30)
	lineNo := 0
	for s.Scan() {
		lineNo++
		line := s.Bytes()
		if len(line) == 0 {
			continue
		}
		key, value, err := parseLine(line)
		if err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
		if err := put(key, value); err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	return s.Err()
}

func openInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}

func builderOptions(logger *slog.Logger) []ncia.BuilderOption {
	opts := []ncia.BuilderOption{ncia.WithBuilderLogger(logger)}
	if !*strict {
		opts = append(opts, ncia.WithDuplicates(ncia.DuplicatesFirstWins))
	}
	return opts
}

func buildTable(in io.Reader, logger *slog.Logger) error {
	if *outPath == "-" {
		return errors.New("-format table needs an -out file")
	}
	tb, err := ncia.NewTableBuilder(*outPath, builderOptions(logger)...)
	if err != nil {
		return fmt.Errorf("ncia.NewTableBuilder: %w", err)
	}
	if err := readEntries(in, tb.Put); err != nil {
		return err
	}
	return tb.Finalize()
}

func buildFormatted(in io.Reader, cfg format.Config, logger *slog.Logger) (err error) {
	b := ncia.NewIntBuilder[int64, string](builderOptions(logger)...)
	if err := readEntries(in, func(key int64, value []byte) error {
		b.Put(key, string(value))
		return nil
	}); err != nil {
		return err
	}
	arr, err := b.Build()
	if err != nil {
		return fmt.Errorf("Build: %w", err)
	}

	var out io.Writer = os.Stdout
	if *outPath != "-" {
		f, createErr := os.Create(*outPath)
		if createErr != nil {
			return createErr
		}
		defer func() {
			if closeErr := f.Close(); err == nil {
				err = closeErr
			}
		}()
		out = f
	}
	if err := format.Write(out, arr, cfg); err != nil {
		return fmt.Errorf("format.Write: %w", err)
	}
	keyStarts, _ := arr.Segments()
	logger.Info("wrote array", "format", cfg.Format, "segments", len(keyStarts), "values", arr.Len())
	return nil
}

func run(logger *slog.Logger) error {
	in, err := openInput(*inPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = in.Close()
	}()

	if *formatFl == tableFormat {
		return buildTable(in, logger)
	}

	f, err := format.ParseFormat(*formatFl)
	if err != nil {
		return err
	}
	vf, err := format.ParseValueFormatting(*valuesFl)
	if err != nil {
		return err
	}
	return buildFormatted(in, format.Config{Format: f, Values: vf}, logger)
}

func main() {
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := run(logger); err != nil {
		logger.Error("ncia-gen failed", "error", err)
		os.Exit(1)
	}
}
