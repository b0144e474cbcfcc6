// Copyright 2026 The ncia Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// gen-testdata writes "key:value" lines with sparse int64 keys: runs of
// consecutive keys separated by gaps, in random order.
package main

import (
	"bufio"
	"crypto/hmac"
	crand "crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"strconv"

	"github.com/bpowers/ncia/internal/bitset"
)

const (
	prefix    = "val_"
	suffixLen = 16
	hmacKey   = "d259c7f656caf7f1"
)

var (
	nPairs  = flag.Int64("n", 1000000, "number of key:value pairs to generate")
	base    = flag.Int64("base", -1<<40, "smallest possible key")
	spread  = flag.Int64("spread", 4, "key range is spread times the number of pairs")
	meanRun = flag.Int("run", 8, "mean length of a run of consecutive keys")
	seed    = flag.Int64("seed", 0, "random seed (0 picks one)")
)

func newRand(seed int64) *rand.Rand {
	if seed == 0 {
		var seedBytes [8]byte
		_, _ = crand.Read(seedBytes[:])
		seed = int64(binary.LittleEndian.Uint64(seedBytes[:]))
	}
	return rand.New(rand.NewSource(seed))
}

// sparseOffsets marks at least n offsets in [0, n*spread), clustered in
// runs.
func sparseOffsets(rng *rand.Rand, n, spread int64, meanRun int) *bitset.Bitset {
	occupied := bitset.New(n * spread)
	for count := int64(0); count < n; {
		start := rng.Int63n(occupied.Len())
		run := int64(rng.Intn(2*meanRun) + 1)
		for off := start; off < start+run && off < occupied.Len(); off++ {
			if !occupied.IsSet(off) {
				occupied.Set(off)
				count++
			}
		}
	}
	return occupied
}

func main() {
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	if *nPairs <= 0 || *spread < 1 || *meanRun < 1 {
		logger.Error("-n, -spread and -run must be positive")
		os.Exit(1)
	}

	rng := newRand(*seed)
	occupied := sparseOffsets(rng, *nPairs, *spread, *meanRun)

	var keys []int64
	for off := range occupied.All() {
		keys = append(keys, *base+off)
	}
	rng.Shuffle(len(keys), func(i, j int) {
		keys[i], keys[j] = keys[j], keys[i]
	})

	h := hmac.New(sha256.New, []byte(hmacKey))
	w := bufio.NewWriter(os.Stdout)
	for _, key := range keys {
		k := strconv.FormatInt(key, 10)
		h.Reset()
		h.Write([]byte(k))
		value := prefix + hex.EncodeToString(h.Sum(nil))[:suffixLen]

		_, _ = fmt.Fprintf(w, "%s:%s\n", k, value)
	}
	if err := w.Flush(); err != nil {
		logger.Error("write failed", "error", err)
		os.Exit(1)
	}

	logger.Info("generated test data", "pairs", occupied.Count(), "base", *base)
}
