/*
 * SPDX-FileCopyrightText: © 2017-2025 Istari Digital, Inc.
 * SPDX-License-Identifier: Apache-2.0
 */

// Package sim replays key access traces over cache policies. Traces come from synthetic
// distributions or from trace files in the LIRS, ARC or plain string formats.
package sim

import (
	"bufio"
	"fmt"
	"io"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/pkg/errors"
)

// ErrDone is returned by a Simulator once its trace is exhausted.
var ErrDone = errors.New("no more values in the Simulator")

// Simulator is a source of keys. It returns ErrDone when there are no keys left.
type Simulator func() (uint64, error)

// NewZipfian creates a Simulator returning numbers following a Zipfian distribution
// infinitely. Zipfian distributions are useful for simulating real workloads.
func NewZipfian(s, v float64, n uint64) Simulator {
	z := rand.NewZipf(rand.New(rand.NewSource(time.Now().UnixNano())), s, v, n)
	return func() (uint64, error) {
		return z.Uint64(), nil
	}
}

// NewUniform creates a Simulator returning uniformly distributed [0, n) numbers infinitely.
func NewUniform(n uint64) Simulator {
	m := int64(n)
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	return func() (uint64, error) {
		return uint64(r.Int63n(m)), nil
	}
}

// Parser turns one line of a trace file into zero or more keys. The error parameter is the
// error of reading the line.
type Parser func(string, error) ([]uint64, error)

// NewReader creates a Simulator from a trace reader and the Parser of its format.
func NewReader(parser Parser, file io.Reader) Simulator {
	b := bufio.NewReader(file)
	var buf []uint64
	return func() (uint64, error) {
		for len(buf) == 0 {
			keys, err := parser(b.ReadString('\n'))
			if err != nil {
				return 0, err
			}
			buf = keys
		}
		key := buf[0]
		buf = buf[1:]
		return key, nil
	}
}

// readLine trims the line ending and maps a read error on an empty line to ErrDone.
func readLine(line string, err error) (string, error) {
	if line == "" {
		if err == nil || err == io.EOF {
			return "", ErrDone
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// ParseLIRS parses traces of the LIRS paper: one numeric key per line.
func ParseLIRS(line string, err error) ([]uint64, error) {
	if line, err = readLine(line, err); err != nil {
		return nil, err
	}
	line = strings.TrimSpace(line)
	if line == "" || line == "*" {
		return nil, nil
	}
	key, err := strconv.ParseUint(line, 10, 64)
	if err != nil {
		return nil, errors.Wrapf(err, "lirs: bad line %q", line)
	}
	return []uint64{key}, nil
}

// maxARCBlocks bounds the blocks a single ARC trace line may expand to.
const maxARCBlocks = 1 << 16

// ParseARC parses traces of the ARC paper. Each line is
// "<starting block> <number of blocks> <ignore> <request number>" and yields the blocks
// start, start+1, ..., start+count-1.
func ParseARC(line string, err error) ([]uint64, error) {
	if line, err = readLine(line, err); err != nil {
		return nil, err
	}
	cols := strings.Fields(line)
	if len(cols) == 0 {
		return nil, nil
	}
	if len(cols) < 2 {
		return nil, errors.Errorf("arc: bad line %q", line)
	}
	start, err := strconv.ParseUint(cols[0], 10, 64)
	if err != nil {
		return nil, errors.Wrapf(err, "arc: bad start in %q", line)
	}
	count, err := strconv.ParseUint(cols[1], 10, 64)
	if err != nil {
		return nil, errors.Wrapf(err, "arc: bad count in %q", line)
	}
	if count > maxARCBlocks || start+count < start {
		return nil, errors.Errorf("arc: bad count %d in %q, at most %d blocks per line",
			count, line, maxARCBlocks)
	}
	seq := make([]uint64, count)
	for i := range seq {
		seq[i] = start + uint64(i)
	}
	return seq, nil
}

// ParseHashed parses traces of string keys, one per line, hashing every key with xxhash.
func ParseHashed(line string, err error) ([]uint64, error) {
	if line, err = readLine(line, err); err != nil {
		return nil, err
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return nil, nil
	}
	return []uint64{xxhash.Sum64String(line)}, nil
}

// Collection evaluates the Simulator size times, saving each value to the returned slice. It
// stops early when the Simulator runs out of keys.
func Collection(simulator Simulator, size uint64) []uint64 {
	collection := make([]uint64, 0, size)
	for i := uint64(0); i < size; i++ {
		key, err := simulator()
		if err != nil {
			break
		}
		collection = append(collection, key)
	}
	return collection
}

// StringCollection evaluates the Simulator size times, saving each value as a string.
func StringCollection(simulator Simulator, size uint64) []string {
	collection := Collection(simulator, size)
	out := make([]string, len(collection))
	for i, key := range collection {
		out[i] = fmt.Sprintf("%d", key)
	}
	return out
}
