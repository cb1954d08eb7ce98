/*
 * SPDX-FileCopyrightText: © 2017-2025 Istari Digital, Inc.
 * SPDX-License-Identifier: Apache-2.0
 */

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hintlfu/hintlfu/sim"
)

// save writes all results to path in CSV format.
func save(path string, results []sim.Result) error {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0666)
	if err != nil {
		return err
	}
	defer file.Close()
	return write(file, results)
}

func write(w io.Writer, results []sim.Result) error {
	// will hold all records with the first row being column labels
	records := [][]string{Labels()}
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		records = append(records, Record(r))
	}
	for _, record := range records {
		if _, err := io.WriteString(w, strings.Join(record, ", ")+"\n"); err != nil {
			return err
		}
	}
	return nil
}

// Labels returns the column headers of the CSV data. The order is important and
// should correspond with Record.
func Labels() []string {
	return []string{
		"policy          ",
		"ops       ",
		"hits      ",
		"misses    ",
		"evictions ",
		"admits    ",
		"rejects   ",
		"  ratio ",
		"  ns/op   ",
		"extra",
	}
}

// Record generates a CSV record.
func Record(r sim.Result) []string {
	s := r.Stats
	var nsOp int64
	if ops := s.Operations(); ops > 0 {
		nsOp = r.Elapsed.Nanoseconds() / int64(ops)
	}
	extra := make([]string, len(r.Extra))
	for i, x := range r.Extra {
		extra[i] = fmt.Sprintf("%g", x)
	}
	return []string{
		fmt.Sprintf("%-16s", r.Policy),
		fmt.Sprintf("%010d", s.Operations()),
		fmt.Sprintf("%010d", s.Hits()),
		fmt.Sprintf("%010d", s.Misses()),
		fmt.Sprintf("%010d", s.Evictions()),
		fmt.Sprintf("%010d", s.Admissions()),
		fmt.Sprintf("%010d", s.Rejections()),
		fmt.Sprintf("%6.2f%%", 100*s.Ratio()),
		fmt.Sprintf("%10d ns/op", nsOp),
		strings.Join(extra, " "),
	}
}
