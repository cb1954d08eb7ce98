//go:build !unix

/*
 * SPDX-FileCopyrightText: © 2017-2025 Istari Digital, Inc.
 * SPDX-License-Identifier: Apache-2.0
 */

package z

import (
	"io"
	"os"
)

// mmap falls back to reading the whole file on platforms without mmap.
func mmap(fd *os.File, size int64) ([]byte, error) {
	buf := make([]byte, size)
	if _, err := io.ReadFull(fd, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func munmap(data []byte) error { return nil }

func madvise(b []byte, readahead bool) error { return nil }
