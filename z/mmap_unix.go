//go:build unix

/*
 * SPDX-FileCopyrightText: © 2017-2025 Istari Digital, Inc.
 * SPDX-License-Identifier: Apache-2.0
 */

package z

import (
	"os"

	"golang.org/x/sys/unix"
)

func mmap(fd *os.File, size int64) ([]byte, error) {
	return unix.Mmap(int(fd.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
}

func munmap(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	return unix.Munmap(data)
}

func madvise(b []byte, readahead bool) error {
	flags := unix.MADV_NORMAL
	if readahead {
		flags = unix.MADV_SEQUENTIAL
	}
	return unix.Madvise(b, flags)
}
