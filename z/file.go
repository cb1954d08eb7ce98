/*
 * SPDX-FileCopyrightText: © 2017-2025 Istari Digital, Inc.
 * SPDX-License-Identifier: Apache-2.0
 */

package z

import (
	"io"
	"os"

	"github.com/pkg/errors"
)

// MmapFile is a read-only memory mapped file. Trace files are replayed front to back once, so
// the mapping is advised for sequential access.
type MmapFile struct {
	Data []byte
	Fd   *os.File
}

// OpenMmapFile opens filename read-only and maps its whole content.
func OpenMmapFile(filename string) (*MmapFile, error) {
	fd, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open: %s", filename)
	}
	fi, err := fd.Stat()
	if err != nil {
		fd.Close()
		return nil, errors.Wrapf(err, "cannot stat file: %s", filename)
	}
	if fi.Size() == 0 {
		return &MmapFile{Fd: fd}, nil
	}
	buf, err := mmap(fd, fi.Size())
	if err != nil {
		fd.Close()
		return nil, errors.Wrapf(err, "while mmapping %s with size: %d", fd.Name(), fi.Size())
	}
	// Readahead is only a hint.
	_ = madvise(buf, true)
	return &MmapFile{Data: buf, Fd: fd}, nil
}

type mmapReader struct {
	Data   []byte
	offset int
}

func (mr *mmapReader) Read(buf []byte) (int, error) {
	if mr.offset >= len(mr.Data) {
		return 0, io.EOF
	}
	n := copy(buf, mr.Data[mr.offset:])
	mr.offset += n
	return n, nil
}

// NewReader returns a reader over the mapped data starting at offset.
func (m *MmapFile) NewReader(offset int) io.Reader {
	return &mmapReader{
		Data:   m.Data,
		offset: offset,
	}
}

// Close unmaps the data and closes the file descriptor.
func (m *MmapFile) Close() error {
	if err := munmap(m.Data); err != nil {
		return errors.Wrapf(err, "while munmap file %s", m.Fd.Name())
	}
	m.Data = nil
	if err := m.Fd.Close(); err != nil {
		return errors.Wrapf(err, "while closing file %s", m.Fd.Name())
	}
	return nil
}
