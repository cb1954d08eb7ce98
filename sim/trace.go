/*
 * SPDX-FileCopyrightText: © 2017-2025 Istari Digital, Inc.
 * SPDX-License-Identifier: Apache-2.0
 */

package sim

import (
	"compress/gzip"
	"io"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/hintlfu/hintlfu/z"
)

// ErrUnknownFormat is returned for a trace format without a parser.
var ErrUnknownFormat = errors.New("unknown trace format")

var parsers = map[string]Parser{
	"lirs":   ParseLIRS,
	"arc":    ParseARC,
	"hashed": ParseHashed,
}

// Formats returns the names of the supported trace formats.
func Formats() []string {
	out := make([]string, 0, len(parsers))
	for name := range parsers {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// ParserFor returns the parser of a trace format.
func ParserFor(format string) (Parser, error) {
	p, ok := parsers[strings.ToLower(format)]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownFormat, "%q, valid formats: %v", format, Formats())
	}
	return p, nil
}

// Trace is a memory mapped trace file.
type Trace struct {
	file *z.MmapFile
	gz   *gzip.Reader
}

// OpenTrace maps the trace at path and returns a Simulator over its keys. Files ending in
// .gz are decompressed on the fly. The Trace must be closed once the Simulator is drained.
func OpenTrace(path, format string) (Simulator, *Trace, error) {
	parser, err := ParserFor(format)
	if err != nil {
		return nil, nil, err
	}
	f, err := z.OpenMmapFile(path)
	if err != nil {
		return nil, nil, err
	}
	t := &Trace{file: f}
	var r io.Reader = f.NewReader(0)
	if strings.HasSuffix(path, ".gz") {
		if t.gz, err = gzip.NewReader(r); err != nil {
			_ = f.Close()
			return nil, nil, errors.Wrapf(err, "while opening gzip trace %s", path)
		}
		r = t.gz
	}
	return NewReader(parser, r), t, nil
}

// Close releases the mapping of the trace file.
func (t *Trace) Close() error {
	if t.gz != nil {
		if err := t.gz.Close(); err != nil {
			_ = t.file.Close()
			return err
		}
	}
	return t.file.Close()
}
