/*
 * codec.go, part of msmgo.
 *
 * Copyright 2026 Raul Mera <rauldotmeraatusachdotcl>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package store

import (
	"compress/gzip"
	"io"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

type codec int

const (
	codecZstd codec = iota
	codecGzip
	codecLZ4
	codecNone
)

func (c codec) String() string {
	switch c {
	case codecGzip:
		return "gzip"
	case codecLZ4:
		return "lz4"
	case codecNone:
		return "none"
	default:
		return "zstd"
	}
}

//codecFor selects the compression from the extension of name.
func codecFor(name string) codec {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".gz":
		return codecGzip
	case ".lz4":
		return codecLZ4
	case ".json":
		return codecNone
	default:
		return codecZstd
	}
}

//*zstd.Decoder has a Close method without return value,
//so it doesn't implement io.ReadCloser.
type zstdReadCloser struct {
	*zstd.Decoder
}

func (z zstdReadCloser) Close() error {
	z.Decoder.Close()
	return nil
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

//decompressError marks a failure of the decompressor, as opposed to
//one in the decompressed data.
type decompressError struct {
	err error
}

func (d *decompressError) Error() string { return d.err.Error() }

func (d *decompressError) Unwrap() error { return d.err }

//checkedReader wraps the errors of a decompressing reader, except io.EOF,
//in a decompressError.
type checkedReader struct {
	io.ReadCloser
}

func (c checkedReader) Read(p []byte) (int, error) {
	n, err := c.ReadCloser.Read(p)
	if err != nil && err != io.EOF {
		err = &decompressError{err}
	}
	return n, err
}

//newReader returns a decompressing reader for r. Read errors caused
//by the compressed stream are returned as *decompressError.
func newReader(c codec, r io.Reader) (io.ReadCloser, error) {
	if c == codecNone {
		return io.NopCloser(r), nil
	}
	d, err := rawReader(c, r)
	if err != nil {
		return nil, err
	}
	return checkedReader{d}, nil
}

func rawReader(c codec, r io.Reader) (io.ReadCloser, error) {
	switch c {
	case codecGzip:
		return gzip.NewReader(r)
	case codecLZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	default:
		d, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return zstdReadCloser{d}, nil
	}
}

//newWriter returns a compressing writer. Closing it flushes the compressed
//stream but does not close w.
func newWriter(c codec, w io.Writer) (io.WriteCloser, error) {
	switch c {
	case codecGzip:
		return gzip.NewWriterLevel(w, gzip.BestCompression)
	case codecLZ4:
		return lz4.NewWriter(w), nil
	case codecNone:
		return nopWriteCloser{w}, nil
	default:
		return zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	}
}
