/*
 * cfile.go, part of psfgen.
 *
 * Copyright 2024 The psfgen authors
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

//Package cfile opens and creates the files read and written by psfgen.
//A name ending in ".zst" is transparently (de)compressed with z-standard.
package cfile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
)

//Suffix marks a zstd-compressed file.
const Suffix = ".zst"

//Compressed returns true if name will be handled as a zstd stream.
func Compressed(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), Suffix)
}

//Reader is a buffered reader over a (possibly compressed) file.
//Close releases every underlying handle and may be called more than once.
type Reader struct {
	*bufio.Reader
	f    *os.File
	dec  *zstd.Decoder
	name string
}

//Name returns the name of the file being read.
func (R *Reader) Name() string {
	return R.name
}

//Close closes the decoder, if any, and the file.
func (R *Reader) Close() error {
	if R == nil || R.f == nil {
		return nil
	}
	if R.dec != nil {
		R.dec.Close()
		R.dec = nil
	}
	err := R.f.Close()
	R.f = nil
	return err
}

//Open opens name for reading.
func Open(name string) (*Reader, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	R := &Reader{f: f, name: name}
	if !Compressed(name) {
		R.Reader = bufio.NewReader(f)
		return R, nil
	}
	R.dec, err = zstd.NewReader(bufio.NewReader(f))
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("cfile: can't start zstd decoder for %s: %w", name, err)
	}
	R.Reader = bufio.NewReader(R.dec)
	return R, nil
}

//Writer is a buffered writer over a (possibly compressed) file.
//Nothing is guaranteed to reach the disk until Close returns.
type Writer struct {
	*bufio.Writer
	f    *os.File
	enc  *zstd.Encoder
	name string
}

//Name returns the name of the file being written.
func (W *Writer) Name() string {
	return W.name
}

//Close flushes the buffer, finishes the zstd frame if there is one and
//closes the file. The first error found is returned, but all handles
//are released regardless.
func (W *Writer) Close() error {
	if W == nil || W.f == nil {
		return nil
	}
	err := W.Flush()
	if W.enc != nil {
		if err2 := W.enc.Close(); err == nil {
			err = err2
		}
		W.enc = nil
	}
	if err2 := W.f.Close(); err == nil {
		err = err2
	}
	W.f = nil
	return err
}

//Create creates (or truncates) name for writing.
func Create(name string) (*Writer, error) {
	f, err := os.Create(name)
	if err != nil {
		return nil, err
	}
	W := &Writer{f: f, name: name}
	var out io.Writer = f
	if Compressed(name) {
		W.enc, err = zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("cfile: can't start zstd encoder for %s: %w", name, err)
		}
		out = W.enc
	}
	W.Writer = bufio.NewWriter(out)
	return W, nil
}
