/*
 * namdbin.go, part of psfgen.
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

//Package namdbin reads and writes NAMD binary coordinate and velocity files:
//a 32-bit atom count followed by x, y, z as 64-bit floats for every atom,
//in the byte order of the machine that wrote the file.
package namdbin

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/rmera/psfgen/cfile"
	"github.com/rmera/psfgen/v3"
)

//Native is the byte order used for writing.
var Native binary.ByteOrder = binary.NativeEndian

func swapped(o binary.ByteOrder) binary.ByteOrder {
	b := make([]byte, 2)
	o.PutUint16(b, 1)
	if b[0] == 0 {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

//Read reads a binary file from r. Files written on a machine with the
//other byte order are detected from the atom count, and read correctly.
func Read(r io.Reader, name string) (*v3.Matrix, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, Error{err.Error(), name, []string{"Read"}}
	}
	if len(data) < 4 {
		return nil, Error{"file too short for the atom count", name, []string{"Read"}}
	}
	var order binary.ByteOrder
	for _, o := range []binary.ByteOrder{Native, swapped(Native)} {
		n := int64(int32(o.Uint32(data)))
		if n >= 0 && 4+24*n == int64(len(data)) {
			order = o
			break
		}
	}
	if order == nil {
		return nil, Error{fmt.Sprintf("size %d doesn't match the atom count in either byte order", len(data)), name, []string{"Read"}}
	}
	n := int(int32(order.Uint32(data)))
	if n == 0 {
		return v3.Zeros(0), nil
	}
	vals := make([]float64, 3*n)
	if err := binary.Read(bytes.NewReader(data[4:]), order, vals); err != nil {
		return nil, Error{err.Error(), name, []string{"Read"}}
	}
	ret, err := v3.NewMatrix(vals)
	if err != nil {
		return nil, Error{err.Error(), name, []string{"Read"}}
	}
	return ret, nil
}

//ReadFile reads the binary file name.
func ReadFile(name string) (*v3.Matrix, error) {
	f, err := cfile.Open(name)
	if err != nil {
		return nil, Error{err.Error(), name, []string{"ReadFile"}}
	}
	defer f.Close()
	return Read(f, name)
}

//Write writes the vectors in m to w. A nil m writes an empty file (count 0).
func Write(w io.Writer, m *v3.Matrix) error {
	n := 0
	if m != nil {
		n = m.NVecs()
	}
	if n > math.MaxInt32 {
		return Error{fmt.Sprintf("too many atoms: %d", n), "", []string{"Write"}}
	}
	buf := make([]byte, 4+24*n)
	Native.PutUint32(buf, uint32(n))
	for i := 0; i < n; i++ {
		c := m.Array(i)
		for j, v := range c {
			Native.PutUint64(buf[4+24*i+8*j:], math.Float64bits(v))
		}
	}
	if _, err := w.Write(buf); err != nil {
		return Error{err.Error(), "", []string{"Write"}}
	}
	return nil
}

//WriteFile writes m to the file name.
func WriteFile(name string, m *v3.Matrix) error {
	f, err := cfile.Create(name)
	if err != nil {
		return Error{err.Error(), name, []string{"WriteFile"}}
	}
	err = Write(f, m)
	if err2 := f.Close(); err == nil && err2 != nil {
		err = Error{err2.Error(), name, []string{"WriteFile"}}
	}
	return err
}

//Error is the error type of the package.
type Error struct {
	message  string
	filename string
	deco     []string
}

func (err Error) Error() string {
	if err.filename == "" {
		return "namdbin: " + err.message
	}
	return fmt.Sprintf("namdbin file %s: %s", err.filename, err.message)
}

//FileName returns the name of the file where the error happened, if known.
func (err Error) FileName() string { return err.filename }

//Decorate adds caller to the error's call trail and returns the trail.
func (err Error) Decorate(caller string) []string {
	if caller != "" {
		err.deco = append(err.deco, caller)
	}
	return err.deco
}
