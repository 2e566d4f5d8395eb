/*
 * read.go, part of psfgen.
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

package psf

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rmera/psfgen/cfile"
)

//reader hands out the lines and the integer fields of a PSF file, keeping
//track of the line number for the error messages.
type reader struct {
	sc     *bufio.Scanner
	name   string
	lineno int
	ints   []string //fields left over from the last line read by nextInts
}

func (r *reader) errorf(format string, args ...interface{}) error {
	return Error{message: fmt.Sprintf(format, args...), filename: r.name, line: r.lineno, deco: []string{"Read"}}
}

//next returns the next non-blank line, or false at the end of the file.
func (r *reader) next() (string, bool) {
	for r.sc.Scan() {
		r.lineno++
		l := strings.TrimRight(r.sc.Text(), "\r")
		if strings.TrimSpace(l) != "" {
			return l, true
		}
	}
	return "", false
}

//nextInts reads n integers, which can span several lines.
func (r *reader) nextInts(n int) ([]int, error) {
	ret := make([]int, 0, n)
	for len(ret) < n {
		if len(r.ints) == 0 {
			l, ok := r.next()
			if !ok {
				return nil, r.errorf("file ended while reading %d indexes", n)
			}
			r.ints = strings.Fields(l)
		}
		v, err := strconv.Atoi(r.ints[0])
		if err != nil {
			return nil, r.errorf("can't read index %q", r.ints[0])
		}
		ret = append(ret, v)
		r.ints = r.ints[1:]
	}
	if len(r.ints) != 0 {
		return nil, r.errorf("extra fields after the expected %d indexes", n)
	}
	return ret, nil
}

//header reads a section header like "  12 !NBOND: bonds" and returns the
//counts before the "!" and the section tag after it.
func (r *reader) header() ([]int, string, bool, error) {
	l, ok := r.next()
	if !ok {
		return nil, "", false, nil
	}
	i := strings.IndexByte(l, '!')
	if i < 0 {
		return nil, "", true, r.errorf("expected a section header, got %q", strings.TrimSpace(l))
	}
	tag := strings.TrimSpace(l[i+1:])
	if j := strings.IndexByte(tag, ':'); j >= 0 {
		tag = tag[:j]
	}
	if f := strings.Fields(tag); len(f) > 0 {
		tag = f[0]
	}
	var counts []int
	for _, v := range strings.Fields(l[:i]) {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, "", true, r.errorf("can't read the count of section %s", tag)
		}
		counts = append(counts, n)
	}
	if len(counts) == 0 {
		return nil, "", true, r.errorf("section %s has no count", tag)
	}
	return counts, tag, true, nil
}

//checkIdx turns 1-based indexes into 0-based ones, checking them.
func (r *reader) checkIdx(idx []int, natoms int, tag string) error {
	for i, v := range idx {
		if v < 1 || v > natoms {
			return r.errorf("atom index %d out of range in %s", v, tag)
		}
		idx[i] = v - 1
	}
	return nil
}

//Read reads a PSF file from r. name is only used in error messages.
//The dialect is detected from the atom types.
func Read(in io.Reader, name string) (*File, error) {
	r := &reader{sc: bufio.NewScanner(in), name: name}
	r.sc.Buffer(make([]byte, 64*1024), 1024*1024)
	F := &File{}
	l, ok := r.next()
	if !ok || !strings.HasPrefix(strings.TrimSpace(l), "PSF") {
		return nil, r.errorf("not a PSF file")
	}
	for _, v := range strings.Fields(l)[1:] {
		if v == "EXT" {
			F.EXT = true
		}
	}
	counts, tag, _, err := r.header()
	if err != nil {
		return nil, err
	}
	if tag != "NTITLE" {
		return nil, r.errorf("expected NTITLE, got %s", tag)
	}
	for i := 0; i < counts[0]; i++ {
		l, ok := r.next()
		if !ok {
			return nil, r.errorf("file ended in the title")
		}
		l = strings.TrimSpace(l)
		l = strings.TrimPrefix(l, "REMARKS")
		l = strings.TrimPrefix(l, "REMARK")
		F.Remarks = append(F.Remarks, strings.TrimSpace(l))
	}
	counts, tag, _, err = r.header()
	if err != nil {
		return nil, err
	}
	if tag != "NATOM" {
		return nil, r.errorf("expected NATOM, got %s", tag)
	}
	numeric := 0
	for i := 0; i < counts[0]; i++ {
		l, ok := r.next()
		if !ok {
			return nil, r.errorf("file ended in the atom section")
		}
		a, err := parseAtom(strings.Fields(l))
		if err != nil {
			return nil, r.errorf("%s", err.Error())
		}
		if a.TypeIndex > 0 {
			numeric++
		}
		F.Atoms = append(F.Atoms, a)
	}
	if numeric > 0 && numeric == len(F.Atoms) {
		F.Dialect = CHARMM
	}
	natoms := len(F.Atoms)
	for {
		counts, tag, ok, err := r.header()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		n := counts[0]
		var arity int
		switch tag {
		case "NBOND":
			arity = 2
		case "NTHETA":
			arity = 3
		case "NPHI", "NIMPHI":
			arity = 4
		case "NCRTERM":
			arity = 8
		case "NDON", "NACC":
			//we don't keep them, but the indexes are read to stay in sync.
			if _, err := r.nextInts(2 * n); err != nil {
				return nil, err
			}
			continue
		case "NNB":
			if _, err := r.nextInts(n + natoms); err != nil {
				return nil, err
			}
			continue
		case "NGRP":
			if _, err := r.nextInts(3 * n); err != nil {
				return nil, err
			}
			continue
		case "MOLNT":
			if _, err := r.nextInts(natoms); err != nil {
				return nil, err
			}
			continue
		default:
			//Lone pairs, drude and other sections we can't use. The
			//rest of the file is ignored.
			return F, nil
		}
		idx, err := r.nextInts(n * arity)
		if err != nil {
			return nil, err
		}
		if err := r.checkIdx(idx, natoms, tag); err != nil {
			return nil, err
		}
		for i := 0; i < n; i++ {
			t := idx[i*arity : (i+1)*arity]
			switch tag {
			case "NBOND":
				F.Bonds = append(F.Bonds, [2]int{t[0], t[1]})
			case "NTHETA":
				F.Angles = append(F.Angles, [3]int{t[0], t[1], t[2]})
			case "NPHI":
				F.Dihedrals = append(F.Dihedrals, [4]int{t[0], t[1], t[2], t[3]})
			case "NIMPHI":
				F.Impropers = append(F.Impropers, [4]int{t[0], t[1], t[2], t[3]})
			case "NCRTERM":
				var c [8]int
				copy(c[:], t)
				F.Cmaps = append(F.Cmaps, c)
			}
		}
	}
	if err := r.sc.Err(); err != nil {
		return nil, Error{message: err.Error(), filename: name, deco: []string{"Read"}}
	}
	return F, nil
}

//parseAtom reads the fields of a NATOM line:
//index segid resid resname name type charge mass imove [...]
func parseAtom(f []string) (Atom, error) {
	var a Atom
	var err error
	if len(f) < 8 {
		return a, fmt.Errorf("atom record with %d fields", len(f))
	}
	a.SegID, a.ResID, a.ResName, a.Name, a.Type = f[1], f[2], f[3], f[4], f[5]
	if n, err := strconv.Atoi(a.Type); err == nil {
		a.TypeIndex = n
	}
	if a.Charge, err = strconv.ParseFloat(f[6], 64); err != nil {
		return a, fmt.Errorf("can't read charge %q", f[6])
	}
	if a.Mass, err = strconv.ParseFloat(f[7], 64); err != nil {
		return a, fmt.Errorf("can't read mass %q", f[7])
	}
	if len(f) > 8 {
		a.IMove, _ = strconv.Atoi(f[8])
	}
	return a, nil
}

//ReadFile reads the PSF file name, which can be zstd-compressed.
func ReadFile(name string) (*File, error) {
	f, err := cfile.Open(name)
	if err != nil {
		return nil, Error{message: err.Error(), filename: name, deco: []string{"ReadFile"}}
	}
	defer f.Close()
	return Read(f, name)
}
