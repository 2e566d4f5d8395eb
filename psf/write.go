/*
 * write.go, part of psfgen.
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

	"github.com/rmera/psfgen/cfile"
)

//Write writes F to w.
func Write(w io.Writer, F *File, opts Options) error {
	ext := opts.EXT || F.needsEXT()
	cmap := len(F.Cmaps) > 0 && !opts.NoCMAP
	bw := bufio.NewWriter(w)
	head := "PSF"
	if ext {
		head += " EXT"
	}
	if cmap {
		head += " CMAP"
	}
	ifmt, afmt := "%8d", "%8d %-4s %-4s %-4s %-4s %-4s %10.6f %13.4f %11d\n"
	if ext {
		ifmt, afmt = "%10d", "%10d %-8s %-8s %-8s %-8s %-6s %10.6f %13.4f %11d\n"
	}
	count := func(n int, tag string) {
		fmt.Fprintf(bw, ifmt+" !%s\n", n, tag)
	}
	fmt.Fprintf(bw, "%s\n\n", head)
	count(len(F.Remarks), "NTITLE")
	for _, v := range F.Remarks {
		fmt.Fprintf(bw, " REMARKS %s\n", v)
	}
	bw.WriteString("\n")
	count(len(F.Atoms), "NATOM")
	for i, a := range F.Atoms {
		t := a.Type
		if opts.Dialect == CHARMM {
			if a.TypeIndex <= 0 {
				return Error{message: fmt.Sprintf("atom %d (%s:%s:%s) has no numeric type", i+1, a.SegID, a.ResID, a.Name), deco: []string{"Write"}}
			}
			t = strconv.Itoa(a.TypeIndex)
		}
		fmt.Fprintf(bw, afmt, i+1, a.SegID, a.ResID, a.ResName, a.Name, t, a.Charge, a.Mass, a.IMove)
	}
	bw.WriteString("\n")
	//each section is a list of n tuples of arity indexes, with perline tuples per line.
	section := func(tag string, n, arity, perline int, idx func(i, j int) int) {
		count(n, tag)
		for i := 0; i < n; i++ {
			for j := 0; j < arity; j++ {
				fmt.Fprintf(bw, ifmt, idx(i, j)+1)
			}
			if (i+1)%perline == 0 || i == n-1 {
				bw.WriteString("\n")
			}
		}
		bw.WriteString("\n")
	}
	section("NBOND: bonds", len(F.Bonds), 2, 4, func(i, j int) int { return F.Bonds[i][j] })
	section("NTHETA: angles", len(F.Angles), 3, 3, func(i, j int) int { return F.Angles[i][j] })
	section("NPHI: dihedrals", len(F.Dihedrals), 4, 2, func(i, j int) int { return F.Dihedrals[i][j] })
	section("NIMPHI: impropers", len(F.Impropers), 4, 2, func(i, j int) int { return F.Impropers[i][j] })
	count(0, "NDON: donors")
	bw.WriteString("\n")
	count(0, "NACC: acceptors")
	bw.WriteString("\n")
	count(0, "NNB")
	bw.WriteString("\n")
	//The exclusion pointers, one per atom, all zero.
	for i := range F.Atoms {
		fmt.Fprintf(bw, ifmt, 0)
		if (i+1)%8 == 0 || i == len(F.Atoms)-1 {
			bw.WriteString("\n")
		}
	}
	bw.WriteString("\n")
	fmt.Fprintf(bw, ifmt+ifmt+" !NGRP\n", 1, 0)
	fmt.Fprintf(bw, ifmt+ifmt+ifmt+"\n\n", 0, 0, 0)
	if cmap {
		section("NCRTERM: cross-terms", len(F.Cmaps), 8, 1, func(i, j int) int { return F.Cmaps[i][j] })
	}
	if err := bw.Flush(); err != nil {
		return Error{message: err.Error(), deco: []string{"Write"}}
	}
	return nil
}

//WriteFile writes F to the file name. The file is compressed if the name ends in .zst
func WriteFile(name string, F *File, opts Options) error {
	f, err := cfile.Create(name)
	if err != nil {
		return Error{message: err.Error(), filename: name, deco: []string{"WriteFile"}}
	}
	err = Write(f, F, opts)
	if err2 := f.Close(); err == nil && err2 != nil {
		err = Error{message: err2.Error(), filename: name, deco: []string{"WriteFile"}}
	}
	if e, ok := err.(Error); ok && e.filename == "" {
		e.filename = name
		err = e
	}
	return err
}
