/*
 * psf.go, part of psfgen.
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

//Package psf reads and writes PSF connectivity files, in the X-PLOR dialect,
//where atom types are written as names, and the CHARMM dialect, where they are
//written as the numeric index of the type. Files with names that don't fit in the
//standard columns are written in the EXT layout.
package psf

import (
	"fmt"
	"strings"
)

//Dialect selects how atom types are written.
type Dialect int

const (
	XPLOR Dialect = iota
	CHARMM
)

func (d Dialect) String() string {
	if d == CHARMM {
		return "charmm"
	}
	return "x-plor"
}

//ParseDialect returns the dialect named s ("xplor", "x-plor" or "charmm").
func ParseDialect(s string) (Dialect, error) {
	switch strings.ToLower(s) {
	case "xplor", "x-plor", "":
		return XPLOR, nil
	case "charmm":
		return CHARMM, nil
	}
	return XPLOR, Error{message: fmt.Sprintf("unknown dialect %q", s), deco: []string{"ParseDialect"}}
}

//Atom is one entry of the NATOM section.
type Atom struct {
	SegID     string
	ResID     string
	ResName   string
	Name      string
	Type      string
	TypeIndex int //Only used in the CHARMM dialect
	Charge    float64
	Mass      float64
	IMove     int
}

//File is the content of a PSF file. Atom indexes are 0-based.
type File struct {
	Remarks   []string
	Atoms     []Atom
	Bonds     [][2]int
	Angles    [][3]int
	Dihedrals [][4]int
	Impropers [][4]int
	Cmaps     [][8]int
	//Set by Read
	Dialect Dialect
	EXT     bool
}

//Options controls how a PSF file is written.
type Options struct {
	Dialect Dialect
	NoCMAP  bool //don't write the cross-term section even if there are cmaps
	EXT     bool //always use the EXT layout
}

//needsEXT returns true if some field doesn't fit in the standard layout.
func (F *File) needsEXT() bool {
	if len(F.Atoms) > 99999999 {
		return true
	}
	for _, a := range F.Atoms {
		if len(a.SegID) > 4 || len(a.ResID) > 4 || len(a.ResName) > 4 || len(a.Name) > 4 || len(a.Type) > 4 {
			return true
		}
	}
	return false
}

//Error is the error type of the package.
type Error struct {
	message  string
	filename string
	line     int
	deco     []string
}

func (err Error) Error() string {
	switch {
	case err.line > 0:
		return fmt.Sprintf("psf file %s, line %d: %s", err.filename, err.line, err.message)
	case err.filename != "":
		return fmt.Sprintf("psf file %s: %s", err.filename, err.message)
	}
	return "psf: " + err.message
}

//FileName returns the name of the file where the error happened.
func (err Error) FileName() string { return err.filename }

//Line returns the line where the error happened, or 0.
func (err Error) Line() int { return err.line }

//Decorate adds caller to the error's call trail and returns the trail.
func (err Error) Decorate(caller string) []string {
	if caller != "" {
		err.deco = append(err.deco, caller)
	}
	return err.deco
}
