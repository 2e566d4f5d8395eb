/*
 * alias.go, part of psfgen.
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

//Package alias keeps the tables that map alternative residue and atom names
//(the ones found in PDB files from different sources) to the names used in
//the topology templates.
package alias

import (
	"fmt"
	"sort"
	"strings"
)

type atomKey struct {
	res  string
	atom string
}

//Table holds residue and atom aliases. The zero value is not usable, use New.
type Table struct {
	fold     func(string) string
	residues map[string]string
	atoms    map[atomKey]string
}

//New returns an empty table. If allCaps is true, names are compared in upper case.
func New(allCaps bool) *Table {
	T := &Table{
		residues: make(map[string]string),
		atoms:    make(map[atomKey]string),
		fold:     func(s string) string { return s },
	}
	if allCaps {
		T.fold = strings.ToUpper
	}
	return T
}

//AddResidue declares alt as an alternative name for the residue canonical.
func (T *Table) AddResidue(alt, canonical string) error {
	alt, canonical = T.fold(alt), T.fold(canonical)
	if alt == "" || canonical == "" {
		return Error{fmt.Sprintf("empty residue name in alias %q -> %q", alt, canonical), []string{"AddResidue"}}
	}
	T.residues[alt] = canonical
	return nil
}

//AddAtom declares alt as an alternative name for the atom canonical in
//residues named resname. resname is resolved as a residue alias first.
func (T *Table) AddAtom(resname, alt, canonical string) error {
	resname, alt, canonical = T.Residue(resname), T.fold(alt), T.fold(canonical)
	if resname == "" || alt == "" || canonical == "" {
		return Error{fmt.Sprintf("empty name in atom alias %s:%q -> %q", resname, alt, canonical), []string{"AddAtom"}}
	}
	T.atoms[atomKey{resname, alt}] = canonical
	return nil
}

//Residue returns the canonical name for the residue name, which is name
//itself (case folded) if there is no alias for it.
func (T *Table) Residue(name string) string {
	name = T.fold(name)
	if c, ok := T.residues[name]; ok {
		return c
	}
	return name
}

//Atom returns the canonical name for atom name in residue resname.
//resname can be either the canonical or the alternative residue name.
//If no alias is found, name is returned (case folded).
func (T *Table) Atom(resname, name string) string {
	raw := T.fold(resname)
	name = T.fold(name)
	if c, ok := T.atoms[atomKey{T.Residue(raw), name}]; ok {
		return c
	}
	if c, ok := T.atoms[atomKey{raw, name}]; ok {
		return c
	}
	return name
}

//Len returns the number of residue and atom aliases in the table.
func (T *Table) Len() (residues, atoms int) {
	return len(T.residues), len(T.atoms)
}

//Residues returns the residue aliases as "alt canonical" lines, sorted.
func (T *Table) Residues() []string {
	ret := make([]string, 0, len(T.residues))
	for k, v := range T.residues {
		ret = append(ret, k+" "+v)
	}
	sort.Strings(ret)
	return ret
}

//Atoms returns the atom aliases as "resname alt canonical" lines, sorted.
func (T *Table) Atoms() []string {
	ret := make([]string, 0, len(T.atoms))
	for k, v := range T.atoms {
		ret = append(ret, k.res+" "+k.atom+" "+v)
	}
	sort.Strings(ret)
	return ret
}

//Error is returned when an alias can't be registered.
type Error struct {
	message string
	deco    []string
}

func (err Error) Error() string {
	return err.message
}

//Decorate adds the caller to the error's call trail and returns the trail.
func (err Error) Decorate(caller string) []string {
	if caller != "" {
		err.deco = append(err.deco, caller)
	}
	return err.deco
}
