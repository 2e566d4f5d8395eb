/*
 * structure.go, part of psfgen.
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

package psfgen

import (
	"sort"

	"github.com/rmera/psfgen/topo"
)

//CoordState tells whether an atom has coordinates, and where they came from.
type CoordState int

const (
	Absent  CoordState = iota //no coordinates assigned yet
	Set                       //read from a file or set explicitly
	Guessed                   //placed by GuessCoords
)

func (c CoordState) String() string {
	switch c {
	case Set:
		return "set"
	case Guessed:
		return "guessed"
	}
	return "absent"
}

//Atom is an atom in the structure. The exported fields can be read freely,
//but should be changed only through the Session setters.
type Atom struct {
	Name    string
	Type    string
	Element string
	Charge  float64
	Mass    float64
	Beta    float64
	State   CoordState
	Coords  [3]float64
	HasVel  bool
	Vel     [3]float64
	Copy    int //1 to n for the copies made by Multiply, 0 otherwise
	res     *Residue
	bonds   []*Atom
	index   int
}

//Residue returns the residue the atom belongs to.
func (A *Atom) Residue() *Residue {
	return A.res
}

//Index returns the 0-based position of the atom in the structure, as
//of the last write or query. It is -1 for deleted atoms.
func (A *Atom) Index() int {
	return A.index
}

//Bonded returns the atoms bonded to A, in the order the bonds were made.
func (A *Atom) Bonded() []*Atom {
	return append([]*Atom(nil), A.bonds...)
}

//HasCoords returns true if the atom has coordinates, read or guessed.
func (A *Atom) HasCoords() bool {
	return A.State != Absent
}

func (A *Atom) bondedTo(B *Atom) bool {
	for _, v := range A.bonds {
		if v == B {
			return true
		}
	}
	return false
}

//label identifies the atom in messages.
func (A *Atom) label() string {
	if A.res == nil {
		return A.Name
	}
	return A.res.label() + ":" + A.Name
}

//Residue is a residue in a segment.
type Residue struct {
	ID      string //sequence number plus insertion code, if any
	Name    string
	Chain   string
	Atoms   []*Atom
	Patches []string //patches applied to the residue, in order
	seg     *Segment
	tpl     *topo.Residue
}

//Segment returns the segment the residue belongs to.
func (R *Residue) Segment() *Segment {
	return R.seg
}

//Atom returns the atom called name, or nil. For multiplied atoms, that is the first copy.
func (R *Residue) Atom(name string) *Atom {
	for _, v := range R.Atoms {
		if v.Name == name {
			return v
		}
	}
	return nil
}

//fromTemplate returns true if the atom name is declared in the residue template.
func (R *Residue) fromTemplate(name string) bool {
	if R.tpl == nil {
		return false
	}
	_, ok := R.tpl.Atom(name, 0)
	return ok
}

func (R *Residue) label() string {
	if R.seg == nil {
		return R.ID
	}
	return R.seg.ID + ":" + R.ID
}

//neighbor returns the residue offset positions after R in its segment, or nil.
func (R *Residue) neighbor(offset int) *Residue {
	if offset == 0 {
		return R
	}
	s := R.seg
	if s == nil {
		return nil
	}
	for i, v := range s.Residues {
		if v == R {
			j := i + offset
			if j < 0 || j >= len(s.Residues) {
				return nil
			}
			return s.Residues[j]
		}
	}
	return nil
}

//Segment is a named, ordered set of residues, with the angles, dihedrals,
//impropers and cross-terms owned by it.
type Segment struct {
	ID            string
	Residues      []*Residue
	First         string //patch applied to the first residue, or "none"
	Last          string
	AutoAngles    bool
	AutoDihedrals bool
	Angles        [][3]*Atom
	Dihedrals     [][4]*Atom
	Impropers     [][4]*Atom
	Cmaps         [][8]*Atom
}

//Residue returns the residue with the given ID, or nil.
func (S *Segment) Residue(id string) *Residue {
	for _, v := range S.Residues {
		if v.ID == id {
			return v
		}
	}
	return nil
}

//NAtoms returns the number of atoms in the segment.
func (S *Segment) NAtoms() int {
	n := 0
	for _, r := range S.Residues {
		n += len(r.Atoms)
	}
	return n
}

func (S *Segment) eachAtom(f func(*Atom)) {
	for _, r := range S.Residues {
		for _, a := range r.Atoms {
			f(a)
		}
	}
}

//bond joins a and b. It returns false if they were already bonded.
func bond(a, b *Atom) bool {
	if a == b || a.bondedTo(b) {
		return false
	}
	a.bonds = append(a.bonds, b)
	b.bonds = append(b.bonds, a)
	return true
}

//unbond removes the bond between a and b, returning false if there was none.
func unbond(a, b *Atom) bool {
	if !a.bondedTo(b) {
		return false
	}
	a.bonds = removeAtom(a.bonds, b)
	b.bonds = removeAtom(b.bonds, a)
	return true
}

func removeAtom(list []*Atom, a *Atom) []*Atom {
	ret := list[:0]
	for _, v := range list {
		if v != a {
			ret = append(ret, v)
		}
	}
	return ret
}

//touches returns true if any of the atoms in the tuple is marked in gone.
func touches(tuple []*Atom, gone map[*Atom]bool) bool {
	for _, v := range tuple {
		if gone[v] {
			return true
		}
	}
	return false
}

//dropTuples removes every angle, dihedral, improper and cross-term including
//an atom in gone, from every segment in segs.
func dropTuples(segs []*Segment, gone map[*Atom]bool) {
	if len(gone) == 0 {
		return
	}
	for _, s := range segs {
		s.Angles = filterTuples(s.Angles, func(t [3]*Atom) bool { return !touches(t[:], gone) })
		s.Dihedrals = filterTuples(s.Dihedrals, func(t [4]*Atom) bool { return !touches(t[:], gone) })
		s.Impropers = filterTuples(s.Impropers, func(t [4]*Atom) bool { return !touches(t[:], gone) })
		s.Cmaps = filterTuples(s.Cmaps, func(t [8]*Atom) bool { return !touches(t[:], gone) })
	}
}

func filterTuples[T any](list []T, keep func(T) bool) []T {
	ret := list[:0]
	for _, v := range list {
		if keep(v) {
			ret = append(ret, v)
		}
	}
	return ret
}

//mixedCopies returns true if the tuple includes atoms from different copies.
func mixedCopies(tuple ...*Atom) bool {
	k := 0
	for _, a := range tuple {
		if a.Copy == 0 {
			continue
		}
		if k != 0 && a.Copy != k {
			return true
		}
		k = a.Copy
	}
	return false
}

//sameTuple returns true if a and b have the same atoms in the same
//or in the reverse order.
func sameTuple(a, b []*Atom) bool {
	fw, bw := true, true
	n := len(a)
	for i := range a {
		if a[i] != b[i] {
			fw = false
		}
		if a[i] != b[n-1-i] {
			bw = false
		}
	}
	return fw || bw
}

//indexAtoms numbers all the atoms in the structure, in segment, residue
//and atom order, and returns them in that order.
func indexAtoms(segs []*Segment) []*Atom {
	var ret []*Atom
	for _, s := range segs {
		s.eachAtom(func(a *Atom) {
			a.index = len(ret)
			ret = append(ret, a)
		})
	}
	return ret
}

//bondList returns the bonds of the structure as pairs of indexes. Each bond
//is listed once, from the atom with the lower index, ordered by that atom and
//then by the index of the other. atoms must come from indexAtoms.
func bondList(atoms []*Atom) [][2]int {
	var ret [][2]int
	nb := make([]int, 0, 6)
	for i, a := range atoms {
		nb = nb[:0]
		for _, b := range a.bonds {
			if b.index > i {
				nb = append(nb, b.index)
			}
		}
		sort.Ints(nb)
		for _, j := range nb {
			ret = append(ret, [2]int{i, j})
		}
	}
	return ret
}
