/*
 * types.go, part of psfgen.
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

package topo

import (
	"fmt"
	"strconv"
)

//AtomRef names an atom in a template. Offset is -1 for the previous
//residue ("-C"), +1 for the next ("+N") and 0 otherwise. Target is the
//0-based index of the patch target the atom belongs to ("2SG" has Target 1).
//Target is always 0 in residue templates.
type AtomRef struct {
	Name   string
	Offset int
	Target int
}

//String returns the reference as it would be written in a topology file.
func (A AtomRef) String() string {
	p := ""
	switch {
	case A.Offset < 0:
		p = "-"
	case A.Offset > 0:
		p = "+"
	}
	return p + A.Name
}

//PatchString returns the reference with its 1-based target number, as
//written in a patch block.
func (A AtomRef) PatchString() string {
	return strconv.Itoa(A.Target+1) + A.String()
}

//AtomDef is an ATOM entry.
type AtomDef struct {
	AtomRef
	Type   string
	Charge float64
}

//IC is an internal coordinate entry: atoms I J K L, the I-J (I-K for impropers) bond,
//the I-J-K (I-K-J) angle, the I-J-K-L dihedral, the J-K-L angle and the K-L bond.
//Lengths are in A, angles in degrees. A value of 0 means unknown.
type IC struct {
	Atoms    [4]AtomRef
	Improper bool
	RIJ      float64
	ThetaIJK float64
	Phi      float64
	ThetaJKL float64
	RKL      float64
}

//Residue is a residue template or, if Patch is true, a patch template.
type Residue struct {
	Name      string
	Patch     bool
	Charge    float64
	File      string
	Atoms     []AtomDef
	Bonds     [][2]AtomRef
	Angles    [][3]AtomRef
	Dihedrals [][4]AtomRef
	Impropers [][4]AtomRef
	Cmaps     [][8]AtomRef
	Donors    [][]AtomRef
	Acceptors [][]AtomRef
	ICs       []IC
	//First and Last are the default patches declared with PATCHING.
	//An empty string means "use the store default", "NONE" means no patch.
	First string
	Last  string
	//Deletions, only meaningful for patches.
	DelAtoms     []AtomRef
	DelBonds     [][2]AtomRef
	DelAngles    [][3]AtomRef
	DelDihedrals [][4]AtomRef
	DelImpropers [][4]AtomRef
}

//Atom returns the definition of the atom name for the given target, and true,
//or false if there is no such atom in the template.
func (R *Residue) Atom(name string, target int) (AtomDef, bool) {
	i := R.atomIndex(name, target)
	if i < 0 {
		return AtomDef{}, false
	}
	return R.Atoms[i], true
}

func (R *Residue) atomIndex(name string, target int) int {
	for i, v := range R.Atoms {
		if v.Name == name && v.Target == target && v.Offset == 0 {
			return i
		}
	}
	return -1
}

//Arity returns the number of residues the template needs. It is 1 for residues,
//and the highest target number referenced for patches.
func (R *Residue) Arity() int {
	if !R.Patch {
		return 1
	}
	max := 0
	upd := func(refs ...AtomRef) {
		for _, r := range refs {
			if r.Target > max {
				max = r.Target
			}
		}
	}
	for _, v := range R.Atoms {
		upd(v.AtomRef)
	}
	for _, v := range R.Bonds {
		upd(v[:]...)
	}
	for _, v := range R.Angles {
		upd(v[:]...)
	}
	for _, v := range R.Dihedrals {
		upd(v[:]...)
	}
	for _, v := range R.Impropers {
		upd(v[:]...)
	}
	for _, v := range R.Cmaps {
		upd(v[:]...)
	}
	for _, v := range R.ICs {
		upd(v.Atoms[:]...)
	}
	upd(R.DelAtoms...)
	for _, v := range R.DelBonds {
		upd(v[:]...)
	}
	for _, v := range R.DelAngles {
		upd(v[:]...)
	}
	for _, v := range R.DelDihedrals {
		upd(v[:]...)
	}
	for _, v := range R.DelImpropers {
		upd(v[:]...)
	}
	return max + 1
}

//Copy returns a deep copy of the template.
func (R *Residue) Copy() *Residue {
	r := *R
	r.Atoms = append([]AtomDef(nil), R.Atoms...)
	r.Bonds = append([][2]AtomRef(nil), R.Bonds...)
	r.Angles = append([][3]AtomRef(nil), R.Angles...)
	r.Dihedrals = append([][4]AtomRef(nil), R.Dihedrals...)
	r.Impropers = append([][4]AtomRef(nil), R.Impropers...)
	r.Cmaps = append([][8]AtomRef(nil), R.Cmaps...)
	r.Donors = copyRefSlices(R.Donors)
	r.Acceptors = copyRefSlices(R.Acceptors)
	r.ICs = append([]IC(nil), R.ICs...)
	r.DelAtoms = append([]AtomRef(nil), R.DelAtoms...)
	r.DelBonds = append([][2]AtomRef(nil), R.DelBonds...)
	r.DelAngles = append([][3]AtomRef(nil), R.DelAngles...)
	r.DelDihedrals = append([][4]AtomRef(nil), R.DelDihedrals...)
	r.DelImpropers = append([][4]AtomRef(nil), R.DelImpropers...)
	return &r
}

func copyRefSlices(s [][]AtomRef) [][]AtomRef {
	if s == nil {
		return nil
	}
	ret := make([][]AtomRef, len(s))
	for i, v := range s {
		ret[i] = append([]AtomRef(nil), v...)
	}
	return ret
}

//Mass is a MASS entry: the numeric index, mass and element of an atom type.
type Mass struct {
	Type    string
	Index   int
	Mass    float64
	Element string
}

//Errors

//Error is a problem found while reading a topology file.
type Error struct {
	message  string
	filename string
	line     int
	deco     []string
}

//Error returns the error message, with the file and line where the problem was found.
func (err Error) Error() string {
	if err.line > 0 {
		return fmt.Sprintf("topology file %s, line %d: %s", err.filename, err.line, err.message)
	}
	return fmt.Sprintf("topology file %s: %s", err.filename, err.message)
}

//FileName returns the file where the error was found.
func (err Error) FileName() string { return err.filename }

//Line returns the line (1-based) where the error was found, or 0.
func (err Error) Line() int { return err.line }

//Decorate adds the name of a calling function to the error trail and returns the trail.
func (err Error) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}
