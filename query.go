/*
 * query.go, part of psfgen.
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

//SegmentIDs returns the IDs of the segments, in order.
func (S *Session) SegmentIDs() []string {
	ret := make([]string, len(S.segs))
	for i, v := range S.segs {
		ret[i] = v.ID
	}
	return ret
}

//Segment returns the segment id.
func (S *Session) Segment(id string) (*Segment, error) {
	if s := S.segment(id); s != nil {
		return s, nil
	}
	return nil, errorf(ErrLookup, "Segment", "no segment %s", id)
}

//Residue returns the residue segment:id.
func (S *Session) Residue(segment, id string) (*Residue, error) {
	s, err := S.Segment(segment)
	if err != nil {
		return nil, wrapError(ErrLookup, "Residue", err)
	}
	if r := s.Residue(id); r != nil {
		return r, nil
	}
	return nil, errorf(ErrLookup, "Residue", "no residue %s:%s", segment, id)
}

//ResidueIDs returns the IDs of the residues in segment, in order.
func (S *Session) ResidueIDs(segment string) ([]string, error) {
	s, err := S.Segment(segment)
	if err != nil {
		return nil, wrapError(ErrLookup, "ResidueIDs", err)
	}
	ret := make([]string, len(s.Residues))
	for i, v := range s.Residues {
		ret[i] = v.ID
	}
	return ret, nil
}

//AtomNames returns the names of the atoms in residue segment:residue, in order.
func (S *Session) AtomNames(segment, residue string) ([]string, error) {
	r, err := S.Residue(segment, residue)
	if err != nil {
		return nil, wrapError(ErrLookup, "AtomNames", err)
	}
	ret := make([]string, len(r.Atoms))
	for i, v := range r.Atoms {
		ret[i] = v.Name
	}
	return ret, nil
}

//Atom returns the atom segment:residue:name. The name is resolved with the alias table.
func (S *Session) Atom(segment, residue, name string) (*Atom, error) {
	return S.find("Atom", segment, residue, name)
}

//Atoms returns all the atoms in the structure, in segment, residue and atom order.
func (S *Session) Atoms() []*Atom {
	return S.atoms()
}

//NAtoms returns the number of atoms in the structure.
func (S *Session) NAtoms() int {
	n := 0
	for _, s := range S.segs {
		n += s.NAtoms()
	}
	return n
}

//Bonds returns the bonds as pairs of 0-based atom indexes (see Atoms).
func (S *Session) Bonds() [][2]int {
	return bondList(S.atoms())
}

//Angles returns the angles of all segments as 0-based atom indexes.
func (S *Session) Angles() [][3]int {
	S.atoms()
	var ret [][3]int
	for _, s := range S.segs {
		for _, t := range s.Angles {
			ret = append(ret, [3]int{t[0].index, t[1].index, t[2].index})
		}
	}
	return ret
}

//Dihedrals returns the dihedrals of all segments as 0-based atom indexes.
func (S *Session) Dihedrals() [][4]int {
	S.atoms()
	var ret [][4]int
	for _, s := range S.segs {
		for _, t := range s.Dihedrals {
			ret = append(ret, [4]int{t[0].index, t[1].index, t[2].index, t[3].index})
		}
	}
	return ret
}

//Impropers returns the impropers of all segments as 0-based atom indexes.
func (S *Session) Impropers() [][4]int {
	S.atoms()
	var ret [][4]int
	for _, s := range S.segs {
		for _, t := range s.Impropers {
			ret = append(ret, [4]int{t[0].index, t[1].index, t[2].index, t[3].index})
		}
	}
	return ret
}
