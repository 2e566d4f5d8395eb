/*
 * connectivity.go, part of psfgen.
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
	"strconv"

	"github.com/rmera/psfgen/pdb"
)

//deriveAngles returns one angle for each pair of atoms bonded to a common
//atom of seg, centered on that atom. Atoms must be indexed.
func deriveAngles(seg *Segment) [][3]*Atom {
	var ret [][3]*Atom
	seg.eachAtom(func(c *Atom) {
		nb := c.bonds
		for i := 0; i < len(nb); i++ {
			for j := i + 1; j < len(nb); j++ {
				if mixedCopies(nb[i], c, nb[j]) {
					continue
				}
				ret = append(ret, [3]*Atom{nb[i], c, nb[j]})
			}
		}
	})
	return ret
}

//deriveDihedrals returns the dihedrals x-a-b-y for every bond a-b owned by seg,
//with x bonded to a, y bonded to b, and x, b, a, y all different. A bond is owned
//by the segment of its atom with the lower index, unless the bond joins two
//segments and only the other one generates dihedrals. Atoms must be indexed.
func deriveDihedrals(seg *Segment) [][4]*Atom {
	var ret [][4]*Atom
	seg.eachAtom(func(a *Atom) {
		for _, b := range a.bonds {
			other := b.res.seg
			if b.index <= a.index && (other == seg || other.AutoDihedrals) {
				continue
			}
			for _, x := range a.bonds {
				if x == b {
					continue
				}
				for _, y := range b.bonds {
					if y == a || y == x {
						continue
					}
					if mixedCopies(x, a, b, y) {
						continue
					}
					ret = append(ret, [4]*Atom{x, a, b, y})
				}
			}
		}
	})
	return ret
}

//RegenerateAngles replaces the angles of every segment with automatic angle
//generation on with the ones derived from the current bonds.
func (S *Session) RegenerateAngles() {
	S.atoms()
	n := 0
	for _, s := range S.segs {
		if s.AutoAngles {
			s.Angles = deriveAngles(s)
		}
		n += len(s.Angles)
	}
	S.log.Printf("regenerated angles, %d in total", n)
}

//RegenerateDihedrals replaces the dihedrals of every segment with automatic
//dihedral generation on with the ones derived from the current bonds.
func (S *Session) RegenerateDihedrals() {
	S.atoms()
	n := 0
	for _, s := range S.segs {
		if s.AutoDihedrals {
			s.Dihedrals = deriveDihedrals(s)
		}
		n += len(s.Dihedrals)
	}
	S.log.Printf("regenerated dihedrals, %d in total", n)
}

//RegenerateResids renumbers residues so that, in every segment, IDs are plain
//increasing integers. Residues keep their number when possible: only residues
//with an insertion code, or with a number not higher than the previous
//residue's, get the next free number.
func (S *Session) RegenerateResids() {
	changed := 0
	for _, s := range S.segs {
		prev := 0
		ren := make(map[string]string)
		for i, r := range s.Residues {
			seq, icode := pdb.SplitResID(r.ID)
			n, err := strconv.Atoi(seq)
			switch {
			case err != nil, icode != "", i > 0 && n <= prev:
				n = prev + 1
			}
			prev = n
			id := strconv.Itoa(n)
			if id != r.ID {
				S.log.Printf("residue %s:%s renumbered to %s", s.ID, r.ID, id)
				ren[r.ID] = id
				r.ID = id
				changed++
			}
		}
		S.renameTargets(s.ID, ren)
	}
	if changed > 0 {
		S.log.Printf("%d residues renumbered", changed)
	}
}

//renameTargets updates the patch records after the residues of segment seg
//are renamed. ren maps old IDs to new ones.
func (S *Session) renameTargets(seg string, ren map[string]string) {
	if len(ren) == 0 {
		return
	}
	for _, p := range S.patches {
		for i, t := range p.Targets {
			if id, ok := ren[t.Residue]; ok && t.Segment == seg {
				p.Targets[i].Residue = id
			}
		}
	}
}
