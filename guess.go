/*
 * guess.go, part of psfgen.
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
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/rmera/psfgen/chemgraph"
	"github.com/rmera/psfgen/v3"
)

//GuessReport summarizes a GuessCoords call.
type GuessReport struct {
	//Guessed are the atoms that got coordinates, in the order they were placed.
	Guessed []*Atom
	//Poor are the atoms among Guessed placed with generic geometry, not from
	//internal coordinate tables.
	Poor []*Atom
	//Unresolved are the atoms still without coordinates, in structure order.
	Unresolved []*Atom
	//Isolated are the unresolved atoms without bonds.
	Isolated []*Atom
	//Anchorless are the bonded fragments where no atom has coordinates.
	Anchorless [][]*Atom
}

func (G *GuessReport) String() string {
	return fmt.Sprintf("%d atoms guessed (%d poorly), %d unresolved (%d isolated, %d fragments without coordinates)",
		len(G.Guessed), len(G.Poor), len(G.Unresolved), len(G.Isolated), len(G.Anchorless))
}

const (
	tetrahedral = 109.47
	trigonal    = 120.0
)

func vecOf(c [3]float64) r3.Vec {
	return r3.Vec{X: c[0], Y: c[1], Z: c[2]}
}

func pos(a *Atom) r3.Vec {
	return vecOf(a.Coords)
}

func place(a *Atom, p r3.Vec) {
	a.Coords = [3]float64{p.X, p.Y, p.Z}
	a.State = Guessed
}

func isHydrogen(a *Atom) bool {
	if a.Element != "" {
		return a.Element == "H"
	}
	return a.Name != "" && a.Name[0] == 'H'
}

//defaultBond is the bond length used when no table gives one.
func defaultBond(a, b *Atom) float64 {
	if isHydrogen(a) || isHydrogen(b) {
		return 1.0
	}
	return 1.5
}

//defaultAngle is the angle centered at c used when no table gives one.
func defaultAngle(c *Atom) float64 {
	if len(c.bonds) == 3 {
		return trigonal
	}
	return tetrahedral
}

//GuessCoords assigns coordinates to the atoms that have none. Internal coordinate
//entries from the templates are used first, applied over and over while they place
//new atoms. When they can't place anything else, atoms bonded to an atom with
//coordinates are placed with tetrahedral or trigonal geometry, and the tables are
//tried again. The process stops when no atom can be placed. Atoms without bonds, or
//in fragments where no atom has coordinates, stay without coordinates and are reported.
func (S *Session) GuessCoords() *GuessReport {
	rep := &GuessReport{}
	atoms := S.atoms()
	for {
		for S.icPass(rep) > 0 {
		}
		if S.heuristicPass(atoms, rep) == 0 {
			break
		}
	}
	bonds := bondList(atoms)
	frags := chemgraph.New(len(atoms), bonds).Fragments()
	for _, f := range frags {
		anchored := false
		var absent []*Atom
		for _, i := range f {
			if atoms[i].HasCoords() {
				anchored = true
			} else {
				absent = append(absent, atoms[i])
			}
		}
		switch {
		case len(f) == 1 && !anchored:
			rep.Isolated = append(rep.Isolated, atoms[f[0]])
		case !anchored:
			rep.Anchorless = append(rep.Anchorless, absent)
		}
	}
	for _, a := range atoms {
		if !a.HasCoords() {
			rep.Unresolved = append(rep.Unresolved, a)
		}
	}
	for _, a := range rep.Poor {
		S.log.Printf("poorly guessed coordinates for atom %s", a.label())
	}
	for _, a := range rep.Unresolved {
		S.log.Printf("can't guess coordinates for atom %s", a.label())
	}
	S.log.Printf("guessed coordinates: %s", rep)
	return rep
}

//atoms resolves the atoms of an internal coordinate entry, or returns false if
//any of them is not in the structure.
func (b boundIC) atoms() ([4]*Atom, bool) {
	var ret [4]*Atom
	for i, ref := range b.ic.Atoms {
		r := b.res[ref.Target]
		if r.seg == nil {
			return ret, false
		}
		r = r.neighbor(ref.Offset)
		if r == nil {
			return ret, false
		}
		if ret[i] = r.Atom(ref.Name); ret[i] == nil {
			return ret, false
		}
	}
	return ret, true
}

//icPass places the atoms that can be placed from one internal coordinate entry
//with the other three atoms known. It returns how many were placed.
func (S *Session) icPass(rep *GuessReport) int {
	n := 0
	for _, b := range S.ics {
		at, ok := b.atoms()
		if !ok {
			continue
		}
		I, J, K, L := at[0], at[1], at[2], at[3]
		ic := b.ic
		//for impropers K is the central atom, and RIJ is the I-K distance.
		switch {
		case !L.HasCoords() && I.HasCoords() && J.HasCoords() && K.HasCoords():
			bond := ic.RKL
			if bond <= 0 {
				bond = defaultBond(K, L)
			}
			angle := ic.ThetaJKL
			if angle <= 0 {
				angle = defaultAngle(K)
			}
			if v3.Collinear(pos(I), pos(J), pos(K)) {
				continue
			}
			place(L, v3.Place(pos(I), pos(J), pos(K), bond, angle, ic.Phi))
			rep.Guessed = append(rep.Guessed, L)
			n++
		case !I.HasCoords() && J.HasCoords() && K.HasCoords() && L.HasCoords():
			var p r3.Vec
			if ic.Improper {
				bond := ic.RIJ
				if bond <= 0 {
					bond = defaultBond(I, K)
				}
				angle := ic.ThetaIJK
				if angle <= 0 {
					angle = defaultAngle(K)
				}
				if v3.Collinear(pos(L), pos(J), pos(K)) {
					continue
				}
				p = v3.Place(pos(L), pos(J), pos(K), bond, angle, -ic.Phi)
			} else {
				bond := ic.RIJ
				if bond <= 0 {
					bond = defaultBond(I, J)
				}
				angle := ic.ThetaIJK
				if angle <= 0 {
					angle = defaultAngle(J)
				}
				if v3.Collinear(pos(L), pos(K), pos(J)) {
					continue
				}
				p = v3.Place(pos(L), pos(K), pos(J), bond, angle, ic.Phi)
			}
			place(I, p)
			rep.Guessed = append(rep.Guessed, I)
			n++
		}
	}
	return n
}

//known returns the neighbors of c with coordinates, other than except.
func known(c *Atom, except ...*Atom) []*Atom {
	var ret []*Atom
	for _, v := range c.bonds {
		if !v.HasCoords() {
			continue
		}
		skip := false
		for _, e := range except {
			if v == e {
				skip = true
			}
		}
		if !skip {
			ret = append(ret, v)
		}
	}
	return ret
}

//heuristicPass places the atoms bonded to atoms that had coordinates at the
//start of the pass, using generic geometry. It returns how many were placed.
func (S *Session) heuristicPass(atoms []*Atom, rep *GuessReport) int {
	var centers []*Atom
	for _, a := range atoms {
		if !a.HasCoords() {
			continue
		}
		for _, b := range a.bonds {
			if !b.HasCoords() {
				centers = append(centers, a)
				break
			}
		}
	}
	n := 0
	for _, C := range centers {
		k := 0
		for _, X := range C.bonds {
			if X.HasCoords() {
				continue
			}
			place(X, heuristicPosition(C, X, k))
			rep.Guessed = append(rep.Guessed, X)
			rep.Poor = append(rep.Poor, X)
			k++
			n++
		}
	}
	return n
}

//heuristicPosition returns a position for X, bonded to C, which has coordinates.
//k is the number of atoms already placed around C in this pass.
func heuristicPosition(C, X *Atom, k int) r3.Vec {
	bond := defaultBond(C, X)
	c := pos(C)
	ref := known(C, X)
	if len(ref) == 0 {
		return v3.Around(c, bond, k)
	}
	b := pos(ref[0])
	if v3.Distance(b, c) < 1e-3 {
		return v3.Around(c, bond, k)
	}
	angle := defaultAngle(C)
	planar := angle == trigonal
	//Another neighbor of C, if there is one, fixes the rotation around the B-C
	//axis: X goes to one of the free positions around C.
	for _, A := range ref[1:] {
		if a := pos(A); !v3.Collinear(a, b, c) {
			dihedral := 120 * float64(k+1)
			if planar {
				dihedral = 180
			}
			return v3.Place(a, b, c, bond, angle, dihedral)
		}
	}
	//else a neighbor of B, and X is staggered (or trans) with respect to it.
	dihedral := 180 + 120*float64(k)
	if planar {
		dihedral = 180 * float64(k+1)
	}
	for _, A := range known(ref[0], C) {
		if a := pos(A); !v3.Collinear(a, b, c) {
			return v3.Place(a, b, c, bond, angle, dihedral)
		}
	}
	a := r3.Add(b, v3.Perpendicular(r3.Sub(c, b)))
	return v3.Place(a, b, c, bond, angle, dihedral)
}
