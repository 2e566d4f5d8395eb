/*
 * multiply.go, part of psfgen.
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

import "fmt"

//AtomTarget selects atoms: a whole segment if Residue is empty, a whole
//residue if Atom is empty, and a single atom otherwise.
type AtomTarget struct {
	Segment string
	Residue string
	Atom    string
}

func (T AtomTarget) String() string {
	switch {
	case T.Residue == "":
		return T.Segment
	case T.Atom == "":
		return T.Segment + ":" + T.Residue
	}
	return fmt.Sprintf("%s:%s:%s", T.Segment, T.Residue, T.Atom)
}

//Multiply turns each selected atom into n copies, for locally enhanced sampling.
//The copies keep the name, type, charge, mass and coordinates of the original, and
//are told apart only by their Copy number, 1 to n, which is also set as their B-factor.
//Bonds and all tuples including the selected atoms are replicated once per copy.
//Copy k is bonded to copy k of other multiplied atoms, and to every unmultiplied
//neighbor of the original. Nothing changes if a target doesn't exist or has
//already been multiplied.
func (S *Session) Multiply(n int, targets []AtomTarget) error {
	const op = "Multiply"
	if n < 2 {
		return errorf(ErrFormat, op, "can't make %d copies", n)
	}
	sel := make(map[*Atom]bool)
	var order []*Atom
	add := func(a *Atom) {
		if !sel[a] {
			sel[a] = true
			order = append(order, a)
		}
	}
	for _, t := range targets {
		seg := S.segment(t.Segment)
		if seg == nil {
			return errorf(ErrLookup, op, "no segment %s", t.Segment)
		}
		switch {
		case t.Residue == "":
			seg.eachAtom(add)
		case t.Atom == "":
			r := seg.Residue(t.Residue)
			if r == nil {
				return errorf(ErrLookup, op, "no residue %s", t)
			}
			for _, a := range r.Atoms {
				add(a)
			}
		default:
			a, err := S.find(op, t.Segment, t.Residue, t.Atom)
			if err != nil {
				return err
			}
			add(a)
		}
	}
	if len(order) == 0 {
		return errorf(ErrLookup, op, "no atoms selected")
	}
	for _, a := range order {
		if a.Copy != 0 {
			return errorf(ErrDuplicate, op, "atom %s is already multiplied", a.label())
		}
	}
	//copies[a][k] is copy k+1 of a.
	copies := make(map[*Atom][]*Atom, len(order))
	for _, a := range order {
		c := make([]*Atom, n)
		c[0] = a
		for k := 1; k < n; k++ {
			b := *a
			b.bonds = nil
			b.Copy, b.Beta = k+1, float64(k+1)
			c[k] = &b
		}
		a.Copy, a.Beta = 1, 1
		copies[a] = c
	}
	for _, a := range order {
		for _, b := range a.Bonded() {
			cb, multiplied := copies[b]
			for k := 1; k < n; k++ {
				if multiplied {
					bond(copies[a][k], cb[k])
				} else {
					bond(copies[a][k], b)
				}
			}
		}
	}
	seen := make(map[*Residue]bool)
	for _, a := range order {
		r := a.res
		if seen[r] {
			continue
		}
		seen[r] = true
		atoms := make([]*Atom, 0, len(r.Atoms)+(n-1)*len(r.Atoms))
		for _, v := range r.Atoms {
			if c, ok := copies[v]; ok {
				atoms = append(atoms, c...)
			} else {
				atoms = append(atoms, v)
			}
		}
		r.Atoms = atoms
	}
	for _, s := range S.segs {
		s.Angles = replicate(s.Angles, func(t *[3]*Atom) []*Atom { return t[:] }, copies, n)
		s.Dihedrals = replicate(s.Dihedrals, func(t *[4]*Atom) []*Atom { return t[:] }, copies, n)
		s.Impropers = replicate(s.Impropers, func(t *[4]*Atom) []*Atom { return t[:] }, copies, n)
		s.Cmaps = replicate(s.Cmaps, func(t *[8]*Atom) []*Atom { return t[:] }, copies, n)
	}
	S.log.Printf("multiplied %d atoms into %d copies each", len(order), n)
	return nil
}

//replicate returns list with n-1 extra copies of each tuple including atoms in
//copies, placed right after the original. In extra copy k, every multiplied atom
//is replaced by its copy k.
func replicate[T any](list []T, atoms func(*T) []*Atom, copies map[*Atom][]*Atom, n int) []T {
	ret := make([]T, 0, len(list))
	for _, t := range list {
		ret = append(ret, t)
		multiplied := false
		for _, a := range atoms(&t) {
			_, ok := copies[a]
			multiplied = multiplied || ok
		}
		if !multiplied {
			continue
		}
		for k := 1; k < n; k++ {
			c := t
			at := atoms(&c)
			for i, a := range at {
				if cp, ok := copies[a]; ok {
					at[i] = cp[k]
				}
			}
			ret = append(ret, c)
		}
	}
	return ret
}
