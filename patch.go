/*
 * patch.go, part of psfgen.
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
	"github.com/rmera/psfgen/topo"
)

//Target is a residue a patch is applied to.
type Target struct {
	Segment string
	Residue string
}

func (T Target) String() string {
	return T.Segment + ":" + T.Residue
}

//Patch applies the patch template name to the target residues, which must be as
//many as the patch needs. Atoms, bonds and the other entries declared in the patch
//are added, and its deletions are done. Angles and dihedrals are not derived again:
//use RegenerateAngles and RegenerateDihedrals for that. The structure is not changed
//if the patch can't be applied completely.
func (S *Session) Patch(name string, targets []Target) error {
	const op = "Patch"
	tpl, ok := S.store.Patch(name)
	if !ok {
		return errorf(ErrLookup, op, "unknown patch %s", name)
	}
	if len(targets) != tpl.Arity() {
		return errorf(ErrArity, op, "patch %s needs %d residues, %d given", tpl.Name, tpl.Arity(), len(targets))
	}
	res := make([]*Residue, len(targets))
	for i, t := range targets {
		seg := S.segment(t.Segment)
		if seg == nil {
			return errorf(ErrLookup, op, "patch %s: no segment %s", tpl.Name, t.Segment)
		}
		if res[i] = seg.Residue(t.Residue); res[i] == nil {
			return errorf(ErrLookup, op, "patch %s: no residue %s", tpl.Name, t)
		}
	}
	if err := S.applyPatch(tpl, res, S.segs); err != nil {
		return wrapError(ErrLookup, op, err)
	}
	S.patches = append(S.patches, PatchRecord{Name: tpl.Name, Targets: append([]Target(nil), targets...)})
	for _, ic := range tpl.ICs {
		S.ics = append(S.ics, boundIC{ic: ic, res: res})
	}
	return nil
}

//patchPlan collects the changes a patch will make, so they can all be
//checked before anything is changed.
type patchPlan struct {
	dels      map[*Atom]bool
	delOrder  []*Atom
	mods      []atomMod
	adds      map[*Residue][]*Atom
	addOrder  []*Residue
	bonds     [][2]*Atom
	unbonds   [][2]*Atom
	angles    [][3]*Atom
	dihedrals [][4]*Atom
	impropers [][4]*Atom
	cmaps     [][8]*Atom
	drops     [][]*Atom //angles, dihedrals and impropers to delete
}

type atomMod struct {
	atom *Atom
	def  topo.AtomDef
}

//current returns the atom name in r as it will be once the planned deletions and
//additions are made, or nil.
func (P *patchPlan) current(r *Residue, name string) *Atom {
	for _, v := range P.adds[r] {
		if v.Name == name {
			return v
		}
	}
	a := r.Atom(name)
	if a == nil || P.dels[a] {
		return nil
	}
	return a
}

//applyPatch applies tpl to res. Tuples touching deleted atoms are removed from
//the segments in segs.
func (S *Session) applyPatch(tpl *topo.Residue, res []*Residue, segs []*Segment) error {
	const op = "applyPatch"
	P := &patchPlan{dels: make(map[*Atom]bool), adds: make(map[*Residue][]*Atom)}
	resOf := func(ref topo.AtomRef) *Residue {
		return res[ref.Target].neighbor(ref.Offset)
	}
	for _, ref := range tpl.DelAtoms {
		r := resOf(ref)
		var a *Atom
		if r != nil {
			a = r.Atom(ref.Name)
		}
		if a == nil || P.dels[a] {
			S.log.Printf("patch %s: atom %s to delete not found, skipping", tpl.Name, ref.PatchString())
			continue
		}
		P.dels[a] = true
		P.delOrder = append(P.delOrder, a)
	}
	for _, d := range tpl.Atoms {
		r := resOf(d.AtomRef)
		if r == nil {
			return errorf(ErrLookup, op, "patch %s: no residue for atom %s", tpl.Name, d.PatchString())
		}
		a := P.current(r, d.Name)
		intpl := r.fromTemplate(d.Name)
		switch {
		case a != nil && intpl && !P.isAdded(r, a):
			P.mods = append(P.mods, atomMod{a, d})
		case a != nil:
			return errorf(ErrDuplicate, op, "patch %s: atom %s already in residue %s", tpl.Name, d.Name, r.label())
		default:
			if _, ok := P.adds[r]; !ok {
				P.addOrder = append(P.addOrder, r)
			}
			P.adds[r] = append(P.adds[r], &Atom{Name: d.Name, Type: d.Type, Charge: d.Charge, res: r, index: -1})
		}
	}
	resolve := func(refs []topo.AtomRef, what string) ([]*Atom, error) {
		ret := make([]*Atom, len(refs))
		for i, ref := range refs {
			r := resOf(ref)
			if r == nil {
				return nil, errorf(ErrLookup, op, "patch %s: %s %s refers to a residue beyond the end of the segment", tpl.Name, what, ref.PatchString())
			}
			if ret[i] = P.current(r, ref.Name); ret[i] == nil {
				return nil, errorf(ErrLookup, op, "patch %s: %s atom %s not found in residue %s", tpl.Name, what, ref.Name, r.label())
			}
		}
		return ret, nil
	}
	for _, b := range tpl.Bonds {
		at, err := resolve(b[:], "bond")
		if err != nil {
			return err
		}
		pair := [2]*Atom{at[0], at[1]}
		if at[0] == at[1] || at[0].bondedTo(at[1]) || P.hasBond(pair) {
			return errorf(ErrDuplicate, op, "patch %s: bond %s-%s already exists", tpl.Name, at[0].label(), at[1].label())
		}
		P.bonds = append(P.bonds, pair)
	}
	for _, b := range tpl.DelBonds {
		at, err := resolve(b[:], "deleted bond")
		if err != nil || !at[0].bondedTo(at[1]) {
			S.log.Printf("patch %s: bond %s-%s to delete not found, skipping", tpl.Name, b[0].PatchString(), b[1].PatchString())
			continue
		}
		P.unbonds = append(P.unbonds, [2]*Atom{at[0], at[1]})
	}
	for _, v := range tpl.Angles {
		at, err := resolve(v[:], "angle")
		if err != nil {
			return err
		}
		P.angles = append(P.angles, [3]*Atom{at[0], at[1], at[2]})
	}
	for _, v := range tpl.Dihedrals {
		at, err := resolve(v[:], "dihedral")
		if err != nil {
			return err
		}
		P.dihedrals = append(P.dihedrals, [4]*Atom{at[0], at[1], at[2], at[3]})
	}
	for _, v := range tpl.Impropers {
		at, err := resolve(v[:], "improper")
		if err != nil {
			return err
		}
		P.impropers = append(P.impropers, [4]*Atom{at[0], at[1], at[2], at[3]})
	}
	for _, v := range tpl.Cmaps {
		at, err := resolve(v[:], "cross-term")
		if err != nil {
			return err
		}
		var c [8]*Atom
		copy(c[:], at)
		P.cmaps = append(P.cmaps, c)
	}
	dels := make([][]topo.AtomRef, 0, len(tpl.DelAngles)+len(tpl.DelDihedrals)+len(tpl.DelImpropers))
	for _, v := range tpl.DelAngles {
		dels = append(dels, append([]topo.AtomRef(nil), v[:]...))
	}
	for _, v := range tpl.DelDihedrals {
		dels = append(dels, append([]topo.AtomRef(nil), v[:]...))
	}
	for _, v := range tpl.DelImpropers {
		dels = append(dels, append([]topo.AtomRef(nil), v[:]...))
	}
	for _, v := range dels {
		at, err := resolve(v, "deleted entry")
		if err != nil {
			S.log.Printf("patch %s: %v, skipping", tpl.Name, err)
			continue
		}
		P.drops = append(P.drops, at)
	}
	S.commitPatch(tpl.Name, P, res, segs)
	return nil
}

func (P *patchPlan) isAdded(r *Residue, a *Atom) bool {
	for _, v := range P.adds[r] {
		if v == a {
			return true
		}
	}
	return false
}

func (P *patchPlan) hasBond(b [2]*Atom) bool {
	for _, v := range P.bonds {
		if (v[0] == b[0] && v[1] == b[1]) || (v[0] == b[1] && v[1] == b[0]) {
			return true
		}
	}
	return false
}

//commitPatch makes the changes planned. It can't fail.
func (S *Session) commitPatch(name string, P *patchPlan, res []*Residue, segs []*Segment) {
	removeAtoms(segs, P.dels)
	for _, m := range P.mods {
		m.atom.Type, m.atom.Charge = m.def.Type, m.def.Charge
		S.setTypeData(m.atom)
	}
	for _, r := range P.addOrder {
		for _, a := range P.adds[r] {
			S.setTypeData(a)
			r.Atoms = append(r.Atoms, a)
		}
	}
	for _, b := range P.bonds {
		bond(b[0], b[1])
	}
	for _, b := range P.unbonds {
		unbond(b[0], b[1])
	}
	for _, t := range P.drops {
		for _, s := range segs {
			switch len(t) {
			case 3:
				s.Angles = filterTuples(s.Angles, func(v [3]*Atom) bool { return !sameTuple(v[:], t) })
			case 4:
				s.Dihedrals = filterTuples(s.Dihedrals, func(v [4]*Atom) bool { return !sameTuple(v[:], t) })
				s.Impropers = filterTuples(s.Impropers, func(v [4]*Atom) bool { return !sameTuple(v[:], t) })
			}
		}
	}
	for _, t := range P.angles {
		s := t[1].res.seg
		s.Angles = append(s.Angles, t)
	}
	for _, t := range P.dihedrals {
		s := t[1].res.seg
		s.Dihedrals = append(s.Dihedrals, t)
	}
	for _, t := range P.impropers {
		s := t[0].res.seg
		s.Impropers = append(s.Impropers, t)
	}
	for _, t := range P.cmaps {
		s := t[0].res.seg
		s.Cmaps = append(s.Cmaps, t)
	}
	seen := make(map[*Residue]bool)
	for _, r := range res {
		if !seen[r] {
			r.Patches = append(r.Patches, name)
			seen[r] = true
		}
	}
}

//removeAtoms takes the atoms in gone out of their residues, with all their bonds,
//and removes every tuple in segs that includes them.
func removeAtoms(segs []*Segment, gone map[*Atom]bool) {
	if len(gone) == 0 {
		return
	}
	for a := range gone {
		for _, b := range a.Bonded() {
			unbond(a, b)
		}
		if r := a.res; r != nil {
			r.Atoms = removeAtom(r.Atoms, a)
		}
		a.res = nil
		a.index = -1
	}
	dropTuples(segs, gone)
}

//DeleteAtoms removes atoms from the structure. With an empty residue, the whole
//segment is removed, with an empty atom name, the whole residue. Bonds, angles,
//dihedrals, impropers and cross-terms involving the removed atoms go too.
func (S *Session) DeleteAtoms(segment, residue, atom string) error {
	const op = "DeleteAtoms"
	seg := S.segment(segment)
	if seg == nil {
		return errorf(ErrLookup, op, "no segment %s", segment)
	}
	gone := make(map[*Atom]bool)
	switch {
	case residue == "":
		seg.eachAtom(func(a *Atom) { gone[a] = true })
		for i, v := range S.segs {
			if v == seg {
				S.segs = append(S.segs[:i], S.segs[i+1:]...)
				break
			}
		}
		removeAtoms(append(S.segs, seg), gone)
		seg.Residues = nil
	case atom == "":
		r := seg.Residue(residue)
		if r == nil {
			return errorf(ErrLookup, op, "no residue %s:%s", segment, residue)
		}
		for _, a := range r.Atoms {
			gone[a] = true
		}
		removeAtoms(S.segs, gone)
		seg.Residues = filterTuples(seg.Residues, func(v *Residue) bool { return v != r })
		r.seg = nil
	default:
		r := seg.Residue(residue)
		if r == nil {
			return errorf(ErrLookup, op, "no residue %s:%s", segment, residue)
		}
		a := r.Atom(S.aliases.Atom(r.Name, atom))
		if a == nil {
			return errorf(ErrLookup, op, "no atom %s in residue %s:%s", atom, segment, residue)
		}
		gone[a] = true
		removeAtoms(S.segs, gone)
	}
	S.log.Printf("deleted %d atoms", len(gone))
	return nil
}
