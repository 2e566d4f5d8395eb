/*
 * segment.go, part of psfgen.
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
	"strings"

	"github.com/rmera/psfgen/pdb"
	"github.com/rmera/psfgen/topo"
)

//ResidueSpec names a residue to build: its ID (sequence number plus optional
//insertion code), its residue name and, optionally, its chain.
type ResidueSpec struct {
	ID    string
	Name  string
	Chain string
}

//SegmentOptions describes a segment to build with AddSegment.
type SegmentOptions struct {
	//Residues is the list of residues, in order. It can't be given together with PDB.
	Residues []ResidueSpec
	//PDB is a coordinate file. One residue is built for every group of contiguous
	//records with the same residue number, name and chain. Coordinates are not read.
	PDB string
	//First and Last are the patches for the first and last residues. An empty
	//string means the residue or topology default, "none" means no patch.
	First string
	Last  string
	//Mutate changes the residue name of the residues with the given IDs
	//before the segment is built.
	Mutate          []ResidueSpec
	NoAutoAngles    bool
	NoAutoDihedrals bool
}

func validID(id string) bool {
	return id != "" && !strings.ContainsAny(id, " \t\r\n")
}

func isNone(patch string) bool {
	return strings.EqualFold(patch, "none")
}

//AddSegment builds the segment id from templates and adds it to the structure.
//All atoms start without coordinates. Bonds to the previous and next residues are
//made as declared in the templates, the first and last patches are applied, and,
//unless disabled, angles and dihedrals are derived. Nothing is added if any
//step fails.
func (S *Session) AddSegment(id string, opts SegmentOptions) error {
	const op = "AddSegment"
	if !validID(id) {
		return errorf(ErrFormat, op, "invalid segment name %q", id)
	}
	if S.segment(id) != nil {
		return errorf(ErrDuplicate, op, "segment %s already exists", id)
	}
	specs := opts.Residues
	if opts.PDB != "" {
		if len(specs) > 0 {
			return errorf(ErrFormat, op, "segment %s: both a residue list and a PDB file given", id)
		}
		recs, err := pdb.ReadFile(opts.PDB)
		if err != nil {
			return wrapError(ErrFormat, op, err)
		}
		//runs are made of canonical names, so spellings of the same residue stay together.
		for i := range recs {
			recs[i].ResName = S.aliases.Residue(recs[i].ResName)
		}
		for _, v := range pdb.Runs(recs) {
			specs = append(specs, ResidueSpec{ID: v.ResID, Name: v.ResName, Chain: v.Chain})
		}
	}
	if len(specs) == 0 {
		return errorf(ErrFormat, op, "segment %s has no residues", id)
	}
	list := make([]ResidueSpec, len(specs))
	pos := make(map[string]int, len(specs))
	for i, v := range specs {
		v.ID = strings.TrimSpace(v.ID)
		v.Name = S.aliases.Residue(strings.TrimSpace(v.Name))
		if !validID(v.ID) {
			return errorf(ErrFormat, op, "segment %s: invalid residue ID %q", id, v.ID)
		}
		if _, ok := pos[v.ID]; ok {
			return errorf(ErrDuplicate, op, "segment %s: residue %s appears twice", id, v.ID)
		}
		pos[v.ID] = i
		list[i] = v
	}
	for _, m := range opts.Mutate {
		i, ok := pos[strings.TrimSpace(m.ID)]
		if !ok {
			return errorf(ErrLookup, op, "segment %s: can't mutate residue %s, not in the segment", id, m.ID)
		}
		name := S.aliases.Residue(m.Name)
		if _, ok := S.store.Residue(name); !ok {
			return errorf(ErrLookup, op, "segment %s: can't mutate residue %s to unknown residue %s", id, m.ID, m.Name)
		}
		list[i].Name = name
	}
	angles, dihedrals := S.store.Auto()
	seg := &Segment{
		ID:            id,
		First:         opts.First,
		Last:          opts.Last,
		AutoAngles:    angles && !opts.NoAutoAngles,
		AutoDihedrals: dihedrals && !opts.NoAutoDihedrals,
	}
	var ics []boundIC
	for _, v := range list {
		tpl, ok := S.store.Residue(v.Name)
		if !ok {
			return errorf(ErrLookup, op, "segment %s: unknown residue %s (residue %s)", id, v.Name, v.ID)
		}
		r := &Residue{ID: v.ID, Name: tpl.Name, Chain: v.Chain, seg: seg, tpl: tpl}
		for _, d := range tpl.Atoms {
			r.Atoms = append(r.Atoms, S.newAtom(r, d))
		}
		seg.Residues = append(seg.Residues, r)
	}
	for i, r := range seg.Residues {
		S.instantiate(seg, i)
		for _, ic := range r.tpl.ICs {
			ics = append(ics, boundIC{ic: ic, res: []*Residue{r}})
		}
	}
	var applied []PatchRecord
	ends := []struct {
		requested string
		r         *Residue
		first     bool
	}{
		{seg.First, seg.Residues[0], true},
		{seg.Last, seg.Residues[len(seg.Residues)-1], false},
	}
	for _, e := range ends {
		name := S.endPatch(e.requested, e.r.tpl, e.first)
		if name == "" || isNone(name) {
			name = "none"
		}
		if e.first {
			seg.First = name
		} else {
			seg.Last = name
		}
		if name == "none" {
			continue
		}
		ptpl, ok := S.store.Patch(name)
		if !ok {
			return errorf(ErrLookup, op, "segment %s: unknown patch %s", id, name)
		}
		if e.first {
			seg.First = ptpl.Name
		} else {
			seg.Last = ptpl.Name
		}
		if ptpl.Arity() != 1 {
			return errorf(ErrArity, op, "segment %s: patch %s needs %d residues, can't be a terminal patch", id, name, ptpl.Arity())
		}
		if err := S.applyPatch(ptpl, []*Residue{e.r}, []*Segment{seg}); err != nil {
			return wrapError(ErrLookup, op, err)
		}
		applied = append(applied, PatchRecord{Name: ptpl.Name, Targets: []Target{{id, e.r.ID}}, Default: true})
		for _, ic := range ptpl.ICs {
			ics = append(ics, boundIC{ic: ic, res: []*Residue{e.r}})
		}
	}
	indexAtoms([]*Segment{seg})
	if seg.AutoAngles {
		seg.Angles = deriveAngles(seg)
	}
	if seg.AutoDihedrals {
		seg.Dihedrals = deriveDihedrals(seg)
	}
	S.segs = append(S.segs, seg)
	S.patches = append(S.patches, applied...)
	S.ics = append(S.ics, ics...)
	S.log.Printf("built segment %s: %d residues, %d atoms", id, len(seg.Residues), seg.NAtoms())
	return nil
}

//endPatch returns the name of the patch for the first (or last) residue of a segment:
//the one requested, else the one declared by the residue template, else the topology default.
func (S *Session) endPatch(requested string, tpl *topo.Residue, first bool) string {
	if requested != "" {
		return requested
	}
	def, deflast := S.store.Defaults()
	if first {
		if tpl.First != "" {
			return tpl.First
		}
		return def
	}
	if tpl.Last != "" {
		return tpl.Last
	}
	return deflast
}

//newAtom makes an atom from its template definition, without coordinates.
func (S *Session) newAtom(r *Residue, d topo.AtomDef) *Atom {
	a := &Atom{Name: d.Name, Type: d.Type, Charge: d.Charge, res: r, index: -1}
	S.setTypeData(a)
	return a
}

//setTypeData fills the mass and element of a from its type.
func (S *Session) setTypeData(a *Atom) {
	m, ok := S.store.Mass(a.Type)
	if !ok {
		S.log.Printf("no mass for atom type %s (atom %s)", a.Type, a.label())
		return
	}
	a.Mass, a.Element = m.Mass, m.Element
}

//instantiate makes the bonds and the literal angles, dihedrals, impropers and
//cross-terms declared by the template of the ith residue of seg. References to
//residues beyond the ends of the segment are skipped.
func (S *Session) instantiate(seg *Segment, i int) {
	r := seg.Residues[i]
	resolve := func(refs []topo.AtomRef) ([]*Atom, bool) {
		ret := make([]*Atom, len(refs))
		for j, ref := range refs {
			k := i + ref.Offset
			if k < 0 || k >= len(seg.Residues) {
				return nil, false
			}
			a := seg.Residues[k].Atom(ref.Name)
			if a == nil {
				S.log.Printf("residue %s:%s: atom %s not found, skipping template entry", seg.ID, r.ID, ref.String())
				return nil, false
			}
			ret[j] = a
		}
		return ret, true
	}
	t := r.tpl
	for _, v := range t.Bonds {
		if at, ok := resolve(v[:]); ok {
			bond(at[0], at[1])
		}
	}
	for _, v := range t.Angles {
		if at, ok := resolve(v[:]); ok {
			seg.Angles = append(seg.Angles, [3]*Atom{at[0], at[1], at[2]})
		}
	}
	for _, v := range t.Dihedrals {
		if at, ok := resolve(v[:]); ok {
			seg.Dihedrals = append(seg.Dihedrals, [4]*Atom{at[0], at[1], at[2], at[3]})
		}
	}
	for _, v := range t.Impropers {
		if at, ok := resolve(v[:]); ok {
			seg.Impropers = append(seg.Impropers, [4]*Atom{at[0], at[1], at[2], at[3]})
		}
	}
	for _, v := range t.Cmaps {
		if at, ok := resolve(v[:]); ok {
			var c [8]*Atom
			copy(c[:], at)
			seg.Cmaps = append(seg.Cmaps, c)
		}
	}
}
