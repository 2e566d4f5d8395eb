/*
 * io.go, part of psfgen.
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
	"strings"

	"github.com/rmera/psfgen/namdbin"
	"github.com/rmera/psfgen/pdb"
	"github.com/rmera/psfgen/psf"
	"github.com/rmera/psfgen/v3"
)

//ReadPSFOptions names the companion files read with a PSF file. The
//coordinates and velocities must be in the same atom order as the PSF file.
type ReadPSFOptions struct {
	PDB        string //coordinates and B-factors, in PDB format
	NAMDBin    string //coordinates, in NAMD binary format
	Velocities string //velocities, in NAMD binary format
}

//remarks returns the PSF title lines describing how the structure was built.
func (S *Session) remarks(dialect psf.Dialect) []string {
	ret := []string{fmt.Sprintf("original generated structure %s psf file", dialect)}
	for _, v := range S.topfiles {
		ret = append(ret, "topology "+v)
	}
	for _, s := range S.segs {
		auto := make([]string, 0, 2)
		if s.AutoAngles {
			auto = append(auto, "angles")
		}
		if s.AutoDihedrals {
			auto = append(auto, "dihedrals")
		}
		if len(auto) == 0 {
			auto = append(auto, "none")
		}
		first, last := s.First, s.Last
		if first == "" {
			first = "none"
		}
		if last == "" {
			last = "none"
		}
		ret = append(ret, fmt.Sprintf("segment %s { first %s; last %s; auto %s }", s.ID, first, last, strings.Join(auto, " ")))
	}
	for _, p := range S.patches {
		kw := "patch"
		if p.Default {
			kw = "defaultpatch"
		}
		t := make([]string, len(p.Targets))
		for i, v := range p.Targets {
			t[i] = v.String()
		}
		ret = append(ret, fmt.Sprintf("%s %s %s", kw, p.Name, strings.Join(t, " ")))
	}
	return ret
}

//psfFile puts the structure in the form used by the psf package.
func (S *Session) psfFile(dialect psf.Dialect) (*psf.File, error) {
	const op = "WritePSF"
	atoms := S.atoms()
	F := &psf.File{Remarks: S.remarks(dialect), Atoms: make([]psf.Atom, len(atoms))}
	for i, a := range atoms {
		r := a.res
		p := psf.Atom{SegID: r.seg.ID, ResID: r.ID, ResName: r.Name, Name: a.Name, Type: a.Type, Charge: a.Charge, Mass: a.Mass}
		if m, ok := S.store.Mass(a.Type); ok {
			p.TypeIndex = m.Index
		} else if dialect == psf.CHARMM {
			return nil, errorf(ErrLookup, op, "atom %s: type %s has no numeric index", a.label(), a.Type)
		}
		F.Atoms[i] = p
	}
	F.Bonds = bondList(atoms)
	for _, s := range S.segs {
		for _, t := range s.Angles {
			F.Angles = append(F.Angles, [3]int{t[0].index, t[1].index, t[2].index})
		}
	}
	for _, s := range S.segs {
		for _, t := range s.Dihedrals {
			F.Dihedrals = append(F.Dihedrals, [4]int{t[0].index, t[1].index, t[2].index, t[3].index})
		}
	}
	for _, s := range S.segs {
		for _, t := range s.Impropers {
			F.Impropers = append(F.Impropers, [4]int{t[0].index, t[1].index, t[2].index, t[3].index})
		}
	}
	for _, s := range S.segs {
		for _, t := range s.Cmaps {
			var c [8]int
			for i, v := range t {
				c[i] = v.index
			}
			F.Cmaps = append(F.Cmaps, c)
		}
	}
	return F, nil
}

//WritePSF writes the structure to the PSF file name in the given dialect.
func (S *Session) WritePSF(name string, dialect psf.Dialect) error {
	return S.WritePSFWith(name, psf.Options{Dialect: dialect})
}

//WritePSFWith writes the structure to the PSF file name with the given options.
func (S *Session) WritePSFWith(name string, opts psf.Options) error {
	F, err := S.psfFile(opts.Dialect)
	if err != nil {
		return err
	}
	if err := psf.WriteFile(name, F, opts); err != nil {
		return wrapError(ErrFormat, "WritePSF", err)
	}
	S.log.Printf("wrote %s: %d atoms, %d bonds, %d angles, %d dihedrals, %d impropers, %d cross-terms",
		name, len(F.Atoms), len(F.Bonds), len(F.Angles), len(F.Dihedrals), len(F.Impropers), len(F.Cmaps))
	return nil
}

//WritePDB writes the coordinates of the structure to the PDB file name. Atoms without
//coordinates are written at the origin, with occupancy -1. Guessed atoms have occupancy 0.
func (S *Session) WritePDB(name string) error {
	atoms := S.atoms()
	recs := make([]pdb.Record, len(atoms))
	absent := 0
	for i, a := range atoms {
		r := a.res
		recs[i] = pdb.Record{Serial: i + 1, Name: a.Name, ResName: r.Name, Chain: r.Chain, ResID: r.ID,
			Coords: a.Coords, Beta: a.Beta, SegID: r.seg.ID, Element: a.Element}
		switch a.State {
		case Set:
			recs[i].Occupancy = 1
		case Guessed:
			recs[i].Occupancy = 0
		default:
			recs[i].Coords = [3]float64{}
			recs[i].Occupancy = -1
			absent++
		}
	}
	if err := pdb.WriteFile(name, recs, "original generated coordinate pdb file"); err != nil {
		return wrapError(ErrFormat, "WritePDB", err)
	}
	if absent > 0 {
		S.log.Printf("%s: %d atoms without coordinates", name, absent)
	}
	return nil
}

//WriteNAMDBin writes the coordinates of the structure to the NAMD binary file name
//and, if velname is not empty, the velocities to velname. Missing coordinates and
//velocities are written as zeros.
func (S *Session) WriteNAMDBin(name, velname string) error {
	const op = "WriteNAMDBin"
	atoms := S.atoms()
	crd := v3.Zeros(len(atoms))
	vel := v3.Zeros(len(atoms))
	absent, novel := 0, 0
	for i, a := range atoms {
		if a.HasCoords() {
			crd.SetVec(i, pos(a))
		} else {
			absent++
		}
		if a.HasVel {
			vel.SetVec(i, vecOf(a.Vel))
		} else {
			novel++
		}
	}
	if err := namdbin.WriteFile(name, crd); err != nil {
		return wrapError(ErrFormat, op, err)
	}
	if absent > 0 {
		S.log.Printf("%s: %d atoms without coordinates written as zeros", name, absent)
	}
	if velname == "" {
		return nil
	}
	if err := namdbin.WriteFile(velname, vel); err != nil {
		return wrapError(ErrFormat, op, err)
	}
	if novel > 0 {
		S.log.Printf("%s: %d atoms without velocities written as zeros", velname, novel)
	}
	return nil
}

//ReadPSF adds the segments in the PSF file name to the structure, with their
//residues, atoms, bonds, angles, dihedrals, impropers and cross-terms. The remarks
//written by WritePSF are used to recover the topology files, segment settings
//and patches. An atom with the same name as the one before it in its residue is
//read as a further copy of a multiplied atom. Coordinates and velocities are read
//from the companion files in opts, which must match the PSF file atom by atom.
//Nothing is added if anything fails.
func (S *Session) ReadPSF(name string, opts ReadPSFOptions) error {
	const op = "ReadPSF"
	F, err := psf.ReadFile(name)
	if err != nil {
		return wrapError(ErrFormat, op, err)
	}
	var segs []*Segment
	byID := make(map[string]*Segment)
	atoms := make([]*Atom, len(F.Atoms))
	autoAng, autoDih := S.store.Auto()
	for i, p := range F.Atoms {
		seg := byID[p.SegID]
		if seg == nil {
			if !validID(p.SegID) {
				return errorf(ErrFormat, op, "%s: invalid segment name %q", name, p.SegID)
			}
			if S.segment(p.SegID) != nil {
				return errorf(ErrDuplicate, op, "%s: segment %s already exists", name, p.SegID)
			}
			seg = &Segment{ID: p.SegID, First: "none", Last: "none", AutoAngles: autoAng, AutoDihedrals: autoDih}
			byID[p.SegID] = seg
			segs = append(segs, seg)
		}
		var r *Residue
		if n := len(seg.Residues); n > 0 && seg.Residues[n-1].ID == p.ResID {
			r = seg.Residues[n-1]
		} else {
			if seg.Residue(p.ResID) != nil {
				return errorf(ErrDuplicate, op, "%s: residue %s:%s appears twice", name, p.SegID, p.ResID)
			}
			r = &Residue{ID: p.ResID, Name: p.ResName, seg: seg}
			r.tpl, _ = S.store.Residue(p.ResName)
			seg.Residues = append(seg.Residues, r)
		}
		a := &Atom{Name: p.Name, Type: p.Type, Charge: p.Charge, Mass: p.Mass, res: r, index: i}
		//a name repeated right away is the next copy of a multiplied atom.
		if prev := r.Atom(p.Name); prev != nil {
			last := r.Atoms[len(r.Atoms)-1]
			if last.Name != p.Name {
				return errorf(ErrDuplicate, op, "%s: atom %s appears twice in residue %s", name, p.Name, r.label())
			}
			if prev.Copy == 0 {
				prev.Copy = 1
			}
			a.Copy = last.Copy + 1
		}
		if F.Dialect == psf.CHARMM {
			t, ok := S.store.TypeByIndex(p.TypeIndex)
			if !ok {
				return errorf(ErrLookup, op, "%s: unknown numeric type %d of atom %s, load the topology first", name, p.TypeIndex, a.label())
			}
			a.Type = t
		}
		if m, ok := S.store.Mass(a.Type); ok {
			a.Element = m.Element
		}
		r.Atoms = append(r.Atoms, a)
		atoms[i] = a
	}
	for _, b := range F.Bonds {
		bond(atoms[b[0]], atoms[b[1]])
	}
	for _, t := range F.Angles {
		s := atoms[t[1]].res.seg
		s.Angles = append(s.Angles, [3]*Atom{atoms[t[0]], atoms[t[1]], atoms[t[2]]})
	}
	for _, t := range F.Dihedrals {
		s := atoms[t[1]].res.seg
		s.Dihedrals = append(s.Dihedrals, [4]*Atom{atoms[t[0]], atoms[t[1]], atoms[t[2]], atoms[t[3]]})
	}
	for _, t := range F.Impropers {
		s := atoms[t[0]].res.seg
		s.Impropers = append(s.Impropers, [4]*Atom{atoms[t[0]], atoms[t[1]], atoms[t[2]], atoms[t[3]]})
	}
	for _, t := range F.Cmaps {
		var c [8]*Atom
		for i, v := range t {
			c[i] = atoms[v]
		}
		s := c[0].res.seg
		s.Cmaps = append(s.Cmaps, c)
	}
	tops, patches := S.readRemarks(F.Remarks, byID)
	if err := S.readCompanions(op, atoms, opts); err != nil {
		return err
	}
	var ics []boundIC
	for _, s := range segs {
		for _, r := range s.Residues {
			if r.tpl == nil {
				continue
			}
			for _, ic := range r.tpl.ICs {
				ics = append(ics, boundIC{ic: ic, res: []*Residue{r}})
			}
		}
	}
	S.segs = append(S.segs, segs...)
	S.patches = append(S.patches, patches...)
	S.ics = append(S.ics, ics...)
	for _, v := range tops {
		known := false
		for _, w := range S.topfiles {
			known = known || v == w
		}
		if !known {
			S.topfiles = append(S.topfiles, v)
		}
	}
	S.log.Printf("read %s: %d segments, %d atoms", name, len(segs), len(atoms))
	return nil
}

//readRemarks interprets the remarks written by WritePSF, setting the options
//of the segments in byID. It returns the topology files and the patches found.
func (S *Session) readRemarks(remarks []string, byID map[string]*Segment) ([]string, []PatchRecord) {
	var tops []string
	var patches []PatchRecord
	for _, l := range remarks {
		f := strings.Fields(l)
		if len(f) < 2 {
			continue
		}
		switch f[0] {
		case "topology":
			tops = append(tops, strings.TrimSpace(strings.TrimPrefix(l, "topology")))
		case "segment":
			seg := byID[f[1]]
			if seg == nil {
				continue
			}
			body := strings.Trim(strings.Join(f[2:], " "), "{} ")
			for _, part := range strings.Split(body, ";") {
				p := strings.Fields(part)
				if len(p) < 2 {
					continue
				}
				switch p[0] {
				case "first":
					seg.First = p[1]
				case "last":
					seg.Last = p[1]
				case "auto":
					seg.AutoAngles, seg.AutoDihedrals = false, false
					for _, v := range p[1:] {
						seg.AutoAngles = seg.AutoAngles || v == "angles"
						seg.AutoDihedrals = seg.AutoDihedrals || v == "dihedrals"
					}
				}
			}
		case "patch", "defaultpatch":
			if len(f) < 3 {
				continue
			}
			rec := PatchRecord{Name: f[1], Default: f[0] == "defaultpatch"}
			for _, t := range f[2:] {
				i := strings.LastIndexByte(t, ':')
				if i < 0 {
					continue
				}
				rec.Targets = append(rec.Targets, Target{Segment: t[:i], Residue: t[i+1:]})
				if seg := byID[t[:i]]; seg != nil {
					if r := seg.Residue(t[i+1:]); r != nil {
						r.Patches = append(r.Patches, rec.Name)
					}
				}
			}
			patches = append(patches, rec)
		}
	}
	return tops, patches
}

//readCompanions reads the coordinates and velocities for a structure read from
//a PSF file, which must match atoms one to one.
func (S *Session) readCompanions(op string, atoms []*Atom, opts ReadPSFOptions) error {
	if opts.PDB != "" {
		recs, err := pdb.ReadFile(opts.PDB)
		if err != nil {
			return wrapError(ErrFormat, op, err)
		}
		if len(recs) != len(atoms) {
			return errorf(ErrMismatch, op, "%s has %d atoms, the structure %d", opts.PDB, len(recs), len(atoms))
		}
		for i, v := range recs {
			a := atoms[i]
			if S.aliases.Atom(a.res.Name, v.Name) != a.Name || v.ResID != a.res.ID {
				return errorf(ErrMismatch, op, "%s: record %d is %s:%s, atom %d is %s", opts.PDB, i+1, v.ResID, v.Name, i+1, a.label())
			}
		}
		for i, v := range recs {
			a := atoms[i]
			a.Beta = v.Beta
			if v.Absent() {
				continue
			}
			a.Coords, a.State = v.Coords, Set
		}
	}
	if opts.NAMDBin != "" {
		m, err := namdbin.ReadFile(opts.NAMDBin)
		if err != nil {
			return wrapError(ErrFormat, op, err)
		}
		if m.NVecs() != len(atoms) {
			return errorf(ErrMismatch, op, "%s has %d atoms, the structure %d", opts.NAMDBin, m.NVecs(), len(atoms))
		}
		for i, a := range atoms {
			a.Coords, a.State = m.Array(i), Set
		}
	}
	if opts.Velocities != "" {
		m, err := namdbin.ReadFile(opts.Velocities)
		if err != nil {
			return wrapError(ErrFormat, op, err)
		}
		if m.NVecs() != len(atoms) {
			return errorf(ErrMismatch, op, "%s has %d atoms, the structure %d", opts.Velocities, m.NVecs(), len(atoms))
		}
		for i, a := range atoms {
			a.Vel, a.HasVel = m.Array(i), true
		}
	}
	return nil
}
