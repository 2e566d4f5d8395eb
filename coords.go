/*
 * coords.go, part of psfgen.
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

	"github.com/rmera/psfgen/pdb"
)

//MergeReport summarizes a ReadCoords call.
type MergeReport struct {
	Matched int //records whose coordinates were assigned
	Absent  int //records matched, but marked as having no coordinates, and skipped
	//Unmatched holds the records that didn't match any atom.
	Unmatched []pdb.Record
}

//find returns the atom segment:residue:atom, resolving the atom name with the alias table.
func (S *Session) find(op, segment, residue, atom string) (*Atom, error) {
	seg := S.segment(segment)
	if seg == nil {
		return nil, errorf(ErrLookup, op, "no segment %s", segment)
	}
	r := seg.Residue(residue)
	if r == nil {
		return nil, errorf(ErrLookup, op, "no residue %s:%s", segment, residue)
	}
	a := r.Atom(S.aliases.Atom(r.Name, S.fold(atom)))
	if a == nil {
		return nil, errorf(ErrLookup, op, "no atom %s:%s:%s", segment, residue, atom)
	}
	return a, nil
}

//SetCoord assigns coordinates to an atom.
func (S *Session) SetCoord(segment, residue, atom string, xyz [3]float64) error {
	a, err := S.find("SetCoord", segment, residue, atom)
	if err != nil {
		return err
	}
	a.Coords, a.State = xyz, Set
	return nil
}

//ReadCoords reads the PDB file name and copies the coordinates of each record to the
//atom of segment with the same residue ID and atom name, after resolving the residue
//and atom names with the alias table. Records that don't match an atom are reported
//and otherwise ignored. Records with negative occupancy carry no coordinates: the atom
//keeps whatever it had.
//If segment is empty, the segment ID of each record is used.
func (S *Session) ReadCoords(name, segment string) (*MergeReport, error) {
	const op = "ReadCoords"
	recs, err := pdb.ReadFile(name)
	if err != nil {
		return nil, wrapError(ErrFormat, op, err)
	}
	var seg *Segment
	if segment != "" {
		if seg = S.segment(segment); seg == nil {
			return nil, errorf(ErrLookup, op, "no segment %s", segment)
		}
	}
	rep := &MergeReport{}
	for _, v := range recs {
		s := seg
		if s == nil {
			s = S.segment(v.SegID)
		}
		var a *Atom
		if s != nil {
			if r := s.Residue(v.ResID); r != nil {
				resname := S.aliases.Residue(v.ResName)
				a = r.Atom(S.aliases.Atom(resname, v.Name))
				if a != nil && resname != r.Name {
					S.log.Printf("%s: residue %s:%s is %s in the structure and %s in the file", name, s.ID, r.ID, r.Name, v.ResName)
				}
			}
		}
		if a == nil {
			rep.Unmatched = append(rep.Unmatched, v)
			continue
		}
		//a merge only adds coordinates
		if v.Absent() {
			rep.Absent++
			continue
		}
		a.Coords, a.State = v.Coords, Set
		a.Beta = v.Beta
		rep.Matched++
	}
	for _, v := range rep.Unmatched {
		S.log.Printf("%s: no atom for record %s %s %s, ignored", name, v.ResName, v.ResID, v.Name)
	}
	S.log.Printf("read coordinates from %s: %d atoms set, %d records unmatched", name, rep.Matched, len(rep.Unmatched))
	return rep, nil
}

//SetVelocity assigns a velocity to an atom.
func (S *Session) SetVelocity(segment, residue, atom string, v [3]float64) error {
	a, err := S.find("SetVelocity", segment, residue, atom)
	if err != nil {
		return err
	}
	a.Vel, a.HasVel = v, true
	return nil
}

//SetMass changes the mass of an atom.
func (S *Session) SetMass(segment, residue, atom string, mass float64) error {
	a, err := S.find("SetMass", segment, residue, atom)
	if err != nil {
		return err
	}
	a.Mass = mass
	return nil
}

//SetCharge changes the charge of an atom.
func (S *Session) SetCharge(segment, residue, atom string, charge float64) error {
	a, err := S.find("SetCharge", segment, residue, atom)
	if err != nil {
		return err
	}
	a.Charge = charge
	return nil
}

//SetBeta changes the B-factor of an atom.
func (S *Session) SetBeta(segment, residue, atom string, beta float64) error {
	a, err := S.find("SetBeta", segment, residue, atom)
	if err != nil {
		return err
	}
	a.Beta = beta
	return nil
}

//SetAtomName renames an atom. The new name must not be used in the residue.
func (S *Session) SetAtomName(segment, residue, atom, name string) error {
	const op = "SetAtomName"
	a, err := S.find(op, segment, residue, atom)
	if err != nil {
		return err
	}
	name = S.fold(name)
	if !validID(name) {
		return errorf(ErrFormat, op, "invalid atom name %q", name)
	}
	if b := a.res.Atom(name); b != nil && b != a {
		return errorf(ErrDuplicate, op, "residue %s already has an atom %s", a.res.label(), name)
	}
	a.Name = name
	return nil
}

//SetResName changes the name of a residue. The atoms and the template of the
//residue are not changed.
func (S *Session) SetResName(segment, residue, name string) error {
	const op = "SetResName"
	seg := S.segment(segment)
	if seg == nil {
		return errorf(ErrLookup, op, "no segment %s", segment)
	}
	r := seg.Residue(residue)
	if r == nil {
		return errorf(ErrLookup, op, "no residue %s:%s", segment, residue)
	}
	if name = S.fold(name); !validID(name) {
		return errorf(ErrFormat, op, "invalid residue name %q", name)
	}
	r.Name = name
	return nil
}

//SetSegID renames a segment.
func (S *Session) SetSegID(segment, id string) error {
	const op = "SetSegID"
	seg := S.segment(segment)
	if seg == nil {
		return errorf(ErrLookup, op, "no segment %s", segment)
	}
	if !validID(id) {
		return errorf(ErrFormat, op, "invalid segment name %q", id)
	}
	if o := S.segment(id); o != nil && o != seg {
		return errorf(ErrDuplicate, op, "segment %s already exists", id)
	}
	for _, p := range S.patches {
		for i, t := range p.Targets {
			if t.Segment == segment {
				p.Targets[i].Segment = id
			}
		}
	}
	seg.ID = id
	return nil
}

func (r MergeReport) String() string {
	return fmt.Sprintf("%d matched, %d without coordinates, %d unmatched", r.Matched, r.Absent, len(r.Unmatched))
}
