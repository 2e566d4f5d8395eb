/*
 * store.go, part of psfgen.
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
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/rmera/psfgen/cfile"
)

//Store holds the residue and patch templates, the atom type table and
//the global defaults read from one or more topology files.
type Store struct {
	allCaps   bool
	templates map[string]*Residue
	masses    map[string]Mass
	massOrder []string //types in the order their MASS statements were read
	files     []string
	first     string
	last      string
	autoAng   bool
	autoDih   bool
	//Set once any AUTO statement has been read, so AutoAngles can keep
	//its default before that.
	autoSet bool
}

//NewStore returns an empty store. If allCaps is true, every name read
//(residues, atoms, types, patches) is converted to upper case.
//The case folding can't be changed afterwards.
func NewStore(allCaps bool) *Store {
	return &Store{
		allCaps:   allCaps,
		templates: make(map[string]*Residue),
		masses:    make(map[string]Mass),
	}
}

//AllCaps returns true if the store converts names to upper case.
func (S *Store) AllCaps() bool {
	return S.allCaps
}

//Fold applies the case folding of the store to name.
func (S *Store) Fold(name string) string {
	if S.allCaps {
		return strings.ToUpper(name)
	}
	return name
}

//Len returns the number of templates (residues and patches) in the store.
func (S *Store) Len() int {
	return len(S.templates)
}

//Residue returns the residue template name, and true, or false if there
//is no such residue (patches are not returned).
func (S *Store) Residue(name string) (*Residue, bool) {
	r, ok := S.templates[S.Fold(name)]
	if !ok || r.Patch {
		return nil, false
	}
	return r, true
}

//Patch returns the patch template name, and true, or false if there
//is no such patch.
func (S *Store) Patch(name string) (*Residue, bool) {
	r, ok := S.templates[S.Fold(name)]
	if !ok || !r.Patch {
		return nil, false
	}
	return r, true
}

func (S *Store) names(patches bool) []string {
	ret := make([]string, 0, len(S.templates))
	for k, v := range S.templates {
		if v.Patch == patches {
			ret = append(ret, k)
		}
	}
	sort.Strings(ret)
	return ret
}

//Residues returns the sorted names of the residue templates.
func (S *Store) Residues() []string {
	return S.names(false)
}

//Patches returns the sorted names of the patch templates.
func (S *Store) Patches() []string {
	return S.names(true)
}

//Files returns the names of the topology files loaded, in order.
func (S *Store) Files() []string {
	return append([]string(nil), S.files...)
}

//Defaults returns the default first and last patches declared with DEFAULT.
func (S *Store) Defaults() (first, last string) {
	return S.first, S.last
}

//Auto returns the AUTOGENERATE settings. If no AUTOGENERATE statement
//was read, both are true.
func (S *Store) Auto() (angles, dihedrals bool) {
	if !S.autoSet {
		return true, true
	}
	return S.autoAng, S.autoDih
}

//Mass returns the MASS entry for the atom type t.
func (S *Store) Mass(t string) (Mass, bool) {
	m, ok := S.masses[S.Fold(t)]
	return m, ok
}

//TypeByIndex returns the atom type with the given numeric MASS index. If
//several types share the index, the one declared last is returned.
func (S *Store) TypeByIndex(idx int) (string, bool) {
	for i := len(S.massOrder) - 1; i >= 0; i-- {
		t := S.massOrder[i]
		if S.masses[t].Index == idx {
			return t, true
		}
	}
	return "", false
}

//LoadFile reads the topology file name into the store.
func (S *Store) LoadFile(name string) error {
	f, err := cfile.Open(name)
	if err != nil {
		return Error{message: err.Error(), filename: name, deco: []string{"LoadFile"}}
	}
	defer f.Close()
	return S.Load(f, name)
}

//Load reads a topology file from r. filename is only used in messages and
//in the list returned by Files. Nothing is added to the store unless the
//whole file is read successfully.
func (S *Store) Load(r io.Reader, filename string) error {
	l := &loader{
		store:     S,
		filename:  filename,
		templates: make(map[string]*Residue),
		masses:    make(map[string]Mass),
		p:         &parser{fold: S.Fold},
		first:     S.first,
		last:      S.last,
		autoAng:   S.autoAng,
		autoDih:   S.autoDih,
		autoSet:   S.autoSet,
		nextIndex: S.maxIndex() + 1,
	}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	title := true
	for lineno := 1; sc.Scan(); lineno++ {
		raw := sc.Text()
		if title && strings.HasPrefix(strings.TrimSpace(raw), "*") {
			continue
		}
		line := stripComment(raw)
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		//The first non-title line is usually the version of the file
		if title {
			title = false
			if isNumberLine(fields) {
				continue
			}
		}
		st, err := l.p.parseLine(fields)
		if err != nil {
			return Error{message: err.Error(), filename: filename, line: lineno, deco: []string{"Load"}}
		}
		if _, ok := st.(endStmt); ok {
			break
		}
		if err := l.apply(st); err != nil {
			return Error{message: err.Error(), filename: filename, line: lineno, deco: []string{"Load"}}
		}
	}
	if err := sc.Err(); err != nil {
		return Error{message: err.Error(), filename: filename, deco: []string{"Load"}}
	}
	l.commit()
	return nil
}

func (S *Store) maxIndex() int {
	max := 0
	for _, v := range S.masses {
		if v.Index > max {
			max = v.Index
		}
	}
	return max
}

//loader applies statements to a staging area, which is merged into the
//store only at the end of a successful read.
type loader struct {
	store     *Store
	filename  string
	p         *parser
	templates map[string]*Residue
	order     []string
	masses    map[string]Mass
	massOrder []string
	current   *Residue
	declared  map[AtomRef]bool //atoms declared explicitly in the current template
	first     string
	last      string
	autoAng   bool
	autoDih   bool
	autoSet   bool
	nextIndex int
}

//lookup finds a template, first among the ones read in this file.
func (l *loader) lookup(name string) (*Residue, bool) {
	if r, ok := l.templates[name]; ok {
		return r, true
	}
	r, ok := l.store.templates[name]
	return r, ok
}

func (l *loader) needTemplate(kw string) error {
	if l.current == nil {
		return fmt.Errorf("%s found outside of a RESI or PRES block", kw)
	}
	return nil
}

func (l *loader) apply(st statement) error {
	switch s := st.(type) {
	case massStmt:
		m := s.mass
		if m.Index <= 0 {
			m.Index = l.nextIndex
		}
		if m.Index >= l.nextIndex {
			l.nextIndex = m.Index + 1
		}
		l.masses[m.Type] = m
		l.massOrder = append(l.massOrder, m.Type)
		return nil
	case declStmt, ignoredStmt:
		return nil
	case defaultStmt:
		if s.first != "" {
			l.first = s.first
		}
		if s.last != "" {
			l.last = s.last
		}
		return nil
	case autoStmt:
		l.autoAng, l.autoDih, l.autoSet = s.angles, s.dihedrals, true
		return nil
	case resiStmt:
		r := &Residue{Name: s.name, Patch: s.patch, Charge: s.charge, File: l.filename}
		if _, ok := l.templates[s.name]; !ok {
			l.order = append(l.order, s.name)
		}
		l.templates[s.name] = r
		l.current = r
		l.declared = make(map[AtomRef]bool)
		return nil
	}
	if err := l.needTemplate(st.keyword()); err != nil {
		return err
	}
	R := l.current
	switch s := st.(type) {
	case usesStmt:
		parent, ok := l.lookup(s.name)
		if !ok {
			return fmt.Errorf("%s USES unknown template %s", R.Name, s.name)
		}
		if parent == R {
			return fmt.Errorf("%s can't USE itself", R.Name)
		}
		inherit(R, parent)
	case atomStmt:
		a := s.atom
		if a.Offset != 0 {
			return fmt.Errorf("ATOM %s can't belong to another residue", a.String())
		}
		key := AtomRef{Name: a.Name, Target: a.Target}
		if l.declared[key] {
			return fmt.Errorf("duplicate atom %s in %s", a.Name, R.Name)
		}
		l.declared[key] = true
		if i := R.atomIndex(a.Name, a.Target); i >= 0 {
			R.Atoms[i] = a //replaces an inherited one
		} else {
			R.Atoms = append(R.Atoms, a)
		}
	case groupStmt:
	case bondStmt:
		R.Bonds = append(R.Bonds, s.bonds...)
	case angleStmt:
		R.Angles = append(R.Angles, s.angles...)
	case dihedralStmt:
		R.Dihedrals = append(R.Dihedrals, s.dihedrals...)
	case improperStmt:
		R.Impropers = append(R.Impropers, s.impropers...)
	case cmapStmt:
		R.Cmaps = append(R.Cmaps, s.cmaps...)
	case donorStmt:
		if s.acceptor {
			R.Acceptors = append(R.Acceptors, s.refs)
		} else {
			R.Donors = append(R.Donors, s.refs)
		}
	case icStmt:
		R.ICs = append(R.ICs, s.ic)
	case patchingStmt:
		if s.first != "" {
			R.First = s.first
		}
		if s.last != "" {
			R.Last = s.last
		}
	case deleteStmt:
		return l.applyDelete(R, s)
	default:
		return fmt.Errorf("unexpected %s", st.keyword())
	}
	return nil
}

func (l *loader) applyDelete(R *Residue, s deleteStmt) error {
	r := s.refs
	switch s.what {
	case "ATOM":
		R.DelAtoms = append(R.DelAtoms, r...)
	case "BOND":
		for i := 0; i < len(r); i += 2 {
			R.DelBonds = append(R.DelBonds, [2]AtomRef{r[i], r[i+1]})
		}
	case "ANGL":
		for i := 0; i < len(r); i += 3 {
			R.DelAngles = append(R.DelAngles, [3]AtomRef{r[i], r[i+1], r[i+2]})
		}
	case "DIHE":
		for i := 0; i < len(r); i += 4 {
			R.DelDihedrals = append(R.DelDihedrals, [4]AtomRef{r[i], r[i+1], r[i+2], r[i+3]})
		}
	case "IMPR":
		for i := 0; i < len(r); i += 4 {
			R.DelImpropers = append(R.DelImpropers, [4]AtomRef{r[i], r[i+1], r[i+2], r[i+3]})
		}
	case "DONO", "ACCE":
		//hydrogen bond lists are not kept in the structure, nothing to do.
	}
	return nil
}

//inherit copies the contents of parent into R
func inherit(R, parent *Residue) {
	p := parent.Copy()
	R.Atoms = append(R.Atoms, p.Atoms...)
	R.Bonds = append(R.Bonds, p.Bonds...)
	R.Angles = append(R.Angles, p.Angles...)
	R.Dihedrals = append(R.Dihedrals, p.Dihedrals...)
	R.Impropers = append(R.Impropers, p.Impropers...)
	R.Cmaps = append(R.Cmaps, p.Cmaps...)
	R.Donors = append(R.Donors, p.Donors...)
	R.Acceptors = append(R.Acceptors, p.Acceptors...)
	R.ICs = append(R.ICs, p.ICs...)
	R.DelAtoms = append(R.DelAtoms, p.DelAtoms...)
	R.DelBonds = append(R.DelBonds, p.DelBonds...)
	R.DelAngles = append(R.DelAngles, p.DelAngles...)
	R.DelDihedrals = append(R.DelDihedrals, p.DelDihedrals...)
	R.DelImpropers = append(R.DelImpropers, p.DelImpropers...)
	if R.First == "" {
		R.First = p.First
	}
	if R.Last == "" {
		R.Last = p.Last
	}
	if R.Charge == 0 {
		R.Charge = p.Charge
	}
}

func (l *loader) commit() {
	S := l.store
	for _, k := range l.order {
		S.templates[k] = l.templates[k]
	}
	for k, v := range l.masses {
		S.masses[k] = v
	}
	S.massOrder = append(S.massOrder, l.massOrder...)
	S.first, S.last = l.first, l.last
	S.autoAng, S.autoDih, S.autoSet = l.autoAng, l.autoDih, l.autoSet
	S.files = append(S.files, l.filename)
}
