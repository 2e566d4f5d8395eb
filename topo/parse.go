/*
 * parse.go, part of psfgen.
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
	"strings"
)

//Every line of a topology file is parsed into one of the statement types
//below. The parser only checks the shape of each line; the store applies the
//statements in order and checks them against the templates.

type statement interface {
	keyword() string
}

type massStmt struct{ mass Mass }
type declStmt struct{}
type defaultStmt struct{ first, last string }
type autoStmt struct{ angles, dihedrals bool }
type resiStmt struct {
	name   string
	charge float64
	patch  bool
}
type usesStmt struct{ name string }
type atomStmt struct{ atom AtomDef }
type groupStmt struct{}
type bondStmt struct{ bonds [][2]AtomRef }
type angleStmt struct{ angles [][3]AtomRef }
type dihedralStmt struct{ dihedrals [][4]AtomRef }
type improperStmt struct{ impropers [][4]AtomRef }
type cmapStmt struct{ cmaps [][8]AtomRef }
type donorStmt struct {
	refs     []AtomRef
	acceptor bool
}
type icStmt struct{ ic IC }
type patchingStmt struct{ first, last string }
type deleteStmt struct {
	what string //ATOM, BOND, ANGL, DIHE, IMPR, DONO or ACCE
	refs []AtomRef
}
type ignoredStmt struct{ word string }
type endStmt struct{}

func (massStmt) keyword() string { return "MASS" }
func (declStmt) keyword() string { return "DECL" }
func (defaultStmt) keyword() string { return "DEFA" }
func (autoStmt) keyword() string { return "AUTO" }
func (s resiStmt) keyword() string {
	if s.patch {
		return "PRES"
	}
	return "RESI"
}
func (usesStmt) keyword() string { return "USES" }
func (atomStmt) keyword() string { return "ATOM" }
func (groupStmt) keyword() string { return "GROU" }
func (bondStmt) keyword() string { return "BOND" }
func (angleStmt) keyword() string { return "ANGL" }
func (dihedralStmt) keyword() string { return "DIHE" }
func (improperStmt) keyword() string { return "IMPR" }
func (cmapStmt) keyword() string { return "CMAP" }
func (s donorStmt) keyword() string {
	if s.acceptor {
		return "ACCE"
	}
	return "DONO"
}
func (icStmt) keyword() string { return "IC" }
func (patchingStmt) keyword() string { return "PATC" }
func (deleteStmt) keyword() string { return "DELE" }
func (s ignoredStmt) keyword() string { return s.word }
func (endStmt) keyword() string { return "END" }

//keywords that are accepted but have no effect on the templates.
var ignoredKeywords = map[string]bool{
	"LONE": true, //lone pairs
	"ANIS": true, //drude anisotropy
	"READ": true,
	"PRIN": true,
	"RTF":  true,
	"BOML": true,
	"WRNL": true,
	"NBXM": true,
	"HBON": true,
}

//stripComment removes a "!" comment and surrounding whitespace.
func stripComment(line string) string {
	if i := strings.IndexByte(line, '!'); i >= 0 {
		line = line[:i]
	}
	return strings.TrimSpace(line)
}

//keywordOf returns the significant part of a keyword: its first 4 letters, in capitals.
func keywordOf(f string) string {
	f = strings.ToUpper(f)
	if len(f) > 4 {
		f = f[:4]
	}
	return f
}

func isNumberLine(fields []string) bool {
	for _, v := range fields {
		if _, err := strconv.ParseFloat(v, 64); err != nil {
			return false
		}
	}
	return true
}

//parser turns lines into statements. It keeps the little state needed for that:
//whether we are in a patch block (where atom names carry target numbers)
//and the case folding.
type parser struct {
	fold  func(string) string
	patch bool
}

//parseLine parses the fields of a (non-empty, comment-free) line.
func (p *parser) parseLine(fields []string) (statement, error) {
	kw := keywordOf(fields[0])
	args := fields[1:]
	switch kw {
	case "MASS":
		return p.parseMass(args)
	case "DECL":
		if len(args) != 1 {
			return nil, fmt.Errorf("DECL takes 1 argument, got %d", len(args))
		}
		return declStmt{}, nil
	case "DEFA":
		first, last, err := p.parseFirstLast(args)
		return defaultStmt{first, last}, err
	case "AUTO":
		s := autoStmt{}
		for _, v := range args {
			switch keywordOf(v) {
			case "ANGL":
				s.angles = true
			case "DIHE":
				s.dihedrals = true
			case "NOAN", "NODI", "DRUD", "PATC":
			default:
				return nil, fmt.Errorf("unknown AUTOGENERATE option %s", v)
			}
		}
		return s, nil
	case "RESI", "PRES":
		if len(args) < 1 || len(args) > 2 {
			return nil, fmt.Errorf("%s takes a name and an optional charge", kw)
		}
		s := resiStmt{name: p.fold(args[0]), patch: kw == "PRES"}
		if len(args) == 2 {
			c, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return nil, fmt.Errorf("can't read charge %q of %s", args[1], s.name)
			}
			s.charge = c
		}
		p.patch = s.patch
		return s, nil
	case "USES":
		if len(args) != 1 {
			return nil, fmt.Errorf("USES takes 1 argument, got %d", len(args))
		}
		return usesStmt{p.fold(args[0])}, nil
	case "ATOM":
		if len(args) < 3 {
			return nil, fmt.Errorf("ATOM needs a name, a type and a charge")
		}
		ref, err := p.ref(args[0])
		if err != nil {
			return nil, err
		}
		c, err := strconv.ParseFloat(args[2], 64)
		if err != nil {
			return nil, fmt.Errorf("can't read charge %q of atom %s", args[2], args[0])
		}
		return atomStmt{AtomDef{AtomRef: ref, Type: p.fold(args[1]), Charge: c}}, nil
	case "GROU":
		return groupStmt{}, nil
	case "BOND", "DOUB", "TRIP":
		refs, err := p.refs(args, 2)
		if err != nil {
			return nil, err
		}
		s := bondStmt{}
		for i := 0; i < len(refs); i += 2 {
			s.bonds = append(s.bonds, [2]AtomRef{refs[i], refs[i+1]})
		}
		return s, nil
	case "ANGL", "THET":
		refs, err := p.refs(args, 3)
		if err != nil {
			return nil, err
		}
		s := angleStmt{}
		for i := 0; i < len(refs); i += 3 {
			s.angles = append(s.angles, [3]AtomRef{refs[i], refs[i+1], refs[i+2]})
		}
		return s, nil
	case "DIHE", "PHI", "IMPR", "IMPH":
		refs, err := p.refs(args, 4)
		if err != nil {
			return nil, err
		}
		quads := make([][4]AtomRef, 0, len(refs)/4)
		for i := 0; i < len(refs); i += 4 {
			quads = append(quads, [4]AtomRef{refs[i], refs[i+1], refs[i+2], refs[i+3]})
		}
		if kw == "DIHE" || kw == "PHI" {
			return dihedralStmt{quads}, nil
		}
		return improperStmt{quads}, nil
	case "CMAP":
		refs, err := p.refs(args, 8)
		if err != nil {
			return nil, err
		}
		s := cmapStmt{}
		for i := 0; i < len(refs); i += 8 {
			var c [8]AtomRef
			copy(c[:], refs[i:i+8])
			s.cmaps = append(s.cmaps, c)
		}
		return s, nil
	case "DONO", "ACCE":
		if len(args) < 1 {
			return nil, fmt.Errorf("%s needs at least one atom", kw)
		}
		refs, err := p.refs(args, 1)
		return donorStmt{refs: refs, acceptor: kw == "ACCE"}, err
	case "IC", "BILD":
		return p.parseIC(args)
	case "PATC":
		first, last, err := p.parseFirstLast(args)
		return patchingStmt{first, last}, err
	case "DELE":
		if len(args) < 2 {
			return nil, fmt.Errorf("DELETE needs a type and at least one atom")
		}
		what := keywordOf(args[0])
		n := map[string]int{"ATOM": 1, "BOND": 2, "ANGL": 3, "THET": 3, "DIHE": 4, "PHI": 4,
			"IMPR": 4, "IMPH": 4, "DONO": 1, "ACCE": 1}[what]
		if n == 0 {
			return nil, fmt.Errorf("can't DELETE %s", args[0])
		}
		refs, err := p.refs(args[1:], n)
		if err != nil {
			return nil, err
		}
		switch what {
		case "THET":
			what = "ANGL"
		case "PHI":
			what = "DIHE"
		case "IMPH":
			what = "IMPR"
		}
		return deleteStmt{what: what, refs: refs}, nil
	case "END":
		return endStmt{}, nil
	}
	if ignoredKeywords[kw] {
		return ignoredStmt{kw}, nil
	}
	return nil, fmt.Errorf("unknown keyword %s", fields[0])
}

func (p *parser) parseMass(args []string) (statement, error) {
	if len(args) < 3 {
		return nil, fmt.Errorf("MASS needs an index, a type and a mass")
	}
	idx, err := strconv.Atoi(args[0])
	if err != nil {
		return nil, fmt.Errorf("can't read MASS index %q", args[0])
	}
	m, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		return nil, fmt.Errorf("can't read mass %q", args[2])
	}
	s := massStmt{Mass{Type: p.fold(args[1]), Index: idx, Mass: m}}
	if len(args) > 3 {
		s.mass.Element = args[3]
	}
	return s, nil
}

//parseFirstLast reads the FIRST x LAST y pairs of DEFAULT and PATCHING lines.
func (p *parser) parseFirstLast(args []string) (string, string, error) {
	if len(args) == 0 || len(args)%2 != 0 {
		return "", "", fmt.Errorf("expected FIRST/LAST and patch name pairs")
	}
	var first, last string
	for i := 0; i < len(args); i += 2 {
		switch keywordOf(args[i]) {
		case "FIRS":
			first = p.fold(args[i+1])
		case "LAST":
			last = p.fold(args[i+1])
		default:
			return "", "", fmt.Errorf("expected FIRST or LAST, got %s", args[i])
		}
	}
	return first, last, nil
}

func (p *parser) parseIC(args []string) (statement, error) {
	if len(args) != 9 {
		return nil, fmt.Errorf("IC needs 4 atoms and 5 values, got %d fields", len(args))
	}
	s := icStmt{}
	for i := 0; i < 4; i++ {
		name := args[i]
		if i == 2 && strings.HasPrefix(name, "*") {
			s.ic.Improper = true
			name = name[1:]
		}
		r, err := p.ref(name)
		if err != nil {
			return nil, err
		}
		s.ic.Atoms[i] = r
	}
	var vals [5]float64
	for i := range vals {
		v, err := strconv.ParseFloat(args[4+i], 64)
		if err != nil {
			return nil, fmt.Errorf("can't read IC value %q", args[4+i])
		}
		vals[i] = v
	}
	s.ic.RIJ, s.ic.ThetaIJK, s.ic.Phi, s.ic.ThetaJKL, s.ic.RKL = vals[0], vals[1], vals[2], vals[3], vals[4]
	return s, nil
}

//refs parses a list of atom references whose length must be a (non-zero)
//multiple of n
func (p *parser) refs(args []string, n int) ([]AtomRef, error) {
	if len(args) == 0 || len(args)%n != 0 {
		return nil, fmt.Errorf("expected a multiple of %d atoms, got %d", n, len(args))
	}
	ret := make([]AtomRef, 0, len(args))
	for _, v := range args {
		r, err := p.ref(v)
		if err != nil {
			return nil, err
		}
		ret = append(ret, r)
	}
	return ret, nil
}

//ref parses one atom reference. "-C" and "+N" refer to the previous and next residue.
//In patches a leading digit gives the (1-based) target the atom belongs to.
func (p *parser) ref(s string) (AtomRef, error) {
	r := AtomRef{}
	switch {
	case strings.HasPrefix(s, "-"):
		r.Offset = -1
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		r.Offset = 1
		s = s[1:]
	}
	if p.patch && len(s) > 1 && s[0] >= '1' && s[0] <= '9' {
		r.Target = int(s[0] - '1')
		s = s[1:]
	}
	if s == "" {
		return r, fmt.Errorf("empty atom name")
	}
	r.Name = p.fold(s)
	return r, nil
}
