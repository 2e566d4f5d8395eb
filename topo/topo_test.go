/*
 * topo_test.go, part of psfgen.
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
	"errors"
	"strings"
	"testing"
)

const minitop = "../test/top_mini.rtf"

func TestLoadFile(Te *testing.T) {
	S := NewStore(true)
	if err := S.LoadFile(minitop); err != nil {
		Te.Fatal(err)
	}
	res := S.Residues()
	if strings.Join(res, " ") != "ALA CYS GLY TIP3" {
		Te.Errorf("unexpected residues: %v", res)
	}
	if p := S.Patches(); strings.Join(p, " ") != "CTER DISU GLYP NTER" {
		Te.Errorf("unexpected patches: %v", p)
	}
	ala, ok := S.Residue("ala")
	if !ok {
		Te.Fatal("ALA not found with case folding")
	}
	if len(ala.Atoms) != 10 || len(ala.Bonds) != 10 || len(ala.Impropers) != 2 || len(ala.Cmaps) != 1 || len(ala.ICs) != 10 {
		Te.Errorf("ALA has %d atoms %d bonds %d impropers %d cmaps %d ICs", len(ala.Atoms), len(ala.Bonds), len(ala.Impropers), len(ala.Cmaps), len(ala.ICs))
	}
	//BOND C +N
	found := false
	for _, b := range ala.Bonds {
		if b[0].Name == "C" && b[1].Name == "N" && b[1].Offset == 1 {
			found = true
		}
	}
	if !found {
		Te.Error("the C +N bond was not read")
	}
	if !ala.ICs[0].Improper || ala.ICs[0].Atoms[0].Offset != -1 || ala.ICs[0].RKL != 0.9996 {
		Te.Errorf("first IC read wrong: %+v", ala.ICs[0])
	}
	if gly, _ := S.Residue("GLY"); gly.First != "GLYP" {
		Te.Errorf("GLY should patch GLYP first, got %q", gly.First)
	}
	if f, l := S.Defaults(); f != "NTER" || l != "CTER" {
		Te.Errorf("wrong defaults %s %s", f, l)
	}
	if a, d := S.Auto(); !a || !d {
		Te.Error("AUTO ANGLES DIHE not read")
	}
	m, ok := S.Mass("CT1")
	if !ok || m.Index != 11 || m.Mass != 12.011 || m.Element != "C" {
		Te.Errorf("wrong CT1 mass entry %+v", m)
	}
	if t, ok := S.TypeByIndex(20); !ok || t != "SM" {
		Te.Errorf("type 20 should be SM, got %q", t)
	}
	if fl := S.Files(); len(fl) != 1 || fl[0] != minitop {
		Te.Errorf("wrong files list %v", fl)
	}
}

func TestPatchTargets(Te *testing.T) {
	S := NewStore(true)
	if err := S.LoadFile(minitop); err != nil {
		Te.Fatal(err)
	}
	disu, ok := S.Patch("DISU")
	if !ok {
		Te.Fatal("no DISU")
	}
	if disu.Arity() != 2 {
		Te.Errorf("DISU arity should be 2, got %d", disu.Arity())
	}
	if len(disu.DelAtoms) != 2 || disu.DelAtoms[1].Target != 1 || disu.DelAtoms[1].Name != "HG1" {
		Te.Errorf("wrong deletions: %v", disu.DelAtoms)
	}
	if b := disu.Bonds[0]; b[0].Target != 0 || b[1].Target != 1 || b[0].Name != "SG" {
		Te.Errorf("wrong disulfide bond %v", b)
	}
	nter, _ := S.Patch("NTER")
	if nter.Arity() != 1 {
		Te.Errorf("NTER arity should be 1, got %d", nter.Arity())
	}
	if _, ok := S.Residue("NTER"); ok {
		Te.Error("a patch must not be returned as a residue")
	}
}

func TestFormatErrors(Te *testing.T) {
	cases := map[string]string{
		"unknown keyword":  "RESI ALA 0.0\nATOM N NH1 -0.47\nFOOBAR x\n",
		"duplicate atom":   "RESI ALA 0.0\nATOM N NH1 -0.47\nATOM N NH1 -0.47\n",
		"unknown uses":     "RESI ALA 0.0\nUSES NOPE\n",
		"field count":      "RESI ALA 0.0\nATOM N NH1\n",
		"odd bond":         "RESI ALA 0.0\nATOM N NH1 -0.47\nBOND N\n",
		"outside template": "ATOM N NH1 -0.47\n",
		"bad charge":       "RESI ALA 0.0\nATOM N NH1 minus\n",
		"bad ic":           "RESI ALA 0.0\nIC N CA C O 1.0 2.0\n",
	}
	for k, v := range cases {
		S := NewStore(true)
		err := S.Load(strings.NewReader(v), k+".rtf")
		if err == nil {
			Te.Errorf("%s: expected an error", k)
			continue
		}
		var terr Error
		if !errors.As(err, &terr) || terr.Line() == 0 || terr.FileName() != k+".rtf" {
			Te.Errorf("%s: error without file/line: %v", k, err)
		}
		if S.Len() != 0 {
			Te.Errorf("%s: failed load left %d templates", k, S.Len())
		}
	}
}

func TestUsesAndLastWins(Te *testing.T) {
	S := NewStore(true)
	if err := S.LoadFile(minitop); err != nil {
		Te.Fatal(err)
	}
	extra := `* extra
RESI ALAD 0.00
USES ALA
ATOM HN   H       0.35
ATOM HX   H       0.00
BOND HX CA
RESI GLY 1.00
ATOM CA CT2 1.00
END
RESI NEVER 0.0
`
	if err := S.Load(strings.NewReader(extra), "extra.rtf"); err != nil {
		Te.Fatal(err)
	}
	alad, ok := S.Residue("ALAD")
	if !ok {
		Te.Fatal("ALAD not loaded")
	}
	if len(alad.Atoms) != 11 {
		Te.Errorf("ALAD should have 11 atoms, got %d", len(alad.Atoms))
	}
	hn, _ := alad.Atom("HN", 0)
	if hn.Charge != 0.35 {
		Te.Errorf("HN charge should be overridden, got %f", hn.Charge)
	}
	if len(alad.Bonds) != 11 {
		Te.Errorf("ALAD should have 11 bonds, got %d", len(alad.Bonds))
	}
	ala, _ := S.Residue("ALA")
	if len(ala.Atoms) != 10 {
		Te.Error("inheriting modified the parent template")
	}
	gly, _ := S.Residue("GLY")
	if len(gly.Atoms) != 1 || gly.File != "extra.rtf" {
		Te.Errorf("the last GLY loaded should win, got %d atoms from %s", len(gly.Atoms), gly.File)
	}
	if _, ok := S.Residue("NEVER"); ok {
		Te.Error("templates after END must be ignored")
	}
}

func TestCaseSensitive(Te *testing.T) {
	S := NewStore(false)
	if err := S.Load(strings.NewReader("RESI Lig 0.0\nATOM c1 CG2R61 0.0\n"), "lig.str"); err != nil {
		Te.Fatal(err)
	}
	if _, ok := S.Residue("LIG"); ok {
		Te.Error("a case-sensitive store should not find LIG")
	}
	l, ok := S.Residue("Lig")
	if !ok || l.Atoms[0].Name != "c1" {
		Te.Error("case-sensitive names not kept")
	}
}

//A repeated MASS index belongs to the type declared last.
func TestTypeByIndex(Te *testing.T) {
	S := NewStore(true)
	for i, v := range []string{
		"MASS 5 AA 1.0 H\nMASS 5 BB 2.0 H\n",
		"MASS 5 CC 3.0 H\n",
		"MASS 9 CC 3.0 H\n",
	} {
		if err := S.Load(strings.NewReader(v), "mass.rtf"); err != nil {
			Te.Fatalf("file %d: %v", i, err)
		}
	}
	for i := 0; i < 10; i++ {
		if t, ok := S.TypeByIndex(5); !ok || t != "BB" {
			Te.Fatalf("index 5 should be BB, got %s %t", t, ok)
		}
		if t, ok := S.TypeByIndex(9); !ok || t != "CC" {
			Te.Fatalf("index 9 should be CC, got %s %t", t, ok)
		}
	}
	if _, ok := S.TypeByIndex(7); ok {
		Te.Error("found a type for an unused index")
	}
}
