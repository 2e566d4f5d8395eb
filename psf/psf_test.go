/*
 * psf_test.go, part of psfgen.
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

package psf

import (
	"bytes"
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func sample() *File {
	return &File{
		Remarks: []string{"original generated structure x-plor psf file", "topology top_mini.rtf"},
		Atoms: []Atom{
			{"P1", "1", "GLY", "N", "NH3", 15, -0.30, 14.007, 0},
			{"P1", "1", "GLY", "HT1", "HC", 2, 0.33, 1.008, 0},
			{"P1", "1", "GLY", "CA", "CT2", 12, 0.13, 12.011, 0},
			{"P1", "2", "ALA", "N", "NH1", 14, -0.47, 14.007, 0},
			{"P1", "2", "ALA", "CA", "CT1", 11, 0.07, 12.011, 0},
			{"P1", "2", "ALA", "C", "C", 9, 0.51, 12.011, 0},
		},
		Bonds:     [][2]int{{0, 1}, {0, 2}, {2, 3}, {3, 4}, {4, 5}},
		Angles:    [][3]int{{1, 0, 2}, {0, 2, 3}, {2, 3, 4}, {3, 4, 5}},
		Dihedrals: [][4]int{{1, 0, 2, 3}, {0, 2, 3, 4}, {2, 3, 4, 5}},
		Impropers: [][4]int{{3, 2, 4, 0}},
		Cmaps:     [][8]int{{0, 2, 3, 4, 2, 3, 4, 5}},
	}
}

func TestRoundTrip(Te *testing.T) {
	for _, d := range []Dialect{XPLOR, CHARMM} {
		F := sample()
		path := filepath.Join(Te.TempDir(), d.String()+".psf.zst")
		if err := WriteFile(path, F, Options{Dialect: d}); err != nil {
			Te.Fatal(err)
		}
		G, err := ReadFile(path)
		if err != nil {
			Te.Fatal(err)
		}
		if G.Dialect != d {
			Te.Errorf("dialect %s read as %s", d, G.Dialect)
		}
		if !reflect.DeepEqual(F.Remarks, G.Remarks) {
			Te.Errorf("remarks changed: %q", G.Remarks)
		}
		if !reflect.DeepEqual(F.Bonds, G.Bonds) || !reflect.DeepEqual(F.Angles, G.Angles) ||
			!reflect.DeepEqual(F.Dihedrals, G.Dihedrals) || !reflect.DeepEqual(F.Impropers, G.Impropers) ||
			!reflect.DeepEqual(F.Cmaps, G.Cmaps) {
			Te.Errorf("%s: connectivity changed", d)
		}
		for i, a := range G.Atoms {
			want := F.Atoms[i]
			if d == CHARMM {
				want.Type = strings.TrimSpace(G.Atoms[i].Type)
				if a.TypeIndex != F.Atoms[i].TypeIndex {
					Te.Errorf("type index of atom %d changed", i)
				}
			} else {
				want.TypeIndex = 0
			}
			if a != want {
				Te.Errorf("%s: atom %d changed: %+v vs %+v", d, i, a, want)
			}
		}
	}
}

//The two dialects differ only in the type column.
func TestDialects(Te *testing.T) {
	var x, c bytes.Buffer
	if err := Write(&x, sample(), Options{Dialect: XPLOR}); err != nil {
		Te.Fatal(err)
	}
	if err := Write(&c, sample(), Options{Dialect: CHARMM}); err != nil {
		Te.Fatal(err)
	}
	xl := strings.Split(x.String(), "\n")
	cl := strings.Split(c.String(), "\n")
	if len(xl) != len(cl) {
		Te.Fatalf("different number of lines: %d %d", len(xl), len(cl))
	}
	diff := 0
	for i := range xl {
		if xl[i] == cl[i] {
			continue
		}
		diff++
		xf, cf := strings.Fields(xl[i]), strings.Fields(cl[i])
		for j := range xf {
			if xf[j] != cf[j] && j != 5 {
				Te.Errorf("line %d differs in field %d: %q %q", i, j, xl[i], cl[i])
			}
		}
	}
	if diff != len(sample().Atoms) {
		Te.Errorf("expected %d different lines, got %d", len(sample().Atoms), diff)
	}
	F := sample()
	F.Atoms[0].TypeIndex = 0
	if err := Write(&c, F, Options{Dialect: CHARMM}); err == nil {
		Te.Error("an atom without type index should not be written in CHARMM format")
	}
}

func TestLayouts(Te *testing.T) {
	var b bytes.Buffer
	if err := Write(&b, sample(), Options{}); err != nil {
		Te.Fatal(err)
	}
	s := b.String()
	if !strings.HasPrefix(s, "PSF CMAP\n") {
		Te.Errorf("wrong header %q", strings.SplitN(s, "\n", 2)[0])
	}
	if !strings.Contains(s, "       1 P1   1    GLY  N    NH3   -0.300000       14.0070           0\n") {
		Te.Errorf("atom line not in standard format:\n%s", s)
	}
	if !strings.Contains(s, "       5 !NBOND: bonds\n       1       2       1       3       3       4       4       5\n       5       6\n") {
		Te.Error("wrong bond section")
	}
	b.Reset()
	F := sample()
	F.Atoms[0].SegID = "PROTA"
	if err := Write(&b, F, Options{NoCMAP: true}); err != nil {
		Te.Fatal(err)
	}
	s = b.String()
	if !strings.HasPrefix(s, "PSF EXT\n") || strings.Contains(s, "NCRTERM") {
		Te.Errorf("wrong EXT header %q", strings.SplitN(s, "\n", 2)[0])
	}
	if !strings.Contains(s, "         1 PROTA    1        GLY      N        NH3     -0.300000") {
		Te.Error("atom line not in EXT format")
	}
	G, err := Read(strings.NewReader(s), "ext.psf")
	if err != nil {
		Te.Fatal(err)
	}
	if !G.EXT || G.Atoms[0].SegID != "PROTA" || len(G.Cmaps) != 0 {
		Te.Error("EXT file read wrong")
	}
}

func TestReadErrors(Te *testing.T) {
	var b bytes.Buffer
	Write(&b, sample(), Options{})
	good := b.String()
	cases := map[string]string{
		"not psf":   "HELLO\n",
		"bad index": strings.Replace(good, "\n       5       6\n", "\n       5      99\n", 1),
		"truncated": good[:strings.Index(good, "!NTHETA")+40],
		"bad mass":  strings.Replace(good, "14.0070", "14.OO70", 1),
	}
	for k, v := range cases {
		_, err := Read(strings.NewReader(v), k)
		var perr Error
		if !errors.As(err, &perr) {
			Te.Errorf("%s: expected a psf.Error, got %v", k, err)
		}
	}
}
