/*
 * recipe.go, part of psfgen.
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

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml"

	"github.com/rmera/psfgen"
	"github.com/rmera/psfgen/psf"
)

//Recipe is a structure build, as read from a TOML file. Relative file names
//are taken from the directory of the recipe.
type Recipe struct {
	AllCaps    bool           `toml:"allcaps"`
	Log        string         `toml:"log"`
	Topology   []string       `toml:"topology"`
	Aliases    []AliasSpec    `toml:"alias"`
	Segments   []SegmentSpec  `toml:"segment"`
	Patches    []PatchSpec    `toml:"patch"`
	Multiply   []MultiplySpec `toml:"multiply"`
	Coords     []CoordSpec    `toml:"coordpdb"`
	Regenerate []string       `toml:"regenerate"`
	Guess      bool           `toml:"guess"`
	Output     OutputSpec     `toml:"output"`

	dir string
}

//AliasSpec declares To as the canonical name of Residue or, if Atom is
//given, of the atom Atom in Residue.
type AliasSpec struct {
	Residue string `toml:"residue"`
	Atom    string `toml:"atom"`
	To      string `toml:"to"`
}

//SegmentSpec builds a segment. Residues are given as "resid resname [chain]".
type SegmentSpec struct {
	ID          string   `toml:"id"`
	PDB         string   `toml:"pdb"`
	Residues    []string `toml:"residues"`
	First       string   `toml:"first"`
	Last        string   `toml:"last"`
	Mutate      []string `toml:"mutate"`
	NoAngles    bool     `toml:"noangles"`
	NoDihedrals bool     `toml:"nodihedrals"`
	ReadCoords  bool     `toml:"coords"` //read the coordinates from PDB once the segment is built
}

//PatchSpec applies a patch to targets given as "segid:resid".
type PatchSpec struct {
	Name    string   `toml:"name"`
	Targets []string `toml:"targets"`
}

//CoordSpec reads coordinates for Segment from File, after all patches.
type CoordSpec struct {
	File    string `toml:"file"`
	Segment string `toml:"segment"`
}

//OutputSpec names the files written at the end of the build. Empty names are
//not written. Dialect is "xplor" or "charmm".
type OutputSpec struct {
	PSF        string `toml:"psf"`
	PDB        string `toml:"pdb"`
	NAMDBin    string `toml:"namdbin"`
	Velocities string `toml:"velnamdbin"`
	Dialect    string `toml:"dialect"`
	NoCMAP     bool   `toml:"nocmap"`
	EXT        bool   `toml:"ext"`
}

//MultiplySpec makes Copies copies of the atoms given as "segid", "segid:resid"
//or "segid:resid:atom".
type MultiplySpec struct {
	Copies int      `toml:"copies"`
	Atoms  []string `toml:"atoms"`
}

//ReadRecipe reads and checks the recipe in the file name.
func ReadRecipe(name string) (*Recipe, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	R := new(Recipe)
	if err := toml.NewDecoder(f).Decode(R); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	R.dir = filepath.Dir(name)
	if len(R.Topology) == 0 {
		return nil, fmt.Errorf("%s: no topology files given", name)
	}
	for _, s := range R.Segments {
		if _, err := residueList(s.Residues); err != nil {
			return nil, fmt.Errorf("%s: segment %s: %w", name, s.ID, err)
		}
		if _, err := residueList(s.Mutate); err != nil {
			return nil, fmt.Errorf("%s: segment %s: %w", name, s.ID, err)
		}
	}
	for _, p := range R.Patches {
		if _, err := targetList(p.Targets); err != nil {
			return nil, fmt.Errorf("%s: patch %s: %w", name, p.Name, err)
		}
	}
	for _, m := range R.Multiply {
		if _, err := atomList(m.Atoms); err != nil {
			return nil, fmt.Errorf("%s: multiply: %w", name, err)
		}
	}
	if _, err := psf.ParseDialect(R.Output.Dialect); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	for _, v := range R.Regenerate {
		switch v {
		case "angles", "dihedrals", "resids":
		default:
			return nil, fmt.Errorf("%s: can't regenerate %q", name, v)
		}
	}
	return R, nil
}

func (R *Recipe) path(name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(R.dir, name)
}

func residueList(specs []string) ([]psfgen.ResidueSpec, error) {
	var ret []psfgen.ResidueSpec
	for _, v := range specs {
		f := strings.Fields(v)
		if len(f) < 2 || len(f) > 3 {
			return nil, fmt.Errorf("residue %q should be \"resid resname [chain]\"", v)
		}
		r := psfgen.ResidueSpec{ID: f[0], Name: f[1]}
		if len(f) == 3 {
			r.Chain = f[2]
		}
		ret = append(ret, r)
	}
	return ret, nil
}

func targetList(specs []string) ([]psfgen.Target, error) {
	var ret []psfgen.Target
	for _, v := range specs {
		i := strings.LastIndexByte(v, ':')
		if i <= 0 || i == len(v)-1 {
			return nil, fmt.Errorf("target %q should be \"segid:resid\"", v)
		}
		ret = append(ret, psfgen.Target{Segment: v[:i], Residue: v[i+1:]})
	}
	return ret, nil
}

func atomList(specs []string) ([]psfgen.AtomTarget, error) {
	var ret []psfgen.AtomTarget
	for _, v := range specs {
		f := strings.Split(v, ":")
		if len(f) > 3 || f[0] == "" {
			return nil, fmt.Errorf("atoms %q should be \"segid[:resid[:atom]]\"", v)
		}
		f = append(f, "", "")
		ret = append(ret, psfgen.AtomTarget{Segment: f[0], Residue: f[1], Atom: f[2]})
	}
	return ret, nil
}

//Session returns a new session with the options of the recipe.
func (R *Recipe) Session() *psfgen.Session {
	return psfgen.New(psfgen.SessionOptions{AllCaps: R.AllCaps, Log: os.Stderr, LogFile: R.path(R.Log)})
}

//Run builds the structure in S and writes the output files.
func (R *Recipe) Run(S *psfgen.Session) error {
	for _, v := range R.Topology {
		if err := S.LoadTopology(R.path(v)); err != nil {
			return err
		}
	}
	for _, v := range R.Aliases {
		var err error
		if v.Atom == "" {
			err = S.AliasResidue(v.Residue, v.To)
		} else {
			err = S.AliasAtom(v.Residue, v.Atom, v.To)
		}
		if err != nil {
			return err
		}
	}
	for _, s := range R.Segments {
		res, _ := residueList(s.Residues)
		mut, _ := residueList(s.Mutate)
		opts := psfgen.SegmentOptions{Residues: res, PDB: R.path(s.PDB), First: s.First, Last: s.Last,
			Mutate: mut, NoAutoAngles: s.NoAngles, NoAutoDihedrals: s.NoDihedrals}
		if err := S.AddSegment(s.ID, opts); err != nil {
			return err
		}
		if s.ReadCoords && s.PDB != "" {
			if _, err := S.ReadCoords(R.path(s.PDB), s.ID); err != nil {
				return err
			}
		}
	}
	for _, p := range R.Patches {
		t, _ := targetList(p.Targets)
		if err := S.Patch(p.Name, t); err != nil {
			return err
		}
	}
	for _, m := range R.Multiply {
		t, _ := atomList(m.Atoms)
		if err := S.Multiply(m.Copies, t); err != nil {
			return err
		}
	}
	for _, v := range R.Regenerate {
		switch v {
		case "angles":
			S.RegenerateAngles()
		case "dihedrals":
			S.RegenerateDihedrals()
		case "resids":
			S.RegenerateResids()
		}
	}
	for _, c := range R.Coords {
		if _, err := S.ReadCoords(R.path(c.File), c.Segment); err != nil {
			return err
		}
	}
	if R.Guess {
		S.GuessCoords()
	}
	return R.write(S)
}

func (R *Recipe) write(S *psfgen.Session) error {
	O := R.Output
	if O.PSF != "" {
		d, _ := psf.ParseDialect(O.Dialect)
		if err := S.WritePSFWith(R.path(O.PSF), psf.Options{Dialect: d, NoCMAP: O.NoCMAP, EXT: O.EXT}); err != nil {
			return err
		}
	}
	if O.PDB != "" {
		if err := S.WritePDB(R.path(O.PDB)); err != nil {
			return err
		}
	}
	if O.NAMDBin != "" {
		if err := S.WriteNAMDBin(R.path(O.NAMDBin), R.path(O.Velocities)); err != nil {
			return err
		}
	}
	return nil
}
