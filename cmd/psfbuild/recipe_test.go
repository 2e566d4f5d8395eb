package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rmera/psfgen/psf"
)

const recipe = `allcaps = true
topology = ["TOPFILE"]
guess = true
regenerate = ["angles", "dihedrals"]

[[alias]]
residue = "WAT"
to = "TIP3"

[[alias]]
residue = "WAT"
atom = "O"
to = "OH2"

[[segment]]
id = "P1"
residues = ["1 ala", "2 cys", "3 ala", "4 cys", "5 gly"]

[[segment]]
id = "W"
residues = ["1 WAT"]
noangles = true

[[patch]]
name = "DISU"
targets = ["P1:2", "P1:4"]

[[multiply]]
copies = 2
atoms = ["W:1"]

[output]
psf = "out.psf"
pdb = "out.pdb"
dialect = "charmm"
`

func writeRecipe(Te *testing.T, text string) string {
	Te.Helper()
	top, err := filepath.Abs("../../test/top_mini.rtf")
	if err != nil {
		Te.Fatal(err)
	}
	name := filepath.Join(Te.TempDir(), "build.toml")
	if err := os.WriteFile(name, []byte(strings.Replace(text, "TOPFILE", top, 1)), 0644); err != nil {
		Te.Fatal(err)
	}
	return name
}

func TestRecipe(Te *testing.T) {
	name := writeRecipe(Te, recipe)
	R, err := ReadRecipe(name)
	if err != nil {
		Te.Fatal(err)
	}
	if len(R.Segments) != 2 || len(R.Aliases) != 2 || R.Aliases[1].Atom != "O" || !R.Segments[1].NoAngles {
		Te.Fatalf("recipe not decoded: %+v", R)
	}
	S := R.Session()
	defer S.Close()
	if err := R.Run(S); err != nil {
		Te.Fatal(err)
	}
	F, err := psf.ReadFile(filepath.Join(filepath.Dir(name), "out.psf"))
	if err != nil {
		Te.Fatal(err)
	}
	if F.Dialect != psf.CHARMM {
		Te.Error("the dialect in the recipe was not used")
	}
	if len(F.Atoms) != S.NAtoms() || len(F.Bonds) != len(S.Bonds()) {
		Te.Errorf("PSF with %d atoms and %d bonds", len(F.Atoms), len(F.Bonds))
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(name), "out.pdb")); err != nil {
		Te.Error(err)
	}
	if p := S.Patches(false); len(p) != 1 || p[0].Name != "DISU" {
		Te.Errorf("wrong patches %v", p)
	}
	if w, _ := S.AtomNames("W", "1"); len(w) != 6 {
		Te.Errorf("water not multiplied: %v", w)
	}
}

func TestRecipeErrors(Te *testing.T) {
	for k, v := range map[string]string{
		"residue": strings.Replace(recipe, `"5 gly"`, `"5"`, 1),
		"target":  strings.Replace(recipe, `"P1:4"`, `"P1"`, 1),
		"dialect": strings.Replace(recipe, `"charmm"`, `"amber"`, 1),
		"regen":   strings.Replace(recipe, `"dihedrals"]`, `"bonds"]`, 1),
		"toml":    recipe + "\n[[segment\n",
		"atoms":   strings.Replace(recipe, `"W:1"`, `"W:1:OH2:X"`, 1),
	} {
		if _, err := ReadRecipe(writeRecipe(Te, v)); err == nil {
			Te.Errorf("%s: bad recipe accepted", k)
		}
	}
	R, err := ReadRecipe(writeRecipe(Te, strings.Replace(recipe, `"P1:4"`, `"P1:9"`, 1)))
	if err != nil {
		Te.Fatal(err)
	}
	S := R.Session()
	defer S.Close()
	if err := R.Run(S); err == nil {
		Te.Error("patch applied to a missing residue")
	}
}
