package psfgen

import (
	"bufio"
	"errors"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/rmera/psfgen/pdb"
	"github.com/rmera/psfgen/psf"
)

//peptide builds a small structure with a peptide, with coordinates, and a water
//without them.
func peptide(Te *testing.T) *Session {
	Te.Helper()
	S := newSession(Te)
	if err := S.AddSegment("P1", SegmentOptions{Residues: residues("1", "ALA", "2", "CYS", "3", "GLY")}); err != nil {
		Te.Fatal(err)
	}
	if err := S.AddSegment("W1", SegmentOptions{Residues: residues("1", "TIP3")}); err != nil {
		Te.Fatal(err)
	}
	for name, c := range map[string][3]float64{"N": bbN, "CA": bbCA, "C": bbC} {
		if err := S.SetCoord("P1", "1", name, c); err != nil {
			Te.Fatal(err)
		}
	}
	S.GuessCoords()
	return S
}

func readLines(Te *testing.T, name string) []string {
	Te.Helper()
	f, err := os.Open(name)
	if err != nil {
		Te.Fatal(err)
	}
	defer f.Close()
	var ret []string
	s := bufio.NewScanner(f)
	for s.Scan() {
		ret = append(ret, s.Text())
	}
	return ret
}

//The structure read back from a PSF and PDB pair is the one written.
func TestPSFRoundTrip(Te *testing.T) {
	S := peptide(Te)
	dir := Te.TempDir()
	psfname, pdbname := filepath.Join(dir, "pep.psf"), filepath.Join(dir, "pep.pdb")
	if err := S.WritePSF(psfname, psf.XPLOR); err != nil {
		Te.Fatal(err)
	}
	if err := S.WritePDB(pdbname); err != nil {
		Te.Fatal(err)
	}
	R := newSession(Te)
	if err := R.ReadPSF(psfname, ReadPSFOptions{PDB: pdbname}); err != nil {
		Te.Fatal(err)
	}
	if !reflect.DeepEqual(S.SegmentIDs(), R.SegmentIDs()) {
		Te.Fatalf("segments %v, read %v", S.SegmentIDs(), R.SegmentIDs())
	}
	for _, id := range S.SegmentIDs() {
		r1, _ := S.ResidueIDs(id)
		r2, _ := R.ResidueIDs(id)
		if !reflect.DeepEqual(r1, r2) {
			Te.Errorf("segment %s: residues %v, read %v", id, r1, r2)
		}
		for _, res := range r1 {
			a1, _ := S.AtomNames(id, res)
			a2, _ := R.AtomNames(id, res)
			if !reflect.DeepEqual(a1, a2) {
				Te.Errorf("residue %s:%s: atoms %v, read %v", id, res, a1, a2)
			}
		}
		s1, _ := S.Segment(id)
		s2, _ := R.Segment(id)
		if s1.First != s2.First || s1.Last != s2.Last || s1.AutoAngles != s2.AutoAngles || s1.AutoDihedrals != s2.AutoDihedrals {
			Te.Errorf("segment %s settings not recovered", id)
		}
	}
	if !reflect.DeepEqual(S.Bonds(), R.Bonds()) {
		Te.Error("bonds differ")
	}
	if !reflect.DeepEqual(S.Angles(), R.Angles()) {
		Te.Error("angles differ")
	}
	if !reflect.DeepEqual(S.Dihedrals(), R.Dihedrals()) {
		Te.Error("dihedrals differ")
	}
	if !reflect.DeepEqual(S.Impropers(), R.Impropers()) {
		Te.Error("impropers differ")
	}
	if !reflect.DeepEqual(S.Patches(true), R.Patches(true)) {
		Te.Errorf("patches %v, read %v", S.Patches(true), R.Patches(true))
	}
	if !reflect.DeepEqual(R.TopologyFiles(), []string{minitop}) {
		Te.Errorf("topology files not merged: %v", R.TopologyFiles())
	}
	ra := R.Atoms()
	for i, a := range S.Atoms() {
		b := ra[i]
		if a.Type != b.Type || a.Charge != b.Charge || math.Abs(a.Mass-b.Mass) > 1e-4 {
			Te.Errorf("atom %s: %s %f %f, read %s %f %f", a.label(), a.Type, a.Charge, a.Mass, b.Type, b.Charge, b.Mass)
		}
		if a.HasCoords() != b.HasCoords() {
			Te.Errorf("atom %s: coordinates lost or made up", a.label())
			continue
		}
		for j := range a.Coords {
			if math.Abs(a.Coords[j]-b.Coords[j]) > 1e-3 {
				Te.Errorf("atom %s: coordinates %v, read %v", a.label(), a.Coords, b.Coords)
				break
			}
		}
	}
	//the same segments can't be read twice
	if err := R.ReadPSF(psfname, ReadPSFOptions{}); !errors.Is(err, ErrDuplicate) {
		Te.Errorf("expected a duplicate error, got %v", err)
	}
}

//Both dialects write the same file but for the type column.
func TestDialects(Te *testing.T) {
	S := peptide(Te)
	dir := Te.TempDir()
	xname, cname := filepath.Join(dir, "x.psf"), filepath.Join(dir, "c.psf")
	if err := S.WritePSF(xname, psf.XPLOR); err != nil {
		Te.Fatal(err)
	}
	if err := S.WritePSF(cname, psf.CHARMM); err != nil {
		Te.Fatal(err)
	}
	xl, cl := readLines(Te, xname), readLines(Te, cname)
	if len(xl) != len(cl) {
		Te.Fatalf("files with %d and %d lines", len(xl), len(cl))
	}
	ndiff := 0
	for i := range xl {
		if xl[i] == cl[i] {
			continue
		}
		if strings.Contains(xl[i], "REMARKS") {
			continue
		}
		xf, cf := strings.Fields(xl[i]), strings.Fields(cl[i])
		if len(xf) != len(cf) || len(xf) != 9 {
			Te.Fatalf("line %d differs: %q %q", i+1, xl[i], cl[i])
		}
		for j := range xf {
			if j != 5 && xf[j] != cf[j] {
				Te.Errorf("line %d differs in field %d: %q %q", i+1, j+1, xl[i], cl[i])
			}
		}
		ndiff++
	}
	if ndiff != S.NAtoms() {
		Te.Errorf("%d atom lines differ, expected %d", ndiff, S.NAtoms())
	}
	R := newSession(Te)
	if err := R.ReadPSF(cname, ReadPSFOptions{}); err != nil {
		Te.Fatal(err)
	}
	ra := R.Atoms()
	for i, a := range S.Atoms() {
		if ra[i].Type != a.Type {
			Te.Errorf("numeric type of %s read as %s", a.label(), ra[i].Type)
		}
	}
	//numeric types need the topology.
	E := New(SessionOptions{AllCaps: true})
	if err := E.ReadPSF(cname, ReadPSFOptions{}); !errors.Is(err, ErrLookup) {
		Te.Errorf("expected a lookup error, got %v", err)
	}
}

func TestNAMDBin(Te *testing.T) {
	S := peptide(Te)
	if err := S.SetVelocity("P1", "2", "SG", [3]float64{0.1, -0.2, 0.3}); err != nil {
		Te.Fatal(err)
	}
	dir := Te.TempDir()
	names := []string{"s.psf", "s.coor", "s.vel"}
	for i := range names {
		names[i] = filepath.Join(dir, names[i])
	}
	if err := S.WritePSF(names[0], psf.XPLOR); err != nil {
		Te.Fatal(err)
	}
	if err := S.WriteNAMDBin(names[1], names[2]); err != nil {
		Te.Fatal(err)
	}
	R := newSession(Te)
	if err := R.ReadPSF(names[0], ReadPSFOptions{NAMDBin: names[1], Velocities: names[2]}); err != nil {
		Te.Fatal(err)
	}
	ra := R.Atoms()
	for i, a := range S.Atoms() {
		if a.HasCoords() && a.Coords != ra[i].Coords {
			Te.Errorf("atom %s: coordinates %v, read %v", a.label(), a.Coords, ra[i].Coords)
		}
	}
	sg, _ := R.Atom("P1", "2", "SG")
	if !sg.HasVel || sg.Vel != [3]float64{0.1, -0.2, 0.3} {
		Te.Errorf("velocity not read: %v", sg.Vel)
	}
}

func TestCompanionMismatch(Te *testing.T) {
	S := peptide(Te)
	dir := Te.TempDir()
	psfname, pdbname := filepath.Join(dir, "m.psf"), filepath.Join(dir, "m.pdb")
	if err := S.WritePSF(psfname, psf.XPLOR); err != nil {
		Te.Fatal(err)
	}
	if err := S.WritePDB(pdbname); err != nil {
		Te.Fatal(err)
	}
	recs, err := pdb.ReadFile(pdbname)
	if err != nil {
		Te.Fatal(err)
	}
	short := filepath.Join(dir, "short.pdb")
	if err := pdb.WriteFile(short, recs[:len(recs)-1]); err != nil {
		Te.Fatal(err)
	}
	recs[0].Name, recs[1].Name = recs[1].Name, recs[0].Name
	swapped := filepath.Join(dir, "swapped.pdb")
	if err := pdb.WriteFile(swapped, recs); err != nil {
		Te.Fatal(err)
	}
	R := newSession(Te)
	for _, v := range []string{short, swapped} {
		if err := R.ReadPSF(psfname, ReadPSFOptions{PDB: v}); !errors.Is(err, ErrMismatch) {
			Te.Errorf("%s: expected a mismatch error, got %v", filepath.Base(v), err)
		}
	}
	if len(R.SegmentIDs()) != 0 || len(R.Patches(true)) != 0 {
		Te.Error("a failed ReadPSF changed the structure")
	}
	if err := R.ReadPSF(filepath.Join(dir, "nothere.psf"), ReadPSFOptions{}); !errors.Is(err, ErrFormat) {
		Te.Errorf("expected a format error, got %v", err)
	}
}

//Writes at the positions of absent atoms a zero, and the occupancy tells them apart.
func TestWritePDBStates(Te *testing.T) {
	S := peptide(Te)
	name := filepath.Join(Te.TempDir(), "st.pdb")
	if err := S.WritePDB(name); err != nil {
		Te.Fatal(err)
	}
	recs, err := pdb.ReadFile(name)
	if err != nil {
		Te.Fatal(err)
	}
	atoms := S.Atoms()
	if len(recs) != len(atoms) {
		Te.Fatalf("%d records for %d atoms", len(recs), len(atoms))
	}
	for i, a := range atoms {
		want := map[CoordState]float64{Set: 1, Guessed: 0, Absent: -1}[a.State]
		if recs[i].Occupancy != want {
			Te.Errorf("atom %s (%v) written with occupancy %.2f", a.label(), a.State, recs[i].Occupancy)
		}
		if recs[i].SegID != a.Residue().Segment().ID {
			Te.Errorf("atom %s written in segment %s", a.label(), recs[i].SegID)
		}
	}
}
