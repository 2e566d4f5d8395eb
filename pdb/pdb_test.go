package pdb

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

const alagly = `REMARK test
ATOM      1  N   ALA A   1      -0.677  -1.230  -0.491  1.00  0.00      P1   N
ATOM      2  CA  ALA A   1      -0.001   0.064  -0.491  1.00  0.00      P1   C
ATOM      3  HB1 ALA A   1      -0.500   1.000   1.500 -1.00  0.00      P1   H
ATOM      4  N   GLY A   2       1.334   0.110  -0.491  1.00  0.00      P1   N
ATOM      5  CA  GLY A   2A      2.000   1.200  -0.100  1.00 12.50      P1   C
HETATM    6  OH2 TIP3W   3      10.000  10.000  10.000  1.00  0.00      W1   O
TER
END
ATOM      7  OH2 TIP3W   4      10.000  10.000  10.000  1.00  0.00      W1   O
`

func TestRead(Te *testing.T) {
	recs, err := Read(strings.NewReader(alagly), "alagly.pdb")
	if err != nil {
		Te.Fatal(err)
	}
	if len(recs) != 6 {
		Te.Fatalf("expected 6 records, got %d", len(recs))
	}
	r := recs[4]
	if r.Name != "CA" || r.ResName != "GLY" || r.ResID != "2A" || r.Chain != "A" || r.Beta != 12.5 || r.SegID != "P1" || r.Element != "C" {
		Te.Errorf("wrong record %+v", r)
	}
	if r.Coords != [3]float64{2, 1.2, -0.1} {
		Te.Errorf("wrong coordinates %v", r.Coords)
	}
	if !recs[2].Absent() || recs[1].Absent() {
		Te.Error("absent records not recognized")
	}
	if !recs[5].Het {
		Te.Error("HETATM not recognized")
	}
	runs := Runs(recs)
	if len(runs) != 4 {
		Te.Fatalf("expected 4 runs, got %d: %v", len(runs), runs)
	}
	if runs[0].Start != 0 || runs[0].End != 3 || runs[2].ResID != "2A" || runs[3].ResName != "TIP3" {
		Te.Errorf("wrong runs %v", runs)
	}
}

func TestReadErrors(Te *testing.T) {
	bad := "ATOM      1  N   ALA A   1      -0.677  -1.230\nATOM      2  CA  ALA A   1      -0.001   xxxxx  -0.491  1.00  0.00\n"
	for i, l := range strings.Split(strings.TrimSpace(bad), "\n") {
		_, err := Read(strings.NewReader("REMARK\n"+l+"\n"), "bad.pdb")
		var perr Error
		if !errors.As(err, &perr) {
			Te.Errorf("line %d: expected a pdb.Error, got %v", i, err)
			continue
		}
		if perr.Line() != 2 {
			Te.Errorf("error reported at line %d instead of 2", perr.Line())
		}
	}
}

func TestWriteColumns(Te *testing.T) {
	r := Record{Serial: 12, Name: "HB1", ResName: "ALA", Chain: "B", ResID: "27A",
		Coords: [3]float64{1.5, -2.25, 100}, Occupancy: 1, Beta: 0.5, SegID: "PROA", Element: "H"}
	l := FormatRecord(r)
	cols := []struct {
		from, to int
		want     string
	}{
		{1, 6, "ATOM  "},
		{7, 11, "   12"},
		{13, 16, " HB1"},
		{18, 21, "ALA "},
		{22, 22, "B"},
		{23, 26, "  27"},
		{27, 27, "A"},
		{31, 38, "   1.500"},
		{39, 46, "  -2.250"},
		{47, 54, " 100.000"},
		{55, 60, "  1.00"},
		{61, 66, "  0.50"},
		{73, 76, "PROA"},
		{77, 78, " H"},
	}
	for _, c := range cols {
		if got := l[c.from-1 : c.to]; got != c.want {
			Te.Errorf("columns %d-%d: got %q, want %q", c.from, c.to, got, c.want)
		}
	}
	if fits(123456, 5) != "1e240" || fits(99999, 5) != "99999" || fits(1<<24, 5) != "*****" {
		Te.Error("wrong handling of large serial numbers")
	}
}

func TestRoundTrip(Te *testing.T) {
	recs, err := Read(strings.NewReader(alagly), "alagly.pdb")
	if err != nil {
		Te.Fatal(err)
	}
	for _, name := range []string{"out.pdb", "out.pdb.zst"} {
		path := filepath.Join(Te.TempDir(), name)
		if err := WriteFile(path, recs, "test"); err != nil {
			Te.Fatal(err)
		}
		back, err := ReadFile(path)
		if err != nil {
			Te.Fatal(err)
		}
		if len(back) != len(recs) {
			Te.Fatalf("%s: read %d records back, wrote %d", name, len(back), len(recs))
		}
		for i := range recs {
			if back[i] != recs[i] {
				Te.Errorf("%s: record %d changed: %+v vs %+v", name, i, back[i], recs[i])
			}
		}
	}
	var buf bytes.Buffer
	if err := Write(&buf, []Record{{Name: "TOOLONG", ResName: "ALA", ResID: "1"}}); err == nil {
		Te.Error("a 7-character atom name should not be written")
	}
}

func TestSplitResID(Te *testing.T) {
	for in, want := range map[string][2]string{"12": {"12", ""}, "12A": {"12", "A"}, "-3": {"-3", ""}, "7": {"7", ""}} {
		s, i := SplitResID(in)
		if s != want[0] || i != want[1] {
			Te.Errorf("%s: got %s %s", in, s, i)
		}
	}
}
