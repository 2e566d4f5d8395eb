package namdbin

import (
	"bytes"
	"encoding/binary"
	"math"
	"path/filepath"
	"testing"

	"github.com/rmera/psfgen/v3"
)

func TestRoundTrip(Te *testing.T) {
	m, err := v3.NewMatrix([]float64{1, 2, 3, -4.5, 5.25, 1e-3, 0, 0, 1234.5678})
	if err != nil {
		Te.Fatal(err)
	}
	for _, name := range []string{"c.coor", "c.coor.zst"} {
		path := filepath.Join(Te.TempDir(), name)
		if err := WriteFile(path, m); err != nil {
			Te.Fatal(err)
		}
		back, err := ReadFile(path)
		if err != nil {
			Te.Fatal(err)
		}
		if back.NVecs() != 3 {
			Te.Fatalf("%s: got %d vectors", name, back.NVecs())
		}
		for i := 0; i < 3; i++ {
			if back.Array(i) != m.Array(i) {
				Te.Errorf("%s: vector %d changed %v %v", name, i, back.Array(i), m.Array(i))
			}
		}
	}
}

func TestLayout(Te *testing.T) {
	m, _ := v3.NewMatrix([]float64{1, 2, 3})
	var buf bytes.Buffer
	if err := Write(&buf, m); err != nil {
		Te.Fatal(err)
	}
	b := buf.Bytes()
	if len(b) != 28 {
		Te.Fatalf("expected 28 bytes, got %d", len(b))
	}
	if binary.NativeEndian.Uint32(b) != 1 || math.Float64frombits(binary.NativeEndian.Uint64(b[20:])) != 3 {
		Te.Error("wrong binary layout")
	}
}

func TestSwapped(Te *testing.T) {
	other := swapped(Native)
	b := make([]byte, 4+48)
	other.PutUint32(b, 2)
	for i, v := range []float64{1, 2, 3, 4, 5, 6} {
		other.PutUint64(b[4+8*i:], math.Float64bits(v))
	}
	m, err := Read(bytes.NewReader(b), "swapped")
	if err != nil {
		Te.Fatal(err)
	}
	if m.Array(1) != [3]float64{4, 5, 6} {
		Te.Errorf("wrong values read %v", m.Array(1))
	}
	if _, err := Read(bytes.NewReader(b[:30]), "short"); err == nil {
		Te.Error("a truncated file should fail")
	}
}

func TestEmpty(Te *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, nil); err != nil {
		Te.Fatal(err)
	}
	m, err := Read(&buf, "empty")
	if err != nil {
		Te.Fatal(err)
	}
	if m.NVecs() != 0 {
		Te.Error("expected no vectors")
	}
}
