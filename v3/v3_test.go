package v3

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func near(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

//angle difference taking periodicity into account
func nearAngle(a, b, tol float64) bool {
	d := math.Mod(math.Abs(a-b), 360)
	return d <= tol || 360-d <= tol
}

//angle returns the a-b-c angle, in degrees
func angle(a, b, c r3.Vec) float64 {
	cos := r3.Cos(r3.Sub(a, b), r3.Sub(c, b))
	cos = math.Max(-1, math.Min(1, cos))
	return math.Acos(cos) * 180 / math.Pi
}

//dihedral returns the a-b-c-d dihedral angle, in degrees, IUPAC sign convention.
func dihedral(a, b, c, d r3.Vec) float64 {
	b1, b2, b3 := r3.Sub(b, a), r3.Sub(c, b), r3.Sub(d, c)
	n1, n2 := r3.Cross(b1, b2), r3.Cross(b2, b3)
	y := r3.Dot(r3.Cross(n1, n2), r3.Unit(b2))
	return math.Atan2(y, r3.Dot(n1, n2)) * 180 / math.Pi
}

func TestPlace(Te *testing.T) {
	a := r3.Vec{X: 0, Y: 1, Z: 0}
	b := r3.Vec{}
	c := r3.Vec{X: 1.5}
	cases := []struct {
		bond, angle, dihedral float64
	}{
		{1.0, 109.47, 180},
		{1.53, 120, 60},
		{0.97, 104.5, -60},
		{1.33, 116, 0},
		{1.2, 90, 90},
	}
	for _, v := range cases {
		d := Place(a, b, c, v.bond, v.angle, v.dihedral)
		if got := Distance(c, d); !near(got, v.bond, 1e-8) {
			Te.Errorf("bond: got %f, want %f", got, v.bond)
		}
		if got := angle(b, c, d); !near(got, v.angle, 1e-6) {
			Te.Errorf("angle: got %f, want %f", got, v.angle)
		}
		if got := dihedral(a, b, c, d); !nearAngle(got, v.dihedral, 1e-6) {
			Te.Errorf("dihedral: got %f, want %f", got, v.dihedral)
		}
	}
}

func TestDihedralSign(Te *testing.T) {
	a := r3.Vec{Y: 1}
	b := r3.Vec{}
	c := r3.Vec{X: 1}
	d := r3.Vec{X: 1, Z: 1}
	if got := dihedral(a, b, c, d); !near(got, 90, 1e-9) {
		Te.Errorf("got %f, want 90", got)
	}
	if got := dihedral(d, c, b, a); !near(got, 90, 1e-9) {
		Te.Errorf("reversed dihedral: got %f, want 90", got)
	}
}

func TestPlaceDegenerate(Te *testing.T) {
	defer func() {
		if r := recover(); r != ErrDegenerate {
			Te.Errorf("expected ErrDegenerate panic, got %v", r)
		}
	}()
	Place(r3.Vec{}, r3.Vec{X: 1}, r3.Vec{X: 2}, 1, 109.5, 180)
}

func TestCollinearAndPerpendicular(Te *testing.T) {
	if !Collinear(r3.Vec{}, r3.Vec{X: 1}, r3.Vec{X: 3}) {
		Te.Error("points on the x axis should be collinear")
	}
	if Collinear(r3.Vec{Y: 1}, r3.Vec{}, r3.Vec{X: 1}) {
		Te.Error("a right angle is not collinear")
	}
	for _, v := range []r3.Vec{{X: 1}, {Y: 2}, {Z: -3}, {X: 1, Y: 1, Z: 1}, {X: 1, Y: 1}} {
		p := Perpendicular(v)
		if !near(r3.Dot(p, v), 0, 1e-12) || !near(r3.Norm(p), 1, 1e-12) {
			Te.Errorf("Perpendicular(%v)=%v is not a unit normal", v, p)
		}
	}
}

func TestAround(Te *testing.T) {
	center := r3.Vec{X: 1, Y: 2, Z: 3}
	seen := make([]r3.Vec, 0, 4)
	for k := 0; k < 4; k++ {
		p := Around(center, 1.1, k)
		if !near(Distance(center, p), 1.1, 1e-12) {
			Te.Errorf("point %d at wrong distance", k)
		}
		for _, s := range seen {
			if !near(angle(s, center, p), 109.4712, 1e-3) {
				Te.Errorf("directions %v and %v are not tetrahedral", s, p)
			}
		}
		seen = append(seen, p)
	}
}

func TestMatrix(Te *testing.T) {
	M, err := NewMatrix([]float64{1, 2, 3, 4, 5, 6})
	if err != nil {
		Te.Fatal(err)
	}
	if M.NVecs() != 2 {
		Te.Errorf("expected 2 vectors, got %d", M.NVecs())
	}
	M.SetVec(1, r3.Vec{X: 7, Y: 8, Z: 9})
	if M.Array(1) != [3]float64{7, 8, 9} || M.Array(0) != [3]float64{1, 2, 3} {
		Te.Errorf("unexpected contents:\n%s", M)
	}
	if _, err := NewMatrix([]float64{1, 2}); err == nil {
		Te.Error("a slice of 2 elements can't make a Matrix")
	}
	if Zeros(0).NVecs() != 0 {
		Te.Error("empty matrix should have no vectors")
	}
}
