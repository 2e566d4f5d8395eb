/*
 * geometry.go, part of psfgen.
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

package v3

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"
)

const appzero float64 = 1e-10 //Everything equal or less than this is considered zero.

//Deg2Rad converts degrees to radians
func Deg2Rad(f float64) float64 {
	return f * math.Pi / 180
}

//Distance returns the distance between a and b
func Distance(a, b r3.Vec) float64 {
	return floats.Distance([]float64{a.X, a.Y, a.Z}, []float64{b.X, b.Y, b.Z}, 2)
}

//Place returns the position of a point D such that |CD| = bond, the B-C-D angle is
//angle and the A-B-C-D dihedral is dihedral (both in degrees). It is the usual
//internal-to-cartesian (NeRF) construction. Panics with ErrDegenerate if A, B and C
//don't define a plane.
func Place(a, b, c r3.Vec, bond, angle, dihedral float64) r3.Vec {
	bc := r3.Sub(c, b)
	if r3.Norm(bc) <= appzero {
		panic(ErrDegenerate)
	}
	bc = r3.Unit(bc)
	n := r3.Cross(r3.Sub(b, a), bc)
	if r3.Norm(n) <= appzero {
		panic(ErrDegenerate)
	}
	n = r3.Unit(n)
	m := r3.Cross(n, bc)
	th := Deg2Rad(angle)
	ph := Deg2Rad(dihedral)
	dx := -bond * math.Cos(th)
	dy := bond * math.Sin(th) * math.Cos(ph)
	dz := bond * math.Sin(th) * math.Sin(ph)
	d := r3.Add(r3.Scale(dx, bc), r3.Add(r3.Scale(dy, m), r3.Scale(dz, n)))
	return r3.Add(c, d)
}

//Perpendicular returns a unit vector perpendicular to v. v must not be zero.
func Perpendicular(v r3.Vec) r3.Vec {
	//cross with the axis that is least aligned with v.
	ax := r3.Vec{X: 1}
	if math.Abs(v.X) > math.Abs(v.Y) && math.Abs(v.X) > math.Abs(v.Z) {
		ax = r3.Vec{Y: 1}
	}
	if math.Abs(v.Y) > math.Abs(v.X) && math.Abs(v.Y) >= math.Abs(v.Z) {
		ax = r3.Vec{Z: 1}
	}
	return r3.Unit(r3.Cross(v, ax))
}

//Collinear returns true if a, b and c (nearly) lie on a line.
func Collinear(a, b, c r3.Vec) bool {
	u := r3.Sub(a, b)
	v := r3.Sub(c, b)
	if r3.Norm(u) <= appzero || r3.Norm(v) <= appzero {
		return true
	}
	return r3.Norm(r3.Cross(r3.Unit(u), r3.Unit(v))) <= 1e-6
}

//tetrahedral directions, used when a point has to be placed around a center
//with no references at all.
var tetra = [4]r3.Vec{
	{X: 1, Y: 1, Z: 1},
	{X: 1, Y: -1, Z: -1},
	{X: -1, Y: 1, Z: -1},
	{X: -1, Y: -1, Z: 1},
}

//Around returns a point at distance bond from center, along the kth of a fixed set of
//tetrahedral directions (k is taken modulo 4).
func Around(center r3.Vec, bond float64, k int) r3.Vec {
	if k < 0 {
		k = -k
	}
	d := r3.Unit(tetra[k%4])
	return r3.Add(center, r3.Scale(bond, d))
}
