/*
 * matrix.go, part of psfgen.
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
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

const cols int = 3

//Matrix is a set of vectors in 3D space. Within the package it is understood
//that a "vector" is a row vector, i.e. the cartesian coordinates of a point.
type Matrix struct {
	*mat.Dense
}

//Zeros returns a zero-filled Matrix with vecs vectors and 3 in the other dimension.
func Zeros(vecs int) *Matrix {
	if vecs == 0 {
		//gonum does not allow empty matrices, so we keep a nil Dense around.
		return &Matrix{}
	}
	return &Matrix{mat.NewDense(vecs, cols, make([]float64, cols*vecs))}
}

//NewMatrix generates and returns a Matrix with 3 columns from data.
func NewMatrix(data []float64) (*Matrix, error) {
	l := len(data)
	if l%cols != 0 {
		return nil, Error{fmt.Sprintf("Input slice length %d not divisible by %d", l, cols), []string{"NewMatrix"}}
	}
	if l == 0 {
		return &Matrix{}, nil
	}
	return &Matrix{mat.NewDense(l/cols, cols, data)}, nil
}

//NVecs returns the number of vectors (rows) in the matrix.
func (F *Matrix) NVecs() int {
	if F == nil || F.Dense == nil {
		return 0
	}
	r, _ := F.Dims()
	return r
}

//SetVec puts v in the ith row of the matrix.
func (F *Matrix) SetVec(i int, v r3.Vec) {
	r := F.RawRowView(i)
	r[0], r[1], r[2] = v.X, v.Y, v.Z
}

//Array returns a copy of the ith vector as an array.
func (F *Matrix) Array(i int) [3]float64 {
	r := F.RawRowView(i)
	return [3]float64{r[0], r[1], r[2]}
}

//String returns a (not very pretty) representation of the matrix, one vector per line.
func (F *Matrix) String() string {
	n := F.NVecs()
	b := new(strings.Builder)
	for i := 0; i < n; i++ {
		r := F.RawRowView(i)
		fmt.Fprintf(b, "%8.3f %8.3f %8.3f\n", r[0], r[1], r[2])
	}
	return b.String()
}

//Errors

//Error is the error type of this package. It fulfills the Decorate convention used
//in the rest of psfgen.
type Error struct {
	message string
	deco    []string
}

//Error returns a string with an error message.
func (err Error) Error() string {
	return err.message
}

//Decorate will add the dec string to the decoration slice of strings of the error,
//and return the resulting slice.
func (err Error) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

//PanicMsg is a message used for panics, even though it does satisfy the error interface.
type PanicMsg string

func (v PanicMsg) Error() string { return string(v) }

const ErrDegenerate = PanicMsg("psfgen/v3: Reference points are collinear or coincident")
