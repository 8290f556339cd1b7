/*
 * v3.go, part of gomole.
 *
 * Copyright 2024 The goMole Authors
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
	"math"

	"gonum.org/v1/gonum/mat"
)

//The main container. Matrix is a set of vectors in 3D space. Within the
//package it is understood that a "vector" is a row vector, i.e. the
//cartesian coordinates of one particle. The names of some functions in
//the library reflect this.
type Matrix struct {
	*mat.Dense
}

//Matrix2Dense returns the gonum Dense matrix underlying A.
func Matrix2Dense(A *Matrix) *mat.Dense {
	return A.Dense
}

//Dense2Matrix wraps a gonum Dense matrix into a Matrix. It panics if A
//does not have exactly 3 columns.
func Dense2Matrix(A *mat.Dense) *Matrix {
	_, c := A.Dims()
	if c != 3 {
		panic(ErrNotXx3Matrix)
	}
	return &Matrix{A}
}

//NewMatrix generates and returns a Matrix with 3 columns from data.
func NewMatrix(data []float64) (*Matrix, error) {
	const cols int = 3
	l := len(data)
	rows := l / cols
	if l%cols != 0 {
		return nil, Error{fmt.Sprintf("Input slice length %d not divisible by %d", l, cols), []string{"NewMatrix"}, true}
	}
	r := mat.NewDense(rows, cols, data)
	return &Matrix{r}, nil
}

//Zeros returns a zero-filled Matrix with vecs vectors and 3 columns.
//It panics if vecs is not positive.
func Zeros(vecs int) *Matrix {
	if vecs <= 0 {
		panic(ErrNotEnoughElements)
	}
	return &Matrix{mat.NewDense(vecs, 3, nil)}
}

//NVecs returns the number of vectors (rows) in the matrix.
func (F *Matrix) NVecs() int {
	r, _ := F.Dims()
	return r
}

//VecView returns a view of the ith vector of the matrix. Changes in the
//view are reflected in F and vice-versa. It panics if i is not a valid
//vector index.
func (F *Matrix) VecView(i int) *Matrix {
	if i < 0 || i >= F.NVecs() {
		panic(ErrIndexOutOfRange)
	}
	r := F.Dense.Slice(i, i+1, 0, 3).(*mat.Dense)
	return &Matrix{r}
}

//Copy returns a newly allocated copy of F.
func (F *Matrix) Copy() *Matrix {
	r := mat.DenseCopyOf(F.Dense)
	return &Matrix{r}
}

//CopyFrom copies the contents of A into the receiver. Both matrices
//must have the same number of vectors.
func (F *Matrix) CopyFrom(A *Matrix) {
	if F.NVecs() != A.NVecs() {
		panic(ErrShape)
	}
	F.Dense.Copy(A.Dense)
}

//SetVec replaces the ith vector of the receiver with the first vector
//of A. It panics if i is not a valid vector index.
func (F *Matrix) SetVec(i int, A *Matrix) {
	if i < 0 || i >= F.NVecs() {
		panic(ErrIndexOutOfRange)
	}
	for j := 0; j < 3; j++ {
		F.Set(i, j, A.At(0, j))
	}
}

//Sub puts A-B in the receiver. All matrices must have the same number
//of vectors.
func (F *Matrix) Sub(A, B *Matrix) {
	F.Dense.Sub(A.Dense, B.Dense)
}

//Add puts A+B in the receiver. All matrices must have the same number
//of vectors.
func (F *Matrix) Add(A, B *Matrix) {
	F.Dense.Add(A.Dense, B.Dense)
}

//Scale puts the matrix A scaled by v in the receiver.
func (F *Matrix) Scale(v float64, A *Matrix) {
	F.Dense.Scale(v, A.Dense)
}

//AddScaled puts A + v*B in the receiver. It is the elementary operation
//of a drift-diffusion move, x + tau*drift.
func (F *Matrix) AddScaled(A *Matrix, v float64, B *Matrix) {
	if A.NVecs() != B.NVecs() {
		panic(ErrShape)
	}
	ar := A.RawMatrix()
	br := B.RawMatrix()
	fr := F.RawMatrix()
	for i := range fr.Data {
		fr.Data[i] = ar.Data[i] + v*br.Data[i]
	}
}

//Dot returns the sum of the element-wise products of F and A, i.e. the
//Frobenius inner product of both matrices.
func (F *Matrix) Dot(A *Matrix) float64 {
	if F.NVecs() != A.NVecs() {
		panic(ErrShape)
	}
	fr := F.RawMatrix()
	ar := A.RawMatrix()
	d := 0.0
	for i, v := range fr.Data {
		d += v * ar.Data[i]
	}
	return d
}

//Norm2 returns the squared Frobenius norm of the matrix, i.e. the sum
//of the squares of all its elements.
func (F *Matrix) Norm2() float64 {
	return F.Dot(F)
}

//Norm returns the Frobenius norm of the matrix.
func (F *Matrix) Norm() float64 {
	return math.Sqrt(F.Norm2())
}

//VecNorm returns the Euclidean norm of the ith vector of the matrix,
//i.e. the distance of the ith particle from the origin.
func (F *Matrix) VecNorm(i int) float64 {
	x := F.At(i, 0)
	y := F.At(i, 1)
	z := F.At(i, 2)
	return math.Sqrt(x*x + y*y + z*z)
}

//VecDist returns the Euclidean distance between the ith vector of F and
//the jth vector of A.
func (F *Matrix) VecDist(i int, A *Matrix, j int) float64 {
	dx := F.At(i, 0) - A.At(j, 0)
	dy := F.At(i, 1) - A.At(j, 1)
	dz := F.At(i, 2) - A.At(j, 2)
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

//IsFinite returns false if any element of the matrix is NaN or an
//infinity.
func (F *Matrix) IsFinite() bool {
	fr := F.RawMatrix()
	for _, v := range fr.Data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

//Errors

//Error is the general structure for v3 errors. It fulfills mole.Error.
type Error struct {
	message  string
	deco     []string
	critical bool
}

func (err Error) Error() string {
	return fmt.Sprintf("goMole/v3 error: %s", err.message)
}

//Decorate adds new information to the error and returns the resulting
//decoration slice.
func (err Error) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

//Critical returns whether the error is critical or it can be ignored.
func (err Error) Critical() bool { return err.critical }

//PanicMsg is a message used for panics, even though it does satisfy the
//error interface. For errors use Error.
type PanicMsg string

func (v PanicMsg) Error() string { return string(v) }

const (
	ErrNotXx3Matrix      = PanicMsg("goMole/v3: A Matrix should have 3 columns")
	ErrNotEnoughElements = PanicMsg("goMole/v3: not enough elements in Matrix")
	ErrShape             = PanicMsg("goMole/v3: Dimension mismatch")
	ErrIndexOutOfRange   = PanicMsg("goMole/v3: index out of range")
)
