package v3

import (
	"math"
	"testing"
)

func TestNewMatrix(Te *testing.T) {
	A, err := NewMatrix([]float64{1, 2, 3, 4, 5, 6})
	if err != nil {
		Te.Fatal(err)
	}
	if A.NVecs() != 2 {
		Te.Errorf("NVecs %d, want 2", A.NVecs())
	}
	if A.At(1, 2) != 6 {
		Te.Errorf("At(1,2) = %v, want 6", A.At(1, 2))
	}
	if _, err := NewMatrix([]float64{1, 2, 3, 4}); err == nil {
		Te.Error("a slice of length 4 was accepted as a set of 3D vectors")
	}
}

func TestVecViewAliases(Te *testing.T) {
	A := Zeros(3)
	v := A.VecView(1)
	v.Set(0, 2, 7)
	if A.At(1, 2) != 7 {
		Te.Error("VecView does not alias the parent matrix")
	}
}

func TestCopyIsDeep(Te *testing.T) {
	A, _ := NewMatrix([]float64{1, 2, 3})
	B := A.Copy()
	B.Set(0, 0, 9)
	if A.At(0, 0) != 1 {
		Te.Error("Copy shares backing storage with the original")
	}
	C := Zeros(1)
	C.CopyFrom(A)
	if C.At(0, 1) != 2 {
		Te.Errorf("CopyFrom got %v, want 2", C.At(0, 1))
	}
	defer func() {
		if recover() == nil {
			Te.Error("CopyFrom between mismatched shapes did not panic")
		}
	}()
	Zeros(2).CopyFrom(A)
}

func TestArithmetic(Te *testing.T) {
	A, _ := NewMatrix([]float64{1, 2, 3})
	B, _ := NewMatrix([]float64{4, -5, 6})
	C := Zeros(1)
	C.Add(A, B)
	if C.At(0, 0) != 5 || C.At(0, 1) != -3 || C.At(0, 2) != 9 {
		Te.Errorf("Add gave %v", C.RawMatrix().Data)
	}
	C.Sub(A, B)
	if C.At(0, 0) != -3 || C.At(0, 1) != 7 || C.At(0, 2) != -3 {
		Te.Errorf("Sub gave %v", C.RawMatrix().Data)
	}
	C.AddScaled(A, 2, B)
	if C.At(0, 0) != 9 || C.At(0, 1) != -8 || C.At(0, 2) != 15 {
		Te.Errorf("AddScaled gave %v", C.RawMatrix().Data)
	}
	C.Scale(3, A)
	if C.At(0, 2) != 9 {
		Te.Errorf("Scale gave %v", C.RawMatrix().Data)
	}
	if d := A.Dot(B); d != 1*4-2*5+3*6 {
		Te.Errorf("Dot gave %v, want 12", d)
	}
}

func TestNorms(Te *testing.T) {
	A, _ := NewMatrix([]float64{3, 4, 0, 0, 0, 12})
	if n := A.Norm2(); n != 9+16+144 {
		Te.Errorf("Norm2 %v, want 169", n)
	}
	if n := A.Norm(); n != 13 {
		Te.Errorf("Norm %v, want 13", n)
	}
	if n := A.VecNorm(0); n != 5 {
		Te.Errorf("VecNorm(0) = %v, want 5", n)
	}
	B, _ := NewMatrix([]float64{0, 0, 0})
	if d := A.VecDist(0, B, 0); d != 5 {
		Te.Errorf("VecDist %v, want 5", d)
	}
}

func TestSetVec(Te *testing.T) {
	A := Zeros(2)
	B, _ := NewMatrix([]float64{1, 2, 3})
	A.SetVec(1, B)
	if A.At(1, 0) != 1 || A.At(1, 2) != 3 {
		Te.Errorf("SetVec gave %v", A.RawMatrix().Data)
	}
	if A.At(0, 0) != 0 {
		Te.Error("SetVec touched a vector it should not have")
	}
}

func TestPanicsOnBadIndex(Te *testing.T) {
	A := Zeros(2)
	B, _ := NewMatrix([]float64{1, 2, 3})
	for _, bad := range []func(){
		func() { A.VecView(2) },
		func() { A.VecView(-1) },
		func() { A.SetVec(2, B) },
	} {
		func() {
			defer func() {
				if r := recover(); r != ErrIndexOutOfRange {
					Te.Errorf("bad vector index gave %v, want %v", r, ErrIndexOutOfRange)
				}
			}()
			bad()
		}()
	}
}

func TestZerosRejectsEmpty(Te *testing.T) {
	defer func() {
		if r := recover(); r != ErrNotEnoughElements {
			Te.Errorf("Zeros(0) gave %v, want %v", r, ErrNotEnoughElements)
		}
	}()
	Zeros(0)
}

func TestIsFinite(Te *testing.T) {
	A, _ := NewMatrix([]float64{1, 2, 3})
	if !A.IsFinite() {
		Te.Error("a finite matrix reported as non-finite")
	}
	A.Set(0, 1, math.NaN())
	if A.IsFinite() {
		Te.Error("a NaN went unnoticed")
	}
	A.Set(0, 1, math.Inf(-1))
	if A.IsFinite() {
		Te.Error("an infinity went unnoticed")
	}
}

func TestDense2Matrix(Te *testing.T) {
	A, _ := NewMatrix([]float64{1, 2, 3})
	D := Matrix2Dense(A)
	B := Dense2Matrix(D)
	if B.At(0, 1) != 2 {
		Te.Errorf("round trip gave %v, want 2", B.At(0, 1))
	}
}
