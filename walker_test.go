package mole

import (
	"testing"

	v3 "github.com/Jvanrhijn/gomole/v3"
)

//TestWalkerRefusesNode: a walker may not be created, or refreshed, at a
//configuration where the wavefunction vanishes.
func TestWalkerRefusesNode(Te *testing.T) {
	wf := boxWF{side: 1}
	op := constOp{e: 1}
	st := NewSource(1).Stream(0)
	cfg, _ := v3.NewMatrix([]float64{5, 0, 0}) //outside the support
	if _, err := NewWalker(wf, op, cfg, st); err == nil {
		Te.Error("NewWalker accepted a configuration on a zero of the wavefunction")
	}
	w := testWalker(Te, wf, op, NewSource(1).Stream(1), 0, 0, 0)
	w.X.Set(0, 0, 5)
	if err := w.Refresh(wf, op); err == nil {
		Te.Error("Refresh accepted a configuration on a zero of the wavefunction")
	}
}

//TestWalkerDriftInvariant checks that after construction the cached
//drift really is grad(psi)/psi at the walker's position.
func TestWalkerDriftInvariant(Te *testing.T) {
	wf := oscWF{n: 2}
	op := oscOp{}
	w := testWalker(Te, wf, op, NewSource(2).Stream(0), 0.5, -1, 0.25, 2, 0, -0.5)
	//for psi = exp(-r^2/2) the drift is simply -x
	for i := 0; i < 2; i++ {
		for j := 0; j < 3; j++ {
			want := -w.X.At(i, j)
			got := w.Drift.At(i, j)
			if diff := got - want; diff > 1e-12 || diff < -1e-12 {
				Te.Errorf("drift[%d,%d] = %v, want %v", i, j, got, want)
			}
		}
	}
}
