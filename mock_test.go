package mole

//Mock wavefunctions and operators for the engine tests. The harmonic
//pair is exactly solvable, so its local energy is a known constant and
//every estimator built on it can be checked to floating-point
//precision.

import (
	"math"
	"sync/atomic"
	"testing"

	v3 "github.com/Jvanrhijn/gomole/v3"
)

//oscWF is the exact ground state of n particles in an isotropic unit
//harmonic well, psi = exp(-sum_i r_i^2 / 2).
type oscWF struct{ n int }

func (o oscWF) NParticles() int { return o.n }

func (o oscWF) Value(cfg *v3.Matrix) (float64, error) {
	return math.Exp(-0.5 * cfg.Norm2()), nil
}

func (o oscWF) Gradient(grad, cfg *v3.Matrix) error {
	psi, _ := o.Value(cfg)
	grad.Scale(-psi, cfg)
	return nil
}

func (o oscWF) Laplacian(cfg *v3.Matrix) (float64, error) {
	psi, _ := o.Value(cfg)
	s := cfg.Norm2()
	return psi * (s - 3*float64(o.n)), nil
}

//oscOp is the matching Hamiltonian, -1/2 laplacian + r^2/2. Its local
//value on oscWF is exactly 1.5 per particle, everywhere.
type oscOp struct{}

func (oscOp) LocalValue(wf WaveFunction, cfg *v3.Matrix) (float64, error) {
	psi, err := wf.Value(cfg)
	if err != nil {
		return 0, err
	}
	lap, err := wf.Laplacian(cfg)
	if err != nil {
		return 0, err
	}
	return -0.5*lap/psi + 0.5*cfg.Norm2(), nil
}

//boxWF is 1 inside the cube |x|,|y|,|z| < side and 0 outside. Any
//proposal leaving the cube hits a zero of the wavefunction and must be
//rejected unconditionally.
type boxWF struct{ side float64 }

func (b boxWF) NParticles() int { return 1 }

func (b boxWF) Value(cfg *v3.Matrix) (float64, error) {
	for j := 0; j < 3; j++ {
		if math.Abs(cfg.At(0, j)) >= b.side {
			return 0, nil
		}
	}
	return 1, nil
}

func (b boxWF) Gradient(grad, cfg *v3.Matrix) error {
	grad.Scale(0, grad)
	return nil
}

func (b boxWF) Laplacian(cfg *v3.Matrix) (float64, error) { return 0, nil }

//planeWF is psi = x for a single particle, with a nodal plane at x = 0.
type planeWF struct{}

func (planeWF) NParticles() int { return 1 }

func (planeWF) Value(cfg *v3.Matrix) (float64, error) { return cfg.At(0, 0), nil }

func (planeWF) Gradient(grad, cfg *v3.Matrix) error {
	grad.Scale(0, grad)
	grad.Set(0, 0, 1)
	return nil
}

func (planeWF) Laplacian(cfg *v3.Matrix) (float64, error) { return 0, nil }

//flakyOp wraps an operator and makes a single evaluation fail, to
//exercise the anomaly-recovery path of the drivers.
type flakyOp struct {
	inner  Operator
	failAt int64
	calls  *int64
}

func (f flakyOp) LocalValue(wf WaveFunction, cfg *v3.Matrix) (float64, error) {
	if atomic.AddInt64(f.calls, 1) == f.failAt {
		return 0, CError{"goMole: local energy evaluation failed", []string{"flakyOp.LocalValue"}}
	}
	return f.inner.LocalValue(wf, cfg)
}

//constOp returns a fixed local value whatever the configuration.
type constOp struct{ e float64 }

func (c constOp) LocalValue(wf WaveFunction, cfg *v3.Matrix) (float64, error) {
	return c.e, nil
}

//testWalker builds a walker at the given coordinates without going
//through the Gaussian seeding.
func testWalker(t *testing.T, wf WaveFunction, op Operator, st *Stream, coords ...float64) *Walker {
	t.Helper()
	cfg, err := v3.NewMatrix(coords)
	if err != nil {
		t.Fatalf("bad test configuration: %v", err)
	}
	w, err := NewWalker(wf, op, cfg, st)
	if err != nil {
		t.Fatalf("NewWalker failed: %v", err)
	}
	return w
}
