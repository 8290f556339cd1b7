/*Package wavefunc provides concrete trial wavefunctions for the goMole
sampling engine: simple closed-form ansatzes for atoms and model
potentials, a Slater determinant over single-particle orbitals, a pair
Jastrow correlation factor, and the Slater-Jastrow product. All of them
implement the mole.WaveFunction capability interface; those with
variational parameters also implement mole.Optimizable.

The closed-form ansatzes double as exact eigenfunctions of simple
Hamiltonians (hydrogen-like atoms, the harmonic well), which makes them
useful as zero-variance checks of the whole sampling machinery.*/
package wavefunc

import (
	"fmt"
	"math"

	mole "github.com/Jvanrhijn/gomole"
	v3 "github.com/Jvanrhijn/gomole/v3"
)

//Gaussian is the single-parameter ansatz psi = exp(-sum_i r_i^2/a^2).
type Gaussian struct {
	params []float64 //a
	n      int
}

//NewGaussian returns a Gaussian ansatz for n particles with width a.
func NewGaussian(n int, a float64) (*Gaussian, error) {
	if a <= 0 || n <= 0 {
		return nil, Error{fmt.Sprintf("bad Gaussian parameters: n=%d a=%v", n, a), []string{"NewGaussian"}}
	}
	return &Gaussian{params: []float64{a}, n: n}, nil
}

func (g *Gaussian) NParticles() int { return g.n }

func (g *Gaussian) Value(cfg *v3.Matrix) (float64, error) {
	a := g.params[0]
	return math.Exp(-cfg.Norm2() / (a * a)), nil
}

func (g *Gaussian) Gradient(grad, cfg *v3.Matrix) error {
	psi, _ := g.Value(cfg)
	a := g.params[0]
	grad.Scale(-2*psi/(a*a), cfg)
	return nil
}

func (g *Gaussian) Laplacian(cfg *v3.Matrix) (float64, error) {
	psi, _ := g.Value(cfg)
	a := g.params[0]
	s := cfg.Norm2()
	return psi * (4*s/(a*a*a*a) - 6*float64(g.n)/(a*a)), nil
}

func (g *Gaussian) NParameters() int { return 1 }

func (g *Gaussian) LogDerivatives(dst []float64, cfg *v3.Matrix) error {
	if len(dst) != 1 {
		return Error{"LogDerivatives needs a slice of length 1", []string{"Gaussian.LogDerivatives"}}
	}
	a := g.params[0]
	dst[0] = 2 * cfg.Norm2() / (a * a * a)
	return nil
}

func (g *Gaussian) Parameters() []float64 { return g.params }

func (g *Gaussian) SetParameters(p []float64) error {
	if len(p) != 1 || p[0] <= 0 {
		return Error{fmt.Sprintf("bad Gaussian parameters: %v", p), []string{"Gaussian.SetParameters"}}
	}
	g.params[0] = p[0]
	return nil
}

//Hydrogenic is the ansatz psi = prod_i exp(-z*r_i), the exact ground
//state of one electron around a charge-z nucleus at the origin (with
//energy -z^2/2) when z matches the nuclear charge.
type Hydrogenic struct {
	params []float64 //z
	n      int
}

//NewHydrogenic returns a hydrogen-like ansatz for n particles with
//effective charge z.
func NewHydrogenic(n int, z float64) (*Hydrogenic, error) {
	if z <= 0 || n <= 0 {
		return nil, Error{fmt.Sprintf("bad Hydrogenic parameters: n=%d z=%v", n, z), []string{"NewHydrogenic"}}
	}
	return &Hydrogenic{params: []float64{z}, n: n}, nil
}

func (h *Hydrogenic) NParticles() int { return h.n }

func (h *Hydrogenic) Value(cfg *v3.Matrix) (float64, error) {
	z := h.params[0]
	s := 0.0
	for i := 0; i < h.n; i++ {
		s += cfg.VecNorm(i)
	}
	return math.Exp(-z * s), nil
}

func (h *Hydrogenic) Gradient(grad, cfg *v3.Matrix) error {
	psi, _ := h.Value(cfg)
	z := h.params[0]
	for i := 0; i < h.n; i++ {
		r := cfg.VecNorm(i)
		if r == 0 {
			return Error{fmt.Sprintf("particle %d sits on the nucleus", i), []string{"Hydrogenic.Gradient"}}
		}
		for j := 0; j < 3; j++ {
			grad.Set(i, j, -z*cfg.At(i, j)/r*psi)
		}
	}
	return nil
}

func (h *Hydrogenic) Laplacian(cfg *v3.Matrix) (float64, error) {
	psi, _ := h.Value(cfg)
	z := h.params[0]
	s := 0.0
	for i := 0; i < h.n; i++ {
		r := cfg.VecNorm(i)
		if r == 0 {
			return 0, Error{fmt.Sprintf("particle %d sits on the nucleus", i), []string{"Hydrogenic.Laplacian"}}
		}
		s += z*z - 2*z/r
	}
	return psi * s, nil
}

func (h *Hydrogenic) NParameters() int { return 1 }

func (h *Hydrogenic) LogDerivatives(dst []float64, cfg *v3.Matrix) error {
	if len(dst) != 1 {
		return Error{"LogDerivatives needs a slice of length 1", []string{"Hydrogenic.LogDerivatives"}}
	}
	s := 0.0
	for i := 0; i < h.n; i++ {
		s += cfg.VecNorm(i)
	}
	dst[0] = -s
	return nil
}

func (h *Hydrogenic) Parameters() []float64 { return h.params }

func (h *Hydrogenic) SetParameters(p []float64) error {
	if len(p) != 1 || p[0] <= 0 {
		return Error{fmt.Sprintf("bad Hydrogenic parameters: %v", p), []string{"Hydrogenic.SetParameters"}}
	}
	h.params[0] = p[0]
	return nil
}

//HarmonicGround is psi = exp(-omega*sum_i r_i^2/2), the exact ground
//state of the isotropic harmonic well V = omega^2 r^2/2 with energy
//1.5*omega per particle.
type HarmonicGround struct {
	params []float64 //omega
	n      int
}

//NewHarmonicGround returns the harmonic ground-state ansatz for n
//particles and frequency omega.
func NewHarmonicGround(n int, omega float64) (*HarmonicGround, error) {
	if omega <= 0 || n <= 0 {
		return nil, Error{fmt.Sprintf("bad HarmonicGround parameters: n=%d omega=%v", n, omega), []string{"NewHarmonicGround"}}
	}
	return &HarmonicGround{params: []float64{omega}, n: n}, nil
}

func (h *HarmonicGround) NParticles() int { return h.n }

func (h *HarmonicGround) Value(cfg *v3.Matrix) (float64, error) {
	return math.Exp(-0.5 * h.params[0] * cfg.Norm2()), nil
}

func (h *HarmonicGround) Gradient(grad, cfg *v3.Matrix) error {
	psi, _ := h.Value(cfg)
	grad.Scale(-h.params[0]*psi, cfg)
	return nil
}

func (h *HarmonicGround) Laplacian(cfg *v3.Matrix) (float64, error) {
	psi, _ := h.Value(cfg)
	w := h.params[0]
	return psi * (w*w*cfg.Norm2() - 3*w*float64(h.n)), nil
}

func (h *HarmonicGround) NParameters() int { return 1 }

func (h *HarmonicGround) LogDerivatives(dst []float64, cfg *v3.Matrix) error {
	if len(dst) != 1 {
		return Error{"LogDerivatives needs a slice of length 1", []string{"HarmonicGround.LogDerivatives"}}
	}
	dst[0] = -0.5 * cfg.Norm2()
	return nil
}

func (h *HarmonicGround) Parameters() []float64 { return h.params }

func (h *HarmonicGround) SetParameters(p []float64) error {
	if len(p) != 1 || p[0] <= 0 {
		return Error{fmt.Sprintf("bad HarmonicGround parameters: %v", p), []string{"HarmonicGround.SetParameters"}}
	}
	h.params[0] = p[0]
	return nil
}

//Errors

//Error is the error type of the wavefunc package. It fulfills
//mole.Error.
type Error struct {
	message string
	deco    []string
}

func (err Error) Error() string {
	return fmt.Sprintf("goMole/wavefunc: %s", err.message)
}

//Decorate adds new information to the error and returns the resulting
//decoration slice.
func (err Error) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

//errDecorate asserts that the error implements mole.Error and decorates
//it with the caller's name before returning it.
func errDecorate(err error, caller string) error {
	err2, ok := err.(mole.Error)
	if !ok {
		return Error{err.Error(), []string{caller}}
	}
	err2.Decorate(caller)
	return err2
}

//compile-time checks that the ansatzes stay optimizable
var (
	_ mole.Optimizable = (*Gaussian)(nil)
	_ mole.Optimizable = (*Hydrogenic)(nil)
	_ mole.Optimizable = (*HarmonicGround)(nil)
)
