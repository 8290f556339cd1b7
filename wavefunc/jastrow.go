package wavefunc

import (
	"fmt"
	"math"

	mole "github.com/Jvanrhijn/gomole"
	v3 "github.com/Jvanrhijn/gomole/v3"
)

//Jastrow is a pair correlation factor
//  J = exp(sum_{i<j} u(r_ij)),  u(r) = b*r/(1+c*r)
//with variational parameters b and c. The Pade form keeps u bounded, so
//J cannot blow up at large separations; b can be chosen to satisfy the
//electron-electron cusp condition (b = 1/2 for antiparallel spins in
//Hartree units).
type Jastrow struct {
	params []float64 //b, c
	n      int
}

//NewJastrow returns a pair Jastrow factor for n particles.
func NewJastrow(n int, b, c float64) (*Jastrow, error) {
	if n <= 0 || c <= 0 {
		return nil, Error{fmt.Sprintf("bad Jastrow parameters: n=%d b=%v c=%v", n, b, c), []string{"NewJastrow"}}
	}
	return &Jastrow{params: []float64{b, c}, n: n}, nil
}

func (f *Jastrow) NParticles() int { return f.n }

func (f *Jastrow) u(r float64) float64 {
	b, c := f.params[0], f.params[1]
	return b * r / (1 + c*r)
}

func (f *Jastrow) du(r float64) float64 {
	b, c := f.params[0], f.params[1]
	d := 1 + c*r
	return b / (d * d)
}

func (f *Jastrow) ddu(r float64) float64 {
	b, c := f.params[0], f.params[1]
	d := 1 + c*r
	return -2 * b * c / (d * d * d)
}

func (f *Jastrow) logValue(cfg *v3.Matrix) (float64, error) {
	s := 0.0
	for i := 0; i < f.n; i++ {
		for j := i + 1; j < f.n; j++ {
			r := cfg.VecDist(i, cfg, j)
			if r == 0 {
				return 0, Error{fmt.Sprintf("particles %d and %d coincide", i, j), []string{"Jastrow.logValue"}}
			}
			s += f.u(r)
		}
	}
	return s, nil
}

//logGradient fills g with the gradient of ln J, one row per particle.
func (f *Jastrow) logGradient(g *v3.Matrix, cfg *v3.Matrix) error {
	g.Scale(0, g)
	for i := 0; i < f.n; i++ {
		for j := i + 1; j < f.n; j++ {
			r := cfg.VecDist(i, cfg, j)
			if r == 0 {
				return Error{fmt.Sprintf("particles %d and %d coincide", i, j), []string{"Jastrow.logGradient"}}
			}
			w := f.du(r) / r
			for k := 0; k < 3; k++ {
				d := cfg.At(i, k) - cfg.At(j, k)
				g.Set(i, k, g.At(i, k)+w*d)
				g.Set(j, k, g.At(j, k)-w*d)
			}
		}
	}
	return nil
}

func (f *Jastrow) Value(cfg *v3.Matrix) (float64, error) {
	s, err := f.logValue(cfg)
	if err != nil {
		return 0, errDecorate(err, "Jastrow.Value")
	}
	return math.Exp(s), nil
}

func (f *Jastrow) Gradient(grad, cfg *v3.Matrix) error {
	v, err := f.Value(cfg)
	if err != nil {
		return errDecorate(err, "Jastrow.Gradient")
	}
	if err := f.logGradient(grad, cfg); err != nil {
		return errDecorate(err, "Jastrow.Gradient")
	}
	grad.Scale(v, grad)
	return nil
}

func (f *Jastrow) Laplacian(cfg *v3.Matrix) (float64, error) {
	v, err := f.Value(cfg)
	if err != nil {
		return 0, errDecorate(err, "Jastrow.Laplacian")
	}
	g := v3.Zeros(f.n)
	if err := f.logGradient(g, cfg); err != nil {
		return 0, errDecorate(err, "Jastrow.Laplacian")
	}
	//lap J / J = |grad ln J|^2 + lap ln J, with
	//lap_i ln J = sum_{j != i} (u''(r_ij) + 2 u'(r_ij)/r_ij)
	lapLog := 0.0
	for i := 0; i < f.n; i++ {
		for j := i + 1; j < f.n; j++ {
			r := cfg.VecDist(i, cfg, j)
			//each pair contributes to the Laplacian of both members
			lapLog += 2 * (f.ddu(r) + 2*f.du(r)/r)
		}
	}
	return v * (g.Norm2() + lapLog), nil
}

func (f *Jastrow) NParameters() int { return 2 }

func (f *Jastrow) LogDerivatives(dst []float64, cfg *v3.Matrix) error {
	if len(dst) != 2 {
		return Error{"LogDerivatives needs a slice of length 2", []string{"Jastrow.LogDerivatives"}}
	}
	b := f.params[0]
	c := f.params[1]
	dst[0], dst[1] = 0, 0
	for i := 0; i < f.n; i++ {
		for j := i + 1; j < f.n; j++ {
			r := cfg.VecDist(i, cfg, j)
			d := 1 + c*r
			dst[0] += r / d
			dst[1] -= b * r * r / (d * d)
		}
	}
	return nil
}

func (f *Jastrow) Parameters() []float64 { return f.params }

func (f *Jastrow) SetParameters(p []float64) error {
	if len(p) != 2 || p[1] <= 0 {
		return Error{fmt.Sprintf("bad Jastrow parameters: %v", p), []string{"Jastrow.SetParameters"}}
	}
	copy(f.params, p)
	return nil
}

var _ mole.Optimizable = (*Jastrow)(nil)
