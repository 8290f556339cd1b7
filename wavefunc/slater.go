package wavefunc

import (
	"fmt"
	"math"

	mole "github.com/Jvanrhijn/gomole"
	v3 "github.com/Jvanrhijn/gomole/v3"
	"gonum.org/v1/gonum/mat"
)

//Orbital is a single-particle orbital: value, gradient and Laplacian at
//one 3D point. Orbitals are the building blocks of a Slater
//determinant.
type Orbital interface {
	Value(x []float64) float64
	//Gradient puts the gradient at x in g. len(g) and len(x) are 3.
	Gradient(g, x []float64)
	Laplacian(x []float64) float64
}

//STO is a 1s Slater-type orbital exp(-zeta*|x-center|).
type STO struct {
	Zeta   float64
	Center [3]float64
}

func (o STO) dist(x []float64) float64 {
	dx := x[0] - o.Center[0]
	dy := x[1] - o.Center[1]
	dz := x[2] - o.Center[2]
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

func (o STO) Value(x []float64) float64 {
	return math.Exp(-o.Zeta * o.dist(x))
}

func (o STO) Gradient(g, x []float64) {
	r := o.dist(x)
	v := o.Value(x)
	for j := 0; j < 3; j++ {
		g[j] = -o.Zeta * (x[j] - o.Center[j]) / r * v
	}
}

func (o STO) Laplacian(x []float64) float64 {
	r := o.dist(x)
	return (o.Zeta*o.Zeta - 2*o.Zeta/r) * o.Value(x)
}

//SlaterDeterminant is the antisymmetric product of one orbital per
//particle, det A with A_ij = phi_j(r_i). The determinant and its
//derivatives are computed through gonum's LU machinery; which particle
//is which matters here and nowhere else in the engine.
type SlaterDeterminant struct {
	orbs []Orbital
}

//NewSlaterDeterminant builds a determinant over the given orbitals, one
//per particle.
func NewSlaterDeterminant(orbs ...Orbital) (*SlaterDeterminant, error) {
	if len(orbs) == 0 {
		return nil, Error{"no orbitals given", []string{"NewSlaterDeterminant"}}
	}
	return &SlaterDeterminant{orbs: orbs}, nil
}

func (d *SlaterDeterminant) NParticles() int { return len(d.orbs) }

//matrix fills the Slater matrix A_ij = phi_j(r_i) at cfg.
func (d *SlaterDeterminant) matrix(cfg *v3.Matrix) *mat.Dense {
	n := len(d.orbs)
	A := mat.NewDense(n, n, nil)
	x := make([]float64, 3)
	for i := 0; i < n; i++ {
		for k := 0; k < 3; k++ {
			x[k] = cfg.At(i, k)
		}
		for j, orb := range d.orbs {
			A.Set(i, j, orb.Value(x))
		}
	}
	return A
}

func (d *SlaterDeterminant) Value(cfg *v3.Matrix) (float64, error) {
	var lu mat.LU
	lu.Factorize(d.matrix(cfg))
	det := lu.Det()
	if math.IsNaN(det) {
		return 0, Error{"non-finite Slater determinant", []string{"SlaterDeterminant.Value"}}
	}
	return det, nil
}

//inverse returns det A and the inverse of A, shared by Gradient and
//Laplacian through the identity d(det A)/dA_ij = det A * (A^-1)_ji.
func (d *SlaterDeterminant) inverse(cfg *v3.Matrix) (float64, *mat.Dense, error) {
	A := d.matrix(cfg)
	var lu mat.LU
	lu.Factorize(A)
	det := lu.Det()
	n := len(d.orbs)
	inv := mat.NewDense(n, n, nil)
	if err := inv.Inverse(A); err != nil {
		return 0, nil, Error{fmt.Sprintf("singular Slater matrix: %v", err), []string{"SlaterDeterminant.inverse"}}
	}
	return det, inv, nil
}

func (d *SlaterDeterminant) Gradient(grad, cfg *v3.Matrix) error {
	det, inv, err := d.inverse(cfg)
	if err != nil {
		return errDecorate(err, "SlaterDeterminant.Gradient")
	}
	n := len(d.orbs)
	x := make([]float64, 3)
	g := make([]float64, 3)
	for i := 0; i < n; i++ {
		for k := 0; k < 3; k++ {
			x[k] = cfg.At(i, k)
			grad.Set(i, k, 0)
		}
		for j, orb := range d.orbs {
			orb.Gradient(g, x)
			w := inv.At(j, i)
			for k := 0; k < 3; k++ {
				grad.Set(i, k, grad.At(i, k)+det*w*g[k])
			}
		}
	}
	return nil
}

func (d *SlaterDeterminant) Laplacian(cfg *v3.Matrix) (float64, error) {
	det, inv, err := d.inverse(cfg)
	if err != nil {
		return 0, errDecorate(err, "SlaterDeterminant.Laplacian")
	}
	n := len(d.orbs)
	x := make([]float64, 3)
	lap := 0.0
	for i := 0; i < n; i++ {
		for k := 0; k < 3; k++ {
			x[k] = cfg.At(i, k)
		}
		for j, orb := range d.orbs {
			lap += inv.At(j, i) * orb.Laplacian(x)
		}
	}
	return det * lap, nil
}

//SlaterJastrow is the product ansatz psi = D * J of a Slater
//determinant and a Jastrow correlation factor.
type SlaterJastrow struct {
	det *SlaterDeterminant
	jas *Jastrow
}

//NewSlaterJastrow combines a determinant and a Jastrow factor over the
//same number of particles.
func NewSlaterJastrow(det *SlaterDeterminant, jas *Jastrow) (*SlaterJastrow, error) {
	if det == nil || jas == nil {
		return nil, Error{"nil factor given", []string{"NewSlaterJastrow"}}
	}
	if det.NParticles() != jas.NParticles() {
		return nil, Error{"determinant and Jastrow particle counts differ", []string{"NewSlaterJastrow"}}
	}
	return &SlaterJastrow{det: det, jas: jas}, nil
}

func (s *SlaterJastrow) NParticles() int { return s.det.NParticles() }

func (s *SlaterJastrow) Value(cfg *v3.Matrix) (float64, error) {
	dv, err := s.det.Value(cfg)
	if err != nil {
		return 0, errDecorate(err, "SlaterJastrow.Value")
	}
	jv, err := s.jas.Value(cfg)
	if err != nil {
		return 0, errDecorate(err, "SlaterJastrow.Value")
	}
	return dv * jv, nil
}

func (s *SlaterJastrow) Gradient(grad, cfg *v3.Matrix) error {
	n := s.NParticles()
	gd := v3.Zeros(n)
	gj := v3.Zeros(n)
	if err := s.det.Gradient(gd, cfg); err != nil {
		return errDecorate(err, "SlaterJastrow.Gradient")
	}
	if err := s.jas.Gradient(gj, cfg); err != nil {
		return errDecorate(err, "SlaterJastrow.Gradient")
	}
	dv, err := s.det.Value(cfg)
	if err != nil {
		return errDecorate(err, "SlaterJastrow.Gradient")
	}
	jv, err := s.jas.Value(cfg)
	if err != nil {
		return errDecorate(err, "SlaterJastrow.Gradient")
	}
	//product rule: grad(DJ) = J gradD + D gradJ
	gd.Scale(jv, gd)
	gj.Scale(dv, gj)
	grad.Add(gd, gj)
	return nil
}

func (s *SlaterJastrow) Laplacian(cfg *v3.Matrix) (float64, error) {
	n := s.NParticles()
	gd := v3.Zeros(n)
	gj := v3.Zeros(n)
	if err := s.det.Gradient(gd, cfg); err != nil {
		return 0, errDecorate(err, "SlaterJastrow.Laplacian")
	}
	if err := s.jas.Gradient(gj, cfg); err != nil {
		return 0, errDecorate(err, "SlaterJastrow.Laplacian")
	}
	dv, err := s.det.Value(cfg)
	if err != nil {
		return 0, errDecorate(err, "SlaterJastrow.Laplacian")
	}
	jv, err := s.jas.Value(cfg)
	if err != nil {
		return 0, errDecorate(err, "SlaterJastrow.Laplacian")
	}
	ld, err := s.det.Laplacian(cfg)
	if err != nil {
		return 0, errDecorate(err, "SlaterJastrow.Laplacian")
	}
	lj, err := s.jas.Laplacian(cfg)
	if err != nil {
		return 0, errDecorate(err, "SlaterJastrow.Laplacian")
	}
	//lap(DJ) = J lapD + D lapJ + 2 gradD . gradJ
	return jv*ld + dv*lj + 2*gd.Dot(gj), nil
}

var _ mole.WaveFunction = (*SlaterDeterminant)(nil)
var _ mole.WaveFunction = (*SlaterJastrow)(nil)
