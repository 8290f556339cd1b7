/*Package optimize implements parameter optimizers for VMC: gradient
descent variants and stochastic reconfiguration. All consume, per
block, the batch of local energies and parameter log-derivatives
collected by the VMC driver and return a parameter update (they
implement mole.Optimizer).

The energy gradient with respect to a parameter p_k is estimated as
  g_k = 2*(<E_L O_k> - <E_L><O_k>),  O_k = dln(psi)/dp_k,
a covariance between quantities sampled at the same configurations,
which is why the driver guarantees the per-sample pairing.*/
package optimize

import (
	"fmt"

	mole "github.com/Jvanrhijn/gomole"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

//EnergyGradient estimates the gradient of the VMC energy from a batch
//of local energies and the matrix of parameter log-derivatives (one row
//per sample, one column per parameter).
func EnergyGradient(energies []float64, derivs *mat.Dense) []float64 {
	n, npar := derivs.Dims()
	emean := stat.Mean(energies, nil)
	g := make([]float64, npar)
	for k := 0; k < npar; k++ {
		ok := mat.Col(nil, k, derivs)
		cov := 0.0
		omean := stat.Mean(ok, nil)
		for s := 0; s < n; s++ {
			cov += (energies[s] - emean) * (ok[s] - omean)
		}
		g[k] = 2 * cov / float64(n)
	}
	return g
}

//SteepestDescent moves parameters against the energy gradient with a
//fixed step size.
type SteepestDescent struct {
	Step float64
}

func (o *SteepestDescent) Delta(params, energies []float64, derivs *mat.Dense) ([]float64, error) {
	if err := checkBatch(params, energies, derivs); err != nil {
		return nil, errDecorate(err, "SteepestDescent.Delta")
	}
	g := EnergyGradient(energies, derivs)
	for k := range g {
		g[k] *= -o.Step
	}
	return g, nil
}

//Momentum accumulates an exponentially damped velocity, which smooths
//the stochastic gradient across blocks.
type Momentum struct {
	Step float64
	//Eta is the momentum parameter in [0,1); zero degenerates to
	//steepest descent.
	Eta float64

	velocity []float64
}

func (o *Momentum) Delta(params, energies []float64, derivs *mat.Dense) ([]float64, error) {
	if err := checkBatch(params, energies, derivs); err != nil {
		return nil, errDecorate(err, "Momentum.Delta")
	}
	g := EnergyGradient(energies, derivs)
	if o.velocity == nil {
		o.velocity = make([]float64, len(g))
	}
	for k := range g {
		o.velocity[k] = o.Eta*o.velocity[k] - o.Step*g[k]
	}
	return append([]float64(nil), o.velocity...), nil
}

//Nesterov is momentum descent with the Nesterov lookahead correction.
type Nesterov struct {
	Step float64
	Eta  float64

	velocity []float64
}

func (o *Nesterov) Delta(params, energies []float64, derivs *mat.Dense) ([]float64, error) {
	if err := checkBatch(params, energies, derivs); err != nil {
		return nil, errDecorate(err, "Nesterov.Delta")
	}
	g := EnergyGradient(energies, derivs)
	if o.velocity == nil {
		o.velocity = make([]float64, len(g))
	}
	delta := make([]float64, len(g))
	for k := range g {
		prev := o.velocity[k]
		o.velocity[k] = o.Eta*o.velocity[k] - o.Step*g[k]
		delta[k] = -o.Eta*prev + (1+o.Eta)*o.velocity[k]
	}
	return delta, nil
}

//StochasticReconfiguration preconditions the gradient with the inverse
//of the overlap matrix
//  S_kl = <O_k O_l> - <O_k><O_l>,
//which accounts for the curvature of the parameter manifold and
//typically converges in far fewer blocks than plain descent. Shift is
//a diagonal regularization added to S before solving, needed because
//the sampled S is noisy and can be near-singular.
type StochasticReconfiguration struct {
	Step  float64
	Shift float64
}

func (o *StochasticReconfiguration) Delta(params, energies []float64, derivs *mat.Dense) ([]float64, error) {
	if err := checkBatch(params, energies, derivs); err != nil {
		return nil, errDecorate(err, "StochasticReconfiguration.Delta")
	}
	n, npar := derivs.Dims()
	g := EnergyGradient(energies, derivs)

	means := make([]float64, npar)
	for k := 0; k < npar; k++ {
		means[k] = stat.Mean(mat.Col(nil, k, derivs), nil)
	}
	S := mat.NewSymDense(npar, nil)
	for k := 0; k < npar; k++ {
		for l := k; l < npar; l++ {
			cov := 0.0
			for s := 0; s < n; s++ {
				cov += (derivs.At(s, k) - means[k]) * (derivs.At(s, l) - means[l])
			}
			cov /= float64(n)
			if k == l {
				cov += o.Shift
			}
			S.SetSym(k, l, cov)
		}
	}

	var chol mat.Cholesky
	if ok := chol.Factorize(S); !ok {
		return nil, Error{"overlap matrix is not positive definite; increase Shift", []string{"StochasticReconfiguration.Delta"}}
	}
	gv := mat.NewVecDense(npar, g)
	var sol mat.VecDense
	if err := chol.SolveVecTo(&sol, gv); err != nil {
		return nil, Error{fmt.Sprintf("overlap solve failed: %v", err), []string{"StochasticReconfiguration.Delta"}}
	}
	delta := make([]float64, npar)
	for k := 0; k < npar; k++ {
		delta[k] = -o.Step * sol.AtVec(k)
	}
	return delta, nil
}

func checkBatch(params, energies []float64, derivs *mat.Dense) error {
	if derivs == nil || len(energies) == 0 {
		return Error{"empty sample batch", []string{"checkBatch"}}
	}
	n, npar := derivs.Dims()
	if n != len(energies) {
		return Error{fmt.Sprintf("batch size mismatch: %d energies, %d derivative rows", len(energies), n), []string{"checkBatch"}}
	}
	if npar != len(params) {
		return Error{fmt.Sprintf("parameter count mismatch: %d parameters, %d derivative columns", len(params), npar), []string{"checkBatch"}}
	}
	return nil
}

//Errors

//Error is the error type of the optimize package. It fulfills
//mole.Error.
type Error struct {
	message string
	deco    []string
}

func (err Error) Error() string {
	return fmt.Sprintf("goMole/optimize: %s", err.message)
}

//Decorate adds new information to the error and returns the resulting
//decoration slice.
func (err Error) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

func errDecorate(err error, caller string) error {
	err2, ok := err.(mole.Error)
	if !ok {
		return Error{err.Error(), []string{caller}}
	}
	err2.Decorate(caller)
	return err2
}

var (
	_ mole.Optimizer = (*SteepestDescent)(nil)
	_ mole.Optimizer = (*Momentum)(nil)
	_ mole.Optimizer = (*Nesterov)(nil)
	_ mole.Optimizer = (*StochasticReconfiguration)(nil)
)
