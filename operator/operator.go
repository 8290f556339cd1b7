/*Package operator implements Hamiltonian pieces as local-value
operators acting on a trial wavefunction: kinetic energy, ionic and
electron-electron Coulomb potentials, a harmonic well, and their
composition into an electronic Hamiltonian. Every operator returns the
"local" value (O psi)(x)/psi(x); for the Hamiltonian that is the local
energy, which has zero variance exactly when psi is an eigenfunction.

The package implements the mole.Operator interface and depends only on
the capability interfaces of the mole package, never on a concrete
ansatz.*/
package operator

import (
	"fmt"
	"math"

	mole "github.com/Jvanrhijn/gomole"
	v3 "github.com/Jvanrhijn/gomole/v3"
)

//Kinetic is the kinetic energy operator, -1/2 sum_i nabla_i^2, in units
//where hbar = m = 1. Its local value is -1/2 laplacian(psi)/psi.
type Kinetic struct{}

func (Kinetic) LocalValue(wf mole.WaveFunction, cfg *v3.Matrix) (float64, error) {
	psi, err := wf.Value(cfg)
	if err != nil {
		return 0, errDecorate(err, "Kinetic.LocalValue")
	}
	if psi == 0 {
		return 0, Error{"wavefunction value is zero", []string{"Kinetic.LocalValue"}}
	}
	lap, err := wf.Laplacian(cfg)
	if err != nil {
		return 0, errDecorate(err, "Kinetic.LocalValue")
	}
	t := -0.5 * lap / psi
	if math.IsNaN(t) || math.IsInf(t, 0) {
		return 0, Error{"non-finite local kinetic energy", []string{"Kinetic.LocalValue"}}
	}
	return t, nil
}

//IonicPotential is the electron-ion Coulomb attraction
//  V_ion = -sum_i sum_j Z_i/r_ij
//for fixed ion positions. Charges are in units of the proton charge.
type IonicPotential struct {
	ions    *v3.Matrix
	charges []int
}

//NewIonicPotential returns the ionic potential for the given ion
//positions (one row per ion) and charges.
func NewIonicPotential(ions *v3.Matrix, charges []int) (*IonicPotential, error) {
	if ions == nil || ions.NVecs() != len(charges) {
		return nil, Error{"ion positions and charges do not match", []string{"NewIonicPotential"}}
	}
	return &IonicPotential{ions: ions, charges: charges}, nil
}

func (p *IonicPotential) LocalValue(wf mole.WaveFunction, cfg *v3.Matrix) (float64, error) {
	pot := 0.0
	for i := 0; i < p.ions.NVecs(); i++ {
		for j := 0; j < cfg.NVecs(); j++ {
			r := cfg.VecDist(j, p.ions, i)
			if r == 0 {
				return 0, Error{fmt.Sprintf("electron %d sits on ion %d", j, i), []string{"IonicPotential.LocalValue"}}
			}
			pot -= float64(p.charges[i]) / r
		}
	}
	return pot, nil
}

//ElectronicPotential is the electron-electron Coulomb repulsion
//  V_ee = sum_{i<j} 1/r_ij.
//It depends on the configuration only, not on the wavefunction.
type ElectronicPotential struct{}

func (ElectronicPotential) LocalValue(wf mole.WaveFunction, cfg *v3.Matrix) (float64, error) {
	pot := 0.0
	n := cfg.NVecs()
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			r := cfg.VecDist(i, cfg, j)
			if r == 0 {
				return 0, Error{fmt.Sprintf("electrons %d and %d coincide", i, j), []string{"ElectronicPotential.LocalValue"}}
			}
			pot += 1 / r
		}
	}
	return pot, nil
}

//Harmonic is an isotropic harmonic well, V = 1/2 omega^2 sum_i r_i^2.
//Mostly useful for exactly solvable checks of the sampling machinery.
type Harmonic struct {
	Omega float64
}

func (h Harmonic) LocalValue(wf mole.WaveFunction, cfg *v3.Matrix) (float64, error) {
	return 0.5 * h.Omega * h.Omega * cfg.Norm2(), nil
}

//Hamiltonian composes operators by summing their local values. Its
//local value is the local energy of the composed Hamiltonian. A
//non-finite sum is reported as an error, distinctly from a valid
//extreme value.
type Hamiltonian struct {
	terms []mole.Operator
}

//NewHamiltonian composes the given terms.
func NewHamiltonian(terms ...mole.Operator) *Hamiltonian {
	return &Hamiltonian{terms: terms}
}

//FromIons builds the full electronic Hamiltonian (kinetic + ionic +
//electron-electron) for a molecular system with the given ion
//positions and charges.
func FromIons(ions *v3.Matrix, charges []int) (*Hamiltonian, error) {
	vion, err := NewIonicPotential(ions, charges)
	if err != nil {
		return nil, errDecorate(err, "FromIons")
	}
	return NewHamiltonian(Kinetic{}, vion, ElectronicPotential{}), nil
}

func (h *Hamiltonian) LocalValue(wf mole.WaveFunction, cfg *v3.Matrix) (float64, error) {
	e := 0.0
	for _, t := range h.terms {
		v, err := t.LocalValue(wf, cfg)
		if err != nil {
			return 0, errDecorate(err, "Hamiltonian.LocalValue")
		}
		e += v
	}
	if math.IsNaN(e) || math.IsInf(e, 0) {
		return 0, Error{"non-finite local energy", []string{"Hamiltonian.LocalValue"}}
	}
	return e, nil
}

//Errors

//Error is the error type of the operator package. It fulfills
//mole.Error.
type Error struct {
	message string
	deco    []string
}

func (err Error) Error() string {
	return fmt.Sprintf("goMole/operator: %s", err.message)
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
