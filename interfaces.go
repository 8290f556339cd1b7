/*
 * interfaces.go, part of gomole.
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

package mole

import (
	v3 "github.com/Jvanrhijn/gomole/v3"
	"gonum.org/v1/gonum/mat"
)

//WaveFunction is the capability interface for a trial wavefunction. The
//sampling engine depends only on this interface, never on a concrete
//ansatz. All methods must be evaluable at the same configuration
//without additional state, and must return an error (not panic) when
//the evaluation fails numerically.
type WaveFunction interface {

	//Value returns the (signed) value of the wavefunction at cfg.
	Value(cfg *v3.Matrix) (float64, error)

	//Gradient puts the gradient of the wavefunction at cfg in grad,
	//one row per particle. grad must have the same number of vectors
	//as cfg.
	Gradient(grad, cfg *v3.Matrix) error

	//Laplacian returns the sum over particles of the second
	//derivatives of the wavefunction at cfg (not divided by the
	//wavefunction value).
	Laplacian(cfg *v3.Matrix) (float64, error)

	//NParticles returns the number of particles (rows of a valid
	//configuration) the wavefunction describes.
	NParticles() int
}

//Optimizable is implemented by wavefunctions whose variational
//parameters can be updated from VMC samples.
type Optimizable interface {
	WaveFunction

	//NParameters returns the number of variational parameters.
	NParameters() int

	//LogDerivatives puts in dst the derivative of the log of the
	//wavefunction with respect to each parameter, evaluated at cfg.
	//len(dst) must equal NParameters().
	LogDerivatives(dst []float64, cfg *v3.Matrix) error

	//Parameters returns the current parameter values. The returned
	//slice is owned by the wavefunction and must not be modified.
	Parameters() []float64

	//SetParameters replaces the parameter values.
	SetParameters(p []float64) error
}

//Operator represents an observable, typically the Hamiltonian. LocalValue
//returns the "local" value of the operator at cfg, i.e. (O psi)(cfg) /
//psi(cfg). For a Hamiltonian this is the local energy. Implementations
//must report numeric failure (a non-finite result) through the error,
//distinctly from a valid extreme value.
type Operator interface {
	LocalValue(wf WaveFunction, cfg *v3.Matrix) (float64, error)
}

//Optimizer consumes a batch of per-sample local energies and parameter
//log-derivatives collected during one VMC block and returns a parameter
//update. The rows of logderivs correspond, in order, to the entries of
//energies: both were taken at the same configuration and step.
type Optimizer interface {
	Delta(params, energies []float64, logderivs *mat.Dense) ([]float64, error)
}

//Error is the interface for errors that all packages in this library
//implement. The Decorate method allows to add and retrieve info from
//the error, without changing its type or wrapping it around something
//else. The decoration slice should contain a list of functions in the
//calling stack plus, for each function, any relevant information, or
//nothing. If passed an empty string, Decorate should just return the
//current value, not add the empty string to the slice.
type Error interface {
	Error() string
	Decorate(string) []string
}
