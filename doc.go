/*
 * doc.go, part of gomole.
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

/*Package mole is the main package of the goMole library. It implements the
stochastic sampling engine for ground-state quantum Monte Carlo: a
Metropolis-Hastings driver for Variational Monte Carlo (VMC) and a
branching random walk with feedback population control for Diffusion
Monte Carlo (DMC).


	**goMole capabilities**

    Samples |psi|^2 for an arbitrary trial wavefunction with either a
	symmetric box proposal or an importance-sampled drift-diffusion
	proposal, including the exact discretized Green's-function ratio in
	the acceptance probability.

    Accumulates local-energy samples into block averages and computes
	autocorrelation-aware error bars by block averaging.

    Evolves a dynamically-sized population of weighted walkers under a
	feedback-controlled trial energy, with stochastic replication and
	death (branching), weight clamping against near-singular local
	energies, and statistically correct energy estimation.

    Runs the propose/accept phase of each step in parallel across
	walkers, each walker with its own deterministic random substream, so
	results are reproducible for a fixed seed regardless of the number
	of workers.

    Optimizes wavefunction parameters from VMC samples through the
	optimize subpackage (steepest descent, momentum methods, stochastic
	reconfiguration).

The engine is ansatz-agnostic: it depends only on the WaveFunction and
Operator interfaces defined here. Concrete trial wavefunctions live in
the wavefunc subpackage and Hamiltonian pieces in the operator
subpackage; neither is imported by this package.

Throughout, natural (Hartree-like) units are assumed: the unit of energy
is whatever the Operator collaborator returns, and the timestep is in
the corresponding inverse-energy unit.
*/
package mole
