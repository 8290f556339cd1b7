/*
 * config.go, part of gomole.
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
	"fmt"
	"math"
	"runtime"
)

//RunConfig collects every external input of a run. It is validated once
//before sampling begins and treated as immutable afterwards: neither
//the timestep nor the block length may be adapted mid-run.
type RunConfig struct {
	//TimeStep is the imaginary-time step tau of the drift-diffusion
	//proposal and of the branching weights.
	TimeStep float64
	//StepsPerBlock is the number of Metropolis steps accumulated into
	//one block average. It is the caller's responsibility to choose it
	//long enough that block means are approximately independent; the
	//engine cannot know the correlation time a priori.
	StepsPerBlock int
	//Blocks is the number of sampling blocks (statistics kept).
	Blocks int
	//EquilBlocks is the number of equilibration blocks run before
	//sampling (statistics discarded).
	EquilBlocks int
	//TargetPop is the target number of walkers of a DMC population.
	//Ignored by pure VMC.
	TargetPop int
	//Walkers is the number of independent VMC chains. Ignored by DMC,
	//which uses TargetPop. If zero, one chain per worker is used.
	Walkers int
	//Damping is the strength of the trial-energy feedback,
	//E_trial = <E_L> - Damping*ln(N/TargetPop). Typical values are of
	//the order of 1/TimeStep times a small constant.
	Damping float64
	//EnergyCutoff bounds |E_L - E_trial| in the branching weight.
	//Clamping trades a small bias for protection against population
	//blow-up when a walker meets a near-singular local energy. Zero
	//means the default cutoff, 2/sqrt(TimeStep); a negative value
	//disables clamping altogether.
	EnergyCutoff float64
	//MaxCopies clamps the number of copies one walker can spawn in one
	//step, bounding worst-case population growth. Zero means the
	//default of 3.
	MaxCopies int
	//NewPointEstimator selects the pure new-point branching estimator
	//exp(-tau*(E_L(x') - E_trial)) instead of the default symmetrized
	//form exp(-tau*((E_L(x)+E_L(x'))/2 - E_trial)).
	NewPointEstimator bool
	//FixNodes rejects any move that changes the sign of the
	//wavefunction (fixed-node approximation for fermionic systems).
	FixNodes bool
	//Seed is the seed of the run's random source.
	Seed uint64
	//Workers is the number of goroutines advancing walkers in
	//parallel. Zero means runtime.NumCPU().
	Workers int
}

//SetDefaults fills in the defaults for a small importance-sampled run.
//The caller still has to choose TimeStep, block sizes and population
//for the system at hand.
func (o *RunConfig) SetDefaults() {
	o.TimeStep = 1e-2
	o.StepsPerBlock = 100
	o.Blocks = 100
	o.EquilBlocks = 10
	o.TargetPop = 100
	o.Damping = 1.0
	o.Seed = 1
}

//effective tunables, after zero-value substitution.

func (o *RunConfig) workers() int {
	if o.Workers <= 0 {
		return runtime.NumCPU()
	}
	return o.Workers
}

func (o *RunConfig) maxCopies() int {
	if o.MaxCopies <= 0 {
		return 3
	}
	return o.MaxCopies
}

func (o *RunConfig) energyCutoff() float64 {
	if o.EnergyCutoff < 0 {
		return math.Inf(1)
	}
	if o.EnergyCutoff == 0 {
		return 2.0 / math.Sqrt(o.TimeStep)
	}
	return o.EnergyCutoff
}

func (o *RunConfig) chains() int {
	if o.Walkers <= 0 {
		return o.workers()
	}
	return o.Walkers
}

//Validate checks the configuration and returns a non-nil error
//describing the first problem found. Drivers call it before any
//sampling begins; an invalid configuration never starts a run.
func (o *RunConfig) Validate() error {
	if o.TimeStep <= 0 || math.IsNaN(o.TimeStep) || math.IsInf(o.TimeStep, 0) {
		return CError{fmt.Sprintf("goMole: non-positive or non-finite timestep: %v", o.TimeStep), []string{"RunConfig.Validate"}}
	}
	if o.StepsPerBlock <= 0 {
		return CError{fmt.Sprintf("goMole: non-positive steps per block: %d", o.StepsPerBlock), []string{"RunConfig.Validate"}}
	}
	if o.Blocks <= 0 {
		return CError{fmt.Sprintf("goMole: non-positive number of blocks: %d", o.Blocks), []string{"RunConfig.Validate"}}
	}
	if o.EquilBlocks < 0 {
		return CError{fmt.Sprintf("goMole: negative number of equilibration blocks: %d", o.EquilBlocks), []string{"RunConfig.Validate"}}
	}
	if o.TargetPop <= 0 {
		return CError{fmt.Sprintf("goMole: non-positive target population: %d", o.TargetPop), []string{"RunConfig.Validate"}}
	}
	if o.Damping < 0 || math.IsNaN(o.Damping) {
		return CError{fmt.Sprintf("goMole: negative or non-finite damping: %v", o.Damping), []string{"RunConfig.Validate"}}
	}
	return nil
}
