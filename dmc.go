/*
 * dmc.go, part of gomole.
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
	"sync/atomic"
)

//DMCResult reports a Diffusion Monte Carlo run.
type DMCResult struct {
	Result
	//TrialEnergies and Sizes trace the feedback state at every block
	//boundary during sampling.
	TrialEnergies []float64
	Sizes         []int
}

//DMC projects a population of walkers toward the ground state by an
//importance-sampled branching random walk. The run has three
//time-based phases: initialization (building a |psi|^2-distributed
//population, no feedback), equilibration (feedback active, statistics
//discarded) and sampling (feedback active, statistics accumulated).
//There is no automatic convergence detection; the configured step
//counts rule.
type DMC struct {
	wf     WaveFunction
	op     Operator
	conf   RunConfig
	pop    *Population
	engine *BranchingEngine
	src    *Source

	stopped atomic.Bool
}

//NewDMC validates the configuration and builds the starting population.
func NewDMC(wf WaveFunction, op Operator, conf RunConfig) (*DMC, error) {
	if wf == nil {
		return nil, CError{ErrNilWaveFunction, []string{"NewDMC"}}
	}
	if op == nil {
		return nil, CError{ErrNilOperator, []string{"NewDMC"}}
	}
	if err := conf.Validate(); err != nil {
		return nil, errDecorate(err, "NewDMC")
	}
	src := NewSource(conf.Seed)
	pop, err := NewPopulation(wf, op, &conf, src)
	if err != nil {
		return nil, errDecorate(err, "NewDMC")
	}
	d := &DMC{
		wf:     wf,
		op:     op,
		conf:   conf,
		pop:    pop,
		src:    src,
		engine: NewBranchingEngine(&conf),
	}
	return d, nil
}

//Population returns the run's population.
func (d *DMC) Population() *Population { return d.pop }

//SetTrialEnergy seeds the feedback with an external estimate, typically
//the result of a preceding VMC optimization. Must be called before Run.
func (d *DMC) SetTrialEnergy(e float64) { d.pop.ETrial = e }

//Stop makes the run return cleanly after the step and block in
//progress. It may be called from any goroutine; there is no mid-step
//cancellation.
func (d *DMC) Stop() { d.stopped.Store(true) }

//Step advances the population by a single branching step.
func (d *DMC) Step() (StepStats, error) {
	stats, err := d.engine.Step(d.pop, d.wf, d.op)
	if err != nil {
		return stats, errDecorate(err, "DMC.Step")
	}
	return stats, nil
}

//Run equilibrates and samples per the configuration. The projected
//ground-state energy estimate is the block-averaged, population-weighted
//mean local energy. A population collapse aborts the run with a
//CollapseError: the projection has failed and is not restarted
//silently.
func (d *DMC) Run() (*DMCResult, error) {
	res := &DMCResult{}
	for s := 0; s < d.conf.EquilBlocks*d.conf.StepsPerBlock; s++ {
		stats, err := d.engine.Step(d.pop, d.wf, d.op)
		if err != nil {
			return nil, errDecorate(err, "DMC.Run")
		}
		res.Recovered += stats.Recovered
		if d.stopped.Load() && (s+1)%d.conf.StepsPerBlock == 0 {
			return nil, CError{"goMole: run stopped during equilibration", []string{"DMC.Run"}}
		}
	}
	acc := NewAccumulator(d.conf.StepsPerBlock)
	accepted, attempted := 0, 0
	for b := 0; b < d.conf.Blocks && !d.stopped.Load(); b++ {
		for s := 0; s < d.conf.StepsPerBlock; s++ {
			stats, err := d.engine.Step(d.pop, d.wf, d.op)
			if err != nil {
				return nil, errDecorate(err, "DMC.Run")
			}
			acc.Add(stats.Energy)
			accepted += stats.Accepted
			attempted += stats.Attempted
			res.Recovered += stats.Recovered
		}
		res.TrialEnergies = append(res.TrialEnergies, d.pop.ETrial)
		res.Sizes = append(res.Sizes, d.pop.Size())
	}
	res.Energy = acc.Mean()
	res.Error = acc.StdErr()
	res.Variance = acc.Variance()
	res.BlockEnergies = acc.Blocks()
	res.Acceptance = float64(accepted) / float64(attempted)
	return res, nil
}
