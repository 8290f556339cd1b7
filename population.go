/*
 * population.go, part of gomole.
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
	"math"

	v3 "github.com/Jvanrhijn/gomole/v3"
)

//number of guided Metropolis sweeps run per walker while building the
//starting population, before any feedback is applied
const initSweeps = 10

//Population is an ordered collection of walkers with a target size and
//a feedback-controlled trial energy. It is the unit of state of a DMC
//run: it is owned by the driver for the run's duration and mutated only
//by the branching pass and the feedback update, both single-threaded.
//The trial energy lives here, not in a package variable, so independent
//runs cannot interfere with each other.
type Population struct {
	walkers []*Walker
	target  int
	damping float64

	//ETrial is the feedback-controlled energy offset of the branching
	//weights.
	ETrial float64

	steps int
	src   *Source
}

//NewPopulation builds a starting population of conf.TargetPop walkers.
//Starting configurations are drawn from a unit Gaussian around the
//origin and then relaxed toward |psi|^2 by a few guided Metropolis
//sweeps per walker; no feedback is applied during initialization. The
//initial trial energy is the population mean local energy.
func NewPopulation(wf WaveFunction, op Operator, conf *RunConfig, src *Source) (*Population, error) {
	if wf == nil {
		return nil, CError{ErrNilWaveFunction, []string{"NewPopulation"}}
	}
	if op == nil {
		return nil, CError{ErrNilOperator, []string{"NewPopulation"}}
	}
	if err := conf.Validate(); err != nil {
		return nil, errDecorate(err, "NewPopulation")
	}
	p := &Population{
		target:  conf.TargetPop,
		damping: conf.Damping,
		src:     src,
	}
	metrop := &DiffuseMetropolis{TimeStep: conf.TimeStep, FixNodes: conf.FixNodes}
	for i := 0; i < conf.TargetPop; i++ {
		w, err := seedWalker(wf, op, p.src)
		if err != nil {
			return nil, errDecorate(err, "NewPopulation")
		}
		for s := 0; s < initSweeps; s++ {
			if _, err := metrop.Move(w, wf, op); err != nil {
				return nil, errDecorate(err, "NewPopulation")
			}
		}
		p.walkers = append(p.walkers, w)
	}
	p.ETrial = p.WeightedEnergy()
	return p, nil
}

//seedWalker draws Gaussian starting configurations until one with a
//nonzero, finite wavefunction value is found.
func seedWalker(wf WaveFunction, op Operator, src *Source) (*Walker, error) {
	const tries = 100
	var err error
	for t := 0; t < tries; t++ {
		st := src.NextStream()
		cfg := v3.Zeros(wf.NParticles())
		for i := 0; i < wf.NParticles(); i++ {
			for j := 0; j < 3; j++ {
				cfg.Set(i, j, st.Norm())
			}
		}
		var w *Walker
		w, err = NewWalker(wf, op, cfg, st)
		if err == nil {
			return w, nil
		}
	}
	return nil, errDecorate(err, "seedWalker")
}

//Size returns the current number of live walkers.
func (p *Population) Size() int { return len(p.walkers) }

//Target returns the target population size.
func (p *Population) Target() int { return p.target }

//Steps returns the number of branching steps taken so far.
func (p *Population) Steps() int { return p.steps }

//Walkers returns the live walkers. The slice is owned by the
//population; callers must not insert or remove walkers.
func (p *Population) Walkers() []*Walker { return p.walkers }

//TotalWeight returns the summed statistical weight of the population.
func (p *Population) TotalWeight() float64 {
	t := 0.0
	for _, w := range p.walkers {
		t += w.Weight
	}
	return t
}

//WeightedEnergy returns the population-weighted mean local energy. It
//is recomputed from the walkers on every call; the value is never
//cached, because a stale normalization would bias the projection.
func (p *Population) WeightedEnergy() float64 {
	num, den := 0.0, 0.0
	for _, w := range p.walkers {
		num += w.Weight * w.ELocal
		den += w.Weight
	}
	return num / den
}

//UpdateTrialEnergy applies the feedback update
//  E_trial = <E_L>_population - damping*ln(N/N_target)
//once per step. This is a proportional controller on the population
//size: overshooting the target lowers E_trial, which shrinks future
//branching weights, and vice versa. Without it the branching random
//walk grows or collapses exponentially.
func (p *Population) UpdateTrialEnergy() {
	n := float64(len(p.walkers))
	p.ETrial = p.WeightedEnergy() - p.damping*math.Log(n/float64(p.target))
}

//replaceWith rebuilds the walker slice from per-walker replication
//counts, as a single swap. counts[i] copies of walker i survive: zero
//is death, one continues the walker, more spawn fresh copies with their
//own substreams. All surviving weights are reset to one: the branching
//weight has been converted into population. Must only be called from
//the single-threaded branching pass.
func (p *Population) replaceWith(counts []int) error {
	if len(counts) != len(p.walkers) {
		panic("goMole: replication count list does not match population")
	}
	next := make([]*Walker, 0, len(p.walkers))
	for i, m := range counts {
		w := p.walkers[i]
		if m <= 0 {
			continue
		}
		w.Weight = 1.0
		next = append(next, w)
		for c := 1; c < m; c++ {
			next = append(next, w.Spawn(p.src.NextStream()))
		}
	}
	p.walkers = next
	p.steps++
	if len(p.walkers) == 0 {
		return CollapseError{step: p.steps}
	}
	return nil
}
