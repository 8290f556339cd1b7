/*
 * branch.go, part of gomole.
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
	"sync"
)

//BranchingEngine evolves a Population by one importance-sampled
//diffusion step: a guided Metropolis sweep per walker, a branching
//weight per walker, and a stochastic replication/death pass.
//
//The propose/accept phase is embarrassingly parallel across walkers and
//runs on a pool of workers; each walker draws only from its own random
//substream, so the result does not depend on worker count or
//scheduling. Everything after the barrier (the global reductions, the
//replication pass and the trial-energy feedback) runs on the calling
//goroutine: the walker collection is never mutated concurrently.
type BranchingEngine struct {
	conf   *RunConfig
	metrop *DiffuseMetropolis
}

//NewBranchingEngine returns an engine for the given (already validated)
//configuration.
func NewBranchingEngine(conf *RunConfig) *BranchingEngine {
	return &BranchingEngine{
		conf:   conf,
		metrop: &DiffuseMetropolis{TimeStep: conf.TimeStep, FixNodes: conf.FixNodes},
	}
}

//StepStats reports one branching step.
type StepStats struct {
	//Energy is the population-weighted mean local energy after the
	//moves, with the branching weights of this step applied (the
	//growth estimator of the ground-state energy).
	Energy float64
	//ETrial is the trial energy after the feedback update.
	ETrial float64
	//Size is the population size after branching.
	Size int
	//TotalWeight is the summed branching weight before stochastic
	//rounding. Its expectation equals the post-branching size.
	TotalWeight float64
	//Accepted and Attempted count single-particle moves.
	Accepted, Attempted int
	//Recovered counts walkers whose local-energy evaluation failed
	//numerically this step and was recovered by clamping.
	Recovered int
}

//Step advances the population by one step. The returned error is nil
//unless the population collapsed, which is fatal for the run: per-step
//numeric anomalies are recovered in place by rejection and clamping.
func (b *BranchingEngine) Step(p *Population, wf WaveFunction, op Operator) (StepStats, error) {
	var stats StepStats
	if p == nil {
		return stats, CError{ErrNilPopulation, []string{"BranchingEngine.Step"}}
	}
	ws := p.Walkers()
	tau := b.conf.TimeStep
	cutoff := b.conf.energyCutoff()
	etrial := p.ETrial

	accepted := make([]int, len(ws))
	recovered := make([]bool, len(ws))

	var wg sync.WaitGroup
	idx := make(chan int)
	for k := 0; k < b.conf.workers(); k++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range idx {
				w := ws[i]
				eOld := w.ELocal
				acc, err := b.metrop.Move(w, wf, op)
				accepted[i] = acc
				e := w.ELocal
				if err != nil || math.IsNaN(e) || math.IsInf(e, 0) {
					//a failed local-energy evaluation is a local
					//anomaly: fall back to the persisted value and let
					//the clamp bound the damage
					e = eOld
					w.ELocal = eOld
					recovered[i] = true
				}
				if !b.conf.NewPointEstimator {
					//symmetrized estimator, smaller leading
					//timestep error than the new-point form
					e = 0.5 * (eOld + e)
				}
				w.Weight *= math.Exp(-tau * clamp(e-etrial, cutoff))
			}
		}()
	}
	for i := range ws {
		idx <- i
	}
	close(idx)
	wg.Wait() //barrier: branching needs every walker's weight in place

	for i, w := range ws {
		stats.Attempted += w.X.NVecs()
		stats.Accepted += accepted[i]
		if recovered[i] {
			stats.Recovered++
		}
	}
	stats.Energy = p.WeightedEnergy()
	stats.TotalWeight = p.TotalWeight()

	//stochastic rounding: floor(w+u) copies of each walker, clamped to
	//bound worst-case growth. Unbiased in expectation, so the expected
	//new size is the pre-rounding total weight.
	maxCopies := b.conf.maxCopies()
	counts := make([]int, len(ws))
	for i, w := range ws {
		m := int(math.Floor(w.Weight + w.stream.Float64()))
		if m > maxCopies {
			m = maxCopies
		}
		counts[i] = m
	}
	if err := p.replaceWith(counts); err != nil {
		return stats, errDecorate(err, "BranchingEngine.Step")
	}
	p.UpdateTrialEnergy()
	stats.ETrial = p.ETrial
	stats.Size = p.Size()
	return stats, nil
}

//clamp bounds x to [-cut, cut]. A NaN x collapses to cut, the
//pessimistic edge.
func clamp(x, cut float64) float64 {
	if math.IsNaN(x) || x > cut {
		return cut
	}
	if x < -cut {
		return -cut
	}
	return x
}
