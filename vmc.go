/*
 * vmc.go, part of gomole.
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
	"sync"
	"sync/atomic"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

//Result reports a sampling run.
type Result struct {
	//Energy is the mean local energy over all sampling blocks, and
	//Error its block-averaged standard error.
	Energy float64
	Error  float64
	//Variance is the raw sample variance of the local energy. It
	//vanishes (up to floating-point noise) when the trial wavefunction
	//is an exact eigenfunction.
	Variance float64
	//BlockEnergies holds the individual block means.
	BlockEnergies []float64
	//Acceptance is the fraction of accepted single-particle moves
	//during sampling.
	Acceptance float64
	//Recovered counts steps on which a local-energy evaluation failed
	//numerically and the persisted value was kept instead, the same way
	//a rejected move keeps it.
	Recovered int
}

//VMC runs Variational Monte Carlo: several independent Metropolis
//chains sampling |psi|^2, with local energies reduced to block
//averages. Chains are advanced in parallel; each owns its random
//substream, so a run is reproducible for a fixed seed regardless of
//worker count.
type VMC struct {
	wf     WaveFunction
	op     Operator
	metrop Metropolis
	conf   RunConfig
	src    *Source

	walkers []*Walker
	stopped atomic.Bool
}

//NewVMC validates the configuration and prepares the chains. metrop may
//be nil, in which case a DiffuseMetropolis with the configured timestep
//is used.
func NewVMC(wf WaveFunction, op Operator, metrop Metropolis, conf RunConfig) (*VMC, error) {
	if wf == nil {
		return nil, CError{ErrNilWaveFunction, []string{"NewVMC"}}
	}
	if op == nil {
		return nil, CError{ErrNilOperator, []string{"NewVMC"}}
	}
	if conf.TargetPop == 0 {
		conf.TargetPop = 1 //unused by VMC, but Validate is shared with DMC
	}
	if err := conf.Validate(); err != nil {
		return nil, errDecorate(err, "NewVMC")
	}
	if metrop == nil {
		metrop = &DiffuseMetropolis{TimeStep: conf.TimeStep, FixNodes: conf.FixNodes}
	}
	v := &VMC{wf: wf, op: op, metrop: metrop, conf: conf, src: NewSource(conf.Seed)}
	for i := 0; i < conf.chains(); i++ {
		w, err := seedWalker(wf, op, v.src)
		if err != nil {
			return nil, errDecorate(err, "NewVMC")
		}
		v.walkers = append(v.walkers, w)
	}
	return v, nil
}

//Stop makes the run return cleanly after the block in progress. It may
//be called from any goroutine.
func (v *VMC) Stop() { v.stopped.Store(true) }

//blockRecord is what one chain gathers during one block.
type blockRecord struct {
	acc       *Accumulator
	accepted  int
	recovered int
	//per-sample data for the optimizer; nil unless requested. The kth
	//row of derivs was evaluated at the same configuration and step as
	//energies[k]: the optimizer's covariance estimates depend on the
	//pairing.
	energies []float64
	derivs   []float64
}

//runBlock advances every chain by one block in parallel and returns the
//per-chain records, in chain order.
func (v *VMC) runBlock(sample bool, owf Optimizable) ([]blockRecord, error) {
	recs := make([]blockRecord, len(v.walkers))
	errs := make([]error, len(v.walkers))
	npar := 0
	if owf != nil {
		npar = owf.NParameters()
	}
	var wg sync.WaitGroup
	idx := make(chan int)
	for k := 0; k < v.conf.workers(); k++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range idx {
				w := v.walkers[i]
				rec := blockRecord{acc: NewAccumulator(v.conf.StepsPerBlock)}
				for s := 0; s < v.conf.StepsPerBlock; s++ {
					acc, err := v.metrop.Move(w, v.wf, v.op)
					if err != nil {
						//a failed evaluation at the new point is a
						//local anomaly, not a reason to lose the run:
						//the persisted local energy counts again, the
						//same way a rejection counts it
						rec.recovered++
					} else {
						rec.accepted += acc
					}
					if !sample {
						continue
					}
					rec.acc.Add(w.ELocal)
					if owf != nil {
						ld := make([]float64, npar)
						if err := owf.LogDerivatives(ld, w.X); err != nil {
							errs[i] = err
							break
						}
						rec.energies = append(rec.energies, w.ELocal)
						rec.derivs = append(rec.derivs, ld...)
					}
				}
				recs[i] = rec
			}
		}()
	}
	for i := range v.walkers {
		idx <- i
	}
	close(idx)
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, errDecorate(err, "VMC.runBlock")
		}
	}
	return recs, nil
}

//Run equilibrates and then samples, returning the reduced statistics.
func (v *VMC) Run() (*Result, error) {
	recovered := 0
	for b := 0; b < v.conf.EquilBlocks && !v.stopped.Load(); b++ {
		recs, err := v.runBlock(false, nil)
		if err != nil {
			return nil, errDecorate(err, "VMC.Run")
		}
		for _, rec := range recs {
			recovered += rec.recovered
		}
	}
	total := NewAccumulator(v.conf.StepsPerBlock)
	accepted, attempted := 0, 0
	for b := 0; b < v.conf.Blocks && !v.stopped.Load(); b++ {
		recs, err := v.runBlock(true, nil)
		if err != nil {
			return nil, errDecorate(err, "VMC.Run")
		}
		for _, rec := range recs {
			total.Merge(rec.acc)
			accepted += rec.accepted
			recovered += rec.recovered
			attempted += v.conf.StepsPerBlock * v.wf.NParticles()
		}
	}
	return &Result{
		Energy:        total.Mean(),
		Error:         total.StdErr(),
		Variance:      total.Variance(),
		BlockEnergies: total.Blocks(),
		Acceptance:    float64(accepted) / float64(attempted),
		Recovered:     recovered,
	}, nil
}

//RunOptimization alternates VMC sampling blocks with parameter updates:
//after every sampled block, the batch of (local energy, parameter
//log-derivative) pairs is handed to opt, the returned update applied,
//and the chains refreshed under the new parameters. The wavefunction
//given to NewVMC must implement Optimizable. It returns the per-block
//energies and their standard errors; the wavefunction is left holding
//the optimized parameters.
func (v *VMC) RunOptimization(opt Optimizer, iterations int) (energies, errors []float64, err error) {
	owf, ok := v.wf.(Optimizable)
	if !ok {
		return nil, nil, CError{ErrNotOptimizable, []string{"VMC.RunOptimization"}}
	}
	if opt == nil {
		return nil, nil, CError{"goMole: nil optimizer given", []string{"VMC.RunOptimization"}}
	}
	for b := 0; b < v.conf.EquilBlocks; b++ {
		if _, err := v.runBlock(false, nil); err != nil {
			return nil, nil, errDecorate(err, "VMC.RunOptimization")
		}
	}
	npar := owf.NParameters()
	for it := 0; it < iterations && !v.stopped.Load(); it++ {
		recs, err := v.runBlock(true, owf)
		if err != nil {
			return nil, nil, errDecorate(err, "VMC.RunOptimization")
		}
		block := NewAccumulator(v.conf.StepsPerBlock)
		var es []float64
		var ds []float64
		for _, rec := range recs {
			block.Merge(rec.acc)
			es = append(es, rec.energies...)
			ds = append(ds, rec.derivs...)
		}
		energies = append(energies, block.Mean())
		errors = append(errors, block.StdErr())

		derivs := mat.NewDense(len(es), npar, ds)
		delta, err := opt.Delta(owf.Parameters(), es, derivs)
		if err != nil {
			return energies, errors, errDecorate(err, "VMC.RunOptimization")
		}
		np := append([]float64(nil), owf.Parameters()...)
		floats.Add(np, delta)
		if err := owf.SetParameters(np); err != nil {
			return energies, errors, errDecorate(err, "VMC.RunOptimization")
		}
		//the cached walker state belongs to the old parameters
		for _, w := range v.walkers {
			if err := w.Refresh(v.wf, v.op); err != nil {
				return energies, errors, errDecorate(err, "VMC.RunOptimization")
			}
		}
	}
	return energies, errors, nil
}

//Walkers exposes the chains, mainly so a DMC run can start from an
//equilibrated VMC ensemble.
func (v *VMC) Walkers() []*Walker { return v.walkers }
