/*
 * metropolis.go, part of gomole.
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

//Metropolis advances one Walker by one step against the density
//|psi|^2. One step is a sweep of one attempted single-particle move per
//particle. Move returns the number of accepted single-particle moves.
//
//On acceptance the walker's configuration, wavefunction value, drift
//and (at the end of the sweep) local energy are replaced together; on
//rejection the walker is left unchanged, but its age still advances, so
//the persisted local energy counts again toward block statistics.
//A proposal at which the wavefunction evaluates to zero or to a
//non-finite value is rejected unconditionally, whatever the random
//draw: a walker must never step into a node of the wavefunction.
type Metropolis interface {
	Move(w *Walker, wf WaveFunction, op Operator) (accepted int, err error)
}

//BoxMetropolis is the simplest Metropolis sampler. The transition
//density T(x->x') is constant inside a cube of side Side centered on
//the current position and zero outside, so T is symmetric and the
//acceptance probability reduces to min(1, psi(x')^2/psi(x)^2).
type BoxMetropolis struct {
	//Side is the side of the proposal cube.
	Side float64
}

func (m *BoxMetropolis) Move(w *Walker, wf WaveFunction, op Operator) (int, error) {
	st := w.stream
	prop := w.X.Copy()
	accepted := 0
	for i := 0; i < w.X.NVecs(); i++ {
		prop.CopyFrom(w.X)
		for j := 0; j < 3; j++ {
			prop.Set(i, j, w.X.At(i, j)+(st.Float64()-0.5)*m.Side)
		}
		psi, err := wf.Value(prop)
		if err != nil || rejectable(psi) {
			continue //numeric trouble at the proposal is recovered by rejecting it
		}
		if ratio := (psi * psi) / (w.Psi * w.Psi); ratio > st.Float64() {
			w.X.CopyFrom(prop)
			w.Psi = psi
			accepted++
		}
	}
	if accepted > 0 {
		//the box proposal does not track the drift as it goes, so
		//restore the walker invariant here
		if err := wf.Gradient(w.Drift, w.X); err != nil {
			return accepted, errDecorate(err, "BoxMetropolis.Move")
		}
		w.Drift.Scale(1/w.Psi, w.Drift)
	}
	if err := finishSweep(w, wf, op, accepted); err != nil {
		return accepted, errDecorate(err, "BoxMetropolis.Move")
	}
	return accepted, nil
}

//DiffuseMetropolis is the importance-sampled drift-diffusion sampler
//used for DMC and for low-variance VMC. A particle moves as
//  x' = x + TimeStep*drift + sqrt(TimeStep)*eta
//with eta standard-normal and drift = grad(psi)/psi. The proposal is
//not symmetric, so the acceptance ratio includes the discretized
//Green's-function ratio T(x|x')/T(x'|x) evaluated with the same drift
//convention used for the proposal; leaving it out would bias the
//stationary distribution away from |psi|^2.
type DiffuseMetropolis struct {
	//TimeStep is the diffusion timestep tau.
	TimeStep float64
	//FixNodes additionally rejects moves that flip the sign of the
	//wavefunction.
	FixNodes bool
}

func (m *DiffuseMetropolis) Move(w *Walker, wf WaveFunction, op Operator) (int, error) {
	st := w.stream
	n := w.X.NVecs()
	tau := m.TimeStep
	sqtau := math.Sqrt(tau)
	prop := v3.Zeros(n)
	grad := v3.Zeros(n)
	driftProp := v3.Zeros(n)
	diff := v3.Zeros(n)
	accepted := 0
	for i := 0; i < n; i++ {
		prop.CopyFrom(w.X)
		for j := 0; j < 3; j++ {
			prop.Set(i, j, w.X.At(i, j)+tau*w.Drift.At(i, j)+sqtau*st.Norm())
		}
		psi, err := wf.Value(prop)
		if err != nil || rejectable(psi) {
			continue
		}
		if m.FixNodes && math.Signbit(psi) != math.Signbit(w.Psi) {
			continue
		}
		if err := wf.Gradient(grad, prop); err != nil || !grad.IsFinite() {
			continue
		}
		driftProp.Scale(1/psi, grad)

		//Green's-function ratio of the discretized drift-diffusion
		//kernel, exp(-|x-x'-tau*v(x')|^2/2tau) / exp(-|x'-x-tau*v(x)|^2/2tau).
		diff.Sub(w.X, prop)
		diff.AddScaled(diff, -tau, driftProp)
		fwd := diff.Norm2()
		diff.Sub(prop, w.X)
		diff.AddScaled(diff, -tau, w.Drift)
		rev := diff.Norm2()
		green := math.Exp((rev - fwd) / (2 * tau))

		if ratio := green * (psi * psi) / (w.Psi * w.Psi); ratio > st.Float64() {
			w.X.CopyFrom(prop)
			w.Psi = psi
			w.Drift.CopyFrom(driftProp)
			accepted++
		}
	}
	if err := finishSweep(w, wf, op, accepted); err != nil {
		return accepted, errDecorate(err, "DiffuseMetropolis.Move")
	}
	return accepted, nil
}

//rejectable returns true for wavefunction values that force an
//unconditional rejection.
func rejectable(psi float64) bool {
	return psi == 0 || math.IsNaN(psi) || math.IsInf(psi, 0)
}

//finishSweep closes one Metropolis step: the age advances whether or
//not anything was accepted, and the local energy is re-evaluated if the
//configuration changed.
func finishSweep(w *Walker, wf WaveFunction, op Operator, accepted int) error {
	w.Age++
	if accepted == 0 {
		return nil
	}
	el, err := op.LocalValue(wf, w.X)
	if err != nil {
		return errDecorate(err, "finishSweep")
	}
	w.ELocal = el
	return nil
}
