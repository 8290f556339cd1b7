/*
 * walker.go, part of gomole.
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

//Walker is a single configuration sample of the sampled density, with
//the wavefunction data evaluated at that configuration cached on it. A
//Walker is owned exclusively by the Population (or VMC chain) that
//contains it; no two goroutines may touch the same Walker concurrently.
type Walker struct {
	//X is the current configuration, one particle position per row.
	X *v3.Matrix
	//Psi is the wavefunction value at X.
	Psi float64
	//ELocal is the local energy at X.
	ELocal float64
	//Drift is the drift vector grad(psi)/psi at X, one row per
	//particle.
	Drift *v3.Matrix
	//Weight is the branching weight (1 and unused for pure VMC).
	//Strictly positive while the walker is alive.
	Weight float64
	//Age counts the Metropolis steps this walker has survived,
	//including rejected ones.
	Age int

	stream *Stream
}

//NewWalker creates a walker at the given configuration, evaluating the
//wavefunction and operator there. The walker takes ownership of cfg and
//of the stream.
func NewWalker(wf WaveFunction, op Operator, cfg *v3.Matrix, st *Stream) (*Walker, error) {
	w := &Walker{
		X:      cfg,
		Drift:  v3.Zeros(cfg.NVecs()),
		Weight: 1.0,
		stream: st,
	}
	if err := w.Refresh(wf, op); err != nil {
		return nil, errDecorate(err, "NewWalker")
	}
	return w, nil
}

//Refresh re-evaluates the cached wavefunction value, drift and local
//energy at the walker's current configuration. It must be called after
//anything other than a Metropolis move changes the wavefunction (e.g. a
//parameter update by the optimizer).
func (w *Walker) Refresh(wf WaveFunction, op Operator) error {
	psi, err := wf.Value(w.X)
	if err != nil {
		return errDecorate(err, "Walker.Refresh")
	}
	if psi == 0 || math.IsNaN(psi) || math.IsInf(psi, 0) {
		return CError{ErrZeroValue, []string{"Walker.Refresh"}}
	}
	w.Psi = psi
	if err := wf.Gradient(w.Drift, w.X); err != nil {
		return errDecorate(err, "Walker.Refresh")
	}
	w.Drift.Scale(1/psi, w.Drift)
	el, err := op.LocalValue(wf, w.X)
	if err != nil {
		return errDecorate(err, "Walker.Refresh")
	}
	w.ELocal = el
	return nil
}

//Stream returns the walker's private random substream.
func (w *Walker) Stream() *Stream { return w.stream }

//Spawn returns a copy of the walker for branching: same configuration
//and cached values, weight reset to 1, age advanced by one, and its own
//fresh random substream.
func (w *Walker) Spawn(st *Stream) *Walker {
	return &Walker{
		X:      w.X.Copy(),
		Psi:    w.Psi,
		ELocal: w.ELocal,
		Drift:  w.Drift.Copy(),
		Weight: 1.0,
		Age:    w.Age + 1,
		stream: st,
	}
}
