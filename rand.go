/*
 * rand.go, part of gomole.
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
	xrand "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

//Every walker draws its random numbers from its own substream, derived
//deterministically from the run seed and a substream index. Substreams
//are never shared between walkers: sharing would correlate what the
//sampling assumes are independent trajectories, biasing the estimates.

//splitmix64 is the mixing function of the SplitMix64 generator (Steele,
//Lea and Flood, 2014). It is used here only to turn (seed, index) pairs
//into well-separated seeds for the PCG substreams.
func splitmix64(x uint64) uint64 {
	x += 0x9E3779B97F4A7C15
	x = (x ^ (x >> 30)) * 0xBF58476D1CE4E5B9
	x = (x ^ (x >> 27)) * 0x94D049BB133111EB
	return x ^ (x >> 31)
}

//Source is a seedable, splittable producer of independent random
//substreams. It is not safe for concurrent use: substreams are handed
//out only by the single-threaded parts of a run (initialization and the
//post-barrier branching pass), which keeps the assignment of substream
//indices deterministic for a given seed.
type Source struct {
	seed uint64
	next uint64
}

//NewSource returns a Source for the given run seed.
func NewSource(seed uint64) *Source {
	return &Source{seed: seed}
}

//Stream returns the substream with the given index. The same (seed,
//index) pair always yields the same stream, regardless of how many
//other streams have been created.
func (s *Source) Stream(index uint64) *Stream {
	sub := splitmix64(s.seed ^ splitmix64(index+1))
	if sub == 0 {
		sub = 1 //a zero state is the one thing a xorshift-style generator cannot take
	}
	rng := xrand.New(xrand.NewSource(sub))
	return &Stream{
		index: index,
		rng:   rng,
		norm:  distuv.Normal{Mu: 0, Sigma: 1, Src: rng},
	}
}

//NextStream returns the substream with the lowest index not yet handed
//out by this Source.
func (s *Source) NextStream() *Stream {
	st := s.Stream(s.next)
	s.next++
	return st
}

//Stream is one independent random substream. It must only ever be used
//by one walker, and by one goroutine at a time.
type Stream struct {
	index uint64
	rng   *xrand.Rand
	norm  distuv.Normal
}

//Index returns the substream index this stream was created with.
func (st *Stream) Index() uint64 { return st.index }

//Float64 returns a uniform draw in [0, 1).
func (st *Stream) Float64() float64 { return st.rng.Float64() }

//Norm returns a standard-normal draw.
func (st *Stream) Norm() float64 { return st.norm.Rand() }
