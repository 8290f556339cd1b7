/*
 * accumulator.go, part of gomole.
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

	"gonum.org/v1/gonum/stat"
)

//Accumulator collects one scalar sample per Metropolis step (rejected
//steps included: the persisted value counts again) and reduces them to
//block averages. Error bars are computed from the sample variance of
//the block means; with blocks much longer than the correlation time of
//the chain, block means are approximately independent and the standard
//error is unbiased despite serial correlation in the raw samples.
//
//The engine cannot detect a block length that is too short: that shows
//up only as an underestimated error bar, and choosing the length is the
//caller's responsibility.
type Accumulator struct {
	blockLen int
	sum      float64 //current block
	count    int
	tsum     float64 //whole-run raw moments
	tsum2    float64
	total    int
	blocks   []float64
}

//NewAccumulator returns an Accumulator with the given block length. It
//panics on a non-positive length, which is a programming error.
func NewAccumulator(blockLen int) *Accumulator {
	if blockLen <= 0 {
		panic("goMole: non-positive accumulator block length")
	}
	return &Accumulator{blockLen: blockLen}
}

//Add records one sample. At a block boundary the block mean is emitted
//into the block series and the running block sums reset.
func (a *Accumulator) Add(x float64) {
	a.sum += x
	a.count++
	a.tsum += x
	a.tsum2 += x * x
	a.total++
	if a.count == a.blockLen {
		a.blocks = append(a.blocks, a.sum/float64(a.blockLen))
		a.sum = 0
		a.count = 0
	}
}

//Blocks returns the block means emitted so far. The slice is owned by
//the accumulator.
func (a *Accumulator) Blocks() []float64 { return a.blocks }

//Count returns the total number of raw samples recorded.
func (a *Accumulator) Count() int { return a.total }

//Mean returns the mean over all complete blocks, or NaN if no block has
//completed.
func (a *Accumulator) Mean() float64 {
	if len(a.blocks) == 0 {
		return math.NaN()
	}
	return stat.Mean(a.blocks, nil)
}

//StdErr returns the standard error of the mean estimated from the
//block means, or NaN with fewer than two blocks.
func (a *Accumulator) StdErr() float64 {
	if len(a.blocks) < 2 {
		return math.NaN()
	}
	return stat.StdDev(a.blocks, nil) / math.Sqrt(float64(len(a.blocks)))
}

//Variance returns the raw sample variance over all recorded samples,
//ignoring blocks. For the exact eigenfunction of the sampled operator
//this is zero up to floating-point noise.
func (a *Accumulator) Variance() float64 {
	if a.total < 2 {
		return math.NaN()
	}
	n := float64(a.total)
	mean := a.tsum / n
	return (a.tsum2 - n*mean*mean) / (n - 1)
}

//Merge folds the contents of b into the receiver. Block means and raw
//moments are concatenated; b is left untouched. Both accumulators must
//have the same block length. Merging is how per-walker statistics are
//reduced into run statistics at a barrier.
func (a *Accumulator) Merge(b *Accumulator) {
	if a.blockLen != b.blockLen {
		panic("goMole: merging accumulators with different block lengths")
	}
	a.blocks = append(a.blocks, b.blocks...)
	a.tsum += b.tsum
	a.tsum2 += b.tsum2
	a.total += b.total
	//partial blocks of b are dropped: block statistics only ever
	//contain complete blocks
}

//Reset discards everything, keeping the block length.
func (a *Accumulator) Reset() {
	a.sum, a.count = 0, 0
	a.tsum, a.tsum2, a.total = 0, 0, 0
	a.blocks = a.blocks[:0]
}
