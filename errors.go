/*
 * errors.go, part of gomole.
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

import "fmt"

//CError is the concrete error type of the mole package. It fulfills
//the Error interface.
type CError struct {
	msg  string
	deco []string
}

func (err CError) Error() string { return err.msg }

//Decorate adds new information to the error and returns the resulting
//decoration slice.
func (err CError) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

//errDecorate asserts that the error implements Error and decorates it
//with the caller's name before returning it. Used with an error of any
//other type, it will wrap it into a CError first.
func errDecorate(err error, caller string) error {
	err2, ok := err.(Error)
	if !ok {
		err2 = CError{err.Error(), []string{caller}}
		return err2
	}
	err2.Decorate(caller)
	return err2
}

//CollapseError reports that a DMC population reached zero live walkers.
//The projection has failed: this error is fatal for the run and is
//surfaced to the caller, never recovered internally. It fulfills the
//Error interface.
type CollapseError struct {
	step int
	deco []string
}

func (err CollapseError) Error() string {
	return fmt.Sprintf("goMole: population collapsed to zero walkers at step %d", err.step)
}

//Decorate adds new information to the error and returns the resulting
//decoration slice.
func (err CollapseError) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

//Step returns the global step at which the population died.
func (err CollapseError) Step() int { return err.step }

//Messages for the errors emitted by this package.
const (
	ErrNilWaveFunction = "goMole: nil wavefunction given"
	ErrNilOperator     = "goMole: nil operator given"
	ErrNilPopulation   = "goMole: nil population given"
	ErrNotOptimizable  = "goMole: wavefunction does not expose variational parameters"
	ErrZeroValue       = "goMole: wavefunction value is zero or not finite at the given configuration"
)
