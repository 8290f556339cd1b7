/*
 * doc.go, part of gomole.
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

/*Package v3 implements a Matrix type representing a row-major Nx3 matrix.
The v3.Matrix is used to represent the cartesian coordinates of a set of
particles in goMole: each row is the position of one particle in 3D space.
It is based on gonum's (gonum.org/v1/gonum/mat) Dense type, with some
additional restrictions because of the fixed number of columns and with
some additional functions that were found useful for Monte Carlo moves
(per-particle views and norms, scaled additions for drift vectors,
finiteness checks).
*/
package v3
