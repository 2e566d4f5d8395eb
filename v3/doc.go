/*
 * doc.go, part of psfgen.
 *
 * Copyright 2024 The psfgen authors
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

/*Package v3 implements a Matrix type representing a row-major 3D matrix (i.e. a Nx3 matrix).
The v3.Matrix is used to hold the cartesian coordinates (or velocities) of sets of atoms in psfgen.
It is based in gonum's Dense type, with the additional restriction of a fixed number of columns.

The package also contains the internal-coordinate geometry used to build missing atoms:
placing a point from three references, a bond length, an angle and a dihedral, and
measuring angles and dihedrals. Points are gonum's r3.Vec.
*/
package v3
