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

/*
Package topo reads CHARMM-style topology files (RTF) into residue and patch
templates. It is the template store used by psfgen to build structures.

A Store is filled by one or more calls to Load or LoadFile. Templates with the
same name replace earlier ones, so the last file loaded wins. A load that fails
leaves the Store as it was.

Besides the usual RTF keywords, a template block may start with

	USES NAME

which copies every atom, bond, angle, dihedral, improper, cmap, donor, acceptor,
IC and delete entry of the earlier template NAME into the current one. Atoms
declared afterwards with an inherited name replace the inherited definition.
*/
package topo
