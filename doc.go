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
Package psfgen builds molecular structures, as needed by molecular dynamics
programs, from CHARMM-style residue and patch templates.

A Session holds a template store (package topo), an alias table (package
alias) and a structure graph made of segments, residues and atoms. Segments
are built from an explicit residue list or from the residues in a PDB file,
patches add and delete atoms and bonds, and angles and dihedrals are derived
from the bonds. Coordinates can be read from PDB files or guessed from the
internal coordinate tables of the templates.

The structure is written as a PSF file, in X-PLOR or CHARMM dialect, plus PDB
and NAMD binary coordinate files. A PSF file, with its coordinates, can also
be read back into a session.

	S := psfgen.New(psfgen.SessionOptions{AllCaps: true, Log: os.Stderr})
	defer S.Close()
	if err := S.LoadTopology("top_all36_prot.rtf"); err != nil {
		log.Fatal(err)
	}
	err := S.AddSegment("PROA", psfgen.SegmentOptions{PDB: "proa.pdb"})
	...
	_, err = S.ReadCoords("proa.pdb", "PROA")
	S.GuessCoords()
	err = S.WritePSF("out.psf", psf.XPLOR)
	err = S.WritePDB("out.pdb")

A Session is not safe for concurrent use. Independent sessions can be used
from different goroutines.
*/
package psfgen
