/*
 * main.go, part of psfgen.
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

//Psfbuild builds a molecular structure from CHARMM topology files, following
//a recipe in TOML format, and writes it as PSF, PDB and NAMD binary files.
//
//	psfbuild [-caps] [-o out.psf] [-dialect charmm] recipe.toml
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/rmera/psfgen/psf"
)

func main() {
	caps := flag.Bool("caps", false, "Convert all names to upper case, overriding the recipe")
	out := flag.String("o", "", "Write the PSF file here, overriding the recipe")
	pdbout := flag.String("pdb", "", "Write the PDB file here, overriding the recipe")
	dialect := flag.String("dialect", "", "PSF dialect, x-plor or charmm")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] recipe.toml\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	log.SetFlags(0)
	log.SetPrefix("psfbuild: ")
	R, err := ReadRecipe(flag.Arg(0))
	if err != nil {
		log.Fatal(err)
	}
	if *caps {
		R.AllCaps = true
	}
	//names given here are relative to the working directory, not to the recipe.
	for _, v := range []struct {
		flag string
		dst  *string
	}{{*out, &R.Output.PSF}, {*pdbout, &R.Output.PDB}} {
		if v.flag == "" {
			continue
		}
		if *v.dst, err = filepath.Abs(v.flag); err != nil {
			log.Fatal(err)
		}
	}
	if *dialect != "" {
		if _, err := psf.ParseDialect(*dialect); err != nil {
			log.Fatal(err)
		}
		R.Output.Dialect = *dialect
	}
	S := R.Session()
	err = R.Run(S)
	if cerr := S.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		log.Fatal(err)
	}
}
