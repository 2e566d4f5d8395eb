/*
 * pdb.go, part of psfgen.
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

//Package pdb reads and writes the ATOM/HETATM records of fixed-column
//PDB coordinate files.
package pdb

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rmera/psfgen/cfile"
)

//Record is one ATOM or HETATM line.
type Record struct {
	Het       bool
	Serial    int
	Name      string
	AltLoc    string
	ResName   string
	Chain     string
	ResID     string //sequence number followed by the insertion code, if any
	Coords    [3]float64
	Occupancy float64
	Beta      float64
	SegID     string
	Element   string
}

//Absent returns true if the record marks an atom without coordinates,
//which is written with a negative occupancy.
func (R Record) Absent() bool {
	return R.Occupancy < 0
}

//SplitResID separates a residue id like "27A" into its sequence
//number part and its insertion code.
func SplitResID(id string) (seq, icode string) {
	id = strings.TrimSpace(id)
	if len(id) > 1 {
		last := id[len(id)-1]
		if (last < '0' || last > '9') && last != '-' {
			return id[:len(id)-1], id[len(id)-1:]
		}
	}
	return id, ""
}

//field returns the trimmed columns from-to (1-based, inclusive) of line,
//or the part of them that is present.
func field(line string, from, to int) string {
	if len(line) < from {
		return ""
	}
	if len(line) < to {
		to = len(line)
	}
	return strings.TrimSpace(line[from-1 : to])
}

func parseRecord(line string) (Record, error) {
	var err error
	r := Record{Het: strings.HasPrefix(line, "HETATM")}
	if len(line) < 54 {
		return r, fmt.Errorf("record too short (%d characters)", len(line))
	}
	//Large files use hexadecimal or asterisks here, and the serial is
	//not needed to read the coordinates.
	r.Serial, _ = strconv.Atoi(field(line, 7, 11))
	r.Name = field(line, 13, 16)
	r.AltLoc = field(line, 17, 17)
	r.ResName = field(line, 18, 21)
	r.Chain = field(line, 22, 22)
	r.ResID = field(line, 23, 26) + field(line, 27, 27)
	if r.Name == "" || r.ResName == "" || r.ResID == "" {
		return r, fmt.Errorf("missing atom name, residue name or residue number")
	}
	for i := 0; i < 3; i++ {
		from := 31 + 8*i
		r.Coords[i], err = strconv.ParseFloat(field(line, from, from+7), 64)
		if err != nil {
			return r, fmt.Errorf("can't read coordinate %d: %w", i, err)
		}
	}
	if s := field(line, 55, 60); s != "" {
		if r.Occupancy, err = strconv.ParseFloat(s, 64); err != nil {
			return r, fmt.Errorf("can't read occupancy: %w", err)
		}
	}
	if s := field(line, 61, 66); s != "" {
		if r.Beta, err = strconv.ParseFloat(s, 64); err != nil {
			return r, fmt.Errorf("can't read B-factor: %w", err)
		}
	}
	r.SegID = field(line, 73, 76)
	r.Element = field(line, 77, 78)
	return r, nil
}

//Read reads the ATOM and HETATM records of the first model in r.
//Every other record is ignored. name is only used in error messages.
func Read(r io.Reader, name string) ([]Record, error) {
	ret := make([]Record, 0, 1000)
	sc := bufio.NewScanner(r)
	for lineno := 1; sc.Scan(); lineno++ {
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.HasPrefix(line, "END") {
			break //END and ENDMDL
		}
		if !strings.HasPrefix(line, "ATOM") && !strings.HasPrefix(line, "HETATM") {
			continue
		}
		rec, err := parseRecord(line)
		if err != nil {
			return nil, Error{message: err.Error(), filename: name, line: lineno, deco: []string{"Read"}}
		}
		ret = append(ret, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, Error{message: err.Error(), filename: name, deco: []string{"Read"}}
	}
	return ret, nil
}

//ReadFile reads the PDB file name. Files ending in .zst are decompressed.
func ReadFile(name string) ([]Record, error) {
	f, err := cfile.Open(name)
	if err != nil {
		return nil, Error{message: err.Error(), filename: name, deco: []string{"ReadFile"}}
	}
	defer f.Close()
	return Read(f, name)
}

//fits formats n in width decimal digits, or in hexadecimal if it doesn't
//fit, or fills the field with asterisks.
func fits(n, width int) string {
	s := strconv.Itoa(n)
	if len(s) <= width {
		return s
	}
	s = strconv.FormatInt(int64(n), 16)
	if len(s) <= width {
		return s
	}
	return strings.Repeat("*", width)
}

//pdbName puts names shorter than 4 characters in column 14, as is customary.
func pdbName(name string) string {
	if len(name) < 4 {
		return " " + name
	}
	return name
}

//FormatRecord returns the PDB line for r, without the newline.
func FormatRecord(r Record) string {
	first := "ATOM"
	if r.Het {
		first = "HETATM"
	}
	seq, icode := SplitResID(r.ResID)
	if len(seq) > 4 {
		if n, err := strconv.Atoi(seq); err == nil {
			seq = fits(n, 4)
		}
	}
	return fmt.Sprintf("%-6s%5s %-4s%1s%-4s%1s%4s%1s   %8.3f%8.3f%8.3f%6.2f%6.2f      %-4s%2s",
		first, fits(r.Serial, 5), pdbName(r.Name), r.AltLoc, r.ResName, r.Chain, seq, icode,
		r.Coords[0], r.Coords[1], r.Coords[2], r.Occupancy, r.Beta, r.SegID, r.Element)
}

//Write writes the records to w, preceded by the given remarks, and followed by an END line.
func Write(w io.Writer, recs []Record, remarks ...string) error {
	bw := bufio.NewWriter(w)
	for _, v := range remarks {
		fmt.Fprintf(bw, "REMARK %s\n", v)
	}
	for _, v := range recs {
		if len(v.Name) > 4 || len(v.ResName) > 4 || len(v.SegID) > 4 {
			return Error{message: fmt.Sprintf("names of atom %d %s:%s too long for PDB format", v.Serial, v.ResName, v.Name), deco: []string{"Write"}}
		}
		bw.WriteString(FormatRecord(v))
		bw.WriteByte('\n')
	}
	bw.WriteString("END\n")
	if err := bw.Flush(); err != nil {
		return Error{message: err.Error(), deco: []string{"Write"}}
	}
	return nil
}

//WriteFile writes the records to the file name, compressing it if name ends in .zst.
func WriteFile(name string, recs []Record, remarks ...string) error {
	f, err := cfile.Create(name)
	if err != nil {
		return Error{message: err.Error(), filename: name, deco: []string{"WriteFile"}}
	}
	err = Write(f, recs, remarks...)
	if err2 := f.Close(); err == nil && err2 != nil {
		err = Error{message: err2.Error(), filename: name, deco: []string{"WriteFile"}}
	}
	return err
}

//Run is a set of contiguous records with the same residue id, name and chain.
//Records[Start:End] belong to the run.
type Run struct {
	ResID   string
	ResName string
	Chain   string
	Start   int
	End     int
}

//Runs groups the records in residues.
func Runs(recs []Record) []Run {
	var ret []Run
	for i, v := range recs {
		if n := len(ret); n > 0 {
			last := &ret[n-1]
			if last.ResID == v.ResID && last.ResName == v.ResName && last.Chain == v.Chain {
				last.End = i + 1
				continue
			}
		}
		ret = append(ret, Run{ResID: v.ResID, ResName: v.ResName, Chain: v.Chain, Start: i, End: i + 1})
	}
	return ret
}

//Error is returned for malformed PDB records and I/O problems.
type Error struct {
	message  string
	filename string
	line     int
	deco     []string
}

func (err Error) Error() string {
	switch {
	case err.line > 0:
		return fmt.Sprintf("pdb file %s, line %d: %s", err.filename, err.line, err.message)
	case err.filename != "":
		return fmt.Sprintf("pdb file %s: %s", err.filename, err.message)
	}
	return "pdb: " + err.message
}

//FileName returns the name of the file where the error happened.
func (err Error) FileName() string { return err.filename }

//Line returns the line where the error happened, or 0.
func (err Error) Line() int { return err.line }

//Decorate adds caller to the error's call trail and returns the trail.
func (err Error) Decorate(caller string) []string {
	if caller != "" {
		err.deco = append(err.deco, caller)
	}
	return err.deco
}
