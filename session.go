/*
 * session.go, part of psfgen.
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

package psfgen

import (
	"io"
	"log"
	"strings"

	"github.com/rmera/psfgen/alias"
	"github.com/rmera/psfgen/cfile"
	"github.com/rmera/psfgen/topo"
)

//SessionOptions are the settings of a new Session.
type SessionOptions struct {
	//AllCaps converts every residue, atom, type and patch name to upper case.
	//It can be changed with SetAllCaps only before the first topology file is loaded.
	AllCaps bool
	//Log receives the non-fatal notices of the session. nil discards them.
	Log io.Writer
	//LogFile, if not empty, is created and used instead of Log.
	//The session owns it and closes it in Close.
	LogFile string
}

//PatchRecord is a patch applied to the structure.
type PatchRecord struct {
	Name    string
	Targets []Target
	Default bool //applied automatically as a first or last patch
}

//boundIC is an internal coordinate entry from a template, with the residues its
//atoms are resolved against: the residue itself for residue templates, the targets
//for patches. Atoms are looked up by name when the coordinates are guessed.
type boundIC struct {
	ic  topo.IC
	res []*Residue
}

//Session holds the templates, the aliases and the structure being built.
//A Session must not be used from more than one goroutine at a time.
type Session struct {
	allCaps  bool
	store    *topo.Store
	aliases  *alias.Table
	log      *log.Logger
	owned    io.Closer
	segs     []*Segment
	patches  []PatchRecord
	ics      []boundIC
	topfiles []string //includes the ones named in PSF files read
	closed   bool
}

//New returns a new Session. If the log file can't be created, the
//session logs to opts.Log and the problem is reported there.
func New(opts SessionOptions) *Session {
	S := &Session{
		allCaps: opts.AllCaps,
		store:   topo.NewStore(opts.AllCaps),
		aliases: alias.New(opts.AllCaps),
	}
	w := opts.Log
	if w == nil {
		w = io.Discard
	}
	if opts.LogFile != "" {
		f, err := cfile.Create(opts.LogFile)
		if err == nil {
			w = f
			S.owned = f
		} else {
			log.New(w, "psfgen: ", 0).Printf("can't create log file %s: %v", opts.LogFile, err)
		}
	}
	S.log = log.New(w, "psfgen: ", 0)
	return S
}

//Close releases the log file owned by the session, if any. The session
//should not be used afterwards.
func (S *Session) Close() error {
	if S.closed {
		return nil
	}
	S.closed = true
	S.log.SetOutput(io.Discard)
	if S.owned != nil {
		err := S.owned.Close()
		S.owned = nil
		if err != nil {
			return wrapError(ErrState, "Close", err)
		}
	}
	return nil
}

//Logf writes a notice to the session log.
func (S *Session) Logf(format string, args ...interface{}) {
	S.log.Printf(format, args...)
}

//AllCaps returns whether names are converted to upper case.
func (S *Session) AllCaps() bool {
	return S.allCaps
}

//SetAllCaps changes the case folding of names. It fails with ErrState once
//a topology file has been loaded, or aliases defined.
func (S *Session) SetAllCaps(on bool) error {
	if on == S.allCaps {
		return nil
	}
	r, a := S.aliases.Len()
	if S.store.Len() > 0 || len(S.store.Files()) > 0 || r+a > 0 {
		return errorf(ErrState, "SetAllCaps", "case folding can't be changed after templates or aliases are loaded")
	}
	S.allCaps = on
	S.store = topo.NewStore(on)
	S.aliases = alias.New(on)
	return nil
}

func (S *Session) fold(s string) string {
	if S.allCaps {
		return strings.ToUpper(s)
	}
	return s
}

//Topology returns the template store of the session.
func (S *Session) Topology() *topo.Store {
	return S.store
}

//LoadTopology reads the topology file name. Nothing is loaded if the file has errors.
func (S *Session) LoadTopology(name string) error {
	if err := S.store.LoadFile(name); err != nil {
		return wrapError(ErrFormat, "LoadTopology", err)
	}
	S.topfiles = append(S.topfiles, name)
	S.log.Printf("read topology file %s, %d residues and %d patches in store", name, len(S.store.Residues()), len(S.store.Patches()))
	return nil
}

//LoadTopologyFrom reads a topology file from r. name is used in messages and PSF remarks.
func (S *Session) LoadTopologyFrom(r io.Reader, name string) error {
	if err := S.store.Load(r, name); err != nil {
		return wrapError(ErrFormat, "LoadTopologyFrom", err)
	}
	S.topfiles = append(S.topfiles, name)
	return nil
}

//TopologyFiles returns the topology files used by the structure: the ones loaded,
//and the ones named in PSF files read.
func (S *Session) TopologyFiles() []string {
	return append([]string(nil), S.topfiles...)
}

//AliasResidue declares alt as another name for the residue template canonical.
func (S *Session) AliasResidue(alt, canonical string) error {
	return wrapError(ErrFormat, "AliasResidue", S.aliases.AddResidue(alt, canonical))
}

//AliasAtom declares alt as another name for the atom canonical in residue resname.
func (S *Session) AliasAtom(resname, alt, canonical string) error {
	return wrapError(ErrFormat, "AliasAtom", S.aliases.AddAtom(resname, alt, canonical))
}

//Aliases returns the alias table of the session.
func (S *Session) Aliases() *alias.Table {
	return S.aliases
}

//Patches returns the patches applied to the structure. If all is false, the
//default first and last patches are left out.
func (S *Session) Patches(all bool) []PatchRecord {
	var ret []PatchRecord
	for _, v := range S.patches {
		if all || !v.Default {
			ret = append(ret, v)
		}
	}
	return ret
}

//segment returns the segment id, or nil
func (S *Session) segment(id string) *Segment {
	for _, v := range S.segs {
		if v.ID == id {
			return v
		}
	}
	return nil
}

//atoms returns all the atoms of the structure, numbered.
func (S *Session) atoms() []*Atom {
	return indexAtoms(S.segs)
}
