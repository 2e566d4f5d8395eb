/*
 * session_test.go, part of psfgen.
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
	"bytes"
	"errors"
	"strings"
	"testing"
)

const minitop = "test/top_mini.rtf"

//newSession returns a session with the test topology loaded.
func newSession(Te *testing.T) *Session {
	Te.Helper()
	S := New(SessionOptions{AllCaps: true})
	if err := S.LoadTopology(minitop); err != nil {
		Te.Fatal(err)
	}
	return S
}

func residues(pairs ...string) []ResidueSpec {
	ret := make([]ResidueSpec, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		ret = append(ret, ResidueSpec{ID: pairs[i], Name: pairs[i+1]})
	}
	return ret
}

func TestErrorKinds(Te *testing.T) {
	err := errorf(ErrLookup, "Patch", "no patch %s", "FOO")
	err.Decorate("main")
	var e error = err
	if !errors.Is(e, ErrLookup) || errors.Is(e, ErrFormat) {
		Te.Error("Kind sentinels don't match")
	}
	if e.Error() != "psfgen: main: Patch: no patch FOO" {
		Te.Errorf("unexpected message %q", e.Error())
	}
	var pe *Error
	if !errors.As(e, &pe) || pe.Kind() != ErrLookup {
		Te.Error("errors.As failed")
	}
}

func TestAllCaps(Te *testing.T) {
	S := New(SessionOptions{})
	if err := S.SetAllCaps(true); err != nil {
		Te.Fatal(err)
	}
	if err := S.LoadTopology(minitop); err != nil {
		Te.Fatal(err)
	}
	if err := S.SetAllCaps(false); !errors.Is(err, ErrState) {
		Te.Errorf("expected a state error, got %v", err)
	}
	if err := S.AddSegment("P1", SegmentOptions{Residues: residues("1", "ala", "2", "gly")}); err != nil {
		Te.Fatal(err)
	}
	if a, err := S.Atom("P1", "1", "ca"); err != nil || a.Name != "CA" {
		Te.Errorf("lower case names not converted: %v", err)
	}
}

func TestTopologyErrors(Te *testing.T) {
	S := newSession(Te)
	err := S.LoadTopologyFrom(strings.NewReader("RESI XXX 0.0\nATOM C1 CT1 0.0\nATOM C1 CT1 0.0\n"), "bad.rtf")
	if !errors.Is(err, ErrFormat) {
		Te.Errorf("expected a format error, got %v", err)
	}
	if _, ok := S.Topology().Residue("XXX"); ok {
		Te.Error("a failed load added a template")
	}
	if len(S.TopologyFiles()) != 1 {
		Te.Errorf("failed load recorded: %v", S.TopologyFiles())
	}
}

func TestLogAndClose(Te *testing.T) {
	var buf bytes.Buffer
	S := New(SessionOptions{AllCaps: true, Log: &buf})
	if err := S.LoadTopology(minitop); err != nil {
		Te.Fatal(err)
	}
	if !strings.Contains(buf.String(), "psfgen: read topology file") {
		Te.Errorf("nothing logged: %q", buf.String())
	}
	if err := S.Close(); err != nil {
		Te.Fatal(err)
	}
	n := buf.Len()
	S.Logf("after close")
	if buf.Len() != n {
		Te.Error("logged after Close")
	}
	if err := S.Close(); err != nil {
		Te.Error("a second Close should do nothing")
	}
}
