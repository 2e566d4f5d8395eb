/*
 * errors.go, part of psfgen.
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
	"fmt"
	"strings"
)

//Kind classifies the errors returned by a Session. The Kind values are also
//sentinel errors, so errors.Is(err, psfgen.ErrLookup) works for any error
//returned by the package.
type Kind int

const (
	//ErrFormat means malformed input: a topology, PDB or PSF file, or a bad name.
	ErrFormat Kind = iota + 1
	//ErrLookup means that a template, patch, segment, residue or atom doesn't exist.
	ErrLookup
	//ErrDuplicate means that something (segment, residue, atom, bond) already exists.
	ErrDuplicate
	//ErrArity means a patch was given the wrong number of targets.
	ErrArity
	//ErrMismatch means a companion file doesn't agree with the structure.
	ErrMismatch
	//ErrState means the operation is not allowed in the current state of the session.
	ErrState
)

var kindNames = map[Kind]string{
	ErrFormat:    "format error",
	ErrLookup:    "lookup error",
	ErrDuplicate: "duplicate error",
	ErrArity:     "arity error",
	ErrMismatch:  "mismatch error",
	ErrState:     "state error",
}

func (k Kind) Error() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown error"
}

//Error is the error type returned by Session methods. It can wrap an error from
//one of the codec packages.
type Error struct {
	kind    Kind
	message string
	err     error
	deco    []string
}

//Kind returns the class of the error.
func (err *Error) Kind() Kind {
	return err.kind
}

func (err *Error) Error() string {
	b := new(strings.Builder)
	b.WriteString("psfgen: ")
	for i := len(err.deco) - 1; i >= 0; i-- {
		b.WriteString(err.deco[i])
		b.WriteString(": ")
	}
	b.WriteString(err.message)
	if err.err != nil {
		if err.message != "" {
			b.WriteString(": ")
		}
		b.WriteString(err.err.Error())
	}
	return b.String()
}

//Unwrap returns the underlying error, if any.
func (err *Error) Unwrap() error {
	return err.err
}

//Is allows the Kind values to be used as sentinels.
func (err *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == err.kind
}

//Decorate adds the caller to the call trail of the error, and returns the trail.
func (err *Error) Decorate(caller string) []string {
	if caller != "" {
		err.deco = append(err.deco, caller)
	}
	return err.deco
}

func errorf(kind Kind, op, format string, args ...interface{}) *Error {
	return &Error{kind: kind, message: fmt.Sprintf(format, args...), deco: []string{op}}
}

//wrapError turns err, usually from a codec package, into an *Error of the given kind.
//An *Error is just decorated with op.
func wrapError(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	if e, ok := err.(*Error); ok {
		e.Decorate(op)
		return e
	}
	return &Error{kind: kind, err: err, deco: []string{op}}
}
