// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import (
	"bufio"
	"io"
)

// unit holds every piece of state threaded through one assembly run,
// as fields on a per-unit context rather than package-level state, so
// that independent files assembled in the same process never
// interfere with each other.
type unit struct {
	diag         *diagnostics
	symtab       *SymbolTable
	instructions []*Instruction
	data         []*DataItem
	icf, dcf     int
}

// Result is the outcome of assembling one source unit. It is always
// returned, even when assembly failed, so a caller can still print
// diagnostics and write the `.am` artefact; HasErrors reports whether
// the remaining output artefacts should be withheld.
type Result struct {
	Expanded     []string // macro-expanded line stream, the `.am` artefact
	ICF          int
	DCF          int
	Instructions []*Instruction
	Data         []*DataItem
	Symtab       *SymbolTable

	diag *diagnostics
}

// HasErrors reports whether any error-level diagnostic was recorded
// during assembly.
func (r *Result) HasErrors() bool {
	return r.diag.hasErrors()
}

// WriteDiagnostics writes every accumulated error and warning to w, one
// per line.
func (r *Result) WriteDiagnostics(w io.Writer) {
	r.diag.writeTo(w)
}

// Assemble runs the full pipeline over one source unit read from r:
// macro collection, macro expansion, pass 1, and pass 2. Each phase
// gates the next on the unit's accumulated error flag.
func Assemble(r io.Reader) (*Result, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, err
	}

	u := &unit{diag: &diagnostics{}}

	macros, skeleton := collectMacros(lines, u.diag)
	expanded := expandMacros(skeleton, macros)

	if !u.diag.hasErrors() {
		u.pass1(expanded)
	}

	if !u.diag.hasErrors() {
		u.pass2()
	}

	result := &Result{
		Expanded:     expanded,
		ICF:          u.icf,
		DCF:          u.dcf,
		Instructions: u.instructions,
		Data:         u.data,
		Symtab:       u.symtab,
		diag:         u.diag,
	}

	if u.diag.hasErrors() {
		return result, errAssembly
	}
	return result, nil
}

// readLines reads every line of r into memory. A two-pass assembler
// needs random access to the full unit up front, since macro expansion
// can shrink or grow the line count before pass 1 ever runs.
func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), 1<<20)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}
