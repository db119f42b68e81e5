// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

// MemoryStart is the address at which the instruction counter begins.
// The data counter always begins at zero and is relocated past the
// final instruction counter once pass 1 completes.
const MemoryStart = 100

// MaxLabelLen is the maximum number of characters in a symbol or macro
// name.
const MaxLabelLen = 30

// maxLineLength is the longest source line the assembler accepts.
const maxLineLength = 80

// Signed immediate/data literal range.
const (
	MinValue = -512
	MaxValue = 511
)

// SymType identifies the role a Symbol plays in the symbol table.
type SymType int

const (
	SymCode SymType = iota
	SymData
	SymExternal
	SymEntry
)

func (t SymType) String() string {
	switch t {
	case SymCode:
		return "code"
	case SymData:
		return "data"
	case SymExternal:
		return "external"
	case SymEntry:
		return "entry"
	default:
		return "?"
	}
}

// entryBound tracks whether an entry symbol's address has been bound to
// a locally-defined code/data symbol yet. A forward-declared .entry
// creates a placeholder, modeled as an explicit variant rather than
// overloading address zero.
type entryBound int

const (
	entryPlaceholder entryBound = iota // .entry seen, local definition not yet seen
	entryBoundToLocal
)

// Symbol is an entry in the symbol table.
type Symbol struct {
	Name    string
	Addr    int
	Type    SymType
	Line    int // source line of first declaration, for diagnostics
	bound   entryBound
	externs []int // addresses where this external symbol is referenced, in source order
}

// Externs returns the recorded usage addresses of an external symbol, in
// the order they were recorded.
func (s *Symbol) Externs() []int {
	return s.externs
}

// AddrMode is the lexical addressing-mode classification of an operand,
// parsed once during pass 1 and reused unchanged by pass 2 rather than
// re-parsed from strings.
type AddrMode int

const (
	ModeImmediate AddrMode = iota
	ModeDirect
	ModeMatrix
	ModeRegister
)

func (m AddrMode) String() string {
	switch m {
	case ModeImmediate:
		return "immediate"
	case ModeDirect:
		return "direct"
	case ModeMatrix:
		return "matrix"
	case ModeRegister:
		return "register"
	default:
		return "?"
	}
}

// Operand is a fully parsed instruction operand, reusable verbatim in
// pass 2 without touching the original source text again.
type Operand struct {
	Mode  AddrMode
	Text  fstring // raw trimmed operand text, kept for diagnostics
	Value int     // ModeImmediate: the signed literal value
	Label string  // ModeDirect, ModeMatrix: the referenced label
	Reg   int     // ModeRegister: the register number (0-7)
	Row   int     // ModeMatrix: row index register number (0-7)
	Col   int     // ModeMatrix: column index register number (0-7)
}

// Instruction is a fully classified, length-accounted instruction,
// placed at its address in pass 1 and awaiting encoding in pass 2.
type Instruction struct {
	Line   int // source line number
	Addr   int // absolute address, assigned at emission (pass 1)
	Opcode string
	Ops    []Operand
	Length int // length in words, 1-5

	// Populated by pass 2.
	Words []int // opcode word followed by 0-4 operand words
}

// DataItem is a single data word produced by .data, .string, or .mat.
// Addr is the final address, computed as ICF + offset once relocation
// has happened (ICF already counts from MemoryStart).
type DataItem struct {
	Addr  int
	Value int // signed value that produced this word
}

// Macro is a named, ordered sequence of body lines.
type Macro struct {
	Name string
	Body []string
}
