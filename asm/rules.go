// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

// opRule describes the legal operand arity and addressing modes for one
// opcode.
type opRule struct {
	arity int
	src   []AddrMode // only consulted when arity == 2
	dest  []AddrMode
}

var (
	allModes  = []AddrMode{ModeImmediate, ModeDirect, ModeMatrix, ModeRegister}
	noImm     = []AddrMode{ModeDirect, ModeMatrix, ModeRegister}
	labelOnly = []AddrMode{ModeDirect, ModeMatrix}
)

var opRules = map[string]opRule{
	"mov": {arity: 2, src: allModes, dest: noImm},
	"add": {arity: 2, src: allModes, dest: noImm},
	"sub": {arity: 2, src: allModes, dest: noImm},
	"cmp": {arity: 2, src: allModes, dest: allModes},
	"lea": {arity: 2, src: labelOnly, dest: noImm},

	"not": {arity: 1, dest: noImm},
	"clr": {arity: 1, dest: noImm},
	"inc": {arity: 1, dest: noImm},
	"dec": {arity: 1, dest: noImm},
	"red": {arity: 1, dest: noImm},

	"jmp": {arity: 1, dest: labelOnly},
	"bne": {arity: 1, dest: labelOnly},
	"jsr": {arity: 1, dest: labelOnly},

	"prn": {arity: 1, dest: allModes},

	"rts":  {arity: 0},
	"stop": {arity: 0},
}

func modeAllowed(modes []AddrMode, m AddrMode) bool {
	for _, mm := range modes {
		if mm == m {
			return true
		}
	}
	return false
}
