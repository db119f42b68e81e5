// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import (
	"regexp"
	"strconv"
	"strings"
)

// matrixOperandRe matches NAME[rX][rY] with X,Y in 0-7.
var matrixOperandRe = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9]{0,29})\[r([0-7])\]\[r([0-7])\]$`)

// parseOperand classifies and parses a single trimmed operand. The
// classification is purely lexical, done once here and reused by pass 2
// rather than re-parsed from strings. An operand of the form 'r' plus
// digits that is not r0-r7 is rejected as an invalid register.
func parseOperand(text fstring, d *diagnostics) (Operand, bool) {
	t := text.trimmed()
	if t.isEmpty() {
		d.addError(text, "empty operand")
		return Operand{}, false
	}

	switch {
	case t.startsWithChar('#'):
		return parseImmediateOperand(t, d)
	case isRegisterName(t.str):
		return Operand{Mode: ModeRegister, Text: t, Reg: registerNames[t.str]}, true
	case strings.ContainsRune(t.str, '['):
		return parseMatrixOperand(t, d)
	default:
		if len(t.str) > 1 && t.str[0] == 'r' && strings.TrimLeft(t.str[1:], "0123456789") == "" {
			d.addError(t, "invalid register %q", t.str)
			return Operand{}, false
		}
		if err := validateLabelSyntax(t.str); err != nil {
			d.addError(t, "invalid operand %q: %v", t.str, err)
			return Operand{}, false
		}
		return Operand{Mode: ModeDirect, Text: t, Label: t.str}, true
	}
}

func parseImmediateOperand(t fstring, d *diagnostics) (Operand, bool) {
	numText := t.str[1:]
	v, err := strconv.Atoi(numText)
	if err != nil {
		d.addError(t, "malformed immediate value %q", t.str)
		return Operand{}, false
	}
	if v < MinValue || v > MaxValue {
		d.addError(t, "immediate value %d out of range [%d, %d]", v, MinValue, MaxValue)
		return Operand{}, false
	}
	return Operand{Mode: ModeImmediate, Text: t, Value: v}, true
}

func parseMatrixOperand(t fstring, d *diagnostics) (Operand, bool) {
	m := matrixOperandRe.FindStringSubmatch(t.str)
	if m == nil {
		d.addError(t, "invalid matrix operand %q", t.str)
		return Operand{}, false
	}
	row, _ := strconv.Atoi(m[2])
	col, _ := strconv.Atoi(m[3])
	return Operand{Mode: ModeMatrix, Text: t, Label: m[1], Row: row, Col: col}, true
}

// computeLength returns the instruction length in words: 1 opcode word,
// plus 1 per immediate/direct/register operand, plus 2 per matrix
// operand, except that a pair of register operands shares a single
// word.
func computeLength(ops []Operand) int {
	if len(ops) == 2 && ops[0].Mode == ModeRegister && ops[1].Mode == ModeRegister {
		return 2
	}
	length := 1
	for _, o := range ops {
		switch o.Mode {
		case ModeMatrix:
			length += 2
		default:
			length++
		}
	}
	return length
}
