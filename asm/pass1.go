// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import (
	"strconv"
	"strings"
)

// pass1 runs the first pass of the assembler over the macro-expanded
// line stream. It populates u's symbol table,
// instruction list and data list, and leaves u.icf/u.dcf set to the
// final counters. Errors are accumulated in u.diag; pass1 never stops
// early on a bad line, so the caller sees every problem in one run.
func (u *unit) pass1(lines []string) {
	u.symtab = NewSymbolTable()
	ic := MemoryStart
	dc := 0

	for i, text := range lines {
		row := i + 1
		raw := newFstring(row, text)

		if len(text) > maxLineLength {
			u.diag.addErrorLine(row, "line exceeds %d characters", maxLineLength)
			raw = raw.trunc(maxLineLength)
		}

		line := raw.stripTrailingComment().trimmed()
		if line.isEmpty() {
			continue
		}

		label, rest, ok := u.parseOptionalLabel(line)
		if !ok {
			continue
		}

		first, _ := rest.trimmed().consumeWhile(wordChar)
		switch {
		case first.startsWithChar('.'):
			u.parseDirective(rest.trimmed(), label, &dc)
		default:
			u.parseInstructionLine(rest.trimmed(), label, &ic)
		}
	}

	u.icf, u.dcf = ic, dc
	u.symtab.RelocateData(u.icf)
	for i := range u.data {
		u.data[i].Addr += u.icf
	}
}

// parseOptionalLabel splits "LABEL: rest" from a line with no label. ok
// is false if a label candidate was found but invalid (an error has
// already been recorded and the line should be skipped).
func (u *unit) parseOptionalLabel(line fstring) (label string, rest fstring, ok bool) {
	idx := strings.IndexByte(line.str, ':')
	if idx < 0 {
		return "", line, true
	}
	candidate := line.trunc(idx)
	remain := line.consume(idx + 1)

	name := candidate.str
	if err := validateLabelSyntax(name); err != nil {
		u.diag.addError(candidate, "invalid label %q: %v", name, err)
		return "", line, false
	}
	if isOpcode(name) || isRegisterName(name) || isDirective(name) {
		u.diag.addError(candidate, "label %q cannot reuse a reserved word", name)
		return "", line, false
	}
	return name, remain, true
}

// parseDirective dispatches one of the five dot-directives.
func (u *unit) parseDirective(line fstring, label string, dc *int) {
	name, rest := line.consumeWhile(wordChar)
	switch strings.ToLower(name.str) {
	case ".data":
		u.parseDataDirective(rest, label, dc)
	case ".string":
		u.parseStringDirective(rest, label, dc)
	case ".mat":
		u.parseMatDirective(rest, label, dc)
	case ".extern":
		u.parseExternDirective(rest, label)
	case ".entry":
		u.parseEntryDirective(rest, label)
	default:
		u.diag.addError(name, "unknown directive %q", name.str)
	}
}

// appendDataLabel inserts label (if any) as a data symbol at the
// pre-append DC, on the source line of at.
func (u *unit) appendDataLabel(label string, dc int, at fstring) {
	if label == "" {
		return
	}
	if err := u.symtab.Insert(label, dc, SymData, at.row); err != nil {
		u.diag.addErrorLine(at.row, "%v", err)
	}
}

func (u *unit) parseDataDirective(line fstring, label string, dc *int) {
	u.appendDataLabel(label, *dc, line)
	values, ok := parseIntList(line, u.diag)
	if !ok {
		return
	}
	for _, v := range values {
		u.data = append(u.data, &DataItem{Addr: *dc, Value: v})
		*dc++
	}
}

func (u *unit) parseStringDirective(line fstring, label string, dc *int) {
	u.appendDataLabel(label, *dc, line)
	t := line.trimmed()
	if !t.startsWithChar('"') {
		u.diag.addError(t, "expected a quoted string")
		return
	}
	body := t.consume(1)
	endIdx := strings.IndexByte(body.str, '"')
	if endIdx < 0 {
		u.diag.addError(t, "unterminated string literal")
		return
	}
	text := body.str[:endIdx]
	after := body.consume(endIdx + 1)
	if !after.trimmed().isEmpty() {
		u.diag.addError(after, "unexpected text after string literal")
		return
	}
	for i := 0; i < len(text); i++ {
		u.data = append(u.data, &DataItem{Addr: *dc, Value: int(text[i])})
		*dc++
	}
	u.data = append(u.data, &DataItem{Addr: *dc, Value: 0})
	*dc++
}

func (u *unit) parseMatDirective(line fstring, label string, dc *int) {
	u.appendDataLabel(label, *dc, line)
	t := line.trimmed()
	rows, cols, rest, ok := parseMatDims(t, u.diag)
	if !ok {
		return
	}
	var values []int
	if tail := rest.consumeWhitespace(); !tail.isEmpty() {
		values, ok = parseIntList(tail, u.diag)
		if !ok {
			return
		}
	}
	n := rows * cols
	if len(values) > n {
		u.diag.addWarning(t, "%d extra .mat initializer(s) discarded", len(values)-n)
		values = values[:n]
	}
	for i := 0; i < n; i++ {
		v := 0
		if i < len(values) {
			v = values[i]
		}
		u.data = append(u.data, &DataItem{Addr: *dc, Value: v})
		*dc++
	}
}

// parseMatDims parses the "[R][C]" prefix of a .mat directive.
func parseMatDims(t fstring, d *diagnostics) (rows, cols int, rest fstring, ok bool) {
	if !t.startsWithChar('[') {
		d.addError(t, "expected [rows][cols] after .mat")
		return 0, 0, t, false
	}
	end1 := strings.IndexByte(t.str, ']')
	if end1 < 0 {
		d.addError(t, "malformed .mat dimensions")
		return 0, 0, t, false
	}
	r, err := strconv.Atoi(t.str[1:end1])
	if err != nil || r <= 0 {
		d.addError(t, "invalid .mat row count")
		return 0, 0, t, false
	}
	after1 := t.consume(end1 + 1)
	if !after1.startsWithChar('[') {
		d.addError(after1, "expected [cols] after .mat row count")
		return 0, 0, t, false
	}
	end2 := strings.IndexByte(after1.str, ']')
	if end2 < 0 {
		d.addError(after1, "malformed .mat dimensions")
		return 0, 0, t, false
	}
	c, err := strconv.Atoi(after1.str[1:end2])
	if err != nil || c <= 0 {
		d.addError(after1, "invalid .mat column count")
		return 0, 0, t, false
	}
	return r, c, after1.consume(end2 + 1), true
}

func (u *unit) parseExternDirective(line fstring, label string) {
	if label != "" {
		u.diag.addWarning(line, "label on .extern is ignored")
	}
	name, rest := line.trimmed().consumeWhile(wordChar)
	if err := validateLabelSyntax(name.str); err != nil {
		u.diag.addError(name, "invalid external name %q: %v", name.str, err)
		return
	}
	if !rest.trimmed().isEmpty() {
		u.diag.addError(rest, "unexpected text after .extern name")
		return
	}
	if err := u.symtab.Insert(name.str, 0, SymExternal, name.row); err != nil {
		u.diag.addError(name, "%v", err)
	}
}

func (u *unit) parseEntryDirective(line fstring, label string) {
	if label != "" {
		u.diag.addWarning(line, "label on .entry is ignored")
	}
	name, rest := line.trimmed().consumeWhile(wordChar)
	if err := validateLabelSyntax(name.str); err != nil {
		u.diag.addError(name, "invalid entry name %q: %v", name.str, err)
		return
	}
	if !rest.trimmed().isEmpty() {
		u.diag.addError(rest, "unexpected text after .entry name")
		return
	}
	if err := u.symtab.Insert(name.str, 0, SymEntry, name.row); err != nil {
		u.diag.addError(name, "%v", err)
	}
}

// parseIntList parses a comma-separated list of signed decimal
// integers, rejecting leading/trailing/consecutive commas.
func parseIntList(line fstring, d *diagnostics) ([]int, bool) {
	t := line.trimmed()
	if t.isEmpty() {
		d.addError(t, "expected at least one value")
		return nil, false
	}
	parts := strings.Split(t.str, ",")
	values := make([]int, 0, len(parts))
	for _, p := range parts {
		s := strings.TrimSpace(p)
		if s == "" {
			d.addError(t, "empty value in list (check for stray commas)")
			return nil, false
		}
		v, err := strconv.Atoi(s)
		if err != nil {
			d.addError(t, "malformed integer %q", s)
			return nil, false
		}
		if v < MinValue || v > MaxValue {
			d.addError(t, "value %d out of range [%d, %d]", v, MinValue, MaxValue)
			return nil, false
		}
		values = append(values, v)
	}
	return values, true
}

// parseInstructionLine parses an opcode plus 0-2 operands, validates
// arity/addressing-mode legality, computes length, appends the
// instruction record, and advances IC.
func (u *unit) parseInstructionLine(line fstring, label string, ic *int) {
	opcode, rest := line.consumeWhile(wordChar)
	name := strings.ToLower(opcode.str)
	rule, known := opRules[name]
	if !known {
		u.diag.addError(opcode, "unknown opcode %q", opcode.str)
		return
	}

	operandTexts, ok := splitOperands(rest.trimmed(), u.diag)
	if !ok {
		return
	}

	if len(operandTexts) != rule.arity {
		u.diag.addError(opcode, "opcode %q expects %d operand(s), got %d", name, rule.arity, len(operandTexts))
		return
	}

	ops := make([]Operand, 0, len(operandTexts))
	for _, ot := range operandTexts {
		o, ok := parseOperand(ot, u.diag)
		if !ok {
			return
		}
		ops = append(ops, o)
	}

	if rule.arity == 2 {
		if !modeAllowed(rule.src, ops[0].Mode) {
			u.diag.addError(ops[0].Text, "illegal addressing mode for %q source operand", name)
			return
		}
		if !modeAllowed(rule.dest, ops[1].Mode) {
			u.diag.addError(ops[1].Text, "illegal addressing mode for %q destination operand", name)
			return
		}
	} else if rule.arity == 1 {
		if !modeAllowed(rule.dest, ops[0].Mode) {
			u.diag.addError(ops[0].Text, "illegal addressing mode for %q operand", name)
			return
		}
	}

	length := computeLength(ops)
	if length > 5 {
		u.diag.addError(opcode, "instruction %q is too long (%d words)", name, length)
		return
	}

	inst := &Instruction{Line: opcode.row, Addr: *ic, Opcode: name, Ops: ops, Length: length}
	u.instructions = append(u.instructions, inst)

	if label != "" {
		if err := u.symtab.Insert(label, *ic, SymCode, opcode.row); err != nil {
			u.diag.addErrorLine(opcode.row, "%v", err)
		}
	}
	*ic += length
}

// splitOperands splits an operand list on single commas, rejecting
// leading/trailing/doubled commas and more than two operands.
// Matrix operands' internal brackets never contain commas, so a plain
// split is safe.
func splitOperands(line fstring, d *diagnostics) ([]fstring, bool) {
	if line.isEmpty() {
		return nil, true
	}
	if line.str[0] == ',' || line.str[len(line.str)-1] == ',' {
		d.addError(line, "leading or trailing comma in operand list")
		return nil, false
	}

	var out []fstring
	start := 0
	for i := 0; i <= len(line.str); i++ {
		if i == len(line.str) || line.str[i] == ',' {
			piece := line.str[start:i]
			if strings.TrimSpace(piece) == "" {
				d.addError(line, "empty operand (check for consecutive commas)")
				return nil, false
			}
			out = append(out, line.trunc(i).consume(start))
			start = i + 1
		}
	}
	if len(out) > 2 {
		d.addError(line, "too many operands")
		return nil, false
	}
	return out, true
}
