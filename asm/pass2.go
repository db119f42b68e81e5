// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

// pass2 runs the second pass of the assembler: it resolves every
// label reference against the now-complete, relocated symbol table and
// encodes each instruction's words. Undefined symbols and other
// resolution failures are recorded in u.diag; pass2 keeps going after an
// error so the caller sees every problem in one run.
func (u *unit) pass2() {
	for _, inst := range u.instructions {
		u.encodeInstruction(inst)
	}
	u.checkEntriesBound()
}

// encodeInstruction fills in inst.Words.
func (u *unit) encodeInstruction(inst *Instruction) {
	var src, dest Operand
	switch len(inst.Ops) {
	case 2:
		src, dest = inst.Ops[0], inst.Ops[1]
	case 1:
		dest = inst.Ops[0]
	}

	srcMode, destMode := ModeImmediate, ModeImmediate
	if len(inst.Ops) >= 1 {
		destMode = dest.Mode
	}
	if len(inst.Ops) == 2 {
		srcMode = src.Mode
	}

	words := []int{composeInstructionWord(inst.Opcode, srcMode, destMode)}
	addr := inst.Addr + 1

	if len(inst.Ops) == 2 && src.Mode == ModeRegister && dest.Mode == ModeRegister {
		words = append(words, composeRegisterPairWord(src.Reg, dest.Reg))
		inst.Words = words
		return
	}

	if len(inst.Ops) == 2 {
		w, ok := u.encodeOperandWords(src, addr, true)
		if !ok {
			return
		}
		words = append(words, w...)
		addr += len(w)
	}

	if len(inst.Ops) >= 1 {
		w, ok := u.encodeOperandWords(dest, addr, false)
		if !ok {
			return
		}
		words = append(words, w...)
	}

	if len(words) != inst.Length {
		u.diag.addErrorLine(inst.Line, "internal error: %q encoded to %d word(s), expected %d", inst.Opcode, len(words), inst.Length)
		return
	}

	inst.Words = words
}

// encodeOperandWords returns the word(s) contributed by a single operand
// that is not part of a shared register pair, along with whether
// resolution succeeded. addr is the absolute address the first emitted
// word will occupy, used to record external-symbol usage sites.
func (u *unit) encodeOperandWords(op Operand, addr int, isSource bool) ([]int, bool) {
	switch op.Mode {
	case ModeImmediate:
		return []int{composeValueWord(op.Value, areAbsolute)}, true

	case ModeRegister:
		return []int{composeSingleRegisterWord(op.Reg, isSource)}, true

	case ModeDirect:
		symAddr, are, ok := u.resolveLabel(op, addr)
		if !ok {
			return nil, false
		}
		return []int{composeAddressWord(symAddr, are)}, true

	case ModeMatrix:
		symAddr, are, ok := u.resolveLabel(op, addr)
		if !ok {
			return nil, false
		}
		return []int{
			composeAddressWord(symAddr, are),
			composeRegisterPairWord(op.Row, op.Col),
		}, true

	default:
		u.diag.addError(op.Text, "internal error: unhandled addressing mode %v", op.Mode)
		return nil, false
	}
}

// resolveLabel looks up a direct or matrix operand's label, returning
// its address and ARE code. External symbols resolve to address 0 with
// an ARE of areExternal, and the usage site is recorded for the .ext
// output.
func (u *unit) resolveLabel(op Operand, addr int) (symAddr, are int, ok bool) {
	sym := u.symtab.Find(op.Label)
	if sym == nil {
		u.diag.addError(op.Text, "undefined symbol %q", op.Label)
		return 0, 0, false
	}
	if sym.Type == SymExternal {
		if err := u.symtab.RecordExternalUse(op.Label, addr); err != nil {
			u.diag.addError(op.Text, "%v", err)
			return 0, 0, false
		}
		return 0, areExternal, true
	}
	return sym.Addr, areRelocatable, true
}

// checkEntriesBound reports any .entry declaration whose name was never
// defined locally: a forward-declared entry that's still a placeholder
// when assembly ends is an error.
func (u *unit) checkEntriesBound() {
	for _, sym := range u.symtab.Entries() {
		if sym.bound == entryPlaceholder {
			u.diag.addErrorLine(sym.Line, "entry %q was never defined in this file", sym.Name)
		}
	}
}
