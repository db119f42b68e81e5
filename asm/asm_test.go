// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import (
	"bytes"
	"strconv"
	"strings"
	"testing"
)

func mustAssemble(t *testing.T, src string) *Result {
	t.Helper()
	r, err := Assemble(strings.NewReader(src))
	if err != nil {
		var buf bytes.Buffer
		r.WriteDiagnostics(&buf)
		t.Fatalf("unexpected assembly failure: %v\n%s", err, buf.String())
	}
	return r
}

func countErrors(r *Result) int {
	var buf bytes.Buffer
	r.WriteDiagnostics(&buf)
	n := 0
	for _, line := range strings.Split(buf.String(), "\n") {
		if strings.HasPrefix(line, "error") {
			n++
		}
	}
	return n
}

// Scenario 1: two-register share.
func TestScenarioTwoRegisterShare(t *testing.T) {
	r := mustAssemble(t, "mov r3, r5\n")
	if len(r.Instructions) != 1 {
		t.Fatalf("expected 1 instruction, got %d", len(r.Instructions))
	}
	inst := r.Instructions[0]
	if inst.Length != 2 {
		t.Errorf("expected length 2, got %d", inst.Length)
	}
	if got := encodeWord(inst.Words[0]); got != "aadda" {
		t.Errorf("opcode word = %q, want aadda", got)
	}
	hi := (inst.Words[1] >> 6) & 0x7
	lo := (inst.Words[1] >> 2) & 0x7
	if hi != 3 || lo != 5 {
		t.Errorf("operand word packs (%d,%d), want (3,5)", hi, lo)
	}
}

// Scenario 2: external reference.
func TestScenarioExternalReference(t *testing.T) {
	r := mustAssemble(t, ".extern FOO\njmp FOO\n")
	inst := r.Instructions[0]
	if inst.Addr != MemoryStart {
		t.Fatalf("expected instruction at %d, got %d", MemoryStart, inst.Addr)
	}
	if len(inst.Words) != 2 {
		t.Fatalf("expected 2 words, got %d", len(inst.Words))
	}
	refWord := inst.Words[1]
	if refWord&0x3 != areExternal {
		t.Errorf("reference word ARE = %d, want %d (external)", refWord&0x3, areExternal)
	}
	if refWord&^0x3 != 0 {
		t.Errorf("reference word address bits = %d, want 0", refWord&^0x3)
	}

	uses := r.Symtab.Uses()
	if len(uses) != 1 || uses[0].Name != "FOO" || uses[0].Addr != MemoryStart+1 {
		t.Errorf("unexpected externals: %+v", uses)
	}

	var buf bytes.Buffer
	if _, err := WriteExternals(&buf, r); err != nil {
		t.Fatal(err)
	}
	want := "FOO " + encodeWord(MemoryStart+1) + "\n"
	if buf.String() != want {
		t.Errorf(".ext content = %q, want %q", buf.String(), want)
	}
}

// Scenario 3: entry resolution.
func TestScenarioEntryResolution(t *testing.T) {
	r := mustAssemble(t, ".entry MAIN\nMAIN: stop\n")
	sym := r.Symtab.Find("MAIN")
	if sym == nil || sym.Type != SymEntry {
		t.Fatalf("expected MAIN to be an entry symbol, got %+v", sym)
	}
	if sym.Addr != MemoryStart {
		t.Errorf("expected MAIN at %d, got %d", MemoryStart, sym.Addr)
	}

	var buf bytes.Buffer
	if _, err := WriteEntries(&buf, r); err != nil {
		t.Fatal(err)
	}
	want := "MAIN " + encodeWord(MemoryStart) + "\n"
	if buf.String() != want {
		t.Errorf(".ent content = %q, want %q", buf.String(), want)
	}
}

// Scenario 4: data relocation.
func TestScenarioDataRelocation(t *testing.T) {
	r := mustAssemble(t, "stop\nX: .data 7\n")
	if r.ICF != MemoryStart+1 {
		t.Fatalf("expected ICF %d, got %d", MemoryStart+1, r.ICF)
	}
	sym := r.Symtab.Find("X")
	if sym == nil || sym.Addr != MemoryStart+1 {
		t.Fatalf("expected X at %d, got %+v", MemoryStart+1, sym)
	}
	if len(r.Data) != 1 || r.Data[0].Addr != MemoryStart+1 || r.Data[0].Value != 7 {
		t.Fatalf("unexpected data: %+v", r.Data)
	}
}

// Scenario 5: error accumulation.
func TestScenarioErrorAccumulation(t *testing.T) {
	r, err := Assemble(strings.NewReader("mov #600, r1\nmov #1, #2\n"))
	if err == nil {
		t.Fatal("expected assembly to fail")
	}
	if !r.HasErrors() {
		t.Fatal("expected HasErrors to be true")
	}
	if n := countErrors(r); n < 2 {
		t.Errorf("expected at least 2 errors, got %d", n)
	}
}

// .ob header line strips leading zero digits but preserves a single
// digit for a zero count.
func TestObjectHeaderStripsLeadingZeros(t *testing.T) {
	r := mustAssemble(t, "stop\n")
	var buf bytes.Buffer
	if err := WriteObject(&buf, r); err != nil {
		t.Fatal(err)
	}
	header := strings.SplitN(buf.String(), "\n", 2)[0]
	fields := strings.Fields(header)
	if len(fields) != 2 {
		t.Fatalf("expected 2 header fields, got %q", header)
	}
	wantICF := stripLeadingZeros(encodeWord(r.ICF))
	wantDCF := stripLeadingZeros(encodeWord(r.DCF))
	if fields[0] != wantICF {
		t.Errorf("ICF header field = %q, want %q", fields[0], wantICF)
	}
	if fields[1] != wantDCF {
		t.Errorf("DCF header field = %q, want %q", fields[1], wantDCF)
	}
	if fields[1] != "a" {
		t.Errorf("DCF should render as the single stripped digit 'a' when zero, got %q", fields[1])
	}
}

func TestNoEntriesOrExternalsMeansNoOutput(t *testing.T) {
	r := mustAssemble(t, "stop\n")
	var buf bytes.Buffer
	wrote, err := WriteEntries(&buf, r)
	if err != nil {
		t.Fatal(err)
	}
	if wrote || buf.Len() != 0 {
		t.Errorf("expected no entries output, got %q", buf.String())
	}
	wrote, err = WriteExternals(&buf, r)
	if err != nil {
		t.Fatal(err)
	}
	if wrote || buf.Len() != 0 {
		t.Errorf("expected no externals output, got %q", buf.String())
	}
}

func TestMatrixOperandEncoding(t *testing.T) {
	r := mustAssemble(t, "M: .mat [2][2] 1,2,3,4\nmov M[r2][r3], r1\n")
	inst := r.Instructions[0]
	if len(inst.Words) != 4 {
		t.Fatalf("expected 4 words (opcode, matrix address, matrix index, dest register), got %d", len(inst.Words))
	}
	row := (inst.Words[2] >> 6) & 0x7
	col := (inst.Words[2] >> 2) & 0x7
	if row != 2 || col != 3 {
		t.Errorf("matrix index word packs (%d,%d), want (2,3)", row, col)
	}
}

func TestMacroExpansionFeedsPassOne(t *testing.T) {
	src := "mcro CLEARBOTH\nclr r1\nclr r2\nmcroend\nCLEARBOTH\nstop\n"
	r := mustAssemble(t, src)
	if len(r.Instructions) != 3 {
		t.Fatalf("expected 3 instructions after macro expansion, got %d", len(r.Instructions))
	}
	if r.Instructions[0].Opcode != "clr" || r.Instructions[1].Opcode != "clr" || r.Instructions[2].Opcode != "stop" {
		t.Errorf("unexpected opcodes: %v %v %v", r.Instructions[0].Opcode, r.Instructions[1].Opcode, r.Instructions[2].Opcode)
	}
}

func TestStringDirectiveEmitsTerminator(t *testing.T) {
	r := mustAssemble(t, `S: .string ""`+"\n")
	if len(r.Data) != 1 || r.Data[0].Value != 0 {
		t.Fatalf("expected a single zero terminator word, got %+v", r.Data)
	}
}

func TestMatDirectiveWithNoInitializersIsAllZero(t *testing.T) {
	r := mustAssemble(t, "M: .mat [1][1]\nstop\n")
	if len(r.Data) != 1 || r.Data[0].Value != 0 {
		t.Fatalf("expected a single zero word, got %+v", r.Data)
	}
}

func TestUndefinedLabelPrefixOfDefinedSymbolIsRejected(t *testing.T) {
	_, err := Assemble(strings.NewReader("jmp LOOP\nLOOPEND: stop\n"))
	if err == nil {
		t.Error("expected undefined symbol error; LOOP must not resolve to LOOPEND by prefix")
	}
}

func TestImmediateOutOfRangeIsRejected(t *testing.T) {
	src := "mov #" + strconv.Itoa(MaxValue+1) + ", r1\n"
	_, err := Assemble(strings.NewReader(src))
	if err == nil {
		t.Error("expected out-of-range immediate to be rejected")
	}
}
