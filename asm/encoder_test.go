// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import "testing"

func TestEncodeWordBoundaries(t *testing.T) {
	cases := []struct {
		value int
		want  string
	}{
		{0, "aaaaa"},
		{-1, "ddddd"},
		{7, "aaabd"},
	}
	for _, c := range cases {
		if got := encodeWord(c.value); got != c.want {
			t.Errorf("encodeWord(%d) = %q, want %q", c.value, got, c.want)
		}
	}
}

func TestComposeValueWordBoundaries(t *testing.T) {
	if got := encodeWord(composeValueWord(-512, areAbsolute)); got != "caaaa" {
		t.Errorf("composeValueWord(-512) = %q, want caaaa", got)
	}
	if got := encodeWord(composeValueWord(511, areAbsolute)); got != "bddda" {
		t.Errorf("composeValueWord(511) = %q, want bddda", got)
	}
}

func TestStripLeadingZeros(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"aaaaa", "a"},
		{"aaabd", "bd"},
		{"dcaaa", "dcaaa"},
	}
	for _, c := range cases {
		if got := stripLeadingZeros(c.in); got != c.want {
			t.Errorf("stripLeadingZeros(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestComposeInstructionWordTwoRegisterShare(t *testing.T) {
	word := composeInstructionWord("mov", ModeRegister, ModeRegister)
	if got := encodeWord(word); got != "aadda" {
		t.Errorf("mov r,r opcode word = %q, want aadda", got)
	}
	operand := composeRegisterPairWord(3, 5)
	if got := encodeWord(operand); len(got) != 5 {
		t.Errorf("operand word %q has unexpected length", got)
	}
}

func TestRegisterPairRoundTrip(t *testing.T) {
	for hi := 0; hi < 8; hi++ {
		for lo := 0; lo < 8; lo++ {
			v := composeRegisterPairWord(hi, lo)
			gotHi := (v >> 6) & 0x7
			gotLo := (v >> 2) & 0x7
			if gotHi != hi || gotLo != lo {
				t.Errorf("composeRegisterPairWord(%d,%d) round-tripped to (%d,%d)", hi, lo, gotHi, gotLo)
			}
		}
	}
}

func TestWithAREPreservesMagnitude(t *testing.T) {
	for _, are := range []int{areAbsolute, areExternal, areRelocatable} {
		v := withARE(511, are)
		if v&0x3 != are {
			t.Errorf("withARE(511, %d) low bits = %d, want %d", are, v&0x3, are)
		}
		if v&^0x3 != (511&wordMask)&^0x3 {
			t.Errorf("withARE(511, %d) changed the magnitude bits", are)
		}
	}
}
