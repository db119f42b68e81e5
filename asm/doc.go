// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package asm implements a two-pass assembler for a 10-bit word machine.
//
// The pipeline has four stages, run in order for each assembly unit:
//
//	macro expansion  -> expanded text stream
//	first pass       -> symbol table, instruction list, data list
//	relocation       -> data symbol addresses rebased past code
//	second pass      -> encoded instruction words, external usage sites
//
// Supported mnemonics (16 total):
//
//	opcode  src modes         dest modes        len
//	------  ----------------  ----------------  ---
//	mov     imm/dir/mat/reg   dir/mat/reg        2-5 (2 if both reg)
//	cmp     imm/dir/mat/reg   imm/dir/mat/reg    2-5
//	add     imm/dir/mat/reg   dir/mat/reg        2-5
//	sub     imm/dir/mat/reg   dir/mat/reg        2-5
//	lea     dir/mat           dir/mat/reg        3-5
//	not     -                 dir/mat/reg        2-3
//	clr     -                 dir/mat/reg        2-3
//	inc     -                 dir/mat/reg        2-3
//	dec     -                 dir/mat/reg        2-3
//	jmp     -                 dir/mat            2-3
//	bne     -                 dir/mat            2-3
//	red     -                 dir/mat/reg        2-3
//	prn     -                 imm/dir/mat/reg    2-3
//	jsr     -                 dir/mat            2-3
//	rts     -                 -                  1
//	stop    -                 -                  1
package asm
