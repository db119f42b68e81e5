// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

// An fstring is a string that keeps track of its position within the
// source line from which it was read, so that diagnostics can point at
// the exact row and column of a problem.
type fstring struct {
	row    int    // 1-based line number of substring
	column int    // 0-based column of start of substring
	str    string // the actual substring of interest
	full   string // the full line as originally read from the file
}

func newFstring(row int, str string) fstring {
	return fstring{row, 0, str, str}
}

func (l *fstring) String() string {
	return l.str
}

func (l fstring) consume(n int) fstring {
	return fstring{l.row, l.column + n, l.str[n:], l.full}
}

func (l fstring) trunc(n int) fstring {
	return fstring{l.row, l.column, l.str[:n], l.full}
}

func (l *fstring) isEmpty() bool {
	return len(l.str) == 0
}

func (l *fstring) startsWith(fn func(c byte) bool) bool {
	return len(l.str) > 0 && fn(l.str[0])
}

func (l *fstring) startsWithChar(c byte) bool {
	return len(l.str) > 0 && l.str[0] == c
}

func (l fstring) consumeWhitespace() fstring {
	return l.consume(l.scanWhile(whitespace))
}

func (l *fstring) scanWhile(fn func(c byte) bool) int {
	i := 0
	for ; i < len(l.str) && fn(l.str[i]); i++ {
	}
	return i
}

func (l *fstring) scanUntil(fn func(c byte) bool) int {
	i := 0
	for ; i < len(l.str) && !fn(l.str[i]); i++ {
	}
	return i
}

func (l *fstring) scanUntilChar(c byte) int {
	i := 0
	for ; i < len(l.str) && l.str[i] != c; i++ {
	}
	return i
}

func (l *fstring) consumeWhile(fn func(c byte) bool) (consumed, remain fstring) {
	i := l.scanWhile(fn)
	consumed, remain = l.trunc(i), l.consume(i)
	return
}

func (l *fstring) consumeUntil(fn func(c byte) bool) (consumed, remain fstring) {
	i := l.scanUntil(fn)
	consumed, remain = l.trunc(i), l.consume(i)
	return
}

func (l *fstring) consumeUntilChar(c byte) (consumed, remain fstring) {
	i := l.scanUntilChar(c)
	consumed, remain = l.trunc(i), l.consume(i)
	return
}

// trimmed returns the substring with leading and trailing whitespace
// stripped, preserving row/column tracking of the first remaining byte.
func (l fstring) trimmed() fstring {
	_, l = l.consumeWhile(whitespace)
	i := len(l.str)
	for i > 0 && whitespace(l.str[i-1]) {
		i--
	}
	return l.trunc(i)
}

// stripTrailingComment returns an empty string for a comment line (one
// whose first non-whitespace character is ';') and the line unchanged
// otherwise; a ';' later in the line does not start a comment.
func (l fstring) stripTrailingComment() fstring {
	t := l.trimmed()
	if t.startsWithChar(';') {
		return l.trunc(0)
	}
	return l
}

//
// character helper functions
//

func whitespace(c byte) bool {
	return c == ' ' || c == '\t'
}

func wordChar(c byte) bool {
	return c != ' ' && c != '\t' && c != ','
}

func alpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func alphanumeric(c byte) bool {
	return alpha(c) || decimal(c)
}

func decimal(c byte) bool {
	return c >= '0' && c <= '9'
}

func comment(c byte) bool {
	return c == ';'
}

func labelStartChar(c byte) bool {
	return alpha(c)
}

func labelChar(c byte) bool {
	return alphanumeric(c)
}
