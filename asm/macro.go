// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import (
	"fmt"
	"strings"

	"github.com/beevik/prefixtree/v2"
)

// macroState is the collector's current state.
type macroState int

const (
	macroOutside macroState = iota
	macroInside
)

// macroTable is the ordered dictionary of macro definitions, built
// during the definition phase and consulted (read-only) during
// expansion.
type macroTable struct {
	tree *prefixtree.Tree[*Macro]
}

func newMacroTable() *macroTable {
	return &macroTable{tree: prefixtree.New[*Macro]()}
}

// find looks up a macro by exact name. FindValue resolves by unique
// prefix, so a name-equality guard is required to avoid matching a
// different macro that this name happens to prefix.
func (m *macroTable) find(name string) *Macro {
	mac, err := m.tree.FindValue(name)
	if err != nil || mac == nil || mac.Name != name {
		return nil
	}
	return mac
}

func (m *macroTable) add(mac *Macro) {
	m.tree.Add(mac.Name, mac)
}

// collectMacros runs the definition phase of the macro collector state
// machine: it scans raw source lines and returns the macro table plus
// the "skeleton" of the file — every line outside a mcro/mcroend block,
// verbatim, for the expansion phase to walk next.
func collectMacros(lines []string, d *diagnostics) (*macroTable, []string) {
	macros := newMacroTable()
	var skeleton []string

	state := macroOutside
	var current *Macro
	currentOK := false

	for i, text := range lines {
		row := i + 1
		line := newFstring(row, text)

		switch state {
		case macroOutside:
			first, rest := line.consumeWhile(wordChar)
			switch first.str {
			case "mcro":
				name, afterName := rest.consumeWhitespace().consumeWhile(wordChar)
				currentOK = true
				if err := validateMacroName(name.str); err != nil {
					d.addErrorLine(row, "%v", err)
					currentOK = false
				} else if macros.find(name.str) != nil {
					d.addErrorLine(row, "macro %q already defined", name.str)
					currentOK = false
				}
				if !afterName.consumeWhitespace().isEmpty() {
					d.addErrorLine(row, "unexpected text after macro name %q", name.str)
					currentOK = false
				}
				current = &Macro{Name: name.str}
				state = macroInside
			case "mcroend":
				d.addErrorLine(row, "mcroend without matching mcro")
			default:
				skeleton = append(skeleton, text)
			}

		case macroInside:
			first, rest := line.consumeWhile(wordChar)
			switch first.str {
			case "mcro":
				d.addErrorLine(row, "nested macro definition")
			case "mcroend":
				if !rest.consumeWhitespace().isEmpty() {
					d.addErrorLine(row, "unexpected text after mcroend")
					currentOK = false
				}
				if currentOK {
					macros.add(current)
				}
				current, currentOK = nil, false
				state = macroOutside
			default:
				current.Body = append(current.Body, text)
			}
		}
	}

	if state == macroInside {
		d.addErrorLine(len(lines), "macro %q has no matching mcroend", current.Name)
	}

	return macros, skeleton
}

// validateMacroName enforces the naming rule for macros: a name must
// pass label validity and must not be a reserved word.
func validateMacroName(name string) error {
	if name == "" {
		return fmt.Errorf("macro definition missing a name")
	}
	if err := validateLabelSyntax(name); err != nil {
		return fmt.Errorf("invalid macro name %q: %v", name, err)
	}
	if isOpcode(name) || isRegisterName(name) || isDirective(name) || name == "mcro" || name == "mcroend" {
		return fmt.Errorf("%q is a reserved word and cannot be used as a macro name", name)
	}
	return nil
}

// expandMacros runs the expansion phase: it walks the skeleton lines
// (already stripped of mcro/mcroend blocks) and substitutes any
// line whose first token names a macro with that macro's body, fusing
// a call-site label onto the first body line.
func expandMacros(skeleton []string, macros *macroTable) []string {
	var out []string
	for _, text := range skeleton {
		label, call := splitCallSite(text)
		name := firstToken(call)
		mac := macros.find(name)
		if mac == nil {
			out = append(out, text)
			continue
		}
		if len(mac.Body) == 0 {
			continue
		}
		if label == "" {
			out = append(out, mac.Body...)
			continue
		}
		out = append(out, label+": "+strings.TrimLeft(mac.Body[0], " \t"))
		out = append(out, mac.Body[1:]...)
	}
	return out
}

// splitCallSite separates an optional "LABEL:" prefix from the rest of
// the line, returning the label (without colon) and the remainder. If
// there is no colon, or the text before it isn't a valid label, label
// is empty and call is the whole line.
func splitCallSite(text string) (label, call string) {
	line := newFstring(0, text)
	trimmed := line.consumeWhitespace()
	idx := strings.IndexByte(trimmed.str, ':')
	if idx < 0 {
		return "", text
	}
	candidate := trimmed.str[:idx]
	if !isValidLabelToken(candidate) {
		return "", text
	}
	return candidate, trimmed.str[idx+1:]
}

// firstToken returns the first whitespace-delimited token of a line.
func firstToken(text string) string {
	line := newFstring(0, text).consumeWhitespace()
	tok, _ := line.consumeWhile(wordChar)
	return tok.str
}

func isValidLabelToken(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if i == 0 && !labelStartChar(c) {
			return false
		}
		if i > 0 && !labelChar(c) {
			return false
		}
	}
	return true
}
