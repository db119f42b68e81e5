// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import (
	"errors"
	"fmt"
	"io"
)

// errAssembly is returned by Assemble when one or more non-fatal errors
// were accumulated during assembly of a unit: the unit's error flag is
// set and output artefacts are suppressed.
var errAssembly = errors.New("assembly failed")

// diagnostic is a single error or warning tied to a source line/column.
type diagnostic struct {
	line    int
	column  int
	warning bool
	msg     string
}

// diagnostics accumulates all errors and warnings for one assembly unit,
// and owns the per-unit error flag as a mutable field rather than
// package-level state.
type diagnostics struct {
	items   []diagnostic
	failed  bool
}

func (d *diagnostics) addError(l fstring, format string, args ...interface{}) {
	d.items = append(d.items, diagnostic{line: l.row, column: l.column + 1, msg: fmt.Sprintf(format, args...)})
	d.failed = true
}

func (d *diagnostics) addErrorLine(line int, format string, args ...interface{}) {
	d.items = append(d.items, diagnostic{line: line, msg: fmt.Sprintf(format, args...)})
	d.failed = true
}

func (d *diagnostics) addWarning(l fstring, format string, args ...interface{}) {
	d.items = append(d.items, diagnostic{line: l.row, column: l.column + 1, warning: true, msg: fmt.Sprintf(format, args...)})
}

// hasErrors reports whether any non-warning diagnostic was recorded.
func (d *diagnostics) hasErrors() bool {
	return d.failed
}

// writeTo prints every accumulated diagnostic to w, in the order they
// were recorded, one per line, each prefixed with its severity and location.
func (d *diagnostics) writeTo(w io.Writer) {
	for _, it := range d.items {
		kind := "error"
		if it.warning {
			kind = "warning"
		}
		if it.column > 0 {
			fmt.Fprintf(w, "%s line %d, col %d: %s\n", kind, it.line, it.column, it.msg)
		} else {
			fmt.Fprintf(w, "%s line %d: %s\n", kind, it.line, it.msg)
		}
	}
}
