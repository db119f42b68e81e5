// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import (
	"fmt"
	"io"
)

// WriteObject writes the `.ob` artefact: a header line of
// `<ICF> <DCF>` with leading zero digits stripped, followed by every
// instruction word and then every data word, each on its own
// `<address>\t<word>\n` line with both fields rendered as unstripped
// 5-digit base-4.
func WriteObject(w io.Writer, r *Result) error {
	header := fmt.Sprintf("%s %s\n",
		stripLeadingZeros(encodeWord(r.ICF)),
		stripLeadingZeros(encodeWord(r.DCF)))
	if _, err := io.WriteString(w, header); err != nil {
		return err
	}

	for _, inst := range r.Instructions {
		addr := inst.Addr
		for _, word := range inst.Words {
			line := fmt.Sprintf("%s\t%s\n", encodeWord(addr), encodeWord(word))
			if _, err := io.WriteString(w, line); err != nil {
				return err
			}
			addr++
		}
	}

	for _, d := range r.Data {
		line := fmt.Sprintf("%s\t%s\n", encodeWord(d.Addr), encodeWord(d.Value))
		if _, err := io.WriteString(w, line); err != nil {
			return err
		}
	}
	return nil
}

// WriteEntries writes the `.ent` artefact: one `<name>
// <address>\n` line per entry symbol, address as unstripped 5-digit
// base-4. wrote is false (and w untouched) when there are no entries,
// so the caller can skip creating the file.
func WriteEntries(w io.Writer, r *Result) (wrote bool, err error) {
	entries := r.Symtab.Entries()
	if len(entries) == 0 {
		return false, nil
	}
	for _, sym := range entries {
		line := fmt.Sprintf("%s %s\n", sym.Name, encodeWord(sym.Addr))
		if _, err := io.WriteString(w, line); err != nil {
			return true, err
		}
	}
	return true, nil
}

// WriteExternals writes the `.ext` artefact: one `<name>
// <address>\n` line per external usage site, in the order the uses
// were recorded. wrote is false (and w untouched) when no external
// symbol was referenced, so the caller can skip creating the file.
func WriteExternals(w io.Writer, r *Result) (wrote bool, err error) {
	uses := r.Symtab.Uses()
	if len(uses) == 0 {
		return false, nil
	}
	for _, u := range uses {
		line := fmt.Sprintf("%s %s\n", u.Name, encodeWord(u.Addr))
		if _, err := io.WriteString(w, line); err != nil {
			return true, err
		}
	}
	return true, nil
}
