// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import (
	"fmt"
	"sort"

	"github.com/beevik/prefixtree/v2"
)

// SymbolTable is the ordered dictionary of labels. It is backed by a
// prefixtree used purely for stable, name-ordered storage, never for
// prefix-abbreviation lookups, since symbol names must match exactly.
type SymbolTable struct {
	tree  *prefixtree.Tree[*Symbol]
	names []string      // insertion order, for diagnostics that want source order
	uses  []externalUse // every external reference, in the order recorded
}

// externalUse is one recorded reference to an external symbol, at the
// address of the word that will carry its ARE-tagged placeholder.
type externalUse struct {
	name string
	addr int
}

// NewSymbolTable creates an empty symbol table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{tree: prefixtree.New[*Symbol]()}
}

// Find looks up a symbol by its exact name. FindValue resolves by
// unique prefix, so a name-equality guard is required here: otherwise
// a lookup for an undefined symbol that happens to be a unique prefix
// of a defined one (or vice versa) would silently match it instead of
// reporting "not found".
func (t *SymbolTable) Find(name string) *Symbol {
	sym, err := t.tree.FindValue(name)
	if err != nil || sym == nil || sym.Name != name {
		return nil
	}
	return sym
}

// Insert enforces the naming and conflict rules for a symbol and adds
// (or overlays) it. line is the source line of the declaration, used
// only for diagnostics.
func (t *SymbolTable) Insert(name string, addr int, typ SymType, line int) error {
	if err := validateLabelSyntax(name); err != nil {
		return err
	}
	if isOpcode(name) || isRegisterName(name) || isDirective(name) {
		return fmt.Errorf("symbol %q cannot reuse a reserved word", name)
	}

	existing := t.Find(name)

	switch {
	case existing == nil:
		sym := &Symbol{Name: name, Addr: addr, Type: typ, Line: line}
		if typ == SymEntry {
			sym.bound = entryPlaceholder
			sym.Addr = 0
		}
		if err := t.tree.Add(name, sym); err != nil {
			return fmt.Errorf("symbol %q: %v", name, err)
		}
		t.names = append(t.names, name)
		return nil

	case typ == SymExternal && existing.Type == SymExternal:
		// Redundant .extern declarations are silently accepted.
		return nil

	case typ == SymExternal:
		return fmt.Errorf("symbol %q already defined locally, cannot redeclare external", name)

	case existing.Type == SymExternal:
		return fmt.Errorf("symbol %q already declared external, cannot define locally", name)

	case typ == SymEntry:
		// .entry overlays an existing local definition (or placeholder),
		// keeping its address.
		if existing.Type == SymEntry {
			return nil
		}
		existing.Type = SymEntry
		existing.bound = entryBoundToLocal
		return nil

	case existing.Type == SymEntry && existing.bound == entryPlaceholder:
		// A local definition arriving after a forward .entry fills the
		// placeholder in.
		existing.Addr = addr
		existing.bound = entryBoundToLocal
		return nil

	default:
		return fmt.Errorf("symbol %q defined more than once", name)
	}
}

// RelocateData adds icf to every data symbol's address, and to every
// entry symbol whose address is still below MemoryStart, whether bound
// or still a placeholder. This fixes entries that bound to data.
func (t *SymbolTable) RelocateData(icf int) {
	for _, name := range t.names {
		sym := t.Find(name)
		switch {
		case sym.Type == SymData:
			sym.Addr += icf
		case sym.Type == SymEntry && sym.Addr < MemoryStart:
			sym.Addr += icf
		}
	}
}

// RecordExternalUse appends addr to the usage list of an external
// symbol, returning an error if name does not refer to an external.
func (t *SymbolTable) RecordExternalUse(name string, addr int) error {
	sym := t.Find(name)
	if sym == nil || sym.Type != SymExternal {
		return fmt.Errorf("symbol %q is not external", name)
	}
	sym.externs = append(sym.externs, addr)
	t.uses = append(t.uses, externalUse{name: name, addr: addr})
	return nil
}

// ExternalUse is one recorded reference to an external symbol.
type ExternalUse struct {
	Name string
	Addr int
}

// Uses returns every recorded external reference, in the order the
// references were encountered during pass 2.
func (t *SymbolTable) Uses() []ExternalUse {
	out := make([]ExternalUse, len(t.uses))
	for i, u := range t.uses {
		out[i] = ExternalUse{Name: u.name, Addr: u.addr}
	}
	return out
}

// Names returns every symbol name in the table, in a stable
// (lexicographic) order that does not depend on insertion order.
func (t *SymbolTable) Names() []string {
	names := append([]string(nil), t.names...)
	sort.Strings(names)
	return names
}

// Entries returns every symbol of type SymEntry, sorted by name.
func (t *SymbolTable) Entries() []*Symbol {
	var out []*Symbol
	for _, name := range t.Names() {
		if sym := t.Find(name); sym.Type == SymEntry {
			out = append(out, sym)
		}
	}
	return out
}

// Externals returns every symbol of type SymExternal, sorted by name.
func (t *SymbolTable) Externals() []*Symbol {
	var out []*Symbol
	for _, name := range t.Names() {
		if sym := t.Find(name); sym.Type == SymExternal {
			out = append(out, sym)
		}
	}
	return out
}
