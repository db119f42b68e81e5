// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import "fmt"

// directiveNames is the set of recognised dot-directives.
var directiveNames = map[string]bool{
	".data":   true,
	".string": true,
	".mat":    true,
	".extern": true,
	".entry":  true,
}

func isDirective(name string) bool {
	return directiveNames[name]
}

// validateLabelSyntax enforces the naming rule shared by symbols and
// macros: no more than MaxLabelLen characters, first character
// alphabetic, remaining characters alphanumeric.
func validateLabelSyntax(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("empty label")
	case len(name) > MaxLabelLen:
		return fmt.Errorf("label %q exceeds %d characters", name, MaxLabelLen)
	case !labelStartChar(name[0]):
		return fmt.Errorf("label %q must start with a letter", name)
	}
	for i := 1; i < len(name); i++ {
		if !labelChar(name[i]) {
			return fmt.Errorf("label %q contains an invalid character", name)
		}
	}
	return nil
}
