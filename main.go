// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/beevik/tenbit/asm"
)

var verbose bool

func init() {
	flag.BoolVar(&verbose, "v", false, "report each file to stderr as it is assembled")
	flag.CommandLine.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: tenbit file1 [file2 ...]")
		fmt.Fprintln(os.Stderr, "Each argument is a base name; tenbit reads <base>.as and writes")
		fmt.Fprintln(os.Stderr, "<base>.am, <base>.ob, <base>.ent, <base>.ext.")
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		flag.CommandLine.Usage()
		os.Exit(1)
	}

	for _, base := range args {
		assembleUnit(base)
	}
}

// assembleUnit assembles a single <base>.as file and writes whatever
// artefacts the result allows. A per-unit failure is reported to
// stderr; it never changes the process exit code.
func assembleUnit(base string) {
	base = strings.TrimSuffix(base, ".as")

	in, err := os.Open(base + ".as")
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", base, err)
		return
	}
	defer in.Close()

	if verbose {
		fmt.Fprintf(os.Stderr, "%s: assembling\n", base)
	}

	result, asmErr := asm.Assemble(in)
	if result == nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", base, asmErr)
		return
	}

	if err := writeFile(base+".am", func(w *os.File) error {
		for _, line := range result.Expanded {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", base, err)
	}

	result.WriteDiagnostics(os.Stderr)

	if result.HasErrors() {
		return
	}

	if err := writeFile(base+".ob", func(w *os.File) error {
		return asm.WriteObject(w, result)
	}); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", base, err)
		return
	}

	if err := writeIfNonEmpty(base+".ent", func(w *os.File) (bool, error) {
		return asm.WriteEntries(w, result)
	}); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", base, err)
	}

	if err := writeIfNonEmpty(base+".ext", func(w *os.File) (bool, error) {
		return asm.WriteExternals(w, result)
	}); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", base, err)
	}
}

func writeFile(path string, fn func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return fn(f)
}

// writeIfNonEmpty creates path only if fn reports it wrote something;
// a result with nothing to write leaves no file behind.
func writeIfNonEmpty(path string, fn func(*os.File) (bool, error)) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	wrote, werr := fn(f)
	f.Close()
	if !wrote {
		os.Remove(path)
	}
	return werr
}
