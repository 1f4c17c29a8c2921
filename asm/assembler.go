// Package asm implements the Tinker two-pass assembler: a line-discipline
// scanner, a size-and-symbol first pass, and an encoding second pass that
// produces a loadable object image (spec.md §4).
package asm

import (
	"bufio"
	"fmt"
	"io"

	"github.com/beevik/prefixtree/v2"

	"github.com/tinker-machine/tinker/object"
	"github.com/tinker-machine/tinker/symtab"
	"github.com/tinker-machine/tinker/vm"
)

type section int

const (
	sectionCode section = iota
	sectionData
)

// Result is everything Assemble produces: the object header plus the raw
// segment bytes, ready to be written to disk by the caller.
type Result struct {
	Header  object.Header
	Code    []byte
	Data    []byte
	Symbols *symtab.Table
}

// assembler holds all mutable state threaded through the two passes. Both
// passes re-walk the same stored lines rather than an intermediate AST,
// per the two-pass design described in spec.md §9.
type assembler struct {
	src   io.Reader
	lines []fstring

	errors ErrorList

	verbose bool
	log     io.Writer

	syms *symtab.Table

	codeBegin, dataBegin uint64

	code []byte
	data []byte

	mnemonics *prefixtree.Tree[string]
}

// Assemble reads Tinker assembly source from r and produces a Result, or a
// non-nil ErrorList describing every problem found. Diagnostic detail is
// written to log when verbose is true, matching the teacher's verbose
// assembly trace.
func Assemble(r io.Reader, verbose bool, log io.Writer) (*Result, error) {
	a := &assembler{
		src:       r,
		verbose:   verbose,
		log:       log,
		syms:      symtab.New(),
		codeBegin: vm.DefaultCodeSegBegin,
		dataBegin: vm.DefaultDataSegBegin,
		mnemonics: buildMnemonicTree(),
	}

	steps := []func(a *assembler) error{
		(*assembler).readLines,
		(*assembler).passOne,
		(*assembler).passTwo,
	}
	for _, step := range steps {
		if err := step(a); err != nil {
			return nil, err
		}
		if len(a.errors) > 0 {
			return nil, a.errors
		}
	}

	a.logSection("summary")
	a.logf("  code: %d bytes at %#x", len(a.code), a.codeBegin)
	a.logf("  data: %d bytes at %#x", len(a.data), a.dataBegin)

	return &Result{
		Header: object.Header{
			FileType:     0,
			CodeSegBegin: a.codeBegin,
			CodeSegSize:  uint64(len(a.code)),
			DataSegBegin: a.dataBegin,
			DataSegSize:  uint64(len(a.data)),
		},
		Code:    a.code,
		Data:    a.data,
		Symbols: a.syms,
	}, nil
}

func (a *assembler) logf(format string, args ...interface{}) {
	if a.verbose && a.log != nil {
		fmt.Fprintf(a.log, format+"\n", args...)
	}
}

func (a *assembler) logSection(title string) {
	a.logf("--- %s ---", title)
}

// readLines slurps the source into fstrings, one per physical line, so
// that both passes can re-walk identical input without re-reading r.
func (a *assembler) readLines() error {
	scanner := bufio.NewScanner(a.src)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	row := 0
	for scanner.Scan() {
		row++
		a.lines = append(a.lines, newFstring(row, scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading source: %w", err)
	}
	return nil
}

// buildMnemonicTree indexes every known mnemonic for "did you mean"
// suggestions when pass two hits an unrecognized one.
func buildMnemonicTree() *prefixtree.Tree[string] {
	t := prefixtree.New[string]()
	for _, name := range allMnemonics() {
		t.Add(name, name)
	}
	return t
}

// suggestMnemonic returns a "did you mean X" fragment for the longest
// prefix of the unknown mnemonic that picks out exactly one known
// mnemonic, or "" if no prefix of it does.
func (a *assembler) suggestMnemonic(name string) string {
	for n := len(name); n > 0; n-- {
		if v, err := a.mnemonics.FindValue(name[:n]); err == nil {
			return fmt.Sprintf(" (did you mean %q?)", v)
		}
	}
	return ""
}
