package asm

import (
	"io"

	"github.com/tinker-machine/tinker/symtab"
	"github.com/tinker-machine/tinker/vm"
)

// AnalyzeResult is the outcome of running pass one only: every label's
// resolved address, without expanding macros, encoding instructions, or
// producing an object file.
type AnalyzeResult struct {
	Symbols *symtab.Table
}

// Analyze runs the size-and-symbol pass (spec.md §4.4) and stops, without
// running pass two. It backs tinkerctl's lint and cross-reference
// subcommands, which only need resolved label addresses and the same
// lexical/line-discipline errors pass one already catches -- not a
// written object file.
func Analyze(r io.Reader) (*AnalyzeResult, error) {
	a := &assembler{
		src:       r,
		syms:      symtab.New(),
		codeBegin: vm.DefaultCodeSegBegin,
		dataBegin: vm.DefaultDataSegBegin,
		mnemonics: buildMnemonicTree(),
	}
	if err := a.readLines(); err != nil {
		return nil, err
	}
	if err := a.passOne(); err != nil {
		return nil, err
	}
	if len(a.errors) > 0 {
		return nil, a.errors
	}
	return &AnalyzeResult{Symbols: a.syms}, nil
}
