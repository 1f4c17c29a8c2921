package tools

import (
	"bytes"

	"github.com/tinker-machine/tinker/asm"
	"github.com/tinker-machine/tinker/vm"
)

// Symbol is one resolved label, classified by which segment its address
// falls within. The assembler doesn't distinguish code and data labels at
// lookup time (spec.md §3), but a cross-reference listing is more useful
// if it does.
type Symbol struct {
	Name    string
	Address uint64
	Segment string // "code" or "data"
}

// Xref returns every label declared in src, in declaration order, with
// its resolved address and segment. It runs only pass one (via
// asm.Analyze); it never encodes instructions or writes an object file.
func Xref(src []byte) ([]Symbol, error) {
	result, err := asm.Analyze(bytes.NewReader(src))
	if err != nil {
		return nil, err
	}

	syms := make([]Symbol, 0, result.Symbols.Len())
	for _, name := range result.Symbols.Names() {
		addr, _ := result.Symbols.Lookup(name)
		seg := "code"
		if addr >= vm.DefaultDataSegBegin {
			seg = "data"
		}
		syms = append(syms, Symbol{Name: name, Address: addr, Segment: seg})
	}
	return syms, nil
}
