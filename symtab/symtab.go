// Package symtab implements the Tinker assembler's symbol table: an
// insertion-ordered mapping from label name to an absolute 64-bit address.
package symtab

import "fmt"

// MaxNameLen is the largest label name the table will accept.
const MaxNameLen = 256

// entry is a single symbol table record.
type entry struct {
	name    string
	address uint64
}

// Table maps label names to the absolute address they were defined at. It
// preserves insertion order (available via Names) and rejects duplicate
// definitions, matching the assembler's "duplicate label" error.
type Table struct {
	index   map[string]int
	entries []entry
}

// New creates an empty symbol table.
func New() *Table {
	return &Table{index: make(map[string]int)}
}

// Insert records name -> address. It fails if name is already present or
// exceeds MaxNameLen.
func (t *Table) Insert(name string, address uint64) error {
	if len(name) > MaxNameLen {
		return fmt.Errorf("label %q exceeds maximum length of %d bytes", name, MaxNameLen)
	}
	if _, ok := t.index[name]; ok {
		return fmt.Errorf("duplicate label %q", name)
	}
	t.index[name] = len(t.entries)
	t.entries = append(t.entries, entry{name: name, address: address})
	return nil
}

// Lookup returns the address bound to name and true, or (0, false) if name
// was never inserted.
func (t *Table) Lookup(name string) (uint64, bool) {
	i, ok := t.index[name]
	if !ok {
		return 0, false
	}
	return t.entries[i].address, true
}

// Names returns the symbol names in the order they were inserted.
func (t *Table) Names() []string {
	names := make([]string, len(t.entries))
	for i, e := range t.entries {
		names[i] = e.name
	}
	return names
}

// Len returns the number of symbols currently recorded.
func (t *Table) Len() int {
	return len(t.entries)
}
