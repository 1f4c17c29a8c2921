// Package loader reads a Tinker object file and installs it into a fresh
// vm.VM, mirroring the simulator's own startup sequence: validate the
// header's segment bounds, copy code and data into memory, and reset every
// register before execution begins.
package loader

import (
	"fmt"
	"io"

	"github.com/tinker-machine/tinker/object"
	"github.com/tinker-machine/tinker/vm"
)

// Load reads an object file from r and returns a VM ready to Run. Any
// malformed header, out-of-bounds segment, or short read is a fatal error
// with no partial machine returned.
func Load(r io.Reader, stdin io.Reader, stdout io.Writer) (*vm.VM, error) {
	hdr, err := object.ReadHeader(r)
	if err != nil {
		return nil, err
	}

	if hdr.CodeSegBegin+hdr.CodeSegSize > vm.MemSize {
		return nil, fmt.Errorf("code segment [%#x, %#x) exceeds %d-byte memory",
			hdr.CodeSegBegin, hdr.CodeSegBegin+hdr.CodeSegSize, vm.MemSize)
	}
	if hdr.DataSegBegin+hdr.DataSegSize > vm.MemSize {
		return nil, fmt.Errorf("data segment [%#x, %#x) exceeds %d-byte memory",
			hdr.DataSegBegin, hdr.DataSegBegin+hdr.DataSegSize, vm.MemSize)
	}

	code := make([]byte, hdr.CodeSegSize)
	if _, err := io.ReadFull(r, code); err != nil {
		return nil, fmt.Errorf("reading code segment (%d bytes): %w", hdr.CodeSegSize, err)
	}
	data := make([]byte, hdr.DataSegSize)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, fmt.Errorf("reading data segment (%d bytes): %w", hdr.DataSegSize, err)
	}

	m := vm.New(stdin, stdout)
	if err := m.Load(hdr.CodeSegBegin, code, hdr.DataSegBegin, data); err != nil {
		return nil, err
	}
	return m, nil
}
