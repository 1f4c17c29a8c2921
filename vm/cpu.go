package vm

import (
	"fmt"
	"io"
)

// VM holds the full simulator state: the register file, the linear memory,
// and the program counter. A VM is single-threaded and synchronous; Step
// and Run are not safe to call concurrently from multiple goroutines.
type VM struct {
	Reg Registers
	Mem *Memory
	PC  uint64

	// Halted is set once a priv…halt instruction has executed.
	Halted bool

	Stdin  io.Reader
	Stdout io.Writer
}

// New returns a VM with a fresh zeroed memory image and the given console
// streams. Callers load a program and set PC/R[SP] via Load before Run.
func New(stdin io.Reader, stdout io.Writer) *VM {
	return &VM{
		Mem:    NewMemory(),
		Stdin:  stdin,
		Stdout: stdout,
	}
}

// Load installs code and data segments at their absolute addresses, sets
// PC to codeAddr and R[SP] to MemSize, and zeroes every other register.
// This mirrors the object loader's reset of machine state on every program
// load (spec.md §4.6).
func (vm *VM) Load(codeAddr uint64, code []byte, dataAddr uint64, data []byte) error {
	vm.Mem.Reset()
	if err := vm.Mem.LoadBytes(codeAddr, code); err != nil {
		return fmt.Errorf("loading code segment: %w", err)
	}
	if err := vm.Mem.LoadBytes(dataAddr, data); err != nil {
		return fmt.Errorf("loading data segment: %w", err)
	}
	vm.Reg.Reset()
	vm.Reg[SP] = MemSize
	vm.PC = codeAddr
	vm.Halted = false
	return nil
}

// Run executes instructions until a halt, an error, or ctx-less infinite
// loop: spec.md is explicit that there is no instruction-count limit, so
// Run only returns on Halted or on the first execution error.
func (vm *VM) Run() error {
	for !vm.Halted {
		if err := vm.Step(); err != nil {
			return err
		}
	}
	return nil
}

// instruction is a decoded 32-bit instruction word.
type instruction struct {
	op  Op
	rd  int
	rs  int
	rt  int
	imm uint16 // raw 12-bit field, unsigned
}

// Fields is the exported view of a decoded instruction's op/register/
// immediate fields, used by the disassembler to format instructions
// without duplicating the bit layout in spec.md §4.5.4.
type Fields struct {
	Op         Op
	Rd, Rs, Rt int
	Imm        uint16
}

func decode(word uint32) instruction {
	return instruction{
		op:  Op((word >> 27) & 0x1f),
		rd:  int((word >> 22) & 0x1f),
		rs:  int((word >> 17) & 0x1f),
		rt:  int((word >> 12) & 0x1f),
		imm: uint16(word & 0xfff),
	}
}

// DecodeWord splits a 32-bit instruction word into its op/rd/rs/rt/imm
// fields, the reverse of the §4.5.4 packing. It's the same decode Step
// uses internally, exported for the disassembler.
func DecodeWord(word uint32) Fields {
	in := decode(word)
	return Fields{Op: in.op, Rd: in.rd, Rs: in.rs, Rt: in.rt, Imm: in.imm}
}

// signExtend12 sign-extends the low 12 bits of in to a full int64.
func signExtend12(in uint16) int64 {
	v := int64(in & 0xfff)
	if v&0x800 != 0 {
		v -= 0x1000
	}
	return v
}

// SignExtend12 is signExtend12 exported for the disassembler, which needs
// to render the same signed immediates the executor computes.
func SignExtend12(in uint16) int64 {
	return signExtend12(in)
}

// Step fetches, decodes and executes a single instruction, advancing PC.
// Branch and call/ret opcodes set PC themselves and must not fall through
// to the default PC+4 advance.
func (vm *VM) Step() error {
	word, err := vm.Mem.ReadWord(vm.PC)
	if err != nil {
		return fmt.Errorf("fetch at pc=%#x: %w", vm.PC, err)
	}
	in := decode(word)

	next := vm.PC + 4
	if err := vm.execute(in, &next); err != nil {
		return fmt.Errorf("pc=%#x: %w", vm.PC, err)
	}
	vm.PC = next
	return nil
}
