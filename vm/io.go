package vm

import (
	"bufio"
	"fmt"
	"math"
)

// priv implements the priv instruction's three sub-opcodes, selected by the
// low 12 bits of the instruction word. Only halt, input and output are
// defined; any other sub-opcode is a fatal illegal instruction.
func (vm *VM) priv(in instruction, next *uint64) error {
	switch in.imm {
	case PrivHalt:
		vm.Halted = true
		return nil

	case PrivInput:
		v, err := vm.readDecimal()
		if err != nil {
			return fmt.Errorf("priv input: %w", err)
		}
		vm.Reg[in.rd] = v
		return nil

	case PrivOutput:
		switch vm.Reg[in.rd] {
		case PortDecimal:
			_, err := fmt.Fprintf(vm.Stdout, "%d\n", vm.Reg[in.rs])
			return err
		case PortByte:
			_, err := vm.Stdout.Write([]byte{byte(vm.Reg[in.rs])})
			return err
		default:
			return fmt.Errorf("priv output: unrecognized port %d", vm.Reg[in.rd])
		}

	default:
		return fmt.Errorf("priv: unsupported sub-opcode %d", in.imm)
	}
}

// readDecimal reads a single nonnegative decimal integer from Stdin,
// terminated by whitespace or EOF. It fails on a leading sign, overflow,
// or any non-digit character, matching the original console-input
// contract: priv…input never accepts negative numbers.
func (vm *VM) readDecimal() (uint64, error) {
	br, ok := vm.Stdin.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(vm.Stdin)
		vm.Stdin = br
	}

	var digits []byte
	for {
		b, err := br.ReadByte()
		if err != nil {
			if len(digits) > 0 {
				break
			}
			return 0, fmt.Errorf("reading input: %w", err)
		}
		if b == ' ' || b == '\t' || b == '\n' || b == '\r' {
			if len(digits) == 0 {
				continue
			}
			break
		}
		if b < '0' || b > '9' {
			return 0, fmt.Errorf("non-digit character %q in input", b)
		}
		digits = append(digits, b)
	}

	var v uint64
	for _, d := range digits {
		digit := uint64(d - '0')
		if v > (math.MaxUint64-digit)/10 {
			return 0, fmt.Errorf("input value overflows 64 bits")
		}
		v = v*10 + digit
	}
	return v, nil
}
