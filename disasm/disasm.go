// Package disasm renders decoded Tinker instruction words back into the
// assembler's own mnemonic syntax. It exists because the simulator's
// fetch/decode step already does the hard part (vm.DecodeWord); exposing
// that decode as readable text is read-only tooling with no effect on
// assembly or simulation (spec.md §6 SUPPLEMENTAL FEATURES).
package disasm

import (
	"fmt"

	"github.com/tinker-machine/tinker/vm"
)

// Line is one decoded, formatted instruction: its address, raw word, and
// rendered assembly text.
type Line struct {
	Addr uint64
	Word uint32
	Text string
}

// Decode renders the instruction word at addr into Tinker assembly text
// using the same operand syntax pass two accepts (spec.md §4.5.2), so
// disassembled output can be fed straight back into the assembler. A word
// whose opcode is not a Tinker primitive renders as ".word", which the
// assembler does not accept.
func Decode(addr uint64, word uint32) Line {
	return Line{Addr: addr, Word: word, Text: format(vm.DecodeWord(word))}
}

// Segment disassembles every 4-byte instruction word in code, starting at
// begin, in order. code's length must be a multiple of 4 -- true of any
// code segment a correct assembly produced (spec.md's invariant that
// code_seg_size is always a multiple of 4).
func Segment(begin uint64, code []byte) ([]Line, error) {
	if len(code)%4 != 0 {
		return nil, fmt.Errorf("code segment length %d is not a multiple of 4", len(code))
	}
	lines := make([]Line, 0, len(code)/4)
	for off := 0; off < len(code); off += 4 {
		word := uint32(code[off]) | uint32(code[off+1])<<8 | uint32(code[off+2])<<16 | uint32(code[off+3])<<24
		lines = append(lines, Decode(begin+uint64(off), word))
	}
	return lines, nil
}

func reg(n int) string { return fmt.Sprintf("r%d", n) }

// format renders a decoded instruction's fields as assembly text. Every
// primitive opcode in spec.md §4.5.3 has one case; mov and brr each cover
// every encoded form of that mnemonic, distinguished by opcode rather than
// by re-inspecting operand shape the way the assembler's encoder does.
func format(f vm.Fields) string {
	switch f.Op {
	case vm.OpAnd:
		return fmt.Sprintf("and %s, %s, %s", reg(f.Rd), reg(f.Rs), reg(f.Rt))
	case vm.OpOr:
		return fmt.Sprintf("or %s, %s, %s", reg(f.Rd), reg(f.Rs), reg(f.Rt))
	case vm.OpXor:
		return fmt.Sprintf("xor %s, %s, %s", reg(f.Rd), reg(f.Rs), reg(f.Rt))
	case vm.OpNot:
		return fmt.Sprintf("not %s, %s", reg(f.Rd), reg(f.Rs))
	case vm.OpShftR:
		return fmt.Sprintf("shftr %s, %s, %s", reg(f.Rd), reg(f.Rs), reg(f.Rt))
	case vm.OpShftRI:
		return fmt.Sprintf("shftri %s, %d", reg(f.Rd), f.Imm)
	case vm.OpShftL:
		return fmt.Sprintf("shftl %s, %s, %s", reg(f.Rd), reg(f.Rs), reg(f.Rt))
	case vm.OpShftLI:
		return fmt.Sprintf("shftli %s, %d", reg(f.Rd), f.Imm)
	case vm.OpBr:
		return fmt.Sprintf("br %s", reg(f.Rd))
	case vm.OpBrrR:
		return fmt.Sprintf("brr %s", reg(f.Rd))
	case vm.OpBrrL:
		return fmt.Sprintf("brr %d", vm.SignExtend12(f.Imm))
	case vm.OpBrnz:
		return fmt.Sprintf("brnz %s, %s", reg(f.Rd), reg(f.Rs))
	case vm.OpCall:
		return fmt.Sprintf("call %s", reg(f.Rd))
	case vm.OpRet:
		return "ret"
	case vm.OpBrgt:
		return fmt.Sprintf("brgt %s, %s, %s", reg(f.Rd), reg(f.Rs), reg(f.Rt))
	case vm.OpPriv:
		return fmt.Sprintf("priv %s, %s, %s, %d", reg(f.Rd), reg(f.Rs), reg(f.Rt), f.Imm)
	case vm.OpMovML:
		return fmt.Sprintf("mov %s, (%s)(%d)", reg(f.Rd), reg(f.Rs), vm.SignExtend12(f.Imm))
	case vm.OpMovRR:
		return fmt.Sprintf("mov %s, %s", reg(f.Rd), reg(f.Rs))
	case vm.OpMovL:
		return fmt.Sprintf("mov %s, %d", reg(f.Rd), f.Imm)
	case vm.OpMovSM:
		return fmt.Sprintf("mov (%s)(%d), %s", reg(f.Rd), vm.SignExtend12(f.Imm), reg(f.Rs))
	case vm.OpAddF:
		return fmt.Sprintf("addf %s, %s, %s", reg(f.Rd), reg(f.Rs), reg(f.Rt))
	case vm.OpSubF:
		return fmt.Sprintf("subf %s, %s, %s", reg(f.Rd), reg(f.Rs), reg(f.Rt))
	case vm.OpMulF:
		return fmt.Sprintf("mulf %s, %s, %s", reg(f.Rd), reg(f.Rs), reg(f.Rt))
	case vm.OpDivF:
		return fmt.Sprintf("divf %s, %s, %s", reg(f.Rd), reg(f.Rs), reg(f.Rt))
	case vm.OpAdd:
		return fmt.Sprintf("add %s, %s, %s", reg(f.Rd), reg(f.Rs), reg(f.Rt))
	case vm.OpAddI:
		return fmt.Sprintf("addi %s, %d", reg(f.Rd), f.Imm)
	case vm.OpSub:
		return fmt.Sprintf("sub %s, %s, %s", reg(f.Rd), reg(f.Rs), reg(f.Rt))
	case vm.OpSubI:
		return fmt.Sprintf("subi %s, %d", reg(f.Rd), f.Imm)
	case vm.OpMul:
		return fmt.Sprintf("mul %s, %s, %s", reg(f.Rd), reg(f.Rs), reg(f.Rt))
	case vm.OpDiv:
		return fmt.Sprintf("div %s, %s, %s", reg(f.Rd), reg(f.Rs), reg(f.Rt))
	default:
		return fmt.Sprintf(".word %#08x", uint32(f.Op)<<27|uint32(f.Rd)<<22|uint32(f.Rs)<<17|uint32(f.Rt)<<12|uint32(f.Imm))
	}
}
