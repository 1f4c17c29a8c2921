package asm

import "github.com/tinker-machine/tinker/vm"

// prim is a single primitive instruction produced by expanding a macro (or
// by a non-mov/brr primitive statement), with all operands fully resolved
// to numbers -- no label references remain by the time one is built.
type prim struct {
	op       vm.Op
	rd, rs, rt int
	imm      uint16 // already masked to 12 bits, sign handled by caller
}

// macroSizes gives each macro's expansion size in bytes, needed during
// pass one before the macro is actually expanded (spec.md §4.4/§9).
var macroSizes = map[string]int{
	"clr":  4,
	"halt": 4,
	"in":   4,
	"out":  4,
	"push": 8,
	"pop":  8,
	"ld":   48,
}

func expandClr(rd int) []prim {
	return []prim{{op: vm.OpXor, rd: rd, rs: rd, rt: rd}}
}

func expandHalt() []prim {
	return []prim{{op: vm.OpPriv, imm: vm.PrivHalt}}
}

func expandIn(rd, rs int) []prim {
	return []prim{{op: vm.OpPriv, rd: rd, rs: rs, imm: vm.PrivInput}}
}

func expandOut(rd, rs int) []prim {
	return []prim{{op: vm.OpPriv, rd: rd, rs: rs, imm: vm.PrivOutput}}
}

// expandPush implements "push rs" -> mov (r31)(-8), rs ; subi r31, 8.
func expandPush(rs int) []prim {
	return []prim{
		{op: vm.OpMovSM, rd: vm.SP, rs: rs, imm: signedImm12(-8)},
		{op: vm.OpSubI, rd: vm.SP, imm: 8},
	}
}

// expandPop implements "pop rd" -> mov rd, (r31)(0) ; addi r31, 8.
func expandPop(rd int) []prim {
	return []prim{
		{op: vm.OpMovML, rd: rd, rs: vm.SP, imm: 0},
		{op: vm.OpAddI, rd: vm.SP, imm: 8},
	}
}

// expandLd implements "ld rd, L" for a fully-resolved 64-bit value L: a
// xor to clear rd, followed by four (addi, shftli-by-12) pairs, then an
// addi, a shftli-by-4 and a last addi: twelve primitives that together
// deposit L's 64 bits from MSB to LSB. The trailing shift-by-4 (not 12) is intentional -- it lands
// the last nibble at bit positions 3..0 (spec.md §9).
func expandLd(rd int, value uint64) []prim {
	chunk := func(shift uint) uint16 {
		return uint16((value >> shift) & 0xfff)
	}
	return []prim{
		{op: vm.OpXor, rd: rd, rs: rd, rt: rd},
		{op: vm.OpAddI, rd: rd, imm: chunk(52)},
		{op: vm.OpShftLI, rd: rd, imm: 12},
		{op: vm.OpAddI, rd: rd, imm: chunk(40)},
		{op: vm.OpShftLI, rd: rd, imm: 12},
		{op: vm.OpAddI, rd: rd, imm: chunk(28)},
		{op: vm.OpShftLI, rd: rd, imm: 12},
		{op: vm.OpAddI, rd: rd, imm: chunk(16)},
		{op: vm.OpShftLI, rd: rd, imm: 12},
		{op: vm.OpAddI, rd: rd, imm: chunk(4)},
		{op: vm.OpShftLI, rd: rd, imm: 4},
		{op: vm.OpAddI, rd: rd, imm: uint16(value & 0xf)},
	}
}

// signedImm12 packs a signed value already known to be in [-2048, 2047]
// into the instruction word's 12-bit field.
func signedImm12(v int64) uint16 {
	return uint16(v) & 0xfff
}
