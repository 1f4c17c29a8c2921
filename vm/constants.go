// Package vm implements the Tinker virtual machine: a segmented memory
// image, a 32-register file shared by integer and floating-point code, and
// a fetch/decode/execute loop over 32-bit instruction words.
package vm

// MemSize is the size, in bytes, of the simulator's single linear memory.
const MemSize = 524288 // 512 KiB

// NumRegisters is the size of the general register file. Register 31 is
// the stack pointer.
const NumRegisters = 32

// SP is the register number reserved as the stack pointer.
const SP = 31

// DefaultCodeSegBegin and DefaultDataSegBegin are the addresses the
// assembler assigns each segment; source text has no way to choose other
// start addresses. Every example in spec.md uses these.
const (
	DefaultCodeSegBegin = 0x2000
	DefaultDataSegBegin = 0x10000
)

// Op identifies a primitive (non-macro) Tinker instruction.
type Op byte

// Primitive opcodes, bits 31..27 of the instruction word.
const (
	OpAnd Op = 0x00
	OpOr  Op = 0x01
	OpXor Op = 0x02
	OpNot Op = 0x03

	OpShftR  Op = 0x04
	OpShftRI Op = 0x05
	OpShftL  Op = 0x06
	OpShftLI Op = 0x07

	OpBr   Op = 0x08
	OpBrrR Op = 0x09
	OpBrrL Op = 0x0a
	OpBrnz Op = 0x0b
	OpCall Op = 0x0c
	OpRet  Op = 0x0d
	OpBrgt Op = 0x0e
	OpPriv Op = 0x0f

	OpMovML Op = 0x10 // mov rd, (rs)(imm) -- load
	OpMovRR Op = 0x11 // mov rd, rs
	OpMovL  Op = 0x12 // mov rd, imm -- sets low 12 bits
	OpMovSM Op = 0x13 // mov (rd)(imm), rs -- store

	OpAddF Op = 0x14
	OpSubF Op = 0x15
	OpMulF Op = 0x16
	OpDivF Op = 0x17

	OpAdd  Op = 0x18
	OpAddI Op = 0x19
	OpSub  Op = 0x1a
	OpSubI Op = 0x1b
	OpMul  Op = 0x1c
	OpDiv  Op = 0x1d
)

// priv sub-opcodes, carried in the immediate field.
const (
	PrivHalt   = 0x0
	PrivInput  = 0x3
	PrivOutput = 0x4
)

// Console output ports selected by R[rd] during a priv…4 instruction.
const (
	PortDecimal = 1
	PortByte    = 3
)

// mnemonicByOp names every primitive opcode. Pseudo-ops (mov variants, brr
// variants) collapse to a single surface mnemonic, so Mnemonic does not
// tell their forms apart; package disasm renders each form from its opcode.
var mnemonicByOp = map[Op]string{
	OpAnd: "and", OpOr: "or", OpXor: "xor", OpNot: "not",
	OpShftR: "shftr", OpShftRI: "shftri", OpShftL: "shftl", OpShftLI: "shftli",
	OpBr: "br", OpBrrR: "brr", OpBrrL: "brr", OpBrnz: "brnz",
	OpCall: "call", OpRet: "ret", OpBrgt: "brgt", OpPriv: "priv",
	OpMovML: "mov", OpMovRR: "mov", OpMovL: "mov", OpMovSM: "mov",
	OpAddF: "addf", OpSubF: "subf", OpMulF: "mulf", OpDivF: "divf",
	OpAdd: "add", OpAddI: "addi", OpSub: "sub", OpSubI: "subi",
	OpMul: "mul", OpDiv: "div",
}

// Mnemonic returns the surface mnemonic for a primitive opcode, or "" if op
// is not a recognized primitive.
func (op Op) Mnemonic() string {
	return mnemonicByOp[op]
}
