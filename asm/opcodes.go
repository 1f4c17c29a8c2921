package asm

import "github.com/tinker-machine/tinker/vm"

// operandForm names the operand shape a primitive mnemonic expects, used
// to drive both parsing and bounds-checking in passTwo.
type operandForm int

const (
	formRRR      operandForm = iota // rd, rs, rt
	formRR                          // rd, rs
	formRUnsImm                     // rd, imm (unsigned 12-bit)
	formR                            // rd
	formSignedImm                   // imm (signed 12-bit) -- brr literal only
	formNone                         // no operands -- ret
	formPriv                         // rd, rs, rt, imm (unsigned 12-bit)
	// mov and brr dispatch on operand shape rather than a fixed form; they
	// are handled directly in encodeStatement/encodeMov/encodeBrr.
)

// opSpec describes one primitive mnemonic: its opcode and operand shape.
type opSpec struct {
	op   vm.Op
	form operandForm
}

// primitiveOps holds every mnemonic that maps directly onto a single
// 32-bit instruction, i.e. everything except the macros in macros.go and
// the operand-shape-dispatched mov/brr pair (handled in encode.go).
var primitiveOps = map[string]opSpec{
	"and": {vm.OpAnd, formRRR},
	"or":  {vm.OpOr, formRRR},
	"xor": {vm.OpXor, formRRR},
	"not": {vm.OpNot, formRR},

	"shftr":  {vm.OpShftR, formRRR},
	"shftri": {vm.OpShftRI, formRUnsImm},
	"shftl":  {vm.OpShftL, formRRR},
	"shftli": {vm.OpShftLI, formRUnsImm},

	"br":    {vm.OpBr, formR},
	"brnz":  {vm.OpBrnz, formRR},
	"call":  {vm.OpCall, formR},
	"ret":   {vm.OpRet, formNone},
	"brgt":  {vm.OpBrgt, formRRR},
	"priv":  {vm.OpPriv, formPriv},

	"addf": {vm.OpAddF, formRRR},
	"subf": {vm.OpSubF, formRRR},
	"mulf": {vm.OpMulF, formRRR},
	"divf": {vm.OpDivF, formRRR},

	"add":  {vm.OpAdd, formRRR},
	"sub":  {vm.OpSub, formRRR},
	"mul":  {vm.OpMul, formRRR},
	"div":  {vm.OpDiv, formRRR},
	"addi": {vm.OpAddI, formRUnsImm},
	"subi": {vm.OpSubI, formRUnsImm},
}

// instructionSize is the byte size of a single primitive instruction.
const instructionSize = 4

// allMnemonics lists every surface mnemonic (primitive, mov, brr, and
// macro) for "did you mean" suggestions on an unknown mnemonic.
func allMnemonics() []string {
	names := make([]string, 0, len(primitiveOps)+len(macroSizes)+2)
	for name := range primitiveOps {
		names = append(names, name)
	}
	names = append(names, "mov", "brr")
	for name := range macroSizes {
		names = append(names, name)
	}
	return names
}
