package asm

import (
	"fmt"

	"github.com/tinker-machine/tinker/vm"
)

func packWord(op vm.Op, rd, rs, rt int, imm uint16) uint32 {
	return uint32(op)<<27 | uint32(rd)<<22 | uint32(rs)<<17 | uint32(rt)<<12 | uint32(imm&0xfff)
}

func encodePrim(p prim) []byte {
	return word32Bytes(packWord(p.op, p.rd, p.rs, p.rt, p.imm))
}

func checkUnsigned12(v int64, tok fstring) (uint16, error) {
	if v < 0 || v > 4095 {
		return 0, &Error{Row: tok.row, Column: tok.column, Message: fmt.Sprintf("immediate %d out of unsigned 12-bit range (0..4095)", v)}
	}
	return uint16(v), nil
}

func checkSigned12(v int64, tok fstring) (uint16, error) {
	if v < -2048 || v > 2047 {
		return 0, &Error{Row: tok.row, Column: tok.column, Message: fmt.Sprintf("immediate %d out of signed 12-bit range (-2048..2047)", v)}
	}
	return uint16(v) & 0xfff, nil
}

func wantRegister(op operand) error {
	if op.kind != operandRegister {
		return &Error{Row: op.text.row, Column: op.text.column, Message: "expected a register operand, got " + op.text.str}
	}
	return nil
}

// resolveValue returns the numeric value of an immediate or label operand,
// looking the label up in the (by now fully populated) symbol table.
func (a *assembler) resolveValue(op operand) (int64, error) {
	switch op.kind {
	case operandImmediate:
		return op.imm, nil
	case operandLabel:
		addr, ok := a.syms.Lookup(op.label)
		if !ok {
			return 0, &Error{Row: op.text.row, Column: op.text.column, Message: "undefined label " + op.label}
		}
		return int64(addr), nil
	default:
		return 0, &Error{Row: op.text.row, Column: op.text.column, Message: "expected a literal or label, got " + op.text.str}
	}
}

// resolveMemDisp resolves a memory operand's displacement, which may be a
// plain literal or a label reference, to a signed value.
func (a *assembler) resolveMemDisp(op operand) (int64, error) {
	if op.label == "" {
		return op.disp, nil
	}
	addr, ok := a.syms.Lookup(op.label)
	if !ok {
		return 0, &Error{Row: op.text.row, Column: op.text.column, Message: "undefined label " + op.label}
	}
	return int64(addr), nil
}

func wrongOperandCount(mnemonicTok fstring, want, got int) error {
	return &Error{
		Row: mnemonicTok.row, Column: mnemonicTok.column,
		Message: fmt.Sprintf("%q expects %d operand(s), got %d", mnemonicTok.str, want, got),
	}
}

// encodeStatement expands and encodes one code-section statement, which
// may be a macro (push/pop/clr/halt/in/out/ld), a mov or brr pseudo-op
// dispatched by operand shape, or a primitive instruction. instrAddr is
// the address this statement is being written at, needed by brr's
// PC-relative literal-form encoding.
func (a *assembler) encodeStatement(cl classifiedLine, instrAddr uint64) ([]byte, error) {
	mnemonic := cl.mnemonic.str
	operandToks := splitOperands(cl.operands)
	if len(operandToks) > 4 {
		return nil, wrongOperandCount(cl.mnemonic, 4, len(operandToks))
	}
	ops := make([]operand, len(operandToks))
	for i, tok := range operandToks {
		op, err := parseOperand(tok)
		if err != nil {
			return nil, err
		}
		ops[i] = op
	}

	switch mnemonic {
	case "mov":
		return a.encodeMov(cl.mnemonic, ops)
	case "brr":
		return a.encodeBrr(cl.mnemonic, ops, instrAddr)
	case "clr":
		if len(ops) != 1 {
			return nil, wrongOperandCount(cl.mnemonic, 1, len(ops))
		}
		if err := wantRegister(ops[0]); err != nil {
			return nil, err
		}
		return encodeAll(expandClr(ops[0].reg)), nil
	case "halt":
		if len(ops) != 0 {
			return nil, wrongOperandCount(cl.mnemonic, 0, len(ops))
		}
		return encodeAll(expandHalt()), nil
	case "in", "out":
		if len(ops) != 2 {
			return nil, wrongOperandCount(cl.mnemonic, 2, len(ops))
		}
		if err := wantRegister(ops[0]); err != nil {
			return nil, err
		}
		if err := wantRegister(ops[1]); err != nil {
			return nil, err
		}
		if mnemonic == "in" {
			return encodeAll(expandIn(ops[0].reg, ops[1].reg)), nil
		}
		return encodeAll(expandOut(ops[0].reg, ops[1].reg)), nil
	case "push":
		if len(ops) != 1 {
			return nil, wrongOperandCount(cl.mnemonic, 1, len(ops))
		}
		if err := wantRegister(ops[0]); err != nil {
			return nil, err
		}
		return encodeAll(expandPush(ops[0].reg)), nil
	case "pop":
		if len(ops) != 1 {
			return nil, wrongOperandCount(cl.mnemonic, 1, len(ops))
		}
		if err := wantRegister(ops[0]); err != nil {
			return nil, err
		}
		return encodeAll(expandPop(ops[0].reg)), nil
	case "ld":
		if len(ops) != 2 {
			return nil, wrongOperandCount(cl.mnemonic, 2, len(ops))
		}
		if err := wantRegister(ops[0]); err != nil {
			return nil, err
		}
		v, err := a.resolveValue(ops[1])
		if err != nil {
			return nil, err
		}
		return encodeAll(expandLd(ops[0].reg, uint64(v))), nil
	}

	spec, ok := primitiveOps[mnemonic]
	if !ok {
		return nil, &Error{Row: cl.mnemonic.row, Column: cl.mnemonic.column,
			Message: fmt.Sprintf("unknown mnemonic %q%s", mnemonic, a.suggestMnemonic(mnemonic))}
	}
	return a.encodePrimitive(cl.mnemonic, spec, ops)
}

func encodeAll(prims []prim) []byte {
	out := make([]byte, 0, len(prims)*instructionSize)
	for _, p := range prims {
		out = append(out, encodePrim(p)...)
	}
	return out
}

func (a *assembler) encodePrimitive(mnemonicTok fstring, spec opSpec, ops []operand) ([]byte, error) {
	want := map[operandForm]int{
		formRRR: 3, formRR: 2, formRUnsImm: 2, formR: 1, formSignedImm: 1, formNone: 0, formPriv: 4,
	}[spec.form]
	if len(ops) != want {
		return nil, wrongOperandCount(mnemonicTok, want, len(ops))
	}

	var p prim
	p.op = spec.op
	switch spec.form {
	case formRRR:
		for _, o := range ops {
			if err := wantRegister(o); err != nil {
				return nil, err
			}
		}
		p.rd, p.rs, p.rt = ops[0].reg, ops[1].reg, ops[2].reg
	case formRR:
		for _, o := range ops {
			if err := wantRegister(o); err != nil {
				return nil, err
			}
		}
		p.rd, p.rs = ops[0].reg, ops[1].reg
	case formR:
		if err := wantRegister(ops[0]); err != nil {
			return nil, err
		}
		p.rd = ops[0].reg
	case formRUnsImm:
		if err := wantRegister(ops[0]); err != nil {
			return nil, err
		}
		v, err := a.resolveValue(ops[1])
		if err != nil {
			return nil, err
		}
		imm, err := checkUnsigned12(v, ops[1].text)
		if err != nil {
			return nil, err
		}
		p.rd, p.imm = ops[0].reg, imm
	case formPriv:
		for _, o := range ops[:3] {
			if err := wantRegister(o); err != nil {
				return nil, err
			}
		}
		v, err := a.resolveValue(ops[3])
		if err != nil {
			return nil, err
		}
		imm, err := checkUnsigned12(v, ops[3].text)
		if err != nil {
			return nil, err
		}
		p.rd, p.rs, p.rt, p.imm = ops[0].reg, ops[1].reg, ops[2].reg, imm
	case formNone:
		// no operands
	}
	return encodePrim(p), nil
}

// encodeMov dispatches "mov" to one of its four primitive forms based on
// operand shape (spec.md §4.5.2): both registers, a memory destination, a
// memory source, or an immediate/label source.
func (a *assembler) encodeMov(mnemonicTok fstring, ops []operand) ([]byte, error) {
	if len(ops) != 2 {
		return nil, wrongOperandCount(mnemonicTok, 2, len(ops))
	}
	dst, src := ops[0], ops[1]

	switch {
	case dst.kind == operandMemory && src.kind == operandRegister:
		disp, err := a.resolveMemDisp(dst)
		if err != nil {
			return nil, err
		}
		imm, err := checkSigned12(disp, dst.text)
		if err != nil {
			return nil, err
		}
		return encodePrim(prim{op: vm.OpMovSM, rd: dst.reg, rs: src.reg, imm: imm}), nil

	case dst.kind == operandRegister && src.kind == operandMemory:
		disp, err := a.resolveMemDisp(src)
		if err != nil {
			return nil, err
		}
		imm, err := checkSigned12(disp, src.text)
		if err != nil {
			return nil, err
		}
		return encodePrim(prim{op: vm.OpMovML, rd: dst.reg, rs: src.reg, imm: imm}), nil

	case dst.kind == operandRegister && src.kind == operandRegister:
		return encodePrim(prim{op: vm.OpMovRR, rd: dst.reg, rs: src.reg}), nil

	case dst.kind == operandRegister && (src.kind == operandImmediate || src.kind == operandLabel):
		v, err := a.resolveValue(src)
		if err != nil {
			return nil, err
		}
		imm, err := checkUnsigned12(v, src.text)
		if err != nil {
			return nil, err
		}
		return encodePrim(prim{op: vm.OpMovL, rd: dst.reg, imm: imm}), nil

	default:
		return nil, &Error{Row: mnemonicTok.row, Column: mnemonicTok.column, Message: "mov: unsupported operand combination"}
	}
}

// encodeBrr dispatches "brr" to its register or literal form. A label
// operand is converted to an instruction-count offset at assemble time:
// (target - (instrAddr+4)) / 4 (spec.md §4.5.3).
func (a *assembler) encodeBrr(mnemonicTok fstring, ops []operand, instrAddr uint64) ([]byte, error) {
	if len(ops) != 1 {
		return nil, wrongOperandCount(mnemonicTok, 1, len(ops))
	}
	op := ops[0]

	switch op.kind {
	case operandRegister:
		return encodePrim(prim{op: vm.OpBrrR, rd: op.reg}), nil

	case operandImmediate:
		imm, err := checkSigned12(op.imm, op.text)
		if err != nil {
			return nil, err
		}
		return encodePrim(prim{op: vm.OpBrrL, imm: imm}), nil

	case operandLabel:
		target, ok := a.syms.Lookup(op.label)
		if !ok {
			return nil, &Error{Row: op.text.row, Column: op.text.column, Message: "undefined label " + op.label}
		}
		diff := int64(target) - int64(instrAddr+4)
		if diff%4 != 0 {
			return nil, &Error{Row: op.text.row, Column: op.text.column, Message: "branch target is not instruction-aligned"}
		}
		offset := diff / 4
		imm, err := checkSigned12(offset, op.text)
		if err != nil {
			return nil, err
		}
		return encodePrim(prim{op: vm.OpBrrL, imm: imm}), nil

	default:
		return nil, &Error{Row: op.text.row, Column: op.text.column, Message: "brr: expected a register, literal, or label"}
	}
}
