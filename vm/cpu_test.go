package vm_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/tinker-machine/tinker/vm"
)

// encode packs an instruction word the same way the assembler's encoder
// does: (op<<27)|(rd<<22)|(rs<<17)|(rt<<12)|(imm&0xFFF).
func encode(op vm.Op, rd, rs, rt int, imm uint16) uint32 {
	return uint32(op)<<27 | uint32(rd)<<22 | uint32(rs)<<17 | uint32(rt)<<12 | uint32(imm&0xfff)
}

func toLE(words ...uint32) []byte {
	buf := make([]byte, 4*len(words))
	for i, w := range words {
		buf[4*i+0] = byte(w)
		buf[4*i+1] = byte(w >> 8)
		buf[4*i+2] = byte(w >> 16)
		buf[4*i+3] = byte(w >> 24)
	}
	return buf
}

func newLoadedVM(t *testing.T, code []byte) *vm.VM {
	t.Helper()
	var stdout bytes.Buffer
	m := vm.New(strings.NewReader(""), &stdout)
	if err := m.Load(vm.DefaultCodeSegBegin, code, vm.DefaultDataSegBegin, nil); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return m
}

func TestAddiThenHalt(t *testing.T) {
	code := toLE(
		encode(vm.OpAddI, 1, 0, 0, 5),
		encode(vm.OpPriv, 0, 0, 0, vm.PrivHalt),
	)
	m := newLoadedVM(t, code)
	if err := m.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if m.Reg[1] != 5 {
		t.Errorf("R1 = %d, want 5", m.Reg[1])
	}
	if !m.Halted {
		t.Error("expected machine to halt")
	}
}

func TestAddiEncoding(t *testing.T) {
	// spec.md's worked example: addi r1, 5 encodes as 0xC8400005.
	word := encode(vm.OpAddI, 1, 0, 0, 5)
	if word != 0xC8400005 {
		t.Errorf("encode(addi r1,5) = %#08x, want 0xC8400005", word)
	}
	halt := encode(vm.OpPriv, 0, 0, 0, vm.PrivHalt)
	if halt != 0x78000000 {
		t.Errorf("encode(priv halt) = %#08x, want 0x78000000", halt)
	}
}

func TestDecodeWordRoundTrip(t *testing.T) {
	cases := []struct {
		op         vm.Op
		rd, rs, rt int
		imm        uint16
	}{
		{vm.OpAnd, 1, 2, 3, 0},
		{vm.OpShftLI, 7, 0, 0, 4095},
		{vm.OpBrrL, 0, 0, 0, 0x800}, // -2048 once sign-extended
		{vm.OpPriv, 31, 30, 29, 4},
		{vm.OpMovSM, 31, 5, 0, 0xff8}, // -8 once sign-extended
		{vm.OpDiv, 0, 0, 31, 0},
	}
	for _, c := range cases {
		f := vm.DecodeWord(encode(c.op, c.rd, c.rs, c.rt, c.imm))
		if f.Op != c.op || f.Rd != c.rd || f.Rs != c.rs || f.Rt != c.rt || f.Imm != c.imm {
			t.Errorf("round trip of (%#x,%d,%d,%d,%#x) gave %+v", byte(c.op), c.rd, c.rs, c.rt, c.imm, f)
		}
	}
	if got := vm.SignExtend12(0x800); got != -2048 {
		t.Errorf("SignExtend12(0x800) = %d, want -2048", got)
	}
	if got := vm.SignExtend12(0x7ff); got != 2047 {
		t.Errorf("SignExtend12(0x7ff) = %d, want 2047", got)
	}
}

func TestDivByZeroIsFatal(t *testing.T) {
	code := toLE(
		encode(vm.OpDiv, 1, 0, 2, 0),
		encode(vm.OpPriv, 0, 0, 0, vm.PrivHalt),
	)
	m := newLoadedVM(t, code)
	m.Reg[1] = 10
	m.Reg[2] = 0
	if err := m.Run(); err == nil {
		t.Error("expected division by zero to be fatal")
	}
}

func TestCallRetDoesNotAdjustSP(t *testing.T) {
	// call rd -- jumps to R[rd], writes return addr at R[SP]-8, SP unchanged.
	// Code is loaded at address 0 so the callee's address fits a 12-bit movl.
	code := toLE(
		encode(vm.OpMovL, 2, 0, 0, 12), // r2 = address of the ret below
		encode(vm.OpCall, 2, 0, 0, 0),
		encode(vm.OpPriv, 0, 0, 0, vm.PrivHalt),
		encode(vm.OpRet, 0, 0, 0, 0),
	)
	var stdout bytes.Buffer
	m := vm.New(strings.NewReader(""), &stdout)
	if err := m.Load(0, code, vm.DefaultDataSegBegin, nil); err != nil {
		t.Fatalf("Load: %v", err)
	}
	spBefore := m.Reg[vm.SP]
	if err := m.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if m.Reg[vm.SP] != spBefore {
		t.Errorf("SP changed from %#x to %#x across call/ret", spBefore, m.Reg[vm.SP])
	}
}

func TestPrivOutputDecimal(t *testing.T) {
	var stdout bytes.Buffer
	m := vm.New(strings.NewReader(""), &stdout)
	code := toLE(
		encode(vm.OpAddI, 1, 0, 0, 42),
		encode(vm.OpAddI, 2, 0, 0, vm.PortDecimal),
		encode(vm.OpPriv, 2, 1, 0, vm.PrivOutput),
		encode(vm.OpPriv, 0, 0, 0, vm.PrivHalt),
	)
	if err := m.Load(vm.DefaultCodeSegBegin, code, vm.DefaultDataSegBegin, nil); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := m.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := stdout.String(); got != "42\n" {
		t.Errorf("stdout = %q, want %q", got, "42\n")
	}
}

func TestPrivInputRejectsNonDigit(t *testing.T) {
	var stdout bytes.Buffer
	m := vm.New(strings.NewReader("-5\n"), &stdout)
	code := toLE(
		encode(vm.OpPriv, 1, 0, 0, vm.PrivInput),
		encode(vm.OpPriv, 0, 0, 0, vm.PrivHalt),
	)
	if err := m.Load(vm.DefaultCodeSegBegin, code, vm.DefaultDataSegBegin, nil); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := m.Run(); err == nil {
		t.Error("expected a leading '-' on priv input to be fatal")
	}
}

func TestUnalignedStoreFails(t *testing.T) {
	code := toLE(
		encode(vm.OpAddI, 1, 0, 0, 4),  // r1 = 4
		encode(vm.OpMovSM, 1, 1, 0, 1), // store at (r1)+1 = 5, not 8-byte aligned
		encode(vm.OpPriv, 0, 0, 0, vm.PrivHalt),
	)
	m := newLoadedVM(t, code)
	if err := m.Run(); err == nil {
		t.Error("expected unaligned store to be fatal")
	}
}
