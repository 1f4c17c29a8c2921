package disasm_test

import (
	"testing"

	"github.com/tinker-machine/tinker/disasm"
	"github.com/tinker-machine/tinker/vm"
)

func encode(op vm.Op, rd, rs, rt int, imm uint16) uint32 {
	return uint32(op)<<27 | uint32(rd)<<22 | uint32(rs)<<17 | uint32(rt)<<12 | uint32(imm&0xfff)
}

func TestDecodeAddi(t *testing.T) {
	word := encode(vm.OpAddI, 1, 0, 0, 5)
	got := disasm.Decode(vm.DefaultCodeSegBegin, word)
	if want := "addi r1, 5"; got.Text != want {
		t.Errorf("Text = %q, want %q", got.Text, want)
	}
	if got.Addr != vm.DefaultCodeSegBegin {
		t.Errorf("Addr = %#x, want %#x", got.Addr, vm.DefaultCodeSegBegin)
	}
}

func TestDecodeHalt(t *testing.T) {
	got := disasm.Decode(0, encode(vm.OpPriv, 0, 0, 0, vm.PrivHalt))
	if want := "priv r0, r0, r0, 0"; got.Text != want {
		t.Errorf("Text = %q, want %q", got.Text, want)
	}
}

func TestDecodeMovForms(t *testing.T) {
	cases := []struct {
		word uint32
		want string
	}{
		{encode(vm.OpMovRR, 1, 2, 0, 0), "mov r1, r2"},
		{encode(vm.OpMovL, 1, 0, 0, 100), "mov r1, 100"},
		{encode(vm.OpMovML, 1, 31, 0, uint16(int64(-8)&0xfff)), "mov r1, (r31)(-8)"},
		{encode(vm.OpMovSM, 31, 5, 0, uint16(int64(-8)&0xfff)), "mov (r31)(-8), r5"},
	}
	for _, c := range cases {
		got := disasm.Decode(0, c.word)
		if got.Text != c.want {
			t.Errorf("Decode(%#08x).Text = %q, want %q", c.word, got.Text, c.want)
		}
	}
}

func TestDecodeBrrLiteralIsSigned(t *testing.T) {
	got := disasm.Decode(0, encode(vm.OpBrrL, 0, 0, 0, uint16(int64(-1)&0xfff)))
	if want := "brr -1"; got.Text != want {
		t.Errorf("Text = %q, want %q", got.Text, want)
	}
}

func TestSegment(t *testing.T) {
	code := make([]byte, 0, 8)
	for _, w := range []uint32{
		encode(vm.OpAddI, 1, 0, 0, 5),
		encode(vm.OpPriv, 0, 0, 0, vm.PrivHalt),
	} {
		code = append(code, byte(w), byte(w>>8), byte(w>>16), byte(w>>24))
	}
	lines, err := disasm.Segment(vm.DefaultCodeSegBegin, code)
	if err != nil {
		t.Fatalf("Segment: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("len(lines) = %d, want 2", len(lines))
	}
	if lines[0].Addr != vm.DefaultCodeSegBegin || lines[1].Addr != vm.DefaultCodeSegBegin+4 {
		t.Errorf("unexpected addresses: %#x, %#x", lines[0].Addr, lines[1].Addr)
	}
	if lines[0].Text != "addi r1, 5" {
		t.Errorf("lines[0].Text = %q", lines[0].Text)
	}
}

func TestSegmentRejectsUnalignedLength(t *testing.T) {
	if _, err := disasm.Segment(0, []byte{1, 2, 3}); err == nil {
		t.Error("expected error for non-multiple-of-4 code length")
	}
}
