package asm

import (
	"bytes"
	"encoding/binary"
	"strings"
	"testing"
)

func words(t *testing.T, code []byte) []uint32 {
	t.Helper()
	if len(code)%4 != 0 {
		t.Fatalf("code length %d not a multiple of 4", len(code))
	}
	out := make([]uint32, len(code)/4)
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(code[i*4 : i*4+4])
	}
	return out
}

func mustAssemble(t *testing.T, src string) *Result {
	t.Helper()
	res, err := Assemble(strings.NewReader(src), false, nil)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	return res
}

// TestAddiHaltEncoding reproduces the worked example from the instruction
// set's reference encoding: addi r1, 5 ; halt.
func TestAddiHaltEncoding(t *testing.T) {
	src := "\taddi r1, 5\n\thalt\n"
	res := mustAssemble(t, src)
	got := words(t, res.Code)
	want := []uint32{0xC8400005, 0x78000000}
	if len(got) != len(want) {
		t.Fatalf("got %d words, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("word %d: got %#08x, want %#08x", i, got[i], want[i])
		}
	}
}

func TestLdExpandsTo12Primitives(t *testing.T) {
	src := "\tld r1, 0x123456789ABCDEF0\n"
	res := mustAssemble(t, src)
	if len(res.Code) != 48 {
		t.Fatalf("got %d bytes, want 48", len(res.Code))
	}
	got := words(t, res.Code)
	if vmOp := got[0] >> 27; vmOp != 0x02 { // xor
		t.Errorf("first word opcode %#x, want xor (0x02)", vmOp)
	}
}

func TestPushPopRoundTrip(t *testing.T) {
	src := "\tpush r5\n\tpop r6\n"
	res := mustAssemble(t, src)
	if len(res.Code) != 16 {
		t.Fatalf("got %d bytes, want 16 (2 primitives each)", len(res.Code))
	}
}

func TestBrrLabelZeroOffset(t *testing.T) {
	src := "\tbrr :fwd\n:fwd\n\thalt\n"
	res := mustAssemble(t, src)
	got := words(t, res.Code)
	if len(got) != 2 {
		t.Fatalf("got %d words, want 2", len(got))
	}
	if imm := got[0] & 0xfff; imm != 0 {
		t.Errorf("brr imm = %#x, want 0", imm)
	}
}

func TestBrrLabelBackwardNegativeOffset(t *testing.T) {
	src := ":start\n\thalt\n\tbrr :start\n"
	res := mustAssemble(t, src)
	got := words(t, res.Code)
	// brr :start is the second instruction (at start+4); offset =
	// (start - (start+4+4)) / 4 = -2.
	imm := int16(got[1]&0xfff) << 4 >> 4
	if imm != -2 {
		t.Errorf("brr imm = %d, want -2", imm)
	}
}

func TestSigned12BitBoundaries(t *testing.T) {
	ok := []string{"2047", "-2048", "0"}
	for _, v := range ok {
		src := "\tbrr " + v + "\n"
		if _, err := Assemble(strings.NewReader(src), false, nil); err != nil {
			t.Errorf("brr %s: unexpected error: %v", v, err)
		}
	}
	bad := []string{"2048", "-2049"}
	for _, v := range bad {
		src := "\tbrr " + v + "\n"
		if _, err := Assemble(strings.NewReader(src), false, nil); err == nil {
			t.Errorf("brr %s: expected out-of-range error", v)
		}
	}
}

func TestUnsigned12BitBoundaries(t *testing.T) {
	ok := []string{"0", "4095"}
	for _, v := range ok {
		src := "\taddi r1, " + v + "\n"
		if _, err := Assemble(strings.NewReader(src), false, nil); err != nil {
			t.Errorf("addi r1, %s: unexpected error: %v", v, err)
		}
	}
	bad := []string{"4096", "-1"}
	for _, v := range bad {
		src := "\taddi r1, " + v + "\n"
		if _, err := Assemble(strings.NewReader(src), false, nil); err == nil {
			t.Errorf("addi r1, %s: expected out-of-range error", v)
		}
	}
}

func TestLeadingSpaceAlwaysFatal(t *testing.T) {
	src := " \thalt\n"
	if _, err := Assemble(strings.NewReader(src), false, nil); err == nil {
		t.Fatal("expected leading-space error")
	}
}

func TestStatementRequiresLeadingTab(t *testing.T) {
	src := "halt\n"
	if _, err := Assemble(strings.NewReader(src), false, nil); err == nil {
		t.Fatal("expected missing-tab error")
	}
}

func TestUntabbedDataLineAfterDirectiveFails(t *testing.T) {
	src := ".code\n\thalt\n.data\nval: 5\n"
	_, err := Assemble(strings.NewReader(src), false, nil)
	if err == nil {
		t.Fatal("expected error: 'val: 5' is not a valid label or data statement")
	}
}

func TestLabelExemptFromTabRule(t *testing.T) {
	src := ":start\n\thalt\n"
	if _, err := Assemble(strings.NewReader(src), false, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDuplicateLabelFails(t *testing.T) {
	src := ":start\n\thalt\n:start\n\thalt\n"
	if _, err := Assemble(strings.NewReader(src), false, nil); err == nil {
		t.Fatal("expected duplicate label error")
	}
}

func TestInvalidLabelNameFails(t *testing.T) {
	src := ":9bad\n\thalt\n"
	if _, err := Assemble(strings.NewReader(src), false, nil); err == nil {
		t.Fatal("expected invalid label name error")
	}
}

func TestDataSectionLiteralAndLabel(t *testing.T) {
	src := ".data\n:count\n\t100\n.code\n\tld r1, :count\n\thalt\n"
	res := mustAssemble(t, src)
	if len(res.Data) != 8 {
		t.Fatalf("got %d data bytes, want 8", len(res.Data))
	}
	if v := binary.LittleEndian.Uint64(res.Data[0:8]); v != 100 {
		t.Errorf("data word = %d, want 100", v)
	}
	addr, ok := res.Symbols.Lookup("count")
	if !ok || addr != 0x10000 {
		t.Errorf("count = %#x, %v; want 0x10000, true", addr, ok)
	}
	if len(res.Code) != 52 {
		t.Errorf("got %d code bytes, want 52 (ld expansion + halt)", len(res.Code))
	}
}

func TestDataSectionRejectsHexLiteral(t *testing.T) {
	src := ".data\n\t0x10\n"
	if _, err := Assemble(strings.NewReader(src), false, nil); err == nil {
		t.Fatal("expected hex data literal to be rejected (decimal only)")
	}
}

func TestLabelLineInDataDeclaresLabel(t *testing.T) {
	// A line whose first non-whitespace character is ':' is always a
	// label declaration, even inside .data -- it never emits a word.
	src := ".data\n\t:elsewhere\n"
	res := mustAssemble(t, src)
	if len(res.Data) != 0 {
		t.Errorf("got %d data bytes, want 0 (label lines emit nothing)", len(res.Data))
	}
	if addr, ok := res.Symbols.Lookup("elsewhere"); !ok || addr != 0x10000 {
		t.Errorf("elsewhere = %#x, %v; want 0x10000, true", addr, ok)
	}
}

func TestDataSectionRejectsNegativeLiteral(t *testing.T) {
	src := ".data\n\t-1\n"
	if _, err := Assemble(strings.NewReader(src), false, nil); err == nil {
		t.Fatal("expected negative data literal to be rejected")
	}
}

func TestUnknownMnemonicSuggestsClosestMatch(t *testing.T) {
	src := "\taddit r1, 5\n"
	_, err := Assemble(strings.NewReader(src), false, nil)
	if err == nil {
		t.Fatal("expected unknown mnemonic error")
	}
	if !strings.Contains(err.Error(), "did you mean") {
		t.Errorf("error %q does not suggest a correction", err.Error())
	}
}

func TestWrongOperandCountFails(t *testing.T) {
	src := "\taddi r1\n"
	if _, err := Assemble(strings.NewReader(src), false, nil); err == nil {
		t.Fatal("expected wrong-operand-count error")
	}
}

func TestVerboseLoggingWritesTrace(t *testing.T) {
	var log bytes.Buffer
	src := "\thalt\n"
	if _, err := Assemble(strings.NewReader(src), true, &log); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if log.Len() == 0 {
		t.Error("expected verbose trace output, got none")
	}
}

func TestMemoryOperandLoadStore(t *testing.T) {
	src := "\tmov r1, (r2)(8)\n\tmov (r2)(8), r1\n"
	res := mustAssemble(t, src)
	got := words(t, res.Code)
	if len(got) != 2 {
		t.Fatalf("got %d words, want 2", len(got))
	}
}
