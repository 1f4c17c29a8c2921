package object_test

import (
	"bytes"
	"testing"

	"github.com/tinker-machine/tinker/object"
)

func TestHeaderRoundTrip(t *testing.T) {
	h := object.Header{
		FileType:     0,
		CodeSegBegin: 0x2000,
		CodeSegSize:  8,
		DataSegBegin: 0x10000,
		DataSegSize:  16,
	}

	var buf bytes.Buffer
	if err := h.Write(&buf); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if buf.Len() != object.HeaderSize {
		t.Fatalf("got %d bytes, want %d", buf.Len(), object.HeaderSize)
	}

	got, err := object.ReadHeader(&buf)
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	if got != h {
		t.Errorf("got %+v, want %+v", got, h)
	}
}

func TestReadHeaderShort(t *testing.T) {
	_, err := object.ReadHeader(bytes.NewReader(make([]byte, 10)))
	if err == nil {
		t.Error("expected short header read to fail")
	}
}
