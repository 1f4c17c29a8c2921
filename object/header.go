// Package object defines the Tinker object file header shared by the
// assembler (which writes it) and the loader (which reads it).
package object

import (
	"encoding/binary"
	"fmt"
	"io"
)

// HeaderSize is the fixed on-disk size of a Header in bytes.
const HeaderSize = 40

// Header is the 40-byte object file header: five native-endian u64 fields
// in this exact order. "Native-endian" here means little-endian, matching
// every architecture the toolchain targets.
type Header struct {
	FileType     uint64
	CodeSegBegin uint64
	CodeSegSize  uint64
	DataSegBegin uint64
	DataSegSize  uint64
}

// Write serializes h to w as HeaderSize bytes.
func (h Header) Write(w io.Writer) error {
	var buf [HeaderSize]byte
	binary.LittleEndian.PutUint64(buf[0:8], h.FileType)
	binary.LittleEndian.PutUint64(buf[8:16], h.CodeSegBegin)
	binary.LittleEndian.PutUint64(buf[16:24], h.CodeSegSize)
	binary.LittleEndian.PutUint64(buf[24:32], h.DataSegBegin)
	binary.LittleEndian.PutUint64(buf[32:40], h.DataSegSize)
	_, err := w.Write(buf[:])
	return err
}

// ReadHeader reads and decodes a Header from r. A short read is reported
// verbatim so callers can treat it as a fatal load error.
func ReadHeader(r io.Reader) (Header, error) {
	var buf [HeaderSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return Header{}, fmt.Errorf("reading object header: %w", err)
	}
	return Header{
		FileType:     binary.LittleEndian.Uint64(buf[0:8]),
		CodeSegBegin: binary.LittleEndian.Uint64(buf[8:16]),
		CodeSegSize:  binary.LittleEndian.Uint64(buf[16:24]),
		DataSegBegin: binary.LittleEndian.Uint64(buf[24:32]),
		DataSegSize:  binary.LittleEndian.Uint64(buf[32:40]),
	}, nil
}
