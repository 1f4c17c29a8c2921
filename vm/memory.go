package vm

import (
	"encoding/binary"
	"fmt"
)

// Memory is the simulator's single contiguous byte array. Unlike the
// segmented, permission-checked memory a general-purpose CPU emulator
// needs, Tinker's memory model is a flat array with only bounds and
// alignment checks at access time (spec.md §3, §4.7).
type Memory struct {
	bytes [MemSize]byte
}

// NewMemory returns a zero-initialized memory image.
func NewMemory() *Memory {
	return &Memory{}
}

// Reset zeroes every byte.
func (m *Memory) Reset() {
	for i := range m.bytes {
		m.bytes[i] = 0
	}
}

func boundsError(addr uint64, size int) error {
	return fmt.Errorf("memory access at %#x (size %d) exceeds %d-byte memory", addr, size, MemSize)
}

func alignError(addr uint64, align int) error {
	return fmt.Errorf("memory access at %#x is not %d-byte aligned", addr, align)
}

// LoadBytes copies data into memory starting at addr, without alignment
// checks. Used by the object loader to place the code and data segments.
func (m *Memory) LoadBytes(addr uint64, data []byte) error {
	if addr+uint64(len(data)) > MemSize {
		return boundsError(addr, len(data))
	}
	copy(m.bytes[addr:], data)
	return nil
}

// ReadWord fetches a 4-byte instruction word at addr. addr must be 4-byte
// aligned and addr <= MemSize-4.
func (m *Memory) ReadWord(addr uint64) (uint32, error) {
	if addr&3 != 0 {
		return 0, alignError(addr, 4)
	}
	if addr > MemSize-4 {
		return 0, boundsError(addr, 4)
	}
	return binary.LittleEndian.Uint32(m.bytes[addr : addr+4]), nil
}

// ReadU64 reads 8 bytes at addr with no alignment requirement, as used by
// mov (load). addr must satisfy addr <= MemSize-8.
func (m *Memory) ReadU64(addr uint64) (uint64, error) {
	if addr > MemSize-8 {
		return 0, boundsError(addr, 8)
	}
	return binary.LittleEndian.Uint64(m.bytes[addr : addr+8]), nil
}

// WriteU64 writes 8 bytes at addr with no alignment requirement, the
// unaligned counterpart of WriteU64Aligned.
func (m *Memory) WriteU64(addr uint64, v uint64) error {
	if addr > MemSize-8 {
		return boundsError(addr, 8)
	}
	binary.LittleEndian.PutUint64(m.bytes[addr:addr+8], v)
	return nil
}

// WriteU64Aligned writes 8 bytes at addr, requiring 8-byte alignment, as
// used by mov (store) and by call writing the return address.
func (m *Memory) WriteU64Aligned(addr uint64, v uint64) error {
	if addr&7 != 0 {
		return alignError(addr, 8)
	}
	if addr > MemSize-8 {
		return boundsError(addr, 8)
	}
	binary.LittleEndian.PutUint64(m.bytes[addr:addr+8], v)
	return nil
}

// ReadU64Aligned reads 8 bytes at addr, requiring 8-byte alignment, as used
// by call/ret.
func (m *Memory) ReadU64Aligned(addr uint64) (uint64, error) {
	if addr&7 != 0 {
		return 0, alignError(addr, 8)
	}
	if addr > MemSize-8 {
		return 0, boundsError(addr, 8)
	}
	return binary.LittleEndian.Uint64(m.bytes[addr : addr+8]), nil
}

// Bytes returns the region [addr, addr+length) as a slice that shares the
// memory's storage, so writes through it change memory.
func (m *Memory) Bytes(addr, length uint64) ([]byte, error) {
	if addr+length > MemSize {
		return nil, boundsError(addr, int(length))
	}
	return m.bytes[addr : addr+length], nil
}
