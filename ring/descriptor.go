// Package ring holds the descriptor ring that software and the receive
// engine share.
package ring

import (
	"encoding/binary"
	"fmt"
)

// DescriptorSize is the size of a descriptor record in bytes.
const DescriptorSize = 16

// Descriptor flag bits.
const (
	// FlagEmpty marks a slot that is armed and may be filled by the engine.
	FlagEmpty uint32 = 1 << 0

	// FlagLast is a software marker. The engine preserves it.
	FlagLast uint32 = 1 << 1

	// FlagTrunc is set by the engine when a frame did not fit the buffer.
	FlagTrunc uint32 = 1 << 2
)

// Field offsets within a descriptor.
const (
	OffsetAddr   = 0
	OffsetLength = 8
	OffsetFlags  = 12
)

// A Descriptor describes one receive buffer.
type Descriptor struct {
	Addr   uint64 `json:"addr"`
	Length uint32 `json:"length"`
	Flags  uint32 `json:"flags"`
}

// Empty tells if the slot is armed.
func (d Descriptor) Empty() bool {
	return d.Flags&FlagEmpty != 0
}

// Bytes returns the in-memory image of the descriptor.
func (d Descriptor) Bytes() [DescriptorSize]byte {
	var b [DescriptorSize]byte

	binary.LittleEndian.PutUint64(b[OffsetAddr:], d.Addr)
	binary.LittleEndian.PutUint32(b[OffsetLength:], d.Length)
	binary.LittleEndian.PutUint32(b[OffsetFlags:], d.Flags)

	return b
}

// DecodeDescriptor parses the in-memory image of a descriptor.
func DecodeDescriptor(b []byte) (Descriptor, error) {
	if len(b) < DescriptorSize {
		return Descriptor{}, fmt.Errorf(
			"descriptor needs %d bytes, got %d", DescriptorSize, len(b))
	}

	return Descriptor{
		Addr:   binary.LittleEndian.Uint64(b[OffsetAddr:]),
		Length: binary.LittleEndian.Uint32(b[OffsetLength:]),
		Flags:  binary.LittleEndian.Uint32(b[OffsetFlags:]),
	}, nil
}

func (d Descriptor) String() string {
	return fmt.Sprintf("{addr 0x%x len %d flags 0x%x}", d.Addr, d.Length, d.Flags)
}
