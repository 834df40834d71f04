// Package regbus provides the register access path of the device: a narrow
// request/response bus that routes accesses to independent address spaces.
package regbus

import (
	"errors"
	"fmt"
)

// Errors reported by register spaces.
var (
	ErrUnknownSpace = errors.New("unknown address space")
	ErrMisaligned   = errors.New("misaligned access")
	ErrOutOfRange   = errors.New("address out of range")
	ErrBadSize      = errors.New("unsupported access size")
	ErrPartialField = errors.New("write does not cover whole fields")
	ErrReadOnly     = errors.New("register is read only")
)

// SpaceID identifies an address space on the bus.
type SpaceID uint8

// The address spaces of the device.
const (
	SpaceControl SpaceID = iota
	SpaceDescriptor
)

func (s SpaceID) String() string {
	switch s {
	case SpaceControl:
		return "control"
	case SpaceDescriptor:
		return "descriptor"
	default:
		return fmt.Sprintf("space(%d)", uint8(s))
	}
}

// A Space is an address space that can be read and written through the bus.
// Reads return committed state. Writes take effect at the end of the cycle.
type Space interface {
	Read(addr uint64, size int) (uint64, error)
	Write(addr uint64, size int, data uint64) error
}

// CheckAccess validates the size and alignment of an access against a space
// of the given byte length.
func CheckAccess(addr uint64, size int, length uint64) error {
	if size != 4 && size != 8 {
		return fmt.Errorf("%w: %d bytes", ErrBadSize, size)
	}

	if addr%uint64(size) != 0 {
		return fmt.Errorf("%w: 0x%x for %d bytes", ErrMisaligned, addr, size)
	}

	if addr+uint64(size) > length {
		return fmt.Errorf("%w: 0x%x", ErrOutOfRange, addr)
	}

	return nil
}

// CheckRead validates a read and returns the address and width that are
// actually read. Accesses of up to 4 bytes return the whole dword that holds
// addr. Qword reads must be naturally aligned.
func CheckRead(addr uint64, size int, length uint64) (uint64, int, error) {
	switch size {
	case 1, 2, 4:
		addr &^= 3
		size = 4
	case 8:
		if addr%8 != 0 {
			return 0, 0, fmt.Errorf("%w: 0x%x for %d bytes", ErrMisaligned, addr, size)
		}
	default:
		return 0, 0, fmt.Errorf("%w: %d bytes", ErrBadSize, size)
	}

	if addr+uint64(size) > length {
		return 0, 0, fmt.Errorf("%w: 0x%x", ErrOutOfRange, addr)
	}

	return addr, size, nil
}
