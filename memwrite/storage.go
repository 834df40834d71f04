package memwrite

import (
	"errors"
	"fmt"
)

// ErrOutOfRange is returned when an access goes beyond the storage capacity.
var ErrOutOfRange = errors.New("access beyond storage capacity")

// A Storage keeps the content of host memory. It is managed in pages; pages
// that are never written take no space and read as zeros.
type Storage struct {
	pageSize uint64
	capacity uint64
	pages    map[uint64][]byte
}

// NewStorage creates a storage object with the specified capacity
func NewStorage(capacity uint64) *Storage {
	return &Storage{
		pageSize: 4096,
		capacity: capacity,
		pages:    make(map[uint64][]byte),
	}
}

// Capacity returns the size of the storage in bytes.
func (s *Storage) Capacity() uint64 {
	return s.capacity
}

func (s *Storage) split(addr uint64) (base, offset uint64) {
	offset = addr % s.pageSize
	base = addr - offset

	return base, offset
}

func (s *Storage) checkRange(addr, length uint64) error {
	if addr+length > s.capacity || addr+length < addr {
		return fmt.Errorf("%w: [0x%x, 0x%x)", ErrOutOfRange, addr, addr+length)
	}

	return nil
}

// Read returns length bytes starting at addr.
func (s *Storage) Read(addr uint64, length uint64) ([]byte, error) {
	if err := s.checkRange(addr, length); err != nil {
		return nil, err
	}

	res := make([]byte, length)

	for done := uint64(0); done < length; {
		base, offset := s.split(addr + done)
		n := min(length-done, s.pageSize-offset)

		if page, ok := s.pages[base]; ok {
			copy(res[done:done+n], page[offset:offset+n])
		}

		done += n
	}

	return res, nil
}

// Write stores data starting at addr.
func (s *Storage) Write(addr uint64, data []byte) error {
	length := uint64(len(data))
	if err := s.checkRange(addr, length); err != nil {
		return err
	}

	for done := uint64(0); done < length; {
		base, offset := s.split(addr + done)
		n := min(length-done, s.pageSize-offset)

		page, ok := s.pages[base]
		if !ok {
			page = make([]byte, s.pageSize)
			s.pages[base] = page
		}

		copy(page[offset:offset+n], data[done:done+n])
		done += n
	}

	return nil
}

// PagesInUse returns the number of allocated pages.
func (s *Storage) PagesInUse() int {
	return len(s.pages)
}
