package ring

import (
	"encoding/binary"
	"fmt"
	"log"

	"github.com/artsniffer/rxdma/regbus"
	"github.com/artsniffer/rxdma/sim"
)

type field int

const (
	fieldAddr field = iota
	fieldLength
	fieldFlags
)

func (f field) String() string {
	return [...]string{"addr", "length", "flags"}[f]
}

type writer int

const (
	byBus writer = iota
	byEngine
)

type pendingWrite struct {
	slot   int
	field  field
	value  uint64
	writer writer
}

// A Store is a fixed arena of descriptors. Reads always see committed
// contents. Writes from the bus and from the engine are staged and applied
// together at the end of the cycle.
type Store struct {
	name    string
	slots   []Descriptor
	pending []pendingWrite

	busWrites    uint64
	engineWrites uint64
}

// NewStore creates a store with n slots.
func NewStore(name string, n int) *Store {
	sim.NameMustBeValid(name)

	if n <= 0 {
		log.Panicf("ring %s must have at least one slot", name)
	}

	return &Store{
		name:  name,
		slots: make([]Descriptor, n),
	}
}

// Name returns the name of the store.
func (s *Store) Name() string {
	return s.name
}

// NumSlots returns the number of slots.
func (s *Store) NumSlots() int {
	return len(s.slots)
}

// ByteSize returns the size of the descriptor space.
func (s *Store) ByteSize() uint64 {
	return uint64(len(s.slots)) * DescriptorSize
}

// Slot returns the committed descriptor of slot i.
func (s *Store) Slot(i int) Descriptor {
	return s.slots[i]
}

// Snapshot copies all committed descriptors.
func (s *Store) Snapshot() []Descriptor {
	out := make([]Descriptor, len(s.slots))
	copy(out, s.slots)

	return out
}

// Load sets a descriptor immediately. It is meant for initialization
// outside of the clocked model.
func (s *Store) Load(i int, d Descriptor) {
	s.slots[i] = d
}

// Post stages the engine's completion of slot i. At commit the slot must
// still be armed.
func (s *Store) Post(i int, length uint32, flags uint32) {
	s.pending = append(s.pending,
		pendingWrite{slot: i, field: fieldLength, value: uint64(length), writer: byEngine},
		pendingWrite{slot: i, field: fieldFlags, value: uint64(flags), writer: byEngine},
	)
}

// Read reads the descriptor space. Reads of up to 4 bytes return the whole
// dword that holds addr; qword reads must be aligned.
func (s *Store) Read(addr uint64, size int) (uint64, error) {
	addr, size, err := regbus.CheckRead(addr, size, s.ByteSize())
	if err != nil {
		return 0, err
	}

	slot := int(addr / DescriptorSize)
	off := addr % DescriptorSize
	img := s.slots[slot].Bytes()

	if size == 8 {
		return binary.LittleEndian.Uint64(img[off:]), nil
	}

	return uint64(binary.LittleEndian.Uint32(img[off:])), nil
}

// Write stages a bus write. The access must cover whole fields.
func (s *Store) Write(addr uint64, size int, data uint64) error {
	if err := regbus.CheckAccess(addr, size, s.ByteSize()); err != nil {
		return err
	}

	slot := int(addr / DescriptorSize)
	off := addr % DescriptorSize

	switch {
	case off == OffsetAddr && size == 8:
		s.stage(slot, fieldAddr, data)
	case off == OffsetLength && size == 4:
		s.stage(slot, fieldLength, data&0xFFFFFFFF)
	case off == OffsetLength && size == 8:
		s.stage(slot, fieldLength, data&0xFFFFFFFF)
		s.stage(slot, fieldFlags, data>>32)
	case off == OffsetFlags && size == 4:
		s.stage(slot, fieldFlags, data&0xFFFFFFFF)
	default:
		return fmt.Errorf("%w: slot %d offset %d size %d",
			regbus.ErrPartialField, slot, off, size)
	}

	return nil
}

func (s *Store) stage(slot int, f field, v uint64) {
	s.pending = append(s.pending,
		pendingWrite{slot: slot, field: f, value: v, writer: byBus})
}

// Commit applies all staged writes of the cycle.
func (s *Store) Commit() {
	if len(s.pending) == 0 {
		return
	}

	s.mustNotConflict()

	for _, w := range s.pending {
		if w.writer == byEngine {
			s.engineWritesMustTargetArmedSlot(w)
			s.engineWrites++
		} else {
			s.busWrites++
		}
	}

	for _, w := range s.pending {
		s.apply(w)
	}

	s.pending = s.pending[:0]
}

func (s *Store) mustNotConflict() {
	type key struct {
		slot  int
		field field
	}

	seen := make(map[key]writer, len(s.pending))
	for _, w := range s.pending {
		k := key{w.slot, w.field}
		if prev, ok := seen[k]; ok && prev != w.writer {
			log.Panicf("%s: bus and engine write %s of slot %d in the same cycle",
				s.name, w.field, w.slot)
		}

		seen[k] = w.writer
	}
}

func (s *Store) engineWritesMustTargetArmedSlot(w pendingWrite) {
	if !s.slots[w.slot].Empty() {
		log.Panicf("%s: engine writes slot %d which is not empty: %s",
			s.name, w.slot, s.slots[w.slot])
	}
}

func (s *Store) apply(w pendingWrite) {
	d := &s.slots[w.slot]

	switch w.field {
	case fieldAddr:
		d.Addr = w.value
	case fieldLength:
		d.Length = uint32(w.value)
	case fieldFlags:
		d.Flags = uint32(w.value)
	}
}

// WriteCounts returns the number of field writes applied from the bus and
// from the engine.
func (s *Store) WriteCounts() (bus, engine uint64) {
	return s.busWrites, s.engineWrites
}
