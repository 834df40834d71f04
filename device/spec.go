package device

import (
	"errors"
	"fmt"

	"github.com/artsniffer/rxdma/framing"
	"github.com/artsniffer/rxdma/sim"
)

// Spec holds the sizes and modes of a capture device.
type Spec struct {
	Freq            sim.Freq
	NumSlots        int
	Ports           int
	StreamBeatBytes int
	BeatBytes       int
	BurstBytes      int
	BurstQueue      int
	MemCapacity     uint64
	BufBase         uint64
	BufStride       uint64
	Capacity        uint32
	Framing         bool
	SnapLen         int
	UseIRQ          bool
	IRQTime         uint32
	Rearm           bool
	PollInterval    int
	LastSlot        int
}

// Defaults returns a copy of the spec with zero fields replaced by their
// default values.
func (s Spec) Defaults() Spec {
	if s.Freq == 0 {
		s.Freq = 125 * sim.MHz
	}

	if s.NumSlots == 0 {
		s.NumSlots = 256
	}

	if s.Ports == 0 {
		s.Ports = 2
	}

	if s.StreamBeatBytes == 0 {
		s.StreamBeatBytes = 8
	}

	if s.BeatBytes == 0 {
		s.BeatBytes = 8
	}

	if s.BurstBytes == 0 {
		s.BurstBytes = 64
	}

	if s.BurstQueue == 0 {
		s.BurstQueue = 4
	}

	if s.BufBase == 0 {
		s.BufBase = 0x40000
	}

	if s.Capacity == 0 {
		s.Capacity = 2048
	}

	if s.BufStride == 0 {
		s.BufStride = uint64(s.Capacity)
	}

	if s.MemCapacity == 0 {
		s.MemCapacity = s.BufBase + uint64(s.NumSlots)*s.BufStride
	}

	if s.SnapLen == 0 {
		s.SnapLen = int(s.Capacity) - framing.HeaderSize
	}

	if s.PollInterval == 0 {
		s.PollInterval = 16
	}

	return s
}

// Validate reports the first inconsistency in the spec.
func (s Spec) Validate() error {
	switch {
	case s.Freq <= 0:
		return errors.New("frequency must be positive")
	case s.NumSlots <= 0:
		return errors.New("ring must have at least one slot")
	case s.Ports <= 0:
		return errors.New("device must have at least one port")
	case s.BeatBytes <= 0 || s.StreamBeatBytes <= 0:
		return errors.New("beat width must be positive")
	case s.BurstBytes < s.BeatBytes || s.BurstBytes < s.StreamBeatBytes:
		return fmt.Errorf("burst of %d bytes is narrower than a beat", s.BurstBytes)
	case s.BurstQueue < 2:
		return errors.New("burst queue needs at least 2 entries")
	case s.BufStride < uint64(s.Capacity):
		return fmt.Errorf("buffer stride %d overlaps buffers of %d bytes",
			s.BufStride, s.Capacity)
	case s.BufBase+uint64(s.NumSlots)*s.BufStride > s.MemCapacity:
		return fmt.Errorf("buffers end beyond memory capacity 0x%x", s.MemCapacity)
	case s.Framing && int(s.Capacity) <= framing.HeaderSize:
		return fmt.Errorf("capacity %d cannot hold a capture header", s.Capacity)
	case s.Framing && s.SnapLen <= 0:
		return errors.New("snap length must be positive")
	case s.LastSlot >= s.NumSlots:
		return fmt.Errorf("last slot %d is outside the ring", s.LastSlot)
	}

	return nil
}
