package driver

import (
	"time"

	"github.com/artsniffer/rxdma/framing"
	"github.com/artsniffer/rxdma/ring"
	"github.com/artsniffer/rxdma/sim"
)

// A Packet is a frame drained from a ring slot.
type Packet struct {
	Slot      int
	Addr      uint64
	Flags     uint32
	Data      []byte
	Time      time.Time
	OrigLen   int
	Truncated bool
}

// Last tells if the slot carried the software LAST marker.
func (p Packet) Last() bool {
	return p.Flags&ring.FlagLast != 0
}

func simTime(now sim.VTimeInSec) time.Time {
	return time.Unix(0, int64(float64(now)*1e9)).UTC()
}

// makePacket interprets the bytes of a drained buffer. With framing, the
// capture header gives the timestamp and the original length.
func makePacket(slot int, addr uint64, flags uint32, buf []byte,
	framed bool, now sim.VTimeInSec,
) (Packet, error) {
	p := Packet{
		Slot:      slot,
		Addr:      addr,
		Flags:     flags,
		Data:      buf,
		Time:      simTime(now),
		OrigLen:   len(buf),
		Truncated: flags&ring.FlagTrunc != 0,
	}

	if !framed {
		return p, nil
	}

	hdr, payload, err := framing.Split(buf)
	if err != nil {
		return Packet{}, err
	}

	p.Data = payload
	p.Time = hdr.Time()
	p.OrigLen = int(hdr.Len)

	if p.OrigLen < len(p.Data) {
		p.OrigLen = len(p.Data)
	}

	if len(payload) < int(hdr.CapLen) {
		p.Truncated = true
	}

	return p, nil
}
