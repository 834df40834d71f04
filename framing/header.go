// Package framing prepends a capture header to every received frame. The
// header has the layout of a pcap record header with nanosecond resolution.
package framing

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/artsniffer/rxdma/sim"
)

// HeaderSize is the size of the capture header in bytes.
const HeaderSize = 16

// A Header describes one captured frame.
type Header struct {
	TsSec  uint32
	TsNsec uint32
	CapLen uint32
	Len    uint32
}

// HeaderAt creates a header stamped with a simulation time.
func HeaderAt(now sim.VTimeInSec, capLen, length int) Header {
	sec := math.Floor(float64(now))
	nsec := math.Round((float64(now) - sec) * 1e9)

	if nsec >= 1e9 {
		sec++
		nsec -= 1e9
	}

	return Header{
		TsSec:  uint32(sec),
		TsNsec: uint32(nsec),
		CapLen: uint32(capLen),
		Len:    uint32(length),
	}
}

// Time returns the timestamp of the header.
func (h Header) Time() time.Time {
	return time.Unix(int64(h.TsSec), int64(h.TsNsec)).UTC()
}

// Encode returns the wire image of the header.
func (h Header) Encode() []byte {
	b := make([]byte, HeaderSize)

	binary.LittleEndian.PutUint32(b[0:], h.TsSec)
	binary.LittleEndian.PutUint32(b[4:], h.TsNsec)
	binary.LittleEndian.PutUint32(b[8:], h.CapLen)
	binary.LittleEndian.PutUint32(b[12:], h.Len)

	return b
}

// DecodeHeader parses the header at the start of b.
func DecodeHeader(b []byte) (Header, error) {
	if len(b) < HeaderSize {
		return Header{}, fmt.Errorf(
			"capture header needs %d bytes, got %d", HeaderSize, len(b))
	}

	return Header{
		TsSec:  binary.LittleEndian.Uint32(b[0:]),
		TsNsec: binary.LittleEndian.Uint32(b[4:]),
		CapLen: binary.LittleEndian.Uint32(b[8:]),
		Len:    binary.LittleEndian.Uint32(b[12:]),
	}, nil
}

// Split separates a framed buffer into its header and captured bytes. The
// payload is cut at CapLen or at the end of the buffer.
func Split(buf []byte) (Header, []byte, error) {
	h, err := DecodeHeader(buf)
	if err != nil {
		return Header{}, nil, err
	}

	payload := buf[HeaderSize:]
	if int(h.CapLen) < len(payload) {
		payload = payload[:h.CapLen]
	}

	return h, payload, nil
}
