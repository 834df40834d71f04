package driver

import (
	"io"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
)

// PcapSink writes packets into a pcap stream with nanosecond timestamps.
type PcapSink struct {
	w       *pcapgo.Writer
	written int
}

// NewPcapSink writes the file header and returns the sink.
func NewPcapSink(w io.Writer, snapLen uint32) (*PcapSink, error) {
	pw := pcapgo.NewWriterNanos(w)

	if err := pw.WriteFileHeader(snapLen, layers.LinkTypeEthernet); err != nil {
		return nil, err
	}

	return &PcapSink{w: pw}, nil
}

// Deliver writes one record.
func (s *PcapSink) Deliver(p Packet) error {
	ci := gopacket.CaptureInfo{
		Timestamp:     p.Time,
		CaptureLength: len(p.Data),
		Length:        p.OrigLen,
	}

	if err := s.w.WritePacket(ci, p.Data); err != nil {
		return err
	}

	s.written++

	return nil
}

// Written returns the number of records written.
func (s *PcapSink) Written() int {
	return s.written
}

// CollectSink keeps packets in memory.
type CollectSink struct {
	Packets []Packet
}

// Deliver appends the packet.
func (s *CollectSink) Deliver(p Packet) error {
	s.Packets = append(s.Packets, p)
	return nil
}
