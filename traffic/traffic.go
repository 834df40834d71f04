// Package traffic generates synthetic frames for the capture device.
package traffic

import (
	"fmt"
	"math/rand"
	"net"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
)

// Incrementing returns n bytes counting up from seed.
func Incrementing(n int, seed byte) []byte {
	frame := make([]byte, n)
	for i := range frame {
		frame[i] = seed + byte(i)
	}

	return frame
}

// A UDPGenerator builds Ethernet/IPv4/UDP frames between two fixed hosts.
type UDPGenerator struct {
	SrcMAC, DstMAC   net.HardwareAddr
	SrcIP, DstIP     net.IP
	SrcPort, DstPort uint16
}

// NewUDPGenerator creates a generator with locally administered addresses.
func NewUDPGenerator() *UDPGenerator {
	return &UDPGenerator{
		SrcMAC:  net.HardwareAddr{0x02, 0x00, 0x00, 0x00, 0x00, 0x01},
		DstMAC:  net.HardwareAddr{0x02, 0x00, 0x00, 0x00, 0x00, 0x02},
		SrcIP:   net.IPv4(10, 0, 0, 1).To4(),
		DstIP:   net.IPv4(10, 0, 0, 2).To4(),
		SrcPort: 4000,
		DstPort: 5000,
	}
}

// Frame builds a frame whose payload is payloadLen incrementing bytes
// starting at seq.
func (g *UDPGenerator) Frame(seq int, payloadLen int) ([]byte, error) {
	eth := &layers.Ethernet{
		SrcMAC:       g.SrcMAC,
		DstMAC:       g.DstMAC,
		EthernetType: layers.EthernetTypeIPv4,
	}

	ip := &layers.IPv4{
		Version:  4,
		IHL:      5,
		TTL:      64,
		Id:       uint16(seq),
		Protocol: layers.IPProtocolUDP,
		SrcIP:    g.SrcIP,
		DstIP:    g.DstIP,
	}

	udp := &layers.UDP{
		SrcPort: layers.UDPPort(g.SrcPort),
		DstPort: layers.UDPPort(g.DstPort),
	}

	err := udp.SetNetworkLayerForChecksum(ip)
	if err != nil {
		return nil, err
	}

	buffer := gopacket.NewSerializeBuffer()
	opt := gopacket.SerializeOptions{
		ComputeChecksums: true,
		FixLengths:       true,
	}

	err = gopacket.SerializeLayers(buffer, opt,
		eth, ip, udp, gopacket.Payload(Incrementing(payloadLen, byte(seq))))
	if err != nil {
		return nil, fmt.Errorf("frame %d: %w", seq, err)
	}

	return buffer.Bytes(), nil
}

// UDPPayload returns the UDP payload of an Ethernet frame.
func UDPPayload(frame []byte) ([]byte, error) {
	packet := gopacket.NewPacket(frame, layers.LayerTypeEthernet, gopacket.Default)
	if errLayer := packet.ErrorLayer(); errLayer != nil {
		return nil, errLayer.Error()
	}

	udp, ok := packet.Layer(layers.LayerTypeUDP).(*layers.UDP)
	if !ok {
		return nil, fmt.Errorf("no UDP layer in frame of %d bytes", len(frame))
	}

	return udp.Payload, nil
}

// Kind selects how frames are built.
type Kind string

// Frame kinds.
const (
	KindIncrementing Kind = "incrementing"
	KindUDP          Kind = "udp"
)

// A Plan describes the frames sent on one port.
type Plan struct {
	Kind    Kind
	Count   int
	MinSize int
	MaxSize int
	Seed    int64
}

// Frames builds the frames of the plan. Sizes are drawn uniformly between
// MinSize and MaxSize. For UDP frames the sizes are payload sizes.
func (p Plan) Frames() ([][]byte, error) {
	if p.MaxSize < p.MinSize {
		return nil, fmt.Errorf("max size %d below min size %d", p.MaxSize, p.MinSize)
	}

	rng := rand.New(rand.NewSource(p.Seed))
	gen := NewUDPGenerator()
	frames := make([][]byte, 0, p.Count)

	for i := 0; i < p.Count; i++ {
		size := p.MinSize + rng.Intn(p.MaxSize-p.MinSize+1)

		switch p.Kind {
		case KindUDP:
			frame, err := gen.Frame(i, size)
			if err != nil {
				return nil, err
			}

			frames = append(frames, frame)
		case KindIncrementing, "":
			frames = append(frames, Incrementing(size, byte(i)))
		default:
			return nil, fmt.Errorf("unknown frame kind %q", p.Kind)
		}
	}

	return frames, nil
}
