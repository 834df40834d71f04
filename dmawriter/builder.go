package dmawriter

import (
	"log"

	"github.com/artsniffer/rxdma/descpipe"
	"github.com/artsniffer/rxdma/memwrite"
	"github.com/artsniffer/rxdma/rtl"
	"github.com/artsniffer/rxdma/sim"
	"github.com/artsniffer/rxdma/stream"
)

// A Builder can build writers.
type Builder struct {
	beatBytes  int
	burstBytes int
	queueDepth int
	control    Control

	desc *rtl.Chan[descpipe.Desc]
	in   *rtl.Chan[stream.Beat]
	aw   *rtl.Chan[memwrite.Cmd]
	w    *rtl.Chan[stream.Beat]
	b    *rtl.Chan[memwrite.Ack]
}

// MakeBuilder creates a Builder with default parameters.
func MakeBuilder() Builder {
	return Builder{
		beatBytes:  8,
		burstBytes: 64,
		queueDepth: 4,
	}
}

// WithBeatBytes sets the width of the memory data channel.
func (b Builder) WithBeatBytes(n int) Builder {
	b.beatBytes = n
	return b
}

// WithBurstBytes sets the maximum size of a write burst.
func (b Builder) WithBurstBytes(n int) Builder {
	b.burstBytes = n
	return b
}

// WithQueueDepth sets how many bursts can be buffered.
func (b Builder) WithQueueDepth(n int) Builder {
	b.queueDepth = n
	return b
}

// WithControl sets the block that gates and resets the writer.
func (b Builder) WithControl(c Control) Builder {
	b.control = c
	return b
}

// WithDescriptorIn connects the descriptor input.
func (b Builder) WithDescriptorIn(c *rtl.Chan[descpipe.Desc]) Builder {
	b.desc = c
	return b
}

// WithStreamIn connects the frame stream input.
func (b Builder) WithStreamIn(c *rtl.Chan[stream.Beat]) Builder {
	b.in = c
	return b
}

// WithMemory connects the memory write channels.
func (b Builder) WithMemory(m *memwrite.Memory) Builder {
	b.aw = m.AW
	b.w = m.W
	b.b = m.B

	return b
}

// Build creates a writer. Inputs and outputs that are not connected get
// their own channels.
func (b Builder) Build(name string) *Comp {
	sim.NameMustBeValid(name)

	if b.burstBytes < b.beatBytes || b.beatBytes <= 0 {
		log.Panicf("%s: burst of %d bytes cannot hold a beat of %d bytes",
			name, b.burstBytes, b.beatBytes)
	}

	if b.queueDepth < 2 {
		log.Panicf("%s: burst queue needs at least 2 entries", name)
	}

	c := &Comp{
		name:       name,
		Desc:       b.desc,
		In:         b.in,
		AW:         b.aw,
		W:          b.w,
		B:          b.b,
		Result:     rtl.NewChan[Result](name + ".Result"),
		control:    b.control,
		beatBytes:  b.beatBytes,
		burstBytes: b.burstBytes,
		bursts:     sim.NewBuffer(name+".Bursts", b.queueDepth),
	}

	if c.Desc == nil {
		c.Desc = rtl.NewChan[descpipe.Desc](name + ".Desc")
	}

	if c.In == nil {
		c.In = rtl.NewChan[stream.Beat](name + ".In")
	}

	if c.AW == nil {
		c.AW = rtl.NewChan[memwrite.Cmd](name + ".AW")
	}

	if c.W == nil {
		c.W = rtl.NewChan[stream.Beat](name + ".W")
	}

	if c.B == nil {
		c.B = rtl.NewChan[memwrite.Ack](name + ".B")
	}

	return c
}
