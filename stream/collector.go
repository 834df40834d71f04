package stream

import (
	"github.com/artsniffer/rxdma/rtl"
)

// A Collector reassembles frames from a stream.
type Collector struct {
	name   string
	In     *rtl.Chan[Beat]
	pause  *rtl.Pattern
	frames [][]byte
	cur    []byte
}

// NewCollector creates a Collector consuming in.
func NewCollector(name string, in *rtl.Chan[Beat]) *Collector {
	return &Collector{name: name, In: in}
}

// Name returns the name of the collector.
func (c *Collector) Name() string {
	return c.name
}

// SetPause sets the pattern that deasserts ready.
func (c *Collector) SetPause(p *rtl.Pattern) {
	c.pause = p
}

// Frames returns the frames received so far.
func (c *Collector) Frames() [][]byte {
	return c.frames
}

// Eval takes a beat and decides ready for the next cycle.
func (c *Collector) Eval(_ rtl.Ctx) {
	if c.In.Fire() {
		b := c.In.Peek()
		c.cur = append(c.cur, b.Data...)

		if b.Last {
			c.frames = append(c.frames, c.cur)
			c.cur = nil
		}
	}

	c.In.SetReady(!c.pause.Next())
}

// Commit does nothing, the channel is committed by the clock.
func (c *Collector) Commit() {}
