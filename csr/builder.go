package csr

import (
	"github.com/artsniffer/rxdma/engine"
	"github.com/artsniffer/rxdma/rtl"
	"github.com/artsniffer/rxdma/sim"
)

// A Builder can build control blocks.
type Builder struct {
	numSlots int
	ring     RingState
	done     *rtl.Chan[engine.Completion]
}

// MakeBuilder creates a Builder with default parameters.
func MakeBuilder() Builder {
	return Builder{numSlots: 256}
}

// WithNumSlots sets the ring size reported by RING_SIZE.
func (b Builder) WithNumSlots(n int) Builder {
	b.numSlots = n
	return b
}

// WithRingState sets where busy and cursor are read from.
func (b Builder) WithRingState(r RingState) Builder {
	b.ring = r
	return b
}

// WithCompletions connects the completion channel of the ring controller.
func (b Builder) WithCompletions(done *rtl.Chan[engine.Completion]) Builder {
	b.done = done
	return b
}

// Build creates a control block.
func (b Builder) Build(name string) *Comp {
	c := &Comp{
		ComponentBase: sim.NewComponentBase(name),
		numSlots:      b.numSlots,
		ring:          b.ring,
		Done:          b.done,
	}

	if c.Done == nil {
		c.Done = rtl.NewChan[engine.Completion](name + ".Done")
	}

	return c
}
