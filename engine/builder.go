package engine

import (
	"log"

	"github.com/artsniffer/rxdma/descpipe"
	"github.com/artsniffer/rxdma/dmawriter"
	"github.com/artsniffer/rxdma/ring"
	"github.com/artsniffer/rxdma/rtl"
	"github.com/artsniffer/rxdma/sim"
)

// A Builder can build ring controllers.
type Builder struct {
	store    *ring.Store
	control  Control
	pipeline *descpipe.Pipeline
	writer   *dmawriter.Comp
	done     *rtl.Chan[Completion]
}

// MakeBuilder creates a Builder with default parameters.
func MakeBuilder() Builder {
	return Builder{}
}

// WithStore sets the descriptor ring.
func (b Builder) WithStore(s *ring.Store) Builder {
	b.store = s
	return b
}

// WithControl sets the control block.
func (b Builder) WithControl(c Control) Builder {
	b.control = c
	return b
}

// WithPipeline connects the arm and length update channels to a pipeline.
func (b Builder) WithPipeline(p *descpipe.Pipeline) Builder {
	b.pipeline = p
	return b
}

// WithWriter connects the result channel of a writer.
func (b Builder) WithWriter(w *dmawriter.Comp) Builder {
	b.writer = w
	return b
}

// WithDone connects the completion channel to the control block.
func (b Builder) WithDone(done *rtl.Chan[Completion]) Builder {
	b.done = done
	return b
}

// Build creates a ring controller.
func (b Builder) Build(name string) *Comp {
	if b.store == nil {
		log.Panicf("%s: a descriptor ring is required", name)
	}

	if b.control == nil {
		log.Panicf("%s: a control block is required", name)
	}

	c := &Comp{
		ComponentBase: sim.NewComponentBase(name),
		store:         b.store,
		control:       b.control,
		Done:          b.done,
	}

	if c.Done == nil {
		c.Done = rtl.NewChan[Completion](name + ".Done")
	}

	if b.pipeline != nil {
		c.Arm = b.pipeline.In
		c.LenUpdate = b.pipeline.LenUpdate
	} else {
		c.Arm = rtl.NewChan[descpipe.Desc](name + ".Arm")
		c.LenUpdate = rtl.NewChan[uint32](name + ".LenUpdate")
	}

	if b.writer != nil {
		c.Result = b.writer.Result
	} else {
		c.Result = rtl.NewChan[dmawriter.Result](name + ".Result")
	}

	return c
}
