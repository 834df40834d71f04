package oneshot

import (
	"github.com/artsniffer/rxdma/descpipe"
	"github.com/artsniffer/rxdma/dmawriter"
	"github.com/artsniffer/rxdma/rtl"
	"github.com/artsniffer/rxdma/sim"
)

// A Builder can build one-shot controllers.
type Builder struct {
	desc   *rtl.Chan[descpipe.Desc]
	result *rtl.Chan[dmawriter.Result]
}

// MakeBuilder creates a Builder with default parameters.
func MakeBuilder() Builder {
	return Builder{}
}

// WithDescriptorOut connects the descriptor output, usually the input of a
// descriptor pipeline.
func (b Builder) WithDescriptorOut(c *rtl.Chan[descpipe.Desc]) Builder {
	b.desc = c
	return b
}

// WithWriter connects the result channel of a writer.
func (b Builder) WithWriter(w *dmawriter.Comp) Builder {
	b.result = w.Result
	return b
}

// Build creates a one-shot controller.
func (b Builder) Build(name string) *Comp {
	c := &Comp{
		ComponentBase: sim.NewComponentBase(name),
		Desc:          b.desc,
		Result:        b.result,
	}

	if c.Desc == nil {
		c.Desc = rtl.NewChan[descpipe.Desc](name + ".Desc")
	}

	if c.Result == nil {
		c.Result = rtl.NewChan[dmawriter.Result](name + ".Result")
	}

	return c
}
