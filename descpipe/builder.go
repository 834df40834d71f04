package descpipe

import (
	"github.com/artsniffer/rxdma/rtl"
	"github.com/artsniffer/rxdma/sim"
)

// A Builder can build descriptor pipelines.
type Builder struct {
	resetSrc ResetSource
	in       *rtl.Chan[Desc]
}

// MakeBuilder creates a Builder with default parameters.
func MakeBuilder() Builder {
	return Builder{}
}

// WithResetSource sets the block whose soft reset clears the pipeline.
func (b Builder) WithResetSource(r ResetSource) Builder {
	b.resetSrc = r
	return b
}

// WithInput connects an existing descriptor channel as the input.
func (b Builder) WithInput(c *rtl.Chan[Desc]) Builder {
	b.in = c
	return b
}

// Build creates a pipeline. The input gets its own channel if it is not
// connected.
func (b Builder) Build(name string) *Pipeline {
	sim.NameMustBeValid(name)

	p := &Pipeline{
		name:      name,
		In:        b.in,
		LenUpdate: rtl.NewChan[uint32](name + ".LenUpdate"),
		Out:       rtl.NewChan[Desc](name + ".Out"),
		resetSrc:  b.resetSrc,
	}

	if p.In == nil {
		p.In = rtl.NewChan[Desc](name + ".In")
	}

	return p
}
