package memwrite

import (
	"github.com/artsniffer/rxdma/rtl"
	"github.com/artsniffer/rxdma/sim"
	"github.com/artsniffer/rxdma/stream"
)

// A Builder can build host memory blocks.
type Builder struct {
	capacity uint64
	cmdDepth int
	ackDepth int
	storage  *Storage
}

// MakeBuilder creates a Builder with default parameters.
func MakeBuilder() Builder {
	return Builder{
		capacity: 4 << 20,
		cmdDepth: 2,
		ackDepth: 4,
	}
}

// WithCapacity sets the size of the memory in bytes.
func (b Builder) WithCapacity(capacity uint64) Builder {
	b.capacity = capacity
	return b
}

// WithCmdDepth sets how many write commands can wait for their data.
func (b Builder) WithCmdDepth(n int) Builder {
	b.cmdDepth = n
	return b
}

// WithAckDepth sets how many acknowledgements can wait on B.
func (b Builder) WithAckDepth(n int) Builder {
	b.ackDepth = n
	return b
}

// WithStorage uses an existing storage instead of creating one.
func (b Builder) WithStorage(s *Storage) Builder {
	b.storage = s
	return b
}

// Build creates a Memory with its own channels.
func (b Builder) Build(name string) *Memory {
	sim.NameMustBeValid(name)

	storage := b.storage
	if storage == nil {
		storage = NewStorage(b.capacity)
	}

	return &Memory{
		name:    name,
		AW:      rtl.NewChan[Cmd](name + ".AW"),
		W:       rtl.NewChan[stream.Beat](name + ".W"),
		B:       rtl.NewChan[Ack](name + ".B"),
		storage: storage,
		cmds:    sim.NewBuffer(name+".Cmds", b.cmdDepth),
		acks:    sim.NewBuffer(name+".Acks", b.ackDepth),
	}
}
