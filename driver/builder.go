package driver

import (
	"log"

	"github.com/sirupsen/logrus"

	"github.com/artsniffer/rxdma/regbus"
	"github.com/artsniffer/rxdma/sim"
)

// A Builder can build drivers.
type Builder struct {
	cfg    Config
	master *regbus.Master
	mem    HostMemory
	irq    IRQLine
	sinks  []Sink
	log    logrus.FieldLogger
}

// MakeBuilder creates a Builder with default parameters.
func MakeBuilder() Builder {
	return Builder{
		cfg: Config{
			NumSlots:     256,
			BufBase:      0x40000,
			BufStride:    2048,
			Capacity:     2048,
			LastSlot:     -1,
			UseIRQ:       true,
			Rearm:        true,
			PollInterval: 16,
		},
	}
}

// WithConfig sets the ring layout and service mode.
func (b Builder) WithConfig(cfg Config) Builder {
	b.cfg = cfg
	return b
}

// WithMaster sets the bus master used for register accesses.
func (b Builder) WithMaster(m *regbus.Master) Builder {
	b.master = m
	return b
}

// WithMemory sets the host memory that buffers are copied from.
func (b Builder) WithMemory(mem HostMemory) Builder {
	b.mem = mem
	return b
}

// WithIRQLine sets the interrupt line.
func (b Builder) WithIRQLine(irq IRQLine) Builder {
	b.irq = irq
	return b
}

// WithSink adds a sink.
func (b Builder) WithSink(s Sink) Builder {
	b.sinks = append(b.sinks, s)
	return b
}

// WithLogger sets the logger.
func (b Builder) WithLogger(l logrus.FieldLogger) Builder {
	b.log = l
	return b
}

// Build creates a driver.
func (b Builder) Build(name string) *Driver {
	sim.NameMustBeValid(name)

	if b.master == nil || b.mem == nil {
		log.Panicf("%s: a bus master and host memory are required", name)
	}

	if b.cfg.UseIRQ && b.irq == nil {
		log.Panicf("%s: interrupt mode needs an interrupt line", name)
	}

	if b.cfg.NumSlots <= 0 {
		log.Panicf("%s: ring must have slots", name)
	}

	logger := b.log
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &Driver{
		name:     name,
		cfg:      b.cfg,
		master:   b.master,
		mem:      b.mem,
		irq:      b.irq,
		sinks:    b.sinks,
		log:      logger.WithField("component", name),
		consumed: make([]bool, b.cfg.NumSlots),
	}
}
