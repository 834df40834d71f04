package device

import (
	"log"

	"github.com/sirupsen/logrus"

	"github.com/artsniffer/rxdma/csr"
	"github.com/artsniffer/rxdma/descpipe"
	"github.com/artsniffer/rxdma/dmawriter"
	"github.com/artsniffer/rxdma/driver"
	"github.com/artsniffer/rxdma/engine"
	"github.com/artsniffer/rxdma/framing"
	"github.com/artsniffer/rxdma/memwrite"
	"github.com/artsniffer/rxdma/regbus"
	"github.com/artsniffer/rxdma/ring"
	"github.com/artsniffer/rxdma/rtl"
	"github.com/artsniffer/rxdma/sim"
	"github.com/artsniffer/rxdma/stream"
)

// A Builder can build capture devices.
type Builder struct {
	spec   Spec
	engine sim.Engine
	log    logrus.FieldLogger
	sinks  []driver.Sink

	noDriver bool
}

// MakeBuilder creates a Builder with default parameters.
func MakeBuilder() Builder {
	return Builder{spec: Spec{}.Defaults()}
}

// WithSpec sets the sizes and modes. Zero fields take default values.
func (b Builder) WithSpec(s Spec) Builder {
	b.spec = s.Defaults()
	return b
}

// WithFreq sets the clock frequency.
func (b Builder) WithFreq(f sim.Freq) Builder {
	b.spec.Freq = f
	return b
}

// WithEngine sets the event engine that drives the clock in Run. By default
// a serial engine is used.
func (b Builder) WithEngine(e sim.Engine) Builder {
	b.engine = e
	return b
}

// WithNumSlots sets the ring size.
func (b Builder) WithNumSlots(n int) Builder {
	b.spec.NumSlots = n
	b.spec.MemCapacity = 0
	b.spec = b.spec.Defaults()

	return b
}

// WithPorts sets the number of ingress ports.
func (b Builder) WithPorts(n int) Builder {
	b.spec.Ports = n
	return b
}

// WithLogger sets the logger.
func (b Builder) WithLogger(l logrus.FieldLogger) Builder {
	b.log = l
	return b
}

// WithoutDriver leaves the ring to software that talks to Master directly.
// Run cannot be used on such a device.
func (b Builder) WithoutDriver() Builder {
	b.noDriver = true
	return b
}

// WithSink adds a sink for drained packets.
func (b Builder) WithSink(s driver.Sink) Builder {
	b.sinks = append(b.sinks, s)
	return b
}

// Build assembles the device. It panics on an invalid spec.
func (b Builder) Build(name string) *Device {
	sim.NameMustBeValid(name)

	if err := b.spec.Validate(); err != nil {
		log.Panicf("%s: %v", name, err)
	}

	logger := b.log
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	d := &Device{
		name:   name,
		Spec:   b.spec,
		log:    logger.WithField("device", name),
		simEng: b.engine,
		Clock:  rtl.NewClock(sim.BuildName(name, "Clock"), b.spec.Freq),
	}

	if d.simEng == nil {
		d.simEng = sim.NewSerialEngine()
	}

	ingress := b.buildIngress(d)
	b.buildDatapath(d, ingress)
	b.buildSoftware(d, logger)
	b.register(d)

	return d
}

func (b Builder) buildIngress(d *Device) []*rtl.Chan[stream.Beat] {
	ins := make([]*rtl.Chan[stream.Beat], 0, b.spec.Ports)

	for i := 0; i < b.spec.Ports; i++ {
		src := stream.NewSource(
			sim.BuildNameWithIndex(d.name, "Port", i), b.spec.StreamBeatBytes)
		d.Sources = append(d.Sources, src)

		if !b.spec.Framing {
			ins = append(ins, src.Out)
			continue
		}

		f := framing.NewFramer(
			sim.BuildNameWithIndex(d.name, "Framer", i),
			src.Out, b.spec.StreamBeatBytes, b.spec.SnapLen)
		d.Framers = append(d.Framers, f)
		ins = append(ins, f.Out)
	}

	return ins
}

func (b Builder) buildDatapath(d *Device, ingress []*rtl.Chan[stream.Beat]) {
	d.Arbiter = stream.NewArbiter(sim.BuildName(d.name, "Arbiter"), ingress...)

	d.Memory = memwrite.MakeBuilder().
		WithCapacity(b.spec.MemCapacity).
		Build(sim.BuildName(d.name, "Memory"))

	d.CSR = csr.MakeBuilder().
		WithNumSlots(b.spec.NumSlots).
		Build(sim.BuildName(d.name, "CSR"))

	d.Pipeline = descpipe.MakeBuilder().
		WithResetSource(d.CSR).
		Build(sim.BuildName(d.name, "DescPipe"))

	d.Writer = dmawriter.MakeBuilder().
		WithBeatBytes(b.spec.BeatBytes).
		WithBurstBytes(b.spec.BurstBytes).
		WithQueueDepth(b.spec.BurstQueue).
		WithControl(d.CSR).
		WithDescriptorIn(d.Pipeline.Out).
		WithStreamIn(d.Arbiter.Out).
		WithMemory(d.Memory).
		Build(sim.BuildName(d.name, "Writer"))

	d.Ring = ring.NewStore(sim.BuildName(d.name, "Ring"), b.spec.NumSlots)

	d.Engine = engine.MakeBuilder().
		WithStore(d.Ring).
		WithControl(d.CSR).
		WithPipeline(d.Pipeline).
		WithWriter(d.Writer).
		WithDone(d.CSR.Done).
		Build(sim.BuildName(d.name, "Engine"))

	d.CSR.ConnectRing(d.Engine)

	d.Bus = regbus.NewComp(sim.BuildName(d.name, "Bus"))
	d.Bus.Map(regbus.SpaceControl, d.CSR)
	d.Bus.Map(regbus.SpaceDescriptor, d.Ring)
}

func (b Builder) buildSoftware(d *Device, logger logrus.FieldLogger) {
	d.Master = regbus.NewMaster(sim.BuildName(d.name, "Host"), d.Clock, d.Bus)

	if b.noDriver {
		return
	}

	db := driver.MakeBuilder().
		WithConfig(driver.Config{
			NumSlots:     b.spec.NumSlots,
			BufBase:      b.spec.BufBase,
			BufStride:    b.spec.BufStride,
			Capacity:     b.spec.Capacity,
			LastSlot:     b.spec.LastSlot,
			UseIRQ:       b.spec.UseIRQ,
			IRQTime:      b.spec.IRQTime,
			Rearm:        b.spec.Rearm,
			Framed:       b.spec.Framing,
			PollInterval: b.spec.PollInterval,
		}).
		WithMaster(d.Master).
		WithMemory(d.Memory).
		WithIRQLine(d.CSR).
		WithLogger(logger)

	for _, s := range b.sinks {
		db = db.WithSink(s)
	}

	d.Driver = db.Build(sim.BuildName(d.name, "Driver"))
}

func (b Builder) register(d *Device) {
	for _, s := range d.Sources {
		d.Clock.Add(s)
		d.Clock.AddState(s.Out)
	}

	for _, f := range d.Framers {
		d.Clock.Add(f)
		d.Clock.AddState(f.Out)
	}

	d.Clock.Add(
		d.Arbiter,
		d.Pipeline,
		d.Writer,
		d.Engine,
		d.CSR,
		d.Memory,
		d.Bus,
		d.Master,
	)

	if d.Driver != nil {
		d.Clock.Add(d.Driver)
	}

	d.Clock.AddState(
		d.Ring,
		d.Arbiter.Out,
		d.Pipeline.In,
		d.Pipeline.LenUpdate,
		d.Pipeline.Out,
		d.Writer.Result,
		d.Memory.AW,
		d.Memory.W,
		d.Memory.B,
		d.CSR.Done,
		d.Bus.Req,
		d.Bus.Rsp,
	)
}
