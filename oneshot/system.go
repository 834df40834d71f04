package oneshot

import (
	"github.com/artsniffer/rxdma/descpipe"
	"github.com/artsniffer/rxdma/dmawriter"
	"github.com/artsniffer/rxdma/memwrite"
	"github.com/artsniffer/rxdma/regbus"
	"github.com/artsniffer/rxdma/rtl"
	"github.com/artsniffer/rxdma/sim"
	"github.com/artsniffer/rxdma/stream"
)

// A System is a complete one-shot capture path. Software programs the
// controller through Master; frames enter at Source and land in Memory.
type System struct {
	Clock    *rtl.Clock
	Source   *stream.Source
	Ctrl     *Comp
	Pipeline *descpipe.Pipeline
	Writer   *dmawriter.Comp
	Memory   *memwrite.Memory
	Bus      *regbus.Comp
	Master   *regbus.Master
}

// NewSystem assembles a one-shot system. The controller is mapped on the
// control space of the bus.
func NewSystem(name string, freq sim.Freq, memCapacity uint64) *System {
	sim.NameMustBeValid(name)

	s := &System{
		Clock:  rtl.NewClock(sim.BuildName(name, "Clock"), freq),
		Source: stream.NewSource(sim.BuildName(name, "Port"), 8),
		Ctrl:   MakeBuilder().Build(sim.BuildName(name, "Ctrl")),
		Memory: memwrite.MakeBuilder().
			WithCapacity(memCapacity).
			Build(sim.BuildName(name, "Memory")),
	}

	s.Pipeline = descpipe.MakeBuilder().
		WithResetSource(s.Ctrl).
		WithInput(s.Ctrl.Desc).
		Build(sim.BuildName(name, "DescPipe"))

	s.Writer = dmawriter.MakeBuilder().
		WithControl(s.Ctrl).
		WithDescriptorIn(s.Pipeline.Out).
		WithStreamIn(s.Source.Out).
		WithMemory(s.Memory).
		Build(sim.BuildName(name, "Writer"))
	s.Ctrl.ConnectWriter(s.Writer)

	s.Bus = regbus.NewComp(sim.BuildName(name, "Bus"))
	s.Bus.Map(regbus.SpaceControl, s.Ctrl)
	s.Master = regbus.NewMaster(sim.BuildName(name, "Host"), s.Clock, s.Bus)

	s.Clock.Add(
		s.Source,
		s.Ctrl,
		s.Pipeline,
		s.Writer,
		s.Memory,
		s.Bus,
		s.Master,
	)
	s.Clock.AddState(
		s.Source.Out,
		s.Ctrl.Desc,
		s.Pipeline.LenUpdate,
		s.Pipeline.Out,
		s.Writer.Result,
		s.Memory.AW,
		s.Memory.W,
		s.Memory.B,
		s.Bus.Req,
		s.Bus.Rsp,
	)

	return s
}

// Enable sets CTRL.enable and optionally CTRL.irq_enable.
func (s *System) Enable(irq bool) error {
	ctrl := CtrlEnable
	if irq {
		ctrl |= CtrlIRQEnable
	}

	return s.Master.WriteDword(regbus.SpaceControl, RegCtrl, ctrl)
}

// Arm programs ADDR and writes LENGTH, which arms one transfer.
func (s *System) Arm(addr, length uint32) error {
	if err := s.Master.WriteDword(regbus.SpaceControl, RegAddr, addr); err != nil {
		return err
	}

	return s.Master.WriteDword(regbus.SpaceControl, RegLength, length)
}

// WaitTransfers steps the clock until n transfers have completed.
func (s *System) WaitTransfers(n uint64, maxCycles uint64) error {
	return s.Clock.RunUntil(func() bool {
		return s.Ctrl.Transfers() >= n
	}, maxCycles)
}
