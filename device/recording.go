package device

import (
	"github.com/artsniffer/rxdma/csr"
	"github.com/artsniffer/rxdma/datarecording"
	"github.com/artsniffer/rxdma/engine"
	"github.com/artsniffer/rxdma/sim"
)

// Tables written by a Recorder.
const (
	SpecTable       = "spec"
	CompletionTable = "completion"
	IRQTable        = "irq"
)

type specEntry struct {
	Device       string
	FreqHz       float64
	NumSlots     int
	Ports        int
	Capacity     uint32
	Framing      bool
	UseIRQ       bool
	IRQTime      uint32
	Rearm        bool
	PollInterval int
}

type completionEntry struct {
	Time      float64
	Slot      int
	Addr      uint64
	Length    uint32
	Truncated bool
}

type irqEntry struct {
	Time        float64
	PacketCount uint32
}

// A Recorder writes the completions and interrupts of a device as rows.
type Recorder struct {
	rec   datarecording.DataRecorder
	clock sim.TimeTeller
	count uint64
}

// Record creates the recording tables, stores the spec of the device and
// hooks the recorder onto the ring controller and the control block.
func (d *Device) Record(rec datarecording.DataRecorder) *Recorder {
	r := &Recorder{rec: rec, clock: d.Clock}

	rec.CreateTable(SpecTable, specEntry{})
	rec.CreateTable(CompletionTable, completionEntry{})
	rec.CreateTable(IRQTable, irqEntry{})

	rec.InsertData(SpecTable, specEntry{
		Device:       d.name,
		FreqHz:       float64(d.Spec.Freq),
		NumSlots:     d.Spec.NumSlots,
		Ports:        d.Spec.Ports,
		Capacity:     d.Spec.Capacity,
		Framing:      d.Spec.Framing,
		UseIRQ:       d.Spec.UseIRQ,
		IRQTime:      d.Spec.IRQTime,
		Rearm:        d.Spec.Rearm,
		PollInterval: d.Spec.PollInterval,
	})

	d.Engine.AcceptHook(r)
	d.CSR.AcceptHook(r)

	return r
}

// Func records one hook event.
func (r *Recorder) Func(ctx sim.HookCtx) {
	switch ctx.Pos {
	case engine.HookPosCompletion:
		done := ctx.Item.(engine.Completion)
		r.rec.InsertData(CompletionTable, completionEntry{
			Time:      float64(done.Time),
			Slot:      done.Slot,
			Addr:      done.Addr,
			Length:    done.Len,
			Truncated: done.Truncated,
		})
		r.count++
	case csr.HookPosIRQ:
		r.rec.InsertData(IRQTable, irqEntry{
			Time:        float64(r.clock.CurrentTime()),
			PacketCount: ctx.Item.(uint32),
		})
	}
}

// Completions returns the number of completion rows written.
func (r *Recorder) Completions() uint64 {
	return r.count
}
