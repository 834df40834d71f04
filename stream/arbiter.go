package stream

import (
	"github.com/artsniffer/rxdma/rtl"
	"github.com/artsniffer/rxdma/sim"
)

// An Arbiter merges several streams into one. Inputs are served round-robin
// and a granted input keeps the grant until the last beat of its frame, so
// frames never interleave.
type Arbiter struct {
	name string
	Ins  []*rtl.Chan[Beat]
	Out  *rtl.Chan[Beat]

	fifo       sim.Buffer
	grant      int
	locked     bool
	lastServed int
	frames     []uint64
}

// NewArbiter creates an Arbiter that consumes ins.
func NewArbiter(name string, ins ...*rtl.Chan[Beat]) *Arbiter {
	sim.NameMustBeValid(name)

	return &Arbiter{
		name:       name,
		Ins:        ins,
		Out:        rtl.NewChan[Beat](name + ".Out"),
		fifo:       sim.NewBuffer(name+".Fifo", 2),
		grant:      -1,
		lastServed: len(ins) - 1,
		frames:     make([]uint64, len(ins)),
	}
}

// Name returns the name of the arbiter.
func (a *Arbiter) Name() string {
	return a.name
}

// FramesFrom returns the number of frames forwarded from input i.
func (a *Arbiter) FramesFrom(i int) uint64 {
	return a.frames[i]
}

// Eval moves at most one beat in and one beat out.
func (a *Arbiter) Eval(ctx rtl.Ctx) {
	if ctx.Reset {
		a.fifo.Clear()
		a.grant = -1
		a.locked = false
		a.Out.Idle()
		a.updateReady()

		return
	}

	if a.Out.Fire() {
		a.fifo.Pop()
	}

	if a.grant >= 0 && a.Ins[a.grant].Fire() {
		a.accept(a.Ins[a.grant].Peek())
	}

	if a.fifo.Size() > 0 {
		a.Out.Drive(a.fifo.Peek().(Beat))
	} else {
		a.Out.Idle()
	}

	if !a.locked {
		a.grant = a.pick()
	}

	a.updateReady()
}

func (a *Arbiter) accept(b Beat) {
	a.fifo.Push(b)
	a.locked = !b.Last

	if b.Last {
		a.frames[a.grant]++
		a.lastServed = a.grant
	}
}

func (a *Arbiter) pick() int {
	n := len(a.Ins)
	for i := 1; i <= n; i++ {
		candidate := (a.lastServed + i) % n
		if a.Ins[candidate].Valid() {
			return candidate
		}
	}

	return -1
}

func (a *Arbiter) updateReady() {
	room := a.fifo.Size() < a.fifo.Capacity()
	for i, in := range a.Ins {
		in.SetReady(i == a.grant && room)
	}
}

// Commit does nothing, the channels are committed by the clock.
func (a *Arbiter) Commit() {}
