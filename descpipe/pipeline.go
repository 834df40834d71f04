// Package descpipe provides the descriptor latch that sits between the ring
// controller and the write engine.
package descpipe

import (
	"github.com/artsniffer/rxdma/rtl"
)

// A Desc is a write descriptor: where to write and how many bytes may be
// written. Tag is carried through untouched.
type Desc struct {
	Addr uint64
	Len  uint32
	Tag  bool
}

// Pipeline registers one descriptor at a time and forwards it downstream.
// While it holds a descriptor, length updates replace the forwarded length;
// the address and tag are fixed at acceptance.
type Pipeline struct {
	name      string
	In        *rtl.Chan[Desc]
	LenUpdate *rtl.Chan[uint32]
	Out       *rtl.Chan[Desc]

	resetSrc  ResetSource
	holding   bool
	held      Desc
	accepted  uint64
	coalesced uint64
}

// Name returns the name of the pipeline.
func (p *Pipeline) Name() string {
	return p.name
}

// Holding tells if a descriptor is waiting for downstream.
func (p *Pipeline) Holding() bool {
	return p.holding
}

// Stats returns the number of descriptors accepted and the number of length
// updates applied to held descriptors.
func (p *Pipeline) Stats() (accepted, coalesced uint64) {
	return p.accepted, p.coalesced
}

// Eval runs the Idle/Holding automaton for one cycle.
func (p *Pipeline) Eval(ctx rtl.Ctx) {
	p.LenUpdate.SetReady(true)

	if ctx.Reset || (p.resetSrc != nil && p.resetSrc.SoftReset()) {
		p.holding = false
		p.Out.Idle()
		p.In.SetReady(false)

		return
	}

	switch {
	case p.holding && p.Out.Fire():
		p.holding = false
		p.Out.Idle()
	case p.holding && p.LenUpdate.Fire():
		p.held.Len = p.LenUpdate.Peek()
		p.coalesced++
		p.Out.Drive(p.held)
	case !p.holding && p.In.Fire():
		p.held = p.In.Peek()
		p.holding = true
		p.accepted++
		p.Out.Drive(p.held)
	}

	p.In.SetReady(!p.holding)
}

// Commit does nothing, the channels are committed by the clock.
func (p *Pipeline) Commit() {}
