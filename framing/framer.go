package framing

import (
	"github.com/artsniffer/rxdma/rtl"
	"github.com/artsniffer/rxdma/sim"
	"github.com/artsniffer/rxdma/stream"
)

// A Framer collects whole frames from its input, then sends each frame with
// a capture header in front. The timestamp is taken at the first beat.
type Framer struct {
	name string
	In   *rtl.Chan[stream.Beat]
	Out  *rtl.Chan[stream.Beat]

	out      *stream.Source
	snapLen  int
	maxQueue int

	buf     []byte
	stamp   sim.VTimeInSec
	started bool

	framed  uint64
	dropped uint64
}

// NewFramer creates a Framer that consumes in. Frames longer than snapLen
// are captured up to snapLen bytes.
func NewFramer(name string, in *rtl.Chan[stream.Beat], beatBytes, snapLen int) *Framer {
	sim.NameMustBeValid(name)

	out := stream.NewSource(name+".Tx", beatBytes)

	return &Framer{
		name:     name,
		In:       in,
		Out:      out.Out,
		out:      out,
		snapLen:  snapLen,
		maxQueue: 2,
	}
}

// Name returns the name of the framer.
func (f *Framer) Name() string {
	return f.name
}

// Stats returns the number of frames sent and dropped.
func (f *Framer) Stats() (framed, dropped uint64) {
	return f.framed, f.dropped
}

// Eval takes one input beat and sends one output beat.
func (f *Framer) Eval(ctx rtl.Ctx) {
	if ctx.Reset {
		f.buf = nil
		f.started = false
	}

	if f.In.Fire() && !ctx.Reset {
		f.take(ctx, f.In.Peek())
	}

	f.out.Eval(ctx)

	f.In.SetReady(!ctx.Reset && f.out.Pending() < f.maxQueue)
}

func (f *Framer) take(ctx rtl.Ctx, beat stream.Beat) {
	if !f.started {
		f.started = true
		f.stamp = ctx.Now
	}

	f.buf = append(f.buf, beat.Data...)

	if !beat.Last {
		return
	}

	f.started = false
	frame := f.buf
	f.buf = nil

	if len(frame) == 0 {
		f.dropped++
		return
	}

	captured := frame
	if len(captured) > f.snapLen {
		captured = captured[:f.snapLen]
	}

	hdr := HeaderAt(f.stamp, len(captured), len(frame))
	framed := append(hdr.Encode(), captured...)
	f.out.Send(framed)
	f.framed++
}

// Commit does nothing, the channels are committed by the clock.
func (f *Framer) Commit() {}
