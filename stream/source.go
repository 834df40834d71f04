package stream

import (
	"github.com/artsniffer/rxdma/rtl"
	"github.com/artsniffer/rxdma/sim"
)

// A Source sends queued frames as beats. It models the link-side producer
// and never drops valid once asserted.
type Source struct {
	name      string
	Out       *rtl.Chan[Beat]
	beatBytes int
	pause     *rtl.Pattern

	frames [][]byte
	offset int
	sent   int
}

// NewSource creates a Source with its own output channel.
func NewSource(name string, beatBytes int) *Source {
	sim.NameMustBeValid(name)

	return &Source{
		name:      name,
		Out:       rtl.NewChan[Beat](name + ".Out"),
		beatBytes: beatBytes,
	}
}

// Name returns the name of the source.
func (s *Source) Name() string {
	return s.name
}

// SetPause sets the pattern that holds back new beats.
func (s *Source) SetPause(p *rtl.Pattern) {
	s.pause = p
}

// Send queues frames.
func (s *Source) Send(frames ...[]byte) {
	s.frames = append(s.frames, frames...)
}

// Pending returns the number of frames not fully sent.
func (s *Source) Pending() int {
	return len(s.frames)
}

// Sent returns the number of frames fully sent.
func (s *Source) Sent() int {
	return s.sent
}

// Eval advances over the beat taken in this cycle and offers the next one.
func (s *Source) Eval(ctx rtl.Ctx) {
	if ctx.Reset {
		s.offset = 0
		s.Out.Idle()

		return
	}

	if s.Out.Fire() {
		s.retire(s.Out.Peek())
	}

	paused := s.pause.Next()

	if s.Out.Valid() && !s.Out.Fire() {
		return
	}

	if len(s.frames) == 0 || paused {
		s.Out.Idle()
		return
	}

	s.Out.Drive(s.headBeat())
}

func (s *Source) retire(b Beat) {
	s.offset += len(b.Data)
	if b.Last {
		s.frames = s.frames[1:]
		s.offset = 0
		s.sent++
	}
}

func (s *Source) headBeat() Beat {
	frame := s.frames[0]
	end := min(s.offset+s.beatBytes, len(frame))

	return Beat{
		Data: frame[s.offset:end],
		Last: end == len(frame),
	}
}

// Commit does nothing, the channel is committed by the clock.
func (s *Source) Commit() {}
