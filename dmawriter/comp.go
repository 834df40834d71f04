// Package dmawriter implements the datapath of the write engine. It turns
// one frame of a byte stream into aligned write bursts to host memory.
package dmawriter

import (
	"github.com/artsniffer/rxdma/descpipe"
	"github.com/artsniffer/rxdma/memwrite"
	"github.com/artsniffer/rxdma/rtl"
	"github.com/artsniffer/rxdma/sim"
	"github.com/artsniffer/rxdma/stream"
)

// Result reports a finished frame. Len is the number of bytes in memory.
type Result struct {
	Len       uint32
	Truncated bool
}

// Stats counts what the writer has done.
type Stats struct {
	Frames      uint64
	Bytes       uint64
	Bursts      uint64
	Truncated   uint64
	ZeroLength  uint64
	Discarded   uint64
	StallCycles uint64
}

type burst struct {
	id   uint64
	addr uint64
	data []byte
}

// Comp writes one frame per descriptor.
type Comp struct {
	name   string
	Desc   *rtl.Chan[descpipe.Desc]
	In     *rtl.Chan[stream.Beat]
	AW     *rtl.Chan[memwrite.Cmd]
	W      *rtl.Chan[stream.Beat]
	B      *rtl.Chan[memwrite.Ack]
	Result *rtl.Chan[Result]

	control    Control
	beatBytes  int
	burstBytes int

	active     bool
	desc       descpipe.Desc
	count      int
	started    bool
	truncated  bool
	sawLast    bool
	discarding bool
	cur        []byte

	bursts      sim.Buffer
	awSent      bool
	wOffset     int
	outstanding int
	nextID      uint64

	busy  rtl.Reg[bool]
	stats Stats
}

// Name returns the name of the writer.
func (c *Comp) Name() string {
	return c.name
}

// Busy tells if a frame is in progress or memory writes are in flight.
func (c *Comp) Busy() bool {
	return c.busy.Get()
}

// Stats returns the counters of the writer.
func (c *Comp) Stats() Stats {
	return c.stats
}

// Eval runs one cycle of the writer.
func (c *Comp) Eval(ctx rtl.Ctx) {
	if ctx.Reset {
		c.clear()
		return
	}

	c.retireTransfers()

	if c.Result.Fire() {
		c.finishFrame()
	}

	if c.Desc.Fire() {
		c.desc = c.Desc.Peek()
		c.active = true
	}

	if c.In.Fire() {
		c.takeBeat(c.In.Peek())
	}

	if c.control != nil && c.control.SoftReset() {
		c.softReset()
	}

	c.driveMemory()
	c.driveResult()
	c.updateReady()

	c.busy.Set(c.active || c.discarding || c.bursts.Size() > 0 ||
		c.outstanding > 0)
}

func (c *Comp) clear() {
	c.active = false
	c.discarding = false
	c.resetFrame()
	c.bursts.Clear()
	c.awSent = false
	c.wOffset = 0
	c.outstanding = 0

	c.AW.Idle()
	c.W.Idle()
	c.Result.Idle()
	c.Desc.SetReady(false)
	c.In.SetReady(false)
	c.B.SetReady(false)
	c.busy.Set(false)
}

func (c *Comp) resetFrame() {
	c.count = 0
	c.started = false
	c.truncated = false
	c.sawLast = false
	c.cur = nil
}

func (c *Comp) retireTransfers() {
	if c.AW.Fire() {
		c.awSent = true
		c.outstanding++
	}

	if c.W.Fire() {
		beat := c.W.Peek()
		c.wOffset += len(beat.Data)

		if beat.Last {
			c.bursts.Pop()
			c.awSent = false
			c.wOffset = 0
		}
	}

	if c.B.Fire() {
		c.outstanding--
	}
}

func (c *Comp) finishFrame() {
	c.stats.Frames++
	c.stats.Bytes += uint64(c.count)

	if c.truncated {
		c.stats.Truncated++
	}

	c.active = false
	c.resetFrame()
	c.Result.Idle()
}

func (c *Comp) takeBeat(beat stream.Beat) {
	if c.discarding {
		c.discarding = !beat.Last
		return
	}

	if beat.Last && len(beat.Data) == 0 && !c.started {
		c.stats.ZeroLength++
		return
	}

	c.started = true

	data := beat.Data
	room := int(c.desc.Len) - c.count
	if len(data) > room {
		data = data[:room]
		c.truncated = true
	}

	c.append(data)

	if beat.Last {
		c.sawLast = true
		c.flush()
	}
}

func (c *Comp) append(data []byte) {
	for len(data) > 0 {
		space := c.burstBytes - len(c.cur)
		n := min(space, len(data))

		c.cur = append(c.cur, data[:n]...)
		c.count += n
		data = data[n:]

		if len(c.cur) == c.burstBytes {
			c.flush()
		}
	}
}

func (c *Comp) flush() {
	if len(c.cur) == 0 {
		return
	}

	start := c.count - len(c.cur)
	c.bursts.Push(&burst{
		id:   c.nextID,
		addr: c.desc.Addr + uint64(start),
		data: c.cur,
	})
	c.nextID++
	c.stats.Bursts++
	c.cur = nil
}

func (c *Comp) softReset() {
	var inFlight interface{}
	if c.awSent || c.AW.Valid() {
		inFlight = c.bursts.Peek()
	}

	c.bursts.Clear()
	if inFlight != nil {
		c.bursts.Push(inFlight)
	}

	if c.active && c.started && !c.sawLast {
		c.discarding = true
		c.stats.Discarded++
	}

	c.active = false
	c.resetFrame()
	c.Result.Idle()
}

func (c *Comp) driveMemory() {
	head, _ := c.bursts.Peek().(*burst)

	if !c.AW.Valid() || c.AW.Fire() {
		if head != nil && !c.awSent && !c.AW.Fire() {
			c.AW.Drive(memwrite.Cmd{
				ID:   head.id,
				Addr: head.addr,
				Len:  len(head.data),
			})
		} else {
			c.AW.Idle()
		}
	}

	if !c.W.Valid() || c.W.Fire() {
		if head != nil && c.awSent && c.wOffset < len(head.data) {
			end := min(c.wOffset+c.beatBytes, len(head.data))
			c.W.Drive(stream.Beat{
				Data: head.data[c.wOffset:end],
				Last: end == len(head.data),
			})
		} else {
			c.W.Idle()
		}
	}

	if (c.AW.Valid() && !c.AW.Ready()) || (c.W.Valid() && !c.W.Ready()) {
		c.stats.StallCycles++
	}
}

func (c *Comp) frameDone() bool {
	return c.active && c.sawLast && len(c.cur) == 0 &&
		c.bursts.Size() == 0 && c.outstanding == 0
}

func (c *Comp) driveResult() {
	if c.Result.Valid() && !c.Result.Fire() {
		return
	}

	if c.frameDone() {
		c.Result.Drive(Result{
			Len:       uint32(c.count),
			Truncated: c.truncated,
		})
	}
}

func (c *Comp) updateReady() {
	enabled := c.control == nil || c.control.Enabled()
	resetting := c.control != nil && c.control.SoftReset()

	c.Desc.SetReady(!c.active && !c.discarding && !resetting &&
		enabled && c.In.Valid())

	room := c.bursts.Size() <= c.bursts.Capacity()-2
	c.In.SetReady(c.discarding || (c.active && !c.sawLast && room))

	c.B.SetReady(true)
}

// Commit publishes the busy flag.
func (c *Comp) Commit() {
	c.busy.Commit()
}
