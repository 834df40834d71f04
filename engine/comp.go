// Package engine implements the ring controller of the receive DMA. It walks
// the descriptor ring, arms one slot at a time, and writes completions back.
package engine

import (
	"fmt"

	"github.com/artsniffer/rxdma/descpipe"
	"github.com/artsniffer/rxdma/dmawriter"
	"github.com/artsniffer/rxdma/ring"
	"github.com/artsniffer/rxdma/rtl"
	"github.com/artsniffer/rxdma/sim"
	"github.com/artsniffer/rxdma/tracing"
)

// HookPosCompletion is triggered when a slot is written back. The hook item
// is the Completion.
var HookPosCompletion = &sim.HookPos{Name: "Completion"}

// A Completion tells that a frame has landed in a slot.
type Completion struct {
	Slot      int
	Addr      uint64
	Len       uint32
	Truncated bool
	Time      sim.VTimeInSec
}

// Stats counts what the ring controller has done.
type Stats struct {
	Armed       uint64
	Completions uint64
	Truncated   uint64
	LenUpdates  uint64
	StallCycles uint64
	SoftResets  uint64
	Dropped     uint64
}

// Comp is the ring controller.
type Comp struct {
	*sim.ComponentBase

	Arm       *rtl.Chan[descpipe.Desc]
	LenUpdate *rtl.Chan[uint32]
	Result    *rtl.Chan[dmawriter.Result]
	Done      *rtl.Chan[Completion]

	store   *ring.Store
	control Control

	cursor   rtl.Reg[int]
	armed    bool
	armedLen uint32
	slot     ring.Descriptor
	taskID   string

	busy  rtl.Reg[bool]
	stats Stats
}

// Cursor returns the committed slot that the controller works on.
func (c *Comp) Cursor() int {
	return c.cursor.Get()
}

// Busy tells if a slot is armed.
func (c *Comp) Busy() bool {
	return c.busy.Get()
}

// Stats returns the counters of the controller.
func (c *Comp) Stats() Stats {
	return c.stats
}

// Eval runs one cycle of the controller.
func (c *Comp) Eval(ctx rtl.Ctx) {
	if ctx.Reset {
		c.cursor.Set(0)
		c.armed = false
		c.Arm.Idle()
		c.LenUpdate.Idle()
		c.Done.Idle()
		c.Result.SetReady(false)
		c.busy.Set(false)

		return
	}

	if c.Arm.Fire() {
		c.Arm.Idle()
	}

	if c.LenUpdate.Fire() {
		c.LenUpdate.Idle()
	}

	if c.Done.Fire() {
		c.Done.Idle()
	}

	resetting := c.control.SoftReset()

	switch {
	case c.Result.Fire() && resetting:
		c.dropResult()
	case c.Result.Fire():
		c.writeBack(ctx, c.Result.Peek())
	}

	switch {
	case resetting:
		c.softReset()
	case c.armed:
		c.followLength()
	default:
		c.tryArm()
	}

	c.Result.SetReady(true)
	c.busy.Set(c.armed)
}

func (c *Comp) tryArm() {
	if !c.control.Enabled() {
		return
	}

	cursor := c.cursor.Next()

	slot := c.store.Slot(cursor)
	if !slot.Empty() {
		c.stats.StallCycles++
		return
	}

	c.slot = slot
	c.armed = true
	c.armedLen = slot.Length
	c.stats.Armed++
	c.Arm.Drive(descpipe.Desc{
		Addr: slot.Addr,
		Len:  slot.Length,
		Tag:  slot.Flags&ring.FlagLast != 0,
	})

	c.taskID = sim.GetIDGenerator().Generate()
	tracing.StartTask(c.taskID, "", c, "frame", fmt.Sprintf("slot[%d]", cursor), slot)
}

func (c *Comp) followLength() {
	length := c.store.Slot(c.cursor.Next()).Length
	if length == c.armedLen {
		return
	}

	if c.LenUpdate.Valid() && !c.LenUpdate.Fire() {
		return
	}

	c.armedLen = length
	c.stats.LenUpdates++
	c.LenUpdate.Drive(length)
}

// dropResult discards a result that lands in a soft reset cycle. The slot
// stays armed for software to reclaim.
func (c *Comp) dropResult() {
	if c.armed {
		tracing.EndTask(c.taskID, c)
	}

	c.armed = false
	c.stats.Dropped++
}

// writeBack posts the result into the cursor slot.
func (c *Comp) writeBack(ctx rtl.Ctx, res dmawriter.Result) {
	cursor := c.cursor.Next()
	slot := c.store.Slot(cursor)

	flags := slot.Flags &^ (ring.FlagEmpty | ring.FlagTrunc)
	if res.Truncated {
		flags |= ring.FlagTrunc
		c.stats.Truncated++
	}

	c.store.Post(cursor, res.Len, flags)

	done := Completion{
		Slot:      cursor,
		Addr:      c.slot.Addr,
		Len:       res.Len,
		Truncated: res.Truncated,
		Time:      ctx.Now,
	}
	c.Done.Drive(done)

	c.stats.Completions++

	tracing.AddTaskStep(c.taskID, c, "writeback")
	tracing.EndTask(c.taskID, c)

	if c.NumHooks() > 0 {
		c.InvokeHook(sim.HookCtx{
			Domain: c,
			Pos:    HookPosCompletion,
			Item:   done,
		})
	}

	c.cursor.Set((cursor + 1) % c.store.NumSlots())
	c.armed = false
}

func (c *Comp) softReset() {
	if c.armed {
		tracing.EndTask(c.taskID, c)
	}

	c.cursor.Set(0)
	c.armed = false
	c.stats.SoftResets++
	c.Arm.Idle()
	c.LenUpdate.Idle()
}

// Commit publishes the cursor and the busy flag.
func (c *Comp) Commit() {
	c.cursor.Commit()
	c.busy.Commit()
}
