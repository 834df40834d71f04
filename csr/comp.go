// Package csr implements the control, status and interrupt block of the
// ring variant of the receive DMA.
package csr

import (
	"fmt"

	"github.com/artsniffer/rxdma/engine"
	"github.com/artsniffer/rxdma/regbus"
	"github.com/artsniffer/rxdma/rtl"
	"github.com/artsniffer/rxdma/sim"
)

// HookPosIRQ is triggered when irq_pending rises. The hook item is the
// packet count at that time.
var HookPosIRQ = &sim.HookPos{Name: "IRQ"}

type state struct {
	baseAddr    uint32
	baseAddrHi  uint32
	ctrl        uint32
	pending     bool
	irqTime     uint32
	packetCount uint32
	timer       uint32
	timerOn     bool
	resetPulse  bool
}

type regWrite struct {
	addr uint64
	data uint32
}

// Comp is the control/status block. Register writes from the bus take
// effect at the end of the cycle in which they are accepted.
type Comp struct {
	*sim.ComponentBase

	Done *rtl.Chan[engine.Completion]

	numSlots int
	ring     RingState

	cur, next state
	setNow    bool
	writes    []regWrite
}

// Enabled tells if the engine may start new frames.
func (c *Comp) Enabled() bool {
	return c.cur.ctrl&CtrlEnable != 0
}

// IRQEnabled tells if completions raise interrupts.
func (c *Comp) IRQEnabled() bool {
	return c.cur.ctrl&CtrlIRQEnable != 0
}

// SoftReset is high during the cycle after a CTRL write with the reset bit.
func (c *Comp) SoftReset() bool {
	return c.cur.resetPulse
}

// IRQ returns the interrupt line.
func (c *Comp) IRQ() bool {
	return c.cur.pending
}

// PacketCount returns the number of completions since the last soft reset.
func (c *Comp) PacketCount() uint32 {
	return c.cur.packetCount
}

// Eval consumes completions and runs the coalescing timer.
func (c *Comp) Eval(ctx rtl.Ctx) {
	c.next = c.cur
	c.next.resetPulse = false
	c.setNow = false

	if ctx.Reset {
		c.next = state{}
		c.Done.SetReady(false)

		return
	}

	c.Done.SetReady(true)

	if c.cur.resetPulse {
		c.next.packetCount = 0
		c.next.pending = false
		c.next.timer = 0
		c.next.timerOn = false

		return
	}

	if c.Done.Fire() {
		c.complete()
	}

	c.runTimer()
}

func (c *Comp) complete() {
	c.next.packetCount++

	if c.cur.ctrl&CtrlIRQEnable == 0 {
		return
	}

	switch {
	case c.cur.irqTime == 0:
		c.raise()
	case !c.next.timerOn:
		c.next.timer = c.cur.irqTime
		c.next.timerOn = true
	}
}

func (c *Comp) runTimer() {
	if !c.cur.timerOn {
		return
	}

	if c.next.timer > 0 {
		c.next.timer--
	}

	if c.next.timer == 0 {
		c.next.timerOn = false

		if c.cur.ctrl&CtrlIRQEnable != 0 {
			c.raise()
		}
	}
}

func (c *Comp) raise() {
	c.setNow = true
	c.next.pending = true
}

// Read returns the register that holds addr.
func (c *Comp) Read(addr uint64, size int) (uint64, error) {
	addr, err := c.checkRead(addr, size)
	if err != nil {
		return 0, err
	}

	switch addr {
	case RegBaseAddr:
		return uint64(c.cur.baseAddr), nil
	case RegBaseAddrHi:
		return uint64(c.cur.baseAddrHi), nil
	case RegRingSize:
		return uint64(c.numSlots * 16), nil
	case RegCtrl:
		return uint64(c.cur.ctrl), nil
	case RegStatus:
		return uint64(c.status()), nil
	case RegIRQTime:
		return uint64(c.cur.irqTime), nil
	case RegPacketCount:
		return uint64(c.cur.packetCount), nil
	default:
		if c.ring == nil {
			return 0, nil
		}

		return uint64(c.ring.Cursor()), nil
	}
}

// BaseAddr returns the 64-bit ring base formed by BASE_ADDR_HI and
// BASE_ADDR.
func (c *Comp) BaseAddr() uint64 {
	return uint64(c.cur.baseAddrHi)<<32 | uint64(c.cur.baseAddr)
}

// ConnectRing sets where busy and cursor are read from.
func (c *Comp) ConnectRing(r RingState) {
	c.ring = r
}

func (c *Comp) status() uint32 {
	var v uint32

	if c.ring != nil && c.ring.Busy() {
		v |= StatusBusy
	}

	if c.cur.pending {
		v |= StatusIRQPending
	}

	return v
}

// Write stages a register write.
func (c *Comp) Write(addr uint64, size int, data uint64) error {
	if err := c.checkAccess(addr, size); err != nil {
		return err
	}

	switch addr {
	case RegRingSize, RegPacketCount, RegCursor:
		return fmt.Errorf("%w: %s", regbus.ErrReadOnly, RegName(addr))
	}

	c.writes = append(c.writes, regWrite{addr: addr, data: uint32(data)})

	return nil
}

func (c *Comp) checkRead(addr uint64, size int) (uint64, error) {
	addr, width, err := regbus.CheckRead(addr, size, spaceSize)
	if err != nil {
		return 0, err
	}

	if width != 4 {
		return 0, fmt.Errorf("%w: control registers are 32 bits", regbus.ErrBadSize)
	}

	return addr, nil
}

func (c *Comp) checkAccess(addr uint64, size int) error {
	if err := regbus.CheckAccess(addr, size, spaceSize); err != nil {
		return err
	}

	if size != 4 {
		return fmt.Errorf("%w: control registers are 32 bits", regbus.ErrBadSize)
	}

	return nil
}

// Commit applies the bus writes on top of the next state and publishes it.
func (c *Comp) Commit() {
	for _, w := range c.writes {
		c.applyWrite(w)
	}

	c.writes = c.writes[:0]

	if c.setNow && !c.cur.pending && c.NumHooks() > 0 {
		c.InvokeHook(sim.HookCtx{
			Domain: c,
			Pos:    HookPosIRQ,
			Item:   c.next.packetCount,
		})
	}

	c.cur = c.next
}

func (c *Comp) applyWrite(w regWrite) {
	switch w.addr {
	case RegBaseAddr:
		c.next.baseAddr = w.data
	case RegBaseAddrHi:
		c.next.baseAddrHi = w.data
	case RegCtrl:
		c.next.ctrl = w.data
		if w.data&CtrlReset != 0 {
			c.next.resetPulse = true
		}
	case RegStatus:
		if w.data&StatusIRQPending != 0 && !c.setNow {
			c.next.pending = false
		}
	case RegIRQTime:
		c.next.irqTime = w.data
	}
}
