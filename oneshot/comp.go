// Package oneshot implements the single-descriptor variant of the receive
// DMA. Writing the LENGTH register arms one write descriptor at ADDR.
package oneshot

import (
	"fmt"

	"github.com/artsniffer/rxdma/descpipe"
	"github.com/artsniffer/rxdma/dmawriter"
	"github.com/artsniffer/rxdma/regbus"
	"github.com/artsniffer/rxdma/rtl"
	"github.com/artsniffer/rxdma/sim"
)

// Register offsets of the one-shot control space.
const (
	RegAddr   = 0x0
	RegLength = 0x4
	RegCtrl   = 0x8
	RegStatus = 0xC

	spaceSize = 0x10
)

// LengthMask is the width of the LENGTH field.
const LengthMask = 0xFFF

// CTRL and STATUS bits, shared with the ring variant.
const (
	CtrlEnable    uint32 = 1 << 0
	CtrlIRQEnable uint32 = 1 << 1
	CtrlReset     uint32 = 1 << 2

	StatusBusy       uint32 = 1 << 0
	StatusIRQPending uint32 = 1 << 1
)

type state struct {
	addr       uint32
	length     uint32
	ctrl       uint32
	armed      bool
	busy       bool
	pending    uint32
	hasPending bool
	irq        bool
	lastLen    uint32
	resetPulse bool
}

type regWrite struct {
	addr uint64
	data uint32
}

// Comp is the one-shot controller.
type Comp struct {
	*sim.ComponentBase

	Desc   *rtl.Chan[descpipe.Desc]
	Result *rtl.Chan[dmawriter.Result]

	cur, next state
	setIRQ    bool
	writes    []regWrite
	transfers uint64
}

// Enabled tells if the writer may take a descriptor and its frame. Arming
// does not depend on it.
func (c *Comp) Enabled() bool {
	return c.cur.ctrl&CtrlEnable != 0
}

// SoftReset is high during the cycle after a CTRL write with the reset bit.
func (c *Comp) SoftReset() bool {
	return c.cur.resetPulse
}

// IRQ returns the interrupt line.
func (c *Comp) IRQ() bool {
	return c.cur.irq
}

// Busy tells if a descriptor is armed or a transfer is in progress.
func (c *Comp) Busy() bool {
	return c.cur.armed || c.cur.busy
}

// LastLength returns the length reported by the last completed transfer.
func (c *Comp) LastLength() uint32 {
	return c.cur.lastLen
}

// Transfers returns the number of completed transfers.
func (c *Comp) Transfers() uint64 {
	return c.transfers
}

// ConnectWriter takes completion status from w.
func (c *Comp) ConnectWriter(w *dmawriter.Comp) {
	c.Result = w.Result
}

// Eval hands out the armed descriptor and takes completion status.
func (c *Comp) Eval(ctx rtl.Ctx) {
	c.next = c.cur
	c.next.resetPulse = false
	c.setIRQ = false

	if ctx.Reset {
		c.next = state{}
		c.Desc.Idle()
		c.Result.SetReady(false)

		return
	}

	c.Result.SetReady(true)

	if c.cur.resetPulse {
		c.next.armed = false
		c.next.busy = false
		c.next.hasPending = false
		c.next.irq = false
		c.Desc.Idle()

		return
	}

	if c.Desc.Fire() {
		c.next.armed = false
		c.next.busy = true
		c.Desc.Idle()
	}

	if c.Result.Fire() {
		c.complete(c.Result.Peek())
	}

	if c.Desc.Valid() && !c.Desc.Fire() {
		return
	}

	if c.next.armed {
		c.Desc.Drive(descpipe.Desc{
			Addr: uint64(c.next.addr),
			Len:  c.next.length,
			Tag:  true,
		})
	}
}

func (c *Comp) complete(res dmawriter.Result) {
	c.next.busy = false
	c.next.lastLen = res.Len
	c.transfers++

	if c.cur.ctrl&CtrlIRQEnable != 0 {
		c.next.irq = true
		c.setIRQ = true
	}

	if c.next.hasPending {
		c.next.length = c.next.pending
		c.next.hasPending = false
		c.next.armed = true
	}
}

// Read returns the register that holds addr.
func (c *Comp) Read(addr uint64, size int) (uint64, error) {
	addr, err := c.checkRead(addr, size)
	if err != nil {
		return 0, err
	}

	switch addr {
	case RegAddr:
		return uint64(c.cur.addr), nil
	case RegLength:
		return uint64(c.cur.length & LengthMask), nil
	case RegCtrl:
		return uint64(c.cur.ctrl), nil
	default:
		var v uint32
		if c.Busy() {
			v |= StatusBusy
		}

		if c.cur.irq {
			v |= StatusIRQPending
		}

		return uint64(v), nil
	}
}

// Write stages a register write.
func (c *Comp) Write(addr uint64, size int, data uint64) error {
	if err := c.checkAccess(addr, size); err != nil {
		return err
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
	c.cur = c.next
}

func (c *Comp) applyWrite(w regWrite) {
	switch w.addr {
	case RegAddr:
		c.next.addr = w.data
	case RegLength:
		length := w.data & LengthMask
		if c.next.armed || c.next.busy {
			c.next.pending = length
			c.next.hasPending = true

			return
		}

		c.next.length = length
		c.next.armed = true
	case RegCtrl:
		c.next.ctrl = w.data
		if w.data&CtrlReset != 0 {
			c.next.resetPulse = true
		}
	case RegStatus:
		if w.data&StatusIRQPending != 0 && !c.setIRQ {
			c.next.irq = false
		}
	}
}
