// Package driver models the capture software: it sets up the descriptor
// ring, services interrupts, drains posted slots and hands the frames to
// sinks.
package driver

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/artsniffer/rxdma/csr"
	"github.com/artsniffer/rxdma/regbus"
	"github.com/artsniffer/rxdma/ring"
	"github.com/artsniffer/rxdma/rtl"
	"github.com/artsniffer/rxdma/sim"
)

// Config describes how the driver lays out and services the ring.
type Config struct {
	NumSlots     int
	BufBase      uint64
	BufStride    uint64
	Capacity     uint32
	LastSlot     int
	UseIRQ       bool
	IRQTime      uint32
	Rearm        bool
	Framed       bool
	PollInterval int
}

// Stats counts what the driver has done.
type Stats struct {
	Packets   uint64
	Bytes     uint64
	Truncated uint64
	IRQs      uint64
	Polls     uint64
	Rearms    uint64
}

type state int

const (
	stateInit state = iota
	stateIdle
	stateStatus
	stateSlot
	stateAddr
	stateFailed
)

// Driver is a clocked software model. Every step issues bus transactions
// and waits for all of them before moving on.
type Driver struct {
	name   string
	cfg    Config
	master *regbus.Master
	mem    HostMemory
	irq    IRQLine
	sinks  []Sink
	log    logrus.FieldLogger

	state    state
	waitFor  []*regbus.Txn
	cursor   int
	consumed []bool
	slotLen  uint32
	slotFlag uint32
	pollWait int
	restart  bool
	up       bool
	now      sim.VTimeInSec

	stats Stats
	err   error
}

// Name returns the name of the driver.
func (d *Driver) Name() string {
	return d.name
}

// Stats returns the counters of the driver.
func (d *Driver) Stats() Stats {
	return d.stats
}

// Err returns the error that stopped the driver.
func (d *Driver) Err() error {
	return d.err
}

// Ready tells if the ring is set up and the device is enabled.
func (d *Driver) Ready() bool {
	return d.up && d.state != stateFailed
}

// Restart makes the driver reset the device and populate the ring again once
// its outstanding transactions are answered.
func (d *Driver) Restart() {
	d.restart = true
}

// Delivered returns the number of packets handed to the sinks.
func (d *Driver) Delivered() uint64 {
	return d.stats.Packets
}

// Eval advances the driver once all of its outstanding transactions are
// answered.
func (d *Driver) Eval(ctx rtl.Ctx) {
	d.now = ctx.Now

	if ctx.Reset || d.state == stateFailed {
		return
	}

	if !d.answered() {
		return
	}

	if err := d.collectErrors(); err != nil {
		d.fail(err)
		return
	}

	if d.restart {
		d.restart = false
		d.up = false
		d.state = stateInit
		d.log.Info("restarting ring")
	}

	if d.state != stateInit {
		d.up = true
	}

	switch d.state {
	case stateInit:
		d.setUp()
	case stateIdle:
		d.idle()
	case stateStatus:
		d.acknowledge()
	case stateSlot:
		d.inspectSlot()
	case stateAddr:
		d.drainSlot()
	}
}

func (d *Driver) answered() bool {
	for _, txn := range d.waitFor {
		if !txn.Done {
			return false
		}
	}

	return true
}

func (d *Driver) collectErrors() error {
	for _, txn := range d.waitFor {
		if txn.Rsp.Err != nil {
			return txn.Rsp.Err
		}
	}

	return nil
}

func (d *Driver) last() *regbus.Txn {
	return d.waitFor[len(d.waitFor)-1]
}

func (d *Driver) fail(err error) {
	d.err = err
	d.state = stateFailed
	d.log.WithError(err).Error("driver stopped")
}

func (d *Driver) issue(req regbus.Request) {
	d.waitFor = append(d.waitFor, d.master.Submit(req))
}

func (d *Driver) writeCtrl(addr uint64, v uint32) {
	d.issue(regbus.Request{
		Space: regbus.SpaceControl,
		Addr:  addr,
		Size:  4,
		Write: true,
		Data:  uint64(v),
	})
}

func (d *Driver) slotFlags(i int) uint32 {
	flags := ring.FlagEmpty
	if i == d.cfg.LastSlot {
		flags |= ring.FlagLast
	}

	return flags
}

func (d *Driver) armSlot(i int) {
	d.issue(regbus.Request{
		Space: regbus.SpaceDescriptor,
		Addr:  uint64(i*ring.DescriptorSize + ring.OffsetLength),
		Size:  8,
		Write: true,
		Data:  uint64(d.cfg.Capacity) | uint64(d.slotFlags(i))<<32,
	})
	d.consumed[i] = false
}

func (d *Driver) setUp() {
	d.waitFor = d.waitFor[:0]

	d.writeCtrl(csr.RegCtrl, csr.CtrlReset)

	for i := 0; i < d.cfg.NumSlots; i++ {
		d.issue(regbus.Request{
			Space: regbus.SpaceDescriptor,
			Addr:  uint64(i*ring.DescriptorSize + ring.OffsetAddr),
			Size:  8,
			Write: true,
			Data:  d.cfg.BufBase + uint64(i)*d.cfg.BufStride,
		})
		d.armSlot(i)
	}

	ctrl := csr.CtrlEnable
	if d.cfg.UseIRQ {
		ctrl |= csr.CtrlIRQEnable
	}

	d.writeCtrl(csr.RegBaseAddr, uint32(d.cfg.BufBase))
	d.writeCtrl(csr.RegBaseAddrHi, uint32(d.cfg.BufBase>>32))
	d.writeCtrl(csr.RegIRQTime, d.cfg.IRQTime)
	d.writeCtrl(csr.RegCtrl, ctrl)

	d.cursor = 0
	d.state = stateIdle

	d.log.WithFields(logrus.Fields{
		"slots":    d.cfg.NumSlots,
		"capacity": d.cfg.Capacity,
		"irq":      d.cfg.UseIRQ,
	}).Info("ring populated")
}

func (d *Driver) idle() {
	d.waitFor = d.waitFor[:0]

	if d.cfg.UseIRQ {
		if !d.irq.IRQ() {
			return
		}

		d.issue(regbus.Request{
			Space: regbus.SpaceControl,
			Addr:  csr.RegStatus,
			Size:  4,
		})
		d.state = stateStatus

		return
	}

	if d.pollWait > 0 {
		d.pollWait--
		return
	}

	d.stats.Polls++
	d.readSlot()
}

func (d *Driver) acknowledge() {
	status := uint32(d.last().Rsp.Data)
	d.waitFor = d.waitFor[:0]

	d.writeCtrl(csr.RegStatus, status)
	d.stats.IRQs++
	d.readSlot()
}

func (d *Driver) readSlot() {
	if d.consumed[d.cursor] {
		d.backToIdle()
		return
	}

	d.issue(regbus.Request{
		Space: regbus.SpaceDescriptor,
		Addr:  uint64(d.cursor*ring.DescriptorSize + ring.OffsetLength),
		Size:  8,
	})
	d.state = stateSlot
}

func (d *Driver) backToIdle() {
	d.state = stateIdle
	d.pollWait = d.cfg.PollInterval
}

func (d *Driver) inspectSlot() {
	v := d.last().Rsp.Data
	d.waitFor = d.waitFor[:0]

	d.slotLen = uint32(v)
	d.slotFlag = uint32(v >> 32)

	if d.slotFlag&ring.FlagEmpty != 0 {
		d.backToIdle()
		return
	}

	d.issue(regbus.Request{
		Space: regbus.SpaceDescriptor,
		Addr:  uint64(d.cursor*ring.DescriptorSize + ring.OffsetAddr),
		Size:  8,
	})
	d.state = stateAddr
}

func (d *Driver) drainSlot() {
	addr := d.last().Rsp.Data
	d.waitFor = d.waitFor[:0]

	buf, err := d.mem.Read(addr, int(d.slotLen))
	if err != nil {
		d.fail(fmt.Errorf("slot %d: %w", d.cursor, err))
		return
	}

	p, err := makePacket(d.cursor, addr, d.slotFlag, buf, d.cfg.Framed, d.now)
	if err != nil {
		d.fail(fmt.Errorf("slot %d: %w", d.cursor, err))
		return
	}

	if err := d.deliver(p); err != nil {
		d.fail(err)
		return
	}

	d.consumed[d.cursor] = true

	if d.cfg.Rearm {
		d.armSlot(d.cursor)
		d.stats.Rearms++
	}

	d.cursor = (d.cursor + 1) % d.cfg.NumSlots
	d.readSlot()
}

func (d *Driver) deliver(p Packet) error {
	d.stats.Packets++
	d.stats.Bytes += uint64(len(p.Data))

	entry := d.log.WithFields(logrus.Fields{
		"slot": p.Slot,
		"len":  len(p.Data),
	})

	if p.Truncated {
		d.stats.Truncated++
		entry.Warn("truncated frame")
	} else {
		entry.Debug("frame")
	}

	for _, s := range d.sinks {
		if err := s.Deliver(p); err != nil {
			return fmt.Errorf("slot %d: %w", p.Slot, err)
		}
	}

	return nil
}

// Commit does nothing, the driver only talks through the bus master.
func (d *Driver) Commit() {}
