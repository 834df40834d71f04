// Package device assembles a complete capture device and its driver on one
// clock.
package device

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/artsniffer/rxdma/csr"
	"github.com/artsniffer/rxdma/descpipe"
	"github.com/artsniffer/rxdma/dmawriter"
	"github.com/artsniffer/rxdma/driver"
	"github.com/artsniffer/rxdma/engine"
	"github.com/artsniffer/rxdma/framing"
	"github.com/artsniffer/rxdma/memwrite"
	"github.com/artsniffer/rxdma/regbus"
	"github.com/artsniffer/rxdma/ring"
	"github.com/artsniffer/rxdma/rtl"
	"github.com/artsniffer/rxdma/sim"
	"github.com/artsniffer/rxdma/stream"
)

// ErrNoDriver is returned by Run on a device built without a driver.
var ErrNoDriver = errors.New("device has no driver")

// Device is a capture device with its host memory and driver.
type Device struct {
	name   string
	Spec   Spec
	log    logrus.FieldLogger
	simEng sim.Engine

	Clock    *rtl.Clock
	Sources  []*stream.Source
	Framers  []*framing.Framer
	Arbiter  *stream.Arbiter
	Pipeline *descpipe.Pipeline
	Writer   *dmawriter.Comp
	Engine   *engine.Comp
	CSR      *csr.Comp
	Ring     *ring.Store
	Memory   *memwrite.Memory
	Bus      *regbus.Comp
	Master   *regbus.Master
	Driver   *driver.Driver
}

// Name returns the name of the device.
func (d *Device) Name() string {
	return d.name
}

// Send queues frames on an ingress port.
func (d *Device) Send(port int, frames ...[]byte) {
	d.Sources[port].Send(frames...)
}

// Pending returns the number of frames not yet taken by the device.
func (d *Device) Pending() int {
	n := 0
	for _, s := range d.Sources {
		n += s.Pending()
	}

	return n
}

// Components returns every named block of the device.
func (d *Device) Components() []sim.Named {
	comps := make([]sim.Named, 0, 16)

	for _, s := range d.Sources {
		comps = append(comps, s)
	}

	for _, f := range d.Framers {
		comps = append(comps, f)
	}

	comps = append(comps,
		d.Arbiter,
		d.Pipeline,
		d.Writer,
		d.Engine,
		d.CSR,
		d.Ring,
		d.Memory,
		d.Bus,
	)

	if d.Driver != nil {
		comps = append(comps, d.Driver)
	}

	return comps
}

// SimEngine returns the event engine that drives the clock.
func (d *Device) SimEngine() sim.Engine {
	return d.simEng
}

// Run lets the event engine tick the clock until the driver has delivered
// want packets. It fails if the driver stops with an error or the cycle
// budget runs out.
func (d *Device) Run(want uint64, maxCycles uint64) error {
	if d.Driver == nil {
		return ErrNoDriver
	}

	eng := d.simEng
	limit := d.Clock.Cycle() + maxCycles

	d.Clock.StopWhen(func() bool {
		return d.Driver.Delivered() >= want ||
			d.Driver.Err() != nil ||
			d.Clock.Cycle() >= limit
	})
	d.Clock.AttachEngine(eng)
	d.Clock.Kick()

	if err := eng.Run(); err != nil {
		return err
	}

	if err := d.Driver.Err(); err != nil {
		return err
	}

	if d.Driver.Delivered() < want {
		return fmt.Errorf("%w: %d of %d packets delivered in %d cycles",
			rtl.ErrTimeout, d.Driver.Delivered(), want, maxCycles)
	}

	d.log.WithFields(logrus.Fields{
		"cycles":  d.Clock.Cycle(),
		"packets": d.Driver.Delivered(),
	}).Info("run finished")

	return nil
}
