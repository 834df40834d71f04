package regbus

import (
	"fmt"

	"github.com/artsniffer/rxdma/rtl"
	"github.com/artsniffer/rxdma/sim"
)

// A Request is a single register access.
type Request struct {
	ID    uint64
	Space SpaceID
	Addr  uint64
	Size  int
	Write bool
	Data  uint64
}

func (r Request) String() string {
	op := "read"
	if r.Write {
		op = "write"
	}

	return fmt.Sprintf("%s %s 0x%x/%d", op, r.Space, r.Addr, r.Size)
}

// A Response answers the request with the same ID. Data is only meaningful
// for reads.
type Response struct {
	ID   uint64
	Data uint64
	Err  error
}

// Comp is the bus slave. It serves one request at a time; the response is
// offered in the cycle after the request is taken.
type Comp struct {
	name   string
	Req    *rtl.Chan[Request]
	Rsp    *rtl.Chan[Response]
	spaces map[SpaceID]Space

	waiting bool
	reads   uint64
	writes  uint64
	errors  uint64
}

// NewComp creates a bus slave with its own channels.
func NewComp(name string) *Comp {
	sim.NameMustBeValid(name)

	return &Comp{
		name:   name,
		Req:    rtl.NewChan[Request](name + ".Req"),
		Rsp:    rtl.NewChan[Response](name + ".Rsp"),
		spaces: make(map[SpaceID]Space),
	}
}

// Name returns the name of the bus.
func (c *Comp) Name() string {
	return c.name
}

// Map routes a space ID to a space.
func (c *Comp) Map(id SpaceID, s Space) {
	c.spaces[id] = s
}

// Space returns the space mapped at id.
func (c *Comp) Space(id SpaceID) (Space, bool) {
	s, ok := c.spaces[id]
	return s, ok
}

// Stats returns the number of reads, writes and failed accesses.
func (c *Comp) Stats() (reads, writes, errors uint64) {
	return c.reads, c.writes, c.errors
}

// Eval serves the request taken in this cycle.
func (c *Comp) Eval(ctx rtl.Ctx) {
	if ctx.Reset {
		c.waiting = false
		c.Rsp.Idle()
		c.Req.SetReady(false)

		return
	}

	if c.Rsp.Fire() {
		c.waiting = false
		c.Rsp.Idle()
	}

	if c.Req.Fire() {
		c.Rsp.Drive(c.serve(c.Req.Peek()))
		c.waiting = true
	}

	c.Req.SetReady(!c.waiting)
}

func (c *Comp) serve(req Request) Response {
	rsp := Response{ID: req.ID}

	space, ok := c.spaces[req.Space]
	if !ok {
		rsp.Err = fmt.Errorf("%w: %s", ErrUnknownSpace, req.Space)
		c.errors++

		return rsp
	}

	var err error
	if req.Write {
		c.writes++
		err = space.Write(req.Addr, req.Size, req.Data)
	} else {
		c.reads++
		rsp.Data, err = space.Read(req.Addr, req.Size)
	}

	if err != nil {
		rsp.Err = fmt.Errorf("%s: %w", req, err)
		c.errors++
	}

	return rsp
}

// Commit does nothing, the channels are committed by the clock.
func (c *Comp) Commit() {}
