package regbus

import (
	"github.com/artsniffer/rxdma/rtl"
	"github.com/artsniffer/rxdma/sim"
)

// A Txn tracks a submitted request. Done turns true at the end of the cycle
// in which the response arrives.
type Txn struct {
	Req  Request
	Rsp  Response
	Done bool
}

// Master issues requests on a bus in submission order.
type Master struct {
	name  string
	clock *rtl.Clock
	Req   *rtl.Chan[Request]
	Rsp   *rtl.Chan[Response]

	MaxCycles uint64

	queue       []*Txn
	outstanding []*Txn
	finished    []*Txn
	nextID      uint64
}

// NewMaster creates a master that talks to bus. The clock is stepped by the
// blocking helpers.
func NewMaster(name string, clock *rtl.Clock, bus *Comp) *Master {
	sim.NameMustBeValid(name)

	return &Master{
		name:      name,
		clock:     clock,
		Req:       bus.Req,
		Rsp:       bus.Rsp,
		MaxCycles: 1000,
	}
}

// Name returns the name of the master.
func (m *Master) Name() string {
	return m.name
}

// Submit queues a request and returns its transaction.
func (m *Master) Submit(req Request) *Txn {
	req.ID = m.nextID
	m.nextID++

	txn := &Txn{Req: req}
	m.queue = append(m.queue, txn)

	return txn
}

// Idle tells if nothing is queued or outstanding.
func (m *Master) Idle() bool {
	return len(m.queue) == 0 && len(m.outstanding) == 0
}

// Eval drives the head request and collects the response.
func (m *Master) Eval(ctx rtl.Ctx) {
	if ctx.Reset {
		m.Req.Idle()
		m.Rsp.SetReady(false)

		return
	}

	if m.Req.Fire() {
		m.outstanding = append(m.outstanding, m.queue[0])
		m.queue = m.queue[1:]
	}

	if m.Rsp.Fire() {
		txn := m.outstanding[0]
		m.outstanding = m.outstanding[1:]
		txn.Rsp = m.Rsp.Peek()
		m.finished = append(m.finished, txn)
	}

	m.Rsp.SetReady(true)

	if m.Req.Valid() && !m.Req.Fire() {
		return
	}

	if len(m.queue) > 0 {
		m.Req.Drive(m.queue[0].Req)
	} else {
		m.Req.Idle()
	}
}

// Commit marks the transactions answered in this cycle as done.
func (m *Master) Commit() {
	for _, txn := range m.finished {
		txn.Done = true
	}

	m.finished = m.finished[:0]
}

// Wait steps the clock until txn is done and returns its response error.
func (m *Master) Wait(txn *Txn) error {
	err := m.clock.RunUntil(func() bool { return txn.Done }, m.MaxCycles)
	if err != nil {
		return err
	}

	return txn.Rsp.Err
}

func (m *Master) read(space SpaceID, addr uint64, size int) (uint64, error) {
	txn := m.Submit(Request{Space: space, Addr: addr, Size: size})
	if err := m.Wait(txn); err != nil {
		return 0, err
	}

	return txn.Rsp.Data, nil
}

func (m *Master) write(space SpaceID, addr uint64, size int, data uint64) error {
	txn := m.Submit(Request{
		Space: space,
		Addr:  addr,
		Size:  size,
		Write: true,
		Data:  data,
	})

	return m.Wait(txn)
}

// ReadDword reads 4 bytes.
func (m *Master) ReadDword(space SpaceID, addr uint64) (uint32, error) {
	v, err := m.read(space, addr, 4)
	return uint32(v), err
}

// ReadQword reads 8 bytes.
func (m *Master) ReadQword(space SpaceID, addr uint64) (uint64, error) {
	return m.read(space, addr, 8)
}

// WriteDword writes 4 bytes.
func (m *Master) WriteDword(space SpaceID, addr uint64, data uint32) error {
	return m.write(space, addr, 4, uint64(data))
}

// WriteQword writes 8 bytes.
func (m *Master) WriteQword(space SpaceID, addr uint64, data uint64) error {
	return m.write(space, addr, 8, data)
}
