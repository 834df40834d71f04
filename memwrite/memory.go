package memwrite

import (
	"log"

	"github.com/artsniffer/rxdma/rtl"
	"github.com/artsniffer/rxdma/sim"
	"github.com/artsniffer/rxdma/stream"
)

type openBurst struct {
	cmd     Cmd
	written int
}

// Memory is the host memory as seen by a DMA master. It accepts write
// commands on AW, takes the burst payload on W and acknowledges every burst
// on B once its last beat is stored.
type Memory struct {
	name    string
	AW      *rtl.Chan[Cmd]
	W       *rtl.Chan[stream.Beat]
	B       *rtl.Chan[Ack]
	storage *Storage

	cmds   sim.Buffer
	acks   sim.Buffer
	awWait *rtl.Pattern
	wWait  *rtl.Pattern
	bWait  *rtl.Pattern

	bytesWritten uint64
	bursts       uint64
}

// Name returns the name of the memory.
func (m *Memory) Name() string {
	return m.name
}

// Storage returns the backing storage.
func (m *Memory) Storage() *Storage {
	return m.storage
}

// SetAWPause sets the pattern that deasserts AW ready.
func (m *Memory) SetAWPause(p *rtl.Pattern) {
	m.awWait = p
}

// SetWPause sets the pattern that deasserts W ready.
func (m *Memory) SetWPause(p *rtl.Pattern) {
	m.wWait = p
}

// SetBPause sets the pattern that holds back acknowledgements.
func (m *Memory) SetBPause(p *rtl.Pattern) {
	m.bWait = p
}

// Stats returns the number of bytes and bursts written so far.
func (m *Memory) Stats() (bytes, bursts uint64) {
	return m.bytesWritten, m.bursts
}

// Read returns the content of host memory. It is the software view and is
// not clocked.
func (m *Memory) Read(addr uint64, length int) ([]byte, error) {
	return m.storage.Read(addr, uint64(length))
}

// Eval stores the beat taken in this cycle and updates all three channels.
func (m *Memory) Eval(ctx rtl.Ctx) {
	if ctx.Reset {
		m.cmds.Clear()
		m.acks.Clear()
		m.B.Idle()
		m.AW.SetReady(false)
		m.W.SetReady(false)

		return
	}

	if m.B.Fire() {
		m.acks.Pop()
	}

	if m.AW.Fire() {
		m.cmds.Push(&openBurst{cmd: m.AW.Peek()})
	}

	if m.W.Fire() {
		m.store(m.W.Peek())
	}

	m.driveAck()

	m.AW.SetReady(m.cmds.CanPush() && !m.awWait.Next())
	m.W.SetReady(m.cmds.Size() > 0 && m.acks.CanPush() && !m.wWait.Next())
}

func (m *Memory) store(beat stream.Beat) {
	head, ok := m.cmds.Peek().(*openBurst)
	if !ok {
		log.Panicf("%s: write data without a write command", m.name)
	}

	addr := head.cmd.Addr + uint64(head.written)
	if err := m.storage.Write(addr, beat.Data); err != nil {
		log.Panicf("%s: burst %d: %v", m.name, head.cmd.ID, err)
	}

	head.written += len(beat.Data)
	m.bytesWritten += uint64(len(beat.Data))

	if head.written > head.cmd.Len {
		log.Panicf("%s: burst %d carries %d bytes, expected %d",
			m.name, head.cmd.ID, head.written, head.cmd.Len)
	}

	if !beat.Last {
		return
	}

	if head.written != head.cmd.Len {
		log.Panicf("%s: burst %d ended after %d bytes, expected %d",
			m.name, head.cmd.ID, head.written, head.cmd.Len)
	}

	m.cmds.Pop()
	m.acks.Push(Ack{ID: head.cmd.ID})
	m.bursts++
}

func (m *Memory) driveAck() {
	paused := m.bWait.Next()

	if m.B.Valid() && !m.B.Fire() {
		return
	}

	if m.acks.Size() > 0 && !paused {
		m.B.Drive(m.acks.Peek().(Ack))
	} else {
		m.B.Idle()
	}
}

// Commit does nothing, the channels are committed by the clock.
func (m *Memory) Commit() {}
