package tracing

import (
	"sync"

	"github.com/artsniffer/rxdma/sim"
)

// BusyTimeTracer measures the time during which at least one task of interest
// is in flight. Overlapping tasks are counted once.
type BusyTimeTracer struct {
	timeTeller sim.TimeTeller
	filter     TaskFilter

	lock      sync.Mutex
	inflight  map[string]bool
	busySince sim.VTimeInSec
	busyTime  sim.VTimeInSec
}

// NewBusyTimeTracer creates a new BusyTimeTracer
func NewBusyTimeTracer(
	timeTeller sim.TimeTeller,
	filter TaskFilter,
) *BusyTimeTracer {
	return &BusyTimeTracer{
		timeTeller: timeTeller,
		filter:     filter,
		inflight:   make(map[string]bool),
	}
}

// BusyTime returns the busy time accumulated by tasks that have ended.
func (t *BusyTimeTracer) BusyTime() sim.VTimeInSec {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.busyTime
}

// TerminateAllTasks ends every task in flight at now.
func (t *BusyTimeTracer) TerminateAllTasks(now sim.VTimeInSec) {
	t.lock.Lock()
	defer t.lock.Unlock()

	if len(t.inflight) == 0 {
		return
	}

	t.busyTime += now - t.busySince
	t.inflight = make(map[string]bool)
}

// StartTask records the task start time
func (t *BusyTimeTracer) StartTask(task Task) {
	if t.filter != nil && !t.filter(task) {
		return
	}

	now := t.timeTeller.CurrentTime()

	t.lock.Lock()
	defer t.lock.Unlock()

	if len(t.inflight) == 0 {
		t.busySince = now
	}

	t.inflight[task.ID] = true
}

// StepTask does nothing
func (t *BusyTimeTracer) StepTask(_ Task) {}

// EndTask records the end of the task
func (t *BusyTimeTracer) EndTask(task Task) {
	t.lock.Lock()
	defer t.lock.Unlock()

	if !t.inflight[task.ID] {
		return
	}

	delete(t.inflight, task.ID)

	if len(t.inflight) == 0 {
		t.busyTime += t.timeTeller.CurrentTime() - t.busySince
	}
}
