package tracing

import (
	"sync"

	"github.com/artsniffer/rxdma/sim"
)

// LatencyTracer measures how long tasks of interest take from start to end.
type LatencyTracer struct {
	timeTeller sim.TimeTeller
	filter     TaskFilter

	lock     sync.Mutex
	inflight map[string]sim.VTimeInSec
	count    uint64
	total    sim.VTimeInSec
	max      sim.VTimeInSec
}

// NewLatencyTracer creates a new LatencyTracer. A nil filter keeps every
// task.
func NewLatencyTracer(
	timeTeller sim.TimeTeller,
	filter TaskFilter,
) *LatencyTracer {
	return &LatencyTracer{
		timeTeller: timeTeller,
		filter:     filter,
		inflight:   make(map[string]sim.VTimeInSec),
	}
}

// Count returns the number of completed tasks.
func (t *LatencyTracer) Count() uint64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.count
}

// AverageTime returns the mean latency of the completed tasks.
func (t *LatencyTracer) AverageTime() sim.VTimeInSec {
	t.lock.Lock()
	defer t.lock.Unlock()

	if t.count == 0 {
		return 0
	}

	return t.total / sim.VTimeInSec(t.count)
}

// MaxTime returns the longest latency seen.
func (t *LatencyTracer) MaxTime() sim.VTimeInSec {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.max
}

// InFlight returns the number of tasks started but not ended.
func (t *LatencyTracer) InFlight() int {
	t.lock.Lock()
	defer t.lock.Unlock()

	return len(t.inflight)
}

// StartTask records the task start time
func (t *LatencyTracer) StartTask(task Task) {
	if t.filter != nil && !t.filter(task) {
		return
	}

	now := t.timeTeller.CurrentTime()

	t.lock.Lock()
	t.inflight[task.ID] = now
	t.lock.Unlock()
}

// StepTask does nothing
func (t *LatencyTracer) StepTask(_ Task) {}

// EndTask records the end of the task
func (t *LatencyTracer) EndTask(task Task) {
	t.lock.Lock()
	defer t.lock.Unlock()

	start, ok := t.inflight[task.ID]
	if !ok {
		return
	}

	delete(t.inflight, task.ID)

	d := t.timeTeller.CurrentTime() - start
	t.count++
	t.total += d

	if d > t.max {
		t.max = d
	}
}
