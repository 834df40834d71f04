package tracing

import (
	"sync"

	"github.com/tebeka/atexit"

	"github.com/artsniffer/rxdma/datarecording"
	"github.com/artsniffer/rxdma/sim"
)

// TaskTable is the table that DBTracers write tasks into.
const TaskTable = "trace"

type taskTableEntry struct {
	ID        string
	ParentID  string
	Kind      string
	What      string
	Location  string
	StartTime float64
	EndTime   float64
	Steps     int
}

// DBTracer is a tracer that can store tasks into a database.
type DBTracer struct {
	timeTeller sim.TimeTeller
	backend    datarecording.DataRecorder

	lock               sync.Mutex
	startTime, endTime sim.VTimeInSec
	tracingTasks       map[string]Task
	written            int
}

// NewDBTracer creates a new DBTracer.
func NewDBTracer(
	timeTeller sim.TimeTeller,
	dataRecorder datarecording.DataRecorder,
) *DBTracer {
	dataRecorder.CreateTable(TaskTable, taskTableEntry{})

	t := &DBTracer{
		timeTeller:   timeTeller,
		backend:      dataRecorder,
		tracingTasks: make(map[string]Task),
	}

	atexit.Register(t.Terminate)

	return t
}

// SetTimeRange limits tracing to tasks that overlap the given window. A zero
// bound is open.
func (t *DBTracer) SetTimeRange(startTime, endTime sim.VTimeInSec) {
	t.lock.Lock()
	defer t.lock.Unlock()

	t.startTime = startTime
	t.endTime = endTime
}

// Written returns the number of tasks handed to the backend.
func (t *DBTracer) Written() int {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.written
}

// StartTask marks the start of a task.
func (t *DBTracer) StartTask(task Task) {
	task.StartTime = t.timeTeller.CurrentTime()

	t.lock.Lock()
	defer t.lock.Unlock()

	if t.endTime > 0 && task.StartTime > t.endTime {
		return
	}

	t.tracingTasks[task.ID] = task
}

// StepTask adds a step to a task.
func (t *DBTracer) StepTask(task Task) {
	t.lock.Lock()
	defer t.lock.Unlock()

	original, ok := t.tracingTasks[task.ID]
	if !ok {
		return
	}

	for _, s := range task.Steps {
		s.Time = t.timeTeller.CurrentTime()
		original.Steps = append(original.Steps, s)
	}

	t.tracingTasks[task.ID] = original
}

// EndTask marks the end of a task and writes it.
func (t *DBTracer) EndTask(task Task) {
	now := t.timeTeller.CurrentTime()

	t.lock.Lock()
	defer t.lock.Unlock()

	original, ok := t.tracingTasks[task.ID]
	if !ok {
		return
	}

	delete(t.tracingTasks, task.ID)

	if t.startTime > 0 && now < t.startTime {
		return
	}

	original.EndTime = now
	t.write(original)
}

func (t *DBTracer) write(task Task) {
	t.backend.InsertData(TaskTable, taskTableEntry{
		ID:        task.ID,
		ParentID:  task.ParentID,
		Kind:      task.Kind,
		What:      task.What,
		Location:  task.Location,
		StartTime: float64(task.StartTime),
		EndTime:   float64(task.EndTime),
		Steps:     len(task.Steps),
	})
	t.written++
}

// Terminate drops unfinished tasks and flushes the backend.
func (t *DBTracer) Terminate() {
	t.lock.Lock()
	defer t.lock.Unlock()

	t.tracingTasks = make(map[string]Task)
	t.backend.Flush()
}
