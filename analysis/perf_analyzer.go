// Package analysis summarizes how full the queues of a device are over
// time.
package analysis

import (
	"reflect"
	"unsafe"

	"github.com/artsniffer/rxdma/datarecording"
	"github.com/artsniffer/rxdma/sim"
)

// PerfAnalyzerEntry is a single entry in the performance database.
type PerfAnalyzerEntry struct {
	Start     sim.VTimeInSec
	End       sim.VTimeInSec
	Where     string
	What      string
	EntryType string
	Value     float64
	Unit      string
}

// PerfLogger is the interface that provide the service that can record
// performance data entries.
type PerfLogger interface {
	AddDataEntry(entry PerfAnalyzerEntry)
}

// PerfTable is the table that a RecordingLogger writes into.
const PerfTable = "perf"

type perfTableEntry struct {
	StartTime float64
	EndTime   float64
	Location  string
	What      string
	EntryType string
	Value     float64
	Unit      string
}

// A RecordingLogger stores performance entries with a data recorder.
type RecordingLogger struct {
	recorder datarecording.DataRecorder
	count    int
}

// NewRecordingLogger creates the perf table and returns a logger writing
// into it.
func NewRecordingLogger(r datarecording.DataRecorder) *RecordingLogger {
	r.CreateTable(PerfTable, perfTableEntry{})
	return &RecordingLogger{recorder: r}
}

// AddDataEntry buffers one entry.
func (l *RecordingLogger) AddDataEntry(e PerfAnalyzerEntry) {
	l.recorder.InsertData(PerfTable, perfTableEntry{
		StartTime: float64(e.Start),
		EndTime:   float64(e.End),
		Location:  e.Where,
		What:      e.What,
		EntryType: e.EntryType,
		Value:     e.Value,
		Unit:      e.Unit,
	})
	l.count++
}

// Count returns the number of entries added.
func (l *RecordingLogger) Count() int {
	return l.count
}

// PerfAnalyzer attaches a BufferAnalyzer to every buffer of the registered
// components.
type PerfAnalyzer struct {
	timeTeller sim.TimeTeller
	logger     PerfLogger
	period     sim.VTimeInSec

	analyzers []*BufferAnalyzer
}

// NewPerfAnalyzer creates a PerfAnalyzer. A zero period summarizes each
// buffer once over the whole run.
func NewPerfAnalyzer(
	timeTeller sim.TimeTeller,
	logger PerfLogger,
	period sim.VTimeInSec,
) *PerfAnalyzer {
	return &PerfAnalyzer{
		timeTeller: timeTeller,
		logger:     logger,
		period:     period,
	}
}

// RegisterComponent analyzes the sim.Buffer fields of c.
func (p *PerfAnalyzer) RegisterComponent(c any) {
	v := reflect.ValueOf(c)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return
	}

	v = v.Elem()
	bufferType := reflect.TypeOf((*sim.Buffer)(nil)).Elem()

	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		if field.Type() != bufferType || field.IsNil() {
			continue
		}

		buf := reflect.NewAt(
			field.Type(),
			unsafe.Pointer(field.UnsafeAddr()),
		).Elem().Interface().(sim.Buffer)

		p.AddBuffer(buf)
	}
}

// AddBuffer analyzes one buffer.
func (p *PerfAnalyzer) AddBuffer(buf sim.Buffer) {
	b := MakeBufferAnalyzerBuilder().
		WithPerfLogger(p.logger).
		WithTimeTeller(p.timeTeller).
		WithBuffer(buf)

	if p.period > 0 {
		b = b.WithPeriod(p.period)
	}

	analyzer := b.Build()
	buf.AcceptHook(analyzer)
	p.analyzers = append(p.analyzers, analyzer)
}

// NumBuffers returns the number of analyzed buffers.
func (p *PerfAnalyzer) NumBuffers() int {
	return len(p.analyzers)
}

// Summarize reports the periods that are not reported yet.
func (p *PerfAnalyzer) Summarize() {
	for _, a := range p.analyzers {
		a.Summarize()
	}
}
