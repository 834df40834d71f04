// Package simulation runs a capture scenario on a device together with its
// recording, tracing, metrics and monitoring services.
package simulation

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/artsniffer/rxdma/analysis"
	"github.com/artsniffer/rxdma/config"
	"github.com/artsniffer/rxdma/datarecording"
	"github.com/artsniffer/rxdma/device"
	"github.com/artsniffer/rxdma/driver"
	"github.com/artsniffer/rxdma/engine"
	"github.com/artsniffer/rxdma/metrics"
	"github.com/artsniffer/rxdma/monitoring"
	"github.com/artsniffer/rxdma/sim"
	"github.com/artsniffer/rxdma/tracing"
)

// A Simulation is a device built from a scenario and the services that
// observe it.
type Simulation struct {
	id       string
	scenario config.Scenario
	log      logrus.FieldLogger
	engine   sim.Engine
	device   *device.Device

	dataRecorder datarecording.DataRecorder
	recorder     *device.Recorder
	perf         *analysis.PerfAnalyzer
	visTracer    *tracing.DBTracer
	latency      *tracing.LatencyTracer
	metrics      *metrics.Collector
	monitor      *monitoring.Monitor
	monitorURL   string

	pcapFile *os.File
	pcap     *driver.PcapSink

	components    []sim.Named
	compNameIndex map[string]int
}

// A Result summarizes a finished run.
type Result struct {
	driver.Stats

	Frames      int
	Cycles      uint64
	SimTime     sim.VTimeInSec
	MeanLatency sim.VTimeInSec
	MaxLatency  sim.VTimeInSec
	PcapRecords int
}

// ID returns the unique ID of the simulation.
func (s *Simulation) ID() string {
	return s.id
}

// GetEngine returns the engine used in the simulation.
func (s *Simulation) GetEngine() sim.Engine {
	return s.engine
}

// GetDevice returns the simulated device.
func (s *Simulation) GetDevice() *device.Device {
	return s.device
}

// GetDataRecorder returns the data recorder, or nil if nothing is recorded.
func (s *Simulation) GetDataRecorder() datarecording.DataRecorder {
	return s.dataRecorder
}

// GetMonitor returns the monitor, or nil if monitoring is off.
func (s *Simulation) GetMonitor() *monitoring.Monitor {
	return s.monitor
}

// MonitorURL returns where the monitor listens.
func (s *Simulation) MonitorURL() string {
	return s.monitorURL
}

// GetMetrics returns the metrics collector.
func (s *Simulation) GetMetrics() *metrics.Collector {
	return s.metrics
}

// RegisterComponent registers a component with the simulation.
func (s *Simulation) RegisterComponent(c sim.Named) {
	name := c.Name()
	if _, found := s.compNameIndex[name]; found {
		panic("component " + name + " already registered")
	}

	s.components = append(s.components, c)
	s.compNameIndex[name] = len(s.components) - 1
}

// Components returns all registered components.
func (s *Simulation) Components() []sim.Named {
	return s.components
}

// GetComponentByName returns the component with the given name, or nil.
func (s *Simulation) GetComponentByName(name string) sim.Named {
	i, found := s.compNameIndex[name]
	if !found {
		return nil
	}

	return s.components[i]
}

// Run sends the traffic of the scenario and runs the device until every
// non-empty frame has been delivered.
func (s *Simulation) Run() (Result, error) {
	frames := 0
	want := uint64(0)

	for _, t := range s.scenario.Traffic {
		batch, err := t.Plan().Frames()
		if err != nil {
			return Result{}, fmt.Errorf("port %d: %w", t.Port, err)
		}

		s.device.Send(t.Port, batch...)

		for _, f := range batch {
			frames++
			if len(f) > 0 {
				want++
			}
		}
	}

	if s.monitor != nil {
		bar := s.monitor.CreateProgressBar(s.device.Name(), want)
		defer s.monitor.CompleteProgressBar(bar)

		s.device.Engine.AcceptHook(progressHook{bar: bar})
	}

	s.log.WithFields(logrus.Fields{
		"frames":  frames,
		"packets": want,
	}).Info("starting run")

	err := s.device.Run(want, s.scenario.Run.MaxCycles)

	stats := s.device.Driver.Stats()
	s.metrics.ObserveDriver(stats)

	res := Result{
		Stats:       stats,
		Frames:      frames,
		Cycles:      s.device.Clock.Cycle(),
		SimTime:     s.device.Clock.CurrentTime(),
		MeanLatency: s.latency.AverageTime(),
		MaxLatency:  s.latency.MaxTime(),
	}

	if s.pcap != nil {
		res.PcapRecords = s.pcap.Written()
	}

	return res, err
}

// Terminate flushes the recorder and closes the output files.
func (s *Simulation) Terminate() {
	if s.visTracer != nil {
		s.visTracer.Terminate()
	}

	if s.perf != nil {
		s.perf.Summarize()
	}

	if s.dataRecorder != nil {
		s.dataRecorder.Flush()
	}

	if err := s.metrics.Flush(); err != nil {
		s.log.WithError(err).Warn("cannot export metrics")
	}

	if s.pcapFile != nil {
		if err := s.pcapFile.Close(); err != nil {
			s.log.WithError(err).Error("cannot close pcap file")
		}

		s.pcapFile = nil
	}

	s.engine.Finished()
}

type progressHook struct {
	bar *monitoring.ProgressBar
}

func (h progressHook) Func(ctx sim.HookCtx) {
	if ctx.Pos == engine.HookPosCompletion {
		h.bar.IncrementFinished(1)
	}
}
