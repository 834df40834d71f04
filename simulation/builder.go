package simulation

import (
	"os"

	"github.com/rs/xid"
	"github.com/sirupsen/logrus"

	"github.com/artsniffer/rxdma/analysis"
	"github.com/artsniffer/rxdma/config"
	"github.com/artsniffer/rxdma/datarecording"
	"github.com/artsniffer/rxdma/device"
	"github.com/artsniffer/rxdma/driver"
	"github.com/artsniffer/rxdma/metrics"
	"github.com/artsniffer/rxdma/monitoring"
	"github.com/artsniffer/rxdma/sim"
	"github.com/artsniffer/rxdma/tracing"
	"github.com/artsniffer/rxdma/util"
)

// Builder can be used to build a simulation.
type Builder struct {
	scenario    config.Scenario
	log         logrus.FieldLogger
	monitorOn   bool
	monitorPort int
	openBrowser bool
}

// MakeBuilder creates a new builder for the default scenario.
func MakeBuilder() Builder {
	return Builder{
		scenario: config.Scenario{}.Defaults(),
	}
}

// WithScenario sets the scenario to run. Its run section decides whether
// the monitor is started.
func (b Builder) WithScenario(s config.Scenario) Builder {
	b.scenario = s.Defaults()
	b.monitorOn = s.Run.Monitor
	b.monitorPort = s.Run.MonitorPort
	b.openBrowser = s.Run.OpenBrowser

	return b
}

// WithLogger sets the logger.
func (b Builder) WithLogger(l logrus.FieldLogger) Builder {
	b.log = l
	return b
}

// WithoutMonitoring sets the simulation to not use monitoring.
func (b Builder) WithoutMonitoring() Builder {
	b.monitorOn = false
	b.monitorPort = 0

	return b
}

// WithMonitorPort turns on monitoring at the given port.
func (b Builder) WithMonitorPort(port int) Builder {
	b.monitorOn = true
	b.monitorPort = port

	return b
}

// WithOutputFileName sets the file name, without extension, of the data
// recorder.
func (b Builder) WithOutputFileName(filename string) Builder {
	b.scenario.Output.Recording = filename
	return b
}

// Build builds the simulation.
func (b Builder) Build() (*Simulation, error) {
	if err := b.scenario.Validate(); err != nil {
		return nil, err
	}

	s := &Simulation{
		id:            xid.New().String(),
		scenario:      b.scenario,
		compNameIndex: make(map[string]int),
		engine:        sim.NewSerialEngine(),
		log:           b.log,
	}

	if s.log == nil {
		s.log = logrus.StandardLogger()
	}

	s.log = s.log.WithField("simulation", s.id)

	db := device.MakeBuilder().
		WithSpec(b.scenario.DeviceSpec()).
		WithEngine(s.engine).
		WithLogger(s.log)

	if b.scenario.Output.Pcap != "" {
		sink, err := s.openPcap(b.scenario.Output.Pcap)
		if err != nil {
			return nil, err
		}

		db = db.WithSink(sink)
	}

	s.device = db.Build(b.scenario.Name)
	for _, c := range s.device.Components() {
		s.RegisterComponent(c)
	}

	s.latency = tracing.NewLatencyTracer(s.device.Clock, tracing.KindIs("frame"))
	tracing.CollectTrace(s.device.Engine, s.latency)

	s.metrics = metrics.NewCollector("rxdma", s.log)
	s.metrics.Attach(s.device.Engine, s.device.CSR)

	level, err := logrus.ParseLevel(b.scenario.Logging.Level)
	if err == nil && level >= logrus.DebugLevel {
		util.NewEventLogger(s.log).Attach(s.device.Engine, s.device.CSR)
	}

	if b.scenario.Output.Recording != "" {
		s.dataRecorder = datarecording.New(b.scenario.Output.Recording)
		s.recorder = s.device.Record(s.dataRecorder)

		period := s.device.Spec.Freq.Period() *
			sim.VTimeInSec(b.scenario.Output.BufferPeriod)
		s.perf = analysis.NewPerfAnalyzer(s.device.Clock,
			analysis.NewRecordingLogger(s.dataRecorder), period)

		for _, c := range s.components {
			s.perf.RegisterComponent(c)
		}

		if b.scenario.Output.Trace {
			s.visTracer = tracing.NewDBTracer(s.device.Clock, s.dataRecorder)
			tracing.CollectTrace(s.device.Engine, s.visTracer)
		}
	}

	if b.monitorOn {
		if err := b.startMonitor(s); err != nil {
			s.Terminate()
			return nil, err
		}
	}

	return s, nil
}

func (s *Simulation) openPcap(path string) (*driver.PcapSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	snapLen := uint32(s.scenario.DeviceSpec().Capacity)

	sink, err := driver.NewPcapSink(f, snapLen)
	if err != nil {
		f.Close()
		return nil, err
	}

	s.pcapFile = f
	s.pcap = sink

	return sink, nil
}

func (b Builder) startMonitor(s *Simulation) error {
	s.monitor = monitoring.NewMonitor(s.log).
		WithPortNumber(b.monitorPort).
		WithBrowser(b.openBrowser).
		WithMetrics(s.metrics.Handler())

	s.monitor.RegisterEngine(s.engine)
	s.monitor.RegisterCSR(s.device.CSR)
	s.monitor.RegisterRing(s.device.Ring)

	for _, c := range s.components {
		s.monitor.RegisterComponent(c)
	}

	url, err := s.monitor.StartServer()
	if err != nil {
		return err
	}

	s.monitorURL = url

	return nil
}
