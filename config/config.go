// Package config loads capture scenarios from YAML files and the
// environment.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"go.yaml.in/yaml/v3"

	"github.com/artsniffer/rxdma/device"
	"github.com/artsniffer/rxdma/sim"
	"github.com/artsniffer/rxdma/traffic"
)

// A Scenario describes one capture run.
type Scenario struct {
	Name    string        `yaml:"name"`
	Device  DeviceConfig  `yaml:"device"`
	Traffic []PortTraffic `yaml:"traffic"`
	Run     RunConfig     `yaml:"run"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
}

// DeviceConfig holds the sizes and modes of the device. Zero values take
// the device defaults.
type DeviceConfig struct {
	FreqMHz         float64 `yaml:"freq_mhz"`
	NumSlots        int     `yaml:"num_slots"`
	Ports           int     `yaml:"ports"`
	StreamBeatBytes int     `yaml:"stream_beat_bytes"`
	BeatBytes       int     `yaml:"beat_bytes"`
	BurstBytes      int     `yaml:"burst_bytes"`
	BurstQueue      int     `yaml:"burst_queue"`
	BufBase         uint64  `yaml:"buf_base"`
	BufStride       uint64  `yaml:"buf_stride"`
	Capacity        uint32  `yaml:"capacity"`
	Framing         bool    `yaml:"framing"`
	SnapLen         int     `yaml:"snap_len"`
	UseIRQ          bool    `yaml:"irq"`
	IRQTime         uint32  `yaml:"irq_time"`
	Rearm           *bool   `yaml:"rearm"`
	PollInterval    int     `yaml:"poll_interval"`
	LastSlot        int     `yaml:"last_slot"`
}

// PortTraffic is the traffic sent on one ingress port.
type PortTraffic struct {
	Port    int    `yaml:"port"`
	Kind    string `yaml:"kind"`
	Count   int    `yaml:"count"`
	MinSize int    `yaml:"min_size"`
	MaxSize int    `yaml:"max_size"`
	Seed    int64  `yaml:"seed"`
}

// RunConfig bounds the run and controls the monitor.
type RunConfig struct {
	MaxCycles   uint64 `yaml:"max_cycles"`
	Monitor     bool   `yaml:"monitor"`
	MonitorPort int    `yaml:"monitor_port"`
	OpenBrowser bool   `yaml:"open_browser"`
}

// OutputConfig names the files a run writes.
type OutputConfig struct {
	Pcap      string `yaml:"pcap"`
	Recording string `yaml:"recording"`
	Trace     bool   `yaml:"trace"`

	// BufferPeriod is the number of cycles over which buffer levels are
	// averaged. Zero averages over the whole run.
	BufferPeriod uint64 `yaml:"buffer_period"`
}

// Defaults fills the fields that are left empty.
func (s Scenario) Defaults() Scenario {
	if s.Name == "" {
		s.Name = "Capture"
	}

	if s.Device.Rearm == nil {
		rearm := true
		s.Device.Rearm = &rearm
	}

	if s.Run.MaxCycles == 0 {
		s.Run.MaxCycles = 10_000_000
	}

	for i := range s.Traffic {
		t := &s.Traffic[i]

		if t.Kind == "" {
			t.Kind = string(traffic.KindIncrementing)
		}

		if t.MinSize == 0 {
			t.MinSize = 64
		}

		if t.MaxSize == 0 {
			t.MaxSize = t.MinSize
		}
	}

	s.Logging = s.Logging.defaults()

	return s
}

// Validate reports the first inconsistency in the scenario.
func (s Scenario) Validate() error {
	if err := nameMustBeValid(s.Name); err != nil {
		return err
	}

	spec := s.DeviceSpec()

	if err := spec.Validate(); err != nil {
		return fmt.Errorf("device: %w", err)
	}

	for i, t := range s.Traffic {
		switch {
		case t.Port < 0 || t.Port >= spec.Ports:
			return fmt.Errorf("traffic[%d]: port %d outside of %d ports",
				i, t.Port, spec.Ports)
		case t.Count < 0:
			return fmt.Errorf("traffic[%d]: negative count", i)
		case t.MinSize < 0 || t.MaxSize < t.MinSize:
			return fmt.Errorf("traffic[%d]: bad size range %d..%d",
				i, t.MinSize, t.MaxSize)
		}

		switch traffic.Kind(t.Kind) {
		case traffic.KindIncrementing, traffic.KindUDP:
		default:
			return fmt.Errorf("traffic[%d]: unknown kind %q", i, t.Kind)
		}
	}

	if s.Run.MonitorPort < 0 || s.Run.MonitorPort > 65535 {
		return fmt.Errorf("monitor port %d out of range", s.Run.MonitorPort)
	}

	return s.Logging.validate()
}

func nameMustBeValid(name string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("name %q: %v", name, r)
		}
	}()

	sim.NameMustBeValid(name)

	return nil
}

// DeviceSpec converts the device section into a device spec.
func (s Scenario) DeviceSpec() device.Spec {
	d := s.Device

	spec := device.Spec{
		Freq:            sim.Freq(d.FreqMHz) * sim.MHz,
		NumSlots:        d.NumSlots,
		Ports:           d.Ports,
		StreamBeatBytes: d.StreamBeatBytes,
		BeatBytes:       d.BeatBytes,
		BurstBytes:      d.BurstBytes,
		BurstQueue:      d.BurstQueue,
		BufBase:         d.BufBase,
		BufStride:       d.BufStride,
		Capacity:        d.Capacity,
		Framing:         d.Framing,
		SnapLen:         d.SnapLen,
		UseIRQ:          d.UseIRQ,
		IRQTime:         d.IRQTime,
		Rearm:           d.Rearm == nil || *d.Rearm,
		PollInterval:    d.PollInterval,
		LastSlot:        d.LastSlot,
	}

	return spec.Defaults()
}

// Plan converts the traffic of one port into a traffic plan.
func (t PortTraffic) Plan() traffic.Plan {
	return traffic.Plan{
		Kind:    traffic.Kind(t.Kind),
		Count:   t.Count,
		MinSize: t.MinSize,
		MaxSize: t.MaxSize,
		Seed:    t.Seed,
	}
}

// Decode reads a scenario from YAML. Unknown fields are rejected.
func Decode(r io.Reader) (Scenario, error) {
	var s Scenario

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	err := dec.Decode(&s)
	if err != nil && !errors.Is(err, io.EOF) {
		return Scenario{}, fmt.Errorf("decoding scenario: %w", err)
	}

	return s, nil
}

// Load reads the scenario at path, applies the .env file and RXDMA_*
// variables, fills defaults and validates the result. An empty path loads
// the default scenario.
func Load(path string) (Scenario, error) {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Scenario{}, fmt.Errorf("loading .env: %w", err)
	}

	var s Scenario

	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return Scenario{}, err
		}
		defer f.Close()

		s, err = Decode(f)
		if err != nil {
			return Scenario{}, fmt.Errorf("%s: %w", path, err)
		}
	}

	if err := s.ApplyEnv(os.LookupEnv); err != nil {
		return Scenario{}, err
	}

	s = s.Defaults()

	if err := s.Validate(); err != nil {
		return Scenario{}, err
	}

	return s, nil
}
