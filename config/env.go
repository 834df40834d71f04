package config

import (
	"fmt"
	"strconv"
)

// EnvPrefix starts every environment variable read by ApplyEnv.
const EnvPrefix = "RXDMA_"

type envVar struct {
	name  string
	apply func(s *Scenario, v string) error
}

var envVars = []envVar{
	{"NUM_SLOTS", func(s *Scenario, v string) error {
		return setInt(&s.Device.NumSlots, v)
	}},
	{"PORTS", func(s *Scenario, v string) error {
		return setInt(&s.Device.Ports, v)
	}},
	{"IRQ", func(s *Scenario, v string) error {
		return setBool(&s.Device.UseIRQ, v)
	}},
	{"FRAMING", func(s *Scenario, v string) error {
		return setBool(&s.Device.Framing, v)
	}},
	{"MAX_CYCLES", func(s *Scenario, v string) error {
		n, err := strconv.ParseUint(v, 0, 64)
		s.Run.MaxCycles = n

		return err
	}},
	{"MONITOR_PORT", func(s *Scenario, v string) error {
		s.Run.Monitor = true
		return setInt(&s.Run.MonitorPort, v)
	}},
	{"PCAP", func(s *Scenario, v string) error {
		s.Output.Pcap = v
		return nil
	}},
	{"RECORDING", func(s *Scenario, v string) error {
		s.Output.Recording = v
		return nil
	}},
	{"LOG_LEVEL", func(s *Scenario, v string) error {
		s.Logging.Level = v
		return nil
	}},
	{"LOG_FORMAT", func(s *Scenario, v string) error {
		s.Logging.Format = v
		return nil
	}},
}

// ApplyEnv overrides scenario fields with RXDMA_* variables found by
// lookup.
func (s *Scenario) ApplyEnv(lookup func(string) (string, bool)) error {
	for _, e := range envVars {
		v, ok := lookup(EnvPrefix + e.name)
		if !ok {
			continue
		}

		if err := e.apply(s, v); err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, e.name, err)
		}
	}

	return nil
}

func setInt(dst *int, v string) error {
	n, err := strconv.Atoi(v)
	if err != nil {
		return err
	}

	*dst = n

	return nil
}

func setBool(dst *bool, v string) error {
	b, err := strconv.ParseBool(v)
	if err != nil {
		return err
	}

	*dst = b

	return nil
}
