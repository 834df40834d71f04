package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// LoggingConfig controls the logger of the command line tool.
type LoggingConfig struct {
	Level            string `yaml:"level"`
	Format           string `yaml:"format"`
	DisableTimestamp bool   `yaml:"disable_timestamp"`
	TimestampFormat  string `yaml:"timestamp_format"`
}

func (c LoggingConfig) defaults() LoggingConfig {
	if c.Level == "" {
		c.Level = "info"
	}

	if c.Format == "" {
		c.Format = "text"
	}

	return c
}

func (c LoggingConfig) validate() error {
	return c.Configure(logrus.New())
}

// Configure sets the level and formatter of l.
func (c LoggingConfig) Configure(l *logrus.Logger) error {
	c = c.defaults()

	level, err := logrus.ParseLevel(strings.ToLower(c.Level))
	if err != nil {
		return fmt.Errorf("%s; possible levels: %s", err, logrus.AllLevels)
	}

	l.SetLevel(level)

	fullTimestamp := c.TimestampFormat != ""
	timestampFormat := c.TimestampFormat
	if timestampFormat == "" {
		timestampFormat = time.RFC3339
	}

	switch strings.ToLower(c.Format) {
	case "text":
		l.Formatter = &logrus.TextFormatter{
			TimestampFormat:  timestampFormat,
			FullTimestamp:    fullTimestamp,
			DisableTimestamp: c.DisableTimestamp,
		}
	case "json":
		l.Formatter = &logrus.JSONFormatter{
			TimestampFormat:  timestampFormat,
			DisableTimestamp: c.DisableTimestamp,
		}
	default:
		return fmt.Errorf("unknown log format %q, possible formats: %s",
			c.Format, []string{"text", "json"})
	}

	return nil
}
