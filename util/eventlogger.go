// Package util holds small hooks that help debugging a simulation.
package util

import (
	"reflect"

	"github.com/sirupsen/logrus"

	"github.com/artsniffer/rxdma/sim"
)

// EventLogger is a hook that prints every hook event it receives at debug
// level.
type EventLogger struct {
	log logrus.FieldLogger
}

// NewEventLogger returns a new EventLogger which will write into the logger.
func NewEventLogger(logger logrus.FieldLogger) *EventLogger {
	return &EventLogger{log: logger}
}

// Attach registers the logger on the domains.
func (h *EventLogger) Attach(domains ...sim.Hookable) {
	for _, d := range domains {
		d.AcceptHook(h)
	}
}

// Func writes the hook information into the logger.
func (h *EventLogger) Func(ctx sim.HookCtx) {
	fields := logrus.Fields{
		"pos":  ctx.Pos.Name,
		"item": ctx.Item,
	}

	if named, ok := ctx.Domain.(sim.Named); ok {
		fields["domain"] = named.Name()
	} else {
		fields["domain"] = reflect.TypeOf(ctx.Domain).String()
	}

	if evt, ok := ctx.Item.(sim.Event); ok {
		fields["time"] = float64(evt.Time())
		fields["item"] = reflect.TypeOf(evt).String()
	}

	h.log.WithFields(fields).Debug("hook")
}
