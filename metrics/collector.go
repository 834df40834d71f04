// Package metrics counts device activity with go-metrics and exports it to
// Prometheus.
package metrics

import (
	"net/http"
	"time"

	mp "github.com/nbrownus/go-metrics-prometheus"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	gometrics "github.com/rcrowley/go-metrics"
	"github.com/sirupsen/logrus"

	"github.com/artsniffer/rxdma/csr"
	"github.com/artsniffer/rxdma/driver"
	"github.com/artsniffer/rxdma/engine"
	"github.com/artsniffer/rxdma/sim"
)

// A Collector is a hook that turns completion and interrupt events into
// metrics.
type Collector struct {
	registry gometrics.Registry
	prom     *prometheus.Registry
	provider *mp.PrometheusConfig
	log      logrus.FieldLogger

	completions gometrics.Counter
	truncated   gometrics.Counter
	bytes       gometrics.Counter
	irqs        gometrics.Counter
	frameLen    gometrics.Histogram
	cursor      gometrics.Gauge

	delivered gometrics.Gauge
	rearms    gometrics.Gauge
	polls     gometrics.Gauge
}

// NewCollector creates a collector whose Prometheus metrics are named
// namespace_device_*.
func NewCollector(namespace string, log logrus.FieldLogger) *Collector {
	r := gometrics.NewRegistry()
	pr := prometheus.NewRegistry()

	c := &Collector{
		registry: r,
		prom:     pr,
		provider: mp.NewPrometheusProvider(r, namespace, "device", pr, time.Second),
		log:      log,

		completions: gometrics.GetOrRegisterCounter("completions", r),
		truncated:   gometrics.GetOrRegisterCounter("truncated", r),
		bytes:       gometrics.GetOrRegisterCounter("bytes", r),
		irqs:        gometrics.GetOrRegisterCounter("irqs", r),
		frameLen: gometrics.GetOrRegisterHistogram("frame_len", r,
			gometrics.NewUniformSample(1028)),
		cursor: gometrics.GetOrRegisterGauge("cursor", r),

		delivered: gometrics.GetOrRegisterGauge("driver.delivered", r),
		rearms:    gometrics.GetOrRegisterGauge("driver.rearms", r),
		polls:     gometrics.GetOrRegisterGauge("driver.polls", r),
	}

	return c
}

// Attach registers the collector on the hookable blocks.
func (c *Collector) Attach(domains ...sim.Hookable) {
	for _, d := range domains {
		d.AcceptHook(c)
	}
}

// Func updates the metrics for one hook event.
func (c *Collector) Func(ctx sim.HookCtx) {
	switch ctx.Pos {
	case engine.HookPosCompletion:
		done := ctx.Item.(engine.Completion)
		c.completions.Inc(1)
		c.bytes.Inc(int64(done.Len))
		c.frameLen.Update(int64(done.Len))
		c.cursor.Update(int64(done.Slot))

		if done.Truncated {
			c.truncated.Inc(1)
		}
	case csr.HookPosIRQ:
		c.irqs.Inc(1)
	}
}

// ObserveDriver copies the driver counters into gauges.
func (c *Collector) ObserveDriver(s driver.Stats) {
	c.delivered.Update(int64(s.Packets))
	c.rearms.Update(int64(s.Rearms))
	c.polls.Update(int64(s.Polls))
}

// Registry returns the go-metrics registry.
func (c *Collector) Registry() gometrics.Registry {
	return c.registry
}

// Completions returns the number of completions seen.
func (c *Collector) Completions() int64 {
	return c.completions.Count()
}

// Flush copies the go-metrics values into the Prometheus registry.
func (c *Collector) Flush() error {
	return c.provider.UpdatePrometheusMetricsOnce()
}

// Handler serves the Prometheus registry. Every scrape flushes first.
func (c *Collector) Handler() http.Handler {
	h := promhttp.HandlerFor(c.prom, promhttp.HandlerOpts{})

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := c.Flush(); err != nil {
			c.log.WithError(err).Warn("metrics flush failed")
		}

		h.ServeHTTP(w, r)
	})
}
