// Package metrics exposes request outcomes as Prometheus metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "diplomat"

// Collector counts classified requests and their latency.
type Collector struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewCollector creates a collector and registers it with reg. A nil reg
// leaves the collector unregistered.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Requests by method and classified outcome.",
		}, []string{"method", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "Time spent waiting on the transport.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
	}

	if reg != nil {
		if err := reg.Register(c.requests); err != nil {
			return nil, err
		}
		if err := reg.Register(c.duration); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// Observe records one request cycle.
func (c *Collector) Observe(method, outcome string, d time.Duration) {
	c.requests.WithLabelValues(method, outcome).Inc()
	c.duration.WithLabelValues(method).Observe(d.Seconds())
}

// Requests returns the request counter, mainly for tests.
func (c *Collector) Requests() *prometheus.CounterVec {
	return c.requests
}
