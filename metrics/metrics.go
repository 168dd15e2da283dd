package metrics

import (
	"regexp"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// DefaultNamespace is used when New is given an empty namespace.
const DefaultNamespace = "restclient"

// ClassError labels transfers that failed before a status was received.
const ClassError = "error"

// Collector records transfer metrics on its own registry.
type Collector struct {
	registry *prometheus.Registry

	Transfers *prometheus.CounterVec   // 传输总数（按方法与状态类别）
	Duration  *prometheus.HistogramVec // 传输耗时
	InFlight  prometheus.Gauge         // 进行中的传输
}

// New creates a Collector with metrics registered under namespace.
func New(namespace string) *Collector {
	if namespace == "" {
		namespace = DefaultNamespace
	}

	c := &Collector{
		registry: prometheus.NewRegistry(),

		Transfers: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transfers_total",
				Help:      "Total number of transfers by method and status class",
			},
			[]string{"method", "class"},
		),

		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "transfer_duration_seconds",
				Help:      "Transfer duration in seconds",
				Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"method"},
		),

		InFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "transfers_in_flight",
				Help:      "Number of transfers currently in progress",
			},
		),
	}

	c.registry.MustRegister(c.Transfers, c.Duration, c.InFlight)
	return c
}

// Registry returns the registry holding the collector's metrics.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// WithGoCollectorRuntimeMetrics also exports Go runtime metrics.
func (c *Collector) WithGoCollectorRuntimeMetrics() *Collector {
	c.registry.MustRegister(collectors.NewGoCollector(
		collectors.WithGoCollectorRuntimeMetrics(collectors.GoRuntimeMetricsRule{Matcher: regexp.MustCompile("/.*")}),
	))
	return c
}

// Start marks a transfer as in flight. The returned func records its
// outcome and must be called exactly once.
func (c *Collector) Start(method string) func(code int) {
	c.InFlight.Inc()
	begin := time.Now()
	return func(code int) {
		c.InFlight.Dec()
		c.Observe(method, code, time.Since(begin))
	}
}

// Observe records one finished transfer.
func (c *Collector) Observe(method string, code int, d time.Duration) {
	c.Transfers.WithLabelValues(method, Class(code)).Inc()
	c.Duration.WithLabelValues(method).Observe(d.Seconds())
}

// Class returns "1xx".."5xx" for HTTP statuses and ClassError otherwise.
func Class(code int) string {
	if code < 100 || code > 599 {
		return ClassError
	}
	return strconv.Itoa(code/100) + "xx"
}
