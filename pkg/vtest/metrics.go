package vtest

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures harness metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "vangotest").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for resync duration.
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures harness metrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		if namespace != "" {
			c.Namespace = namespace
		}
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithPrometheusRegistry sets the Prometheus registry.
func WithPrometheusRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "vangotest",
		Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the Prometheus collectors for mounted roots. A nil
// *Metrics records nothing.
type Metrics struct {
	mountsTotal    prometheus.Counter
	performsTotal  prometheus.Counter
	resyncDuration prometheus.Histogram
	liveRoots      prometheus.Gauge
}

// NewMetrics registers the harness collectors. Registering twice on the
// same registry panics, so share one *Metrics between roots.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		mountsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "mounts_total",
			Help:        "Total number of trees mounted",
			ConstLabels: config.ConstLabels,
		}),

		performsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "performs_total",
			Help:        "Total number of actions performed inside an act boundary",
			ConstLabels: config.ConstLabels,
		}),

		resyncDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "resync_duration_seconds",
			Help:        "Time spent rebuilding snapshots",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		liveRoots: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "live_roots",
			Help:        "Number of roots that have not been destroyed",
			ConstLabels: config.ConstLabels,
		}),
	}
}

func (m *Metrics) mounted() {
	if m == nil {
		return
	}
	m.mountsTotal.Inc()
}

func (m *Metrics) attached() {
	if m == nil {
		return
	}
	m.liveRoots.Inc()
}

func (m *Metrics) destroyed() {
	if m == nil {
		return
	}
	m.liveRoots.Dec()
}

func (m *Metrics) performed() {
	if m == nil {
		return
	}
	m.performsTotal.Inc()
}

func (m *Metrics) resynced(d time.Duration) {
	if m == nil {
		return
	}
	m.resyncDuration.Observe(d.Seconds())
}
