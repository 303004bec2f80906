package vtest

import (
	"log/slog"
	"os"
	"time"

	"github.com/vango-dev/vangotest/internal/config"
	"github.com/vango-dev/vangotest/pkg/dom"
)

// Option configures a Root.
type Option func(*rootConfig)

type rootConfig struct {
	logger     *slog.Logger
	registry   *Registry
	document   *dom.Document
	metrics    *Metrics
	tracing    *Tracing
	clockStart time.Time
	name       string
}

func defaultRootConfig() rootConfig {
	return rootConfig{
		logger:   slog.Default().With("component", "vtest"),
		registry: DefaultRegistry(),
		document: dom.Default(),
		tracing:  defaultTracing(),
	}
}

// WithLogger sets the logger for the root and its host renderer.
func WithLogger(logger *slog.Logger) Option {
	return func(c *rootConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRegistry tracks the root in reg instead of the default registry.
func WithRegistry(reg *Registry) Option {
	return func(c *rootConfig) {
		if reg != nil {
			c.registry = reg
		}
	}
}

// WithDocument mounts into doc instead of the shared document.
func WithDocument(doc *dom.Document) Option {
	return func(c *rootConfig) {
		if doc != nil {
			c.document = doc
		}
	}
}

// WithMetrics records mount, perform and resync metrics on m.
func WithMetrics(m *Metrics) Option {
	return func(c *rootConfig) {
		c.metrics = m
	}
}

// WithTracing sets the tracer used for root spans.
func WithTracing(t *Tracing) Option {
	return func(c *rootConfig) {
		if t != nil {
			c.tracing = t
		}
	}
}

// WithClockStart sets the initial time of the root's fake clock.
func WithClockStart(start time.Time) Option {
	return func(c *rootConfig) {
		c.clockStart = start
	}
}

// WithName sets the name reported by the registry and inspector. It
// defaults to the mounted tree's type name.
func WithName(name string) Option {
	return func(c *rootConfig) {
		c.name = name
	}
}

// FromConfig returns the options described by cfg: a text logger at the
// configured level and the configured clock start.
func FromConfig(cfg *config.Config) ([]Option, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}
	start, err := cfg.ClockStart()
	if err != nil {
		return nil, err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	opts := []Option{WithLogger(logger.With("component", "vtest"))}
	if !start.IsZero() {
		opts = append(opts, WithClockStart(start))
	}
	return opts, nil
}
