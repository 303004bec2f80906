package host

import (
	"context"
	"log/slog"
	"time"
)

// Option configures a Renderer.
type Option func(*Renderer)

// WithLogger sets the renderer's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithClock makes the renderer use clock for timers.
func WithClock(clock *Clock) Option {
	return func(r *Renderer) {
		if clock != nil {
			r.clock = clock
		}
	}
}

// WithContext sets the parent of the renderer's lifetime context.
func WithContext(ctx context.Context) Option {
	return func(r *Renderer) {
		if ctx != nil {
			r.parentCtx = ctx
		}
	}
}

// WithMaxFlushIterations bounds the number of flush iterations of one Act
// before the renderer gives up with a panic.
func WithMaxFlushIterations(n int) Option {
	return func(r *Renderer) {
		if n > 0 {
			r.maxIterations = n
		}
	}
}

// DefaultClockStart is the initial time of renderer clocks.
var DefaultClockStart = time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)

const defaultMaxFlushIterations = 1000
