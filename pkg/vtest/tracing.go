package vtest

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// DefaultTracerName is the tracer name used when none is configured.
const DefaultTracerName = "vangotest"

// Tracing creates spans around root lifecycle calls.
type Tracing struct {
	tracer trace.Tracer
}

// NewTracing returns a Tracing backed by tracer. A nil tracer resolves
// DefaultTracerName from the global provider.
func NewTracing(tracer trace.Tracer) *Tracing {
	if tracer == nil {
		tracer = otel.Tracer(DefaultTracerName)
	}
	return &Tracing{tracer: tracer}
}

// TracerName returns a Tracing using the named tracer from the global
// provider.
func TracerName(name string) *Tracing {
	return NewTracing(otel.Tracer(name))
}

func defaultTracing() *Tracing {
	return NewTracing(nil)
}

// rootSpan wraps a span and records panics raised while it is open.
type rootSpan struct {
	trace.Span
}

// End records an in-flight panic on the span before ending it. It must be
// called directly by defer.
func (s rootSpan) End(opts ...trace.SpanEndOption) {
	if p := recover(); p != nil {
		err := fmt.Errorf("panic: %v", p)
		s.RecordError(err)
		s.SetStatus(codes.Error, err.Error())
		s.Span.End(opts...)
		panic(p)
	}
	s.Span.End(opts...)
}

func (t *Tracing) start(ctx context.Context, name string, r *Root) (context.Context, rootSpan) {
	if t == nil {
		t = defaultTracing()
	}
	ctx, span := t.tracer.Start(ctx, name,
		trace.WithAttributes(
			attribute.Int64("vtest.root_id", int64(r.id)),
			attribute.String("vtest.root_name", r.name),
		),
	)
	return ctx, rootSpan{Span: span}
}
