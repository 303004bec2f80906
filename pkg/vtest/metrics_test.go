package vtest

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/vango-dev/vangotest/pkg/vdom"
)

func gather(t *testing.T, reg *prometheus.Registry) map[string]*dto.MetricFamily {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	out := make(map[string]*dto.MetricFamily, len(families))
	for _, f := range families {
		out[f.GetName()] = f
	}
	return out
}

func TestMetrics(t *testing.T) {
	promReg := prometheus.NewRegistry()
	m := NewMetrics(WithPrometheusRegistry(promReg), WithNamespace("test"))

	root, _ := mountIsolated(t, t, counter.New(), WithMetrics(m))
	root.Find(ByTag("button")).Trigger("onclick")

	families := gather(t, promReg)
	if got := families["test_mounts_total"].GetMetric()[0].GetCounter().GetValue(); got != 1 {
		t.Errorf("mounts_total = %v, want 1", got)
	}
	if got := families["test_performs_total"].GetMetric()[0].GetCounter().GetValue(); got != 2 {
		t.Errorf("performs_total = %v, want 2", got)
	}
	if got := families["test_live_roots"].GetMetric()[0].GetGauge().GetValue(); got != 1 {
		t.Errorf("live_roots = %v, want 1", got)
	}
	if got := families["test_resync_duration_seconds"].GetMetric()[0].GetHistogram().GetSampleCount(); got != 2 {
		t.Errorf("resync samples = %v, want 2", got)
	}

	root.Destroy()
	families = gather(t, promReg)
	if got := families["test_live_roots"].GetMetric()[0].GetGauge().GetValue(); got != 0 {
		t.Errorf("live_roots after Destroy = %v, want 0", got)
	}
}

func TestNilMetricsRecordNothing(t *testing.T) {
	var m *Metrics
	m.mounted()
	m.performed()
	m.attached()
	m.destroyed()
	m.resynced(0)
}

// recordingTracer counts started spans by name.
type recordingTracer struct {
	trace.Tracer
	started map[string]int
}

func (r *recordingTracer) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	r.started[name]++
	return r.Tracer.Start(ctx, name, opts...)
}

func TestTracingSpans(t *testing.T) {
	tracer := &recordingTracer{
		Tracer:  noop.NewTracerProvider().Tracer("test"),
		started: make(map[string]int),
	}
	root, _ := mountIsolated(t, t, vdom.Div(), WithTracing(NewTracing(tracer)))
	root.Unmount()

	for _, name := range []string{"vtest.mount", "vtest.perform", "vtest.unmount"} {
		if tracer.started[name] == 0 {
			t.Errorf("no %s span started", name)
		}
	}
}
