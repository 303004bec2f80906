package vtest

import (
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/vango-dev/vangotest/internal/errors"
	"github.com/vango-dev/vangotest/pkg/dom"
	"github.com/vango-dev/vangotest/pkg/vango"
	"github.com/vango-dev/vangotest/pkg/vdom"
)

// fatal is the panic value recordingTB raises from Fatal.
type fatal struct{ args []any }

// recordingTB records failures and aborts the caller by panicking, so
// failure paths can be asserted without failing the real test.
type recordingTB struct {
	t        *testing.T
	failures []string
	last     error
}

func newRecordingTB(t *testing.T) *recordingTB {
	return &recordingTB{t: t}
}

func (r *recordingTB) Helper() {}

func (r *recordingTB) Fatal(args ...any) {
	r.failures = append(r.failures, fmt.Sprint(args...))
	if len(args) == 1 {
		if err, ok := args[0].(error); ok {
			r.last = err
		}
	}
	panic(fatal{args: args})
}

// expectFatal runs fn and requires it to fail through tb with code.
func expectFatal(t *testing.T, tb *recordingTB, code string, fn func()) {
	t.Helper()
	failed := func() (failed bool) {
		defer func() {
			if p := recover(); p != nil {
				if _, ok := p.(fatal); !ok {
					panic(p)
				}
				failed = true
			}
		}()
		fn()
		return false
	}()

	if !failed {
		t.Fatalf("expected a %s failure, got none", code)
	}
	if !errors.IsCode(tb.last, code) {
		t.Fatalf("failure = %v, want code %s", tb.last, code)
	}
}

// mountIsolated mounts tree into its own registry and document so tests
// can run in parallel.
func mountIsolated(t *testing.T, tb TB, tree *vdom.VNode, opts ...Option) (*Root, *Registry) {
	t.Helper()
	reg := NewRegistry()
	base := []Option{
		WithRegistry(reg),
		WithDocument(dom.NewDocument()),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}
	r := Mount(tb, tree, append(base, opts...)...)
	t.Cleanup(func() { reg.Drain() })
	return r, reg
}

var searchFor = vdom.Define("SearchFor", func(props vdom.Props) *vdom.VNode {
	return vdom.Span(vdom.Text(props.String("aProp")))
})

var counter = vdom.Define("Counter", func(props vdom.Props) *vdom.VNode {
	count := vango.UseSignal(0)
	return vdom.Button(
		vdom.OnClick(func() { count.Set(100) }),
		vdom.Textf("%d", count.Get()),
	)
})

var twoSpans = vdom.Define("TwoSpans", func(props vdom.Props) *vdom.VNode {
	return vdom.Fragment(vdom.Span("a"), vdom.Span("b"))
})

var delayed = vdom.Define("Delayed", func(props vdom.Props) *vdom.VNode {
	value := vango.UseSignal(0)
	ctx := vango.UseCtx()
	vango.UseEffect(func() vango.Cleanup {
		return ctx.After(200*time.Millisecond, func() { value.Set(100) })
	})
	return vdom.Span(vdom.Textf("%d", value.Get()))
})

var greeting = vdom.Define("Greeting", func(props vdom.Props) *vdom.VNode {
	return vdom.P(vdom.Class("greeting"), vdom.Textf("Hello %s", props.String("name")))
})

var renders = vdom.Define("Renders", func(props vdom.Props) *vdom.VNode {
	n := vango.UseRef(0)
	n.Current++
	return vdom.Span(vdom.Textf("%d", n.Current))
})

var toggle = vdom.Define("Toggle", func(props vdom.Props) *vdom.VNode {
	open := vango.UseSignal(false)
	return vdom.Div(
		vdom.Button(vdom.OnClick(func() { open.Set(!open.Peek()) }), "toggle"),
		vdom.If(open.Get(), vdom.Ul(vdom.Li("one"), vdom.Li("two"))),
	)
})
