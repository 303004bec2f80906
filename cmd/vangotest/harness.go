package main

import (
	"fmt"
	"io"
	"time"

	"github.com/vango-dev/vangotest/internal/errors"
	"github.com/vango-dev/vangotest/pkg/archive"
	"github.com/vango-dev/vangotest/pkg/vango"
	"github.com/vango-dev/vangotest/pkg/vdom"
)

// cliTB turns harness failures into errors for commands.
type cliTB struct{}

type cliFailure struct{ err error }

func (cliTB) Helper() {}

func (cliTB) Fatal(args ...any) {
	if len(args) == 1 {
		if err, ok := args[0].(error); ok {
			panic(cliFailure{err: err})
		}
	}
	panic(cliFailure{err: fmt.Errorf("%s", fmt.Sprint(args...))})
}

// capture runs fn and returns the failure it reported through cliTB.
func capture(fn func()) (err error) {
	defer func() {
		if p := recover(); p != nil {
			f, ok := p.(cliFailure)
			if !ok {
				panic(p)
			}
			err = f.err
		}
	}()
	fn()
	return nil
}

// closeStore closes stores that hold resources.
func closeStore(store archive.Store) {
	if c, ok := store.(io.Closer); ok {
		_ = c.Close()
	}
}

func archiveError(err error, detail string) error {
	return errors.New(errors.CodeArchiveFailure).WithDetail(detail).Wrap(err)
}

var demoCounter = vdom.Define("Counter", func(props vdom.Props) *vdom.VNode {
	count := vango.UseSignal(0)
	return vdom.Div(vdom.Class("counter"),
		vdom.Span(vdom.Textf("%d", count.Get())),
		vdom.Button(vdom.OnClick(func() { count.Set(count.Peek() + 1) }), "+"),
	)
})

var demoTicker = vdom.Define("Ticker", func(props vdom.Props) *vdom.VNode {
	ticks := vango.UseSignal(0)
	ctx := vango.UseCtx()
	vango.UseEffect(func() vango.Cleanup {
		var cancel func()
		var schedule func()
		schedule = func() {
			cancel = ctx.After(time.Second, func() {
				ticks.Set(ticks.Peek() + 1)
				schedule()
			})
		}
		schedule()
		return func() { cancel() }
	})
	return vdom.P(vdom.Class("ticker"), vdom.Textf("%d ticks", ticks.Get()))
})

var demoApp = vdom.Define("DemoApp", func(props vdom.Props) *vdom.VNode {
	return vdom.Main(
		vdom.H1(props.String("title")),
		demoCounter.New(),
		demoTicker.New(),
	)
})
