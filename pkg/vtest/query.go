package vtest

import (
	"fmt"
	"reflect"

	"golang.org/x/net/html"

	"github.com/vango-dev/vangotest/internal/errors"
)

// Find returns the first descendant matching m, or nil.
func (e *Element) Find(m Matcher) *Element {
	for _, d := range e.descendants {
		if m.Match(d) {
			return d
		}
	}
	return nil
}

// FindAll returns every descendant matching m in pre-order.
func (e *Element) FindAll(m Matcher) []*Element {
	var out []*Element
	for _, d := range e.descendants {
		if m.Match(d) {
			out = append(out, d)
		}
	}
	return out
}

// FindWhere returns the first descendant for which pred returns true.
func (e *Element) FindWhere(pred func(*Element) bool) *Element {
	return e.Find(Where(pred))
}

// FindAllWhere returns every descendant for which pred returns true.
func (e *Element) FindAllWhere(pred func(*Element) bool) []*Element {
	return e.FindAll(Where(pred))
}

// Is reports whether e itself matches m. Type matchers compare the type
// only.
func (e *Element) Is(m Matcher) bool {
	return m.Match(e)
}

// Contains reports whether any descendant matches m, with type matchers
// read as templates accepting any props. It is equivalent to
// FindWhere(m.Match) != nil.
func (e *Element) Contains(m Matcher) bool {
	return e.Find(asTemplate(m)) != nil
}

// GetDOMNodes returns the platform nodes of the immediate host children.
func (e *Element) GetDOMNodes() []*html.Node {
	var out []*html.Node
	for _, c := range e.elements {
		if c.IsDOM() {
			out = append(out, c.instance)
		}
	}
	return out
}

// GetDOMNode returns the single platform node among the immediate
// children, or nil when there is none. More than one fails the test.
func (e *Element) GetDOMNode() *html.Node {
	nodes := e.GetDOMNodes()
	if len(nodes) > 1 {
		tb := e.tb()
		tb.Helper()
		fail(tb, errors.New(errors.CodeAmbiguousMatch).
			WithDetailf("%s has %d host element children", e, len(nodes)))
		return nil
	}
	if len(nodes) == 0 {
		return nil
	}
	return nodes[0]
}

// Trigger calls the function-valued prop named prop with args inside the
// root's Perform boundary and returns its result: nil for no results, the
// value for one and a []any for several.
func (e *Element) Trigger(prop string, args ...any) any {
	tb := e.tb()
	tb.Helper()

	v, ok := e.props[prop]
	if !ok {
		fail(tb, errors.New(errors.CodeMissingProp).
			WithDetailf("%s has no prop %q", e, prop))
		return nil
	}
	fn := reflect.ValueOf(v)
	if v == nil || fn.Kind() != reflect.Func || fn.IsNil() {
		fail(tb, errors.New(errors.CodePropNotFunction).
			WithDetailf("prop %q of %s is %T", prop, e, v))
		return nil
	}

	in, err := callArgs(fn.Type(), args)
	if err != nil {
		fail(tb, errors.New(errors.CodeTriggerArgs).
			WithDetailf("prop %q of %s: %v", prop, e, err))
		return nil
	}

	var out []reflect.Value
	e.root.Perform(func() any {
		out = fn.Call(in)
		return nil
	})

	switch len(out) {
	case 0:
		return nil
	case 1:
		return out[0].Interface()
	default:
		results := make([]any, len(out))
		for i, o := range out {
			results[i] = o.Interface()
		}
		return results
	}
}

// callArgs converts args to reflect values for a call of type ft. Missing
// trailing parameters get zero values, so a handler declared
// func(Event) can be triggered with no arguments.
func callArgs(ft reflect.Type, args []any) ([]reflect.Value, error) {
	fixed := ft.NumIn()
	if ft.IsVariadic() {
		fixed--
	}
	if !ft.IsVariadic() && len(args) > fixed {
		return nil, fmt.Errorf("handler takes %d arguments, got %d", fixed, len(args))
	}

	var in []reflect.Value
	for i := 0; i < fixed; i++ {
		pt := ft.In(i)
		if i >= len(args) {
			in = append(in, reflect.Zero(pt))
			continue
		}
		v, err := convertArg(args[i], pt, i)
		if err != nil {
			return nil, err
		}
		in = append(in, v)
	}
	if ft.IsVariadic() {
		et := ft.In(fixed).Elem()
		for i := fixed; i < len(args); i++ {
			v, err := convertArg(args[i], et, i)
			if err != nil {
				return nil, err
			}
			in = append(in, v)
		}
	}
	return in, nil
}

func convertArg(arg any, pt reflect.Type, i int) (reflect.Value, error) {
	if arg == nil {
		switch pt.Kind() {
		case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return reflect.Zero(pt), nil
		}
		return reflect.Value{}, fmt.Errorf("argument %d: nil is not a %s", i, pt)
	}
	v := reflect.ValueOf(arg)
	if v.Type().AssignableTo(pt) {
		return v, nil
	}
	if v.Type().ConvertibleTo(pt) && v.Kind() != reflect.String && pt.Kind() != reflect.String {
		return v.Convert(pt), nil
	}
	return reflect.Value{}, fmt.Errorf("argument %d: %s is not assignable to %s", i, v.Type(), pt)
}

func (e *Element) tb() TB {
	if e.root == nil {
		return panicTB{}
	}
	return e.root.tb
}

// panicTB reports failures of detached elements by panicking.
type panicTB struct{}

func (panicTB) Helper() {}

func (panicTB) Fatal(args ...any) {
	panic(fmt.Sprint(args...))
}
