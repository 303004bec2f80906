package vtest

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/vango-dev/vangotest/internal/errors"
	"github.com/vango-dev/vangotest/pkg/render"
	"github.com/vango-dev/vangotest/pkg/vdom"
)

// Node is an element or a root, the subjects prop assertions accept.
type Node interface {
	Type() vdom.ElementType
	Props() vdom.Props
	Prop(key string) any
}

var (
	_ Node = (*Element)(nil)
	_ Node = (*Root)(nil)
)

// Result is the outcome of a prop assertion. Message explains a failure
// when Pass is false and the negated failure when Pass is true.
type Result struct {
	Pass    bool
	Message string

	// Err is set when the message could not be built.
	Err *errors.HarnessError
}

// HaveProp reports whether node has prop. With a value it also requires
// the prop to deeply equal it; functions compare by identity and Anything
// or Containing may stand in for the value.
func HaveProp(node Node, prop string, value ...any) Result {
	props := node.Props()
	actual, hasProp := props[prop]

	valuePassed := len(value) > 0
	pass := hasProp
	if valuePassed {
		pass = deepEqual(value[0], actual)
	}

	var sb strings.Builder
	if pass {
		fmt.Fprintf(&sb, "Expected the element:\n  %s\n", printReceived(node))
		fmt.Fprintf(&sb, "Not to have prop:\n  %q\n", prop)
		if valuePassed {
			fmt.Fprintf(&sb, "With a value of\n  %s\n", printValue(value[0]))
		}
		return Result{Pass: true, Message: sb.String()}
	}

	name, err := PrintNode(node)
	if err != nil {
		herr := err.(*errors.HarnessError)
		return Result{Message: herr.Error(), Err: herr}
	}
	fmt.Fprintf(&sb, "Expected the element:\n  %s\n", name)
	fmt.Fprintf(&sb, "To have prop:\n  %q\n", prop)
	if valuePassed {
		fmt.Fprintf(&sb, "With a value of:\n  %s\n", printValue(value[0]))
	}
	if hasProp {
		fmt.Fprintf(&sb, "Received:\n  %s", printValue(actual))
	}
	return Result{Message: sb.String()}
}

// ExpectProp fails the test unless node has prop (with value, if given).
func ExpectProp(t TB, node Node, prop string, value ...any) {
	t.Helper()
	res := HaveProp(node, prop, value...)
	if res.Err != nil {
		fail(t, res.Err)
		return
	}
	if !res.Pass {
		t.Fatal(res.Message)
	}
}

// ExpectNoProp fails the test if node has prop (with value, if given).
func ExpectNoProp(t TB, node Node, prop string, value ...any) {
	t.Helper()
	res := HaveProp(node, prop, value...)
	if res.Pass {
		t.Fatal(res.Message)
	}
}

// PrintNode returns the short form of node used in messages, such as
// <div />. Nodes without a type cannot be printed.
func PrintNode(node Node) (string, error) {
	t := node.Type()
	if t == nil {
		return "", errors.New(errors.CodeInvalidNodeType).WithDetailf("%T has no type", node)
	}
	return "<" + t.TypeName() + " />", nil
}

func printReceived(node Node) string {
	if s, err := PrintNode(node); err == nil {
		return s
	}
	return "<Fragment />"
}

func printValue(v any) string {
	switch val := v.(type) {
	case anything:
		return "Anything"
	case containing:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = k + "=" + printValue(val[k])
		}
		return "ObjectContaining {" + strings.Join(parts, " ") + "}"
	}
	return render.FormatValue(v)
}

// anything matches every non-nil value.
type anything struct{}

// Anything returns a value that equals anything except nil.
func Anything() any { return anything{} }

// containing matches maps holding at least its entries.
type containing map[string]any

// Containing returns a value that equals any string-keyed map or Props
// holding at least the given entries, compared deeply.
func Containing(entries map[string]any) any { return containing(entries) }

// deepEqual compares like a recursive structural equality, with
// functions compared by identity.
func deepEqual(want, got any) bool {
	switch w := want.(type) {
	case anything:
		return got != nil
	case containing:
		return mapContains(w, got)
	}
	if want == nil || got == nil {
		return want == nil && got == nil
	}
	return valuesEqual(reflect.ValueOf(want), reflect.ValueOf(got))
}

func mapContains(want containing, got any) bool {
	gv := reflect.ValueOf(got)
	if gv.Kind() != reflect.Map || gv.Type().Key().Kind() != reflect.String {
		return false
	}
	keys := make([]string, 0, len(want))
	for k := range want {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		actual := gv.MapIndex(reflect.ValueOf(k).Convert(gv.Type().Key()))
		if !actual.IsValid() || !deepEqual(want[k], actual.Interface()) {
			return false
		}
	}
	return true
}

func valuesEqual(a, b reflect.Value) bool {
	if !a.IsValid() || !b.IsValid() {
		return a.IsValid() == b.IsValid()
	}
	if a.Type() != b.Type() {
		return false
	}

	switch a.Kind() {
	case reflect.Func:
		if a.IsNil() || b.IsNil() {
			return a.IsNil() && b.IsNil()
		}
		if !a.CanInterface() || !b.CanInterface() {
			return a.Pointer() == b.Pointer()
		}
		return funcIdentity(a.Interface()) == funcIdentity(b.Interface())
	case reflect.Interface:
		if a.IsNil() || b.IsNil() {
			return a.IsNil() && b.IsNil()
		}
		if a.CanInterface() && b.CanInterface() {
			return deepEqual(a.Elem().Interface(), b.Elem().Interface())
		}
		return valuesEqual(a.Elem(), b.Elem())
	case reflect.Pointer:
		if a.Pointer() == b.Pointer() {
			return true
		}
		if a.IsNil() || b.IsNil() {
			return false
		}
		return valuesEqual(a.Elem(), b.Elem())
	case reflect.Slice, reflect.Array:
		if a.Kind() == reflect.Slice && a.IsNil() != b.IsNil() {
			return a.Len() == 0 && b.Len() == 0
		}
		if a.Len() != b.Len() {
			return false
		}
		for i := 0; i < a.Len(); i++ {
			if !valuesEqual(a.Index(i), b.Index(i)) {
				return false
			}
		}
		return true
	case reflect.Map:
		if a.Len() != b.Len() {
			return false
		}
		iter := a.MapRange()
		for iter.Next() {
			other := b.MapIndex(iter.Key())
			if !other.IsValid() || !valuesEqual(iter.Value(), other) {
				return false
			}
		}
		return true
	case reflect.Struct:
		for i := 0; i < a.NumField(); i++ {
			if !valuesEqual(a.Field(i), b.Field(i)) {
				return false
			}
		}
		return true
	}

	return scalarsEqual(a, b)
}

// scalarsEqual compares values of the remaining kinds through their typed
// accessors, which also work on unexported struct fields.
func scalarsEqual(a, b reflect.Value) bool {
	switch a.Kind() {
	case reflect.Bool:
		return a.Bool() == b.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return a.Int() == b.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return a.Uint() == b.Uint()
	case reflect.Float32, reflect.Float64:
		return a.Float() == b.Float()
	case reflect.Complex64, reflect.Complex128:
		return a.Complex() == b.Complex()
	case reflect.String:
		return a.String() == b.String()
	case reflect.Chan, reflect.UnsafePointer:
		return a.Pointer() == b.Pointer()
	}
	return false
}
