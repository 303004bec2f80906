package vtest

import (
	"reflect"
	"unsafe"

	"github.com/vango-dev/vangotest/pkg/render"
	"github.com/vango-dev/vangotest/pkg/vdom"
)

// Matcher selects snapshot elements. The implementations are ByType (and
// its ByTag and ByComponent shorthands), Where, Like and Template.
type Matcher interface {
	// Match reports whether e satisfies the matcher.
	Match(e *Element) bool

	// String describes the matcher for failure messages.
	String() string

	sealed()
}

// typeMatcher matches on type alone.
type typeMatcher struct {
	typ vdom.ElementType
}

// predicateMatcher matches with a caller-supplied function.
type predicateMatcher struct {
	pred func(*Element) bool
}

// templateMatcher matches on type and a one-directional props subset.
type templateMatcher struct {
	typ      vdom.ElementType
	props    vdom.Props
	anyProps bool
}

// ByType matches elements whose type equals t, ignoring props.
func ByType(t vdom.ElementType) Matcher { return typeMatcher{typ: t} }

// ByTag matches host elements with the given tag.
func ByTag(tag string) Matcher { return typeMatcher{typ: vdom.Tag(tag)} }

// ByComponent matches elements rendered by def.
func ByComponent(def *vdom.ComponentDef) Matcher { return typeMatcher{typ: def} }

// Where matches elements for which pred returns true. Panics in pred
// propagate to the caller.
func Where(pred func(*Element) bool) Matcher { return predicateMatcher{pred: pred} }

// AnyProps is the template props marker that matches any props.
var AnyProps = vdom.Props{anyPropsKey: anyPropsMarker{}}

const anyPropsKey = "\x00any"

type anyPropsMarker struct{}

func isAnyProps(p vdom.Props) bool {
	_, ok := p[anyPropsKey].(anyPropsMarker)
	return ok
}

// Template matches elements of type t whose props contain every entry of
// props. The children prop is ignored. Passing AnyProps matches on type
// alone.
func Template(t vdom.ElementType, props vdom.Props) Matcher {
	if isAnyProps(props) {
		return templateMatcher{typ: t, anyProps: true}
	}
	return templateMatcher{typ: t, props: props.Clone()}
}

// Like builds a template from a vnode: its type and props.
func Like(node *vdom.VNode) Matcher {
	if node == nil {
		return templateMatcher{props: vdom.Props{}}
	}
	return Template(node.Type(), node.Props)
}

func (typeMatcher) sealed()      {}
func (predicateMatcher) sealed() {}
func (templateMatcher) sealed()  {}

func (m typeMatcher) Match(e *Element) bool {
	return e.typ == m.typ
}

func (m predicateMatcher) Match(e *Element) bool {
	return m.pred(e)
}

func (m templateMatcher) Match(e *Element) bool {
	if e.typ != m.typ {
		return false
	}
	if m.anyProps {
		return true
	}
	return propsSubset(m.props, e.props)
}

func (m typeMatcher) String() string { return typeName(m.typ) }

func (predicateMatcher) String() string { return "predicate" }

func (m templateMatcher) String() string {
	if m.anyProps {
		return typeName(m.typ)
	}
	return render.Signature(typeNameBare(m.typ), m.props)
}

func typeName(t vdom.ElementType) string {
	return "<" + typeNameBare(t) + " />"
}

func typeNameBare(t vdom.ElementType) string {
	if t == nil {
		return "Fragment"
	}
	return t.TypeName()
}

// asTemplate turns a type matcher into a template matching any props.
func asTemplate(m Matcher) Matcher {
	if tm, ok := m.(typeMatcher); ok {
		return templateMatcher{typ: tm.typ, anyProps: true}
	}
	return m
}

// propsSubset reports whether every entry of want, except children, is
// present in got with a shallowly equal value.
func propsSubset(want, got vdom.Props) bool {
	for k, v := range want {
		if k == vdom.ChildrenProp {
			continue
		}
		actual, ok := got[k]
		if !ok || !shallowEqual(v, actual) {
			return false
		}
	}
	return true
}

// shallowEqual compares like ===: == for comparable values, identity for
// functions, maps, slices, channels and pointers.
func shallowEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}

	switch va.Kind() {
	case reflect.Func:
		if va.IsNil() || vb.IsNil() {
			return va.IsNil() && vb.IsNil()
		}
		return funcIdentity(a) == funcIdentity(b)
	case reflect.Map, reflect.Chan, reflect.Pointer, reflect.UnsafePointer:
		return va.Pointer() == vb.Pointer()
	case reflect.Slice:
		return va.Pointer() == vb.Pointer() && va.Len() == vb.Len()
	}

	if !va.Type().Comparable() {
		return false
	}
	return safeCompare(a, b)
}

// safeCompare applies == to values whose static type is comparable but
// whose dynamic contents may not be (structs holding interfaces).
func safeCompare(a, b any) (eq bool) {
	defer func() {
		if recover() != nil {
			eq = false
		}
	}()
	return a == b
}

// funcIdentity returns the closure pointer of a func stored in an
// interface. reflect.Value.Pointer only exposes the code pointer, which
// closures created by the same literal share.
func funcIdentity(fn any) unsafe.Pointer {
	type eface struct {
		typ  unsafe.Pointer
		data unsafe.Pointer
	}
	return (*eface)(unsafe.Pointer(&fn)).data
}
