package vtest

import (
	"fmt"
	"strings"
	"testing"

	"github.com/vango-dev/vangotest/internal/errors"
	"github.com/vango-dev/vangotest/pkg/vdom"
)

var list = vdom.Define("List", func(props vdom.Props) *vdom.VNode {
	return vdom.Ul(vdom.ID("items"),
		vdom.Li(vdom.Class("first"), "one"),
		vdom.Li(searchFor.New(vdom.Prop("aProp", "nested"))),
		vdom.Li(vdom.Class("last"), "three"),
	)
})

var handlers = vdom.Define("Handlers", func(props vdom.Props) *vdom.VNode {
	return vdom.Button(
		vdom.Prop("label", "not a function"),
		vdom.Prop("ondouble", func(n int) int { return n * 2 }),
		vdom.Prop("onjoin", func(a, b string) (string, error) { return a + b, nil }),
		vdom.Prop("onsum", func(xs ...int) int {
			total := 0
			for _, x := range xs {
				total += x
			}
			return total
		}),
		vdom.Prop("onwide", func(n int64) int64 { return n + 1 }),
		vdom.Prop("onevent", func(ev *struct{ Name string }) string {
			if ev == nil {
				return "none"
			}
			return ev.Name
		}),
		"go",
	)
})

func TestFindReturnsPreOrder(t *testing.T) {
	root, _ := mountIsolated(t, t, list.New())

	items := root.FindAll(ByTag("li"))
	if len(items) != 3 {
		t.Fatalf("FindAll(li) returned %d, want 3", len(items))
	}
	if got := items[0].Prop("class"); got != "first" {
		t.Errorf("first li class = %v", got)
	}
	if got := root.Find(ByTag("li")); got != items[0] {
		t.Error("Find should return the first FindAll result")
	}

	var types []string
	for _, d := range root.Descendants() {
		types = append(types, typeNameBare(d.Type()))
	}
	want := "ul li li SearchFor span li"
	if got := strings.Join(types, " "); got != want {
		t.Errorf("descendant order = %q, want %q", got, want)
	}
}

func TestFindExcludesSelf(t *testing.T) {
	root, _ := mountIsolated(t, t, list.New())

	if root.Find(ByComponent(list)) != nil {
		t.Error("Find should not return the element it is called on")
	}
	ul := root.Find(ByTag("ul"))
	if ul.Find(ByTag("ul")) != nil {
		t.Error("ul.Find(ul) should be nil")
	}
	if !ul.Is(ByTag("ul")) {
		t.Error("ul.Is(ul) should be true")
	}
}

func TestFindWhere(t *testing.T) {
	root, _ := mountIsolated(t, t, list.New())

	last := root.FindWhere(func(e *Element) bool { return e.Prop("class") == "last" })
	if last == nil || last.Text() != "three" {
		t.Fatalf("FindWhere(class=last) = %v", last)
	}

	hosts := root.FindAllWhere(func(e *Element) bool { return e.IsDOM() })
	if len(hosts) != 5 {
		t.Errorf("FindAllWhere(IsDOM) returned %d, want 5", len(hosts))
	}

	if got := root.FindAllWhere(func(*Element) bool { return false }); len(got) != 0 {
		t.Errorf("FindAllWhere(false) returned %d", len(got))
	}
}

func TestPredicatePanicsPropagate(t *testing.T) {
	root, _ := mountIsolated(t, t, list.New())

	defer func() {
		if p := recover(); p != "boom" {
			t.Errorf("recovered %v, want boom", p)
		}
	}()
	root.FindWhere(func(*Element) bool { panic("boom") })
}

func TestContainsMatchesFindWhere(t *testing.T) {
	root, _ := mountIsolated(t, t, list.New())

	matchers := []Matcher{
		ByTag("li"),
		ByTag("table"),
		ByComponent(searchFor),
		Like(searchFor.New(vdom.Prop("aProp", "nested"))),
		Like(searchFor.New(vdom.Prop("aProp", "other"))),
		Template(vdom.Tag("li"), vdom.Props{"class": "last"}),
		Template(vdom.Tag("li"), AnyProps),
	}
	for _, m := range matchers {
		want := root.FindWhere(asTemplate(m).Match) != nil
		if got := root.Contains(m); got != want {
			t.Errorf("Contains(%s) = %v, FindWhere = %v", m, got, want)
		}
	}
}

func TestIsComparesTypeOrTemplate(t *testing.T) {
	root, _ := mountIsolated(t, t, vdom.Div(vdom.Prop("label", "Hi"), vdom.Class("box")))

	tests := []struct {
		name string
		m    Matcher
		want bool
	}{
		{"type", ByTag("div"), true},
		{"other type", ByTag("span"), false},
		{"subset template", Template(vdom.Tag("div"), vdom.Props{"label": "Hi"}), true},
		{"full template", Like(vdom.Div(vdom.Prop("label", "Hi"), vdom.Class("box"))), true},
		{"mismatched value", Template(vdom.Tag("div"), vdom.Props{"label": "Bye"}), false},
		{"extra key", Template(vdom.Tag("div"), vdom.Props{"title": "x"}), false},
		{"children ignored", Template(vdom.Tag("div"), vdom.Props{vdom.ChildrenProp: "whatever"}), true},
		{"predicate", Where(func(e *Element) bool { return e.HasProp("class") }), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := root.Is(tt.m); got != tt.want {
				t.Errorf("Is(%s) = %v, want %v", tt.m, got, tt.want)
			}
		})
	}
}

func TestTemplateComparesFunctionsByIdentity(t *testing.T) {
	fn := func() {}
	other := func() {}
	root, _ := mountIsolated(t, t, vdom.Div(vdom.Button(vdom.OnClick(fn))))

	if !root.Contains(Template(vdom.Tag("button"), vdom.Props{"onclick": fn})) {
		t.Error("same function should match")
	}
	if root.Contains(Template(vdom.Tag("button"), vdom.Props{"onclick": other})) {
		t.Error("different function should not match")
	}
}

func TestTrigger(t *testing.T) {
	root, _ := mountIsolated(t, t, handlers.New())
	button := root.Find(ByTag("button"))

	tests := []struct {
		prop string
		args []any
		want any
	}{
		{"ondouble", []any{21}, 42},
		{"onsum", []any{1, 2, 3}, 6},
		{"onsum", nil, 0},
		{"onwide", []any{1}, int64(2)},
		{"onevent", nil, "none"},
		{"onevent", []any{&struct{ Name string }{"click"}}, "click"},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s%v", tt.prop, tt.args), func(t *testing.T) {
			if got := button.Trigger(tt.prop, tt.args...); got != tt.want {
				t.Errorf("Trigger(%s) = %#v, want %#v", tt.prop, got, tt.want)
			}
		})
	}

	got, ok := button.Trigger("onjoin", "a", "b").([]any)
	if !ok || len(got) != 2 || got[0] != "ab" || got[1] != nil {
		t.Errorf("Trigger(onjoin) = %#v, want [ab <nil>]", got)
	}
}

func TestTriggerFailures(t *testing.T) {
	tb := newRecordingTB(t)
	root, _ := mountIsolated(t, tb, handlers.New())
	button := root.Find(ByTag("button"))

	tests := []struct {
		name string
		prop string
		args []any
		code string
	}{
		{"missing prop", "onmissing", nil, errors.CodeMissingProp},
		{"not a function", "label", nil, errors.CodePropNotFunction},
		{"too many arguments", "ondouble", []any{1, 2}, errors.CodeTriggerArgs},
		{"wrong argument type", "ondouble", []any{"x"}, errors.CodeTriggerArgs},
		{"nil for value type", "ondouble", []any{nil}, errors.CodeTriggerArgs},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectFatal(t, tb, tt.code, func() { button.Trigger(tt.prop, tt.args...) })
		})
	}

	expectFatal(t, tb, errors.CodeMissingProp, func() { root.Trigger("onclick") })
}

func TestElementKinds(t *testing.T) {
	root, _ := mountIsolated(t, t, list.New())

	tests := []struct {
		m    Matcher
		want Kind
	}{
		{ByTag("ul"), HostContainer},
		{ByTag("span"), HostLeaf},
		{ByComponent(searchFor), Component},
	}
	for _, tt := range tests {
		if got := root.Find(tt.m).Kind(); got != tt.want {
			t.Errorf("%s kind = %s, want %s", tt.m, got, tt.want)
		}
	}
	if root.Snapshot().Kind() != Component {
		t.Error("root should be a component element")
	}
	if root.Snapshot().Instance() != nil {
		t.Error("component elements have no platform node")
	}
}

func TestChildNodesKeepText(t *testing.T) {
	root, _ := mountIsolated(t, t, vdom.P("Hello ", vdom.Strong("there"), "!"))

	nodes := root.Snapshot().ChildNodes()
	if len(nodes) != 3 {
		t.Fatalf("ChildNodes() = %d, want 3", len(nodes))
	}
	if !nodes[0].IsText() || nodes[0].Text() != "Hello " {
		t.Errorf("child 0 = %+v", nodes[0])
	}
	if nodes[1].Element() == nil || !nodes[1].Element().Is(ByTag("strong")) {
		t.Errorf("child 1 should be <strong>")
	}
	if got := len(root.Children()); got != 1 {
		t.Errorf("Children() = %d, want 1", got)
	}
	if got := root.Text(); got != "Hello there!" {
		t.Errorf("Text() = %q", got)
	}
}

func TestComponentMarkup(t *testing.T) {
	root, _ := mountIsolated(t, t, vdom.Div(searchFor.New(vdom.Prop("aProp", "a<b"))))

	comp := root.Find(ByComponent(searchFor))
	if got, want := comp.HTML(), "<span>a&lt;b</span>"; got != want {
		t.Errorf("component HTML() = %q, want %q", got, want)
	}
	if got := comp.Text(); got != "a<b" {
		t.Errorf("component Text() = %q", got)
	}
	if got, want := root.Snapshot().HTML(), "<span>a&lt;b</span>"; got != want {
		t.Errorf("div HTML() = %q, want %q", got, want)
	}
	if got := comp.String(); got != "<SearchFor />" {
		t.Errorf("String() = %q", got)
	}
}

func TestKeyedFragmentIsTypelessElement(t *testing.T) {
	root, _ := mountIsolated(t, t, vdom.Div(
		vdom.Fragment(vdom.Key("group"), vdom.Span("a"), vdom.Span("b")),
		vdom.Fragment(vdom.Span("c")),
	))

	children := root.Children()
	if len(children) != 2 {
		t.Fatalf("Children() = %d, want keyed fragment plus flattened span", len(children))
	}
	if children[0].Type() != nil || children[0].String() != "<Fragment />" {
		t.Errorf("first child should be the keyed fragment, got %s", children[0])
	}
	if got := len(children[0].GetDOMNodes()); got != 2 {
		t.Errorf("fragment GetDOMNodes() = %d, want 2", got)
	}
	if !children[1].Is(ByTag("span")) {
		t.Errorf("second child = %s, want <span />", children[1])
	}
}
