package vtest

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"golang.org/x/net/html"

	"github.com/vango-dev/vangotest/pkg/dom"
	"github.com/vango-dev/vangotest/pkg/host"
	"github.com/vango-dev/vangotest/pkg/vdom"
)

// fakeNode is a host.Node without a double buffer. next, when set, is the
// revision a fakeResolver reports as committed.
type fakeNode struct {
	tag     host.FiberTag
	typ     vdom.ElementType
	props   vdom.Props
	text    string
	child   *fakeNode
	sibling *fakeNode
	dom     *html.Node
	next    *fakeNode
}

func (f *fakeNode) Tag() host.FiberTag     { return f.tag }
func (f *fakeNode) Type() vdom.ElementType { return f.typ }
func (f *fakeNode) Props() vdom.Props      { return f.props }
func (f *fakeNode) Text() string           { return f.text }
func (f *fakeNode) StateNode() *html.Node  { return f.dom }

func (f *fakeNode) Child() host.Node {
	if f.child == nil {
		return nil
	}
	return f.child
}

func (f *fakeNode) Sibling() host.Node {
	if f.sibling == nil {
		return nil
	}
	return f.sibling
}

type fakeResolver struct{}

func (fakeResolver) CurrentRevision(n host.Node) host.Node {
	if f, ok := n.(*fakeNode); ok && f.next != nil {
		return f.next
	}
	return n
}

func hostNode(tag string, props vdom.Props, children ...*fakeNode) *fakeNode {
	n := &fakeNode{tag: host.TagHostComponent, typ: vdom.Tag(tag), props: props, dom: dom.CreateElement(tag)}
	linkChildren(n, children)
	return n
}

func textNode(s string) *fakeNode {
	return &fakeNode{tag: host.TagHostText, text: s, dom: dom.CreateText(s)}
}

func linkChildren(parent *fakeNode, children []*fakeNode) {
	for i, c := range children {
		if i == 0 {
			parent.child = c
		} else {
			children[i-1].sibling = c
		}
	}
}

// shape describes a snapshot from its own fields only, never the live DOM.
func shape(e *Element) string {
	var sb strings.Builder
	var walk func(*Element)
	walk = func(e *Element) {
		sb.WriteString(e.String())
		sb.WriteString("[")
		for _, c := range e.ChildNodes() {
			if c.IsText() {
				sb.WriteString("'" + c.Text() + "'")
				continue
			}
			walk(c.Element())
		}
		sb.WriteString("]")
	}
	walk(e)
	return sb.String()
}

// preOrder rebuilds the descendants of e from its children.
func preOrder(e *Element) []*Element {
	var out []*Element
	for _, c := range e.Children() {
		out = append(out, c)
		out = append(out, preOrder(c)...)
	}
	return out
}

func TestBuildNil(t *testing.T) {
	b := &builder{resolver: fakeResolver{}}
	children, descendants := b.build(nil)
	if len(children) != 0 || len(descendants) != 0 {
		t.Fatalf("build(nil) = %v, %v; want empty", children, descendants)
	}
	if el := b.element(nil); el != nil {
		t.Fatalf("element(nil) = %v, want nil", el)
	}
}

func TestBuildCopiesProps(t *testing.T) {
	props := vdom.Props{"label": "Hi"}
	b := &builder{resolver: fakeResolver{}}
	el := b.element(hostNode("div", props))

	props["label"] = "Bye"
	props["extra"] = true
	if got := el.Prop("label"); got != "Hi" {
		t.Errorf("Prop(label) = %v after the source changed, want Hi", got)
	}
	if el.HasProp("extra") {
		t.Error("snapshot picked up a prop added to the source")
	}

	el.Props()["label"] = "Mutated"
	if got := el.Prop("label"); got != "Hi" {
		t.Errorf("Prop(label) = %v after mutating Props(), want Hi", got)
	}
}

func TestBuildFollowsCommittedRevision(t *testing.T) {
	stale := hostNode("ul", nil, hostNode("li", vdom.Props{"n": 1}, textNode("old")))
	committed := hostNode("ul", nil,
		hostNode("li", vdom.Props{"n": 1}, textNode("new")),
		hostNode("li", vdom.Props{"n": 2}),
	)
	stale.next = committed

	b := &builder{resolver: fakeResolver{}}
	el := b.element(stale)
	if got, want := shape(el), "<ul />[<li />['new']<li />[]]"; got != want {
		t.Fatalf("shape = %s, want %s", got, want)
	}
}

func TestBuildFollowsRendererRevision(t *testing.T) {
	r := host.NewRenderer(dom.CreateElement("div"),
		host.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	t.Cleanup(r.Close)
	r.Render(counter.New())

	var stale host.Node
	for n := r.Current().Child(); n != nil; n = n.Child() {
		if n.Tag() == host.TagHostComponent {
			stale = n
			break
		}
	}
	if stale == nil {
		t.Fatal("button not rendered")
	}
	r.Act(stale.Props()["onclick"].(func()))

	if r.CurrentRevision(stale) == stale {
		t.Fatal("click did not produce a new revision")
	}
	b := &builder{resolver: r}
	el := b.element(stale)
	if got, want := shape(el), "<button />['100']"; got != want {
		t.Fatalf("shape = %s, want %s", got, want)
	}
}

func TestSnapshotInvariants(t *testing.T) {
	tests := []struct {
		name string
		tree *vdom.VNode
	}{
		{"host element", vdom.Div(vdom.Prop("label", "Hi"))},
		{"component", counter.New()},
		{"nested list", list.New()},
		{"fragment", vdom.Div(twoSpans.New(), vdom.Fragment(vdom.Key("k"), vdom.P("x")))},
		{"toggle", toggle.New()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, _ := mountIsolated(t, t, tt.tree)

			var check func(e *Element)
			check = func(e *Element) {
				got, want := e.Descendants(), preOrder(e)
				if len(got) != len(want) {
					t.Fatalf("%s: %d descendants, want %d", e, len(got), len(want))
				}
				for i := range got {
					if got[i] != want[i] {
						t.Fatalf("%s: descendant %d = %s, want %s", e, i, got[i], want[i])
					}
				}
				for _, c := range e.Children() {
					check(c)
				}
			}
			snap := root.Snapshot()
			check(snap)

			seen := make(map[*html.Node]*Element)
			for _, e := range append([]*Element{snap}, snap.Descendants()...) {
				inst := e.Instance()
				if inst == nil {
					continue
				}
				if prev, ok := seen[inst]; ok {
					t.Fatalf("%s and %s share a platform node", prev, e)
				}
				seen[inst] = e
			}
		})
	}
}

func TestSnapshotSurvivesResync(t *testing.T) {
	root, _ := mountIsolated(t, t, toggle.New())

	before := root.Snapshot()
	beforeShape := shape(before)
	beforeCount := len(before.Descendants())

	root.Find(ByTag("button")).Trigger("onclick")

	after := root.Snapshot()
	if after == before {
		t.Fatal("resync reused the previous snapshot")
	}
	if got := shape(before); got != beforeShape {
		t.Errorf("captured snapshot changed:\n got  %s\n want %s", got, beforeShape)
	}
	if got := len(before.Descendants()); got != beforeCount {
		t.Errorf("captured snapshot has %d descendants, want %d", got, beforeCount)
	}
	if got := len(before.FindAll(ByTag("li"))); got != 0 {
		t.Errorf("captured snapshot has %d li, want 0", got)
	}
	if got := len(after.FindAll(ByTag("li"))); got != 2 {
		t.Errorf("new snapshot has %d li, want 2", got)
	}
}
