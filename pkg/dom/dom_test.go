package dom

import (
	"testing"

	"golang.org/x/net/html"

	"github.com/vango-dev/vangotest/pkg/vdom"
)

func TestSyncAttributes(t *testing.T) {
	n := CreateElement("button")
	SyncAttributes(n, vdom.Props{
		"class":    "primary",
		"disabled": true,
		"hidden":   false,
		"onclick":  func() {},
		"tabindex": 3,
		"children": []*vdom.VNode{vdom.Text("x")},
	})

	got := OuterHTML(n)
	want := `<button class="primary" disabled="" tabindex="3"></button>`
	if got != want {
		t.Fatalf("OuterHTML() = %q, want %q", got, want)
	}

	SyncAttributes(n, vdom.Props{"class": "secondary"})
	if v, ok := GetAttribute(n, "class"); !ok || v != "secondary" {
		t.Fatalf("class = %q (%v), want secondary", v, ok)
	}
	if _, ok := GetAttribute(n, "disabled"); ok {
		t.Fatalf("stale attribute kept")
	}
}

func TestTextAndMarkup(t *testing.T) {
	div := CreateElement("div")
	span := CreateElement("span")
	span.AppendChild(CreateText("Hello"))
	div.AppendChild(span)
	div.AppendChild(CreateText(" <World>"))

	if got := TextContent(div); got != "Hello <World>" {
		t.Errorf("TextContent() = %q", got)
	}
	if got := InnerHTML(div); got != "<span>Hello</span> &lt;World&gt;" {
		t.Errorf("InnerHTML() = %q", got)
	}
	if got := OuterHTML(div); got != "<div><span>Hello</span> &lt;World&gt;</div>" {
		t.Errorf("OuterHTML() = %q", got)
	}
	if TextContent(nil) != "" || InnerHTML(nil) != "" || OuterHTML(nil) != "" {
		t.Errorf("nil node should yield empty strings")
	}
}

func TestReplaceChildren(t *testing.T) {
	parent := CreateElement("ul")
	a, b, c := CreateElement("li"), CreateElement("li"), CreateElement("li")
	a.AppendChild(CreateText("a"))
	b.AppendChild(CreateText("b"))
	c.AppendChild(CreateText("c"))

	ReplaceChildren(parent, []*html.Node{a, b})
	if got := TextContent(parent); got != "ab" {
		t.Fatalf("after first replace = %q", got)
	}

	ReplaceChildren(parent, []*html.Node{c, a})
	if got := TextContent(parent); got != "ca" {
		t.Fatalf("after reorder = %q", got)
	}
	if b.Parent != nil {
		t.Fatalf("removed child still attached")
	}

	ReplaceChildren(parent, nil)
	if parent.FirstChild != nil {
		t.Fatalf("children not cleared")
	}
}

func TestDocumentContainers(t *testing.T) {
	doc := NewDocument()
	c1 := doc.NewContainer()
	c2 := doc.NewContainer()

	if doc.ContainerCount() != 2 {
		t.Fatalf("ContainerCount() = %d, want 2", doc.ContainerCount())
	}
	if !doc.Contains(c1) {
		t.Fatalf("c1 not attached")
	}

	doc.RemoveContainer(c1)
	doc.RemoveContainer(c1)
	if doc.Contains(c1) || !doc.Contains(c2) {
		t.Fatalf("RemoveContainer detached the wrong node")
	}
	if got := doc.HTML(); got != "<html><head></head><body><div></div></body></html>" {
		t.Fatalf("HTML() = %q", got)
	}
}
