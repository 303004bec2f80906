package vtest

import (
	"strings"
	"testing"

	"github.com/vango-dev/vangotest/pkg/render"
	"github.com/vango-dev/vangotest/pkg/vdom"
)

// Static renders node to HTML without mounting it. Components render once
// under a throwaway owner, so effects never run and signals keep their
// initial values.
//
// Example:
//
//	html := vtest.Static(Greeting.New(vdom.Prop("name", "Ada")))
func Static(node *vdom.VNode) string {
	r := render.NewRenderer(render.RendererConfig{})
	out, err := r.RenderToString(node)
	if err != nil {
		return ""
	}
	return out
}

// ExpectStaticContains asserts that the static rendering of node contains
// substr.
func ExpectStaticContains(t testing.TB, node *vdom.VNode, substr string) {
	t.Helper()
	out := Static(node)
	if !strings.Contains(out, substr) {
		t.Errorf("expected static render to contain %q, got:\n%s", substr, truncate(out, 500))
	}
}

// ExpectStaticNotContains asserts that the static rendering of node does
// not contain substr.
func ExpectStaticNotContains(t testing.TB, node *vdom.VNode, substr string) {
	t.Helper()
	out := Static(node)
	if strings.Contains(out, substr) {
		t.Errorf("expected static render to NOT contain %q, got:\n%s", substr, truncate(out, 500))
	}
}

// ExpectStaticTag asserts that the static rendering of node has an
// element with the given tag.
func ExpectStaticTag(t testing.TB, node *vdom.VNode, tag string) {
	t.Helper()
	out := Static(node)
	if !strings.Contains(out, "<"+tag+">") && !strings.Contains(out, "<"+tag+" ") {
		t.Errorf("expected static render to contain <%s>, got:\n%s", tag, truncate(out, 500))
	}
}

// ExpectStaticAttr asserts that the static rendering of node carries
// attr="value".
func ExpectStaticAttr(t testing.TB, node *vdom.VNode, attr, value string) {
	t.Helper()
	out := Static(node)
	needle := attr + `="` + render.EscapeAttr(value) + `"`
	if !strings.Contains(out, needle) {
		t.Errorf("expected attribute %s=%q not found, got:\n%s", attr, value, truncate(out, 500))
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
