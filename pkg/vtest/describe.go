package vtest

import (
	"encoding/json"
	"sort"

	"github.com/vango-dev/vangotest/pkg/render"
	"github.com/vango-dev/vangotest/pkg/vdom"
)

// Description is a serializable view of an element subtree. Prop values
// are printed rather than encoded so functions and cycles survive.
type Description struct {
	Type     string            `json:"type"`
	Kind     string            `json:"kind"`
	Props    map[string]string `json:"props,omitempty"`
	Text     string            `json:"text,omitempty"`
	Children []Description     `json:"children,omitempty"`
}

// Describe returns the description of e and its children.
func Describe(e *Element) Description {
	d := Description{
		Type: typeNameBare(e.typ),
		Kind: e.kind.String(),
	}
	if len(e.props) > 0 {
		keys := make([]string, 0, len(e.props))
		for k := range e.props {
			if k != vdom.ChildrenProp {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)
		for _, k := range keys {
			if d.Props == nil {
				d.Props = make(map[string]string, len(keys))
			}
			d.Props[k] = render.FormatValue(e.props[k])
		}
	}
	for _, c := range e.children {
		if c.elem == nil {
			d.Children = append(d.Children, Description{Kind: "Text", Text: c.text})
			continue
		}
		d.Children = append(d.Children, Describe(c.elem))
	}
	return d
}

// DescribeJSON returns the indented JSON description of e.
func DescribeJSON(e *Element) ([]byte, error) {
	return json.MarshalIndent(Describe(e), "", "  ")
}
