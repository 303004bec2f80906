package render

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/vango-dev/vangotest/pkg/vdom"
)

// Signature prints a node as a self-closing tag with its props, the form
// used in assertion messages:
//
//	<SearchFor aProp="foo" />
//
// Children are omitted. Functions print as {fn}.
func Signature(name string, props vdom.Props) string {
	var sb strings.Builder
	sb.WriteString("<")
	sb.WriteString(name)

	keys := make([]string, 0, len(props))
	for k := range props {
		if k == vdom.ChildrenProp {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		sb.WriteString(" ")
		sb.WriteString(k)
		sb.WriteString("=")
		sb.WriteString(FormatValue(props[k]))
	}
	sb.WriteString(" />")
	return sb.String()
}

// FormatValue prints a prop value: strings quoted, functions as {fn},
// everything else in braces.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "{nil}"
	case string:
		return fmt.Sprintf("%q", val)
	}
	if reflect.TypeOf(v).Kind() == reflect.Func {
		return "{fn}"
	}
	return fmt.Sprintf("{%v}", v)
}
