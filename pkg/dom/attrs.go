package dom

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"

	"golang.org/x/net/html"

	"github.com/vango-dev/vangotest/pkg/vdom"
)

// AttrValue converts a prop value to its attribute form. The second result
// is false when the prop must not appear as an attribute: functions,
// maps, slices, false booleans and nil.
func AttrValue(v any) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "", false
	case string:
		return val, true
	case bool:
		return "", val
	case int:
		return strconv.Itoa(val), true
	case int64:
		return strconv.FormatInt(val, 10), true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case fmt.Stringer:
		return val.String(), true
	}

	switch reflect.TypeOf(v).Kind() {
	case reflect.Func, reflect.Map, reflect.Slice, reflect.Struct, reflect.Chan, reflect.Pointer:
		return "", false
	default:
		return fmt.Sprint(v), true
	}
}

// SyncAttributes sets n's attributes from props in sorted key order,
// dropping attributes that are no longer present. The children prop is
// never an attribute.
func SyncAttributes(n *html.Node, props vdom.Props) {
	if n == nil || n.Type != html.ElementNode {
		return
	}

	keys := make([]string, 0, len(props))
	for k := range props {
		if k == vdom.ChildrenProp || k == "key" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	attrs := make([]html.Attribute, 0, len(keys))
	for _, k := range keys {
		val, ok := AttrValue(props[k])
		if !ok {
			continue
		}
		attrs = append(attrs, html.Attribute{Key: k, Val: val})
	}
	n.Attr = attrs
}

// GetAttribute returns the value of attribute key on n.
func GetAttribute(n *html.Node, key string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}
