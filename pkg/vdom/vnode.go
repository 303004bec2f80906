package vdom

// VKind is the node type discriminator.
type VKind uint8

const (
	KindElement   VKind = iota // <div>, <button>, etc.
	KindText                   // Plain text node
	KindFragment               // Grouping without wrapper
	KindComponent              // Reference to a ComponentDef
)

// String returns the string representation of the VKind.
func (k VKind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindFragment:
		return "Fragment"
	case KindComponent:
		return "Component"
	default:
		return "Unknown"
	}
}

// ChildrenProp is the reserved prop holding the child nodes passed to a
// component.
const ChildrenProp = "children"

// VNode is the virtual DOM node.
type VNode struct {
	Kind     VKind         // Node type
	Tag      string        // Element tag name (e.g., "div")
	Props    Props         // Attributes, event handlers or component props
	Children []*VNode      // Child nodes (elements and fragments)
	Key      string        // Reconciliation key
	Text     string        // For KindText
	Comp     *ComponentDef // For KindComponent
}

// Type returns the identity used to match this node: a Tag for elements,
// the ComponentDef for components and nil for text and fragments.
func (v *VNode) Type() ElementType {
	if v == nil {
		return nil
	}
	switch v.Kind {
	case KindElement:
		return Tag(v.Tag)
	case KindComponent:
		if v.Comp == nil {
			return nil
		}
		return v.Comp
	default:
		return nil
	}
}

// IsInteractive returns true if this node has event handlers.
func (v *VNode) IsInteractive() bool {
	if v == nil || v.Kind != KindElement {
		return false
	}
	for key := range v.Props {
		if IsEventProp(key) {
			return true
		}
	}
	return false
}

// Props holds attributes and event handlers.
type Props map[string]any

// Clone returns a shallow copy of p. A nil map clones to an empty one.
func (p Props) Clone() Props {
	out := make(Props, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Merge returns a copy of p with every key of other applied on top.
func (p Props) Merge(other Props) Props {
	out := p.Clone()
	for k, v := range other {
		out[k] = v
	}
	return out
}

// Children returns the child nodes stored under ChildrenProp.
func (p Props) Children() []*VNode {
	switch v := p[ChildrenProp].(type) {
	case []*VNode:
		return v
	case *VNode:
		if v != nil {
			return []*VNode{v}
		}
	}
	return nil
}

// String returns the string value of key, or "" when absent or not a string.
func (p Props) String(key string) string {
	s, _ := p[key].(string)
	return s
}

// Bool returns the bool value of key, or false when absent or not a bool.
func (p Props) Bool(key string) bool {
	b, _ := p[key].(bool)
	return b
}

// Attr represents a single attribute.
type Attr struct {
	Key   string
	Value any
}

// IsEmpty returns true if this is an empty/nil attribute.
func (a Attr) IsEmpty() bool {
	return a.Key == ""
}

// EventHandler represents an event handler.
type EventHandler struct {
	Event   string // "onclick", "oninput", etc.
	Handler any    // Function to call
}

// ElementType identifies what a node is: a Tag for host elements or a
// *ComponentDef for components. Values are comparable with ==.
type ElementType interface {
	TypeName() string
}

// Tag is the ElementType of host elements.
type Tag string

// TypeName implements ElementType.
func (t Tag) TypeName() string {
	return string(t)
}
