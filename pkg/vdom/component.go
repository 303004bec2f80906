package vdom

// ComponentDef is a named render function. A *ComponentDef is the type
// identity of every node it renders, so it must be defined once (usually
// as a package-level variable) and reused.
type ComponentDef struct {
	name   string
	render func(Props) *VNode
}

// Define creates a component definition.
func Define(name string, render func(props Props) *VNode) *ComponentDef {
	return &ComponentDef{name: name, render: render}
}

// Name returns the component's display name.
func (c *ComponentDef) Name() string {
	return c.name
}

// TypeName implements ElementType.
func (c *ComponentDef) TypeName() string {
	return c.name
}

// Render invokes the render function.
func (c *ComponentDef) Render(props Props) *VNode {
	if c.render == nil {
		return nil
	}
	return c.render(props)
}

// New creates a KindComponent node referencing c. Arguments are handled as
// for elements; child nodes end up under ChildrenProp.
func (c *ComponentDef) New(args ...any) *VNode {
	node := &VNode{
		Kind:  KindComponent,
		Comp:  c,
		Props: make(Props),
	}

	var children []*VNode
	applyArgs(node, args, &children)
	if len(children) > 0 {
		node.Props[ChildrenProp] = children
	}
	return node
}

// WithProps returns a component node for c with the given props map.
// The map is copied.
func (c *ComponentDef) WithProps(props Props) *VNode {
	node := &VNode{
		Kind:  KindComponent,
		Comp:  c,
		Props: props.Clone(),
	}
	if key, ok := node.Props["key"].(string); ok {
		node.Key = key
	}
	return node
}
