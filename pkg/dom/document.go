package dom

import (
	"sync"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Document is a headless HTML document. Containers may be added and
// removed from multiple goroutines; the subtree under each container is
// owned by a single host.
type Document struct {
	mu   sync.Mutex
	root *html.Node
	body *html.Node
}

// NewDocument creates an empty document.
func NewDocument() *Document {
	root := &html.Node{Type: html.DocumentNode}
	htmlEl := CreateElement("html")
	head := CreateElement("head")
	body := CreateElement("body")
	htmlEl.AppendChild(head)
	htmlEl.AppendChild(body)
	root.AppendChild(htmlEl)
	return &Document{root: root, body: body}
}

var (
	defaultDoc     *Document
	defaultDocOnce sync.Once
)

// Default returns the process-wide document shared by mounted instances.
func Default() *Document {
	defaultDocOnce.Do(func() {
		defaultDoc = NewDocument()
	})
	return defaultDoc
}

// Body returns the body element.
func (d *Document) Body() *html.Node {
	return d.body
}

// NewContainer appends a fresh <div> to the body and returns it.
func (d *Document) NewContainer() *html.Node {
	c := CreateElement("div")
	d.mu.Lock()
	d.body.AppendChild(c)
	d.mu.Unlock()
	return c
}

// RemoveContainer detaches c from the body. Detached containers are
// ignored.
func (d *Document) RemoveContainer(c *html.Node) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if c != nil && c.Parent == d.body {
		d.body.RemoveChild(c)
	}
}

// Contains reports whether n is currently attached under the body.
func (d *Document) Contains(n *html.Node) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	for cur := n; cur != nil; cur = cur.Parent {
		if cur == d.body {
			return true
		}
	}
	return false
}

// ContainerCount returns the number of containers attached to the body.
func (d *Document) ContainerCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for c := d.body.FirstChild; c != nil; c = c.NextSibling {
		n++
	}
	return n
}

// HTML renders the whole document.
func (d *Document) HTML() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return OuterHTML(d.root)
}

// CreateElement creates a detached element node.
func CreateElement(tag string) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
}

// CreateText creates a detached text node.
func CreateText(text string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: text}
}

// SetText replaces the data of a text node.
func SetText(n *html.Node, text string) {
	if n != nil && n.Type == html.TextNode {
		n.Data = text
	}
}

// Detach removes n from its parent, if any.
func Detach(n *html.Node) {
	if n != nil && n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// ReplaceChildren makes children the exact child list of parent, in order.
// Nodes already in place are left attached.
func ReplaceChildren(parent *html.Node, children []*html.Node) {
	if parent == nil {
		return
	}

	keep := make(map[*html.Node]bool, len(children))
	for _, c := range children {
		keep[c] = true
	}
	for c := parent.FirstChild; c != nil; {
		next := c.NextSibling
		if !keep[c] {
			parent.RemoveChild(c)
		}
		c = next
	}

	cur := parent.FirstChild
	for _, c := range children {
		if c == cur {
			cur = cur.NextSibling
			continue
		}
		Detach(c)
		if cur == nil {
			parent.AppendChild(c)
		} else {
			parent.InsertBefore(c, cur)
		}
	}
}
