// Package markup builds element tree from HTML token stream.
package markup

import "strings"

type NodeType int

const (
	ElementNode NodeType = iota
	TextNode
)

// Node is element or text. Text nodes have no children, elements have no
// text.
type Node struct {
	Type       NodeType
	TagName    string
	Attributes map[string]string
	Text       string
	Children   []*Node
	Parent     *Node
}

// Document is the result of parsing: synthetic root element, content of all
// style blocks in document order and document title.
type Document struct {
	Root        *Node
	Stylesheets []string
	Title       string
}

func NewDocument() *Document {
	return &Document{
		Root: &Node{Type: ElementNode, TagName: "document"},
	}
}

// Attribute returns trimmed attribute value.
func (n *Node) Attribute(name string) (string, bool) {
	if n.Attributes == nil {
		return "", false
	}
	val, ok := n.Attributes[name]
	return strings.TrimSpace(val), ok
}

// ID returns value of id attribute.
func (n *Node) ID() string {
	id, _ := n.Attribute("id")
	return id
}

// Class returns the first token of class attribute, others are ignored.
func (n *Node) Class() string {
	class, _ := n.Attribute("class")
	if fields := strings.Fields(class); len(fields) > 0 {
		return fields[0]
	}
	return ""
}

func (n *Node) AddChild(child *Node) {
	child.Parent = n
	n.Children = append(n.Children, child)
}

func (n *Node) IsElement(tag string) bool {
	return n.Type == ElementNode && n.TagName == tag
}
