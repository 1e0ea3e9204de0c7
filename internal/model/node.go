package model

import (
	"maps"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Attrs holds a node's attribute values.
type Attrs map[string]string

// Node is one immutable element of a document tree. Nodes are never changed
// after construction; edits produce new nodes that share unchanged subtrees.
type Node struct {
	typ     *NodeType
	attrs   Attrs
	content Fragment
	text    string
}

// Type returns the node's type.
func (n *Node) Type() *NodeType { return n.typ }

// Attr returns a single attribute value.
func (n *Node) Attr(name string) string { return n.attrs[name] }

// Attrs returns a copy of the node's attributes.
func (n *Node) Attrs() Attrs { return maps.Clone(n.attrs) }

// Content returns the node's children.
func (n *Node) Content() Fragment { return n.content }

// Text returns the text of a text node.
func (n *Node) Text() string { return n.text }

// IsText reports whether n is a text node.
func (n *Node) IsText() bool { return n.typ.IsText() }

// IsLeaf reports whether n's type can hold no content.
func (n *Node) IsLeaf() bool { return n.typ.IsLeaf() }

// ChildCount returns the number of direct children.
func (n *Node) ChildCount() int { return n.content.ChildCount() }

// Child returns the child at index i.
func (n *Node) Child(i int) *Node { return n.content.Child(i) }

// ForEach calls fn for every direct child with its offset inside n's content.
func (n *Node) ForEach(fn func(child *Node, offset, index int)) { n.content.ForEach(fn) }

// NodeSize is the number of positions the node occupies in its parent:
// the rune count for text, 1 for leaves and content size plus the opening
// and closing token otherwise.
func (n *Node) NodeSize() int {
	switch {
	case n.IsText():
		return utf8.RuneCountInString(n.text)
	case n.IsLeaf():
		return 1
	default:
		return n.content.Size() + 2
	}
}

// Copy returns a node with the same type and attributes holding content.
// The receiver is not modified.
func (n *Node) Copy(content Fragment) *Node {
	if n.content.same(content) {
		return n
	}
	return &Node{typ: n.typ, attrs: n.attrs, content: content, text: n.text}
}

// Equal reports structural equality.
func (n *Node) Equal(o *Node) bool {
	if n == o {
		return true
	}
	if n == nil || o == nil {
		return false
	}
	return n.typ == o.typ &&
		n.text == o.text &&
		maps.Equal(n.attrs, o.attrs) &&
		n.content.Equal(o.content)
}

// TextContent concatenates the text of all descendant text nodes.
func (n *Node) TextContent() string {
	if n.IsText() {
		return n.text
	}
	var sb strings.Builder
	var walk func(*Node)
	walk = func(node *Node) {
		for _, c := range node.content.nodes {
			if c.IsText() {
				sb.WriteString(c.text)
				continue
			}
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

// String renders the tree in a compact debug form, e.g.
// doc(parent(childparent(child("1")))).
func (n *Node) String() string {
	var sb strings.Builder
	n.writeString(&sb)
	return sb.String()
}

func (n *Node) writeString(sb *strings.Builder) {
	if n.IsText() {
		sb.WriteString(strconv.Quote(n.text))
		return
	}
	sb.WriteString(n.typ.Name)
	if len(n.attrs) > 0 {
		keys := slices.Sorted(maps.Keys(n.attrs))
		sb.WriteByte('[')
		for i, k := range keys {
			if i > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(k)
			sb.WriteByte('=')
			sb.WriteString(strconv.Quote(n.attrs[k]))
		}
		sb.WriteByte(']')
	}
	if n.content.ChildCount() == 0 {
		return
	}
	sb.WriteByte('(')
	for i, c := range n.content.nodes {
		if i > 0 {
			sb.WriteString(", ")
		}
		c.writeString(sb)
	}
	sb.WriteByte(')')
}
