// Package model implements an immutable document tree: nodes, fragments,
// a schema with content rules, tree traversal and replace transactions.
package model

import (
	"fmt"
	"slices"
	"strings"
)

// TextType is the node type name reserved for text nodes.
const TextType = "text"

// AttrSpec describes one attribute of a node type. An attribute without a
// default must be supplied when a node is created.
type AttrSpec struct {
	Default    string
	HasDefault bool
}

// DOMSpec describes how a node type renders to an HTML element.
type DOMSpec struct {
	Tag   string
	Class string
	Style func(attrs Attrs) string
}

// ParseRule describes how an HTML element maps back to a node type.
type ParseRule struct {
	Tag   string
	Class string
	// StyleAttrs maps a CSS property of the element's style attribute to
	// the node attribute it populates.
	StyleAttrs map[string]string
}

// NodeSpec is the declaration of a node type.
type NodeSpec struct {
	// Content is "" for leaves, "<type>*" for zero or more children or
	// "<type>+" for one or more.
	Content  string
	Attrs    map[string]AttrSpec
	ToDOM    *DOMSpec
	ParseDOM []ParseRule
}

// NodeType is a resolved node type belonging to a schema.
type NodeType struct {
	Name string
	Spec NodeSpec

	schema      *Schema
	childType   string
	minChildren int
}

// Schema is a set of node types with a designated top node type.
type Schema struct {
	types map[string]*NodeType
	names []string
	top   *NodeType
}

// NewSchema resolves node specs into a schema. topNode names the type of
// document roots.
func NewSchema(topNode string, nodes map[string]NodeSpec) (*Schema, error) {
	s := &Schema{types: make(map[string]*NodeType, len(nodes))}
	for name, spec := range nodes {
		nt := &NodeType{Name: name, Spec: spec, schema: s}
		child, least, err := parseContentExpr(spec.Content)
		if err != nil {
			return nil, fmt.Errorf("node type %s: %w", name, err)
		}
		if name == TextType && child != "" {
			return nil, fmt.Errorf("node type %s: text nodes cannot have content", name)
		}
		nt.childType = child
		nt.minChildren = least
		s.types[name] = nt
		s.names = append(s.names, name)
	}
	slices.Sort(s.names)

	for _, nt := range s.types {
		if nt.childType != "" {
			if _, ok := s.types[nt.childType]; !ok {
				return nil, fmt.Errorf("node type %s: content refers to %q: %w", nt.Name, nt.childType, ErrUnknownType)
			}
		}
	}

	top, ok := s.types[topNode]
	if !ok {
		return nil, fmt.Errorf("top node %q: %w", topNode, ErrUnknownType)
	}
	s.top = top
	return s, nil
}

func parseContentExpr(expr string) (child string, least int, err error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return "", 0, nil
	}
	switch {
	case strings.HasSuffix(expr, "*"):
		child = strings.TrimSuffix(expr, "*")
	case strings.HasSuffix(expr, "+"):
		child, least = strings.TrimSuffix(expr, "+"), 1
	default:
		return "", 0, fmt.Errorf("unsupported content expression %q", expr)
	}
	if child == "" || strings.ContainsAny(child, " |()") {
		return "", 0, fmt.Errorf("unsupported content expression %q", expr)
	}
	return child, least, nil
}

// Type returns the named node type, or nil.
func (s *Schema) Type(name string) *NodeType {
	return s.types[name]
}

// TopNodeType returns the type of document roots.
func (s *Schema) TopNodeType() *NodeType {
	return s.top
}

// TypeNames returns the names of all node types in sorted order.
func (s *Schema) TypeNames() []string {
	return slices.Clone(s.names)
}

// Node creates a validated node of the named type.
func (s *Schema) Node(typeName string, attrs Attrs, children ...*Node) (*Node, error) {
	nt, ok := s.types[typeName]
	if !ok {
		return nil, fmt.Errorf("%q: %w", typeName, ErrUnknownType)
	}
	return nt.Create(attrs, NewFragment(children...))
}

// Text creates a text node.
func (s *Schema) Text(text string) (*Node, error) {
	nt, ok := s.types[TextType]
	if !ok {
		return nil, fmt.Errorf("%q: %w", TextType, ErrUnknownType)
	}
	if text == "" {
		return nil, ErrEmptyText
	}
	return &Node{typ: nt, text: text}, nil
}

// CheckRoot reports an error unless n is of the schema's top node type and
// can therefore stand as a whole document.
func (s *Schema) CheckRoot(n *Node) error {
	if top := s.TopNodeType(); n.typ != top {
		return fmt.Errorf("document root must be %s, got %s: %w", top.Name, n.typ.Name, ErrInvalidContent)
	}
	return nil
}

// Check validates a whole tree against the schema.
func (s *Schema) Check(n *Node) error {
	if n.typ == nil || n.typ.schema != s {
		return fmt.Errorf("node of foreign schema: %w", ErrUnknownType)
	}
	if n.IsText() {
		if n.text == "" {
			return ErrEmptyText
		}
		return nil
	}
	if _, err := n.typ.computeAttrs(n.attrs); err != nil {
		return fmt.Errorf("%s: %w", n.typ.Name, err)
	}
	if err := n.typ.CheckContent(n.content); err != nil {
		return err
	}
	for i, child := range n.content.nodes {
		if err := s.Check(child); err != nil {
			return fmt.Errorf("%s[%d]: %w", n.typ.Name, i, err)
		}
	}
	return nil
}

// IsText reports whether this is the text node type.
func (nt *NodeType) IsText() bool {
	return nt.Name == TextType
}

// IsLeaf reports whether nodes of this type can never hold content.
func (nt *NodeType) IsLeaf() bool {
	return nt.childType == "" && !nt.IsText()
}

// Schema returns the schema the type belongs to.
func (nt *NodeType) Schema() *Schema {
	return nt.schema
}

// AllowsChild reports whether a node of type child may appear in this type's content.
func (nt *NodeType) AllowsChild(child *NodeType) bool {
	return nt.childType != "" && child != nil && child.Name == nt.childType
}

// ChildType returns the name of the only node type allowed as a child, or "".
func (nt *NodeType) ChildType() string {
	return nt.childType
}

// CheckContent validates a fragment against the content rule.
func (nt *NodeType) CheckContent(content Fragment) error {
	if nt.IsText() || nt.IsLeaf() {
		if content.ChildCount() > 0 {
			return fmt.Errorf("%s cannot have children: %w", nt.Name, ErrInvalidContent)
		}
		return nil
	}
	if content.ChildCount() < nt.minChildren {
		return fmt.Errorf("%s needs at least %d child: %w", nt.Name, nt.minChildren, ErrInvalidContent)
	}
	for i, child := range content.nodes {
		if !nt.AllowsChild(child.typ) {
			return fmt.Errorf("%s[%d] is %s, want %s: %w", nt.Name, i, child.typ.Name, nt.childType, ErrInvalidContent)
		}
	}
	return nil
}

// Create builds a node of this type after filling attribute defaults and
// checking the content rule.
func (nt *NodeType) Create(attrs Attrs, content Fragment) (*Node, error) {
	if nt.IsText() {
		return nil, fmt.Errorf("use Schema.Text for text nodes: %w", ErrInvalidContent)
	}
	computed, err := nt.computeAttrs(attrs)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", nt.Name, err)
	}
	if err := nt.CheckContent(content); err != nil {
		return nil, err
	}
	return &Node{typ: nt, attrs: computed, content: content}, nil
}

func (nt *NodeType) computeAttrs(given Attrs) (Attrs, error) {
	if len(nt.Spec.Attrs) == 0 {
		return nil, nil
	}
	out := make(Attrs, len(nt.Spec.Attrs))
	for name, spec := range nt.Spec.Attrs {
		v, ok := given[name]
		switch {
		case ok:
			out[name] = v
		case spec.HasDefault:
			out[name] = spec.Default
		default:
			return nil, fmt.Errorf("%q: %w", name, ErrMissingAttr)
		}
	}
	return out, nil
}
