package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func testSchema(t *testing.T) *Schema {
	t.Helper()
	s, err := NewSchema("doc", map[string]NodeSpec{
		"text":        {},
		"child":       {Content: "text*"},
		"childparent": {Content: "child*", Attrs: map[string]AttrSpec{"color": {}}},
		"parent":      {Content: "childparent*", Attrs: map[string]AttrSpec{"color": {}}},
		"doc":         {Content: "parent*"},
	})
	require.NoError(t, err)
	return s
}

// builder keeps test fixtures terse.
type builder struct {
	t *testing.T
	s *Schema
}

func (b builder) node(typ string, attrs Attrs, children ...*Node) *Node {
	b.t.Helper()
	n, err := b.s.Node(typ, attrs, children...)
	require.NoError(b.t, err)
	return n
}

func (b builder) text(s string) *Node {
	b.t.Helper()
	n, err := b.s.Text(s)
	require.NoError(b.t, err)
	return n
}

func (b builder) child(s string) *Node {
	return b.node("child", nil, b.text(s))
}

func (b builder) cp(color string, children ...*Node) *Node {
	return b.node("childparent", Attrs{"color": color}, children...)
}

func (b builder) parent(color string, children ...*Node) *Node {
	return b.node("parent", Attrs{"color": color}, children...)
}

func (b builder) doc(children ...*Node) *Node {
	return b.node("doc", nil, children...)
}

// sampleDoc is doc(parent(childparent(child "1", child "2"), childparent(child "3", child "4"))).
func sampleDoc(t *testing.T) (*Schema, *Node) {
	s := testSchema(t)
	b := builder{t: t, s: s}
	return s, b.doc(
		b.parent("red",
			b.cp("blue", b.child("1"), b.child("2")),
			b.cp("green", b.child("3"), b.child("4")),
		),
	)
}
