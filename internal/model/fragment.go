package model

import "slices"

// Fragment is an immutable ordered list of child nodes. The zero value is
// an empty fragment.
type Fragment struct {
	nodes []*Node
	size  int
}

// NewFragment builds a fragment from nodes. The slice is copied.
func NewFragment(nodes ...*Node) Fragment {
	f := Fragment{nodes: slices.Clone(nodes)}
	for _, n := range f.nodes {
		f.size += n.NodeSize()
	}
	return f
}

// Size is the sum of the children's node sizes.
func (f Fragment) Size() int { return f.size }

// ChildCount returns the number of children.
func (f Fragment) ChildCount() int { return len(f.nodes) }

// Child returns the child at index i. It panics if i is out of range.
func (f Fragment) Child(i int) *Node { return f.nodes[i] }

// Children returns a copy of the child list.
func (f Fragment) Children() []*Node { return slices.Clone(f.nodes) }

// ForEach calls fn for every child with its offset inside the fragment.
func (f Fragment) ForEach(fn func(child *Node, offset, index int)) {
	pos := 0
	for i, c := range f.nodes {
		fn(c, pos, i)
		pos += c.NodeSize()
	}
}

// ReplaceChild returns a fragment with the child at index i replaced by n.
// The receiver is left unchanged.
func (f Fragment) ReplaceChild(i int, n *Node) Fragment {
	cur := f.nodes[i]
	if cur == n {
		return f
	}
	nodes := slices.Clone(f.nodes)
	nodes[i] = n
	return Fragment{nodes: nodes, size: f.size - cur.NodeSize() + n.NodeSize()}
}

// Append returns a fragment with nodes added at the end.
func (f Fragment) Append(nodes ...*Node) Fragment {
	if len(nodes) == 0 {
		return f
	}
	return NewFragment(append(slices.Clone(f.nodes), nodes...)...)
}

// Equal reports whether both fragments hold structurally equal children.
func (f Fragment) Equal(o Fragment) bool {
	if len(f.nodes) != len(o.nodes) {
		return false
	}
	for i := range f.nodes {
		if !f.nodes[i].Equal(o.nodes[i]) {
			return false
		}
	}
	return true
}

// same reports whether both fragments hold the very same child pointers.
func (f Fragment) same(o Fragment) bool {
	if len(f.nodes) != len(o.nodes) {
		return false
	}
	for i := range f.nodes {
		if f.nodes[i] != o.nodes[i] {
			return false
		}
	}
	return true
}

// indexAt returns the index of the child starting at pos. pos equal to the
// fragment size yields ChildCount.
func (f Fragment) indexAt(pos int) (int, bool) {
	off := 0
	for i, c := range f.nodes {
		if off == pos {
			return i, true
		}
		if off > pos {
			return 0, false
		}
		off += c.NodeSize()
	}
	if off == pos {
		return len(f.nodes), true
	}
	return 0, false
}

// replaceRange returns a fragment with children [from, to) replaced by with.
func (f Fragment) replaceRange(from, to int, with []*Node) Fragment {
	nodes := make([]*Node, 0, len(f.nodes)-(to-from)+len(with))
	nodes = append(nodes, f.nodes[:from]...)
	nodes = append(nodes, with...)
	nodes = append(nodes, f.nodes[to:]...)
	return NewFragment(nodes...)
}
