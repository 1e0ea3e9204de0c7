package model

// Action tells a walk what to do after visiting a node.
type Action int

const (
	// Continue descends into the node's children.
	Continue Action = iota
	// Skip leaves the node's subtree unvisited.
	Skip
	// Replace walks the children of a substitute node instead.
	Replace
)

// Visit is a visitor's verdict on one node.
type Visit struct {
	Action Action
	Node   *Node
}

// Descend continues the walk into the visited node's children.
func Descend() Visit { return Visit{Action: Continue} }

// SkipChildren prunes the visited node's subtree.
func SkipChildren() Visit { return Visit{Action: Skip} }

// ReplaceNode makes the walk continue into n instead of the visited node.
func ReplaceNode(n *Node) Visit { return Visit{Action: Replace, Node: n} }

// Visitor is called for each node of a walk with the node's start position,
// the parent being walked (nil for a root) and its index in that parent.
type Visitor func(node *Node, pos int, parent *Node, index int) Visit

// NodesBetween calls f for every descendant of node whose span intersects
// [from, to), in document order. Positions are relative to the start of
// node's content.
func NodesBetween(node *Node, from, to int, f Visitor) {
	nodesBetween(node, from, to, f, 0)
}

func nodesBetween(parent *Node, from, to int, f Visitor, nodeStart int) {
	pos := 0
	for i := 0; pos < to && i < parent.content.ChildCount(); i++ {
		child := parent.content.Child(i)
		end := pos + child.NodeSize()
		if end > from {
			v := f(child, nodeStart+pos, parent, i)
			if v.Action == Replace && v.Node != nil {
				child = v.Node
			}
			if v.Action != Skip && child.content.Size() > 0 {
				start := pos + 1
				nodesBetween(child,
					max(0, from-start),
					min(child.content.Size(), to-start),
					f, nodeStart+start)
			}
		}
		pos = end
	}
}

// Descendants visits root itself at position 0, then every node below it.
// The root's Skip verdict does not prune the walk since the root spans the
// whole document; a Replace verdict makes the walk continue into the
// substitute. It returns the root that was walked.
func Descendants(root *Node, f Visitor) *Node {
	if v := f(root, 0, nil, 0); v.Action == Replace && v.Node != nil {
		root = v.Node
	}
	NodesBetween(root, 0, root.content.Size(), f)
	return root
}
