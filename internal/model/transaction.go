package model

import (
	"fmt"
	"slices"
)

// Step is one staged edit: replace the content range [From, To) with Content.
type Step struct {
	From    int
	To      int
	Content Fragment
}

func (s Step) delta() int {
	return s.Content.Size() - (s.To - s.From)
}

// Transaction collects replace steps against one document snapshot and
// applies them together. Every step position is expressed in the coordinate
// space of that snapshot, whatever was staged before it:
//
//   - a step lying beside earlier steps is shifted by their size changes;
//   - a step lying inside an earlier step's range names nodes of the
//     snapshot that the earlier step may have moved, so those nodes are
//     located again, by identity, inside the earlier step's replacement.
//
// A step whose nodes are gone or appear more than once there is stale.
type Transaction struct {
	before *Node
	steps  []Step
}

// NewTransaction starts an empty transaction on doc.
func NewTransaction(doc *Node) *Transaction {
	return &Transaction{before: doc}
}

// Before returns the snapshot the transaction was created for.
func (tr *Transaction) Before() *Node { return tr.before }

// Len returns the number of staged steps.
func (tr *Transaction) Len() int { return len(tr.steps) }

// Steps returns a copy of the staged steps.
func (tr *Transaction) Steps() []Step {
	out := make([]Step, len(tr.steps))
	copy(out, tr.steps)
	return out
}

// ReplaceWith stages replacing the snapshot range [from, to) with nodes.
// Nothing is validated or changed until Apply.
func (tr *Transaction) ReplaceWith(from, to int, nodes ...*Node) {
	tr.steps = append(tr.steps, Step{From: from, To: to, Content: NewFragment(nodes...)})
}

// Apply validates every staged step and applies them in staging order,
// returning the new snapshot. On error the original snapshot is returned
// with the error and nothing is committed.
func (tr *Transaction) Apply() (*Node, error) {
	if err := tr.check(); err != nil {
		return tr.before, err
	}

	doc := tr.before
	// Ranges the applied steps now occupy in doc.
	spans := make([]span, len(tr.steps))
	for j, b := range tr.steps {
		from, to, err := tr.locate(doc, j, spans)
		if err != nil {
			return tr.before, fmt.Errorf("step %d [%d,%d): %w", j, b.From, b.To, err)
		}
		next, err := doc.Replace(from, to, b.Content)
		if err != nil {
			return tr.before, fmt.Errorf("step %d [%d,%d): %w", j, b.From, b.To, err)
		}

		delta := b.Content.Size() - (to - from)
		for i := 0; i < j; i++ {
			switch relate(tr.steps[i], b) {
			case encloses:
				spans[i].to += delta
			case follows:
				spans[i].from += delta
				spans[i].to += delta
			}
		}
		spans[j] = span{from: from, to: from + b.Content.Size()}
		doc = next
	}
	return doc, nil
}

type span struct{ from, to int }

type relation int

const (
	precedes relation = iota // a ends before b starts
	follows                  // a starts after b ends
	encloses                 // b lies inside a
	overlaps
)

func relate(a, b Step) relation {
	switch {
	case a.To <= b.From:
		return precedes
	case b.To <= a.From:
		return follows
	case a.From <= b.From && b.To <= a.To:
		return encloses
	default:
		return overlaps
	}
}

// check validates bounds and step ordering before anything is applied.
func (tr *Transaction) check() error {
	size := tr.before.content.Size()
	for j, b := range tr.steps {
		if b.From < 0 || b.To < b.From || b.To > size {
			return fmt.Errorf("step %d [%d,%d) in document of size %d: %w", j, b.From, b.To, size, ErrOutOfRange)
		}
		for i := 0; i < j; i++ {
			// A later step enclosing an earlier one would discard it.
			if a := tr.steps[i]; relate(a, b) == overlaps {
				return fmt.Errorf("step %d [%d,%d) and step %d [%d,%d): %w",
					i, a.From, a.To, j, b.From, b.To, ErrOverlap)
			}
		}
	}
	return nil
}

// locate maps step j from snapshot coordinates into doc, where the steps
// before it have already been applied and occupy spans.
func (tr *Transaction) locate(doc *Node, j int, spans []span) (int, int, error) {
	b := tr.steps[j]
	shift, inner := 0, -1
	for i := 0; i < j; i++ {
		a := tr.steps[i]
		switch relate(a, b) {
		case precedes:
			shift += a.delta()
		case encloses:
			// Enclosing steps nest in staging order, so the last one is innermost.
			inner = i
		}
	}
	if inner < 0 {
		return b.From + shift, b.To + shift, nil
	}

	run, err := tr.before.nodesIn(b.From, b.To)
	if err != nil {
		return 0, 0, err
	}
	if len(run) == 0 {
		return 0, 0, fmt.Errorf("empty range inside step %d: %w", inner, ErrStaleRange)
	}
	found := findRun(doc, 0, spans[inner].from, spans[inner].to-(b.To-b.From), run)
	if len(found) != 1 {
		return 0, 0, fmt.Errorf("%d matches inside step %d: %w", len(found), inner, ErrStaleRange)
	}
	return found[0], found[0] + (b.To - b.From), nil
}

// findRun returns the content positions, relative to base, at which the
// exact node sequence run starts as siblings somewhere below n, with the
// start in [from, last].
func findRun(n *Node, base, from, last int, run []*Node) []int {
	var found []int
	nodes := n.content.nodes
	pos := base
	for i, c := range nodes {
		if pos > last {
			break
		}
		end := pos + c.NodeSize()
		if pos >= from && i+len(run) <= len(nodes) && slices.Equal(nodes[i:i+len(run)], run) {
			found = append(found, pos)
		}
		if end > from && c.content.Size() > 0 {
			found = append(found, findRun(c, pos+1, from, last, run)...)
		}
		pos = end
	}
	return found
}

// nodesIn returns the sibling nodes that exactly cover [from, to) in n's
// content, descending into the deepest node containing the range.
func (n *Node) nodesIn(from, to int) ([]*Node, error) {
	pos := 0
	for _, child := range n.content.nodes {
		end := pos + child.NodeSize()
		if from > pos && to < end {
			if child.IsText() || child.IsLeaf() {
				return nil, fmt.Errorf("[%d,%d) inside %s: %w", from, to, child.typ.Name, ErrRangeMisaligned)
			}
			return child.nodesIn(from-pos-1, to-pos-1)
		}
		if pos >= to {
			break
		}
		pos = end
	}

	start, ok := n.content.indexAt(from)
	if !ok {
		return nil, fmt.Errorf("start %d in %s: %w", from, n.typ.Name, ErrRangeMisaligned)
	}
	end, ok := n.content.indexAt(to)
	if !ok {
		return nil, fmt.Errorf("end %d in %s: %w", to, n.typ.Name, ErrRangeMisaligned)
	}
	return n.content.nodes[start:end], nil
}

// Replace returns a copy of n with its content range [from, to) replaced
// by content. The range must start and end on child boundaries of a
// single node, and the result must satisfy that node's content rule.
func (n *Node) Replace(from, to int, content Fragment) (*Node, error) {
	if from < 0 || to < from || to > n.content.Size() {
		return nil, fmt.Errorf("[%d,%d) in content of size %d: %w", from, to, n.content.Size(), ErrOutOfRange)
	}
	return n.replaceInner(from, to, content)
}

func (n *Node) replaceInner(from, to int, content Fragment) (*Node, error) {
	pos := 0
	for i, child := range n.content.nodes {
		end := pos + child.NodeSize()
		if from > pos && to < end {
			if child.IsText() || child.IsLeaf() {
				return nil, fmt.Errorf("[%d,%d) inside %s: %w", from, to, child.typ.Name, ErrRangeMisaligned)
			}
			inner, err := child.replaceInner(from-pos-1, to-pos-1, content)
			if err != nil {
				return nil, err
			}
			return n.Copy(n.content.ReplaceChild(i, inner)), nil
		}
		if pos >= to {
			break
		}
		pos = end
	}

	start, ok := n.content.indexAt(from)
	if !ok {
		return nil, fmt.Errorf("start %d in %s: %w", from, n.typ.Name, ErrRangeMisaligned)
	}
	end, ok := n.content.indexAt(to)
	if !ok {
		return nil, fmt.Errorf("end %d in %s: %w", to, n.typ.Name, ErrRangeMisaligned)
	}
	next := n.content.replaceRange(start, end, content.nodes)
	if err := n.typ.CheckContent(next); err != nil {
		return nil, err
	}
	return n.Copy(next), nil
}
