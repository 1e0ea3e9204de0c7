package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func swapped(n *Node) *Node {
	c := n.Content()
	return n.Copy(c.ReplaceChild(0, c.Child(1)).ReplaceChild(1, c.Child(0)))
}

func TestTransaction_EmptyApplyReturnsSnapshot(t *testing.T) {
	_, doc := sampleDoc(t)
	tr := NewTransaction(doc)

	got, err := tr.Apply()
	require.NoError(t, err)
	assert.Same(t, doc, got)
	assert.Same(t, doc, tr.Before())
	assert.Zero(t, tr.Len())
}

func TestTransaction_NestedReplacementsApply(t *testing.T) {
	_, doc := sampleDoc(t)
	parent := doc.Child(0)
	blue := parent.Child(0)

	tr := NewTransaction(doc)
	tr.ReplaceWith(0, parent.NodeSize(), swapped(parent))
	// Blue's position in the snapshot, although the first step moves it.
	tr.ReplaceWith(1, 1+blue.NodeSize(), swapped(blue))

	got, err := tr.Apply()
	require.NoError(t, err)
	assert.Equal(t,
		`doc(parent[color="red"](childparent[color="green"](child("3"), child("4")), childparent[color="blue"](child("2"), child("1"))))`,
		got.String())
	assert.Equal(t, "1234", doc.TextContent(), "snapshot must stay untouched")
	assert.Len(t, tr.Steps(), 2)
}

func TestTransaction_EqualSizeSiblingsKeepTheirIdentity(t *testing.T) {
	_, doc := sampleDoc(t)
	parent := doc.Child(0)
	blue, green := parent.Child(0), parent.Child(1)
	require.Equal(t, blue.NodeSize(), green.NodeSize())

	tr := NewTransaction(doc)
	tr.ReplaceWith(0, 18, swapped(parent))
	tr.ReplaceWith(1, 9, swapped(blue))
	tr.ReplaceWith(9, 17, swapped(green))

	got, err := tr.Apply()
	require.NoError(t, err)
	assert.Equal(t, "4321", got.TextContent())
	assert.Equal(t, "green", got.Child(0).Child(0).Attr("color"))
	assert.Equal(t, "blue", got.Child(0).Child(1).Attr("color"))
}

func TestTransaction_UnevenSiblingsInsideReorderedParent(t *testing.T) {
	s := testSchema(t)
	b := builder{t: t, s: s}
	doc := b.doc(b.parent("red",
		b.cp("blue", b.child("1"), b.child("2"), b.child("5")),
		b.cp("green", b.child("3"), b.child("4")),
	))
	parent := doc.Child(0)
	blue := parent.Child(0)

	tr := NewTransaction(doc)
	tr.ReplaceWith(0, parent.NodeSize(), swapped(parent))
	tr.ReplaceWith(1, 1+blue.NodeSize(), swapped(blue))

	got, err := tr.Apply()
	require.NoError(t, err)
	assert.Equal(t, "34215", got.TextContent())
}

func TestTransaction_StaleRangeIsRejected(t *testing.T) {
	_, doc := sampleDoc(t)
	parent := doc.Child(0)
	blue, green := parent.Child(0), parent.Child(1)

	t.Run("node removed by earlier step", func(t *testing.T) {
		tr := NewTransaction(doc)
		tr.ReplaceWith(0, 18, parent.Copy(NewFragment(green)))
		tr.ReplaceWith(1, 9, swapped(blue))
		got, err := tr.Apply()
		require.ErrorIs(t, err, ErrStaleRange)
		assert.Same(t, doc, got)
	})

	t.Run("node replaced by earlier step", func(t *testing.T) {
		tr := NewTransaction(doc)
		tr.ReplaceWith(1, 9, swapped(blue))
		tr.ReplaceWith(1, 9, swapped(blue))
		_, err := tr.Apply()
		require.ErrorIs(t, err, ErrStaleRange)
	})

	t.Run("node duplicated by earlier step", func(t *testing.T) {
		tr := NewTransaction(doc)
		tr.ReplaceWith(0, 18, parent.Copy(NewFragment(blue, blue)))
		tr.ReplaceWith(1, 9, swapped(blue))
		_, err := tr.Apply()
		require.ErrorIs(t, err, ErrStaleRange)
	})

	t.Run("empty range inside earlier step", func(t *testing.T) {
		tr := NewTransaction(doc)
		tr.ReplaceWith(0, 18, swapped(parent))
		tr.ReplaceWith(9, 9)
		_, err := tr.Apply()
		require.ErrorIs(t, err, ErrStaleRange)
	})
}

func TestTransaction_OverlapRules(t *testing.T) {
	_, doc := sampleDoc(t)
	parent := doc.Child(0)
	blue := parent.Child(0)

	t.Run("partial overlap", func(t *testing.T) {
		tr := NewTransaction(doc)
		tr.ReplaceWith(1, 9, swapped(blue))
		tr.ReplaceWith(5, 17, swapped(blue))
		_, err := tr.Apply()
		require.ErrorIs(t, err, ErrOverlap)
	})

	t.Run("inner staged before outer", func(t *testing.T) {
		tr := NewTransaction(doc)
		tr.ReplaceWith(1, 9, swapped(blue))
		tr.ReplaceWith(0, 18, swapped(parent))
		_, err := tr.Apply()
		require.ErrorIs(t, err, ErrOverlap)
	})

	t.Run("nested inside resized step", func(t *testing.T) {
		shrunk := parent.Copy(NewFragment(blue))
		tr := NewTransaction(doc)
		tr.ReplaceWith(0, 18, shrunk)
		tr.ReplaceWith(1, 9, swapped(blue))
		got, err := tr.Apply()
		require.NoError(t, err)
		assert.Equal(t, "21", got.TextContent())
	})
}

func TestTransaction_OutOfRange(t *testing.T) {
	_, doc := sampleDoc(t)
	for _, r := range [][2]int{{0, 40}, {-1, 3}, {5, 4}} {
		tr := NewTransaction(doc)
		tr.ReplaceWith(r[0], r[1])
		_, err := tr.Apply()
		require.ErrorIs(t, err, ErrOutOfRange, "range %v", r)
	}
}

func TestTransaction_NestedStepAfterResizedSibling(t *testing.T) {
	s := testSchema(t)
	b := builder{t: t, s: s}
	first := b.parent("red", b.cp("blue", b.child("1")))
	second := b.parent("green", b.cp("a", b.child("2")), b.cp("b", b.child("3")))
	doc := b.doc(first, second)
	inner := second.Child(1)

	grown := first.Copy(first.Content().Append(b.cp("pink")))
	at := first.NodeSize() + 1 + second.Child(0).NodeSize()
	tr := NewTransaction(doc)
	tr.ReplaceWith(first.NodeSize(), first.NodeSize()+second.NodeSize(), swapped(second))
	tr.ReplaceWith(0, first.NodeSize(), grown)
	tr.ReplaceWith(at, at+inner.NodeSize(), inner.Copy(NewFragment(b.child("9"))))

	got, err := tr.Apply()
	require.NoError(t, err)
	assert.Equal(t, "192", got.TextContent())
}

func TestTransaction_LaterStepsAreShifted(t *testing.T) {
	s := testSchema(t)
	b := builder{t: t, s: s}
	first := b.parent("red", b.cp("blue", b.child("1")))
	second := b.parent("green", b.cp("a", b.child("2")), b.cp("b", b.child("3")))
	doc := b.doc(first, second)

	grown := first.Copy(first.Content().Append(b.cp("pink")))
	tr := NewTransaction(doc)
	tr.ReplaceWith(0, first.NodeSize(), grown)
	tr.ReplaceWith(first.NodeSize(), first.NodeSize()+second.NodeSize(), swapped(second))

	got, err := tr.Apply()
	require.NoError(t, err)
	assert.Equal(t, "132", got.TextContent())
	assert.Equal(t, 2, got.Child(0).ChildCount())
}

func TestTransaction_ReplaceRootContent(t *testing.T) {
	s := testSchema(t)
	b := builder{t: t, s: s}
	doc := b.doc(b.parent("red"), b.parent("blue"))

	tr := NewTransaction(doc)
	tr.ReplaceWith(0, doc.Content().Size(), doc.Child(1), doc.Child(0))
	got, err := tr.Apply()
	require.NoError(t, err)
	assert.Equal(t, "blue", got.Child(0).Attr("color"))
	assert.Equal(t, "red", got.Child(1).Attr("color"))
}

func TestTransaction_InvalidContentIsRejected(t *testing.T) {
	s, doc := sampleDoc(t)
	b := builder{t: t, s: s}

	tr := NewTransaction(doc)
	tr.ReplaceWith(0, 18, b.child("x"))
	got, err := tr.Apply()
	require.ErrorIs(t, err, ErrInvalidContent)
	assert.Same(t, doc, got)
}

func TestNode_ReplaceInsideTextIsMisaligned(t *testing.T) {
	s := testSchema(t)
	b := builder{t: t, s: s}
	doc := b.doc(b.parent("red", b.cp("blue", b.child("ab"))))

	// Text "ab" spans [3, 5).
	_, err := doc.Replace(4, 4, NewFragment())
	require.ErrorIs(t, err, ErrRangeMisaligned)

	got, err := doc.Replace(3, 5, NewFragment(b.text("xyz")))
	require.NoError(t, err)
	assert.Equal(t, "xyz", got.TextContent())
}
