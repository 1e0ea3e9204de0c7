package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNode_Sizes(t *testing.T) {
	_, doc := sampleDoc(t)

	parent := doc.Child(0)
	cp := parent.Child(0)
	child := cp.Child(0)

	assert.Equal(t, 1, child.Child(0).NodeSize())
	assert.Equal(t, 3, child.NodeSize())
	assert.Equal(t, 8, cp.NodeSize())
	assert.Equal(t, 18, parent.NodeSize())
	assert.Equal(t, 18, doc.Content().Size())
}

func TestNode_TextSizeCountsRunes(t *testing.T) {
	s := testSchema(t)
	n, err := s.Text("héllo")
	require.NoError(t, err)
	assert.Equal(t, 5, n.NodeSize())
}

func TestNode_CopyLeavesReceiverUnchanged(t *testing.T) {
	_, doc := sampleDoc(t)
	cp := doc.Child(0).Child(0)
	before := cp.String()

	swapped := cp.Content().ReplaceChild(0, cp.Child(1)).ReplaceChild(1, cp.Child(0))
	copied := cp.Copy(swapped)

	assert.Equal(t, before, cp.String())
	assert.Equal(t, `childparent[color="blue"](child("2"), child("1"))`, copied.String())
	assert.Equal(t, cp.Attrs(), copied.Attrs())
	assert.Same(t, cp, cp.Copy(cp.Content()))
}

func TestNode_EqualAndTextContent(t *testing.T) {
	_, a := sampleDoc(t)
	_, b := sampleDoc(t)

	assert.False(t, a.Equal(b), "different schemas produce different types")
	assert.True(t, a.Equal(a))
	assert.Equal(t, "1234", a.TextContent())
}

func TestFragment_ReplaceChildIsImmutable(t *testing.T) {
	_, doc := sampleDoc(t)
	f := doc.Child(0).Content()
	first, second := f.Child(0), f.Child(1)

	g := f.ReplaceChild(0, second)

	assert.Same(t, first, f.Child(0))
	assert.Same(t, second, g.Child(0))
	assert.Equal(t, f.Size(), g.Size())
	assert.Equal(t, f, f.ReplaceChild(1, second))
}

func TestFragment_ForEachOffsets(t *testing.T) {
	_, doc := sampleDoc(t)
	var offsets []int
	doc.Child(0).ForEach(func(_ *Node, offset, _ int) {
		offsets = append(offsets, offset)
	})
	assert.Equal(t, []int{0, 8}, offsets)
}

func TestFragment_IndexAt(t *testing.T) {
	_, doc := sampleDoc(t)
	f := doc.Child(0).Content()

	for _, tt := range []struct {
		pos   int
		index int
		ok    bool
	}{
		{0, 0, true},
		{8, 1, true},
		{16, 2, true},
		{3, 0, false},
		{17, 0, false},
	} {
		i, ok := f.indexAt(tt.pos)
		assert.Equal(t, tt.ok, ok, "pos %d", tt.pos)
		if ok {
			assert.Equal(t, tt.index, i, "pos %d", tt.pos)
		}
	}
}

func TestFragment_Append(t *testing.T) {
	s := testSchema(t)
	b := builder{t: t, s: s}
	f := NewFragment(b.child("a"))
	g := f.Append(b.child("b"))

	assert.Equal(t, 1, f.ChildCount())
	assert.Equal(t, 2, g.ChildCount())
	assert.Equal(t, 6, g.Size())
	assert.Len(t, g.Children(), 2)
}
