package parser

import "github.com/dgallion1/docshuffle/internal/doctree"

// outline nests sections by heading level as they arrive in document order.
type outline struct {
	root  *doctree.DocNode
	stack []outlineEntry
}

type outlineEntry struct {
	node  *doctree.DocNode
	level int
}

func newOutline() *outline {
	root := &doctree.DocNode{}
	return &outline{root: root, stack: []outlineEntry{{node: root, level: 0}}}
}

// heading opens a section at level, closing any open section at the same
// level or deeper.
func (o *outline) heading(level int, title string) {
	for len(o.stack) > 1 && o.stack[len(o.stack)-1].level >= level {
		o.stack = o.stack[:len(o.stack)-1]
	}
	n := &doctree.DocNode{Title: title}
	parent := o.stack[len(o.stack)-1].node
	parent.Children = append(parent.Children, n)
	o.stack = append(o.stack, outlineEntry{node: n, level: level})
}

// paragraph adds text to the innermost open section.
func (o *outline) paragraph(text string) {
	o.stack[len(o.stack)-1].node.AddParagraph(text)
}

// tree finishes the outline. Text before the first heading becomes a
// leading untitled section.
func (o *outline) tree(title string) *doctree.DocTree {
	t := &doctree.DocTree{Title: title}
	if len(o.root.Paragraphs) > 0 {
		t.Children = append(t.Children, &doctree.DocNode{Paragraphs: o.root.Paragraphs})
	}
	t.Children = append(t.Children, o.root.Children...)
	return t
}
