// Package doctree holds the format-neutral outline produced by the file
// parsers before it is lifted into a schema document.
package doctree

import "strings"

// DocTree is the root of a parsed document.
type DocTree struct {
	Title    string     // Document title (from metadata or filename)
	Children []*DocNode // Top-level sections
}

// DocNode is a recursive section in the document tree.
type DocNode struct {
	Title      string     // Section heading (empty for untitled runs of text)
	Paragraphs []string   // Body paragraphs directly under the heading
	Page       int        // Source page (0 if N/A)
	Children   []*DocNode // Subsections
}

// AddParagraph appends p if it is not blank.
func (n *DocNode) AddParagraph(p string) {
	p = strings.TrimSpace(p)
	if p != "" {
		n.Paragraphs = append(n.Paragraphs, p)
	}
}

// Text joins the node's paragraphs with blank lines.
func (n *DocNode) Text() string {
	return strings.Join(n.Paragraphs, "\n\n")
}

// Flatten returns every paragraph of n and its subsections in document
// order, each subsection's title first.
func (n *DocNode) Flatten() []string {
	var out []string
	out = append(out, n.Paragraphs...)
	for _, c := range n.Children {
		if c.Title != "" {
			out = append(out, c.Title)
		}
		out = append(out, c.Flatten()...)
	}
	return out
}

// Counts returns the number of sections and paragraphs in the tree.
func (t *DocTree) Counts() (sections, paragraphs int) {
	var walk func([]*DocNode)
	walk = func(nodes []*DocNode) {
		for _, n := range nodes {
			sections++
			paragraphs += len(n.Paragraphs)
			walk(n.Children)
		}
	}
	walk(t.Children)
	return sections, paragraphs
}
