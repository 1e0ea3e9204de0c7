package parser

import (
	"bytes"
	"io"
	"strings"

	"github.com/dgallion1/docshuffle/internal/doctree"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser handles Markdown files using goldmark.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	doc := goldmark.New().Parser().Parse(text.NewReader(src))
	out := newOutline()

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			out.heading(node.Level, extractText(node, src))
		case *ast.List:
			// One paragraph per list item.
			for item := node.FirstChild(); item != nil; item = item.NextSibling() {
				out.paragraph(extractText(item, src))
			}
		case *ast.ThematicBreak:
		default:
			out.paragraph(extractText(n, src))
		}
	}

	return out.tree(baseTitle(filename)), nil
}

// extractText gets the text content of a goldmark AST node. Blocks with
// inline children are read through them; code blocks through their lines.
func extractText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	if n.FirstChild() == nil {
		if n.Type() == ast.TypeBlock {
			lines := n.Lines()
			for i := 0; i < lines.Len(); i++ {
				line := lines.At(i)
				buf.Write(line.Value(src))
			}
		}
		return strings.TrimSpace(buf.String())
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			buf.Write(t.Value(src))
			if t.HardLineBreak() || t.SoftLineBreak() {
				buf.WriteByte('\n')
			}
		case *ast.String:
			buf.Write(t.Value)
		default:
			if c.Type() == ast.TypeBlock && buf.Len() > 0 {
				buf.WriteByte(' ')
			}
			buf.WriteString(extractText(c, src))
		}
	}
	return strings.TrimSpace(buf.String())
}
