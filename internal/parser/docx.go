package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/docshuffle/internal/doctree"
	"github.com/fumiama/go-docx"
)

// DOCXParser handles .docx files. Paragraphs styled as headings open
// sections.
type DOCXParser struct{}

func (p *DOCXParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	f, size, cleanup, err := spool(r, "docshuffle-docx-*.docx")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	doc, err := docx.Parse(f, size)
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	out := newOutline()
	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		text := docxParagraphText(para)
		if text == "" {
			continue
		}
		if level := docxHeadingLevel(para); level > 0 {
			out.heading(level, text)
		} else {
			out.paragraph(text)
		}
	}
	return out.tree(baseTitle(filename)), nil
}

func docxHeadingLevel(para *docx.Paragraph) int {
	if para.Properties == nil || para.Properties.Style == nil {
		return 0
	}
	return styleHeadingLevel(para.Properties.Style.Val)
}

// styleHeadingLevel reads "Heading1" or "heading 1" style names.
func styleHeadingLevel(name string) int {
	style := strings.ToLower(strings.ReplaceAll(name, " ", ""))
	level, ok := strings.CutPrefix(style, "heading")
	if !ok || len(level) != 1 || level[0] < '1' || level[0] > '6' {
		return 0
	}
	return int(level[0] - '0')
}

func docxParagraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
