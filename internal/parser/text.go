package parser

import (
	"bufio"
	"io"
	"strings"

	"github.com/dgallion1/docshuffle/internal/doctree"
)

// TextParser handles plain text files. Blank lines separate paragraphs;
// a line of dashes or equals signs closes the current section.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	tree := &doctree.DocTree{Title: baseTitle(filename)}
	section := &doctree.DocNode{}
	var current strings.Builder

	flushPara := func() {
		section.AddParagraph(current.String())
		current.Reset()
	}
	flushSection := func() {
		flushPara()
		if len(section.Paragraphs) > 0 {
			tree.Children = append(tree.Children, section)
		}
		section = &doctree.DocNode{}
	}

	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			flushPara()
		case isRule(trimmed):
			flushSection()
		default:
			if current.Len() > 0 {
				current.WriteString("\n")
			}
			current.WriteString(line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	flushSection()

	return tree, nil
}

func isRule(line string) bool {
	if len(line) < 3 {
		return false
	}
	return strings.Trim(line, "-") == "" || strings.Trim(line, "=") == ""
}
