package parser

import (
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/dgallion1/docshuffle/internal/doctree"
	pdflib "github.com/ledongthuc/pdf"
)

// PDFParser handles PDF files: one section per page. It tries the Go
// library first, then pdftotext if enabled.
type PDFParser struct {
	FallbackPdftotext bool
}

func (p *PDFParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	f, size, cleanup, err := spool(r, "docshuffle-pdf-*.pdf")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	pages, err := extractPDFPages(f, size)
	if err != nil && p.FallbackPdftotext {
		pages, err = extractPdftotext(f.Name())
	}
	if err != nil {
		return nil, fmt.Errorf("extract pdf text: %w", err)
	}

	tree := &doctree.DocTree{Title: baseTitle(filename)}
	for i, page := range pages {
		section := &doctree.DocNode{Title: fmt.Sprintf("Page %d", i+1), Page: i + 1}
		for _, para := range splitParagraphs(page) {
			section.AddParagraph(para)
		}
		if len(section.Paragraphs) > 0 {
			tree.Children = append(tree.Children, section)
		}
	}
	return tree, nil
}

func extractPDFPages(r io.ReaderAt, size int64) ([]string, error) {
	reader, err := pdflib.NewReader(r, size)
	if err != nil {
		return nil, err
	}
	pages := make([]string, 0, reader.NumPage())
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			pages = append(pages, "")
			continue
		}
		pages = append(pages, text)
	}
	return pages, nil
}

func extractPdftotext(path string) ([]string, error) {
	out, err := exec.Command("pdftotext", "-layout", path, "-").Output()
	if err != nil {
		return nil, fmt.Errorf("pdftotext: %w", err)
	}
	// pdftotext separates pages with form feeds.
	return strings.Split(string(out), "\f"), nil
}
