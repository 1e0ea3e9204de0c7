package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dgallion1/docshuffle/internal/demo"
	"github.com/dgallion1/docshuffle/internal/importer"
	"github.com/dgallion1/docshuffle/internal/model"
	"github.com/dgallion1/docshuffle/internal/parser"
	"github.com/dgallion1/docshuffle/internal/render"
)

// loadDocument reads the document at path, or the embedded demo when path
// is empty. dom treats the file as editor HTML rather than an upload.
func (a *app) loadDocument(path string, dom bool) (*model.Node, error) {
	if path == "" {
		return demo.Document()
	}

	switch {
	case parser.IsDocumentJSON(path):
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		doc, err := a.schema.NodeFromJSON(data)
		if err != nil {
			return nil, err
		}
		if err := a.schema.CheckRoot(doc); err != nil {
			return nil, err
		}
		return doc, nil

	case dom:
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return render.ParseDOM(a.schema, f)
	}

	p, err := parser.ForFile(path, parser.Options{PDFFallbackPdftotext: a.cfg.PDFFallbackPdftotext})
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tree, err := p.Parse(f, filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	sections, paragraphs := tree.Counts()
	a.log.Debug("parsed outline", "file", path, "sections", sections, "paragraphs", paragraphs)

	return importer.FromDocTree(a.schema, tree, importer.Options{MaxChildWords: a.cfg.ImportMaxChildWords})
}
