// Package importer lifts a parsed doctree outline into the nested-box
// schema: top-level sections become parents, their subsections become
// childparents and every heading or paragraph becomes a child.
package importer

import (
	"errors"
	"fmt"

	"github.com/dgallion1/docshuffle/internal/chunker"
	"github.com/dgallion1/docshuffle/internal/demo"
	"github.com/dgallion1/docshuffle/internal/doctree"
	"github.com/dgallion1/docshuffle/internal/model"
)

// ErrEmptyDocument is returned when an outline holds no text at all.
var ErrEmptyDocument = errors.New("document has no text")

// Options controls the import.
type Options struct {
	// Palette is cycled through for box colours in document order.
	// Defaults to demo.Palette.
	Palette []string

	// MaxChildWords splits longer paragraphs into several children at
	// sentence boundaries. Zero keeps every paragraph whole.
	MaxChildWords int
}

type builder struct {
	schema  *model.Schema
	palette []string
	split   chunker.Config
	next    int
}

// FromDocTree converts tree into a document of schema. A section's own
// heading and paragraphs form a leading childparent; sections nested more
// than two levels deep are flattened into their second-level ancestor.
func FromDocTree(schema *model.Schema, tree *doctree.DocTree, opts Options) (*model.Node, error) {
	b := &builder{
		schema:  schema,
		palette: opts.Palette,
		split:   chunker.Config{MaxWords: opts.MaxChildWords, MinWords: opts.MaxChildWords / 4},
	}
	if len(b.palette) == 0 {
		b.palette = demo.Palette
	}

	var parents []*model.Node
	for i, section := range tree.Children {
		p, err := b.parent(section)
		if err != nil {
			return nil, fmt.Errorf("section %d %q: %w", i, section.Title, err)
		}
		if p != nil {
			parents = append(parents, p)
		}
	}
	if len(parents) == 0 {
		return nil, ErrEmptyDocument
	}
	return schema.Node(schema.TopNodeType().Name, nil, parents...)
}

func (b *builder) color() string {
	c := b.palette[b.next%len(b.palette)]
	b.next++
	return c
}

func (b *builder) parent(section *doctree.DocNode) (*model.Node, error) {
	color := b.color()

	var boxes []*model.Node
	own := append(titled(section.Title), section.Paragraphs...)
	if len(own) > 0 {
		box, err := b.childparent(own)
		if err != nil {
			return nil, err
		}
		boxes = append(boxes, box)
	}
	for _, sub := range section.Children {
		texts := append(titled(sub.Title), sub.Flatten()...)
		if len(texts) == 0 {
			continue
		}
		box, err := b.childparent(texts)
		if err != nil {
			return nil, fmt.Errorf("subsection %q: %w", sub.Title, err)
		}
		boxes = append(boxes, box)
	}
	if len(boxes) == 0 {
		b.next--
		return nil, nil
	}
	return b.schema.Node("parent", model.Attrs{"color": color}, boxes...)
}

func (b *builder) childparent(texts []string) (*model.Node, error) {
	color := b.color()
	texts = chunker.SplitAll(texts, b.split)
	children := make([]*model.Node, 0, len(texts))
	for _, t := range texts {
		text, err := b.schema.Text(t)
		if err != nil {
			return nil, err
		}
		child, err := b.schema.Node("child", nil, text)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return b.schema.Node("childparent", model.Attrs{"color": color}, children...)
}

func titled(title string) []string {
	if title == "" {
		return nil
	}
	return []string{title}
}
