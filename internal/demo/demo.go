// Package demo defines the nested-box schema and the document embedded in
// the binary.
package demo

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/dgallion1/docshuffle/internal/model"
)

// Content is the embedded document payload.
//
//go:embed content.json
var Content []byte

var (
	schemaOnce sync.Once
	schema     *model.Schema
	schemaErr  error
)

// Schema returns the doc > parent > childparent > child > text schema.
func Schema() *model.Schema {
	schemaOnce.Do(func() {
		schema, schemaErr = model.NewSchema("doc", map[string]model.NodeSpec{
			"text": {},
			"child": {
				Content:  "text*",
				ToDOM:    &model.DOMSpec{Tag: "div", Class: "child"},
				ParseDOM: []model.ParseRule{{Tag: "div", Class: "child"}},
			},
			"childparent": {
				Content: "child*",
				Attrs:   map[string]model.AttrSpec{"color": {}},
				ToDOM: &model.DOMSpec{Tag: "div", Class: "childparent", Style: func(a model.Attrs) string {
					return "border-style: dotted;border-color:" + a["color"]
				}},
				ParseDOM: []model.ParseRule{{Tag: "div", Class: "childparent", StyleAttrs: map[string]string{"border-color": "color"}}},
			},
			"parent": {
				Content: "childparent*",
				Attrs:   map[string]model.AttrSpec{"color": {}},
				ToDOM: &model.DOMSpec{Tag: "div", Class: "parent", Style: func(a model.Attrs) string {
					return "border-style: solid;border-color:" + a["color"]
				}},
				ParseDOM: []model.ParseRule{{Tag: "div", Class: "parent", StyleAttrs: map[string]string{"border-color": "color"}}},
			},
			"doc": {Content: "parent*"},
		})
	})
	if schemaErr != nil {
		// The declaration above is static; failing here is a programming error.
		panic(fmt.Sprintf("demo schema: %v", schemaErr))
	}
	return schema
}

// Document parses the embedded payload.
func Document() (*model.Node, error) {
	doc, err := Schema().NodeFromJSON(Content)
	if err != nil {
		return nil, fmt.Errorf("load embedded document: %w", err)
	}
	return doc, nil
}

// Palette is the colour cycle used for generated boxes.
var Palette = []string{"red", "blue", "green", "orange", "purple", "teal"}
