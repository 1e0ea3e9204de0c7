// Package render turns documents into HTML DOM trees and back, following
// the DOM rules declared on each node type.
package render

import (
	"fmt"
	"io"

	"github.com/dgallion1/docshuffle/internal/model"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// EditorClass is the class of the element wrapping rendered content.
const EditorClass = "ProseMirror"

const stylesheet = `body { font-family: sans-serif; }
.parent, .childparent { padding: 6px; margin: 6px; border-width: 2px; }
.child { padding: 2px 6px; }
`

// Fragment renders doc's content inside a wrapper element.
func Fragment(doc *model.Node) (*html.Node, error) {
	root := element("div", attr("class", EditorClass))
	for i := range doc.ChildCount() {
		child, err := toDOM(doc.Child(i))
		if err != nil {
			return nil, err
		}
		root.AppendChild(child)
	}
	return root, nil
}

func toDOM(n *model.Node) (*html.Node, error) {
	if n.IsText() {
		return &html.Node{Type: html.TextNode, Data: n.Text()}, nil
	}
	spec := n.Type().Spec.ToDOM
	if spec == nil {
		return nil, fmt.Errorf("node type %s has no DOM rule", n.Type().Name)
	}
	var attrs []html.Attribute
	if spec.Class != "" {
		attrs = append(attrs, attr("class", spec.Class))
	}
	if spec.Style != nil {
		attrs = append(attrs, attr("style", spec.Style(n.Attrs())))
	}
	el := element(spec.Tag, attrs...)
	for i := range n.ChildCount() {
		child, err := toDOM(n.Child(i))
		if err != nil {
			return nil, err
		}
		el.AppendChild(child)
	}
	return el, nil
}

// HTML writes the rendered fragment.
func HTML(w io.Writer, doc *model.Node) error {
	frag, err := Fragment(doc)
	if err != nil {
		return err
	}
	if err := html.Render(w, frag); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}

// Page writes a complete HTML page holding the rendered document.
func Page(w io.Writer, doc *model.Node, title string) error {
	frag, err := Fragment(doc)
	if err != nil {
		return err
	}

	titleEl := element("title")
	titleEl.AppendChild(&html.Node{Type: html.TextNode, Data: title})
	styleEl := element("style")
	styleEl.AppendChild(&html.Node{Type: html.TextNode, Data: stylesheet})
	head := element("head")
	head.AppendChild(element("meta", attr("charset", "utf-8")))
	head.AppendChild(titleEl)
	head.AppendChild(styleEl)

	editor := element("div", attr("id", "editor"))
	editor.AppendChild(frag)
	app := element("div", attr("id", "app"))
	app.AppendChild(editor)
	body := element("body")
	body.AppendChild(app)

	page := element("html")
	page.AppendChild(head)
	page.AppendChild(body)

	doctype := &html.Node{Type: html.DoctypeNode, Data: "html"}
	document := &html.Node{Type: html.DocumentNode}
	document.AppendChild(doctype)
	document.AppendChild(page)

	if err := html.Render(w, document); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	return nil
}

func element(tag string, attrs ...html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
		Attr:     attrs,
	}
}

func attr(key, val string) html.Attribute {
	return html.Attribute{Key: key, Val: val}
}
