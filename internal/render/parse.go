package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/docshuffle/internal/model"
	"golang.org/x/net/html"
)

// ParseDOM reads HTML produced by Fragment, HTML or Page (or any markup
// following the schema's parse rules) back into a document. Elements that
// match no rule are unwrapped; text is kept only where the enclosing type
// accepts it.
func ParseDOM(schema *model.Schema, r io.Reader) (*model.Node, error) {
	dom, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	start := findBody(dom)
	if start == nil {
		start = dom
	}

	top := schema.TopNodeType()
	p := &domParser{schema: schema}
	children, err := p.parseChildren(top, start)
	if err != nil {
		return nil, err
	}
	doc, err := top.Create(nil, model.NewFragment(children...))
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", top.Name, err)
	}
	return doc, nil
}

type domParser struct {
	schema *model.Schema
}

func (p *domParser) parseChildren(parent *model.NodeType, el *html.Node) ([]*model.Node, error) {
	var out []*model.Node
	for c := el.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			if parent.ChildType() != model.TextType {
				continue
			}
			if strings.TrimSpace(c.Data) == "" {
				continue
			}
			n, err := p.schema.Text(c.Data)
			if err != nil {
				return nil, err
			}
			out = append(out, n)
		case html.ElementNode:
			switch c.Data {
			case "script", "style", "head", "title":
				continue
			}
			nt, rule := p.match(c)
			if nt == nil {
				inner, err := p.parseChildren(parent, c)
				if err != nil {
					return nil, err
				}
				out = append(out, inner...)
				continue
			}
			if !parent.AllowsChild(nt) {
				return nil, fmt.Errorf("<%s class=%q> inside %s: %w", c.Data, attrVal(c, "class"), parent.Name, model.ErrInvalidContent)
			}
			children, err := p.parseChildren(nt, c)
			if err != nil {
				return nil, err
			}
			n, err := nt.Create(ruleAttrs(rule, c), model.NewFragment(children...))
			if err != nil {
				return nil, fmt.Errorf("build %s: %w", nt.Name, err)
			}
			out = append(out, n)
		}
	}
	return out, nil
}

// match returns the first node type, in name order, with a rule for el.
func (p *domParser) match(el *html.Node) (*model.NodeType, *model.ParseRule) {
	for _, name := range p.schema.TypeNames() {
		nt := p.schema.Type(name)
		for i := range nt.Spec.ParseDOM {
			rule := &nt.Spec.ParseDOM[i]
			if rule.Tag == el.Data && (rule.Class == "" || hasClass(el, rule.Class)) {
				return nt, rule
			}
		}
	}
	return nil, nil
}

func ruleAttrs(rule *model.ParseRule, el *html.Node) model.Attrs {
	if len(rule.StyleAttrs) == 0 {
		return nil
	}
	style := parseStyle(attrVal(el, "style"))
	attrs := make(model.Attrs, len(rule.StyleAttrs))
	for prop, name := range rule.StyleAttrs {
		if v, ok := style[prop]; ok {
			attrs[name] = v
		}
	}
	return attrs
}

// parseStyle splits an inline style into lower-cased properties.
func parseStyle(s string) map[string]string {
	out := make(map[string]string)
	for decl := range strings.SplitSeq(s, ";") {
		prop, val, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		prop = strings.ToLower(strings.TrimSpace(prop))
		if prop == "" {
			continue
		}
		out[prop] = strings.TrimSpace(val)
	}
	return out
}

func hasClass(el *html.Node, class string) bool {
	for c := range strings.FieldsSeq(attrVal(el, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func attrVal(el *html.Node, key string) string {
	for _, a := range el.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
