package model

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// nodeJSON is the wire shape of a node: {"type", "attrs", "content", "text"}.
type nodeJSON struct {
	Type    string         `json:"type"`
	Attrs   map[string]any `json:"attrs,omitempty"`
	Content []nodeJSON     `json:"content,omitempty"`
	Text    string         `json:"text,omitempty"`
}

// NodeFromJSON parses and validates a JSON document payload.
func (s *Schema) NodeFromJSON(data []byte) (*Node, error) {
	var raw nodeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode node json: %w", err)
	}
	return s.nodeFromJSON(raw)
}

func (s *Schema) nodeFromJSON(raw nodeJSON) (*Node, error) {
	if raw.Type == "" {
		return nil, fmt.Errorf("node without type: %w", ErrUnknownType)
	}
	if raw.Type == TextType {
		if len(raw.Content) > 0 {
			return nil, fmt.Errorf("text with content: %w", ErrInvalidContent)
		}
		return s.Text(raw.Text)
	}

	attrs := make(Attrs, len(raw.Attrs))
	for k, v := range raw.Attrs {
		str, ok := attrString(v)
		if !ok {
			continue
		}
		attrs[k] = str
	}

	children := make([]*Node, 0, len(raw.Content))
	for i, c := range raw.Content {
		child, err := s.nodeFromJSON(c)
		if err != nil {
			return nil, fmt.Errorf("%s.content[%d]: %w", raw.Type, i, err)
		}
		children = append(children, child)
	}
	return s.Node(raw.Type, attrs, children...)
}

func attrString(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		return t, true
	case bool:
		return strconv.FormatBool(t), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return "", false
		}
		return string(b), true
	}
}

func (n *Node) toJSON() nodeJSON {
	out := nodeJSON{Type: n.typ.Name, Text: n.text}
	if len(n.attrs) > 0 {
		out.Attrs = make(map[string]any, len(n.attrs))
		for k, v := range n.attrs {
			out.Attrs[k] = v
		}
	}
	for _, c := range n.content.nodes {
		out.Content = append(out.Content, c.toJSON())
	}
	return out
}

// MarshalJSON encodes the node in the same shape NodeFromJSON reads.
func (n *Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.toJSON())
}
