package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleJSON = `{
  "type": "doc",
  "content": [{
    "type": "parent",
    "attrs": {"color": "red"},
    "content": [
      {"type": "childparent", "attrs": {"color": "blue"}, "content": [
        {"type": "child", "content": [{"type": "text", "text": "1"}]},
        {"type": "child", "content": [{"type": "text", "text": "2"}]}
      ]},
      {"type": "childparent", "attrs": {"color": "green"}, "content": [
        {"type": "child", "content": [{"type": "text", "text": "3"}]},
        {"type": "child", "content": [{"type": "text", "text": "4"}]}
      ]}
    ]
  }]
}`

func TestNodeFromJSON(t *testing.T) {
	s := testSchema(t)
	doc, err := s.NodeFromJSON([]byte(sampleJSON))
	require.NoError(t, err)

	assert.Equal(t, "doc", doc.Type().Name)
	assert.Equal(t, "1234", doc.TextContent())
	assert.Equal(t, "green", doc.Child(0).Child(1).Attr("color"))
	require.NoError(t, s.Check(doc))
}

func TestNodeFromJSON_RoundTrip(t *testing.T) {
	s := testSchema(t)
	doc, err := s.NodeFromJSON([]byte(sampleJSON))
	require.NoError(t, err)

	data, err := json.Marshal(doc)
	require.NoError(t, err)
	again, err := s.NodeFromJSON(data)
	require.NoError(t, err)

	assert.True(t, doc.Equal(again))
	assert.JSONEq(t, sampleJSON, string(data))
}

func TestNodeFromJSON_NonStringAttrs(t *testing.T) {
	s := testSchema(t)
	doc, err := s.NodeFromJSON([]byte(`{"type":"doc","content":[{"type":"parent","attrs":{"color":3}}]}`))
	require.NoError(t, err)
	assert.Equal(t, "3", doc.Child(0).Attr("color"))
}

func TestNodeFromJSON_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"unknown type", `{"type":"doc","content":[{"type":"table"}]}`, ErrUnknownType},
		{"missing type", `{"content":[]}`, ErrUnknownType},
		{"missing attr", `{"type":"doc","content":[{"type":"parent"}]}`, ErrMissingAttr},
		{"null attr", `{"type":"doc","content":[{"type":"parent","attrs":{"color":null}}]}`, ErrMissingAttr},
		{"wrong child", `{"type":"doc","content":[{"type":"child"}]}`, ErrInvalidContent},
		{"empty text", `{"type":"child","content":[{"type":"text","text":""}]}`, ErrEmptyText},
	}
	s := testSchema(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.NodeFromJSON([]byte(tt.input))
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestNodeFromJSON_Malformed(t *testing.T) {
	s := testSchema(t)
	_, err := s.NodeFromJSON([]byte(`{"type":`))
	require.Error(t, err)
}
