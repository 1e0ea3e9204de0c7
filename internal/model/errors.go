package model

import "errors"

// Schema and construction errors.
var (
	// ErrUnknownType indicates a node type name the schema does not define.
	ErrUnknownType = errors.New("unknown node type")

	// ErrMissingAttr indicates a required attribute was not supplied.
	ErrMissingAttr = errors.New("missing required attribute")

	// ErrInvalidContent indicates children that the parent's content rule does not allow.
	ErrInvalidContent = errors.New("invalid content for node type")

	// ErrEmptyText indicates a text node with no text.
	ErrEmptyText = errors.New("empty text node")
)

// Transaction errors.
var (
	// ErrOutOfRange indicates a position outside the document content.
	ErrOutOfRange = errors.New("position out of range")

	// ErrOverlap indicates two staged replacements that cannot both take effect.
	ErrOverlap = errors.New("replacement ranges overlap")

	// ErrStaleRange indicates a replacement nested inside an earlier replacement
	// whose nodes can no longer be found there exactly once.
	ErrStaleRange = errors.New("replacement range is stale")

	// ErrRangeMisaligned indicates a range that does not start and end on
	// child boundaries of a single parent.
	ErrRangeMisaligned = errors.New("range does not align with node boundaries")
)
