package tag

import (
	"strings"

	"github.com/dshills/tagstorm/span"
)

// Kind is a hierarchical, dot-separated tag classification
// (e.g. "syntax.keyword.control", "diagnostic.error", "reference.match").
// Kinds follow TextMate/VS Code scope naming conventions at a high level.
type Kind string

// String returns the kind as a string.
func (k Kind) String() string {
	return string(k)
}

// Parent returns the next-broader kind, or the empty kind at the root.
// "syntax.keyword.control" -> "syntax.keyword" -> "syntax" -> "".
func (k Kind) Parent() Kind {
	i := strings.LastIndexByte(string(k), '.')
	if i < 0 {
		return ""
	}
	return k[:i]
}

// HasPrefix returns true if the kind equals prefix or is nested beneath it.
func (k Kind) HasPrefix(prefix Kind) bool {
	if k == prefix {
		return true
	}
	return len(k) > len(prefix) &&
		strings.HasPrefix(string(k), string(prefix)) &&
		k[len(prefix)] == '.'
}

// Tag is an opaque payload attached to a span of text.
// Implementations must be comparable with == so consumers can detect
// unchanged tags across requests; the engine imposes nothing else.
type Tag interface {
	TagKind() Kind
}

// Result pairs a tag with the span it applies to. Results are immutable
// once appended to a buffer.
type Result struct {
	Span span.Span
	Tag  Tag
}
