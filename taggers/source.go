package taggers

import "github.com/dshills/tagstorm/span"

// Source is the document collaborator taggers read from: an immutable view
// of the current snapshot with range addressing. Implementations are
// provided by the surrounding editor; the engine never mutates a source.
//
// Text must return the bytes of the given span clipped to the document;
// Version must identify the snapshot those bytes belong to.
type Source interface {
	Version() span.Version
	Len() int
	Text(sp span.Span) string
}

// StringSource is a trivial in-memory Source over a fixed string, intended
// for tests and tooling.
type StringSource struct {
	version span.Version
	text    string
}

// NewStringSource creates a StringSource at the given version.
func NewStringSource(version span.Version, text string) *StringSource {
	return &StringSource{version: version, text: text}
}

// Version returns the snapshot version.
func (s *StringSource) Version() span.Version {
	return s.version
}

// Len returns the document length in bytes.
func (s *StringSource) Len() int {
	return len(s.text)
}

// Text returns the text of the given span, clipped to the document.
func (s *StringSource) Text(sp span.Span) string {
	start := sp.Start
	end := sp.End
	if start < 0 {
		start = 0
	}
	if end > len(s.text) {
		end = len(s.text)
	}
	if start >= end {
		return ""
	}
	return s.text[start:end]
}

// wholeDocument returns a set covering the entire source at its current
// version, used for change events that cannot be attributed more narrowly.
func wholeDocument(src Source) span.Set {
	return span.NewSet(src.Version(), span.New(0, src.Len()))
}
