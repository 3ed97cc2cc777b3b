package style

import (
	"github.com/dshills/tagstorm/tag"
)

// Style represents the visual style of tagged text. Colors are strings in
// whatever form the consumer understands (hex, named); empty means "inherit".
type Style struct {
	Foreground    string
	Background    string
	Bold          bool
	Italic        bool
	Underline     bool
	Strikethrough bool
}

// IsZero reports whether the style sets nothing.
func (s Style) IsZero() bool {
	return s == Style{}
}

// Merge combines two styles. The other style takes precedence for non-empty
// colors; boolean attributes are OR'd together.
func (s Style) Merge(other Style) Style {
	result := s
	if other.Foreground != "" {
		result.Foreground = other.Foreground
	}
	if other.Background != "" {
		result.Background = other.Background
	}
	result.Bold = result.Bold || other.Bold
	result.Italic = result.Italic || other.Italic
	result.Underline = result.Underline || other.Underline
	result.Strikethrough = result.Strikethrough || other.Strikethrough
	return result
}

// Theme maps tag kinds to styles. A Theme is immutable after construction
// and safe for concurrent use.
type Theme struct {
	name     string
	styles   map[tag.Kind]Style
	fallback Style
}

// NewTheme builds a theme from a kind-to-style table. The map is copied.
func NewTheme(name string, styles map[tag.Kind]Style, fallback Style) *Theme {
	copied := make(map[tag.Kind]Style, len(styles))
	for k, s := range styles {
		copied[k] = s
	}
	return &Theme{
		name:     name,
		styles:   copied,
		fallback: fallback,
	}
}

// Name returns the theme's name.
func (t *Theme) Name() string {
	return t.name
}

// StyleFor resolves the style for a tag kind. It walks the kind hierarchy
// toward the root and returns the first style found, or the theme's fallback
// when no level of the hierarchy is styled.
func (t *Theme) StyleFor(kind tag.Kind) Style {
	for k := kind; k != ""; k = k.Parent() {
		if s, ok := t.styles[k]; ok {
			return s
		}
	}
	return t.fallback
}

// Has reports whether the theme styles this exact kind, ignoring hierarchy
// fallback.
func (t *Theme) Has(kind tag.Kind) bool {
	_, ok := t.styles[kind]
	return ok
}

// Len returns the number of exact kinds the theme styles.
func (t *Theme) Len() int {
	return len(t.styles)
}

// Fallback returns the style used when no level of a kind's hierarchy is
// styled.
func (t *Theme) Fallback() Style {
	return t.fallback
}

// DefaultTheme returns a built-in dark theme covering the common syntax and
// diagnostic kinds.
func DefaultTheme() *Theme {
	return NewTheme("default-dark", map[tag.Kind]Style{
		"syntax.comment":     {Foreground: "#8b949e", Italic: true},
		"syntax.string":      {Foreground: "#a5d6ff"},
		"syntax.number":      {Foreground: "#79c0ff"},
		"syntax.keyword":     {Foreground: "#ff7b72"},
		"syntax.constant":    {Foreground: "#79c0ff"},
		"syntax.type":        {Foreground: "#ffa657"},
		"syntax.function":    {Foreground: "#d2a8ff"},
		"diagnostic.error":   {Foreground: "#ff5050", Underline: true},
		"diagnostic.warning": {Foreground: "#ffc850", Underline: true},
		"diagnostic.hint":    {Foreground: "#808080", Italic: true},
		"reference.match":    {Background: "#3c5a82"},
	}, Style{Foreground: "#c9d1d9"})
}
