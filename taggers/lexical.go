package taggers

import (
	"regexp"
	"sort"
	"sync"
	"unicode"

	"github.com/dshills/tagstorm/notify"
	"github.com/dshills/tagstorm/producer"
	"github.com/dshills/tagstorm/span"
	"github.com/dshills/tagstorm/tag"
)

// Syntax tag kinds produced by the Lexical tagger.
const (
	KindSyntax            tag.Kind = "syntax"
	KindComment           tag.Kind = "syntax.comment"
	KindString            tag.Kind = "syntax.string"
	KindNumber            tag.Kind = "syntax.number"
	KindKeywordControl    tag.Kind = "syntax.keyword.control"
	KindKeywordDeclare    tag.Kind = "syntax.keyword.declaration"
	KindKeywordOther      tag.Kind = "syntax.keyword.other"
	KindConstantLanguage  tag.Kind = "syntax.constant.language"
	KindTypeBuiltin       tag.Kind = "syntax.type.builtin"
	KindFunctionBuiltin   tag.Kind = "syntax.function.builtin"
	KindIdentifierDefault tag.Kind = "syntax.identifier"
)

// SyntaxTag classifies a lexical token.
type SyntaxTag struct {
	// Kind is the token classification.
	Kind tag.Kind
}

// TagKind implements tag.Tag.
func (s SyntaxTag) TagKind() tag.Kind { return s.Kind }

// Rule defines a lexical tagging rule.
type Rule struct {
	// Pattern is the regex pattern to match.
	Pattern *regexp.Regexp

	// Kind is the tag kind to assign to matches.
	Kind tag.Kind
}

// Lexical is a regex-and-keyword syntax tagger. Rules run in registration
// order and the first rule to claim a byte wins; untagged identifiers are
// then scanned against the keyword table. It is a deliberately simple
// single-pass lexer: good enough for occurrence-level syntax tags, with no
// cross-span lexer state.
type Lexical struct {
	mu       sync.RWMutex
	source   Source
	rules    []Rule
	keywords map[string]tag.Kind
	tagIdent bool

	notifier  *notify.Notifier
	closeOnce sync.Once
}

// NewLexical creates a lexical tagger over the given source.
func NewLexical(source Source) *Lexical {
	return &Lexical{
		source:   source,
		keywords: make(map[string]tag.Kind),
		notifier: notify.New(),
	}
}

// AddRule adds a tagging rule. Rules run in the order they were added.
func (l *Lexical) AddRule(pattern string, kind tag.Kind) *Lexical {
	re := regexp.MustCompile(pattern)
	l.mu.Lock()
	l.rules = append(l.rules, Rule{Pattern: re, Kind: kind})
	l.mu.Unlock()
	return l
}

// AddKeywords adds keywords with a specific tag kind.
func (l *Lexical) AddKeywords(kind tag.Kind, keywords ...string) *Lexical {
	l.mu.Lock()
	for _, kw := range keywords {
		l.keywords[kw] = kind
	}
	l.mu.Unlock()
	return l
}

// TagIdentifiers enables tagging of identifiers that match no keyword with
// KindIdentifierDefault. Off by default to keep output sparse.
func (l *Lexical) TagIdentifiers() *Lexical {
	l.mu.Lock()
	l.tagIdent = true
	l.mu.Unlock()
	return l
}

// AppendTags appends syntax tags for every requested span. Token spans are
// reported in document coordinates and never cross a requested span
// boundary.
func (l *Lexical) AppendTags(spans span.Set, buf *tag.Buffer) error {
	if spans.IsEmpty() {
		return nil
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	if spans.Version() != l.source.Version() {
		return producer.ErrStaleSnapshot
	}

	for i := 0; i < spans.Len(); i++ {
		sp := spans.At(i)
		l.tagSpan(sp, l.source.Text(sp), buf)
	}

	return nil
}

// Changes returns the tagger's change notifier.
func (l *Lexical) Changes() *notify.Notifier {
	return l.notifier
}

// Close releases the tagger's notifier. It is safe to call more than once.
func (l *Lexical) Close() error {
	l.closeOnce.Do(func() {
		l.notifier.Close()
	})
	return nil
}

// tagSpan lexes one span's text and appends its tokens in document order.
func (l *Lexical) tagSpan(sp span.Span, text string, buf *tag.Buffer) {
	if len(text) == 0 {
		return
	}

	covered := make([]bool, len(text))
	tokens := make([]tag.Result, 0)

	// Apply regex rules; first claim on a byte wins.
	for _, rule := range l.rules {
		matches := rule.Pattern.FindAllStringIndex(text, -1)
		for _, match := range matches {
			start, end := match[0], match[1]
			if end > start && !isCovered(covered, start, end) {
				tokens = append(tokens, tag.Result{
					Span: span.New(sp.Start+start, sp.Start+end),
					Tag:  SyntaxTag{Kind: rule.Kind},
				})
				markCovered(covered, start, end)
			}
		}
	}

	// Scan remaining identifiers against the keyword table.
	tokens = append(tokens, l.findIdentifiers(sp, text, covered)...)

	sort.Slice(tokens, func(i, j int) bool {
		return tokens[i].Span.Start < tokens[j].Span.Start
	})

	buf.AppendAll(tokens...)
}

// findIdentifiers finds uncovered identifiers and tags keywords.
func (l *Lexical) findIdentifiers(sp span.Span, text string, covered []bool) []tag.Result {
	tokens := make([]tag.Result, 0)

	i := 0
	for i < len(text) {
		if covered[i] {
			i++
			continue
		}

		r := rune(text[i])
		if !unicode.IsLetter(r) && r != '_' {
			i++
			continue
		}

		start := i
		for i < len(text) {
			r = rune(text[i])
			if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
				break
			}
			i++
		}
		end := i

		if isCovered(covered, start, end) {
			continue
		}

		word := text[start:end]
		kind, isKeyword := l.keywords[word]
		if !isKeyword {
			if !l.tagIdent {
				continue
			}
			kind = KindIdentifierDefault
		}

		tokens = append(tokens, tag.Result{
			Span: span.New(sp.Start+start, sp.Start+end),
			Tag:  SyntaxTag{Kind: kind},
		})
		markCovered(covered, start, end)
	}

	return tokens
}

// isCovered checks if any byte in the range is already claimed.
func isCovered(covered []bool, start, end int) bool {
	if start < 0 || start >= len(covered) {
		return false
	}
	for i := start; i < end && i < len(covered); i++ {
		if covered[i] {
			return true
		}
	}
	return false
}

// markCovered claims a byte range.
func markCovered(covered []bool, start, end int) {
	if start < 0 {
		start = 0
	}
	for i := start; i < end && i < len(covered); i++ {
		covered[i] = true
	}
}

// NewGoLexical returns a lexical tagger preconfigured for Go source.
func NewGoLexical(source Source) *Lexical {
	l := NewLexical(source)

	l.AddRule(`//[^\n]*`, KindComment)
	l.AddRule(`"(?:[^"\\]|\\.)*"`, KindString)
	l.AddRule("`[^`]*`", KindString)
	l.AddRule(`'(?:[^'\\]|\\.)'`, KindString)
	l.AddRule(`\b0[xX][0-9a-fA-F]+\b`, KindNumber)
	l.AddRule(`\b\d+\.?\d*(?:[eE][+-]?\d+)?\b`, KindNumber)

	l.AddKeywords(KindKeywordControl,
		"if", "else", "for", "range", "switch", "case", "default",
		"break", "continue", "return", "goto", "fallthrough", "select")
	l.AddKeywords(KindKeywordDeclare,
		"func", "var", "const", "type", "struct", "interface", "map", "chan")
	l.AddKeywords(KindKeywordOther,
		"package", "import", "defer", "go")
	l.AddKeywords(KindConstantLanguage,
		"true", "false", "nil", "iota")
	l.AddKeywords(KindTypeBuiltin,
		"int", "int8", "int16", "int32", "int64",
		"uint", "uint8", "uint16", "uint32", "uint64", "uintptr",
		"float32", "float64", "complex64", "complex128",
		"bool", "byte", "rune", "string", "error", "any")
	l.AddKeywords(KindFunctionBuiltin,
		"make", "new", "len", "cap", "append", "copy", "delete",
		"close", "panic", "recover", "print", "println",
		"real", "imag", "complex", "min", "max", "clear")

	return l
}
