package taggers

import (
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/dshills/tagstorm/notify"
	"github.com/dshills/tagstorm/producer"
	"github.com/dshills/tagstorm/span"
	"github.com/dshills/tagstorm/tag"
)

// KindMatch is the tag kind for occurrence matches.
const KindMatch tag.Kind = "reference.match"

// MatchTag marks one occurrence of the match word.
type MatchTag struct {
	// Word is the needle that matched.
	Word string
}

// TagKind implements tag.Tag.
func (m MatchTag) TagKind() tag.Kind { return KindMatch }

// Match tags every occurrence of a word within the requested spans,
// the way an editor highlights references to the symbol under the cursor.
type Match struct {
	mu        sync.RWMutex
	source    Source
	word      string
	wholeWord bool

	notifier  *notify.Notifier
	closeOnce sync.Once
}

// MatchOption configures a Match tagger.
type MatchOption func(*Match)

// WithWholeWord restricts matches to whole words: occurrences bordered by
// identifier characters are skipped.
func WithWholeWord() MatchOption {
	return func(m *Match) {
		m.wholeWord = true
	}
}

// NewMatch creates a Match tagger over the given source.
func NewMatch(source Source, word string, opts ...MatchOption) *Match {
	m := &Match{
		source:   source,
		word:     word,
		notifier: notify.New(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SetWord swaps the needle and fires a whole-document change event, since
// every previously reported occurrence is now stale.
func (m *Match) SetWord(word string) {
	m.mu.Lock()
	changed := m.word != word
	m.word = word
	src := m.source
	m.mu.Unlock()

	if changed {
		m.notifier.Notify(notify.Event{Spans: wholeDocument(src)})
	}
}

// Word returns the current needle.
func (m *Match) Word() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.word
}

// AppendTags appends one result per occurrence of the word inside the
// requested spans. Occurrences are reported in document order.
func (m *Match) AppendTags(spans span.Set, buf *tag.Buffer) error {
	if spans.IsEmpty() {
		return nil
	}

	m.mu.RLock()
	source := m.source
	word := m.word
	wholeWord := m.wholeWord
	m.mu.RUnlock()

	if spans.Version() != source.Version() {
		return producer.ErrStaleSnapshot
	}
	if word == "" {
		return nil
	}

	for i := 0; i < spans.Len(); i++ {
		sp := spans.At(i)
		text := source.Text(sp)

		offset := 0
		for {
			idx := strings.Index(text[offset:], word)
			if idx < 0 {
				break
			}
			start := offset + idx
			end := start + len(word)

			if !wholeWord || isWholeWord(text, start, end) {
				buf.Append(tag.Result{
					Span: span.New(sp.Start+start, sp.Start+end),
					Tag:  MatchTag{Word: word},
				})
			}
			offset = start + len(word)
		}
	}

	return nil
}

// Changes returns the tagger's change notifier.
func (m *Match) Changes() *notify.Notifier {
	return m.notifier
}

// Close releases the tagger's notifier. It is safe to call more than once.
func (m *Match) Close() error {
	m.closeOnce.Do(func() {
		m.notifier.Close()
	})
	return nil
}

// isWholeWord reports whether text[start:end] is bordered by non-identifier
// runes (or the text boundary) on both sides.
func isWholeWord(text string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:start])
		if isIdentRune(r) {
			return false
		}
	}
	if end < len(text) {
		r, _ := utf8.DecodeRuneInString(text[end:])
		if isIdentRune(r) {
			return false
		}
	}
	return true
}

func isIdentRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
