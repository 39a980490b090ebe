// Package delim locates balanced open/close delimiter pairs in text and
// exposes the result as an ordered run of literal and matched segments.
package delim

import (
	"errors"
	"iter"
	"strings"
)

// ErrEmptyDelimiter is returned when either delimiter is the empty string.
var ErrEmptyDelimiter = errors.New("delim: delimiters must not be empty")

// Scanner finds spans enclosed by an open and a close delimiter.
//
// A Scanner holds no per-scan state and is safe for concurrent use.
type Scanner struct {
	open   string
	close  string
	nested bool
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithNested makes the scanner count delimiter depth, so a match spans the
// outermost balanced pair instead of stopping at the first close.
func WithNested() Option {
	return func(s *Scanner) {
		s.nested = true
	}
}

// New creates a scanner for the given delimiter pair.
func New(open, close string, opts ...Option) (*Scanner, error) {
	if open == "" || close == "" {
		return nil, ErrEmptyDelimiter
	}
	s := &Scanner{open: open, close: close}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// MustNew is like New but panics on invalid delimiters.
func MustNew(open, close string, opts ...Option) *Scanner {
	s, err := New(open, close, opts...)
	if err != nil {
		panic(err)
	}
	return s
}

// Brackets returns a nesting scanner for "[" and "]", the variable
// interpolation syntax of component templates.
func Brackets() *Scanner {
	return MustNew("[", "]", WithNested())
}

// Open returns the open delimiter.
func (s *Scanner) Open() string { return s.open }

// Close returns the close delimiter.
func (s *Scanner) Close() string { return s.close }

// Nested reports whether the scanner counts delimiter depth.
func (s *Scanner) Nested() bool { return s.nested }

// Scan prepares a scan of text. No work happens until the result is iterated.
func (s *Scanner) Scan(text string) *Result {
	return &Result{scanner: s, text: text}
}

// closing returns the index of the close delimiter that balances an open
// delimiter ending at from, or false when the input ends first.
func (s *Scanner) closing(text string, from int) (int, bool) {
	if !s.nested {
		idx := strings.Index(text[from:], s.close)
		if idx < 0 {
			return 0, false
		}
		return from + idx, true
	}

	depth := 1
	for i := from; i < len(text); {
		// Close is checked first so identical delimiters never nest.
		if strings.HasPrefix(text[i:], s.close) {
			depth--
			if depth == 0 {
				return i, true
			}
			i += len(s.close)
			continue
		}
		if strings.HasPrefix(text[i:], s.open) {
			depth++
			i += len(s.open)
			continue
		}
		i++
	}
	return 0, false
}

// Result is a lazy, restartable view over one scanned text.
type Result struct {
	scanner *Scanner
	text    string
}

// Text returns the scanned input.
func (r *Result) Text() string { return r.text }

// All yields the segments of the text from left to right. Literal and match
// segments together cover the input exactly once; empty literals are never
// produced. Each call restarts the scan from the beginning.
func (r *Result) All() iter.Seq[Segment] {
	return func(yield func(Segment) bool) {
		s, text := r.scanner, r.text
		pos := 0
		for pos < len(text) {
			idx := strings.Index(text[pos:], s.open)
			if idx < 0 {
				break
			}
			start := pos + idx
			innerStart := start + len(s.open)
			end, ok := s.closing(text, innerStart)
			if !ok {
				// Unterminated open: the remainder is literal text.
				break
			}
			if start > pos {
				if !yield(literal(text, pos, start)) {
					return
				}
			}
			matchEnd := end + len(s.close)
			if !yield(Segment{
				Kind:  Match,
				Text:  text[start:matchEnd],
				Inner: text[innerStart:end],
				Start: start,
				End:   matchEnd,
			}) {
				return
			}
			pos = matchEnd
		}
		if pos < len(text) {
			yield(literal(text, pos, len(text)))
		}
	}
}

// Split returns every segment in order.
func (r *Result) Split() []Segment {
	var segments []Segment
	for seg := range r.All() {
		segments = append(segments, seg)
	}
	return segments
}

// Inner returns the inner text of every match in order, duplicates included.
func (r *Result) Inner() []string {
	var inner []string
	for seg := range r.All() {
		if seg.Kind == Match {
			inner = append(inner, seg.Inner)
		}
	}
	return inner
}

// Replace substitutes each match, delimiters included, with the resolver's
// output for its inner text. Literal segments are copied unchanged.
func (r *Result) Replace(resolve func(inner string) string) string {
	var b strings.Builder
	b.Grow(len(r.text))
	for seg := range r.All() {
		if seg.Kind == Match {
			b.WriteString(resolve(seg.Inner))
			continue
		}
		b.WriteString(seg.Text)
	}
	return b.String()
}

// Unique returns values with duplicates removed, keeping first appearances.
func Unique(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
