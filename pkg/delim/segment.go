package delim

// Kind tells a literal segment from a delimited match.
type Kind int

const (
	// Literal is text outside any delimiter pair.
	Literal Kind = iota
	// Match is a delimited span.
	Match
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Literal:
		return "literal"
	case Match:
		return "match"
	default:
		return "unknown"
	}
}

// Segment is one piece of a scanned text.
type Segment struct {
	Kind Kind
	// Text is the exact source slice, delimiters included for matches.
	Text string
	// Inner is the raw content between the outermost delimiters of a match,
	// with any nested pairs left intact. Empty for literals.
	Inner string
	// Start and End are byte offsets of Text in the scanned input.
	Start int
	End   int
}

func literal(text string, start, end int) Segment {
	return Segment{Kind: Literal, Text: text[start:end], Start: start, End: end}
}
