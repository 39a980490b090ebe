package delim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type seg struct {
	kind Kind
	text string
}

func kinds(segments []Segment) []seg {
	out := make([]seg, 0, len(segments))
	for _, s := range segments {
		if s.Kind == Match {
			out = append(out, seg{Match, s.Inner})
			continue
		}
		out = append(out, seg{Literal, s.Text})
	}
	return out
}

func TestScan_Split(t *testing.T) {
	nested := MustNew("[", "]", WithNested())
	flat := MustNew("[", "]")

	tests := []struct {
		name    string
		scanner *Scanner
		input   string
		want    []seg
	}{
		{
			name:    "adjacent matches have no literal gap",
			scanner: nested,
			input:   "[a][b]",
			want:    []seg{{Match, "a"}, {Match, "b"}},
		},
		{
			name:    "literal around match",
			scanner: nested,
			input:   "x[a]y",
			want:    []seg{{Literal, "x"}, {Match, "a"}, {Literal, "y"}},
		},
		{
			name:    "nested pair is one match",
			scanner: nested,
			input:   "[a[b]c]",
			want:    []seg{{Match, "a[b]c"}},
		},
		{
			name:    "flat mode stops at first close",
			scanner: flat,
			input:   "[a[b]c]",
			want:    []seg{{Match, "a[b"}, {Literal, "c]"}},
		},
		{
			name:    "empty brackets",
			scanner: nested,
			input:   "a[]b",
			want:    []seg{{Literal, "a"}, {Match, ""}, {Literal, "b"}},
		},
		{
			name:    "unterminated open is literal",
			scanner: nested,
			input:   "x[a]y[z",
			want:    []seg{{Literal, "x"}, {Match, "a"}, {Literal, "y[z"}},
		},
		{
			name:    "unterminated nested open swallows the rest",
			scanner: nested,
			input:   "[a [b] c",
			want:    []seg{{Literal, "[a [b] c"}},
		},
		{
			name:    "no delimiters",
			scanner: nested,
			input:   "plain text",
			want:    []seg{{Literal, "plain text"}},
		},
		{
			name:    "stray close is literal",
			scanner: nested,
			input:   "a]b[c]",
			want:    []seg{{Literal, "a]b"}, {Match, "c"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.scanner.Scan(tt.input).Split()
			assert.Equal(t, tt.want, kinds(got))
		})
	}
}

func TestScan_CoversInputExactly(t *testing.T) {
	s := MustNew("[", "]", WithNested())
	inputs := []string{
		"",
		"[a][b]",
		"Hello [name]! [[x]] [i18n:greet] [unterminated",
		"]]][[[",
		"{[}]",
	}

	for _, input := range inputs {
		var rebuilt string
		next := 0
		for seg := range s.Scan(input).All() {
			assert.Equal(t, next, seg.Start, "segments must be contiguous")
			assert.Equal(t, input[seg.Start:seg.End], seg.Text)
			rebuilt += seg.Text
			next = seg.End
		}
		assert.Equal(t, input, rebuilt)
	}
}

func TestScan_MultiCharDelimiters(t *testing.T) {
	s := MustNew("{{", "}}", WithNested())
	got := s.Scan("a {{ b {{c}} }} d").Split()
	require.Len(t, got, 3)
	assert.Equal(t, " b {{c}} ", got[1].Inner)
	assert.Equal(t, "{{ b {{c}} }}", got[1].Text)
	assert.Equal(t, 2, got[1].Start)
}

func TestResult_Restartable(t *testing.T) {
	r := MustNew("[", "]").Scan("[a] and [b]")
	first := r.Split()
	second := r.Split()
	assert.Equal(t, first, second)

	// Stopping early must not disturb later iterations.
	for range r.All() {
		break
	}
	assert.Equal(t, []string{"a", "b"}, r.Inner())
}

func TestResult_InnerKeepsDuplicates(t *testing.T) {
	r := MustNew("[", "]", WithNested()).Scan("[x] [y] [x]")
	assert.Equal(t, []string{"x", "y", "x"}, r.Inner())
	assert.Equal(t, []string{"x", "y"}, Unique(r.Inner()))
}

func TestResult_Replace(t *testing.T) {
	r := MustNew("[", "]", WithNested()).Scan("name: '[name]', html () { [html] }")
	got := r.Replace(func(inner string) string {
		return map[string]string{"name": "greet", "html": "return [];"}[inner]
	})
	assert.Equal(t, "name: 'greet', html () { return []; }", got)
}

func TestNew_EmptyDelimiter(t *testing.T) {
	_, err := New("", "]")
	assert.ErrorIs(t, err, ErrEmptyDelimiter)
	assert.Panics(t, func() { MustNew("[", "") })
}
