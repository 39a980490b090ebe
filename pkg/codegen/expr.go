package codegen

import (
	"strings"

	"github.com/gnana997/uxc/pkg/cssscope"
	"github.com/gnana997/uxc/pkg/delim"
)

// Part is one operand of a text-creation expression: a literal string or a
// read of the variable named by Text.
type Part struct {
	Var  bool   `json:"var,omitempty"`
	Text string `json:"text"`
}

// Expr concatenates its parts. An empty Expr is the empty string.
type Expr []Part

// Vars returns the variables read by e in order, duplicates included.
func (e Expr) Vars() []string {
	var vars []string
	for _, p := range e {
		if p.Var {
			vars = append(vars, p.Text)
		}
	}
	return vars
}

// String renders e in bracket syntax, the inverse of interpolate.
func (e Expr) String() string {
	var b strings.Builder
	for _, p := range e {
		if p.Var {
			b.WriteString("[")
			b.WriteString(p.Text)
			b.WriteString("]")
			continue
		}
		b.WriteString(p.Text)
	}
	return b.String()
}

// interpolate splits text into literal parts and variable reads.
func interpolate(brackets *delim.Scanner, text string) Expr {
	var e Expr
	for seg := range brackets.Scan(text).All() {
		if seg.Kind == delim.Match {
			e = append(e, Part{Var: true, Text: seg.Inner})
		} else {
			e = append(e, Part{Text: seg.Text})
		}
	}
	return e
}

// styleText treats text as literal except for unescaped instance markers,
// which become reads of the id variable.
func styleText(text string) Expr {
	var e Expr
	pos := 0
	for {
		i := strings.Index(text[pos:], cssscope.Marker)
		if i < 0 {
			break
		}
		at := pos + i
		if at > 0 && text[at-1] == '\\' {
			e = appendLiteral(e, text[pos:at+1])
			pos = at + 1
			continue
		}
		e = appendLiteral(e, text[pos:at])
		e = append(e, Part{Var: true, Text: IDVar})
		pos = at + len(cssscope.Marker)
	}
	return appendLiteral(e, text[pos:])
}

// appendLiteral adds s to e, merging it into a trailing literal part.
func appendLiteral(e Expr, s string) Expr {
	if s == "" {
		return e
	}
	if n := len(e); n > 0 && !e[n-1].Var {
		e[n-1].Text += s
		return e
	}
	return append(e, Part{Text: s})
}
