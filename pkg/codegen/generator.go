// Package codegen lowers a validated component into flat lists of
// construction instructions with a reactive update table.
package codegen

import (
	"fmt"
	"strings"

	"github.com/gnana997/uxc/pkg/cssscope"
	"github.com/gnana997/uxc/pkg/delim"
	"github.com/gnana997/uxc/pkg/extractor"
	"github.com/gnana997/uxc/pkg/markup"
)

// IDVar is the reserved variable holding the instance id. It never gets an
// update list.
const IDVar = "id"

// Generator lowers components. It keeps no state between calls and is safe
// for concurrent use.
type Generator struct {
	brackets *delim.Scanner
}

// Option configures a Generator.
type Option func(*Generator)

// WithBrackets overrides the scanner used to find variables in text and
// attribute values.
func WithBrackets(s *delim.Scanner) Option {
	return func(g *Generator) {
		if s != nil {
			g.brackets = s
		}
	}
}

// New creates a generator.
func New(opts ...Option) *Generator {
	g := &Generator{brackets: delim.Brackets()}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate lowers c. The same component always yields an identical
// artifact.
func (g *Generator) Generate(c *extractor.Component) *Artifact {
	a := &Artifact{
		Name:   Slug(c.Name),
		Style:  []Instruction{},
		HTML:   []Instruction{},
		Script: []Instruction{},
	}
	l := &lowering{brackets: g.brackets}

	if sheet := stylesheet(c.Style); sheet != "" {
		l.raw = true
		style := &markup.Element{
			Tag:      "style",
			Children: []markup.Node{&markup.Text{Data: sheet}},
		}
		h, _ := l.lower(style)
		a.Style = append(l.take(), Instruction{Op: OpReturn, Handles: []string{h}})
		l.raw = false
	}

	var handles []string
	if c.Root != nil {
		if h, ok := l.lower(c.Root); ok {
			handles = append(handles, h)
		}
	}
	body := l.take()

	for _, v := range delim.Unique(append(append([]string{}, c.Variables...), l.watched...)) {
		if v == IDVar {
			continue
		}
		a.HTML = append(a.HTML, Instruction{Op: OpInitUpdates, Var: v})
	}
	a.HTML = append(a.HTML, body...)
	a.HTML = append(a.HTML, Instruction{Op: OpReturn, Handles: handles})

	if c.Script != "" {
		a.Script = append(a.Script, Instruction{Op: OpScript, Code: c.Script})
	}
	return a
}

// stylesheet joins the scoped and unscoped bodies after scoping each.
func stylesheet(s *extractor.Style) string {
	if s == nil {
		return ""
	}
	var sheet string
	if s.Scoped != "" {
		sheet += cssscope.Scope(cssscope.Escape(s.Scoped), true)
	}
	if s.Unscoped != "" {
		sheet += cssscope.Scope(cssscope.Escape(s.Unscoped), false)
	}
	return sheet
}

// lowering is the state of one Generate call.
type lowering struct {
	brackets *delim.Scanner
	// raw marks style lowering: text is literal apart from the marker and
	// registers no updates.
	raw     bool
	next    int
	out     []Instruction
	watched []string
}

func (l *lowering) handle() string {
	h := fmt.Sprintf("el%d", l.next)
	l.next++
	return h
}

func (l *lowering) emit(in Instruction) {
	l.out = append(l.out, in)
}

// take returns the instructions emitted so far and starts a new list.
func (l *lowering) take() []Instruction {
	out := l.out
	l.out = nil
	return out
}

func (l *lowering) expr(text string) Expr {
	if l.raw {
		return styleText(text)
	}
	return interpolate(l.brackets, text)
}

// watch registers update once per variable read by update.Value.
func (l *lowering) watch(update Instruction) {
	if l.raw {
		return
	}
	for _, v := range delim.Unique(update.Value.Vars()) {
		if v == IDVar || strings.HasPrefix(v, extractor.I18nPrefix) {
			continue
		}
		u := update
		l.watched = append(l.watched, v)
		l.emit(Instruction{Op: OpOnUpdate, Var: v, Handle: u.Handle, Update: &u})
	}
}

// lower emits n after its children and returns its handle. Blank text and
// comments produce no node.
func (l *lowering) lower(n markup.Node) (string, bool) {
	switch n := n.(type) {
	case *markup.Text:
		text := strings.TrimSpace(n.Data)
		if text == "" {
			return "", false
		}
		value := l.expr(text)
		h := l.handle()
		l.emit(Instruction{Op: OpCreateText, Handle: h, Value: value})
		l.watch(Instruction{Op: OpSetText, Handle: h, Value: value})
		return h, true

	case *markup.Element:
		var children []string
		for _, c := range n.Children {
			if h, ok := l.lower(c); ok {
				children = append(children, h)
			}
		}

		h := l.handle()
		l.emit(Instruction{Op: OpCreateElement, Handle: h, Tag: n.Tag})
		for _, attr := range withMarker(n.Attrs) {
			value := l.expr(attr.Value)
			l.emit(Instruction{Op: OpSetAttribute, Handle: h, Name: attr.Name, Value: value})
			l.watch(Instruction{Op: OpSetAttribute, Handle: h, Name: attr.Name, Value: value})
		}
		for _, c := range children {
			l.emit(Instruction{Op: OpAppendChild, Handle: h, Child: c})
		}
		return h, true

	default:
		return "", false
	}
}

// withMarker returns a copy of attrs whose class list includes the instance
// marker.
func withMarker(attrs []markup.Attr) []markup.Attr {
	out := make([]markup.Attr, len(attrs), len(attrs)+1)
	copy(out, attrs)
	for i, a := range out {
		if a.Name != "class" {
			continue
		}
		if !hasClass(a.Value, cssscope.Marker) {
			out[i].Value = strings.TrimSpace(a.Value + " " + cssscope.Marker)
		}
		return out
	}
	return append(out, markup.Attr{Name: "class", Value: cssscope.Marker})
}

func hasClass(list, class string) bool {
	for _, c := range strings.Fields(list) {
		if c == class {
			return true
		}
	}
	return false
}
