package extractor

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gnana997/uxc/pkg/delim"
	"github.com/gnana997/uxc/pkg/markup"
)

var (
	// namePattern matches the declaration preceding the first ';'.
	namePattern = regexp.MustCompile(`^name: [^<]+$`)

	// separatorPattern matches runs of path separators inside a name.
	separatorPattern = regexp.MustCompile(`[/\\]+`)
)

const namePrefix = "name: "

// Extractor splits component sources into their sections.
//
// An Extractor is safe for concurrent use as long as its markup parser is.
type Extractor struct {
	parser   markup.Parser
	brackets *delim.Scanner
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithBrackets overrides the scanner used to discover variables in the
// template.
func WithBrackets(s *delim.Scanner) Option {
	return func(e *Extractor) {
		if s != nil {
			e.brackets = s
		}
	}
}

// New creates an extractor that reads template markup with p.
func New(p markup.Parser, opts ...Option) *Extractor {
	e := &Extractor{
		parser:   p,
		brackets: delim.Brackets(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract parses source and validates its structure.
//
// Every violation in the source is collected before returning; a failed
// extraction returns a non-empty Errors and no component.
//
// The only other failure is an error from the injected markup parser,
// returned wrapped and not as an Errors value. The tree-sitter parser fails
// only when its grammar cannot be loaded, never because of the content, so
// with it every source yields either a component or Errors.
func (e *Extractor) Extract(source []byte, sourceID string) (*Component, error) {
	var errs Errors
	record := func(kind ErrorKind) {
		errs = append(errs, &ValidationError{Kind: kind, Source: sourceID})
	}

	name, body, ok := splitName(string(source))
	if !ok {
		record(MissingName)
	}

	root, err := e.parser.ParseFragment([]byte(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse markup of %s: %w", sourceID, err)
	}

	style := takeStyle(root, record)
	script, lang := takeScript(root, record)

	root.Retain(markup.IsElement)
	var template *markup.Element
	switch elements := root.ElementChildren(); len(elements) {
	case 0:
		record(MissingTemplateRoot)
	case 1:
		template = elements[0]
	default:
		record(MultipleTemplateRoots)
	}

	if len(errs) > 0 {
		return nil, errs
	}

	c := &Component{
		Name:       name,
		Source:     sourceID,
		Style:      style,
		HTML:       strings.TrimSpace(template.OuterHTML()),
		Root:       template,
		Script:     script,
		ScriptLang: lang,
	}
	for _, v := range delim.Unique(e.brackets.Scan(c.HTML).Inner()) {
		if strings.HasPrefix(v, I18nPrefix) {
			c.I18nKeys = append(c.I18nKeys, v)
		} else {
			c.Variables = append(c.Variables, v)
		}
	}
	return c, nil
}

// splitName separates the name declaration from the markup that follows it.
// When the declaration is malformed the whole source is markup.
func splitName(source string) (name, body string, ok bool) {
	end := strings.IndexByte(source, ';')
	if end < 0 || !namePattern.MatchString(source[:end]) {
		return "", source, false
	}
	name = strings.TrimSpace(source[len(namePrefix):end])
	name = separatorPattern.ReplaceAllString(name, ".")
	return name, source[end+1:], name != ""
}

func hasTag(tag string) func(*markup.Element) bool {
	return func(el *markup.Element) bool {
		return el.Tag == tag
	}
}

// takeStyle captures and removes every style element. Only the first two are
// classified; a later element of an already seen kind replaces it.
func takeStyle(root *markup.Element, record func(ErrorKind)) *Style {
	elements := root.FindAll(hasTag("style"))
	if len(elements) == 0 {
		return nil
	}
	if len(elements) > 2 {
		record(MultipleStyleOfSameKind)
	}

	style := &Style{}
	var seenScoped, seenUnscoped bool
	for _, el := range elements[:min(len(elements), 2)] {
		body := strings.TrimSpace(el.TextContent())
		if el.HasAttr("scoped") {
			if seenScoped {
				record(MultipleStyleOfSameKind)
			}
			seenScoped = true
			style.Scoped = body
		} else {
			if seenUnscoped {
				record(MultipleStyleOfSameKind)
			}
			seenUnscoped = true
			style.Unscoped = body
		}
	}

	root.RemoveAll(hasTag("style"))
	return style
}

// takeScript captures the first script element's body and removes every
// script element.
func takeScript(root *markup.Element, record func(ErrorKind)) (script, lang string) {
	elements := root.FindAll(hasTag("script"))
	if len(elements) == 0 {
		return "", ""
	}
	if len(elements) > 1 {
		record(MultipleScript)
	}

	script = strings.TrimSpace(elements[0].TextContent())
	lang, _ = elements[0].Attr("lang")

	root.RemoveAll(hasTag("script"))
	return script, lang
}
