// Package extractor splits a component source into its name, style bodies,
// script body and single template root, and validates that structure.
package extractor

import "github.com/gnana997/uxc/pkg/markup"

// I18nPrefix marks a bracketed name as a translation key rather than a
// variable.
const I18nPrefix = "i18n:"

// Component is a validated component source.
//
// A Component returned by Extract is never mutated afterwards; generators
// read it concurrently.
type Component struct {
	// Name is the declared name with path separators replaced by '.'.
	Name string `json:"name"`

	// Source identifies where the component came from, usually a file path.
	Source string `json:"source"`

	// Style is nil when the source has no style element.
	Style *Style `json:"style,omitempty"`

	// HTML is the markup of the template root, trimmed.
	HTML string `json:"html"`

	// Root is the template root element with style and script elements
	// removed.
	Root *markup.Element `json:"-"`

	// Script is the trimmed body of the script element, empty if absent.
	Script string `json:"script,omitempty"`

	// ScriptLang is the script element's lang attribute, if any.
	ScriptLang string `json:"script_lang,omitempty"`

	// Variables and I18nKeys hold the distinct bracketed names in HTML, in
	// order of first appearance.
	Variables []string `json:"variables"`
	I18nKeys  []string `json:"i18n_keys"`
}

// Style holds at most one scoped and one unscoped style body.
type Style struct {
	Scoped   string `json:"scoped,omitempty"`
	Unscoped string `json:"unscoped,omitempty"`
}

// HasScoped reports whether a scoped body was captured.
func (s *Style) HasScoped() bool { return s != nil && s.Scoped != "" }

// HasUnscoped reports whether an unscoped body was captured.
func (s *Style) HasUnscoped() bool { return s != nil && s.Unscoped != "" }
