package parser

import (
	"path/filepath"
	"strings"
)

// Language represents a grammar the compiler can parse.
type Language int

const (
	// LanguageHTML is component template markup (.ux, .html)
	LanguageHTML Language = iota
	// LanguageCSS is style block content (.css)
	LanguageCSS
	// LanguageJavaScript is script bodies and generated modules (.js, .uxjs)
	LanguageJavaScript
	// LanguageTypeScript is script bodies declared with lang="ts" (.ts)
	LanguageTypeScript
	// LanguageUnknown represents an unsupported language
	LanguageUnknown
)

// String returns the string representation of the language.
func (l Language) String() string {
	switch l {
	case LanguageHTML:
		return "html"
	case LanguageCSS:
		return "css"
	case LanguageJavaScript:
		return "javascript"
	case LanguageTypeScript:
		return "typescript"
	default:
		return "unknown"
	}
}

// DetectLanguage detects the language from a file path.
// Returns LanguageUnknown if the file extension is not recognized.
func DetectLanguage(filePath string) Language {
	ext := strings.ToLower(filepath.Ext(filePath))

	switch ext {
	case ".ux", ".html", ".htm":
		return LanguageHTML
	case ".css":
		return LanguageCSS
	case ".js", ".mjs", ".cjs", ".uxjs":
		return LanguageJavaScript
	case ".ts", ".mts", ".cts":
		return LanguageTypeScript
	default:
		return LanguageUnknown
	}
}

// ParseLanguageString converts a language name, such as the value of a
// script element's lang attribute, to a Language.
// An empty string means JavaScript, the default script language.
func ParseLanguageString(lang string) Language {
	switch strings.ToLower(strings.TrimSpace(lang)) {
	case "", "javascript", "js":
		return LanguageJavaScript
	case "typescript", "ts":
		return LanguageTypeScript
	case "html":
		return LanguageHTML
	case "css":
		return LanguageCSS
	default:
		return LanguageUnknown
	}
}

// SupportedLanguages returns a list of all supported languages.
func SupportedLanguages() []Language {
	return []Language{
		LanguageHTML,
		LanguageCSS,
		LanguageJavaScript,
		LanguageTypeScript,
	}
}
