// Package validator checks compiled components for problems a build would
// otherwise only hit at runtime: generated modules, script bodies and style
// bodies that do not parse, and template variables the script never touches.
//
// Findings are advisory. A compilation never fails because of them.
package validator

import (
	"fmt"
	"log/slog"
	"strings"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/uxc/pkg/parser"
)

// maxSyntaxViolations caps the findings reported per parsed source.
const maxSyntaxViolations = 10

// Rule names.
const (
	RuleModuleSyntax    = "module-syntax"
	RuleScriptSyntax    = "script-syntax"
	RuleStyleSyntax     = "style-syntax"
	RuleUnboundVariable = "unbound-variable"
)

// Severity levels.
const (
	SeverityWarning = "warning"
	SeverityInfo    = "info"
)

// Input is what the validator looks at for one component.
type Input struct {
	Source     string
	Module     string
	Script     string
	ScriptLang string
	Styles     []string
	Variables  []string
}

// ValidationResult represents the result of validating one component.
type ValidationResult struct {
	Source     string      `json:"source"`
	Valid      bool        `json:"valid"`
	Violations []Violation `json:"violations,omitempty"`
	Summary    string      `json:"summary"`
}

// Violation represents a single finding.
type Violation struct {
	Rule       string `json:"rule"`
	Message    string `json:"message"`
	Severity   string `json:"severity"`
	Line       int    `json:"line,omitempty"`
	Column     int    `json:"column,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

// Validator parses compiler output with tree-sitter grammars.
type Validator struct {
	parser *parser.ParserManager
	logger *slog.Logger
}

// NewValidator creates a validator. The parser manager is shared, not owned.
func NewValidator(pm *parser.ParserManager, logger *slog.Logger) *Validator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Validator{parser: pm, logger: logger}
}

// Validate runs every check on in.
func (v *Validator) Validate(in Input) *ValidationResult {
	result := &ValidationResult{Source: in.Source}

	if in.Module != "" {
		result.Violations = append(result.Violations,
			v.checkSyntax(in.Module, moduleLanguage(in.ScriptLang), RuleModuleSyntax)...)
	}

	if in.Script != "" {
		lang := parser.ParseLanguageString(in.ScriptLang)
		switch lang {
		case parser.LanguageJavaScript, parser.LanguageTypeScript:
			result.Violations = append(result.Violations,
				v.checkSyntax(in.Script, lang, RuleScriptSyntax)...)
			result.Violations = append(result.Violations,
				v.checkBindings(in.Script, lang, in.Variables)...)
		default:
			result.Violations = append(result.Violations, Violation{
				Rule:       RuleScriptSyntax,
				Message:    fmt.Sprintf("unsupported script language %q", in.ScriptLang),
				Severity:   SeverityWarning,
				Suggestion: `use lang="js" or lang="ts"`,
			})
		}
	}

	for _, style := range in.Styles {
		if strings.TrimSpace(style) == "" {
			continue
		}
		result.Violations = append(result.Violations,
			v.checkSyntax(style, parser.LanguageCSS, RuleStyleSyntax)...)
	}

	result.Valid = true
	warnings := 0
	for _, violation := range result.Violations {
		if violation.Severity == SeverityWarning {
			result.Valid = false
			warnings++
		}
	}
	result.Summary = summarize(len(result.Violations), warnings)

	if !result.Valid {
		v.logger.Debug("validation found problems",
			"source", in.Source,
			"warnings", warnings)
	}
	return result
}

// moduleLanguage is the grammar for a generated module. The module embeds
// the script verbatim, so a TypeScript script makes it TypeScript.
func moduleLanguage(scriptLang string) parser.Language {
	if parser.ParseLanguageString(scriptLang) == parser.LanguageTypeScript {
		return parser.LanguageTypeScript
	}
	return parser.LanguageJavaScript
}

func summarize(total, warnings int) string {
	if total == 0 {
		return "no issues found"
	}
	return fmt.Sprintf("%d issue(s): %d warning(s), %d info", total, warnings, total-warnings)
}

// checkSyntax parses code and reports its error and missing nodes.
func (v *Validator) checkSyntax(code string, lang parser.Language, rule string) []Violation {
	source := []byte(code)
	tree, err := v.parser.Parse(source, lang)
	if err != nil {
		return []Violation{{
			Rule:     rule,
			Message:  fmt.Sprintf("could not parse %s: %v", lang, err),
			Severity: SeverityWarning,
		}}
	}
	defer tree.Close()

	root := tree.RootNode()
	if !root.HasError() {
		return nil
	}

	var violations []Violation
	collectErrors(root, source, func(n *ts.Node) bool {
		pos := n.StartPosition()
		violation := Violation{
			Rule:     rule,
			Severity: SeverityWarning,
			Line:     int(pos.Row) + 1,
			Column:   int(pos.Column) + 1,
		}
		if n.IsMissing() {
			violation.Message = fmt.Sprintf("%s syntax error: missing %s", lang, n.Kind())
		} else {
			violation.Message = fmt.Sprintf("%s syntax error near %q", lang, snippet(n.Utf8Text(source)))
		}
		violations = append(violations, violation)
		return len(violations) < maxSyntaxViolations
	})
	return violations
}

// collectErrors visits error and missing nodes in document order until
// visit returns false. Error subtrees are not descended into.
func collectErrors(node *ts.Node, source []byte, visit func(*ts.Node) bool) bool {
	if node.IsError() || node.IsMissing() {
		return visit(node)
	}
	if !node.HasError() {
		return true
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		if !collectErrors(child, source, visit) {
			return false
		}
	}
	return true
}

func snippet(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	const limit = 40
	if len(s) > limit {
		return s[:limit] + "..."
	}
	return s
}
