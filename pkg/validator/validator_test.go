package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/uxc/pkg/parser"
	"github.com/gnana997/uxc/pkg/util"
)

func testValidator(t *testing.T) *Validator {
	t.Helper()
	pm := parser.NewParserManager(util.Discard())
	t.Cleanup(func() { pm.Close() })
	return NewValidator(pm, util.Discard())
}

func rules(result *ValidationResult) []string {
	var out []string
	for _, v := range result.Violations {
		out = append(out, v.Rule)
	}
	return out
}

func TestValidate_Clean(t *testing.T) {
	v := testValidator(t)

	result := v.Validate(Input{
		Source:    "greet.ux",
		Module:    "module.exports = { name: 'greet', html () { return []; } };",
		Script:    "this.setData('name', 'world');",
		Styles:    []string{"p { color: red }"},
		Variables: []string{"name", "id"},
	})

	assert.True(t, result.Valid)
	assert.Empty(t, result.Violations)
	assert.Equal(t, "no issues found", result.Summary)
}

func TestValidate_ModuleSyntax(t *testing.T) {
	v := testValidator(t)

	result := v.Validate(Input{Module: "module.exports = { html () { return [el0; } };"})

	require.False(t, result.Valid)
	require.NotEmpty(t, result.Violations)
	assert.Equal(t, RuleModuleSyntax, result.Violations[0].Rule)
	assert.Equal(t, SeverityWarning, result.Violations[0].Severity)
	assert.Equal(t, 1, result.Violations[0].Line)
}

func TestValidate_ScriptSyntax(t *testing.T) {
	v := testValidator(t)

	result := v.Validate(Input{Script: "function (( {"})
	assert.False(t, result.Valid)
	assert.Contains(t, rules(result), RuleScriptSyntax)
}

func TestValidate_TypeScriptScript(t *testing.T) {
	v := testValidator(t)

	script := "const count: number = 1;\nthis.setData('count', count);"
	ts := v.Validate(Input{Script: script, ScriptLang: "ts", Variables: []string{"count"}})
	assert.True(t, ts.Valid, "%v", ts.Violations)

	js := v.Validate(Input{Script: script, Variables: []string{"count"}})
	assert.False(t, js.Valid, "type annotations are not JavaScript")
}

func TestValidate_TypeScriptModule(t *testing.T) {
	v := testValidator(t)

	script := "let n: number = 1;\nthis.setData('n', n);"
	module := "module.exports = {\n  name: 'x',\n  script () {\n    " + script + "\n  }\n};"

	ts := v.Validate(Input{Module: module, Script: script, ScriptLang: "ts", Variables: []string{"n"}})
	assert.NotContains(t, rules(ts), RuleModuleSyntax)
	assert.True(t, ts.Valid, "%v", ts.Violations)

	js := v.Validate(Input{Module: module})
	assert.Contains(t, rules(js), RuleModuleSyntax)
}

func TestValidate_UnsupportedScriptLanguage(t *testing.T) {
	v := testValidator(t)

	result := v.Validate(Input{Script: "x", ScriptLang: "coffee"})
	require.Len(t, result.Violations, 1)
	assert.Contains(t, result.Violations[0].Message, "coffee")
}

func TestValidate_StyleSyntax(t *testing.T) {
	v := testValidator(t)

	result := v.Validate(Input{Styles: []string{"p { color: red }", "", "div { {{ }"}})
	assert.False(t, result.Valid)
	for _, violation := range result.Violations {
		assert.Equal(t, RuleStyleSyntax, violation.Rule)
	}
}

func TestValidate_UnboundVariables(t *testing.T) {
	v := testValidator(t)

	result := v.Validate(Input{
		Script:    "this.setData('a', 1);",
		Variables: []string{"a", "b", "id"},
	})

	assert.True(t, result.Valid, "unbound variables are informational")
	require.Len(t, result.Violations, 1)
	assert.Equal(t, RuleUnboundVariable, result.Violations[0].Rule)
	assert.Equal(t, SeverityInfo, result.Violations[0].Severity)
	assert.Contains(t, result.Violations[0].Message, `"b"`)
	assert.Equal(t, "1 issue(s): 0 warning(s), 1 info", result.Summary)
}

func TestAnalyzeScript(t *testing.T) {
	v := testValidator(t)

	code := `
function load() {
  this.setData('user', fetchUser());
  this.setData("count", this.getData('count') + 1);
}
function render() { return this.getData('user'); }
other.setData('ignored', 1);
`
	analysis := v.AnalyzeScript(code, parser.LanguageJavaScript)

	assert.Equal(t, []string{"user", "count"}, analysis.Writes)
	assert.Equal(t, []string{"count", "user"}, analysis.Reads)
	assert.Equal(t, []string{"load", "render"}, analysis.Functions)
	assert.Equal(t, 8, analysis.LineCount)
}
