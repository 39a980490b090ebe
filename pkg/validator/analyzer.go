package validator

import (
	"fmt"
	"strings"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/uxc/pkg/delim"
	"github.com/gnana997/uxc/pkg/parser"
)

// ScriptAnalysis is a compact summary of how a component script uses the
// component's data.
type ScriptAnalysis struct {
	Reads     []string `json:"reads"`
	Writes    []string `json:"writes"`
	Functions []string `json:"functions"`
	LineCount int      `json:"line_count"`
}

// AnalyzeScript parses a script body and lists the data keys it reads with
// this.getData and writes with this.setData, plus its declared functions.
// Keys must be string literals to be seen.
func (v *Validator) AnalyzeScript(code string, lang parser.Language) *ScriptAnalysis {
	source := []byte(code)
	analysis := &ScriptAnalysis{
		Reads:     []string{},
		Writes:    []string{},
		Functions: []string{},
		LineCount: strings.Count(code, "\n") + 1,
	}

	tree, err := v.parser.Parse(source, lang)
	if err != nil {
		return analysis
	}
	defer tree.Close()

	walkScript(tree.RootNode(), source, analysis)

	analysis.Reads = delim.Unique(analysis.Reads)
	analysis.Writes = delim.Unique(analysis.Writes)
	return analysis
}

func walkScript(node *ts.Node, source []byte, analysis *ScriptAnalysis) {
	switch node.Kind() {
	case "call_expression":
		if method, key, ok := dataCall(node, source); ok {
			switch method {
			case "getData":
				analysis.Reads = append(analysis.Reads, key)
			case "setData":
				analysis.Writes = append(analysis.Writes, key)
			}
		}
	case "function_declaration", "generator_function_declaration":
		for i := uint(0); i < node.ChildCount(); i++ {
			if child := node.Child(i); child.Kind() == "identifier" {
				analysis.Functions = append(analysis.Functions, child.Utf8Text(source))
				break
			}
		}
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		if child := node.Child(i); child != nil {
			walkScript(child, source, analysis)
		}
	}
}

// dataCall matches this.<method>('<key>', ...).
func dataCall(call *ts.Node, source []byte) (method, key string, ok bool) {
	var callee, args *ts.Node
	for i := uint(0); i < call.ChildCount(); i++ {
		child := call.Child(i)
		switch child.Kind() {
		case "member_expression":
			callee = child
		case "arguments":
			args = child
		}
	}
	if callee == nil || args == nil {
		return "", "", false
	}

	var object string
	for i := uint(0); i < callee.ChildCount(); i++ {
		child := callee.Child(i)
		switch child.Kind() {
		case "this":
			object = "this"
		case "property_identifier":
			method = child.Utf8Text(source)
		}
	}
	if object != "this" || method == "" {
		return "", "", false
	}

	for i := uint(0); i < args.ChildCount(); i++ {
		child := args.Child(i)
		if child.Kind() == "string" {
			return method, extractStringContent(child, source), true
		}
		if child.IsNamed() {
			break
		}
	}
	return "", "", false
}

// extractStringContent gets the text inside a string node (without quotes).
func extractStringContent(node *ts.Node, source []byte) string {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child.Kind() == "string_fragment" {
			return child.Utf8Text(source)
		}
	}
	text := node.Utf8Text(source)
	if len(text) >= 2 {
		return text[1 : len(text)-1]
	}
	return text
}

// checkBindings reports template variables the script never writes.
func (v *Validator) checkBindings(script string, lang parser.Language, variables []string) []Violation {
	if len(variables) == 0 {
		return nil
	}
	analysis := v.AnalyzeScript(script, lang)
	written := make(map[string]bool, len(analysis.Writes))
	for _, key := range analysis.Writes {
		written[key] = true
	}

	var violations []Violation
	for _, name := range variables {
		if name == "id" || written[name] {
			continue
		}
		violations = append(violations, Violation{
			Rule:       RuleUnboundVariable,
			Message:    fmt.Sprintf("template variable %q is never set by the script", name),
			Severity:   SeverityInfo,
			Suggestion: fmt.Sprintf("call this.setData('%s', ...) or pass it from the parent", name),
		})
	}
	return violations
}
