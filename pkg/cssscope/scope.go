// Package cssscope rewrites style sheet selectors so rules only match
// elements carrying a component's instance marker class.
package cssscope

import (
	"strings"

	"github.com/gnana997/uxc/pkg/delim"
)

// Marker is the class placeholder each element of a component instance
// carries. It is resolved to the instance id when the component renders.
const Marker = "[id]"

var (
	blocks = delim.MustNew("{", "}", delim.WithNested())

	bracketEscaper = strings.NewReplacer("[", `\[`, "]", `\]`)

	// groupingRules hold nested rule lists whose selectors get scoped too.
	groupingRules = []string{"@media", "@supports", "@container", "@layer", "@document"}
)

// Escape backslash-escapes '[' and ']' so a style body cannot be mistaken
// for variable interpolation.
func Escape(style string) string {
	return bracketEscaper.Replace(style)
}

// Scope rewrites every selector in style.
//
// Unscoped rules become descendant rules of the marker: "div" turns into
// ".[id] div". Scoped rules attach the marker to each compound selector
// before its first pseudo-class: "p:hover" turns into "p.[id]:hover".
// Rule bodies are copied unchanged. Selectors are trimmed and rejoined with
// ", ".
func Scope(style string, scoped bool) string {
	var b strings.Builder
	b.Grow(len(style) + len(style)/2)

	prelude := ""
	for seg := range blocks.Scan(style).All() {
		if seg.Kind == delim.Literal {
			prelude = seg.Text
			b.WriteString(scopeList(prelude, scoped))
			continue
		}
		if isGrouping(prelude) {
			b.WriteString(blocks.Open())
			b.WriteString(Scope(seg.Inner, scoped))
			b.WriteString(blocks.Close())
		} else {
			b.WriteString(seg.Text)
		}
		prelude = ""
	}
	return b.String()
}

// scopeList rewrites one comma separated selector list. At-rule preludes
// pass through trimmed.
func scopeList(list string, scoped bool) string {
	list = strings.TrimSpace(list)
	if strings.HasPrefix(list, "@") {
		// Statement at-rules such as @import end with ';' and may precede a
		// selector list.
		if i := strings.LastIndexByte(list, ';'); i >= 0 {
			rest := scopeList(list[i+1:], scoped)
			if rest == "" {
				return list[:i+1]
			}
			return list[:i+1] + " " + rest
		}
		return list
	}

	var out []string
	for _, sel := range strings.Split(list, ",") {
		sel = strings.TrimSpace(sel)
		if sel == "" {
			continue
		}
		if scoped {
			out = append(out, scopeCompounds(sel))
		} else {
			out = append(out, "."+Marker+" "+sel)
		}
	}
	return strings.Join(out, ", ")
}

// scopeCompounds adds the marker to every space separated compound of sel.
func scopeCompounds(sel string) string {
	tokens := strings.Fields(sel)
	for i, tok := range tokens {
		switch {
		case tok == "*", tok == ">", tok == "+", tok == "~":
		case strings.HasPrefix(tok, ":"):
		default:
			name, pseudo, found := strings.Cut(tok, ":")
			tok = name + "." + Marker
			if found {
				tok += ":" + pseudo
			}
			tokens[i] = tok
		}
	}
	return strings.Join(tokens, " ")
}

func isGrouping(prelude string) bool {
	prelude = strings.TrimSpace(prelude)
	if i := strings.LastIndexByte(prelude, ';'); i >= 0 {
		prelude = strings.TrimSpace(prelude[i+1:])
	}
	for _, rule := range groupingRules {
		if strings.HasPrefix(prelude, rule) {
			return true
		}
	}
	return false
}
