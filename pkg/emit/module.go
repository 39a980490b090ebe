// Package emit renders code artifacts as JavaScript modules and writes them
// to disk.
package emit

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gnana997/uxc/pkg/codegen"
	"github.com/gnana997/uxc/pkg/delim"
)

// DefaultExtension is the file extension of written modules.
const DefaultExtension = "uxjs"

const moduleTemplate = `module.exports = {
  name: [name],
  style () {
    [style]
  },
  html () {
    [html]
  },
  script () {
    [script]
  }
};
`

const indent = "\n    "

var (
	placeholders = delim.MustNew("[", "]")

	literalEscaper = strings.NewReplacer(
		`\`, `\\`,
		`'`, `\'`,
		"\r\n", " ",
		"\n", " ",
		"\r", " ",
	)
)

// Module renders a as a CommonJS module exposing name, style, html and
// script members.
func Module(a *codegen.Artifact) string {
	return placeholders.Scan(moduleTemplate).Replace(func(key string) string {
		switch key {
		case "name":
			return Quote(a.Name)
		case "style":
			return strings.Join(Statements(a.Style), indent)
		case "html":
			return strings.Join(Statements(a.HTML), indent)
		case "script":
			return strings.Join(Statements(a.Script), indent)
		default:
			return "[" + key + "]"
		}
	})
}

// Statements renders each instruction as one JavaScript statement.
func Statements(list []codegen.Instruction) []string {
	out := make([]string, 0, len(list))
	for _, in := range list {
		out = append(out, statement(in))
	}
	return out
}

func statement(in codegen.Instruction) string {
	switch in.Op {
	case codegen.OpInitUpdates:
		return fmt.Sprintf("this.onDataUpdate[%s] = [];", Quote(in.Var))
	case codegen.OpCreateElement:
		return fmt.Sprintf("const %s = document.createElement(%s);", in.Handle, Quote(in.Tag))
	case codegen.OpCreateText:
		return fmt.Sprintf("const %s = document.createTextNode(%s);", in.Handle, Expression(in.Value))
	case codegen.OpSetAttribute, codegen.OpSetText:
		return effect(in) + ";"
	case codegen.OpAppendChild:
		return fmt.Sprintf("%s.appendChild(%s);", in.Handle, in.Child)
	case codegen.OpOnUpdate:
		return fmt.Sprintf("this.onDataUpdate[%s].push(() => %s);", Quote(in.Var), effect(*in.Update))
	case codegen.OpReturn:
		return fmt.Sprintf("return [%s];", strings.Join(in.Handles, ", "))
	case codegen.OpScript:
		return in.Code
	default:
		return fmt.Sprintf("/* unknown instruction %s */", in.Op)
	}
}

// effect renders an instruction usable as an update callback body.
func effect(in codegen.Instruction) string {
	switch in.Op {
	case codegen.OpSetText:
		return fmt.Sprintf("%s.nodeValue = %s", in.Handle, Expression(in.Value))
	default:
		return fmt.Sprintf("%s.setAttribute(%s, %s)", in.Handle, Quote(in.Name), Expression(in.Value))
	}
}

// Expression renders a text-creation expression. Variable reads go through
// this.getData.
func Expression(e codegen.Expr) string {
	if len(e) == 0 {
		return "''"
	}
	parts := make([]string, len(e))
	for i, p := range e {
		if p.Var {
			parts[i] = fmt.Sprintf("this.getData(%s)", Quote(p.Text))
		} else {
			parts[i] = Quote(p.Text)
		}
	}
	return strings.Join(parts, " + ")
}

// Quote returns s as a single-quoted JavaScript string literal. Line breaks
// collapse to spaces.
func Quote(s string) string {
	return "'" + literalEscaper.Replace(s) + "'"
}

// Path returns where Write puts the module for a.
func Path(outDir, ext string, a *codegen.Artifact) string {
	if ext == "" {
		ext = DefaultExtension
	}
	return filepath.Join(outDir, a.Name+"."+strings.TrimPrefix(ext, "."))
}

// Write stores module under outDir, creating directories as needed, and
// returns the written path.
func Write(outDir, ext string, a *codegen.Artifact, module string) (string, error) {
	path := Path(outDir, ext, a)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(module), 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
