package emit

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/uxc/pkg/codegen"
	"github.com/gnana997/uxc/pkg/extractor"
	"github.com/gnana997/uxc/pkg/markup"
)

func greet() *codegen.Artifact {
	return codegen.New().Generate(&extractor.Component{
		Name:      "greet",
		Variables: []string{"name"},
		Root: &markup.Element{
			Tag:      "div",
			Children: []markup.Node{&markup.Text{Data: "Hello [name]!"}},
		},
		Script: "this.setData('name', 'you');",
	})
}

func TestModule(t *testing.T) {
	want := `module.exports = {
  name: 'greet',
  style () {
    
  },
  html () {
    this.onDataUpdate['name'] = [];
    const el0 = document.createTextNode('Hello ' + this.getData('name') + '!');
    this.onDataUpdate['name'].push(() => el0.nodeValue = 'Hello ' + this.getData('name') + '!');
    const el1 = document.createElement('div');
    el1.setAttribute('class', this.getData('id'));
    el1.appendChild(el0);
    return [el1];
  },
  script () {
    this.setData('name', 'you');
  }
};
`
	assert.Equal(t, want, Module(greet()))
}

func TestStatements(t *testing.T) {
	list := []codegen.Instruction{
		{Op: codegen.OpSetAttribute, Handle: "el2", Name: "title", Value: codegen.Expr{{Text: "a "}, {Var: true, Text: "t"}}},
		{Op: codegen.OpOnUpdate, Var: "t", Update: &codegen.Instruction{
			Op: codegen.OpSetAttribute, Handle: "el2", Name: "title", Value: codegen.Expr{{Var: true, Text: "t"}},
		}},
		{Op: codegen.OpSetAttribute, Handle: "el2", Name: "hidden"},
		{Op: codegen.OpReturn, Handles: []string{"el1", "el2"}},
	}

	assert.Equal(t, []string{
		"el2.setAttribute('title', 'a ' + this.getData('t'));",
		"this.onDataUpdate['t'].push(() => el2.setAttribute('title', this.getData('t')));",
		"el2.setAttribute('hidden', '');",
		"return [el1, el2];",
	}, Statements(list))
}

func TestQuote(t *testing.T) {
	tests := []struct{ in, want string }{
		{"", "''"},
		{"it's", `'it\'s'`},
		{`back\slash`, `'back\\slash'`},
		{"a\nb\r\nc\rd", "'a b c d'"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Quote(tt.in))
	}
}

func TestWrite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out", "nested")
	a := greet()
	module := Module(a)

	path, err := Write(dir, "", a, module)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "greet.uxjs"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, module, string(data))

	assert.Equal(t, filepath.Join(dir, "greet.js"), Path(dir, ".js", a))
}

func TestPath_NonASCIIName(t *testing.T) {
	dir := t.TempDir()
	a := &codegen.Artifact{Name: codegen.Slug("日本")}
	assert.Equal(t, filepath.Join(dir, "日本.uxjs"), Path(dir, "", a))

	b := &codegen.Artifact{Name: codegen.Slug("café.Menü")}
	assert.Equal(t, filepath.Join(dir, "café-menü.uxjs"), Path(dir, "", b))
}
