package codegen

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gnana997/uxc/pkg/delim"
)

func TestInterpolate(t *testing.T) {
	b := delim.Brackets()

	assert.Nil(t, interpolate(b, ""))
	assert.Equal(t, Expr{{Var: true, Text: "a"}, {Var: true, Text: "b"}}, interpolate(b, "[a][b]"))
	assert.Equal(t, Expr{{Text: "x"}, {Var: true, Text: "a"}, {Text: "y"}}, interpolate(b, "x[a]y"))
	assert.Equal(t, Expr{{Var: true, Text: "a[b]c"}}, interpolate(b, "[a[b]c]"))
	assert.Equal(t, Expr{{Text: "open [x"}}, interpolate(b, "open [x"))
}

func TestStyleText(t *testing.T) {
	assert.Equal(t, Expr{{Text: "p{}"}}, styleText("p{}"))
	assert.Equal(t,
		Expr{{Text: `\[id\] `}, {Var: true, Text: IDVar}, {Text: "{}"}},
		styleText(`\[id\] [id]{}`))
	assert.Equal(t, Expr{{Var: true, Text: IDVar}}, styleText("[id]"))
}

func TestExprVars(t *testing.T) {
	e := Expr{{Text: "a"}, {Var: true, Text: "x"}, {Var: true, Text: "x"}}
	assert.Equal(t, []string{"x", "x"}, e.Vars())
	assert.Equal(t, "a[x][x]", e.String())
}
