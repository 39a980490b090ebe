package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const greetSource = `name: greet;
<style scoped>p { color: red }</style>
<script>this.setData('name', 'world');</script>
<div><p>Hello [name]!</p></div>
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// run executes the root command with args and returns stdout, stderr and
// the command error.
func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(append(args, "--log-level", "error"))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestVersion(t *testing.T) {
	stdout, _, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "uxc "+version+"\n", stdout)
}

func TestCompileCmd_Directory(t *testing.T) {
	src := t.TempDir()
	out := t.TempDir()
	writeFile(t, src, "greet.ux", greetSource)
	writeFile(t, src, "nested/card.ux", "name: ui/Card;\n<section class=\"card\">[title]</section>")
	writeFile(t, src, "node_modules/dep/skip.ux", greetSource)
	writeFile(t, src, "readme.md", "not a component")

	stdout, _, err := run(t, "", "compile", src, "--out", out)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(stdout, " -> "))

	module, err := os.ReadFile(filepath.Join(out, "greet.uxjs"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(module), "module.exports = {"))
	assert.Contains(t, string(module), "name: 'greet',")

	_, err = os.Stat(filepath.Join(out, "ui-card.uxjs"))
	assert.NoError(t, err)
}

func TestCompileCmd_Stdout(t *testing.T) {
	src := t.TempDir()
	path := writeFile(t, src, "greet.ux", greetSource)

	stdout, _, err := run(t, "", "compile", path, "--stdout", "--out", filepath.Join(src, "never"))
	require.NoError(t, err)
	assert.Contains(t, stdout, "name: 'greet',")
	assert.NoDirExists(t, filepath.Join(src, "never"))
}

func TestCompileCmd_FailuresDoNotStopBatch(t *testing.T) {
	src := t.TempDir()
	out := t.TempDir()
	writeFile(t, src, "greet.ux", greetSource)
	bad := writeFile(t, src, "bad.ux", "<div></div><p></p>")

	_, stderr, err := run(t, "", "compile", src, "--out", out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 components failed")

	assert.Contains(t, stderr, bad+": 2 error(s)")
	assert.Contains(t, stderr, "MissingName")
	assert.Contains(t, stderr, "MultipleTemplateRoots")
	assert.FileExists(t, filepath.Join(out, "greet.uxjs"))
}

func TestCompileCmd_NoSources(t *testing.T) {
	stdout, _, err := run(t, "", "compile", t.TempDir(), "--out", t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, stdout)
}

func TestCompileCmd_MissingInput(t *testing.T) {
	_, _, err := run(t, "", "compile", filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestCompileCmd_ConfigFile(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "src")
	out := filepath.Join(root, "out")
	writeFile(t, src, "greet.ux", greetSource)
	cfg := writeFile(t, root, ".uxc/config.yaml", "src_dir: "+src+"\nout_dir: "+out+"\nextension: js\n")

	_, _, err := run(t, "", "compile", "--config", cfg)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(out, "greet.js"))
}

func TestScopeCmd(t *testing.T) {
	stdout, _, err := run(t, "div, p:hover { color: red }", "scope", "--scoped", "-")
	require.NoError(t, err)
	assert.Equal(t, "div.[id], p.[id]:hover{ color: red }\n", stdout)

	path := writeFile(t, t.TempDir(), "a.css", "h1 {m:0}")
	stdout, _, err = run(t, "", "scope", path)
	require.NoError(t, err)
	assert.Equal(t, ".[id] h1{m:0}\n", stdout)
}

func TestUnknownCommand(t *testing.T) {
	_, _, err := run(t, "", "frobnicate")
	assert.Error(t, err)
}
