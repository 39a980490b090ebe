package compiler

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/uxc/pkg/extractor"
	"github.com/gnana997/uxc/pkg/markup"
	"github.com/gnana997/uxc/pkg/parser"
	"github.com/gnana997/uxc/pkg/util"
	"github.com/gnana997/uxc/pkg/validator"
)

const greetSource = `name: greet;
<style scoped>p { color: red }</style>
<script>this.setData('name', 'world');</script>
<div><p>Hello [name]!</p></div>
`

func setupCompiler(t *testing.T, opts ...Option) *Compiler {
	t.Helper()
	pm := parser.NewParserManager(util.Discard())
	t.Cleanup(func() { pm.Close() })
	opts = append([]Option{WithLogger(util.Discard())}, opts...)
	return New(markup.NewTreeSitterParser(pm), opts...)
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCompile(t *testing.T) {
	c := setupCompiler(t)

	res, err := c.Compile([]byte(greetSource), "greet.ux")
	require.NoError(t, err)

	assert.Equal(t, "greet.ux", res.Source)
	assert.Equal(t, "greet", res.Artifact.Name)
	assert.Equal(t, []string{"name"}, res.Component.Variables)
	assert.Contains(t, res.Module, "name: 'greet',")
	assert.Contains(t, res.Module, "this.onDataUpdate['name'] = [];")
	assert.Contains(t, res.Module, "document.createTextNode('p.' + this.getData('id') + '{ color: red }')")
	assert.Contains(t, res.Module, "this.setData('name', 'world');")
	assert.Nil(t, res.Validation)
}

func TestCompile_ValidationErrors(t *testing.T) {
	c := setupCompiler(t)

	res, err := c.Compile([]byte(`<div></div><p></p>`), "bad.ux")
	assert.Nil(t, res)

	errs, ok := extractor.AsErrors(err)
	require.True(t, ok)
	assert.Equal(t, []extractor.ErrorKind{extractor.MissingName, extractor.MultipleTemplateRoots}, errs.Kinds())
	assert.Equal(t, int64(1), c.Stats().Failed)
}

func TestCompile_Cache(t *testing.T) {
	c := setupCompiler(t, WithCacheSize(2))

	first, err := c.Compile([]byte(greetSource), "greet.ux")
	require.NoError(t, err)
	second, err := c.Compile([]byte(greetSource), "greet.ux")
	require.NoError(t, err)
	assert.Same(t, first, second)

	_, err = c.Compile([]byte(greetSource), "other.ux")
	require.NoError(t, err)

	stats := c.Stats()
	assert.Equal(t, int64(2), stats.Compiled)
	assert.Equal(t, int64(1), stats.CacheHits)
	assert.Equal(t, int64(2), stats.CacheMisses)
	assert.Equal(t, 2, stats.CachedResults)

	c.Purge()
	assert.Equal(t, 0, c.Stats().CachedResults)
}

func TestCompile_CacheDisabled(t *testing.T) {
	c := setupCompiler(t, WithCacheSize(-1))

	first, err := c.Compile([]byte(greetSource), "greet.ux")
	require.NoError(t, err)
	second, err := c.Compile([]byte(greetSource), "greet.ux")
	require.NoError(t, err)

	assert.NotSame(t, first, second)
	assert.Equal(t, first, second, "compilation is deterministic")
	assert.Equal(t, int64(0), c.Stats().CacheHits)
}

func TestCompile_WithValidator(t *testing.T) {
	pm := parser.NewParserManager(util.Discard())
	t.Cleanup(func() { pm.Close() })

	c := New(markup.NewTreeSitterParser(pm),
		WithLogger(util.Discard()),
		WithValidator(validator.NewValidator(pm, util.Discard())))

	res, err := c.Compile([]byte(greetSource), "greet.ux")
	require.NoError(t, err)
	require.NotNil(t, res.Validation)
	assert.True(t, res.Validation.Valid, "%v", res.Validation.Violations)

	res, err = c.Compile([]byte("name: broken;<script>function (( {</script><div>[a]</div>"), "broken.ux")
	require.NoError(t, err, "validation findings never fail a compilation")
	assert.False(t, res.Validation.Valid)

	ts := "name: typed;<script lang=\"ts\">let n: number = 1;\nthis.setData('n', n);</script><div>[n]</div>"
	res, err = c.Compile([]byte(ts), "typed.ux")
	require.NoError(t, err)
	assert.True(t, res.Validation.Valid, "%v", res.Validation.Violations)
}

func TestCompileFiles(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "a/greet.ux", greetSource)
	bad := writeFile(t, dir, "b/bad.ux", `name: bad;`)
	missing := filepath.Join(dir, "missing.ux")
	other := writeFile(t, dir, "c/other.ux", `name: other;<span>[x]</span>`)

	c := setupCompiler(t, WithWorkers(2))
	batch := c.CompileFiles(context.Background(), []string{good, bad, missing, other})

	require.Len(t, batch.Results, 4)
	assert.NotNil(t, batch.Results[0])
	assert.Nil(t, batch.Results[1])
	assert.Nil(t, batch.Results[2])
	assert.NotNil(t, batch.Results[3])

	require.True(t, batch.Failed())
	require.Len(t, batch.Errors, 2)
	assert.Equal(t, bad, batch.Errors[0].Path)
	assert.ErrorIs(t, batch.Errors[0], extractor.ErrTemplateMissing)
	assert.Equal(t, missing, batch.Errors[1].Path)
	assert.ErrorIs(t, batch.Errors[1], os.ErrNotExist)

	names := []string{}
	for _, r := range batch.Succeeded() {
		names = append(names, r.Artifact.Name)
	}
	assert.Equal(t, []string{"greet", "other"}, names)
}

func TestCompileFiles_Cancelled(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "greet.ux", greetSource)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := setupCompiler(t)
	batch := c.CompileFiles(ctx, []string{path, path})

	require.Len(t, batch.Errors, 2)
	for _, fe := range batch.Errors {
		assert.ErrorIs(t, fe, context.Canceled)
	}
}

func TestWorkerPool(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "greet.ux", greetSource)
	bad := writeFile(t, dir, "bad.ux", `<div></div>`)

	c := setupCompiler(t)
	pool := NewWorkerPool(c, 2, util.Discard())
	pool.Start()

	require.NoError(t, pool.Submit(FileJob{Path: good}))
	require.NoError(t, pool.Submit(FileJob{Path: bad}))

	got := map[string]FileResult{}
	for i := 0; i < 2; i++ {
		res := <-pool.Results()
		got[res.Path] = res
	}
	pool.Stop()

	require.Contains(t, got, good)
	assert.NoError(t, got[good].Err)
	assert.Equal(t, "greet", got[good].Result.Artifact.Name)
	assert.NotZero(t, got[good].JobID)

	require.Contains(t, got, bad)
	assert.ErrorIs(t, got[bad].Err, extractor.ErrMissingName)

	stats := pool.GetStats()
	assert.Equal(t, int64(2), stats.JobsSubmitted)
	assert.Equal(t, int64(1), stats.JobsProcessed)
	assert.Equal(t, int64(1), stats.JobsFailed)

	assert.Error(t, pool.Submit(FileJob{Path: good}), "stopped pool rejects jobs")
	pool.Stop()
}
