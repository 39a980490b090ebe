package parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/uxc/pkg/util"
)

func TestParserPool_CapsAndReuses(t *testing.T) {
	g, err := loadGrammar(LanguageCSS)
	require.NoError(t, err)
	pool := newParserPool(g, 2, util.Discard())
	t.Cleanup(pool.close)

	first, err := pool.acquire()
	require.NoError(t, err)
	second, err := pool.acquire()
	require.NoError(t, err)
	assert.Equal(t, 2, pool.getCreatedCount())

	got := make(chan *ts.Parser, 1)
	go func() {
		parser, err := pool.acquire()
		if err != nil {
			got <- nil
			return
		}
		got <- parser
	}()

	select {
	case <-got:
		t.Fatal("acquire must wait while every parser is in use")
	case <-time.After(50 * time.Millisecond):
	}

	pool.release(first)
	select {
	case parser := <-got:
		assert.Same(t, first, parser, "released parser is handed out again")
		pool.release(parser)
	case <-time.After(time.Second):
		t.Fatal("acquire did not resume after release")
	}

	pool.release(second)
	assert.Equal(t, 2, pool.getCreatedCount())
}

func TestParserPool_ReleasedParserParsesAgain(t *testing.T) {
	g, err := loadGrammar(LanguageHTML)
	require.NoError(t, err)
	pool := newParserPool(g, 1, util.Discard())
	t.Cleanup(pool.close)

	for _, src := range []string{"<div>", "<p>ok</p>"} {
		parser, err := pool.acquire()
		require.NoError(t, err)
		tree := parser.Parse([]byte(src), nil)
		require.NotNil(t, tree)
		tree.Close()
		pool.release(parser)
	}
	assert.Equal(t, 1, pool.getCreatedCount())
}

func TestLoadGrammar_Unknown(t *testing.T) {
	_, err := loadGrammar(LanguageUnknown)
	assert.Error(t, err)
}
