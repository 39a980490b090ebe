package parser

import (
	"fmt"
	"log/slog"

	ts "github.com/tree-sitter/go-tree-sitter"
)

// grammar is a tree-sitter language loaded once and shared by every parser
// of its pool.
type grammar struct {
	lang     Language
	language *ts.Language
}

func loadGrammar(lang Language) (*grammar, error) {
	ptr, err := languagePointer(lang)
	if err != nil {
		return nil, err
	}
	return &grammar{lang: lang, language: ts.NewLanguage(ptr)}, nil
}

func (g *grammar) newParser() (*ts.Parser, error) {
	parser := ts.NewParser()
	if parser == nil {
		return nil, fmt.Errorf("failed to create %s parser", g.lang)
	}
	if err := parser.SetLanguage(g.language); err != nil {
		parser.Close()
		return nil, fmt.Errorf("failed to set language %s: %w", g.lang, err)
	}
	return parser, nil
}

// parserPool hands out parsers for one grammar.
//
// Each parser takes a slot; once all slots are taken, acquire waits for a
// parser to come back. Parsers are reset on release so no parse state
// leaks into the next source.
type parserPool struct {
	grammar *grammar

	// idle holds released parsers.
	idle chan *ts.Parser
	// slots holds one token per parser created.
	slots chan struct{}

	logger *slog.Logger
}

func newParserPool(g *grammar, maxSize int, logger *slog.Logger) *parserPool {
	return &parserPool{
		grammar: g,
		idle:    make(chan *ts.Parser, maxSize),
		slots:   make(chan struct{}, maxSize),
		logger:  logger,
	}
}

// acquire returns an idle parser, creates one while slots remain, or waits
// for a release.
func (p *parserPool) acquire() (*ts.Parser, error) {
	select {
	case parser := <-p.idle:
		return parser, nil
	default:
	}

	select {
	case parser := <-p.idle:
		return parser, nil
	case p.slots <- struct{}{}:
		parser, err := p.grammar.newParser()
		if err != nil {
			<-p.slots
			return nil, err
		}
		p.logger.Debug("created parser in pool",
			"language", p.grammar.lang.String(),
			"pool_size", len(p.slots))
		return parser, nil
	}
}

// release resets parser and makes it available again.
func (p *parserPool) release(parser *ts.Parser) {
	if parser == nil {
		return
	}
	parser.Reset()

	select {
	case p.idle <- parser:
	default:
		// Only reachable when a parser is released twice.
		parser.Close()
		p.logger.Warn("parser pool full, closing excess parser",
			"language", p.grammar.lang.String())
	}
}

// close closes every idle parser. The pool cannot be used afterwards.
func (p *parserPool) close() {
	close(p.idle)

	count := 0
	for parser := range p.idle {
		parser.Close()
		count++
	}

	p.logger.Debug("closed parser pool",
		"language", p.grammar.lang.String(),
		"parsers_closed", count)
}

func (p *parserPool) getCreatedCount() int {
	return len(p.slots)
}
