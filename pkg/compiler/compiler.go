// Package compiler runs the extract, generate and render pipeline for
// component sources, with a content-addressed result cache and parallel
// batch compilation.
package compiler

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/gnana997/uxc/pkg/codegen"
	"github.com/gnana997/uxc/pkg/emit"
	"github.com/gnana997/uxc/pkg/extractor"
	"github.com/gnana997/uxc/pkg/markup"
	"github.com/gnana997/uxc/pkg/util"
	"github.com/gnana997/uxc/pkg/validator"
)

// DefaultCacheSize is the number of results kept when no size is given.
const DefaultCacheSize = 256

// Result is one successfully compiled component. Results may be served
// from the cache and shared; treat them as read-only.
type Result struct {
	Source     string                      `json:"source"`
	Component  *extractor.Component        `json:"component"`
	Artifact   *codegen.Artifact           `json:"artifact"`
	Module     string                      `json:"module"`
	Validation *validator.ValidationResult `json:"validation,omitempty"`
}

// Compiler compiles component sources. It is safe for concurrent use.
//
// Usage:
//
//	c := compiler.New(markup.NewTreeSitterParser(pm), compiler.WithLogger(logger))
//	res, err := c.CompileFile("components/greet.ux")
//	if errs, ok := extractor.AsErrors(err); ok {
//	    // report every violation
//	}
type Compiler struct {
	extractor *extractor.Extractor
	generator *codegen.Generator
	validator *validator.Validator
	cache     *lru.Cache[string, *Result]
	cacheSize int
	workers   int
	logger    *slog.Logger

	compiled    atomic.Int64
	failed      atomic.Int64
	cacheHits   atomic.Int64
	cacheMisses atomic.Int64
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Compiler) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithValidator runs v on every fresh compilation.
func WithValidator(v *validator.Validator) Option {
	return func(c *Compiler) {
		c.validator = v
	}
}

// WithCacheSize sets the number of cached results. A negative size turns
// caching off; zero keeps the default.
func WithCacheSize(n int) Option {
	return func(c *Compiler) {
		c.cacheSize = n
	}
}

// WithWorkers caps the goroutines used by CompileFiles. Zero means
// util.GetOptimalPoolSize().
func WithWorkers(n int) Option {
	return func(c *Compiler) {
		c.workers = n
	}
}

// New creates a compiler reading template markup with p.
func New(p markup.Parser, opts ...Option) *Compiler {
	c := &Compiler{
		extractor: extractor.New(p),
		generator: codegen.New(),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.workers = util.GetOptimalPoolSizeWithOverride(c.workers)
	if c.cacheSize == 0 {
		c.cacheSize = DefaultCacheSize
	}
	if c.cacheSize > 0 {
		cache, err := lru.New[string, *Result](c.cacheSize)
		if err != nil {
			// Only possible with a non-positive size.
			panic(fmt.Sprintf("failed to create LRU cache: %v", err))
		}
		c.cache = cache
	}

	c.logger.Debug("compiler initialized",
		"workers", c.workers,
		"cache_size", c.cacheSize,
		"validate", c.validator != nil)
	return c
}

// Compile compiles one component source. sourceID names the source in
// errors and usually is its path.
//
// Structural violations are returned as extractor.Errors listing every
// problem found.
func (c *Compiler) Compile(source []byte, sourceID string) (*Result, error) {
	key := cacheKey(sourceID, source)
	if c.cache != nil {
		if res, ok := c.cache.Get(key); ok {
			c.cacheHits.Add(1)
			c.logger.Debug("compile cache hit", "source", sourceID)
			return res, nil
		}
		c.cacheMisses.Add(1)
	}

	component, err := c.extractor.Extract(source, sourceID)
	if err != nil {
		c.failed.Add(1)
		return nil, err
	}

	artifact := c.generator.Generate(component)
	res := &Result{
		Source:    sourceID,
		Component: component,
		Artifact:  artifact,
		Module:    emit.Module(artifact),
	}

	if c.validator != nil {
		res.Validation = c.validator.Validate(validator.Input{
			Source:     sourceID,
			Module:     res.Module,
			Script:     component.Script,
			ScriptLang: component.ScriptLang,
			Styles:     styleBodies(component.Style),
			Variables:  component.Variables,
		})
		for _, v := range res.Validation.Violations {
			if v.Severity == validator.SeverityWarning {
				c.logger.Warn("component validation", "source", sourceID, "rule", v.Rule, "message", v.Message, "line", v.Line)
			}
		}
	}

	c.compiled.Add(1)
	if c.cache != nil {
		c.cache.Add(key, res)
	}
	c.logger.Debug("compiled component",
		"source", sourceID,
		"name", artifact.Name,
		"variables", len(component.Variables),
		"instructions", len(artifact.HTML))
	return res, nil
}

// CompileFile reads and compiles the component at path.
func (c *Compiler) CompileFile(path string) (*Result, error) {
	source, err := util.ReadSource(path)
	if err != nil {
		c.failed.Add(1)
		return nil, err
	}
	return c.Compile(source, path)
}

// Purge empties the result cache.
func (c *Compiler) Purge() {
	if c.cache != nil {
		c.cache.Purge()
	}
}

// Stats returns compile counters.
func (c *Compiler) Stats() Stats {
	s := Stats{
		Compiled:    c.compiled.Load(),
		Failed:      c.failed.Load(),
		CacheHits:   c.cacheHits.Load(),
		CacheMisses: c.cacheMisses.Load(),
	}
	if c.cache != nil {
		s.CachedResults = c.cache.Len()
	}
	return s
}

// Stats contains compiler statistics.
type Stats struct {
	Compiled      int64 `json:"compiled"`
	Failed        int64 `json:"failed"`
	CacheHits     int64 `json:"cache_hits"`
	CacheMisses   int64 `json:"cache_misses"`
	CachedResults int   `json:"cached_results"`
}

func cacheKey(sourceID string, source []byte) string {
	h := sha256.New()
	h.Write([]byte(sourceID))
	h.Write([]byte{0})
	h.Write(source)
	return hex.EncodeToString(h.Sum(nil))
}

func styleBodies(s *extractor.Style) []string {
	if s == nil {
		return nil
	}
	return []string{s.Scoped, s.Unscoped}
}
