package compiler

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
)

// FileError is the failure of one file in a batch.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// BatchResult holds the outcome of CompileFiles. Results is aligned with
// the input paths and holds nil where a file failed.
type BatchResult struct {
	Results  []*Result
	Errors   []*FileError
	Duration time.Duration
}

// Failed reports whether any file failed.
func (b *BatchResult) Failed() bool {
	return len(b.Errors) > 0
}

// Succeeded returns the successful results in input order.
func (b *BatchResult) Succeeded() []*Result {
	out := make([]*Result, 0, len(b.Results))
	for _, r := range b.Results {
		if r != nil {
			out = append(out, r)
		}
	}
	return out
}

// CompileFiles compiles every path in parallel. A failing file never stops
// the others; its error is recorded in the result. Once ctx is done no new
// file is started and the remaining ones fail with the context error.
func (c *Compiler) CompileFiles(ctx context.Context, paths []string) *BatchResult {
	start := time.Now()
	results := make([]*Result, len(paths))
	errs := make([]error, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)

	for i, path := range paths {
		if err := gctx.Err(); err != nil {
			errs[i] = err
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				errs[i] = err
				return nil
			}
			results[i], errs[i] = c.CompileFile(path)
			return nil
		})
	}
	_ = g.Wait()

	batch := &BatchResult{Results: results}
	for i, err := range errs {
		if err != nil {
			batch.Errors = append(batch.Errors, &FileError{Path: paths[i], Err: err})
		}
	}
	batch.Duration = time.Since(start)

	c.logger.Info("batch compiled",
		"files", len(paths),
		"failed", len(batch.Errors),
		"duration", batch.Duration)
	return batch
}
