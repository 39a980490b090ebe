package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/cobra"

	"github.com/gnana997/uxc/pkg/compiler"
	"github.com/gnana997/uxc/pkg/emit"
	"github.com/gnana997/uxc/pkg/workspace"
)

func newWatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch [dir]",
		Short: "Compile components and recompile them as they change",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := a.cfg.SrcDir
			if len(args) == 1 {
				dir = args[0]
			}
			dir, err := filepath.Abs(dir)
			if err != nil {
				return err
			}

			pool := compiler.NewWorkerPool(a.compiler(), a.cfg.Workers, a.logger)
			pool.Start()

			outputs := &outputIndex{bySource: make(map[string]string)}
			done := make(chan struct{})
			go func() {
				defer close(done)
				for res := range pool.Results() {
					a.handleWatchResult(cmd.OutOrStdout(), cmd.ErrOrStderr(), res, outputs)
				}
			}()

			w, err := workspace.NewWatcher(workspace.WatchOptions{
				Config:   a.cfg.workspace(),
				Debounce: a.cfg.debounce(),
				OnChange: func(path string) {
					if err := pool.Submit(compiler.FileJob{Path: path}); err != nil {
						a.logger.Warn("failed to queue recompilation", "file", path, "error", err)
					}
				},
				OnRemove: func(path string) {
					a.removeOutput(cmd.OutOrStdout(), path, outputs)
				},
			}, a.logger)
			if err != nil {
				pool.Stop()
				<-done
				return err
			}
			if err := w.Start(dir); err != nil {
				pool.Stop()
				<-done
				return err
			}

			paths, err := workspace.DiscoverFiles(dir, a.cfg.workspace())
			if err != nil {
				a.logger.Error("initial discovery failed", "dir", dir, "error", err)
			}
			for _, path := range paths {
				if err := pool.Submit(compiler.FileJob{Path: path}); err != nil {
					a.logger.Warn("failed to queue compilation", "file", path, "error", err)
				}
			}
			a.logger.Info("watching for changes", "dir", dir, "components", len(paths))

			<-cmd.Context().Done()

			a.logger.Info("stopping watcher")
			werr := w.Stop()
			pool.Stop()
			<-done
			return werr
		},
	}
}

// outputIndex maps each source to the module last written for it.
type outputIndex struct {
	mu       sync.Mutex
	bySource map[string]string
}

func (o *outputIndex) set(source, output string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.bySource[source] = output
}

func (o *outputIndex) take(source string) (string, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	out, ok := o.bySource[source]
	delete(o.bySource, source)
	return out, ok
}

func (a *app) handleWatchResult(out, errOut io.Writer, res compiler.FileResult, outputs *outputIndex) {
	if res.Err != nil {
		reportFailures(errOut, []*compiler.FileError{{Path: res.Path, Err: res.Err}})
		return
	}
	a.reportViolations(res.Result.Validation)

	path, err := emit.Write(a.cfg.OutDir, a.cfg.Extension, res.Result.Artifact, res.Result.Module)
	if err != nil {
		a.logger.Error("failed to write module", "file", res.Path, "error", err)
		return
	}
	outputs.set(res.Path, path)
	fmt.Fprintf(out, "%s -> %s\n", res.Path, path)
}

// removeOutput deletes the module compiled from a removed source.
func (a *app) removeOutput(out io.Writer, source string, outputs *outputIndex) {
	path, ok := outputs.take(source)
	if !ok {
		return
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		a.logger.Warn("failed to remove module", "output", path, "error", err)
		return
	}
	fmt.Fprintf(out, "%s removed, deleted %s\n", source, path)
}
