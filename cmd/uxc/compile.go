package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gnana997/uxc/pkg/compiler"
	"github.com/gnana997/uxc/pkg/emit"
	"github.com/gnana997/uxc/pkg/extractor"
	"github.com/gnana997/uxc/pkg/validator"
	"github.com/gnana997/uxc/pkg/workspace"
)

func newCompileCmd(a *app) *cobra.Command {
	var toStdout bool

	cmd := &cobra.Command{
		Use:   "compile [dir|files...]",
		Short: "Compile components into modules",
		Long: `Compile every component under the given directories and files (default:
src_dir from the config). Directories are searched with the include and
exclude globs. Every file is compiled even when some fail; the command exits
non-zero if any did.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{a.cfg.SrcDir}
			}
			paths, err := collectSources(args, a.cfg.workspace())
			if err != nil {
				return err
			}
			if len(paths) == 0 {
				a.logger.Warn("no component sources found", "inputs", args)
				return nil
			}

			batch := a.compiler().CompileFiles(cmd.Context(), paths)
			a.logger.Info("compiled components",
				"files", len(paths),
				"failed", len(batch.Errors),
				"duration", batch.Duration)

			out := cmd.OutOrStdout()
			if err := a.writeResults(out, batch.Succeeded(), toStdout); err != nil {
				return err
			}
			reportFailures(cmd.ErrOrStderr(), batch.Errors)
			if batch.Failed() {
				return fmt.Errorf("%d of %d components failed to compile", len(batch.Errors), len(paths))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&toStdout, "stdout", false, "print modules instead of writing them")
	return cmd
}

// collectSources expands directories to their component sources. Files are
// taken as given, whatever their extension.
func collectSources(inputs []string, cfg workspace.Config) ([]string, error) {
	var paths []string
	seen := make(map[string]bool)
	for _, in := range inputs {
		info, err := os.Stat(in)
		if err != nil {
			return nil, fmt.Errorf("failed to read input: %w", err)
		}

		var found []string
		if info.IsDir() {
			found, err = workspace.DiscoverFiles(in, cfg)
			if err != nil {
				return nil, fmt.Errorf("failed to discover components in %s: %w", in, err)
			}
		} else {
			abs, err := filepath.Abs(in)
			if err != nil {
				return nil, err
			}
			found = []string{abs}
		}

		for _, p := range found {
			if !seen[p] {
				seen[p] = true
				paths = append(paths, p)
			}
		}
	}
	return paths, nil
}

// writeResults writes each module to the output directory, or to out when
// toStdout is set. Components sharing a name overwrite each other's output;
// that is logged.
func (a *app) writeResults(out io.Writer, results []*compiler.Result, toStdout bool) error {
	owners := make(map[string]string, len(results))
	for _, res := range results {
		a.reportViolations(res.Validation)

		if toStdout {
			fmt.Fprintf(out, "// %s\n%s\n", res.Source, res.Module)
			continue
		}

		path, err := emit.Write(a.cfg.OutDir, a.cfg.Extension, res.Artifact, res.Module)
		if err != nil {
			return err
		}
		if prev, ok := owners[path]; ok {
			a.logger.Warn("output overwritten by component with the same name",
				"output", path, "first", prev, "second", res.Source)
		}
		owners[path] = res.Source
		fmt.Fprintf(out, "%s -> %s\n", res.Source, path)
	}
	return nil
}

// reportFailures prints each failed file followed by all of its errors.
func reportFailures(w io.Writer, failures []*compiler.FileError) {
	for _, fe := range failures {
		errs, ok := extractor.AsErrors(fe.Err)
		if !ok {
			fmt.Fprintf(w, "%s: %v\n", fe.Path, fe.Err)
			continue
		}
		fmt.Fprintf(w, "%s: %d error(s)\n", fe.Path, len(errs))
		for _, e := range errs {
			fmt.Fprintf(w, "  - %s: %v\n", e.Kind, e.Unwrap())
		}
	}
}

func (a *app) reportViolations(result *validator.ValidationResult) {
	if result == nil {
		return
	}
	for _, v := range result.Violations {
		a.logger.Warn(v.Message,
			"source", result.Source,
			"rule", v.Rule,
			"severity", v.Severity,
			"line", v.Line,
			"column", v.Column)
	}
}
