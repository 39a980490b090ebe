package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/gnana997/uxc/pkg/cssscope"
)

func newScopeCmd(a *app) *cobra.Command {
	var scoped bool

	cmd := &cobra.Command{
		Use:   "scope [--scoped] <file|->",
		Short: "Print a style sheet with component-scoped selectors",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				data []byte
				err  error
			)
			if args[0] == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("failed to read style sheet: %w", err)
			}

			a.logger.Debug("scoping style sheet", "input", args[0], "scoped", scoped)
			fmt.Fprintln(cmd.OutOrStdout(), cssscope.Scope(cssscope.Escape(string(data)), scoped))
			return nil
		},
	}
	cmd.Flags().BoolVar(&scoped, "scoped", false, "attach the marker to every compound selector")
	return cmd
}
