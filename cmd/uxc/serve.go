package main

import (
	"github.com/spf13/cobra"

	mcpserver "github.com/gnana997/uxc/pkg/mcp"
	"github.com/gnana997/uxc/pkg/mcplog"
	"github.com/gnana997/uxc/pkg/validator"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			journal, err := mcplog.NewLogger(a.cfg.MCPLog)
			if err != nil {
				return err
			}
			defer journal.Close()

			// Script analysis is always served; compile validation follows
			// the config.
			v := validator.NewValidator(a.parserManager(), a.logger)
			srv := mcpserver.NewServer(a.compiler(), v, journal)

			a.logger.Info("serving MCP on stdio", "version", version, "journal", a.cfg.MCPLog)
			return srv.ServeStdio()
		},
	}
}
