// Command uxc compiles single-file UX components into JavaScript modules.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gnana997/uxc/pkg/compiler"
	"github.com/gnana997/uxc/pkg/markup"
	mcpserver "github.com/gnana997/uxc/pkg/mcp"
	"github.com/gnana997/uxc/pkg/parser"
	"github.com/gnana997/uxc/pkg/util"
	"github.com/gnana997/uxc/pkg/validator"
)

var version = "0.1.0-dev"

// app is the state shared by all subcommands, filled in before any of
// them runs.
type app struct {
	flags  flagOverrides
	cfg    *ProjectConfig
	logger *slog.Logger
	pm     *parser.ParserManager
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "uxc",
		Short: "Compile .ux components into JavaScript modules",
		Long: `uxc compiles single-file components (a name declaration, style and
script blocks and one template root) into modules that build the DOM and
keep it updated when component data changes.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			a.close()
		},
	}
	a.flags.register(root)

	root.AddCommand(
		newCompileCmd(a),
		newWatchCmd(a),
		newServeCmd(a),
		newScopeCmd(a),
		newVersionCmd(),
	)
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := loadProjectConfig(a.flags.configPath)
	if err != nil {
		return err
	}
	if err := a.flags.apply(cmd, cfg); err != nil {
		return err
	}
	a.cfg = cfg

	a.logger = util.NewLogger(util.LoggerConfig{
		Level:  util.ParseLogLevel(cfg.LogLevel),
		Format: util.LogFormat(cfg.LogFormat),
		Output: cmd.ErrOrStderr(),
	})
	util.SetDefault(a.logger)
	return nil
}

func (a *app) close() {
	if a.pm != nil {
		a.pm.Close()
		a.pm = nil
	}
}

func (a *app) parserManager() *parser.ParserManager {
	if a.pm == nil {
		a.pm = parser.NewParserManager(a.logger, parser.WithPoolSize(a.cfg.Workers))
	}
	return a.pm
}

// validator returns nil unless validation is enabled.
func (a *app) validator() *validator.Validator {
	if !a.cfg.Validate {
		return nil
	}
	return validator.NewValidator(a.parserManager(), a.logger)
}

func (a *app) compiler() *compiler.Compiler {
	opts := []compiler.Option{
		compiler.WithLogger(a.logger),
		compiler.WithCacheSize(a.cfg.CacheSize),
		compiler.WithWorkers(a.cfg.Workers),
	}
	if v := a.validator(); v != nil {
		opts = append(opts, compiler.WithValidator(v))
	}
	return compiler.New(markup.NewTreeSitterParser(a.parserManager()), opts...)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Args:  cobra.NoArgs,
		// Skips config loading.
		PersistentPreRun: func(*cobra.Command, []string) {},
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "uxc %s\n", version)
		},
	}
}

func init() {
	mcpserver.Version = version
}
