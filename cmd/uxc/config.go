package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/gnana997/uxc/pkg/emit"
	"github.com/gnana997/uxc/pkg/workspace"
)

// configDir holds the project config, looked up in the working directory.
const configDir = ".uxc"

var configFiles = []string{"config.yaml", "config.yml", "config.json"}

// ProjectConfig holds the contents of .uxc/config.yaml or .uxc/config.json.
type ProjectConfig struct {
	SrcDir     string   `yaml:"src_dir" json:"src_dir" validate:"required"`
	OutDir     string   `yaml:"out_dir" json:"out_dir" validate:"required"`
	Include    []string `yaml:"include" json:"include" validate:"min=1,dive,required"`
	Exclude    []string `yaml:"exclude" json:"exclude" validate:"dive,required"`
	Extension  string   `yaml:"extension" json:"extension" validate:"required,alphanum"`
	Workers    int      `yaml:"workers" json:"workers" validate:"gte=0,lte=1024"`
	CacheSize  int      `yaml:"cache_size" json:"cache_size" validate:"gte=-1"`
	Validate   bool     `yaml:"validate" json:"validate"`
	LogLevel   string   `yaml:"log_level" json:"log_level" validate:"oneof=debug info warn warning error"`
	LogFormat  string   `yaml:"log_format" json:"log_format" validate:"oneof=text json"`
	DebounceMs int      `yaml:"debounce_ms" json:"debounce_ms" validate:"gte=0,lte=60000"`
	MCPLog     string   `yaml:"mcp_log" json:"mcp_log"`
}

var configValidate = validator.New(validator.WithRequiredStructEnabled())

// defaultConfig is used for every field the config file leaves out.
func defaultConfig() *ProjectConfig {
	ws := workspace.DefaultConfig()
	return &ProjectConfig{
		SrcDir:     ".",
		OutDir:     "dist",
		Include:    ws.Include,
		Exclude:    ws.Exclude,
		Extension:  emit.DefaultExtension,
		LogLevel:   "info",
		LogFormat:  "text",
		DebounceMs: int(workspace.DefaultDebounce / time.Millisecond),
	}
}

// findConfigFile returns the first project config file under dir, or ""
// when there is none.
func findConfigFile(dir string) string {
	for _, name := range configFiles {
		path := filepath.Join(dir, configDir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// loadProjectConfig reads the config at path over the defaults. An empty
// path looks for .uxc/config.{yaml,yml,json} in the working directory and
// falls back to the defaults when none exists.
func loadProjectConfig(path string) (*ProjectConfig, error) {
	cfg := defaultConfig()
	if path == "" {
		path = findConfigFile(".")
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(jsonc.ToJSON(data), cfg)
	default:
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *ProjectConfig) validate() error {
	if err := configValidate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s fails %q", fe.Namespace(), fe.Tag()))
			}
			return errors.New(strings.Join(msgs, "; "))
		}
		return err
	}
	return c.workspace().Validate()
}

func (c *ProjectConfig) workspace() workspace.Config {
	return workspace.Config{Include: c.Include, Exclude: c.Exclude}
}

func (c *ProjectConfig) debounce() time.Duration {
	return time.Duration(c.DebounceMs) * time.Millisecond
}

// flagOverrides holds the persistent flag values. A flag only replaces the
// config value when it was set on the command line.
type flagOverrides struct {
	configPath string
	outDir     string
	extension  string
	workers    int
	cacheSize  int
	validate   bool
	logLevel   string
	logFormat  string
	mcpLog     string
}

func (f *flagOverrides) register(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringVar(&f.configPath, "config", "", "path to config file (default .uxc/config.yaml or .uxc/config.json)")
	flags.StringVarP(&f.outDir, "out", "o", "", "output directory for compiled modules")
	flags.StringVar(&f.extension, "ext", "", "output file extension")
	flags.IntVar(&f.workers, "workers", 0, "parallel compilations (0 = auto)")
	flags.IntVar(&f.cacheSize, "cache-size", 0, "compiled results kept in memory (-1 disables)")
	flags.BoolVar(&f.validate, "validate", false, "check generated modules, scripts and styles with tree-sitter")
	flags.StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.StringVar(&f.logFormat, "log-format", "", "log format: text or json")
	flags.StringVar(&f.mcpLog, "mcp-log", "", "append MCP tool calls as JSONL to this file")
}

// apply copies every flag set on cmd's command line into cfg and
// revalidates it.
func (f *flagOverrides) apply(cmd *cobra.Command, cfg *ProjectConfig) error {
	flags := cmd.Flags()
	if flags.Changed("out") {
		cfg.OutDir = f.outDir
	}
	if flags.Changed("ext") {
		cfg.Extension = strings.TrimPrefix(f.extension, ".")
	}
	if flags.Changed("workers") {
		cfg.Workers = f.workers
	}
	if flags.Changed("cache-size") {
		cfg.CacheSize = f.cacheSize
	}
	if flags.Changed("validate") {
		cfg.Validate = f.validate
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = f.logFormat
	}
	if flags.Changed("mcp-log") {
		cfg.MCPLog = f.mcpLog
	}
	if err := cfg.validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}
	return nil
}
