// Package cli implements the storygraph command-line interface.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/storygraph/pkg/buildinfo"
	"github.com/matzehuels/storygraph/pkg/config"
	"github.com/matzehuels/storygraph/pkg/observability"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "storygraph"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
// Configuration is loaded before any subcommand runs.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "storygraph",
		Short: "Storygraph visualizes branching interactive stories",
		Long: `Storygraph turns an interactive story (scenes linked by choices) into a
navigable graph of cards and arrows. It lays stories out top to bottom,
reports their structure, renders SVG and PNG, serves live canvases over
HTTP and generates new stories from a short brief.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/storygraph/config.toml)")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.analyzeCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.generateCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads .env, the config file and environment overrides, and
// routes pipeline events to the logger.
func (c *CLI) loadConfig() error {
	config.LoadDotEnv()
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg

	hooks := &logHooks{logger: c.Logger}
	observability.SetLayoutHooks(hooks)
	observability.SetCacheHooks(hooks)
	observability.SetGeneratorHooks(hooks)

	c.Logger.Debug("config loaded", "engine", cfg.Layout.Engine, "cache", cfg.Cache.Backend)
	return nil
}

// config returns the loaded configuration, or the defaults when a command
// runs without the root pre-run (as in tests).
func (c *CLI) config() *config.Config {
	if c.cfg == nil {
		c.cfg = config.Default()
	}
	return c.cfg
}
