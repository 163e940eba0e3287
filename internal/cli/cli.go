package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/devinventory/pkg/buildinfo"
	"github.com/matzehuels/devinventory/pkg/cache"
	"github.com/matzehuels/devinventory/pkg/config"
	"github.com/matzehuels/devinventory/pkg/pipeline"
	"github.com/matzehuels/devinventory/pkg/probe"
)

// appName is the application name used for directories and display.
const appName = "devinventory"

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

	// Exec runs external commands. Tests replace it with a scripted runner.
	Exec probe.Runner

	configPath string
	cfg        config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// Config returns the configuration resolved for the running command.
func (c *CLI) Config() config.Config { return c.cfg }

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Inventory the languages, frameworks and packages on this machine",
		Long: `devinventory probes the local development machine for installed language
runtimes, frameworks and Python packages, reconciles them against a
requirements file, and exports the results as spreadsheets, JSON or YAML.
It can also draw the package dependency graph and watch resource usage live.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Resolve(c.configPath)
			if err != nil {
				return err
			}
			c.cfg = cfg
			if cfg.Path != "" {
				c.Logger.Debug("loaded config", "path", cfg.Path)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ./"+config.FileName+")")

	root.AddCommand(c.collectCommand())
	root.AddCommand(c.listCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.scanCommand())
	root.AddCommand(c.monitorCommand())
	root.AddCommand(c.venvCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

func (c *CLI) exec() probe.Runner {
	if c.Exec != nil {
		return c.Exec
	}
	return probe.ExecRunner{Timeout: c.cfg.Timeout.Std()}
}

// newRunner creates a pipeline runner for CLI use. The caller closes it.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	ch, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(c.cfg, c.exec(), ch, c.Logger), nil
}

// newCache opens the configured backend. A file cache that cannot be
// located degrades to no caching.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	ch, err := cache.Open(ctx, c.cfg.Cache.Options())
	if err != nil {
		if c.cfg.Cache.Backend == cache.BackendFile {
			c.Logger.Warn("cache disabled", "err", err)
			return cache.NewNullCache(), nil
		}
		return nil, err
	}
	return ch, nil
}
