// Package cli implements the artgraph command-line interface.
//
// This package provides commands for computing force-directed layouts of
// art knowledge graphs, exporting them as DOT or SVG, exploring them in an
// interactive terminal viewer, serving them over HTTP, and managing the
// local snapshot cache. The CLI is built using cobra and supports verbose
// logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - layout: Compute node positions for a snapshot file
//   - render: Export a snapshot as Graphviz DOT or SVG
//   - view: Explore a snapshot interactively in the terminal
//   - serve: Expose the graph store and layout engine over HTTP
//   - cache: Manage the local snapshot cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/artatlas/artgraph/pkg/buildinfo"
	"github.com/artatlas/artgraph/pkg/cache"
)

// appName is the application name used for directories and display.
const appName = "artgraph"

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
	Config Config
}

// New creates a new CLI instance with a default logger.
func New(level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(os.Stderr, level),
		Config: DefaultCLIConfig(),
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	var (
		verbose    bool
		configPath string
	)

	root := &cobra.Command{
		Use:          appName,
		Short:        "Artgraph explores art knowledge graphs interactively",
		Long:         `Artgraph computes force-directed layouts for art knowledge graphs of artworks, artists, movements and techniques, and lets you explore, export and serve them.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				c.Logger.SetLevel(log.DebugLevel)
			}
			cfg, err := LoadConfig(configPath)
			if err != nil {
				return err
			}
			c.Config = cfg
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: ~/.config/artgraph/config.toml)")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Cache Factory
// =============================================================================

// newCache builds the cache backend from configuration. Failures degrade to
// the null cache so commands still run without caching.
func (c *CLI) newCache(noCache bool) cache.Cache {
	if noCache {
		return cache.NewNullCache()
	}
	dir := c.Config.Cache.Dir
	if dir == "" {
		var err error
		dir, err = cacheDir()
		if err != nil {
			return cache.NewNullCache()
		}
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Warn("file cache unavailable, caching disabled", "error", err)
		return cache.NewNullCache()
	}
	return fc
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/artgraph/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// configDir returns the config directory using XDG standard (~/.config/artgraph/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}
