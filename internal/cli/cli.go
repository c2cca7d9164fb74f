// Package cli implements the gridstitch command-line interface.
//
// # Commands
//
//   - layout: lay out a diagram and write <input>.layout.json
//   - constraints: show the solved constraint graph, optionally as SVG or DOT
//   - tiles: list the occupancy mosaic of a diagram
//   - serve: run the HTTP layout API
//   - cache: manage the local layout cache
//   - completion: generate shell completions
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// enables the engines' own diagnostics.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gridstitch/pkg/buildinfo"
	"github.com/matzehuels/gridstitch/pkg/cache"
	"github.com/matzehuels/gridstitch/pkg/diagram"
	"github.com/matzehuels/gridstitch/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "gridstitch"

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
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "gridstitch lays out block diagrams",
		Long:         `gridstitch places the blocks of a diagram from qualitative relationships ("A is left of B"), tiles the canvas and routes orthogonal connectors around the blocks.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.constraintsCommand())
	root.AddCommand(c.tilesCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// cacheFlags selects the cache backend of a command.
type cacheFlags struct {
	noCache   bool
	redisURL  string
	keyPrefix string
}

func (f *cacheFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&f.redisURL, "redis", os.Getenv("GRIDSTITCH_REDIS_URL"), "cache layouts in Redis at this URL instead of on disk")
	cmd.Flags().StringVar(&f.keyPrefix, "cache-prefix", "", "prefix for cache keys on a shared backend")
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, f cacheFlags) (*pipeline.Runner, error) {
	cc, err := c.newCache(ctx, f)
	if err != nil {
		return nil, err
	}
	var keyer cache.Keyer
	if f.keyPrefix != "" {
		keyer = cache.NewScopedKeyer(nil, f.keyPrefix)
	}
	return pipeline.NewRunner(cc, keyer, c.Logger), nil
}

func (c *CLI) newCache(ctx context.Context, f cacheFlags) (cache.Cache, error) {
	switch {
	case f.noCache:
		return cache.NewNullCache(), nil
	case f.redisURL != "":
		rc, err := cache.NewRedisCache(ctx, f.redisURL)
		if err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		return rc, nil
	}
	dir, err := cacheDir()
	if err != nil {
		c.Logger.Debug("no cache directory, caching disabled", "error", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/gridstitch/).
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

// derivedPath replaces the extension of input with suffix.
func derivedPath(input, suffix string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + suffix
}

// =============================================================================
// Options Helpers
// =============================================================================

// registerLayoutFlags binds the layout options to flags on cmd.
func registerLayoutFlags(cmd *cobra.Command, opts *pipeline.Options) {
	f := cmd.Flags()
	f.IntVar(&opts.GridScale, "grid-scale", pipeline.DefaultGridScale, "routing cells per constraint unit (at least 2)")
	f.IntVar(&opts.CellWidth, "cell-width", pipeline.DefaultCellWidth, "pixel width of a routing cell")
	f.IntVar(&opts.CellHeight, "cell-height", pipeline.DefaultCellHeight, "pixel height of a routing cell")
	f.IntVar(&opts.BlockWidth, "block-width", 0, fmt.Sprintf("pixel width of a block (default: %d or the cell width, if smaller)", pipeline.DefaultBlockWidth))
	f.IntVar(&opts.BlockHeight, "block-height", 0, fmt.Sprintf("pixel height of a block (default: %d or the cell height, if smaller)", pipeline.DefaultBlockHeight))
	f.IntVar(&opts.Margin, "margin", pipeline.DefaultMargin, "free routing cells around the diagram")
	f.BoolVar(&opts.Strict, "strict", false, "fail on contradictory relationships instead of dropping them")
	f.IntVar(&opts.MaxTrials, "max-trials", pipeline.DefaultMaxTrials, "constraint repair rounds before accepting a partial solution")
}

// loadDiagram reads a diagram document, logging what was read.
func (c *CLI) loadDiagram(path string) (*diagram.Diagram, error) {
	d, err := diagram.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("loaded diagram",
		"path", path,
		"blocks", len(d.Blocks),
		"connectors", len(d.Connectors))
	return d, nil
}
