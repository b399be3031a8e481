// Package cli implements the bubblecloud command-line interface.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/bubblecloud/internal/config"
	"github.com/matzehuels/bubblecloud/pkg/buildinfo"
	"github.com/matzehuels/bubblecloud/pkg/cloud"
	"github.com/matzehuels/bubblecloud/pkg/errors"
	"github.com/matzehuels/bubblecloud/pkg/geom"
	"github.com/matzehuels/bubblecloud/pkg/observability"
	"github.com/matzehuels/bubblecloud/pkg/physics"
	"github.com/matzehuels/bubblecloud/pkg/store"
	"github.com/matzehuels/bubblecloud/pkg/store/mongo"
	"github.com/matzehuels/bubblecloud/pkg/store/redis"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "bubblecloud"

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
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level. At debug level the simulation and
// store hooks report through the logger as well.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		h := newLoggingHooks(c.Logger)
		observability.SetSimulationHooks(h)
		observability.SetStoreHooks(h)
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Bubblecloud simulates a physics-driven bubble picker",
		Long:         `Bubblecloud runs a cloud of circular nodes pulled toward the center of a surface, lets you drag the cloud and tap nodes to select them, and renders or serves the result.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default "+config.Path()+")")

	root.AddCommand(c.simulateCommand())
	root.AddCommand(c.playCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.snapshotCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Configuration
// =============================================================================

// config loads the configuration once per invocation.
func (c *CLI) config() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("loaded config", "path", c.configPathOrDefault(), "backend", cfg.Store.Backend)
	c.cfg = cfg
	return cfg, nil
}

func (c *CLI) configPathOrDefault() string {
	if c.configPath != "" {
		return c.configPath
	}
	return config.Path()
}

// =============================================================================
// Factories
// =============================================================================

// newSurface creates a surface from the configured physics and the given
// size and selection mode.
func (c *CLI) newSurface(cfg *config.Config, size geom.Size, multi bool, opts ...cloud.Option) (*cloud.Surface, error) {
	opts = append([]cloud.Option{
		cloud.WithLogger(c.Logger),
		cloud.WithIntegrator(physics.New(cfg.Physics)),
		cloud.WithMultipleSelection(multi),
	}, opts...)
	return cloud.New(size, opts...)
}

// openStore opens the configured snapshot backend.
func (c *CLI) openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.Store.Backend {
	case config.BackendFile:
		c.Logger.Debug("using file store", "dir", cfg.Store.Dir)
		return store.NewFileStore(cfg.Store.Dir)
	case config.BackendRedis:
		spinner := newSpinnerWithContext(ctx, "Connecting to Redis at "+cfg.Store.Redis.Addr+"...")
		spinner.Start()
		defer spinner.Stop()
		return redis.New(ctx, cfg.Store.Redis)
	case config.BackendMongo:
		spinner := newSpinnerWithContext(ctx, "Connecting to MongoDB...")
		spinner.Start()
		defer spinner.Stop()
		return mongo.New(ctx, cfg.Store.Mongo)
	}
	return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown store backend %q", cfg.Store.Backend)
}
