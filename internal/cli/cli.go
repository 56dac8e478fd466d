// Package cli implements the simasm command-line interface.
package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/LMascagni/simasm/pkg/buildinfo"
	"github.com/LMascagni/simasm/pkg/cache"
	"github.com/LMascagni/simasm/pkg/config"
	"github.com/LMascagni/simasm/pkg/errors"
	"github.com/LMascagni/simasm/pkg/navigate"
	"github.com/LMascagni/simasm/pkg/observability"
	"github.com/LMascagni/simasm/pkg/pipeline"
	"github.com/LMascagni/simasm/pkg/source"
)

// =============================================================================
// Constants
// =============================================================================

const appName = "simasm"

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
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level. At debug level the pipeline,
// scheduler and navigation hooks log every event.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		h := logHooks{logger: c.Logger}
		observability.SetPipelineHooks(h)
		observability.SetSchedulerHooks(h)
		observability.SetNavigationHooks(h)
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "simasm draws SIMASM assembly as an interactive flow chart",
		Long:         `simasm turns SIMASM assembly source into a flow chart: one box per "; --- NAME ---" section, with an orthogonal connector from every jump to the label it targets.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ./"+config.FileName+" if present)")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.sectionsCommand())
	root.AddCommand(c.outlineCommand())
	root.AddCommand(c.instructionsCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Shared Helpers
// =============================================================================

// loadConfig reads the --config file, or simasm.toml in the working
// directory, over the built-in defaults.
func (c *CLI) loadConfig() (config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if c.configPath != "" {
		c.Logger.Debug("loaded config", "path", c.configPath)
	}
	return cfg, nil
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner() *pipeline.Runner {
	return pipeline.NewRunner(c.Logger)
}

// newCache returns the section graph cache, or a null cache when disabled or
// when no cache directory is available.
func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, err
	}
	return fc, nil
}

// cacheDir follows XDG: $XDG_CACHE_HOME/simasm or ~/.cache/simasm.
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

// readSource loads a document, validating the path first.
func readSource(path string) (*source.Document, error) {
	if err := errors.ValidateSourcePath(path); err != nil {
		return nil, err
	}
	return source.ReadFile(path)
}

// openOutput returns a writer for path, or stdout for "" and "-".
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// newNavigator builds the navigator selected by [navigate] mode. The stream
// mode writes to w.
func (c *CLI) newNavigator(cmd *cobra.Command, cfg config.Config, w io.Writer, view string) (navigate.Navigator, error) {
	switch cfg.Navigate.Mode {
	case config.NavigateStream:
		return navigate.NewStreamNavigator(w), nil
	case config.NavigateRedis:
		n, err := navigate.NewRedisNavigator(cmd.Context(), cfg.RedisConfig(), view)
		if err != nil {
			return nil, err
		}
		c.Logger.Info("publishing jumps", "redis", cfg.Navigate.RedisAddr, "channel", n.Channel())
		return navigate.Multi{n, navigate.LogNavigator{Logger: c.Logger}}, nil
	}
	return navigate.LogNavigator{Logger: c.Logger}, nil
}
