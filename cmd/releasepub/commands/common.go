package commands

import (
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/releasepub/internal/config"
	"git.home.luguber.info/inful/releasepub/internal/observability"
)

// Global context passed to subcommands.
type Global struct {
	Logger *slog.Logger
	// Out receives user-facing output; defaults to stdout.
	Out io.Writer
	// Err receives log output; defaults to stderr.
	Err io.Writer
}

func (g *Global) out() io.Writer {
	if g == nil || g.Out == nil {
		return os.Stdout
	}
	return g.Out
}

func (g *Global) err() io.Writer {
	if g == nil || g.Err == nil {
		return os.Stderr
	}
	return g.Err
}

// Vars returns the kong interpolation variables the CLI tags refer to.
func Vars(version string) kong.Vars {
	return kong.Vars{"version": version, "default_config": config.DefaultPath}
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"${default_config}"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Publish PublishCmd `cmd:"" help:"Publish source maps for an existing build output"`
	Plan    PlanCmd    `cmd:"" help:"Show what a build would register and upload, without uploading"`
	Watch   WatchCmd   `cmd:"" help:"Publish source maps after every production build"`
	Init    InitCmd    `cmd:"" help:"Initialize a new configuration file"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(observability.NewLogger(os.Stderr, level, string(config.LogFormatText)))
	return nil
}

// configureLogging replaces the default logger with the configured level and
// format. -v always wins over the configured level.
func configureLogging(w io.Writer, cfg *config.Config, verbose bool) *slog.Logger {
	level := cfg.Monitoring.Logging.Level.SlogLevel()
	if verbose {
		level = slog.LevelDebug
	}
	logger := observability.NewLogger(w, level, string(cfg.Monitoring.Logging.Format))
	slog.SetDefault(logger)
	return logger
}
