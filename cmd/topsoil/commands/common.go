package commands

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/topsoil/internal/config"
)

// Global carries process-wide state into every command's Run method.
type Global struct {
	Context context.Context
	Logger  *slog.Logger
	Stdout  io.Writer
}

func (g *Global) context() context.Context {
	if g == nil || g.Context == nil {
		return context.Background()
	}
	return g.Context
}

func (g *Global) logger() *slog.Logger {
	if g == nil || g.Logger == nil {
		return slog.Default()
	}
	return g.Logger
}

func (g *Global) stdout() io.Writer {
	if g == nil || g.Stdout == nil {
		return os.Stdout
	}
	return g.Stdout
}

// CLI definition & global flags.
type CLI struct {
	Settings  string           `short:"s" help:"Settings file path, relative to the site root" default:"settings.json" env:"TOPSOIL_SETTINGS"`
	Verbose   bool             `short:"v" help:"Enable verbose logging"`
	LogLevel  string           `name:"log-level" help:"Log level (debug|info|warn|error)" default:"info" env:"TOPSOIL_LOG_LEVEL"`
	LogFormat string           `name:"log-format" help:"Log output format" enum:"text,json" default:"text" env:"TOPSOIL_LOG_FORMAT"`
	Version   kong.VersionFlag `name:"version" help:"Show version and exit"`

	Test    TestCmd    `cmd:"" help:"Print a greeting to check the installation"`
	Build   BuildCmd   `cmd:"" help:"Build the site into the build directory"`
	History HistoryCmd `cmd:"" help:"List recent builds from a history database"`
	None    NoneCmd    `cmd:"" default:"withargs" hidden:"" help:"Report that no command was given"`
}

// AfterApply runs after flag parsing; setup logging once.
func (c *CLI) AfterApply() error {
	slog.SetDefault(c.NewLogger(os.Stderr))
	return nil
}

// NewLogger builds a logger honoring --verbose, --log-level and --log-format.
func (c *CLI) NewLogger(w io.Writer) *slog.Logger {
	level := config.NormalizeLogLevel(c.LogLevel)
	if c.Verbose {
		level = config.LogLevelDebug
	}
	return config.NewLogger(w, config.NormalizeLogFormat(c.LogFormat), level)
}
