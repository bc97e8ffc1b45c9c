package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/topsoil/cmd/topsoil/commands"
	"git.home.luguber.info/inful/topsoil/internal/config"
	terrors "git.home.luguber.info/inful/topsoil/internal/errors"
	"git.home.luguber.info/inful/topsoil/internal/version"
)

func main() {
	// .env must be loaded before kong reads env-backed flags.
	if _, err := config.LoadEnvFile(nil); err != nil {
		slog.Warn("Failed to load .env file", "error", err)
	}

	var cli commands.CLI
	parser := kong.Parse(&cli,
		kong.Name("topsoil"),
		kong.Description("Build a static site from page data and templates."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := parser.Run(&commands.Global{Context: ctx, Logger: slog.Default(), Stdout: os.Stdout}, &cli)
	stop()
	if err != nil {
		terrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
	}
}
