package commands

import (
	"git.home.luguber.info/inful/topsoil/internal/build"
	"git.home.luguber.info/inful/topsoil/internal/history"
	"git.home.luguber.info/inful/topsoil/internal/logfields"
	"git.home.luguber.info/inful/topsoil/internal/metrics"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Root        string `short:"C" help:"Site directory; relative paths in settings resolve against it" default:"." type:"path"`
	MetricsFile string `name:"metrics-file" help:"Write Prometheus metrics in text format to this file after the build" env:"TOPSOIL_METRICS_FILE"`
	HistoryDB   string `name:"history-db" help:"Record the build in this SQLite history database" env:"TOPSOIL_HISTORY_DB"`
	ReportFile  string `name:"report-file" help:"Write a JSON build report to this file"`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	logger := g.logger()
	opts := build.Options{
		SettingsPath: root.Settings,
		Root:         b.Root,
		Logger:       logger,
	}

	var recorder *metrics.PrometheusRecorder
	if b.MetricsFile != "" {
		recorder = metrics.NewPrometheusRecorder(nil)
		opts.Recorder = recorder
	}

	if b.HistoryDB != "" {
		store, err := history.NewSQLiteStore(b.HistoryDB)
		if err != nil {
			logger.Warn("Build history disabled", logfields.Path(b.HistoryDB), logfields.Error(err))
		} else {
			defer func() {
				if cerr := store.Close(); cerr != nil {
					logger.Warn("Failed to close history database", logfields.Error(cerr))
				}
			}()
			opts.History = store
		}
	}

	_, report, err := build.New(opts).Run(g.context())

	if recorder != nil {
		if werr := recorder.WriteTextfile(b.MetricsFile); werr != nil {
			logger.Warn("Failed to write metrics file", logfields.Path(b.MetricsFile), logfields.Error(werr))
		}
	}
	if b.ReportFile != "" {
		if perr := report.Persist(b.ReportFile); perr != nil {
			logger.Warn("Failed to write build report", logfields.Path(b.ReportFile), logfields.Error(perr))
		}
	}
	return err
}
