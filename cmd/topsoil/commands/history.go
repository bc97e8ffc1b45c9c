package commands

import (
	"fmt"
	"text/tabwriter"
	"time"

	"git.home.luguber.info/inful/topsoil/internal/history"
)

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	DB    string        `name:"history-db" help:"SQLite history database written by 'build --history-db'" required:"" env:"TOPSOIL_HISTORY_DB"`
	Limit int           `short:"n" help:"Maximum number of builds to list (0 for all)" default:"10"`
	Since time.Duration `help:"Only list builds started within this window (0 for all)" default:"0s"`
}

func (h *HistoryCmd) Run(g *Global) error {
	store, err := history.NewSQLiteStore(h.DB)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	var since time.Time
	if h.Since > 0 {
		since = time.Now().Add(-h.Since)
	}
	summaries, err := history.Recent(g.context(), store, since, h.Limit)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(g.stdout(), 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "BUILD\tSTARTED\tSTATUS\tPAGES\tDETAIL")
	for _, s := range summaries {
		detail := ""
		if s.ErrorStage != "" {
			detail = s.ErrorStage + ": " + s.ErrorMessage
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n",
			s.BuildID, s.StartedAt.Format(time.RFC3339), s.Status, s.Pages, detail)
	}
	return tw.Flush()
}
