package build

import (
	"context"
	"fmt"

	"git.home.luguber.info/inful/topsoil/internal/history"
	"git.home.luguber.info/inful/topsoil/internal/logfields"
	"git.home.luguber.info/inful/topsoil/internal/paths"
	"git.home.luguber.info/inful/topsoil/internal/templates"
)

// stageRenderPages builds every page in listing order. Each page is
// validated, its directory materialized, rendered and written before the
// next one starts; the first failure stops the stage.
func stageRenderPages(ctx context.Context, bs *buildState) error {
	for _, name := range bs.model.PageData.Names {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := bs.renderPage(ctx, name); err != nil {
			return fmt.Errorf("%w: %w", ErrOutput, err)
		}
	}
	bs.logger.Info("Pages rendered", logfields.Count(bs.report.PagesWritten))
	return nil
}

func (bs *buildState) renderPage(ctx context.Context, name string) error {
	record, _ := bs.model.PageData.Get(name)
	if err := record.Validate(bs.model.Templates); err != nil {
		return err
	}
	loc, _ := record.Loc()
	tpl, _ := record.Template()
	logger := bs.logger.With(logfields.File(name), logfields.Loc(loc))

	dir := paths.Join(bs.model.Settings.BuildDir, loc)
	created, err := bs.materializer.Ensure(ctx, dir)
	bs.addCreated(created)
	if err != nil {
		return err
	}

	text, _ := bs.model.Templates.Get(tpl)
	content, unresolved := templates.Render(text, record.Data())
	if len(unresolved) > 0 {
		bs.report.Unresolved[name] = unresolved
		bs.recorder.IncUnresolvedTokens(tpl, len(unresolved))
		logger.Warn("Template tokens without page data rendered empty",
			logfields.Template(tpl), "keys", unresolved)
	}

	written, err := bs.materializer.WritePage(dir, content)
	if err != nil {
		return err
	}
	bs.report.PagesWritten++
	bs.recorder.IncPagesWritten()
	bs.recordHistory(ctx, func() (history.Event, error) {
		return history.NewPageWritten(bs.report.BuildID, name, loc, tpl, written, unresolved)
	})
	return nil
}
