package build

import (
	"log/slog"

	"git.home.luguber.info/inful/topsoil/internal/config"
	"git.home.luguber.info/inful/topsoil/internal/pagedata"
	"git.home.luguber.info/inful/topsoil/internal/templates"
)

// Model is everything one build has loaded: the settings, every page-data
// record and every template, each store keeping its listing order.
type Model struct {
	Settings  *config.Settings
	PageData  *pagedata.Store
	Templates *templates.Store
}

// PageNames returns page-data file names in listing order.
func (m *Model) PageNames() []string {
	if m == nil || m.PageData == nil {
		return nil
	}
	return m.PageData.Names
}

// TemplateNames returns template file names in listing order.
func (m *Model) TemplateNames() []string {
	if m == nil || m.Templates == nil {
		return nil
	}
	return m.Templates.Names
}

// LogValue implements slog.LogValuer.
func (m *Model) LogValue() slog.Value {
	if m == nil {
		return slog.GroupValue()
	}
	attrs := make([]slog.Attr, 0, 3)
	if m.Settings != nil {
		attrs = append(attrs, slog.Any("settings", m.Settings))
	}
	attrs = append(attrs,
		slog.Any("pages", m.PageNames()),
		slog.Any("templates", m.TemplateNames()),
	)
	return slog.GroupValue(attrs...)
}
