// Package templates loads raw template text and renders <% key %> tokens
// against page data.
package templates

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	terrors "git.home.luguber.info/inful/topsoil/internal/errors"
	"git.home.luguber.info/inful/topsoil/internal/logfields"
)

// Store holds the raw text of every file in a template directory.
type Store struct {
	// Names lists file names in directory listing order.
	Names []string
	Texts map[string]string
}

// Has reports whether a template called name was loaded.
func (s *Store) Has(name string) bool {
	_, ok := s.Texts[name]
	return ok
}

// Get returns the text of the template called name.
func (s *Store) Get(name string) (string, bool) {
	text, ok := s.Texts[name]
	return text, ok
}

// Len returns the number of loaded templates.
func (s *Store) Len() int { return len(s.Names) }

// LoadStore reads every entry of dir sequentially in listing order. Texts are
// stored unparsed.
func LoadStore(ctx context.Context, dir string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, terrors.DirectoryListFailed(dir, err)
	}

	store := &Store{
		Names: make([]string, 0, len(entries)),
		Texts: make(map[string]string, len(entries)),
	}
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := entry.Name()
		// #nosec G304 -- name is an entry of the configured template directory
		content, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, terrors.TemplateReadFailed(name, err)
		}
		store.Names = append(store.Names, name)
		store.Texts[name] = string(content)
		logger.Debug("Template loaded", logfields.Template(name))
	}
	logger.Info("Templates loaded", logfields.Path(dir), logfields.Count(store.Len()))
	return store, nil
}
