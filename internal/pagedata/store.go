// Package pagedata loads the page-data directory: one record per file, read
// sequentially in listing order and indexed by file name.
package pagedata

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	terrors "git.home.luguber.info/inful/topsoil/internal/errors"
	"git.home.luguber.info/inful/topsoil/internal/logfields"
)

// Store holds every record of a page-data directory.
type Store struct {
	// Names lists file names in directory listing order.
	Names   []string
	Records map[string]*Record
}

// Len returns the number of records.
func (s *Store) Len() int { return len(s.Names) }

// Get returns the record loaded from name.
func (s *Store) Get(name string) (*Record, bool) {
	r, ok := s.Records[name]
	return r, ok
}

// LoadStore reads every entry of dir, one after another. Any entry that
// cannot be read or parsed aborts the load and names the file.
func LoadStore(ctx context.Context, dir string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, terrors.DirectoryListFailed(dir, err)
	}

	store := &Store{
		Names:   make([]string, 0, len(entries)),
		Records: make(map[string]*Record, len(entries)),
	}
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := entry.Name()
		record, err := loadRecord(filepath.Join(dir, name), name)
		if err != nil {
			return nil, err
		}
		store.Names = append(store.Names, name)
		store.Records[name] = record
		logger.Debug("Page data loaded", logfields.File(name))
	}
	logger.Info("Page data loaded", logfields.Path(dir), logfields.Count(store.Len()))
	return store, nil
}

func loadRecord(fullPath, name string) (*Record, error) {
	// #nosec G304 -- fullPath is an entry of the configured page-data directory
	content, err := os.ReadFile(fullPath)
	if err != nil {
		return nil, terrors.DataReadFailed(name, err)
	}
	fields, err := decode(name, content)
	if err != nil {
		return nil, terrors.DataParseFailed(name, err)
	}
	fields[KeyFileName] = name
	return &Record{FileName: name, Fields: fields}, nil
}

// decode parses content as YAML for .yaml/.yml files and as JSON otherwise.
// The top level must be an object.
func decode(name string, content []byte) (map[string]any, error) {
	var doc any
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(content, &doc); err != nil {
			return nil, err
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(content))
		if err := dec.Decode(&doc); err != nil {
			return nil, err
		}
		if dec.More() {
			return nil, fmt.Errorf("unexpected content after top-level value")
		}
	}
	fields, ok := doc.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("top-level value is %T, want an object", doc)
	}
	return fields, nil
}
