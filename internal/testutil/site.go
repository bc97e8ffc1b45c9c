// Package testutil provides fixtures for tests that exercise a whole site:
// a fluent builder that lays out settings, page data and templates in a
// temporary directory, and assertions over the generated build tree.
package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"
)

// SiteFixture lays out a site directory for tests.
type SiteFixture struct {
	t    *testing.T
	Root string
}

// NewSite creates an empty site in a temporary directory.
func NewSite(t *testing.T) *SiteFixture {
	t.Helper()
	return &SiteFixture{t: t, Root: t.TempDir()}
}

// WithSettings writes settings.json from the given value.
func (s *SiteFixture) WithSettings(settings map[string]any) *SiteFixture {
	s.t.Helper()
	return s.WithRawSettings(s.marshal(settings))
}

// WithRawSettings writes settings.json verbatim.
func (s *SiteFixture) WithRawSettings(content string) *SiteFixture {
	s.t.Helper()
	return s.WithFile("settings.json", content)
}

// WithPage writes dir/name as a JSON page-data file.
func (s *SiteFixture) WithPage(dir, name string, record map[string]any) *SiteFixture {
	s.t.Helper()
	return s.WithFile(filepath.Join(dir, name), s.marshal(record))
}

// WithYAMLPage writes dir/name as a YAML page-data file.
func (s *SiteFixture) WithYAMLPage(dir, name string, record map[string]any) *SiteFixture {
	s.t.Helper()
	out, err := yaml.Marshal(record)
	if err != nil {
		s.t.Fatalf("marshal yaml page %s: %v", name, err)
	}
	return s.WithFile(filepath.Join(dir, name), string(out))
}

// WithTemplate writes dir/name as a template.
func (s *SiteFixture) WithTemplate(dir, name, text string) *SiteFixture {
	s.t.Helper()
	return s.WithFile(filepath.Join(dir, name), text)
}

// WithDir creates an empty directory.
func (s *SiteFixture) WithDir(rel string) *SiteFixture {
	s.t.Helper()
	if err := os.MkdirAll(filepath.Join(s.Root, rel), 0o755); err != nil {
		s.t.Fatalf("create %s: %v", rel, err)
	}
	return s
}

// WithFile writes an arbitrary file relative to the site root.
func (s *SiteFixture) WithFile(rel, content string) *SiteFixture {
	s.t.Helper()
	full := filepath.Join(s.Root, rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		s.t.Fatalf("create parent of %s: %v", rel, err)
	}
	if err := os.WriteFile(full, []byte(content), 0o600); err != nil {
		s.t.Fatalf("write %s: %v", rel, err)
	}
	return s
}

// Path joins rel onto the site root.
func (s *SiteFixture) Path(rel string) string {
	return filepath.Join(s.Root, rel)
}

// Files returns assertions rooted at the site.
func (s *SiteFixture) Files() *FileAssertions {
	return NewFileAssertions(s.t, s.Root)
}

func (s *SiteFixture) marshal(v any) string {
	s.t.Helper()
	out, err := json.Marshal(v)
	if err != nil {
		s.t.Fatalf("marshal json: %v", err)
	}
	return string(out)
}
