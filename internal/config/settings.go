package config

import (
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"strings"

	terrors "git.home.luguber.info/inful/topsoil/internal/errors"
	"git.home.luguber.info/inful/topsoil/internal/logfields"
)

// DefaultSettingsFile is the settings file looked up in the working directory.
const DefaultSettingsFile = "settings.json"

// Default directory names applied when a field is absent.
const (
	DefaultBuildDir    = "build"
	DefaultPageDataDir = "page-data"
	DefaultTemplateDir = "tpl"
	ThemesDir          = "themes"
)

// Mode selects how the template directory is resolved.
type Mode string

const (
	// ModeFlat reads templates from templateDir (default "tpl").
	ModeFlat Mode = "flat"
	// ModeTheme reads templates from themes/<theme>/tpl and requires theme.
	ModeTheme Mode = "theme"
)

// NormalizeMode maps a raw settings value to a Mode. Unknown values yield "".
func NormalizeMode(raw string) Mode {
	switch Mode(strings.ToLower(strings.TrimSpace(raw))) {
	case ModeFlat:
		return ModeFlat
	case ModeTheme:
		return ModeTheme
	default:
		return ""
	}
}

// Settings is the resolved build configuration. It is immutable once returned
// by LoadSettings.
type Settings struct {
	Mode        Mode   `json:"mode"`
	BuildDir    string `json:"buildDir"`
	PageDataDir string `json:"pageDataDir"`
	TemplateDir string `json:"templateDir"`
	Theme       string `json:"theme,omitempty"`
}

// TemplatePath returns the directory templates are loaded from for the
// configured mode.
func (s *Settings) TemplatePath() string {
	if s.Mode == ModeTheme {
		return path.Join(ThemesDir, s.Theme, "tpl")
	}
	return s.TemplateDir
}

// LogValue implements slog.LogValuer.
func (s *Settings) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("mode", string(s.Mode)),
		slog.String("buildDir", s.BuildDir),
		slog.String("pageDataDir", s.PageDataDir),
		slog.String("templateDir", s.TemplatePath()),
	}
	if s.Theme != "" {
		attrs = append(attrs, slog.String("theme", s.Theme))
	}
	return slog.GroupValue(attrs...)
}

// LoadSettings reads the settings file at path and resolves it into Settings.
//
// A missing file is not an error and a file that fails to parse only logs a
// warning; both fall back to empty settings so every field takes its default.
// A present field holding a non-string value is a fatal configuration error.
func LoadSettings(settingsPath string, logger *slog.Logger) (*Settings, error) {
	if logger == nil {
		logger = slog.Default()
	}
	raw := readRawSettings(settingsPath, logger)
	return FromMap(raw, logger)
}

func readRawSettings(settingsPath string, logger *slog.Logger) map[string]any {
	// #nosec G304 -- settings path is chosen by the operator.
	data, err := os.ReadFile(settingsPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Debug("Settings file not found, using defaults", logfields.Path(settingsPath))
		} else {
			logger.Warn("Settings file could not be read, using defaults", logfields.Path(settingsPath), logfields.Error(err))
		}
		return map[string]any{}
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil || raw == nil {
		logger.Warn("Error encountered while attempting to parse settings. Loading default settings instead.",
			logfields.Path(settingsPath), logfields.Error(err))
		return map[string]any{}
	}
	return raw
}

// dirField describes one directory setting: its canonical key, an optional
// alias accepted for compatibility, and the default.
type dirField struct {
	key   string
	alias string
	def   string
}

var (
	buildDirField    = dirField{key: "buildDir", def: DefaultBuildDir}
	pageDataDirField = dirField{key: "pageDataDir", alias: "dataDir", def: DefaultPageDataDir}
	templateDirField = dirField{key: "templateDir", alias: "tplDir", def: DefaultTemplateDir}
)

// FromMap resolves a decoded settings object, applying defaults and type checks.
func FromMap(raw map[string]any, logger *slog.Logger) (*Settings, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Settings{}

	var err error
	if s.BuildDir, err = resolveDir(raw, buildDirField, logger); err != nil {
		return nil, err
	}
	if s.PageDataDir, err = resolveDir(raw, pageDataDirField, logger); err != nil {
		return nil, err
	}
	if s.TemplateDir, err = resolveDir(raw, templateDirField, logger); err != nil {
		return nil, err
	}

	modeRaw, hasMode, err := stringField(raw, "mode")
	if err != nil {
		return nil, err
	}
	s.Mode = ModeFlat
	if hasMode {
		if s.Mode = NormalizeMode(modeRaw); s.Mode == "" {
			return nil, terrors.ConfigInvalidValue("mode", modeRaw)
		}
	}

	theme, hasTheme, err := stringField(raw, "theme")
	if err != nil {
		return nil, err
	}
	switch s.Mode {
	case ModeTheme:
		if !hasTheme || strings.TrimSpace(theme) == "" {
			return nil, terrors.ConfigRequired("theme")
		}
		s.Theme = theme
	case ModeFlat:
		if hasTheme {
			logger.Debug("Ignoring theme outside theme mode", slog.String("theme", theme))
		}
	}

	return s, nil
}

func resolveDir(raw map[string]any, f dirField, logger *slog.Logger) (string, error) {
	v, ok, err := stringField(raw, f.key)
	if err != nil {
		return "", err
	}
	if f.alias != "" {
		av, aok, err := stringField(raw, f.alias)
		if err != nil {
			return "", err
		}
		switch {
		case ok && aok:
			if av != v {
				logger.Warn("Both setting and alias present, using setting",
					slog.String("setting", f.key), slog.String("alias", f.alias))
			}
		case aok:
			return nonBlankDir(f.alias, av)
		}
	}
	if !ok {
		return f.def, nil
	}
	return nonBlankDir(f.key, v)
}

// nonBlankDir rejects a directory setting that is present but blank. An empty
// directory would resolve page output against the filesystem root.
func nonBlankDir(key, v string) (string, error) {
	if strings.TrimSpace(v) == "" {
		return "", terrors.ConfigInvalidValue(key, v)
	}
	return v, nil
}

// stringField reports the string value at key and whether the key is present.
// A present key whose value is not a string (including null) is an error.
func stringField(raw map[string]any, key string) (string, bool, error) {
	v, ok := raw[key]
	if !ok {
		return "", false, nil
	}
	s, isString := v.(string)
	if !isString {
		return "", true, terrors.ConfigInvalidType(key, "string")
	}
	return s, true, nil
}
