package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"git.home.luguber.info/inful/topsoil/internal/logfields"
)

// EnvSettingsPath names the environment variable that overrides the settings file location.
const EnvSettingsPath = "TOPSOIL_SETTINGS"

// envFiles are tried in order; the first one present is loaded.
var envFiles = []string{".env", ".env.local"}

// LoadEnvFile loads environment variables from .env/.env.local. Variables already
// set in the process environment are never overwritten. A missing file is not an
// error; the name of the loaded file is returned (empty when none was found).
func LoadEnvFile(logger *slog.Logger) (string, error) {
	if logger == nil {
		logger = slog.Default()
	}
	for _, envPath := range envFiles {
		if _, err := os.Stat(envPath); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(envPath); err != nil {
			return "", err
		}
		logger.Debug("Loaded environment variables", logfields.Path(envPath))
		return envPath, nil
	}
	return "", nil
}
