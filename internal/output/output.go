// Package output materializes the build tree: it creates page directories one
// ancestor at a time and writes rendered pages into them.
package output

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"

	terrors "git.home.luguber.info/inful/topsoil/internal/errors"
	"git.home.luguber.info/inful/topsoil/internal/logfields"
	"git.home.luguber.info/inful/topsoil/internal/paths"
)

// IndexFile is the file name every page is written to inside its directory.
const IndexFile = "index.html"

const (
	dirPerm  os.FileMode = 0o755
	filePerm os.FileMode = 0o644
)

// Materializer creates directories and writes pages relative to Root.
// Absolute paths ignore Root.
type Materializer struct {
	Root   string
	Logger *slog.Logger
}

// NewMaterializer returns a Materializer rooted at root ("" means the working directory).
func NewMaterializer(root string, logger *slog.Logger) *Materializer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Materializer{Root: root, Logger: logger}
}

// Ensure makes sure dir exists, creating each missing ancestor strictly parent
// before child. Existing entries are logged as warnings and skipped. It returns
// the directories it created, in creation order, as site-relative paths.
func (m *Materializer) Ensure(ctx context.Context, dir string) ([]string, error) {
	var created []string
	for _, d := range paths.Ancestors(dir) {
		if err := ctx.Err(); err != nil {
			return created, err
		}
		err := os.Mkdir(m.resolve(d), dirPerm)
		switch {
		case err == nil:
			m.Logger.Info("Directory created", logfields.Path(d))
			created = append(created, d)
		case errors.Is(err, fs.ErrExist):
			if info, statErr := os.Stat(m.resolve(d)); statErr == nil && !info.IsDir() {
				return created, terrors.DirectoryCreateFailed(d, fmt.Errorf("%s exists and is not a directory", d))
			}
			m.Logger.Warn("Directory already exists", logfields.Path(d))
		default:
			return created, terrors.DirectoryCreateFailed(d, err)
		}
	}
	return created, nil
}

// WritePage writes content to <dir>/index.html, replacing any previous file
// atomically, and returns the written path.
func (m *Materializer) WritePage(dir, content string) (string, error) {
	target := paths.Normalize(dir) + paths.Separator + IndexFile
	full := m.resolve(target)
	if err := atomic.WriteFile(full, strings.NewReader(content)); err != nil {
		return "", terrors.WriteFailed(target, err)
	}
	// atomic.WriteFile creates new files through a private temp file.
	if err := os.Chmod(full, filePerm); err != nil {
		return "", terrors.WriteFailed(target, err)
	}
	m.Logger.Info("Page written", logfields.Path(target))
	return target, nil
}

func (m *Materializer) resolve(p string) string {
	local := filepath.FromSlash(p)
	if m.Root == "" || filepath.IsAbs(local) {
		return local
	}
	return filepath.Join(m.Root, local)
}
