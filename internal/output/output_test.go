package output

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	terrors "git.home.luguber.info/inful/topsoil/internal/errors"
)

func newTestMaterializer(t *testing.T) (*Materializer, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	return NewMaterializer(t.TempDir(), logger), &logs
}

func TestEnsure_CreatesParentsBeforeChildren(t *testing.T) {
	m, _ := newTestMaterializer(t)

	created, err := m.Ensure(context.Background(), "a/b/c")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "a/b", "a/b/c"}, created)

	for _, d := range created {
		info, err := os.Stat(filepath.Join(m.Root, d))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestEnsure_Idempotent(t *testing.T) {
	m, logs := newTestMaterializer(t)

	_, err := m.Ensure(context.Background(), "a/b/c")
	require.NoError(t, err)
	logs.Reset()

	created, err := m.Ensure(context.Background(), "a/b/c")
	require.NoError(t, err)
	assert.Empty(t, created)
	assert.Equal(t, 3, strings.Count(logs.String(), "Directory already exists"))
}

func TestEnsure_CollapsesEmptySegments(t *testing.T) {
	m, _ := newTestMaterializer(t)

	created, err := m.Ensure(context.Background(), "build//x///y/")
	require.NoError(t, err)
	assert.Equal(t, []string{"build", "build/x", "build/x/y"}, created)
}

func TestEnsure_PartiallyExisting(t *testing.T) {
	m, _ := newTestMaterializer(t)
	require.NoError(t, os.MkdirAll(filepath.Join(m.Root, "build", "a"), 0o755))

	created, err := m.Ensure(context.Background(), "build/a/b")
	require.NoError(t, err)
	assert.Equal(t, []string{"build/a/b"}, created)
}

func TestEnsure_FileInTheWayIsFatal(t *testing.T) {
	m, _ := newTestMaterializer(t)
	require.NoError(t, os.WriteFile(filepath.Join(m.Root, "build"), []byte("x"), 0o600))

	_, err := m.Ensure(context.Background(), "build/a")
	require.Error(t, err)
	assert.True(t, terrors.IsCategory(err, terrors.CategoryFileSystem))
}

func TestEnsure_AbsolutePathIgnoresRoot(t *testing.T) {
	m, _ := newTestMaterializer(t)
	abs := filepath.ToSlash(filepath.Join(t.TempDir(), "site", "docs"))

	_, err := m.Ensure(context.Background(), abs)
	require.NoError(t, err)
	info, err := os.Stat(filepath.FromSlash(abs))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestEnsure_CanceledContext(t *testing.T) {
	m, _ := newTestMaterializer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	created, err := m.Ensure(ctx, "a/b")
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, created)
}

func TestWritePage(t *testing.T) {
	m, _ := newTestMaterializer(t)
	_, err := m.Ensure(context.Background(), "build/a/b")
	require.NoError(t, err)

	target, err := m.WritePage("build//a/b/", "Hello World")
	require.NoError(t, err)
	assert.Equal(t, "build/a/b/index.html", target)

	data, err := os.ReadFile(filepath.Join(m.Root, "build", "a", "b", "index.html"))
	require.NoError(t, err)
	assert.Equal(t, "Hello World", string(data))

	info, err := os.Stat(filepath.Join(m.Root, "build", "a", "b", "index.html"))
	require.NoError(t, err)
	assert.Equal(t, filePerm, info.Mode().Perm())
}

func TestWritePage_Overwrites(t *testing.T) {
	m, _ := newTestMaterializer(t)
	_, err := m.Ensure(context.Background(), "build")
	require.NoError(t, err)

	_, err = m.WritePage("build", "first")
	require.NoError(t, err)
	_, err = m.WritePage("build", "second")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(m.Root, "build", "index.html"))
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

func TestWritePage_MissingDirectoryFails(t *testing.T) {
	m, _ := newTestMaterializer(t)

	_, err := m.WritePage("nowhere", "x")
	require.Error(t, err)
	assert.True(t, terrors.IsCategory(err, terrors.CategoryFileSystem))
}
