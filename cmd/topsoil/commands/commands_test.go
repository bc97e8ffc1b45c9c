package commands

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/topsoil/internal/build"
	"git.home.luguber.info/inful/topsoil/internal/testutil"
)

type cliRun struct {
	stdout bytes.Buffer
	logs   bytes.Buffer
	err    error
}

func runCLI(t *testing.T, args ...string) *cliRun {
	t.Helper()
	var cli CLI
	parser, err := kong.New(&cli, kong.Name("topsoil"), kong.Exit(func(int) { t.Fatal("unexpected exit") }))
	require.NoError(t, err)
	kctx, err := parser.Parse(args)
	require.NoError(t, err)

	res := &cliRun{}
	g := &Global{
		Context: context.Background(),
		Logger:  cli.NewLogger(&res.logs),
		Stdout:  &res.stdout,
	}
	res.err = kctx.Run(g, &cli)
	return res
}

func helloSite(t *testing.T) *testutil.SiteFixture {
	t.Helper()
	return testutil.NewSite(t).
		WithSettings(map[string]any{}).
		WithPage("page-data", "home.json", map[string]any{"loc": "/", "tpl": "home.html", "data": map[string]any{"name": "World"}}).
		WithTemplate("tpl", "home.html", "Hello <% name %>")
}

func TestTestCommand(t *testing.T) {
	res := runCLI(t, "test")
	require.NoError(t, res.err)
	assert.Equal(t, "Hello world!\n", res.stdout.String())
}

func TestNoCommand(t *testing.T) {
	for _, args := range [][]string{{}, {"deploy"}} {
		res := runCLI(t, args...)
		require.NoError(t, res.err)
		assert.Contains(t, res.logs.String(), "No command line argument passed.")
		assert.Empty(t, res.stdout.String())
	}
}

func TestBuildCommand(t *testing.T) {
	site := helloSite(t)
	res := runCLI(t, "build", "--root", site.Root)
	require.NoError(t, res.err)
	site.Files().AssertFileEquals("build/index.html", "Hello World")
	assert.Contains(t, res.logs.String(), "Build succeeded")
}

func TestBuildCommand_SettingsFlag(t *testing.T) {
	site := helloSite(t).WithFile("alt.json", `{"buildDir":"out"}`)
	res := runCLI(t, "--settings", "alt.json", "build", "--root", site.Root)
	require.NoError(t, res.err)
	site.Files().AssertFileEquals("out/index.html", "Hello World")
}

func TestBuildCommand_SettingsFromEnvironment(t *testing.T) {
	site := helloSite(t).WithFile("env.json", `{"buildDir":"from-env"}`)
	t.Setenv("TOPSOIL_SETTINGS", "env.json")
	res := runCLI(t, "build", "--root", site.Root)
	require.NoError(t, res.err)
	site.Files().AssertFileExists("from-env/index.html")
}

func TestBuildCommand_Artifacts(t *testing.T) {
	site := helloSite(t)
	out := t.TempDir()
	metricsFile := filepath.Join(out, "topsoil.prom")
	reportFile := filepath.Join(out, "report.json")
	historyDB := filepath.Join(out, "history.db")

	res := runCLI(t, "build", "--root", site.Root,
		"--metrics-file", metricsFile, "--report-file", reportFile, "--history-db", historyDB)
	require.NoError(t, res.err)

	prom, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(prom), "topsoil_pages_written_total 1")

	report, err := os.ReadFile(reportFile)
	require.NoError(t, err)
	assert.Contains(t, string(report), `"outcome": "success"`)

	list := runCLI(t, "history", "--history-db", historyDB)
	require.NoError(t, list.err)
	assert.Contains(t, list.stdout.String(), "succeeded")
}

func TestBuildCommand_FailureReturnsError(t *testing.T) {
	site := testutil.NewSite(t).
		WithPage("page-data", "bad.json", map[string]any{"loc": "relative", "tpl": "t.html"}).
		WithTemplate("tpl", "t.html", "x")
	out := t.TempDir()

	res := runCLI(t, "build", "--root", site.Root, "--metrics-file", filepath.Join(out, "m.prom"))
	require.Error(t, res.err)
	require.ErrorIs(t, res.err, build.ErrOutput)

	prom, err := os.ReadFile(filepath.Join(out, "m.prom"))
	require.NoError(t, err)
	assert.Contains(t, string(prom), `topsoil_build_outcomes_total{outcome="failed"} 1`)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	cli := CLI{LogLevel: "warn", LogFormat: "json"}
	cli.NewLogger(&buf).Info("hidden")
	assert.Empty(t, buf.String())

	cli.Verbose = true
	cli.NewLogger(&buf).Debug("shown")
	assert.Contains(t, buf.String(), `"level":"DEBUG"`)
}

func TestGlobalDefaults(t *testing.T) {
	var g *Global
	assert.NotNil(t, g.context())
	assert.Equal(t, slog.Default(), g.logger())
	assert.Equal(t, os.Stdout, g.stdout())
}
