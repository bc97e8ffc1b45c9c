package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ Recorder = NoopRecorder{}
var _ Recorder = (*PrometheusRecorder)(nil)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveStageDuration("render_pages", 150*time.Millisecond)
	pr.ObserveBuildDuration(500 * time.Millisecond)
	pr.IncStageResult("render_pages", ResultSuccess)
	pr.IncBuildOutcome(BuildOutcomeSuccess)
	pr.IncPagesWritten()
	pr.IncPagesWritten()
	pr.AddDirectoriesCreated(3)
	pr.AddDirectoriesCreated(0)
	pr.IncUnresolvedTokens("home.html", 2)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	assert.Len(t, mfs, 7)

	path := filepath.Join(t.TempDir(), "topsoil.prom")
	require.NoError(t, pr.WriteTextfile(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "topsoil_pages_written_total 2")
	assert.Contains(t, text, "topsoil_directories_created_total 3")
	assert.Contains(t, text, `topsoil_build_outcomes_total{outcome="success"} 1`)
	assert.Contains(t, text, `topsoil_stage_results_total{result="success",stage="render_pages"} 1`)
	assert.Contains(t, text, `topsoil_unresolved_tokens_total{template="home.html"} 2`)
	assert.Contains(t, text, "topsoil_build_duration_seconds_count 1")
}

func TestPrometheusRecorder_NilSafe(t *testing.T) {
	var pr *PrometheusRecorder
	assert.NotPanics(t, func() {
		pr.IncPagesWritten()
		pr.IncBuildOutcome(BuildOutcomeFailed)
		pr.ObserveStageDuration("load_settings", time.Second)
	})
}

func TestPrometheusRecorder_WriteTextfile(t *testing.T) {
	pr := NewPrometheusRecorder(nil)
	pr.IncBuildOutcome(BuildOutcomeFailed)

	path := filepath.Join(t.TempDir(), "topsoil.prom")
	require.NoError(t, pr.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `topsoil_build_outcomes_total{outcome="failed"} 1`)
}
