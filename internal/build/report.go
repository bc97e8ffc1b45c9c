package build

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/natefinch/atomic"

	terrors "git.home.luguber.info/inful/topsoil/internal/errors"
	"git.home.luguber.info/inful/topsoil/internal/metrics"
)

// Outcome is the typed enumeration of final build result states.
type Outcome string

const (
	OutcomeSuccess  Outcome = "success"
	OutcomeFailed   Outcome = "failed"
	OutcomeCanceled Outcome = "canceled"
)

// StageResult is the timing and result of one executed stage.
type StageResult struct {
	Duration time.Duration
	Result   metrics.ResultLabel
}

// Report captures what one build did.
type Report struct {
	BuildID            string
	Start              time.Time
	End                time.Time
	Stages             map[StageName]StageResult
	PagesWritten       int
	DirectoriesCreated int
	// Unresolved maps page-data file names to tokens that rendered empty.
	Unresolved map[string][]string
	Outcome    Outcome
	Err        error
}

func newReport() *Report {
	return &Report{
		BuildID:    uuid.NewString(),
		Start:      time.Now(),
		Stages:     make(map[StageName]StageResult),
		Unresolved: make(map[string][]string),
	}
}

func (r *Report) recordStage(name StageName, dur time.Duration, result metrics.ResultLabel) {
	r.Stages[name] = StageResult{Duration: dur, Result: result}
}

// finish stamps the end time and derives the outcome from err.
func (r *Report) finish(err error) {
	r.End = time.Now()
	r.Err = err
	var se *StageError
	switch {
	case err == nil:
		r.Outcome = OutcomeSuccess
	case errors.As(err, &se) && se.Kind == StageErrorCanceled:
		r.Outcome = OutcomeCanceled
	default:
		r.Outcome = OutcomeFailed
	}
}

// Duration is the wall time of the build.
func (r *Report) Duration() time.Duration { return r.End.Sub(r.Start) }

// Summary returns a single-line human readable description of the build.
func (r *Report) Summary() string {
	return fmt.Sprintf("build=%s pages=%d directories=%d unresolved=%d stages=%d duration=%s outcome=%s",
		r.BuildID, r.PagesWritten, r.DirectoriesCreated, len(r.Unresolved), len(r.Stages),
		r.Duration().Truncate(time.Millisecond), r.Outcome)
}

type stageJSON struct {
	DurationMS int64  `json:"duration_ms"`
	Result     string `json:"result"`
}

type reportJSON struct {
	BuildID            string               `json:"build_id"`
	Start              time.Time            `json:"start"`
	End                time.Time            `json:"end"`
	DurationMS         int64                `json:"duration_ms"`
	Stages             map[string]stageJSON `json:"stages"`
	PagesWritten       int                  `json:"pages_written"`
	DirectoriesCreated int                  `json:"directories_created"`
	Unresolved         map[string][]string  `json:"unresolved,omitempty"`
	Outcome            Outcome              `json:"outcome"`
	Error              string               `json:"error,omitempty"`
}

// MarshalJSON renders durations in milliseconds and the error as a string.
func (r *Report) MarshalJSON() ([]byte, error) {
	out := reportJSON{
		BuildID:            r.BuildID,
		Start:              r.Start,
		End:                r.End,
		DurationMS:         r.Duration().Milliseconds(),
		Stages:             make(map[string]stageJSON, len(r.Stages)),
		PagesWritten:       r.PagesWritten,
		DirectoriesCreated: r.DirectoriesCreated,
		Outcome:            r.Outcome,
	}
	for name, st := range r.Stages {
		out.Stages[string(name)] = stageJSON{DurationMS: st.Duration.Milliseconds(), Result: string(st.Result)}
	}
	if len(r.Unresolved) > 0 {
		out.Unresolved = r.Unresolved
	}
	if r.Err != nil {
		out.Error = r.Err.Error()
	}
	return json.Marshal(out)
}

// Persist writes the report as indented JSON to path, replacing any
// previous report atomically.
func (r *Report) Persist(path string) error {
	raw, err := json.Marshal(r)
	if err != nil {
		return terrors.InternalError("marshal build report", err)
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return terrors.InternalError("indent build report", err)
	}
	buf.WriteByte('\n')
	if err := atomic.WriteFile(path, &buf); err != nil {
		return terrors.WriteFailed(path, err)
	}
	return os.Chmod(path, 0o644)
}
