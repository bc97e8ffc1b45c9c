package build

import (
	"context"
	"errors"
	"fmt"
	"time"

	"git.home.luguber.info/inful/topsoil/internal/logfields"
	"git.home.luguber.info/inful/topsoil/internal/metrics"
)

// StageName is a strongly-typed identifier for a build stage.
type StageName string

// Canonical stage names, in execution order.
const (
	StageLoadSettings    StageName = "load_settings"
	StageLoadPageData    StageName = "load_page_data"
	StageLoadTemplates   StageName = "load_templates"
	StageEnsureBuildRoot StageName = "ensure_build_root"
	StageRenderPages     StageName = "render_pages"
)

// Stage is a discrete unit of work in the build.
type Stage func(ctx context.Context, bs *buildState) error

// StageDef pairs a stage name with its executing function.
type StageDef struct {
	Name StageName
	Fn   Stage
}

// StageErrorKind enumerates structured stage error categories.
type StageErrorKind string

const (
	StageErrorFatal    StageErrorKind = "fatal"    // Build must abort.
	StageErrorCanceled StageErrorKind = "canceled" // Context cancellation.
)

// StageError is a structured error carrying the failing stage and cause.
type StageError struct {
	Kind  StageErrorKind
	Stage StageName
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("%s stage %s: %v", e.Kind, e.Stage, e.Err) }
func (e *StageError) Unwrap() error { return e.Err }

func newStageError(stage StageName, err error) *StageError {
	kind := StageErrorFatal
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		kind = StageErrorCanceled
	}
	return &StageError{Kind: kind, Stage: stage, Err: err}
}

func defaultStages() []StageDef {
	return []StageDef{
		{StageLoadSettings, stageLoadSettings},
		{StageLoadPageData, stageLoadPageData},
		{StageLoadTemplates, stageLoadTemplates},
		{StageEnsureBuildRoot, stageEnsureBuildRoot},
		{StageRenderPages, stageRenderPages},
	}
}

// runStages executes stages in order, recording timing and stopping on the
// first error. Cancellation is checked before every stage.
func runStages(ctx context.Context, bs *buildState, stages []StageDef) error {
	for _, st := range stages {
		if err := ctx.Err(); err != nil {
			se := newStageError(st.Name, err)
			bs.recordStage(st.Name, 0, se)
			return se
		}

		bs.logger.Debug("Stage started", logfields.Stage(string(st.Name)))
		t0 := time.Now()
		err := st.Fn(ctx, bs)
		dur := time.Since(t0)

		if err != nil {
			var se *StageError
			if !errors.As(err, &se) {
				se = newStageError(st.Name, err)
			}
			bs.recordStage(st.Name, dur, se)
			return se
		}
		bs.recordStage(st.Name, dur, nil)
		bs.logger.Debug("Stage finished",
			logfields.Stage(string(st.Name)),
			logfields.DurationMS(float64(dur.Microseconds())/1000))
	}
	return nil
}

func (bs *buildState) recordStage(name StageName, dur time.Duration, se *StageError) {
	result := metrics.ResultSuccess
	if se != nil {
		result = metrics.ResultFatal
		if se.Kind == StageErrorCanceled {
			result = metrics.ResultCanceled
		}
	}
	bs.report.recordStage(name, dur, result)
	bs.recorder.ObserveStageDuration(string(name), dur)
	bs.recorder.IncStageResult(string(name), result)
}
