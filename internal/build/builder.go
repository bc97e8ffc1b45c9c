package build

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"git.home.luguber.info/inful/topsoil/internal/config"
	"git.home.luguber.info/inful/topsoil/internal/history"
	"git.home.luguber.info/inful/topsoil/internal/logfields"
	"git.home.luguber.info/inful/topsoil/internal/metrics"
	"git.home.luguber.info/inful/topsoil/internal/output"
	"git.home.luguber.info/inful/topsoil/internal/pagedata"
	"git.home.luguber.info/inful/topsoil/internal/templates"
)

// Options configures a Builder. Zero values select defaults.
type Options struct {
	// SettingsPath locates the settings file (default settings.json).
	SettingsPath string
	// Root is the site directory relative paths resolve against (default:
	// the working directory).
	Root     string
	Logger   *slog.Logger
	Recorder metrics.Recorder
	// History, when set, receives one event per build step.
	History history.Store
}

// Builder runs the build pipeline.
type Builder struct {
	opts     Options
	logger   *slog.Logger
	recorder metrics.Recorder
	stages   []StageDef
}

// New constructs a Builder.
func New(opts Options) *Builder {
	if opts.SettingsPath == "" {
		opts.SettingsPath = config.DefaultSettingsFile
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	var recorder metrics.Recorder = metrics.NoopRecorder{}
	if opts.Recorder != nil {
		recorder = opts.Recorder
	}
	return &Builder{opts: opts, logger: logger, recorder: recorder, stages: defaultStages()}
}

// buildState is the mutable state threaded through the stages of one run.
type buildState struct {
	model        *Model
	report       *Report
	settingsPath string
	root         string
	materializer *output.Materializer
	logger       *slog.Logger
	recorder     metrics.Recorder
	history      history.Store
}

// Run executes one build. The returned model holds whatever was loaded
// before the build ended; the report is always non-nil.
func (b *Builder) Run(ctx context.Context) (*Model, *Report, error) {
	report := newReport()
	logger := b.logger.With(logfields.BuildID(report.BuildID))
	bs := &buildState{
		model:        &Model{},
		report:       report,
		settingsPath: b.resolve(b.opts.SettingsPath),
		root:         b.opts.Root,
		materializer: output.NewMaterializer(b.opts.Root, logger),
		logger:       logger,
		recorder:     b.recorder,
		history:      b.opts.History,
	}

	logger.Info("Build started", logfields.Path(bs.settingsPath))
	bs.recordHistory(ctx, func() (history.Event, error) {
		return history.NewBuildStarted(report.BuildID, bs.settingsPath, b.opts.Root)
	})

	err := runStages(ctx, bs, b.stages)
	report.finish(err)
	b.recorder.ObserveBuildDuration(report.Duration())

	if err != nil {
		stage := ""
		var se *StageError
		if errors.As(err, &se) {
			stage = string(se.Stage)
		}
		b.recorder.IncBuildOutcome(metrics.BuildOutcomeLabel(report.Outcome))
		bs.recordHistory(context.WithoutCancel(ctx), func() (history.Event, error) {
			return history.NewBuildFailed(report.BuildID, stage, err, report.Outcome == OutcomeCanceled)
		})
		return bs.model, report, err
	}

	b.recorder.IncBuildOutcome(metrics.BuildOutcomeSuccess)
	bs.recordHistory(ctx, func() (history.Event, error) {
		return history.NewBuildCompleted(report.BuildID, report.PagesWritten, report.DirectoriesCreated, report.Duration())
	})
	logger.Info("Build succeeded", slog.Any("model", bs.model), slog.String("report", report.Summary()))
	return bs.model, report, nil
}

func (b *Builder) resolve(p string) string {
	return resolvePath(b.opts.Root, p)
}

func resolvePath(root, p string) string {
	if root == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}

// recordHistory appends an event when a history store is configured.
// Failures are logged and never fail the build.
func (bs *buildState) recordHistory(ctx context.Context, mk func() (history.Event, error)) {
	if bs.history == nil {
		return
	}
	e, err := mk()
	if err == nil {
		err = history.Record(ctx, bs.history, e)
	}
	if err != nil {
		bs.logger.Warn("Failed to record build history", logfields.Error(err))
	}
}

func stageLoadSettings(_ context.Context, bs *buildState) error {
	settings, err := config.LoadSettings(bs.settingsPath, bs.logger)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSettings, err)
	}
	bs.model.Settings = settings
	bs.logger.Info("Settings loaded", slog.Any("settings", settings))
	return nil
}

func stageLoadPageData(ctx context.Context, bs *buildState) error {
	store, err := pagedata.LoadStore(ctx, resolvePath(bs.root, bs.model.Settings.PageDataDir), bs.logger)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPageData, err)
	}
	bs.model.PageData = store
	return nil
}

func stageLoadTemplates(ctx context.Context, bs *buildState) error {
	store, err := templates.LoadStore(ctx, resolvePath(bs.root, bs.model.Settings.TemplatePath()), bs.logger)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTemplates, err)
	}
	bs.model.Templates = store
	return nil
}

func stageEnsureBuildRoot(ctx context.Context, bs *buildState) error {
	created, err := bs.materializer.Ensure(ctx, bs.model.Settings.BuildDir)
	bs.addCreated(created)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrOutput, err)
	}
	return nil
}

func (bs *buildState) addCreated(created []string) {
	bs.report.DirectoriesCreated += len(created)
	bs.recorder.AddDirectoriesCreated(len(created))
}
