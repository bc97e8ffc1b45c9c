package history

import (
	"encoding/json"
	"time"

	terrors "git.home.luguber.info/inful/topsoil/internal/errors"
)

// BuildStarted is emitted when a build begins.
type BuildStarted struct {
	BaseEvent
	SettingsPath string `json:"settings_path"`
	Root         string `json:"root"`
}

// NewBuildStarted creates a BuildStarted event.
func NewBuildStarted(buildID, settingsPath, root string) (*BuildStarted, error) {
	e := &BuildStarted{SettingsPath: settingsPath, Root: root}
	return e, e.seal(buildID, TypeBuildStarted, e)
}

// PageWritten is emitted after a page's index.html is written.
type PageWritten struct {
	BaseEvent
	File       string   `json:"file"`
	Loc        string   `json:"loc"`
	Template   string   `json:"template"`
	Path       string   `json:"path"`
	Unresolved []string `json:"unresolved,omitempty"`
}

// NewPageWritten creates a PageWritten event.
func NewPageWritten(buildID, file, loc, template, path string, unresolved []string) (*PageWritten, error) {
	e := &PageWritten{File: file, Loc: loc, Template: template, Path: path, Unresolved: unresolved}
	return e, e.seal(buildID, TypePageWritten, e)
}

// BuildCompleted is emitted when every page was written.
type BuildCompleted struct {
	BaseEvent
	Pages       int   `json:"pages"`
	Directories int   `json:"directories"`
	DurationMS  int64 `json:"duration_ms"`
}

// NewBuildCompleted creates a BuildCompleted event.
func NewBuildCompleted(buildID string, pages, directories int, duration time.Duration) (*BuildCompleted, error) {
	e := &BuildCompleted{Pages: pages, Directories: directories, DurationMS: duration.Milliseconds()}
	return e, e.seal(buildID, TypeBuildCompleted, e)
}

// BuildFailed is emitted when a stage fails or the build is canceled.
type BuildFailed struct {
	BaseEvent
	Stage    string `json:"stage"`
	Error    string `json:"error"`
	Canceled bool   `json:"canceled,omitempty"`
}

// NewBuildFailed creates a BuildFailed event.
func NewBuildFailed(buildID, stage string, cause error, canceled bool) (*BuildFailed, error) {
	e := &BuildFailed{Stage: stage, Canceled: canceled}
	if cause != nil {
		e.Error = cause.Error()
	}
	return e, e.seal(buildID, TypeBuildFailed, e)
}

func (e *BaseEvent) seal(buildID, eventType string, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return terrors.InternalError("failed to marshal "+eventType+" payload", err).
			WithContext("build_id", buildID)
	}
	e.EventBuildID = buildID
	e.EventType = eventType
	e.EventTimestamp = time.Now()
	e.EventPayload = payload
	return nil
}
