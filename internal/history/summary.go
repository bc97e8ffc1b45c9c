package history

import (
	"context"
	"encoding/json"
	"sort"
	"time"
)

// Build statuses reported by Summary.
const (
	StatusRunning   = "running"
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
	StatusCanceled  = "canceled"
)

// Summary is a read model of one build reconstructed from its events.
type Summary struct {
	BuildID      string     `json:"build_id"`
	Status       string     `json:"status"`
	StartedAt    time.Time  `json:"started_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	Pages        int        `json:"pages"`
	Directories  int        `json:"directories"`
	Unresolved   int        `json:"unresolved"`
	ErrorStage   string     `json:"error_stage,omitempty"`
	ErrorMessage string     `json:"error_message,omitempty"`
}

// Summarize folds events into per-build summaries, newest build first.
// Events of one build must be in append order.
func Summarize(events []Event) []*Summary {
	builds := make(map[string]*Summary)
	var order []*Summary
	for _, event := range events {
		id := event.BuildID()
		if id == "" {
			continue
		}
		s, ok := builds[id]
		if !ok {
			s = &Summary{BuildID: id, Status: StatusRunning, StartedAt: event.Timestamp()}
			builds[id] = s
			order = append(order, s)
		}
		apply(s, event)
	}
	sort.SliceStable(order, func(i, j int) bool {
		return order[i].StartedAt.After(order[j].StartedAt)
	})
	return order
}

func apply(s *Summary, event Event) {
	switch event.Type() {
	case TypeBuildStarted:
		s.StartedAt = event.Timestamp()
	case TypePageWritten:
		s.Pages++
		var payload struct {
			Unresolved []string `json:"unresolved"`
		}
		if err := json.Unmarshal(event.Payload(), &payload); err == nil {
			s.Unresolved += len(payload.Unresolved)
		}
	case TypeBuildCompleted:
		at := event.Timestamp()
		s.CompletedAt = &at
		s.Status = StatusSucceeded
		var payload struct {
			Directories int `json:"directories"`
		}
		if err := json.Unmarshal(event.Payload(), &payload); err == nil {
			s.Directories = payload.Directories
		}
	case TypeBuildFailed:
		at := event.Timestamp()
		s.CompletedAt = &at
		s.Status = StatusFailed
		var payload struct {
			Stage    string `json:"stage"`
			Error    string `json:"error"`
			Canceled bool   `json:"canceled"`
		}
		if err := json.Unmarshal(event.Payload(), &payload); err == nil {
			s.ErrorStage = payload.Stage
			s.ErrorMessage = payload.Error
			if payload.Canceled {
				s.Status = StatusCanceled
			}
		}
	}
}

// Recent returns summaries of the newest builds recorded since the given
// time, at most limit of them (all when limit <= 0).
func Recent(ctx context.Context, store Store, since time.Time, limit int) ([]*Summary, error) {
	events, err := store.GetRange(ctx, since, time.Now().Add(time.Minute))
	if err != nil {
		return nil, err
	}
	summaries := Summarize(events)
	if limit > 0 && len(summaries) > limit {
		summaries = summaries[:limit]
	}
	return summaries, nil
}
