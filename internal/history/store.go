// Package history keeps an append-only log of builds in SQLite so earlier
// runs can be listed and inspected.
package history

import (
	"context"
	"time"
)

// Store persists and retrieves build events.
type Store interface {
	// Append adds a new event to the store.
	Append(ctx context.Context, buildID, eventType string, payload []byte, metadata map[string]string) error

	// GetByBuildID retrieves all events for a specific build, oldest first.
	GetByBuildID(ctx context.Context, buildID string) ([]Event, error)

	// GetRange retrieves events within a time range, oldest first.
	GetRange(ctx context.Context, start, end time.Time) ([]Event, error)

	Close() error
}

// Record appends a typed event.
func Record(ctx context.Context, store Store, e Event) error {
	return store.Append(ctx, e.BuildID(), e.Type(), e.Payload(), e.Metadata())
}
