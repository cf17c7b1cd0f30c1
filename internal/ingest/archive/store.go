// Package archive keeps a copy of every processed ingestion event for
// traceability. The graph references events by id; the archive is where that
// id resolves to the raw payload.
package archive

import (
	"context"

	"github.com/uigs/graph-engine/internal/ingest/models"
)

// Store persists processed events.
type Store interface {
	// Append records one event. Appending the same event id twice is not
	// an error; the first record wins.
	Append(ctx context.Context, event models.Event) error

	// GetByID returns the archived event, or sentinel.ErrNotFound.
	GetByID(ctx context.Context, eventID string) (models.Event, error)

	// ListByUser returns the most recent events for a user, newest first.
	ListByUser(ctx context.Context, userID string, limit int) ([]models.Event, error)
}
