package archive

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uigs/graph-engine/internal/ingest/models"
	"github.com/uigs/graph-engine/pkg/platform/sentinel"
)

// PostgresStore archives events in the ingestion_events table.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a Postgres-backed archive.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the archive table if missing.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	const ddl = `
		CREATE TABLE IF NOT EXISTS ingestion_events (
			event_id    TEXT PRIMARY KEY,
			user_id     TEXT NOT NULL,
			source_type TEXT NOT NULL,
			payload     JSONB NOT NULL,
			created_at  TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS ingestion_events_user_idx
			ON ingestion_events (user_id, created_at DESC);`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("ensure archive schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Append(ctx context.Context, event models.Event) error {
	const query = `
		INSERT INTO ingestion_events (event_id, user_id, source_type, payload, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (event_id) DO NOTHING`

	_, err := s.db.ExecContext(ctx, query,
		event.EventID,
		event.UserID,
		string(event.SourceType),
		[]byte(event.Payload),
		event.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("append event: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetByID(ctx context.Context, eventID string) (models.Event, error) {
	const query = `
		SELECT event_id, user_id, source_type, payload, created_at
		FROM ingestion_events
		WHERE event_id = $1`

	var event models.Event
	var sourceType string
	var payload []byte
	err := s.db.QueryRowContext(ctx, query, eventID).Scan(
		&event.EventID,
		&event.UserID,
		&sourceType,
		&payload,
		&event.Timestamp,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Event{}, fmt.Errorf("event %s: %w", eventID, sentinel.ErrNotFound)
	}
	if err != nil {
		return models.Event{}, fmt.Errorf("get event: %w", err)
	}
	event.SourceType = models.SourceType(sourceType)
	event.Payload = payload
	return event, nil
}

func (s *PostgresStore) ListByUser(ctx context.Context, userID string, limit int) ([]models.Event, error) {
	const query = `
		SELECT event_id, user_id, source_type, payload, created_at
		FROM ingestion_events
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var out []models.Event
	for rows.Next() {
		var event models.Event
		var sourceType string
		var payload []byte
		if err := rows.Scan(&event.EventID, &event.UserID, &sourceType, &payload, &event.Timestamp); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		event.SourceType = models.SourceType(sourceType)
		event.Payload = payload
		out = append(out, event)
	}
	return out, rows.Err()
}
