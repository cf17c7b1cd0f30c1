// Package models defines the ingestion event envelope delivered by the queue.
package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/uigs/graph-engine/pkg/platform/sentinel"
)

// SourceType identifies where an identity signal originated.
type SourceType string

const (
	SourceTypeVC     SourceType = "VC"
	SourceTypeOIDC   SourceType = "OIDC"
	SourceTypeManual SourceType = "MANUAL"
)

// Event is the queue message envelope published by the ingestion service.
// Payload stays raw so credential subjects keep their document key order.
type Event struct {
	EventID    string          `json:"event_id"`
	UserID     string          `json:"user_id"`
	SourceType SourceType      `json:"source_type"`
	Payload    json.RawMessage `json:"payload"`
	Timestamp  time.Time       `json:"timestamp"`
}

// ParseEvent decodes a queue message body. A body that is not valid JSON or
// is missing its identifiers is malformed; redelivery will not fix it.
func ParseEvent(body []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(body, &e); err != nil {
		return Event{}, fmt.Errorf("parse event: %v: %w", err, sentinel.ErrMalformed)
	}
	if e.EventID == "" || e.UserID == "" {
		return Event{}, fmt.Errorf("parse event: missing event_id or user_id: %w", sentinel.ErrMalformed)
	}
	return e, nil
}
