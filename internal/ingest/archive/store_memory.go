package archive

import (
	"context"
	"fmt"
	"sync"

	"github.com/uigs/graph-engine/internal/ingest/models"
	"github.com/uigs/graph-engine/pkg/platform/sentinel"
)

// InMemoryStore keeps archived events in process memory. Tests and local
// runs only; production uses the Postgres store.
type InMemoryStore struct {
	mu     sync.RWMutex
	byID   map[string]models.Event
	byUser map[string][]string // user id -> event ids, append order
}

// NewMemory returns an empty in-memory archive.
func NewMemory() *InMemoryStore {
	return &InMemoryStore{
		byID:   make(map[string]models.Event),
		byUser: make(map[string][]string),
	}
}

func (s *InMemoryStore) Append(_ context.Context, event models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byID[event.EventID]; exists {
		return nil
	}
	s.byID[event.EventID] = event
	s.byUser[event.UserID] = append(s.byUser[event.UserID], event.EventID)
	return nil
}

func (s *InMemoryStore) GetByID(_ context.Context, eventID string) (models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	event, exists := s.byID[eventID]
	if !exists {
		return models.Event{}, fmt.Errorf("event %s: %w", eventID, sentinel.ErrNotFound)
	}
	return event, nil
}

func (s *InMemoryStore) ListByUser(_ context.Context, userID string, limit int) ([]models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := s.byUser[userID]
	var out []models.Event
	for i := len(ids) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		out = append(out, s.byID[ids[i]])
	}
	return out, nil
}
