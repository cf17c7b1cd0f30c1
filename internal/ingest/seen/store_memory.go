package seen

import (
	"context"
	"sync"
	"time"
)

// InMemoryStore keeps seen event ids in a map with lazy expiry. Suitable for
// a single-process deployment and for tests.
type InMemoryStore struct {
	mu   sync.Mutex
	ttl  time.Duration
	seen map[string]time.Time
}

// NewMemory returns a memory-backed seen store. A non-positive ttl means
// entries never expire.
func NewMemory(ttl time.Duration) *InMemoryStore {
	return &InMemoryStore{ttl: ttl, seen: make(map[string]time.Time)}
}

func (s *InMemoryStore) MarkSeen(_ context.Context, eventID string) (bool, error) {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	if expiry, exists := s.seen[eventID]; exists {
		if s.ttl <= 0 || now.Before(expiry) {
			return true, nil
		}
	}
	s.seen[eventID] = now.Add(s.ttl)

	// Lazy sweep keeps the map bounded without a background goroutine.
	if s.ttl > 0 && len(s.seen)%1024 == 0 {
		for id, expiry := range s.seen {
			if now.After(expiry) {
				delete(s.seen, id)
			}
		}
	}
	return false, nil
}
