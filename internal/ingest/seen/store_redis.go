package seen

import (
	"context"
	"fmt"
	"time"

	platformredis "github.com/uigs/graph-engine/internal/platform/redis"
)

const keyPrefix = "graph-engine:seen:"

// RedisStore remembers processed event ids in Redis with a TTL, so the guard
// survives restarts and is shared across replicas.
type RedisStore struct {
	client *platformredis.Client
	ttl    time.Duration
}

// NewRedis returns a Redis-backed seen store.
func NewRedis(client *platformredis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) MarkSeen(ctx context.Context, eventID string) (bool, error) {
	// SET NX doubles as atomic check-and-mark across replicas.
	created, err := s.client.SetNX(ctx, keyPrefix+eventID, 1, s.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("mark seen: %w", err)
	}
	return !created, nil
}
