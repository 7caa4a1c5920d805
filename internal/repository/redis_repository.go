package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type redisSelectionStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisSelectionStore keeps selections in Redis. A zero ttl keeps them
// forever.
func NewRedisSelectionStore(rdb *redis.Client, ttl time.Duration) SelectionStore {
	return &redisSelectionStore{rdb: rdb, ttl: ttl}
}

func (s *redisSelectionStore) selectedKey(userID string) string {
	return fmt.Sprintf("user:%s:selected_wedding", userID)
}

func (s *redisSelectionStore) GetSelected(ctx context.Context, userID string) (string, error) {
	id, err := s.rdb.Get(ctx, s.selectedKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("could not read selected wedding: %w", err)
	}
	return id, nil
}

func (s *redisSelectionStore) SetSelected(ctx context.Context, userID, weddingID string) error {
	if err := s.rdb.Set(ctx, s.selectedKey(userID), weddingID, s.ttl).Err(); err != nil {
		return fmt.Errorf("could not store selected wedding: %w", err)
	}
	return nil
}
