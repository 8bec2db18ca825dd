package oauthstates

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

type Storage struct {
	redis *redis.Client
}

func NewStorage(client *redis.Client) *Storage {
	return &Storage{
		redis: client,
	}
}

func (s *Storage) Set(ctx context.Context, state string, expiration time.Duration) error {
	return s.redis.Set(ctx, state, "1", expiration).Err()
}

// Consume deletes the state and reports whether it was still valid.
// A state can be consumed only once.
func (s *Storage) Consume(ctx context.Context, state string) (bool, error) {
	err := s.redis.GetDel(ctx, state).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
