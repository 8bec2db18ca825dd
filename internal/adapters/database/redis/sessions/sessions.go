package sessions

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Storage maps refresh tokens to identity ids.
type Storage struct {
	redis *redis.Client
}

func NewStorage(client *redis.Client) *Storage {
	return &Storage{
		redis: client,
	}
}

// Get returns "" when the token is unknown or expired.
func (s *Storage) Get(ctx context.Context, refreshToken string) (string, error) {
	identityID, err := s.redis.Get(ctx, refreshToken).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return identityID, err
}

func (s *Storage) Set(ctx context.Context, refreshToken string, identityID string, expiration time.Duration) error {
	return s.redis.Set(ctx, refreshToken, identityID, expiration).Err()
}

func (s *Storage) Clear(ctx context.Context, refreshToken string) error {
	return s.redis.Del(ctx, refreshToken).Err()
}
