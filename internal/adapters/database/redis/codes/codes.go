package codes

import (
	"context"
	"errors"
	"fmt"
	"strings"
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

// Code is a pending sign-up confirmation. CodeContext holds the identity id
// the code confirms.
type Code struct {
	Code        string
	CodeContext string
}

// Get returns an empty Code when nothing is pending for the email.
func (s *Storage) Get(ctx context.Context, email string) (Code, error) {
	codeData, err := s.redis.Get(ctx, email).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Code{}, nil
		}
		return Code{}, err
	}
	code, codeContext, _ := strings.Cut(codeData, ":")
	return Code{
		Code:        code,
		CodeContext: codeContext,
	}, nil
}

func (s *Storage) Set(ctx context.Context, email string, code string, codeContext string, expiration time.Duration) error {
	return s.redis.Set(ctx, email, fmt.Sprintf("%s:%s", code, codeContext), expiration).Err()
}

func (s *Storage) Clear(ctx context.Context, email string) error {
	return s.redis.Del(ctx, email).Err()
}
