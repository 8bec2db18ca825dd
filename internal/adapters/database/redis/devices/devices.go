package devices

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/Badsnus/hakkon-clubs/internal/domain/dto"
	"github.com/redis/go-redis/v9"
)

// Storage is the device-local persistence of the current session.
type Storage struct {
	redis *redis.Client
}

func NewStorage(client *redis.Client) *Storage {
	return &Storage{
		redis: client,
	}
}

// Get returns nil, nil when the device has no saved session.
func (s *Storage) Get(ctx context.Context, deviceID string) (*dto.DeviceSession, error) {
	data, err := s.redis.Get(ctx, deviceID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var session dto.DeviceSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *Storage) Set(ctx context.Context, deviceID string, session dto.DeviceSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, deviceID, data, 0).Err()
}

func (s *Storage) Clear(ctx context.Context, deviceID string) error {
	return s.redis.Del(ctx, deviceID).Err()
}
