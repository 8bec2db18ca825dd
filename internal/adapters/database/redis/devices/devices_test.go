package devices

import (
	"context"
	"testing"
	"time"

	"github.com/Badsnus/hakkon-clubs/internal/domain/dto"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeviceSessionRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	storage := NewStorage(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	ctx := context.Background()

	saved, err := storage.Get(ctx, "laptop")
	require.NoError(t, err)
	assert.Nil(t, saved)

	session := dto.DeviceSession{
		RefreshToken: "refresh-1",
		Identity:     dto.Identity{ID: "identity-1", Email: "fan@example.com", Provider: dto.ProviderEmail, Confirmed: true},
		SavedAt:      time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, storage.Set(ctx, "laptop", session))

	saved, err = storage.Get(ctx, "laptop")
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, session, *saved)

	require.NoError(t, storage.Clear(ctx, "laptop"))
	saved, err = storage.Get(ctx, "laptop")
	require.NoError(t, err)
	assert.Nil(t, saved)
}

func TestCorruptDeviceSession(t *testing.T) {
	mr := miniredis.RunT(t)
	storage := NewStorage(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	require.NoError(t, mr.Set("laptop", "not json"))

	_, err := storage.Get(context.Background(), "laptop")

	assert.Error(t, err)
}
