package sessions

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionLifecycle(t *testing.T) {
	mr := miniredis.RunT(t)
	storage := NewStorage(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	ctx := context.Background()

	identityID, err := storage.Get(ctx, "token")
	require.NoError(t, err)
	assert.Empty(t, identityID)

	require.NoError(t, storage.Set(ctx, "token", "identity-1", time.Hour))
	identityID, err = storage.Get(ctx, "token")
	require.NoError(t, err)
	assert.Equal(t, "identity-1", identityID)

	mr.FastForward(2 * time.Hour)
	identityID, err = storage.Get(ctx, "token")
	require.NoError(t, err)
	assert.Empty(t, identityID)

	require.NoError(t, storage.Set(ctx, "token", "identity-1", time.Hour))
	require.NoError(t, storage.Clear(ctx, "token"))
	assert.False(t, mr.Exists("token"))
}
