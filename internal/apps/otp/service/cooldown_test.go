package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisCooldown(t *testing.T) {
	mr, client := newTestRedis(t)
	cd := NewRedisCooldown(client, time.Minute, zap.NewNop())
	ctx := context.Background()
	owner := uuid.New()
	phone := "+919876543210"

	require.NoError(t, cd.Acquire(ctx, owner, phone))

	err := cd.Acquire(ctx, owner, phone)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIssueCooldown))

	var cdErr *CooldownError
	require.True(t, errors.As(err, &cdErr))
	assert.Greater(t, cdErr.RetryAfter, time.Duration(0))
	assert.LessOrEqual(t, cdErr.RetryAfter, time.Minute)

	// other pairs are independent
	assert.NoError(t, cd.Acquire(ctx, owner, "+15551234567"))
	assert.NoError(t, cd.Acquire(ctx, uuid.New(), phone))

	mr.FastForward(61 * time.Second)
	assert.NoError(t, cd.Acquire(ctx, owner, phone))
}

func TestRedisCooldown_Release(t *testing.T) {
	_, client := newTestRedis(t)
	cd := NewRedisCooldown(client, time.Minute, zap.NewNop())
	ctx := context.Background()
	owner := uuid.New()

	require.NoError(t, cd.Acquire(ctx, owner, "+919876543210"))
	cd.Release(ctx, owner, "+919876543210")
	assert.NoError(t, cd.Acquire(ctx, owner, "+919876543210"))
}

func TestRedisCooldown_FailsOpenWhenRedisDown(t *testing.T) {
	mr, client := newTestRedis(t)
	cd := NewRedisCooldown(client, time.Minute, zap.NewNop())
	mr.Close()

	assert.NoError(t, cd.Acquire(context.Background(), uuid.New(), "+919876543210"))
}

func TestNoCooldown(t *testing.T) {
	cd := NewNoCooldown()
	owner := uuid.New()
	for i := 0; i < 3; i++ {
		assert.NoError(t, cd.Acquire(context.Background(), owner, "+919876543210"))
	}
}
