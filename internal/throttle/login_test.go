package throttle

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newThrottle(t *testing.T, max int, window time.Duration) (*LoginThrottle, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewLoginThrottle(client, max, window), mr
}

func TestLoginThrottle_LocksAfterMaxAttempts(t *testing.T) {
	ctx := context.Background()
	th, mr := newThrottle(t, 3, time.Minute)

	for i := 0; i < 3; i++ {
		ok, err := th.Reserve(ctx, "a@b.com")
		require.NoError(t, err)
		assert.True(t, ok, "attempt %d", i)
	}

	ok, err := th.Reserve(ctx, " A@B.com ")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, time.Minute, mr.TTL("login:attempts:a@b.com"))

	mr.FastForward(time.Minute + time.Second)
	ok, err = th.Reserve(ctx, "a@b.com")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLoginThrottle_ConcurrentAttempts(t *testing.T) {
	th, _ := newThrottle(t, 5, time.Minute)

	var allowed atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := th.Reserve(context.Background(), "a@b.com")
			if assert.NoError(t, err) && ok {
				allowed.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(5), allowed.Load())
}

func TestLoginThrottle_Reset(t *testing.T) {
	ctx := context.Background()
	th, mr := newThrottle(t, 1, time.Minute)

	ok, _ := th.Reserve(ctx, "a@b.com")
	assert.True(t, ok)
	ok, _ = th.Reserve(ctx, "a@b.com")
	assert.False(t, ok)

	require.NoError(t, th.Reset(ctx, "a@b.com"))
	assert.False(t, mr.Exists("login:attempts:a@b.com"))
	ok, _ = th.Reserve(ctx, "a@b.com")
	assert.True(t, ok)
}

func TestLoginThrottle_RedisDownFailsOpen(t *testing.T) {
	th, mr := newThrottle(t, 1, time.Minute)
	mr.Close()

	ok, err := th.Reserve(context.Background(), "a@b.com")
	assert.Error(t, err)
	assert.True(t, ok)
}

func TestLoginThrottle_Disabled(t *testing.T) {
	th, mr := newThrottle(t, 0, time.Minute)
	ok, err := th.Reserve(context.Background(), "a@b.com")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.False(t, mr.Exists("login:attempts:a@b.com"))
}
