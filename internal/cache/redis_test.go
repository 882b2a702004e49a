package cache

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wishlist/api/internal/config"
)

func TestNewRedisClient(t *testing.T) {
	srv := miniredis.RunT(t)

	client, err := NewRedisClient(context.Background(), config.RedisConfig{Addr: srv.Addr()}, zerolog.Nop())
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, Ping(client)(context.Background()))

	srv.Close()
	assert.ErrorContains(t, Ping(client)(context.Background()), "redis ping")
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	srv := miniredis.RunT(t)
	addr := srv.Addr()
	srv.Close()

	_, err := NewRedisClient(context.Background(), config.RedisConfig{Addr: addr}, zerolog.Nop())
	assert.Error(t, err)
}
