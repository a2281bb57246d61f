package cache

import (
	"context"
	"testing"

	"interest-match/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedis_NilIsNoop(t *testing.T) {
	var r *Redis
	ctx := context.Background()

	var out []string
	hit, err := r.GetJSON(ctx, "k", &out)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.NoError(t, r.SetJSON(ctx, "k", []string{"v"}))
	assert.NoError(t, r.Delete(ctx, "k"))
	assert.Error(t, r.Ping(ctx))
	assert.NoError(t, r.Close())
}

func TestNewRedis_DisabledBypassesCache(t *testing.T) {
	r := NewRedis(context.Background(), config.RedisConfig{Enabled: false}, nil)
	require.NotNil(t, r)

	var out map[string]int
	hit, err := r.GetJSON(context.Background(), "k", &out)
	require.NoError(t, err)
	assert.False(t, hit)
}
