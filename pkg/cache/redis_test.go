package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type card struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

func newTestCache(t *testing.T, opts ...Option) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c, err := New(context.Background(), append([]Option{WithAddress(mr.Addr())}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c, mr
}

func TestCache_SetGet(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t, WithPrefix("studio:"))

	require.NoError(t, c.Set(ctx, "dash:query:1:abc", card{Name: "Barre", Score: 68}, time.Minute))
	assert.True(t, mr.Exists("studio:dash:query:1:abc"))
	assert.Equal(t, time.Minute, mr.TTL("studio:dash:query:1:abc"))

	var got card
	require.NoError(t, c.Get(ctx, "dash:query:1:abc", &got))
	assert.Equal(t, card{Name: "Barre", Score: 68}, got)

	mr.FastForward(2 * time.Minute)
	err := c.Get(ctx, "dash:query:1:abc", &got)
	assert.True(t, errors.Is(err, redis.Nil))
}

func TestCache_GetMiss(t *testing.T) {
	c, _ := newTestCache(t)

	var got card
	err := c.Get(context.Background(), "missing", &got)
	assert.ErrorIs(t, err, redis.Nil)
}

func TestCache_GetCorruptValue(t *testing.T) {
	c, mr := newTestCache(t)
	require.NoError(t, mr.Set("broken", "{not json"))

	var got card
	err := c.Get(context.Background(), "broken", &got)
	require.Error(t, err)
	assert.False(t, errors.Is(err, redis.Nil))
}

func TestCache_Delete(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)

	require.NoError(t, c.Set(ctx, "a", 1, 0))
	require.NoError(t, c.Set(ctx, "b", 2, 0))
	require.NoError(t, c.Delete(ctx, "a", "b"))
	require.NoError(t, c.Delete(ctx))
	assert.False(t, mr.Exists("a"))
	assert.False(t, mr.Exists("b"))
}

func TestCache_DeleteMatching(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t, WithPrefix("studio:"))

	for _, k := range []string{"dash:query:1:a", "dash:query:1:b", "dash:overview:1:c", "other"} {
		require.NoError(t, c.Set(ctx, k, k, 0))
	}

	n, err := c.DeleteMatching(ctx, "dash:*")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.True(t, mr.Exists("studio:other"))
	assert.False(t, mr.Exists("studio:dash:query:1:a"))
}

func TestNew_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := New(context.Background(), WithAddress(addr), WithDialTimeout(100*time.Millisecond))
	assert.ErrorContains(t, err, "ping redis")
}
