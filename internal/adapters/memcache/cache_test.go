package memcache_test

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"review_analyzer/internal/adapters/memcache"
	"review_analyzer/internal/domain"
)

func TestCache_RoundTripAndCopy(t *testing.T) {
	c := memcache.New(clockwork.NewFakeClock())
	ctx := context.Background()

	want := domain.Sentiment{Positive: 0.7, Neutral: 0.3, Compound: 0.8}
	require.NoError(t, c.Set(ctx, "k", want, 60))

	var got domain.Sentiment
	ok, err := c.Get(ctx, "k", &got)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestCache_Expiry(t *testing.T) {
	clock := clockwork.NewFakeClock()
	c := memcache.New(clock)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "short", 1, 10))
	require.NoError(t, c.Set(ctx, "forever", 2, 0))

	clock.Advance(10 * time.Second)

	var v int
	ok, _ := c.Get(ctx, "short", &v)
	assert.False(t, ok, "entry must expire at its deadline")
	ok, _ = c.Get(ctx, "forever", &v)
	assert.True(t, ok)
	assert.Equal(t, 2, v)

	assert.Equal(t, 1, c.EvictExpired())
	assert.Equal(t, 1, c.Len())
}

func TestCache_EvictionTimer(t *testing.T) {
	clock := clockwork.NewFakeClock()
	c := memcache.New(clock)
	require.NoError(t, c.Set(context.Background(), "k", 1, 1))

	stop := c.StartEvictionTimer(time.Minute)
	defer stop()

	require.NoError(t, clock.BlockUntilContext(context.Background(), 1))
	clock.Advance(time.Minute)

	assert.Eventually(t, func() bool { return c.Len() == 0 }, time.Second, 5*time.Millisecond)
}
