package repository

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"realty-calc/domain"
)

func TestCacheKey_StableAndKindScoped(t *testing.T) {
	in := domain.IRRInput{InitialInvestment: 1000, CashFlows: []float64{500, 700}}

	a, err := CacheKey("irr", in)
	require.NoError(t, err)
	b, err := CacheKey("irr", in)
	require.NoError(t, err)
	other, err := CacheKey("irr", domain.IRRInput{InitialInvestment: 1000, CashFlows: []float64{700, 500}})
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, other)
	assert.True(t, strings.HasPrefix(a, "irr:"))
}

func TestCacheKey_UnencodableInput(t *testing.T) {
	_, err := CacheKey("irr", make(chan int))
	assert.Error(t, err)
}

func TestMemoryCache_GetSet(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryCache(0)

	_, ok := cache.Get(ctx, "missing")
	assert.False(t, ok)

	require.NoError(t, cache.Set(ctx, "k", "v"))
	val, ok := cache.Get(ctx, "k")
	assert.True(t, ok)
	assert.Equal(t, "v", val)
}

func TestMemoryCache_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	cache := NewMemoryCache(time.Minute)
	cache.now = func() time.Time { return now }

	require.NoError(t, cache.Set(ctx, "k", "v"))

	now = now.Add(30 * time.Second)
	_, ok := cache.Get(ctx, "k")
	assert.True(t, ok)

	now = now.Add(time.Minute)
	_, ok = cache.Get(ctx, "k")
	assert.False(t, ok)
	assert.Equal(t, 0, cache.Len())
}

func TestMemoryCache_SetSweepsExpiredEntries(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	cache := NewMemoryCache(time.Minute)
	cache.now = func() time.Time { return now }

	for i := 0; i < 10000; i++ {
		require.NoError(t, cache.Set(ctx, fmt.Sprintf("loan:%d", i), "v"))
	}
	assert.Equal(t, 10000, cache.Len())

	now = now.Add(time.Hour)
	require.NoError(t, cache.Set(ctx, "fresh", "v"))

	assert.Equal(t, 1, cache.Len())
	val, ok := cache.Get(ctx, "fresh")
	assert.True(t, ok)
	assert.Equal(t, "v", val)
}

func TestMemoryCache_SweepKeepsLiveEntries(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	cache := NewMemoryCache(time.Minute)
	cache.now = func() time.Time { return now }

	require.NoError(t, cache.Set(ctx, "old", "v"))
	now = now.Add(50 * time.Second)
	require.NoError(t, cache.Set(ctx, "young", "v"))

	now = now.Add(20 * time.Second)
	require.NoError(t, cache.Set(ctx, "newest", "v"))

	assert.Equal(t, 2, cache.Len())
	_, ok := cache.Get(ctx, "young")
	assert.True(t, ok)
}

func TestMemoryCache_ExpiredGetDoesNotDropRefreshedKey(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	cache := NewMemoryCache(time.Minute)

	refresh := false
	cache.now = func() time.Time {
		if refresh {
			// rewrite the key between the expired read and the delete
			refresh = false
			require.NoError(t, cache.Set(ctx, "k", "fresh"))
		}
		return now
	}

	require.NoError(t, cache.Set(ctx, "k", "stale"))
	now = now.Add(2 * time.Minute)
	refresh = true

	_, ok := cache.Get(ctx, "k")
	assert.False(t, ok)

	val, ok := cache.Get(ctx, "k")
	assert.True(t, ok)
	assert.Equal(t, "fresh", val)
}
