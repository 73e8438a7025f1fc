package infra

import (
	"context"
	"testing"
	"time"

	"github.com/SuperAJ1/CAPSTONE-sub000/internal/model"

	"github.com/alicebob/miniredis/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisLookupCache_Expires(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	rdb, err := NewRedis("redis://" + mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	cache := NewRedisLookupCache(rdb, 30*time.Second)
	cache.Set(ctx, "QR-1", model.Product{ID: "9", Name: "Soap", Price: decimal.RequireFromString("1.25")})

	got, hit := cache.Get(ctx, "QR-1")
	require.True(t, hit)
	assert.Equal(t, "9", got.ID)

	mr.FastForward(31 * time.Second)
	_, hit = cache.Get(ctx, "QR-1")
	assert.False(t, hit)
}

func TestRedisLookupCache_InvalidateByProduct(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	rdb, err := NewRedis("redis://" + mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	cache := NewRedisLookupCache(rdb, time.Minute)
	soap := model.Product{ID: "9", Name: "Soap", Stock: 3}
	cache.Set(ctx, "9", soap)
	cache.Set(ctx, "QR-9", soap)
	cache.Set(ctx, "QR-1", model.Product{ID: "1", Name: "Rice", Stock: 8})

	cache.Invalidate(ctx, "9")

	_, hit := cache.Get(ctx, "9")
	assert.False(t, hit)
	_, hit = cache.Get(ctx, "QR-9")
	assert.False(t, hit)
	_, hit = cache.Get(ctx, "QR-1")
	assert.True(t, hit, "other products stay cached")
	assert.False(t, mr.Exists("lookup:product:9"))
}
