package data

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loan-calculator/internal/model"
)

func TestMemoryStore_EmptyUntilSaved(t *testing.T) {
	s := NewMemoryStore(0)

	prices, ok, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, prices)
}

func TestMemoryStore_SaveReplacesSnapshot(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(0)

	require.NoError(t, s.Save(ctx, []model.MarketPrice{{Symbol: "btc", UnitPriceUSD: 1}}))
	require.NoError(t, s.Save(ctx, []model.MarketPrice{{Symbol: "eth", UnitPriceUSD: 2}}))

	prices, ok, err := s.Load(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []model.MarketPrice{{Symbol: "eth", UnitPriceUSD: 2}}, prices)

	// callers get a copy
	prices[0].UnitPriceUSD = 999
	again, _, _ := s.Load(ctx)
	assert.Equal(t, 2.0, again[0].UnitPriceUSD)
}

func TestMemoryStore_Expires(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewMemoryStore(time.Minute)
	s.now = func() time.Time { return now }

	require.NoError(t, s.Save(ctx, []model.MarketPrice{{Symbol: "btc", UnitPriceUSD: 1}}))

	_, ok, _ := s.Load(ctx)
	assert.True(t, ok)

	now = now.Add(2 * time.Minute)
	_, ok, _ = s.Load(ctx)
	assert.False(t, ok)
}

func TestRedisStore_UnreachableServer(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	s := NewRedisStoreWithClient(client, "", time.Minute)
	t.Cleanup(func() { _ = s.Close() })

	_, ok, err := s.Load(context.Background())
	assert.Error(t, err)
	assert.False(t, ok)

	assert.Error(t, s.Save(context.Background(), []model.MarketPrice{{Symbol: "btc", UnitPriceUSD: 1}}))
}
