package data

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loan-calculator/internal/model"
)

type fakeSource struct {
	prices  []model.MarketPrice
	err     error
	release chan struct{}
	calls   atomic.Int32
}

func (f *fakeSource) FetchPrices(ctx context.Context) ([]model.MarketPrice, error) {
	f.calls.Add(1)
	if f.release != nil {
		<-f.release
	}
	return f.prices, f.err
}

func waitDone(t *testing.T, f *Feed) {
	t.Helper()
	select {
	case <-f.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("feed did not finish")
	}
}

func TestFeed_PublishesOnce(t *testing.T) {
	src := &fakeSource{prices: []model.MarketPrice{{Symbol: "btc", UnitPriceUSD: 50000}}}
	feed := NewFeed(src)

	var published atomic.Int32
	var got []model.MarketPrice
	publish := func(p []model.MarketPrice) {
		published.Add(1)
		got = p
	}

	feed.Start(context.Background(), publish)
	feed.Start(context.Background(), publish)
	waitDone(t, feed)

	assert.Equal(t, int32(1), src.calls.Load())
	assert.Equal(t, int32(1), published.Load())
	assert.Equal(t, src.prices, got)
}

func TestFeed_FailureLeavesSnapshotEmpty(t *testing.T) {
	feed := NewFeed(&fakeSource{err: errors.New("boom")})
	store := NewMemoryStore(0)

	feed.Start(context.Background(), StorePublisher(store, time.Second))
	waitDone(t, feed)

	_, ok, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFeed_DiscardsLateResult(t *testing.T) {
	src := &fakeSource{
		prices:  []model.MarketPrice{{Symbol: "btc", UnitPriceUSD: 50000}},
		release: make(chan struct{}),
	}
	feed := NewFeed(src)
	ctx, cancel := context.WithCancel(context.Background())

	var published atomic.Int32
	feed.Start(ctx, func([]model.MarketPrice) { published.Add(1) })

	cancel()
	close(src.release)
	waitDone(t, feed)

	assert.Equal(t, int32(0), published.Load())
}

func TestStorePublisher_SavesSnapshot(t *testing.T) {
	store := NewMemoryStore(0)
	feed := NewFeed(&fakeSource{prices: []model.MarketPrice{{Symbol: "eth", UnitPriceUSD: 3000}}})

	feed.Start(context.Background(), StorePublisher(store, time.Second))
	waitDone(t, feed)

	prices, ok, err := store.Load(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "eth", prices[0].Symbol)
}
