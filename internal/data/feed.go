package data

import (
	"context"
	"log"
	"sync"
	"time"

	"loan-calculator/internal/model"
)

// Feed performs the single market-data fetch made when the calculator starts.
// There is no polling and no retry; a failed fetch leaves the snapshot empty.
type Feed struct {
	source PriceSource
	once   sync.Once
	done   chan struct{}
}

func NewFeed(source PriceSource) *Feed {
	return &Feed{source: source, done: make(chan struct{})}
}

// Start launches the fetch in the background and returns immediately.
// publish receives the new snapshot at most once. If ctx is cancelled before
// the fetch returns, the late result is discarded. Calls after the first are
// no-ops.
func (f *Feed) Start(ctx context.Context, publish func([]model.MarketPrice)) {
	f.once.Do(func() {
		go func() {
			defer close(f.done)

			prices, err := f.source.FetchPrices(ctx)
			if err != nil {
				log.Printf("[Feed] Market data unavailable: %v", err)
				return
			}
			if ctx.Err() != nil {
				log.Printf("[Feed] Discarding %d prices received after shutdown", len(prices))
				return
			}
			log.Printf("[Feed] Publishing %d prices", len(prices))
			publish(prices)
		}()
	})
}

// Done is closed once the fetch has finished, whatever its outcome.
func (f *Feed) Done() <-chan struct{} {
	return f.done
}

// StorePublisher returns a publish callback that saves snapshots into store.
func StorePublisher(store SnapshotStore, timeout time.Duration) func([]model.MarketPrice) {
	return func(prices []model.MarketPrice) {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := store.Save(ctx, prices); err != nil {
			log.Printf("[Feed] Failed to save snapshot: %v", err)
		}
	}
}
