package data

import (
	"context"
	"sync"
	"time"

	"loan-calculator/internal/model"
)

// SnapshotStore holds the latest price snapshot. Save replaces it wholesale.
type SnapshotStore interface {
	Load(ctx context.Context) ([]model.MarketPrice, bool, error)
	Save(ctx context.Context, prices []model.MarketPrice) error
}

// MemoryStore is a process-local SnapshotStore.
// A zero ttl keeps the snapshot until it is replaced.
type MemoryStore struct {
	mu        sync.RWMutex
	prices    []model.MarketPrice
	loaded    bool
	expiresAt time.Time
	ttl       time.Duration
	now       func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{ttl: ttl, now: time.Now}
}

// Load returns a copy of the snapshot, or false when nothing has been saved
// yet or the snapshot expired.
func (s *MemoryStore) Load(_ context.Context) ([]model.MarketPrice, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.loaded {
		return nil, false, nil
	}
	if s.ttl > 0 && s.now().After(s.expiresAt) {
		return nil, false, nil
	}

	out := make([]model.MarketPrice, len(s.prices))
	copy(out, s.prices)
	return out, true, nil
}

func (s *MemoryStore) Save(_ context.Context, prices []model.MarketPrice) error {
	cp := make([]model.MarketPrice, len(prices))
	copy(cp, prices)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.prices = cp
	s.loaded = true
	s.expiresAt = s.now().Add(s.ttl)
	return nil
}
