package data

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"loan-calculator/internal/model"
)

// DefaultSnapshotKey is the Redis key the snapshot lives under.
const DefaultSnapshotKey = "loan-calculator:market-prices"

// RedisStore shares one snapshot between API replicas.
type RedisStore struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

func NewRedisStore(addr string, ttl time.Duration) *RedisStore {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	return NewRedisStoreWithClient(rdb, DefaultSnapshotKey, ttl)
}

func NewRedisStoreWithClient(client *redis.Client, key string, ttl time.Duration) *RedisStore {
	if key == "" {
		key = DefaultSnapshotKey
	}
	return &RedisStore{client: client, key: key, ttl: ttl}
}

func (r *RedisStore) Load(ctx context.Context) ([]model.MarketPrice, bool, error) {
	raw, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", r.key, err)
	}

	var prices []model.MarketPrice
	if err := json.Unmarshal(raw, &prices); err != nil {
		return nil, false, fmt.Errorf("decode snapshot: %w", err)
	}
	return prices, true, nil
}

func (r *RedisStore) Save(ctx context.Context, prices []model.MarketPrice) error {
	raw, err := json.Marshal(prices)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := r.client.Set(ctx, r.key, raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", r.key, err)
	}
	return nil
}

func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
