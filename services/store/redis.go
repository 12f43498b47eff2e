package store

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"sjsage522/offerwatch/internal/offer"
	"sjsage522/offerwatch/logger"
	"sjsage522/offerwatch/pkg/errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// DefaultSnapshotKey is the sorted set holding every snapshot
const DefaultSnapshotKey = "product-snapshots"

// RedisStore keeps snapshots in a sorted set scored by ScrapedAt in Unix microseconds
type RedisStore struct {
	client *redis.Client
	key    string
	logger *logger.Logger
}

// NewRedisStore creates a new Redis snapshot store
func NewRedisStore(addr string, db int, key string) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})
	return NewRedisStoreWithClient(client, key)
}

// NewRedisStoreWithClient wraps an existing client
func NewRedisStoreWithClient(client *redis.Client, key string) *RedisStore {
	if key == "" {
		key = DefaultSnapshotKey
	}
	return &RedisStore{
		client: client,
		key:    key,
		logger: logger.ForStore(),
	}
}

// Ping checks the Redis connection
func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return errors.NewPersistence("ping", "redis is not reachable", err)
	}
	return nil
}

// Save appends the snapshot. An ID is generated when missing so identical
// content still produces a distinct member.
func (s *RedisStore) Save(ctx context.Context, snapshot offer.Snapshot) error {
	if snapshot.ID == "" {
		snapshot.ID = uuid.NewString()
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		return errors.NewPersistence("save", "failed to encode snapshot", err)
	}

	err = s.client.ZAdd(ctx, s.key, redis.Z{
		Score:  float64(snapshot.ScrapedAt.UnixMicro()),
		Member: data,
	}).Err()
	if err != nil {
		return errors.NewPersistence("save", "failed to store snapshot", err)
	}

	s.logger.Debug().
		Str("id", snapshot.ID).
		Time("scraped_at", snapshot.ScrapedAt).
		Int("products", len(snapshot.Products)).
		Msg("Saved snapshot")
	return nil
}

// LastBefore returns the snapshot with the highest score strictly below t
func (s *RedisStore) LastBefore(ctx context.Context, t time.Time) (*offer.Snapshot, error) {
	members, err := s.client.ZRevRangeByScore(ctx, s.key, &redis.ZRangeBy{
		Max:   "(" + strconv.FormatInt(t.UnixMicro(), 10),
		Min:   "-inf",
		Count: 1,
	}).Result()
	if err != nil {
		return nil, errors.NewPersistence("last_before", "failed to query snapshots", err)
	}
	if len(members) == 0 {
		return nil, nil
	}

	var snapshot offer.Snapshot
	if err := json.Unmarshal([]byte(members[0]), &snapshot); err != nil {
		return nil, errors.NewPersistence("last_before", "failed to decode snapshot", err)
	}
	return &snapshot, nil
}

// Close closes the Redis connection
func (s *RedisStore) Close() error {
	return s.client.Close()
}
