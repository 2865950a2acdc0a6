package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tair/alcohol-tracker/internal/catalog/domain"
)

const SnapshotKey = "catalog:snapshot"

// RedisStore shares one snapshot between replicas under a single key
type RedisStore struct {
	client *redis.Client
	key    string
	ttl    time.Duration
	now    func() time.Time
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, key: SnapshotKey, ttl: ttl, now: time.Now}
}

func (s *RedisStore) Read(ctx context.Context) (*domain.Snapshot, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrSnapshotAbsent
		}
		return nil, fmt.Errorf("redis get %s: %w", s.key, err)
	}
	return decodeFresh(data, s.now(), s.ttl)
}

// Write stores the snapshot with an expiry matching the remaining ttl
func (s *RedisStore) Write(ctx context.Context, snapshot *domain.Snapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	expiry := s.ttl - s.now().Sub(snapshot.Timestamp)
	if expiry <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, s.key, data, expiry).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", s.key, err)
	}
	return nil
}
