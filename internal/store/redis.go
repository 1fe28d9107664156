package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ignite/studio-insights/internal/pipeline"
)

// RedisStore persists dashboards in Redis so sessions survive process
// restarts and can be shared across replicas.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore connects to addr and verifies the connection with a ping.
func NewRedisStore(ctx context.Context, addr, password string, db int, ttl time.Duration) (*RedisStore, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return &RedisStore{client: client, ttl: ttl}, nil
}

func redisKey(id string) string {
	return "studio:dashboard:" + id
}

func (s *RedisStore) Put(ctx context.Context, d *pipeline.Dashboard) error {
	payload, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshal dashboard %s: %w", d.ID, err)
	}
	if err := s.client.Set(ctx, redisKey(d.ID), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("store dashboard %s: %w", d.ID, err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (*pipeline.Dashboard, error) {
	payload, err := s.client.Get(ctx, redisKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load dashboard %s: %w", id, err)
	}
	var d pipeline.Dashboard
	if err := json.Unmarshal(payload, &d); err != nil {
		return nil, fmt.Errorf("decode dashboard %s: %w", id, err)
	}
	return &d, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, redisKey(id)).Err(); err != nil {
		return fmt.Errorf("delete dashboard %s: %w", id, err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
