// Package requesttoken issues monotonically increasing request tokens per
// session key. A response is applied only while its token is the latest
// one, so a slow reply overtaken by a newer request is dropped.
package requesttoken

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"sync"
	"time"

	"laundry_backend/platform/config"

	"github.com/redis/go-redis/v9"
)

// Store issues tokens per key.
type Store interface {
	Next(ctx context.Context, key string) (uint64, error)
	Latest(ctx context.Context, key string) (uint64, error)
}

var (
	_ Store = (*Memory)(nil)
	_ Store = (*Redis)(nil)
)

type memoryEntry struct {
	token    uint64
	lastSeen time.Time
}

// Memory keeps tokens in process. Idle keys are dropped after the TTL.
type Memory struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]*memoryEntry
}

// NewMemory creates an in-process store.
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]*memoryEntry),
	}
}

func (m *Memory) Next(_ context.Context, key string) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.prune(now)

	e, ok := m.entries[key]
	if !ok {
		e = &memoryEntry{}
		m.entries[key] = e
	}
	e.token++
	e.lastSeen = now
	return e.token, nil
}

func (m *Memory) Latest(_ context.Context, key string) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok := m.entries[key]; ok {
		return e.token, nil
	}
	return 0, nil
}

func (m *Memory) prune(now time.Time) {
	if m.ttl <= 0 {
		return
	}
	for id, e := range m.entries {
		if now.Sub(e.lastSeen) > m.ttl {
			delete(m.entries, id)
		}
	}
}

const redisTokenPrefix = "laundry:token:"

// Redis shares tokens between API replicas so a response served by one
// instance can be recognised as stale by another.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis wraps an existing client.
func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

func (r *Redis) Next(ctx context.Context, key string) (uint64, error) {
	redisKey := redisTokenPrefix + key

	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	if r.ttl > 0 {
		pipe.Expire(ctx, redisKey, r.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("issue request token: %w", err)
	}
	return uint64(incr.Val()), nil
}

func (r *Redis) Latest(ctx context.Context, key string) (uint64, error) {
	v, err := r.client.Get(ctx, redisTokenPrefix+key).Uint64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read request token: %w", err)
	}
	return v, nil
}

// NewRedisClient connects to the configured Redis and verifies it answers.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	if opt.TLSConfig != nil {
		clone := opt.TLSConfig.Clone()
		if cfg.GetRedisTLSInsecure() {
			clone.InsecureSkipVerify = true
		}
		opt.TLSConfig = clone
	} else if cfg.GetRedisTLSInsecure() {
		opt.TLSConfig = &tls.Config{InsecureSkipVerify: true}
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}
