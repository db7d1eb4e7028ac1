package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// StatsEvent records one rate limit decision.
type StatsEvent struct {
	Key     string
	Allowed bool
	Method  string
	Path    string
	At      time.Time
}

// StatsStore records rate limit decisions for observability.
type StatsStore interface {
	Record(ctx context.Context, ev StatsEvent) error
}

// MemoryStats keeps per-key allow/deny counters in memory.
type MemoryStats struct {
	mu      sync.Mutex
	allowed map[string]int64
	denied  map[string]int64
}

// NewMemoryStats creates an in-memory stats store.
func NewMemoryStats() *MemoryStats {
	return &MemoryStats{
		allowed: make(map[string]int64),
		denied:  make(map[string]int64),
	}
}

// Record implements StatsStore.
func (m *MemoryStats) Record(_ context.Context, ev StatsEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ev.Allowed {
		m.allowed[ev.Key]++
	} else {
		m.denied[ev.Key]++
	}
	return nil
}

// Counts returns allow/deny counts for a key.
func (m *MemoryStats) Counts(key string) (allowed, denied int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.allowed[key], m.denied[key]
}

// RedisStats records decisions as counters in Redis so a worker fleet can be
// observed centrally.
type RedisStats struct {
	client *redis.Client
	prefix string
}

// NewRedisStats connects to Redis and verifies the connection.
func NewRedisStats(ctx context.Context, url string) (*RedisStats, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisStats{client: client, prefix: "divvun:ratelimit"}, nil
}

// Record implements StatsStore.
func (r *RedisStats) Record(ctx context.Context, ev StatsEvent) error {
	field := "allowed"
	if !ev.Allowed {
		field = "denied"
	}
	return r.client.HIncrBy(ctx, fmt.Sprintf("%s:%s", r.prefix, ev.Key), field, 1).Err()
}

// Close releases the Redis connection.
func (r *RedisStats) Close() error {
	return r.client.Close()
}
