// Package ratelimit provides the injected per-client request limiter used
// by the directory endpoint. Two implementations share one interface so a
// single-instance deployment can run in memory and a multi-instance one can
// point at Redis.
package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter answers whether a client identified by key may make one more
// request right now.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

type window struct {
	count   int
	started time.Time
}

// MemoryLimiter is a fixed-window counter per key, safe for concurrent
// handlers. Expired windows are pruned lazily on access.
type MemoryLimiter struct {
	maxRequests int
	windowSize  time.Duration

	mu      sync.Mutex
	windows map[string]*window

	// now is swapped out by tests.
	now func() time.Time
}

func NewMemoryLimiter(maxRequests int, windowSize time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		maxRequests: maxRequests,
		windowSize:  windowSize,
		windows:     make(map[string]*window),
		now:         time.Now,
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.windows[key]
	if !ok || now.Sub(w.started) > l.windowSize {
		w = &window{started: now}
		l.windows[key] = w
	}

	if w.count >= l.maxRequests {
		return false, nil
	}
	w.count++

	if len(l.windows) > 1024 {
		l.prune(now)
	}
	return true, nil
}

// prune drops windows that ended before now. Caller holds the lock.
func (l *MemoryLimiter) prune(now time.Time) {
	for key, w := range l.windows {
		if now.Sub(w.started) > l.windowSize {
			delete(l.windows, key)
		}
	}
}

// RedisLimiter shares one fixed window per key across instances using
// INCR + EXPIRE.
type RedisLimiter struct {
	client      *redis.Client
	maxRequests int
	windowSize  time.Duration
	keyPrefix   string
}

func NewRedisLimiter(client *redis.Client, maxRequests int, windowSize time.Duration) *RedisLimiter {
	return &RedisLimiter{
		client:      client,
		maxRequests: maxRequests,
		windowSize:  windowSize,
		keyPrefix:   "ratelimit:",
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := l.keyPrefix + key

	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, fmt.Errorf("ratelimit incr: %w", err)
	}
	if count == 1 {
		if err := l.client.Expire(ctx, redisKey, l.windowSize).Err(); err != nil {
			return false, fmt.Errorf("ratelimit expire: %w", err)
		}
	}
	return count <= int64(l.maxRequests), nil
}
