package http

import (
	"sync"
	"time"
)

type bucket struct {
	tokens   float64
	last     time.Time
	lastSeen time.Time
}

// RateLimiter is a token bucket limiter keyed by client IP.
type RateLimiter struct {
	mu         sync.Mutex
	buckets    map[string]*bucket
	maxTokens  float64
	refillRate float64
	ttl        time.Duration
	now        func() time.Time
}

// NewRateLimiter constructs a rate limiter with the provided settings. Stale
// client buckets are pruned every ttl.
func NewRateLimiter(maxTokens int, refillPerSecond float64, ttl time.Duration) *RateLimiter {
	rl := &RateLimiter{
		buckets:    make(map[string]*bucket),
		maxTokens:  float64(maxTokens),
		refillRate: refillPerSecond,
		ttl:        ttl,
		now:        time.Now,
	}

	if ttl > 0 {
		ticker := time.NewTicker(ttl)
		go func() {
			for range ticker.C {
				rl.pruneStale()
			}
		}()
	}

	return rl
}

// Allow consumes a token for the provided key if one is available.
func (rl *RateLimiter) Allow(key string) bool {
	if key == "" {
		key = "unknown"
	}

	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	client, ok := rl.buckets[key]
	if !ok {
		client = &bucket{
			tokens:   rl.maxTokens,
			last:     now,
			lastSeen: now,
		}
		rl.buckets[key] = client
	}

	elapsed := now.Sub(client.last).Seconds()
	if elapsed > 0 {
		client.tokens += elapsed * rl.refillRate
		if client.tokens > rl.maxTokens {
			client.tokens = rl.maxTokens
		}
		client.last = now
	}

	client.lastSeen = now

	if client.tokens < 1 {
		return false
	}

	client.tokens -= 1
	return true
}

func (rl *RateLimiter) pruneStale() {
	if rl.ttl <= 0 {
		return
	}

	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for key, client := range rl.buckets {
		if now.Sub(client.lastSeen) > rl.ttl {
			delete(rl.buckets, key)
		}
	}
}
