// Package ratelimit limits requests per client and endpoint with token buckets.
package ratelimit

import (
	"sync"
	"time"
)

// bucket is a token bucket: it holds at most capacity tokens and refills at
// rate tokens per second.
type bucket struct {
	mu         sync.Mutex
	capacity   float64   // Maximum tokens (burst capacity)
	rate       float64   // Tokens per second
	tokens     float64   // Current tokens available
	lastRefill time.Time // Last time tokens were refilled
	lastUsed   time.Time // Last request, for idle cleanup
}

func newBucket(capacity int, rate float64, now time.Time) *bucket {
	return &bucket{
		capacity:   float64(capacity),
		rate:       rate,
		tokens:     float64(capacity), // Start with full bucket
		lastRefill: now,
		lastUsed:   now,
	}
}

// refill must be called with mu held.
func (b *bucket) refill(now time.Time) {
	// Add tokens for the elapsed time, but don't exceed capacity
	if elapsed := now.Sub(b.lastRefill).Seconds(); elapsed > 0 {
		b.tokens = min(b.capacity, b.tokens+elapsed*b.rate)
	}
	b.lastRefill = now
}

// take consumes a token if one is available. Limit is left for the caller.
func (b *bucket) take(now time.Time) Info {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.refill(now)
	b.lastUsed = now
	info := Info{ResetTime: now}

	// Check if we have at least one token
	if b.tokens >= 1 {
		b.tokens--
		info.Allowed = true
	} else {
		// Time until the next whole token
		info.RetryAfter = seconds((1 - b.tokens) / b.rate)
	}

	// Calculate when bucket will be full again
	info.Remaining = int(b.tokens)
	if b.tokens < b.capacity {
		info.ResetTime = now.Add(seconds((b.capacity - b.tokens) / b.rate))
	}
	return info
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

func (b *bucket) idleSince(cutoff time.Time) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastUsed.Before(cutoff)
}

// Info contains information about rate limit status.
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

// Limiter manages rate limiting for multiple clients using token buckets.
type Limiter struct {
	config  *Config
	now     func() time.Time
	mu      sync.Mutex
	buckets map[string]*bucket // client+endpoint key -> bucket
	stop    chan struct{}
	once    sync.Once
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	IdleTTL         time.Duration   // How long an unused bucket is kept (default 1h)
	Whitelist       map[string]bool // Client IDs never limited
	Blacklist       map[string]bool // Client IDs always rejected
	EndpointConfigs []EndpointConfig
}

// NewLimiter creates a limiter. A nil config enables a lenient default limit.
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = &Config{
			Enabled:         true,
			DefaultLimit:    1000,
			DefaultWindow:   time.Minute,
			CleanupInterval: 5 * time.Minute,
		}
	}
	if config.IdleTTL <= 0 {
		config.IdleTTL = time.Hour
	}

	l := &Limiter{
		config:  config,
		now:     time.Now,
		buckets: make(map[string]*bucket),
		stop:    make(chan struct{}),
	}
	// Start cleanup goroutine if enabled
	if config.Enabled && config.CleanupInterval > 0 {
		go l.cleanupLoop(config.CleanupInterval)
	}
	return l
}

// Allow checks whether a request from clientID to method+path is allowed.
func (l *Limiter) Allow(clientID, path, method string) (bool, Info) {
	// Check if rate limiting is disabled or the client is whitelisted
	if !l.config.Enabled || l.config.Whitelist[clientID] {
		return true, Info{Allowed: true}
	}

	// Check blacklist
	if l.config.Blacklist[clientID] {
		return false, Info{}
	}

	// Find matching endpoint configuration
	ep := MatchEndpoint(path, method, l.config.EndpointConfigs)
	if ep == nil {
		// Use global default
		ep = &EndpointConfig{
			Path:   path,
			Method: method,
			Limit:  l.config.DefaultLimit,
			Window: l.config.DefaultWindow,
		}
	}
	// Unlimited endpoint (e.g., health check)
	if ep.Limit <= 0 || ep.Window <= 0 {
		return true, Info{Allowed: true}
	}

	// Get or create bucket for this client+endpoint combination.
	// Prefix rules share one bucket per client.
	key := clientID + " " + method + " " + ep.Path
	now := l.now()
	b := l.bucketFor(key, ep, now)

	info := b.take(now)
	info.Limit = ep.Limit
	return info.Allowed, info
}

func (l *Limiter) bucketFor(key string, ep *EndpointConfig, now time.Time) *bucket {
	l.mu.Lock()
	defer l.mu.Unlock()

	if b, ok := l.buckets[key]; ok {
		return b
	}
	// Create new bucket
	// Refill rate = limit / window duration in seconds
	capacity := ep.Burst
	if capacity <= 0 {
		capacity = ep.Limit
	}
	b := newBucket(capacity, float64(ep.Limit)/ep.Window.Seconds(), now)
	l.buckets[key] = b
	return b
}

func (l *Limiter) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.Cleanup()
		case <-l.stop:
			return
		}
	}
}

// Cleanup drops buckets that have not been used for IdleTTL.
func (l *Limiter) Cleanup() {
	cutoff := l.now().Add(-l.config.IdleTTL)

	l.mu.Lock()
	defer l.mu.Unlock()
	for key, b := range l.buckets {
		if b.idleSince(cutoff) {
			delete(l.buckets, key)
		}
	}
}

// Stop stops the cleanup goroutine. It is safe to call more than once.
func (l *Limiter) Stop() {
	l.once.Do(func() { close(l.stop) })
}
