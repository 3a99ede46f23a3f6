// Package ratelimit provides a per-client token bucket for the HTTP API.
package ratelimit

import (
	"os"
	"strconv"
	"sync"
	"time"
)

// Config controls the per-client budget.
type Config struct {
	// RequestsPerMinute is the steady-state refill rate.
	RequestsPerMinute int
	// Burst is the bucket capacity.
	Burst int
}

// LoadConfig reads RATE_LIMIT_RPM and RATE_LIMIT_BURST from the environment,
// falling back to defaults that suit interactive use.
func LoadConfig() Config {
	cfg := Config{RequestsPerMinute: 120, Burst: 30}
	if raw := os.Getenv("RATE_LIMIT_RPM"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			cfg.RequestsPerMinute = v
		}
	}
	if raw := os.Getenv("RATE_LIMIT_BURST"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			cfg.Burst = v
		}
	}
	return cfg
}

// Info describes the caller's remaining budget, for response headers.
type Info struct {
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

type bucket struct {
	tokens   float64
	lastSeen time.Time
}

// Limiter is a token-bucket rate limiter keyed by client identifier.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	cfg     Config
	stop    chan struct{}
}

// NewLimiter creates a limiter and starts its idle-bucket cleanup loop.
func NewLimiter(cfg Config) *Limiter {
	l := &Limiter{
		buckets: make(map[string]*bucket),
		cfg:     cfg,
		stop:    make(chan struct{}),
	}
	go l.cleanupLoop()
	return l
}

// Allow reports whether the client may proceed and the state of its budget.
func (l *Limiter) Allow(clientID string) (bool, Info) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	b, ok := l.buckets[clientID]
	if !ok {
		b = &bucket{tokens: float64(l.cfg.Burst)}
		l.buckets[clientID] = b
	} else {
		refill := now.Sub(b.lastSeen).Minutes() * float64(l.cfg.RequestsPerMinute)
		b.tokens += refill
		if b.tokens > float64(l.cfg.Burst) {
			b.tokens = float64(l.cfg.Burst)
		}
	}
	b.lastSeen = now

	info := Info{Limit: l.cfg.Burst}
	if b.tokens < 1 {
		perToken := time.Minute / time.Duration(l.cfg.RequestsPerMinute)
		info.RetryAfter = time.Duration((1 - b.tokens) * float64(perToken))
		return false, info
	}

	b.tokens--
	info.Remaining = int(b.tokens)
	return true, info
}

// Stop terminates the cleanup loop.
func (l *Limiter) Stop() {
	close(l.stop)
}

func (l *Limiter) cleanupLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			l.mu.Lock()
			cutoff := time.Now().Add(-10 * time.Minute)
			for id, b := range l.buckets {
				if b.lastSeen.Before(cutoff) {
					delete(l.buckets, id)
				}
			}
			l.mu.Unlock()
		}
	}
}
