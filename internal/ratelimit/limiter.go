package ratelimit

import (
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/feral-file/ff-floor-indexer/internal/adapter"
)

const (
	DEFAULT_BURST    = 20
	DEFAULT_IDLE_TTL = 10 * time.Minute
)

// Config holds the per-key token bucket settings
type Config struct {
	RequestsPerSecond float64 // Sustained rate per key; zero disables limiting
	Burst             int     // Bucket size per key
	IdleTTL           time.Duration
}

// Limiter hands out a token bucket per key, e.g. per API caller
//
//go:generate mockgen -source=limiter.go -destination=../mocks/ratelimit.go -package=mocks -mock_names=Limiter=MockRateLimiter
type Limiter interface {
	// Allow takes a token for key. When denied it returns the wait until the next token.
	Allow(key string) (bool, time.Duration)
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type limiter struct {
	config    Config
	clock     adapter.Clock
	mu        sync.Mutex
	buckets   map[string]*bucket
	lastSweep time.Time
}

// NewLimiter creates a keyed limiter. It returns nil when limiting is disabled.
func NewLimiter(cfg Config, clock adapter.Clock) (Limiter, error) {
	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.RequestsPerSecond == 0 {
		return nil, nil
	}

	return &limiter{
		config:    cfg,
		clock:     clock,
		buckets:   make(map[string]*bucket),
		lastSweep: clock.Now(),
	}, nil
}

func (l *limiter) Allow(key string) (bool, time.Duration) {
	now := l.clock.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	l.evictIdle(now)

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(rate.Limit(l.config.RequestsPerSecond), l.config.Burst)}
		l.buckets[key] = b
	}
	b.lastSeen = now

	r := b.limiter.ReserveN(now, 1)
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return false, delay
	}
	return true, 0
}

// evictIdle drops buckets unused for IdleTTL. A dropped bucket is full again on next use.
func (l *limiter) evictIdle(now time.Time) {
	if now.Sub(l.lastSweep) < l.config.IdleTTL {
		return
	}
	for key, b := range l.buckets {
		if now.Sub(b.lastSeen) >= l.config.IdleTTL {
			delete(l.buckets, key)
		}
	}
	l.lastSweep = now
}

func validateConfig(cfg *Config) error {
	if cfg.RequestsPerSecond < 0 {
		return fmt.Errorf("requests_per_second must not be negative, got %v", cfg.RequestsPerSecond)
	}
	if cfg.Burst < 0 {
		return fmt.Errorf("burst must not be negative, got %d", cfg.Burst)
	}
	if cfg.Burst == 0 {
		cfg.Burst = DEFAULT_BURST
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = DEFAULT_IDLE_TTL
	}
	return nil
}
