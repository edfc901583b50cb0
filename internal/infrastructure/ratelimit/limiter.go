package ratelimit

import (
	"context"
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultIdleTTL      = 15 * time.Minute
	defaultCleanupEvery = 2 * time.Minute
)

// Decision is the outcome of a single rate-limit check.
type Decision struct {
	Allowed bool

	// RetryAfter is how long the client should wait before the next token
	// is available. Zero when Allowed.
	RetryAfter time.Duration
}

// RetryAfterSeconds rounds RetryAfter up to whole seconds, minimum 1.
func (d Decision) RetryAfterSeconds() int {
	secs := int(math.Ceil(d.RetryAfter.Seconds()))
	if secs < 1 {
		return 1
	}
	return secs
}

// Limiter hands out one token bucket per client key.
//
// Thread Safety:
//   - All methods are safe for concurrent use.
type Limiter struct {
	mu      sync.Mutex
	entries map[string]*entry

	limit rate.Limit
	burst int

	idleTTL      time.Duration
	cleanupEvery time.Duration
	now          func() time.Time
}

type entry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithIdleTTL sets how long an unused key is kept.
func WithIdleTTL(d time.Duration) Option {
	return func(l *Limiter) { l.idleTTL = d }
}

// WithCleanupEvery sets the janitor interval. Zero disables the janitor.
func WithCleanupEvery(d time.Duration) Option {
	return func(l *Limiter) { l.cleanupEvery = d }
}

// WithClock replaces time.Now. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) { l.now = now }
}

// New creates a Limiter allowing requestsPerMinute sustained requests per
// key with the given burst.
func New(requestsPerMinute, burst int, opts ...Option) *Limiter {
	if burst < 1 {
		burst = 1
	}
	l := &Limiter{
		entries:      make(map[string]*entry),
		limit:        rate.Limit(float64(requestsPerMinute) / 60.0),
		burst:        burst,
		idleTTL:      defaultIdleTTL,
		cleanupEvery: defaultCleanupEvery,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Burst returns the configured bucket size.
func (l *Limiter) Burst() int { return l.burst }

// Decide consumes one token for key, or reports how long to wait.
func (l *Limiter) Decide(key string) Decision {
	now := l.now()
	lim := l.get(key, now)

	res := lim.ReserveN(now, 1)
	if !res.OK() {
		return Decision{Allowed: false, RetryAfter: time.Minute}
	}
	delay := res.DelayFrom(now)
	if delay == 0 {
		return Decision{Allowed: true}
	}
	// Give the token back; the request is rejected, not queued.
	res.CancelAt(now)
	return Decision{Allowed: false, RetryAfter: delay}
}

func (l *Limiter) get(key string, now time.Time) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if e, ok := l.entries[key]; ok {
		e.lastSeen = now
		return e.lim
	}

	lim := rate.NewLimiter(l.limit, l.burst)
	l.entries[key] = &entry{lim: lim, lastSeen: now}
	return lim
}

// Len returns the number of tracked keys.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Cleanup drops keys idle for longer than the TTL.
func (l *Limiter) Cleanup() {
	cutoff := l.now().Add(-l.idleTTL)

	l.mu.Lock()
	defer l.mu.Unlock()

	for k, e := range l.entries {
		if e.lastSeen.Before(cutoff) {
			delete(l.entries, k)
		}
	}
}

// StartJanitor runs Cleanup periodically until ctx is cancelled.
func (l *Limiter) StartJanitor(ctx context.Context) {
	if l.cleanupEvery <= 0 {
		return
	}

	ticker := time.NewTicker(l.cleanupEvery)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				l.Cleanup()
			}
		}
	}()
}
