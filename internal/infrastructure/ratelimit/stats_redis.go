package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/casos-demo/casos-core/internal/infrastructure/config"
)

const (
	defaultStatsPrefix = "casos:ratelimit"
	defaultStatsTTL    = 24 * time.Hour
	redisPingTimeout   = 5 * time.Second
)

// ErrRedisDisabled indicates Redis is disabled in configuration.
var ErrRedisDisabled = errors.New("ratelimit: redis disabled in configuration")

// Event is one rate-limit decision.
type Event struct {
	Allowed bool
	Method  string
	Path    string
	At      time.Time
}

// Recorder persists decision counters. Implementations are best-effort:
// callers log errors and carry on.
type Recorder interface {
	Record(ctx context.Context, ev Event) error
}

// RedisStats counts decisions in Redis hashes:
//
//	<prefix>:total                 allowed / denied, cumulative
//	<prefix>:minute:YYYYMMDDhhmm   allowed / denied, expires after TTL
//	<prefix>:route                 "<METHOD> <path>:<allowed|denied>"
type RedisStats struct {
	rdb    redis.Cmdable
	prefix string
	ttl    time.Duration
}

// ConnectRedis opens a client for cfg and pings it.
// It returns ErrRedisDisabled when redis.enabled is false.
func ConnectRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	if !cfg.Enabled {
		return nil, ErrRedisDisabled
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ratelimit: redis ping %s: %w", cfg.Addr, err)
	}
	return rdb, nil
}

// NewRedisStats creates a recorder. Empty prefix and non-positive TTL fall
// back to defaults.
func NewRedisStats(rdb redis.Cmdable, prefix string, ttl time.Duration) *RedisStats {
	prefix = strings.Trim(prefix, ":")
	if prefix == "" {
		prefix = defaultStatsPrefix
	}
	if ttl <= 0 {
		ttl = defaultStatsTTL
	}
	return &RedisStats{rdb: rdb, prefix: prefix, ttl: ttl}
}

// Record increments the counters for ev in one pipeline round trip.
func (s *RedisStats) Record(ctx context.Context, ev Event) error {
	if s == nil || s.rdb == nil {
		return nil
	}

	at := ev.At
	if at.IsZero() {
		at = time.Now()
	}
	field := outcomeField(ev.Allowed)

	pipe := s.rdb.Pipeline()
	pipe.HIncrBy(ctx, s.TotalKey(), field, 1)

	bucket := s.MinuteKey(at)
	pipe.HIncrBy(ctx, bucket, field, 1)
	pipe.Expire(ctx, bucket, s.ttl)

	if route := strings.TrimSpace(ev.Method + " " + ev.Path); route != "" {
		pipe.HIncrBy(ctx, s.prefix+":route", route+":"+field, 1)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("ratelimit: record stats: %w", err)
	}
	return nil
}

// TotalKey is the hash holding cumulative counters.
func (s *RedisStats) TotalKey() string { return s.prefix + ":total" }

// MinuteKey is the per-minute bucket hash for t.
func (s *RedisStats) MinuteKey(t time.Time) string {
	return s.prefix + ":minute:" + t.UTC().Format("200601021504")
}

func outcomeField(allowed bool) string {
	if allowed {
		return "allowed"
	}
	return "denied"
}
