// Package ratelimit provides per-client token-bucket rate limiting for the
// casos HTTP API.
//
// A Limiter keeps one golang.org/x/time/rate limiter per client key and
// forgets keys that stay idle longer than the configured TTL. Decisions can
// be counted in Redis through RedisStats; counting is best-effort and never
// affects the decision itself.
//
// Usage:
//
//	lim := ratelimit.New(cfg.Security.RateLimit.RequestsPerMinute, cfg.Security.RateLimit.Burst)
//	lim.StartJanitor(ctx)
//
//	key := ratelimit.KeyFunc(cfg.Security.RateLimit.TrustXForwardedFor)(r)
//	if dec := lim.Decide(key); !dec.Allowed {
//	    // 429 with Retry-After: dec.RetryAfterSeconds()
//	}
package ratelimit
