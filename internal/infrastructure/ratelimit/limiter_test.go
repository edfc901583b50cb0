package ratelimit

import (
	"context"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

// ─── Decide ────────────────────────────────────────────────────────

func TestDecide_BurstThenReject(t *testing.T) {
	clock := newClock()
	lim := New(60, 3, WithClock(clock.Now))

	for i := range 3 {
		if dec := lim.Decide("10.0.0.1"); !dec.Allowed {
			t.Fatalf("request %d rejected within burst", i+1)
		}
	}

	dec := lim.Decide("10.0.0.1")
	if dec.Allowed {
		t.Fatal("request beyond burst allowed")
	}
	// 60/min refills one token per second.
	if dec.RetryAfter != time.Second {
		t.Errorf("RetryAfter = %v, want 1s", dec.RetryAfter)
	}
	if dec.RetryAfterSeconds() != 1 {
		t.Errorf("RetryAfterSeconds() = %d, want 1", dec.RetryAfterSeconds())
	}
}

func TestDecide_RejectionDoesNotConsumeToken(t *testing.T) {
	clock := newClock()
	lim := New(60, 1, WithClock(clock.Now))

	if !lim.Decide("k").Allowed {
		t.Fatal("first request rejected")
	}
	for range 5 {
		if lim.Decide("k").Allowed {
			t.Fatal("request allowed before refill")
		}
	}

	clock.Advance(time.Second)
	if !lim.Decide("k").Allowed {
		t.Error("request rejected after one refill interval")
	}
}

func TestDecide_KeysAreIndependent(t *testing.T) {
	clock := newClock()
	lim := New(60, 1, WithClock(clock.Now))

	if !lim.Decide("a").Allowed {
		t.Fatal("a rejected")
	}
	if lim.Decide("a").Allowed {
		t.Fatal("a allowed twice")
	}
	if !lim.Decide("b").Allowed {
		t.Error("b rejected because of a")
	}
	if lim.Len() != 2 {
		t.Errorf("Len() = %d, want 2", lim.Len())
	}
}

func TestDecision_RetryAfterSecondsRoundsUp(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want int
	}{
		{0, 1},
		{200 * time.Millisecond, 1},
		{time.Second, 1},
		{1500 * time.Millisecond, 2},
		{30 * time.Second, 30},
	}
	for _, tt := range tests {
		if got := (Decision{RetryAfter: tt.in}).RetryAfterSeconds(); got != tt.want {
			t.Errorf("RetryAfterSeconds(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestNew_BurstFloor(t *testing.T) {
	if got := New(100, 0).Burst(); got != 1 {
		t.Errorf("Burst() = %d, want 1", got)
	}
}

// ─── Cleanup ───────────────────────────────────────────────────────

func TestCleanup_RemovesIdleKeys(t *testing.T) {
	clock := newClock()
	lim := New(60, 1, WithClock(clock.Now), WithIdleTTL(time.Minute), WithCleanupEvery(0))

	lim.Decide("idle")
	clock.Advance(45 * time.Second)
	lim.Decide("active")
	clock.Advance(30 * time.Second)

	lim.Cleanup()

	if lim.Len() != 1 {
		t.Fatalf("Len() after Cleanup = %d, want 1", lim.Len())
	}
	// The recreated bucket is full again.
	if !lim.Decide("idle").Allowed {
		t.Error("idle key not reset after cleanup")
	}
}

func TestStartJanitor_StopsWithContext(t *testing.T) {
	lim := New(60, 1, WithIdleTTL(time.Nanosecond), WithCleanupEvery(5*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	lim.Decide("k")
	lim.StartJanitor(ctx)

	deadline := time.Now().Add(2 * time.Second)
	for lim.Len() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("janitor did not remove idle key")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

// ─── KeyFunc ───────────────────────────────────────────────────────

func TestKeyFunc(t *testing.T) {
	tests := []struct {
		name       string
		trustXFF   bool
		remoteAddr string
		xff        string
		want       string
	}{
		{name: "remote addr host", remoteAddr: "192.0.2.10:51234", want: "192.0.2.10"},
		{name: "ipv6 remote addr", remoteAddr: "[2001:db8::1]:443", want: "2001:db8::1"},
		{name: "xff ignored when untrusted", remoteAddr: "192.0.2.10:1", xff: "203.0.113.5", want: "192.0.2.10"},
		{name: "xff first hop when trusted", trustXFF: true, remoteAddr: "192.0.2.10:1", xff: " 203.0.113.5 , 10.0.0.1", want: "203.0.113.5"},
		{name: "empty xff falls back", trustXFF: true, remoteAddr: "192.0.2.10:1", xff: " ", want: "192.0.2.10"},
		{name: "addr without port", remoteAddr: "192.0.2.10", want: "192.0.2.10"},
		{name: "no addr", remoteAddr: "", want: "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/casos", nil)
			r.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				r.Header.Set("X-Forwarded-For", tt.xff)
			}
			if got := KeyFunc(tt.trustXFF)(r); got != tt.want {
				t.Errorf("KeyFunc() = %q, want %q", got, tt.want)
			}
		})
	}
}
