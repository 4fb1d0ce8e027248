// Package ratelimit provides token bucket throttling for the HTTP surface and
// for outbound provider calls.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// TokenBucket allows capacity requests in a burst and refills at a steady rate.
type TokenBucket struct {
	capacity   int
	refillRate float64 // tokens per second
	tokens     float64
	lastRefill time.Time
	now        func() time.Time
	mu         sync.Mutex
}

func newTokenBucket(capacity int, refillRate float64) *TokenBucket {
	return newTokenBucketWithClock(capacity, refillRate, time.Now)
}

func newTokenBucketWithClock(capacity int, refillRate float64, now func() time.Time) *TokenBucket {
	if capacity <= 0 {
		capacity = 1
	}
	return &TokenBucket{
		capacity:   capacity,
		refillRate: refillRate,
		tokens:     float64(capacity),
		lastRefill: now(),
		now:        now,
	}
}

// refill must be called with mu held.
func (tb *TokenBucket) refill() time.Time {
	now := tb.now()
	elapsed := now.Sub(tb.lastRefill)
	tb.tokens = min(float64(tb.capacity), tb.tokens+elapsed.Seconds()*tb.refillRate)
	tb.lastRefill = now
	return now
}

// allow consumes a token if one is available.
func (tb *TokenBucket) allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refill()
	if tb.tokens >= 1.0 {
		tb.tokens -= 1.0
		return true
	}
	return false
}

// reserve consumes a token, going into debt if needed, and returns how long
// the caller must wait before using it.
func (tb *TokenBucket) reserve() time.Duration {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refill()
	tb.tokens -= 1.0
	if tb.tokens >= 0 || tb.refillRate <= 0 {
		return 0
	}
	return time.Duration(-tb.tokens / tb.refillRate * float64(time.Second))
}

// cancelReservation returns a token taken by reserve.
func (tb *TokenBucket) cancelReservation() {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	tb.tokens = min(float64(tb.capacity), tb.tokens+1.0)
}

// getStatus returns the current status of the bucket without consuming a token.
func (tb *TokenBucket) getStatus() (remaining int, resetTime time.Time) {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := tb.refill()
	remaining = max(int(tb.tokens), 0)
	if tb.tokens < float64(tb.capacity) && tb.refillRate > 0 {
		secondsUntilFull := (float64(tb.capacity) - tb.tokens) / tb.refillRate
		resetTime = now.Add(time.Duration(secondsUntilFull * float64(time.Second)))
	} else {
		resetTime = now
	}
	return remaining, resetTime
}

// Throttle paces outbound calls to one provider.
type Throttle struct {
	bucket *TokenBucket
}

// NewThrottle allows perSecond calls on average with the given burst. A
// non-positive rate disables throttling.
func NewThrottle(perSecond float64, burst int) *Throttle {
	if perSecond <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = 1
	}
	return &Throttle{bucket: newTokenBucket(burst, perSecond)}
}

// Wait blocks until the call may proceed or ctx ends. A nil Throttle never
// blocks.
func (t *Throttle) Wait(ctx context.Context) error {
	if t == nil {
		return ctx.Err()
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	delay := t.bucket.reserve()
	if delay <= 0 {
		return nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		t.bucket.cancelReservation()
		return ctx.Err()
	}
}
