// Package ratelimit provides the client-side admission control for outgoing
// API calls: a lazily refilled token bucket and an executor that retries the
// admission gate with bounded backoff.
package ratelimit

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/tradeport/tradeport-go/pkg/apierrors"
)

const defaultCapacity = 100.0

// Config describes a bucket: MaxRequests tokens refill over Window, and
// BurstCapacity caps how many tokens can accumulate. A zero Window disables
// throttling entirely.
type Config struct {
	MaxRequests   int
	BurstCapacity int
	Window        time.Duration
}

// TokenBucket is a token-bucket rate limiter with lazy, monotonic refill.
// There is no background timer: elapsed time is converted to tokens at the
// start of every public operation. Safe for concurrent use; each client owns
// exactly one bucket shared across all of its endpoint calls.
type TokenBucket struct {
	mu sync.Mutex

	tokens          float64
	capacity        float64
	refillRatePerMs float64
	lastRefillAt    time.Time

	now func() time.Time
}

// NewTokenBucket builds a bucket from cfg. Capacity falls back from
// BurstCapacity to MaxRequests to 100. The refill rate is always
// MaxRequests/Window regardless of burst capacity: burst tokens refill at
// the steady-state rate.
func NewTokenBucket(cfg Config) *TokenBucket {
	capacity := float64(cfg.BurstCapacity)
	if capacity <= 0 {
		capacity = float64(cfg.MaxRequests)
	}
	if capacity <= 0 {
		capacity = defaultCapacity
	}

	ratePerMs := math.Inf(1)
	if windowMs := float64(cfg.Window) / float64(time.Millisecond); windowMs > 0 {
		ratePerMs = float64(cfg.MaxRequests) / windowMs
	}

	b := &TokenBucket{
		tokens:          capacity,
		capacity:        capacity,
		refillRatePerMs: ratePerMs,
		now:             time.Now,
	}
	b.lastRefillAt = b.now()
	return b
}

// refill converts the time elapsed since the last refill into tokens, capped
// at capacity. Callers must hold the mutex.
func (b *TokenBucket) refill() {
	now := b.now()
	elapsedMs := float64(now.Sub(b.lastRefillAt)) / float64(time.Millisecond)
	if elapsedMs <= 0 {
		return
	}

	b.tokens = math.Min(b.capacity, b.tokens+elapsedMs*b.refillRatePerMs)
	b.lastRefillAt = now
}

// Consume takes n tokens or fails with a RateLimitError carrying the wait
// until n tokens will be available. It never blocks; waiting is the caller's
// job (usually the Executor's).
func (b *TokenBucket) Consume(n float64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if math.IsInf(b.refillRatePerMs, 1) {
		return nil
	}

	b.refill()
	if n <= b.tokens {
		b.tokens -= n
		return nil
	}

	waitMs := math.Ceil((n - b.tokens) / b.refillRatePerMs)
	return &apierrors.RateLimitError{
		Message:    fmt.Sprintf("rate limit exceeded: requested %g tokens, %g available", n, b.tokens),
		RetryAfter: time.Duration(waitMs) * time.Millisecond,
	}
}

// CanConsume reports whether n tokens are available right now without taking
// any. Refill bookkeeping still advances; the token count does not drop.
func (b *TokenBucket) CanConsume(n float64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if math.IsInf(b.refillRatePerMs, 1) {
		return true
	}

	b.refill()
	return n <= b.tokens
}

// Tokens returns the current token count after refill.
func (b *TokenBucket) Tokens() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.refill()
	return b.tokens
}

// Reset restores the bucket to full capacity. Used for operator resets and
// test isolation.
func (b *TokenBucket) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.tokens = b.capacity
	b.lastRefillAt = b.now()
}
