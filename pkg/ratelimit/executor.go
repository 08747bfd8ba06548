package ratelimit

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/tradeport/tradeport-go/pkg/apierrors"
)

const (
	DefaultMaxRetries = 3
	DefaultBaseDelay  = time.Second
	DefaultMaxDelay   = 30 * time.Second
)

var logger = log.WithField("component", "ratelimit")

// Executor runs operations through a token bucket with bounded retry.
// Only the throttling signal is retried: a denied admission, or a
// RateLimitError surfaced by the operation itself (an upstream 429). Any
// other operation error propagates on first occurrence, so non-idempotent
// calls such as order placement are never silently repeated.
type Executor struct {
	Bucket *TokenBucket

	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

// NewExecutor builds an executor over bucket with the default retry policy.
func NewExecutor(bucket *TokenBucket) *Executor {
	return &Executor{
		Bucket:     bucket,
		MaxRetries: DefaultMaxRetries,
		BaseDelay:  DefaultBaseDelay,
		MaxDelay:   DefaultMaxDelay,
	}
}

// Do admits one token and runs op. See DoN.
func (e *Executor) Do(ctx context.Context, op func(ctx context.Context) error) error {
	return e.DoN(ctx, 1, op)
}

// DoN attempts up to MaxRetries+1 times: consume tokens from the bucket,
// and when admitted run op exactly once per attempt. Throttling (from the
// bucket or from op) sleeps for the advertised retry-after, falling back to
// exponential backoff, then tries again. Exhausting the attempts surfaces
// the last RateLimitError observed.
func (e *Executor) DoN(ctx context.Context, tokens float64, op func(ctx context.Context) error) error {
	var lastErr error

	for attempt := 0; attempt <= e.MaxRetries; attempt++ {
		err := e.Bucket.Consume(tokens)
		if err != nil {
			denialsTotalMetrics.Inc()
		} else {
			err = op(ctx)
			if err == nil {
				return nil
			}
		}

		if !apierrors.IsRateLimit(err) {
			return err
		}

		lastErr = err
		if attempt == e.MaxRetries {
			break
		}

		delay := e.delayFor(attempt, apierrors.RetryAfter(err))
		retriesTotalMetrics.Inc()
		logger.Debugf("throttled, waiting %s before attempt %d/%d", delay, attempt+2, e.MaxRetries+1)
		if err := sleep(ctx, delay); err != nil {
			return err
		}
	}

	return lastErr
}

func (e *Executor) delayFor(attempt int, retryAfter time.Duration) time.Duration {
	delay := retryAfter
	if delay <= 0 {
		delay = e.BaseDelay << uint(attempt)
	}
	if delay > e.MaxDelay {
		delay = e.MaxDelay
	}
	return delay
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
