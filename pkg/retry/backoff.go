package retry

import (
	"context"
	"math"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// newBackOff builds the exponential schedule for a policy. MaxElapsedTime
// is assigned even when zero: zero means no elapsed-time cap, while the
// library default would stop after fifteen minutes.
func newBackOff(ctx context.Context, policy Policy) backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	if policy.InitialInterval > 0 {
		exp.InitialInterval = policy.InitialInterval
	}
	if policy.MaxInterval > 0 {
		exp.MaxInterval = policy.MaxInterval
	}
	if policy.Multiplier > 0 {
		exp.Multiplier = policy.Multiplier
	}
	exp.MaxElapsedTime = policy.MaxElapsedTime

	var b backoff.BackOff = backoff.WithContext(exp, ctx)
	if policy.MaxAttempts > 0 {
		b = backoff.WithMaxRetries(b, uint64(policy.MaxAttempts-1))
	}
	return b
}

// NextDelay reports the nominal delay after the given failed attempt,
// ignoring jitter. Attempts are numbered from 1.
func NextDelay(attempt int, policy Policy) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	interval := policy.InitialInterval
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	multiplier := policy.Multiplier
	if multiplier <= 0 {
		multiplier = 1.5
	}

	delay := time.Duration(float64(interval) * math.Pow(multiplier, float64(attempt-1)))
	if policy.MaxInterval > 0 && delay > policy.MaxInterval {
		return policy.MaxInterval
	}
	return delay
}
