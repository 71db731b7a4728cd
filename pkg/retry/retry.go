package retry

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryableError and FatalError let an error steer the loop. An error
// implementing neither is retried by default.
type RetryableError interface {
	error
	IsRetryable() bool
}

type FatalError interface {
	error
	IsFatal() bool
}

type retryableError struct {
	err error
}

func (e *retryableError) Error() string     { return e.err.Error() }
func (e *retryableError) IsRetryable() bool { return true }
func (e *retryableError) Unwrap() error     { return e.err }

func NewRetryableError(err error) RetryableError {
	if err == nil {
		return nil
	}
	return &retryableError{err: err}
}

type Policy struct {
	MaxAttempts     int
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64
	MaxElapsedTime  time.Duration
}

// Do runs fn until it succeeds, an error declares itself fatal, or the
// policy is exhausted.
func Do(ctx context.Context, policy Policy, fn func() error) error {
	return DoWithNotify(ctx, policy, fn, nil)
}

// DoWithNotify is Do with a callback invoked before each sleep.
func DoWithNotify(ctx context.Context, policy Policy, fn func() error, notify func(attempt int, err error, nextDelay time.Duration)) error {
	if policy.MaxAttempts <= 0 {
		policy.MaxAttempts = 3
	}

	attempt := 0
	operation := func() error {
		attempt++
		err := fn()
		if err == nil {
			return nil
		}

		var fatalErr FatalError
		if errors.As(err, &fatalErr) && fatalErr.IsFatal() {
			return backoff.Permanent(err)
		}

		var retryableErr RetryableError
		if errors.As(err, &retryableErr) {
			if !retryableErr.IsRetryable() {
				return backoff.Permanent(err)
			}
		} else {
			err = NewRetryableError(err)
		}

		if notify != nil && attempt < policy.MaxAttempts {
			notify(attempt, err, NextDelay(attempt, policy))
		}

		return err
	}

	return backoff.Retry(operation, newBackOff(ctx, policy))
}
