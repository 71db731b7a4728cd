package retry

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "tally/pkg/errors"
)

func fastPolicy(maxAttempts int) Policy {
	return Policy{
		MaxAttempts:     maxAttempts,
		InitialInterval: 1 * time.Millisecond,
		MaxInterval:     5 * time.Millisecond,
		Multiplier:      2.0,
	}
}

func TestDoSucceedsFirstAttempt(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastPolicy(3), func() error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoRetriesUntilSuccess(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastPolicy(5), func() error {
		calls++
		if calls < 3 {
			return fmt.Errorf("transient failure %d", calls)
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoExhaustsAttempts(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastPolicy(3), func() error {
		calls++
		return fmt.Errorf("still failing")
	})
	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.Contains(t, err.Error(), "still failing")
}

func TestDoStopsOnFatalError(t *testing.T) {
	// A malformed message never parses better on the next attempt.
	calls := 0
	err := Do(context.Background(), fastPolicy(5), func() error {
		calls++
		return pkgerrors.ErrMalformedInput
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.True(t, pkgerrors.IsMalformedInput(err))
}

func TestDoStopsOnDuplicate(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastPolicy(5), func() error {
		calls++
		return pkgerrors.ErrDuplicate
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.True(t, pkgerrors.IsDuplicate(err))
}

func TestDoRetriesTypedWriteError(t *testing.T) {
	// WRITE_ERROR is transient: a typed error must not short-circuit
	// the loop unless it declares itself fatal.
	calls := 0
	err := Do(context.Background(), fastPolicy(3), func() error {
		calls++
		return pkgerrors.Wrap(fmt.Errorf("connection refused"), pkgerrors.ErrWriteError)
	})
	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.True(t, pkgerrors.IsWriteError(err))
}

func TestDoStopsOnExplicitFatal(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastPolicy(5), func() error {
		calls++
		return pkgerrors.ErrInternal.AsFatal()
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoSingleAttempt(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastPolicy(1), func() error {
		calls++
		return fmt.Errorf("no second chance")
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoWithNotify(t *testing.T) {
	type notification struct {
		attempt int
		delay   time.Duration
	}
	var notified []notification

	calls := 0
	err := DoWithNotify(context.Background(), fastPolicy(3), func() error {
		calls++
		if calls < 3 {
			return fmt.Errorf("attempt %d failed", calls)
		}
		return nil
	}, func(attempt int, err error, nextDelay time.Duration) {
		notified = append(notified, notification{attempt: attempt, delay: nextDelay})
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)

	require.Len(t, notified, 2)
	assert.Equal(t, 1, notified[0].attempt)
	assert.Equal(t, 2, notified[1].attempt)
	assert.Greater(t, notified[1].delay, notified[0].delay)
}

func TestDoWithNotifySilentOnFinalFailure(t *testing.T) {
	// Notify announces an upcoming retry; the last attempt has none.
	notifications := 0
	err := DoWithNotify(context.Background(), fastPolicy(2), func() error {
		return fmt.Errorf("always failing")
	}, func(attempt int, err error, nextDelay time.Duration) {
		notifications++
	})
	require.Error(t, err)
	assert.Equal(t, 1, notifications)
}

func TestDoHonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := Do(ctx, fastPolicy(5), func() error {
		calls++
		return fmt.Errorf("transient")
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestNewRetryableError(t *testing.T) {
	assert.Nil(t, NewRetryableError(nil))

	wrapped := NewRetryableError(fmt.Errorf("boom"))
	require.NotNil(t, wrapped)
	assert.True(t, wrapped.IsRetryable())
	assert.Equal(t, "boom", wrapped.Error())
}

func TestNextDelay(t *testing.T) {
	policy := Policy{
		InitialInterval: 100 * time.Millisecond,
		MaxInterval:     300 * time.Millisecond,
		Multiplier:      2.0,
	}

	tests := []struct {
		name    string
		attempt int
		want    time.Duration
	}{
		{name: "first attempt", attempt: 1, want: 100 * time.Millisecond},
		{name: "second attempt doubles", attempt: 2, want: 200 * time.Millisecond},
		{name: "third attempt capped", attempt: 3, want: 300 * time.Millisecond},
		{name: "far attempt stays capped", attempt: 10, want: 300 * time.Millisecond},
		{name: "zero attempt treated as first", attempt: 0, want: 100 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextDelay(tt.attempt, policy))
		})
	}
}

func TestNextDelayDefaults(t *testing.T) {
	assert.Equal(t, 500*time.Millisecond, NextDelay(1, Policy{}))
	assert.Equal(t, 750*time.Millisecond, NextDelay(2, Policy{}))
}
