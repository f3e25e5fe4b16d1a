package ingestion

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()

	t.Run("succeeds first try", func(t *testing.T) {
		calls := 0
		err := RetryWithBackoff(ctx, func() error {
			calls++
			return nil
		}, 3, time.Millisecond)
		require.NoError(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("succeeds after failures", func(t *testing.T) {
		calls := 0
		err := RetryWithBackoff(ctx, func() error {
			calls++
			if calls < 3 {
				return errors.New("transient")
			}
			return nil
		}, 5, time.Millisecond)
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("returns last error when exhausted", func(t *testing.T) {
		calls := 0
		lastErr := errors.New("still broken")
		err := RetryWithBackoff(ctx, func() error {
			calls++
			return lastErr
		}, 3, time.Millisecond)
		assert.Equal(t, lastErr, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("invalid max attempts", func(t *testing.T) {
		err := RetryWithBackoff(ctx, func() error { return nil }, 0, time.Millisecond)
		assert.Equal(t, ErrInvalidMaxAttempts, err)
	})

	t.Run("cancelled context stops retries", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(context.Background())
		cancel()

		calls := 0
		err := RetryWithBackoff(cancelled, func() error {
			calls++
			return errors.New("never seen")
		}, 3, time.Millisecond)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Zero(t, calls)
	})

	t.Run("cancellation during backoff", func(t *testing.T) {
		timed, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		err := RetryWithBackoff(timed, func() error {
			return errors.New("transient")
		}, 5, time.Second)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}
