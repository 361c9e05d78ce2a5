package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPoll(t *testing.T) {
	t.Run("Done After Retries", func(t *testing.T) {
		calls := 0
		err := poll(context.Background(), 5*time.Second, func(context.Context) (bool, error) {
			calls++

			return calls == 2, nil
		})
		require.NoError(t, err)
		require.Equal(t, 2, calls)
	})

	t.Run("Hard Failure Stops", func(t *testing.T) {
		calls := 0
		err := poll(context.Background(), 5*time.Second, func(context.Context) (bool, error) {
			calls++

			return false, errors.New("portal asked for credentials")
		})
		require.EqualError(t, err, "portal asked for credentials")
		require.Equal(t, 1, calls)
	})

	t.Run("Times Out", func(t *testing.T) {
		started := time.Now()
		err := poll(context.Background(), 50*time.Millisecond, func(context.Context) (bool, error) {
			return false, nil
		})
		require.ErrorIs(t, err, context.DeadlineExceeded)
		require.ErrorContains(t, err, "gave up after 50ms")
		require.Less(t, time.Since(started), pollInterval)
	})

	t.Run("Caller Cancels", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := poll(ctx, time.Second, func(context.Context) (bool, error) {
			return false, nil
		})
		require.ErrorIs(t, err, context.Canceled)
	})
}
