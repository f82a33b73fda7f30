package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinearBackOff(t *testing.T) {
	b := &LinearBackOff{Base: 10 * time.Millisecond}

	assert.Equal(t, 10*time.Millisecond, b.NextBackOff())
	assert.Equal(t, 20*time.Millisecond, b.NextBackOff())
	assert.Equal(t, 30*time.Millisecond, b.NextBackOff())

	b.Reset()
	assert.Equal(t, 10*time.Millisecond, b.NextBackOff())
}

func TestWithRetry(t *testing.T) {
	t.Run("SucceedsAfterKFailures", func(t *testing.T) {
		const k = 2
		calls := 0
		result, err := WithRetry(func() (string, error) {
			calls++
			if calls <= k {
				return "", errors.New("transient")
			}
			return "ok", nil
		}, 5, time.Millisecond)

		require.NoError(t, err)
		assert.Equal(t, "ok", result)
		assert.Equal(t, k+1, calls, "should perform exactly k+1 calls")
	})

	t.Run("SurfacesLastError", func(t *testing.T) {
		calls := 0
		lastErr := errors.New("attempt 3 failed")
		_, err := WithRetry(func() (int, error) {
			calls++
			if calls < 3 {
				return 0, errors.New("earlier failure")
			}
			return 0, lastErr
		}, 3, time.Millisecond)

		require.Error(t, err)
		assert.Equal(t, lastErr, err)
		assert.Equal(t, 3, calls, "should not exceed the attempt budget")
	})

	t.Run("FirstTrySuccess", func(t *testing.T) {
		calls := 0
		result, err := WithRetry(func() (int, error) {
			calls++
			return 42, nil
		}, 3, time.Millisecond)

		require.NoError(t, err)
		assert.Equal(t, 42, result)
		assert.Equal(t, 1, calls)
	})

	t.Run("ZeroAttemptsClampedToOne", func(t *testing.T) {
		calls := 0
		_, err := WithRetry(func() (int, error) {
			calls++
			return 0, errors.New("boom")
		}, 0, time.Millisecond)

		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})
}
