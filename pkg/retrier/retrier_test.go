package retrier

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoFirstAttemptSucceeds(t *testing.T) {
	attempts := 0
	err := New().Do(context.Background(), func(ctx context.Context) error {
		attempts++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, attempts)
}

func TestDoRecoversAfterFailures(t *testing.T) {
	r := New(WithMaxRetries(3), WithInitialInterval(time.Millisecond))

	attempts := 0
	err := r.Do(context.Background(), func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return errors.New("transient")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestDoExhaustsBudget(t *testing.T) {
	r := New(WithMaxRetries(2), WithInitialInterval(time.Millisecond))

	attempts := 0
	err := r.Do(context.Background(), func(ctx context.Context) error {
		attempts++
		return errors.New("still down")
	})
	assert.EqualError(t, err, "still down")
	assert.Equal(t, 3, attempts, "initial attempt plus two retries")
}

func TestDoStopsOnContextCancel(t *testing.T) {
	r := New(WithMaxRetries(5), WithInitialInterval(100*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())

	attempts := 0
	err := r.Do(ctx, func(ctx context.Context) error {
		attempts++
		if attempts == 2 {
			cancel()
		}
		return errors.New("fail")
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 2, attempts)
}

func TestDoCapsBackoffInterval(t *testing.T) {
	r := New(
		WithMaxRetries(4),
		WithInitialInterval(time.Millisecond),
		WithMaxInterval(2*time.Millisecond),
	)

	start := time.Now()
	err := r.Do(context.Background(), func(ctx context.Context) error {
		return errors.New("fail")
	})
	assert.Error(t, err)
	// without the cap the doubling sequence alone would pass 15ms
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestDoWithData(t *testing.T) {
	r := New(WithMaxRetries(2), WithInitialInterval(time.Millisecond))

	attempts := 0
	val, err := DoWithData(r, context.Background(), func(ctx context.Context) (int, error) {
		attempts++
		if attempts == 1 {
			return 0, errors.New("transient")
		}
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, val)
}

func TestDoWithDataPropagatesError(t *testing.T) {
	r := New(WithMaxRetries(1), WithInitialInterval(time.Millisecond))

	val, err := DoWithData(r, context.Background(), func(ctx context.Context) (string, error) {
		return "", errors.New("fail")
	})
	assert.Error(t, err)
	assert.Empty(t, val)
}
