package retrylimit

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

type statusError int

func (s statusError) Error() string   { return http.StatusText(int(s)) }
func (s statusError) StatusCode() int { return int(s) }

func fastConfig(attempts int) RetryConfig {
	cfg := DefaultRetryConfig()
	cfg.MaxAttempts = attempts
	cfg.InitialDelay = time.Millisecond
	cfg.MaxDelay = 2 * time.Millisecond
	cfg.RateLimitDelay = time.Millisecond
	cfg.Jitter = false
	return cfg
}

func TestWithRetrySucceedsAfterFailures(t *testing.T) {
	calls := 0
	var retried []int
	cfg := fastConfig(5)
	cfg.OnRetry = func(attempt int, err error, wait time.Duration) { retried = append(retried, attempt) }

	err := WithRetryConfig(context.Background(), func() error {
		calls++
		if calls < 3 {
			return statusError(http.StatusBadGateway)
		}
		return nil
	}, nil, cfg)

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []int{1, 2}, retried)
}

func TestWithRetryStopsOnFatal(t *testing.T) {
	calls := 0
	bad := errors.New("bad request")
	err := WithRetryConfig(context.Background(), func() error {
		calls++
		return &FatalError{Err: bad}
	}, nil, fastConfig(5))

	assert.ErrorIs(t, err, bad)
	assert.Equal(t, 1, calls)
}

func TestWithRetryMaxAttempts(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	err := WithRetryConfig(context.Background(), func() error {
		calls++
		return boom
	}, nil, fastConfig(3))

	assert.ErrorIs(t, err, ErrAttemptsExceeded)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 3, calls)
}

func TestWithRetryHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := WithRetryConfig(ctx, func() error { return nil }, nil, fastConfig(3))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLimiterSlowsDownOnRateLimit(t *testing.T) {
	lim := NewAdaptiveLimiter(8, 1, 10, 1, 0.5)
	calls := 0
	err := WithRetryConfig(context.Background(), func() error {
		calls++
		if calls == 1 {
			return statusError(http.StatusTooManyRequests)
		}
		return nil
	}, lim, fastConfig(3))

	require.NoError(t, err)
	assert.Equal(t, 4.0, lim.CurrentLimit(), "success right after a 429 must not raise the rate")
}

func TestLimiterBounds(t *testing.T) {
	lim := NewAdaptiveLimiter(2, 1, 3, 5, 0.1)
	lim.Success()
	assert.Equal(t, 3.0, lim.CurrentLimit())
	lim.RateLimited()
	assert.Equal(t, 1.0, lim.CurrentLimit())
	assert.Equal(t, rate.Limit(1), lim.MinLimit())
	assert.Equal(t, rate.Limit(3), lim.MaxLimit())
}

func TestDefaultConfigWrappers(t *testing.T) {
	calls := 0
	require.NoError(t, WithRetry(context.Background(), func() error {
		calls++
		return nil
	}, nil))
	assert.Equal(t, 1, calls)

	boom := errors.New("bad request")
	err := WithRetryMax(context.Background(), func() error {
		calls++
		return &FatalError{Err: boom}
	}, NewAdaptiveLimiter(5, 1, 10, 1, 0.5), 3)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, calls)
}
