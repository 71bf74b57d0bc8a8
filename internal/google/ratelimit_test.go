package google

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRateLimiter_KnownService(t *testing.T) {
	limiter := NewRateLimiter(ServiceSheets)

	require.NotNil(t, limiter)
	assert.Equal(t, ServiceSheets, limiter.service)
	assert.True(t, limiter.Allow(), "fresh limiter should allow a burst request")
}

func TestNewRateLimiter_UnknownServiceFallsBack(t *testing.T) {
	limiter := NewRateLimiter(ServiceType("unknown"))

	require.NotNil(t, limiter)
	assert.True(t, limiter.Allow())
}

func TestRateLimiter_AllowExhaustsBurst(t *testing.T) {
	limiter := NewRateLimiterWithConfig(RateLimitConfig{RequestsPerSecond: 0.001, BurstSize: 2})

	assert.True(t, limiter.Allow())
	assert.True(t, limiter.Allow())
	assert.False(t, limiter.Allow(), "burst exhausted, next request should be denied")
}

func TestRateLimiter_RecordRateLimitErrorBlocksAllow(t *testing.T) {
	limiter := NewRateLimiterWithConfig(RateLimitConfig{RequestsPerSecond: 100, BurstSize: 10})

	limiter.RecordRateLimitError(30)

	assert.False(t, limiter.Allow(), "requests should be denied during backoff window")
}

func TestRateLimiter_WaitHonoursContextDuringBackoff(t *testing.T) {
	limiter := NewRateLimiterWithConfig(RateLimitConfig{RequestsPerSecond: 100, BurstSize: 10})
	limiter.RecordRateLimitError(60)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := limiter.Wait(ctx)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRateLimiter_WaitAllowsWithinBudget(t *testing.T) {
	limiter := NewRateLimiterWithConfig(RateLimitConfig{RequestsPerSecond: 100, BurstSize: 10})

	err := limiter.Wait(context.Background())

	require.NoError(t, err)
}
