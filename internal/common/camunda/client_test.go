package camunda

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	apperrors "kokos-intake/internal/common/errors"
)

var fastRetry = &RetryConfig{
	MaxRetries: 2,
	BaseDelay:  time.Millisecond,
	MaxDelay:   2 * time.Millisecond,
}

func TestWithRetry_RetriesTransientErrors(t *testing.T) {
	calls := 0

	out, err := withRetry(context.Background(), fastRetry, "topology", func(context.Context) (int, error) {
		calls++
		if calls < 3 {
			return 0, status.Error(codes.Unavailable, "connection refused")
		}
		return 3, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, out)
	assert.Equal(t, 3, calls)
}

func TestWithRetry_StopsOnPermanentError(t *testing.T) {
	calls := 0

	_, err := withRetry(context.Background(), fastRetry, "complete-job", func(context.Context) (string, error) {
		calls++
		return "", status.Error(codes.InvalidArgument, "bad job key")
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
	stdErr, ok := apperrors.AsStandardError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorCode("EXTERNAL_SERVICE_ERROR"), stdErr.Code)
}

func TestWithRetry_GivesUpAsTimeout(t *testing.T) {
	calls := 0

	_, err := withRetry(context.Background(), fastRetry, "topology", func(context.Context) (int, error) {
		calls++
		return 0, errors.New("context deadline exceeded")
	})

	require.Error(t, err)
	assert.Equal(t, 3, calls)
	stdErr, ok := apperrors.AsStandardError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorCode("TIMEOUT_ERROR"), stdErr.Code)
	assert.Contains(t, stdErr.Details, "after 3 attempts")
}

func TestWithRetry_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	slow := &RetryConfig{MaxRetries: 5, BaseDelay: time.Hour, MaxDelay: time.Hour}

	_, err := withRetry(ctx, slow, "topology", func(context.Context) (int, error) {
		cancel()
		return 0, status.Error(codes.Unavailable, "gateway down")
	})

	stdErr, ok := apperrors.AsStandardError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorCode("TIMEOUT_ERROR"), stdErr.Code)
	assert.Contains(t, stdErr.Details, "context canceled")
}

func TestIsRetryableZeebeError(t *testing.T) {
	assert.True(t, isRetryableZeebeError(errors.New("connection reset by peer")))
	assert.True(t, isRetryableZeebeError(status.Error(codes.ResourceExhausted, "backpressure")))
	assert.False(t, isRetryableZeebeError(status.Error(codes.NotFound, "job 12 not found")))
	assert.False(t, isRetryableZeebeError(errors.New("NOT_FOUND: job 12 not found")))
}

func TestRetryConfig_DelayCapped(t *testing.T) {
	rc := &RetryConfig{BaseDelay: time.Second, MaxDelay: 5 * time.Second}
	assert.Equal(t, time.Second, rc.delay(0))
	assert.Equal(t, 4*time.Second, rc.delay(2))
	assert.Equal(t, 5*time.Second, rc.delay(3))
}
