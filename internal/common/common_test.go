package common

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/Veraticus/finanhome/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fastRetry = service.RetryOptions{
	MaxAttempts:  3,
	InitialDelay: time.Millisecond,
	MaxDelay:     2 * time.Millisecond,
	Multiplier:   2,
}

func TestWithRetry_SucceedsAfterFailures(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), func() error {
		calls++
		if calls < 3 {
			return Retryable(errors.New("transient"))
		}
		return nil
	}, fastRetry)

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestWithRetry_StopsOnPermanent(t *testing.T) {
	calls := 0
	cause := errors.New("bad key")
	err := WithRetry(context.Background(), func() error {
		calls++
		return Permanent(cause)
	}, fastRetry)

	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, 1, calls)
}

func TestWithRetry_StopsOnUnmarkedError(t *testing.T) {
	calls := 0
	cause := errors.New("failed to parse response: unexpected end of JSON input")
	err := WithRetry(context.Background(), func() error {
		calls++
		return cause
	}, fastRetry)

	assert.Equal(t, cause, err)
	assert.NotErrorIs(t, err, ErrMaxRetries)
	assert.Equal(t, 1, calls)
}

func TestWithRetry_RetriesRateLimit(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), func() error {
		calls++
		if calls == 1 {
			return fmt.Errorf("%w: status 429", ErrRateLimit)
		}
		return nil
	}, fastRetry)

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestWithRetry_ExhaustsAttempts(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), func() error {
		calls++
		return Retryable(errors.New("503"))
	}, fastRetry)

	assert.ErrorIs(t, err, ErrMaxRetries)
	assert.Equal(t, 3, calls)
}

func TestWithRetry_HonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := WithRetry(ctx, func() error {
		return fmt.Errorf("%w: 503", ErrProviderUnavailable)
	}, service.RetryOptions{MaxAttempts: 5, InitialDelay: time.Second})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(ErrRateLimit))
	assert.True(t, IsRetryable(Retryable(errors.New("x"))))
	assert.False(t, IsRetryable(Permanent(errors.New("x"))))
	assert.False(t, IsRetryable(errors.New("plain")))
	assert.True(t, IsRetryable(fmt.Errorf("%w: 503", ErrProviderUnavailable)))
	assert.True(t, IsRetryable(context.DeadlineExceeded))
	assert.False(t, IsRetryable(Permanent(ErrRateLimit)))
}

func TestUserError(t *testing.T) {
	err := NewUserError("could not find transaction", ErrNotFound)
	assert.Equal(t, "could not find transaction: not found", err.Error())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"loud", slog.LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&buf, slog.LevelWarn, "json")
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown", "slot", "hana_txs")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"slot":"hana_txs"`)

	_, err = NewLogger(&buf, slog.LevelInfo, "xml")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestWithRetry_KeepsLastError(t *testing.T) {
	cause := errors.New("503")
	err := WithRetry(context.Background(), func() error {
		return Retryable(cause)
	}, fastRetry)

	assert.ErrorIs(t, err, ErrMaxRetries)
	assert.ErrorIs(t, err, cause)
}

func TestBackoff(t *testing.T) {
	b := newBackoff(service.RetryOptions{InitialDelay: 10 * time.Millisecond, MaxDelay: 35 * time.Millisecond, Multiplier: 2})

	assert.Equal(t, 10*time.Millisecond, b.wait(errors.New("x")))
	assert.Equal(t, 20*time.Millisecond, b.wait(errors.New("x")))
	assert.Equal(t, 35*time.Millisecond, b.wait(errors.New("x")))
	assert.Equal(t, 35*time.Millisecond, b.wait(ErrRateLimit))
}

func TestFriendly(t *testing.T) {
	wrapped := fmt.Errorf("open: %w", NewUserError("🔒 Locked.", ErrMissingConfig))
	assert.Equal(t, "🔒 Locked.", Friendly(wrapped))
	assert.Equal(t, "plain", Friendly(errors.New("plain")))
}
