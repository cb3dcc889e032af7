package logger

import (
	"context"
	"log/slog"
	"testing"

	"github.com/phrazzld/study-assistant/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		level slog.Level
		ok    bool
	}{
		{"debug", slog.LevelDebug, true},
		{"INFO", slog.LevelInfo, true},
		{" warn ", slog.LevelWarn, true},
		{"error", slog.LevelError, true},
		{"verbose", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
	}

	for _, tt := range tests {
		level, ok := ParseLevel(tt.name)
		assert.Equal(t, tt.level, level, tt.name)
		assert.Equal(t, tt.ok, ok, tt.name)
	}
}

func TestSetup(t *testing.T) {
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })

	buf := &TestLogBuffer{}
	log := setup(buf, config.ServerConfig{LogLevel: "warn"})
	require.NotNil(t, log)
	assert.Same(t, log, slog.Default())

	log.Info("dropped")
	log.Warn("kept", "attempt", 2)

	entries, err := buf.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "kept", entries[0]["msg"])
	assert.Equal(t, "WARN", entries[0]["level"])
	assert.InDelta(t, 2, entries[0]["attempt"], 0)
}

func TestSetupInvalidLevelFallsBackToInfo(t *testing.T) {
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })

	buf := &TestLogBuffer{}
	log := setup(buf, config.ServerConfig{LogLevel: "chatty"})

	log.Debug("dropped")
	log.Info("kept")

	AssertLogContains(t, buf, "kept")
	assert.NotContains(t, buf.String(), "dropped")
}

func TestFromContextOrDefault(t *testing.T) {
	t.Parallel()

	fallback, _ := GetTestLogger(t)
	custom, _ := GetTestLogger(t)

	tests := []struct {
		name     string
		ctx      context.Context
		expected *slog.Logger
	}{
		{
			name:     "nil_context_returns_fallback",
			ctx:      nil,
			expected: fallback,
		},
		{
			name:     "context_without_logger_returns_fallback",
			ctx:      context.Background(),
			expected: fallback,
		},
		{
			name:     "context_with_logger_returns_context_logger",
			ctx:      WithLogger(context.Background(), custom),
			expected: custom,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			//nolint:staticcheck // nil context is part of the contract under test
			assert.Same(t, tt.expected, FromContextOrDefault(tt.ctx, fallback))
		})
	}
}

func TestWithLogger(t *testing.T) {
	t.Parallel()

	t.Run("valid_logger", func(t *testing.T) {
		t.Parallel()

		custom, buf := GetTestLogger(t)
		ctx := WithLogger(context.Background(), custom.With("trace_id", "abc"))

		FromContext(ctx).Info("hello")
		AssertLogField(t, buf, "trace_id", "abc")
	})

	t.Run("missing_logger_returns_default", func(t *testing.T) {
		t.Parallel()

		assert.NotNil(t, FromContext(context.Background()))
	})

	t.Run("nil_logger_panics", func(t *testing.T) {
		t.Parallel()

		assert.Panics(t, func() {
			WithLogger(context.Background(), nil)
		})
	})
}
