package logger_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/avoronin/task-tracker/internal/config"
	"github.com/avoronin/task-tracker/internal/platform/logger"
)

func TestSetup(t *testing.T) {
	tests := []struct {
		name     string
		logLevel string
	}{
		{"debug_level", "debug"},
		{"info_level", "info"},
		{"warn_level", "warn"},
		{"error_level", "error"},
		{"invalid_level_falls_back", "verbose"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := logger.Setup(config.ServerConfig{LogLevel: tt.logLevel})
			assert.NoError(t, err)
			assert.NotNil(t, log)
		})
	}
}

func TestFromContextOrDefault(t *testing.T) {
	fallback := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctxLogger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("context_with_logger", func(t *testing.T) {
		ctx := logger.WithLogger(context.Background(), ctxLogger)
		assert.Equal(t, ctxLogger, logger.FromContextOrDefault(ctx, fallback))
	})

	t.Run("context_without_logger_returns_fallback", func(t *testing.T) {
		assert.Equal(t, fallback, logger.FromContextOrDefault(context.Background(), fallback))
	})

	t.Run("nil_fallback_returns_default", func(t *testing.T) {
		assert.Equal(t, slog.Default(), logger.FromContextOrDefault(context.Background(), nil))
	})
}

func TestWithLogger(t *testing.T) {
	t.Run("nil_logger_panics", func(t *testing.T) {
		assert.Panics(t, func() {
			logger.WithLogger(context.Background(), nil)
		})
	})

	t.Run("round_trip", func(t *testing.T) {
		custom := slog.New(slog.NewTextHandler(io.Discard, nil))
		ctx := logger.WithLogger(context.Background(), custom)
		assert.Equal(t, custom, logger.FromContext(ctx))
	})
}
