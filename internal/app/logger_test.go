package app

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/felixgeelhaar/pacer/pkg/config"
)

func TestNewLogger_Levels(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		level   string
		verbose bool
		debug   bool
		info    bool
	}{
		{name: "default", level: "", debug: false, info: true},
		{name: "configured debug", level: "debug", debug: true, info: true},
		{name: "configured error", level: "error", debug: false, info: false},
		{name: "verbose overrides", level: "error", verbose: true, debug: true, info: true},
		{name: "unknown falls back to info", level: "chatty", debug: false, info: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.LogLevel = tt.level

			logger := NewLogger(cfg, "1.2.3", tt.verbose)
			assert.Equal(t, tt.debug, logger.Enabled(ctx, slog.LevelDebug))
			assert.Equal(t, tt.info, logger.Enabled(ctx, slog.LevelInfo))
		})
	}
}

func TestNewLogger_FollowsBootstrapConfig(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("LOG_LEVEL", "warn")

	logger := NewLogger(config.Bootstrap(), "dev", false)
	assert.False(t, logger.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, logger.Enabled(context.Background(), slog.LevelWarn))
}
