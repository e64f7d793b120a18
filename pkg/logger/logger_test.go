package logger

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBuildsUsableLogger(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "text", cfg: Config{Level: "debug", Format: "text"}},
		{name: "json", cfg: Config{Level: "info", Format: "json"}},
		{name: "sentry fan-out", cfg: Config{Level: "info", Format: "json", SentryEnabled: true}},
		{name: "invalid level falls back", cfg: Config{Level: "nope"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := New(tt.cfg)
			require.NotNil(t, log)

			// Logging through the full handler chain must not panic even
			// when the Sentry SDK was never initialized.
			log.Info("startup", slog.String("component", "test"))
			log.Error("failure", slog.String("component", "test"))
		})
	}
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("info"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warn"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestSetLevelAdjustsExistingLoggers(t *testing.T) {
	log := New(Config{Level: "info", Format: "text"})

	SetLevel("error")
	assert.False(t, log.Enabled(t.Context(), slog.LevelInfo))

	SetLevel("debug")
	assert.True(t, log.Enabled(t.Context(), slog.LevelDebug))
}
