package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/leefowlercu/graphiti-claude-integration/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestSetup_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "installer.log")

	logger, closer, err := Setup(config.LoggingConfig{Level: "debug", Format: "json", LogFile: path})
	require.NoError(t, err)

	logger.Debug("copied hook", "path", "/x/a.py")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"copied hook"`)
	assert.Contains(t, string(data), `"path":"/x/a.py"`)
}

func TestSetup_RespectsLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "installer.log")

	logger, closer, err := Setup(config.LoggingConfig{Level: "warn", Format: "text", LogFile: path})
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), "shown")
}

func TestSetup_NoFile(t *testing.T) {
	logger, closer, err := Setup(config.LoggingConfig{Level: "info", Format: "text"})
	require.NoError(t, err)
	require.NotNil(t, logger)
	assert.NoError(t, closer.Close())
}
