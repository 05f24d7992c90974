package logger

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/phrazzld/stock-seo/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func restoreDefault(t *testing.T) {
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })
}

func TestParseLevel(t *testing.T) {
	testCases := []struct {
		input    string
		expected slog.Level
		ok       bool
	}{
		{"debug", slog.LevelDebug, true},
		{"INFO", slog.LevelInfo, true},
		{"warn", slog.LevelWarn, true},
		{"error", slog.LevelError, true},
		{"verbose", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			level, ok := ParseLevel(tc.input)
			assert.Equal(t, tc.expected, level)
			assert.Equal(t, tc.ok, ok)
		})
	}
}

func TestSetup_JSONRespectsLevel(t *testing.T) {
	restoreDefault(t)
	var out bytes.Buffer

	logger, err := setup(config.LogConfig{Level: "warn", Format: "json"}, &out)
	require.NoError(t, err)

	logger.Info("hidden message")
	logger.Warn("visible message", "file_name", "beach.jpg")

	assert.NotContains(t, out.String(), "hidden message")
	assert.Contains(t, out.String(), `"msg":"visible message"`)
	assert.Contains(t, out.String(), `"file_name":"beach.jpg"`)
	assert.Same(t, logger, slog.Default(), "Setup should install the default logger")
}

func TestSetup_InvalidLevelFallsBackToInfo(t *testing.T) {
	restoreDefault(t)
	var out bytes.Buffer

	logger, err := setup(config.LogConfig{Level: "loud", Format: "text"}, &out)
	require.NoError(t, err)

	logger.Debug("debug message")
	logger.Info("info message")

	assert.Contains(t, out.String(), "invalid log level configured")
	assert.NotContains(t, out.String(), "debug message")
	assert.Contains(t, out.String(), "info message")
}

func TestSetup_WritesRotatedFile(t *testing.T) {
	restoreDefault(t)
	var out bytes.Buffer
	path := filepath.Join(t.TempDir(), "logs", "stockseo.log")

	logger, err := setup(config.LogConfig{
		Level:      "info",
		Format:     "json",
		File:       path,
		MaxSizeMB:  1,
		MaxBackups: 1,
		MaxAgeDays: 1,
	}, &out)
	require.NoError(t, err)

	logger.Info("written to both")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to both")
	assert.Contains(t, out.String(), "written to both")
}

func TestContextHelpers(t *testing.T) {
	custom, _ := GetTestLogger(t)
	fallback := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	assert.Nil(t, FromContext(context.Background()))
	assert.Same(t, fallback, FromContextOrDefault(context.Background(), fallback))
	assert.Same(t, slog.Default(), FromContextOrDefault(context.Background(), nil))

	ctx := WithLogger(context.Background(), custom)
	assert.Same(t, custom, FromContext(ctx))
	assert.Same(t, custom, FromContextOrDefault(ctx, fallback))
}

func TestGetTestLogger_CapturesEntries(t *testing.T) {
	logger, buf := GetTestLogger(t)

	logger.Debug("captured", "count", 2)

	entries, err := buf.GetLogEntries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "captured", entries[0]["msg"])
	AssertLogContains(t, buf, `"count":2`)
}
