package obs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewLogger_WritesRotatedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watcher.log")

	l, closeLog, err := NewLogger(LogConfig{Level: "info", App: "status-watcher", Env: "test", Ver: "1", File: path, MaxSizeMB: 1, MaxBackups: 1})
	require.NoError(t, err)

	l.Info("poll finished", zap.Int64("cursor", 1000))
	l.Debug("hidden below info")
	require.NoError(t, closeLog())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"msg":"poll finished"`)
	assert.Contains(t, string(raw), `"service":"status-watcher"`)
	assert.NotContains(t, string(raw), "hidden below info")
}

func TestNewLogger_BadLevelFallsBackToInfo(t *testing.T) {
	l, closeLog, err := NewLogger(LogConfig{Level: "loud"})
	require.NoError(t, err)
	defer func() { _ = closeLog() }()

	assert.True(t, l.Core().Enabled(zap.InfoLevel))
	assert.False(t, l.Core().Enabled(zap.DebugLevel))
}

func TestNewLogger_CloserReleasesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "watcher.log")

	l, closeLog, err := NewLogger(LogConfig{Level: "info", File: path, MaxSizeMB: 1, MaxBackups: 1})
	require.NoError(t, err)
	l.Info("first")
	require.NoError(t, closeLog())

	// after the handle is released the file can be replaced; a later write reopens the new path
	require.NoError(t, os.Remove(path))
	l.Info("second")
	require.NoError(t, closeLog())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"msg":"second"`)
	assert.NotContains(t, string(raw), `"msg":"first"`)
}

func TestNewLogger_CloserWithoutFile(t *testing.T) {
	_, closeLog, err := NewLogger(LogConfig{Level: "info"})
	require.NoError(t, err)
	assert.NoError(t, closeLog())
}
