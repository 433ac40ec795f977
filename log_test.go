package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewLoggerFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "probe.log")

	l, err := newLogger(false, path)
	require.NoError(t, err)

	l.Info("probe run failed", zap.String("target", "192.0.2.1:5555"))
	l.Debug("suppressed below info")
	l.Sync() //nolint:errcheck

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Contains(t, string(data), `"msg":"probe run failed"`)
	assert.Contains(t, string(data), `"target":"192.0.2.1:5555"`)
	assert.NotContains(t, string(data), "suppressed")
}

func TestNewLoggerConsoleOnly(t *testing.T) {
	l, err := newLogger(true, "")
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zap.DebugLevel))
}
