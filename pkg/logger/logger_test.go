package logger

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewWritesErrorAndCombinedFiles(t *testing.T) {
	dir := t.TempDir()
	errorFile := filepath.Join(dir, "error.log")
	combinedFile := filepath.Join(dir, "combined.log")

	log, err := New(Config{Level: "info", Encoding: "json", ErrorFile: errorFile, CombinedFile: combinedFile})
	require.NoError(t, err)

	log.Info("tasks retrieved", zap.Int("count", 3))
	log.Error("error creating task", zap.String("error", "boom"))
	_ = log.Sync()

	combined, err := os.ReadFile(combinedFile)
	require.NoError(t, err)
	assert.Contains(t, string(combined), "tasks retrieved")
	assert.Contains(t, string(combined), "error creating task")

	errors, err := os.ReadFile(errorFile)
	require.NoError(t, err)
	assert.NotContains(t, string(errors), "tasks retrieved")
	assert.Contains(t, string(errors), "error creating task")
	assert.Contains(t, string(errors), `"timestamp"`)
}

func TestNewFailsOnUnwritableCombinedFile(t *testing.T) {
	dir := t.TempDir()
	errorFile := filepath.Join(dir, "error.log")
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	log, err := New(Config{Level: "info", ErrorFile: errorFile, CombinedFile: filepath.Join(blocker, "combined.log")})
	require.Error(t, err)
	assert.Nil(t, log)
	assert.FileExists(t, errorFile)
}

func TestNewWithoutFiles(t *testing.T) {
	log, err := New(Config{Level: "not-a-level"})
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zap.InfoLevel))
	assert.False(t, log.Core().Enabled(zap.DebugLevel))
}

func TestWithRequestID(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	base := zap.New(core)

	ctx := ContextWithRequestID(context.Background(), "req-42")
	assert.Equal(t, "req-42", RequestID(ctx))

	WithRequestID(ctx, base).Info("hello")
	WithRequestID(context.Background(), base).Info("plain")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "req-42", entries[0].ContextMap()["request_id"])
	assert.NotContains(t, entries[1].ContextMap(), "request_id")
}
