package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	for _, key := range []string{"PORT", "SERVER_PORT", "STORE_DRIVER", "MONGODB_URI", "DATABASE_URL", "DB_PASSWORD", "REQUEST_TIMEOUT_SECONDS"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "3000", cfg.HTTP.Port)
	assert.Equal(t, "0.0.0.0:3000", cfg.Address())
	assert.Equal(t, DriverMongo, cfg.Store.Driver)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Mongo.URI)
	assert.Equal(t, "tasks", cfg.Mongo.Collection)
	assert.Equal(t, "error.log", cfg.Logger.ErrorFile)
	assert.Equal(t, "combined.log", cfg.Logger.CombinedFile)
	assert.Equal(t, "public", cfg.HTTP.StaticDir)
	assert.Zero(t, cfg.Context.RequestTimeout)
	assert.Equal(t, "postgres://tasks:@localhost:5432/tasks?sslmode=disable", cfg.Database.URL)
}

func TestLoadFromEnvironment(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("PORT", "8081")
	t.Setenv("MONGODB_URI", "mongodb://db.internal:27017")
	t.Setenv("STORE_DRIVER", "bolt")
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "7")
	t.Setenv("HEALTH_INTERVAL", "30s")
	t.Setenv("DATABASE_URL", "postgres://u:p@pg:5432/x")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8081", cfg.HTTP.Port)
	assert.Equal(t, "mongodb://db.internal:27017", cfg.Mongo.URI)
	assert.Equal(t, DriverBolt, cfg.Store.Driver)
	assert.Equal(t, 7*time.Second, cfg.Context.RequestTimeout)
	assert.Equal(t, 30*time.Second, cfg.Health.Interval)
	assert.Equal(t, "postgres://u:p@pg:5432/x", cfg.Database.URL)
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("STORE_DRIVER", "couch")

	_, err := Load()
	assert.Error(t, err)
}
