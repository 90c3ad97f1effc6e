package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/wms-api/pkg/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, 5*time.Second, cfg.DB.LockTimeout())
	assert.Equal(t, "local", cfg.Storage.Driver)
	assert.Equal(t, int64(5<<20), cfg.Upload.MaxAttachmentBytes)
	assert.Equal(t, int64(20<<20), cfg.Upload.MaxImportBytes)
	assert.False(t, cfg.Redis.Enabled())
	assert.Equal(t, 5*time.Minute, cfg.Redis.CacheTTL())
}

func TestLoad_Env(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DB_LOCK_TIMEOUT_MS", "250")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("JOBS_ENABLED", "true")
	t.Setenv("STORAGE_DRIVER", "s3")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, cfg.DB.LockTimeout())
	assert.True(t, cfg.Redis.Enabled())
	assert.True(t, cfg.Jobs.Enabled)
	assert.Equal(t, "s3", cfg.Storage.Driver)
}

func TestLoad_Invalido(t *testing.T) {
	t.Chdir(t.TempDir())

	t.Setenv("STORAGE_DRIVER", "ftp")
	_, err := config.Load()
	assert.Error(t, err)

	t.Setenv("STORAGE_DRIVER", "local")
	t.Setenv("JOBS_ENABLED", "true")
	_, err = config.Load()
	assert.Error(t, err)
}

func TestDSN(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "wms", Password: "p@ss", DBName: "wms", SSLMode: "disable"}
	assert.Equal(t, "postgres://wms:p%40ss@db:5432/wms?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}
