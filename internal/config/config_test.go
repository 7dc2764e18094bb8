package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[server]
http_port = 9090

[storage]
driver = "memory"
seed_file = "seed.toml"

[locking]
driver = "redis"
redis_addr = "redis:6379"
timeout_ms = 500
ttl_seconds = 5
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, 15, cfg.Server.ReadTimeout, "unset values keep defaults")
	assert.Equal(t, StorageDriverMemory, cfg.Storage.Driver)
	assert.Equal(t, "seed.toml", cfg.Storage.SeedFile)
	assert.Equal(t, LockDriverRedis, cfg.Locking.Driver)
	assert.Equal(t, 500*time.Millisecond, cfg.Locking.Timeout())
	assert.Equal(t, 5*time.Second, cfg.Locking.TTL())
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "7000")
	t.Setenv("DB_HOST", "db")
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("METRICS_ENABLED", "false")

	cfg, err := Load(writeConfig(t, "[server]\nhttp_port = 9090\n"))
	require.NoError(t, err)

	assert.Equal(t, 7000, cfg.Server.HTTPPort)
	assert.Equal(t, "db", cfg.Database.Host)
	assert.Equal(t, StorageDriverMemory, cfg.Storage.Driver)
	assert.False(t, cfg.Metrics.Enabled)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(writeConfig(t, "[server\n"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "[storage]\ndriver = \"sqlite\"\n"))
	assert.ErrorContains(t, err, "storage.driver")

	_, err = Load(writeConfig(t, "[locking]\ndriver = \"redis\"\nredis_addr = \"\"\n"))
	assert.ErrorContains(t, err, "redis_addr")

	t.Setenv("HTTP_PORT", "eighty")
	_, err = Load(writeConfig(t, ""))
	assert.ErrorContains(t, err, "HTTP_PORT")
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{Host: "h", Port: 5433, User: "u", Password: "p", DBName: "n", SSLMode: "disable"}
	assert.Equal(t, "host=h port=5433 user=u password=p dbname=n sslmode=disable", d.DSN())
}
