package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "STORE_DRIVER", "DB_HOST", "DB_PORT", "DATABASE_DSN", "MIGRATIONS", "STRICT_BALANCE", "LOG_LEVEL", "LOG_FORMAT"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.False(t, cfg.App.StrictBalance)
	assert.Equal(t, "info", cfg.Log.Level)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "host=localhost port=5432 user=paytrack password=paytrack dbname=paytrack sslmode=disable", cfg.Database.DSN())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("STORE_DRIVER", "BOLT")
	t.Setenv("BOLT_PATH", "/tmp/x.bolt")
	t.Setenv("STRICT_BALANCE", "yes")
	t.Setenv("DB_PORT", "not-a-number")
	t.Setenv("DATABASE_DSN", "postgres://u:p@db:5433/pay")
	cfg := Load()
	assert.Equal(t, DriverBolt, cfg.Database.Driver)
	assert.Equal(t, "/tmp/x.bolt", cfg.Database.BoltPath)
	assert.True(t, cfg.App.StrictBalance)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "postgres://u:p@db:5433/pay", cfg.Database.DSN())
}

func TestValidate(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{Driver: "mongo"}, Log: LogConfig{Format: "json"}}
	assert.Error(t, cfg.Validate())

	cfg.Database.Driver = DriverSQLite
	assert.NoError(t, cfg.Validate())

	cfg.App.Migrations = true
	assert.Error(t, cfg.Validate())

	cfg = &Config{Database: DatabaseConfig{Driver: DriverBolt}, Log: LogConfig{Format: "xml"}}
	assert.Error(t, cfg.Validate())
}
