package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfigContent = `
[development]
port = 8080
log_level = "trace"
log_to_stdout = true
postgres_host = "localhost"
postgres_port = "5432"
postgres_db_name = "momentum_dev"
redis_host = "localhost"
redis_port = "6379"
login_rate_limit_allowed_per_min = 5
timezone = "Europe/Berlin"

[production]
port = 9000
log_level = "debug"
logs_path = "/var/log/momentum/service.log"
postgres_host = "db"
postgres_port = "5432"
postgres_db_name = "momentum"
redis_host = "redis"
redis_port = "6379"
login_rate_limit_allowed_per_min = 5
timezone = "Europe/Berlin"
sentry_enabled = true
`

func writeTestConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(testConfigContent), 0o600))
	return path
}

func TestLoad_Development(t *testing.T) {
	cfg, err := Load("development", writeTestConfig(t))
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "trace", cfg.LogLevel)
	assert.True(t, cfg.LogToStdout)
	assert.Equal(t, "momentum_dev", cfg.PostgresDBName)
	assert.Equal(t, "Europe/Berlin", cfg.Timezone)
	assert.Equal(t, "development", cfg.Environment)
	assert.False(t, cfg.SentryEnabled)
}

func TestLoad_Production(t *testing.T) {
	cfg, err := Load("prod", writeTestConfig(t))
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "momentum", cfg.PostgresDBName)
	assert.True(t, cfg.SentryEnabled)
}

func TestLoad_UnknownEnv(t *testing.T) {
	cfg, err := Load("staging", writeTestConfig(t))
	require.Error(t, err)
	assert.Nil(t, cfg)
}
