package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("PORT", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Primary.Env)
	assert.Equal(t, "3001", cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSAllowedOrigins)
	assert.Equal(t, DriverMemory, cfg.Store.Driver)
	assert.False(t, cfg.Store.RejectsDuplicateNames())
	assert.Equal(t, "phonebook", cfg.Redis.KeyPrefix)

	require.NotNil(t, cfg.Observability)
	assert.Equal(t, "phonebook", cfg.Observability.ServiceName)
	assert.Equal(t, "development", cfg.Observability.Environment)
	assert.True(t, cfg.Observability.HealthChecks.Enabled)
	assert.Equal(t, 5*time.Second, cfg.Observability.HealthChecks.Timeout)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("PHONEBOOK_PRIMARY__ENV", "production")
	t.Setenv("PHONEBOOK_SERVER__PORT", "8080")
	t.Setenv("PHONEBOOK_SERVER__CORS_ALLOWED_ORIGINS", "http://a.test,http://b.test")
	t.Setenv("PHONEBOOK_STORE__DRIVER", "redis")
	t.Setenv("PHONEBOOK_STORE__DUPLICATE_NAMES", "reject")
	t.Setenv("PHONEBOOK_REDIS__ADDRESS", "cache:6380")
	t.Setenv("PHONEBOOK_OBSERVABILITY__LOGGING__LEVEL", "warn")
	t.Setenv("PHONEBOOK_OBSERVABILITY__HEALTH_CHECKS__TIMEOUT", "2s")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.CORSAllowedOrigins)
	assert.Equal(t, DriverRedis, cfg.Store.Driver)
	assert.True(t, cfg.Store.RejectsDuplicateNames())
	assert.Equal(t, "cache:6380", cfg.Redis.Address)

	// Untouched siblings keep their defaults.
	assert.Equal(t, "phonebook", cfg.Redis.KeyPrefix)
	assert.Equal(t, "json", cfg.Observability.Logging.Format)

	assert.Equal(t, "warn", cfg.Observability.Logging.Level)
	assert.Equal(t, 2*time.Second, cfg.Observability.HealthChecks.Timeout)
	assert.Equal(t, "production", cfg.Observability.Environment)
	assert.True(t, cfg.Observability.IsProduction())
}

func TestLoadConfigPort(t *testing.T) {
	t.Run("bare PORT is honoured", func(t *testing.T) {
		t.Setenv("PORT", "4000")

		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, "4000", cfg.Server.Port)
	})

	t.Run("explicit server port wins", func(t *testing.T) {
		t.Setenv("PORT", "4000")
		t.Setenv("PHONEBOOK_SERVER__PORT", "5000")

		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, "5000", cfg.Server.Port)
	})
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{
			name: "unknown store driver",
			env:  map[string]string{"PHONEBOOK_STORE__DRIVER": "mongo"},
		},
		{
			name: "unknown duplicate policy",
			env:  map[string]string{"PHONEBOOK_STORE__DUPLICATE_NAMES": "sometimes"},
		},
		{
			name: "postgres with invalid port",
			env: map[string]string{
				"PHONEBOOK_STORE__DRIVER":  "postgres",
				"PHONEBOOK_DATABASE__PORT": "0",
			},
		},
		{
			name: "bad log level",
			env:  map[string]string{"PHONEBOOK_OBSERVABILITY__LOGGING__LEVEL": "loud"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "server.port", envKey("PHONEBOOK_SERVER__PORT"))
	assert.Equal(t, "store.duplicate_names", envKey("PHONEBOOK_STORE__DUPLICATE_NAMES"))
	assert.Equal(t, "observability.new_relic.license_key", envKey("PHONEBOOK_OBSERVABILITY__NEW_RELIC__LICENSE_KEY"))
}

func TestEnvValue(t *testing.T) {
	key, value := envValue("PHONEBOOK_SERVER__CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test,")
	assert.Equal(t, "server.cors_allowed_origins", key)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, value)

	key, value = envValue("PHONEBOOK_SERVER__PORT", "8080")
	assert.Equal(t, "server.port", key)
	assert.Equal(t, "8080", value)
}

func TestDatabaseDSN(t *testing.T) {
	d := DatabaseConfig{
		Host:     "::1",
		Port:     5432,
		User:     "phonebook",
		Password: "p@ss word",
		Name:     "phonebook",
		SSLMode:  "disable",
	}

	assert.Equal(t, "postgres://phonebook:p%40ss+word@[::1]:5432/phonebook?sslmode=disable", d.DSN())
}

func TestObservabilityGetLogLevel(t *testing.T) {
	cfg := DefaultObservabilityConfig()
	cfg.Logging.Level = ""

	assert.Equal(t, "debug", cfg.GetLogLevel())

	cfg.Environment = "production"
	assert.Equal(t, "info", cfg.GetLogLevel())

	cfg.Logging.Level = "error"
	assert.Equal(t, "error", cfg.GetLogLevel())
}
