package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/phonebook/internal/config"
)

func TestNewLoggerJSON(t *testing.T) {
	cfg := config.DefaultObservabilityConfig()
	cfg.Environment = "production"
	cfg.Logging.Level = "warn"

	svc := NewLoggerService(cfg)
	require.Nil(t, svc.GetApplication())

	var out bytes.Buffer
	log := newLogger(&out, cfg, svc)

	log.Info().Msg("dropped")
	log.Warn().Str("person_id", "abc").Msg("kept")

	var line map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &line))
	assert.Equal(t, "kept", line["message"])
	assert.Equal(t, "warn", line["level"])
	assert.Equal(t, "phonebook", line["service"])
	assert.Equal(t, "production", line["environment"])
	assert.Equal(t, "abc", line["person_id"])
}

func TestNewLoggerConsole(t *testing.T) {
	cfg := config.DefaultObservabilityConfig()
	cfg.Logging.Format = "console"

	var out bytes.Buffer
	log := newLogger(&out, cfg, &LoggerService{})
	log.Info().Msg("hello")

	assert.Contains(t, out.String(), "hello")
	assert.False(t, json.Valid(out.Bytes()))
}

func TestGetPgxTraceLogLevel(t *testing.T) {
	assert.Equal(t, int(tracelog.LogLevelDebug), GetPgxTraceLogLevel(zerolog.DebugLevel))
	assert.Equal(t, int(tracelog.LogLevelError), GetPgxTraceLogLevel(zerolog.ErrorLevel))
	assert.Equal(t, int(tracelog.LogLevelNone), GetPgxTraceLogLevel(zerolog.Disabled))
}

func TestWithTraceContextNilTransaction(t *testing.T) {
	var out bytes.Buffer
	log := WithTraceContext(zerolog.New(&out), nil)
	log.Info().Msg("x")

	assert.NotContains(t, out.String(), "trace.id")
}
