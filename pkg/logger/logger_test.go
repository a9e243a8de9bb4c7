package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		"DEBUG":   zerolog.DebugLevel,
		" info ":  zerolog.InfoLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"":        zerolog.InfoLevel,
		"verbose": zerolog.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestNew_FieldsAndLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: "warn", Output: &buf, Service: "donation-api", Env: "test"})

	log.Info().Msg("dropped")
	log.Warn().Str("user_id", "7").Msg("kept")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "kept", entry["message"])
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "donation-api", entry["service"])
	assert.Equal(t, "test", entry["env"])
	assert.Contains(t, entry, "time")
	assert.NotContains(t, entry, "caller")
}

func TestNew_DebugAddsCaller(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: "debug", Output: &buf})
	log.Debug().Msg("here")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Contains(t, entry["caller"], "logger_test.go")
}

func TestInitGetReset(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	assert.Panics(t, func() { Get() })

	var first, second bytes.Buffer
	Init(Options{Output: &first})
	Init(Options{Output: &second})

	comp := Component("sessions")
	comp.Info().Msg("hello")
	assert.Contains(t, first.String(), `"component":"sessions"`)
	assert.Empty(t, second.String())

	Reset()
	assert.Panics(t, func() { Get() })
}
