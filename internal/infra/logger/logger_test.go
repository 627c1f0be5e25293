package logger

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"trace":    zerolog.TraceLevel,
		"debug":    zerolog.DebugLevel,
		" INFO ":   zerolog.InfoLevel,
		"warning":  zerolog.WarnLevel,
		"error":    zerolog.ErrorLevel,
		"off":      zerolog.Disabled,
		"":         zerolog.InfoLevel,
		"nonsense": zerolog.InfoLevel,
	}
	for in, want := range cases {
		assert.Equal(t, want, parseLevel(in), "parseLevel(%q)", in)
	}
}

func TestNewLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(Options{Level: "debug", Format: "json", Component: "api", Writer: &buf})
	l.Debug().Str("k", "v").Msg("hello")

	out := buf.String()
	assert.Contains(t, out, `"component":"api"`)
	assert.Contains(t, out, `"k":"v"`)
	assert.Contains(t, out, `"message":"hello"`)
}

func TestNewLoggerFiltersLevel(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(Options{Level: "warn", Format: "json", Writer: &buf})
	l.Info().Msg("dropped")
	assert.Empty(t, buf.String())
}

func TestGetAndNamed(t *testing.T) {
	require.NotNil(t, Get())
	assert.Same(t, Get(), Get())

	var buf bytes.Buffer
	child := Named("db").Output(&buf).Level(zerolog.InfoLevel)
	child.Info().Msg("x")
	assert.Contains(t, buf.String(), `"component":"db"`)
}
