package logger

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNewWritesToConfiguredWriter(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: "info", Writer: &buf})

	logger.Info().Msg("test message")

	assert.Contains(t, buf.String(), "test message")
	assert.Contains(t, buf.String(), `"service":"entangle"`)
}

func TestNewLevels(t *testing.T) {
	testCases := []struct {
		level         string
		expectedLevel zerolog.Level
		name          string
	}{
		{"debug", zerolog.DebugLevel, "debug"},
		{"info", zerolog.InfoLevel, "info"},
		{"warn", zerolog.WarnLevel, "warn"},
		{"error", zerolog.ErrorLevel, "error"},
		{"unknown", zerolog.InfoLevel, "unknown defaults to info"},
		{"", zerolog.InfoLevel, "empty defaults to info"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			logger := New(Config{Level: tc.level})
			assert.Equal(t, tc.expectedLevel, logger.GetLevel())
		})
	}
}

func TestNewDebugSuppressedAtInfoLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: "info", Writer: &buf})

	logger.Debug().Msg("should not appear")

	assert.Empty(t, buf.String())
}

func TestNewLevelsAreIndependent(t *testing.T) {
	var verboseBuf, quietBuf bytes.Buffer
	verbose := New(Config{Level: "debug", Writer: &verboseBuf})
	quiet := New(Config{Level: "error", Writer: &quietBuf})

	verbose.Debug().Msg("debug line")
	quiet.Info().Msg("info line")

	assert.Contains(t, verboseBuf.String(), "debug line")
	assert.Empty(t, quietBuf.String())
}
