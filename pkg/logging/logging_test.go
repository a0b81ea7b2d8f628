package logging

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/natefinch/lumberjack.v2"
)

func TestOutput(t *testing.T) {
	assert.Equal(t, io.Discard, Output(""))
	assert.Equal(t, os.Stderr, Output("stderr"))

	path := filepath.Join(t.TempDir(), "logs", "reader.log")
	w, ok := Output(path).(*lumberjack.Logger)
	require.True(t, ok)
	assert.Equal(t, path, w.Filename)
}

func TestSetupWritesToFile(t *testing.T) {
	prev := log.Logger
	t.Cleanup(func() { log.Logger = prev })

	path := filepath.Join(t.TempDir(), "reader.log")
	logger := Setup(path, "debug")
	assert.Equal(t, zerolog.DebugLevel, logger.GetLevel())

	log.Debug().Str("chapter", "c1").Msg("restored")

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"chapter":"c1"`)
	assert.Contains(t, string(raw), "restored")
}

func TestSetupUnknownLevel(t *testing.T) {
	prev := log.Logger
	t.Cleanup(func() { log.Logger = prev })

	logger := Setup("", "chatty")
	assert.Equal(t, zerolog.InfoLevel, logger.GetLevel())
}
