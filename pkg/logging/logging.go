// Package logging routes the global zerolog logger away from the terminal,
// which belongs to the TUI while the reader runs.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Output returns the writer for a log destination. "stderr" and "stdout" are
// honored, an empty destination discards, anything else is a rotating file.
func Output(dest string) io.Writer {
	switch strings.ToLower(dest) {
	case "stderr":
		return os.Stderr
	case "stdout":
		return os.Stdout
	case "", "none":
		return io.Discard
	}
	_ = os.MkdirAll(filepath.Dir(dest), 0o755)
	return &lumberjack.Logger{
		Filename:   dest,
		MaxSize:    10,
		MaxAge:     14,
		MaxBackups: 3,
	}
}

// Setup installs the global logger. Unknown levels fall back to info.
func Setup(dest, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.TimeFieldFormat = time.RFC3339
	logger := zerolog.New(Output(dest)).Level(lvl).With().Timestamp().Logger()
	log.Logger = logger
	zerolog.DefaultContextLogger = &logger
	return logger
}
