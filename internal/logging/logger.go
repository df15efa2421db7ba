package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"smarterthings-bridge/internal/domain/model"
)

// New builds the process logger. Unknown levels fall back to info.
func New(cfg model.LoggingConfig, version string) zerolog.Logger {
	return newWithWriter(cfg, version, os.Stderr)
}

func newWithWriter(cfg model.LoggingConfig, version string, out io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	w := out
	if cfg.Format == "console" {
		w = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Str("service", "smarterthings-bridge").
		Str("version", version).
		Logger()
}
