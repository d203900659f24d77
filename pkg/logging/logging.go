// Package logging builds the zerolog logger shared by the commands.
package logging

import (
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/luxfi/ethfixtures/pkg/config"
)

// New returns a logger writing to out. Unknown levels fall back to info.
func New(cfg config.LoggingConfig, out io.Writer) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	if cfg.Format == "console" {
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: "15:04:05.000",
		}
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}
