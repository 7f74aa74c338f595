// Package logging configures the engine's structured logger.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup configures the global zerolog logger and returns it. level is
// one of zerolog's level strings ("debug", "info", "warn", ...); an
// unrecognized level falls back to info. When console is true the
// output is human-readable, otherwise JSON.
func Setup(level string, console bool) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	var out io.Writer = os.Stderr
	if console {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}
	log.Logger = zerolog.New(out).With().Timestamp().Str("app", "nexus").Logger()
	return log.Logger
}

// Component returns a child of the global logger tagged with a
// component name.
func Component(name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}
