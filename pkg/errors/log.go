package errors

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LogHandler is a Handler that writes errors through the global
// zerolog logger. Expected kinds (unresolved lookups, missing change
// notification) log at warning level; everything else is an error.
type LogHandler struct {
	// Verbose enables detailed output including stack traces.
	Verbose bool
}

// HandleError logs an Error at a level derived from its kind.
func (h *LogHandler) HandleError(err *Error) {
	if err == nil {
		return
	}
	var ev *zerolog.Event
	if err.Kind.Expected() {
		ev = log.Warn()
	} else {
		ev = log.Error()
	}
	ev = ev.Str("op", err.Op).Stringer("kind", err.Kind)
	if err.Component != "" {
		ev = ev.Str("component", err.Component)
	}
	if h.Verbose && err.StackTrace != "" {
		ev = ev.Str("stack", err.StackTrace)
	}
	ev.Err(err.Err).Msg("engine error")
}

// HandlePanic logs a recovered panic.
func (h *LogHandler) HandlePanic(err *PanicError) {
	if err == nil {
		return
	}
	ev := log.Error().Interface("value", err.Value)
	if err.Op != "" {
		ev = ev.Str("op", err.Op)
	}
	if h.Verbose && err.StackTrace != "" {
		ev = ev.Str("stack", err.StackTrace)
	}
	ev.Msg("recovered panic")
}
