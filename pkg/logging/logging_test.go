package logging

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestSetup_ParsesLevel(t *testing.T) {
	Setup("debug", false)
	if zerolog.GlobalLevel() != zerolog.DebugLevel {
		t.Errorf("expected debug level, got %v", zerolog.GlobalLevel())
	}

	Setup("warn", true)
	if zerolog.GlobalLevel() != zerolog.WarnLevel {
		t.Errorf("expected warn level, got %v", zerolog.GlobalLevel())
	}
}

func TestSetup_UnknownLevelFallsBackToInfo(t *testing.T) {
	Setup("nonsense", false)
	if zerolog.GlobalLevel() != zerolog.InfoLevel {
		t.Errorf("expected info level fallback, got %v", zerolog.GlobalLevel())
	}
}

func TestComponent_ReturnsLogger(t *testing.T) {
	Setup("info", false)
	lg := Component("binding")
	// Smoke check: the child logger must be usable.
	lg.Debug().Msg("suppressed at info level")
}
