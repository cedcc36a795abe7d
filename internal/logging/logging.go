// Package logging maps the CLI's verbosity levels onto log/slog handlers.
// The report-building core itself never logs; anything chatty happens at the
// ingestion and rendering boundaries.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// VerbosityLevel defines the logging verbosity.
type VerbosityLevel int

const (
	Verbose VerbosityLevel = iota
	Info
	Warning
	Error
	Off
)

// ParseVerbosity reads a verbosity level name (case-insensitive).
func ParseVerbosity(s string) (VerbosityLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "verbose":
		return Verbose, nil
	case "info":
		return Info, nil
	case "warning":
		return Warning, nil
	case "error":
		return Error, nil
	case "off":
		return Off, nil
	}
	return Info, fmt.Errorf("invalid verbosity level %q (valid: Verbose, Info, Warning, Error, Off)", s)
}

func (v VerbosityLevel) slogLevel() slog.Level {
	switch v {
	case Verbose:
		return slog.LevelDebug
	case Info:
		return slog.LevelInfo
	case Warning:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

// NewLogger builds a text logger writing to w at the given verbosity. Off
// returns a logger that discards everything.
func NewLogger(w io.Writer, verbosity VerbosityLevel) *slog.Logger {
	if verbosity == Off {
		w = io.Discard
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: verbosity.slogLevel()})
	return slog.New(handler)
}
