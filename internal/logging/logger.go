// Package logging builds the leveled loggers handed to every component.
package logging

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// New creates a [log.Logger] writing to w with timestamps enabled.
//
// The writer defaults to [os.Stderr]. Verbose loggers report debug entries
// and the caller location.
func New(w io.Writer, verbose bool) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	opts := log.Options{ReportTimestamp: true, ReportCaller: verbose, Level: log.InfoLevel}
	if verbose {
		opts.Level = log.DebugLevel
	}
	return log.NewWithOptions(w, opts)
}

// Discard returns a logger that drops every entry. Tests use it.
func Discard() *log.Logger {
	return log.New(io.Discard)
}

// ForRun returns a child logger tagged with a fresh run ID so that entries
// from concurrent invocations sharing a log file can be told apart.
func ForRun(l *log.Logger) (*log.Logger, string) {
	id := uuid.New().String()[:8]
	return l.With("run", id), id
}
