// Package logging configures the process-wide zerolog logger.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// Setup returns a logger writing human-readable output to stderr. When
// logDir is non-empty, output is duplicated into a date-named file inside
// it (logs/2006-01-02.log), one file per day.
func Setup(component, logDir string) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	var w io.Writer = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	if logDir != "" {
		_ = os.MkdirAll(logDir, 0o755)
		name := filepath.Join(logDir, time.Now().Format("2006-01-02")+".log")
		if f, err := os.OpenFile(name, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644); err == nil {
			w = zerolog.MultiLevelWriter(w, f)
		}
		// A missing/unwritable log directory never blocks a run.
	}

	return zerolog.New(w).With().
		Timestamp().
		Str("component", component).
		Logger()
}
