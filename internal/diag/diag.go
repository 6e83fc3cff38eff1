// Package diag builds the structured loggers used by the binaries and the
// session diagnostics sink.
package diag

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/pterodash/internal/config"
)

// New creates a logger writing to w. level is one of debug, info, warn,
// error; anything unparsable falls back to info. format selects "json" or
// "logfmt"; the default is the human-readable text format.
func New(w io.Writer, level, format string) *log.Logger {
	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		lvl = log.InfoLevel
	}

	opts := log.Options{
		Level:           lvl,
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
	}
	switch strings.ToLower(format) {
	case "json":
		opts.Formatter = log.JSONFormatter
	case "logfmt":
		opts.Formatter = log.LogfmtFormatter
	default:
		opts.Formatter = log.TextFormatter
	}
	return log.NewWithOptions(w, opts)
}

// FromEnv creates a stderr logger configured by PTERO_LOG_LEVEL and
// PTERO_LOG_FORMAT.
func FromEnv() *log.Logger {
	return New(os.Stderr,
		config.GetEnv("PTERO_LOG_LEVEL", "info"),
		config.GetEnv("PTERO_LOG_FORMAT", "text"),
	)
}

// FileFromEnv is FromEnv for full-screen front-ends, where stderr shares the
// terminal with the game. It appends to PTERO_LOG_FILE, or discards
// everything when that is unset. The returned func closes the file.
func FileFromEnv() (*log.Logger, func(), error) {
	path := config.GetEnv("PTERO_LOG_FILE", "")
	if path == "" {
		return Nop(), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger := New(f,
		config.GetEnv("PTERO_LOG_LEVEL", "info"),
		config.GetEnv("PTERO_LOG_FORMAT", "text"),
	)
	return logger, func() { _ = f.Close() }, nil
}

// Nop returns a logger that discards everything.
func Nop() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}
