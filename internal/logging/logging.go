// Package logging provides structured logging for amistore components.
//
// This package wraps the standard library's log/slog package so that the store,
// the codec backend selector, the snapshot writer and the command line tool log
// consistently. It supports text and JSON output and component-based loggers.
//
// Usage:
//
//	// Initialize at startup
//	logging.Init(slog.LevelInfo, false) // Text format
//	logging.Init(logging.ParseLevel("debug"), true)
//
//	// Get a component logger
//	log := logging.Component("store")
//	log.Debug("persisted", "symbols", 3)
//
// Logs go to stderr; stdout is left to command output.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
)

var logger atomic.Pointer[slog.Logger]

// Init initializes the global logger with the specified level and format.
// If jsonFormat is true, logs are output as JSON; otherwise, human-readable text.
func Init(level slog.Level, jsonFormat bool) {
	InitWithWriter(os.Stderr, level, jsonFormat)
}

// InitWithWriter is Init with a custom destination.
func InitWithWriter(w io.Writer, level slog.Level, jsonFormat bool) {
	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	var handler slog.Handler
	if jsonFormat {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	InitWithHandler(handler)
}

// InitWithHandler initializes the global logger with a custom handler.
// This is useful for testing or custom output destinations.
func InitWithHandler(handler slog.Handler) {
	logger.Store(slog.New(handler))
}

// Logger returns the global logger, initializing it at info level on first use.
func Logger() *slog.Logger {
	if l := logger.Load(); l != nil {
		return l
	}

	logger.CompareAndSwap(nil, slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})))

	return logger.Load()
}

// Component returns a logger for a specific component.
// The component name is added as an attribute to all log entries.
//
// Example:
//
//	log := logging.Component("store")
//	log.Info("opened") // Output: time=... level=INFO component=store msg=opened
func Component(name string) *slog.Logger {
	return Logger().With("component", name)
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// ParseLevel converts string (debug|info|warn|error) to slog.Level. Unknown → info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
