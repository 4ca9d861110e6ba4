// Package log is poselink's structured logging front-end over slog.
package log

import (
	"log/slog"
	"os"
	"sync"
)

var (
	logger *slog.Logger
	once   sync.Once
)

// Init configures the process-wide logger. The first call wins; later
// calls are no-ops. Unknown levels fall back to info.
func Init(level string) {
	once.Do(func() {
		var lvl slog.Level
		switch level {
		case "debug":
			lvl = slog.LevelDebug
		case "warn":
			lvl = slog.LevelWarn
		case "error":
			lvl = slog.LevelError
		default:
			lvl = slog.LevelInfo
		}

		opts := &slog.HandlerOptions{Level: lvl}

		// JSON in production, text everywhere else
		if os.Getenv("GO_ENV") == "production" {
			logger = slog.New(slog.NewJSONHandler(os.Stdout, opts))
		} else {
			logger = slog.New(slog.NewTextHandler(os.Stdout, opts))
		}

		slog.SetDefault(logger)
	})
}

func l() *slog.Logger {
	if logger == nil {
		Init("info")
	}
	return logger
}

// Debug logs at debug level.
func Debug(msg string, args ...any) {
	l().Debug(msg, args...)
}

// Info logs at info level.
func Info(msg string, args ...any) {
	l().Info(msg, args...)
}

// Warn logs at warn level.
func Warn(msg string, args ...any) {
	l().Warn(msg, args...)
}

// Error logs at error level.
func Error(msg string, args ...any) {
	l().Error(msg, args...)
}
