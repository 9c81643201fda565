// Package logger provides the process-wide structured logger.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

var (
	logger    *slog.Logger
	logLevel  slog.Level
	logFormat string
	once      sync.Once
	mu        sync.RWMutex
)

// Initialize configures the logger from LOG_LEVEL, FANCHAT_DEBUG and
// LOG_FORMAT. It only runs once per process.
func Initialize() {
	once.Do(func() {
		levelStr := os.Getenv("LOG_LEVEL")
		if levelStr == "" {
			levelStr = os.Getenv("FANCHAT_DEBUG")
			if levelStr == "1" || levelStr == "true" {
				levelStr = "DEBUG"
			} else {
				levelStr = "INFO"
			}
		}

		format := strings.ToLower(os.Getenv("LOG_FORMAT"))
		if format == "" {
			format = "text"
		}

		setup(os.Stderr, ParseLevel(levelStr), format)
	})
}

// ParseLevel maps a level name to a slog level. Unknown names map to INFO.
func ParseLevel(s string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func setup(w io.Writer, level slog.Level, format string) {
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		format = "text"
		handler = slog.NewTextHandler(w, opts)
	}

	mu.Lock()
	logger = slog.New(handler)
	logLevel = level
	logFormat = format
	mu.Unlock()
}

// SetOutput replaces the logger's destination. Used by the terminal preview,
// which owns the screen, and by tests.
func SetOutput(w io.Writer, level slog.Level, format string) {
	once.Do(func() {})
	setup(w, level, format)
}

func GetLogger() *slog.Logger {
	Initialize()
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

func GetLevel() slog.Level {
	Initialize()
	mu.RLock()
	defer mu.RUnlock()
	return logLevel
}

func GetFormat() string {
	Initialize()
	mu.RLock()
	defer mu.RUnlock()
	return logFormat
}

// With returns a logger tagged with a component name.
func With(component string) *slog.Logger {
	return GetLogger().With("component", component)
}

func Debug(msg string, args ...any) {
	GetLogger().Debug(msg, args...)
}

func Info(msg string, args ...any) {
	GetLogger().Info(msg, args...)
}

func Warn(msg string, args ...any) {
	GetLogger().Warn(msg, args...)
}

func Error(msg string, args ...any) {
	GetLogger().Error(msg, args...)
}
