package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Format represents the log output format.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// New creates a slog.Logger writing to the given writers.
func New(level slog.Level, format Format, writers ...io.Writer) *slog.Logger {
	multi := io.MultiWriter(writers...)
	var handler slog.Handler
	switch format {
	case FormatJSON:
		handler = slog.NewJSONHandler(multi, &slog.HandlerOptions{Level: level})
	default:
		handler = slog.NewTextHandler(multi, &slog.HandlerOptions{Level: level})
	}
	return slog.New(handler)
}

// Init builds the default logger, writing to stderr plus an optional file,
// and installs it as the slog default. Logs go to stderr so command output
// on stdout stays machine-parseable.
func Init(level slog.Level, format Format, path string) error {
	writers := []io.Writer{os.Stderr}

	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
		file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return err
		}
		writers = append(writers, file)
	}

	slog.SetDefault(New(level, format, writers...))
	return nil
}

// LevelFromString maps a config level string to a slog.Level.
func LevelFromString(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
