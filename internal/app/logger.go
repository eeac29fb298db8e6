package app

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

func checkLogging(level, format string) error {
	if _, ok := logLevels[level]; !ok {
		return fmt.Errorf("invalid log-level %q: must be 'debug', 'info', 'warn', or 'error'", level)
	}
	if format != "text" && format != "json" {
		return fmt.Errorf("invalid log-format %q: must be 'text' or 'json'", format)
	}
	return nil
}

// NewLogger validates level and format and creates an isolated logger
// writing to w. Empty values mean info and text.
func NewLogger(level, format string, w io.Writer) (*slog.Logger, error) {
	level, format = strings.ToLower(level), strings.ToLower(format)
	if level == "" {
		level = "info"
	}
	if format == "" {
		format = "text"
	}
	if err := checkLogging(level, format); err != nil {
		return nil, err
	}
	return newLogger(level, format, w), nil
}

// newLogger creates and configures a new slog.Logger instance. It does not
// set the global logger, allowing for isolated logger instances.
func newLogger(levelStr, formatStr string, outW io.Writer) *slog.Logger {
	level, ok := logLevels[levelStr]
	if !ok {
		level = slog.LevelInfo
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	if formatStr == "json" {
		return slog.New(slog.NewJSONHandler(outW, handlerOpts))
	}
	return slog.New(slog.NewTextHandler(outW, handlerOpts))
}
