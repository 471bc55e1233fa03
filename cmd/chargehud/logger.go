package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// LogLevel is one of the -log-level / logging.level values.
type LogLevel string

const (
	LogLevelError LogLevel = "error"
	LogLevelWarn  LogLevel = "warn"
	LogLevelInfo  LogLevel = "info"
	LogLevelDebug LogLevel = "debug"
)

var slogLevels = map[LogLevel]slog.Level{
	LogLevelError: slog.LevelError,
	LogLevelWarn:  slog.LevelWarn,
	LogLevelInfo:  slog.LevelInfo,
	LogLevelDebug: slog.LevelDebug,
}

// parseLogLevel accepts the level names case-insensitively, plus "warning".
func parseLogLevel(level string) (LogLevel, error) {
	l := LogLevel(strings.ToLower(level))
	if l == "warning" {
		l = LogLevelWarn
	}
	if _, ok := slogLevels[l]; !ok {
		return "", fmt.Errorf("invalid log level: %s (must be error, warn, info, or debug)", level)
	}
	return l, nil
}

func (l LogLevel) slogLevel() slog.Level {
	if lv, ok := slogLevels[l]; ok {
		return lv
	}
	return slog.LevelInfo
}

// logTimeFormat is millisecond resolution; one sampler tick is ~4.2ms.
const logTimeFormat = "15:04:05.000"

// setupLogger creates a text slog logger writing to w.
// Per-tick sampler activity is only ever logged at debug.
func setupLogger(level LogLevel, w io.Writer) *slog.Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level.slogLevel(),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 && a.Value.Kind() == slog.KindTime {
				a.Value = slog.StringValue(a.Value.Time().Format(logTimeFormat))
			}
			return a
		},
	})
	return slog.New(handler).With("app", "chargehud")
}
