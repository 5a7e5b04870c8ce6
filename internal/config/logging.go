package config

import (
	"log/slog"
	"strings"
)

// LogLevel enumerates supported logging levels.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

var logLevels = map[string]LogLevel{
	"debug":   LogLevelDebug,
	"info":    LogLevelInfo,
	"warn":    LogLevelWarn,
	"warning": LogLevelWarn,
	"error":   LogLevelError,
}

// NormalizeLogLevel maps raw input to a LogLevel, falling back to info.
func NormalizeLogLevel(raw string) LogLevel {
	if l, ok := logLevels[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return l
	}
	return LogLevelInfo
}

// SlogLevel converts to the slog equivalent.
func (l LogLevel) SlogLevel() slog.Level {
	switch l {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LogFormat enumerates supported log output formats.
type LogFormat string

const (
	LogFormatJSON LogFormat = "json"
	LogFormatText LogFormat = "text"
)

func NormalizeLogFormat(raw string) LogFormat {
	if strings.EqualFold(strings.TrimSpace(raw), string(LogFormatJSON)) {
		return LogFormatJSON
	}
	return LogFormatText
}
