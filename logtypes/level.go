package logtypes

import (
	"fmt"
	"strings"

	otellog "go.opentelemetry.io/otel/log"
	"go.uber.org/zap/zapcore"
)

// Level is the severity of a log entry. Higher values are more severe.
type Level int8

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

// String returns the lowercase name of the level.
func (l Level) String() string {
	switch l {
	case LevelTrace:
		return "trace"
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	case LevelFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// ParseLevel takes a level name, case-insensitively, and returns its Level.
func ParseLevel(lvl string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(lvl)) {
	case "trace":
		return LevelTrace, nil
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	case "fatal":
		return LevelFatal, nil
	}

	var l Level

	return l, fmt.Errorf("not a valid Level: %q", lvl)
}

// Enabled reports whether an entry at l passes a logger configured at threshold.
func (l Level) Enabled(threshold Level) bool {
	return l >= threshold
}

// MarshalText implements encoding.TextMarshaler.
func (l Level) MarshalText() ([]byte, error) {
	if l < LevelTrace || l > LevelFatal {
		return nil, fmt.Errorf("not a valid Level: %d", l)
	}

	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Level) UnmarshalText(text []byte) error {
	parsed, err := ParseLevel(string(text))
	if err != nil {
		return err
	}

	*l = parsed

	return nil
}

// ZapLevel maps l onto zap. zap has no trace level, so trace becomes debug.
func (l Level) ZapLevel() zapcore.Level {
	switch l {
	case LevelTrace, LevelDebug:
		return zapcore.DebugLevel
	case LevelInfo:
		return zapcore.InfoLevel
	case LevelWarn:
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	case LevelFatal:
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

// Severity maps l onto the OpenTelemetry log data model.
func (l Level) Severity() otellog.Severity {
	switch l {
	case LevelTrace:
		return otellog.SeverityTrace
	case LevelDebug:
		return otellog.SeverityDebug
	case LevelInfo:
		return otellog.SeverityInfo
	case LevelWarn:
		return otellog.SeverityWarn
	case LevelError:
		return otellog.SeverityError
	case LevelFatal:
		return otellog.SeverityFatal
	default:
		return otellog.SeverityUndefined
	}
}
