package logtypes

import (
	"go.uber.org/zap/zapcore"
)

// Metadata is the structured part of a log call.
type Metadata map[string]any

// Merge returns a new Metadata holding m overlaid with other.
// Keys in other win. Neither input is modified.
func (m Metadata) Merge(other Metadata) Metadata {
	merged := make(Metadata, len(m)+len(other))

	for k, v := range m {
		merged[k] = v
	}

	for k, v := range other {
		merged[k] = v
	}

	return merged
}

// MarshalLogObject implements zapcore.ObjectMarshaler. Error values are
// encoded through NormalizeError so they keep name, message and stack.
func (m Metadata) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	for _, key := range sortedKeys(m) {
		if err := addField(enc, key, m[key]); err != nil {
			return err
		}
	}

	return nil
}

func addField(enc zapcore.ObjectEncoder, key string, value any) error {
	switch v := value.(type) {
	case zapcore.ObjectMarshaler:
		return enc.AddObject(key, v)
	case error:
		return enc.AddReflected(key, NormalizeError(v))
	default:
		return enc.AddReflected(key, v)
	}
}

// Logger is the capability set of a leveled structured logger.
//
// Each level accepts a message with optional format arguments, or, through
// its Fields variant, leading metadata followed by the message. Formatting
// follows fmt.Sprintf when args are present.
//
//	logger.Info("user %s signed in", userID)
//	logger.InfoFields(logtypes.Metadata{"user_id": userID}, "signed in")
type Logger interface {
	Trace(msg string, args ...any)
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Fatal(msg string, args ...any)

	TraceFields(fields Metadata, msg string, args ...any)
	DebugFields(fields Metadata, msg string, args ...any)
	InfoFields(fields Metadata, msg string, args ...any)
	WarnFields(fields Metadata, msg string, args ...any)
	ErrorFields(fields Metadata, msg string, args ...any)
	FatalFields(fields Metadata, msg string, args ...any)

	// Child returns a logger that adds bindings to every entry it writes.
	// The receiver is left unchanged.
	Child(bindings Metadata) Logger
}
