package logtypes

import (
	"encoding/json"
	"slices"
	"time"

	"go.uber.org/zap/zapcore"
)

// LogEntry is a single structured log record as it leaves a logger.
//
// Keys outside the fixed set live in Extra and are flattened beside the
// fixed keys when the entry is encoded. A fixed key always wins over an Extra
// key of the same name.
type LogEntry struct {
	Time          time.Time      `json:"time"`
	Level         Level          `json:"level"`
	Message       string         `json:"message"`
	CorrelationID string         `json:"correlationId,omitempty"`
	TransactionID string         `json:"transactionId,omitempty"`
	Metadata      Metadata       `json:"metadata,omitempty"`
	Error         *ErrorRecord   `json:"error,omitempty"`
	Extra         map[string]any `json:"-"`
}

var logEntryKeys = []string{
	"time", "level", "message", "correlationId", "transactionId", "metadata", "error",
}

type logEntryFields LogEntry

// MarshalJSON implements json.Marshaler.
func (e LogEntry) MarshalJSON() ([]byte, error) {
	return marshalOpen(logEntryFields(e), e.Extra, logEntryKeys)
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *LogEntry) UnmarshalJSON(data []byte) error {
	var fields logEntryFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	extra, err := unmarshalExtra(data, logEntryKeys)
	if err != nil {
		return err
	}

	*e = LogEntry(fields)
	e.Extra = extra

	return nil
}

// MarshalLogObject implements zapcore.ObjectMarshaler.
func (e LogEntry) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddTime("time", e.Time)
	enc.AddString("level", e.Level.String())
	enc.AddString("message", e.Message)

	if e.CorrelationID != "" {
		enc.AddString("correlationId", e.CorrelationID)
	}

	if e.TransactionID != "" {
		enc.AddString("transactionId", e.TransactionID)
	}

	if len(e.Metadata) > 0 {
		if err := enc.AddObject("metadata", e.Metadata); err != nil {
			return err
		}
	}

	if e.Error != nil {
		if err := enc.AddObject("error", *e.Error); err != nil {
			return err
		}
	}

	for _, key := range sortedKeys(e.Extra) {
		if slices.Contains(logEntryKeys, key) {
			continue
		}

		if err := addField(enc, key, e.Extra[key]); err != nil {
			return err
		}
	}

	return nil
}
