//go:build unit

package logtypes

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func sampleEntry() LogEntry {
	record := NewErrorRecord(errors.New("timeout"))

	return LogEntry{
		Time:          time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Level:         LevelError,
		Message:       "charge failed",
		CorrelationID: "c-1",
		Metadata:      Metadata{"amount": 10.5},
		Error:         &record,
		Extra:         map[string]any{"tenant": "acme", "message": "ignored"},
	}
}

func TestLogEntry_MarshalJSONFlattensExtra(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(sampleEntry())
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"time": "2026-01-02T03:04:05Z",
		"level": "error",
		"message": "charge failed",
		"correlationId": "c-1",
		"metadata": {"amount": 10.5},
		"error": {"name": "*errors.errorString", "message": "timeout", "stack": null},
		"tenant": "acme"
	}`, string(data))
}

func TestLogEntry_MarshalJSONWithoutExtra(t *testing.T) {
	t.Parallel()

	entry := LogEntry{Level: LevelInfo, Message: "ok"}

	data, err := json.Marshal(entry)
	require.NoError(t, err)

	assert.JSONEq(t, `{"time":"0001-01-01T00:00:00Z","level":"info","message":"ok"}`, string(data))
}

func TestLogEntry_UnmarshalJSONCollectsExtra(t *testing.T) {
	t.Parallel()

	var entry LogEntry
	require.NoError(t, json.Unmarshal([]byte(`{
		"time": "2026-01-02T03:04:05Z",
		"level": "warn",
		"message": "slow query",
		"transactionId": "t-9",
		"durationMs": 812,
		"db": {"name": "ledger"}
	}`), &entry))

	assert.Equal(t, LevelWarn, entry.Level)
	assert.Equal(t, "slow query", entry.Message)
	assert.Equal(t, "t-9", entry.TransactionID)
	assert.Nil(t, entry.Error)
	assert.Equal(t, map[string]any{
		"durationMs": json.Number("812"),
		"db":         map[string]any{"name": "ledger"},
	}, entry.Extra)
}

func TestLogEntry_JSONRoundTrip(t *testing.T) {
	t.Parallel()

	original := sampleEntry()

	data, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded LogEntry
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.True(t, original.Time.Equal(decoded.Time))
	assert.Equal(t, original.Message, decoded.Message)
	assert.Equal(t, original.Error, decoded.Error)
	assert.Equal(t, map[string]any{"tenant": "acme"}, decoded.Extra)
}

func TestLogEntry_JSONRoundTripKeepsLargeIntegers(t *testing.T) {
	t.Parallel()

	original := LogEntry{
		Level:   LevelInfo,
		Message: "ledger sequence",
		Extra:   map[string]any{"seq": json.Number("9007199254740993")},
	}

	data, err := json.Marshal(original)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"seq":9007199254740993`)

	var decoded LogEntry
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, json.Number("9007199254740993"), decoded.Extra["seq"])
	assert.True(t, IsJSONSafe(decoded.Extra["seq"]))

	again, err := json.Marshal(decoded)
	require.NoError(t, err)
	assert.Contains(t, string(again), `"seq":9007199254740993`)
}

func TestLogEntry_UnmarshalJSONRejectsBadLevel(t *testing.T) {
	t.Parallel()

	var entry LogEntry
	assert.Error(t, json.Unmarshal([]byte(`{"level":"loud","message":"x"}`), &entry))
}

func TestLogEntry_MarshalLogObject(t *testing.T) {
	t.Parallel()

	enc := zapcore.NewMapObjectEncoder()
	require.NoError(t, sampleEntry().MarshalLogObject(enc))

	assert.Equal(t, "error", enc.Fields["level"])
	assert.Equal(t, "charge failed", enc.Fields["message"])
	assert.Equal(t, "c-1", enc.Fields["correlationId"])
	assert.NotContains(t, enc.Fields, "transactionId")
	assert.Equal(t, "acme", enc.Fields["tenant"])

	errFields, ok := enc.Fields["error"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "timeout", errFields["message"])

	meta, ok := enc.Fields["metadata"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 10.5, meta["amount"])
}
