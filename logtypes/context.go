package logtypes

import (
	"context"
	"fmt"
	"maps"
	"net/textproto"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

const (
	// DefaultCorrelationHeader carries the correlation identifier across boundaries.
	DefaultCorrelationHeader = "X-Correlation-ID"
	// DefaultTransactionHeader carries the transaction identifier across boundaries.
	DefaultTransactionHeader = "X-Transaction-ID"

	// AttributeCorrelationID is the span attribute key for the correlation identifier.
	AttributeCorrelationID = attribute.Key("correlation.id")
	// AttributeTransactionID is the span attribute key for the transaction identifier.
	AttributeTransactionID = attribute.Key("transaction.id")
)

// ContextSnapshot is the whole request-scoped context a ContextManager tracks.
type ContextSnapshot struct {
	CorrelationID string         `json:"correlationId,omitempty" yaml:"correlationId,omitempty"`
	TransactionID string         `json:"transactionId,omitempty" yaml:"transactionId,omitempty"`
	Values        map[string]any `json:"values,omitempty" yaml:"values,omitempty"`
}

// Clone returns a copy of s whose Values map can be modified independently.
func (s ContextSnapshot) Clone() ContextSnapshot {
	s.Values = maps.Clone(s.Values)
	return s
}

// IsZero reports whether s carries no identifiers and no values.
func (s ContextSnapshot) IsZero() bool {
	return s.CorrelationID == "" && s.TransactionID == "" && len(s.Values) == 0
}

// Attributes returns the identifiers of s as span attributes.
// Values are left out to keep attribute cardinality bounded.
func (s ContextSnapshot) Attributes() []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, 2)

	if s.CorrelationID != "" {
		attrs = append(attrs, AttributeCorrelationID.String(s.CorrelationID))
	}

	if s.TransactionID != "" {
		attrs = append(attrs, AttributeTransactionID.String(s.TransactionID))
	}

	return attrs
}

// ContextManager is the capability set of a context-propagation library.
//
// Contexts are immutable: setters return a derived context and leave ctx
// untouched. Run executes fn with snapshot active and nothing leaks back to
// the caller's ctx once fn returns, whether it succeeds, fails or panics.
type ContextManager interface {
	CorrelationID(ctx context.Context) string
	WithCorrelationID(ctx context.Context, id string) context.Context

	TransactionID(ctx context.Context) string
	WithTransactionID(ctx context.Context, id string) context.Context

	Value(ctx context.Context, key string) (any, bool)
	WithValue(ctx context.Context, key string, value any) context.Context

	Snapshot(ctx context.Context) ContextSnapshot
	WithSnapshot(ctx context.Context, snapshot ContextSnapshot) context.Context
	Clear(ctx context.Context) context.Context

	Run(ctx context.Context, snapshot ContextSnapshot, fn func(context.Context) error) error
}

// ContextConfig configures a ContextManager implementation.
// Unknown keys are kept in Extra for the implementation to interpret.
type ContextConfig struct {
	CorrelationHeader string         `yaml:"correlationHeader"`
	TransactionHeader string         `yaml:"transactionHeader"`
	GenerateIDs       bool           `yaml:"generateIds"`
	Extra             map[string]any `yaml:",inline"`
}

// DefaultContextConfig returns the configuration used when none is supplied.
func DefaultContextConfig() ContextConfig {
	return ContextConfig{
		CorrelationHeader: DefaultCorrelationHeader,
		TransactionHeader: DefaultTransactionHeader,
		GenerateIDs:       true,
	}
}

// Validate checks that both headers are set, distinct and valid header names.
func (c ContextConfig) Validate() error {
	correlation := strings.TrimSpace(c.CorrelationHeader)
	transaction := strings.TrimSpace(c.TransactionHeader)

	if correlation == "" || transaction == "" {
		return fmt.Errorf("%w: correlation and transaction headers are required", ErrInvalidConfig)
	}

	for _, header := range []string{correlation, transaction} {
		if strings.ContainsAny(header, " \t\r\n:") {
			return fmt.Errorf("%w: invalid header name %q", ErrInvalidConfig, header)
		}
	}

	if textproto.CanonicalMIMEHeaderKey(correlation) == textproto.CanonicalMIMEHeaderKey(transaction) {
		return fmt.Errorf("%w: correlation and transaction headers must differ", ErrInvalidConfig)
	}

	return nil
}

// NewCorrelationID returns a fresh random correlation identifier.
func NewCorrelationID() string {
	return uuid.NewString()
}

// NewTransactionID returns a fresh random transaction identifier.
func NewTransactionID() string {
	return uuid.NewString()
}
