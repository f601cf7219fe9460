package logtypes

import (
	"context"
	"slices"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// HeaderValue is a broker header value, either text or binary.
type HeaderValue struct {
	text     string
	binary   []byte
	isBinary bool
}

// StringHeader returns a text header value.
func StringHeader(s string) HeaderValue {
	return HeaderValue{text: s}
}

// BinaryHeader returns a binary header value holding a copy of b.
func BinaryHeader(b []byte) HeaderValue {
	return HeaderValue{binary: slices.Clone(b), isBinary: true}
}

// IsBinary reports whether v was built from bytes.
func (v HeaderValue) IsBinary() bool { return v.isBinary }

// String returns the value as text. Binary values are converted byte for byte.
func (v HeaderValue) String() string {
	if v.isBinary {
		return string(v.binary)
	}

	return v.text
}

// Bytes returns a copy of the value as bytes.
func (v HeaderValue) Bytes() []byte {
	if v.isBinary {
		return slices.Clone(v.binary)
	}

	return []byte(v.text)
}

// BrokerHeaders are the headers attached to a BrokerMessage.
type BrokerHeaders map[string]HeaderValue

// AMQPTable converts h into an AMQP header table. Text values become strings
// and binary values become byte slices, both of which AMQP tables carry natively.
func (h BrokerHeaders) AMQPTable() amqp.Table {
	if h == nil {
		return nil
	}

	table := make(amqp.Table, len(h))

	for key, value := range h {
		if value.IsBinary() {
			table[key] = value.Bytes()
			continue
		}

		table[key] = value.String()
	}

	return table
}

// HeadersFromAMQP converts an AMQP header table into BrokerHeaders.
// Values other than strings and byte slices are kept as their fmt text;
// self-referencing values become a "<cyclic T>" marker.
func HeadersFromAMQP(table amqp.Table) BrokerHeaders {
	if table == nil {
		return nil
	}

	headers := make(BrokerHeaders, len(table))

	for key, value := range table {
		switch v := value.(type) {
		case string:
			headers[key] = StringHeader(v)
		case []byte:
			headers[key] = BinaryHeader(v)
		default:
			headers[key] = StringHeader(stringify(v))
		}
	}

	return headers
}

// BrokerMessage is a message published to or received from a broker topic.
type BrokerMessage struct {
	Key       string
	Value     []byte
	Headers   BrokerHeaders
	Timestamp time.Time
}

// Acknowledger settles a single received message.
// Nack with requeue asks the broker to redeliver it.
type Acknowledger interface {
	Ack(ctx context.Context) error
	Nack(ctx context.Context, requeue bool) error
}

// MessageHandler processes one message delivered by a subscription.
// The handler settles the message through ack.
type MessageHandler func(ctx context.Context, msg BrokerMessage, ack Acknowledger) error

// BrokerAdapter is the capability set of a message broker client.
type BrokerAdapter interface {
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error
	Publish(ctx context.Context, topic string, msg BrokerMessage) error
	Subscribe(ctx context.Context, topic string, handler MessageHandler) error
}
