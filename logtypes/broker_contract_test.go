//go:build unit

package logtypes_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/LerianStudio/lib-logtypes/logtypes"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingAcker stands in for an AMQP channel and records settlements.
type recordingAcker struct {
	mu      sync.Mutex
	acked   []uint64
	nacked  []uint64
	requeue []bool
}

func (r *recordingAcker) Ack(tag uint64, _ bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.acked = append(r.acked, tag)

	return nil
}

func (r *recordingAcker) Nack(tag uint64, _ bool, requeue bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nacked = append(r.nacked, tag)
	r.requeue = append(r.requeue, requeue)

	return nil
}

func (r *recordingAcker) Reject(tag uint64, requeue bool) error {
	return r.Nack(tag, false, requeue)
}

// deliveryAck settles one amqp.Delivery through the Acknowledger contract.
type deliveryAck struct {
	delivery amqp.Delivery
}

var _ logtypes.Acknowledger = deliveryAck{}

func (d deliveryAck) Ack(context.Context) error { return d.delivery.Ack(false) }

func (d deliveryAck) Nack(_ context.Context, requeue bool) error {
	return d.delivery.Nack(false, requeue)
}

// memoryBroker shows that the BrokerAdapter contract can be met by an
// in-process fan-out, settling through AMQP deliveries.
type memoryBroker struct {
	mu        sync.Mutex
	connected bool
	tag       uint64
	acker     *recordingAcker
	handlers  map[string][]logtypes.MessageHandler
}

var _ logtypes.BrokerAdapter = (*memoryBroker)(nil)

var errNotConnected = errors.New("broker not connected")

func newMemoryBroker() *memoryBroker {
	return &memoryBroker{acker: &recordingAcker{}, handlers: map[string][]logtypes.MessageHandler{}}
}

func (b *memoryBroker) Connect(context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.connected = true

	return nil
}

func (b *memoryBroker) Disconnect(context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.connected = false

	return nil
}

func (b *memoryBroker) Subscribe(_ context.Context, topic string, handler logtypes.MessageHandler) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.connected {
		return errNotConnected
	}

	b.handlers[topic] = append(b.handlers[topic], handler)

	return nil
}

func (b *memoryBroker) Publish(ctx context.Context, topic string, msg logtypes.BrokerMessage) error {
	b.mu.Lock()
	if !b.connected {
		b.mu.Unlock()
		return errNotConnected
	}

	handlers := append([]logtypes.MessageHandler(nil), b.handlers[topic]...)
	b.mu.Unlock()

	for _, handler := range handlers {
		b.mu.Lock()
		b.tag++
		delivery := amqp.Delivery{
			Acknowledger: b.acker,
			DeliveryTag:  b.tag,
			Headers:      msg.Headers.AMQPTable(),
			Body:         msg.Value,
			Timestamp:    msg.Timestamp,
		}
		b.mu.Unlock()

		received := logtypes.BrokerMessage{
			Key:       msg.Key,
			Value:     delivery.Body,
			Headers:   logtypes.HeadersFromAMQP(delivery.Headers),
			Timestamp: delivery.Timestamp,
		}

		if err := handler(ctx, received, deliveryAck{delivery: delivery}); err != nil {
			return err
		}
	}

	return nil
}

func TestBrokerAdapterContract_PublishSubscribe(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	broker := newMemoryBroker()

	require.ErrorIs(t, broker.Publish(ctx, "logs", logtypes.BrokerMessage{}), errNotConnected)
	require.NoError(t, broker.Connect(ctx))

	var got []logtypes.BrokerMessage

	require.NoError(t, broker.Subscribe(ctx, "logs", func(_ context.Context, msg logtypes.BrokerMessage, ack logtypes.Acknowledger) error {
		got = append(got, msg)

		if string(msg.Value) == "poison" {
			return ack.Nack(ctx, false)
		}

		if string(msg.Value) == "retry" {
			return ack.Nack(ctx, true)
		}

		return ack.Ack(ctx)
	}))

	sent := logtypes.BrokerMessage{
		Key:       "k-1",
		Value:     []byte(`{"message":"hello"}`),
		Headers:   logtypes.BrokerHeaders{"correlation-id": logtypes.StringHeader("c-1")},
		Timestamp: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
	}

	require.NoError(t, broker.Publish(ctx, "logs", sent))
	require.NoError(t, broker.Publish(ctx, "logs", logtypes.BrokerMessage{Value: []byte("retry")}))
	require.NoError(t, broker.Publish(ctx, "logs", logtypes.BrokerMessage{Value: []byte("poison")}))
	require.NoError(t, broker.Publish(ctx, "other", logtypes.BrokerMessage{Value: []byte("unheard")}))

	require.Len(t, got, 3)
	assert.Equal(t, sent, got[0])

	assert.Equal(t, []uint64{1}, broker.acker.acked)
	assert.Equal(t, []uint64{2, 3}, broker.acker.nacked)
	assert.Equal(t, []bool{true, false}, broker.acker.requeue)

	require.NoError(t, broker.Disconnect(ctx))
	assert.ErrorIs(t, broker.Subscribe(ctx, "logs", nil), errNotConnected)
}
