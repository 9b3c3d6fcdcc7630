package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// NATSBus is a durable event bus backed by NATS JetStream. Connect declares
// the shared stream; Publish sends persistent JSON envelopes under the event
// type as subject; Subscribe binds durable consumers.
//
// The bus does not reconnect: a dropped connection leaves the owning service
// in degraded mode (publishes fail and are swallowed upstream, subscriptions
// go quiet) until the process is restarted.
type NATSBus struct {
	conn   *nats.Conn
	js     jetstream.JetStream
	stream jetstream.Stream
	source string

	mu       sync.Mutex
	consumes []jetstream.ConsumeContext
}

// Compile-time check that NATSBus implements Bus.
var _ Bus = (*NATSBus)(nil)

// Connect establishes the bus connection for the named source service and
// declares the shared durable stream. It must succeed before any publish or
// subscribe call is accepted.
func Connect(ctx context.Context, url, source string) (*NATSBus, error) {
	nc, err := nats.Connect(url,
		nats.MaxReconnects(0),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			slog.Warn("event bus disconnected", "error", err)
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			slog.Warn("event bus connection closed; degraded until restart")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS at %s: %w", url, err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("creating JetStream context: %w", err)
	}

	stream, err := js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     StreamName,
		Subjects: Subjects,
		Storage:  jetstream.FileStorage,
	})
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("declaring stream %s: %w", StreamName, err)
	}

	return &NATSBus{conn: nc, js: js, stream: stream, source: source}, nil
}

// Publish wraps data into an Envelope and sends it under eventType. The
// message is persisted by the stream before the call returns. Callers on
// write paths treat the returned error as log-and-continue.
func (b *NATSBus) Publish(ctx context.Context, eventType string, data any) error {
	env, err := NewEnvelope(b.source, eventType, data)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshaling envelope: %w", err)
	}
	if _, err := b.js.Publish(ctx, eventType, payload); err != nil {
		return fmt.Errorf("publishing %s: %w", eventType, err)
	}
	return nil
}

// Subscribe declares a durable consumer named queue filtered to eventType and
// invokes handler for each delivered envelope. Handler success acknowledges
// the message; handler failure terminates it without redelivery.
func (b *NATSBus) Subscribe(ctx context.Context, queue, eventType string, handler Handler) error {
	cons, err := b.stream.CreateOrUpdateConsumer(ctx, jetstream.ConsumerConfig{
		Durable:       queue,
		FilterSubject: eventType,
		AckPolicy:     jetstream.AckExplicitPolicy,
	})
	if err != nil {
		return fmt.Errorf("declaring consumer %s: %w", queue, err)
	}

	cc, err := cons.Consume(func(msg jetstream.Msg) {
		var env Envelope
		if err := json.Unmarshal(msg.Data(), &env); err != nil {
			slog.Error("dropping undecodable event", "queue", queue, "error", err)
			_ = msg.Term()
			return
		}
		if err := handler(ctx, env); err != nil {
			slog.Error("event handler failed; dropping message",
				"queue", queue,
				"type", env.Type,
				"event_id", env.EventID,
				"error", err,
			)
			_ = msg.Term()
			return
		}
		_ = msg.Ack()
	})
	if err != nil {
		return fmt.Errorf("consuming from %s: %w", queue, err)
	}

	b.mu.Lock()
	b.consumes = append(b.consumes, cc)
	b.mu.Unlock()

	slog.Info("subscribed to events", "queue", queue, "type", eventType)
	return nil
}

// Close stops all consumers and releases the connection. Best-effort: never
// returns an error during shutdown.
func (b *NATSBus) Close() error {
	b.mu.Lock()
	for _, cc := range b.consumes {
		cc.Stop()
	}
	b.consumes = nil
	b.mu.Unlock()

	b.conn.Close()
	return nil
}
