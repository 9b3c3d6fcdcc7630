package events

import "context"

// NoopBus is a Bus that does nothing. Services fall back to it when the event
// bus is unreachable at startup: local writes keep working, no events flow.
type NoopBus struct{}

// Compile-time check that NoopBus implements Bus.
var _ Bus = (*NoopBus)(nil)

func (NoopBus) Publish(ctx context.Context, eventType string, data any) error {
	return nil
}

func (NoopBus) Subscribe(ctx context.Context, queue, eventType string, handler Handler) error {
	return nil
}

func (NoopBus) Close() error {
	return nil
}
