package mqtt

import (
	"context"
)

// MessageHandler receives a message delivered on a subscribed filter. It runs
// on its own goroutine.
type MessageHandler func(ctx context.Context, topic string, payload []byte)

// Publisher publishes to the broker.
type Publisher interface {
	Publish(ctx context.Context, topic string, qos int, retain bool, payload []byte) error
}

// Client is a reconnecting MQTT v5 session.
type Client interface {
	Publisher

	// Start begins connecting in the background and returns at once.
	Start(ctx context.Context) error

	// Disconnect sends DISCONNECT and stops reconnecting. The will is not
	// published.
	Disconnect(ctx context.Context)

	// Subscribe sends SUBSCRIBE for filter. The filter is re-subscribed after
	// every reconnect, even if this first attempt fails.
	Subscribe(ctx context.Context, filter string, qos int, handler MessageHandler) error

	Unsubscribe(ctx context.Context, filter string) error

	// AwaitConnection blocks until connected or ctx is done.
	AwaitConnection(ctx context.Context) error

	IsConnected() bool
}
