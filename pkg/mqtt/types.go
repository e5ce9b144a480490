package mqtt

import "context"

// Publisher is the part of a client an alarm mirror needs. Publish fails
// fast while the broker is unreachable; callers are expected to check
// IsConnected and skip rather than queue.
type Publisher interface {
	Publish(ctx context.Context, topic string, qos int, retain bool, payload []byte) error
	IsConnected() bool
}

// Client is a publish-only MQTT client with a managed connection.
type Client interface {
	Publisher

	// Start launches the connection manager and returns without waiting for
	// the first CONNACK. Reconnects happen in the background.
	Start(ctx context.Context) error

	// Disconnect publishes the offline status (if configured) and closes the
	// connection.
	Disconnect(ctx context.Context)
}
