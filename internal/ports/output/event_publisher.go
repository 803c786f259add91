package output

import "context"

// EventPublisher interface - Output port
// Emits lifecycle events and operator-facing errors.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}
