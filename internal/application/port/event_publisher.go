package port

import (
	"context"
)

// EventPublisher defines the interface for publishing run-completed events
// to a message broker (Port), so downstream automation (fleet dashboards,
// reboot schedulers) can react without scraping the chat channel.
type EventPublisher interface {
	// Publish sends an event to the given subject. The publish is
	// synchronous: a one-shot process must not exit with events still
	// buffered.
	Publish(ctx context.Context, subject string, event interface{}) error

	// Close closes the connection to the message broker.
	Close() error
}
