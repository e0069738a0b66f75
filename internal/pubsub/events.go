// Package pubsub fans typed events out to any number of subscribers.
//
// The logger publishes every entry through a Broker so the menu can surface
// warnings as toasts while the entries still reach the log file.
package pubsub

import (
	"context"
	"time"
)

// EventType classifies a published event.
type EventType string

const (
	// CreatedEvent announces a new record, such as a log entry.
	CreatedEvent EventType = "created"
	// UpdatedEvent announces a change to an existing record.
	UpdatedEvent EventType = "updated"
	// DeletedEvent announces a removal.
	DeletedEvent EventType = "deleted"
)

// Event is one published payload with its type and publish time.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}

// Subscriber hands out subscription channels.
type Subscriber[T any] interface {
	Subscribe(ctx context.Context) <-chan Event[T]
}

// Publisher publishes typed payloads.
type Publisher[T any] interface {
	Publish(eventType EventType, payload T) int
}

var (
	_ Subscriber[string] = (*Broker[string])(nil)
	_ Publisher[string]  = (*Broker[string])(nil)
)
