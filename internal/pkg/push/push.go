// Package push sends broadcast push notifications to every subscribed device.
package push

import (
	"context"
	"fmt"
)

// Message is one broadcast notification
type Message struct {
	Heading string
	Content string
	URL     string
	Data    map[string]any
}

// Broadcaster delivers a message to all subscribers
type Broadcaster interface {
	NotifyAll(ctx context.Context, msg Message) error
}

// StatusError is returned for non-2xx provider responses
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("push provider returned status %d: %s", e.StatusCode, e.Body)
}

// Retryable reports whether the provider failure is on its side
func (e *StatusError) Retryable() bool {
	return e.StatusCode == 429 || e.StatusCode >= 500
}

// Noop discards every message; used when push is disabled
type Noop struct{}

// NotifyAll does nothing
func (Noop) NotifyAll(context.Context, Message) error { return nil }
