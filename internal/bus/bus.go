// Package bus is the in-process publish/subscribe engine that wires
// the agents together. Topics are hierarchical strings like
// "/Auth/UserRegistered"; delivery is synchronous, in registration
// order, on the publisher's goroutine. In production graphbus-core
// swaps this for a distributed transport — the API stays identical.
package bus

import (
	"context"
	"fmt"
	"time"
)

// Event is a published message: a topic plus a loosely typed payload.
// Events are transient — they exist only for the duration of delivery
// and are never persisted.
type Event struct {
	Topic     string
	Payload   map[string]any
	Timestamp time.Time
}

// Handler reacts to a delivered event. A non-nil error aborts delivery
// to the remaining subscribers and surfaces to the publisher.
type Handler func(ctx context.Context, e Event) error

// HandlerError reports a subscriber failure back to the publisher.
type HandlerError struct {
	Topic      string
	Subscriber string
	Err        error
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("bus: handler %q failed on %s: %v", e.Subscriber, e.Topic, e.Err)
}

func (e *HandlerError) Unwrap() error { return e.Err }

// Bus dispatches published events to registered subscribers. One Bus
// is constructed at bootstrap and handed by reference to every agent;
// agents never construct their own.
type Bus struct {
	registry *Registry
}

func New() *Bus {
	return &Bus{registry: NewRegistry()}
}

// Subscribe registers a handler for a topic under the subscriber's
// name. Called from agent constructors only; there is no unsubscribe.
func (b *Bus) Subscribe(topic, subscriberName string, h Handler) {
	b.registry.Register(topic, subscriberName, h)
}

// Publish delivers payload to every subscriber of topic, sequentially
// and in registration order, on the calling goroutine. Delivery is
// fail-fast: the first handler error stops the fan-out and is returned
// as a *HandlerError; subscribers after the failing one never run.
// A topic with no subscribers is a no-op, not a failure.
func (b *Bus) Publish(ctx context.Context, topic string, payload map[string]any) error {
	e := Event{Topic: topic, Payload: payload, Timestamp: time.Now()}
	subs := b.registry.Lookup(topic)
	publishTotal.WithLabelValues(topic).Inc()
	for _, s := range subs {
		if err := s.handler(ctx, e); err != nil {
			deliveryFailures.WithLabelValues(topic, s.name).Inc()
			return &HandlerError{Topic: topic, Subscriber: s.name, Err: err}
		}
	}
	return nil
}
