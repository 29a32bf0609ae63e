// Package agent holds the base behavior shared by every GraphBus
// agent: a declared subscription table that is registered with the bus
// exactly once at construction, and a publish helper.
package agent

import (
	"context"

	"github.com/graphbus/graphbus-starter-project/internal/bus"
)

// Subscription declares one (topic, handler) binding. Agents list
// their subscriptions as an explicit table in their constructors —
// compile-time visible, no runtime introspection.
type Subscription struct {
	Topic   string
	Handler bus.Handler
}

// Node is embedded by every agent. It carries a non-owning reference
// to the process-wide bus.
type Node struct {
	name string
	bus  *bus.Bus
}

// Attach wires an agent onto the bus, registering each declared
// subscription under the agent's name. Called once, from the agent's
// constructor; subscriptions live for the process lifetime.
func Attach(b *bus.Bus, name string, subs []Subscription) Node {
	for _, s := range subs {
		b.Subscribe(s.Topic, name, s.Handler)
	}
	return Node{name: name, bus: b}
}

// Name returns the agent's registered name.
func (n Node) Name() string { return n.name }

// Publish emits a domain event onto the bus. Delivery is synchronous
// and fail-fast; the returned error, if any, is a *bus.HandlerError.
func (n Node) Publish(ctx context.Context, topic string, payload map[string]any) error {
	return n.bus.Publish(ctx, topic, payload)
}
