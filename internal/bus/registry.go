package bus

import "sync"

// subscription binds a handler to the name of the agent that owns it.
// The name only shows up in logs and HandlerError; dispatch ignores it.
type subscription struct {
	name    string
	handler Handler
}

// Registry maps topic names to their ordered subscriber lists.
// Registration happens during bootstrap, before the server accepts
// traffic; after that the registry is read-only and publishes take a
// snapshot under a read lock.
type Registry struct {
	mu   sync.RWMutex
	subs map[string][]subscription
}

func NewRegistry() *Registry {
	return &Registry{subs: map[string][]subscription{}}
}

// Register appends the handler to the topic's list, creating the list
// if absent. Registering the same handler twice yields two entries and
// therefore two deliveries per publish — no deduplication.
func (r *Registry) Register(topic, subscriberName string, h Handler) {
	r.mu.Lock()
	r.subs[topic] = append(r.subs[topic], subscription{name: subscriberName, handler: h})
	r.mu.Unlock()
}

// Lookup returns a snapshot of the topic's subscriptions in
// registration order. Unknown topics yield an empty slice.
// Exact match only — no wildcard or prefix expansion.
func (r *Registry) Lookup(topic string) []subscription {
	r.mu.RLock()
	hs := append([]subscription(nil), r.subs[topic]...)
	r.mu.RUnlock()
	return hs
}
