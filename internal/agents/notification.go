package agents

import (
	"context"
	"log"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/graphbus/graphbus-starter-project/internal/agent"
	"github.com/graphbus/graphbus-starter-project/internal/bus"
)

var notificationsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{Namespace: "graphbus", Name: "notifications_total", Help: "Notifications dispatched per topic"},
	[]string{"topic"},
)

func init() {
	prometheus.MustRegister(notificationsTotal)
}

// maxRecent bounds the in-memory notification record.
const maxRecent = 100

// Notification reacts to domain events and dispatches user-facing
// notifications. This starter logs them; swap in email or push for
// production. It exposes no operations — it only listens.
type Notification struct {
	agent.Node

	mu     sync.Mutex
	recent []bus.Event
}

func NewNotification(b *bus.Bus) *Notification {
	a := &Notification{}
	a.Node = agent.Attach(b, "notification", []agent.Subscription{
		{Topic: TopicUserRegistered, Handler: a.onUserRegistered},
		{Topic: TopicLoginSucceeded, Handler: a.onLoginSucceeded},
		{Topic: TopicTaskCreated, Handler: a.onTaskCreated},
		{Topic: TopicTaskUpdated, Handler: a.onTaskUpdated},
		{Topic: TopicTaskDeleted, Handler: a.onTaskDeleted},
	})
	return a
}

func (a *Notification) record(e bus.Event) {
	notificationsTotal.WithLabelValues(e.Topic).Inc()
	a.mu.Lock()
	a.recent = append(a.recent, e)
	if len(a.recent) > maxRecent {
		a.recent = a.recent[len(a.recent)-maxRecent:]
	}
	a.mu.Unlock()
}

// Recent returns a snapshot of the notifications observed so far,
// oldest first.
func (a *Notification) Recent() []bus.Event {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]bus.Event(nil), a.recent...)
}

func (a *Notification) onUserRegistered(ctx context.Context, e bus.Event) error {
	a.record(e)
	log.Printf("NOTIFICATION: Welcome %v (%v)! Your account has been created.", e.Payload["name"], e.Payload["email"])
	return nil
}

func (a *Notification) onLoginSucceeded(ctx context.Context, e bus.Event) error {
	a.record(e)
	log.Printf("NOTIFICATION: User %v logged in successfully.", e.Payload["email"])
	return nil
}

func (a *Notification) onTaskCreated(ctx context.Context, e bus.Event) error {
	a.record(e)
	log.Printf("NOTIFICATION: Task %q created for user %v.", e.Payload["title"], e.Payload["user_id"])
	return nil
}

func (a *Notification) onTaskUpdated(ctx context.Context, e bus.Event) error {
	a.record(e)
	log.Printf("NOTIFICATION: Task %v updated (done=%v).", e.Payload["task_id"], e.Payload["done"])
	return nil
}

func (a *Notification) onTaskDeleted(ctx context.Context, e bus.Event) error {
	a.record(e)
	log.Printf("NOTIFICATION: Task %v deleted by user %v.", e.Payload["task_id"], e.Payload["user_id"])
	return nil
}
