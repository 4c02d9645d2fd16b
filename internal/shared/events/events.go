// Package events carries domain events emitted after a command commits.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	AgrovetCreated  = "agrovet.created"
	AgrovetUpdated  = "agrovet.updated"
	ProductCreated  = "product.created"
	OrderPlaced     = "order.placed"
	FeedbackCreated = "feedback.created"
)

type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	EntityID   uint64    `json:"entityId"`
	OccurredAt time.Time `json:"occurredAt"`
	Payload    any       `json:"payload,omitempty"`
}

func New(eventType string, entityID uint64, occurredAt time.Time, payload any) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		EntityID:   entityID,
		OccurredAt: occurredAt.UTC(),
		Payload:    payload,
	}
}

// Publisher delivers events after the write they describe is durable.
// Delivery is best effort: a failed publish never undoes the write, so
// implementations report failures through their own logging.
type Publisher interface {
	Publish(ctx context.Context, event Event)
}

// Noop drops every event.
type Noop struct{}

func (Noop) Publish(context.Context, Event) {}

// Recorder keeps published events in memory.
type Recorder struct {
	Events []Event
}

func (r *Recorder) Publish(_ context.Context, event Event) {
	r.Events = append(r.Events, event)
}

// Types lists the recorded event types in publish order.
func (r *Recorder) Types() []string {
	types := make([]string, 0, len(r.Events))
	for _, e := range r.Events {
		types = append(types, e.Type)
	}
	return types
}
