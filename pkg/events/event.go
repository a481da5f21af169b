package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/threadline/threadline-backend/pkg/enums"
)

// Event is a post-commit change notification for one order or payment.
type Event struct {
	ID          uuid.UUID             `json:"id"`
	Type        enums.ChangeEventType `json:"type"`
	AdminID     uuid.UUID             `json:"adminId"`
	EntityID    uuid.UUID             `json:"entityId"`
	OrderID     uuid.UUID             `json:"orderId"`
	ClientID    *uuid.UUID            `json:"clientId,omitempty"`
	OrderNumber string                `json:"orderNumber,omitempty"`
	OccurredAt  time.Time             `json:"occurredAt"`
	Data        map[string]any        `json:"data,omitempty"`
}

// Publisher delivers events to one destination.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// PublisherFunc adapts a function to Publisher.
type PublisherFunc func(ctx context.Context, event Event) error

func (f PublisherFunc) Publish(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Noop drops every event.
type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }
