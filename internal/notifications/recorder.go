package notifications

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/threadline/threadline-backend/pkg/db/models"
	"github.com/threadline/threadline-backend/pkg/enums"
	"github.com/threadline/threadline-backend/pkg/events"
	"github.com/threadline/threadline-backend/pkg/logger"
)

type creator interface {
	Create(ctx context.Context, notification *models.Notification) error
}

// Recorder turns change events into activity feed rows for the admin.
type Recorder struct {
	repo creator
	logg *logger.Logger
	now  func() time.Time
}

// NewRecorder builds an activity feed recorder.
func NewRecorder(repo creator, logg *logger.Logger) (*Recorder, error) {
	if repo == nil {
		return nil, fmt.Errorf("notifications repository required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &Recorder{repo: repo, logg: logg, now: time.Now}, nil
}

// Publish implements events.Publisher.
func (r *Recorder) Publish(ctx context.Context, event events.Event) error {
	if event.AdminID == uuid.Nil {
		return fmt.Errorf("admin id missing")
	}
	title, message, ok := describe(event)
	if !ok {
		r.logg.Info(r.logg.WithField(ctx, "event_type", string(event.Type)), "event not recorded")
		return nil
	}

	notification := &models.Notification{
		ID:        uuid.New(),
		AdminID:   event.AdminID,
		Type:      event.Type,
		Title:     title,
		Message:   strings.TrimSpace(message),
		Link:      linkFor(event),
		CreatedAt: r.now().UTC(),
	}
	return r.repo.Create(ctx, notification)
}

func describe(event events.Event) (string, string, bool) {
	label := event.OrderNumber
	if label == "" {
		label = event.OrderID.String()
	}
	switch event.Type {
	case enums.EventOrderCreated:
		return "Order created", fmt.Sprintf("Order %s was created.", label), true
	case enums.EventOrderUpdated:
		if status, ok := event.Data["status"].(string); ok && status != "" {
			return "Order status changed", fmt.Sprintf("Order %s is now %s.", label, status), true
		}
		return "Order updated", fmt.Sprintf("Order %s was updated.", label), true
	case enums.EventOrderDeleted:
		return "Order deleted", fmt.Sprintf("Order %s was deleted.", label), true
	case enums.EventPaymentAdded:
		msg := fmt.Sprintf("A payment was recorded on order %s.", label)
		if amount, ok := event.Data["amount"].(string); ok {
			msg = fmt.Sprintf("Payment of %s recorded on order %s.", amount, label)
		}
		if paid, _ := event.Data["isFullyPaid"].(bool); paid {
			msg += " The order is fully paid."
		}
		return "Payment received", msg, true
	case enums.EventPaymentDeleted:
		msg := fmt.Sprintf("A payment was removed from order %s.", label)
		if amount, ok := event.Data["amount"].(string); ok {
			msg = fmt.Sprintf("Payment of %s removed from order %s.", amount, label)
		}
		return "Payment removed", msg, true
	default:
		return "", "", false
	}
}

func linkFor(event events.Event) *string {
	if event.Type == enums.EventOrderDeleted || event.OrderID == uuid.Nil {
		return nil
	}
	link := fmt.Sprintf("/orders/%s", event.OrderID)
	return &link
}
