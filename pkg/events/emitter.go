package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/threadline/threadline-backend/pkg/logger"
)

const defaultPublishTimeout = 5 * time.Second

// Emitter delivers events without ever failing the caller. Delivery errors
// are logged; there is no retry.
type Emitter struct {
	publisher Publisher
	logg      *logger.Logger
	timeout   time.Duration
	now       func() time.Time
}

// NewEmitter wraps publisher. A nil publisher falls back to Noop.
func NewEmitter(publisher Publisher, logg *logger.Logger) *Emitter {
	if publisher == nil {
		publisher = Noop{}
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &Emitter{
		publisher: publisher,
		logg:      logg,
		timeout:   defaultPublishTimeout,
		now:       time.Now,
	}
}

// Emit stamps and publishes event. The caller's cancellation is detached so
// a finished request does not abort delivery.
func (e *Emitter) Emit(ctx context.Context, event Event) {
	if e == nil {
		return
	}
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = e.now().UTC()
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.timeout)
	defer cancel()

	if err := e.publisher.Publish(pubCtx, event); err != nil {
		logCtx := e.logg.WithFields(ctx, map[string]any{
			"event_type": string(event.Type),
			"entity_id":  event.EntityID.String(),
		})
		e.logg.WarnErr(logCtx, "change event delivery failed", err)
	}
}
