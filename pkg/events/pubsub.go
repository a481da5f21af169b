package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	gcppubsub "cloud.google.com/go/pubsub/v2"
)

type topicPublisher interface {
	Publish(context.Context, *gcppubsub.Message) publishResult
}

type publishResult interface {
	Get(context.Context) (string, error)
}

// PubSubPublisher forwards events to a Cloud Pub/Sub topic for external
// subscribers.
type PubSubPublisher struct {
	topic topicPublisher
}

func NewPubSubPublisher(p *gcppubsub.Publisher) (*PubSubPublisher, error) {
	if p == nil {
		return nil, errors.New("pubsub publisher required")
	}
	return &PubSubPublisher{topic: &gcpTopic{Publisher: p}}, nil
}

func (p *PubSubPublisher) Publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	msg := &gcppubsub.Message{
		Data: payload,
		Attributes: map[string]string{
			"event_id":   event.ID.String(),
			"event_type": string(event.Type),
			"admin_id":   event.AdminID.String(),
		},
	}
	if _, err := p.topic.Publish(ctx, msg).Get(ctx); err != nil {
		return fmt.Errorf("pubsub publish %s: %w", event.Type, err)
	}
	return nil
}

type gcpTopic struct {
	*gcppubsub.Publisher
}

func (t *gcpTopic) Publish(ctx context.Context, msg *gcppubsub.Message) publishResult {
	return t.Publisher.Publish(ctx, msg)
}
