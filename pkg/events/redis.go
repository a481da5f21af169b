package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	redisclient "github.com/threadline/threadline-backend/pkg/redis"
)

type channelPublisher interface {
	Publish(ctx context.Context, channel string, message any) error
}

// RedisBroadcaster publishes events on a per-admin channel for realtime
// gateways.
type RedisBroadcaster struct {
	client channelPublisher
}

func NewRedisBroadcaster(client channelPublisher) (*RedisBroadcaster, error) {
	if client == nil {
		return nil, errors.New("redis client required")
	}
	return &RedisBroadcaster{client: client}, nil
}

func (b *RedisBroadcaster) Publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	channel := redisclient.EventsChannel(event.AdminID.String())
	if err := b.client.Publish(ctx, channel, payload); err != nil {
		return fmt.Errorf("broadcast %s: %w", event.Type, err)
	}
	return nil
}
