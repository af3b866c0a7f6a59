// Package redis carries lifecycle events over a Redis pub/sub channel.
package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/civicfix/civicback/models"
	"go.uber.org/zap"
)

type EventBus struct {
	client  RedisClient
	channel string
	logger  *zap.Logger
}

func NewEventBus(client RedisClient, channel string, logger *zap.Logger) *EventBus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventBus{client: client, channel: channel, logger: logger.Named("events")}
}

func (b *EventBus) Publish(ctx context.Context, event models.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	if err := b.client.Publish(ctx, b.channel, payload); err != nil {
		return fmt.Errorf("failed to publish %s: %w", event.Type, err)
	}
	b.logger.Debug("event published", zap.String("type", string(event.Type)))
	return nil
}

// Subscribe streams decoded events until ctx is done. The returned channel
// is closed when the subscription ends. Malformed payloads are skipped.
func (b *EventBus) Subscribe(ctx context.Context) (<-chan models.Event, error) {
	sub := b.client.Subscribe(ctx, b.channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", b.channel, err)
	}

	out := make(chan models.Event)
	go func() {
		defer close(out)
		defer sub.Close()

		messages := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}
				var event models.Event
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					b.logger.Warn("dropping malformed event", zap.Error(err))
					continue
				}
				select {
				case out <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
