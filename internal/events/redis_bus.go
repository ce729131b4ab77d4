package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("events")

// RedisBus fans events out to every service instance through Redis Pub/Sub.
type RedisBus struct {
	rdb *redis.Client
}

// NewRedisBus creates a Bus backed by Redis Pub/Sub on EventsChannel.
func NewRedisBus(rdb *redis.Client) *RedisBus {
	return &RedisBus{rdb: rdb}
}

// Publish encodes and publishes the event.
func (b *RedisBus) Publish(ctx context.Context, event Event) error {
	ctx, span := tracer.Start(ctx, "RedisBus.Publish", trace.WithAttributes(
		attribute.String("event.type", event.Type),
		attribute.String("reader.id", event.ReaderID),
	))
	defer span.End()

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if err := b.rdb.Publish(ctx, EventsChannel, data).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

// Subscribe listens on EventsChannel until ctx is done.
func (b *RedisBus) Subscribe(ctx context.Context) (<-chan Event, error) {
	pubsub := b.rdb.Subscribe(ctx, EventsChannel)
	// Wait for the subscription confirmation so no event published after
	// Subscribe returns is missed.
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", EventsChannel, err)
	}

	out := make(chan Event)
	go func() {
		defer close(out)
		defer pubsub.Close()

		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var event Event
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					slog.WarnContext(ctx, "dropping undecodable event", "error", err)
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
