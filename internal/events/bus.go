// Package events carries AuthenticatedEvents from the session manager to navigation over an
// in-process watermill pub/sub.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"

	"pknews/client/internal/authsession/domain"
)

// TopicAuthenticated is the topic AuthenticatedEvents are published on.
const TopicAuthenticated = "auth.authenticated"

const outputBuffer = 16

// Sink receives decoded events.
type Sink interface {
	Authenticated(ctx context.Context, ev domain.AuthenticatedEvent)
}

// Bus publishes and consumes AuthenticatedEvents as JSON messages.
type Bus struct {
	pubsub *gochannel.GoChannel
	logger *slog.Logger
}

// NewBus returns a Bus backed by a persistent gochannel, so a subscriber started after the
// event still receives it.
func NewBus(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{
			OutputChannelBuffer:            outputBuffer,
			Persistent:                     true,
			BlockPublishUntilSubscriberAck: false,
		},
		watermill.NewSlogLogger(logger),
	)
	return &Bus{pubsub: pubSub, logger: logger}
}

// Authenticated publishes ev. Publish failures are logged; the caller is never failed.
func (b *Bus) Authenticated(ctx context.Context, ev domain.AuthenticatedEvent) {
	if err := b.Publish(ctx, ev); err != nil {
		b.logger.Error("events: publish authenticated event failed", "event_id", ev.ID, "error", err)
	}
}

// Publish encodes ev and publishes it on TopicAuthenticated.
func (b *Bus) Publish(ctx context.Context, ev domain.AuthenticatedEvent) error {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("events: encode: %w", err)
	}
	msg := message.NewMessage(ev.ID, payload)
	msg.Metadata.Set("event_type", TopicAuthenticated)
	msg.Metadata.Set("method", ev.Method)
	msg.SetContext(context.WithoutCancel(ctx))
	return b.pubsub.Publish(TopicAuthenticated, msg)
}

// Subscribe forwards every event on TopicAuthenticated to sink until ctx ends or the bus is
// closed. Undecodable messages are acked and dropped.
func (b *Bus) Subscribe(ctx context.Context, sink Sink) error {
	msgs, err := b.pubsub.Subscribe(ctx, TopicAuthenticated)
	if err != nil {
		return fmt.Errorf("events: subscribe: %w", err)
	}
	go func() {
		for msg := range msgs {
			var ev domain.AuthenticatedEvent
			if err := json.Unmarshal(msg.Payload, &ev); err != nil {
				b.logger.Warn("events: dropping undecodable message", "message_id", msg.UUID, "error", err)
				msg.Ack()
				continue
			}
			sink.Authenticated(msg.Context(), ev)
			msg.Ack()
		}
	}()
	return nil
}

// Close shuts the pub/sub down and ends all subscriptions.
func (b *Bus) Close() error {
	return b.pubsub.Close()
}
